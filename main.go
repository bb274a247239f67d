package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "library-backend/docs"
	"library-backend/internal/borrowing"
	"library-backend/internal/catalog"
	"library-backend/internal/dashboard"
	"library-backend/internal/membership"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/config"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/httpmw"
)

// @title        Library Management API
// @version      1.0
// @description  REST API for managing a book catalog, memberships and borrowings.
// @BasePath     /api/v1
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(err)
	}
	log.Printf("[INFO] mode:%s\n", cfg.Server.Mode)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), httpmw.RequestID())
	_ = r.SetTrustedProxies(nil)

	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secret := []byte(cfg.JWT.Secret)

	catalogSvc := catalog.NewService(conn)
	membershipSvc := membership.NewService(conn, cfg.JWT)
	borrowingSvc := borrowing.NewService(conn)
	dashboardSvc := dashboard.NewService(conn)

	// Browsing is public; everything else requires a valid token.
	api := r.Group("/api/v1")
	api.Use(auth.OptionalAuth(secret))
	catalog.RegisterPublicRoutes(api, catalogSvc)
	membership.RegisterAuthRoutes(api, membershipSvc)

	authed := r.Group("/api/v1")
	authed.Use(auth.RequireAuth(secret))
	catalog.RegisterLibrarianRoutes(authed, catalogSvc)
	membership.RegisterUserRoutes(authed, membershipSvc)
	borrowing.RegisterRoutes(authed, borrowingSvc)
	dashboard.RegisterRoutes(authed, dashboardSvc)

	// Background sweep keeps overdue statuses current between explicit
	// sweep calls.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweeper(sweepCtx, borrowingSvc, time.Duration(cfg.Sweep.IntervalMinutes)*time.Minute)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Server.Cert != "" && cfg.Server.Key != "" {
			log.Printf("[INFO] listening on https://%s", cfg.Server.Addr)
			err = srv.ListenAndServeTLS(cfg.Server.Cert, cfg.Server.Key)
		} else {
			log.Printf("[INFO] listening on http://%s", cfg.Server.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

func runSweeper(ctx context.Context, svc *borrowing.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.SweepOverdue(ctx)
			if err != nil {
				log.Printf("[ERROR] overdue sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[INFO] overdue sweep marked %d borrowing(s)", n)
			}
		}
	}
}
