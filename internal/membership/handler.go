package membership

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/domerr"
)

type Handler struct{ svc *Service }

// RegisterAuthRoutes wires the public authentication endpoints.
func RegisterAuthRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
}

// RegisterUserRoutes wires the authenticated user endpoints.
func RegisterUserRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/auth/me", h.Me)
	r.DELETE("/auth/logout", h.Logout)

	r.GET("/users", auth.RequireRole(auth.RoleLibrarian), h.List)
	r.GET("/users/:id", h.Get)
	r.PATCH("/users/:id", h.Update)
	r.DELETE("/users/:id", auth.RequireRole(auth.RoleLibrarian), h.Delete)
	r.PATCH("/users/:id/role", auth.RequireRole(auth.RoleLibrarian), h.ChangeRole)
}

// Register godoc
// @Summary Create a member account
// @Tags    auth
// @Param   request body membership.RegisterRequest true "Registration payload"
// @Success 201 {object} membership.AuthResponse
// @Failure 422 {object} domerr.Error
// @Router  /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid request body")))
		return
	}
	u, pair, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{
		User:         toResponse(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login godoc
// @Summary Sign in with email and password
// @Tags    auth
// @Param   request body membership.LoginRequest true "Credentials"
// @Success 200 {object} membership.AuthResponse
// @Failure 401 {object} domerr.Error
// @Router  /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid request body")))
		return
	}
	u, pair, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		User:         toResponse(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid request body")))
		return
	}
	u, pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, AuthResponse{
		User:         toResponse(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Me(c *gin.Context) {
	actor := auth.ActorFrom(c)
	u, err := h.svc.Get(c.Request.Context(), actor, actor.ID)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toResponse(u)})
}

// Logout is stateless: tokens expire on their own, clients just drop
// them. The endpoint exists so clients have a uniform sign-out call.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) List(c *gin.Context) {
	p := Page{
		Page:    parseIntDefault(c.Query("page"), 1),
		PerPage: parseIntDefault(c.Query("per_page"), 20),
	}
	users, total, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c), p)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Users:      toResponses(users),
		Pagination: newPagination(p, total),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), auth.ActorFrom(c), id)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toResponse(u)})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid request body")))
		return
	}
	u, err := h.svc.Update(c.Request.Context(), auth.ActorFrom(c), id, req)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toResponse(u)})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.ActorFrom(c), id); err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid request body")))
		return
	}
	u, err := h.svc.ChangeRole(c.Request.Context(), auth.ActorFrom(c), id, req.Role)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toResponse(u)})
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid user id")))
		return 0, false
	}
	return id, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
