package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/domerr"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

// RequireAuth verifies Authorization: Bearer <token> and stores the
// actor identity in the request context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, domerr.Payload(domerr.Unauthorized("invalid or missing token")))
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid token is present but
// lets anonymous requests through. Used for public catalog browsing.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, secret); ok {
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxRoleKey, claims.Role)
		}
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after
// RequireAuth.
func RequireRole(roles ...Role) gin.HandlerFunc {
	roleSet := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		v, ok := c.Get(CtxRoleKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, domerr.Payload(domerr.Forbidden("missing role")))
			return
		}
		role, ok := v.(Role)
		if !ok || !role.Valid() {
			c.AbortWithStatusJSON(http.StatusForbidden, domerr.Payload(domerr.Forbidden("invalid role")))
			return
		}
		if _, allowed := roleSet[role]; !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, domerr.Payload(domerr.Forbidden("you are not authorized to perform this action")))
			return
		}
		c.Next()
	}
}

// ActorFrom reads the actor set by the middleware; the zero Actor
// means anonymous.
func ActorFrom(c *gin.Context) Actor {
	id, _ := c.Get(CtxUserIDKey)
	role, _ := c.Get(CtxRoleKey)
	a := Actor{}
	if v, ok := id.(int64); ok {
		a.ID = v
	}
	if v, ok := role.(Role); ok {
		a.Role = v
	}
	return a
}

func bearerClaims(c *gin.Context, secret []byte) (*Claims, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return nil, false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return nil, false
	}
	claims, err := ParseAccessToken(secret, tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}
