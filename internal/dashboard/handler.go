package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/domerr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/dashboard/librarian", auth.RequireRole(auth.RoleLibrarian), h.Librarian)
	r.GET("/dashboard/member", auth.RequireRole(auth.RoleMember), h.Member)
}

// Librarian godoc
// @Summary  Librarian dashboard rollup
// @Tags     dashboard
// @Success  200 {object} dashboard.LibrarianDashboard
// @Security BearerAuth
// @Router   /dashboard/librarian [get]
func (h *Handler) Librarian(c *gin.Context) {
	d, err := h.svc.Librarian(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}

// Member godoc
// @Summary  Member dashboard rollup
// @Tags     dashboard
// @Success  200 {object} dashboard.MemberDashboard
// @Security BearerAuth
// @Router   /dashboard/member [get]
func (h *Handler) Member(c *gin.Context) {
	d, err := h.svc.Member(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}
