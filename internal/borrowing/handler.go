package borrowing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/domerr"
)

type Handler struct{ svc *Service }

// RegisterRoutes wires the ledger endpoints onto the authenticated
// group. Borrow-by-book and book history live under /books to match
// the public API shape.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/borrowings", h.List)
	r.GET("/borrowings/:id", h.Get)
	r.PATCH("/borrowings/:id/return", auth.RequireRole(auth.RoleLibrarian), h.Return)
	r.POST("/borrowings/sweep", auth.RequireRole(auth.RoleLibrarian), h.Sweep)

	r.POST("/books/:id/borrow", auth.RequireRole(auth.RoleMember), h.Borrow)
	r.GET("/books/:id/borrowings", auth.RequireRole(auth.RoleLibrarian), h.BookHistory)

	r.GET("/users/:id/borrowings", h.UserHistory)
}

// Borrow godoc
// @Summary  Borrow a book
// @Tags     borrowings
// @Param    id path int true "Book ID"
// @Success  201 {object} borrowing.Response
// @Failure  422 {object} domerr.Error
// @Security BearerAuth
// @Router   /books/{id}/borrow [post]
func (h *Handler) Borrow(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid book id")))
		return
	}

	d, err := h.svc.Borrow(c.Request.Context(), auth.ActorFrom(c), bookID)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Book borrowed successfully",
		"borrowing": toResponse(d, h.svc.Now(), true),
	})
}

// Return godoc
// @Summary  Return a borrowed book
// @Tags     borrowings
// @Param    id path string true "Borrowing ID or ULID"
// @Success  200 {object} borrowing.Response
// @Failure  422 {object} domerr.Error
// @Security BearerAuth
// @Router   /borrowings/{id}/return [patch]
func (h *Handler) Return(c *gin.Context) {
	d, err := h.svc.Return(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Book returned successfully",
		"borrowing": toResponse(d, h.svc.Now(), true),
	})
}

func (h *Handler) Sweep(c *gin.Context) {
	n, err := h.svc.SweepOverdue(c.Request.Context())
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_overdue": n})
}

func (h *Handler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowing": toResponse(d, h.svc.Now(), true)})
}

func (h *Handler) List(c *gin.Context) {
	f := Filter{Status: Status(c.Query("status"))}
	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UserID = id
		}
	}
	p := Page{
		Page:    parseIntDefault(c.Query("page"), 1),
		PerPage: parseIntDefault(c.Query("per_page"), 20),
	}

	list, total, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c), f, p)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Borrowings: toResponses(list, h.svc.Now()),
		Pagination: NewPagination(p, total),
	})
}

func (h *Handler) UserHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid user id")))
		return
	}
	list, err := h.svc.HistoryForUser(c.Request.Context(), auth.ActorFrom(c), userID)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowings": toResponses(list, h.svc.Now())})
}

func (h *Handler) BookHistory(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid book id")))
		return
	}
	list, err := h.svc.HistoryForBook(c.Request.Context(), auth.ActorFrom(c), bookID)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowings": toResponses(list, h.svc.Now())})
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
