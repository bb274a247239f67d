package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/domerr"
)

type Handler struct{ svc *Service }

// RegisterPublicRoutes mounts browse/search endpoints; anonymous
// access is allowed.
func RegisterPublicRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/books", h.List)
	r.GET("/books/search", h.Search)
	r.GET("/books/:id", h.Get)
}

// RegisterLibrarianRoutes mounts catalog mutation endpoints; callers
// must already be authenticated.
func RegisterLibrarianRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	librarian := auth.RequireRole(auth.RoleLibrarian)
	r.POST("/books", librarian, h.Create)
	r.PATCH("/books/:id", librarian, h.Update)
	r.DELETE("/books/:id", librarian, h.Delete)
	r.PATCH("/books/:id/status", librarian, h.ManageStatus)
}

// List godoc
// @Summary  List books with filters and pagination
// @Tags     books
// @Param    search query string false "Free text across title/author/genre/publisher"
// @Param    genre  query string false "Exact genre"
// @Param    author query string false "Author substring"
// @Param    title  query string false "Title substring"
// @Param    status query string false "Book status"
// @Success  200 {object} catalog.ListResponse
// @Router   /books [get]
func (h *Handler) List(c *gin.Context) {
	f := Filter{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		Author: c.Query("author"),
		Title:  c.Query("title"),
		Status: BookStatus(c.Query("status")),
	}
	p := Page{
		Page:    parseIntDefault(c.Query("page"), 1),
		PerPage: parseIntDefault(c.Query("per_page"), 20),
	}

	books, total, err := h.svc.List(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Books:      toResponses(books),
		Pagination: newPagination(p, total),
	})
}

func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = c.Query("search")
	}
	books, err := h.svc.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, SearchResponse{
		Books:        toResponses(books),
		SearchQuery:  query,
		ResultsCount: len(books),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	b, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": toResponse(b, true)})
}

// Create godoc
// @Summary  Create a book
// @Tags     books
// @Param    book body catalog.CreateBookRequest true "Book fields"
// @Success  201 {object} catalog.BookResponse
// @Failure  422 {object} domerr.Error
// @Security BearerAuth
// @Router   /books [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid json or missing required fields")))
		return
	}
	b, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"book":    toResponse(b, true),
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid json")))
		return
	}
	b, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"book":    toResponse(b, true),
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func (h *Handler) ManageStatus(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("status is required")))
		return
	}
	b, err := h.svc.ManageStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.JSON(domerr.HTTPStatus(err), domerr.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Book status updated successfully",
		"book":    toResponse(b, true),
	})
}

func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, domerr.Payload(domerr.InvalidArgument("invalid book id")))
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
