package catalog

import "time"

// ===== Requests =====

type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required"`
	Author          string  `json:"author" binding:"required"`
	ISBN            *string `json:"isbn,omitempty"`
	Description     *string `json:"description,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	TotalCopies     *int    `json:"total_copies,omitempty"`
	AvailableCopies *int    `json:"available_copies,omitempty"`
}

type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty"`
	Author          *string `json:"author,omitempty"`
	ISBN            *string `json:"isbn,omitempty"`
	Description     *string `json:"description,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Publisher       *string `json:"publisher,omitempty"`
	TotalCopies     *int    `json:"total_copies,omitempty"`
	AvailableCopies *int    `json:"available_copies,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ===== Responses =====

type BookResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Genre           *string    `json:"genre,omitempty"`
	Status          BookStatus `json:"status"`
	AvailableCopies int        `json:"available_copies"`
	TotalCopies     int        `json:"total_copies"`
	Available       bool       `json:"available"`

	// Detailed fields
	ISBN            *string    `json:"isbn,omitempty"`
	Description     *string    `json:"description,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
}

type ListResponse struct {
	Books      []BookResponse `json:"books"`
	Pagination Pagination     `json:"pagination"`
}

type SearchResponse struct {
	Books        []BookResponse `json:"books"`
	SearchQuery  string         `json:"search_query"`
	ResultsCount int            `json:"results_count"`
}

func toResponse(b *Book, detailed bool) BookResponse {
	r := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Status:          b.Status,
		AvailableCopies: b.AvailableCopies,
		TotalCopies:     b.TotalCopies,
		Available:       b.Available(),
	}
	if b.Genre.Valid {
		v := b.Genre.String
		r.Genre = &v
	}
	if detailed {
		if b.ISBN.Valid {
			v := b.ISBN.String
			r.ISBN = &v
		}
		if b.Description.Valid {
			v := b.Description.String
			r.Description = &v
		}
		if b.PublicationYear.Valid {
			v := int(b.PublicationYear.Int64)
			r.PublicationYear = &v
		}
		if b.Publisher.Valid {
			v := b.Publisher.String
			r.Publisher = &v
		}
		created := b.CreatedAt
		updated := b.UpdatedAt
		r.CreatedAt = &created
		r.UpdatedAt = &updated
	}
	return r
}

func toResponses(books []Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, toResponse(&books[i], false))
	}
	return out
}

func newPagination(p Page, total int64) Pagination {
	p = p.normalize()
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return Pagination{CurrentPage: p.Page, PerPage: p.PerPage, TotalCount: total, TotalPages: pages}
}
