package borrowing

import "time"

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookRef struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type Response struct {
	ID           int64      `json:"id"`
	ULID         string     `json:"ulid"`
	User         UserRef    `json:"user"`
	Book         BookRef    `json:"book"`
	BorrowedAt   time.Time  `json:"borrowed_at"`
	DueAt        time.Time  `json:"due_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	Status       Status     `json:"status"`
	Overdue      bool       `json:"overdue"`
	DaysUntilDue int        `json:"days_until_due"`

	// Detailed fields
	DaysOverdue         *int       `json:"days_overdue,omitempty"`
	BorrowingPeriodDays *int       `json:"borrowing_period_days,omitempty"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

type ListResponse struct {
	Borrowings []Response `json:"borrowings"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
}

func NewPagination(p Page, total int64) Pagination {
	p = p.normalize()
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return Pagination{CurrentPage: p.Page, PerPage: p.PerPage, TotalCount: total, TotalPages: pages}
}

func toResponse(d *Detail, now time.Time, detailed bool) Response {
	r := Response{
		ID:   d.ID,
		ULID: d.ULID,
		User: UserRef{
			ID:    d.UserID,
			Name:  d.UserFirstName + " " + d.UserLastName,
			Email: d.UserEmail,
		},
		Book: BookRef{
			ID:     d.BookID,
			Title:  d.BookTitle,
			Author: d.BookAuthor,
		},
		BorrowedAt:   d.BorrowedAt,
		DueAt:        d.DueAt,
		Status:       d.Status,
		Overdue:      d.IsOverdue(now),
		DaysUntilDue: d.DaysUntilDue(now),
	}
	if d.ReturnedAt.Valid {
		t := d.ReturnedAt.Time
		r.ReturnedAt = &t
	}
	if detailed {
		od := d.DaysOverdue(now)
		period := d.BorrowingPeriodDays()
		created := d.CreatedAt
		updated := d.UpdatedAt
		r.DaysOverdue = &od
		r.BorrowingPeriodDays = &period
		r.CreatedAt = &created
		r.UpdatedAt = &updated
	}
	return r
}

func toResponses(ds []Detail, now time.Time) []Response {
	out := make([]Response, 0, len(ds))
	for i := range ds {
		out = append(out, toResponse(&ds[i], now, false))
	}
	return out
}
