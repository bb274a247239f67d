package dashboard

import (
	"time"

	"library-backend/internal/borrowing"
)

type LibrarianDashboard struct {
	Overview         LibrarianCounts `json:"overview"`
	BooksDueToday    []Summary       `json:"books_due_today"`
	OverdueMembers   []OverdueMember `json:"overdue_members"`
	RecentBorrowings []Summary       `json:"recent_borrowings"`
	PopularBooks     []PopularBook   `json:"popular_books"`
}

type MemberOverview struct {
	MemberCounts
	BorrowingLimitReached bool `json:"borrowing_limit_reached"`
}

type MemberDashboard struct {
	Overview         MemberOverview   `json:"overview"`
	ActiveBorrowings []MemberDetail   `json:"active_borrowings"`
	BorrowingHistory []MemberDetail   `json:"borrowing_history"`
	Recommendations  []Recommendation `json:"recommendations"`
}

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookRef struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  *string `json:"genre,omitempty"`
}

// Summary is the librarian-facing borrowing line item.
type Summary struct {
	ID           int64     `json:"id"`
	User         UserRef   `json:"user"`
	Book         BookRef   `json:"book"`
	BorrowedAt   time.Time `json:"borrowed_at"`
	DueAt        time.Time `json:"due_at"`
	Status       string    `json:"status"`
	DaysUntilDue int       `json:"days_until_due"`
	DaysOverdue  int       `json:"days_overdue"`
	Overdue      bool      `json:"overdue"`
}

type OverdueMember struct {
	User             UserRef   `json:"user"`
	OverdueCount     int       `json:"overdue_count"`
	TotalDaysOverdue int       `json:"total_days_overdue"`
	Books            []Summary `json:"books"`
}

// MemberDetail is the member-facing borrowing line item.
type MemberDetail struct {
	ID           int64      `json:"id"`
	Book         BookRef    `json:"book"`
	BorrowedAt   time.Time  `json:"borrowed_at"`
	DueAt        time.Time  `json:"due_at"`
	ReturnedAt   *time.Time `json:"returned_at"`
	Status       string     `json:"status"`
	DaysUntilDue int        `json:"days_until_due"`
	DaysOverdue  int        `json:"days_overdue"`
	Overdue      bool       `json:"overdue"`
	CanRenew     bool       `json:"can_renew"`
}

func toSummary(d *borrowing.Detail, now time.Time) Summary {
	return Summary{
		ID: d.ID,
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
		Status:       string(d.Status),
		DaysUntilDue: d.DaysUntilDue(now),
		DaysOverdue:  d.DaysOverdue(now),
		Overdue:      d.IsOverdue(now),
	}
}

func toSummaries(list []borrowing.Detail, now time.Time) []Summary {
	out := make([]Summary, 0, len(list))
	for i := range list {
		out = append(out, toSummary(&list[i], now))
	}
	return out
}

func toMemberDetail(d *borrowing.Detail, now time.Time) MemberDetail {
	md := MemberDetail{
		ID: d.ID,
		Book: BookRef{
			ID:     d.BookID,
			Title:  d.BookTitle,
			Author: d.BookAuthor,
		},
		BorrowedAt:   d.BorrowedAt,
		DueAt:        d.DueAt,
		Status:       string(d.Status),
		DaysUntilDue: d.DaysUntilDue(now),
		DaysOverdue:  d.DaysOverdue(now),
		Overdue:      d.IsOverdue(now),
		CanRenew:     d.Active() && !d.IsOverdue(now),
	}
	if d.BookGenre.Valid {
		md.Book.Genre = &d.BookGenre.String
	}
	if d.ReturnedAt.Valid {
		t := d.ReturnedAt.Time
		md.ReturnedAt = &t
	}
	return md
}

func toMemberDetails(list []borrowing.Detail, now time.Time) []MemberDetail {
	out := make([]MemberDetail, 0, len(list))
	for i := range list {
		out = append(out, toMemberDetail(&list[i], now))
	}
	return out
}
