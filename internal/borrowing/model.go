package borrowing

import (
	"database/sql"
	"time"
)

// Status is the denormalized lifecycle state of a borrowing. The
// source of truth for activity is returned_at; status exists for
// cheap filtering and is kept in sync by the ledger and the sweep.
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBorrowed, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

// LoanPeriod is the default borrowing period applied at creation.
const LoanPeriod = 14 * 24 * time.Hour

// Borrowing is one row of the borrowings table.
type Borrowing struct {
	ID         int64
	ULID       string
	UserID     int64
	BookID     int64
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt sql.NullTime
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Active reports whether the book is still out.
func (b *Borrowing) Active() bool { return !b.ReturnedAt.Valid }

// IsOverdue reports an active borrowing past its due date.
func (b *Borrowing) IsOverdue(now time.Time) bool {
	return b.Active() && b.DueAt.Before(now)
}

// DaysOverdue is the whole days past due, 0 when not overdue.
func (b *Borrowing) DaysOverdue(now time.Time) int {
	if !b.IsOverdue(now) {
		return 0
	}
	return WholeDays(b.DueAt, now)
}

// DaysUntilDue is the whole days until due for an active borrowing
// (negative when past due), 0 once returned.
func (b *Borrowing) DaysUntilDue(now time.Time) int {
	if !b.Active() {
		return 0
	}
	return WholeDays(now, b.DueAt)
}

// BorrowingPeriodDays is the whole days between borrow and due dates.
func (b *Borrowing) BorrowingPeriodDays() int {
	return WholeDays(b.BorrowedAt, b.DueAt)
}

// WholeDays is the calendar-day difference from a to b, computed on
// UTC dates so time-of-day never shifts the count.
func WholeDays(a, b time.Time) int {
	ad := a.UTC().Truncate(24 * time.Hour)
	bd := b.UTC().Truncate(24 * time.Hour)
	return int(bd.Sub(ad) / (24 * time.Hour))
}

// Detail is a borrowing joined with the user and book it references,
// as rendered in API responses.
type Detail struct {
	Borrowing
	UserFirstName string
	UserLastName  string
	UserEmail     string
	BookTitle     string
	BookAuthor    string
	BookGenre     sql.NullString
}

// BookAvailability is the slice of the book row the ledger locks and
// mutates.
type BookAvailability struct {
	BookID          int64
	Status          string
	AvailableCopies int
	TotalCopies     int
}

// CanBeCheckedOut mirrors the borrow precondition: available status
// with at least one lendable copy.
func (b BookAvailability) CanBeCheckedOut() bool {
	return b.Status == "available" && b.AvailableCopies > 0
}

// Filter narrows borrowing listings.
type Filter struct {
	UserID int64
	BookID int64
	Status Status
}

// Page is limit/offset pagination expressed as page numbers.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

func (p Page) limitOffset() (int, int) {
	p = p.normalize()
	return p.PerPage, (p.Page - 1) * p.PerPage
}
