package catalog

import (
	"database/sql"
	"time"
)

// BookStatus is the closed set of catalog statuses. available and
// checked_out are ledger-managed; maintenance and lost are librarian
// overrides.
type BookStatus string

const (
	StatusAvailable   BookStatus = "available"
	StatusCheckedOut  BookStatus = "checked_out"
	StatusMaintenance BookStatus = "maintenance"
	StatusLost        BookStatus = "lost"
)

func (s BookStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusMaintenance, StatusLost:
		return true
	}
	return false
}

// ValidStatuses lists the accepted values for error messages.
func ValidStatuses() []string {
	return []string{
		string(StatusAvailable),
		string(StatusCheckedOut),
		string(StatusMaintenance),
		string(StatusLost),
	}
}

type Book struct {
	ID              int64
	Title           string
	Author          string
	ISBN            sql.NullString
	Description     sql.NullString
	Genre           sql.NullString
	PublicationYear sql.NullInt64
	Publisher       sql.NullString
	TotalCopies     int
	AvailableCopies int
	Status          BookStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Available reports whether the book can currently be checked out.
func (b *Book) Available() bool {
	return b.Status == StatusAvailable && b.AvailableCopies > 0
}

// Filter narrows book listings. Author/Title are substring matches,
// Search spans title, author, genre and publisher.
type Filter struct {
	Search string
	Genre  string
	Author string
	Title  string
	Status BookStatus
}

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
