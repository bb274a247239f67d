package membership

import (
	"time"

	"library-backend/internal/platform/auth"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         auth.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
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
