package borrowing

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWholeDays(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WholeDays(base, base))
	assert.Equal(t, 7, WholeDays(base, base.Add(7*24*time.Hour)))
	assert.Equal(t, -3, WholeDays(base, base.Add(-3*24*time.Hour)))
	// Time of day never shifts the count.
	assert.Equal(t, 1, WholeDays(base.Add(23*time.Hour), base.Add(24*time.Hour+time.Minute)))
}

func TestBorrowing_OverdueMath(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	b := Borrowing{
		BorrowedAt: now.Add(-14 * 24 * time.Hour),
		DueAt:      now.Add(-7 * 24 * time.Hour),
		Status:     StatusBorrowed,
	}

	assert.True(t, b.Active())
	assert.True(t, b.IsOverdue(now))
	assert.Equal(t, 7, b.DaysOverdue(now))
	assert.Equal(t, -7, b.DaysUntilDue(now))
	assert.Equal(t, 7, b.BorrowingPeriodDays())
}

func TestBorrowing_NotYetDue(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	b := Borrowing{
		BorrowedAt: now.Add(-2 * 24 * time.Hour),
		DueAt:      now.Add(12 * 24 * time.Hour),
		Status:     StatusBorrowed,
	}

	assert.False(t, b.IsOverdue(now))
	assert.Equal(t, 0, b.DaysOverdue(now))
	assert.Equal(t, 12, b.DaysUntilDue(now))
}

func TestBorrowing_ReturnedIsNeverOverdue(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	b := Borrowing{
		BorrowedAt: now.Add(-30 * 24 * time.Hour),
		DueAt:      now.Add(-16 * 24 * time.Hour),
		ReturnedAt: sql.NullTime{Time: now.Add(-10 * 24 * time.Hour), Valid: true},
		Status:     StatusReturned,
	}

	assert.False(t, b.Active())
	assert.False(t, b.IsOverdue(now))
	assert.Equal(t, 0, b.DaysOverdue(now))
	assert.Equal(t, 0, b.DaysUntilDue(now))
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusBorrowed.Valid())
	assert.True(t, StatusReturned.Valid())
	assert.True(t, StatusOverdue.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("lost").Valid())
}

func TestBookAvailability_CanBeCheckedOut(t *testing.T) {
	assert.True(t, BookAvailability{Status: "available", AvailableCopies: 1}.CanBeCheckedOut())
	assert.False(t, BookAvailability{Status: "available", AvailableCopies: 0}.CanBeCheckedOut())
	assert.False(t, BookAvailability{Status: "maintenance", AvailableCopies: 1}.CanBeCheckedOut())
	assert.False(t, BookAvailability{Status: "checked_out", AvailableCopies: 1}.CanBeCheckedOut())
}

func TestPage_Normalize(t *testing.T) {
	limit, offset := Page{}.limitOffset()
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Page{Page: 3, PerPage: 10}.limitOffset()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, _ = Page{Page: 1, PerPage: 500}.limitOffset()
	assert.Equal(t, 100, limit)
}
