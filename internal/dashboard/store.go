package dashboard

import (
	"context"
	"database/sql"
	"time"

	"library-backend/internal/borrowing"
)

// LibrarianCounts is the header block of the librarian dashboard.
type LibrarianCounts struct {
	TotalBooks       int64 `json:"total_books"`
	TotalCopies      int64 `json:"total_copies"`
	AvailableBooks   int64 `json:"available_books"`
	BorrowedBooks    int64 `json:"borrowed_books"`
	TotalMembers     int64 `json:"total_members"`
	OverdueBooks     int64 `json:"overdue_books"`
	BooksDueToday    int64 `json:"books_due_today"`
	BooksDueThisWeek int64 `json:"books_due_this_week"`
}

// MemberCounts is the header block of the member dashboard. The limit
// flag is derived by the service, not stored.
type MemberCounts struct {
	TotalBooksBorrowed int64 `json:"total_books_borrowed"`
	CurrentlyBorrowed  int64 `json:"currently_borrowed"`
	BooksReturned      int64 `json:"books_returned"`
	OverdueBooks       int64 `json:"overdue_books"`
	BooksDueSoon       int64 `json:"books_due_soon"`
}

// PopularBook is a catalog row ranked by how often it was borrowed.
type PopularBook struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TimesBorrowed   int64  `json:"times_borrowed"`
	AvailableCopies int    `json:"available_copies"`
	TotalCopies     int    `json:"total_copies"`
}

// Recommendation is a lendable book suggested to a member.
type Recommendation struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Genre           *string `json:"genre"`
	AvailableCopies int     `json:"available_copies"`
}

// Store is the read-only aggregation surface. Every query runs outside
// any transaction; the dashboard never mutates ledger or catalog state.
type Store interface {
	LibrarianCounts(ctx context.Context, now DayBounds) (*LibrarianCounts, error)
	MemberCounts(ctx context.Context, userID int64, now DayBounds) (*MemberCounts, error)
	DueToday(ctx context.Context, now DayBounds) ([]borrowing.Detail, error)
	OverdueActive(ctx context.Context, now time.Time) ([]borrowing.Detail, error)
	Recent(ctx context.Context, limit int) ([]borrowing.Detail, error)
	PopularBooks(ctx context.Context, limit int) ([]PopularBook, error)
	ActiveForUser(ctx context.Context, userID int64) ([]borrowing.Detail, error)
	ReturnedForUser(ctx context.Context, userID int64, limit int) ([]borrowing.Detail, error)
	BorrowedGenres(ctx context.Context, userID int64) ([]string, error)
	RecommendationsByGenre(ctx context.Context, userID int64, genres []string, limit int) ([]Recommendation, error)
	PopularAvailable(ctx context.Context, limit int) ([]Recommendation, error)
}

type sqlStore struct{ conn *sql.DB }

func NewStore(conn *sql.DB) Store { return &sqlStore{conn: conn} }

func (s *sqlStore) LibrarianCounts(ctx context.Context, day DayBounds) (*LibrarianCounts, error) {
	const q = `
	SELECT
		(SELECT COUNT(*) FROM books),
		(SELECT COALESCE(SUM(total_copies), 0) FROM books),
		(SELECT COUNT(*) FROM books WHERE status = 'available'),
		(SELECT COUNT(*) FROM borrowings WHERE returned_at IS NULL),
		(SELECT COUNT(*) FROM users WHERE role = 'member'),
		(SELECT COUNT(*) FROM borrowings WHERE returned_at IS NULL AND due_at < ?),
		(SELECT COUNT(*) FROM borrowings WHERE returned_at IS NULL AND due_at >= ? AND due_at < ?),
		(SELECT COUNT(*) FROM borrowings WHERE returned_at IS NULL AND due_at >= ? AND due_at < ?)`
	var c LibrarianCounts
	err := s.conn.QueryRowContext(ctx, q,
		day.Start,
		day.Start, day.Next,
		day.Start, day.WeekEnd,
	).Scan(
		&c.TotalBooks, &c.TotalCopies, &c.AvailableBooks, &c.BorrowedBooks,
		&c.TotalMembers, &c.OverdueBooks, &c.BooksDueToday, &c.BooksDueThisWeek,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *sqlStore) MemberCounts(ctx context.Context, userID int64, day DayBounds) (*MemberCounts, error) {
	const q = `
	SELECT
		COUNT(*),
		COALESCE(SUM(returned_at IS NULL), 0),
		COALESCE(SUM(returned_at IS NOT NULL), 0),
		COALESCE(SUM(returned_at IS NULL AND due_at < ?), 0),
		COALESCE(SUM(returned_at IS NULL AND due_at >= ? AND due_at < ?), 0)
	FROM borrowings
	WHERE user_id = ?`
	var c MemberCounts
	err := s.conn.QueryRowContext(ctx, q,
		day.Start,
		day.Start, day.SoonEnd,
		userID,
	).Scan(&c.TotalBooksBorrowed, &c.CurrentlyBorrowed, &c.BooksReturned, &c.OverdueBooks, &c.BooksDueSoon)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const detailColumns = `
	br.borrowing_id, br.borrowing_ulid, br.user_id, br.book_id,
	br.borrowed_at, br.due_at, br.returned_at, br.status, br.created_at, br.updated_at,
	u.first_name, u.last_name, u.email,
	b.title, b.author, b.genre`

const detailFrom = `
	FROM borrowings br
	JOIN users u ON u.user_id = br.user_id
	JOIN books b ON b.book_id = br.book_id`

func (s *sqlStore) DueToday(ctx context.Context, day DayBounds) ([]borrowing.Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + `
	WHERE br.returned_at IS NULL AND br.due_at >= ? AND br.due_at < ?
	ORDER BY br.due_at ASC`
	return s.queryDetails(ctx, q, day.Start, day.Next)
}

func (s *sqlStore) OverdueActive(ctx context.Context, now time.Time) ([]borrowing.Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + `
	WHERE br.returned_at IS NULL AND br.due_at < ?
	ORDER BY br.due_at ASC`
	return s.queryDetails(ctx, q, now)
}

func (s *sqlStore) Recent(ctx context.Context, limit int) ([]borrowing.Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + `
	ORDER BY br.borrowed_at DESC, br.borrowing_id DESC
	LIMIT ?`
	return s.queryDetails(ctx, q, limit)
}

func (s *sqlStore) PopularBooks(ctx context.Context, limit int) ([]PopularBook, error) {
	const q = `
	SELECT b.book_id, b.title, b.author, COUNT(br.borrowing_id) AS borrow_count,
	       b.available_copies, b.total_copies
	FROM books b
	JOIN borrowings br ON br.book_id = b.book_id
	GROUP BY b.book_id, b.title, b.author, b.available_copies, b.total_copies
	ORDER BY borrow_count DESC, b.book_id ASC
	LIMIT ?`
	rows, err := s.conn.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []PopularBook{}
	for rows.Next() {
		var p PopularBook
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.TimesBorrowed, &p.AvailableCopies, &p.TotalCopies); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (s *sqlStore) ActiveForUser(ctx context.Context, userID int64) ([]borrowing.Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + `
	WHERE br.user_id = ? AND br.returned_at IS NULL
	ORDER BY br.due_at ASC`
	return s.queryDetails(ctx, q, userID)
}

func (s *sqlStore) ReturnedForUser(ctx context.Context, userID int64, limit int) ([]borrowing.Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + `
	WHERE br.user_id = ? AND br.returned_at IS NOT NULL
	ORDER BY br.returned_at DESC
	LIMIT ?`
	return s.queryDetails(ctx, q, userID, limit)
}

func (s *sqlStore) BorrowedGenres(ctx context.Context, userID int64) ([]string, error) {
	const q = `
	SELECT DISTINCT b.genre
	FROM borrowings br
	JOIN books b ON b.book_id = br.book_id
	WHERE br.user_id = ? AND b.genre IS NOT NULL AND b.genre <> ''`
	rows, err := s.conn.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// RecommendationsByGenre ranks lendable books in the member's borrowed
// genres by popularity, excluding titles they already borrowed.
func (s *sqlStore) RecommendationsByGenre(ctx context.Context, userID int64, genres []string, limit int) ([]Recommendation, error) {
	if len(genres) == 0 {
		return []Recommendation{}, nil
	}
	q := `
	SELECT b.book_id, b.title, b.author, b.genre, b.available_copies
	FROM books b
	JOIN borrowings br ON br.book_id = b.book_id
	WHERE b.status = 'available' AND b.available_copies > 0
	  AND b.genre IN (` + placeholders(len(genres)) + `)
	  AND b.book_id NOT IN (SELECT book_id FROM borrowings WHERE user_id = ?)
	GROUP BY b.book_id, b.title, b.author, b.genre, b.available_copies
	ORDER BY COUNT(br.borrowing_id) DESC, b.book_id ASC
	LIMIT ?`
	args := make([]any, 0, len(genres)+2)
	for _, g := range genres {
		args = append(args, g)
	}
	args = append(args, userID, limit)
	return s.queryRecommendations(ctx, q, args...)
}

func (s *sqlStore) PopularAvailable(ctx context.Context, limit int) ([]Recommendation, error) {
	const q = `
	SELECT b.book_id, b.title, b.author, b.genre, b.available_copies
	FROM books b
	JOIN borrowings br ON br.book_id = b.book_id
	WHERE b.status = 'available' AND b.available_copies > 0
	GROUP BY b.book_id, b.title, b.author, b.genre, b.available_copies
	ORDER BY COUNT(br.borrowing_id) DESC, b.book_id ASC
	LIMIT ?`
	return s.queryRecommendations(ctx, q, limit)
}

func (s *sqlStore) queryDetails(ctx context.Context, q string, args ...any) ([]borrowing.Detail, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []borrowing.Detail{}
	for rows.Next() {
		var d borrowing.Detail
		var status string
		if err := rows.Scan(
			&d.ID, &d.ULID, &d.UserID, &d.BookID,
			&d.BorrowedAt, &d.DueAt, &d.ReturnedAt, &status, &d.CreatedAt, &d.UpdatedAt,
			&d.UserFirstName, &d.UserLastName, &d.UserEmail,
			&d.BookTitle, &d.BookAuthor, &d.BookGenre,
		); err != nil {
			return nil, err
		}
		d.Status = borrowing.Status(status)
		list = append(list, d)
	}
	return list, rows.Err()
}

func (s *sqlStore) queryRecommendations(ctx context.Context, q string, args ...any) ([]Recommendation, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Recommendation{}
	for rows.Next() {
		var r Recommendation
		var genre sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &genre, &r.AvailableCopies); err != nil {
			return nil, err
		}
		if genre.Valid {
			r.Genre = &genre.String
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	s := "?"
	for i := 1; i < n; i++ {
		s += ", ?"
	}
	return s
}
