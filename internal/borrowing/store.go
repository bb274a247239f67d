package borrowing

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"library-backend/internal/platform/db"
	"library-backend/internal/platform/domerr"
)

// Store is the persistence surface of the ledger. Mutating methods
// take a db.DBTX so the service controls transaction boundaries; the
// book row must be locked (GetBookForUpdate) before copy counts are
// touched.
type Store interface {
	GetBookForUpdate(ctx context.Context, tx db.DBTX, bookID int64) (*BookAvailability, error)
	HasActive(ctx context.Context, tx db.DBTX, userID, bookID int64) (bool, error)
	Insert(ctx context.Context, tx db.DBTX, b *Borrowing) (int64, error)
	DecrementAvailable(ctx context.Context, tx db.DBTX, bookID int64) error
	IncrementAvailable(ctx context.Context, tx db.DBTX, bookID int64) error
	GetForUpdate(ctx context.Context, tx db.DBTX, id int64) (*Borrowing, error)
	GetForUpdateByULID(ctx context.Context, tx db.DBTX, ulid string) (*Borrowing, error)
	MarkReturned(ctx context.Context, tx db.DBTX, id int64, returnedAt time.Time) (bool, error)
	SweepOverdue(ctx context.Context, tx db.DBTX, now time.Time) (int64, error)

	GetDetail(ctx context.Context, id int64) (*Detail, error)
	GetDetailByULID(ctx context.Context, ulid string) (*Detail, error)
	List(ctx context.Context, f Filter, p Page) ([]Detail, int64, error)
	ListAllByUser(ctx context.Context, userID int64) ([]Detail, error)
	ListAllByBook(ctx context.Context, bookID int64) ([]Detail, error)
}

type sqlStore struct{ conn *sql.DB }

func NewStore(conn *sql.DB) Store { return &sqlStore{conn: conn} }

// GetBookForUpdate locks the book row. Every copy-count mutation for
// a book happens while this lock is held, which serializes racing
// borrow/return calls per book.
func (s *sqlStore) GetBookForUpdate(ctx context.Context, tx db.DBTX, bookID int64) (*BookAvailability, error) {
	const q = `
	SELECT book_id, status, available_copies, total_copies
	FROM books
	WHERE book_id = ?
	FOR UPDATE`
	var ba BookAvailability
	if err := tx.QueryRowContext(ctx, q, bookID).Scan(&ba.BookID, &ba.Status, &ba.AvailableCopies, &ba.TotalCopies); err != nil {
		return nil, err
	}
	return &ba, nil
}

func (s *sqlStore) HasActive(ctx context.Context, tx db.DBTX, userID, bookID int64) (bool, error) {
	const q = `
	SELECT EXISTS (
		SELECT 1 FROM borrowings
		WHERE user_id = ? AND book_id = ? AND returned_at IS NULL
	)`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, userID, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert creates a borrowing row. The unique (user_id, book_id,
// active_key) index backs up the HasActive precheck; a duplicate key
// here means another request won the race.
func (s *sqlStore) Insert(ctx context.Context, tx db.DBTX, b *Borrowing) (int64, error) {
	const q = `
	INSERT INTO borrowings (borrowing_ulid, user_id, book_id, borrowed_at, due_at, status)
	VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.ULID, b.UserID, b.BookID, b.BorrowedAt, b.DueAt, string(b.Status))
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return 0, domerr.AlreadyBorrowed()
		}
		return 0, err
	}
	return res.LastInsertId()
}

// DecrementAvailable takes one copy, guarded so the count can never
// go negative, and flips the book to checked_out when the last copy
// goes out.
func (s *sqlStore) DecrementAvailable(ctx context.Context, tx db.DBTX, bookID int64) error {
	const dec = `
	UPDATE books
	SET available_copies = available_copies - 1
	WHERE book_id = ? AND status = 'available' AND available_copies > 0`
	res, err := tx.ExecContext(ctx, dec, bookID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domerr.BookUnavailable()
	}

	const flip = `
	UPDATE books
	SET status = 'checked_out'
	WHERE book_id = ? AND status = 'available' AND available_copies = 0`
	_, err = tx.ExecContext(ctx, flip, bookID)
	return err
}

// IncrementAvailable gives one copy back. Status returns to available
// only from checked_out; maintenance and lost are librarian overrides
// the ledger never reverts.
func (s *sqlStore) IncrementAvailable(ctx context.Context, tx db.DBTX, bookID int64) error {
	const inc = `
	UPDATE books
	SET available_copies = available_copies + 1
	WHERE book_id = ? AND available_copies < total_copies`
	res, err := tx.ExecContext(ctx, inc, bookID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domerr.Conflict("book already has all copies available")
	}

	const flip = `
	UPDATE books
	SET status = 'available'
	WHERE book_id = ? AND status = 'checked_out' AND available_copies > 0`
	_, err = tx.ExecContext(ctx, flip, bookID)
	return err
}

func (s *sqlStore) GetForUpdate(ctx context.Context, tx db.DBTX, id int64) (*Borrowing, error) {
	return s.getForUpdate(ctx, tx, "borrowing_id = ?", id)
}

func (s *sqlStore) GetForUpdateByULID(ctx context.Context, tx db.DBTX, ulid string) (*Borrowing, error) {
	return s.getForUpdate(ctx, tx, "borrowing_ulid = ?", ulid)
}

func (s *sqlStore) getForUpdate(ctx context.Context, tx db.DBTX, cond string, arg any) (*Borrowing, error) {
	q := `
	SELECT borrowing_id, borrowing_ulid, user_id, book_id, borrowed_at, due_at, returned_at, status, created_at, updated_at
	FROM borrowings
	WHERE ` + cond + `
	FOR UPDATE`
	var b Borrowing
	var status string
	if err := tx.QueryRowContext(ctx, q, arg).Scan(
		&b.ID, &b.ULID, &b.UserID, &b.BookID, &b.BorrowedAt, &b.DueAt, &b.ReturnedAt, &status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}

// MarkReturned closes a borrowing. The returned_at IS NULL guard
// makes the check-and-set atomic: a concurrent double return affects
// zero rows on the loser.
func (s *sqlStore) MarkReturned(ctx context.Context, tx db.DBTX, id int64, returnedAt time.Time) (bool, error) {
	const q = `
	UPDATE borrowings
	SET returned_at = ?, status = 'returned'
	WHERE borrowing_id = ? AND returned_at IS NULL`
	res, err := tx.ExecContext(ctx, q, returnedAt, id)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

// SweepOverdue marks active borrowings past due. One guarded UPDATE,
// so rerunning it is a no-op on rows already swept.
func (s *sqlStore) SweepOverdue(ctx context.Context, tx db.DBTX, now time.Time) (int64, error) {
	const q = `
	UPDATE borrowings
	SET status = 'overdue'
	WHERE returned_at IS NULL AND due_at < ? AND status <> 'overdue'`
	res, err := tx.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
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

func (s *sqlStore) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + " WHERE br.borrowing_id = ?"
	return scanDetail(s.conn.QueryRowContext(ctx, q, id))
}

func (s *sqlStore) GetDetailByULID(ctx context.Context, ulid string) (*Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + " WHERE br.borrowing_ulid = ?"
	return scanDetail(s.conn.QueryRowContext(ctx, q, ulid))
}

func (s *sqlStore) List(ctx context.Context, f Filter, p Page) ([]Detail, int64, error) {
	var sb strings.Builder
	args := []any{}

	where := " WHERE 1=1"
	whereArgs := []any{}
	if f.UserID != 0 {
		where += " AND br.user_id = ?"
		whereArgs = append(whereArgs, f.UserID)
	}
	if f.BookID != 0 {
		where += " AND br.book_id = ?"
		whereArgs = append(whereArgs, f.BookID)
	}
	if f.Status != "" {
		where += " AND br.status = ?"
		whereArgs = append(whereArgs, string(f.Status))
	}

	sb.WriteString("SELECT " + detailColumns + detailFrom + where)
	sb.WriteString(" ORDER BY br.borrowed_at DESC, br.borrowing_id DESC")
	sb.WriteString(" LIMIT ? OFFSET ?")
	limit, offset := p.limitOffset()
	args = append(args, whereArgs...)
	args = append(args, limit, offset)

	rows, err := s.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	countQ := "SELECT COUNT(*)" + detailFrom + where
	if err := s.conn.QueryRowContext(ctx, countQ, whereArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *sqlStore) ListAllByUser(ctx context.Context, userID int64) ([]Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + " WHERE br.user_id = ? ORDER BY br.borrowed_at DESC"
	return s.queryDetails(ctx, q, userID)
}

func (s *sqlStore) ListAllByBook(ctx context.Context, bookID int64) ([]Detail, error) {
	q := "SELECT " + detailColumns + detailFrom + " WHERE br.book_id = ? ORDER BY br.borrowed_at DESC"
	return s.queryDetails(ctx, q, bookID)
}

func (s *sqlStore) queryDetails(ctx context.Context, q string, args ...any) ([]Detail, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetail(r rowScanner) (*Detail, error) {
	var d Detail
	var status string
	if err := r.Scan(
		&d.ID, &d.ULID, &d.UserID, &d.BookID,
		&d.BorrowedAt, &d.DueAt, &d.ReturnedAt, &status, &d.CreatedAt, &d.UpdatedAt,
		&d.UserFirstName, &d.UserLastName, &d.UserEmail,
		&d.BookTitle, &d.BookAuthor, &d.BookGenre,
	); err != nil {
		return nil, err
	}
	d.Status = Status(status)
	return &d, nil
}
