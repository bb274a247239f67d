package catalog

import (
	"context"
	"database/sql"
	"strings"

	"library-backend/internal/platform/db"
)

type Store interface {
	Insert(ctx context.Context, b *Book) (int64, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	// GetForUpdate locks the book row; metadata edits hold the same
	// lock the ledger takes before touching copy counts.
	GetForUpdate(ctx context.Context, tx db.DBTX, id int64) (*Book, error)
	// FindIDByISBN returns sql.ErrNoRows when the ISBN is unused.
	FindIDByISBN(ctx context.Context, isbn string) (int64, error)
	Update(ctx context.Context, tx db.DBTX, b *Book, withCopies bool) error
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status BookStatus) (bool, error)
	List(ctx context.Context, f Filter, p Page) ([]Book, int64, error)
	Search(ctx context.Context, query string, limit int) ([]Book, error)
}

type sqlStore struct{ conn *sql.DB }

func NewStore(conn *sql.DB) Store { return &sqlStore{conn: conn} }

const bookColumns = `
	book_id, title, author, isbn, description, genre,
	publication_year, publisher, total_copies, available_copies, status,
	created_at, updated_at`

func (s *sqlStore) Insert(ctx context.Context, b *Book) (int64, error) {
	const q = `
	INSERT INTO books
	(title, author, isbn, description, genre, publication_year, publisher, total_copies, available_copies, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.conn.ExecContext(ctx, q,
		b.Title, b.Author, b.ISBN, b.Description, b.Genre,
		b.PublicationYear, b.Publisher, b.TotalCopies, b.AvailableCopies, string(b.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *sqlStore) GetByID(ctx context.Context, id int64) (*Book, error) {
	q := "SELECT " + bookColumns + " FROM books WHERE book_id = ?"
	return scanBook(s.conn.QueryRowContext(ctx, q, id))
}

func (s *sqlStore) GetForUpdate(ctx context.Context, tx db.DBTX, id int64) (*Book, error) {
	q := "SELECT " + bookColumns + " FROM books WHERE book_id = ? FOR UPDATE"
	return scanBook(tx.QueryRowContext(ctx, q, id))
}

func (s *sqlStore) FindIDByISBN(ctx context.Context, isbn string) (int64, error) {
	const q = `SELECT book_id FROM books WHERE isbn = ?`
	var id int64
	if err := s.conn.QueryRowContext(ctx, q, isbn).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update writes a metadata edit back while the row lock from
// GetForUpdate is held. Copy counts are written only when withCopies
// is set; otherwise the UPDATE omits those columns so counts committed
// by a concurrent borrow or return stay intact.
func (s *sqlStore) Update(ctx context.Context, tx db.DBTX, b *Book, withCopies bool) error {
	q := `
	UPDATE books
	SET title = ?, author = ?, isbn = ?, description = ?, genre = ?,
	    publication_year = ?, publisher = ?`
	args := []any{b.Title, b.Author, b.ISBN, b.Description, b.Genre, b.PublicationYear, b.Publisher}
	if withCopies {
		q += ", total_copies = ?, available_copies = ?"
		args = append(args, b.TotalCopies, b.AvailableCopies)
	}
	q += " WHERE book_id = ?"
	args = append(args, b.ID)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

func (s *sqlStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

// UpdateStatus is the manual librarian override; it never touches
// copy counts.
func (s *sqlStore) UpdateStatus(ctx context.Context, id int64, status BookStatus) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `UPDATE books SET status = ? WHERE book_id = ?`, string(status), id)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if aff == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *sqlStore) List(ctx context.Context, f Filter, p Page) ([]Book, int64, error) {
	where, whereArgs := buildWhere(f)

	var sb strings.Builder
	sb.WriteString("SELECT " + bookColumns + " FROM books" + where)
	sb.WriteString(" ORDER BY title ASC, book_id ASC LIMIT ? OFFSET ?")
	limit, offset := p.limitOffset()
	args := append(append([]any{}, whereArgs...), limit, offset)

	rows, err := s.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM books"+where, whereArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (s *sqlStore) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	const q = `
	SELECT ` + bookColumns + `
	FROM books
	WHERE title LIKE ? OR author LIKE ? OR genre LIKE ? OR publisher LIKE ?
	ORDER BY title ASC
	LIMIT ?`
	pat := "%" + query + "%"
	rows, err := s.conn.QueryContext(ctx, q, pat, pat, pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func buildWhere(f Filter) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Search != "" {
		where += " AND (title LIKE ? OR author LIKE ? OR genre LIKE ? OR publisher LIKE ?)"
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat, pat, pat)
	}
	if f.Genre != "" {
		where += " AND genre = ?"
		args = append(args, f.Genre)
	}
	if f.Author != "" {
		where += " AND author LIKE ?"
		args = append(args, "%"+f.Author+"%")
	}
	if f.Title != "" {
		where += " AND title LIKE ?"
		args = append(args, "%"+f.Title+"%")
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(r rowScanner) (*Book, error) {
	var b Book
	var status string
	if err := r.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Genre,
		&b.PublicationYear, &b.Publisher, &b.TotalCopies, &b.AvailableCopies, &status,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = BookStatus(status)
	return &b, nil
}
