package membership

import (
	"context"
	"database/sql"
	"strings"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/domerr"
)

// ErrEmailTaken surfaces the unique email index as a typed validation
// failure.
var errEmailTaken = domerr.Validation([]domerr.FieldError{
	{Field: "email", Message: "has already been taken"},
})

type Store interface {
	Insert(ctx context.Context, u *User) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, p Page) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateRole(ctx context.Context, id int64, role auth.Role) (bool, error)
}

type sqlStore struct{ conn *sql.DB }

func NewStore(conn *sql.DB) Store { return &sqlStore{conn: conn} }

const userColumns = `user_id, email, password_hash, first_name, last_name, role, created_at, updated_at`

func (s *sqlStore) Insert(ctx context.Context, u *User) (int64, error) {
	const q = `
	INSERT INTO users (email, password_hash, first_name, last_name, role)
	VALUES (?, ?, ?, ?, ?)`
	res, err := s.conn.ExecContext(ctx, q, u.Email, u.PasswordHash, u.FirstName, u.LastName, string(u.Role))
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return 0, errEmailTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *sqlStore) GetByID(ctx context.Context, id int64) (*User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE user_id = ?"
	return scanUser(s.conn.QueryRowContext(ctx, q, id))
}

func (s *sqlStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return scanUser(s.conn.QueryRowContext(ctx, q, email))
}

func (s *sqlStore) List(ctx context.Context, p Page) ([]User, int64, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + userColumns + " FROM users ORDER BY user_id ASC LIMIT ? OFFSET ?")
	limit, offset := p.limitOffset()

	rows, err := s.conn.QueryContext(ctx, sb.String(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *sqlStore) Update(ctx context.Context, u *User) error {
	const q = `
	UPDATE users
	SET email = ?, password_hash = ?, first_name = ?, last_name = ?
	WHERE user_id = ?`
	_, err := s.conn.ExecContext(ctx, q, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.ID)
	if err != nil && db.IsDuplicateEntry(err) {
		return errEmailTaken
	}
	return err
}

func (s *sqlStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

func (s *sqlStore) UpdateRole(ctx context.Context, id int64, role auth.Role) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `UPDATE users SET role = ? WHERE user_id = ?`, string(role), id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*User, error) {
	var u User
	var role string
	if err := r.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = auth.Role(role)
	return &u, nil
}
