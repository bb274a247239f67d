package membership

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/config"
	"library-backend/internal/platform/domerr"
)

const minPasswordLength = 8

var foldCaser = cases.Fold()

// NormalizeEmail trims and case-folds so uniqueness and login are
// case-insensitive.
func NormalizeEmail(email string) string {
	return foldCaser.String(strings.TrimSpace(email))
}

type Service struct {
	store      Store
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(conn *sql.DB, jwtCfg config.JWT) *Service {
	return newService(NewStore(conn), jwtCfg)
}

func newService(store Store, jwtCfg config.JWT) *Service {
	return &Service{
		store:      store,
		secret:     []byte(jwtCfg.Secret),
		accessTTL:  time.Duration(jwtCfg.AccessTTLHours) * time.Hour,
		refreshTTL: time.Duration(jwtCfg.RefreshTTLHours) * time.Hour,
	}
}

// Register creates a member account and signs it in. New accounts are
// always members; only an existing librarian can promote them.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, auth.TokenPair, error) {
	var fields []domerr.FieldError
	email := NormalizeEmail(req.Email)
	if email == "" {
		fields = append(fields, domerr.FieldError{Field: "email", Message: "is required"})
	}
	if len(req.Password) < minPasswordLength {
		fields = append(fields, domerr.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fields = append(fields, domerr.FieldError{Field: "first_name", Message: "is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields = append(fields, domerr.FieldError{Field: "last_name", Message: "is required"})
	}
	if len(fields) > 0 {
		return nil, auth.TokenPair{}, domerr.Validation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	u := &User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         auth.RoleMember,
	}
	id, err := s.store.Insert(ctx, u)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	created, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	pair, err := s.tokenPair(created)
	return created, pair, err
}

// Login verifies credentials. Lookup and password failures share one
// message so the endpoint does not confirm which emails exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, auth.TokenPair, error) {
	u, err := s.store.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.TokenPair{}, domerr.Unauthorized("invalid email or password")
		}
		return nil, auth.TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, auth.TokenPair{}, domerr.Unauthorized("invalid email or password")
	}
	pair, err := s.tokenPair(u)
	return u, pair, err
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// reloaded so a role change since issuance takes effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, auth.TokenPair, error) {
	userID, err := auth.ParseRefreshToken(s.secret, refreshToken)
	if err != nil {
		return nil, auth.TokenPair{}, domerr.Unauthorized("invalid or expired refresh token")
	}
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.TokenPair{}, domerr.Unauthorized("invalid token - user not found")
		}
		return nil, auth.TokenPair{}, err
	}
	pair, err := s.tokenPair(u)
	return u, pair, err
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*User, error) {
	if !CanViewUser(actor, id) {
		return nil, domerr.Forbidden("you are not authorized to view this user")
	}
	return s.get(ctx, id)
}

func (s *Service) List(ctx context.Context, actor auth.Actor, p Page) ([]User, int64, error) {
	if !CanListUsers(actor) {
		return nil, 0, domerr.Forbidden("only librarians can list users")
	}
	return s.store.List(ctx, p)
}

// Update edits profile fields. Role is immutable here; ChangeRole is
// the only path that touches it.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateUserRequest) (*User, error) {
	if !CanUpdateUser(actor, id) {
		return nil, domerr.Forbidden("you are not authorized to update this user")
	}
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []domerr.FieldError
	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email == "" {
			fields = append(fields, domerr.FieldError{Field: "email", Message: "is required"})
		}
		u.Email = email
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			fields = append(fields, domerr.FieldError{Field: "password", Message: "must be at least 8 characters"})
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = string(hash)
		}
	}
	if len(fields) > 0 {
		return nil, domerr.Validation(fields)
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if !CanDeleteUser(actor, id) {
		return domerr.Forbidden("you are not authorized to delete this user")
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domerr.NotFound("user not found")
	}
	return nil
}

// ChangeRole promotes or demotes another user. Librarians can never
// change their own role.
func (s *Service) ChangeRole(ctx context.Context, actor auth.Actor, id int64, role string) (*User, error) {
	if !CanChangeRole(actor, id) {
		return nil, domerr.Forbidden("you are not authorized to change this user's role")
	}
	r := auth.Role(role)
	if !r.Valid() {
		return nil, domerr.InvalidArgument("invalid role, valid values: member, librarian")
	}
	ok, err := s.store.UpdateRole(ctx, id, r)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerr.NotFound("user not found")
		}
		return nil, err
	}
	if !ok {
		return nil, domerr.NotFound("user not found")
	}
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id int64) (*User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerr.NotFound("user not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) tokenPair(u *User) (auth.TokenPair, error) {
	return auth.IssueTokenPair(s.secret, u.ID, u.Email, u.Role, s.accessTTL, s.refreshTTL, time.Now())
}
