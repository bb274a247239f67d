package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"library-backend/internal/platform/db"
	"library-backend/internal/platform/domerr"
)

// Clock injection keeps the publication-year upper bound testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// txRunner abstracts the transactional critical section so tests can
// substitute an in-memory equivalent.
type txRunner func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error

type Service struct {
	store Store
	clock Clock
	run   txRunner
}

func NewService(conn *sql.DB) *Service {
	return newService(NewStore(conn), realClock{}, func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
		return db.RunInTxRetry(ctx, conn, nil, fn)
	})
}

func newService(store Store, clock Clock, run txRunner) *Service {
	return &Service{store: store, clock: clock, run: run}
}

var (
	isbnSeparators = regexp.MustCompile(`[-\s]`)
	foldCaser      = cases.Fold()
)

// errISBNTaken surfaces the unique ISBN index as a typed validation
// failure when two writes race past the FindIDByISBN precheck.
var errISBNTaken = domerr.Validation([]domerr.FieldError{
	{Field: "isbn", Message: "has already been taken"},
})

// NormalizeISBN strips separators and case-folds so uniqueness is
// case-insensitive regardless of how the ISBN was typed.
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(foldCaser.String(isbnSeparators.ReplaceAllString(isbn, "")))
}

// Create validates and inserts a new book. available_copies defaults
// to total_copies (default 1); every violated field is reported.
func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*Book, error) {
	b := &Book{
		Title:  strings.TrimSpace(req.Title),
		Author: strings.TrimSpace(req.Author),
		Status: StatusAvailable,
	}
	applyOptString(&b.ISBN, req.ISBN, NormalizeISBN)
	applyOptString(&b.Description, req.Description, nil)
	applyOptString(&b.Genre, req.Genre, strings.TrimSpace)
	applyOptString(&b.Publisher, req.Publisher, strings.TrimSpace)
	if req.PublicationYear != nil {
		b.PublicationYear = sql.NullInt64{Int64: int64(*req.PublicationYear), Valid: true}
	}

	b.TotalCopies = 1
	if req.TotalCopies != nil {
		b.TotalCopies = *req.TotalCopies
	}
	b.AvailableCopies = b.TotalCopies
	if req.AvailableCopies != nil {
		b.AvailableCopies = *req.AvailableCopies
	}

	if err := s.validate(ctx, b, 0); err != nil {
		return nil, err
	}

	id, err := s.store.Insert(ctx, b)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, errISBNTaken
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get fetches a book by id; public browsing goes through here.
func (s *Service) Get(ctx context.Context, id int64) (*Book, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerr.NotFound("book not found")
		}
		return nil, err
	}
	return b, nil
}

// Update applies a partial metadata edit. Status is not editable
// here; the ledger and the status override own it. Read, merge and
// write run in one transaction under the book row lock, and copy
// counts are written back only when the request names them, so a
// borrow or return committing alongside the edit is never undone.
func (s *Service) Update(ctx context.Context, id int64, req UpdateBookRequest) (*Book, error) {
	err := s.run(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := s.store.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domerr.NotFound("book not found")
			}
			return err
		}

		if req.Title != nil {
			b.Title = strings.TrimSpace(*req.Title)
		}
		if req.Author != nil {
			b.Author = strings.TrimSpace(*req.Author)
		}
		applyOptString(&b.ISBN, req.ISBN, NormalizeISBN)
		applyOptString(&b.Description, req.Description, nil)
		applyOptString(&b.Genre, req.Genre, strings.TrimSpace)
		applyOptString(&b.Publisher, req.Publisher, strings.TrimSpace)
		if req.PublicationYear != nil {
			b.PublicationYear = sql.NullInt64{Int64: int64(*req.PublicationYear), Valid: true}
		}
		withCopies := req.TotalCopies != nil || req.AvailableCopies != nil
		if req.TotalCopies != nil {
			b.TotalCopies = *req.TotalCopies
		}
		if req.AvailableCopies != nil {
			b.AvailableCopies = *req.AvailableCopies
		}

		if err := s.validate(ctx, b, id); err != nil {
			return err
		}
		if err := s.store.Update(ctx, tx, b, withCopies); err != nil {
			if db.IsDuplicateEntry(err) {
				return errISBNTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domerr.NotFound("book not found")
	}
	return nil
}

// ManageStatus is the librarian override. It sets status directly and
// deliberately leaves available_copies alone.
func (s *Service) ManageStatus(ctx context.Context, id int64, status string) (*Book, error) {
	st := BookStatus(status)
	if !st.Valid() {
		return nil, domerr.InvalidArgument(
			fmt.Sprintf("invalid status, valid values: %s", strings.Join(ValidStatuses(), ", ")))
	}
	ok, err := s.store.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerr.NotFound("book not found")
		}
		return nil, err
	}
	if !ok {
		return nil, domerr.NotFound("book not found")
	}
	return s.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, p Page) ([]Book, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domerr.InvalidArgument("invalid status filter")
	}
	return s.store.List(ctx, f, p)
}

func (s *Service) Search(ctx context.Context, query string) ([]Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domerr.InvalidArgument("search query is required")
	}
	return s.store.Search(ctx, query, 50)
}

// validate collects every violated field. excludeID skips the
// ISBN-uniqueness check against the book itself on updates.
func (s *Service) validate(ctx context.Context, b *Book, excludeID int64) error {
	var fields []domerr.FieldError
	add := func(field, msg string) {
		fields = append(fields, domerr.FieldError{Field: field, Message: msg})
	}

	if n := len(b.Title); n < 1 || n > 255 {
		add("title", "must be between 1 and 255 characters")
	}
	if n := len(b.Author); n < 1 || n > 255 {
		add("author", "must be between 1 and 255 characters")
	}
	if b.PublicationYear.Valid {
		year := int(b.PublicationYear.Int64)
		maxYear := s.clock.Now().Year() + 1
		if year <= 1000 || year > maxYear {
			add("publication_year", fmt.Sprintf("must be greater than 1000 and at most %d", maxYear))
		}
	}
	if b.TotalCopies <= 0 {
		add("total_copies", "must be greater than 0")
	}
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		add("available_copies", "must be between 0 and total_copies")
	}
	if b.ISBN.Valid {
		otherID, err := s.store.FindIDByISBN(ctx, b.ISBN.String)
		switch {
		case err == nil && otherID != excludeID:
			add("isbn", "has already been taken")
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return err
		}
	}

	if len(fields) > 0 {
		return domerr.Validation(fields)
	}
	return nil
}

// mapTxErr translates the retry-runner sentinel into the taxonomy;
// typed domain errors pass through untouched.
func mapTxErr(err error) error {
	if errors.Is(err, db.ErrRetriesExhausted) {
		return domerr.RetryExhausted()
	}
	return err
}

// applyOptString copies an optional request field into a NullString,
// treating an explicit empty string as clearing the value.
func applyOptString(dst *sql.NullString, src *string, norm func(string) string) {
	if src == nil {
		return
	}
	v := *src
	if norm != nil {
		v = norm(v)
	}
	if v == "" {
		*dst = sql.NullString{}
		return
	}
	*dst = sql.NullString{String: v, Valid: true}
}
