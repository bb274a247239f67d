package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/platform/db"
	"library-backend/internal/platform/domerr"
)

type fakeStore struct {
	books  map[int64]*Book
	byISBN map[string]int64
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{books: map[int64]*Book{}, byISBN: map[string]int64{}}
}

func (s *fakeStore) Insert(_ context.Context, b *Book) (int64, error) {
	s.nextID++
	cp := *b
	cp.ID = s.nextID
	s.books[cp.ID] = &cp
	if cp.ISBN.Valid {
		s.byISBN[cp.ISBN.String] = cp.ID
	}
	return cp.ID, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, _ db.DBTX, id int64) (*Book, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStore) FindIDByISBN(_ context.Context, isbn string) (int64, error) {
	id, ok := s.byISBN[isbn]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return id, nil
}

// Update mirrors the SQL column list: copy counts are only written
// when withCopies is set.
func (s *fakeStore) Update(_ context.Context, _ db.DBTX, b *Book, withCopies bool) error {
	old, ok := s.books[b.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if old.ISBN.Valid {
		delete(s.byISBN, old.ISBN.String)
	}
	cp := *b
	if !withCopies {
		cp.TotalCopies = old.TotalCopies
		cp.AvailableCopies = old.AvailableCopies
	}
	s.books[b.ID] = &cp
	if cp.ISBN.Valid {
		s.byISBN[cp.ISBN.String] = cp.ID
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	b, ok := s.books[id]
	if !ok {
		return false, nil
	}
	if b.ISBN.Valid {
		delete(s.byISBN, b.ISBN.String)
	}
	delete(s.books, id)
	return true, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id int64, status BookStatus) (bool, error) {
	b, ok := s.books[id]
	if !ok {
		return false, nil
	}
	b.Status = status
	return true, nil
}

func (s *fakeStore) List(_ context.Context, f Filter, _ Page) ([]Book, int64, error) {
	out := []Book{}
	for _, b := range s.books {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Search(_ context.Context, _ string, _ int) ([]Book, error) {
	out := []Book{}
	for _, b := range s.books {
		out = append(out, *b)
	}
	return out, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func passRun(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

func testService() (*Service, *fakeStore) {
	store := newFakeStore()
	return newService(store, fixedClock{t: testNow}, passRun), store
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var de *domerr.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, domerr.CodeValidation, de.Code)
	out := map[string]string{}
	for _, f := range de.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9780132350884", NormalizeISBN("978-0-13-235088-4"))
	assert.Equal(t, "9780132350884", NormalizeISBN("978 0 13 235088 4"))
	assert.Equal(t, "043942089X", NormalizeISBN("0-439-42089-x"))
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := testService()

	b, err := svc.Create(context.Background(), CreateBookRequest{
		Title:  "The Go Programming Language",
		Author: "Donovan & Kernighan",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, b.TotalCopies)
	assert.Equal(t, 1, b.AvailableCopies)
	assert.Equal(t, StatusAvailable, b.Status)
}

func TestCreate_AvailableDefaultsToTotal(t *testing.T) {
	svc, _ := testService()

	b, err := svc.Create(context.Background(), CreateBookRequest{
		Title:       "Clean Architecture",
		Author:      "Robert C. Martin",
		TotalCopies: intptr(4),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, b.TotalCopies)
	assert.Equal(t, 4, b.AvailableCopies)
}

func TestCreate_CollectsEveryViolation(t *testing.T) {
	svc, _ := testService()

	_, err := svc.Create(context.Background(), CreateBookRequest{
		Title:           " ",
		Author:          " ",
		PublicationYear: intptr(999),
		TotalCopies:     intptr(0),
		AvailableCopies: intptr(5),
	})
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "author")
	assert.Contains(t, fields, "publication_year")
	assert.Contains(t, fields, "total_copies")
	assert.Contains(t, fields, "available_copies")
}

func TestCreate_PublicationYearBounds(t *testing.T) {
	svc, _ := testService() // clock pinned to 2026

	ok := func(year int) error {
		_, err := svc.Create(context.Background(), CreateBookRequest{
			Title:           "Book",
			Author:          "Author",
			PublicationYear: intptr(year),
		})
		return err
	}

	require.NoError(t, ok(1001))
	require.NoError(t, ok(2026))
	require.NoError(t, ok(2027)) // next year is allowed for pre-releases

	err := ok(1000)
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err), "publication_year")

	err = ok(2028)
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err), "publication_year")
}

func TestCreate_DuplicateISBN(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBookRequest{
		Title: "First", Author: "A", ISBN: strptr("978-0-13-235088-4"),
	})
	require.NoError(t, err)

	// Same ISBN with different separators still collides.
	_, err = svc.Create(ctx, CreateBookRequest{
		Title: "Second", Author: "B", ISBN: strptr("9780132350884"),
	})
	require.Error(t, err)
	assert.Equal(t, "has already been taken", fieldsOf(t, err)["isbn"])
}

func TestUpdate_KeepsOwnISBN(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{
		Title: "Book", Author: "A", ISBN: strptr("9780132350884"),
	})
	require.NoError(t, err)

	// Re-submitting the same ISBN on update is not a collision.
	updated, err := svc.Update(ctx, b.ID, UpdateBookRequest{
		Title: strptr("Book, 2nd ed."),
		ISBN:  strptr("978-0-13-235088-4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Book, 2nd ed.", updated.Title)
	assert.Equal(t, "9780132350884", updated.ISBN.String)
}

func TestUpdate_PartialMergeValidated(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{
		Title: "Book", Author: "A", TotalCopies: intptr(3),
	})
	require.NoError(t, err)

	// Shrinking total below the current available count must fail.
	_, err = svc.Update(ctx, b.ID, UpdateBookRequest{TotalCopies: intptr(2)})
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err), "available_copies")
}

// borrowDuringUpdateStore lets a test commit a copy-count change
// after the edit has read the row, the interleaving a row lock rules
// out in MySQL but which the column-scoped UPDATE must survive anyway.
type borrowDuringUpdateStore struct {
	*fakeStore
	afterRead func()
}

func (s *borrowDuringUpdateStore) GetForUpdate(ctx context.Context, tx db.DBTX, id int64) (*Book, error) {
	b, err := s.fakeStore.GetForUpdate(ctx, tx, id)
	if err == nil && s.afterRead != nil {
		s.afterRead()
	}
	return b, err
}

func TestUpdate_TitleOnlyKeepsConcurrentCopyCount(t *testing.T) {
	base := newFakeStore()
	store := &borrowDuringUpdateStore{fakeStore: base}
	svc := newService(store, fixedClock{t: testNow}, passRun)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{
		Title: "Book", Author: "A", TotalCopies: intptr(3),
	})
	require.NoError(t, err)

	// A borrow commits while the metadata edit is in flight.
	store.afterRead = func() { base.books[b.ID].AvailableCopies = 2 }

	updated, err := svc.Update(ctx, b.ID, UpdateBookRequest{Title: strptr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, 2, updated.AvailableCopies, "title-only update must not write back the stale copy count")
	assert.Equal(t, 3, updated.TotalCopies)
}

func TestUpdate_ExplicitCopyCountsWritten(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{
		Title: "Book", Author: "A", TotalCopies: intptr(3),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, UpdateBookRequest{
		TotalCopies:     intptr(5),
		AvailableCopies: intptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.TotalCopies)
	assert.Equal(t, 4, updated.AvailableCopies)
}

// dupKeyInsertStore loses the insert race on the unique ISBN index.
type dupKeyInsertStore struct{ *fakeStore }

func (s *dupKeyInsertStore) Insert(_ context.Context, _ *Book) (int64, error) {
	return 0, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func TestCreate_DuplicateISBNRaceMapsToValidation(t *testing.T) {
	svc := newService(&dupKeyInsertStore{newFakeStore()}, fixedClock{t: testNow}, passRun)

	_, err := svc.Create(context.Background(), CreateBookRequest{
		Title: "Book", Author: "A", ISBN: strptr("9780132350884"),
	})
	require.Error(t, err)
	assert.Equal(t, "has already been taken", fieldsOf(t, err)["isbn"])
}

// dupKeyUpdateStore loses the update race on the unique ISBN index.
type dupKeyUpdateStore struct{ *fakeStore }

func (s *dupKeyUpdateStore) Update(_ context.Context, _ db.DBTX, _ *Book, _ bool) error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func TestUpdate_DuplicateISBNRaceMapsToValidation(t *testing.T) {
	store := &dupKeyUpdateStore{newFakeStore()}
	svc := newService(store, fixedClock{t: testNow}, passRun)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{Title: "Book", Author: "A"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, UpdateBookRequest{ISBN: strptr("9780132350884")})
	require.Error(t, err)
	assert.Equal(t, "has already been taken", fieldsOf(t, err)["isbn"])
}

func TestUpdate_RetryExhaustedMapsToConflict(t *testing.T) {
	store := newFakeStore()
	exhausted := func(_ context.Context, _ func(ctx context.Context, tx db.DBTX) error) error {
		return errors.Join(db.ErrRetriesExhausted, &mysql.MySQLError{Number: 1213, Message: "Deadlock found"})
	}
	svc := newService(store, fixedClock{t: testNow}, exhausted)

	_, err := svc.Update(context.Background(), 1, UpdateBookRequest{Title: strptr("X")})
	require.Error(t, err)
	assert.Equal(t, domerr.CodeRetryExhausted, domerr.CodeOf(err))
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := testService()

	_, err := svc.Update(context.Background(), 404, UpdateBookRequest{Title: strptr("X")})
	require.Error(t, err)
	assert.Equal(t, domerr.CodeNotFound, domerr.CodeOf(err))
}

func TestManageStatus_OverrideLeavesCopiesAlone(t *testing.T) {
	svc, store := testService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{
		Title: "Book", Author: "A", TotalCopies: intptr(3),
	})
	require.NoError(t, err)

	updated, err := svc.ManageStatus(ctx, b.ID, "maintenance")
	require.NoError(t, err)
	assert.Equal(t, StatusMaintenance, updated.Status)
	assert.Equal(t, 3, store.books[b.ID].AvailableCopies)
}

func TestManageStatus_InvalidValue(t *testing.T) {
	svc, _ := testService()

	_, err := svc.ManageStatus(context.Background(), 1, "destroyed")
	require.Error(t, err)
	assert.Equal(t, domerr.CodeInvalidArgument, domerr.CodeOf(err))
}

func TestDelete(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{Title: "Book", Author: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))

	err = svc.Delete(ctx, b.ID)
	require.Error(t, err)
	assert.Equal(t, domerr.CodeNotFound, domerr.CodeOf(err))
}

func TestList_InvalidStatusFilter(t *testing.T) {
	svc, _ := testService()

	_, _, err := svc.List(context.Background(), Filter{Status: "gone"}, Page{})
	require.Error(t, err)
	assert.Equal(t, domerr.CodeInvalidArgument, domerr.CodeOf(err))
}

func TestSearch_RequiresQuery(t *testing.T) {
	svc, _ := testService()

	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, domerr.CodeInvalidArgument, domerr.CodeOf(err))
}
