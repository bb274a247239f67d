package borrowing

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/db"
	"library-backend/internal/platform/domerr"
)

// txRunner abstracts the transactional critical section so tests can
// substitute an in-memory equivalent.
type txRunner func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error

// Service is the borrowing ledger. It owns every mutation of
// borrowing rows and every copy-count side effect on books; borrow
// and return run as single transactions serialized per book by a row
// lock.
type Service struct {
	store Store
	clock Clock
	id    IDGen
	run   txRunner
}

func NewService(conn *sql.DB) *Service {
	return newService(NewStore(conn), realClock{}, ulidGen{}, func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
		return db.RunInTxRetry(ctx, conn, nil, fn)
	})
}

func newService(store Store, clock Clock, id IDGen, run txRunner) *Service {
	return &Service{store: store, clock: clock, id: id, run: run}
}

// Borrow checks out one copy of a book to a member. Preconditions in
// order: member role, no active borrowing for (user, book), book
// available with copies. Insert and decrement commit together or not
// at all.
func (s *Service) Borrow(ctx context.Context, actor auth.Actor, bookID int64) (*Detail, error) {
	if !actor.IsMember() {
		return nil, domerr.Forbidden("only members can borrow books")
	}

	ulid, err := s.id.New()
	if err != nil {
		return nil, err
	}

	var created *Borrowing
	err = s.run(ctx, func(ctx context.Context, tx db.DBTX) error {
		book, err := s.store.GetBookForUpdate(ctx, tx, bookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domerr.NotFound("book not found")
			}
			return err
		}

		active, err := s.store.HasActive(ctx, tx, actor.ID, bookID)
		if err != nil {
			return err
		}
		if active {
			return domerr.AlreadyBorrowed()
		}

		if !book.CanBeCheckedOut() {
			return domerr.BookUnavailable()
		}

		now := s.clock.Now().UTC()
		b := &Borrowing{
			ULID:       ulid,
			UserID:     actor.ID,
			BookID:     bookID,
			BorrowedAt: now,
			DueAt:      now.Add(LoanPeriod),
			Status:     StatusBorrowed,
		}
		id, err := s.store.Insert(ctx, tx, b)
		if err != nil {
			return err
		}
		b.ID = id

		if err := s.store.DecrementAvailable(ctx, tx, bookID); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}

	return s.detail(ctx, created.ID)
}

// Return closes a borrowing and gives the copy back. Librarian only.
// The already-returned check and the mutation are atomic: the guarded
// UPDATE decides the winner, so the increment applies exactly once.
func (s *Service) Return(ctx context.Context, actor auth.Actor, key string) (*Detail, error) {
	if !actor.IsLibrarian() {
		return nil, domerr.Forbidden("only librarians can process returns")
	}

	var returnedID int64
	err := s.run(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := s.getForUpdateByKey(ctx, tx, key)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domerr.NotFound("borrowing record not found")
			}
			return err
		}
		if !b.Active() {
			return domerr.AlreadyReturned()
		}

		ok, err := s.store.MarkReturned(ctx, tx, b.ID, s.clock.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return domerr.AlreadyReturned()
		}

		// Lock the book row before adjusting its copy count.
		if _, err := s.store.GetBookForUpdate(ctx, tx, b.BookID); err != nil {
			return err
		}
		if err := s.store.IncrementAvailable(ctx, tx, b.BookID); err != nil {
			return err
		}
		returnedID = b.ID
		return nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}

	return s.detail(ctx, returnedID)
}

// SweepOverdue flags active borrowings past due. Idempotent and free
// of book side effects, so it is safe to run from the ticker and the
// endpoint concurrently.
func (s *Service) SweepOverdue(ctx context.Context) (int64, error) {
	var swept int64
	err := s.run(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := s.store.SweepOverdue(ctx, tx, s.clock.Now().UTC())
		swept = n
		return err
	})
	if err != nil {
		return 0, mapTxErr(err)
	}
	return swept, nil
}

// Get fetches one borrowing by numeric id or ULID, subject to the
// view policy.
func (s *Service) Get(ctx context.Context, actor auth.Actor, key string) (*Detail, error) {
	d, err := s.detailByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, d.UserID) {
		return nil, domerr.Forbidden("you are not authorized to view this borrowing")
	}
	return d, nil
}

// List returns borrowings visible to the actor, newest first. Member
// filters are scoped to their own rows.
func (s *Service) List(ctx context.Context, actor auth.Actor, f Filter, p Page) ([]Detail, int64, error) {
	if actor.Anonymous() {
		return nil, 0, domerr.Unauthorized("authentication required")
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, domerr.InvalidArgument("invalid status filter")
	}
	return s.store.List(ctx, f.ScopedTo(actor), p)
}

// HistoryForUser is the full borrowing history of one user, for the
// user themselves or a librarian.
func (s *Service) HistoryForUser(ctx context.Context, actor auth.Actor, userID int64) ([]Detail, error) {
	if !CanViewHistoryOf(actor, userID) {
		return nil, domerr.Forbidden("you are not authorized to view these borrowings")
	}
	return s.store.ListAllByUser(ctx, userID)
}

// HistoryForBook is the full borrowing history of one book,
// librarian only.
func (s *Service) HistoryForBook(ctx context.Context, actor auth.Actor, bookID int64) ([]Detail, error) {
	if !actor.IsLibrarian() {
		return nil, domerr.Forbidden("only librarians can view book borrowing history")
	}
	return s.store.ListAllByBook(ctx, bookID)
}

// Now exposes the ledger clock so handlers render derived fields
// (overdue, days until due) consistently with it.
func (s *Service) Now() time.Time { return s.clock.Now() }

func (s *Service) getForUpdateByKey(ctx context.Context, tx db.DBTX, key string) (*Borrowing, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		return s.store.GetForUpdate(ctx, tx, id)
	}
	return s.store.GetForUpdateByULID(ctx, tx, key)
}

func (s *Service) detail(ctx context.Context, id int64) (*Detail, error) {
	d, err := s.store.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerr.NotFound("borrowing record not found")
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) detailByKey(ctx context.Context, key string) (*Detail, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		return s.detail(ctx, id)
	}
	d, err := s.store.GetDetailByULID(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domerr.NotFound("borrowing record not found")
		}
		return nil, err
	}
	return d, nil
}

// mapTxErr translates the retry-runner sentinel into the taxonomy;
// typed domain errors pass through untouched.
func mapTxErr(err error) error {
	if errors.Is(err, db.ErrRetriesExhausted) {
		return domerr.RetryExhausted()
	}
	return err
}
