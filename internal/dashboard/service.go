package dashboard

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"library-backend/internal/borrowing"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/domerr"
)

const (
	recentLimit         = 10
	historyLimit        = 10
	popularLimit        = 5
	recommendationLimit = 5

	// dueSoonDays is the "due soon" window on the member dashboard.
	dueSoonDays = 3
	// memberBorrowLimit is the active-borrowing count at which the
	// dashboard flags the limit as reached. Advisory only, the ledger
	// does not enforce it.
	memberBorrowLimit = 5
)

// DayBounds pins "today", "due soon" and "this week" to UTC calendar
// days so the counting queries and the derived day math agree.
type DayBounds struct {
	Start   time.Time
	Next    time.Time
	SoonEnd time.Time
	WeekEnd time.Time
}

func NewDayBounds(now time.Time) DayBounds {
	start := now.UTC().Truncate(24 * time.Hour)
	return DayBounds{
		Start:   start,
		Next:    start.Add(24 * time.Hour),
		SoonEnd: start.Add((dueSoonDays + 1) * 24 * time.Hour),
		WeekEnd: start.Add(8 * 24 * time.Hour),
	}
}

type Service struct {
	store Store
	clock borrowing.Clock
}

func NewService(conn *sql.DB) *Service {
	return newService(NewStore(conn), nil)
}

func newService(store Store, clock borrowing.Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{store: store, clock: clock}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Librarian assembles the librarian dashboard: overview counts, books
// due today, overdue members, recent activity, popular books.
func (s *Service) Librarian(ctx context.Context, actor auth.Actor) (*LibrarianDashboard, error) {
	if !actor.IsLibrarian() {
		return nil, domerr.Forbidden("only librarians can view this dashboard")
	}
	now := s.clock.Now()
	day := NewDayBounds(now)

	counts, err := s.store.LibrarianCounts(ctx, day)
	if err != nil {
		return nil, err
	}
	dueToday, err := s.store.DueToday(ctx, day)
	if err != nil {
		return nil, err
	}
	overdue, err := s.store.OverdueActive(ctx, now.UTC())
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	popular, err := s.store.PopularBooks(ctx, popularLimit)
	if err != nil {
		return nil, err
	}

	return &LibrarianDashboard{
		Overview:         *counts,
		BooksDueToday:    toSummaries(dueToday, now),
		OverdueMembers:   groupOverdueByMember(overdue, now),
		RecentBorrowings: toSummaries(recent, now),
		PopularBooks:     popular,
	}, nil
}

// Member assembles the member dashboard for the actor's own
// borrowings.
func (s *Service) Member(ctx context.Context, actor auth.Actor) (*MemberDashboard, error) {
	if !actor.IsMember() {
		return nil, domerr.Forbidden("only members can view this dashboard")
	}
	now := s.clock.Now()
	day := NewDayBounds(now)

	counts, err := s.store.MemberCounts(ctx, actor.ID, day)
	if err != nil {
		return nil, err
	}
	active, err := s.store.ActiveForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ReturnedForUser(ctx, actor.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	recs, err := s.recommendations(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &MemberDashboard{
		Overview: MemberOverview{
			MemberCounts:          *counts,
			BorrowingLimitReached: counts.CurrentlyBorrowed >= memberBorrowLimit,
		},
		ActiveBorrowings: toMemberDetails(active, now),
		BorrowingHistory: toMemberDetails(history, now),
		Recommendations:  recs,
	}, nil
}

// recommendations prefers popular lendable books in the member's
// borrowed genres; a member with no genre history gets the global
// popular list.
func (s *Service) recommendations(ctx context.Context, userID int64) ([]Recommendation, error) {
	genres, err := s.store.BorrowedGenres(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return s.store.PopularAvailable(ctx, recommendationLimit)
	}
	return s.store.RecommendationsByGenre(ctx, userID, genres, recommendationLimit)
}

// groupOverdueByMember buckets overdue borrowings per user and orders
// the buckets by total days overdue, worst first.
func groupOverdueByMember(overdue []borrowing.Detail, now time.Time) []OverdueMember {
	byUser := map[int64]*OverdueMember{}
	order := []int64{}
	for i := range overdue {
		d := &overdue[i]
		m, ok := byUser[d.UserID]
		if !ok {
			m = &OverdueMember{
				User: UserRef{
					ID:    d.UserID,
					Name:  d.UserFirstName + " " + d.UserLastName,
					Email: d.UserEmail,
				},
			}
			byUser[d.UserID] = m
			order = append(order, d.UserID)
		}
		m.OverdueCount++
		m.TotalDaysOverdue += d.DaysOverdue(now)
		m.Books = append(m.Books, toSummary(d, now))
	}

	members := make([]OverdueMember, 0, len(order))
	for _, id := range order {
		members = append(members, *byUser[id])
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].TotalDaysOverdue > members[j].TotalDaysOverdue
	})
	return members
}
