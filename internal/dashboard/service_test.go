package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/borrowing"
	"library-backend/internal/platform/auth"
	"library-backend/internal/platform/domerr"
)

type fakeStore struct {
	librarianCounts LibrarianCounts
	memberCounts    MemberCounts
	dueToday        []borrowing.Detail
	overdue         []borrowing.Detail
	recent          []borrowing.Detail
	popular         []PopularBook
	active          []borrowing.Detail
	returned        []borrowing.Detail
	genres          []string
	byGenre         []Recommendation
	popularAvail    []Recommendation
}

func (s *fakeStore) LibrarianCounts(context.Context, DayBounds) (*LibrarianCounts, error) {
	c := s.librarianCounts
	return &c, nil
}
func (s *fakeStore) MemberCounts(context.Context, int64, DayBounds) (*MemberCounts, error) {
	c := s.memberCounts
	return &c, nil
}
func (s *fakeStore) DueToday(context.Context, DayBounds) ([]borrowing.Detail, error) {
	return s.dueToday, nil
}
func (s *fakeStore) OverdueActive(context.Context, time.Time) ([]borrowing.Detail, error) {
	return s.overdue, nil
}
func (s *fakeStore) Recent(context.Context, int) ([]borrowing.Detail, error) { return s.recent, nil }
func (s *fakeStore) PopularBooks(context.Context, int) ([]PopularBook, error) {
	return s.popular, nil
}
func (s *fakeStore) ActiveForUser(context.Context, int64) ([]borrowing.Detail, error) {
	return s.active, nil
}
func (s *fakeStore) ReturnedForUser(context.Context, int64, int) ([]borrowing.Detail, error) {
	return s.returned, nil
}
func (s *fakeStore) BorrowedGenres(context.Context, int64) ([]string, error) { return s.genres, nil }
func (s *fakeStore) RecommendationsByGenre(context.Context, int64, []string, int) ([]Recommendation, error) {
	return s.byGenre, nil
}
func (s *fakeStore) PopularAvailable(context.Context, int) ([]Recommendation, error) {
	return s.popularAvail, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	member    = auth.Actor{ID: 1, Role: auth.RoleMember}
	librarian = auth.Actor{ID: 9, Role: auth.RoleLibrarian}
	testNow   = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
)

func overdueDetail(userID int64, name string, daysLate int) borrowing.Detail {
	return borrowing.Detail{
		Borrowing: borrowing.Borrowing{
			ID:         userID * 100,
			UserID:     userID,
			BookID:     userID,
			BorrowedAt: testNow.Add(-time.Duration(daysLate+14) * 24 * time.Hour),
			DueAt:      testNow.Add(-time.Duration(daysLate) * 24 * time.Hour),
			Status:     borrowing.StatusOverdue,
		},
		UserFirstName: name,
		UserLastName:  "Reader",
		UserEmail:     name + "@example.com",
		BookTitle:     "Book",
		BookAuthor:    "Author",
	}
}

func TestLibrarian_RoleGate(t *testing.T) {
	svc := newService(&fakeStore{}, fixedClock{t: testNow})

	_, err := svc.Librarian(context.Background(), member)
	require.Error(t, err)
	assert.Equal(t, domerr.CodeForbidden, domerr.CodeOf(err))

	_, err = svc.Librarian(context.Background(), librarian)
	require.NoError(t, err)
}

func TestMember_RoleGate(t *testing.T) {
	svc := newService(&fakeStore{}, fixedClock{t: testNow})

	_, err := svc.Member(context.Background(), librarian)
	require.Error(t, err)
	assert.Equal(t, domerr.CodeForbidden, domerr.CodeOf(err))

	_, err = svc.Member(context.Background(), member)
	require.NoError(t, err)
}

func TestLibrarian_OverdueMembersGroupedAndSorted(t *testing.T) {
	store := &fakeStore{
		overdue: []borrowing.Detail{
			overdueDetail(1, "alice", 2),
			overdueDetail(2, "bob", 10),
			overdueDetail(1, "alice", 3),
		},
	}
	svc := newService(store, fixedClock{t: testNow})

	d, err := svc.Librarian(context.Background(), librarian)
	require.NoError(t, err)

	require.Len(t, d.OverdueMembers, 2)

	// bob's 10 days outrank alice's 2+3.
	assert.Equal(t, int64(2), d.OverdueMembers[0].User.ID)
	assert.Equal(t, 10, d.OverdueMembers[0].TotalDaysOverdue)
	assert.Equal(t, 1, d.OverdueMembers[0].OverdueCount)

	assert.Equal(t, int64(1), d.OverdueMembers[1].User.ID)
	assert.Equal(t, 5, d.OverdueMembers[1].TotalDaysOverdue)
	assert.Equal(t, 2, d.OverdueMembers[1].OverdueCount)
	assert.Len(t, d.OverdueMembers[1].Books, 2)
	assert.Equal(t, "alice Reader", d.OverdueMembers[1].User.Name)
}

func TestMember_BorrowingLimitFlag(t *testing.T) {
	under := &fakeStore{memberCounts: MemberCounts{CurrentlyBorrowed: 4}}
	svc := newService(under, fixedClock{t: testNow})
	d, err := svc.Member(context.Background(), member)
	require.NoError(t, err)
	assert.False(t, d.Overview.BorrowingLimitReached)

	at := &fakeStore{memberCounts: MemberCounts{CurrentlyBorrowed: 5}}
	svc = newService(at, fixedClock{t: testNow})
	d, err = svc.Member(context.Background(), member)
	require.NoError(t, err)
	assert.True(t, d.Overview.BorrowingLimitReached)
}

func TestMember_RecommendationFallback(t *testing.T) {
	genreRec := Recommendation{ID: 1, Title: "Genre Pick", Author: "A"}
	popularRec := Recommendation{ID: 2, Title: "Crowd Pick", Author: "B"}

	withHistory := &fakeStore{
		genres:       []string{"sci-fi"},
		byGenre:      []Recommendation{genreRec},
		popularAvail: []Recommendation{popularRec},
	}
	svc := newService(withHistory, fixedClock{t: testNow})
	d, err := svc.Member(context.Background(), member)
	require.NoError(t, err)
	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, "Genre Pick", d.Recommendations[0].Title)

	newReader := &fakeStore{popularAvail: []Recommendation{popularRec}}
	svc = newService(newReader, fixedClock{t: testNow})
	d, err = svc.Member(context.Background(), member)
	require.NoError(t, err)
	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, "Crowd Pick", d.Recommendations[0].Title)
}

func TestMember_DetailShapes(t *testing.T) {
	active := overdueDetail(1, "alice", 2)
	store := &fakeStore{active: []borrowing.Detail{active}}
	svc := newService(store, fixedClock{t: testNow})

	d, err := svc.Member(context.Background(), member)
	require.NoError(t, err)

	require.Len(t, d.ActiveBorrowings, 1)
	md := d.ActiveBorrowings[0]
	assert.True(t, md.Overdue)
	assert.Equal(t, 2, md.DaysOverdue)
	assert.Equal(t, -2, md.DaysUntilDue)
	assert.False(t, md.CanRenew)
	assert.Nil(t, md.ReturnedAt)
}

func TestNewDayBounds(t *testing.T) {
	day := NewDayBounds(time.Date(2026, 8, 15, 17, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), day.Start)
	assert.Equal(t, time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC), day.Next)
	assert.Equal(t, time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC), day.SoonEnd)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), day.WeekEnd)
}
