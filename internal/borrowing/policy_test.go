package borrowing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"library-backend/internal/platform/auth"
)

func TestCanView(t *testing.T) {
	assert.True(t, CanView(librarian, member.ID))
	assert.True(t, CanView(member, member.ID))
	assert.False(t, CanView(member, member2.ID))
	assert.False(t, CanView(auth.Actor{}, member.ID))
}

func TestCanViewHistoryOf(t *testing.T) {
	assert.True(t, CanViewHistoryOf(librarian, member.ID))
	assert.True(t, CanViewHistoryOf(member, member.ID))
	assert.False(t, CanViewHistoryOf(member, member2.ID))
	assert.False(t, CanViewHistoryOf(auth.Actor{}, member.ID))
}

func TestFilter_ScopedTo(t *testing.T) {
	// A member's filter is pinned to their own rows.
	f := Filter{UserID: member2.ID}.ScopedTo(member)
	assert.Equal(t, member.ID, f.UserID)

	f = Filter{}.ScopedTo(member)
	assert.Equal(t, member.ID, f.UserID)

	// Librarians keep whatever they asked for.
	f = Filter{UserID: member2.ID}.ScopedTo(librarian)
	assert.Equal(t, member2.ID, f.UserID)

	f = Filter{}.ScopedTo(librarian)
	assert.Zero(t, f.UserID)
}
