package borrowing

import "library-backend/internal/platform/auth"

// CanView: librarians see every borrowing, members only their own.
func CanView(actor auth.Actor, ownerID int64) bool {
	if actor.Anonymous() {
		return false
	}
	return actor.IsLibrarian() || actor.ID == ownerID
}

// CanViewHistoryOf gates per-user history listings: librarians, or
// the user themselves.
func CanViewHistoryOf(actor auth.Actor, userID int64) bool {
	if actor.Anonymous() {
		return false
	}
	return actor.IsLibrarian() || actor.ID == userID
}

// ScopedTo narrows a listing filter to what the actor may see. A
// member's filter is pinned to their own rows regardless of any
// user_id they asked for.
func (f Filter) ScopedTo(actor auth.Actor) Filter {
	if !actor.IsLibrarian() {
		f.UserID = actor.ID
	}
	return f
}
