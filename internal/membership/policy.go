package membership

import "library-backend/internal/platform/auth"

// Policy predicates mirror the role rules: librarians administer
// users, members only reach themselves, and nobody changes their own
// role or deletes themselves.

func CanListUsers(actor auth.Actor) bool {
	return actor.IsLibrarian()
}

func CanViewUser(actor auth.Actor, userID int64) bool {
	if actor.Anonymous() {
		return false
	}
	return actor.IsLibrarian() || actor.ID == userID
}

func CanUpdateUser(actor auth.Actor, userID int64) bool {
	return CanViewUser(actor, userID)
}

func CanDeleteUser(actor auth.Actor, userID int64) bool {
	return actor.IsLibrarian() && actor.ID != userID
}

func CanChangeRole(actor auth.Actor, userID int64) bool {
	return actor.IsLibrarian() && actor.ID != userID
}
