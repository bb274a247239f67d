package auth

// Role is the closed set of user roles.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLibrarian:
		return true
	}
	return false
}

// Actor is the authenticated caller attached to a request. The zero
// value is the anonymous actor.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) Anonymous() bool { return a.ID == 0 }

func (a Actor) IsMember() bool { return a.Role == RoleMember }

func (a Actor) IsLibrarian() bool { return a.Role == RoleLibrarian }
