package access_enums

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
	TeamRoleGuest  TeamRole = "guest"
)

func (r TeamRole) IsValid() bool {
	switch r {
	case TeamRoleOwner, TeamRoleAdmin, TeamRoleMember, TeamRoleGuest:
		return true
	default:
		return false
	}
}

// IsAssignable reports whether the role can be granted by adding a member,
// changing a role or accepting an invitation. Ownership only moves through
// team creation and ownership transfer.
func (r TeamRole) IsAssignable() bool {
	return r.IsValid() && r != TeamRoleOwner
}

// Rank orders roles for listing, lower first.
func (r TeamRole) Rank() int {
	switch r {
	case TeamRoleOwner:
		return 0
	case TeamRoleAdmin:
		return 1
	case TeamRoleMember:
		return 2
	case TeamRoleGuest:
		return 3
	default:
		return 4
	}
}
