package memberships

import (
	"slices"
)

// SortTeamMembers orders members by role rank, owner first, then by join
// time. Other components rely on this order.
func SortTeamMembers(members []*TeamMember) {
	slices.SortStableFunc(members, func(a, b *TeamMember) int {
		if rankDiff := a.Role.Rank() - b.Role.Rank(); rankDiff != 0 {
			return rankDiff
		}

		return a.JoinedAt.Compare(b.JoinedAt)
	})
}

// SortProjectMembers orders members by role rank, managers first, then by
// join time.
func SortProjectMembers(members []*ProjectMember) {
	slices.SortStableFunc(members, func(a, b *ProjectMember) int {
		if rankDiff := a.Role.Rank() - b.Role.Rank(); rankDiff != 0 {
			return rankDiff
		}

		return a.JoinedAt.Compare(b.JoinedAt)
	})
}
