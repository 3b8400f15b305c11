package access

import (
	"zidotask/internal/features/memberships"
)

var gate = NewGate(memberships.GetMembershipStore())

func GetGate() *Gate {
	return gate
}
