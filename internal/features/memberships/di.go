package memberships

var membershipRepository = &MembershipRepository{}
var membershipStore = &MembershipStore{
	repository: membershipRepository,
}

func GetMembershipStore() *MembershipStore {
	return membershipStore
}
