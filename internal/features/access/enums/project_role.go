package access_enums

type ProjectRole string

const (
	ProjectRoleManager ProjectRole = "manager"
	ProjectRoleAdmin   ProjectRole = "admin"
	ProjectRoleMember  ProjectRole = "member"
	ProjectRoleViewer  ProjectRole = "viewer"
)

func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleManager, ProjectRoleAdmin, ProjectRoleMember, ProjectRoleViewer:
		return true
	default:
		return false
	}
}

func (r ProjectRole) Rank() int {
	switch r {
	case ProjectRoleManager:
		return 0
	case ProjectRoleAdmin:
		return 1
	case ProjectRoleMember:
		return 2
	case ProjectRoleViewer:
		return 3
	default:
		return 4
	}
}
