package access

import (
	access_enums "zidotask/internal/features/access/enums"

	"github.com/google/uuid"
)

// Resource is what an action is performed on. TeamID is the team itself for
// team resources and the owning team for projects.
type Resource struct {
	Kind            access_enums.ResourceKind
	ID              uuid.UUID
	TeamID          uuid.UUID
	TargetAccountID *uuid.UUID
}

func TeamResource(teamID uuid.UUID) Resource {
	return Resource{
		Kind:   access_enums.ResourceKindTeam,
		ID:     teamID,
		TeamID: teamID,
	}
}

func ProjectResource(projectID, teamID uuid.UUID) Resource {
	return Resource{
		Kind:   access_enums.ResourceKindProject,
		ID:     projectID,
		TeamID: teamID,
	}
}

// WithTarget names the member an action is applied to.
func (r Resource) WithTarget(accountID uuid.UUID) Resource {
	r.TargetAccountID = &accountID
	return r
}
