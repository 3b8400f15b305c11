package projects_services

import (
	"context"
	"fmt"
	"strings"

	"zidotask/internal/features/access"
	access_enums "zidotask/internal/features/access/enums"
	accounts_models "zidotask/internal/features/accounts/models"
	"zidotask/internal/features/memberships"
	projects_dto "zidotask/internal/features/projects/dto"
	projects_enums "zidotask/internal/features/projects/enums"
	projects_interfaces "zidotask/internal/features/projects/interfaces"
	projects_models "zidotask/internal/features/projects/models"
	projects_repositories "zidotask/internal/features/projects/repositories"
	teams_services "zidotask/internal/features/teams/services"
	"zidotask/internal/storage"
	"zidotask/internal/util/app_errors"
	cache_utils "zidotask/internal/util/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepository *projects_repositories.ProjectRepository
	membershipStore   *memberships.MembershipStore
	teamService       *teams_services.TeamService
	gate              *access.Gate
	auditLogWriter    projects_interfaces.AuditLogWriter

	projectCacheUtil *cache_utils.CacheUtil[projects_models.Project]
	singleflight     singleflight.Group // Prevents thundering herd on DB calls
}

func (s *ProjectService) SetAuditLogWriter(writer projects_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

// CreateProject creates a project under the team and makes the creator its
// manager in one transaction.
func (s *ProjectService) CreateProject(
	ctx context.Context,
	teamID uuid.UUID,
	request *projects_dto.CreateProjectRequestDTO,
	creator *accounts_models.Account,
) (*projects_dto.ProjectResponseDTO, error) {
	err := s.gate.Authorize(ctx, creator, access_enums.ActionCreateProject, access.TeamResource(teamID))
	if err != nil {
		return nil, err
	}

	if _, err := s.teamService.GetTeamWithCache(ctx, teamID); err != nil {
		return nil, err
	}

	project := &projects_models.Project{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(request.Name),
		Description: strings.TrimSpace(request.Description),
		TeamID:      teamID,
		Status:      projects_enums.ProjectStatusPlanning,
		DueDate:     request.DueDate,
		Color:       request.Color,
	}

	if project.Name == "" {
		return nil, app_errors.Validation("project name is required")
	}

	if project.Color == "" {
		project.Color = projects_models.DefaultProjectColor
	}

	ctx, cancel := storage.WithTimeout(ctx)
	defer cancel()

	err = storage.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.projectRepository.WithTx(tx).CreateProject(ctx, project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		_, err := s.membershipStore.WithTx(tx).CreateProjectManager(ctx, project.ID, creator.ID)
		return err
	})
	if err != nil {
		return nil, app_errors.OrInternal(err, "failed to create project")
	}

	// Pre-warm cache with new project for immediate availability
	_ = s.projectCacheUtil.Set(ctx, project.ID.String(), project)

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Project created: %s", project.Name),
		&creator.ID,
		&teamID,
		&project.ID,
	)

	managerRole := access_enums.ProjectRoleManager
	return toProjectResponse(project, &managerRole), nil
}

func (s *ProjectService) GetProject(
	ctx context.Context,
	projectID uuid.UUID,
	account *accounts_models.Account,
) (*projects_dto.ProjectResponseDTO, error) {
	project, role, err := s.getAuthorizedProject(ctx, projectID, account, access_enums.ActionView)
	if err != nil {
		return nil, err
	}

	return toProjectResponse(project, role), nil
}

// GetAccountProjects lists the projects the account can see, either in one
// team or across all of its teams.
func (s *ProjectService) GetAccountProjects(
	ctx context.Context,
	teamID *uuid.UUID,
	account *accounts_models.Account,
) (*projects_dto.ListProjectsResponseDTO, error) {
	var teamIDs []uuid.UUID

	if teamID != nil {
		if err := s.gate.Authorize(ctx, account, access_enums.ActionView, access.TeamResource(*teamID)); err != nil {
			return nil, err
		}

		teamIDs = []uuid.UUID{*teamID}
	} else {
		teamMemberships, err := s.membershipStore.ListAccountTeams(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		for _, membership := range teamMemberships {
			teamIDs = append(teamIDs, membership.TeamID)
		}
	}

	var projects []*projects_models.Project
	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		projects, err = s.projectRepository.GetProjectsByTeamIDs(ctx, teamIDs)
		return err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get projects: %w", err))
	}

	response := &projects_dto.ListProjectsResponseDTO{Projects: make([]projects_dto.ProjectResponseDTO, 0)}
	for _, project := range projects {
		role, err := s.gate.EffectiveProjectRole(
			ctx,
			account.ID,
			access.ProjectResource(project.ID, project.TeamID),
		)
		if err != nil {
			return nil, err
		}

		if role == nil {
			continue
		}

		response.Projects = append(response.Projects, *toProjectResponse(project, role))
	}

	return response, nil
}

func (s *ProjectService) UpdateProject(
	ctx context.Context,
	projectID uuid.UUID,
	request *projects_dto.UpdateProjectRequestDTO,
	account *accounts_models.Account,
) (*projects_dto.ProjectResponseDTO, error) {
	project, role, err := s.getAuthorizedProject(ctx, projectID, account, access_enums.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if !request.Status.IsValid() {
		return nil, app_errors.Validation(fmt.Sprintf("invalid project status: %s", request.Status))
	}

	project.Name = strings.TrimSpace(request.Name)
	project.Description = strings.TrimSpace(request.Description)
	project.Status = request.Status
	project.DueDate = request.DueDate
	if request.Color != "" {
		project.Color = request.Color
	}

	if project.Name == "" {
		return nil, app_errors.Validation("project name is required")
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.projectRepository.UpdateProject(ctx, project)
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to update project: %w", err))
	}

	_ = s.projectCacheUtil.Invalidate(ctx, projectID.String())

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Project updated: %s", project.Name),
		&account.ID,
		&project.TeamID,
		&projectID,
	)

	return toProjectResponse(project, role), nil
}

func (s *ProjectService) DeleteProject(
	ctx context.Context,
	projectID uuid.UUID,
	account *accounts_models.Account,
) error {
	project, _, err := s.getAuthorizedProject(ctx, projectID, account, access_enums.ActionDelete)
	if err != nil {
		return err
	}

	err = storage.Run(ctx, func(ctx context.Context) error {
		return s.projectRepository.DeleteProject(ctx, projectID)
	})
	if err != nil {
		return app_errors.Internal(fmt.Errorf("failed to delete project: %w", err))
	}

	_ = s.projectCacheUtil.Invalidate(ctx, projectID.String())

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("Project deleted: %s", project.Name),
		&account.ID,
		&project.TeamID,
		&projectID,
	)

	return nil
}

// OnBeforeTeamDeletion drops the cached projects of a team that is about to
// be deleted. The rows go with the team.
func (s *ProjectService) OnBeforeTeamDeletion(ctx context.Context, teamID uuid.UUID) error {
	var projectIDs []uuid.UUID

	err := storage.Run(ctx, func(ctx context.Context) error {
		var err error
		projectIDs, err = s.projectRepository.GetProjectIDsByTeamID(ctx, teamID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get team projects: %w", err)
	}

	for _, projectID := range projectIDs {
		_ = s.projectCacheUtil.Invalidate(ctx, projectID.String())
	}

	return nil
}

func (s *ProjectService) GetProjectWithCache(ctx context.Context, projectID uuid.UUID) (*projects_models.Project, error) {
	projectIDStr := projectID.String()

	// Tier 1: Check cache
	if cachedProject := s.projectCacheUtil.Get(ctx, projectIDStr); cachedProject != nil {
		if cachedProject.IsNotExists {
			return nil, app_errors.NotFound("project not found")
		}

		return cachedProject, nil
	}

	// Tier 2: Database lookup with singleflight protection
	result, err, _ := s.singleflight.Do(projectIDStr, func() (any, error) {
		var project *projects_models.Project

		err := storage.Run(ctx, func(ctx context.Context) error {
			var err error
			project, err = s.projectRepository.GetProjectByID(ctx, projectID)
			return err
		})

		return project, err
	})
	if err != nil {
		return nil, app_errors.Internal(fmt.Errorf("failed to get project: %w", err))
	}

	project, ok := result.(*projects_models.Project)
	if !ok || project == nil {
		// Cache the miss to prevent future DB hits
		_ = s.projectCacheUtil.Set(ctx, projectIDStr, &projects_models.Project{ID: projectID, IsNotExists: true})
		return nil, app_errors.NotFound("project not found")
	}

	s.projectCacheUtil.Set(ctx, projectIDStr, project) //nolint:errcheck

	projectCopy := *project
	return &projectCopy, nil
}

// ResolveProjectResource loads the project and returns the resource the gate
// checks against.
func (s *ProjectService) ResolveProjectResource(ctx context.Context, projectID uuid.UUID) (access.Resource, error) {
	project, err := s.GetProjectWithCache(ctx, projectID)
	if err != nil {
		return access.Resource{}, err
	}

	return access.ProjectResource(project.ID, project.TeamID), nil
}

func (s *ProjectService) getAuthorizedProject(
	ctx context.Context,
	projectID uuid.UUID,
	account *accounts_models.Account,
	action access_enums.Action,
) (*projects_models.Project, *access_enums.ProjectRole, error) {
	if account == nil {
		return nil, nil, app_errors.NotAuthenticated("not authenticated")
	}

	project, err := s.GetProjectWithCache(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	resource := access.ProjectResource(project.ID, project.TeamID)
	if err := s.gate.Authorize(ctx, account, action, resource); err != nil {
		return nil, nil, err
	}

	role, err := s.gate.EffectiveProjectRole(ctx, account.ID, resource)
	if err != nil {
		return nil, nil, err
	}

	return project, role, nil
}

func toProjectResponse(
	project *projects_models.Project,
	role *access_enums.ProjectRole,
) *projects_dto.ProjectResponseDTO {
	return &projects_dto.ProjectResponseDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		TeamID:      project.TeamID,
		Status:      project.Status,
		DueDate:     project.DueDate,
		Color:       project.Color,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Role:        role,
	}
}
