package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/models"
)

type SprintRepository interface {
	ListByProject(projectID uint) ([]models.Sprint, error)
	Create(sprint *models.Sprint) error
	Update(sprint *models.Sprint) error
	Delete(sprintID uint) error
}

type SprintIssueRepository interface {
	ListBySprint(sprintID uint, assigneeID *uint) ([]models.Issue, error)
}

type StakeholderSource interface {
	Stakeholders(project models.Project) ([]uint, error)
}

type SprintService struct {
	sprints      SprintRepository
	issues       SprintIssueRepository
	users        ProjectUserRepository
	access       *AccessResolver
	stakeholders StakeholderSource
	notifier     Notifier
	logger       logrus.FieldLogger
}

type CreateSprintInput struct {
	ProjectID   uint
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      string
}

// SprintPatch holds optional changes; nil fields are left untouched.
type SprintPatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
}

func NewSprintService(
	sprints SprintRepository,
	issues SprintIssueRepository,
	users ProjectUserRepository,
	access *AccessResolver,
	stakeholders StakeholderSource,
	notifier Notifier,
) *SprintService {
	return &SprintService{
		sprints:      sprints,
		issues:       issues,
		users:        users,
		access:       access,
		stakeholders: stakeholders,
		notifier:     notifier,
		logger:       logrus.StandardLogger(),
	}
}

func (service *SprintService) WithLogger(logger logrus.FieldLogger) *SprintService {
	if logger != nil {
		service.logger = logger
	}
	return service
}

func validateSprintFields(sprint *models.Sprint) error {
	sprint.Name = strings.TrimSpace(sprint.Name)
	if sprint.Name == "" {
		sprint.Name = models.DefaultSprintName
	}
	sprint.Description = strings.TrimSpace(sprint.Description)
	if sprint.Status == "" {
		sprint.Status = models.SprintStatusPlanned
	}
	if !models.IsValidSprintStatus(sprint.Status) {
		return validationError("invalid sprint status %q", sprint.Status)
	}
	if sprint.StartDate != nil && sprint.EndDate != nil && sprint.EndDate.Before(*sprint.StartDate) {
		return validationError("sprint end date must not be before its start date")
	}
	return nil
}

func (service *SprintService) Create(ctx context.Context, userID uint, input CreateSprintInput) (models.Sprint, error) {
	if input.ProjectID == 0 {
		return models.Sprint{}, validationError("project id is required")
	}

	sprint := models.Sprint{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      strings.TrimSpace(input.Status),
		ProjectID:   input.ProjectID,
		CreatedByID: userID,
	}
	if err := validateSprintFields(&sprint); err != nil {
		return models.Sprint{}, err
	}

	access, err := service.access.RequireProjectAccess(userID, input.ProjectID)
	if err != nil {
		return models.Sprint{}, err
	}

	if err := service.sprints.Create(&sprint); err != nil {
		return models.Sprint{}, fmt.Errorf("create sprint: %w", err)
	}

	service.announceSprint(ctx, userID, access.Project, sprint)
	return sprint, nil
}

func (service *SprintService) announceSprint(ctx context.Context, userID uint, project models.Project, sprint models.Sprint) {
	candidates, err := service.stakeholders.Stakeholders(project)
	if err != nil {
		service.logger.WithError(err).WithField("project_id", project.ID).Warn("list sprint stakeholders, notifying owner only")
		candidates = []uint{ProjectOwnerID(project)}
	}
	actorName := unknownActorName
	if actor, err := service.users.FindByID(userID); err == nil {
		actorName = actor.Name
	}

	projectID := project.ID
	service.notifier.Notify(ctx, NotificationEvent{
		Type:       models.NotificationSprintCreated,
		Message:    fmt.Sprintf("%s created the sprint \"%s\" in \"%s\"", actorName, sprint.Name, project.Name),
		ActorID:    userID,
		Candidates: candidates,
		ProjectID:  &projectID,
	})
}

func (service *SprintService) ListByProject(userID uint, projectID uint) ([]models.Sprint, error) {
	if _, err := service.access.RequireProjectAccess(userID, projectID); err != nil {
		return nil, err
	}

	sprints, err := service.sprints.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	return sprints, nil
}

func (service *SprintService) Get(userID uint, sprintID uint) (models.Sprint, error) {
	access, err := service.access.RequireSprintAccess(userID, sprintID)
	if err != nil {
		return models.Sprint{}, err
	}

	issues, err := service.issues.ListBySprint(sprintID, nil)
	if err != nil {
		return models.Sprint{}, fmt.Errorf("list sprint issues: %w", err)
	}
	sprint := access.Sprint
	sprint.Issues = issues
	return sprint, nil
}

func (service *SprintService) Update(userID uint, sprintID uint, patch SprintPatch) (models.Sprint, error) {
	access, err := service.access.RequireSprintAccess(userID, sprintID)
	if err != nil {
		return models.Sprint{}, err
	}

	sprint := access.Sprint
	if patch.Name != nil {
		sprint.Name = *patch.Name
	}
	if patch.Description != nil {
		sprint.Description = *patch.Description
	}
	if patch.StartDate != nil {
		sprint.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		sprint.EndDate = patch.EndDate
	}
	if patch.Status != nil {
		sprint.Status = strings.TrimSpace(*patch.Status)
		if sprint.Status == "" {
			return models.Sprint{}, validationError("sprint status must not be empty")
		}
	}
	if err := validateSprintFields(&sprint); err != nil {
		return models.Sprint{}, err
	}

	if err := service.sprints.Update(&sprint); err != nil {
		return models.Sprint{}, fmt.Errorf("update sprint: %w", err)
	}
	return sprint, nil
}

func (service *SprintService) Delete(userID uint, sprintID uint) error {
	access, err := service.access.RequireSprintAccess(userID, sprintID)
	if err != nil {
		return err
	}
	if err := service.sprints.Delete(access.Sprint.ID); err != nil {
		return fmt.Errorf("delete sprint: %w", err)
	}
	return nil
}
