package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

type IssueRepository interface {
	FindDetailed(issueID uint) (models.Issue, error)
	ListBySprint(sprintID uint, assigneeID *uint) ([]models.Issue, error)
	Create(issue *models.Issue) error
	Update(issue *models.Issue) error
	Delete(issueID uint) error
}

type IssueService struct {
	issues   IssueRepository
	users    ProjectUserRepository
	access   *AccessResolver
	notifier Notifier
}

type CreateIssueInput struct {
	SprintID    uint
	Title       string
	Description string
	Type        string
	Priority    string
	Status      string
	AssigneeID  *uint
}

// IssuePatch holds optional changes. ClearAssignee unassigns the issue and
// wins over AssigneeID.
type IssuePatch struct {
	Title         *string
	Description   *string
	Type          *string
	Priority      *string
	Status        *string
	AssigneeID    *uint
	ClearAssignee bool
}

func NewIssueService(issues IssueRepository, users ProjectUserRepository, access *AccessResolver, notifier Notifier) *IssueService {
	return &IssueService{
		issues:   issues,
		users:    users,
		access:   access,
		notifier: notifier,
	}
}

func validateIssueFields(issue *models.Issue) error {
	issue.Title = strings.TrimSpace(issue.Title)
	if issue.Title == "" {
		return validationError("issue title is required")
	}
	if utf8.RuneCountInString(issue.Title) > models.MaxIssueTitleLength {
		return validationError("issue title must be at most %d characters", models.MaxIssueTitleLength)
	}
	issue.Description = strings.TrimSpace(issue.Description)

	if issue.Type == "" {
		issue.Type = models.IssueTypeTask
	}
	if issue.Priority == "" {
		issue.Priority = models.IssuePriorityLow
	}
	if issue.Status == "" {
		issue.Status = models.IssueStatusTodo
	}
	if !models.IsValidIssueType(issue.Type) {
		return validationError("invalid issue type %q", issue.Type)
	}
	if !models.IsValidIssuePriority(issue.Priority) {
		return validationError("invalid issue priority %q", issue.Priority)
	}
	if !models.IsValidIssueStatus(issue.Status) {
		return validationError("invalid issue status %q", issue.Status)
	}
	return nil
}

func (service *IssueService) requireAssignee(assigneeID *uint) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := service.users.FindByID(*assigneeID); err != nil {
		return lookupError(err, validationError("assignee %d does not exist", *assigneeID), "load assignee")
	}
	return nil
}

func (service *IssueService) actorName(userID uint) string {
	if actor, err := service.users.FindByID(userID); err == nil {
		return actor.Name
	}
	return unknownActorName
}

func (service *IssueService) Create(ctx context.Context, userID uint, input CreateIssueInput) (models.Issue, error) {
	if input.SprintID == 0 {
		return models.Issue{}, validationError("sprint id is required")
	}

	issue := models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Type:        strings.TrimSpace(input.Type),
		Priority:    strings.TrimSpace(input.Priority),
		Status:      strings.TrimSpace(input.Status),
		AssigneeID:  input.AssigneeID,
		CreatedByID: userID,
		SprintID:    input.SprintID,
	}
	if err := validateIssueFields(&issue); err != nil {
		return models.Issue{}, err
	}

	access, err := service.access.RequireSprintAccess(userID, input.SprintID)
	if err != nil {
		return models.Issue{}, err
	}
	if err := service.requireAssignee(issue.AssigneeID); err != nil {
		return models.Issue{}, err
	}

	if err := service.issues.Create(&issue); err != nil {
		return models.Issue{}, fmt.Errorf("create issue: %w", err)
	}

	if issue.AssigneeID != nil {
		service.notifyAssigned(ctx, userID, access.Project.ID, issue)
	}
	return service.reload(issue)
}

func (service *IssueService) reload(issue models.Issue) (models.Issue, error) {
	detailed, err := service.issues.FindDetailed(issue.ID)
	if err != nil {
		return models.Issue{}, lookupError(err, ErrIssueNotFound, "reload issue")
	}
	return detailed, nil
}

func (service *IssueService) notifyAssigned(ctx context.Context, userID uint, projectID uint, issue models.Issue) {
	issueID := issue.ID
	service.notifier.Notify(ctx, NotificationEvent{
		Type:       models.NotificationIssueAssigned,
		Message:    fmt.Sprintf("%s assigned you the issue \"%s\"", service.actorName(userID), issue.Title),
		ActorID:    userID,
		Candidates: []uint{*issue.AssigneeID},
		ProjectID:  &projectID,
		IssueID:    &issueID,
	})
}

func (service *IssueService) notifyStatusChanged(ctx context.Context, userID uint, projectID uint, issue models.Issue) {
	issueID := issue.ID
	service.notifier.Notify(ctx, NotificationEvent{
		Type: models.NotificationIssueStatusChanged,
		Message: fmt.Sprintf("%s changed the status of \"%s\" to %s",
			service.actorName(userID), issue.Title, models.IssueStatusLabel(issue.Status)),
		ActorID:    userID,
		Candidates: []uint{*issue.AssigneeID},
		ProjectID:  &projectID,
		IssueID:    &issueID,
	})
}

// List returns the sprint's issues. With mineOnly only issues assigned to
// userID are returned.
func (service *IssueService) List(userID uint, sprintID uint, mineOnly bool) ([]models.Issue, error) {
	if sprintID == 0 {
		return nil, validationError("sprint id is required")
	}
	if _, err := service.access.RequireSprintAccess(userID, sprintID); err != nil {
		return nil, err
	}

	var assigneeID *uint
	if mineOnly {
		assigneeID = &userID
	}
	issues, err := service.issues.ListBySprint(sprintID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

func (service *IssueService) Get(userID uint, issueID uint) (models.Issue, error) {
	access, err := service.access.RequireIssueAccess(userID, issueID)
	if err != nil {
		return models.Issue{}, err
	}
	return service.reload(access.Issue)
}

func (service *IssueService) Update(ctx context.Context, userID uint, issueID uint, patch IssuePatch) (models.Issue, error) {
	access, err := service.access.RequireIssueAccess(userID, issueID)
	if err != nil {
		return models.Issue{}, err
	}

	issue := access.Issue
	previousStatus := issue.Status
	previousAssignee := issue.AssigneeID

	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.Type != nil {
		issue.Type = strings.TrimSpace(*patch.Type)
		if issue.Type == "" {
			return models.Issue{}, validationError("issue type must not be empty")
		}
	}
	if patch.Priority != nil {
		issue.Priority = strings.TrimSpace(*patch.Priority)
		if issue.Priority == "" {
			return models.Issue{}, validationError("issue priority must not be empty")
		}
	}
	if patch.Status != nil {
		issue.Status = strings.TrimSpace(*patch.Status)
		if issue.Status == "" {
			return models.Issue{}, validationError("issue status must not be empty")
		}
	}
	switch {
	case patch.ClearAssignee:
		issue.AssigneeID = nil
	case patch.AssigneeID != nil:
		assigneeID := *patch.AssigneeID
		issue.AssigneeID = &assigneeID
	}

	if err := validateIssueFields(&issue); err != nil {
		return models.Issue{}, err
	}
	if !patch.ClearAssignee && patch.AssigneeID != nil {
		if err := service.requireAssignee(issue.AssigneeID); err != nil {
			return models.Issue{}, err
		}
	}

	if err := service.issues.Update(&issue); err != nil {
		return models.Issue{}, fmt.Errorf("update issue: %w", err)
	}

	projectID := access.Project.ID
	if issue.AssigneeID != nil && !sameAssignee(previousAssignee, issue.AssigneeID) {
		service.notifyAssigned(ctx, userID, projectID, issue)
	}
	if issue.AssigneeID != nil && issue.Status != previousStatus {
		service.notifyStatusChanged(ctx, userID, projectID, issue)
	}
	return service.reload(issue)
}

func sameAssignee(left *uint, right *uint) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}

func (service *IssueService) Delete(userID uint, issueID uint) error {
	access, err := service.access.RequireIssueAccess(userID, issueID)
	if err != nil {
		return err
	}
	if err := service.issues.Delete(access.Issue.ID); err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	return nil
}
