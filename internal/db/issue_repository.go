package db

import (
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type IssueRepository struct {
	database *gorm.DB
}

func NewIssueRepository(database *gorm.DB) *IssueRepository {
	return &IssueRepository{database: database}
}

func (repo *IssueRepository) FindByID(issueID uint) (models.Issue, error) {
	var issue models.Issue
	if err := repo.database.First(&issue, issueID).Error; err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (repo *IssueRepository) FindDetailed(issueID uint) (models.Issue, error) {
	var issue models.Issue
	if err := repo.database.
		Preload("Assignee").
		Preload("Creator").
		First(&issue, issueID).Error; err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// ListBySprint returns the sprint's issues, newest first. A non-nil assigneeID
// restricts the list to issues assigned to that user.
func (repo *IssueRepository) ListBySprint(sprintID uint, assigneeID *uint) ([]models.Issue, error) {
	issues := make([]models.Issue, 0)
	query := repo.database.Where("sprint_id = ?", sprintID)
	if assigneeID != nil {
		query = query.Where("assignee_id = ?", *assigneeID)
	}
	if err := query.
		Preload("Assignee").
		Preload("Creator").
		Order("created_at DESC, id DESC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (repo *IssueRepository) ListByProject(projectID uint) ([]models.Issue, error) {
	issues := make([]models.Issue, 0)
	if err := repo.database.
		Joins("JOIN sprints ON sprints.id = issues.sprint_id").
		Where("sprints.project_id = ?", projectID).
		Order("issues.created_at ASC, issues.id ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (repo *IssueRepository) ListCreatedBy(userID uint) ([]models.Issue, error) {
	issues := make([]models.Issue, 0)
	if err := repo.database.
		Select("id", "type", "status").
		Where("created_by_id = ?", userID).
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (repo *IssueRepository) Create(issue *models.Issue) error {
	return repo.database.Create(issue).Error
}

func (repo *IssueRepository) Update(issue *models.Issue) error {
	return repo.database.Model(&models.Issue{}).Where("id = ?", issue.ID).Updates(map[string]any{
		"title":       issue.Title,
		"description": issue.Description,
		"type":        issue.Type,
		"priority":    issue.Priority,
		"status":      issue.Status,
		"assignee_id": issue.AssigneeID,
	}).Error
}

func (repo *IssueRepository) Delete(issueID uint) error {
	return repo.database.Delete(&models.Issue{}, issueID).Error
}
