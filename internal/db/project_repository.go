package db

import (
	"strings"

	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	database *gorm.DB
}

func NewProjectRepository(database *gorm.DB) *ProjectRepository {
	return &ProjectRepository{database: database}
}

func selectClientOwner(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "owner_id")
}

// FindWithClient loads the project and the owner id of its client.
func (repo *ProjectRepository) FindWithClient(projectID uint) (models.Project, error) {
	var project models.Project
	if err := repo.database.
		Preload("Client", selectClientOwner).
		First(&project, projectID).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (repo *ProjectRepository) FindDetailed(projectID uint) (models.Project, error) {
	var project models.Project
	if err := repo.database.
		Preload("Client", selectClientOwner).
		Preload("Creator").
		Preload("Sprints", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		First(&project, projectID).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// FindByCode matches codes case-insensitively; stored codes are lowercase hex.
func (repo *ProjectRepository) FindByCode(code string) (models.Project, error) {
	var project models.Project
	if err := repo.database.
		Preload("Client", selectClientOwner).
		Where("project_code = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&project).Error; err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (repo *ProjectRepository) CodeExists(code string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.Project{}).
		Where("project_code = ?", code).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

// ListAccessible returns projects whose client is owned by userID or that
// userID is a member of, newest first.
func (repo *ProjectRepository) ListAccessible(userID uint, clientID *uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	query := repo.database.
		Joins("JOIN clients ON clients.id = projects.client_id").
		Where("clients.owner_id = ? OR projects.id IN (?)", userID,
			repo.database.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID),
		)
	if clientID != nil {
		query = query.Where("projects.client_id = ?", *clientID)
	}
	if err := query.
		Preload("Client", selectClientOwner).
		Order("projects.created_at DESC, projects.id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateWithInitialSprint creates the project, its first sprint and, when
// client has no id yet, the client itself in a single transaction.
func (repo *ProjectRepository) CreateWithInitialSprint(client *models.Client, project *models.Project, sprint *models.Sprint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if client.ID == 0 {
			if err := tx.Create(client).Error; err != nil {
				return err
			}
		}

		project.ClientID = client.ID
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		sprint.ProjectID = project.ID
		return tx.Create(sprint).Error
	})
}

func (repo *ProjectRepository) UpdateDetails(projectID uint, name string, description string) error {
	return repo.database.Model(&models.Project{}).Where("id = ?", projectID).Updates(map[string]any{
		"name":        name,
		"description": description,
	}).Error
}

func (repo *ProjectRepository) UpdateCode(projectID uint, code string) error {
	return repo.database.Model(&models.Project{}).Where("id = ?", projectID).Update("project_code", code).Error
}

func (repo *ProjectRepository) SetJoinLocked(projectID uint, locked bool) error {
	return repo.database.Model(&models.Project{}).Where("id = ?", projectID).Update("join_locked", locked).Error
}

func (repo *ProjectRepository) Delete(projectID uint) error {
	return repo.database.Delete(&models.Project{}, projectID).Error
}
