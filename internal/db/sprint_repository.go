package db

import (
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type SprintRepository struct {
	database *gorm.DB
}

func NewSprintRepository(database *gorm.DB) *SprintRepository {
	return &SprintRepository{database: database}
}

// FindWithProject loads the sprint, its project and the owner id of the
// project's client.
func (repo *SprintRepository) FindWithProject(sprintID uint) (models.Sprint, error) {
	var sprint models.Sprint
	if err := repo.database.
		Preload("Project").
		Preload("Project.Client", selectClientOwner).
		First(&sprint, sprintID).Error; err != nil {
		return models.Sprint{}, err
	}
	return sprint, nil
}

func (repo *SprintRepository) ListByProject(projectID uint) ([]models.Sprint, error) {
	sprints := make([]models.Sprint, 0)
	if err := repo.database.
		Where("project_id = ?", projectID).
		Preload("Creator").
		Preload("Issues").
		Order("created_at ASC, id ASC").
		Find(&sprints).Error; err != nil {
		return nil, err
	}
	return sprints, nil
}

func (repo *SprintRepository) Create(sprint *models.Sprint) error {
	return repo.database.Create(sprint).Error
}

func (repo *SprintRepository) Update(sprint *models.Sprint) error {
	return repo.database.Model(&models.Sprint{}).Where("id = ?", sprint.ID).Updates(map[string]any{
		"name":        sprint.Name,
		"description": sprint.Description,
		"start_date":  sprint.StartDate,
		"end_date":    sprint.EndDate,
		"status":      sprint.Status,
	}).Error
}

func (repo *SprintRepository) Delete(sprintID uint) error {
	return repo.database.Delete(&models.Sprint{}, sprintID).Error
}
