package db

import (
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	database *gorm.DB
}

func NewMembershipRepository(database *gorm.DB) *MembershipRepository {
	return &MembershipRepository{database: database}
}

func (repo *MembershipRepository) Exists(projectID uint, userID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *MembershipRepository) find(projectID uint, userID uint) (models.ProjectMember, error) {
	var member models.ProjectMember
	err := repo.database.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	return member, err
}

// FindOrCreate returns the existing membership or inserts one with role.
// A concurrent insert of the same pair is treated as found, so created is
// true for exactly one caller.
func (repo *MembershipRepository) FindOrCreate(projectID uint, userID uint, role string) (models.ProjectMember, bool, error) {
	existing, err := repo.find(projectID, userID)
	if err == nil {
		return existing, false, nil
	}
	if !IsNotFound(err) {
		return models.ProjectMember{}, false, err
	}

	member := models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	if err := repo.database.Create(&member).Error; err != nil {
		if !IsUniqueViolation(err) {
			return models.ProjectMember{}, false, err
		}
		existing, findErr := repo.find(projectID, userID)
		if findErr != nil {
			return models.ProjectMember{}, false, findErr
		}
		return existing, false, nil
	}
	return member, true, nil
}

// Delete removes the membership row and reports how many rows went away.
func (repo *MembershipRepository) Delete(projectID uint, userID uint) (int64, error) {
	result := repo.database.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	return result.RowsAffected, result.Error
}

func (repo *MembershipRepository) ListByProject(projectID uint) ([]models.ProjectMember, error) {
	members := make([]models.ProjectMember, 0)
	if err := repo.database.
		Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *MembershipRepository) ListUserIDs(projectID uint) ([]uint, error) {
	userIDs := make([]uint, 0)
	if err := repo.database.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (repo *MembershipRepository) ListProjectIDsByUser(userID uint) ([]uint, error) {
	projectIDs := make([]uint, 0)
	if err := repo.database.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Order("project_id ASC").
		Pluck("project_id", &projectIDs).Error; err != nil {
		return nil, err
	}
	return projectIDs, nil
}
