package db

import (
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("email = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) EmailTakenByOther(email string, userID uint) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, userID).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdateProfile(userID uint, name string, email string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"name":  name,
		"email": email,
	}).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

// CreateWithWorkspace inserts the user together with a default client,
// project and first sprint. Nothing is persisted unless every insert succeeds.
func (repo *UserRepository) CreateWithWorkspace(user *models.User, client *models.Client, project *models.Project, sprint *models.Sprint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		client.OwnerID = user.ID
		if err := tx.Create(client).Error; err != nil {
			return err
		}

		project.ClientID = client.ID
		project.CreatedByID = user.ID
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		sprint.ProjectID = project.ID
		sprint.CreatedByID = user.ID
		return tx.Create(sprint).Error
	})
}

// CreateWithMembership inserts the user and their membership of an existing
// project in one transaction.
func (repo *UserRepository) CreateWithMembership(user *models.User, membership *models.ProjectMember) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		membership.UserID = user.ID
		return tx.Create(membership).Error
	})
}
