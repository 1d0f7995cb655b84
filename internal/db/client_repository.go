package db

import (
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type ClientRepository struct {
	database *gorm.DB
}

func NewClientRepository(database *gorm.DB) *ClientRepository {
	return &ClientRepository{database: database}
}

func (repo *ClientRepository) Create(client *models.Client) error {
	return repo.database.Create(client).Error
}

func (repo *ClientRepository) ListByOwner(ownerID uint) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	if err := repo.database.
		Where("owner_id = ?", ownerID).
		Preload("Projects", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC, id DESC")
		}).
		Order("created_at DESC, id DESC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// FindForOwner only matches clients owned by ownerID; clients are never shared.
func (repo *ClientRepository) FindForOwner(clientID uint, ownerID uint) (models.Client, error) {
	var client models.Client
	if err := repo.database.
		Where("id = ? AND owner_id = ?", clientID, ownerID).
		Preload("Owner").
		Preload("Projects", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC, id DESC")
		}).
		First(&client).Error; err != nil {
		return models.Client{}, err
	}
	return client, nil
}

func (repo *ClientRepository) UpdateName(clientID uint, name string) error {
	return repo.database.Model(&models.Client{}).Where("id = ?", clientID).Update("name", name).Error
}

func (repo *ClientRepository) Delete(clientID uint) error {
	return repo.database.Delete(&models.Client{}, clientID).Error
}
