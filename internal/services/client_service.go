package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

const maxClientNameLength = 120

type ClientRepository interface {
	Create(client *models.Client) error
	ListByOwner(ownerID uint) ([]models.Client, error)
	FindForOwner(clientID uint, ownerID uint) (models.Client, error)
	UpdateName(clientID uint, name string) error
	Delete(clientID uint) error
}

// ClientService manages clients. Clients are never shared: every operation
// is scoped to the owner and other users see ErrClientNotFound.
type ClientService struct {
	clients ClientRepository
}

func NewClientService(clients ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func normalizeClientName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validationError("client name is required")
	}
	if len([]rune(name)) > maxClientNameLength {
		return "", validationError("client name must be at most %d characters", maxClientNameLength)
	}
	return name, nil
}

func (service *ClientService) Create(ownerID uint, nameRaw string) (models.Client, error) {
	name, err := normalizeClientName(nameRaw)
	if err != nil {
		return models.Client{}, err
	}

	client := models.Client{Name: name, OwnerID: ownerID}
	if err := service.clients.Create(&client); err != nil {
		return models.Client{}, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (service *ClientService) List(ownerID uint) ([]models.Client, error) {
	clients, err := service.clients.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (service *ClientService) Get(ownerID uint, clientID uint) (models.Client, error) {
	client, err := service.clients.FindForOwner(clientID, ownerID)
	if err != nil {
		return models.Client{}, lookupError(err, ErrClientNotFound, "load client")
	}
	return client, nil
}

func (service *ClientService) Rename(ownerID uint, clientID uint, nameRaw string) (models.Client, error) {
	name, err := normalizeClientName(nameRaw)
	if err != nil {
		return models.Client{}, err
	}

	client, err := service.Get(ownerID, clientID)
	if err != nil {
		return models.Client{}, err
	}
	if err := service.clients.UpdateName(client.ID, name); err != nil {
		return models.Client{}, fmt.Errorf("rename client: %w", err)
	}
	client.Name = name
	return client, nil
}

// Delete removes the client and, through the foreign keys, its projects with
// their sprints, issues and memberships.
func (service *ClientService) Delete(ownerID uint, clientID uint) error {
	client, err := service.Get(ownerID, clientID)
	if err != nil {
		return err
	}
	if err := service.clients.Delete(client.ID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
