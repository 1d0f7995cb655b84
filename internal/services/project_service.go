package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

const maxProjectNameLength = 120

type ProjectRepository interface {
	FindDetailed(projectID uint) (models.Project, error)
	ListAccessible(userID uint, clientID *uint) ([]models.Project, error)
	CreateWithInitialSprint(client *models.Client, project *models.Project, sprint *models.Sprint) error
	UpdateDetails(projectID uint, name string, description string) error
	Delete(projectID uint) error
}

type ProjectClientRepository interface {
	FindForOwner(clientID uint, ownerID uint) (models.Client, error)
}

type ProjectUserRepository interface {
	FindByID(userID uint) (models.User, error)
}

type ProjectService struct {
	projects ProjectRepository
	clients  ProjectClientRepository
	users    ProjectUserRepository
	access   *AccessResolver
	codes    *ProjectCodeGenerator
}

type CreateProjectInput struct {
	Name        string
	Description string
	ClientID    *uint
}

type ProjectView struct {
	models.Project
	IsOwner  bool `json:"is_owner"`
	IsMember bool `json:"is_member"`
}

func NewProjectService(
	projects ProjectRepository,
	clients ProjectClientRepository,
	users ProjectUserRepository,
	access *AccessResolver,
	codes *ProjectCodeGenerator,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		clients:  clients,
		users:    users,
		access:   access,
		codes:    codes,
	}
}

func normalizeProjectName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validationError("project name is required")
	}
	if len([]rune(name)) > maxProjectNameLength {
		return "", validationError("project name must be at most %d characters", maxProjectNameLength)
	}
	return name, nil
}

// Create stores the project, its code and its first sprint in one
// transaction. Without a client id a new client named after the creator is
// created alongside.
func (service *ProjectService) Create(userID uint, input CreateProjectInput) (models.Project, error) {
	name, err := normalizeProjectName(input.Name)
	if err != nil {
		return models.Project{}, err
	}
	description := strings.TrimSpace(input.Description)

	var baseClient models.Client
	if input.ClientID != nil {
		baseClient, err = service.clients.FindForOwner(*input.ClientID, userID)
		if err != nil {
			return models.Project{}, lookupError(err, ErrClientNotOwned, "load client")
		}
		baseClient.Projects = nil
	} else {
		user, err := service.users.FindByID(userID)
		if err != nil {
			return models.Project{}, lookupError(err, ErrUserNotFound, "load project creator")
		}
		baseClient = models.Client{Name: fmt.Sprintf("Client for %s", user.Name), OwnerID: userID}
	}

	var project models.Project
	_, err = service.codes.Assign(func(code string) error {
		client := baseClient
		project = models.Project{
			Name:        name,
			Description: description,
			ProjectCode: code,
			CreatedByID: userID,
		}
		sprint := models.Sprint{
			Name:        models.DefaultSprintName,
			Status:      models.SprintStatusPlanned,
			CreatedByID: userID,
		}
		if err := service.projects.CreateWithInitialSprint(&client, &project, &sprint); err != nil {
			return err
		}
		project.Client = &client
		project.Sprints = []models.Sprint{sprint}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (service *ProjectService) List(userID uint, clientID *uint) ([]ProjectView, error) {
	projects, err := service.projects.ListAccessible(userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	views := make([]ProjectView, 0, len(projects))
	for _, project := range projects {
		isOwner := ProjectOwnerID(project) == userID
		views = append(views, ProjectView{
			Project:  project,
			IsOwner:  isOwner,
			IsMember: !isOwner,
		})
	}
	return views, nil
}

func (service *ProjectService) Get(userID uint, projectID uint) (ProjectView, error) {
	access, err := service.access.RequireProjectAccess(userID, projectID)
	if err != nil {
		return ProjectView{}, err
	}

	project, err := service.projects.FindDetailed(projectID)
	if err != nil {
		return ProjectView{}, lookupError(err, ErrProjectNotFound, "load project")
	}
	return ProjectView{Project: project, IsOwner: access.IsOwner, IsMember: access.IsMember}, nil
}

func (service *ProjectService) Update(userID uint, projectID uint, nameRaw string, description string) (models.Project, error) {
	name, err := normalizeProjectName(nameRaw)
	if err != nil {
		return models.Project{}, err
	}

	project, err := service.access.RequireProjectOwner(userID, projectID)
	if err != nil {
		return models.Project{}, err
	}

	description = strings.TrimSpace(description)
	if err := service.projects.UpdateDetails(project.ID, name, description); err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	project.Name = name
	project.Description = description
	return project, nil
}

func (service *ProjectService) Delete(userID uint, projectID uint) error {
	project, err := service.access.RequireProjectOwner(userID, projectID)
	if err != nil {
		return err
	}
	if err := service.projects.Delete(project.ID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
