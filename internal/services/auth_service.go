package services

import (
	"context"
	"fmt"

	"github.com/terraincognita07/sprintdesk/internal/db"
	"github.com/terraincognita07/sprintdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultProjectName = "My first project"
	passwordHashCost   = bcrypt.DefaultCost
)

type AuthUserRepository interface {
	FindByID(userID uint) (models.User, error)
	FindByEmail(email string) (models.User, error)
	ExistsByEmail(email string) (bool, error)
	EmailTakenByOther(email string, userID uint) (bool, error)
	UpdateProfile(userID uint, name string, email string) error
	UpdatePassword(userID uint, passwordHash string) error
	CreateWithWorkspace(user *models.User, client *models.Client, project *models.Project, sprint *models.Sprint) error
	CreateWithMembership(user *models.User, membership *models.ProjectMember) error
}

type AuthIssueRepository interface {
	ListCreatedBy(userID uint) ([]models.Issue, error)
}

// JoinCodeResolver is the part of the join workflow registration reuses.
type JoinCodeResolver interface {
	FindJoinableProject(code string) (models.Project, error)
	AnnounceJoin(ctx context.Context, project models.Project, user models.User)
}

type AuthService struct {
	users  AuthUserRepository
	issues AuthIssueRepository
	joins  JoinCodeResolver
	codes  *ProjectCodeGenerator
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	ProjectCode string
}

// Registration is the new user together with the project they landed in:
// either the one they joined by code or their freshly created default one.
type Registration struct {
	User    models.User    `json:"user"`
	Project models.Project `json:"project"`
	Joined  bool           `json:"joined"`
}

type UserStats struct {
	TotalIssues    int            `json:"total_issues"`
	IssuesByStatus map[string]int `json:"issues_by_status"`
	IssuesByType   map[string]int `json:"issues_by_type"`
}

func NewAuthService(users AuthUserRepository, issues AuthIssueRepository, joins JoinCodeResolver, codes *ProjectCodeGenerator) *AuthService {
	return &AuthService{
		users:  users,
		issues: issues,
		joins:  joins,
		codes:  codes,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates the account atomically with its onboarding: with a
// project code the user joins that project, otherwise a default client,
// project and first sprint are created. Nothing is stored when any step fails.
func (service *AuthService) Register(ctx context.Context, input RegisterInput) (Registration, error) {
	name, err := NormalizeUserName(input.Name)
	if err != nil {
		return Registration{}, err
	}
	email := NormalizeAuthEmail(input.Email)
	if email == "" {
		return Registration{}, ErrInvalidEmail
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return Registration{}, err
	}
	role, err := NormalizeRole(input.Role)
	if err != nil {
		return Registration{}, err
	}

	exists, err := service.users.ExistsByEmail(email)
	if err != nil {
		return Registration{}, fmt.Errorf("check registration email: %w", err)
	}
	if exists {
		return Registration{}, ErrEmailTaken
	}

	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return Registration{}, err
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if NormalizeProjectCode(input.ProjectCode) != "" {
		return service.registerIntoProject(ctx, user, input.ProjectCode)
	}
	return service.registerWithWorkspace(user)
}

func (service *AuthService) registerIntoProject(ctx context.Context, user models.User, code string) (Registration, error) {
	project, err := service.joins.FindJoinableProject(code)
	if err != nil {
		return Registration{}, err
	}

	membership := models.ProjectMember{ProjectID: project.ID, Role: models.MemberRoleMember}
	if err := service.users.CreateWithMembership(&user, &membership); err != nil {
		return Registration{}, service.registrationError(user.Email, err)
	}

	service.joins.AnnounceJoin(ctx, project, user)
	return Registration{User: user, Project: project, Joined: true}, nil
}

func (service *AuthService) registerWithWorkspace(user models.User) (Registration, error) {
	var project models.Project
	_, err := service.codes.Assign(func(code string) error {
		// Each attempt starts from fresh rows; a rolled back transaction may
		// have assigned ids to the previous ones.
		attemptUser := user
		client := models.Client{Name: fmt.Sprintf("%s's workspace", user.Name)}
		project = models.Project{Name: defaultProjectName, ProjectCode: code}
		sprint := models.Sprint{Name: models.DefaultSprintName, Status: models.SprintStatusPlanned}

		if err := service.users.CreateWithWorkspace(&attemptUser, &client, &project, &sprint); err != nil {
			return service.registrationError(user.Email, err)
		}
		user = attemptUser
		return nil
	})
	if err != nil {
		return Registration{}, err
	}
	return Registration{User: user, Project: project, Joined: false}, nil
}

// registrationError turns a lost race on the email index into ErrEmailTaken
// so only project code collisions are retried.
func (service *AuthService) registrationError(email string, err error) error {
	if !db.IsUniqueViolation(err) {
		return fmt.Errorf("create user: %w", err)
	}
	taken, lookupErr := service.users.ExistsByEmail(email)
	if lookupErr == nil && taken {
		return ErrEmailTaken
	}
	return err
}

func (service *AuthService) Login(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByEmail(email)
	if err != nil {
		if db.IsNotFound(err) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("load user by email: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, lookupError(err, ErrUserNotFound, "load user")
	}
	return user, nil
}

func (service *AuthService) UpdateProfile(userID uint, nameRaw string, emailRaw string) (models.User, error) {
	name, err := NormalizeUserName(nameRaw)
	if err != nil {
		return models.User{}, err
	}
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrInvalidEmail
	}

	user, err := service.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}

	taken, err := service.users.EmailTakenByOther(email, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("check profile email: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	if err := service.users.UpdateProfile(userID, name, email); err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	user.Name = name
	user.Email = email
	return user, nil
}

func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return validationError("current password and new password are required")
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(userID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (service *AuthService) UserStats(userID uint) (UserStats, error) {
	issues, err := service.issues.ListCreatedBy(userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("list created issues: %w", err)
	}

	stats := UserStats{
		TotalIssues:    len(issues),
		IssuesByStatus: make(map[string]int),
		IssuesByType:   make(map[string]int),
	}
	for _, issue := range issues {
		stats.IssuesByStatus[issue.Status]++
		stats.IssuesByType[issue.Type]++
	}
	return stats, nil
}
