package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/models"
)

type MembershipProjectRepository interface {
	FindByCode(code string) (models.Project, error)
	SetJoinLocked(projectID uint, locked bool) error
	UpdateCode(projectID uint, code string) error
}

type MembershipRepository interface {
	Exists(projectID uint, userID uint) (bool, error)
	FindOrCreate(projectID uint, userID uint, role string) (models.ProjectMember, bool, error)
	Delete(projectID uint, userID uint) (int64, error)
	ListByProject(projectID uint) ([]models.ProjectMember, error)
	ListUserIDs(projectID uint) ([]uint, error)
}

type MembershipUserRepository interface {
	FindByID(userID uint) (models.User, error)
}

type MembershipService struct {
	projects MembershipProjectRepository
	members  MembershipRepository
	users    MembershipUserRepository
	access   *AccessResolver
	codes    *ProjectCodeGenerator
	notifier Notifier
	logger   logrus.FieldLogger
}

type JoinResult struct {
	Project    models.Project       `json:"project"`
	Membership models.ProjectMember `json:"membership"`
	Created    bool                 `json:"created"`
}

type ProjectMemberView struct {
	User     models.UserBrief `json:"user"`
	Role     string           `json:"role"`
	JoinedAt time.Time        `json:"joined_at"`
}

func NewMembershipService(
	projects MembershipProjectRepository,
	members MembershipRepository,
	users MembershipUserRepository,
	access *AccessResolver,
	codes *ProjectCodeGenerator,
	notifier Notifier,
) *MembershipService {
	return &MembershipService{
		projects: projects,
		members:  members,
		users:    users,
		access:   access,
		codes:    codes,
		notifier: notifier,
		logger:   logrus.StandardLogger(),
	}
}

func (service *MembershipService) WithLogger(logger logrus.FieldLogger) *MembershipService {
	if logger != nil {
		service.logger = logger
	}
	return service
}

func NormalizeProjectCode(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FindJoinableProject resolves a join code to a project that currently
// accepts new members.
func (service *MembershipService) FindJoinableProject(rawCode string) (models.Project, error) {
	code := NormalizeProjectCode(rawCode)
	if code == "" {
		return models.Project{}, ErrProjectCodeRequired
	}

	project, err := service.projects.FindByCode(code)
	if err != nil {
		return models.Project{}, lookupError(err, ErrInvalidProjectCode, "find project by code")
	}
	if project.JoinLocked {
		return models.Project{}, ErrJoinLocked
	}
	return project, nil
}

// JoinProject is idempotent: a second join with the same code returns the
// existing membership with Created=false and notifies nobody.
func (service *MembershipService) JoinProject(ctx context.Context, userID uint, rawCode string) (JoinResult, error) {
	project, err := service.FindJoinableProject(rawCode)
	if err != nil {
		return JoinResult{}, err
	}

	membership, created, err := service.members.FindOrCreate(project.ID, userID, models.MemberRoleMember)
	if err != nil {
		return JoinResult{}, fmt.Errorf("create project membership: %w", err)
	}

	// The row is committed; a failed name lookup only degrades the message.
	if created {
		user, err := service.users.FindByID(userID)
		if err != nil {
			service.logger.WithError(err).WithFields(logrus.Fields{
				"project_id": project.ID,
				"user_id":    userID,
			}).Warn("load joining user for announcement")
			user = models.User{ID: userID, Name: unknownActorName}
		}
		service.AnnounceJoin(ctx, project, user)
	}

	return JoinResult{Project: project, Membership: membership, Created: created}, nil
}

// AnnounceJoin tells every member and the owner, except the newcomer, that
// user joined project.
func (service *MembershipService) AnnounceJoin(ctx context.Context, project models.Project, user models.User) {
	candidates, err := service.Stakeholders(project)
	if err != nil {
		service.logger.WithError(err).WithField("project_id", project.ID).Warn("list join stakeholders, notifying owner only")
		candidates = []uint{ProjectOwnerID(project)}
	}

	projectID := project.ID
	service.notifier.Notify(ctx, NotificationEvent{
		Type:       models.NotificationProjectMemberJoined,
		Message:    fmt.Sprintf("%s joined the project \"%s\"", user.Name, project.Name),
		ActorID:    user.ID,
		Candidates: candidates,
		ProjectID:  &projectID,
	})
}

// Stakeholders returns the ids of all members plus the client owner.
func (service *MembershipService) Stakeholders(project models.Project) ([]uint, error) {
	memberIDs, err := service.members.ListUserIDs(project.ID)
	if err != nil {
		return nil, fmt.Errorf("list project member ids: %w", err)
	}
	return append(memberIDs, ProjectOwnerID(project)), nil
}

func (service *MembershipService) SetJoinLock(userID uint, projectID uint, locked bool) (models.Project, error) {
	project, err := service.access.RequireProjectOwner(userID, projectID)
	if err != nil {
		return models.Project{}, err
	}

	if err := service.projects.SetJoinLocked(project.ID, locked); err != nil {
		return models.Project{}, fmt.Errorf("update join lock: %w", err)
	}
	project.JoinLocked = locked
	return project, nil
}

// RegenerateProjectCode replaces the project's code; the old code stops
// resolving immediately.
func (service *MembershipService) RegenerateProjectCode(userID uint, projectID uint) (models.Project, error) {
	project, err := service.access.RequireProjectOwner(userID, projectID)
	if err != nil {
		return models.Project{}, err
	}

	code, err := service.codes.Assign(func(code string) error {
		return service.projects.UpdateCode(project.ID, code)
	})
	if err != nil {
		return models.Project{}, err
	}
	project.ProjectCode = code
	return project, nil
}

func (service *MembershipService) LeaveProject(userID uint, projectID uint) error {
	access, err := service.access.ResolveProjectAccess(userID, projectID)
	if err != nil {
		return err
	}
	if access.IsOwner {
		return ErrOwnerCannotLeave
	}

	removed, err := service.members.Delete(projectID, userID)
	if err != nil {
		return fmt.Errorf("delete project membership: %w", err)
	}
	if removed == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (service *MembershipService) RemoveMember(ownerID uint, projectID uint, memberID uint) error {
	project, err := service.access.RequireProjectOwner(ownerID, projectID)
	if err != nil {
		return err
	}
	if memberID == ProjectOwnerID(project) {
		return ErrCannotRemoveOwner
	}

	removed, err := service.members.Delete(project.ID, memberID)
	if err != nil {
		return fmt.Errorf("delete project membership: %w", err)
	}
	if removed == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// ListMembers returns the owner first, then membership rows in join order.
// An owner who also holds a membership row is listed once.
func (service *MembershipService) ListMembers(userID uint, projectID uint) ([]ProjectMemberView, error) {
	access, err := service.access.RequireProjectAccess(userID, projectID)
	if err != nil {
		return nil, err
	}

	ownerID := ProjectOwnerID(access.Project)
	owner, err := service.users.FindByID(ownerID)
	if err != nil {
		return nil, lookupError(err, ErrUserNotFound, "load project owner")
	}

	members, err := service.members.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}

	views := make([]ProjectMemberView, 0, len(members)+1)
	views = append(views, ProjectMemberView{
		User:     owner.Brief(),
		Role:     models.MemberRoleOwner,
		JoinedAt: access.Project.CreatedAt,
	})
	for _, member := range members {
		if member.UserID == ownerID {
			continue
		}
		brief := models.UserBrief{ID: member.UserID}
		if member.User != nil {
			brief = member.User.Brief()
		}
		views = append(views, ProjectMemberView{
			User:     brief,
			Role:     member.Role,
			JoinedAt: member.CreatedAt,
		})
	}
	return views, nil
}
