package services

import (
	"fmt"

	"github.com/terraincognita07/sprintdesk/internal/models"
)

type AccessProjectRepository interface {
	FindWithClient(projectID uint) (models.Project, error)
}

type AccessSprintRepository interface {
	FindWithProject(sprintID uint) (models.Sprint, error)
}

type AccessIssueRepository interface {
	FindByID(issueID uint) (models.Issue, error)
}

type MembershipChecker interface {
	Exists(projectID uint, userID uint) (bool, error)
}

// ProjectAccess is the outcome of the owner-or-member check for one project.
type ProjectAccess struct {
	Allowed  bool
	IsOwner  bool
	IsMember bool
	Project  models.Project
}

type SprintAccess struct {
	ProjectAccess
	Sprint models.Sprint
}

type IssueAccess struct {
	SprintAccess
	Issue models.Issue
}

// AccessResolver decides access structurally: a user may act on a project and
// everything below it when they own the project's client or hold a
// membership row. Nothing is cached; every call reads the ledger.
type AccessResolver struct {
	projects AccessProjectRepository
	sprints  AccessSprintRepository
	issues   AccessIssueRepository
	members  MembershipChecker
}

func NewAccessResolver(projects AccessProjectRepository, sprints AccessSprintRepository, issues AccessIssueRepository, members MembershipChecker) *AccessResolver {
	return &AccessResolver{
		projects: projects,
		sprints:  sprints,
		issues:   issues,
		members:  members,
	}
}

func ProjectOwnerID(project models.Project) uint {
	if project.Client == nil {
		return 0
	}
	return project.Client.OwnerID
}

func (resolver *AccessResolver) decide(userID uint, project models.Project) (ProjectAccess, error) {
	ownerID := ProjectOwnerID(project)
	isOwner := ownerID != 0 && ownerID == userID

	isMember, err := resolver.members.Exists(project.ID, userID)
	if err != nil {
		return ProjectAccess{}, fmt.Errorf("check project membership: %w", err)
	}

	return ProjectAccess{
		Allowed:  isOwner || isMember,
		IsOwner:  isOwner,
		IsMember: isMember,
		Project:  project,
	}, nil
}

func (resolver *AccessResolver) ResolveProjectAccess(userID uint, projectID uint) (ProjectAccess, error) {
	project, err := resolver.projects.FindWithClient(projectID)
	if err != nil {
		return ProjectAccess{}, lookupError(err, ErrProjectNotFound, "load project")
	}
	return resolver.decide(userID, project)
}

func (resolver *AccessResolver) ResolveSprintAccess(userID uint, sprintID uint) (SprintAccess, error) {
	sprint, err := resolver.sprints.FindWithProject(sprintID)
	if err != nil {
		return SprintAccess{}, lookupError(err, ErrSprintNotFound, "load sprint")
	}
	if sprint.Project == nil {
		return SprintAccess{}, fmt.Errorf("sprint %d loaded without its project", sprint.ID)
	}

	access, err := resolver.decide(userID, *sprint.Project)
	if err != nil {
		return SprintAccess{}, err
	}
	return SprintAccess{ProjectAccess: access, Sprint: sprint}, nil
}

func (resolver *AccessResolver) ResolveIssueAccess(userID uint, issueID uint) (IssueAccess, error) {
	issue, err := resolver.issues.FindByID(issueID)
	if err != nil {
		return IssueAccess{}, lookupError(err, ErrIssueNotFound, "load issue")
	}

	access, err := resolver.ResolveSprintAccess(userID, issue.SprintID)
	if err != nil {
		return IssueAccess{}, err
	}
	return IssueAccess{SprintAccess: access, Issue: issue}, nil
}

func (resolver *AccessResolver) RequireProjectAccess(userID uint, projectID uint) (ProjectAccess, error) {
	access, err := resolver.ResolveProjectAccess(userID, projectID)
	if err != nil {
		return ProjectAccess{}, err
	}
	if !access.Allowed {
		return ProjectAccess{}, ErrProjectAccessDenied
	}
	return access, nil
}

func (resolver *AccessResolver) RequireSprintAccess(userID uint, sprintID uint) (SprintAccess, error) {
	access, err := resolver.ResolveSprintAccess(userID, sprintID)
	if err != nil {
		return SprintAccess{}, err
	}
	if !access.Allowed {
		return SprintAccess{}, ErrProjectAccessDenied
	}
	return access, nil
}

func (resolver *AccessResolver) RequireIssueAccess(userID uint, issueID uint) (IssueAccess, error) {
	access, err := resolver.ResolveIssueAccess(userID, issueID)
	if err != nil {
		return IssueAccess{}, err
	}
	if !access.Allowed {
		return IssueAccess{}, ErrProjectAccessDenied
	}
	return access, nil
}

// RequireProjectOwner admits only the owner of the project's client.
// Membership rows do not count, even for the owner.
func (resolver *AccessResolver) RequireProjectOwner(userID uint, projectID uint) (models.Project, error) {
	project, err := resolver.projects.FindWithClient(projectID)
	if err != nil {
		return models.Project{}, lookupError(err, ErrProjectNotFound, "load project")
	}
	ownerID := ProjectOwnerID(project)
	if ownerID == 0 || ownerID != userID {
		return models.Project{}, ErrNotProjectOwner
	}
	return project, nil
}
