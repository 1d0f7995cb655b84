package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type stubAccessProjects struct {
	projects map[uint]models.Project
}

func (stub *stubAccessProjects) FindWithClient(projectID uint) (models.Project, error) {
	project, ok := stub.projects[projectID]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return project, nil
}

type stubAccessSprints struct {
	sprints map[uint]models.Sprint
}

func (stub *stubAccessSprints) FindWithProject(sprintID uint) (models.Sprint, error) {
	sprint, ok := stub.sprints[sprintID]
	if !ok {
		return models.Sprint{}, gorm.ErrRecordNotFound
	}
	return sprint, nil
}

type stubAccessIssues struct {
	issues map[uint]models.Issue
}

func (stub *stubAccessIssues) FindByID(issueID uint) (models.Issue, error) {
	issue, ok := stub.issues[issueID]
	if !ok {
		return models.Issue{}, gorm.ErrRecordNotFound
	}
	return issue, nil
}

type memberKey struct {
	projectID uint
	userID    uint
}

type stubMembershipChecker struct {
	rows map[memberKey]bool
	err  error
}

func (stub *stubMembershipChecker) Exists(projectID uint, userID uint) (bool, error) {
	if stub.err != nil {
		return false, stub.err
	}
	return stub.rows[memberKey{projectID: projectID, userID: userID}], nil
}

const (
	testOwnerID    uint = 1
	testMemberID   uint = 2
	testOutsiderID uint = 3
	testProjectID  uint = 10
	testSprintID   uint = 20
	testIssueID    uint = 30
)

func newStubAccessResolver() (*AccessResolver, *stubMembershipChecker) {
	project := models.Project{
		ID:     testProjectID,
		Name:   "Apollo",
		Client: &models.Client{ID: 5, OwnerID: testOwnerID},
	}
	sprint := models.Sprint{ID: testSprintID, ProjectID: testProjectID, Project: &project}
	members := &stubMembershipChecker{rows: map[memberKey]bool{
		{projectID: testProjectID, userID: testMemberID}: true,
	}}

	resolver := NewAccessResolver(
		&stubAccessProjects{projects: map[uint]models.Project{testProjectID: project}},
		&stubAccessSprints{sprints: map[uint]models.Sprint{testSprintID: sprint}},
		&stubAccessIssues{issues: map[uint]models.Issue{testIssueID: {ID: testIssueID, SprintID: testSprintID}}},
		members,
	)
	return resolver, members
}

func TestResolveSprintAccessOwnerOrMember(t *testing.T) {
	t.Parallel()

	resolver, _ := newStubAccessResolver()

	tests := []struct {
		name       string
		userID     uint
		wantAllow  bool
		wantOwner  bool
		wantMember bool
	}{
		{name: "owner", userID: testOwnerID, wantAllow: true, wantOwner: true},
		{name: "member", userID: testMemberID, wantAllow: true, wantMember: true},
		{name: "outsider", userID: testOutsiderID},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			access, err := resolver.ResolveSprintAccess(test.userID, testSprintID)
			if err != nil {
				t.Fatalf("ResolveSprintAccess() unexpected error: %v", err)
			}
			if access.Allowed != test.wantAllow || access.IsOwner != test.wantOwner || access.IsMember != test.wantMember {
				t.Fatalf("ResolveSprintAccess() = allowed:%v owner:%v member:%v, want %v %v %v",
					access.Allowed, access.IsOwner, access.IsMember, test.wantAllow, test.wantOwner, test.wantMember)
			}
			if access.Sprint.ID != testSprintID || access.Project.ID != testProjectID {
				t.Fatalf("expected resolved sprint %d and project %d, got %d and %d", testSprintID, testProjectID, access.Sprint.ID, access.Project.ID)
			}
		})
	}
}

func TestResolveAccessOwnerWithMembershipRowIsBothOwnerAndMember(t *testing.T) {
	t.Parallel()

	resolver, members := newStubAccessResolver()
	members.rows[memberKey{projectID: testProjectID, userID: testOwnerID}] = true

	access, err := resolver.ResolveProjectAccess(testOwnerID, testProjectID)
	if err != nil {
		t.Fatalf("ResolveProjectAccess() unexpected error: %v", err)
	}
	if !access.Allowed || !access.IsOwner || !access.IsMember {
		t.Fatalf("expected owner and member, got %#v", access)
	}
}

func TestResolveAccessFollowsMembershipRevocationImmediately(t *testing.T) {
	t.Parallel()

	resolver, members := newStubAccessResolver()

	access, err := resolver.ResolveIssueAccess(testMemberID, testIssueID)
	if err != nil {
		t.Fatalf("ResolveIssueAccess() unexpected error: %v", err)
	}
	if !access.Allowed {
		t.Fatal("expected member to have issue access")
	}

	delete(members.rows, memberKey{projectID: testProjectID, userID: testMemberID})

	access, err = resolver.ResolveIssueAccess(testMemberID, testIssueID)
	if err != nil {
		t.Fatalf("ResolveIssueAccess() unexpected error: %v", err)
	}
	if access.Allowed {
		t.Fatal("expected revoked member to lose issue access on the next check")
	}
}

func TestResolveAccessNotFoundBeforeForbidden(t *testing.T) {
	t.Parallel()

	resolver, _ := newStubAccessResolver()

	if _, err := resolver.RequireSprintAccess(testOutsiderID, 999); !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrSprintNotFound) {
		t.Fatalf("expected ErrSprintNotFound for missing sprint, got %v", err)
	}
	if _, err := resolver.RequireIssueAccess(testOutsiderID, 999); !errors.Is(err, ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound for missing issue, got %v", err)
	}
	if _, err := resolver.RequireProjectAccess(testOutsiderID, 999); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for missing project, got %v", err)
	}

	_, err := resolver.RequireSprintAccess(testOutsiderID, testSprintID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("forbidden must not be reported as not found: %v", err)
	}
}

func TestRequireProjectOwnerIgnoresMembership(t *testing.T) {
	t.Parallel()

	resolver, _ := newStubAccessResolver()

	if _, err := resolver.RequireProjectOwner(testOwnerID, testProjectID); err != nil {
		t.Fatalf("RequireProjectOwner() unexpected error for owner: %v", err)
	}
	if _, err := resolver.RequireProjectOwner(testMemberID, testProjectID); !errors.Is(err, ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner for member, got %v", err)
	}
}

func TestResolveAccessPropagatesMembershipErrors(t *testing.T) {
	t.Parallel()

	resolver, members := newStubAccessResolver()
	members.err = errors.New("database is locked")

	_, err := resolver.ResolveProjectAccess(testMemberID, testProjectID)
	if err == nil {
		t.Fatal("expected membership lookup error")
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
		t.Fatalf("storage failure must not be reported as an access outcome: %v", err)
	}
}
