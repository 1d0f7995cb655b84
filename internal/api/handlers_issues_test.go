package api

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/terraincognita07/sprintdesk/internal/services"
)

type issuePayload struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	AssigneeID *uint  `json:"assignee_id"`
}

func TestSprintAndIssueLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	owner := registerTestUser(t, app, "Una", "u1@example.com", "")
	member := registerTestUser(t, app, "Bob", "u2@example.com", owner.ProjectCode)

	response := doRequest(t, app, http.MethodPost, "/api/sprints", member.Token, map[string]any{
		"project_id": owner.ProjectID,
		"name":       "Sprint 2",
		"start_date": "2026-03-02",
		"end_date":   "2026-03-01",
	})
	expectStatus(t, response, http.StatusBadRequest)

	response = doRequest(t, app, http.MethodPost, "/api/sprints", member.Token, map[string]any{
		"project_id": owner.ProjectID,
		"name":       "Sprint 2",
		"start_date": "2026-03-02",
		"end_date":   "2026-03-16",
		"status":     "active",
	})
	expectStatus(t, response, http.StatusCreated)
	var sprint struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	response.decode(t, &sprint)
	sprintPath := "/api/sprints/" + uintString(sprint.ID)

	page := listNotifications(t, app, owner)
	if page.Total != 2 {
		t.Fatalf("expected join and sprint notifications for the owner, got %#v", page)
	}

	response = doRequest(t, app, http.MethodGet, "/api/sprints?projectId="+uintString(owner.ProjectID), member.Token, nil)
	expectStatus(t, response, http.StatusOK)
	expectStatus(t, doRequest(t, app, http.MethodGet, "/api/sprints", member.Token, nil), http.StatusBadRequest)

	response = doRequest(t, app, http.MethodPatch, sprintPath, owner.Token, map[string]string{"status": "finished"})
	expectStatus(t, response, http.StatusBadRequest)
	response = doRequest(t, app, http.MethodPatch, sprintPath, owner.Token, map[string]string{"status": "completed"})
	expectStatus(t, response, http.StatusOK)

	response = doRequest(t, app, http.MethodPost, "/api/issues", owner.Token, map[string]any{
		"sprint_id":   sprint.ID,
		"title":       "Broken login",
		"type":        "bug",
		"priority":    "high",
		"assignee_id": member.ID,
	})
	expectStatus(t, response, http.StatusCreated)
	var issue issuePayload
	response.decode(t, &issue)
	if issue.AssigneeID == nil || *issue.AssigneeID != member.ID || issue.Status != "todo" {
		t.Fatalf("unexpected created issue: %#v", issue)
	}
	issuePath := "/api/issues/" + uintString(issue.ID)

	response = doRequest(t, app, http.MethodGet, "/api/issues?sprintId="+uintString(sprint.ID)+"&mine=true", member.Token, nil)
	expectStatus(t, response, http.StatusOK)
	var mine []issuePayload
	response.decode(t, &mine)
	if len(mine) != 1 || mine[0].ID != issue.ID {
		t.Fatalf("expected the assigned issue only, got %#v", mine)
	}

	response = doRequest(t, app, http.MethodPatch, issuePath, owner.Token, map[string]any{"status": "inprogress"})
	expectStatus(t, response, http.StatusOK)

	page = listNotifications(t, app, member)
	types := make([]string, 0, len(page.Notifications))
	for _, notification := range page.Notifications {
		types = append(types, notification.Type)
	}
	joined := strings.Join(types, ",")
	if !strings.Contains(joined, "issue_assigned") || !strings.Contains(joined, "issue_status_changed") {
		t.Fatalf("expected assignment and status notifications, got %v", types)
	}

	response = doRequest(t, app, http.MethodPatch, issuePath, owner.Token, map[string]any{"assignee_id": nil})
	expectStatus(t, response, http.StatusOK)
	response.decode(t, &issue)
	if issue.AssigneeID != nil {
		t.Fatalf("expected explicit null to unassign, got %v", *issue.AssigneeID)
	}

	response = doRequest(t, app, http.MethodPatch, issuePath, owner.Token, map[string]any{"title": "Broken login page"})
	expectStatus(t, response, http.StatusOK)
	response.decode(t, &issue)
	if issue.Title != "Broken login page" || issue.AssigneeID != nil {
		t.Fatalf("expected title change to leave assignee untouched, got %#v", issue)
	}

	outsider := registerTestUser(t, app, "Cy", "u3@example.com", "")
	expectStatus(t, doRequest(t, app, http.MethodGet, issuePath, outsider.Token, nil), http.StatusForbidden)

	expectStatus(t, doRequest(t, app, http.MethodDelete, issuePath, member.Token, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, app, http.MethodGet, issuePath, owner.Token, nil), http.StatusNotFound)
	expectStatus(t, doRequest(t, app, http.MethodDelete, sprintPath, owner.Token, nil), http.StatusNoContent)
}

func TestSprintCSVExport(t *testing.T) {
	app, _ := newTestApp(t)
	owner := registerTestUser(t, app, "Una", "u1@example.com", "")
	outsider := registerTestUser(t, app, "Bob", "u2@example.com", "")
	sprintID := firstSprintID(t, app, owner)

	response := doRequest(t, app, http.MethodPost, "/api/issues", owner.Token, map[string]any{
		"sprint_id": sprintID,
		"title":     "Write docs, then ship",
		"status":    "done",
	})
	expectStatus(t, response, http.StatusCreated)

	exportPath := fmt.Sprintf("/api/sprints/%d/export.csv", sprintID)
	expectStatus(t, doRequest(t, app, http.MethodGet, exportPath, outsider.Token, nil), http.StatusForbidden)

	response = doRequest(t, app, http.MethodGet, exportPath, owner.Token, nil)
	expectStatus(t, response, http.StatusOK)
	if contentType := response.header.Get("Content-Type"); !strings.HasPrefix(contentType, "text/csv") {
		t.Fatalf("expected csv content type, got %q", contentType)
	}
	if disposition := response.header.Get("Content-Disposition"); !strings.Contains(disposition, fmt.Sprintf("sprint-%d.csv", sprintID)) {
		t.Fatalf("unexpected content disposition %q", disposition)
	}

	records, err := csv.NewReader(bytes.NewReader(response.body)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != "ID,Title,Type,Priority,Status,Assignee,Creator,Created" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][1] != "Write docs, then ship" || records[1][4] != "Done" || records[1][6] != "Una" {
		t.Fatalf("unexpected row %v", records[1])
	}
}

func TestNotificationRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	owner := registerTestUser(t, app, "Una", "u1@example.com", "")
	registerTestUser(t, app, "Bob", "u2@example.com", owner.ProjectCode)
	registerTestUser(t, app, "Cy", "u3@example.com", owner.ProjectCode)

	response := doRequest(t, app, http.MethodGet, "/api/notifications/unread-count", owner.Token, nil)
	expectStatus(t, response, http.StatusOK)
	var count struct {
		Count int64 `json:"count"`
	}
	response.decode(t, &count)
	if count.Count != 2 {
		t.Fatalf("expected two unread notifications, got %d", count.Count)
	}

	response = doRequest(t, app, http.MethodGet, "/api/notifications?limit=1", owner.Token, nil)
	expectStatus(t, response, http.StatusOK)
	var page struct {
		Notifications []struct {
			ID uint `json:"id"`
		} `json:"notifications"`
		Total int64 `json:"total"`
		Limit int   `json:"limit"`
	}
	response.decode(t, &page)
	if len(page.Notifications) != 1 || page.Total != 2 || page.Limit != 1 {
		t.Fatalf("unexpected notification page: %#v", page)
	}
	notificationPath := "/api/notifications/" + uintString(page.Notifications[0].ID)

	stranger := registerTestUser(t, app, "Dee", "u4@example.com", "")
	expectStatus(t, doRequest(t, app, http.MethodPatch, notificationPath+"/read", stranger.Token, nil), http.StatusNotFound)
	expectStatus(t, doRequest(t, app, http.MethodPatch, notificationPath+"/read", owner.Token, nil), http.StatusOK)

	response = doRequest(t, app, http.MethodPatch, "/api/notifications/read-all", owner.Token, nil)
	expectStatus(t, response, http.StatusOK)
	var updated struct {
		Updated int64 `json:"updated"`
	}
	response.decode(t, &updated)
	if updated.Updated != 1 {
		t.Fatalf("expected one remaining unread notification to be marked, got %d", updated.Updated)
	}

	expectStatus(t, doRequest(t, app, http.MethodDelete, notificationPath, owner.Token, nil), http.StatusNoContent)
	expectStatus(t, doRequest(t, app, http.MethodDelete, notificationPath, owner.Token, nil), http.StatusNotFound)
}

func TestServiceErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "validation", err: services.ErrProjectCodeRequired, status: http.StatusBadRequest, message: "project code is required"},
		{name: "credentials", err: services.ErrInvalidCredentials, status: http.StatusUnauthorized, message: "invalid email or password"},
		{name: "forbidden", err: services.ErrJoinLocked, status: http.StatusForbidden, message: "this project is not accepting new members"},
		{name: "not found", err: services.ErrSprintNotFound, status: http.StatusNotFound, message: "sprint not found"},
		{name: "conflict", err: services.ErrEmailTaken, status: http.StatusConflict, message: "email already in use"},
		{name: "code budget", err: fmt.Errorf("%w after 10 attempts", services.ErrCodeGenerationFailed), status: http.StatusServiceUnavailable, message: "could not allocate a project code, please retry"},
		{name: "unexpected", err: errors.New("disk on fire"), status: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			status, message := serviceErrorStatus(test.err)
			if status != test.status || message != test.message {
				t.Fatalf("serviceErrorStatus(%v) = %d %q, want %d %q", test.err, status, message, test.status, test.message)
			}
		})
	}
}
