package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/sprintdesk/internal/db"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()
	return newTestAppWithOptions(t, HandlerOptions{})
}

func newTestAppWithOptions(t *testing.T, options HandlerOptions) (*fiber.App, *Handler) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "sprintdesk-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if options.SecretKey == "" {
		options.SecretKey = testSecretKey
	}
	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, handler
}

type testResponse struct {
	status  int
	body    []byte
	header  http.Header
	cookies []*http.Cookie
}

func (response testResponse) decode(t *testing.T, target any) {
	t.Helper()
	if err := json.Unmarshal(response.body, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(response.body), err)
	}
}

func (response testResponse) errorMessage(t *testing.T) string {
	t.Helper()
	payload := map[string]string{}
	response.decode(t, &payload)
	return payload["error"]
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, token string, body any) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return testResponse{status: response.StatusCode, body: payload, header: response.Header, cookies: response.Cookies()}
}

func expectStatus(t *testing.T, response testResponse, expected int) {
	t.Helper()
	if response.status != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, response.status, string(response.body))
	}
}

type registeredUser struct {
	ID          uint
	Token       string
	ProjectID   uint
	ProjectCode string
}

type authPayload struct {
	Token string `json:"token"`
	User  struct {
		ID uint `json:"id"`
	} `json:"user"`
	Project struct {
		ID          uint   `json:"id"`
		ProjectCode string `json:"project_code"`
	} `json:"project"`
	Joined bool `json:"joined"`
}

func registerTestUser(t *testing.T, app *fiber.App, name string, email string, code string) registeredUser {
	t.Helper()

	response := doRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":         name,
		"email":        email,
		"password":     "secret1",
		"project_code": code,
	})
	expectStatus(t, response, http.StatusCreated)

	var payload authPayload
	response.decode(t, &payload)
	if payload.Token == "" {
		t.Fatal("expected a token in the registration response")
	}
	return registeredUser{
		ID:          payload.User.ID,
		Token:       payload.Token,
		ProjectID:   payload.Project.ID,
		ProjectCode: payload.Project.ProjectCode,
	}
}

func firstSprintID(t *testing.T, app *fiber.App, user registeredUser) uint {
	t.Helper()

	response := doRequest(t, app, http.MethodGet, "/api/projects/"+uintString(user.ProjectID)+"/sprints", user.Token, nil)
	expectStatus(t, response, http.StatusOK)

	var sprints []struct {
		ID uint `json:"id"`
	}
	response.decode(t, &sprints)
	if len(sprints) == 0 {
		t.Fatal("expected the default sprint")
	}
	return sprints[0].ID
}

func uintString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}
