package main

import (
	"io"
	"net"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/api"
	"github.com/terraincognita07/sprintdesk/internal/config"
	"github.com/terraincognita07/sprintdesk/internal/db"
)

func newTestConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:        "8080",
		Environment: "development",
		LogLevel:    logrus.InfoLevel,
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "sprintdesk.db"),
		},
		SecretKey:   "0123456789abcdef0123456789abcdef",
		CORSOrigins: "https://board.example.com",
	}
}

func TestNewAppServesRoutesWithMiddleware(t *testing.T) {
	cfg := newTestConfig(t)
	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		t.Fatalf("OpenSQLite() unexpected error: %v", err)
	}
	handler, err := api.NewHandler(database, api.HandlerOptions{SecretKey: cfg.SecretKey})
	if err != nil {
		t.Fatalf("NewHandler() unexpected error: %v", err)
	}
	app := newApp(handler, cfg)

	request := httptest.NewRequest("GET", "/healthz", nil)
	request.Header.Set("Origin", "https://board.example.com")
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("app.Test() unexpected error: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != 200 {
		t.Fatalf("expected 200 from /healthz, got %d", response.StatusCode)
	}
	if got := response.Header.Get("Access-Control-Allow-Origin"); got != "https://board.example.com" {
		t.Fatalf("expected cors origin header, got %q", got)
	}
	if response.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}

	response, err = app.Test(httptest.NewRequest("GET", "/api/nowhere", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() unexpected error: %v", err)
	}
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	if response.StatusCode != 404 {
		t.Fatalf("expected 404 for unknown route, got %d (%s)", response.StatusCode, body)
	}
}

func TestNewLoggerUsesJSONInProduction(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.LogLevel = logrus.DebugLevel

	if _, ok := newLogger(cfg).Formatter.(*logrus.TextFormatter); !ok {
		t.Fatal("expected text formatter outside production")
	}

	cfg.Environment = "production"
	log := newLogger(cfg)
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatal("expected JSON formatter in production")
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
}

func TestParseResetPasswordArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    resetPasswordArgs
		wantErr bool
	}{
		{name: "email only", args: []string{"una@example.com"}, want: resetPasswordArgs{email: "una@example.com"}},
		{name: "prompt after email", args: []string{"una@example.com", "--prompt"}, want: resetPasswordArgs{email: "una@example.com", prompt: true}},
		{name: "prompt before email", args: []string{"--prompt", "una@example.com"}, want: resetPasswordArgs{email: "una@example.com", prompt: true}},
		{name: "missing email", args: nil, wantErr: true},
		{name: "unknown flag", args: []string{"una@example.com", "--force"}, wantErr: true},
		{name: "extra argument", args: []string{"una@example.com", "bob@example.com"}, wantErr: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseResetPasswordArgs(test.args)
			if test.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", test.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResetPasswordArgs() unexpected error: %v", err)
			}
			if got != test.want {
				t.Fatalf("expected %#v, got %#v", test.want, got)
			}
		})
	}
}

func TestRunResetPasswordRejectsUnknownUser(t *testing.T) {
	cfg := newTestConfig(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	err := runResetPassword(cfg, log, []string{"ghost@example.com"})
	if err == nil {
		t.Fatal("expected unknown user to fail")
	}
}

func setRunEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "DB_DRIVER", "DATABASE_URL", "TOKEN_TTL",
		"REDIS_URL", "JOIN_ATTEMPTS_LIMIT", "JOIN_ATTEMPTS_WINDOW", "SENTRY_DSN",
		"CORS_ORIGINS", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "sprintdesk.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestRunReturnsConfigErrors(t *testing.T) {
	setRunEnv(t)
	t.Setenv("SECRET_KEY", "")

	if err := run(nil); err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestRunReturnsListenErrors(t *testing.T) {
	setRunEnv(t)

	occupied, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("net.Listen() unexpected error: %v", err)
	}
	defer occupied.Close()
	t.Setenv("PORT", strconv.Itoa(occupied.Addr().(*net.TCPAddr).Port))

	if err := run(nil); err == nil || !strings.Contains(err.Error(), "server exited") {
		t.Fatalf("expected listen error, got %v", err)
	}
}

func TestRunResetPasswordSubcommandReturnsErrors(t *testing.T) {
	setRunEnv(t)

	if err := run([]string{"reset-password"}); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"reset-password", "ghost@example.com"}); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected unknown user error, got %v", err)
	}
}
