package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/db"
	"github.com/terraincognita07/sprintdesk/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL      = 7 * 24 * time.Hour
	defaultJoinAttemptLimit  = 10
	defaultJoinAttemptWindow = 15 * time.Minute
)

type Handler struct {
	db                *gorm.DB
	secretKey         []byte
	tokenTTL          time.Duration
	cookieSecure      bool
	logger            logrus.FieldLogger
	joinLimiter       AttemptLimiter
	joinAttemptLimit  int
	joinAttemptWindow time.Duration
	now               func() time.Time

	repositories        *db.Repositories
	access              *services.AccessResolver
	authService         *services.AuthService
	clientService       *services.ClientService
	projectService      *services.ProjectService
	membershipService   *services.MembershipService
	sprintService       *services.SprintService
	issueService        *services.IssueService
	notificationService *services.NotificationService
	statsService        *services.StatsService
	exportService       *services.ExportService
}

// HandlerOptions configures NewHandler. Zero values fall back to defaults; a
// nil JoinLimiter keeps attempts in process memory.
type HandlerOptions struct {
	SecretKey         string
	TokenTTL          time.Duration
	CookieSecure      bool
	Logger            logrus.FieldLogger
	JoinLimiter       AttemptLimiter
	JoinAttemptLimit  int
	JoinAttemptWindow time.Duration
}

type authClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
