package api

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}

	logger := options.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	tokenTTL := options.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = defaultAuthTokenTTL
	}
	joinLimiter := options.JoinLimiter
	if joinLimiter == nil {
		joinLimiter = NewMemoryAttemptLimiter()
	}
	joinAttemptLimit := options.JoinAttemptLimit
	if joinAttemptLimit <= 0 {
		joinAttemptLimit = defaultJoinAttemptLimit
	}
	joinAttemptWindow := options.JoinAttemptWindow
	if joinAttemptWindow <= 0 {
		joinAttemptWindow = defaultJoinAttemptWindow
	}

	handler := &Handler{
		db:                database,
		secretKey:         []byte(options.SecretKey),
		tokenTTL:          tokenTTL,
		cookieSecure:      options.CookieSecure,
		logger:            logger,
		joinLimiter:       joinLimiter,
		joinAttemptLimit:  joinAttemptLimit,
		joinAttemptWindow: joinAttemptWindow,
		now:               time.Now,
	}
	return handler.withDependencies(database), nil
}
