// Package authlogin exchanges credentials for a token and stores the session.
package authlogin

import (
	"context"
	"strings"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/models"
	"labportal/internal/session"
)

const ActionName = "auth-login"

type ServiceDependencies struct {
	Auth     Authenticator
	Sessions session.Store
	Logger   logger.Logger
}

type Service struct {
	config   *Config
	auth     Authenticator
	sessions session.Store
	logger   logger.Logger
	now      func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		auth:     deps.Auth,
		sessions: deps.Sessions,
		logger:   deps.Logger.WithFields(map[string]interface{}{"action": ActionName}),
		now:      time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := s.execute(ctx, input)
	metrics.RecordActionResult(ActionName, errors.CodeOf(err))
	return output, err
}

func (s *Service) execute(ctx context.Context, input *Input) (*Output, error) {
	if !s.config.Enabled {
		return nil, errors.NewConfigError(ActionName + " is disabled")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	s.logger.Info("Executing auth login", map[string]interface{}{
		"email": email,
	})

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	grant, err := s.auth.Login(ctx, models.LoginRequest{Email: email, Password: input.Password})
	if err != nil {
		s.logger.Warn("Login rejected", map[string]interface{}{
			"email": email,
			"error": err,
		})
		return nil, err
	}

	sess := session.FromGrant(grant, s.now())
	if sess.User.Email == "" {
		sess.User.Email = email
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, errors.NewStorageError("store_session", err)
	}

	s.logger.Info("Auth login completed successfully", map[string]interface{}{
		"userId":    sess.User.ID,
		"role":      sess.User.Role,
		"expiresAt": sess.ExpiresAt,
	})

	return &Output{User: sess.User, ExpiresAt: sess.ExpiresAt}, nil
}
