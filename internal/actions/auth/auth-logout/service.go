// Package authlogout clears the stored session.
package authlogout

import (
	"context"
	stderrors "errors"
	"time"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/session"
)

const ActionName = "auth-logout"

type ServiceDependencies struct {
	Sessions session.Store
	Logger   logger.Logger
}

type Service struct {
	config   *Config
	sessions session.Store
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		sessions: deps.Sessions,
		logger:   deps.Logger.WithFields(map[string]interface{}{"action": ActionName}),
	}
}

// Execute clears the session. Logging out without a session succeeds.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	output, err := s.execute(ctx, input)
	metrics.RecordActionResult(ActionName, errors.CodeOf(err))
	return output, err
}

func (s *Service) execute(ctx context.Context, input *Input) (*Output, error) {
	if !s.config.Enabled {
		return nil, errors.NewConfigError(ActionName + " is disabled")
	}
	if input == nil {
		input = &Input{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	current, err := s.sessions.Get(ctx)
	wasLoggedIn := err == nil
	if err != nil && !stderrors.Is(err, session.ErrNoSession) {
		s.logger.Warn("Could not read session before logout", map[string]interface{}{
			"error": err,
		})
	}

	if err := s.sessions.Clear(ctx); err != nil {
		return nil, errors.NewStorageError("clear_session", err)
	}

	fields := map[string]interface{}{"reason": input.Reason}
	if current != nil {
		fields["userId"] = current.User.ID
	}
	s.logger.Info("Auth logout completed successfully", fields)

	msg := "Logout successful"
	if !wasLoggedIn {
		msg = "No active session"
	}
	return &Output{
		Success:     true,
		WasLoggedIn: wasLoggedIn,
		Message:     msg,
		LogoutAt:    time.Now(),
	}, nil
}
