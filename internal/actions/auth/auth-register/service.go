// Package authregister creates a portal account. It does not log the new
// user in.
package authregister

import (
	"context"
	"strings"

	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
	"labportal/internal/common/metrics"
	"labportal/internal/models"
)

const ActionName = "auth-register"

type ServiceDependencies struct {
	Registrar Registrar
	Logger    logger.Logger
}

type Service struct {
	config    *Config
	registrar Registrar
	logger    logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:    config,
		registrar: deps.Registrar,
		logger:    deps.Logger.WithFields(map[string]interface{}{"action": ActionName}),
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

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	user, err := s.registrar.Register(ctx, models.RegisterRequest{
		Email:    strings.TrimSpace(input.Email),
		Password: input.Password,
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
	})
	if err != nil {
		s.logger.Warn("Registration rejected", map[string]interface{}{
			"email": input.Email,
			"error": err,
		})
		return nil, err
	}

	s.logger.Info("Account registered", map[string]interface{}{
		"userId": user.ID,
	})
	return &Output{User: *user}, nil
}
