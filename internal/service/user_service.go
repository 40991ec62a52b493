// FILE: internal/service/user_service.go
package service

import (
	"context"
	"time"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/pkg/logger"
	"ai-storyboard-be/internal/repository/memory"
	"ai-storyboard-be/internal/repository/specification"
	"ai-storyboard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	// EnsureProvisioned creates the user row on first sight and grants the
	// signup bonus. A failed grant is logged and does not fail the caller.
	EnsureProvisioned(ctx context.Context, userId uuid.UUID, email string) error
	GetUser(ctx context.Context, userId uuid.UUID) (*entity.User, error)
}

type userService struct {
	uowFactory   unitofwork.RepositoryFactory
	tokenService ITokenService
	provisioned  *memory.ProvisionedUserCache
	logger       logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, tokenService ITokenService, provisioned *memory.ProvisionedUserCache, log logger.ILogger) IUserService {
	return &userService{
		uowFactory:   uowFactory,
		tokenService: tokenService,
		provisioned:  provisioned,
		logger:       log,
	}
}

func (s *userService) EnsureProvisioned(ctx context.Context, userId uuid.UUID, email string) error {
	if s.provisioned.IsProvisioned(userId) {
		return nil
	}

	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	created, err := uow.UserRepository().CreateIfAbsent(ctx, &entity.User{
		Id:        userId,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	if created {
		if _, err := s.tokenService.GrantSignupTokens(ctx, userId); err != nil {
			s.logger.Error("USER", "Failed to grant signup tokens", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
		} else {
			s.logger.Info("USER", "User provisioned", map[string]interface{}{"user_id": userId.String()})
		}
	}

	s.provisioned.MarkProvisioned(userId)
	return nil
}

func (s *userService) GetUser(ctx context.Context, userId uuid.UUID) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
}
