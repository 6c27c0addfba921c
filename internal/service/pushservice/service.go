package pushservice

import (
	"context"
	"strings"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/validation"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	FindAll(ctx context.Context) ([]domain.PushSubscription, error)
}

// Service gerencia as inscrições de notificação dos navegadores.
type Service struct {
	repo   SubscriptionRepository
	logger logger.Logger
}

func NewService(repo SubscriptionRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Subscribe grava (ou renova) a inscrição do endpoint.
func (s *Service) Subscribe(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	sub.Endpoint = strings.TrimSpace(sub.Endpoint)
	if err := validation.Struct(sub); err != nil {
		return domain.PushSubscription{}, err
	}
	if !strings.HasPrefix(sub.Endpoint, "https://") {
		return domain.PushSubscription{}, apperror.NewValidationError("O endpoint deve usar https.")
	}

	saved, err := s.repo.Upsert(ctx, sub)
	if err != nil {
		return domain.PushSubscription{}, err
	}
	s.logger.Info("Inscrição de push registrada.", map[string]interface{}{"endpoint": saved.Endpoint})
	return saved, nil
}

// Unsubscribe remove a inscrição do endpoint.
func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return apperror.NewValidationError("O endpoint é obrigatório.")
	}
	return s.repo.DeleteByEndpoint(ctx, endpoint)
}

func (s *Service) ListSubscriptions(ctx context.Context) ([]domain.PushSubscription, error) {
	return s.repo.FindAll(ctx)
}
