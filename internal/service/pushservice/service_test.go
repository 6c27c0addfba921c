package pushservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/service/pushservice"
)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(domain.PushSubscription), args.Error(1)
}

func (m *MockSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return m.Called(ctx, endpoint).Error(0)
}

func (m *MockSubscriptionRepository) FindAll(ctx context.Context) ([]domain.PushSubscription, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PushSubscription), args.Error(1)
}

const endpoint = "https://push.example.com/send/abc123"

func TestSubscribe(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	svc := pushservice.NewService(repo, logger.NewNop())

	sub := domain.PushSubscription{Endpoint: endpoint, Keys: domain.PushKeys{P256dh: "BPk", Auth: "tK"}}
	repo.On("Upsert", mock.Anything, sub).Return(sub, nil)

	saved, err := svc.Subscribe(context.Background(), domain.PushSubscription{Endpoint: " " + endpoint + " ", Keys: sub.Keys})

	require.NoError(t, err)
	assert.Equal(t, endpoint, saved.Endpoint)
	repo.AssertExpectations(t)
}

func TestSubscribe_Invalid(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	svc := pushservice.NewService(repo, logger.NewNop())

	cases := []domain.PushSubscription{
		{Endpoint: "", Keys: domain.PushKeys{P256dh: "a", Auth: "b"}},
		{Endpoint: "http://push.example.com/x", Keys: domain.PushKeys{P256dh: "a", Auth: "b"}},
		{Endpoint: endpoint, Keys: domain.PushKeys{P256dh: "", Auth: "b"}},
	}
	for _, c := range cases {
		_, err := svc.Subscribe(context.Background(), c)
		assert.IsType(t, &apperror.ValidationError{}, err, c.Endpoint)
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUnsubscribe(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	svc := pushservice.NewService(repo, logger.NewNop())

	repo.On("DeleteByEndpoint", mock.Anything, endpoint).Return(apperror.NewNotFoundError("Inscrição não encontrada."))

	assert.True(t, apperror.IsNotFound(svc.Unsubscribe(context.Background(), endpoint)))
	assert.IsType(t, &apperror.ValidationError{}, svc.Unsubscribe(context.Background(), "  "))
}
