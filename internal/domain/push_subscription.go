package domain

import (
	"context"
	"time"
)

// PushKeys são as chaves do navegador para criptografia do Web Push.
type PushKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// PushSubscription é a inscrição de um navegador em notificações.
type PushSubscription struct {
	Endpoint  string    `json:"endpoint" validate:"required,url"`
	Keys      PushKeys  `json:"keys"`
	CreatedAt time.Time `json:"created_at"`
}

// PushSubscriptionRepository define o contrato de persistência das inscrições.
type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, sub PushSubscription) (PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	FindAll(ctx context.Context) ([]PushSubscription, error)
}
