package pushrepo

import (
	"context"
	"database/sql"
	"time"

	"saborstock/internal/domain"
	"saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

// PushRepository guarda as inscrições de Web Push, uma por endpoint.
type PushRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewPushRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PushRepository {
	return &PushRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// Upsert cria a inscrição ou atualiza as chaves de um endpoint já conhecido.
func (r *PushRepository) Upsert(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO push_subscriptions (endpoint, p256dh, auth, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (endpoint) DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth
        RETURNING endpoint, p256dh, auth, created_at`

	var out domain.PushSubscription
	err := r.DB.QueryRowContext(ctxTimeout, query,
		sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth, time.Now().UTC(),
	).Scan(&out.Endpoint, &out.Keys.P256dh, &out.Keys.Auth, &out.CreatedAt)
	if err != nil {
		r.logger.Error("Falha ao gravar inscrição de push.", err)
		return domain.PushSubscription{}, errors.NewDBError("Falha ao gravar inscrição", err)
	}
	return out, nil
}

// DeleteByEndpoint remove a inscrição do endpoint.
func (r *PushRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint)
	if err != nil {
		r.logger.Error("Falha ao remover inscrição de push.", err)
		return errors.NewDBError("Falha ao remover inscrição", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError("Inscrição não encontrada.")
	}
	return nil
}

// FindAll lista as inscrições, mais recentes primeiro.
func (r *PushRepository) FindAll(ctx context.Context) ([]domain.PushSubscription, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT endpoint, p256dh, auth, created_at FROM push_subscriptions ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("Falha ao listar inscrições de push.", err)
		return nil, errors.NewDBError("Falha ao listar inscrições", err)
	}
	defer rows.Close()

	subs := []domain.PushSubscription{}
	for rows.Next() {
		var s domain.PushSubscription
		if err := rows.Scan(&s.Endpoint, &s.Keys.P256dh, &s.Keys.Auth, &s.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear inscrições do DB", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de inscrições", err)
	}
	return subs, nil
}
