package salerepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"saborstock/internal/domain"
	"saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

// SaleRepository grava e lista o histórico de vendas.
type SaleRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewSaleRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SaleRepository {
	return &SaleRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// Save persiste a venda. Gera o ID (UUID) e a data quando ausentes.
// Com CouponCode preenchido, o uso do cupom é registrado na mesma transação:
// cupom esgotado ou inexistente desfaz tudo com domain.ErrCouponUnavailable.
func (r *SaleRepository) Save(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	if sale.Items == nil {
		sale.Items = []domain.SaleItem{}
	}

	items, err := json.Marshal(sale.Items)
	if err != nil {
		return domain.Sale{}, errors.NewInternalError("Falha ao serializar itens da venda", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Sale{}, errors.NewDBError("Falha ao iniciar transação da venda", err)
	}
	defer tx.Rollback()

	if sale.CouponCode != "" {
		result, err := tx.ExecContext(ctxTimeout, `
            UPDATE coupons SET uses = uses + 1
            WHERE code = $1 AND (max_uses IS NULL OR uses < max_uses)`, sale.CouponCode)
		if err != nil {
			r.logger.Error("Falha ao registrar uso do cupom.", err)
			return domain.Sale{}, errors.NewDBError("Falha ao registrar uso do cupom", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return domain.Sale{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if rowsAffected == 0 {
			return domain.Sale{}, domain.ErrCouponUnavailable
		}
	}

	query := `
        INSERT INTO sales (id, customer_name, customer_phone, items, coupon_code, subtotal, discount, total, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctxTimeout, query,
		sale.ID, sale.CustomerName, sale.CustomerPhone, items, sale.CouponCode,
		sale.Subtotal, sale.Discount, sale.Total, sale.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir venda no DB.", err)
		return domain.Sale{}, errors.NewDBError("Falha ao registrar venda", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Sale{}, errors.NewDBError("Falha ao commitar venda", err)
	}

	r.logger.Info("Venda registrada.", map[string]interface{}{"sale_id": sale.ID, "total": sale.Total.String()})
	return sale, nil
}

// FindAll lista as vendas da mais recente para a mais antiga.
func (r *SaleRepository) FindAll(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, customer_name, customer_phone, items, coupon_code, subtotal, discount, total, created_at
        FROM sales
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Falha ao listar vendas.", err)
		return nil, errors.NewDBError("Falha ao listar vendas", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		var (
			s     domain.Sale
			items []byte
		)
		if err := rows.Scan(&s.ID, &s.CustomerName, &s.CustomerPhone, &items, &s.CouponCode,
			&s.Subtotal, &s.Discount, &s.Total, &s.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear vendas do DB", err)
		}
		if err := json.Unmarshal(items, &s.Items); err != nil {
			return nil, errors.NewInternalError("Itens da venda corrompidos", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de vendas", err)
	}
	return sales, nil
}
