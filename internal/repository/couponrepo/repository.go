package couponrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"saborstock/internal/domain"
	"saborstock/internal/errors"
	"saborstock/internal/pkg/database"
	"saborstock/internal/pkg/logger"
)

// CouponRepository implementa domain.CouponRepository sobre PostgreSQL.
type CouponRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewCouponRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CouponRepository {
	return &CouponRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

const couponColumns = `code, discount_percent, active, expires_at, max_uses, uses, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCoupon(row rowScanner) (domain.Coupon, error) {
	var (
		c         domain.Coupon
		expiresAt sql.NullTime
		maxUses   sql.NullInt64
	)
	if err := row.Scan(&c.Code, &c.DiscountPercent, &c.Active, &expiresAt, &maxUses, &c.Uses, &c.CreatedAt); err != nil {
		return domain.Coupon{}, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	if maxUses.Valid {
		n := int(maxUses.Int64)
		c.MaxUses = &n
	}
	return c, nil
}

// Save insere um novo cupom. Código duplicado resulta em ConflictError.
func (r *CouponRepository) Save(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var maxUses sql.NullInt64
	if coupon.MaxUses != nil {
		maxUses = sql.NullInt64{Int64: int64(*coupon.MaxUses), Valid: true}
	}
	var expiresAt sql.NullTime
	if coupon.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: coupon.ExpiresAt.UTC(), Valid: true}
	}

	query := `
        INSERT INTO coupons (code, discount_percent, active, expires_at, max_uses, uses, created_at)
        VALUES ($1, $2, $3, $4, $5, 0, $6)
        RETURNING ` + couponColumns

	saved, err := scanCoupon(r.DB.QueryRowContext(ctxTimeout, query,
		coupon.Code, coupon.DiscountPercent, coupon.Active, expiresAt, maxUses, time.Now().UTC(),
	))
	if database.IsUniqueViolation(err) {
		return domain.Coupon{}, errors.NewConflictError(fmt.Sprintf("O cupom '%s' já existe.", coupon.Code))
	}
	if err != nil {
		r.logger.Error("Falha ao inserir cupom no DB.", err)
		return domain.Coupon{}, errors.NewDBError("Falha ao criar cupom", err)
	}

	r.logger.Info("Cupom criado.", map[string]interface{}{"code": saved.Code})
	return saved, nil
}

// FindByCode busca um cupom pelo código já normalizado.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	c, err := scanCoupon(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err == sql.ErrNoRows {
		return domain.Coupon{}, errors.NewNotFoundError(fmt.Sprintf("Cupom '%s' não encontrado.", code))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cupom no DB.", err)
		return domain.Coupon{}, errors.NewDBError("Falha ao buscar cupom", err)
	}
	return c, nil
}

// FindAll lista todos os cupons, mais recentes primeiro.
func (r *CouponRepository) FindAll(ctx context.Context) ([]domain.Coupon, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("Falha ao listar cupons.", err)
		return nil, errors.NewDBError("Falha ao listar cupons", err)
	}
	defer rows.Close()

	coupons := []domain.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear cupons do DB", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de cupons", err)
	}
	return coupons, nil
}

// Delete remove um cupom.
func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM coupons WHERE code = $1`, code)
	if err != nil {
		r.logger.Error("Falha ao deletar cupom.", err)
		return errors.NewDBError("Falha ao deletar cupom", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Cupom '%s' não encontrado para exclusão.", code))
	}

	r.logger.Info("Cupom removido.", map[string]interface{}{"code": code})
	return nil
}
