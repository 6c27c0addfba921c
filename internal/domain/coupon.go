package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperror "saborstock/internal/errors"
)

// ErrCouponUnavailable é devolvido por SaleRepository.Save quando o cupom da
// venda deixou de existir ou atingiu max_uses entre a validação e a gravação.
var ErrCouponUnavailable = apperror.NewConflictError("O cupom não está mais disponível.")

// Coupon é um cupom de desconto percentual.
type Coupon struct {
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Active          bool            `json:"active"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	MaxUses         *int            `json:"max_uses,omitempty"`
	Uses            int             `json:"uses"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NormalizeCouponCode remove espaços e coloca o código em maiúsculas.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponValidation é a resposta de POST /v1/coupons/validate.
type CouponValidation struct {
	Valid    bool            `json:"valid"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Message  string          `json:"message"`
}

// CouponRepository define o contrato de persistência de cupons.
type CouponRepository interface {
	Save(ctx context.Context, coupon Coupon) (Coupon, error)
	FindByCode(ctx context.Context, code string) (Coupon, error)
	FindAll(ctx context.Context) ([]Coupon, error)
	Delete(ctx context.Context, code string) error
}
