package couponservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

// CouponRepository define o contrato de persistência esperado pelo serviço.
type CouponRepository interface {
	Save(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
	FindAll(ctx context.Context) ([]domain.Coupon, error)
	Delete(ctx context.Context, code string) error
}

const maxCodeLength = 40

var hundred = decimal.NewFromInt(100)

// Service valida e administra os cupons de desconto. O consumo de um uso
// acontece na gravação da venda (salerepo).
type Service struct {
	repo   CouponRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Cupons.
func NewService(repo CouponRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ValidateCoupon calcula o desconto de um cupom sobre o subtotal.
// Cupons inexistentes, inativos, expirados ou esgotados devolvem Valid=false
// com o motivo; somente falhas de infraestrutura viram erro.
func (s *Service) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (domain.CouponValidation, error) {
	code = domain.NormalizeCouponCode(code)
	if subtotal.IsNegative() {
		return domain.CouponValidation{}, apperror.NewValidationError("O subtotal não pode ser negativo.")
	}

	result := domain.CouponValidation{
		Code:     code,
		Discount: decimal.Zero,
		Total:    subtotal,
	}
	if code == "" {
		result.Message = "Informe um código de cupom."
		return result, nil
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if apperror.IsNotFound(err) {
		result.Message = "Cupom inválido."
		return result, nil
	}
	if err != nil {
		return domain.CouponValidation{}, err
	}

	if reason := unavailableReason(coupon, time.Now()); reason != "" {
		result.Message = reason
		return result, nil
	}

	result.Valid = true
	result.Discount = subtotal.Mul(coupon.DiscountPercent).Div(hundred).Round(2)
	result.Total = subtotal.Sub(result.Discount)
	result.Message = "Cupom aplicado."
	return result, nil
}

// CreateCoupon valida e persiste um cupom novo.
func (s *Service) CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)
	if coupon.Code == "" || len(coupon.Code) > maxCodeLength {
		return domain.Coupon{}, apperror.NewValidationError("O código do cupom deve ter entre 1 e 40 caracteres.")
	}
	if !coupon.DiscountPercent.IsPositive() || coupon.DiscountPercent.GreaterThan(hundred) {
		return domain.Coupon{}, apperror.NewValidationError("O desconto deve ser maior que 0 e no máximo 100.")
	}
	if coupon.MaxUses != nil && *coupon.MaxUses <= 0 {
		return domain.Coupon{}, apperror.NewValidationError("O limite de usos deve ser positivo.")
	}
	return s.repo.Save(ctx, coupon)
}

// ListCoupons lista todos os cupons.
func (s *Service) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.FindAll(ctx)
}

// DeleteCoupon remove um cupom pelo código.
func (s *Service) DeleteCoupon(ctx context.Context, code string) error {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return apperror.NewValidationError("O código do cupom é obrigatório.")
	}
	return s.repo.Delete(ctx, code)
}

func unavailableReason(c domain.Coupon, now time.Time) string {
	switch {
	case !c.Active:
		return "Cupom inativo."
	case c.ExpiresAt != nil && !now.Before(*c.ExpiresAt):
		return "Cupom expirado."
	case c.MaxUses != nil && c.Uses >= *c.MaxUses:
		return "Cupom esgotado."
	}
	return ""
}
