package coupon

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/validation"
)

type CouponService interface {
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (domain.CouponValidation, error)
	CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	DeleteCoupon(ctx context.Context, code string) error
}

// ValidateRequest é o payload de POST /v1/coupons/validate.
type ValidateRequest struct {
	Code     string          `json:"code" validate:"required,max=40"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"gte=0"`
}

type Handler struct {
	Service CouponService
	Logger  logger.Logger
}

func NewHandler(svc CouponService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ValidateCouponHandler lida com a requisição POST /v1/coupons/validate.
// @Summary Valida um cupom sobre o subtotal do carrinho
// @Description Cupom inexistente, inativo, expirado ou esgotado volta com valid=false e o motivo em message.
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Código e subtotal"
// @Success 200 {object} domain.CouponValidation
// @Failure 400 {object} domain.ErrorResponse
// @Router /coupons/validate [post]
func (h *Handler) ValidateCouponHandler(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if err := validation.Struct(req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	result, err := h.Service.ValidateCoupon(r.Context(), req.Code, req.Subtotal)
	response.Handle(w, r, h.Logger, result, err, http.StatusOK)
}

// ListCouponsHandler lida com a requisição GET /v1/coupons.
// @Summary Lista os cupons
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Coupon
// @Router /coupons [get]
func (h *Handler) ListCouponsHandler(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Service.ListCoupons(r.Context())
	response.Handle(w, r, h.Logger, coupons, err, http.StatusOK)
}

// CreateCouponHandler lida com a requisição POST /v1/coupons.
// @Summary Cria um cupom
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param coupon body domain.Coupon true "Cupom"
// @Success 201 {object} domain.Coupon
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /coupons [post]
func (h *Handler) CreateCouponHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Coupon
	if err := response.Decode(w, r, &c); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	created, err := h.Service.CreateCoupon(r.Context(), c)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// DeleteCouponHandler lida com a requisição DELETE /v1/coupons/{code}.
// @Summary Remove um cupom
// @Tags coupons
// @Security BearerAuth
// @Param code path string true "Código do cupom"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /coupons/{code} [delete]
func (h *Handler) DeleteCouponHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteCoupon(r.Context(), r.PathValue("code"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
