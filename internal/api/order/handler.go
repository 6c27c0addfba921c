package order

import (
	"context"
	"encoding/json"
	"net/http"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/logger"
)

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResponse, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
}

// PlaceOrderRequest é o payload de POST /v1/orders. Os itens chegam brutos
// para que uma linha malformada seja descartada sem derrubar o pedido.
type PlaceOrderRequest struct {
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	CouponCode    string            `json:"coupon_code"`
	Items         []json.RawMessage `json:"items" swaggertype:"array,object"`
}

// Handler agrupa os métodos de Handler de pedidos e vendas.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// PlaceOrderHandler lida com a requisição POST /v1/orders.
// @Summary Registra um pedido
// @Description Grava a venda e dá baixa no estoque. Itens malformados são ignorados. Se a baixa falhar o pedido continua registrado e a resposta traz stock_review_required=true.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body domain.OrderRequest true "Cliente, itens e cupom opcional"
// @Success 201 {object} domain.OrderResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /orders [post]
func (h *Handler) PlaceOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	resp, err := h.Service.PlaceOrder(r.Context(), domain.OrderRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CouponCode:    req.CouponCode,
		Items:         response.DecodeItems[domain.SaleItem](req.Items),
	})
	response.Handle(w, r, h.Logger, resp, err, http.StatusCreated)
}

// ListSalesHandler lida com a requisição GET /v1/sales.
// @Summary Histórico de vendas
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Máximo de registros (padrão 50, máximo 500)"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.Sale
// @Failure 400 {object} domain.ErrorResponse
// @Router /sales [get]
func (h *Handler) ListSalesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := response.QueryInt(r, "limit", 0)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	offset, err := response.QueryInt(r, "offset", 0)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	sales, err := h.Service.ListSales(r.Context(), domain.SaleFilter{Limit: limit, Offset: offset})
	response.Handle(w, r, h.Logger, sales, err, http.StatusOK)
}
