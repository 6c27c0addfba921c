package stock

import (
	"context"
	"encoding/json"
	"net/http"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, lines []domain.OrderLine) (domain.AdjustmentResult, error)
	ListAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.StockAdjustmentRecord, error)
}

// Observer recebe o desfecho dos ajustes (métricas).
type Observer interface {
	ObserveStockAdjustment(status string, variantUpdates int)
}

// AdjustRequest é o payload de POST /v1/stock/adjust. Cada linha chega bruta:
// as que não convertem em OrderLine são descartadas em silêncio.
type AdjustRequest struct {
	Items []json.RawMessage `json:"items" swaggertype:"array,object"`
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
	metrics Observer
}

// NewHandler cria uma nova instância do Handler. metrics pode ser nil.
func NewHandler(svc StockService, log logger.Logger, metrics Observer) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		metrics: metrics,
	}
}

// AdjustStockHandler lida com a requisição POST /v1/stock/adjust.
// @Summary Dá baixa manual no estoque
// @Description Aplica as linhas (produto, índice do sabor, quantidade) sem registrar venda. Linhas inválidas são ignoradas. Conflito de versão com outra gravação devolve 409.
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param adjustment body AdjustRequest true "Linhas a descontar"
// @Success 200 {object} domain.AdjustmentResult
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /stock/adjust [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	result, err := h.Service.AdjustStock(r.Context(), domain.FilterOrderLines(response.DecodeItems[domain.OrderLine](req.Items)))
	if h.metrics != nil {
		if err != nil {
			h.metrics.ObserveStockAdjustment("error", 0)
		} else {
			h.metrics.ObserveStockAdjustment(string(result.Status), result.UpdatesApplied)
		}
	}
	response.Handle(w, r, h.Logger, result, err, http.StatusOK)
}

// ListAdjustmentsHandler lida com a requisição GET /v1/stock/adjustments.
// @Summary Lista a trilha de auditoria do estoque
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param product_id query int false "Filtra por produto"
// @Param limit query int false "Máximo de registros (padrão 50, máximo 500)"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} domain.StockAdjustmentRecord
// @Failure 400 {object} domain.ErrorResponse
// @Router /stock/adjustments [get]
func (h *Handler) ListAdjustmentsHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := response.QueryInt64Ptr(r, "product_id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
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

	records, err := h.Service.ListAdjustments(r.Context(), domain.AdjustmentFilter{
		ProductID: productID,
		Limit:     limit,
		Offset:    offset,
	})
	response.Handle(w, r, h.Logger, records, err, http.StatusOK)
}
