package push

import (
	"context"
	"net/http"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/logger"
)

type PushService interface {
	Subscribe(ctx context.Context, sub domain.PushSubscription) (domain.PushSubscription, error)
	Unsubscribe(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]domain.PushSubscription, error)
}

// UnsubscribeRequest é o payload de DELETE /v1/push/subscriptions.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

type Handler struct {
	Service PushService
	Logger  logger.Logger
}

func NewHandler(svc PushService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// SubscribeHandler lida com a requisição POST /v1/push/subscriptions.
// @Summary Inscreve o navegador nas notificações
// @Tags push
// @Accept json
// @Produce json
// @Param subscription body domain.PushSubscription true "Inscrição do PushManager"
// @Success 201 {object} domain.PushSubscription
// @Failure 400 {object} domain.ErrorResponse
// @Router /push/subscriptions [post]
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var sub domain.PushSubscription
	if err := response.Decode(w, r, &sub); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	saved, err := h.Service.Subscribe(r.Context(), sub)
	response.Handle(w, r, h.Logger, saved, err, http.StatusCreated)
}

// UnsubscribeHandler lida com a requisição DELETE /v1/push/subscriptions.
// @Summary Cancela a inscrição do navegador
// @Tags push
// @Accept json
// @Param request body UnsubscribeRequest true "Endpoint a remover"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /push/subscriptions [delete]
func (h *Handler) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req UnsubscribeRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	err := h.Service.Unsubscribe(r.Context(), req.Endpoint)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// ListSubscriptionsHandler lida com a requisição GET /v1/push/subscriptions.
// @Summary Lista as inscrições
// @Tags push
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PushSubscription
// @Router /push/subscriptions [get]
func (h *Handler) ListSubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Service.ListSubscriptions(r.Context())
	response.Handle(w, r, h.Logger, subs, err, http.StatusOK)
}
