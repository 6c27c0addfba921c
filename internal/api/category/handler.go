package category

import (
	"context"
	"net/http"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	"saborstock/internal/pkg/fallback"
	"saborstock/internal/pkg/logger"
)

// CategoryService define o contrato que o Handler espera da camada de Serviço.
type CategoryService interface {
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type FallbackObserver interface {
	ObserveFallback(resource string)
}

// CategoryRequest é o payload de criação/atualização.
type CategoryRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// Handler agrupa todos os métodos de Handler de categoria.
type Handler struct {
	Service CategoryService
	Logger  logger.Logger
	metrics FallbackObserver
}

func NewHandler(svc CategoryService, log logger.Logger, metrics FallbackObserver) *Handler {
	return &Handler{Service: svc, Logger: log, metrics: metrics}
}

// ListCategoriesHandler lida com a requisição GET /v1/categories.
// @Summary Lista as categorias
// @Description Em falha do banco devolve as categorias de exemplo com o header X-Data-Source: fallback.
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		h.Logger.Error("Falha ao listar categorias; servindo exemplos.", err)
		if h.metrics != nil {
			h.metrics.ObserveFallback("categories")
		}
		w.Header().Set(fallback.HeaderDataSource, fallback.SourceFallback)
		response.JSON(w, h.Logger, http.StatusOK, fallback.Categories())
		return
	}
	response.Handle(w, r, h.Logger, categories, nil, http.StatusOK)
}

// GetCategoryHandler lida com a requisição GET /v1/categories/{id}.
// @Summary Busca uma categoria pelo ID
// @Tags categories
// @Produce json
// @Param id path int true "ID da categoria"
// @Success 200 {object} domain.Category
// @Failure 404 {object} domain.ErrorResponse
// @Router /categories/{id} [get]
func (h *Handler) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	category, err := h.Service.GetCategoryByID(r.Context(), id)
	response.Handle(w, r, h.Logger, category, err, http.StatusOK)
}

// CreateCategoryHandler lida com a requisição POST /v1/categories.
// @Summary Cria uma categoria
// @Description O slug é gerado a partir do nome (minúsculas, sem acentos).
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Nome (2 a 80 caracteres) e ordem de exibição"
// @Success 201 {object} domain.Category
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Slug já existe"
// @Router /categories [post]
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	created, err := h.Service.CreateCategory(r.Context(), domain.Category{Name: req.Name, DisplayOrder: req.DisplayOrder})
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// UpdateCategoryHandler lida com a requisição PUT /v1/categories/{id}.
// @Summary Atualiza uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da categoria"
// @Param category body CategoryRequest true "Novos dados"
// @Success 200 {object} domain.Category
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /categories/{id} [put]
func (h *Handler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	var req CategoryRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	updated, err := h.Service.UpdateCategory(r.Context(), domain.Category{ID: id, Name: req.Name, DisplayOrder: req.DisplayOrder})
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteCategoryHandler lida com a requisição DELETE /v1/categories/{id}.
// @Summary Remove uma categoria
// @Tags categories
// @Security BearerAuth
// @Param id path int true "ID da categoria"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	err = h.Service.DeleteCategory(r.Context(), id)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
