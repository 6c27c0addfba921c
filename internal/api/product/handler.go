package product

import (
	"context"
	"net/http"

	"saborstock/internal/api/response"
	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/fallback"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/middleware"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// FallbackObserver conta as respostas servidas com o catálogo de exemplo.
type FallbackObserver interface {
	ObserveFallback(resource string)
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
	metrics FallbackObserver
}

// NewHandler cria uma nova instância do Handler. metrics pode ser nil.
func NewHandler(svc ProductService, log logger.Logger, metrics FallbackObserver) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
		metrics: metrics,
	}
}

// ListProductsHandler lida com a requisição GET /v1/products.
// @Summary Lista o catálogo público
// @Description Produtos ativos ordenados para a vitrine, com sabores esgotados no fim. Em falha do banco devolve o catálogo de exemplo com o header X-Data-Source: fallback.
// @Tags products
// @Produce json
// @Param category_id query int false "Filtra pela categoria"
// @Success 200 {array} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Parâmetro inválido"
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := response.QueryInt64Ptr(r, "category_id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	filter := domain.ProductFilter{CategoryID: categoryID, ActiveOnly: true}

	products, err := h.Service.ListProducts(r.Context(), filter)
	if err != nil {
		h.Logger.Error("Falha ao listar produtos; servindo catálogo de exemplo.", err)
		h.serveFallback(w, "products", fallback.Products(filter))
		return
	}
	response.Handle(w, r, h.Logger, products, nil, http.StatusOK)
}

// ListAllProductsHandler lida com a requisição GET /v1/admin/products.
// @Summary Lista todos os produtos (inclui inativos)
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Filtra pela categoria"
// @Success 200 {array} domain.Product
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /admin/products [get]
func (h *Handler) ListAllProductsHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := response.QueryInt64Ptr(r, "category_id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	products, err := h.Service.ListProducts(r.Context(), domain.ProductFilter{CategoryID: categoryID})
	response.Handle(w, r, h.Logger, products, err, http.StatusOK)
}

// GetProductByIDHandler lida com a requisição GET /v1/products/{id}.
// @Summary Busca um produto pelo ID
// @Tags products
// @Produce json
// @Param id path int true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	product, err := h.Service.GetProductByID(r.Context(), id)
	if err != nil && !apperror.IsNotFound(err) {
		if sample, ok := fallback.Product(id); ok {
			h.Logger.Error("Falha ao buscar produto; servindo exemplo.", err)
			h.serveFallback(w, "product", sample)
			return
		}
	}
	response.Handle(w, r, h.Logger, product, err, http.StatusOK)
}

// CreateProductHandler lida com a requisição POST /v1/products.
// @Summary Cria um produto
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body domain.Product true "Produto com seus sabores"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := response.Decode(w, r, &p); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	p.ID = 0

	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Logger.Info("Criação de produto solicitada.", map[string]interface{}{"user_id": claims.UserID, "title": p.Title})
	}

	created, err := h.Service.CreateProduct(r.Context(), p)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// UpdateProductHandler lida com a requisição PUT /v1/products/{id}.
// @Summary Substitui um produto
// @Description Envie version para controle de concorrência: se o produto mudou desde a leitura, a resposta é 409.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do produto"
// @Param product body domain.Product true "Registro completo do produto"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /products/{id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	var p domain.Product
	if err := response.Decode(w, r, &p); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	p.ID = id

	updated, err := h.Service.UpdateProduct(r.Context(), p)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteProductHandler lida com a requisição DELETE /v1/products/{id}.
// @Summary Remove um produto
// @Tags products
// @Security BearerAuth
// @Param id path int true "ID do produto"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	err = h.Service.DeleteProduct(r.Context(), id)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

func (h *Handler) serveFallback(w http.ResponseWriter, resource string, data interface{}) {
	if h.metrics != nil {
		h.metrics.ObserveFallback(resource)
	}
	w.Header().Set(fallback.HeaderDataSource, fallback.SourceFallback)
	response.JSON(w, h.Logger, http.StatusOK, data)
}
