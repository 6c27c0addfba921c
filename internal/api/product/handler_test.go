package product_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saborstock/internal/api/product"
	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/fallback"
	"saborstock/internal/pkg/logger"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type countingObserver struct{ resources []string }

func (c *countingObserver) ObserveFallback(resource string) { c.resources = append(c.resources, resource) }

func serve(h http.HandlerFunc, pattern, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListProducts_OK(t *testing.T) {
	svc := new(MockProductService)
	h := product.NewHandler(svc, logger.NewNop(), nil)
	cat := int64(2)

	svc.On("ListProducts", mock.Anything, domain.ProductFilter{CategoryID: &cat, ActiveOnly: true}).
		Return([]domain.Product{{ID: 7, Title: "Bolo de Pote", Price: decimal.NewFromInt(14)}}, nil)

	rec := serve(h.ListProductsHandler, "GET /v1/products", http.MethodGet, "/v1/products?category_id=2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(fallback.HeaderDataSource))
	var out []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Bolo de Pote", out[0].Title)
}

func TestListProducts_FallbackOnStoreError(t *testing.T) {
	svc := new(MockProductService)
	obs := &countingObserver{}
	h := product.NewHandler(svc, logger.NewNop(), obs)

	svc.On("ListProducts", mock.Anything, mock.Anything).
		Return([]domain.Product(nil), apperror.NewDBError("Falha ao listar produtos", errors.New("connection refused")))

	rec := serve(h.ListProductsHandler, "GET /v1/products", http.MethodGet, "/v1/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fallback.SourceFallback, rec.Header().Get(fallback.HeaderDataSource))
	var out []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, len(fallback.Products(domain.ProductFilter{ActiveOnly: true})))
	assert.Equal(t, []string{"products"}, obs.resources)
}

func TestListProducts_InvalidCategory(t *testing.T) {
	h := product.NewHandler(new(MockProductService), logger.NewNop(), nil)

	rec := serve(h.ListProductsHandler, "GET /v1/products", http.MethodGet, "/v1/products?category_id=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct_NotFoundIsNotMaskedByFallback(t *testing.T) {
	svc := new(MockProductService)
	h := product.NewHandler(svc, logger.NewNop(), nil)

	svc.On("GetProductByID", mock.Anything, int64(1)).Return(domain.Product{}, apperror.NewNotFoundError("Produto com ID 1 não existe."))

	rec := serve(h.GetProductByIDHandler, "GET /v1/products/{id}", http.MethodGet, "/v1/products/1", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Category)
}

func TestGetProduct_FallbackSample(t *testing.T) {
	svc := new(MockProductService)
	h := product.NewHandler(svc, logger.NewNop(), nil)
	dbErr := apperror.NewDBError("Falha ao buscar produto", errors.New("timeout"))

	svc.On("GetProductByID", mock.Anything, int64(1)).Return(domain.Product{}, dbErr)
	svc.On("GetProductByID", mock.Anything, int64(999)).Return(domain.Product{}, dbErr)

	rec := serve(h.GetProductByIDHandler, "GET /v1/products/{id}", http.MethodGet, "/v1/products/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fallback.SourceFallback, rec.Header().Get(fallback.HeaderDataSource))

	rec = serve(h.GetProductByIDHandler, "GET /v1/products/{id}", http.MethodGet, "/v1/products/999", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "timeout", "detalhes do banco não vazam")
}

func TestCreateProduct(t *testing.T) {
	svc := new(MockProductService)
	h := product.NewHandler(svc, logger.NewNop(), nil)

	svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.ID == 0 && p.Title == "Trufa" && len(p.Variants) == 1 && p.Price.Equal(decimal.RequireFromString("6.5"))
	})).Return(domain.Product{ID: 11, Title: "Trufa"}, nil)

	body := `{"id": 99, "title": "Trufa", "price": "6.50", "sabores": [{"name": "Coco", "quantity": 4}]}`
	rec := serve(h.CreateProductHandler, "POST /v1/products", http.MethodPost, "/v1/products", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateProduct_BadJSON(t *testing.T) {
	h := product.NewHandler(new(MockProductService), logger.NewNop(), nil)

	rec := serve(h.CreateProductHandler, "POST /v1/products", http.MethodPost, "/v1/products", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct_Conflict(t *testing.T) {
	svc := new(MockProductService)
	h := product.NewHandler(svc, logger.NewNop(), nil)

	svc.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p domain.Product) bool { return p.ID == 4 && p.Version == 2 })).
		Return(domain.Product{}, apperror.NewConflictError("O produto foi modificado por outra operação."))

	rec := serve(h.UpdateProductHandler, "PUT /v1/products/{id}", http.MethodPut, "/v1/products/4", `{"title":"Bolo","version":2}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	svc := new(MockProductService)
	h := product.NewHandler(svc, logger.NewNop(), nil)

	svc.On("DeleteProduct", mock.Anything, int64(4)).Return(nil)

	rec := serve(h.DeleteProductHandler, "DELETE /v1/products/{id}", http.MethodDelete, "/v1/products/4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(h.DeleteProductHandler, "DELETE /v1/products/{id}", http.MethodDelete, "/v1/products/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
