package stock_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"saborstock/internal/api/stock"
	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) AdjustStock(ctx context.Context, lines []domain.OrderLine) (domain.AdjustmentResult, error) {
	args := m.Called(ctx, lines)
	return args.Get(0).(domain.AdjustmentResult), args.Error(1)
}

func (m *MockStockService) ListAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.StockAdjustmentRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.StockAdjustmentRecord), args.Error(1)
}

type recorder struct{ statuses []string }

func (r *recorder) ObserveStockAdjustment(status string, _ int) { r.statuses = append(r.statuses, status) }

func TestAdjustStockHandler_FiltersInvalidLines(t *testing.T) {
	svc := new(MockStockService)
	obs := &recorder{}
	h := stock.NewHandler(svc, logger.NewNop(), obs)

	svc.On("AdjustStock", mock.Anything, []domain.OrderLine{{ProductID: 1, VariantIndex: 0, Quantity: 2}}).
		Return(domain.AdjustmentResult{Success: true, Status: domain.StatusUpdated, UpdatesApplied: 1}, nil)

	body := `{"items":[{"product_id":1,"variant_index":0,"quantity":2},{"product_id":1,"variant_index":-1,"quantity":2},{"product_id":1,"variant_index":0,"quantity":0}]}`
	rec := httptest.NewRecorder()
	h.AdjustStockHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/stock/adjust", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"updated"`)
	assert.Equal(t, []string{"updated"}, obs.statuses)
	svc.AssertExpectations(t)
}

func TestAdjustStockHandler_Conflict(t *testing.T) {
	svc := new(MockStockService)
	obs := &recorder{}
	h := stock.NewHandler(svc, logger.NewNop(), obs)

	svc.On("AdjustStock", mock.Anything, mock.Anything).
		Return(domain.AdjustmentResult{}, apperror.NewConflictError("O produto foi modificado por outra operação."))

	rec := httptest.NewRecorder()
	h.AdjustStockHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/stock/adjust",
		strings.NewReader(`{"items":[{"product_id":1,"variant_index":0,"quantity":1}]}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{"error"}, obs.statuses)
}

func TestListAdjustmentsHandler(t *testing.T) {
	svc := new(MockStockService)
	h := stock.NewHandler(svc, logger.NewNop(), nil)
	pid := int64(5)

	svc.On("ListAdjustments", mock.Anything, domain.AdjustmentFilter{ProductID: &pid, Limit: 5}).
		Return([]domain.StockAdjustmentRecord{{ProductID: 5, QuantityBefore: 3, QuantityAfter: 1, QuantityOrdered: 2}}, nil)

	rec := httptest.NewRecorder()
	h.ListAdjustmentsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/stock/adjustments?product_id=5&limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity_after":1`)
}

func TestAdjustStockHandler_DropsNonIntegerLines(t *testing.T) {
	svc := new(MockStockService)
	h := stock.NewHandler(svc, logger.NewNop(), nil)

	svc.On("AdjustStock", mock.Anything, []domain.OrderLine{{ProductID: 1, VariantIndex: 0, Quantity: 3}}).
		Return(domain.AdjustmentResult{Success: true, Status: domain.StatusUpdated, UpdatesApplied: 1}, nil)

	body := `{"items":[
		{"product_id":1,"variant_index":0,"quantity":2.5},
		{"product_id":1,"variant_index":0,"quantity":"3"},
		{"product_id":1,"variant_index":0,"quantity":3}
	]}`
	rec := httptest.NewRecorder()
	h.AdjustStockHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/stock/adjust", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAdjustStockHandler_AllLinesMalformed(t *testing.T) {
	svc := new(MockStockService)
	h := stock.NewHandler(svc, logger.NewNop(), nil)

	svc.On("AdjustStock", mock.Anything, []domain.OrderLine{}).
		Return(domain.AdjustmentResult{Success: true, Status: domain.StatusNothingToDo}, nil)

	rec := httptest.NewRecorder()
	h.AdjustStockHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/stock/adjust",
		strings.NewReader(`{"items":[{"product_id":"x","variant_index":0,"quantity":1.2}]}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"nothing_to_do"`)
}
