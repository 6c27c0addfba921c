package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saborstock/internal/api/order"
	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.OrderResponse), args.Error(1)
}

func (m *MockOrderService) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func TestPlaceOrderHandler_Created(t *testing.T) {
	svc := new(MockOrderService)
	h := order.NewHandler(svc, logger.NewNop())

	svc.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req domain.OrderRequest) bool {
		return req.CustomerName == "Ana" && len(req.Items) == 1 && req.Items[0].VariantIndex == 2
	})).Return(domain.OrderResponse{Success: true, StockReviewRequired: true, Sale: domain.Sale{ID: "v-1"}}, nil)

	body := `{"customer_name":"Ana","items":[{"product_id":3,"variant_index":2,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.PlaceOrderHandler(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var out domain.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.True(t, out.StockReviewRequired)
	assert.Equal(t, "v-1", out.Sale.ID)
}

func TestPlaceOrderHandler_ValidationError(t *testing.T) {
	svc := new(MockOrderService)
	h := order.NewHandler(svc, logger.NewNop())

	svc.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(domain.OrderResponse{}, apperror.NewValidationError("O pedido não contém itens válidos."))

	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{"customer_name":"Ana","items":[]}`))
	rec := httptest.NewRecorder()
	h.PlaceOrderHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Erro de Validação: O pedido não contém itens válidos.", body.Message)
}

func TestListSalesHandler(t *testing.T) {
	svc := new(MockOrderService)
	h := order.NewHandler(svc, logger.NewNop())

	svc.On("ListSales", mock.Anything, domain.SaleFilter{Limit: 10, Offset: 20}).Return([]domain.Sale{{ID: "a"}}, nil)

	rec := httptest.NewRecorder()
	h.ListSalesHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/sales?limit=10&offset=20", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListSalesHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/sales?limit=dez", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNumberOfCalls(t, "ListSales", 1)
}

func TestPlaceOrderHandler_DropsMalformedItems(t *testing.T) {
	svc := new(MockOrderService)
	h := order.NewHandler(svc, logger.NewNop())

	svc.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req domain.OrderRequest) bool {
		return req.CustomerName == "Ana" && req.CouponCode == "DOCE10" &&
			len(req.Items) == 1 && req.Items[0].ProductID == 4 && req.Items[0].Quantity == 3
	})).Return(domain.OrderResponse{Success: true}, nil)

	body := `{"customer_name":"Ana","coupon_code":"DOCE10","items":[
		{"product_id":4,"variant_index":0,"quantity":2.5},
		{"product_id":4,"variant_index":0,"quantity":3}
	]}`
	rec := httptest.NewRecorder()
	h.PlaceOrderHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}
