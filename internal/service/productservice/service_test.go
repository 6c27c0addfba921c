package productservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestListProducts_NormalizesVariants(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())
	filter := domain.ProductFilter{ActiveOnly: true}

	mockRepo.On("FindAll", mock.Anything, filter).Return([]domain.Product{{
		ID: 1, Title: "Bombom",
		Variants: []domain.Variant{{Name: "Uva", Quantity: 0}, {Name: "Coco", Quantity: 2}},
	}}, nil)

	products, err := svc.ListProducts(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Coco", products[0].Variants[0].Name)
	assert.Equal(t, "Uva", products[0].Variants[1].Name)
	mockRepo.AssertExpectations(t)
}

func TestListProducts_PropagatesError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())
	dbErr := apperror.NewDBError("Falha ao listar produtos", errors.New("timeout"))

	mockRepo.On("FindAll", mock.Anything, mock.Anything).Return([]domain.Product(nil), dbErr)

	_, err := svc.ListProducts(context.Background(), domain.ProductFilter{})

	assert.ErrorIs(t, err, dbErr)
}

func TestGetProductByID_InvalidID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.GetProductByID(context.Background(), 0)

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("FindByID", mock.Anything, int64(42)).Return(domain.Product{}, apperror.NewNotFoundError("Produto com ID 42 não existe."))

	_, err := svc.GetProductByID(context.Background(), 42)

	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateProduct_AppliesDefaults(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())

	input := domain.Product{
		Title: "  Trufa   Gourmet ",
		Price: decimal.RequireFromString("7.90"),
		Variants: []domain.Variant{
			{Name: "Maracujá", Quantity: -3},
			{Name: " Limão  Siciliano", Quantity: 4},
		},
	}

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.Title == "Trufa Gourmet" && p.Status == domain.ProductActive &&
			p.Variants[0].Quantity == 0 && p.Variants[1].Name == "Limão Siciliano"
	})).Return(domain.Product{ID: 10, Title: "Trufa Gourmet", Variants: []domain.Variant{
		{Name: "Maracujá", Quantity: 0}, {Name: "Limão Siciliano", Quantity: 4},
	}}, nil)

	created, err := svc.CreateProduct(context.Background(), input)

	require.NoError(t, err)
	assert.EqualValues(t, 10, created.ID)
	assert.Equal(t, "Limão Siciliano", created.Variants[0].Name)
	assert.Equal(t, -3, input.Variants[0].Quantity, "a entrada do chamador não deve ser alterada")
	mockRepo.AssertExpectations(t)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.CreateProduct(context.Background(), domain.Product{Title: ""})

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateProduct_Conflict(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("Update", mock.Anything, mock.Anything).Return(domain.Product{}, apperror.NewConflictError("O produto foi modificado por outra operação."))

	_, err := svc.UpdateProduct(context.Background(), domain.Product{ID: 3, Title: "Bolo", Version: 2})

	assert.True(t, apperror.IsConflict(err))
}

func TestDeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	assert.NoError(t, svc.DeleteProduct(context.Background(), 3))
	assert.Error(t, svc.DeleteProduct(context.Background(), -1))
	mockRepo.AssertExpectations(t)
}
