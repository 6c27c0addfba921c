package categoryservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/service/categoryservice"
)

// MockCategoryRepository é uma implementação mock da interface CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Testes para CreateCategory ---

func TestCreateCategory_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, logger.NewNop())

	expected := domain.Category{Name: "Doces Finos", Slug: "doces-finos", DisplayOrder: 2}
	mockRepo.On("Create", mock.Anything, expected).Return(domain.Category{ID: 1, Name: "Doces Finos", Slug: "doces-finos", DisplayOrder: 2}, nil)

	created, err := svc.CreateCategory(context.Background(), domain.Category{Name: "  Doces   Finos ", DisplayOrder: 2})

	require.NoError(t, err)
	assert.EqualValues(t, 1, created.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateCategory_Fail_InvalidName(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, logger.NewNop())

	for _, name := range []string{"", "  ", "A", "!!"} {
		_, err := svc.CreateCategory(context.Background(), domain.Category{Name: name})
		assert.IsType(t, &apperror.ValidationError{}, err, name)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCategory_Fail_DuplicateSlug(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(domain.Category{}, apperror.NewConflictError("Já existe uma categoria com o slug 'bolos'."))

	_, err := svc.CreateCategory(context.Background(), domain.Category{Name: "Bolos"})

	assert.True(t, apperror.IsConflict(err))
}

// --- Testes para Get/Update/Delete ---

func TestGetCategoryByID_InvalidID(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, logger.NewNop())

	_, err := svc.GetCategoryByID(context.Background(), 0)

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestUpdateCategory_RecomputesSlug(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Category) bool {
		return c.ID == 5 && c.Slug == "paes-de-mel"
	})).Return(domain.Category{ID: 5, Name: "Pães de Mel", Slug: "paes-de-mel"}, nil)

	updated, err := svc.UpdateCategory(context.Background(), domain.Category{ID: 5, Name: "Pães de Mel"})

	require.NoError(t, err)
	assert.Equal(t, "paes-de-mel", updated.Slug)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := categoryservice.NewService(mockRepo, logger.NewNop())

	mockRepo.On("Delete", mock.Anything, int64(8)).Return(apperror.NewNotFoundError("Categoria com ID 8 não encontrada para exclusão."))

	err := svc.DeleteCategory(context.Background(), 8)

	assert.True(t, apperror.IsNotFound(err))
}
