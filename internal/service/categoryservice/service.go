package categoryservice

import (
	"context"
	"unicode/utf8"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/textnorm"
)

// CategoryRepository define o contrato que o Serviço de Categorias espera da camada de Persistência.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	GetAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// Service implementa as regras de negócio de categorias.
type Service struct {
	repo   CategoryRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Categorias.
func NewService(repo CategoryRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCategory cria uma nova categoria após validações de negócio.
func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	category, err := s.prepare(category)
	if err != nil {
		s.logger.Warn("Falha na validação da categoria.", map[string]interface{}{"name": category.Name, "error": err.Error()})
		return domain.Category{}, err
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return domain.Category{}, err
	}
	return created, nil
}

// GetCategoryByID busca uma categoria pelo ID.
func (s *Service) GetCategoryByID(ctx context.Context, id int64) (domain.Category, error) {
	if id <= 0 {
		return domain.Category{}, apperror.NewValidationError("O ID da categoria deve ser um inteiro positivo.")
	}
	return s.repo.GetByID(ctx, id)
}

// ListCategories busca todas as categorias.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.GetAll(ctx)
}

// UpdateCategory atualiza uma categoria existente.
func (s *Service) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if category.ID <= 0 {
		return domain.Category{}, apperror.NewValidationError("O ID da categoria deve ser um inteiro positivo.")
	}
	category, err := s.prepare(category)
	if err != nil {
		return domain.Category{}, err
	}
	return s.repo.Update(ctx, category)
}

// DeleteCategory remove uma categoria.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("O ID da categoria deve ser um inteiro positivo.")
	}
	return s.repo.Delete(ctx, id)
}

// prepare normaliza o nome, valida e gera o slug.
func (s *Service) prepare(category domain.Category) (domain.Category, error) {
	category.Name = textnorm.CollapseSpaces(category.Name)
	if category.Name == "" {
		return category, apperror.NewValidationError("O nome da categoria não pode ser vazio.")
	}
	if n := utf8.RuneCountInString(category.Name); n < 2 || n > 80 {
		return category, apperror.NewValidationError("O nome da categoria deve ter entre 2 e 80 caracteres.")
	}
	category.Slug = textnorm.Slug(category.Name)
	if category.Slug == "" {
		return category, apperror.NewValidationError("O nome da categoria deve conter letras ou números.")
	}
	return category, nil
}
