package productservice

import (
	"context"
	"fmt"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/textnorm"
)

// ProductRepository define o contrato que este Serviço espera da camada de Persistência.
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Service é a camada de negócio do catálogo de produtos.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListProducts devolve o catálogo com os sabores normalizados.
func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Normalized()
	}
	return out, nil
}

// GetProductByID busca um produto e normaliza seus sabores.
func (s *Service) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um inteiro positivo.")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return product.Normalized(), nil
}

// CreateProduct valida e persiste um novo produto.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	product = prepare(product)
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.Save(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("falha ao salvar produto no repositório: %w", err)
	}
	s.logger.Info("Produto criado com sucesso.", map[string]interface{}{"product_id": created.ID, "title": created.Title})
	return created.Normalized(), nil
}

// UpdateProduct substitui o registro do produto. Se Version vier preenchida,
// a gravação falha com ConflictError caso o produto tenha mudado nesse meio tempo.
func (s *Service) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID <= 0 {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um inteiro positivo.")
	}
	product = prepare(product)
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"product_id": updated.ID, "version": updated.Version})
	return updated.Normalized(), nil
}

// DeleteProduct remove um produto.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.NewValidationError("O ID do produto deve ser um inteiro positivo.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Produto removido.", map[string]interface{}{"product_id": id})
	return nil
}

// prepare aplica padrões e limpa espaços antes da validação.
func prepare(p domain.Product) domain.Product {
	p = p.Clone()
	p.Title = textnorm.CollapseSpaces(p.Title)
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	for i := range p.Variants {
		p.Variants[i].Index = i
		p.Variants[i].Name = textnorm.CollapseSpaces(p.Variants[i].Name)
		if p.Variants[i].Quantity < 0 {
			p.Variants[i].Quantity = 0
		}
	}
	if p.Variants == nil {
		p.Variants = []domain.Variant{}
	}
	return p
}
