package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperror "saborstock/internal/errors"
)

// ProductStatus indica se o produto aparece no catálogo público.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product representa o item principal do catálogo (a Entidade).
// As variantes ("sabores") ficam embutidas no próprio registro.
type Product struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Status       ProductStatus   `json:"status"`
	DisplayOrder int             `json:"display_order"`
	Variants     []Variant       `json:"sabores"`
	Version      int             `json:"version"` // Para Controle de Concorrência Otimista (OCC)
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Variant representa um sabor do produto, com estoque próprio.
// Index é a posição do sabor no registro gravado, preenchida por Normalized;
// é o valor que os pedidos enviam em variant_index.
type Variant struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

// Validate aplica as regras de negócio de criação/atualização.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return apperror.NewValidationError("O título do produto é obrigatório.")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidationError("O preço do produto não pode ser negativo.")
	}
	if p.Status != "" && p.Status != ProductActive && p.Status != ProductInactive {
		return apperror.NewValidationError(fmt.Sprintf("Status inválido: %s.", p.Status))
	}
	for i, v := range p.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return apperror.NewValidationError(fmt.Sprintf("Sabor %d requer um nome.", i+1))
		}
	}
	return nil
}

// Clone devolve uma cópia profunda, com fatia de variantes própria.
func (p Product) Clone() Product {
	c := p
	if p.Variants != nil {
		c.Variants = make([]Variant, len(p.Variants))
		copy(c.Variants, p.Variants)
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		c.CategoryID = &id
	}
	return c
}

// NormalizeVariants limita as quantidades a >= 0 e move os sabores esgotados
// para o fim, preservando a ordem relativa de cada grupo (partição estável).
func NormalizeVariants(variants []Variant) []Variant {
	out := make([]Variant, 0, len(variants))
	soldOut := make([]Variant, 0)
	for _, v := range variants {
		if v.Quantity < 0 {
			v.Quantity = 0
		}
		if v.Quantity > 0 {
			out = append(out, v)
		} else {
			soldOut = append(soldOut, v)
		}
	}
	return append(out, soldOut...)
}

// Normalized devolve o produto com os sabores normalizados. Deve ser aplicado
// sobre o registro na ordem gravada, pois numera Index antes de reordenar.
func (p Product) Normalized() Product {
	c := p.Clone()
	for i := range c.Variants {
		c.Variants[i].Index = i
	}
	c.Variants = NormalizeVariants(c.Variants)
	return c
}

// ProductFilter define os parâmetros de busca do catálogo.
type ProductFilter struct {
	CategoryID *int64
	ActiveOnly bool
}

// CacheKey identifica o filtro nas chaves de cache da listagem.
func (f ProductFilter) CacheKey() string {
	cat := "all"
	if f.CategoryID != nil {
		cat = fmt.Sprintf("%d", *f.CategoryID)
	}
	return fmt.Sprintf("%s:%t", cat, f.ActiveOnly)
}

// ProductRepository é o contrato de persistência de produtos.
type ProductRepository interface {
	Save(ctx context.Context, product Product) (Product, error)
	FindByID(ctx context.Context, id int64) (Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	UpsertMany(ctx context.Context, products []Product) error
	Delete(ctx context.Context, id int64) error
}
