// Package fallback guarda o catálogo de exemplo servido quando o banco
// está indisponível, para que a vitrine nunca apareça vazia.
package fallback

import (
	"time"

	"github.com/shopspring/decimal"

	"saborstock/internal/domain"
)

// HeaderDataSource marca respostas montadas a partir dos dados de exemplo.
const (
	HeaderDataSource = "X-Data-Source"
	SourceFallback   = "fallback"
)

var sampleDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func int64p(v int64) *int64 { return &v }

var categories = []domain.Category{
	{ID: 1, Name: "Trufas", Slug: "trufas", DisplayOrder: 1},
	{ID: 2, Name: "Bolos de Pote", Slug: "bolos-de-pote", DisplayOrder: 2},
	{ID: 3, Name: "Brigadeiros", Slug: "brigadeiros", DisplayOrder: 3},
}

var products = []domain.Product{
	{
		ID: 1, Title: "Trufa Tradicional", CategoryID: int64p(1),
		Price:       decimal.RequireFromString("6.50"),
		Description: "Trufa de chocolate ao leite com recheio cremoso.",
		Status:      domain.ProductActive, DisplayOrder: 1,
		Variants: []domain.Variant{
			{Name: "Maracujá", Quantity: 12},
			{Name: "Morango", Quantity: 8},
			{Name: "Limão", Quantity: 0},
		},
	},
	{
		ID: 2, Title: "Bolo de Pote", CategoryID: int64p(2),
		Price:       decimal.RequireFromString("14.00"),
		Description: "Bolo em camadas servido no pote de 250 ml.",
		Status:      domain.ProductActive, DisplayOrder: 2,
		Variants: []domain.Variant{
			{Name: "Ninho com Nutella", Quantity: 5},
			{Name: "Prestígio", Quantity: 3},
		},
	},
	{
		ID: 3, Title: "Brigadeiro Gourmet", CategoryID: int64p(3),
		Price:       decimal.RequireFromString("4.00"),
		Description: "Brigadeiro feito com chocolate belga.",
		Status:      domain.ProductActive, DisplayOrder: 3,
		Variants: []domain.Variant{
			{Name: "Tradicional", Quantity: 30},
			{Name: "Pistache", Quantity: 0},
			{Name: "Café", Quantity: 10},
		},
	},
}

// Categories devolve uma cópia das categorias de exemplo.
func Categories() []domain.Category {
	out := make([]domain.Category, len(categories))
	for i, c := range categories {
		c.CreatedAt, c.UpdatedAt = sampleDate, sampleDate
		out[i] = c
	}
	return out
}

// Products devolve uma cópia do catálogo de exemplo aplicando o filtro.
func Products(filter domain.ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.ActiveOnly && p.Status != domain.ProductActive {
			continue
		}
		p = p.Clone()
		p.CreatedAt, p.UpdatedAt = sampleDate, sampleDate
		out = append(out, p.Normalized())
	}
	return out
}

// Product busca um produto de exemplo pelo ID.
func Product(id int64) (domain.Product, bool) {
	for _, p := range Products(domain.ProductFilter{}) {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
