package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
)

func TestNormalizeVariants_StablePartition(t *testing.T) {
	in := []domain.Variant{
		{Name: "Morango", Quantity: 0},
		{Name: "Chocolate", Quantity: 3},
		{Name: "Limão", Quantity: -2},
		{Name: "Coco", Quantity: 1},
		{Name: "Uva", Quantity: 0},
	}

	out := domain.NormalizeVariants(in)

	names := make([]string, len(out))
	for i, v := range out {
		names[i] = v.Name
	}
	assert.Equal(t, []string{"Chocolate", "Coco", "Morango", "Limão", "Uva"}, names)
	assert.Equal(t, 0, out[3].Quantity, "quantidade negativa deve ser limitada a zero")
	assert.Equal(t, -2, in[2].Quantity, "a entrada não deve ser alterada")
}

func TestProductNormalized_KeepsStoredIndex(t *testing.T) {
	p := domain.Product{ID: 1, Variants: []domain.Variant{
		{Name: "Morango", Quantity: 0},
		{Name: "Chocolate", Quantity: 3},
	}}

	n := p.Normalized()

	assert.Equal(t, "Chocolate", n.Variants[0].Name)
	assert.Equal(t, 1, n.Variants[0].Index)
	assert.Equal(t, 0, n.Variants[1].Index)
	assert.Equal(t, "Morango", p.Variants[0].Name, "o original não deve ser reordenado")
}

func TestNormalizeVariants_Empty(t *testing.T) {
	assert.Empty(t, domain.NormalizeVariants(nil))
}

func TestProductClone_DoesNotShareVariants(t *testing.T) {
	p := domain.Product{ID: 1, Variants: []domain.Variant{{Name: "Morango", Quantity: 5}}}

	c := p.Clone()
	c.Variants[0].Quantity = 1

	assert.Equal(t, 5, p.Variants[0].Quantity)
}

func TestProductValidate(t *testing.T) {
	ok := domain.Product{Title: "Brigadeiro", Price: decimal.NewFromInt(5), Variants: []domain.Variant{{Name: "Tradicional"}}}
	assert.NoError(t, ok.Validate())

	noTitle := ok
	noTitle.Title = "  "
	assert.IsType(t, &apperror.ValidationError{}, noTitle.Validate())

	negative := ok
	negative.Price = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())

	unnamed := ok
	unnamed.Variants = []domain.Variant{{Name: ""}}
	assert.Contains(t, unnamed.Validate().Error(), "Sabor 1")

	badStatus := ok
	badStatus.Status = "archived"
	assert.Error(t, badStatus.Validate())
}

func TestFilterOrderLines_DropsInvalidLines(t *testing.T) {
	lines := []domain.OrderLine{
		{ProductID: 1, VariantIndex: 0, Quantity: 2},
		{ProductID: 1, VariantIndex: -1, Quantity: 2},
		{ProductID: 2, VariantIndex: 1, Quantity: 0},
		{ProductID: 3, VariantIndex: 0, Quantity: -4},
		{ProductID: 4, VariantIndex: 2, Quantity: 1},
	}

	valid := domain.FilterOrderLines(lines)

	assert.Equal(t, []domain.OrderLine{
		{ProductID: 1, VariantIndex: 0, Quantity: 2},
		{ProductID: 4, VariantIndex: 2, Quantity: 1},
	}, valid)
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "DOCE10", domain.NormalizeCouponCode("  doce10 "))
}
