package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem é um item vendido, com o preço unitário do momento da compra.
type SaleItem struct {
	ProductID    int64           `json:"product_id" validate:"required,gt=0"`
	VariantIndex int             `json:"variant_index" validate:"gte=0"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ProductTitle string          `json:"product_title,omitempty"`
	VariantName  string          `json:"variant_name,omitempty"`
}

// Line converte o item em linha de ajuste de estoque.
func (i SaleItem) Line() OrderLine {
	return OrderLine{ProductID: i.ProductID, VariantIndex: i.VariantIndex, Quantity: i.Quantity}
}

// Sale é o registro do histórico de vendas.
type Sale struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         []SaleItem      `json:"items"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderRequest é o payload de POST /v1/orders.
type OrderRequest struct {
	CustomerName  string     `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string     `json:"customer_phone" validate:"max=40"`
	CouponCode    string     `json:"coupon_code" validate:"max=40"`
	Items         []SaleItem `json:"items" validate:"required,min=1"`
}

// OrderResponse é a resposta de POST /v1/orders. StockReviewRequired sinaliza
// que a baixa de estoque falhou e precisa de revisão manual.
type OrderResponse struct {
	Success             bool              `json:"success"`
	Sale                Sale              `json:"sale"`
	Stock               *AdjustmentResult `json:"stock,omitempty"`
	StockReviewRequired bool              `json:"stock_review_required"`
	Message             string            `json:"message"`
}

// SaleFilter pagina o histórico de vendas.
type SaleFilter struct {
	Limit  int
	Offset int
}

// SaleRepository define o contrato de persistência do histórico de vendas.
// Save consome um uso de CouponCode na mesma transação da venda.
type SaleRepository interface {
	Save(ctx context.Context, sale Sale) (Sale, error)
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, error)
}
