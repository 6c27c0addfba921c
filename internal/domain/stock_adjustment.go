package domain

import (
	"context"
	"time"

	apperror "saborstock/internal/errors"
)

// OrderLine é um item de pedido: produto, índice do sabor e quantidade.
type OrderLine struct {
	ProductID    int64 `json:"product_id" validate:"required,gt=0"`
	VariantIndex int   `json:"variant_index" validate:"gte=0"`
	Quantity     int   `json:"quantity" validate:"required,gt=0"`
}

// NewOrderLine valida e constrói uma linha de pedido.
func NewOrderLine(productID int64, variantIndex, quantity int) (OrderLine, error) {
	if variantIndex < 0 {
		return OrderLine{}, apperror.NewValidationError("O índice do sabor não pode ser negativo.")
	}
	if quantity <= 0 {
		return OrderLine{}, apperror.NewValidationError("A quantidade deve ser um inteiro positivo.")
	}
	return OrderLine{ProductID: productID, VariantIndex: variantIndex, Quantity: quantity}, nil
}

// FilterOrderLines descarta silenciosamente as linhas que não passam em NewOrderLine.
func FilterOrderLines(lines []OrderLine) []OrderLine {
	valid := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		if ok, err := NewOrderLine(l.ProductID, l.VariantIndex, l.Quantity); err == nil {
			valid = append(valid, ok)
		}
	}
	return valid
}

// StockAdjustmentRecord é a entrada de auditoria de uma mudança de estoque.
// Escrita uma única vez, nunca atualizada.
type StockAdjustmentRecord struct {
	ID              int64     `json:"id,omitempty"`
	ProductID       int64     `json:"product_id"`
	VariantIndex    int       `json:"variant_index"`
	VariantName     string    `json:"variant_name"`
	ProductTitle    string    `json:"product_title"`
	QuantityBefore  int       `json:"quantity_before"`
	QuantityAfter   int       `json:"quantity_after"`
	QuantityOrdered int       `json:"quantity_ordered"`
	CreatedAt       time.Time `json:"created_at"`
}

// AdjustmentStatus descreve o desfecho de uma execução do ajuste de estoque.
type AdjustmentStatus string

const (
	StatusNothingToDo        AdjustmentStatus = "nothing_to_do"
	StatusNoMatchingProducts AdjustmentStatus = "no_matching_products"
	StatusNoUpdatesNecessary AdjustmentStatus = "no_updates_necessary"
	StatusUpdated            AdjustmentStatus = "updated"
)

// AdjustmentResult é o resultado de AdjustStock. AuditError carrega a falha
// secundária (trilha de auditoria), que nunca altera Success nem os contadores.
type AdjustmentResult struct {
	Success         bool                    `json:"success"`
	Status          AdjustmentStatus        `json:"status"`
	Message         string                  `json:"message"`
	UpdatesApplied  int                     `json:"updates_applied"`
	ProductsWritten int                     `json:"products_written"`
	Updates         []StockAdjustmentRecord `json:"updates,omitempty"`
	AuditError      string                  `json:"audit_error,omitempty"`
}

// AdjustmentFilter filtra a listagem da trilha de auditoria.
type AdjustmentFilter struct {
	ProductID *int64
	Limit     int
	Offset    int
}

// StockAdjustmentRepository é o contrato da trilha de auditoria.
type StockAdjustmentRepository interface {
	AppendAdjustments(ctx context.Context, records []StockAdjustmentRecord) error
	ListAdjustments(ctx context.Context, filter AdjustmentFilter) ([]StockAdjustmentRecord, error)
}
