package stockservice

import (
	"context"
	"time"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

// ProductStore é o que o ajuste de estoque precisa dos produtos:
// leitura em lote e gravação em lote (upsert do registro completo).
type ProductStore interface {
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	UpsertMany(ctx context.Context, products []domain.Product) error
}

// AuditStore é a trilha de auditoria dos ajustes.
type AuditStore interface {
	AppendAdjustments(ctx context.Context, records []domain.StockAdjustmentRecord) error
	ListAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.StockAdjustmentRecord, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Service aplica a baixa de estoque dos pedidos.
type Service struct {
	products ProductStore
	audit    AuditStore
	logger   logger.Logger
	now      func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(products ProductStore, audit AuditStore, logger logger.Logger) *Service {
	return &Service{
		products: products,
		audit:    audit,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AdjustStock desconta as quantidades pedidas dos sabores referenciados.
//
// Lê todos os produtos de uma vez, calcula as novas quantidades numa cópia
// local e grava apenas os produtos alterados num único upsert. A trilha de
// auditoria é gravada depois, à parte: sua falha fica em AuditError e não
// altera o resultado. Erros de leitura ou de gravação dos produtos são
// devolvidos ao chamador sem alteração parcial.
//
// Linhas com produto desconhecido ou índice de sabor fora do intervalo são
// ignoradas. As linhas devem chegar já validadas (ver domain.FilterOrderLines).
func (s *Service) AdjustStock(ctx context.Context, lines []domain.OrderLine) (domain.AdjustmentResult, error) {
	if len(lines) == 0 {
		return domain.AdjustmentResult{
			Success: true,
			Status:  domain.StatusNothingToDo,
			Message: "Nenhum item para ajustar.",
		}, nil
	}

	ids := distinctProductIDs(lines)
	snapshot, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Falha ao carregar produtos para ajuste de estoque.", err)
		return domain.AdjustmentResult{}, err
	}
	if len(snapshot) == 0 {
		s.logger.Info("Nenhum produto encontrado para ajuste de estoque.", map[string]interface{}{"product_ids": ids})
		return domain.AdjustmentResult{
			Success: true,
			Status:  domain.StatusNoMatchingProducts,
			Message: "Nenhum produto correspondente encontrado.",
		}, nil
	}

	working := make(map[int64]*domain.Product, len(snapshot))
	for _, p := range snapshot {
		c := p.Clone()
		working[c.ID] = &c
	}

	var (
		updates      []domain.StockAdjustmentRecord
		changedOrder []int64
		changed      = make(map[int64]bool)
		now          = s.now()
	)
	for _, line := range lines {
		p, ok := working[line.ProductID]
		if !ok || line.VariantIndex < 0 || line.VariantIndex >= len(p.Variants) {
			continue
		}
		v := &p.Variants[line.VariantIndex]
		current := v.Quantity
		next := current - line.Quantity
		if next < 0 {
			next = 0
		}
		if next == current {
			continue
		}
		v.Quantity = next
		updates = append(updates, domain.StockAdjustmentRecord{
			ProductID:       p.ID,
			VariantIndex:    line.VariantIndex,
			VariantName:     v.Name,
			ProductTitle:    p.Title,
			QuantityBefore:  current,
			QuantityAfter:   next,
			QuantityOrdered: line.Quantity,
			CreatedAt:       now,
		})
		if !changed[p.ID] {
			changed[p.ID] = true
			changedOrder = append(changedOrder, p.ID)
		}
	}

	if len(updates) == 0 {
		return domain.AdjustmentResult{
			Success: true,
			Status:  domain.StatusNoUpdatesNecessary,
			Message: "Nenhuma atualização de estoque necessária.",
		}, nil
	}

	toWrite := make([]domain.Product, 0, len(changedOrder))
	for _, id := range changedOrder {
		toWrite = append(toWrite, *working[id])
	}
	if err := s.products.UpsertMany(ctx, toWrite); err != nil {
		s.logger.Error("Falha ao gravar estoque atualizado.", err)
		return domain.AdjustmentResult{}, err
	}

	result := domain.AdjustmentResult{
		Success:         true,
		Status:          domain.StatusUpdated,
		Message:         "Estoque atualizado.",
		UpdatesApplied:  len(updates),
		ProductsWritten: len(toWrite),
		Updates:         updates,
	}

	if err := s.audit.AppendAdjustments(ctx, updates); err != nil {
		s.logger.Error("Falha ao gravar trilha de auditoria; estoque já atualizado.", err)
		result.AuditError = err.Error()
	}

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"updates_applied":  result.UpdatesApplied,
		"products_written": result.ProductsWritten,
	})
	return result, nil
}

// ListAdjustments devolve a trilha de auditoria paginada.
func (s *Service) ListAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.StockAdjustmentRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		return nil, apperror.NewValidationError("O offset não pode ser negativo.")
	}
	return s.audit.ListAdjustments(ctx, filter)
}

func distinctProductIDs(lines []domain.OrderLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
