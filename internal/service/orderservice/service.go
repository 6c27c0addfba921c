package orderservice

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"saborstock/internal/domain"
	apperror "saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/pkg/textnorm"
	"saborstock/internal/pkg/validation"
)

// SaleStore persiste o histórico de vendas. Save consome o uso do cupom da
// venda na mesma transação e devolve domain.ErrCouponUnavailable se ele esgotou.
type SaleStore interface {
	Save(ctx context.Context, sale domain.Sale) (domain.Sale, error)
	FindAll(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
}

// Catalog fornece preço e nomes dos produtos pedidos.
type Catalog interface {
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// Coupons calcula o desconto dos cupons. O uso é consumido por SaleStore.Save.
type Coupons interface {
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (domain.CouponValidation, error)
}

// StockAdjuster dá baixa no estoque dos sabores vendidos.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, lines []domain.OrderLine) (domain.AdjustmentResult, error)
}

// Observer recebe o desfecho de cada ajuste de estoque (métricas).
type Observer interface {
	ObserveStockAdjustment(status string, variantUpdates int)
}

const (
	defaultSalesLimit = 50
	maxSalesLimit     = 500

	// statusError rotula nas métricas os ajustes que falharam.
	statusError = "error"
)

// Service registra pedidos e consulta o histórico de vendas.
type Service struct {
	sales    SaleStore
	catalog  Catalog
	coupons  Coupons
	stock    StockAdjuster
	observer Observer
	logger   logger.Logger
}

// NewService cria o serviço de pedidos. observer pode ser nil.
func NewService(sales SaleStore, catalog Catalog, coupons Coupons, stock StockAdjuster, observer Observer, logger logger.Logger) *Service {
	return &Service{
		sales:    sales,
		catalog:  catalog,
		coupons:  coupons,
		stock:    stock,
		observer: observer,
		logger:   logger,
	}
}

// PlaceOrder registra a venda e em seguida dá baixa no estoque.
//
// Itens que não formam uma linha de pedido válida são descartados sem erro.
// O preço unitário vem do catálogo quando o produto existe. Uma falha na
// baixa de estoque não desfaz a venda: é registrada em log e a resposta
// sai com StockReviewRequired para revisão manual.
func (s *Service) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResponse, error) {
	req.CustomerName = textnorm.CollapseSpaces(req.CustomerName)
	if err := validation.Struct(req); err != nil {
		return domain.OrderResponse{}, err
	}

	items := filterItems(req.Items)
	if len(items) == 0 {
		return domain.OrderResponse{}, apperror.NewValidationError("O pedido não contém itens válidos.")
	}

	items, err := s.price(ctx, items)
	if err != nil {
		return domain.OrderResponse{}, err
	}

	sale := domain.Sale{
		CustomerName:  req.CustomerName,
		CustomerPhone: textnorm.CollapseSpaces(req.CustomerPhone),
		Items:         items,
		Subtotal:      subtotal(items),
		Discount:      decimal.Zero,
	}
	sale.Total = sale.Subtotal

	if code := domain.NormalizeCouponCode(req.CouponCode); code != "" {
		s.applyCoupon(ctx, &sale, code)
	}

	sale, err = s.save(ctx, sale)
	if err != nil {
		return domain.OrderResponse{}, err
	}

	resp := domain.OrderResponse{
		Success: true,
		Sale:    sale,
		Message: "Pedido registrado com sucesso.",
	}

	lines := make([]domain.OrderLine, len(items))
	for i, it := range items {
		lines[i] = it.Line()
	}

	result, err := s.stock.AdjustStock(ctx, lines)
	if err != nil {
		s.logger.Error("Falha na baixa de estoque do pedido; revisão manual necessária.", err)
		s.observe(statusError, 0)
		resp.StockReviewRequired = true
		resp.Message = "Pedido registrado. O estoque precisa de revisão manual."
		return resp, nil
	}
	if result.AuditError != "" {
		s.logger.Warn("Trilha de auditoria do estoque não gravada.", map[string]interface{}{
			"sale_id": sale.ID, "error": result.AuditError,
		})
	}
	s.observe(string(result.Status), result.UpdatesApplied)
	resp.Stock = &result
	return resp, nil
}

// ListSales devolve o histórico paginado, mais recentes primeiro.
func (s *Service) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperror.NewValidationError("limit e offset não podem ser negativos.")
	}
	if filter.Limit == 0 {
		filter.Limit = defaultSalesLimit
	}
	if filter.Limit > maxSalesLimit {
		filter.Limit = maxSalesLimit
	}
	return s.sales.FindAll(ctx, filter)
}

func (s *Service) applyCoupon(ctx context.Context, sale *domain.Sale, code string) {
	check, err := s.coupons.ValidateCoupon(ctx, code, sale.Subtotal)
	if err != nil {
		s.logger.Error("Falha ao validar cupom do pedido; seguindo sem desconto.", err)
		return
	}
	if !check.Valid {
		s.logger.Info("Cupom recusado no pedido.", map[string]interface{}{"code": code, "reason": check.Message})
		return
	}
	sale.CouponCode = check.Code
	sale.Discount = check.Discount
	sale.Total = check.Total
}

// save grava a venda. Se o cupom esgotou entre a validação e a gravação, a
// venda é gravada de novo sem desconto.
func (s *Service) save(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	saved, err := s.sales.Save(ctx, sale)
	if err == nil || sale.CouponCode == "" || !errors.Is(err, domain.ErrCouponUnavailable) {
		return saved, err
	}
	s.logger.Warn("Cupom esgotou antes da gravação; seguindo sem desconto.", map[string]interface{}{"code": sale.CouponCode})
	sale.CouponCode = ""
	sale.Discount = decimal.Zero
	sale.Total = sale.Subtotal
	return s.sales.Save(ctx, sale)
}

// price preenche preço, título e nome do sabor a partir do catálogo.
func (s *Service) price(ctx context.Context, items []domain.SaleItem) ([]domain.SaleItem, error) {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			if items[i].UnitPrice.IsNegative() {
				items[i].UnitPrice = decimal.Zero
			}
			continue
		}
		items[i].UnitPrice = p.Price
		items[i].ProductTitle = p.Title
		if items[i].VariantIndex < len(p.Variants) {
			items[i].VariantName = p.Variants[items[i].VariantIndex].Name
		}
	}
	return items, nil
}

func (s *Service) observe(status string, n int) {
	if s.observer != nil {
		s.observer.ObserveStockAdjustment(status, n)
	}
}

func filterItems(in []domain.SaleItem) []domain.SaleItem {
	out := make([]domain.SaleItem, 0, len(in))
	for _, it := range in {
		if _, err := domain.NewOrderLine(it.ProductID, it.VariantIndex, it.Quantity); err != nil {
			continue
		}
		if it.ProductID <= 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

func subtotal(items []domain.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}
