//go:build integration

package stockrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saborstock/internal/domain"
	"saborstock/internal/pkg/database/dbtest"
	"saborstock/internal/pkg/logger"
	"saborstock/internal/repository/stockrepo"
)

func TestAppendAdjustments_LargeBatchIsChunked(t *testing.T) {
	db := dbtest.NewPostgres(t)
	repo := stockrepo.NewStockRepository(db, 30*time.Second, logger.NewNop())
	ctx := context.Background()

	// Acima de 65535/8 registros um único INSERT estouraria o limite de parâmetros.
	total := 8*stockrepo.MaxAuditBatch + 200
	records := make([]domain.StockAdjustmentRecord, total)
	for i := range records {
		records[i] = domain.StockAdjustmentRecord{
			ProductID:       int64(i%7 + 1),
			VariantIndex:    0,
			VariantName:     "Tradicional",
			ProductTitle:    "Brigadeiro",
			QuantityBefore:  5,
			QuantityAfter:   4,
			QuantityOrdered: 1,
		}
	}

	require.NoError(t, repo.AppendAdjustments(ctx, records))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_adjustments`).Scan(&count))
	assert.Equal(t, total, count)
}

func TestListAdjustments_FiltersByProduct(t *testing.T) {
	db := dbtest.NewPostgres(t)
	repo := stockrepo.NewStockRepository(db, 5*time.Second, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.AppendAdjustments(ctx, []domain.StockAdjustmentRecord{
		{ProductID: 1, VariantName: "Tradicional", QuantityBefore: 5, QuantityAfter: 3, QuantityOrdered: 2},
		{ProductID: 2, VariantName: "Ninho", QuantityBefore: 1, QuantityAfter: 0, QuantityOrdered: 4},
	}))

	productID := int64(2)
	got, err := repo.ListAdjustments(ctx, domain.AdjustmentFilter{ProductID: &productID, Limit: 10})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ninho", got[0].VariantName)
	assert.Equal(t, 0, got[0].QuantityAfter)
}
