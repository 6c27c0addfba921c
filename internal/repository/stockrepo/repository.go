package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"saborstock/internal/domain"
	"saborstock/internal/errors"
	"saborstock/internal/pkg/logger"
)

// StockRepository persiste a trilha de auditoria dos ajustes de estoque.
type StockRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// auditColumns é o número de parâmetros por registro do INSERT.
const auditColumns = 8

// MaxAuditBatch limita os registros por INSERT: o PostgreSQL aceita no
// máximo 65535 parâmetros por comando.
const MaxAuditBatch = 1000

// AppendAdjustments insere os registros em INSERTs multi-linha de até
// MaxAuditBatch linhas, todos na mesma transação. É uma escrita
// independente da gravação dos produtos.
func (r *StockRepository) AppendAdjustments(ctx context.Context, records []domain.StockAdjustmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação da auditoria", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for start := 0; start < len(records); start += MaxAuditBatch {
		end := start + MaxAuditBatch
		if end > len(records) {
			end = len(records)
		}
		query, args := buildAuditInsert(records[start:end], now)
		if _, err := tx.ExecContext(ctxTimeout, query, args...); err != nil {
			return errors.NewDBError("Falha ao gravar trilha de auditoria de estoque", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDBError("Falha ao commitar trilha de auditoria", err)
	}

	r.logger.Debug("Trilha de auditoria de estoque gravada.", map[string]interface{}{"records": len(records)})
	return nil
}

func buildAuditInsert(records []domain.StockAdjustmentRecord, now time.Time) (string, []interface{}) {
	placeholders := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*auditColumns)
	for i, rec := range records {
		base := i * auditColumns
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		args = append(args,
			rec.ProductID,
			rec.VariantIndex,
			rec.VariantName,
			rec.ProductTitle,
			rec.QuantityBefore,
			rec.QuantityAfter,
			rec.QuantityOrdered,
			createdAt,
		)
	}

	query := `
        INSERT INTO stock_adjustments
            (product_id, variant_index, variant_name, product_title, quantity_before, quantity_after, quantity_ordered, created_at)
        VALUES ` + strings.Join(placeholders, ", ")
	return query, args
}

// ListAdjustments lista a trilha de auditoria, mais recentes primeiro.
func (r *StockRepository) ListAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.StockAdjustmentRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, product_id, variant_index, variant_name, product_title,
               quantity_before, quantity_after, quantity_ordered, created_at
        FROM stock_adjustments`
	var args []interface{}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		query += ` WHERE product_id = $1`
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar ajustes de estoque", err)
	}
	defer rows.Close()

	records := []domain.StockAdjustmentRecord{}
	for rows.Next() {
		var rec domain.StockAdjustmentRecord
		if err := rows.Scan(
			&rec.ID, &rec.ProductID, &rec.VariantIndex, &rec.VariantName, &rec.ProductTitle,
			&rec.QuantityBefore, &rec.QuantityAfter, &rec.QuantityOrdered, &rec.CreatedAt,
		); err != nil {
			return nil, errors.NewDBError("Falha ao ler ajuste de estoque", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar ajustes de estoque", err)
	}
	return records, nil
}
