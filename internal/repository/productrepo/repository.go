package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"golang.org/x/sync/singleflight"

	"saborstock/internal/domain"
	"saborstock/internal/errors"
	"saborstock/internal/pkg/cache"
	"saborstock/internal/pkg/logger"
)

// Chaves de cache de produtos.
const (
	productCacheKey    = "product:%d"
	productListPrefix  = "products:list:"
	productListKeyTmpl = productListPrefix + "%s"
)

const productColumns = `id, title, category_id, price, description, status, display_order, sabores, version, created_at, updated_at`

// ProductRepository implementa domain.ProductRepository sobre PostgreSQL,
// com cache-aside no Redis para as leituras do catálogo público.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
	group     singleflight.Group
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p          domain.Product
		categoryID sql.NullInt64
		sabores    []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&categoryID,
		&p.Price,
		&p.Description,
		&p.Status,
		&p.DisplayOrder,
		&sabores,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		p.CategoryID = &id
	}
	p.Variants = []domain.Variant{}
	if len(sabores) > 0 {
		if err := json.Unmarshal(sabores, &p.Variants); err != nil {
			return domain.Product{}, fmt.Errorf("sabores inválidos no produto %d: %w", p.ID, err)
		}
	}
	return p, nil
}

func encodeVariants(variants []domain.Variant) ([]byte, error) {
	if variants == nil {
		variants = []domain.Variant{}
	}
	return json.Marshal(variants)
}

func nullCategory(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// Save insere um novo produto e devolve o registro com ID e versão gerados.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sabores, err := encodeVariants(product.Variants)
	if err != nil {
		return domain.Product{}, errors.NewInternalError("falha ao serializar sabores", err)
	}

	query := `
		INSERT INTO products (title, category_id, price, description, status, display_order, sabores, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8)
		RETURNING ` + productColumns

	now := time.Now().UTC()
	created, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query,
		product.Title,
		nullCategory(product.CategoryID),
		product.Price,
		product.Description,
		product.Status,
		product.DisplayOrder,
		sabores,
		now,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, errors.NewDBError("falha ao inserir produto", err)
	}

	r.invalidate(ctx, created.ID)
	r.logger.Info("Produto criado.", map[string]interface{}{"product_id": created.ID})
	return created, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// 1. Cache (Redis)
	if cached, err := r.Cache.Get(ctxTimeout, key); err == nil {
		if json.Unmarshal([]byte(cached), &product) == nil {
			return product, nil
		}
		r.logger.Warn("Entrada de cache corrompida; consultando o DB.", map[string]interface{}{"key": key})
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Banco de Dados
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe.", id))
	}
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto no DB", err)
	}

	// 3. Popula o cache
	r.store(ctxTimeout, key, product)
	return product, nil
}

// FindByIDs busca, sempre no DB, os registros completos dos IDs informados.
// IDs inexistentes são simplesmente omitidos do resultado.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`
	rows, err := r.DB.QueryContext(ctxTimeout, query, pq.Array(ids))
	if err != nil {
		return nil, errors.NewDBError("Falha ao buscar produtos por IDs", err)
	}
	defer rows.Close()

	return collect(rows)
}

// FindAll lista o catálogo ordenado por display_order. Falhas de cache
// concorrentes para o mesmo filtro resultam em uma única consulta ao DB.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	key := fmt.Sprintf(productListKeyTmpl, filter.CacheKey())

	if cached, err := r.Cache.Get(ctx, key); err == nil {
		var products []domain.Product
		if json.Unmarshal([]byte(cached), &products) == nil {
			return products, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler listagem do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		products, err := r.queryAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (r *ProductRepository) queryAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		conds []string
		args  []interface{}
	)
	if filter.ActiveOnly {
		args = append(args, domain.ProductActive)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar produtos", err)
	}
	return products, nil
}

// Update substitui o registro completo do produto. Com Version > 0 aplica OCC:
// o registro só é gravado se a versão no DB for a mesma.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sabores, err := encodeVariants(product.Variants)
	if err != nil {
		return domain.Product{}, errors.NewInternalError("falha ao serializar sabores", err)
	}

	// $10 aparece duas vezes: versão 0 desliga a checagem de OCC.
	query := `
		UPDATE products
		SET title = $1, category_id = $2, price = $3, description = $4, status = $5,
		    display_order = $6, sabores = $7, version = version + 1, updated_at = $8
		WHERE id = $9 AND ($10 = 0 OR version = $10)
		RETURNING ` + productColumns

	updated, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query,
		product.Title,
		nullCategory(product.CategoryID),
		product.Price,
		product.Description,
		product.Status,
		product.DisplayOrder,
		sabores,
		time.Now().UTC(),
		product.ID,
		product.Version,
	))
	if err == sql.ErrNoRows {
		if product.Version == 0 {
			return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe.", product.ID))
		}
		if _, findErr := r.findFresh(ctxTimeout, product.ID); findErr != nil {
			return domain.Product{}, findErr
		}
		return domain.Product{}, errors.NewConflictError("O produto foi modificado por outra operação. Recarregue e tente novamente.")
	}
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	r.invalidate(ctx, updated.ID)
	return updated, nil
}

func (r *ProductRepository) findFresh(ctx context.Context, id int64) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe.", id))
	}
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto no DB", err)
	}
	return p, nil
}

// UpsertMany grava os registros completos numa única transação, chaveados
// pelo ID. Registros lidos do DB (Version > 0) só substituem a linha se ela
// ainda existir com a mesma versão (OCC); produto removido ou versão
// divergente desfaz o lote inteiro com ConflictError. Registros com
// Version == 0 são inseridos com o ID informado.
func (r *ProductRepository) UpsertMany(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	replaceQuery := `
		UPDATE products
		SET title = $2, category_id = $3, price = $4, description = $5, status = $6,
		    display_order = $7, sabores = $8, version = version + 1, updated_at = $10
		WHERE id = $1 AND version = $9`

	insertQuery := `
		INSERT INTO products (id, title, category_id, price, description, status, display_order, sabores, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)
		ON CONFLICT (id) DO NOTHING`

	now := time.Now().UTC()
	inserted := false
	for _, p := range products {
		sabores, err := encodeVariants(p.Variants)
		if err != nil {
			return errors.NewInternalError("falha ao serializar sabores", err)
		}

		var result sql.Result
		if p.Version > 0 {
			result, err = tx.ExecContext(ctxTimeout, replaceQuery,
				p.ID, p.Title, nullCategory(p.CategoryID), p.Price, p.Description,
				p.Status, p.DisplayOrder, sabores, p.Version, now,
			)
		} else {
			createdAt := p.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			result, err = tx.ExecContext(ctxTimeout, insertQuery,
				p.ID, p.Title, nullCategory(p.CategoryID), p.Price, p.Description,
				p.Status, p.DisplayOrder, sabores, createdAt, now,
			)
			inserted = true
		}
		if err != nil {
			return errors.NewDBError(fmt.Sprintf("Falha ao gravar produto %d", p.ID), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if affected == 0 {
			r.logger.Warn("Falha no controle de concorrência otimista (OCC).", map[string]interface{}{
				"product_id":       p.ID,
				"expected_version": p.Version,
			})
			return errors.NewConflictError(fmt.Sprintf("O produto %d foi modificado por outra operação.", p.ID))
		}
	}

	// IDs explícitos não avançam o BIGSERIAL.
	if inserted {
		if _, err := tx.ExecContext(ctxTimeout,
			`SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT COALESCE(MAX(id), 1) FROM products))`,
		); err != nil {
			return errors.NewDBError("Falha ao ajustar sequência de produtos", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDBError("Falha ao commitar transação", err)
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	r.invalidate(ctx, ids...)
	return nil
}

// Delete remove um produto.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.NewDBError("Falha ao remover produto", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe.", id))
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *ProductRepository) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar no cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// invalidate remove do cache os produtos informados e todas as listagens.
func (r *ProductRepository) invalidate(ctx context.Context, ids ...int64) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(productCacheKey, id)
	}
	if err := r.Cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Falha ao invalidar cache de produtos.", map[string]interface{}{"error": err.Error()})
	}
	if err := r.Cache.DeletePrefix(ctx, productListPrefix); err != nil {
		r.logger.Warn("Falha ao invalidar listagens em cache.", map[string]interface{}{"error": err.Error()})
	}
}
