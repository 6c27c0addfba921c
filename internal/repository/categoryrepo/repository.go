package categoryrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"saborstock/internal/domain"
	"saborstock/internal/errors"
	"saborstock/internal/pkg/database"
	"saborstock/internal/pkg/logger"
)

// CategoryRepository implementa domain.CategoryRepository.
type CategoryRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCategoryRepository cria e retorna uma nova instância do Repositório de Categorias.
func NewCategoryRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Create insere uma nova categoria.
func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	now := time.Now().UTC()
	query := `
        INSERT INTO categories (name, slug, display_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)
        RETURNING id, name, slug, display_order, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		category.Name, category.Slug, category.DisplayOrder, now,
	).Scan(
		&category.ID, &category.Name, &category.Slug, &category.DisplayOrder, &category.CreatedAt, &category.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return domain.Category{}, errors.NewConflictError(fmt.Sprintf("Já existe uma categoria com o slug '%s'.", category.Slug))
	}
	if err != nil {
		r.logger.Error("Falha ao inserir categoria no DB.", err)
		return domain.Category{}, errors.NewDBError("Falha ao criar categoria", err)
	}

	r.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": category.ID, "slug": category.Slug})
	return category, nil
}

// GetByID busca uma categoria pelo ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, slug, display_order, created_at, updated_at
        FROM categories
        WHERE id = $1`

	var c domain.Category
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&c.ID, &c.Name, &c.Slug, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Category{}, errors.NewNotFoundError(fmt.Sprintf("Categoria com ID %d não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar categoria no DB.", err)
		return domain.Category{}, errors.NewDBError("Falha ao buscar categoria", err)
	}
	return c, nil
}

// GetAll busca todas as categorias na ordem de exibição.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, slug, display_order, created_at, updated_at
        FROM categories
        ORDER BY display_order, name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar a listagem de categorias.", err)
		return nil, errors.NewDBError("Falha ao buscar categorias", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao mapear categorias do DB", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de categorias", err)
	}

	r.logger.Debug("Categorias listadas.", map[string]interface{}{"total": len(categories)})
	return categories, nil
}

// Update atualiza uma categoria existente.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE categories
        SET name = $1, slug = $2, display_order = $3, updated_at = $4
        WHERE id = $5
        RETURNING id, name, slug, display_order, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		category.Name, category.Slug, category.DisplayOrder, time.Now().UTC(), category.ID,
	).Scan(
		&category.ID, &category.Name, &category.Slug, &category.DisplayOrder, &category.CreatedAt, &category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Category{}, errors.NewNotFoundError(fmt.Sprintf("Categoria com ID %d não encontrada para atualização.", category.ID))
	}
	if database.IsUniqueViolation(err) {
		return domain.Category{}, errors.NewConflictError(fmt.Sprintf("Já existe uma categoria com o slug '%s'.", category.Slug))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar categoria no DB.", err)
		return domain.Category{}, errors.NewDBError("Falha ao atualizar categoria", err)
	}

	r.logger.Info("Categoria atualizada com sucesso.", map[string]interface{}{"id": category.ID})
	return category, nil
}

// Delete remove uma categoria. Produtos vinculados ficam sem categoria (ON DELETE SET NULL).
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar categoria do DB.", err)
		return errors.NewDBError("Falha ao deletar categoria", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Categoria com ID %d não encontrada para exclusão.", id))
	}

	r.logger.Info("Categoria deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}
