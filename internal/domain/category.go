package domain

import (
	"context"
	"time"
)

// Category agrupa produtos no catálogo.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryRepository define o contrato de persistência de categorias.
type CategoryRepository interface {
	Create(ctx context.Context, category Category) (Category, error)
	GetByID(ctx context.Context, id int64) (Category, error)
	GetAll(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id int64) error
}
