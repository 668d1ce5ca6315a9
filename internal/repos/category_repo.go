package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Available lists the distinct categories that currently have something on sale.
func (r *CategoryRepo) Available(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, `
      SELECT DISTINCT category
      FROM products
      WHERE status = 'Available' AND category IS NOT NULL AND category <> ''
      ORDER BY category`)
	return out, err
}
