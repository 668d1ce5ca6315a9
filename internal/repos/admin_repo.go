package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bellashop/internal/domain"
)

type AdminRepo struct{ DB *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{DB: db} }

func (r *AdminRepo) ByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.DB.GetContext(ctx, &a, `SELECT id,email,name,password_hash FROM admins WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) ByID(ctx context.Context, id int64) (*domain.Admin, error) {
	var a domain.Admin
	err := r.DB.GetContext(ctx, &a, `SELECT id,email,name,password_hash FROM admins WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM admins`)
	return n, err
}
