package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"bellashop/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID               int64           `db:"id"`
	Name             string          `db:"name"`
	Description      string          `db:"description"`
	Price            float64         `db:"price"`
	Category         string          `db:"category"`
	Subcategory      string          `db:"subcategory"`
	Condition        string          `db:"condition"`
	ConditionDetails string          `db:"condition_details"`
	Length           sql.NullFloat64 `db:"length"`
	Width            sql.NullFloat64 `db:"width"`
	Height           sql.NullFloat64 `db:"height"`
	ImagesJSON       string          `db:"images_json"`
	Status           string          `db:"status"`
	IsFeatured       bool            `db:"is_featured"`
	IsBestSeller     bool            `db:"is_bestseller"`
	IsHighlighted    bool            `db:"is_highlighted"`
	CreatedAt        string          `db:"created_at"`
	UpdatedAt        string          `db:"updated_at"`
	SoldAt           sql.NullString  `db:"sold_at"`
}

const productCols = `
    id, name, COALESCE(description,'') AS description, price,
    COALESCE(category,'') AS category, COALESCE(subcategory,'') AS subcategory,
    COALESCE(condition,'') AS condition, COALESCE(condition_details,'') AS condition_details,
    length, width, height, images_json, status,
    is_featured, is_bestseller, is_highlighted,
    created_at, updated_at, sold_at`

var flagColumns = map[domain.Flag]string{
	domain.FlagFeatured:    "is_featured",
	domain.FlagBestSeller:  "is_bestseller",
	domain.FlagHighlighted: "is_highlighted",
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// decodeImages never fails: a corrupt column reads as no images.
func decodeImages(s string) []string {
	urls := []string{}
	if s == "" {
		return urls
	}
	if err := json.Unmarshal([]byte(s), &urls); err != nil || urls == nil {
		return []string{}
	}
	return urls
}

func encodeImages(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	return string(b), err
}

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Price:            r.Price,
		Category:         r.Category,
		Subcategory:      r.Subcategory,
		Condition:        r.Condition,
		ConditionDetails: r.ConditionDetails,
		Length:           nullFloat(r.Length),
		Width:            nullFloat(r.Width),
		Height:           nullFloat(r.Height),
		ImageURLs:        decodeImages(r.ImagesJSON),
		Status:           domain.Status(r.Status),
		IsFeatured:       r.IsFeatured,
		IsBestSeller:     r.IsBestSeller,
		IsHighlighted:    r.IsHighlighted,
		CreatedAt:        parseTS(r.CreatedAt),
		UpdatedAt:        parseTS(r.UpdatedAt),
	}
	if r.SoldAt.Valid {
		t := parseTS(r.SoldAt.String)
		p.SoldAt = &t
	}
	return p
}

func toDomainList(rows []productRow) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

// getOne runs a single-row query (SELECT or a DML with RETURNING).
func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (domain.Product, error) {
	var row productRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("products: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return toDomainList(rows), nil
}

func (r *ProductRepo) Create(ctx context.Context, in domain.ProductInput, images []string, at time.Time) (domain.Product, error) {
	imgs, err := encodeImages(images)
	if err != nil {
		return domain.Product{}, err
	}
	ts := formatTS(at)
	return r.getOne(ctx, `
  INSERT INTO products(
    name, description, price, category, subcategory, condition, condition_details,
    length, width, height, images_json, status, created_at, updated_at
  ) VALUES (?, NULLIF(?,''), ?, NULLIF(?,''), NULLIF(?,''), NULLIF(?,''), NULLIF(?,''), ?, ?, ?, ?, 'Available', ?, ?)
  RETURNING`+productCols,
		in.Name, in.Description, *in.Price, in.Category, in.Subcategory, in.Condition, in.ConditionDetails,
		in.Length, in.Width, in.Height, imgs, ts, ts)
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	return r.getOne(ctx, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
}

// Update replaces every descriptive field and the image list. Flags and
// status are left alone.
func (r *ProductRepo) Update(ctx context.Context, id int64, in domain.ProductInput, images []string, at time.Time) (domain.Product, error) {
	imgs, err := encodeImages(images)
	if err != nil {
		return domain.Product{}, err
	}
	return r.getOne(ctx, `
  UPDATE products SET
    name = ?, description = NULLIF(?,''), price = ?,
    category = NULLIF(?,''), subcategory = NULLIF(?,''),
    condition = NULLIF(?,''), condition_details = NULLIF(?,''),
    length = ?, width = ?, height = ?,
    images_json = ?,
    updated_at = max(updated_at, ?)
  WHERE id = ?
  RETURNING`+productCols,
		in.Name, in.Description, *in.Price, in.Category, in.Subcategory, in.Condition, in.ConditionDetails,
		in.Length, in.Width, in.Height, imgs, formatTS(at), id)
}

// Delete removes a product and returns it as it was.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (domain.Product, error) {
	return r.getOne(ctx, `DELETE FROM products WHERE id = ? RETURNING`+productCols, id)
}

// ToggleFlag negates one placement tag in a single statement, so concurrent
// toggles never read a stale value.
func (r *ProductRepo) ToggleFlag(ctx context.Context, id int64, f domain.Flag, at time.Time) (domain.Product, error) {
	col, ok := flagColumns[f]
	if !ok {
		return domain.Product{}, fmt.Errorf("unknown flag %q", f)
	}
	return r.getOne(ctx, `
  UPDATE products SET `+col+` = NOT `+col+`, updated_at = max(updated_at, ?)
  WHERE id = ?
  RETURNING`+productCols, formatTS(at), id)
}

// ToggleSold flips Available <-> Sold and sets or clears sold_at with it.
// Column references on the right-hand side see the pre-update row.
func (r *ProductRepo) ToggleSold(ctx context.Context, id int64, at time.Time) (domain.Product, error) {
	ts := formatTS(at)
	return r.getOne(ctx, `
  UPDATE products SET
    status  = CASE status WHEN 'Sold' THEN 'Available' ELSE 'Sold' END,
    sold_at = CASE status WHEN 'Sold' THEN NULL ELSE ? END,
    updated_at = max(updated_at, ?)
  WHERE id = ?
  RETURNING`+productCols, ts, ts, id)
}

func (r *ProductRepo) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT`+productCols+`
  FROM products
  WHERE status = 'Available'
  ORDER BY created_at DESC, id DESC`)
}

func (r *ProductRepo) ListFlagged(ctx context.Context, f domain.Flag) ([]domain.Product, error) {
	col, ok := flagColumns[f]
	if !ok {
		return nil, fmt.Errorf("unknown flag %q", f)
	}
	return r.list(ctx, `SELECT`+productCols+`
  FROM products
  WHERE `+col+` = 1
  ORDER BY created_at DESC, id DESC`)
}

func (r *ProductRepo) ListSold(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT`+productCols+`
  FROM products
  WHERE status = 'Sold'
  ORDER BY sold_at DESC, id DESC`)
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT`+productCols+`
  FROM products
  ORDER BY created_at DESC, id DESC`)
}

func (r *ProductRepo) Stats(ctx context.Context) (domain.Stats, error) {
	var row struct {
		Total int `db:"total"`
		Sold  int `db:"sold"`
	}
	err := r.db.GetContext(ctx, &row, `
  SELECT COUNT(*) AS total,
         COALESCE(SUM(CASE WHEN status = 'Sold' THEN 1 ELSE 0 END), 0) AS sold
  FROM products`)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{Total: row.Total, Available: row.Total - row.Sold, Sold: row.Sold}, nil
}

// DeleteSoldBefore purges sold products whose sale predates cutoff and
// returns the removed ids.
func (r *ProductRepo) DeleteSoldBefore(ctx context.Context, cutoff time.Time) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, `
  DELETE FROM products
  WHERE status = 'Sold' AND sold_at IS NOT NULL AND sold_at < ?
  RETURNING id`, formatTS(cutoff))
	return ids, err
}

// DB exposes the handle so sibling repos can share it.
func (r *ProductRepo) DB() *sqlx.DB { return r.db }
