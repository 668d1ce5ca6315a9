package repos

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"bellashop/internal/catalog"
)

// PoolRepo stores admin overrides for the description generator's sentence pools.
type PoolRepo struct{ db *sqlx.DB }

func NewPoolRepo(db *sqlx.DB) *PoolRepo { return &PoolRepo{db: db} }

func (r *PoolRepo) All(ctx context.Context) (catalog.Pools, error) {
	var rows []struct {
		Category  string `db:"category"`
		Sentences string `db:"sentences_json"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT category, sentences_json FROM description_pools ORDER BY category`); err != nil {
		return nil, err
	}
	out := make(catalog.Pools, len(rows))
	for _, row := range rows {
		var s []string
		if err := json.Unmarshal([]byte(row.Sentences), &s); err != nil {
			continue
		}
		out[row.Category] = s
	}
	return out, nil
}

// Replace swaps the stored overrides for pools in one transaction.
// Keys are lower-cased; a key with no sentences is removed.
func (r *PoolRepo) Replace(ctx context.Context, pools catalog.Pools, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM description_pools`); err != nil {
		return err
	}
	ts := formatTS(at)
	for key, sentences := range pools {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || len(sentences) == 0 {
			continue
		}
		b, err := json.Marshal(sentences)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
          INSERT INTO description_pools(category, sentences_json, updated_at) VALUES(?,?,?)
          ON CONFLICT(category) DO UPDATE SET sentences_json=excluded.sentences_json, updated_at=excluded.updated_at
        `, key, string(b), ts); err != nil {
			return err
		}
	}
	return tx.Commit()
}
