package repos

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// tsLayout is fixed width and always UTC so stored timestamps sort as text.
const tsLayout = "2006-01-02T15:04:05.000000Z"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

func parseTS(s string) time.Time {
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		// rows written by hand (sqlite CURRENT_TIMESTAMP)
		t, _ = time.Parse(time.DateTime, s)
	}
	return t.UTC()
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: keeps :memory: databases shared and serialises writers
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL CHECK (length(trim(name)) > 0),
  description TEXT,
  price REAL NOT NULL CHECK (price >= 0),
  category TEXT,
  subcategory TEXT,
  condition TEXT,
  condition_details TEXT,
  length REAL CHECK (length IS NULL OR length >= 0),
  width  REAL CHECK (width  IS NULL OR width  >= 0),
  height REAL CHECK (height IS NULL OR height >= 0),
  images_json TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'Available' CHECK (status IN ('Available','Sold')),
  is_featured    INTEGER NOT NULL DEFAULT 0,
  is_bestseller  INTEGER NOT NULL DEFAULT 0,
  is_highlighted INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  sold_at TEXT,
  CHECK ((status = 'Sold') = (sold_at IS NOT NULL))
);
CREATE INDEX IF NOT EXISTS idx_products_status     ON products(status);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
CREATE INDEX IF NOT EXISTS idx_products_sold_at    ON products(sold_at);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);

-- Admins
CREATE TABLE IF NOT EXISTS admins(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_email_nocase ON admins(LOWER(email));

-- Sentence pools for the description generator
CREATE TABLE IF NOT EXISTS description_pools(
  category TEXT PRIMARY KEY,
  sentences_json TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

// EnsureAdmin creates the bootstrap admin when the admins table is empty.
// Safe to run on every startup; reports whether a row was inserted.
func EnsureAdmin(ctx context.Context, db *sqlx.DB, name, email, password string, now time.Time) (bool, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM admins`); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	ts := formatTS(now)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admins(name,email,password_hash,created_at,updated_at)
		VALUES(?,?,?,?,?)
	`, name, strings.ToLower(strings.TrimSpace(email)), string(hash), ts, ts); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	log.Printf("[seed] created bootstrap admin %s", strings.ToLower(email))
	return true, nil
}
