package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocktag/internal/catalog/models"
	trackingmodels "stocktag/internal/tracking/models"
	"stocktag/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists the catalog in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed catalog store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the catalog schema if it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id          UUID PRIMARY KEY,
			sku         TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			qr_code     TEXT NOT NULL DEFAULT '',
			barcode     TEXT NOT NULL DEFAULT '',
			rfid_code   TEXT NOT NULL DEFAULT '',
			nfc_code    TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_products_barcode ON products (barcode) WHERE barcode <> '';
		CREATE INDEX IF NOT EXISTS idx_products_rfid ON products (rfid_code) WHERE rfid_code <> '';
		CREATE INDEX IF NOT EXISTS idx_products_nfc ON products (nfc_code) WHERE nfc_code <> '';
	`)
	if err != nil {
		return fmt.Errorf("migrate catalog schema: %w", err)
	}
	return nil
}

const productColumns = `id, sku, name, description, status, qr_code, barcode, rfid_code, nfc_code, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, product *models.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		product.ID, product.SKU, product.Name, product.Description, string(product.Status),
		product.Codes.QR, product.Codes.Barcode, product.Codes.RFID, product.Codes.NFC,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Postgres) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	return scanProduct(row, "find product by sku")
}

func (s *Postgres) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	if code == "" {
		return nil, sentinel.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE barcode = $1 OR rfid_code = $1 OR nfc_code = $1`, code)
	return scanProduct(row, "find product by code")
}

func (s *Postgres) List(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows, "list products")
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Postgres) SaveCodes(ctx context.Context, sku string, codes trackingmodels.TrackingCodeSet) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET qr_code = $2, barcode = $3, rfid_code = $4, nfc_code = $5, updated_at = $6
		WHERE sku = $1`,
		sku, codes.QR, codes.Barcode, codes.RFID, codes.NFC, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save codes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row, op string) (*models.Product, error) {
	var (
		product models.Product
		status  string
	)
	err := row.Scan(
		&product.ID, &product.SKU, &product.Name, &product.Description, &status,
		&product.Codes.QR, &product.Codes.Barcode, &product.Codes.RFID, &product.Codes.NFC,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	product.Status = models.ProductStatus(status)
	return &product, nil
}
