// Package store reads the product database the scanner service serves
// prices from. It also supplies the connectivity probe polled by the
// dependency monitor.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound reports a barcode with no matching product.
var ErrNotFound = errors.New("product not found")

const (
	probeTimeout = 10 * time.Second
	queryTimeout = 5 * time.Second
)

// Schema names the table and columns of the product lookup.
type Schema struct {
	Table             string
	BarcodeColumn     string
	NameColumn        string
	PriceColumn       string
	DescriptionColumn string
}

// Product is one row of the product table.
type Product struct {
	Name        string  `json:"product_name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Barcode     string  `json:"barcode"`
}

// Store wraps the SQL connection pool.
type Store struct {
	db     *sql.DB
	schema Schema
}

// Open validates the DSN and prepares a pool. It does not dial: the
// database being down at startup is a monitored condition, not an
// error.
func Open(dsn string, schema Schema) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty database DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)

	return &Store{db: db, schema: schema}, nil
}

// Probe runs the connectivity test and reports (connected, message).
// It never returns an error; failures come back as a message so the
// monitor can treat every outcome uniformly.
func (s *Store) Probe(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return false, err.Error()
	}
	if one != 1 {
		return false, "connection test failed"
	}
	return true, "connection successful"
}

// ProductByBarcode looks up a single product. Returns ErrNotFound when
// the barcode has no row.
func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s FROM %s WHERE %s = $1",
		quoteIdent(s.schema.NameColumn),
		quoteIdent(s.schema.PriceColumn),
		quoteIdent(s.schema.DescriptionColumn),
		quoteIdent(s.schema.BarcodeColumn),
		quoteIdent(s.schema.Table),
		quoteIdent(s.schema.BarcodeColumn),
	)

	var (
		p     Product
		price sql.NullFloat64
		desc  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, barcode).Scan(&p.Name, &price, &desc, &p.Barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("lookup barcode %q: %w", barcode, err)
	}
	p.Price = price.Float64
	p.Description = desc.String
	return p, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// quoteIdent quotes a configured identifier so schema names from the
// config file cannot break out of the statement.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
