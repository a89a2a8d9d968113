package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/theauraflow/pos/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the product catalog in an embedded database so
// the till works without a network connection.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT id, name, sku, price, taxable, active FROM products WHERE id = ?`

	var (
		p               domain.Product
		price           int64
		taxable, active int
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.SKU, &price, &taxable, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	p.Price = domain.Money(price)
	p.Taxable = taxable != 0
	p.Active = active != 0
	return &p, nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT id, name, sku, price, taxable, active FROM products WHERE active = 1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		var (
			p               domain.Product
			price           int64
			taxable, active int
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &price, &taxable, &active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Price = domain.Money(price)
		p.Taxable = taxable != 0
		p.Active = active != 0
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, sku, price, taxable, active)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET
	              name = excluded.name,
	              sku = excluded.sku,
	              price = excluded.price,
	              taxable = excluded.taxable,
	              active = excluded.active`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.SKU, int64(p.Price), boolInt(p.Taxable), boolInt(p.Active))
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
