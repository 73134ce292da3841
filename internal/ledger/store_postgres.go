package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"traceline/pkg/domain"
	dErrors "traceline/pkg/domain-errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS product_counter (
	singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
	next_id   BIGINT NOT NULL
);
INSERT INTO product_counter (singleton, next_id) VALUES (TRUE, 0)
	ON CONFLICT (singleton) DO NOTHING;

CREATE TABLE IF NOT EXISTS products (
	id           BIGINT PRIMARY KEY,
	name         TEXT NOT NULL,
	manufacturer TEXT NOT NULL,
	distributor  TEXT NOT NULL DEFAULT '',
	retailer     TEXT NOT NULL DEFAULT '',
	status       INT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS checkpoints (
	seq         BIGSERIAL UNIQUE,
	product_id  BIGINT NOT NULL REFERENCES products (id),
	fingerprint BYTEA NOT NULL,
	label       TEXT NOT NULL,
	verifier    TEXT NOT NULL,
	status      INT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (product_id, fingerprint)
);
`

// uniqueViolation is the postgres error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresStore persists the ledger in PostgreSQL. Products and checkpoints
// commit in one transaction; the product row is locked FOR UPDATE for the
// duration of a mutation so concurrent calls against the same product
// serialize. Checkpoint rows are only ever inserted.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the ledger tables when they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, build func(id ProductID) (Product, Checkpoint)) (ProductID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create product: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Locking the counter row serializes ID allocation; a rolled-back
	// transaction releases the ID unconsumed.
	var id ProductID
	if err := tx.QueryRowContext(ctx,
		`SELECT next_id FROM product_counter WHERE singleton FOR UPDATE`,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate product id: %w", err)
	}

	product, initial := build(id)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO products (id, name, manufacturer, distributor, retailer, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		int64(product.ID), product.Name, product.Manufacturer.String(),
		product.Distributor.String(), product.Retailer.String(),
		int(product.Status), product.CreatedAt,
	); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	if err := insertCheckpoint(ctx, tx, initial); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE product_counter SET next_id = $1 WHERE singleton`, int64(id)+1,
	); err != nil {
		return 0, fmt.Errorf("advance product counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create product: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id ProductID, apply func(p *Product) (Checkpoint, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update product: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	product, err := scanProduct(tx.QueryRowContext(ctx,
		`SELECT id, name, manufacturer, distributor, retailer, status, created_at
		 FROM products WHERE id = $1 FOR UPDATE`, int64(id)))
	if err != nil {
		return err
	}

	checkpoint, err := apply(&product)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET distributor = $2, retailer = $3, status = $4 WHERE id = $1`,
		int64(id), product.Distributor.String(), product.Retailer.String(), int(product.Status),
	); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if err := insertCheckpoint(ctx, tx, checkpoint); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update product: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id ProductID) (Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx,
		`SELECT id, name, manufacturer, distributor, retailer, status, created_at
		 FROM products WHERE id = $1`, int64(id)))
}

func (s *PostgresStore) ListCheckpoints(ctx context.Context, id ProductID) ([]Checkpoint, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, product_id, label, verifier, status, recorded_at
		 FROM checkpoints WHERE product_id = $1 ORDER BY seq`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		checkpoint, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, checkpoint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetCheckpoint(ctx context.Context, id ProductID, fp Fingerprint) (Checkpoint, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return Checkpoint{}, err
	}

	return scanCheckpoint(s.db.QueryRowContext(ctx,
		`SELECT fingerprint, product_id, label, verifier, status, recorded_at
		 FROM checkpoints WHERE product_id = $1 AND fingerprint = $2`,
		int64(id), fp[:]))
}

func insertCheckpoint(ctx context.Context, tx *sql.Tx, c Checkpoint) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO checkpoints (product_id, fingerprint, label, verifier, status, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		int64(c.ProductID), c.Fingerprint[:], c.Label, c.Verifier.String(),
		int(c.Status), c.RecordedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return dErrors.New(dErrors.CodeConflict, "checkpoint fingerprint already recorded")
		}
		return fmt.Errorf("insert checkpoint: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		id                                  int64
		name, manufacturer, distrib, retail string
		status                              int
		createdAt                           time.Time
	)
	if err := row.Scan(&id, &name, &manufacturer, &distrib, &retail, &status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, dErrors.New(dErrors.CodeNotFound, "product has no record")
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	return Product{
		ID:           ProductID(id),
		Name:         name,
		Manufacturer: domain.Identity(manufacturer),
		Distributor:  domain.Identity(distrib),
		Retailer:     domain.Identity(retail),
		Status:       Status(status),
		CreatedAt:    createdAt,
	}, nil
}

func scanCheckpoint(row rowScanner) (Checkpoint, error) {
	var (
		raw             []byte
		id              int64
		label, verifier string
		status          int
		recordedAt      time.Time
	)
	if err := row.Scan(&raw, &id, &label, &verifier, &status, &recordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Checkpoint{}, dErrors.New(dErrors.CodeNotFound, "checkpoint not recorded")
		}
		return Checkpoint{}, fmt.Errorf("scan checkpoint: %w", err)
	}
	var fp Fingerprint
	copy(fp[:], raw)
	return Checkpoint{
		Fingerprint: fp,
		ProductID:   ProductID(id),
		Label:       label,
		Verifier:    domain.Identity(verifier),
		Status:      Status(status),
		RecordedAt:  recordedAt,
	}, nil
}
