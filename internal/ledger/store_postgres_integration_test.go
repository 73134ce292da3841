//go:build integration

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traceline/internal/ledger"
	dErrors "traceline/pkg/domain-errors"
	"traceline/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *ledger.PostgresStore
	now   time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = ledger.NewPostgresStore(s.pg.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pg.DB.ExecContext(ctx, `TRUNCATE checkpoints, products`)
	s.Require().NoError(err)
	_, err = s.pg.DB.ExecContext(ctx, `UPDATE product_counter SET next_id = 0`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) create(name string) ledger.ProductID {
	id, err := s.store.CreateProduct(context.Background(), func(id ledger.ProductID) (ledger.Product, ledger.Checkpoint) {
		label := ledger.CreationLabel(id, s.now)
		return ledger.Product{
				ID: id, Name: name, Manufacturer: "factory-7",
				Status: ledger.StatusCreated, CreatedAt: s.now,
			}, ledger.Checkpoint{
				Fingerprint: ledger.ComputeFingerprint(label, id, "factory-7", s.now),
				ProductID:   id, Label: label, Verifier: "factory-7",
				Status: ledger.StatusCreated, RecordedAt: s.now,
			}
	})
	s.Require().NoError(err)
	return id
}

func (s *PostgresStoreSuite) TestCreateAndGet() {
	id := s.create("Widget")
	s.Equal(ledger.ProductID(0), id)
	s.Equal(ledger.ProductID(1), s.create("Widget"))

	product, err := s.store.GetProduct(context.Background(), id)
	s.Require().NoError(err)
	s.Equal("Widget", product.Name)
	s.Equal(ledger.StatusCreated, product.Status)
	s.True(product.CreatedAt.Equal(s.now))

	checkpoints, err := s.store.ListCheckpoints(context.Background(), id)
	s.Require().NoError(err)
	s.Require().Len(checkpoints, 1)
	s.Equal(ledger.CreationLabel(id, s.now), checkpoints[0].Label)
}

func (s *PostgresStoreSuite) TestGetProductNotFound() {
	_, err := s.store.GetProduct(context.Background(), 999)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *PostgresStoreSuite) TestUpdateAppendsCheckpoint() {
	id := s.create("Widget")
	later := s.now.Add(time.Hour)
	fp := ledger.ComputeFingerprint("mfg-done", id, "factory-7", later)

	err := s.store.UpdateProduct(context.Background(), id, func(p *ledger.Product) (ledger.Checkpoint, error) {
		p.Status = ledger.StatusManufacturingComplete
		return ledger.Checkpoint{
			Fingerprint: fp, ProductID: id, Label: "mfg-done",
			Verifier: "factory-7", Status: ledger.StatusManufacturingComplete,
			RecordedAt: later,
		}, nil
	})
	s.Require().NoError(err)

	product, err := s.store.GetProduct(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(ledger.StatusManufacturingComplete, product.Status)

	checkpoint, err := s.store.GetCheckpoint(context.Background(), id, fp)
	s.Require().NoError(err)
	s.Equal("mfg-done", checkpoint.Label)
	s.True(checkpoint.RecordedAt.Equal(later))
}

func (s *PostgresStoreSuite) TestUpdateAbortsAtomically() {
	id := s.create("Widget")

	err := s.store.UpdateProduct(context.Background(), id, func(p *ledger.Product) (ledger.Checkpoint, error) {
		p.Status = ledger.StatusAvailable
		return ledger.Checkpoint{}, dErrors.New(dErrors.CodeInvalidProgression, "nope")
	})
	s.Require().Error(err)

	product, err := s.store.GetProduct(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(ledger.StatusCreated, product.Status)

	checkpoints, err := s.store.ListCheckpoints(context.Background(), id)
	s.Require().NoError(err)
	s.Len(checkpoints, 1)
}

func (s *PostgresStoreSuite) TestDuplicateFingerprintRejected() {
	id := s.create("Widget")
	fp := ledger.ComputeFingerprint("dup", id, "factory-7", s.now)

	write := func(target ledger.Status) error {
		return s.store.UpdateProduct(context.Background(), id, func(p *ledger.Product) (ledger.Checkpoint, error) {
			p.Status = target
			return ledger.Checkpoint{
				Fingerprint: fp, ProductID: id, Label: "dup",
				Verifier: "factory-7", Status: target, RecordedAt: s.now,
			}, nil
		})
	}

	s.Require().NoError(write(ledger.StatusManufacturingComplete))

	err := write(ledger.StatusShippedByManufacturer)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeConflict))

	product, err := s.store.GetProduct(context.Background(), id)
	s.Require().NoError(err)
	s.Equal(ledger.StatusManufacturingComplete, product.Status)
}

func (s *PostgresStoreSuite) TestUpdateNotFound() {
	err := s.store.UpdateProduct(context.Background(), 999, func(p *ledger.Product) (ledger.Checkpoint, error) {
		return ledger.Checkpoint{}, nil
	})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}
