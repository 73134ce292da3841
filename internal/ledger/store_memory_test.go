package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "traceline/pkg/domain-errors"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) create(name string) ProductID {
	id, err := s.store.CreateProduct(s.ctx, func(id ProductID) (Product, Checkpoint) {
		label := CreationLabel(id, s.now)
		return Product{
				ID: id, Name: name, Manufacturer: "factory-7",
				Status: StatusCreated, CreatedAt: s.now,
			}, Checkpoint{
				Fingerprint: ComputeFingerprint(label, id, "factory-7", s.now),
				ProductID:   id, Label: label, Verifier: "factory-7",
				Status: StatusCreated, RecordedAt: s.now,
			}
	})
	s.Require().NoError(err)
	return id
}

func (s *InMemoryStoreSuite) TestSequentialIDs() {
	s.Equal(ProductID(0), s.create("Widget"))
	s.Equal(ProductID(1), s.create("Widget")) // duplicate names permitted
	s.Equal(ProductID(2), s.create(""))       // empty names permitted
}

func (s *InMemoryStoreSuite) TestCreateStoresInitialCheckpoint() {
	id := s.create("Widget")

	checkpoints, err := s.store.ListCheckpoints(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(checkpoints, 1)
	s.Equal(CreationLabel(id, s.now), checkpoints[0].Label)
	s.Equal(StatusCreated, checkpoints[0].Status)
}

func (s *InMemoryStoreSuite) TestGetProductNotFound() {
	_, err := s.store.GetProduct(s.ctx, 999)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *InMemoryStoreSuite) TestUpdateAppendsCheckpoint() {
	id := s.create("Widget")
	fp := ComputeFingerprint("mfg-done", id, "factory-7", s.now.Add(time.Hour))

	err := s.store.UpdateProduct(s.ctx, id, func(p *Product) (Checkpoint, error) {
		p.Status = StatusManufacturingComplete
		return Checkpoint{
			Fingerprint: fp, ProductID: id, Label: "mfg-done",
			Verifier: "factory-7", Status: StatusManufacturingComplete,
			RecordedAt: s.now.Add(time.Hour),
		}, nil
	})
	s.Require().NoError(err)

	product, err := s.store.GetProduct(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(StatusManufacturingComplete, product.Status)

	checkpoint, err := s.store.GetCheckpoint(s.ctx, id, fp)
	s.Require().NoError(err)
	s.Equal("mfg-done", checkpoint.Label)

	checkpoints, err := s.store.ListCheckpoints(s.ctx, id)
	s.Require().NoError(err)
	s.Len(checkpoints, 2)
	s.Equal(fp, checkpoints[1].Fingerprint)
}

func (s *InMemoryStoreSuite) TestUpdateAbortsWithoutPartialState() {
	id := s.create("Widget")

	err := s.store.UpdateProduct(s.ctx, id, func(p *Product) (Checkpoint, error) {
		p.Status = StatusAvailable
		p.Retailer = "shop-1"
		return Checkpoint{}, dErrors.New(dErrors.CodeInvalidProgression, "nope")
	})
	s.Require().Error(err)

	product, err := s.store.GetProduct(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(StatusCreated, product.Status)
	s.Empty(product.Retailer)

	checkpoints, err := s.store.ListCheckpoints(s.ctx, id)
	s.Require().NoError(err)
	s.Len(checkpoints, 1)
}

func (s *InMemoryStoreSuite) TestDuplicateFingerprintRejected() {
	id := s.create("Widget")
	fp := ComputeFingerprint("dup", id, "factory-7", s.now)

	write := func(target Status) error {
		return s.store.UpdateProduct(s.ctx, id, func(p *Product) (Checkpoint, error) {
			p.Status = target
			return Checkpoint{
				Fingerprint: fp, ProductID: id, Label: "dup",
				Verifier: "factory-7", Status: target, RecordedAt: s.now,
			}, nil
		})
	}

	s.Require().NoError(write(StatusManufacturingComplete))

	err := write(StatusShippedByManufacturer)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeConflict))

	// The rejected write must not have touched the product either.
	product, err := s.store.GetProduct(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(StatusManufacturingComplete, product.Status)
}

func (s *InMemoryStoreSuite) TestCheckpointNotFound() {
	id := s.create("Widget")
	_, err := s.store.GetCheckpoint(s.ctx, id, Fingerprint{1, 2, 3})
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}
