package ledger

import (
	"context"
	"sync"

	dErrors "traceline/pkg/domain-errors"
)

// productRecord pairs a product with its checkpoint set. checkpointOrder
// preserves append order for listings; the map gives O(1) fingerprint lookups
// and duplicate detection.
type productRecord struct {
	product         Product
	checkpoints     map[Fingerprint]Checkpoint
	checkpointOrder []Fingerprint
}

// InMemoryStore keeps products in a dense slice indexed by product ID, so the
// slice length doubles as the never-reused ID counter. A single mutex
// serializes mutations, which gives CreateProduct and UpdateProduct the
// all-or-nothing commit the state machine requires.
type InMemoryStore struct {
	mu       sync.RWMutex
	products []*productRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) CreateProduct(_ context.Context, build func(id ProductID) (Product, Checkpoint)) (ProductID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ProductID(len(s.products))
	product, initial := build(id)

	rec := &productRecord{
		product:         product,
		checkpoints:     map[Fingerprint]Checkpoint{initial.Fingerprint: initial},
		checkpointOrder: []Fingerprint{initial.Fingerprint},
	}
	s.products = append(s.products, rec)
	return id, nil
}

func (s *InMemoryStore) UpdateProduct(_ context.Context, id ProductID, apply func(p *Product) (Checkpoint, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.record(id)
	if err != nil {
		return err
	}

	// Mutate a copy so a failed apply leaves no partial state.
	updated := rec.product
	checkpoint, err := apply(&updated)
	if err != nil {
		return err
	}
	if _, exists := rec.checkpoints[checkpoint.Fingerprint]; exists {
		return dErrors.New(dErrors.CodeConflict, "checkpoint fingerprint already recorded")
	}

	rec.product = updated
	rec.checkpoints[checkpoint.Fingerprint] = checkpoint
	rec.checkpointOrder = append(rec.checkpointOrder, checkpoint.Fingerprint)
	return nil
}

func (s *InMemoryStore) GetProduct(_ context.Context, id ProductID) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.record(id)
	if err != nil {
		return Product{}, err
	}
	return rec.product, nil
}

func (s *InMemoryStore) ListCheckpoints(_ context.Context, id ProductID) ([]Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.record(id)
	if err != nil {
		return nil, err
	}
	out := make([]Checkpoint, 0, len(rec.checkpointOrder))
	for _, fp := range rec.checkpointOrder {
		out = append(out, rec.checkpoints[fp])
	}
	return out, nil
}

func (s *InMemoryStore) GetCheckpoint(_ context.Context, id ProductID, fp Fingerprint) (Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.record(id)
	if err != nil {
		return Checkpoint{}, err
	}
	checkpoint, ok := rec.checkpoints[fp]
	if !ok {
		return Checkpoint{}, dErrors.New(dErrors.CodeNotFound, "checkpoint not recorded")
	}
	return checkpoint, nil
}

// record must be called with at least the read lock held.
func (s *InMemoryStore) record(id ProductID) (*productRecord, error) {
	if id >= ProductID(len(s.products)) {
		return nil, dErrors.New(dErrors.CodeNotFound, "product has no record")
	}
	return s.products[id], nil
}
