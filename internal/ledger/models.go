// Package ledger owns product records and their append-only checkpoint
// history. It is the only component allowed to mutate them, and every mutation
// runs through the role-gated, forward-only state machine in Service.
package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"traceline/internal/registry"
	"traceline/pkg/domain"
	dErrors "traceline/pkg/domain-errors"
)

// ProductID is a sequential identifier, assigned starting at 0 and never
// reused.
type ProductID uint64

// ParseProductID constructs a ProductID from external input.
func ParseProductID(s string) (ProductID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid product id: "+s)
	}
	return ProductID(n), nil
}

// Status is the totally ordered product lifecycle enumeration. A product's
// status only ever moves to a strictly greater ordinal.
type Status int

const (
	StatusCreated Status = iota
	StatusManufacturingComplete
	StatusShippedByManufacturer
	StatusReceivedByDistributor
	StatusShippedByDistributor
	StatusReceivedByRetailer
	StatusAvailable
)

var statusNames = map[Status]string{
	StatusCreated:               "created",
	StatusManufacturingComplete: "manufacturing_complete",
	StatusShippedByManufacturer: "shipped_by_manufacturer",
	StatusReceivedByDistributor: "received_by_distributor",
	StatusShippedByDistributor:  "shipped_by_distributor",
	StatusReceivedByRetailer:    "received_by_retailer",
	StatusAvailable:             "available",
}

var statusValues = func() map[string]Status {
	m := make(map[string]Status, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}
	return m
}()

// ParseStatus constructs a Status from external input.
//
// Errors: returns CodeBadRequest when the value is not one of the seven
// lifecycle states.
func ParseStatus(s string) (Status, error) {
	status, ok := statusValues[s]
	if !ok {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid status: "+s)
	}
	return status, nil
}

// IsValid checks if the status is one of the seven lifecycle states.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON encodes the status as its string name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its string name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	status, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// RequiredRole maps a target status to the role a caller must hold to verify
// a checkpoint for it. The mapping is exhaustive over verifiable targets:
// StatusCreated is only reachable through product creation and everything
// outside the enumeration is rejected, so no transition ever bypasses the
// role gate.
func RequiredRole(target Status) (registry.Role, bool) {
	switch target {
	case StatusManufacturingComplete, StatusShippedByManufacturer:
		return registry.RoleManufacturer, true
	case StatusReceivedByDistributor, StatusShippedByDistributor:
		return registry.RoleDistributor, true
	case StatusReceivedByRetailer, StatusAvailable:
		return registry.RoleRetailer, true
	default:
		return "", false
	}
}

// Product is the central entity. ID, Manufacturer, and CreatedAt are immutable
// after creation; Distributor and Retailer are recorded when the first
// transition of the matching role class occurs.
type Product struct {
	ID           ProductID       `json:"id"`
	Name         string          `json:"name"`
	Manufacturer domain.Identity `json:"manufacturer"`
	Distributor  domain.Identity `json:"distributor,omitempty"`
	Retailer     domain.Identity `json:"retailer,omitempty"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Fingerprint is the content-addressed identity of a checkpoint: a SHA-256
// digest over the canonical encoding of (label, product id, verifier,
// timestamp).
type Fingerprint [sha256.Size]byte

// ComputeFingerprint derives a checkpoint fingerprint. Each field is
// length-prefixed before hashing so no two distinct tuples share an encoding.
func ComputeFingerprint(label string, id ProductID, verifier domain.Identity, ts time.Time) Fingerprint {
	h := sha256.New()
	writeField := func(b []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], uint64(id))
	var tsBytes [8]byte
	binary.BigEndian.PutUint64(tsBytes[:], uint64(ts.UnixNano()))

	writeField([]byte(label))
	writeField(idBytes[:])
	writeField([]byte(verifier))
	writeField(tsBytes[:])

	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}

// ParseFingerprint decodes the hex form of a fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != sha256.Size {
		return Fingerprint{}, dErrors.New(dErrors.CodeBadRequest, "invalid fingerprint")
	}
	var fp Fingerprint
	copy(fp[:], raw)
	return fp, nil
}

// String returns the hex representation of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// MarshalJSON encodes the fingerprint as a hex string.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a fingerprint from its hex string form.
func (f *Fingerprint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	fp, err := ParseFingerprint(s)
	if err != nil {
		return err
	}
	*f = fp
	return nil
}

// Checkpoint is an immutable record marking one verified event in a product's
// journey. Once written it is never altered or removed.
type Checkpoint struct {
	Fingerprint Fingerprint     `json:"fingerprint"`
	ProductID   ProductID       `json:"product_id"`
	Label       string          `json:"label"`
	Verifier    domain.Identity `json:"verifier"`
	Status      Status          `json:"status"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// CreationLabel is the label synthesized for a product's initial checkpoint.
func CreationLabel(id ProductID, ts time.Time) string {
	return fmt.Sprintf("creation:%d:%d", id, ts.Unix())
}
