// Package registry holds the role grant relation the checkpoint state machine
// authorizes against. Grants are additive only: there is no revocation, so a
// role check can never flip from true back to false.
package registry

import (
	"crypto/sha256"
	"encoding/hex"

	dErrors "traceline/pkg/domain-errors"
)

// Role is a named capability gating which status transitions a caller may
// perform. The set is a closed enumeration for this domain.
type Role string

// Supported roles.
const (
	RoleManufacturer Role = "manufacturer"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
)

// validRoles is the single source of truth for valid roles.
var validRoles = map[Role]bool{
	RoleManufacturer: true,
	RoleDistributor:  true,
	RoleRetailer:     true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeBadRequest when the value is empty or unsupported; no
// other errors are expected.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "role cannot be empty")
	}
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid role: "+s)
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Fingerprint returns the fixed, globally-known identifier of the role: the
// hex SHA-256 digest of its name. Stores key grants by role name; the
// fingerprint exists for external systems that reference roles by digest.
func (r Role) Fingerprint() string {
	sum := sha256.Sum256([]byte(r))
	return hex.EncodeToString(sum[:])
}
