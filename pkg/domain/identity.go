// Package domain holds the identifier types shared across services.
package domain

import dErrors "traceline/pkg/domain-errors"

// Identity is the unforgeable caller identifier supplied by the execution
// environment (the JWT subject at the HTTP boundary). It is opaque to the
// ledger: two identities are the same party iff the strings are equal.
//
// Usage: construct via ParseIdentity at trust boundaries; the zero value means
// "no caller established".
type Identity string

// ParseIdentity constructs an Identity from external input.
//
// Errors: returns CodeBadRequest when the value is empty; no other errors are
// expected.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "identity cannot be empty")
	}
	return Identity(s), nil
}

// IsZero reports whether no identity was established.
func (i Identity) IsZero() bool {
	return i == ""
}

// String returns the string representation of the identity.
func (i Identity) String() string {
	return string(i)
}
