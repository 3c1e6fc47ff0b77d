package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Domain-specific hash types
type (
	// DataHash fingerprints an observation matrix.
	DataHash Hash
	// Fingerprint covers everything that determines a run's output:
	// node order, matrix contents, and configuration.
	Fingerprint Hash
)

func NewDataHash(data []byte) DataHash { return DataHash(NewHash(data)) }

func (h DataHash) String() string    { return Hash(h).String() }
func (h Fingerprint) String() string { return Hash(h).String() }

// ComputeFingerprint hashes ordered parts into a single run fingerprint.
// Identical parts always yield an identical fingerprint.
func ComputeFingerprint(parts ...string) Fingerprint {
	var data strings.Builder
	for _, p := range parts {
		data.WriteString(p)
		data.WriteByte(0)
	}
	return Fingerprint(NewHash([]byte(data.String())))
}
