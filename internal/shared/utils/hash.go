package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Hasher provides deterministic hashing for cache keys
type Hasher struct{}

// DefaultHasher returns the standard SHA-256 hasher
func DefaultHasher() *Hasher { return &Hasher{} }

// Hash computes a hex-encoded SHA-256 of the input data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString computes a hash of a string
func (h *Hasher) HashString(s string) string {
	return h.Hash([]byte(s))
}

// Fingerprint produces a deterministic key for an expression together
// with its parameter bindings. Identical inputs always map to the same
// fingerprint, so it can key a result cache.
func (h *Hasher) Fingerprint(expression string, bindings map[string]float64) string {
	parts := make([]string, 0, len(bindings)+1)
	parts = append(parts, expression)
	for name, v := range bindings {
		parts = append(parts, name+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	// Binding order must not affect the key.
	sort.Strings(parts[1:])
	return h.HashString(strings.Join(parts, "|"))
}

// ShortHash returns an 8-character prefix for display and logging
func ShortHash(fullHash string) string {
	if len(fullHash) < 8 {
		return fullHash
	}
	return fullHash[:8]
}
