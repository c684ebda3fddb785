// Package determinism provides primitives for reproducible batch output.
// Rankings must be identical for identical input regardless of scheduling.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"fuzzy-rank/core/types"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// HashRecords hashes the evaluated fields of records in order
func HashRecords(records []types.Record) ContentHash {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(r.Service, 'g', -1, 64)))
		h.Write([]byte{0})
		h.Write([]byte(r.Price.String()))
		h.Write([]byte{0})
	}
	var sum ContentHash
	copy(sum[:], h.Sum(nil))
	return sum
}

// SortSlice sorts a slice in a stable, deterministic manner
func SortSlice[T any](slice []T, less func(a, b T) bool) {
	sort.SliceStable(slice, func(i, j int) bool {
		return less(slice[i], slice[j])
	})
}
