package genotype

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Signature fingerprints an ordered shape list. Two containers share a
// signature exactly when their genomes are interchangeable.
func Signature(shapes []Shape) string {
	parts := make([]string, 0, len(shapes))
	for _, s := range shapes {
		parts = append(parts, s.String())
	}
	digest := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(digest[:8])
}
