// Package hashing provides the exact and fuzzy fingerprints used for
// snapshot change detection.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
	"unicode"
)

// Metadata holds the job fields covered by the metadata digest.
// Field order here is irrelevant: the digest is computed over a canonical
// JSON projection with sorted keys.
type Metadata struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	FirstPublished string `json:"first_published"`
	RequisitionID  string `json:"requisition_id"`
}

// ContentHash computes a SHA-256 hex digest of the raw content body.
func ContentHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// MetadataHash computes a SHA-256 hex digest over a canonical JSON
// projection of the five identity metadata fields. encoding/json emits
// struct fields in declaration order, so the projection is built from a
// sorted map to keep the byte stream deterministic regardless of how the
// struct evolves.
func MetadataHash(meta Metadata) (string, error) {
	projection := map[string]string{
		"company":         meta.Company,
		"first_published": meta.FirstPublished,
		"location":        meta.Location,
		"requisition_id":  meta.RequisitionID,
		"title":           meta.Title,
	}
	// json.Marshal sorts map keys, which is exactly the canonical form needed.
	canonical, err := json.Marshal(projection)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize metadata: %w", err)
	}
	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:]), nil
}

// Simhash computes a 64-bit fuzzy fingerprint of text. Similar texts land
// close in Hamming distance; unrelated texts land far apart. Empty or
// whitespace-only input yields 0.
func Simhash(text string) uint64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var acc [64]int
	for _, token := range tokens {
		digest := sha256.Sum256([]byte(token))
		for bit := 0; bit < 64; bit++ {
			// Bit i of the first 8 digest bytes, most significant first.
			if digest[bit/8]&(1<<(7-uint(bit%8))) != 0 {
				acc[bit]++
			} else {
				acc[bit]--
			}
		}
	}

	var fingerprint uint64
	for bit := 0; bit < 64; bit++ {
		if acc[bit] > 0 {
			fingerprint |= 1 << uint(63-bit)
		}
	}
	return fingerprint
}

// HammingDistance returns the number of differing bits between two
// 64-bit fingerprints.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// tokenize lowercases, strips punctuation, and splits on whitespace.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			return -1
		default:
			return unicode.ToLower(r)
		}
	}, text)
	return strings.Fields(cleaned)
}
