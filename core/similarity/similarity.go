// Package similarity provides the pure comparison functions used by entity
// deduplication: text normalization, string similarity, vector cosine
// similarity and abbreviation detection.
package similarity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

var (
	// ErrDimensionMismatch is returned when two vectors have different lengths.
	ErrDimensionMismatch = errors.New("vectors must have same dimensions")
	// ErrEmptyVector is returned when a vector has length zero.
	ErrEmptyVector = errors.New("vectors cannot be empty")
)

// MaxAbbreviationLength is the longest a normalized string can be and still
// count as an abbreviation.
const MaxAbbreviationLength = 5

// Normalize lowercases text, strips all characters that are neither
// alphanumeric nor whitespace and trims surrounding whitespace.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// StringSimilarity computes a sequence alignment ratio between the
// normalized forms of a and b: 2*matched/(len(a)+len(b)) where matched is
// the length of the longest common subsequence. The result is in [0,1] and
// symmetric in its arguments.
func StringSimilarity(a, b string) float64 {
	normA := []rune(Normalize(a))
	normB := []rune(Normalize(b))

	total := len(normA) + len(normB)
	if total == 0 {
		return 1.0
	}

	return 2.0 * float64(longestCommonSubsequence(normA, normB)) / float64(total)
}

// longestCommonSubsequence returns the LCS length of two rune slices.
func longestCommonSubsequence(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Single-row DP over b
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// CosineSimilarity computes the cosine similarity between two vectors.
// It returns ErrDimensionMismatch if the vectors differ in length and
// ErrEmptyVector if either vector is empty. A zero-magnitude vector yields
// 0.0 without an error.
func CosineSimilarity(v1, v2 []float32) (float64, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v1), len(v2))
	}
	if len(v1) == 0 {
		return 0, ErrEmptyVector
	}

	var dot, mag1, mag2 float64
	for i := range v1 {
		a := float64(v1[i])
		b := float64(v2[i])
		dot += a * b
		mag1 += a * a
		mag2 += b * b
	}

	if mag1 == 0 || mag2 == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(mag1) * math.Sqrt(mag2)), nil
}

// IsAbbreviation reports whether short is an abbreviation of long. It
// matches either a substring occurrence or the initials of the
// whitespace-separated tokens of long. The check is not symmetric, callers
// must test both orderings.
func IsAbbreviation(short, long string) bool {
	normShort := Normalize(short)
	normLong := Normalize(long)

	if len([]rune(normShort)) > MaxAbbreviationLength {
		return false
	}

	if normShort != "" && strings.Contains(normLong, normShort) {
		return true
	}

	words := strings.Fields(normLong)
	if len(words) == 0 {
		return false
	}
	var initials strings.Builder
	for _, word := range words {
		r := []rune(word)
		initials.WriteRune(r[0])
	}
	return normShort == initials.String()
}
