// Package slug generates short URL-safe public identifiers for files.
// Generation is stateless; callers enforce global uniqueness by
// regenerating on collision.
package slug

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	suffixLength  = 4
	maxNameLength = 30
	alphanumeric  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var adjectives = []string{
	"swift", "bright", "calm", "bold", "cool", "deep", "fair", "fast", "fine", "free",
	"glad", "good", "keen", "kind", "mild", "neat", "nice", "pure", "rich", "safe",
	"slim", "soft", "true", "warm", "wise", "able", "epic", "mega", "super", "ultra",
	"prime", "elite", "grand", "noble", "royal", "vivid", "lucid", "crisp", "fresh", "sleek",
}

var nouns = []string{
	"star", "moon", "wave", "wind", "fire", "leaf", "rose", "snow", "rain", "lake",
	"peak", "rock", "tree", "bird", "fish", "bear", "wolf", "lion", "hawk", "deer",
	"jade", "ruby", "gold", "iron", "sage", "mint", "pine", "palm", "fern", "vine",
	"cloud", "storm", "flame", "spark", "frost", "bloom", "crest", "ridge", "delta", "pulse",
}

var (
	invalidChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	separatorRuns = regexp.MustCompile(`[\s_]+`)
	hyphenRuns    = regexp.MustCompile(`-+`)
)

// Readable returns an adjective-noun slug with a random suffix,
// e.g. "swift-star-a7b3".
func Readable() string {
	return pick(adjectives) + "-" + pick(nouns) + "-" + suffix()
}

// Short returns a compact random slug, e.g. "a7b3-c9d1".
func Short() string {
	return suffix() + "-" + suffix()
}

// FromName derives a slug from a caller-supplied name: lowercased,
// stripped to [a-z0-9-], separator runs collapsed, truncated to 30
// characters, plus a random suffix. An empty cleaned name falls back to
// "file-{suffix}".
func FromName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = invalidChars.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxNameLength {
		s = strings.TrimRight(s[:maxNameLength], "-")
	}

	if s == "" {
		return "file-" + suffix()
	}
	return s + "-" + suffix()
}

func pick(words []string) string {
	return words[randomIndex(len(words))]
}

func suffix() string {
	b := make([]byte, suffixLength)
	for i := range b {
		b[i] = alphanumeric[randomIndex(len(alphanumeric))]
	}
	return string(b)
}

func randomIndex(n int) int {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(idx.Int64())
}
