package slug

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var suffixPattern = regexp.MustCompile(`^[a-z0-9]{4}$`)

func TestReadable(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := Readable()
		parts := strings.Split(s, "-")
		assert.Len(t, parts, 3)
		assert.Contains(t, adjectives, parts[0])
		assert.Contains(t, nouns, parts[1])
		assert.Regexp(t, suffixPattern, parts[2])
		seen[s] = true
	}
	// 50 draws over this space should essentially never collide
	assert.Greater(t, len(seen), 45)
}

func TestShort(t *testing.T) {
	s := Short()
	parts := strings.Split(s, "-")
	assert.Len(t, parts, 2)
	assert.Regexp(t, suffixPattern, parts[0])
	assert.Regexp(t, suffixPattern, parts[1])
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		base  string
	}{
		{"simple", "report", "report"},
		{"uppercase folded", "Quarterly Report", "quarterly-report"},
		{"underscores stripped", "my_summer_photo", "mysummerphoto"},
		{"underscore runs stripped", "my__summer__photo", "mysummerphoto"},
		{"specials stripped", "budget (final)!.v2", "budget-finalv2"},
		{"hyphen runs collapse", "a--b---c", "a-b-c"},
		{"leading trailing trimmed", "--hello--", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromName(tt.input)
			parts := strings.Split(s, "-")
			suffix := parts[len(parts)-1]
			assert.Regexp(t, suffixPattern, suffix)
			assert.Equal(t, tt.base, strings.TrimSuffix(s, "-"+suffix))
		})
	}
}

func TestFromNameTruncatesLongBase(t *testing.T) {
	s := FromName(strings.Repeat("a", 100))
	parts := strings.Split(s, "-")
	assert.Len(t, parts, 2)
	assert.Len(t, parts[0], 30)
}

func TestFromNameEmptyFallsBack(t *testing.T) {
	for _, input := range []string{"", "!!!", "日本語"} {
		s := FromName(input)
		assert.True(t, strings.HasPrefix(s, "file-"), "got %q for %q", s, input)
	}
}
