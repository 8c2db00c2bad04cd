package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := NewService("test-secret-key", ttl)
	require.NoError(t, err)
	return svc
}

func TestGenerateAndParse(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, err := svc.Generate("alice@example.com", 42, true)
	require.NoError(t, err)
	assert.Len(t, strings.Split(signed, "."), 3)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestParseRejectsTampering(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, err := svc.Generate("alice@example.com", 42, false)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = svc.Parse(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := NewService("another-secret", time.Hour)
	require.NoError(t, err)

	signed, err := svc.Generate("alice@example.com", 42, false)
	require.NoError(t, err)

	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	signed, err := svc.Generate("alice@example.com", 42, false)
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	for _, input := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.???.###"} {
		_, err := svc.Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}
