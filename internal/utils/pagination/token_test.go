package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 1, 10, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "+", "token must be query-string safe")
	assert.NotContains(t, token, "=")

	gotDate, gotCreated, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entryDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated), "nanoseconds survive the round trip")
}

func TestEncodeToken_NormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	createdAt := time.Date(2025, 1, 10, 17, 0, 0, 0, loc)

	_, gotCreated, err := DecodeToken(EncodeToken(createdAt, createdAt))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, gotCreated.Location())
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!"},
		{"no separator", base64.RawURLEncoding.EncodeToString([]byte("2025-01-10T00:00:00Z"))},
		{"bad entry date", base64.RawURLEncoding.EncodeToString([]byte("yesterday|2025-01-10T00:00:00Z"))},
		{"bad created at", base64.RawURLEncoding.EncodeToString([]byte("2025-01-10T00:00:00Z|later"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
