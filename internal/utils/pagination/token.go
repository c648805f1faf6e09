package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeToken builds the keyset cursor for journal entry listings from the last
// row's entry date and creation time. The result is safe to put in a query string.
func EncodeToken(entryDate time.Time, createdAt time.Time) string {
	raw := entryDate.UTC().Format(timeFormat) + "|" + createdAt.UTC().Format(timeFormat)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken.
func DecodeToken(token string) (time.Time, time.Time, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (base64 decode): %w", err)
	}
	dateStr, createdStr, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token: missing separator")
	}

	entryDate, err := time.Parse(timeFormat, dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (entry date): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, createdStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (created at): %w", err)
	}
	return entryDate, createdAt, nil
}
