package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor marks the last row of a page for keyset pagination. Rows are ordered
// by date descending, then by id descending.
type Cursor struct {
	Date time.Time
	ID   string
}

// EncodeCursor creates an opaque, URL-safe token from a row's date and id.
func EncodeCursor(date time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", date.UTC().Format(timeFormat), id)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor. Malformed tokens wrap
// apperrors.ErrValidation since they always come from a client.
func DecodeCursor(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (base64 decode)", apperrors.ErrValidation)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (date parse)", apperrors.ErrValidation)
	}
	return Cursor{Date: date, ID: parts[1]}, nil
}

// After reports whether a row with date and id sorts after the cursor,
// i.e. belongs to a later page.
func (c Cursor) After(date time.Time, id string) bool {
	if date.Equal(c.Date) {
		return id < c.ID
	}
	return date.Before(c.Date)
}
