package common

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// DefaultRawBodyLimit defines the maximum number of characters retained from a
// provider response body when it is echoed into an outcome detail.
const DefaultRawBodyLimit = 1024

// defaultReadLimit bounds how many bytes are read from a provider body.
const defaultReadLimit int64 = 16 * 1024

// TruncateRaw trims the supplied string to the specified rune limit. If limit
// is zero or negative it returns an empty string.
func TruncateRaw(raw string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(raw) <= limit {
		return raw
	}
	runes := []rune(raw)
	return string(runes[:limit])
}

// ReadBody reads at most limit bytes from rc. A non-positive limit uses 16KiB.
func ReadBody(rc io.Reader, limit int64) (string, error) {
	if rc == nil {
		return "", nil
	}
	if limit <= 0 {
		limit = defaultReadLimit
	}
	data, err := io.ReadAll(io.LimitReader(rc, limit))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}
