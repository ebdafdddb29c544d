// internal/daily/daily.go
//
// Daily Challenge date keys and deterministic field seeds.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the field seed for the day of t: the first 8 bytes of
// HMAC-SHA256(salt, YYYY-MM-DD). Everyone playing on the same day with the
// same salt gets the same field.
func Seed(t time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]) >> 1)
}
