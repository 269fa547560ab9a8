package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// NewJobReference returns a human-readable job reference like
// SH-20260829-3FA9C2. References are random, not sequential, so they
// leak no volume information; uniqueness is enforced by the database
// and callers retry on collision.
func NewJobReference() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the system entropy source is
		// broken; fall back to a timestamp-only suffix.
		return fmt.Sprintf("SH-%s-%06d", time.Now().UTC().Format("20060102"), time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("SH-%s-%02X%02X%02X", time.Now().UTC().Format("20060102"), buf[0], buf[1], buf[2])
}
