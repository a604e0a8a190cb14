package booking

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateBookingCode builds a human-readable code: prefix, year, compact
// month/day/hour, and a 4-digit random suffix. Uniqueness is probabilistic,
// not enforced; the collision odds are accepted as negligible.
func GenerateBookingCode(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%d%02d%02d%02d%04d",
		prefix, now.Year(), int(now.Month()), now.Day(), now.Hour(), rand.Intn(10000))
}
