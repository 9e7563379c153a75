package bookingref

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// New generates a human-readable booking reference: "CW" followed by the
// current date as yymmdd and a 4-digit random suffix, e.g. "CW2401157342".
// The global math/rand/v2 generator is safe for concurrent use, so parallel
// booking attempts never share RNG state.
func New(now time.Time) string {
	return fmt.Sprintf("CW%s%04d", now.UTC().Format("060102"), rand.IntN(9000)+1000)
}
