package webhook

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

const (
	// MaxJitter spreads retries of events that failed together so they do
	// not storm the downstream in lockstep.
	MaxJitter = 5 * time.Second

	// maxShift caps the exponential term so a raised retry budget cannot
	// overflow the duration arithmetic.
	maxShift = 20
)

// NextBackoff computes the delay before retrying after the given attempt
// (0-based): baseBackoff * 2^attempt plus random jitter in [0, MaxJitter).
// The exponent grows with the attempt count rather than a fixed table, so the
// schedule self-extends when the retry budget is raised.
func NextBackoff(baseBackoff time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxShift {
		attempt = maxShift
	}
	delay := baseBackoff << uint(attempt)
	return delay + time.Duration(cryptoRandInt63n(int64(MaxJitter)))
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- masked to a positive int64 above
	return int64(uval) % n
}
