package reqnum

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// New returns a human-readable request number of the form EXP-YYMM-NNNNN,
// where NNNNN is a random five-digit suffix. Uniqueness is enforced by the
// database column; callers retry on a collision.
func New(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the clock rather than panic.
		n = big.NewInt(now.UnixNano() % 90000)
	}
	return fmt.Sprintf("EXP-%s-%05d", now.Format("0601"), n.Int64()+10000)
}
