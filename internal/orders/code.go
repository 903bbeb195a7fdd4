package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewOrderCode returns a human-readable order code, e.g.
// FF-20260830143055-4821. Uniqueness rests on generation entropy
// (second-resolution timestamp plus four random digits), which is
// plenty for a single shop's order volume.
func NewOrderCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	suffix := int64(1000)
	if err == nil {
		suffix += n.Int64()
	}
	return fmt.Sprintf("FF-%s-%d", time.Now().Format("20060102150405"), suffix)
}
