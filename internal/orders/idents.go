package orders

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// trackingAlphabet excludes the ambiguous characters 0/1/I/O.
const trackingAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const trackingLength = 6

// NewOrderNumber builds a human order reference from the submission timestamp
// and a random suffix. Uniqueness is probabilistic; the orders table carries a
// unique index as the backstop.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), rand.Intn(1000))
}

// NewTrackingNumber returns a SLI- prefixed 6-character code.
func NewTrackingNumber() string {
	var b strings.Builder
	b.WriteString("SLI-")
	for i := 0; i < trackingLength; i++ {
		b.WriteByte(trackingAlphabet[rand.Intn(len(trackingAlphabet))])
	}
	return b.String()
}
