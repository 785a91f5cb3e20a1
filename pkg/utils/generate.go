package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

// ==================== RECEIPT ====================

// GenerateReceipt creates the merchant receipt sent with a gateway order.
// Format: rcpt_YYYYMMDD_<12 hex>, well under the gateway's 40 character limit.
func GenerateReceipt(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a uuid fragment
		return fmt.Sprintf("rcpt_%s_%s", now.UTC().Format("20060102"), uuid.NewString()[:12])
	}
	return fmt.Sprintf("rcpt_%s_%s", now.UTC().Format("20060102"), hex.EncodeToString(buf))
}
