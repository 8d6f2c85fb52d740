package daemon

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// generateWebhookSecret returns a 64-character hex-encoded string backed
// by 32 bytes from a cryptographically secure source, matching the
// teacher's handlers.generateWebhookSecret.
func generateWebhookSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// broken; there is no sane recovery, so this mirrors the
		// teacher's fatal-on-entropy-failure posture.
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
