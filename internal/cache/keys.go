package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SessionKey derives the cache key for a resolved identity. The raw session
// token never appears in Redis; only its SHA-256 digest does.
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func RateLimitKey(userID string) string {
	return fmt.Sprintf("ratelimit:%s", userID)
}
