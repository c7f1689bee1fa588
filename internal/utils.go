package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateEntryID creates a unique ID for a history entry based on timestamp and source text
// Format: epochMillis_md5(text)[:8]
func GenerateEntryID(original string) string {
	return generateEntryIDAt(time.Now(), original)
}

func generateEntryIDAt(now time.Time, original string) string {
	epochMillis := now.UnixMilli()

	// First 8 chars of the MD5 keep IDs distinct within the same millisecond
	hash := md5.Sum([]byte(original))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// Abbreviate shortens s to at most n runes for log output, appending "..." when cut
func Abbreviate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
