package task

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	minIDLength  = 3
	maxIDLength  = 8
	hexChunkSize = 4 // 16 bits per base36 chunk
)

// GenerateID creates a short task ID from the text, creation time and a
// random UUID. It starts at minIDLength characters and grows up to
// maxIDLength until existsFn reports no collision.
func GenerateID(text string, createdAt time.Time, existsFn func(string) bool) string {
	nonce := uuid.New()

	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce[:])
	hash := h.Sum(nil)

	base36 := hexToBase36(hex.EncodeToString(hash))

	for length := minIDLength; length <= maxIDLength; length++ {
		if length > len(base36) {
			break
		}
		candidate := base36[:length]
		if !existsFn(candidate) {
			return candidate
		}
	}

	// Every prefix collided; retry with a fresh nonce.
	return GenerateID(text, createdAt, existsFn)
}

// hexToBase36 converts a hex string to base36.
func hexToBase36(hexStr string) string {
	var result strings.Builder
	for i := 0; i < len(hexStr); i += hexChunkSize {
		end := min(i+hexChunkSize, len(hexStr))
		val, _ := strconv.ParseUint(hexStr[i:end], 16, 64)
		result.WriteString(strconv.FormatUint(val, 36))
	}
	return result.String()
}
