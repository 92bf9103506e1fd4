package glosa

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a text hash and a dictionary version.
func CacheKey(hash, dictVersion string) string {
	return hash + ":" + dictVersion
}

// SegmentKey generates the segment cache key for a body. Unlike HashText the
// body is hashed verbatim, since surrounding whitespace is part of the output.
func SegmentKey(kind SpanKind, variant, body, dictVersion string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write([]byte(body))
	return CacheKey(hex.EncodeToString(h.Sum(nil)), dictVersion)
}
