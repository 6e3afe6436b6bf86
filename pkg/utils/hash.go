package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes is used to derive ETag values for read API responses.
// Racing lines change only when a track is reprocessed, so a content
// hash lets clients and CDNs revalidate cheaply.
func HashBytes(arg []byte) string {
	hasher := sha256.New()
	hasher.Write(arg)
	return hex.EncodeToString(hasher.Sum(nil))
}
