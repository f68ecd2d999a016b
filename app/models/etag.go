package models

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"
)

// ETag returns a strong entity tag for the post's current representation.
func ETag(p *Post) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`, nil
}
