package vcs

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex lengths of SHA-1 and SHA-256 object names.
const (
	sha1HexLen   = 40
	sha256HexLen = 64
)

// ParseRevisionID validates a textual revision ID and returns its canonical
// lowercase form.
func ParseRevisionID(id string) (string, error) {
	if len(id) != sha1HexLen && len(id) != sha256HexLen {
		return "", fmt.Errorf("%w: %q has length %d", ErrInvalidRevision, id, len(id))
	}
	canonical := strings.ToLower(id)
	if _, err := hex.DecodeString(canonical); err != nil {
		return "", fmt.Errorf("%w: %q is not hex", ErrInvalidRevision, id)
	}
	return canonical, nil
}
