package monitor

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText canonicalizes item text for fingerprinting and matching:
// NFKC fold (full-width forms, compatibility variants), lowercase, and
// whitespace collapsed to single spaces.
func NormalizeText(text string) string {
	folded := norm.NFKC.String(text)
	lowered := strings.ToLower(folded)
	return strings.Join(strings.Fields(lowered), " ")
}

// Fingerprint returns the content hash of normalized item text, used to
// detect duplicate harvested content republished under a different URL.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}
