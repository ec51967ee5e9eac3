package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentHash derives the content identifier for a record from its semantic
// fields. The field order and the "|" delimiter are a frozen external
// contract: changing either changes every future identifier.
//
// Identical field tuples hash identically by design (content addressing).
// The identifier is computed once at creation time and never recomputed,
// even when fields later change through an update.
func ContentHash(name, email, education, experience, skills string) string {
	content := strings.Join([]string{name, email, education, experience, skills}, "|")
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
