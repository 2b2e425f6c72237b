package bugs

import (
	"crypto/sha1" //nolint:gosec // ids only need to be unique, not secret
	"encoding/hex"
	"strings"
)

// Hasher turns the parts describing a new bug into its id.
type Hasher func(parts ...string) string

// SHA1Hasher hashes the concatenation of all parts. This is the production
// strategy: a title filed twice, or by two users, gets two ids.
func SHA1Hasher(parts ...string) string {
	return hashString(strings.Join(parts, ""))
}

// SimpleHasher hashes only the first part, so a title always maps to the
// same id. Tests use it to get predictable ids and prefixes.
func SimpleHasher(parts ...string) string {
	if len(parts) == 0 {
		return hashString("")
	}

	return hashString(parts[0])
}

func hashString(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec // see import

	return hex.EncodeToString(sum[:])
}
