package changelog

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// pseudoHashLen matches the length of a real git SHA-1 hex digest so
// synthesized commits are indistinguishable in shape from git-derived ones.
const pseudoHashLen = 40

// shortHashLen is the abbreviated hash length used for display and links.
const shortHashLen = 7

// SynthesizeHash derives a stable pseudo-identity for an entry that has no
// real git hash. The digest is FNV-1a over the UTF-8 bytes of scope and
// subject, hex-encoded and zero-filled to 40 characters, so re-importing
// identical text yields identical hashes across runs and platforms.
func SynthesizeHash(subject, scope string) (hash, shortHash string) {
	h := fnv.New32a()
	// The separator keeps ("ab","c") and ("a","bc") from colliding.
	fmt.Fprintf(h, "%s\x00%s", scope, subject)
	digest := fmt.Sprintf("%08x", h.Sum32())
	hash = digest + strings.Repeat("0", pseudoHashLen-len(digest))
	return hash, hash[:shortHashLen]
}

// ExpandShortHash widens an abbreviated hash extracted from markup to the
// canonical 40-character width. The prefix is preserved so the expanded
// value still matches the original abbreviation.
func ExpandShortHash(short string) string {
	short = strings.ToLower(strings.TrimSpace(short))
	if len(short) >= pseudoHashLen {
		return short[:pseudoHashLen]
	}
	return short + strings.Repeat("0", pseudoHashLen-len(short))
}

// ShortenHash returns the display abbreviation of a full hash.
func ShortenHash(hash string) string {
	if len(hash) <= shortHashLen {
		return hash
	}
	return hash[:shortHashLen]
}
