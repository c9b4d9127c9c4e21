package changelog

import (
	_ "embed"
	"fmt"
)

//go:embed changelog.md
var embeddedChangelog []byte

// Embedded returns the raw embedded changelog content for this tool.
// The content is fixed at build time.
func Embedded() []byte {
	return embeddedChangelog
}

// LoadEmbedded parses the tool's own changelog through the same pipeline
// used for imports, so the CLI can display its history without touching
// the file system.
func LoadEmbedded() (*ImportResult, error) {
	if len(embeddedChangelog) == 0 {
		return nil, fmt.Errorf("embedded changelog is empty (binary may have been built without embedded content)")
	}
	return ImportText(string(embeddedChangelog), FormatKeepAChangelog)
}
