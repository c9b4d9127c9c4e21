package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
)

// RenderJSON writes documents as canonical JSON: a single object for one
// document, an array otherwise, mirroring what the JSON importer accepts.
func RenderJSON(w io.Writer, docs []*changelog.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if len(docs) == 1 {
		if err := enc.Encode(docs[0]); err != nil {
			return fmt.Errorf("encoding changelog JSON: %w", err)
		}
		return nil
	}
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encoding changelog JSON: %w", err)
	}
	return nil
}

// RenderJSONString is a convenience wrapper that renders to a string.
func RenderJSONString(docs []*changelog.Document) (string, error) {
	var b strings.Builder
	if err := RenderJSON(&b, docs); err != nil {
		return "", err
	}
	return b.String(), nil
}
