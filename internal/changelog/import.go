package changelog

import (
	"os"
	"path/filepath"
	"strings"
)

// ImportResult is the outcome of normalizing one changelog source.
// Success means at least one document was produced; warnings accumulate
// recoverable issues and never turn a successful import into a failure.
type ImportResult struct {
	Documents []*Document
	Format    Format
	Warnings  []string
	Success   bool
}

// TotalCommits returns the number of commits across all documents.
func (r *ImportResult) TotalCommits() int {
	n := 0
	for _, d := range r.Documents {
		n += len(d.Commits)
	}
	return n
}

// ImportFile reads and normalizes a changelog file. Markup dialects are
// detected from content when format is FormatAuto; a .json extension
// short-circuits detection. Unreadable files and malformed JSON are fatal.
func ImportFile(path string, format Format) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Message: "cannot read file", Err: err}
	}
	if format == FormatAuto && strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	result, err := importBytes(data, format)
	if err != nil {
		if pe, ok := err.(*ParseError); ok && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	if !result.Success {
		result.Warnings = append(result.Warnings, "no changelog entries found in "+path)
	}
	return result, nil
}

// ImportText normalizes raw changelog text. This is the entry point used
// by tests and by callers that already hold the content in memory.
func ImportText(text string, format Format) (*ImportResult, error) {
	result, err := importBytes([]byte(text), format)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		result.Warnings = append(result.Warnings, "no changelog entries found")
	}
	return result, nil
}

func importBytes(data []byte, format Format) (*ImportResult, error) {
	if format == FormatJSON {
		docs, err := DecodeJSON(data)
		if err != nil {
			return nil, err
		}
		return &ImportResult{
			Documents: docs,
			Format:    FormatJSON,
			Success:   len(docs) > 0,
		}, nil
	}

	text := string(data)
	if format == FormatAuto {
		format = DetectFormat(text)
	}
	docs, warnings := ParseText(text, format)
	return &ImportResult{
		Documents: docs,
		Format:    format,
		Warnings:  warnings,
		Success:   len(docs) > 0,
	}, nil
}
