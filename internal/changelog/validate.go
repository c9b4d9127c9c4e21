package changelog

import "fmt"

// ValidationResult separates fatal structural problems from advisory
// warnings. Errors block Valid; warnings never do, and never retroactively
// fail an import that already succeeded.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateDocuments runs structural checks over an import or merge result.
// Errors: an empty batch, or the same version string appearing in more
// than one document. Warnings: sentinel versions or dates, documents
// without commits, sections without commits.
func ValidateDocuments(docs ...*Document) *ValidationResult {
	result := &ValidationResult{}

	if len(docs) == 0 {
		result.addError("no changelog entries")
		result.Valid = false
		return result
	}

	seen := make(map[string]int)
	for i, doc := range docs {
		if n, ok := seen[doc.Version]; ok {
			result.addError("documents[%d]: duplicate version %q (already used by documents[%d])", i, doc.Version, n)
		} else {
			seen[doc.Version] = i
		}
		checkDocument(result, i, doc)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func checkDocument(result *ValidationResult, index int, doc *Document) {
	if doc.Version == VersionUnknown {
		result.addWarning("documents[%d]: version is missing", index)
	}
	// Unreleased blocks have no date yet; that is their normal state.
	if doc.Version != VersionUnreleased && (doc.Date == DateUnknown || doc.Date == "") {
		result.addWarning("documents[%d]: date is missing (version %s)", index, doc.Version)
	}
	if doc.IsEmpty() {
		result.addWarning("documents[%d]: no commits (version %s)", index, doc.Version)
	}
	for j, s := range doc.Sections {
		if len(s.Commits) == 0 {
			result.addWarning("documents[%d].sections[%d]: section %q has no commits", index, j, s.Title)
		}
	}
}
