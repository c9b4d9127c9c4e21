package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// versionKey normalizes a version string for comparison, accepting both
// "v1.2.0" and "1.2.0" spellings.
func versionKey(version string) string {
	return strings.ToLower(strings.TrimPrefix(version, "v"))
}

// GetVersion retrieves the document for a specific version.
// Returns VersionNotFoundError if the version doesn't exist.
func (r *ImportResult) GetVersion(version string) (*Document, error) {
	key := versionKey(version)
	for _, doc := range r.Documents {
		if versionKey(doc.Version) == key {
			return doc, nil
		}
	}
	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: r.ListVersions(),
	}
}

// GetUnreleased returns the unreleased document, or nil if none exists.
func (r *ImportResult) GetUnreleased() *Document {
	for _, doc := range r.Documents {
		if doc.Version == VersionUnreleased {
			return doc
		}
	}
	return nil
}

// HasUnreleased returns true if the result contains an unreleased block.
func (r *ImportResult) HasUnreleased() bool {
	return r.GetUnreleased() != nil
}

// GetLatestRelease returns the first released document in encounter order,
// which is the newest release in a conventionally ordered changelog.
// Returns nil if every document is unreleased or unversioned.
func (r *ImportResult) GetLatestRelease() *Document {
	for _, doc := range r.Documents {
		if doc.Version != VersionUnreleased && doc.Version != VersionUnknown {
			return doc
		}
	}
	return nil
}

// ListVersions returns all version identifiers in encounter order.
func (r *ImportResult) ListVersions() []string {
	versions := make([]string, len(r.Documents))
	for i, doc := range r.Documents {
		versions[i] = doc.Version
	}
	return versions
}

// DocumentCount returns the number of documents in the result.
func (r *ImportResult) DocumentCount() int {
	return len(r.Documents)
}

// SectionByType returns the first section with the given normalized
// category, or nil if the document has none.
func (d *Document) SectionByType(typ string) *Section {
	for _, s := range d.Sections {
		if s.Type == typ {
			return s
		}
	}
	return nil
}

// CommitsOfType returns the commits with the given normalized category,
// in document order.
func (d *Document) CommitsOfType(typ string) []*Commit {
	var out []*Commit
	for _, c := range d.Commits {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}
