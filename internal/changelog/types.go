package changelog

// Format identifies a changelog source dialect.
type Format string

const (
	// FormatAuto asks the importer to detect the dialect from content.
	FormatAuto Format = "auto"
	// FormatKeepAChangelog is the keepachangelog.com convention.
	FormatKeepAChangelog Format = "keep-a-changelog"
	// FormatConventional is the conventional-changelog convention.
	FormatConventional Format = "conventional-changelog"
	// FormatPlainMarkdown is loosely structured markdown, the fallback.
	FormatPlainMarkdown Format = "plain-markdown"
	// FormatJSON is the canonical model serialized as JSON.
	FormatJSON Format = "json"
)

// Sentinel values used when a document carries no usable version or date.
// They keep the invariant that version and date are always set.
const (
	VersionUnknown    = "unknown"
	VersionUnreleased = "Unreleased"
	VersionMultiple   = "Multiple"
	DateUnknown       = "unknown"
)

// Normalized change categories. Section.Type and Commit.Type always hold
// one of these keys regardless of the source dialect's heading text.
const (
	TypeFeat         = "feat"
	TypeFix          = "fix"
	TypeDocs         = "docs"
	TypeRefactor     = "refactor"
	TypePerf         = "perf"
	TypeSecurity     = "security"
	TypeDeprecated   = "deprecated"
	TypeRemoved      = "removed"
	TypeDependencies = "dependencies"
	TypeBreaking     = "breaking"
	TypeOther        = "other"
)

// Author identifies who produced a commit. Imported entries carry the
// unknown author since markup changelogs do not record one.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit is one change entry. Hash is a real 40-hex git hash when the
// source provided one and a synthesized pseudo-hash otherwise, so every
// entry has a stable identity for deduplication.
type Commit struct {
	Hash       string `json:"hash"`
	ShortHash  string `json:"shortHash"`
	Type       string `json:"type"`
	Scope      string `json:"scope,omitempty"`
	Subject    string `json:"subject"`
	Author     Author `json:"author"`
	Date       string `json:"date"`
	CommitLink string `json:"commitLink,omitempty"`
}

// Section groups commits under one heading. Title keeps the display text
// as found in the source; Type is the normalized category key. Commits is
// a subset of the owning document's commit list, in the same relative order.
type Section struct {
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	Commits  []*Commit `json:"commits"`
	Priority int       `json:"priority,omitempty"`
}

// Stats carries aggregate counts for a document.
type Stats struct {
	TotalCommits int            `json:"totalCommits"`
	TypeCounts   map[string]int `json:"typeCounts,omitempty"`
}

// Document is the canonical changelog model produced by every parser.
// Version is SemVer, "Unreleased" or "unknown"; Date is ISO YYYY-MM-DD or
// "unknown". Sections preserve encounter order and reference commits that
// are also present in Commits.
type Document struct {
	Version    string     `json:"version"`
	Date       string     `json:"date"`
	Sections   []*Section `json:"sections"`
	Commits    []*Commit  `json:"commits"`
	CompareURL string     `json:"compareUrl,omitempty"`
	Stats      *Stats     `json:"stats,omitempty"`
}

// IsEmpty returns true if the document holds no commits.
func (d *Document) IsEmpty() bool {
	return len(d.Commits) == 0
}

// CommitCount returns the total number of commits in the document.
func (d *Document) CommitCount() int {
	return len(d.Commits)
}

// HasRealDate reports whether Date holds an ISO calendar date rather
// than a sentinel.
func (d *Document) HasRealDate() bool {
	return IsISODate(d.Date)
}

// RefreshStats recomputes the aggregate counts from the commit list.
func (d *Document) RefreshStats() {
	stats := &Stats{
		TotalCommits: len(d.Commits),
		TypeCounts:   make(map[string]int),
	}
	for _, c := range d.Commits {
		stats.TypeCounts[c.Type]++
	}
	d.Stats = stats
}

// Clone returns a deep copy of the document. Section membership is
// preserved: a section in the copy references the copied instance of each
// commit, never the original, so callers can rewrite the copy freely.
func (d *Document) Clone() *Document {
	out := &Document{
		Version:    d.Version,
		Date:       d.Date,
		CompareURL: d.CompareURL,
	}
	seen := make(map[*Commit]*Commit, len(d.Commits))
	for _, c := range d.Commits {
		dup := *c
		seen[c] = &dup
		out.Commits = append(out.Commits, &dup)
	}
	for _, s := range d.Sections {
		sec := &Section{Title: s.Title, Type: s.Type, Priority: s.Priority}
		for _, c := range s.Commits {
			dup, ok := seen[c]
			if !ok {
				// Section member missing from Commits; copy it anyway
				// rather than silently dropping the entry.
				fresh := *c
				dup = &fresh
				seen[c] = dup
			}
			sec.Commits = append(sec.Commits, dup)
		}
		out.Sections = append(out.Sections, sec)
	}
	if d.Stats != nil {
		out.RefreshStats()
	}
	return out
}

// Relink rebuilds section membership so every section references the
// instance stored in Commits with the same hash. JSON decoding produces
// distinct instances for the same commit; parsers never do.
func (d *Document) Relink() {
	byHash := make(map[string]*Commit, len(d.Commits))
	for _, c := range d.Commits {
		if _, ok := byHash[c.Hash]; !ok {
			byHash[c.Hash] = c
		}
	}
	for _, s := range d.Sections {
		for i, c := range s.Commits {
			if canon, ok := byHash[c.Hash]; ok {
				s.Commits[i] = canon
			}
		}
	}
}

// ValidTypes returns the normalized category keys in display order.
func ValidTypes() []string {
	return []string{
		TypeFeat, TypeFix, TypeDocs, TypeRefactor, TypePerf, TypeSecurity,
		TypeDeprecated, TypeRemoved, TypeDependencies, TypeBreaking, TypeOther,
	}
}
