package changelog

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Strategy selects how the merged commit list is ordered.
type Strategy string

const (
	// StrategyByDate sorts commits newest first.
	StrategyByDate Strategy = "by-date"
	// StrategyByVersion keeps source order; grouping by version is the
	// formatter's job, not a commit-level reordering.
	StrategyByVersion Strategy = "by-version"
	// StrategyByPackage sorts commits by scope ascending.
	StrategyByPackage Strategy = "by-package"
)

// DedupKey selects the identity used when deduplicating commits.
type DedupKey string

const (
	DedupByHash    DedupKey = "hash"
	DedupByMessage DedupKey = "message"
	DedupByBoth    DedupKey = "both"
)

// Source references one changelog to merge. PackageName tags the commits
// of this source when package prefixes are preserved; an empty Format
// means detect from content.
type Source struct {
	Path        string
	PackageName string
	Format      Format
}

// MergeOptions control deduplication, scope rewriting and ordering.
// Zero values mean: sort by date, deduplicate on hash and subject,
// keep scopes untouched.
type MergeOptions struct {
	Strategy              Strategy
	Deduplicate           bool
	DeduplicateKey        DedupKey
	PreservePackagePrefix bool
}

func (o *MergeOptions) setDefaults() {
	if o.Strategy == "" {
		o.Strategy = StrategyByDate
	}
	if o.DeduplicateKey == "" {
		o.DeduplicateKey = DedupByBoth
	}
}

// Engine folds several changelog documents into one. Sources are read
// concurrently but always recombined in their original order, so the
// merge result is deterministic regardless of read completion order.
type Engine struct {
	maxParallel int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxParallel caps the number of sources read concurrently.
func WithMaxParallel(n int) EngineOption {
	return func(e *Engine) {
		if n >= 1 {
			e.maxParallel = n
		}
	}
}

// NewEngine creates a merge engine. Default read parallelism is 4.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{maxParallel: 4}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge resolves every source to a document and folds them into a new
// merged document. Any unreadable or malformed source aborts the whole
// merge; there are no partial results.
func (e *Engine) Merge(ctx context.Context, sources []Source, opts MergeOptions) (*Document, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("merge requires at least one source")
	}

	docs := make([]*Document, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := resolveSource(src)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.PackageName
	}
	return MergeDocuments(docs, names, opts)
}

// MergeDocuments folds already-resolved documents into a new one. Inputs
// are never mutated: commits are cloned before any scope rewriting.
// packageNames aligns with docs by index; missing names mean no prefix.
func MergeDocuments(docs []*Document, packageNames []string, opts MergeOptions) (*Document, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("merge requires at least one source")
	}
	opts.setDefaults()

	merged := &Document{}
	versions := make(map[string]bool)
	firstVersion := ""
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		clone := doc.Clone()
		if opts.PreservePackagePrefix && i < len(packageNames) && packageNames[i] != "" {
			prefixScopes(clone, packageNames[i])
		}
		merged.Commits = append(merged.Commits, clone.Commits...)
		merged.Sections = append(merged.Sections, clone.Sections...)
		if !clone.IsEmpty() {
			if firstVersion == "" {
				firstVersion = clone.Version
			}
			versions[clone.Version] = true
		}
	}

	if opts.Deduplicate {
		dedupDocument(merged, opts.DeduplicateKey)
	}
	sortDocument(merged, opts.Strategy)

	merged.Version = mergedVersion(firstVersion, versions)
	merged.Date = maxCommitDate(merged.Commits)
	merged.RefreshStats()
	return merged, nil
}

// resolveSource imports one file and flattens its version blocks into a
// single per-source document, preserving block order.
func resolveSource(src Source) (*Document, error) {
	format := src.Format
	if format == "" {
		format = FormatAuto
	}
	result, err := ImportFile(src.Path, format)
	if err != nil {
		return nil, err
	}
	switch len(result.Documents) {
	case 0:
		return &Document{Version: VersionUnknown, Date: DateUnknown}, nil
	case 1:
		return result.Documents[0], nil
	}

	flat := &Document{
		Version:    result.Documents[0].Version,
		Date:       result.Documents[0].Date,
		CompareURL: result.Documents[0].CompareURL,
	}
	for _, doc := range result.Documents {
		flat.Sections = append(flat.Sections, doc.Sections...)
		flat.Commits = append(flat.Commits, doc.Commits...)
	}
	flat.RefreshStats()
	return flat, nil
}

// prefixScopes rewrites every commit scope to start with the package
// name. Scopeless commits take the package name itself as scope.
func prefixScopes(doc *Document, pkg string) {
	for _, c := range doc.Commits {
		if c.Scope == "" {
			c.Scope = pkg
		} else {
			c.Scope = pkg + "/" + c.Scope
		}
	}
}

// DedupKeyFor computes the identity string of a commit under a key.
func DedupKeyFor(c *Commit, key DedupKey) string {
	switch key {
	case DedupByHash:
		return c.Hash
	case DedupByMessage:
		return c.Type + ":" + c.Scope + ":" + c.Subject
	default:
		return c.Hash + ":" + c.Subject
	}
}

// DedupCommits keeps the first occurrence per key, in input order.
// First-wins is a policy choice: with source-order concatenation it makes
// the earliest listed source authoritative for duplicated entries.
func DedupCommits(commits []*Commit, key DedupKey) []*Commit {
	seen := make(map[string]bool, len(commits))
	out := make([]*Commit, 0, len(commits))
	for _, c := range commits {
		k := DedupKeyFor(c, key)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// dedupDocument deduplicates the flat commit list and cascades removals
// into every section so no section references a dropped commit. Sections
// emptied by the cascade are dropped entirely.
func dedupDocument(doc *Document, key DedupKey) {
	doc.Commits = DedupCommits(doc.Commits, key)
	survivors := make(map[*Commit]bool, len(doc.Commits))
	for _, c := range doc.Commits {
		survivors[c] = true
	}

	sections := doc.Sections[:0]
	for _, s := range doc.Sections {
		kept := s.Commits[:0]
		for _, c := range s.Commits {
			if survivors[c] {
				kept = append(kept, c)
			}
		}
		s.Commits = kept
		if len(s.Commits) > 0 {
			sections = append(sections, s)
		}
	}
	doc.Sections = sections
}

func sortDocument(doc *Document, strategy Strategy) {
	switch strategy {
	case StrategyByDate:
		sortCommitsByDate(doc.Commits)
		for _, s := range doc.Sections {
			sortCommitsByDate(s.Commits)
		}
	case StrategyByPackage:
		sortCommitsByScope(doc.Commits)
		for _, s := range doc.Sections {
			sortCommitsByScope(s.Commits)
		}
	}
}

// sortCommitsByDate orders newest first. ISO dates compare correctly as
// strings; commits without a real date sink to the end.
func sortCommitsByDate(commits []*Commit) {
	sort.SliceStable(commits, func(i, j int) bool {
		a, b := commits[i].Date, commits[j].Date
		aISO, bISO := IsISODate(a), IsISODate(b)
		switch {
		case aISO && bISO:
			return a > b
		case aISO:
			return true
		default:
			return false
		}
	})
}

// sortCommitsByScope orders by scope ascending with empty scopes first.
func sortCommitsByScope(commits []*Commit) {
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Scope < commits[j].Scope
	})
}

func mergedVersion(first string, versions map[string]bool) string {
	switch len(versions) {
	case 0:
		return VersionUnknown
	case 1:
		return first
	default:
		return VersionMultiple
	}
}

func maxCommitDate(commits []*Commit) string {
	max := ""
	for _, c := range commits {
		if IsISODate(c.Date) && c.Date > max {
			max = c.Date
		}
	}
	if max == "" {
		return DateUnknown
	}
	return max
}
