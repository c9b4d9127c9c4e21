package changelog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// minEntryChars is the minimum number of non-whitespace characters a
// bullet must carry to become an entry. Shorter lines are markup noise.
const minEntryChars = 3

// defaultSectionTitle names the section auto-created for entries that
// appear before any section header.
const defaultSectionTitle = "Changes"

// ParseError describes a changelog source that could not be read or
// decoded. It is fatal: the surrounding import or merge aborts.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse changelog: %s", e.Message)
	}
	return fmt.Sprintf("parse %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// parseState carries the accumulators folded over input lines. The zero
// value means no version heading has been seen yet; entries encountered in
// that state belong to an implicit "unknown" version block.
type parseState struct {
	grammar   *Grammar
	heading   VersionHeading
	skipBlock bool
	section   *Section
	sections  []*Section
	commits   []*Commit
	docs      []*Document
	warnings  []string
}

// ParseText scans changelog markup into canonical documents, one per
// version block, in encounter order. The returned warnings record
// recoverable issues such as dropped empty sections or missing dates;
// parsing itself never fails.
func ParseText(text string, format Format) ([]*Document, []string) {
	st := &parseState{grammar: GrammarFor(format)}
	for _, line := range strings.Split(text, "\n") {
		st.feed(strings.TrimRight(line, "\r"))
	}
	st.flushDocument()
	return st.docs, st.warnings
}

func (st *parseState) feed(line string) {
	if heading, ok := st.grammar.MatchVersionHeading(line); ok {
		st.flushDocument()
		st.startBlock(heading)
		return
	}
	if st.skipBlock {
		return
	}
	if title, ok := st.grammar.MatchSectionTitle(line); ok {
		st.flushSection()
		st.section = &Section{Title: title, Type: st.grammar.SectionType(title)}
		return
	}
	if text, ok := st.grammar.MatchEntryText(line); ok {
		st.addEntry(text)
	}
}

func (st *parseState) startBlock(heading VersionHeading) {
	heading.Version = normalizeVersion(heading.Version)
	if heading.Version == "" {
		// Malformed block: drop its contents but keep the rest of the
		// document parseable.
		st.warnings = append(st.warnings, "skipped version block with unparseable version header")
		st.skipBlock = true
		return
	}
	st.skipBlock = false
	st.heading = heading
	if heading.Date == "" && heading.Version != VersionUnreleased {
		st.warnings = append(st.warnings, fmt.Sprintf("version %s: missing release date", heading.Version))
	}
	if heading.Version != VersionUnreleased && heading.Version != VersionUnknown && !isSemVer(heading.Version) {
		st.warnings = append(st.warnings, fmt.Sprintf("version %q is not semantic versioning", heading.Version))
	}
}

func (st *parseState) addEntry(text string) {
	if countNonSpace(text) < minEntryChars {
		return
	}
	scope, rest := st.grammar.ExtractScope(text)
	short, link, subject, hasRef := st.grammar.ExtractCommitRef(rest)
	if subject == "" {
		return
	}
	if st.section == nil {
		st.section = &Section{Title: defaultSectionTitle, Type: TypeOther}
	}

	commit := &Commit{
		Type:    st.section.Type,
		Scope:   scope,
		Subject: subject,
		Author:  Author{Name: VersionUnknown},
		Date:    st.entryDate(),
	}
	if hasRef {
		commit.Hash = ExpandShortHash(short)
		commit.ShortHash = ShortenHash(short)
		commit.CommitLink = link
	} else {
		commit.Hash, commit.ShortHash = SynthesizeHash(subject, scope)
	}
	st.commits = append(st.commits, commit)
	st.section.Commits = append(st.section.Commits, commit)
}

func (st *parseState) entryDate() string {
	if st.heading.Date != "" {
		return st.heading.Date
	}
	return DateUnknown
}

// flushSection moves the open section into the section list. Sections
// without a single entry are dropped with a warning.
func (st *parseState) flushSection() {
	if st.section == nil {
		return
	}
	if len(st.section.Commits) == 0 {
		st.warnings = append(st.warnings, fmt.Sprintf("dropped empty section %q", st.section.Title))
		st.section = nil
		return
	}
	st.sections = append(st.sections, st.section)
	st.section = nil
}

// flushDocument emits the accumulated version block as a Document and
// resets the per-block state. Blocks that produced no sections emit
// nothing, so a bare version header never becomes an empty document.
func (st *parseState) flushDocument() {
	st.flushSection()
	if len(st.sections) == 0 {
		st.resetBlock()
		return
	}
	doc := &Document{
		Version:    st.heading.Version,
		Date:       st.heading.Date,
		Sections:   st.sections,
		Commits:    st.commits,
		CompareURL: st.heading.CompareURL,
	}
	if doc.Version == "" {
		doc.Version = VersionUnknown
	}
	if doc.Date == "" {
		doc.Date = DateUnknown
	}
	doc.RefreshStats()
	st.docs = append(st.docs, doc)
	st.resetBlock()
}

func (st *parseState) resetBlock() {
	st.heading = VersionHeading{}
	st.section = nil
	st.sections = nil
	st.commits = nil
}

// normalizeVersion canonicalizes the version token from a heading.
// Any spelling of "unreleased" or "unknown" becomes the sentinel form.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, VersionUnreleased) {
		return VersionUnreleased
	}
	if strings.EqualFold(v, VersionUnknown) {
		return VersionUnknown
	}
	return v
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
