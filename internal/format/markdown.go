// Package format renders canonical changelog documents as markdown in any
// of the supported dialects, as JSON, or as styled terminal output. The
// markdown renderers are the inverse of the dialect parsers: re-importing
// rendered output preserves versions, dates and entry content.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
)

// RenderOptions control markdown rendering.
type RenderOptions struct {
	// Dialect selects the markup convention; default Keep a Changelog.
	Dialect changelog.Format
	// VersionPrefix is prepended to release versions in headings ("v").
	// Sentinel versions are never prefixed.
	VersionPrefix string
	// DateFormat re-renders ISO dates using YYYY, MM and DD tokens,
	// e.g. "DD.MM.YYYY". Empty keeps ISO dates.
	DateFormat string
	// RepoURL enables comparison and commit links when documents do not
	// carry their own, e.g. "https://github.com/owner/repo".
	RepoURL string
}

// RenderMarkdown writes documents as changelog markup, newest block first
// in the order given. Output re-imports under the same dialect.
func RenderMarkdown(w io.Writer, docs []*changelog.Document, opts RenderOptions) error {
	if opts.Dialect == "" || opts.Dialect == changelog.FormatAuto {
		opts.Dialect = changelog.FormatKeepAChangelog
	}

	if opts.Dialect == changelog.FormatKeepAChangelog {
		if err := renderPreamble(w); err != nil {
			return fmt.Errorf("rendering header: %w", err)
		}
	}

	for i, doc := range docs {
		if err := renderDocument(w, doc, docs, i, opts); err != nil {
			return fmt.Errorf("rendering version %s: %w", doc.Version, err)
		}
	}

	if opts.Dialect == changelog.FormatKeepAChangelog {
		if err := renderFooterLinks(w, docs, opts); err != nil {
			return fmt.Errorf("rendering footer links: %w", err)
		}
	}
	return nil
}

// RenderMarkdownString is a convenience wrapper that renders to a string.
func RenderMarkdownString(docs []*changelog.Document, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(&b, docs, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderPreamble writes the Keep a Changelog file header. The phrase is
// also what format detection keys on, so rendered output detects as
// Keep a Changelog even when a document has no dated header.
func renderPreamble(w io.Writer) error {
	header := `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/).

`
	_, err := io.WriteString(w, header)
	return err
}

func renderDocument(w io.Writer, doc *changelog.Document, docs []*changelog.Document, index int, opts RenderOptions) error {
	if index > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, versionHeading(doc, docs, index, opts)+"\n"); err != nil {
		return err
	}
	for _, s := range doc.Sections {
		if err := renderSection(w, s, opts); err != nil {
			return err
		}
	}
	return nil
}

// versionHeading formats the version header line for the target dialect.
func versionHeading(doc *changelog.Document, docs []*changelog.Document, index int, opts RenderOptions) string {
	version := displayVersion(doc.Version, opts.VersionPrefix)
	date := displayDate(doc.Date, opts.DateFormat)

	switch opts.Dialect {
	case changelog.FormatConventional:
		heading := "## [" + version + "]"
		if url := compareURL(doc, docs, index, opts); url != "" {
			heading += "(" + url + ")"
		}
		if date != "" {
			heading += " (" + date + ")"
		}
		return heading
	case changelog.FormatPlainMarkdown:
		if date != "" {
			return "## " + version + " (" + date + ")"
		}
		return "## " + version
	default:
		if doc.Version == changelog.VersionUnreleased {
			return "## [Unreleased]"
		}
		if date != "" {
			return "## [" + version + "] - " + date
		}
		return "## [" + version + "]"
	}
}

func renderSection(w io.Writer, s *changelog.Section, opts RenderOptions) error {
	title := sectionTitle(s, opts.Dialect)
	separator := "\n### " + title + "\n"
	if opts.Dialect == changelog.FormatConventional {
		// conventional-changelog tooling puts a blank line after headings
		separator += "\n"
	}
	if _, err := io.WriteString(w, separator); err != nil {
		return err
	}
	for _, c := range s.Commits {
		if _, err := io.WriteString(w, entryLine(c, opts)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// entryLine formats one commit as a bullet in the target dialect.
func entryLine(c *changelog.Commit, opts RenderOptions) string {
	if opts.Dialect == changelog.FormatConventional {
		line := "* "
		if c.Scope != "" {
			line += "**" + c.Scope + ":** "
		}
		line += c.Subject
		if link := commitLink(c, opts); link != "" {
			line += fmt.Sprintf(" ([%s](%s))", c.ShortHash, link)
		}
		return line
	}
	if c.Scope != "" {
		return "- " + c.Scope + ": " + c.Subject
	}
	return "- " + c.Subject
}

// commitLink returns the URL for a commit reference, or empty when no
// link can be built. Synthesized hashes never get links: they reference
// nothing a repository host could resolve.
func commitLink(c *changelog.Commit, opts RenderOptions) string {
	if c.CommitLink != "" {
		return c.CommitLink
	}
	if opts.RepoURL != "" && looksLikeGitHash(c) {
		return strings.TrimSuffix(opts.RepoURL, "/") + "/commit/" + c.Hash
	}
	return ""
}

// looksLikeGitHash distinguishes real git hashes from synthesized ones by
// the zero-fill tail the synthesizer leaves behind.
func looksLikeGitHash(c *changelog.Commit) bool {
	if len(c.Hash) != 40 {
		return false
	}
	return !strings.HasSuffix(c.Hash, strings.Repeat("0", 24))
}

// compareURL picks the comparison link for a conventional heading: the
// document's own when present, otherwise one derived from the next older
// block in the same render batch.
func compareURL(doc *changelog.Document, docs []*changelog.Document, index int, opts RenderOptions) string {
	if doc.CompareURL != "" {
		return doc.CompareURL
	}
	if opts.RepoURL == "" || index+1 >= len(docs) {
		return ""
	}
	prev := docs[index+1].Version
	if !isReleaseVersion(prev) || !isReleaseVersion(doc.Version) {
		return ""
	}
	base := strings.TrimSuffix(opts.RepoURL, "/")
	return fmt.Sprintf("%s/compare/v%s...v%s", base, prev, doc.Version)
}

// renderFooterLinks writes Keep a Changelog comparison links, newest
// first, matching the keepachangelog.com reference layout.
func renderFooterLinks(w io.Writer, docs []*changelog.Document, opts RenderOptions) error {
	if opts.RepoURL == "" || len(docs) == 0 {
		return nil
	}
	base := strings.TrimSuffix(opts.RepoURL, "/")
	var lines []string
	for i, doc := range docs {
		if link := footerLink(base, doc, docs, i); link != "" {
			lines = append(lines, link)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, "\n"+strings.Join(lines, "\n")+"\n")
	return err
}

func footerLink(base string, doc *changelog.Document, docs []*changelog.Document, index int) string {
	prev := ""
	if index+1 < len(docs) && isReleaseVersion(docs[index+1].Version) {
		prev = docs[index+1].Version
	}
	if doc.Version == changelog.VersionUnreleased {
		if prev == "" {
			return ""
		}
		return fmt.Sprintf("[Unreleased]: %s/compare/v%s...HEAD", base, prev)
	}
	if !isReleaseVersion(doc.Version) {
		return ""
	}
	if prev == "" {
		return fmt.Sprintf("[%s]: %s/releases/tag/v%s", doc.Version, base, doc.Version)
	}
	return fmt.Sprintf("[%s]: %s/compare/v%s...v%s", doc.Version, base, prev, doc.Version)
}

// Canonical section headings per dialect, keyed by normalized category.
// Rendering the dialect's own headings keeps output conventional enough
// that detection and re-import see the same section types.
var keepAChangelogTitles = map[string]string{
	changelog.TypeFeat:       "Added",
	changelog.TypeRefactor:   "Changed",
	changelog.TypeDeprecated: "Deprecated",
	changelog.TypeRemoved:    "Removed",
	changelog.TypeFix:        "Fixed",
	changelog.TypeSecurity:   "Security",
}

var conventionalTitles = map[string]string{
	changelog.TypeFeat:     "Features",
	changelog.TypeFix:      "Bug Fixes",
	changelog.TypePerf:     "Performance Improvements",
	changelog.TypeRefactor: "Code Refactoring",
	changelog.TypeDocs:     "Documentation",
	changelog.TypeBreaking: "BREAKING CHANGES",
	changelog.TypeSecurity: "Security",
}

// sectionTitle picks the heading text: the dialect's canonical heading
// for the section type when one exists, the source heading otherwise.
func sectionTitle(s *changelog.Section, dialect changelog.Format) string {
	var titles map[string]string
	switch dialect {
	case changelog.FormatConventional:
		titles = conventionalTitles
	case changelog.FormatKeepAChangelog:
		titles = keepAChangelogTitles
	}
	if title, ok := titles[s.Type]; ok {
		return title
	}
	if s.Title != "" {
		return s.Title
	}
	if s.Type != "" && s.Type != changelog.TypeOther {
		return strings.ToUpper(s.Type[:1]) + s.Type[1:]
	}
	return "Changes"
}

func isReleaseVersion(v string) bool {
	switch v {
	case "", changelog.VersionUnknown, changelog.VersionUnreleased, changelog.VersionMultiple:
		return false
	}
	return true
}

// displayVersion applies the version prefix to release versions only.
func displayVersion(version, prefix string) string {
	if prefix == "" || !isReleaseVersion(version) {
		return version
	}
	if strings.HasPrefix(version, prefix) {
		return version
	}
	return prefix + version
}

// displayDate renders an ISO date with the requested token layout.
// Sentinel dates render as nothing: a heading with a placeholder date
// would re-import as a compare link or garbage, not a date.
func displayDate(date, layout string) string {
	if !changelog.IsISODate(date) {
		return ""
	}
	if layout == "" {
		return date
	}
	r := strings.NewReplacer(
		"YYYY", date[0:4],
		"MM", date[5:7],
		"DD", date[8:10],
	)
	return r.Replace(layout)
}
