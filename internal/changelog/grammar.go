package changelog

import (
	"regexp"
	"strings"
	"unicode"
)

// Grammar parameterizes the generic dialect parser. One value per dialect
// replaces three near-duplicate parsers: the scanning algorithm is shared
// and only the regexes, the heading type table and the entry extraction
// rules differ.
type Grammar struct {
	Format        Format
	versionHeader *regexp.Regexp
	sectionHeader *regexp.Regexp
	entryLine     *regexp.Regexp
	typeRules     []TypeRule
	scopePattern  *regexp.Regexp
	boldScope     bool
	commitRefs    bool
}

// TypeRule maps a heading keyword to a normalized category. Rules are
// evaluated in order and the first case-insensitive substring match wins.
type TypeRule struct {
	Keyword string
	Type    string
}

// VersionHeading is the interpreted form of a version header line.
type VersionHeading struct {
	Version    string
	Date       string
	CompareURL string
}

var (
	// Conventional: "## [1.2.0](https://host/compare/v1.1.0...v1.2.0) (2024-03-01)".
	// The bracket may be followed by a compare link, a parenthesized date,
	// or both. Major releases use a single "#".
	conventionalVersionRe = regexp.MustCompile(`^#{1,2}\s+\[([^\]]+)\](?:\(([^)]+)\))?(?:\s*\(([^)]+)\))?\s*$`)
	conventionalSectionRe = regexp.MustCompile(`^#{2,3}\s+(.+?)\s*$`)
	conventionalScopeRe   = regexp.MustCompile(`^\*\*([^*]+?):\*\*\s*(.+)$`)
	conventionalRefRe     = regexp.MustCompile(`\s*\(\[([0-9a-fA-F]{6,40})\]\(([^)]+)\)\)\s*$`)

	// Keep a Changelog: "## [1.0.0] - 2024-01-01" or "## [Unreleased]".
	keepAChangelogVersionRe = regexp.MustCompile(`^#{1,2}\s+\[([^\]]+)\](?:\s*[-–—]\s*(.*?))?\s*$`)
	keepAChangelogSectionRe = regexp.MustCompile(`^###\s+(.+?)\s*$`)

	// Plain markdown: "## 1.0.0 (2024-01-01)", "## v2.3.1 - 2024-05-06",
	// "# Unreleased". Headings that do not look like a version are treated
	// as section headers instead.
	plainVersionRe = regexp.MustCompile(`^#{1,2}\s+\[?[vV]?(\d+\.\d+\.\d+[\w.+-]*|[Uu]nreleased|[Uu]nknown|Multiple)\]?(?:\s*[-–—(]?\s*(\d{4}-\d{2}-\d{2})\)?)?\s*$`)
	plainSectionRe = regexp.MustCompile(`^#{2,4}\s+(.+?)\s*$`)

	// Shared entry shape: a "-" or "*" bullet with its text.
	entryLineRe = regexp.MustCompile(`^\s*[-*]\s+(.+)$`)

	// Lowercase word scope prefix used by Keep a Changelog and plain
	// markdown entries, e.g. "core: fix memory leak". Slashes and digits
	// are allowed so package-prefixed scopes ("core/parser") survive a
	// render and re-import cycle.
	wordScopeRe = regexp.MustCompile(`^([a-z][a-z0-9/-]*):\s*(.+)$`)

	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	semverRe  = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
)

var keepAChangelogTypeRules = []TypeRule{
	{"added", TypeFeat},
	{"changed", TypeRefactor},
	{"deprecated", TypeDeprecated},
	{"removed", TypeRemoved},
	{"fixed", TypeFix},
	{"security", TypeSecurity},
}

var conventionalTypeRules = []TypeRule{
	{"feature", TypeFeat},
	{"bug fix", TypeFix},
	{"performance", TypePerf},
	{"refactor", TypeRefactor},
	{"documentation", TypeDocs},
	{"breaking", TypeBreaking},
	{"security", TypeSecurity},
}

// Plain markdown headings are sniffed for English and Chinese keywords in
// fixed priority order.
var plainTypeRules = []TypeRule{
	{"feature", TypeFeat},
	{"feat", TypeFeat},
	{"新增", TypeFeat},
	{"新功能", TypeFeat},
	{"特性", TypeFeat},
	{"fix", TypeFix},
	{"修复", TypeFix},
	{"bug", TypeFix},
	{"performance", TypePerf},
	{"perf", TypePerf},
	{"性能", TypePerf},
	{"refactor", TypeRefactor},
	{"重构", TypeRefactor},
	{"doc", TypeDocs},
	{"文档", TypeDocs},
	{"security", TypeSecurity},
	{"安全", TypeSecurity},
	{"dependenc", TypeDependencies},
	{"deps", TypeDependencies},
	{"依赖", TypeDependencies},
	{"breaking", TypeBreaking},
	{"破坏", TypeBreaking},
	{"不兼容", TypeBreaking},
}

var grammars = map[Format]*Grammar{
	FormatKeepAChangelog: {
		Format:        FormatKeepAChangelog,
		versionHeader: keepAChangelogVersionRe,
		sectionHeader: keepAChangelogSectionRe,
		entryLine:     entryLineRe,
		typeRules:     keepAChangelogTypeRules,
		scopePattern:  wordScopeRe,
	},
	FormatConventional: {
		Format:        FormatConventional,
		versionHeader: conventionalVersionRe,
		sectionHeader: conventionalSectionRe,
		entryLine:     entryLineRe,
		typeRules:     conventionalTypeRules,
		boldScope:     true,
		commitRefs:    true,
	},
	FormatPlainMarkdown: {
		Format:        FormatPlainMarkdown,
		versionHeader: plainVersionRe,
		sectionHeader: plainSectionRe,
		entryLine:     entryLineRe,
		typeRules:     plainTypeRules,
		scopePattern:  wordScopeRe,
	},
}

// GrammarFor returns the grammar for a markup dialect. Unknown formats,
// including FormatAuto and FormatJSON, fall back to plain markdown.
func GrammarFor(format Format) *Grammar {
	if g, ok := grammars[format]; ok {
		return g
	}
	return grammars[FormatPlainMarkdown]
}

// MatchVersionHeading interprets a version header line. For Conventional
// headers a parenthesized token is a date when it looks like one and a
// compare link otherwise.
func (g *Grammar) MatchVersionHeading(line string) (VersionHeading, bool) {
	m := g.versionHeader.FindStringSubmatch(line)
	if m == nil {
		return VersionHeading{}, false
	}
	h := VersionHeading{Version: strings.TrimSpace(m[1])}
	for _, token := range m[2:] {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if IsISODate(token) {
			h.Date = token
		} else if g.Format == FormatConventional {
			h.CompareURL = token
		}
	}
	return h, true
}

// MatchSectionTitle returns the heading text of a section header line.
func (g *Grammar) MatchSectionTitle(line string) (string, bool) {
	m := g.sectionHeader.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// MatchEntryText strips the bullet marker and returns the entry text.
func (g *Grammar) MatchEntryText(line string) (string, bool) {
	m := g.entryLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// SectionType maps a heading to its normalized category via the dialect's
// rule table: first case-insensitive substring match on the emoji-stripped
// title wins, anything unmatched is "other".
func (g *Grammar) SectionType(title string) string {
	plain := strings.ToLower(stripDecorations(title))
	for _, rule := range g.typeRules {
		if strings.Contains(plain, rule.Keyword) {
			return rule.Type
		}
	}
	return TypeOther
}

// ExtractScope splits an optional scope prefix off the entry text. The
// conventional form is "**scope:** subject", the word form "scope: subject".
func (g *Grammar) ExtractScope(text string) (scope, rest string) {
	if g.boldScope {
		if m := conventionalScopeRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
		return "", text
	}
	if g.scopePattern != nil {
		if m := g.scopePattern.FindStringSubmatch(text); m != nil {
			return m[1], strings.TrimSpace(m[2])
		}
	}
	return "", text
}

// ExtractCommitRef splits a trailing "([shortHash](link))" reference off
// the entry text. Only the Conventional dialect carries these.
func (g *Grammar) ExtractCommitRef(text string) (short, link, rest string, ok bool) {
	if !g.commitRefs {
		return "", "", text, false
	}
	loc := conventionalRefRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", text, false
	}
	m := conventionalRefRe.FindStringSubmatch(text)
	return strings.ToLower(m[1]), m[2], strings.TrimSpace(text[:loc[0]]), true
}

// stripDecorations drops emoji and punctuation from a heading, keeping
// letters, digits and spaces so keyword matching sees only the words.
func stripDecorations(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsISODate reports whether s is a calendar date in YYYY-MM-DD form.
func IsISODate(s string) bool {
	return isoDateRe.MatchString(s)
}

// isSemVer reports whether a version string is a bare semantic version.
// Sentinels and prefixed versions fail this check, which only downgrades
// validation to a warning, never an error.
func isSemVer(s string) bool {
	return semverRe.MatchString(strings.TrimPrefix(s, "v"))
}
