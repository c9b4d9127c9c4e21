package changelog

import (
	"regexp"
	"strings"
)

// Detection probes. The specific dialects are checked before the generic
// one so loosely structured markdown never shadows them. Conventional
// version headers are only claimed when the bracketed version carries a
// link or a parenthesized date; a bare "## [1.0.0] - 2024-01-01" belongs
// to Keep a Changelog.
var (
	reConventionalLinkHeader = regexp.MustCompile(`(?m)^#{1,2}\s+\[[^\]]+\]\([^)]+\)`)
	reConventionalDateHeader = regexp.MustCompile(`(?m)^#{1,2}\s+\[[^\]]+\]\s*\(\d{4}-\d{2}-\d{2}\)`)
	reConventionalSection    = regexp.MustCompile(`(?mi)^#{2,3}\s+\W*\s*(features|bug fixes|performance improvements|breaking changes)\s*$`)
	reConventionalBullet     = regexp.MustCompile(`(?m)^\s*\*\s+\*\*[^*]+:\*\*`)

	reKeepAChangelogHeader  = regexp.MustCompile(`(?m)^##\s+\[[^\]]+\]\s+-\s+\d{4}-\d{2}-\d{2}`)
	reKeepAChangelogSection = regexp.MustCompile(`(?m)^###\s+(Added|Changed|Deprecated|Removed|Fixed|Security)\s*$`)
)

const keepAChangelogPhrase = "all notable changes"

// DetectFormat classifies raw changelog text as one of the three markup
// dialects. It is pure and total: empty or arbitrary text falls back to
// plain markdown, never an error.
func DetectFormat(text string) Format {
	if isConventional(text) {
		return FormatConventional
	}
	if isKeepAChangelog(text) {
		return FormatKeepAChangelog
	}
	return FormatPlainMarkdown
}

func isConventional(text string) bool {
	if reConventionalLinkHeader.MatchString(text) || reConventionalDateHeader.MatchString(text) {
		return true
	}
	return reConventionalSection.MatchString(text) && reConventionalBullet.MatchString(text)
}

func isKeepAChangelog(text string) bool {
	if strings.Contains(strings.ToLower(text), keepAChangelogPhrase) {
		return true
	}
	return reKeepAChangelogHeader.MatchString(text) && reKeepAChangelogSection.MatchString(text)
}
