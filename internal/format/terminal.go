package format

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/poly1603/ldesign-changelog/internal/changelog"
)

// TypeStyle defines the color and icon for a change category.
type TypeStyle struct {
	Color *color.Color
	Icon  string
}

// typeStyles maps normalized categories to their terminal styling.
var typeStyles = map[string]TypeStyle{
	changelog.TypeFeat:         {Color: color.New(color.FgGreen), Icon: "✓"},
	changelog.TypeFix:          {Color: color.New(color.FgYellow), Icon: "⚡"},
	changelog.TypeDocs:         {Color: color.New(color.FgCyan), Icon: "✎"},
	changelog.TypeRefactor:     {Color: color.New(color.FgBlue), Icon: "~"},
	changelog.TypePerf:         {Color: color.New(color.FgGreen), Icon: "▲"},
	changelog.TypeSecurity:     {Color: color.New(color.FgMagenta), Icon: "🔒"},
	changelog.TypeDeprecated:   {Color: color.New(color.FgRed), Icon: "⚠"},
	changelog.TypeRemoved:      {Color: color.New(color.FgRed), Icon: "✗"},
	changelog.TypeDependencies: {Color: color.New(color.FgBlue), Icon: "◆"},
	changelog.TypeBreaking:     {Color: color.New(color.FgRed), Icon: "💥"},
	changelog.TypeOther:        {Color: color.New(color.FgWhite), Icon: "•"},
}

// TerminalOptions controls styled terminal output.
type TerminalOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatDocuments writes documents to the writer with terminal styling:
// bold version headers and color-coded sections.
func FormatDocuments(w io.Writer, docs []*changelog.Document, opts TerminalOptions) error {
	width := resolveWidth(opts.MaxWidth)
	for i, doc := range docs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatDocument(w, doc, opts, width); err != nil {
			return fmt.Errorf("formatting version %s: %w", doc.Version, err)
		}
	}
	return nil
}

func formatDocument(w io.Writer, doc *changelog.Document, opts TerminalOptions, width int) error {
	if err := writeVersionHeader(w, doc, opts); err != nil {
		return err
	}
	for _, s := range doc.Sections {
		if err := writeSection(w, s, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeVersionHeader writes the bold version line, e.g. "v1.2.0 (2024-03-01)".
func writeVersionHeader(w io.Writer, doc *changelog.Document, opts TerminalOptions) error {
	var header string
	switch {
	case doc.Version == changelog.VersionUnreleased:
		header = "Unreleased"
	case doc.HasRealDate():
		header = fmt.Sprintf("v%s (%s)", doc.Version, doc.Date)
	default:
		header = "v" + doc.Version
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}
	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeSection writes a section header and its entries.
func writeSection(w io.Writer, s *changelog.Section, opts TerminalOptions, width int) error {
	style := styleFor(s.Type)
	title := s.Title
	if title == "" {
		title = capitalizeFirst(s.Type)
	}

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", title); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(title)); err != nil {
			return err
		}
	}

	for _, c := range s.Commits {
		if err := writeEntry(w, c, style, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry writes one commit line with optional wrapping.
func writeEntry(w io.Writer, c *changelog.Commit, style TypeStyle, opts TerminalOptions, width int) error {
	prefix := "  - "
	text := c.Subject
	if c.Scope != "" {
		text = c.Scope + ": " + text
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}
	wrapped := wrapText(text, width-len(prefix), "    ")
	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// FormatSummary writes a one-line-per-document digest of an import or
// merge result, e.g. "v1.2.0 (2024-03-01)  12 commits: 5 feat, 4 fix".
func FormatSummary(w io.Writer, docs []*changelog.Document, opts TerminalOptions) error {
	bold := color.New(color.Bold).SprintFunc()
	for _, doc := range docs {
		label := doc.Version
		if doc.HasRealDate() {
			label += " (" + doc.Date + ")"
		}
		if !opts.Plain {
			label = bold(label)
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", label, commitDigest(doc)); err != nil {
			return err
		}
	}
	return nil
}

// commitDigest summarizes commit counts by category in display order.
func commitDigest(doc *changelog.Document) string {
	total := doc.CommitCount()
	if total == 0 {
		return "no commits"
	}
	counts := make(map[string]int)
	for _, c := range doc.Commits {
		counts[c.Type]++
	}
	var parts []string
	for _, typ := range changelog.ValidTypes() {
		if n := counts[typ]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, typ))
		}
	}
	noun := "commits"
	if total == 1 {
		noun = "commit"
	}
	return fmt.Sprintf("%d %s: %s", total, noun, strings.Join(parts, ", "))
}

// FormatValidation writes validator output: errors first, then warnings.
func FormatValidation(w io.Writer, result *changelog.ValidationResult, opts TerminalOptions) error {
	errLabel := "error:"
	warnLabel := "warning:"
	if !opts.Plain {
		errLabel = color.New(color.FgRed, color.Bold).Sprint("error:")
		warnLabel = color.New(color.FgYellow).Sprint("warning:")
	}
	for _, msg := range result.Errors {
		if _, err := fmt.Fprintf(w, "%s %s\n", errLabel, msg); err != nil {
			return err
		}
	}
	for _, msg := range result.Warnings {
		if _, err := fmt.Fprintf(w, "%s %s\n", warnLabel, msg); err != nil {
			return err
		}
	}
	return nil
}

func styleFor(typ string) TypeStyle {
	if style, ok := typeStyles[typ]; ok {
		return style
	}
	return typeStyles[changelog.TypeOther]
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text
	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}
		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}
	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}
	return strings.Join(lines, "\n"+indent)
}

// FormatDetection writes one "path: dialect" line per detected source.
func FormatDetection(w io.Writer, path string, detected changelog.Format, opts TerminalOptions) error {
	name := string(detected)
	if !opts.Plain {
		name = color.New(color.FgCyan, color.Bold).Sprint(name)
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", path, name)
	return err
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
