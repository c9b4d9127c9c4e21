package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a CLIError for terminal display, with colors when
// the terminal supports them.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	var sb strings.Builder

	writeHeader(&sb, err, useColors)
	writeUsage(&sb, err, useColors)
	writeRemediation(&sb, err, useColors)

	return sb.String()
}

func writeHeader(sb *strings.Builder, err *CLIError, useColors bool) {
	if useColors {
		fmt.Fprintf(sb, "%s [%s]: %s\n",
			errorLabel("Error"), categoryFmt(err.Category.String()), errorMsg(err.Message))
		return
	}
	fmt.Fprintf(sb, "Error [%s]: %s\n", err.Category.String(), err.Message)
}

func writeUsage(sb *strings.Builder, err *CLIError, useColors bool) {
	if err.Usage == "" {
		return
	}
	if useColors {
		fmt.Fprintf(sb, "\n%s%s\n", usageLabel("Usage: "), usageText(err.Usage))
		return
	}
	fmt.Fprintf(sb, "\nUsage: %s\n", err.Usage)
}

func writeRemediation(sb *strings.Builder, err *CLIError, useColors bool) {
	if len(err.Remediation) == 0 {
		return
	}
	if useColors {
		fmt.Fprintf(sb, "\n%s\n", fixLabel("To fix this:"))
	} else {
		sb.WriteString("\nTo fix this:\n")
	}
	for _, step := range err.Remediation {
		if useColors {
			fmt.Fprintf(sb, "  %s %s\n", bullet("•"), step)
		} else {
			fmt.Fprintf(sb, "  • %s\n", step)
		}
	}
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError formats a regular error with a category.
// Use this when you have a plain error and want structured output.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}

// PrintSimpleError prints a formatted regular error to stderr.
func PrintSimpleError(err error, category ErrorCategory) {
	fmt.Fprint(os.Stderr, FormatSimpleError(err, category))
}
