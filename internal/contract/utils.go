package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/casewatch/schema"
)

// Share label constants.
const (
	DominantValue = "Dominant" // Dominant value
	MajorValue    = "Major"    // Major value
	MinorValue    = "Minor"    // Minor value
	TraceValue    = "Trace"    // Trace value
)

// Color variables for console output.
var (
	DominantColor = color.New(color.FgRed, color.Bold)     // dominantColor marks a category holding most of the volume.
	MajorColor    = color.New(color.FgMagenta, color.Bold) // majorColor marks a strong, distinct share.
	MinorColor    = color.New(color.FgYellow)              // minorColor marks a modest share, not bold.
	TraceColor    = color.New(color.FgCyan)                // traceColor marks a barely present category.

	PositiveColor = color.New(color.FgGreen)
	InfoColor     = color.New(color.FgCyan)
	WarningColor  = color.New(color.FgYellow, color.Bold)
	HiddenColor   = color.New(color.Faint)
)

// GetPlainLabel returns a plain text label describing how large a category's
// share of the grand total is. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 50:
		return DominantValue
	case percent >= 25:
		return MajorValue
	case percent >= 5:
		return MinorValue
	default:
		return TraceValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(percent float64) string {
	text := GetPlainLabel(percent)

	switch text {
	case DominantValue:
		return DominantColor.Sprint(text)
	case MajorValue:
		return MajorColor.Sprint(text)
	case MinorValue:
		return MinorColor.Sprint(text)
	default: // "Trace"
		return TraceColor.Sprint(text)
	}
}

// GetSeverityColor returns the color used to print an insight of the given severity.
func GetSeverityColor(severity schema.InsightSeverity) *color.Color {
	switch severity {
	case schema.PositiveInsight:
		return PositiveColor
	case schema.WarningInsight:
		return WarningColor
	default:
		return InfoColor
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for the export history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".casewatch_history.db"
	}
	return filepath.Join(homeDir, ".casewatch_history.db")
}

// TruncateText truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
