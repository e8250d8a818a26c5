package outwriter

import (
	"os"

	"github.com/huangsam/casewatch/internal/contract"
	"golang.org/x/term"
)

// Bounds for a category column header.
const (
	minLabelWidth = 8
	maxLabelWidth = 24
)

// terminalWidth returns the width override or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80
	}
	return detectedWidth
}

// GetMaxTableLabelWidth calculates the maximum width for category headers
// in a table with the given number of category columns.
func GetMaxTableLabelWidth(cfg *contract.Config, columns int) int {
	// Reserve space for the period and total columns with borders/padding
	baseWidth := 25

	if columns < 1 {
		columns = 1
	}
	// Each category column also spends 3 characters on separators and padding
	available := (terminalWidth(cfg)-baseWidth)/columns - 3
	if available < minLabelWidth {
		return minLabelWidth
	}
	if available > maxLabelWidth {
		return maxLabelWidth
	}
	return available
}
