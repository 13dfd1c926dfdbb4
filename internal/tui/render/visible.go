// Package render composites floating panels over a terminal frame.
//
// Frames are slices of rows that may carry ANSI styling. Widths are measured
// in display cells with charmbracelet/x/ansi, so wide runes and escape
// sequences never shift a panel.
package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLength returns the display width of a string, excluding ANSI codes.
func VisibleLength(value string) int {
	return ansi.StringWidth(value)
}

// PadRightVisible appends spaces until the string reaches width visible cells.
func PadRightVisible(value string, width int) string {
	padding := width - VisibleLength(value)
	if padding <= 0 {
		return value
	}

	return value + strings.Repeat(" ", padding)
}

// Fit truncates or pads value to exactly width cells.
func Fit(value string, width int) string {
	if width <= 0 {
		return ""
	}

	return PadRightVisible(ansi.Truncate(value, width, ""), width)
}
