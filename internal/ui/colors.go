package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Enabled turns the helpers below into no-ops when false. It defaults to
// stdout being a terminal and NO_COLOR being unset.
var Enabled = os.Getenv("NO_COLOR") == "" &&
	(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

func paint(style, s string) string {
	if !Enabled {
		return s
	}
	return style + s + ColorReset
}

func Bold(s string) string {
	return paint(ColorBold, s)
}

func Success(s string) string {
	return paint(ColorGreen, s)
}

func Info(s string) string {
	return paint(ColorDim+ColorYellow, s)
}

func Warn(s string) string {
	return paint(ColorYellow, s)
}

func Error(s string) string {
	return paint(ColorRed, s)
}

func Dim(s string) string {
	return paint(ColorDim, s)
}

func Link(s string) string {
	return paint(ColorCyan, s)
}
