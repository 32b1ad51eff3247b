package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the sinew banner and version to w, coloured for the
// terminal profile of w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.NewOutput(w).ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"       _                     ", "#34d399"},
		{"   ___(_)_ __   _____      __", "#2dd4bf"},
		{"  / __| | '_ \\ / _ \\ \\ /\\ / /", "#22d3ee"},
		{"  \\__ \\ | | | |  __/\\ V  V / ", "#38bdf8"},
		{"  |___/_|_| |_|\\___| \\_/\\_/  ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  "+version).Faint())
	fmt.Fprintln(w)
}
