package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`                       _ _           `, "#34d399"},
	{`   ___  ___ _ __   __ _| (_) ___ _ __ `, "#2dd4bf"},
	{`  / _ \/ __| '_ \ / _' | | |/ _ \ '__|`, "#22d3ee"},
	{` |  __/\__ \ |_) | (_| | | |  __/ |   `, "#38bdf8"},
	{`  \___||___/ .__/ \__,_|_|_|\___|_|   `, "#60a5fa"},
	{`           |_|                        `, "#818cf8"},
}

// PrintBanner writes the ASCII banner and version to w, colored when w is a
// terminal that supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  term rewriting engine "+version).Faint())
	fmt.Fprintln(w)
}

// Error renders msg in red on terminals that support color.
func Error(w io.Writer, msg string) string {
	out := termenv.NewOutput(w)
	return out.String(msg).Foreground(out.Color("#f87171")).String()
}
