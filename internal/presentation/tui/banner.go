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
	{"  ____           _            __  __             ", "#818cf8"},
	{" |  _ \\ ___  ___| |_ ___ _ __|  \\/  | __ _ _ __  ", "#a78bfa"},
	{" | |_) / _ \\/ __| __/ _ \\ '__| |\\/| |/ _` | '_ \\ ", "#c084fc"},
	{" |  __/ (_) \\__ \\ ||  __/ |  | |  | | (_| | | | |", "#e879f9"},
	{" |_|   \\___/|___/\\__\\___|_|  |_|  |_|\\__,_|_| |_|", "#f472b6"},
}

// PrintBanner writes the PosterMan ASCII banner to w, colored when w is a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
