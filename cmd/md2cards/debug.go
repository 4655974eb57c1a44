package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alnah/go-md2cards"
)

// printDebugTable writes one row per card: its fragments, measured height,
// budget and fill ratio.
func printDebugTable(w io.Writer, source string, pages []md2cards.Page) {
	fmt.Fprintf(w, "\n%s\n", source)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CARD\tHEIGHT\tBUDGET\tFILL\tFLAGS\tELEMENTS")
	for _, p := range pages {
		fmt.Fprintf(tw, "%d/%d\t%d\t%d\t%.0f%%\t%s\t%s\n",
			p.Index, p.Total, p.Height, p.Budget, p.FillRatio()*100, pageFlags(p), describeFragments(p.Fragments))
	}
	_ = tw.Flush()
}

// pageFlags marks manual breaks and overflowing cards.
func pageFlags(p md2cards.Page) string {
	var flags []string
	if p.BreakBefore {
		flags = append(flags, "break")
	}
	if p.Overflows() {
		flags = append(flags, "overflow")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

// describeFragments renders fragments as "heading#0 list#3[0:4]".
func describeFragments(frags []md2cards.Fragment) string {
	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = fmt.Sprintf("%s#%d", f.Kind, f.ID)
		if f.Kind == "list" {
			parts[i] += fmt.Sprintf("[%d:%d]", f.From, f.To)
		}
	}
	return strings.Join(parts, " ")
}
