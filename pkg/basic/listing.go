package basic

import (
	"fmt"
	"sort"
	"strings"
)

// renderListing numbers every line of the assembly output. The .asm text
// already interleaves the original BASIC source as comments, so the
// listing doubles as a side-by-side view.
func renderListing(asm string) string {
	var sb strings.Builder
	lines := strings.Split(strings.TrimRight(asm, "\n"), "\n")
	for i, l := range lines {
		fmt.Fprintf(&sb, "%5d  %s\n", i+1, l)
	}
	return sb.String()
}

// renderMap writes the symbol map: line labels, variable reservations and
// the library routines linked into the output. Ordering is deterministic:
// line labels by line number, variables in first-reference order, library
// routines in emission order.
func renderMap(out *Output) string {
	var sb strings.Builder

	sb.WriteString("; line labels\n")
	nums := make([]int, 0, len(out.Lines))
	for _, ln := range out.Lines {
		nums = append(nums, ln.Number)
	}
	sort.Ints(nums)
	for _, n := range nums {
		fmt.Fprintf(&sb, "%-6d %s\n", n, LineLabel(n))
	}

	sb.WriteString("\n; variables\n")
	for _, sym := range out.Symbols.Vars() {
		if !sym.Referenced {
			continue
		}
		width := sym.Type.Width()
		if sym.ArraySizes != nil {
			count := 1
			for _, n := range sym.ArraySizes {
				count *= n + 1
			}
			width *= count
		}
		fmt.Fprintf(&sb, "%-8s %-8s %-12s %d bytes\n", sym.Name, sym.Type, sym.Label, width)
	}

	sb.WriteString("\n; library routines\n")
	for _, name := range out.Library {
		fmt.Fprintf(&sb, "%s\n", name)
	}
	return sb.String()
}
