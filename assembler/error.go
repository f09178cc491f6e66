package assembler

import (
	"fmt"
	"strings"
)

// Error is an assembly-time error carrying the source fragment it
// applies to, per spec.md §4.2/§7. Its Error() rendering is the CLI's
// required diagnostic format.
type Error struct {
	Fragment Fragment
	Message  string
}

func (e Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", e.Message)
	fmt.Fprintf(&b, "%3d | %s\n", e.Fragment.LineNumber, e.Fragment.Line)
	b.WriteString("    | ")
	b.WriteString(strings.Repeat(" ", e.Fragment.Start))
	b.WriteString(strings.Repeat("^", e.Fragment.Len()))
	return b.String()
}

// or prefers e unless its fragment is empty, in which case it falls back
// to other — used by parseAddress to replace the zero-width error from
// parsing an empty offset with a "missing offset" error positioned at the
// '+'.
func (e Error) or(other Error) Error {
	if e.Fragment.Len() == 0 {
		return other
	}
	return e
}
