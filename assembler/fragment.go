// Package assembler compiles the tcpu16 textual assembly language into
// the CPU's bytecode: a pure function from source text to a byte image,
// with source-span-carrying errors for anything that doesn't parse or
// assemble.
package assembler

import "strings"

// Fragment is a span of one source line, used both to slice out the text
// being parsed and to render caret-underlined error messages.
type Fragment struct {
	Line       string
	LineNumber int
	Start, End int
}

// NewFragment wraps a whole source line as a fragment.
func NewFragment(line string, lineNumber int) Fragment {
	return Fragment{Line: line, LineNumber: lineNumber, Start: 0, End: len(line)}
}

// Text returns the fragment's underlying slice of the source line.
func (f Fragment) Text() string {
	return f.Line[f.Start:f.End]
}

// Len reports the fragment's width in bytes.
func (f Fragment) Len() int {
	return f.End - f.Start
}

// Prefix narrows the fragment to its first n bytes.
func (f Fragment) Prefix(n int) Fragment {
	end := f.Start + n
	if end > f.End {
		end = f.End
	}
	return Fragment{Line: f.Line, LineNumber: f.LineNumber, Start: f.Start, End: end}
}

// Suffix narrows the fragment to its last n bytes.
func (f Fragment) Suffix(n int) Fragment {
	start := f.End - n
	if start < f.Start {
		start = f.Start
	}
	return Fragment{Line: f.Line, LineNumber: f.LineNumber, Start: start, End: f.End}
}

// Trim narrows the fragment past leading/trailing ASCII whitespace.
func (f Fragment) Trim() Fragment {
	text := f.Text()
	trimmedLeft := strings.TrimLeft(text, " \t\r")
	f = f.Suffix(len(trimmedLeft))
	trimmedRight := strings.TrimRight(f.Text(), " \t\r")
	return f.Prefix(len(trimmedRight))
}

// SplitOn splits the fragment on the first occurrence of sep, returning
// the part before it, the separator itself, and the part after — or ok
// false if sep doesn't occur.
func (f Fragment) SplitOn(sep byte) (before, at, after Fragment, ok bool) {
	idx := strings.IndexByte(f.Text(), sep)
	if idx < 0 {
		return f, Fragment{}, Fragment{}, false
	}
	before = f.Prefix(idx)
	at = f.Suffix(f.Len() - idx).Prefix(1)
	after = f.Suffix(f.Len() - idx - 1)
	return before, at, after, true
}
