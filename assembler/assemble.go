package assembler

import "strings"

// Assemble compiles tcpu16 assembly source into a bytecode image. On
// success it returns the assembled bytes and a nil error slice; on
// failure it returns every error collected during that phase (parsing,
// then layout/emit) and no bytes. Per spec.md §4.2, assembly never mixes
// the two: a parse failure is reported without attempting to lay out or
// emit anything.
func Assemble(source string) ([]byte, []error) {
	lines, errs := parseLines(source)
	if len(errs) > 0 {
		return nil, errs
	}

	labels := map[string]uint16{}
	for _, ln := range lines {
		if ln.hasLabel {
			labels[ln.label] = 0
		}
	}

	var pos uint16
	for _, ln := range lines {
		if ln.hasLabel {
			labels[ln.label] = pos
		}
		if ln.instruction == nil {
			continue
		}
		encoded, err := ln.instruction.encode(labels)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pos += uint16(len(encoded))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var out []byte
	for _, ln := range lines {
		if ln.instruction == nil {
			continue
		}
		encoded, err := ln.instruction.encode(labels)
		if err != nil {
			// Every label referenced here was already proven to resolve
			// during layout; a second failure would be a bug in encode,
			// not a source error.
			return nil, []error{err}
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func parseLines(source string) ([]line, []error) {
	var lines []line
	var errs []error
	for i, text := range strings.Split(source, "\n") {
		text = strings.TrimSuffix(text, "\r")
		ln, err := parseLine(NewFragment(text, i+1))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lines = append(lines, ln)
	}
	return lines, errs
}
