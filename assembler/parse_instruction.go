package assembler

import "strings"

// line is one parsed source line: an optional label and an optional
// instruction (either, both, or neither may be present; a blank or
// comment-only line has neither).
type line struct {
	label       string
	hasLabel    bool
	instruction instruction
}

func mnemonicIs(f Fragment, s string) bool {
	return strings.EqualFold(f.Text(), s)
}

// splitOpcode separates a trimmed instruction fragment into its mnemonic
// and argument text, splitting on the first space.
func splitOpcode(f Fragment) (opcode, args Fragment) {
	before, _, after, ok := f.SplitOn(' ')
	if !ok {
		return f, f.Prefix(0)
	}
	return before, after
}

func expectZeroArgs(f Fragment, opcode Fragment) error {
	f = f.Trim()
	if f.Len() != 0 {
		return Error{Fragment: f, Message: "expected no arguments"}
	}
	return nil
}

func splitArg(f Fragment, n int) ([]Fragment, error) {
	f = f.Trim()
	if f.Len() == 0 {
		return nil, Error{Fragment: f, Message: "missing argument"}
	}
	parts := make([]Fragment, 0, n)
	rest := f
	for i := 0; i < n-1; i++ {
		before, _, after, ok := rest.SplitOn(',')
		if !ok {
			return nil, Error{Fragment: f, Message: countArgsMessage(n)}
		}
		parts = append(parts, before)
		rest = after
	}
	if _, _, _, ok := rest.SplitOn(','); ok {
		return nil, Error{Fragment: f, Message: countArgsMessage(n)}
	}
	parts = append(parts, rest)
	return parts, nil
}

func countArgsMessage(n int) string {
	switch n {
	case 1:
		return "expected one argument"
	case 2:
		return "expected two arguments"
	default:
		return "expected three arguments"
	}
}

func parseInstructionLine(fragment Fragment) (instruction, error) {
	fragment = fragment.Trim()
	if fragment.Len() == 0 {
		return nil, nil
	}
	opcode, args := splitOpcode(fragment)
	opcode = opcode.Trim()

	switch {
	case mnemonicIs(opcode, "nop"):
		if err := expectZeroArgs(args, opcode); err != nil {
			return nil, err
		}
		return nopInstr{}, nil
	case mnemonicIs(opcode, "ret"):
		if err := expectZeroArgs(args, opcode); err != nil {
			return nil, err
		}
		return retInstr{}, nil
	case mnemonicIs(opcode, "wait"):
		if err := expectZeroArgs(args, opcode); err != nil {
			return nil, err
		}
		return waitInstr{}, nil
	case mnemonicIs(opcode, "poll"):
		if err := expectZeroArgs(args, opcode); err != nil {
			return nil, err
		}
		return pollInstr{}, nil
	case mnemonicIs(opcode, "halt"):
		if err := expectZeroArgs(args, opcode); err != nil {
			return nil, err
		}
		return haltInstr{}, nil

	case mnemonicIs(opcode, "not"):
		return parseRegOnly(args, opcode, 0x10)
	case mnemonicIs(opcode, "neg"):
		return parseRegOnly(args, opcode, 0x20)
	case mnemonicIs(opcode, "pop"):
		return parseRegOnly(args, opcode, 0x30)

	case mnemonicIs(opcode, "push"):
		return parseValueOnly(args, opcode, 0x40)
	case mnemonicIs(opcode, "jmp"):
		return parseValueOnly(args, opcode, 0x50)
	case mnemonicIs(opcode, "call"):
		return parseValueOnly(args, opcode, 0x60)

	case mnemonicIs(opcode, "mov"):
		return parseAlu(args, opcode, 0x80)
	case mnemonicIs(opcode, "add"):
		return parseAlu(args, opcode, 0x81)
	case mnemonicIs(opcode, "sub"):
		return parseAlu(args, opcode, 0x82)
	case mnemonicIs(opcode, "xor"):
		return parseAlu(args, opcode, 0x83)
	case mnemonicIs(opcode, "and"):
		return parseAlu(args, opcode, 0x84)
	case mnemonicIs(opcode, "or"):
		return parseAlu(args, opcode, 0x85)
	case mnemonicIs(opcode, "shl"):
		return parseAlu(args, opcode, 0x86)
	case mnemonicIs(opcode, "shr"):
		return parseAlu(args, opcode, 0x87)
	case mnemonicIs(opcode, "cmp"):
		return parseAlu(args, opcode, 0x88)

	case mnemonicIs(opcode, "loadw"):
		return parseLoad(args, opcode, true)
	case mnemonicIs(opcode, "load"):
		return parseLoad(args, opcode, false)
	case mnemonicIs(opcode, "storew"):
		return parseStore(args, opcode, true)
	case mnemonicIs(opcode, "store"):
		return parseStore(args, opcode, false)

	case mnemonicIs(opcode, "jez"):
		return parseBranch(args, opcode, 0xA0)
	case mnemonicIs(opcode, "jnz"):
		return parseBranch(args, opcode, 0xA1)
	case mnemonicIs(opcode, "jl"):
		return parseBranch(args, opcode, 0xA2)
	case mnemonicIs(opcode, "jg"):
		return parseBranch(args, opcode, 0xA3)
	case mnemonicIs(opcode, "jle"):
		return parseBranch(args, opcode, 0xA4)
	case mnemonicIs(opcode, "jge"):
		return parseBranch(args, opcode, 0xA5)

	case mnemonicIs(opcode, "read"):
		return parseDiskOp(args, opcode, false)
	case mnemonicIs(opcode, "write"):
		return parseDiskOp(args, opcode, true)

	case mnemonicIs(opcode, "db"):
		return parseData(args, opcode)

	default:
		return nil, Error{Fragment: opcode, Message: "invalid instruction"}
	}
}

func parseRegOnly(args, opcode Fragment, base byte) (instruction, error) {
	parts, err := splitArg(args, 1)
	if err != nil {
		if e, ok := err.(Error); ok && e.Message == "missing argument" {
			return nil, Error{Fragment: opcode, Message: "expected one argument"}
		}
		return nil, err
	}
	reg, err := parseRegister(parts[0])
	if err != nil {
		return nil, err
	}
	return regOnlyInstr{base: base, reg: reg}, nil
}

func parseValueOnly(args, opcode Fragment, base byte) (instruction, error) {
	parts, err := splitArg(args, 1)
	if err != nil {
		if e, ok := err.(Error); ok && e.Message == "missing argument" {
			return nil, Error{Fragment: opcode, Message: "expected one argument"}
		}
		return nil, err
	}
	v, err := parseValue(parts[0])
	if err != nil {
		return nil, err
	}
	return valueInstr{base: base, v: v}, nil
}

func parseAlu(args, opcode Fragment, op byte) (instruction, error) {
	parts, err := splitTwo(args, opcode)
	if err != nil {
		return nil, err
	}
	reg, err := parseRegister(parts[0])
	if err != nil {
		return nil, err
	}
	v, err := parseValue(parts[1])
	if err != nil {
		return nil, err
	}
	return aluInstr{opcode: op, reg: reg, v: v}, nil
}

func parseBranch(args, opcode Fragment, op byte) (instruction, error) {
	parts, err := splitTwo(args, opcode)
	if err != nil {
		return nil, err
	}
	reg, err := parseRegister(parts[0])
	if err != nil {
		return nil, err
	}
	c, err := parseConstant(parts[1])
	if err != nil {
		return nil, err
	}
	return branchInstr{opcode: op, reg: reg, c: c}, nil
}

func parseLoad(args, opcode Fragment, wide bool) (instruction, error) {
	parts, err := splitTwo(args, opcode)
	if err != nil {
		return nil, err
	}
	reg, err := parseRegister(parts[0])
	if err != nil {
		return nil, err
	}
	addr, err := parseAddress(parts[1])
	if err != nil {
		return nil, err
	}
	return loadInstr{wide: wide, reg: reg, addr: addr}, nil
}

func parseStore(args, opcode Fragment, wide bool) (instruction, error) {
	parts, err := splitTwo(args, opcode)
	if err != nil {
		return nil, err
	}
	src, err := parseValue(parts[0])
	if err != nil {
		return nil, err
	}
	addr, err := parseAddress(parts[1])
	if err != nil {
		return nil, err
	}
	return storeInstr{wide: wide, src: src, addr: addr}, nil
}

func parseDiskOp(args, opcode Fragment, writing bool) (instruction, error) {
	parts, err := splitThree(args, opcode)
	if err != nil {
		return nil, err
	}
	id, err := parseDiskID(parts[0])
	if err != nil {
		return nil, err
	}
	memOp, err := parseValue(parts[1])
	if err != nil {
		return nil, err
	}
	diskOp, err := parseValue(parts[2])
	if err != nil {
		return nil, err
	}
	return diskInstr{writing: writing, disk: id, memOp: memOp, diskOp: diskOp}, nil
}

func splitTwo(args, opcode Fragment) ([]Fragment, error) {
	parts, err := splitArg(args, 2)
	if err != nil {
		if e, ok := err.(Error); ok && e.Message == "missing argument" {
			return nil, Error{Fragment: opcode, Message: "expected two arguments"}
		}
		return nil, err
	}
	return parts, nil
}

func splitThree(args, opcode Fragment) ([]Fragment, error) {
	parts, err := splitArg(args, 3)
	if err != nil {
		if e, ok := err.(Error); ok && e.Message == "missing argument" {
			return nil, Error{Fragment: opcode, Message: "expected three arguments"}
		}
		return nil, err
	}
	return parts, nil
}

func parseData(args, opcode Fragment) (instruction, error) {
	args = args.Trim()
	var values []number
	rest := args
	lastSeparator := opcode
	for {
		before, comma, after, ok := rest.SplitOn(',')
		if !ok {
			break
		}
		piece := before.Trim()
		if piece.Len() == 0 {
			return nil, Error{Fragment: comma, Message: "missing byte"}
		}
		n, err := parseNumber(piece)
		if err != nil {
			return nil, err
		}
		if n.value >= 256 {
			return nil, Error{Fragment: piece, Message: "byte value too large"}
		}
		values = append(values, n)
		lastSeparator = comma
		rest = after
	}
	last := rest.Trim()
	if last.Len() == 0 {
		return nil, Error{Fragment: lastSeparator, Message: "missing byte"}
	}
	n, err := parseNumber(last)
	if err != nil {
		return nil, err
	}
	if n.value >= 256 {
		return nil, Error{Fragment: last, Message: "byte value too large"}
	}
	values = append(values, n)
	return bytesInstr{values: values}, nil
}

// parseLine splits off a trailing comment, then an optional leading
// "label:" prefix, before handing the remainder to parseInstructionLine.
func parseLine(fragment Fragment) (line, error) {
	if before, _, _, ok := fragment.SplitOn(';'); ok {
		fragment = before
	}
	label, colon, rest, hasColon := fragment.SplitOn(':')
	if !hasColon {
		instr, err := parseInstructionLine(fragment)
		if err != nil {
			return line{}, err
		}
		return line{instruction: instr}, nil
	}
	label = label.Trim()
	if label.Len() == 0 {
		return line{}, Error{Fragment: colon, Message: "missing label"}
	}
	if !isIdentifier(label.Text()) {
		return line{}, Error{Fragment: label, Message: "invalid label"}
	}
	instr, err := parseInstructionLine(rest)
	if err != nil {
		return line{}, err
	}
	return line{label: label.Text(), hasLabel: true, instruction: instr}, nil
}
