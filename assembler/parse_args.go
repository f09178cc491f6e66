package assembler

import (
	"strconv"
	"strings"

	"github.com/intuitionamiga/tcpu16/core"
)

func parseRegister(f Fragment) (core.Register, error) {
	f = f.Trim()
	switch strings.ToUpper(f.Text()) {
	case "A":
		return core.RegA, nil
	case "B":
		return core.RegB, nil
	case "C":
		return core.RegC, nil
	case "D":
		return core.RegD, nil
	case "I":
		return core.RegI, nil
	case "J":
		return core.RegJ, nil
	case "P":
		return core.RegP, nil
	case "S":
		return core.RegS, nil
	default:
		return 0, Error{Fragment: f, Message: "invalid register"}
	}
}

func parseDiskID(f Fragment) (core.DiskID, error) {
	f = f.Trim()
	switch f.Text() {
	case "0":
		return core.Disk0, nil
	case "1":
		return core.Disk1, nil
	default:
		return 0, Error{Fragment: f, Message: "invalid disk"}
	}
}

func parseNumber(f Fragment) (number, error) {
	f = f.Trim()
	text := f.Text()
	var v uint64
	var err error
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		v, err = strconv.ParseUint(text[2:], 16, 16)
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		v, err = strconv.ParseUint(text[2:], 2, 16)
	default:
		v, err = strconv.ParseUint(text, 10, 16)
	}
	if err != nil {
		return number{}, Error{Fragment: f, Message: "invalid number"}
	}
	return number{value: uint16(v)}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func parseName(f Fragment) (string, error) {
	f = f.Trim()
	if !isIdentifier(f.Text()) {
		return "", Error{Fragment: f, Message: "invalid name"}
	}
	return f.Text(), nil
}

func parseConstant(f Fragment) (constant, error) {
	f = f.Trim()
	if _, err := parseRegister(f); err == nil {
		return nil, Error{Fragment: f, Message: "invalid constant"}
	}
	if n, err := parseNumber(f); err == nil {
		return numberConstant{value: n.value}, nil
	}
	if name, err := parseName(f); err == nil {
		return labelConstant{name: name, fragment: f}, nil
	}
	return nil, Error{Fragment: f, Message: "invalid value"}
}

func parseValue(f Fragment) (value, error) {
	if reg, err := parseRegister(f); err == nil {
		return registerValue{reg: reg}, nil
	}
	if c, err := parseConstant(f); err == nil {
		return constantValue{c: c}, nil
	}
	return nil, Error{Fragment: f.Trim(), Message: "invalid value"}
}

func parseAddress(f Fragment) (address, error) {
	f = f.Trim()
	base, plus, rest, hasOffset := f.SplitOn('+')
	v, err := parseValue(base)
	if err != nil {
		return address{}, err
	}
	if !hasOffset {
		return address{base: v}, nil
	}
	off, err := parseConstant(rest)
	if err != nil {
		if e, ok := err.(Error); ok {
			return address{}, e.or(Error{Fragment: plus, Message: "missing offset"})
		}
		return address{}, err
	}
	return address{base: v, offset: off}, nil
}
