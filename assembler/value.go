package assembler

import "github.com/intuitionamiga/tcpu16/core"

// number is a parsed numeric literal (decimal, hex, or binary). Only the
// value is kept; the base it was written in is not recorded.
type number struct {
	value uint16
}

// constant is either a numeric literal or a label reference, resolved
// against the label table at encode time.
type constant interface {
	// encode returns the value-selector nibble and its trailing bytes.
	encode(labels map[string]uint16) (byte, []byte, error)
	// resolve returns the constant's plain 16-bit value, for offsets.
	resolve(labels map[string]uint16) (uint16, error)
}

type numberConstant struct {
	value uint16
}

func (c numberConstant) encode(map[string]uint16) (byte, []byte, error) {
	switch {
	case c.value <= 4:
		return 0x8 + byte(c.value), nil, nil
	case c.value <= 255:
		return 0xD, []byte{byte(c.value)}, nil
	case c.value == 0xFFFF:
		return 0xF, nil, nil
	default:
		return 0xE, le16(c.value), nil
	}
}

func (c numberConstant) resolve(map[string]uint16) (uint16, error) {
	return c.value, nil
}

type labelConstant struct {
	name     string
	fragment Fragment
}

func (c labelConstant) encode(labels map[string]uint16) (byte, []byte, error) {
	v, err := c.resolve(labels)
	if err != nil {
		return 0, nil, err
	}
	return 0xE, le16(v), nil
}

func (c labelConstant) resolve(labels map[string]uint16) (uint16, error) {
	v, ok := labels[c.name]
	if !ok {
		return 0, Error{Fragment: c.fragment, Message: "undefined label"}
	}
	return v, nil
}

// value is either a register or a constant, per spec.md §4.1's operand
// model.
type value interface {
	encode(labels map[string]uint16) (byte, []byte, error)
}

type registerValue struct {
	reg core.Register
}

func (v registerValue) encode(map[string]uint16) (byte, []byte, error) {
	return byte(v.reg), nil, nil
}

type constantValue struct {
	c constant
}

func (v constantValue) encode(labels map[string]uint16) (byte, []byte, error) {
	return v.c.encode(labels)
}

// address is an operand plus an optional constant offset, per spec.md
// §4.1's Load/Store family. A nil Offset means "no offset" (width 0); a
// present one is always emitted as a two-byte tail, mirroring the
// reference assembler.
type address struct {
	base   value
	offset constant
}

func le16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}
