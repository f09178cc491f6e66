package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestEmulator(program []byte) *Emulator {
	e := New()
	e.LoadProgram(program)
	return e
}

func TestDecodeSingleByteOps(t *testing.T) {
	e := newTestEmulator([]byte{0x00, 0x01, 0x02, 0x03, 0x04})
	assert.Equal(t, InstrNop{}, e.decode())
	assert.Equal(t, InstrRet{}, e.decode())
	assert.Equal(t, InstrWait{}, e.decode())
	assert.Equal(t, InstrPoll{}, e.decode())
	assert.Equal(t, InstrHalt{}, e.decode())
	assert.Equal(t, uint16(5), e.ip)
}

func TestDecodeMovImmediateShortForm(t *testing.T) {
	// mov A, 2  ->  0x80 (alu mov), reg=A(0)<<4 | value-selector 0xA (literal 2)
	e := newTestEmulator([]byte{0x80, 0x0A})
	instr := e.decode()
	alu, ok := instr.(InstrAlu)
	assert.True(t, ok)
	assert.Equal(t, AluMov, alu.Op)
	assert.Equal(t, RegA, alu.Dst)
	assert.False(t, alu.Src.IsRegister())
	assert.Equal(t, uint16(2), alu.Src.Immediate())
	assert.Equal(t, uint16(2), e.ip)
}

func TestDecodeAddRegisterToRegister(t *testing.T) {
	// add B, C -> 0x81, reg=B(1)<<4 | value-selector 2 (register C)
	e := newTestEmulator([]byte{0x81, 0x12})
	instr := e.decode().(InstrAlu)
	assert.Equal(t, AluAdd, instr.Op)
	assert.Equal(t, RegB, instr.Dst)
	assert.True(t, instr.Src.IsRegister())
	assert.Equal(t, RegC, instr.Src.Register())
}

func TestDecodeImmediateWideForm(t *testing.T) {
	// mov A, 0x1234 -> value-selector 0xE consumes a 16-bit little-endian tail
	e := newTestEmulator([]byte{0x80, 0x0E, 0x34, 0x12})
	instr := e.decode().(InstrAlu)
	assert.Equal(t, uint16(0x1234), instr.Src.Immediate())
	assert.Equal(t, uint16(4), e.ip)
}

func TestDecodeLoadWithByteOffset(t *testing.T) {
	// load A, [B + 5], offset width = byte (opcode low bits = 1)
	e := newTestEmulator([]byte{0x91, 0x01, 0x05})
	instr := e.decode().(InstrLoad)
	assert.False(t, instr.Wide)
	assert.Equal(t, RegA, instr.Dst)
	assert.True(t, instr.Addr.Base.IsRegister())
	assert.Equal(t, RegB, instr.Addr.Base.Register())
	assert.Equal(t, uint16(5), instr.Addr.Offset)
}

func TestDecodeStoreAllowsImmediateSource(t *testing.T) {
	// store 0, A -> upper nibble of the reg|value byte is a full operand,
	// not just a register, so an immediate may be stored directly.
	e := newTestEmulator([]byte{0x98, 0x80})
	instr := e.decode().(InstrStore)
	assert.False(t, instr.Wide)
	assert.False(t, instr.Src.IsRegister())
	assert.Equal(t, uint16(0), instr.Src.Immediate())
	assert.True(t, instr.Addr.Base.IsRegister())
	assert.Equal(t, RegA, instr.Addr.Base.Register())
}

func TestDecodeBranchGroup(t *testing.T) {
	// jg A, 0x10 -> 0xA3 (CondJg), reg=A<<4 | value-selector 0xD (8-bit tail)
	e := newTestEmulator([]byte{0xA3, 0x0D, 0x10})
	instr := e.decode().(InstrBranch)
	assert.Equal(t, CondJg, instr.Cond)
	assert.Equal(t, RegA, instr.Reg)
	assert.Equal(t, uint16(0x10), instr.Target.Immediate())
}

func TestDecodeDiskRead(t *testing.T) {
	// read0 A, B -> 0xF0, operand pair byte selects A then B
	e := newTestEmulator([]byte{0xF0, 0x01})
	instr := e.decode().(InstrDiskOp)
	assert.False(t, instr.Writing)
	assert.Equal(t, Disk0, instr.Disk)
	assert.True(t, instr.MemOp.IsRegister())
	assert.Equal(t, RegA, instr.MemOp.Register())
	assert.True(t, instr.DiskOp.IsRegister())
	assert.Equal(t, RegB, instr.DiskOp.Register())
}

func TestDecodeUnknownOpcodeIsInvalid(t *testing.T) {
	e := newTestEmulator([]byte{0x05})
	assert.Equal(t, InstrInvalid{}, e.decode())
}

func TestInstructionPointerWrapsAtTopOfMemory(t *testing.T) {
	e := New()
	e.ip = MemorySize - 1
	e.Memory()[MemorySize-1] = 0x00
	e.Memory()[0] = 0x01
	first := e.decode()
	second := e.decode()
	assert.Equal(t, InstrNop{}, first)
	assert.Equal(t, InstrRet{}, second)
	assert.Equal(t, uint16(1), e.ip)
}
