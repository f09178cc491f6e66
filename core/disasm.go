package core

import "fmt"

// DisassembledInstruction is one decoded instruction paired with the
// address it started at and how many bytes it occupied.
type DisassembledInstruction struct {
	Address uint16
	Length  uint16
	Instr   Instruction
}

func (d DisassembledInstruction) String() string {
	return fmt.Sprintf("%04x: %s", d.Address, d.Instr)
}

// Disassemble decodes one instruction at the given address without
// disturbing the emulator's own instruction pointer, for use by debuggers
// and the assembler's disassemble subcommand.
func (e *Emulator) Disassemble(addr uint16) DisassembledInstruction {
	saved := e.ip
	e.ip = addr
	instr := e.decode()
	length := e.ip - addr
	e.ip = saved
	return DisassembledInstruction{Address: addr, Length: length, Instr: instr}
}

// DisassembleRange decodes count consecutive instructions starting at
// addr, following whatever Length came back from each in turn rather than
// assuming fixed-width instructions.
func (e *Emulator) DisassembleRange(addr uint16, count int) []DisassembledInstruction {
	out := make([]DisassembledInstruction, 0, count)
	for i := 0; i < count; i++ {
		d := e.Disassemble(addr)
		out = append(out, d)
		addr += d.Length
	}
	return out
}
