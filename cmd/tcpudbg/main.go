// Command tcpudbg is an interactive terminal debugger for tcpu16: it
// loads a bytecode image and single-steps it, showing the register
// file, a memory page table, and a disassembly window.
package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/intuitionamiga/tcpu16/core"
)

func main() {
	root := &cobra.Command{
		Use:   "tcpudbg <program.bin>",
		Short: "Step a tcpu16 bytecode image under an interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	emu := core.New()
	emu.LoadProgram(program)

	trace := &scrollbackTracer{}
	emu.SetTracer(trace)

	m := model{emu: emu, trace: trace, offset: emu.IP()}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	return nil
}

// scrollbackTracer keeps the last few executed instructions, the way
// the teacher's debug_monitor.go keeps a scrollback of stepped state.
type scrollbackTracer struct {
	core.NoopTracer
	lines []string
}

const scrollbackLimit = 12

func (t *scrollbackTracer) OnInstruction(addr uint16, instr core.Instruction) {
	t.lines = append(t.lines, fmt.Sprintf("%04X  %s", addr, instr))
	if len(t.lines) > scrollbackLimit {
		t.lines = t.lines[len(t.lines)-scrollbackLimit:]
	}
}

type model struct {
	emu    *core.Emulator
	trace  *scrollbackTracer
	offset uint16
	dump   string
	err    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "s":
		if m.emu.IsRunning() {
			m.emu.Cycle()
		}
	case "d":
		m.dump = spew.Sdump(m.emu.Registers(), m.emu.DiskStats(core.Disk0), m.emu.DiskStats(core.Disk1))
	}
	return m, nil
}

const pageRows = 6

func (m model) pageTable() string {
	mem := m.emu.Memory()
	header := "addr | " + "00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f"
	lines := []string{header}
	start := m.offset - (m.offset % 16)
	for row := 0; row < pageRows; row++ {
		base := start + uint16(row*16)
		line := fmt.Sprintf("%04X | ", base)
		for i := 0; i < 16; i++ {
			addr := base + uint16(i)
			b := mem[addr]
			if addr == m.emu.IP() {
				line += fmt.Sprintf("[%02x]", b)
			} else {
				line += fmt.Sprintf(" %02x ", b)
			}
		}
		lines = append(lines, line)
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

func (m model) status() string {
	r := m.emu.Registers()
	return fmt.Sprintf(
		"IP: %04X\nA:%04X B:%04X C:%04X D:%04X\nI:%04X J:%04X P:%04X S:%04X\ncycles: %d running: %v",
		m.emu.IP(), r.A, r.B, r.C, r.D, r.I, r.J, r.P, r.S, m.emu.Cycles(), m.emu.IsRunning(),
	)
}

func (m model) disassembly() string {
	out := "disassembly:\n"
	for _, l := range m.trace.lines {
		out += l + "\n"
	}
	return out
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func (m model) View() string {
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.pageTable(),
		"   ",
		m.status(),
	)
	footer := headerStyle.Render("space/s: step  d: dump  q: quit")
	view := lipgloss.JoinVertical(lipgloss.Left, body, "", m.disassembly(), footer)
	if m.dump != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "", m.dump)
	}
	return view
}
