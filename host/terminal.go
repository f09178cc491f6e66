package host

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/intuitionamiga/tcpu16/core"
)

// shades maps a byte brightness value onto increasingly dense block
// characters, the cheapest way to render a framebuffer wider than a
// terminal onto one that isn't.
const shades = " .:-=+*#%@"

// cellWidth/cellHeight are the pixel block each terminal cell
// downsamples, so the 128x96 screen fits an 80x24-ish terminal.
const (
	cellWidth  = 2
	cellHeight = 4
)

// Terminal is the reference frame consumer + input producer named in
// spec.md §1: it renders the emulator's screen as a block-character
// grid and forwards raw keystrokes as key_down/key_up events, modeled
// on the teacher's TerminalHost (terminal_host.go), which puts stdin
// into raw mode and reads it from a background goroutine.
type Terminal struct {
	emu *core.Emulator

	fd           int
	oldTermState *term.State
	nonblockSet  bool

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

// NewTerminal returns a Terminal that will drive emu.
func NewTerminal(emu *core.Emulator) *Terminal {
	return &Terminal{
		emu:    emu,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins forwarding
// keystrokes to the emulator as key_down/key_up events in a background
// goroutine. Call Stop to restore the terminal.
func (t *Terminal) Start() error {
	t.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		close(t.done)
		return fmt.Errorf("host: entering raw mode: %w", err)
	}
	t.oldTermState = oldState

	if err := syscall.SetNonblock(t.fd, true); err != nil {
		_ = term.Restore(t.fd, t.oldTermState)
		t.oldTermState = nil
		close(t.done)
		return fmt.Errorf("host: setting stdin non-blocking: %w", err)
	}
	t.nonblockSet = true

	go t.readLoop()
	return nil
}

func (t *Terminal) readLoop() {
	defer close(t.done)
	buf := make([]byte, 1)
	for {
		select {
		case <-t.stopCh:
			return
		default:
		}

		n, err := syscall.Read(t.fd, buf)
		if n > 0 {
			code := uint16(buf[0])
			// Raw mode has no separate key-up signal; a terminal byte is
			// treated as an instantaneous press.
			t.emu.KeyDown(code)
			t.emu.KeyUp(code)
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop terminates the input goroutine and restores the terminal.
func (t *Terminal) Stop() {
	t.stopped.Do(func() {
		close(t.stopCh)
	})
	<-t.done
	if t.nonblockSet {
		_ = syscall.SetNonblock(t.fd, false)
		t.nonblockSet = false
	}
	if t.oldTermState != nil {
		_ = term.Restore(t.fd, t.oldTermState)
		t.oldTermState = nil
	}
}

// Render downsamples the emulator's current screen into a block of
// shaded terminal characters and returns it as a string.
func (t *Terminal) Render() string {
	screen := t.emu.Screen()
	var b strings.Builder
	for row := 0; row < core.ScreenHeight; row += cellHeight {
		for col := 0; col < core.ScreenWidth; col += cellWidth {
			b.WriteByte(shadeOf(screen, row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func shadeOf(screen core.Screen, row, col int) byte {
	var sum, count int
	for dy := 0; dy < cellHeight && row+dy < core.ScreenHeight; dy++ {
		for dx := 0; dx < cellWidth && col+dx < core.ScreenWidth; dx++ {
			sum += int(screen[row+dy][col+dx])
			count++
		}
	}
	avg := sum / count
	idx := avg * (len(shades) - 1) / 255
	return shades[idx]
}
