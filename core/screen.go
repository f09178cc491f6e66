package core

// Screen is the framebuffer snapshotted from memory at ScreenPosition
// every ScreenRefreshTime cycles. Byte values are host-defined (spec.md
// leaves the palette/grayscale interpretation to the frame consumer).
type Screen [ScreenHeight][ScreenWidth]byte

func (e *Emulator) refreshScreen() {
	mem := e.mem.Bytes()
	for row := 0; row < ScreenHeight; row++ {
		for col := 0; col < ScreenWidth; col++ {
			addr := uint16(ScreenPosition + row*ScreenWidth + col)
			e.screen[row][col] = mem[addr]
		}
	}
	e.tracer.OnScreenRefresh(&e.screen)
}
