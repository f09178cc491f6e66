package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// mov A, 3
func TestScenarioMov(t *testing.T) {
	e := newTestEmulator([]byte{0x80, 0x0B}) // value-selector 0xB == literal 3
	e.Cycle()
	assert.Equal(t, uint16(3), e.registers.A)
}

// push 7; pop A
func TestScenarioPushPop(t *testing.T) {
	e := newTestEmulator([]byte{
		0x4D, 0x07, // push 7 (0xD = 8-bit immediate tail)
		0x30, // pop A
	})
	e.registers.S = 0x1000
	e.Cycle() // push
	assert.Equal(t, uint16(0x0FFE), e.registers.S)
	assert.Equal(t, byte(7), e.Memory()[0x1000])
	e.Cycle() // pop
	assert.Equal(t, uint16(0x1000), e.registers.S)
	assert.Equal(t, uint16(7), e.registers.A)
}

// call 0x0010 ... at 0x0010: ret
func TestScenarioCallRet(t *testing.T) {
	e := New()
	mem := e.Memory()
	mem[0] = 0x6E // call, value-selector 0xE (16-bit tail)
	mem[1] = 0x10
	mem[2] = 0x00
	mem[0x10] = 0x01 // ret
	e.registers.S = 0x2000

	e.Cycle() // call
	assert.Equal(t, uint16(0x10), e.ip)
	assert.Equal(t, uint16(0x1FFE), e.registers.S)
	assert.Equal(t, uint16(3), e.loadWord(0x2000))

	e.Cycle() // ret
	assert.Equal(t, uint16(3), e.ip)
	assert.Equal(t, uint16(0x2000), e.registers.S)
}

// cmp A, B ; jge A, target
func TestScenarioCmpJge(t *testing.T) {
	e := New()
	mem := e.Memory()
	mem[0] = 0x88 // alu cmp
	mem[1] = 0x01 // reg=A(0), value-selector 1 (register B)
	mem[2] = 0xA5 // jge
	mem[3] = 0x0E // reg=A(0), value-selector 0xE (16-bit tail)
	mem[4] = 0x20
	mem[5] = 0x00
	e.registers.A = 5
	e.registers.B = 3

	e.Cycle() // cmp -> A becomes 1 (greater)
	assert.Equal(t, uint16(1), e.registers.A)
	e.Cycle() // jge: A != 0xFFFF, taken
	assert.Equal(t, uint16(0x20), e.ip)
}

// cmp A, B ; jle A, target
func TestScenarioCmpJle(t *testing.T) {
	e := New()
	mem := e.Memory()
	mem[0] = 0x88 // alu cmp
	mem[1] = 0x01
	mem[2] = 0xA4 // jle
	mem[3] = 0x0E
	mem[4] = 0x30
	mem[5] = 0x00
	e.registers.A = 2
	e.registers.B = 9

	e.Cycle() // cmp -> A becomes 0xFFFF (less)
	assert.Equal(t, uint16(0xFFFF), e.registers.A)
	e.Cycle() // jle: A != 1, taken
	assert.Equal(t, uint16(0x30), e.ip)
}

// wait ; nop ; poll -- the nop absorbs the cycle in which the dequeued
// event lands in (A,B), so a later poll against an empty queue doesn't
// immediately clobber it.
func TestScenarioWaitPoll(t *testing.T) {
	e := newTestEmulator([]byte{0x02, 0x00, 0x03}) // wait, nop, poll
	e.Cycle()                                      // enters Waiting, no event yet
	assert.Equal(t, stateWaiting, e.state)
	assert.Equal(t, uint16(1), e.ip)

	e.KeyDown(0x41)
	e.Cycle() // dequeues the key event, resumes Running, executes the nop
	assert.Equal(t, stateRunning, e.state)
	assert.Equal(t, uint16(EventKeyDown), e.registers.A)
	assert.Equal(t, uint16(0x41), e.registers.B)
	assert.Equal(t, uint16(2), e.ip)

	e.Cycle() // executes poll against an empty queue
	assert.Equal(t, uint16(3), e.ip)
	assert.Equal(t, uint16(0), e.registers.A)
	assert.Equal(t, uint16(0), e.registers.B)
}

func TestHaltStopsExecutionButNotPeripherals(t *testing.T) {
	e := newTestEmulator([]byte{0x04})
	e.Cycle()
	assert.False(t, e.IsRunning())
	assert.Equal(t, uint16(1), e.ip)
	ipBefore := e.ip
	cyclesBefore := e.cycles
	e.Cycle()
	assert.Equal(t, ipBefore, e.ip)
	assert.Equal(t, cyclesBefore+1, e.cycles)
}

func TestEventQueueDropsOldestOnOverflow(t *testing.T) {
	e := New()
	for i := 0; i < EventQueueCapacity+10; i++ {
		e.KeyDown(uint16(i))
	}
	assert.Equal(t, EventQueueCapacity, e.events.Len())
	first, ok := e.events.Pop()
	assert.True(t, ok)
	assert.Equal(t, uint16(10), first.Arg)
}

func TestArithmeticWrapsRatherThanPanics(t *testing.T) {
	e := New()
	e.registers.A = 0xFFFF
	InstrAlu{Op: AluAdd, Dst: RegA, Src: ImmediateOperand(1)}.apply(e)
	assert.Equal(t, uint16(0), e.registers.A)

	e.registers.B = 0
	InstrAlu{Op: AluSub, Dst: RegB, Src: ImmediateOperand(1)}.apply(e)
	assert.Equal(t, uint16(0xFFFF), e.registers.B)
}

func TestShiftBySixteenOrMoreYieldsZero(t *testing.T) {
	e := New()
	e.registers.A = 0xFFFF
	InstrAlu{Op: AluShl, Dst: RegA, Src: ImmediateOperand(16)}.apply(e)
	assert.Equal(t, uint16(0), e.registers.A)

	e.registers.B = 0xFFFF
	InstrAlu{Op: AluShr, Dst: RegB, Src: ImmediateOperand(17)}.apply(e)
	assert.Equal(t, uint16(0), e.registers.B)
}

func TestDiskIdleCounterSaturatesAndResetsOnNewOp(t *testing.T) {
	e := New()
	e.InsertDisk(Disk0, make([]byte, DiskSize))
	e.disks[Disk0].idle = ^uint64(0)
	e.disks[Disk0].bumpIdle()
	assert.Equal(t, ^uint64(0), e.disks[Disk0].idle)

	result := e.disks[Disk0].startOp(false, 0, 0)
	assert.Equal(t, DiskResultOK, result)
	assert.Equal(t, uint64(0), e.disks[Disk0].idle)
}

func TestDiskOpRefusesWhenBusyOrAbsent(t *testing.T) {
	e := New()
	assert.Equal(t, DiskResultNotPresent, e.disks[Disk0].startOp(false, 0, 0))

	e.InsertDisk(Disk0, make([]byte, DiskSize))
	assert.Equal(t, DiskResultOK, e.disks[Disk0].startOp(false, 0, 0))
	assert.Equal(t, DiskResultBusy, e.disks[Disk0].startOp(false, 0, 0))
}

func TestDiskTransferCompletesAfterExpectedCycles(t *testing.T) {
	e := New()
	image := make([]byte, DiskSize)
	image[0] = 0x42
	e.InsertDisk(Disk0, image)

	e.disks[Disk0].startOp(false, 0x100, 0)
	mem := e.Memory()
	var lastEvent Event
	var sawEvent bool
	for i := 0; i < DiskOpSize*CyclesPerByte+1; i++ {
		if ev, fired := e.disks[Disk0].tick(mem, Disk0); fired {
			lastEvent = ev
			sawEvent = true
			break
		}
	}
	assert.True(t, sawEvent)
	assert.Equal(t, uint16(EventDisk0Done), lastEvent.ID)
	assert.Equal(t, byte(0x42), mem[0x100])
}

func TestResetAutoBootsFromDisk0(t *testing.T) {
	e := New()
	image := make([]byte, DiskSize)
	image[0] = 0x04 // halt
	e.InsertDisk(Disk0, image)
	e.Reset()
	assert.Equal(t, byte(0x04), e.Memory()[0])
}

func TestResetZeroesStaleMemory(t *testing.T) {
	e := New()
	mem := e.Memory()
	mem[0] = 0xAA
	mem[DiskOpSize] = 0xBB
	mem[MemorySize-1] = 0xCC
	e.Reset()
	assert.Equal(t, byte(0), e.Memory()[0])
	assert.Equal(t, byte(0), e.Memory()[DiskOpSize])
	assert.Equal(t, byte(0), e.Memory()[MemorySize-1])
}

func TestScreenRefreshFiresEventAndSnapshotsFramebuffer(t *testing.T) {
	e := New()
	e.Memory()[ScreenPosition] = 9
	for i := uint64(0); i <= ScreenRefreshTime; i++ {
		e.Cycle()
	}
	screen := e.Screen()
	assert.Equal(t, byte(9), screen[0][0])
}
