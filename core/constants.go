// Package core implements the tcpu16 virtual machine: a 16-bit CPU with
// linear memory, a framebuffer, a bounded event queue and two removable
// disks. See SPEC_FULL.md for the full contract; this file holds the
// fixed sizes and timing constants that contract is built on.
package core

// Address space and storage sizes.
const (
	MemorySize = 1 << 16 // 64 KiB, addressed by a wrapping u16
	DiskSize   = 1 << 20 // 1 MiB per disk slot

	ScreenWidth  = 128
	ScreenHeight = 96
)

// Timing and layout constants from the bytecode/peripheral contract.
const (
	ScreenPosition     = 0xC000 // memory offset the framebuffer is read from
	ScreenRefreshTime  = 78643  // cycles between framebuffer refreshes
	DiskOpSize         = 4096   // bytes moved per read/write instruction
	CyclesPerByte      = 32     // cycles between successive disk byte transfers
	EventQueueCapacity = 64
	diskAddressScale   = 16 // a disk operand unit is 16 bytes
)

// Event ids, as queued and observed via wait/poll.
const (
	EventKeyUp         = 1
	EventKeyDown       = 2
	EventScreenRefresh = 3
	EventDisk0Done     = 4
	EventDisk1Done     = 5
)

// Disk completion result codes, carried as an event's arg.
const (
	DiskResultOK         = 0
	DiskResultNotPresent = 1
	DiskResultBusy       = 2
)

// haltOpcode is the optional extension described in spec.md §9: an
// otherwise-Invalid opcode repurposed to stop the CPU outright.
const haltOpcode = 0x04
