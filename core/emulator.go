package core

// cpuState tracks the CPU's run mode, per spec.md §4.4.
type cpuState uint8

const (
	stateRunning cpuState = iota
	stateWaiting
	stateHalted
)

// Emulator is a tcpu16 virtual machine: CPU, linear memory, framebuffer,
// event queue and two disk slots advanced one cycle at a time.
type Emulator struct {
	tracer Tracer
	mem    MemoryStorage

	screen    Screen
	registers Registers
	ip        uint16
	events    EventQueue
	disks     [2]diskSlot

	cycles        uint64
	timeToRefresh uint64
	state         cpuState
}

// New returns an Emulator backed by a heap-allocated 64 KiB address space.
func New() *Emulator {
	return NewWithMemory(&heapMemory{})
}

// NewWithMemory returns an Emulator backed by the given MemoryStorage,
// for embedders that want control over how the address space is
// allocated (spec.md §9).
func NewWithMemory(mem MemoryStorage) *Emulator {
	e := &Emulator{mem: mem, tracer: NoopTracer{}}
	e.Reset()
	return e
}

// SetTracer installs an execution observer. Passing nil restores the
// default no-op tracer.
func (e *Emulator) SetTracer(t Tracer) {
	if t == nil {
		t = NoopTracer{}
	}
	e.tracer = t
}

// Reset zeroes memory and the framebuffer, clears registers, the event
// queue and CPU state, then auto-boots from disk 0 if one is present:
// its first DiskOpSize bytes are copied to the start of memory, per
// spec.md §9.
func (e *Emulator) Reset() {
	e.registers = Registers{}
	e.ip = 0
	e.events = EventQueue{}
	e.cycles = 0
	e.timeToRefresh = ScreenRefreshTime
	e.state = stateRunning
	e.screen = Screen{}

	mem := e.mem.Bytes()
	for i := range mem {
		mem[i] = 0
	}

	boot := &e.disks[Disk0]
	boot.op = nil
	boot.idle = 0
	if boot.present {
		disk := boot.storage.Bytes()
		copy(mem[:DiskOpSize], disk[:DiskOpSize])
	}
}

// LoadProgram copies bytecode to the start of memory and resets the
// instruction pointer to it. Intended for tests and simple hosts that
// don't go through a disk image.
func (e *Emulator) LoadProgram(program []byte) {
	mem := e.mem.Bytes()
	copy(mem[:], program)
	e.ip = 0
}

// Cycle advances the machine by exactly one cycle: screen refresh
// bookkeeping, one cycle of progress on each running disk operation, the
// cycle counter, then either an event dequeue (Waiting) or a single
// instruction decode-and-execute (Running). A Halted CPU only advances
// peripherals. See spec.md §4.4.
func (e *Emulator) Cycle() {
	if e.timeToRefresh == 0 {
		e.refreshScreen()
		e.events.Push(Event{ID: EventScreenRefresh})
		e.timeToRefresh = ScreenRefreshTime
	}
	e.timeToRefresh--

	mem := e.mem.Bytes()
	for id := range e.disks {
		if ev, fired := e.disks[id].tick(mem, DiskID(id)); fired {
			e.events.Push(ev)
		}
	}

	e.cycles++

	if e.state == stateHalted {
		return
	}

	if e.state == stateWaiting {
		if ev, ok := e.events.Pop(); ok {
			e.registers.A = ev.ID
			e.registers.B = ev.Arg
			e.state = stateRunning
		}
	}

	if e.state == stateRunning {
		addr := e.ip
		instr := e.decode()
		e.tracer.OnInstruction(addr, instr)
		e.apply(instr)
		e.tracer.OnRegisters(e.registers)
	}
}

// Run advances the machine by n cycles.
func (e *Emulator) Run(n uint64) {
	for i := uint64(0); i < n; i++ {
		e.Cycle()
	}
}

// IsRunning reports whether the CPU will still execute instructions;
// false only once Halt has run.
func (e *Emulator) IsRunning() bool {
	return e.state != stateHalted
}

// Cycles reports the total number of cycles advanced since the last reset.
func (e *Emulator) Cycles() uint64 {
	return e.cycles
}

// Registers returns a copy of the current register file.
func (e *Emulator) Registers() Registers {
	return e.registers
}

// IP returns the current instruction pointer.
func (e *Emulator) IP() uint16 {
	return e.ip
}

// Screen returns the most recently refreshed framebuffer.
func (e *Emulator) Screen() Screen {
	return e.screen
}

// KeyDown queues a key-down event, per spec.md §6.
func (e *Emulator) KeyDown(code uint16) {
	e.events.Push(Event{ID: EventKeyDown, Arg: code})
}

// KeyUp queues a key-up event, per spec.md §6.
func (e *Emulator) KeyUp(code uint16) {
	e.events.Push(Event{ID: EventKeyUp, Arg: code})
}

// InsertDisk mounts a disk image into the given slot on a plain
// heap-allocated backing, replacing any disk already there. The image is
// copied; the caller's slice is not aliased.
func (e *Emulator) InsertDisk(id DiskID, image []byte) {
	e.InsertDiskStorage(id, &heapDisk{}, image)
}

// InsertDiskStorage mounts a disk image into the given slot on a
// caller-supplied DiskStorage, for embedders that want to back a disk
// with something other than a heap array (spec.md §9).
func (e *Emulator) InsertDiskStorage(id DiskID, storage DiskStorage, image []byte) {
	slot := &e.disks[id]
	slot.present = true
	slot.storage = storage
	slot.modified = false
	slot.idle = 0
	slot.op = nil
	disk := storage.Bytes()
	n := copy(disk[:], image)
	for i := n; i < DiskSize; i++ {
		disk[i] = 0
	}
}

// AttachDiskStorage mounts a slot directly onto storage whose bytes are
// already populated (e.g. a disk image a host already read from file),
// leaving its contents untouched, unlike InsertDiskStorage which always
// overwrites them.
func (e *Emulator) AttachDiskStorage(id DiskID, storage DiskStorage) {
	slot := &e.disks[id]
	slot.present = true
	slot.storage = storage
	slot.modified = false
	slot.idle = 0
	slot.op = nil
}

// RemoveDisk unmounts whatever disk is in the given slot, if any.
func (e *Emulator) RemoveDisk(id DiskID) {
	slot := &e.disks[id]
	*slot = diskSlot{}
}

// DiskStats reports the host-observable state of a disk slot.
func (e *Emulator) DiskStats(id DiskID) DiskStats {
	return e.disks[id].stats()
}

// DiskImage returns the raw bytes backing a disk slot, for a host to
// persist to a file. Returns nil if no disk is present.
func (e *Emulator) DiskImage(id DiskID) []byte {
	slot := &e.disks[id]
	if !slot.present {
		return nil
	}
	disk := slot.storage.Bytes()
	return disk[:]
}

// Memory exposes the raw address space, for hosts and debuggers that need
// direct peeks/pokes outside of instruction execution.
func (e *Emulator) Memory() *[MemorySize]byte {
	return e.mem.Bytes()
}
