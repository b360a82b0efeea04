// Package bus wires the CPU-visible 16-bit address space to the
// cartridge, VRAM/OAM (via the PPU), work RAM, high RAM, and the I/O
// sub-dispatch (joypad, timer, interrupt registers, PPU registers, DMA
// trigger, BIOS-unmap latch), per spec §4.4.
package bus

import (
	"github.com/adrastea-emu/gbcore/internal/cart"
	"github.com/adrastea-emu/gbcore/internal/dma"
	"github.com/adrastea-emu/gbcore/internal/interrupt"
	"github.com/adrastea-emu/gbcore/internal/joypad"
	"github.com/adrastea-emu/gbcore/internal/ppu"
	"github.com/adrastea-emu/gbcore/internal/timer"
)

// Bus owns every addressable subsystem and routes CPU reads/writes to
// them. It also implements the cpu.Bus capability interface
// (Read/Write/Update/HasIRQ/AckIRQ) so the CPU package never imports bus
// directly.
type Bus struct {
	cart cart.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF, mirrored at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu    *ppu.PPU
	timer  *timer.Timer
	joypad *joypad.Joypad
	dma    *dma.DMA
	ic     *interrupt.Controller

	// serial is a latch pair with no link-cable behavior: spec's Non-goal
	// is the serial *link*, not the register pair, and the Serial
	// interrupt source must still exist (spec §4.3/§12).
	sb, sc byte

	bios       []byte
	biosMapped bool

	frameReady bool
}

// New wires a freshly constructed cartridge and all ancillary subsystems
// around an optional 256-byte BIOS image. bios may be nil, in which case
// bios_mapped starts false and ROM bank 0 is visible from address 0.
func New(biosData []byte, c cart.Cartridge) *Bus {
	b := &Bus{
		cart:   c,
		ppu:    ppu.New(),
		timer:  timer.New(),
		joypad: joypad.New(),
		dma:    dma.New(),
		ic:     interrupt.New(),
	}
	if len(biosData) == 256 {
		b.bios = make([]byte, 256)
		copy(b.bios, biosData)
		b.biosMapped = true
	}
	return b
}

// PPU exposes the PPU for framebuffer access by the core package.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Joypad exposes key press/release to the core package.
func (b *Bus) Joypad() *joypad.Joypad { return b.joypad }

// Cart exposes the cartridge for optional battery-RAM persistence.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

func (b *Bus) Read(addr uint16) byte {
	if b.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) && addr != 0xFF46 {
		return 0xFF
	}
	return b.readRegion(addr)
}

// readRegion performs the plain address-space routing with no DMA-lock
// check. It backs the CPU-facing Read above and also the DMA engine's own
// source fetch in Update, which must see real memory even while the lock
// it itself imposes would otherwise blank out everything but high RAM.
func (b *Bus) readRegion(addr uint16) byte {
	switch {
	case addr < 0x0100 && b.biosMapped:
		return b.bios[addr]
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.ReadVRAM(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.ppu.ReadOAM(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0x00
	case addr >= 0xFF00 && addr <= 0xFF7F:
		return b.readIO(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ic.IE()
	}
	return 0xFF
}

func (b *Bus) Write(addr uint16, v byte) {
	if b.dma.Active() && !(addr >= 0xFF80 && addr <= 0xFFFE) && addr != 0xFF46 {
		return
	}
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.WriteVRAM(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, v)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = v
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.WriteOAM(addr, v)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unmapped, writes ignored
	case addr >= 0xFF00 && addr <= 0xFF7F:
		b.writeIO(addr, v)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.ic.SetIE(v)
	}
}

// readIO implements the I/O sub-dispatch table in spec §4.4: only the
// listed offsets do anything, every other 0xFF00-0xFF7F address reads as
// 0xFF (inert).
func (b *Bus) readIO(addr uint16) byte {
	switch {
	case addr == 0xFF00:
		return b.joypad.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | b.sc
	case addr == 0xFF04:
		return b.timer.DIV()
	case addr == 0xFF05:
		return b.timer.TIMA()
	case addr == 0xFF06:
		return b.timer.TMA()
	case addr == 0xFF07:
		return b.timer.TAC()
	case addr == 0xFF0F:
		return 0xE0 | b.ic.IF()
	case addr >= 0xFF40 && addr <= 0xFF45:
		return b.ppu.ReadReg(addr)
	case addr == 0xFF46:
		return b.dma.SourcePage()
	case addr >= 0xFF47 && addr <= 0xFF4B:
		return b.ppu.ReadReg(addr)
	case addr == 0xFF50:
		if b.biosMapped {
			return 0x00
		}
		return 0xFF
	}
	return 0xFF
}

func (b *Bus) writeIO(addr uint16, v byte) {
	switch {
	case addr == 0xFF00:
		b.joypad.WriteSelect(v)
	case addr == 0xFF01:
		b.sb = v
	case addr == 0xFF02:
		b.sc = v & 0x81
		if b.sc&0x80 != 0 {
			// No link partner exists; the transfer "completes" immediately
			// and only raises the Serial interrupt (spec §12).
			b.sc &^= 0x80
			b.ic.SetPending(interrupt.Serial)
		}
	case addr == 0xFF04:
		b.timer.WriteDIV()
	case addr == 0xFF05:
		b.timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.timer.WriteTMA(v)
	case addr == 0xFF07:
		b.timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.ic.SetIF(v & 0x1F)
	case addr >= 0xFF40 && addr <= 0xFF45:
		b.ppu.WriteReg(addr, v, b.ic)
	case addr == 0xFF46:
		b.dma.Initiate(v)
	case addr >= 0xFF47 && addr <= 0xFF4B:
		b.ppu.WriteReg(addr, v, b.ic)
	case addr == 0xFF50:
		if v != 0 {
			b.biosMapped = false
		}
	}
}

// Update advances every cycle-driven subsystem by one M-cycle, n times.
// It is the bus's half of the cpu.Bus capability interface and is called
// once per M-cycle the CPU spends executing.
func (b *Bus) Update(cycles int) {
	for i := 0; i < cycles; i++ {
		b.timer.Tick(b.ic)
		if b.ppu.Tick(b.ic) {
			b.frameReady = true
		}
		if c, ok := b.dma.Tick(); ok {
			v := b.readRegion(c.SourceAddr)
			b.ppu.WriteOAMRaw(c.DestOffset, v)
		}
	}
}

// FrameReady reports whether a frame has completed since the last call
// and clears the latch.
func (b *Bus) FrameReady() bool {
	r := b.frameReady
	b.frameReady = false
	return r
}

// HasIRQ and AckIRQ complete the cpu.Bus capability interface: the CPU
// never touches the interrupt controller directly.
func (b *Bus) HasIRQ() bool { return b.ic.HasPending() }

func (b *Bus) AckIRQ() (vector uint16, ok bool) {
	src, ok := b.ic.Ack()
	if !ok {
		return 0, false
	}
	return src.Vector(), true
}

// PressKey and ReleaseKey forward to the joypad, raising the Joypad
// interrupt on a press that newly pulls a visible line low.
func (b *Bus) PressKey(k joypad.Key)   { b.joypad.Press(k, b.ic) }
func (b *Bus) ReleaseKey(k joypad.Key) { b.joypad.Release(k) }
