// Package dma implements the OAM DMA engine: a small state machine that
// reports, tick by tick, which bytes the bus should copy from ROM/RAM into
// OAM. The engine never touches memory itself — per the no-cross-reference
// design rule, only the Bus is allowed to read source bytes and write OAM.
package dma

// State is the DMA engine's FSM state.
type State int

const (
	Inactive State = iota
	Requested
	Starting
	Copying
	Ending
)

const transferLength = 160

// DMA tracks the OAM-copy FSM: 1 cycle requested->starting, 160 cycles of
// one-byte-per-M-cycle copying, 1 cycle ending.
type DMA struct {
	state  State
	source byte // high byte of the source address (source << 8)
	clock  int  // M-cycles elapsed since Initiate
}

// New returns an inactive DMA engine.
func New() *DMA { return &DMA{state: Inactive} }

// Active reports whether a transfer is in progress (including its
// one-cycle start/end phases), which is what gates the bus's read-0xFF/
// ignore-writes lockout.
func (d *DMA) Active() bool { return d.state != Inactive }

// SourcePage returns the page most recently given to Initiate, for the
// DMA trigger register (0xFF46) readback.
func (d *DMA) SourcePage() byte { return d.source }

// Initiate starts a new transfer from source<<8, resetting progress even
// if a transfer was already underway (writing the trigger register again
// mid-copy restarts it on real hardware).
func (d *DMA) Initiate(source byte) {
	d.source = source
	d.state = Requested
	d.clock = 0
}

// Copy describes one tick's worth of work for the bus to perform.
type Copy struct {
	SourceAddr uint16
	DestOffset byte // offset into OAM, 0..159
}

// Tick advances the FSM by one M-cycle and reports the byte to copy this
// tick, if any. The Bus is responsible for performing the actual read of
// SourceAddr and write to OAM at DestOffset.
func (d *DMA) Tick() (c Copy, ok bool) {
	switch d.state {
	case Inactive:
		return Copy{}, false
	case Requested:
		d.state = Starting
		d.clock = 0
		return Copy{}, false
	case Starting:
		d.state = Copying
		d.clock = 0
		fallthrough
	case Copying:
		idx := d.clock
		c = Copy{SourceAddr: uint16(d.source)<<8 + uint16(idx), DestOffset: byte(idx)}
		d.clock++
		if d.clock >= transferLength {
			d.state = Ending
		}
		return c, true
	case Ending:
		d.state = Inactive
		return Copy{}, false
	}
	return Copy{}, false
}
