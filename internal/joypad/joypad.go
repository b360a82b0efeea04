// Package joypad models the 2x4 key matrix: a D-pad row and a buttons
// row, multiplexed onto the same 4 output bits by a column-select
// register, with a rising-edge-to-pressed interrupt.
package joypad

import "github.com/adrastea-emu/gbcore/internal/interrupt"

// Key enumerates the eight physical buttons.
type Key int

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// dpad bits, within row0; buttons bits, within row1. Both rows are
// active-low on the bus (0 = pressed) but stored active-high internally.
const (
	bitRight = 1 << 0
	bitLeft  = 1 << 1
	bitUp    = 1 << 2
	bitDown  = 1 << 3
	bitA     = 1 << 0
	bitB     = 1 << 1
	bitSel   = 1 << 2
	bitStart = 1 << 3
)

// Joypad holds the pressed-state of both rows and the last column select.
type Joypad struct {
	dpad    byte // active-high pressed bits, row0
	buttons byte // active-high pressed bits, row1
	selectReg byte // bits 4-5 as last written (0 = that row selected)
}

// New returns a Joypad with nothing pressed and no row selected.
func New() *Joypad { return &Joypad{selectReg: 0x30} }

// Press sets a key as pressed and raises the Joypad interrupt if this is
// a 0->1 (released-to-pressed) transition on a currently-selected row.
func (j *Joypad) Press(k Key, ic *interrupt.Controller) {
	before := j.visibleBits()
	j.setBit(k, true)
	after := j.visibleBits()
	// A key newly becoming visible-and-pressed is a 1 in after that
	// wasn't in before; that's what pulls a device output line low.
	if after&^before != 0 {
		ic.SetPending(interrupt.Joypad)
	}
}

// Release clears a key's pressed state. No interrupt is raised.
func (j *Joypad) Release(k Key) { j.setBit(k, false) }

func (j *Joypad) setBit(k Key, pressed bool) {
	switch k {
	case Right:
		j.setRow(&j.dpad, bitRight, pressed)
	case Left:
		j.setRow(&j.dpad, bitLeft, pressed)
	case Up:
		j.setRow(&j.dpad, bitUp, pressed)
	case Down:
		j.setRow(&j.dpad, bitDown, pressed)
	case A:
		j.setRow(&j.buttons, bitA, pressed)
	case B:
		j.setRow(&j.buttons, bitB, pressed)
	case Select:
		j.setRow(&j.buttons, bitSel, pressed)
	case Start:
		j.setRow(&j.buttons, bitStart, pressed)
	}
}

func (j *Joypad) setRow(row *byte, bit byte, pressed bool) {
	if pressed {
		*row |= bit
	} else {
		*row &^= bit
	}
}

// visibleBits returns the active-high union of whichever row(s) the
// current select register exposes, mirroring what Read() would show
// (inverted).
func (j *Joypad) visibleBits() byte {
	var bits byte
	if j.selectReg&0x10 == 0 { // P14 low selects D-pad
		bits |= j.dpad
	}
	if j.selectReg&0x20 == 0 { // P15 low selects buttons
		bits |= j.buttons
	}
	return bits & 0x0F
}

// WriteSelect stores bits 4-5 from a JOYP write.
func (j *Joypad) WriteSelect(v byte) { j.selectReg = v & 0x30 }

// Read returns the full JOYP byte: bits 7-6 read as 1, bits 5-4 are the
// stored selection, bits 3-0 are the selected row(s) with pressed keys
// reading as 0 (active-low).
func (j *Joypad) Read() byte {
	return 0xC0 | j.selectReg | (0x0F &^ j.visibleBits())
}
