// Package timer implements the programmable divider/counter pair: DIV
// increments every 16 M-cycles; TIMA increments at a rate selected by TAC
// and reloads from TMA (raising the Timer interrupt) on overflow.
package timer

import "github.com/adrastea-emu/gbcore/internal/interrupt"

// periodForRate maps TAC's low 2 bits to the TIMA increment period, in
// M-cycles, in the order documented by spec §4.6: {64, 1, 4, 16}.
var periodForRate = [4]int{64, 1, 4, 16}

// Timer models DIV/TIMA/TMA/TAC.
type Timer struct {
	div     byte
	divSub  int // M-cycles accumulated toward the next DIV increment (period 16)
	tima    byte
	tma     byte
	tac     byte // low 3 bits: bit2 enable, bits0-1 rate select
	timaSub int // M-cycles accumulated toward the next TIMA increment

	// overflowDelay counts M-cycles remaining until a pending overflow
	// reloads TIMA from TMA and raises the interrupt. A write to TIMA
	// while this is running cancels the pending reload.
	overflowDelay int
}

// New returns a Timer with all registers zeroed, matching post-reset state.
func New() *Timer { return &Timer{} }

// DIV returns the visible 8-bit divider register (FF04).
func (t *Timer) DIV() byte { return t.div }

// WriteDIV resets the divider to 0 regardless of the value written.
func (t *Timer) WriteDIV() {
	t.div = 0
	t.divSub = 0
}

func (t *Timer) TIMA() byte { return t.tima }

// WriteTIMA sets the counter directly and cancels any pending overflow
// reload in progress.
func (t *Timer) WriteTIMA(v byte) {
	t.tima = v
	t.overflowDelay = 0
}

func (t *Timer) TMA() byte       { return t.tma }
func (t *Timer) WriteTMA(v byte) { t.tma = v }

func (t *Timer) TAC() byte { return 0xF8 | (t.tac & 0x07) }

// WriteTAC updates the rate/enable bits.
func (t *Timer) WriteTAC(v byte) {
	t.tac = v & 0x07
	t.timaSub = 0
}

func (t *Timer) active() bool { return t.tac&0x04 != 0 }

// Tick advances the timer by one M-cycle, raising the Timer interrupt on
// the controller when an overflow reload completes.
func (t *Timer) Tick(ic *interrupt.Controller) {
	t.divSub++
	if t.divSub >= 16 {
		t.divSub = 0
		t.div++
	}

	reloaded := false
	if t.overflowDelay > 0 {
		t.overflowDelay--
		if t.overflowDelay == 0 {
			t.tima = t.tma
			ic.SetPending(interrupt.Timer)
			reloaded = true
		}
	}

	if t.active() {
		t.timaSub++
		period := periodForRate[t.tac&0x03]
		if t.timaSub >= period {
			t.timaSub = 0
			if !reloaded {
				t.bumpTIMA()
			}
		}
	}
}

func (t *Timer) bumpTIMA() {
	if t.overflowDelay > 0 {
		return
	}
	if t.tima == 0xFF {
		t.tima = 0x00
		t.overflowDelay = 4
		return
	}
	t.tima++
}
