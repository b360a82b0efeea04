package joypad

import (
	"testing"

	"github.com/adrastea-emu/gbcore/internal/interrupt"
)

func TestJoypad_ReadDefaultsToNoneSelectedAllHigh(t *testing.T) {
	j := New()
	if got := j.Read(); got != 0xFF {
		t.Fatalf("fresh joypad read got %#02x want FF (no row selected)", got)
	}
}

func TestJoypad_PressSetsLowBitOnSelectedRow(t *testing.T) {
	j := New()
	ic := interrupt.New()
	j.WriteSelect(0x20) // select dpad (P14=0)
	j.Press(Right, ic)
	got := j.Read()
	if got&0x01 != 0 {
		t.Fatalf("Right should read as 0 (pressed), got %#02x", got)
	}
	if got&0x0E != 0x0E {
		t.Fatalf("other dpad bits should remain 1, got %#02x", got)
	}
}

func TestJoypad_PressRaisesInterruptOnlyWhenRowSelected(t *testing.T) {
	j := New()
	ic := interrupt.New()
	ic.SetIE(0xFF)
	j.WriteSelect(0x10) // select buttons row (P15=0), dpad deselected
	j.Press(Right, ic)  // dpad key, but dpad row not visible
	if ic.HasPending() {
		t.Fatalf("press on a deselected row should not raise an interrupt")
	}
	j.WriteSelect(0x20) // now select dpad
	j.Release(Right)
	j.Press(Right, ic)
	if !ic.HasPending() {
		t.Fatalf("press on a visible row should raise the Joypad interrupt")
	}
}

func TestJoypad_ReleaseRaisesNoInterrupt(t *testing.T) {
	j := New()
	ic := interrupt.New()
	ic.SetIE(0xFF)
	j.WriteSelect(0x20)
	j.Press(Start, ic)
	ic.Ack()
	j.Release(Start)
	if ic.HasPending() {
		t.Fatalf("release should never raise an interrupt")
	}
}

func TestJoypad_BothRowsSelectedUnionsBits(t *testing.T) {
	j := New()
	ic := interrupt.New()
	j.WriteSelect(0x00) // both rows selected
	j.Press(Down, ic)
	j.Press(A, ic)
	got := j.Read()
	if got&0x08 != 0 || got&0x01 != 0 {
		t.Fatalf("Down and A should both read low, got %#02x", got)
	}
}
