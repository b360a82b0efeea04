package timer

import (
	"testing"

	"github.com/adrastea-emu/gbcore/internal/interrupt"
)

func TestTimer_DIVIncrementsEvery16MCycles(t *testing.T) {
	tm := New()
	ic := interrupt.New()
	for i := 0; i < 15; i++ {
		tm.Tick(ic)
	}
	if tm.DIV() != 0 {
		t.Fatalf("DIV got %d want 0 after 15 M-cycles", tm.DIV())
	}
	tm.Tick(ic)
	if tm.DIV() != 1 {
		t.Fatalf("DIV got %d want 1 after 16 M-cycles", tm.DIV())
	}
}

func TestTimer_WriteDIVResets(t *testing.T) {
	tm := New()
	ic := interrupt.New()
	for i := 0; i < 32; i++ {
		tm.Tick(ic)
	}
	if tm.DIV() == 0 {
		t.Fatalf("DIV should have advanced before reset")
	}
	tm.WriteDIV()
	if tm.DIV() != 0 {
		t.Fatalf("DIV after write got %d want 0", tm.DIV())
	}
}

func TestTimer_TIMAOverflowReloadsAndInterrupts(t *testing.T) {
	tm := New()
	ic := interrupt.New()
	ic.SetIE(0xFF)
	tm.WriteTAC(0x05) // enabled, rate select 1 -> period 1 M-cycle
	tm.WriteTMA(0x42)
	tm.WriteTIMA(0xFF)

	tm.Tick(ic) // TIMA overflows to 0, 4-cycle reload delay begins
	if tm.TIMA() != 0x00 {
		t.Fatalf("TIMA immediately after overflow got %#02x want 00", tm.TIMA())
	}
	if ic.HasPending() {
		t.Fatalf("Timer interrupt should not fire before the reload delay elapses")
	}
	for i := 0; i < 3; i++ {
		tm.Tick(ic)
	}
	if ic.HasPending() {
		t.Fatalf("Timer interrupt should not fire one cycle early")
	}
	tm.Tick(ic)
	if tm.TIMA() != 0x42 {
		t.Fatalf("TIMA after reload got %#02x want 42", tm.TIMA())
	}
	src, ok := ic.Ack()
	if !ok || src != interrupt.Timer {
		t.Fatalf("expected a pending Timer interrupt after reload, got src=%v ok=%v", src, ok)
	}
}

func TestTimer_WriteTIMACancelsPendingReload(t *testing.T) {
	tm := New()
	ic := interrupt.New()
	ic.SetIE(0xFF)
	tm.WriteTAC(0x05)
	tm.WriteTIMA(0xFF)
	tm.Tick(ic) // overflow begins the reload delay

	tm.WriteTIMA(0x10) // cancel the pending reload
	for i := 0; i < 4; i++ {
		tm.Tick(ic)
	}
	if ic.HasPending() {
		t.Fatalf("reload should have been cancelled by the TIMA write")
	}
}

func TestTimer_InactiveTACDoesNotAdvanceTIMA(t *testing.T) {
	tm := New()
	ic := interrupt.New()
	for i := 0; i < 100; i++ {
		tm.Tick(ic)
	}
	if tm.TIMA() != 0 {
		t.Fatalf("TIMA advanced while TAC enable bit clear, got %d", tm.TIMA())
	}
}
