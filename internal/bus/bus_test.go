package bus

import (
	"testing"

	"github.com/adrastea-emu/gbcore/internal/cart"
	"github.com/adrastea-emu/gbcore/internal/joypad"
)

func newTestBus() *Bus {
	rom := make([]byte, 0x8000)
	return New(nil, cart.NewROMOnly(rom))
}

func TestBus_WRAMEchoAndHRAM(t *testing.T) {
	b := newTestBus()

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("WRAM read got %#02x want 99", got)
	}

	b.Write(0xE000, 0x55)
	if got := b.Read(0xC000); got != 0x55 {
		t.Fatalf("echo write did not mirror into WRAM: got %#02x", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %#02x want AB", got)
	}
}

func TestBus_UnmappedRegionReadsZero(t *testing.T) {
	b := newTestBus()
	if got := b.Read(0xFEA0); got != 0x00 {
		t.Fatalf("unmapped region got %#02x want 00", got)
	}
	b.Write(0xFEA0, 0x77) // must be silently ignored
	if got := b.Read(0xFEA0); got != 0x00 {
		t.Fatalf("unmapped write should be ignored, got %#02x", got)
	}
}

func TestBus_IERegisterRoundTrips(t *testing.T) {
	b := newTestBus()
	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0x1B {
		t.Fatalf("IE read got %#02x want 1B", got)
	}
}

func TestBus_IFRegisterMasksUpperBits(t *testing.T) {
	b := newTestBus()
	b.Write(0xFF0F, 0x3F)
	if got := b.Read(0xFF0F); got != 0xFF {
		t.Fatalf("IF read got %#02x want FF (E0|1F)", got)
	}
}

func TestBus_JoypadDefaultAndPress(t *testing.T) {
	b := newTestBus()
	if got := b.Read(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("JOYP default lower bits got %#02x want 0F", got&0x0F)
	}
	b.Write(0xFF00, 0x20) // select D-pad
	b.PressKey(joypad.Right)
	b.PressKey(joypad.Up)
	if got := b.Read(0xFF00) & 0x0F; got != 0x0A { // Right(bit0)+Up(bit2) cleared
		t.Fatalf("JOYP D-pad got %#02x want 0A", got)
	}
}

func TestBus_BIOSOverlayAndUnmapLatch(t *testing.T) {
	bios := make([]byte, 256)
	bios[0] = 0xAA
	rom := make([]byte, 0x8000)
	rom[0] = 0xBB
	b := New(bios, cart.NewROMOnly(rom))

	if got := b.Read(0x0000); got != 0xAA {
		t.Fatalf("BIOS overlay read got %#02x want AA", got)
	}
	b.Write(0xFF50, 0x01)
	if got := b.Read(0x0000); got != 0xBB {
		t.Fatalf("after unmap latch, ROM should be visible: got %#02x", got)
	}
}

func TestBus_DMALockOutsideHighRAM(t *testing.T) {
	b := newTestBus()
	b.Write(0xC000, 0x42)
	b.Write(0xFF80, 0x11)
	b.Write(0xFF46, 0x00) // trigger DMA from page 0x00

	if got := b.Read(0xC000); got != 0xFF {
		t.Fatalf("WRAM read during DMA should be locked out, got %#02x", got)
	}
	if got := b.Read(0xFF80); got != 0x11 {
		t.Fatalf("HRAM must remain readable during DMA, got %#02x", got)
	}
	if got := b.Read(0xFF46); got != 0x00 {
		t.Fatalf("DMA trigger register should read back the source page even during the lockout, got %#02x", got)
	}
	b.Write(0xC000, 0x99)
	if b.Read(0xC000) != 0xFF {
		t.Fatalf("writes during DMA lockout must be ignored")
	}
}

func TestBus_UpdateDrivesDMAToCompletion(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 160; i++ {
		b.wram[i] = byte(i)
	}
	b.Write(0xFF46, 0xC0) // source page 0xC0 = WRAM base 0xC000

	// 1 requested->starting tick, 160 copy ticks, 1 ending->inactive tick.
	b.Update(162)
	if b.dma.Active() {
		t.Fatalf("DMA should have completed after 162 M-cycles")
	}

	for i := 0; i < 160; i++ {
		if got := b.ppu.ReadOAM(0xFE00 + uint16(i)); got != byte(i) {
			t.Fatalf("OAM[%d] got %#02x want %#02x", i, got, byte(i))
		}
	}
}
