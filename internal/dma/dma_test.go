package dma

import "testing"

func TestDMA_InactiveUntilInitiated(t *testing.T) {
	d := New()
	if d.Active() {
		t.Fatalf("fresh DMA should be inactive")
	}
	if _, ok := d.Tick(); ok {
		t.Fatalf("Tick on an inactive engine should report nothing to copy")
	}
}

func TestDMA_FullTransferSequence(t *testing.T) {
	d := New()
	d.Initiate(0xC0)
	if !d.Active() {
		t.Fatalf("DMA should be active immediately after Initiate")
	}

	if _, ok := d.Tick(); ok {
		t.Fatalf("the requested->starting tick should not yield a copy")
	}

	for i := 0; i < transferLength; i++ {
		c, ok := d.Tick()
		if !ok {
			t.Fatalf("copy %d: expected ok=true", i)
		}
		if c.DestOffset != byte(i) {
			t.Fatalf("copy %d: DestOffset got %d want %d", i, c.DestOffset, i)
		}
		if c.SourceAddr != 0xC000+uint16(i) {
			t.Fatalf("copy %d: SourceAddr got %#04x want %#04x", i, c.SourceAddr, 0xC000+i)
		}
	}

	if !d.Active() {
		t.Fatalf("DMA should still be active during its ending tick")
	}
	if _, ok := d.Tick(); ok {
		t.Fatalf("the ending tick should not yield a copy")
	}
	if d.Active() {
		t.Fatalf("DMA should be inactive once the ending tick completes")
	}
}

func TestDMA_ReinitiateMidTransferRestarts(t *testing.T) {
	d := New()
	d.Initiate(0x80)
	d.Tick() // requested -> starting
	d.Tick() // starting -> copying, first byte
	d.Initiate(0xD0)
	if d.SourcePage() != 0xD0 {
		t.Fatalf("SourcePage got %#02x want D0 after restart", d.SourcePage())
	}
	d.Tick() // requested -> starting again
	c, ok := d.Tick()
	if !ok || c.SourceAddr != 0xD000 || c.DestOffset != 0 {
		t.Fatalf("restarted transfer should begin at offset 0 of the new page, got %+v ok=%v", c, ok)
	}
}
