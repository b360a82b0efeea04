package cart

import "testing"

func TestMBC5_BankSwitchSelectsCorrectROMOffset(t *testing.T) {
	m := NewMBC5(romWithBankMarkers(8), 0)

	m.Write(0x2000, 0x05)
	if got := m.Read(0x4000); got != 5 {
		t.Fatalf("after selecting bank 5, read(0x4000) got %d want 5", got)
	}
}

// Unlike MBC1/MBC3, MBC5 has no bank-0-remaps-to-1 quirk: selecting 0 must
// read bank 0 back, not bank 1.
func TestMBC5_BankZeroIsSelectableUnlikeMBC1(t *testing.T) {
	m := NewMBC5(romWithBankMarkers(8), 0)

	m.Write(0x2000, 0x05)
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0 {
		t.Fatalf("after writing 0, read(0x4000) got %d want 0 (MBC5 has no bank-0 remap)", got)
	}
}

// romWithWideBankMarkers marks each bank with its own number split across
// two bytes, so banks above 255 (which romWithBankMarkers' single-byte
// marker can't distinguish from their low-byte twin) can still be checked
// by value.
func romWithWideBankMarkers(banks int) []byte {
	rom := make([]byte, banks*16384)
	for b := 0; b < banks; b++ {
		rom[b*16384] = byte(b)
		rom[b*16384+1] = byte(b >> 8)
	}
	return rom
}

func TestMBC5_HighBitSelectsBanksAbove255(t *testing.T) {
	m := NewMBC5(romWithWideBankMarkers(301), 0)

	m.Write(0x2000, 0x2C) // low 8 bits = 0x2C = 44
	m.Write(0x3000, 0x01) // bit 8 set -> bank 0x100|0x2C = 300
	lo, hi := m.Read(0x4000), m.Read(0x4001)
	if got := int(hi)<<8 | int(lo); got != 300 {
		t.Fatalf("combined 9-bit bank select got %d want 300", got)
	}
}

func TestMBC5_RAMEnableGatesAccess(t *testing.T) {
	m := NewMBC5(romWithBankMarkers(2), 8192)

	m.Write(0xA000, 0x42) // disabled: write must be ignored
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("RAM read while disabled got %#02x want 0x00", got)
	}

	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("RAM read after enable+write got %#02x want 0x42", got)
	}
}
