package cart

import "testing"

func TestMBC3_BankSwitchSelectsCorrectROMOffset(t *testing.T) {
	m := NewMBC3(romWithBankMarkers(8), 0)

	m.Write(0x2000, 0x05)
	if got := m.Read(0x4000); got != 5 {
		t.Fatalf("after selecting bank 5, read(0x4000) got %d want 5", got)
	}
}

func TestMBC3_BankZeroRemapsToOne(t *testing.T) {
	m := NewMBC3(romWithBankMarkers(8), 0)

	m.Write(0x2000, 0x05)
	m.Write(0x2000, 0x00) // per spec §4.5, writing 0 yields bank 1, not 0
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("after writing 0, read(0x4000) got %d want 1 (bank 0 never visible)", got)
	}
}

func TestMBC3_RAMBankSelectGatesOnEnable(t *testing.T) {
	m := NewMBC3(romWithBankMarkers(2), 4*8192)

	m.Write(0x4000, 0x02) // select RAM bank 2
	m.Write(0xA000, 0x42) // disabled: write must be ignored
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("RAM read while disabled got %#02x want 0x00", got)
	}

	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("RAM read after enable+write got %#02x want 0x42", got)
	}

	m.Write(0x4000, 0x00) // switch back to bank 0: must not see bank 2's byte
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("RAM bank 0 after switching away from bank 2 got %#02x want 0x00", got)
	}
}

func TestMBC3_RTCRegisterSelectFoldsToRAMBankZero(t *testing.T) {
	m := NewMBC3(romWithBankMarkers(2), 8192)
	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x7A)

	m.Write(0x4000, 0x08) // RTC seconds register select: no RTC modeled
	if got := m.Read(0xA000); got != 0x7A {
		t.Fatalf("selecting an RTC register should fold to RAM bank 0, got %#02x want 0x7A", got)
	}
}
