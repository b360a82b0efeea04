package cart

// MBC2 is deliberately an outline per spec §4.5 ("other controller types
// are permitted to be less complete... must be stubbed with explicit
// failures rather than silent misbehavior"). Reads work (fixed bank 0,
// a 4-bit switchable bank, and MBC2's built-in 512x4-bit RAM read with
// the upper nibble set). Writes below 0x4000 implement RAM-enable and
// ROM-bank-select, told apart by bit 8 of the address; a write to
// 0x4000-0x9FFF panics instead of silently misbehaving.
type MBC2 struct {
	rom     []byte
	ram     [512]byte // 4-bit cells, low nibble used
	romBank byte       // 4 bits, 1..15
	ramEnabled bool
}

func NewMBC2(rom []byte) *MBC2 {
	return &MBC2{rom: rom, romBank: 1}
}

func (m *MBC2) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x0F)
		if bank == 0 {
			bank = 1
		}
		off := bank*16384 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xA1FF:
		if !m.ramEnabled {
			return 0x00
		}
		return 0xF0 | (m.ram[addr-0xA000] & 0x0F)
	default:
		return 0xFF
	}
}

// Write implements RAM-enable and ROM-bank-select, both of which are
// selected by bit 8 of the address (unlike MBC1's address-range split).
// Any other control write — a write this outline does not model — panics
// rather than silently doing nothing, per spec §4.5's "explicit failures"
// requirement for incomplete controllers.
func (m *MBC2) Write(addr uint16, v byte) {
	switch {
	case addr < 0x4000:
		if addr&0x0100 == 0 {
			m.ramEnabled = v&0x0F == 0x0A
		} else {
			bank := v & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case addr >= 0xA000 && addr <= 0xA1FF:
		if m.ramEnabled {
			m.ram[addr-0xA000] = v & 0x0F
		}
	case addr >= 0x4000 && addr < 0xA000:
		panic("cart: MBC2 write to unmodeled control register")
	}
}

func (m *MBC2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *MBC2) LoadRAM(data []byte) { copy(m.ram[:], data) }
