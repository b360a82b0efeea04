// Package cart implements the cartridge/bank-controller layer: header
// parsing, ROM-only and MBC1/MBC2/MBC3/MBC5 bank switching, and external
// RAM with optional battery-backed persistence.
package cart

import "fmt"

// Cartridge is the minimal interface the bus needs for ROM/RAM banking.
// Addresses are CPU addresses; Read/Write cover both the 0x0000-0x7FFF
// control+ROM region and the 0xA000-0xBFFF external RAM window.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// BatteryBacked is an optional interface for cartridges whose external RAM
// should survive across runs. The driver, not the core, decides whether
// and where to persist it (spec §6: "may be persisted by the driver").
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New parses the ROM header and constructs the matching controller. It
// fails fast — per spec §7.1 — when the header names a cartridge type
// outside the supported set, rather than silently degrading to ROM-only.
func New(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("cart: parse header: %w", err)
	}
	switch h.Family {
	case FamilyROMOnly:
		return NewROMOnly(rom), nil
	case FamilyMBC1:
		return NewMBC1(rom, h.RAMSizeBytes), nil
	case FamilyMBC2:
		return NewMBC2(rom), nil
	case FamilyMBC3:
		return NewMBC3(rom, h.RAMSizeBytes), nil
	case FamilyMBC5:
		return NewMBC5(rom, h.RAMSizeBytes), nil
	default:
		return nil, fmt.Errorf("cart: unsupported cartridge type 0x%02X (%s)", h.CartType, h.CartTypeStr)
	}
}
