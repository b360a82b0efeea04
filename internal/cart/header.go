package cart

import (
	"encoding/binary"
	"errors"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Family identifies the bank-controller hardware a header's CartType byte
// names, independent of the byte's sub-variant (RAM/battery/timer flags).
// cart.New dispatches on this instead of re-switching over the raw codes
// spec §4.5 lists per controller.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyROMOnly
	FamilyMBC1
	FamilyMBC2
	FamilyMBC3
	FamilyMBC5
)

// cartTypeEntry ties a raw CartType byte to the controller family and the
// human-readable string ParseHeader exposes for logs/errors.
type cartTypeEntry struct {
	code   byte
	family Family
	name   string
}

var cartTypeTable = []cartTypeEntry{
	{0x00, FamilyROMOnly, "ROM ONLY"},
	{0x01, FamilyMBC1, "MBC1"},
	{0x02, FamilyMBC1, "MBC1+RAM"},
	{0x03, FamilyMBC1, "MBC1+RAM+BATTERY"},
	{0x05, FamilyMBC2, "MBC2"},
	{0x06, FamilyMBC2, "MBC2+BATTERY"},
	{0x0F, FamilyMBC3, "MBC3+TIMER+BATTERY"},
	{0x10, FamilyMBC3, "MBC3+TIMER+RAM+BATTERY"},
	{0x11, FamilyMBC3, "MBC3"},
	{0x12, FamilyMBC3, "MBC3+RAM"},
	{0x13, FamilyMBC3, "MBC3+RAM+BATTERY"},
	{0x19, FamilyMBC5, "MBC5"},
	{0x1A, FamilyMBC5, "MBC5+RAM"},
	{0x1B, FamilyMBC5, "MBC5+RAM+BATTERY"},
	{0x1C, FamilyMBC5, "MBC5+RUMBLE"},
	{0x1D, FamilyMBC5, "MBC5+RUMBLE+RAM"},
	{0x1E, FamilyMBC5, "MBC5+RUMBLE+RAM+BATTERY"},
}

func lookupCartType(code byte) cartTypeEntry {
	for _, e := range cartTypeTable {
		if e.code == code {
			return e
		}
	}
	return cartTypeEntry{code, FamilyUnknown, "Other/unknown"}
}

// romSizeEntry ties a ROMSizeCode byte to its decoded size and bank count;
// every listed size is a whole multiple of the 16KiB bank spec §4.5 banks
// ROM in.
type romSizeEntry struct {
	code  byte
	bytes int
	banks int
}

var romSizeTable = []romSizeEntry{
	{0x00, 32 * 1024, 2},
	{0x01, 64 * 1024, 4},
	{0x02, 128 * 1024, 8},
	{0x03, 256 * 1024, 16},
	{0x04, 512 * 1024, 32},
	{0x05, 1 * 1024 * 1024, 64},
	{0x06, 2 * 1024 * 1024, 128},
	{0x07, 4 * 1024 * 1024, 256},
	{0x08, 8 * 1024 * 1024, 512},
	{0x52, 1152 * 1024, 72},
	{0x53, 1280 * 1024, 80},
	{0x54, 1536 * 1024, 96},
}

func lookupROMSize(code byte) (bytes, banks int) {
	for _, e := range romSizeTable {
		if e.code == code {
			return e.bytes, e.banks
		}
	}
	return 0, 0
}

// ramSizeEntry ties a RAMSizeCode byte to its decoded external-RAM size.
type ramSizeEntry struct {
	code  byte
	bytes int
}

var ramSizeTable = []ramSizeEntry{
	{0x00, 0},
	{0x02, 8 * 1024},
	{0x03, 32 * 1024},
	{0x04, 128 * 1024},
	{0x05, 64 * 1024},
}

func lookupRAMSize(code byte) int {
	for _, e := range ramSizeTable {
		if e.code == code {
			return e.bytes
		}
	}
	return 0
}

type Header struct {
	Title          string // (trimmed ASCII)
	CGBFlag        byte   // 0x0143
	NewLicensee    string // 0x0144-0x0145 (ASCII), if old==0x33
	SGBFlag        byte   // 0x0146
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Destination    byte   // 0x014A
	OldLicensee    byte   // 0x014B
	ROMVersion     byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	// Decoded helpers (for logs and cart.New's dispatch)
	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	Family       Family
	CartTypeStr  string
}

func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, errors.New("ROM too small to contain header")
	}

	// Verify Nintendo logo; don't fail on mismatch since homebrew/test ROMs
	// routinely omit it.
	for i := 0; i < 48; i++ {
		if rom[0x0104+i] != nintendoLogo[i] {
			break
		}
	}

	// Title region is 0x0134-0x0143, but parts overlap on newer carts.
	rawTitle := rom[0x0134:0x0144]
	title := strings.TrimRight(string(rawTitle), "\x00")

	h := &Header{
		Title:          title,
		CGBFlag:        rom[0x0143],
		NewLicensee:    string(rom[0x0144:0x0146]),
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}

	h.ROMSizeBytes, h.ROMBanks = lookupROMSize(h.ROMSizeCode)
	h.RAMSizeBytes = lookupRAMSize(h.RAMSizeCode)
	ct := lookupCartType(h.CartType)
	h.Family = ct.family
	h.CartTypeStr = ct.name

	return h, nil
}

func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte = 0
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}
