package cart

import "testing"

func TestNew_DispatchesByCartType(t *testing.T) {
	cases := []struct {
		cartType byte
		romSize  int
		want     string
	}{
		{0x00, 32 * 1024, "*cart.ROMOnly"},
		{0x01, 64 * 1024, "*cart.MBC1"},
		{0x05, 64 * 1024, "*cart.MBC2"},
		{0x0F, 64 * 1024, "*cart.MBC3"},
		{0x19, 64 * 1024, "*cart.MBC5"},
	}
	for _, c := range cases {
		rom := buildROM("T", c.cartType, romSizeCodeFor(c.romSize), 0x00, c.romSize)
		got, err := New(rom)
		if err != nil {
			t.Fatalf("cart type %#02x: unexpected error: %v", c.cartType, err)
		}
		if typeName(got) != c.want {
			t.Fatalf("cart type %#02x dispatched to %s, want %s", c.cartType, typeName(got), c.want)
		}
	}
}

func TestNew_UnsupportedCartTypeFails(t *testing.T) {
	rom := buildROM("T", 0xFF, 0x00, 0x00, 32*1024)
	if _, err := New(rom); err == nil {
		t.Fatalf("expected an error for an unsupported cartridge type")
	}
}

func romSizeCodeFor(size int) byte {
	switch size {
	case 32 * 1024:
		return 0x00
	case 64 * 1024:
		return 0x01
	default:
		return 0x00
	}
}

func typeName(c Cartridge) string {
	switch c.(type) {
	case *ROMOnly:
		return "*cart.ROMOnly"
	case *MBC1:
		return "*cart.MBC1"
	case *MBC2:
		return "*cart.MBC2"
	case *MBC3:
		return "*cart.MBC3"
	case *MBC5:
		return "*cart.MBC5"
	default:
		return "unknown"
	}
}
