// Package ppu implements the picture processing unit: the mode state
// machine (ScanOAM/ScanVRAM/HBlank/VBlank), VRAM/OAM/register storage, and
// the line renderer that composites background, window, and sprites into
// a 160x144 framebuffer of 2-bit gray shades.
package ppu

import "github.com/adrastea-emu/gbcore/internal/interrupt"

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	lastLine = 153
)

// Mode is the PPU's current scan phase.
type Mode byte

const (
	HBlank Mode = iota
	VBlank
	ScanOAM
	ScanVRAM
)

// LCDC bits.
const (
	lcdcBGWindowEnable = 1 << 0
	lcdcOBJEnable      = 1 << 1
	lcdcOBJSize        = 1 << 2
	lcdcBGTileMap      = 1 << 3
	lcdcTileData       = 1 << 4
	lcdcWindowEnable   = 1 << 5
	lcdcWindowTileMap  = 1 << 6
	lcdcDisplayEnable  = 1 << 7
)

// STAT bits.
const (
	statLYCEnable  = 1 << 6
	statOAMEnable  = 1 << 5
	statVBlankEnable = 1 << 4
	statHBlankEnable = 1 << 3
	statLYCFlag    = 1 << 2
)

// mode durations, in M-cycles, per spec §4.8.
const (
	cyclesScanOAM  = 20
	cyclesScanVRAM = 43
	cyclesHBlank   = 51
	cyclesVBlankLine = 114
)

// Sprite is one OAM entry.
type Sprite struct {
	Y, X      byte
	Tile      byte
	Attr      byte
}

const (
	attrPriority = 1 << 7 // 1 = behind non-white BG/window
	attrYFlip    = 1 << 6
	attrXFlip    = 1 << 5
	attrPalette  = 1 << 4 // 0 = OBP0, 1 = OBP1
)

// PPU holds all display-affecting state.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [40 * 4]byte // 0xFE00-0xFE9F, 4 bytes per sprite

	lcdc, stat         byte
	scy, scx           byte
	ly, lyc            byte
	bgp, obp0, obp1    byte
	wy, wx             byte

	mode      Mode
	dot       int // elapsed M-cycles within the current mode
	fb        [ScreenWidth * ScreenHeight]byte

	// bgPriority[x] is true when the BG/window pixel drawn at x on the
	// current line was non-zero color; consulted by sprite BG-priority.
	bgPriority [ScreenWidth]bool
}

// New returns a PPU reset to mode 2 at line 0, matching the state the
// hardware is in just after the display is enabled.
func New() *PPU {
	p := &PPU{mode: ScanOAM}
	return p
}

// Framebuffer returns the read-only pixel grid, row-major, one byte per
// pixel in 0..3 (shade index already resolved through BGP/OBPn).
func (p *PPU) Framebuffer() *[ScreenWidth * ScreenHeight]byte { return &p.fb }

func (p *PPU) LY() byte { return p.ly }

// --- CPU-facing VRAM/OAM access ---

func (p *PPU) ReadVRAM(addr uint16) byte {
	if p.mode == ScanVRAM && p.lcdc&lcdcDisplayEnable != 0 {
		return 0xFF
	}
	return p.vram[addr-0x8000]
}

func (p *PPU) WriteVRAM(addr uint16, v byte) {
	if p.mode == ScanVRAM && p.lcdc&lcdcDisplayEnable != 0 {
		return
	}
	p.vram[addr-0x8000] = v
}

func (p *PPU) ReadOAM(addr uint16) byte {
	if (p.mode == ScanOAM || p.mode == ScanVRAM) && p.lcdc&lcdcDisplayEnable != 0 {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

func (p *PPU) WriteOAM(addr uint16, v byte) {
	if (p.mode == ScanOAM || p.mode == ScanVRAM) && p.lcdc&lcdcDisplayEnable != 0 {
		return
	}
	p.oam[addr-0xFE00] = v
}

// WriteOAMRaw bypasses the mode lockout; used by the DMA engine, which is
// allowed to populate OAM regardless of PPU mode.
func (p *PPU) WriteOAMRaw(offset byte, v byte) { p.oam[offset] = v }

// --- IO register access (0xFF40-0xFF4B) ---

func (p *PPU) ReadReg(addr uint16) byte {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return 0x80 | (p.stat & 0x7C) | byte(p.mode)
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

func (p *PPU) WriteReg(addr uint16, v byte, ic *interrupt.Controller) {
	switch addr {
	case 0xFF40:
		p.lcdc = v
		if p.lcdc&lcdcDisplayEnable == 0 {
			// Disabling the LCD mid-frame is allowed; the framebuffer is
			// retained and the mode/line reset so re-enabling starts clean.
			p.ly = 0
			p.dot = 0
			p.mode = ScanOAM
		}
	case 0xFF41:
		p.stat = (p.stat & 0x07) | (v & 0x78)
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		// Writes to LY are silently ignored (spec §4.8, §13 decision).
	case 0xFF45:
		p.lyc = v
		p.checkLYC(ic)
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	}
}

func (p *PPU) checkLYC(ic *interrupt.Controller) {
	if p.ly == p.lyc {
		p.stat |= statLYCFlag
		if p.stat&statLYCEnable != 0 {
			ic.SetPending(interrupt.LCDStat)
		}
	} else {
		p.stat &^= statLYCFlag
	}
}

// Tick advances the PPU by one M-cycle, driving the mode FSM and raising
// interrupts on the documented transitions. render is called once per
// completed line's worth of ScanVRAM.
func (p *PPU) Tick(ic *interrupt.Controller) (frameComplete bool) {
	if p.lcdc&lcdcDisplayEnable == 0 {
		return false
	}
	p.dot++
	switch p.mode {
	case ScanOAM:
		if p.dot >= cyclesScanOAM {
			p.dot = 0
			p.enterMode(ScanVRAM, ic)
		}
	case ScanVRAM:
		if p.dot >= cyclesScanVRAM {
			p.dot = 0
			p.renderLine()
			p.enterMode(HBlank, ic)
		}
	case HBlank:
		if p.dot >= cyclesHBlank {
			p.dot = 0
			p.ly++
			p.checkLYC(ic)
			if p.ly == ScreenHeight {
				p.enterMode(VBlank, ic)
				ic.SetPending(interrupt.VBlank)
				frameComplete = true
			} else {
				p.enterMode(ScanOAM, ic)
			}
		}
	case VBlank:
		if p.dot >= cyclesVBlankLine {
			p.dot = 0
			p.ly++
			if p.ly > lastLine {
				p.ly = 0
				p.checkLYC(ic)
				p.enterMode(ScanOAM, ic)
			} else {
				p.checkLYC(ic)
			}
		}
	}
	return frameComplete
}

func (p *PPU) enterMode(m Mode, ic *interrupt.Controller) {
	p.mode = m
	switch m {
	case HBlank:
		if p.stat&statHBlankEnable != 0 {
			ic.SetPending(interrupt.LCDStat)
		}
	case ScanOAM:
		if p.stat&statOAMEnable != 0 {
			ic.SetPending(interrupt.LCDStat)
		}
	case VBlank:
		if p.stat&statVBlankEnable != 0 {
			ic.SetPending(interrupt.LCDStat)
		}
	}
}
