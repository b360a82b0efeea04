package ppu

// renderLine composites background, window, and sprites for the current
// LY into the framebuffer, per spec §4.8.
func (p *PPU) renderLine() {
	y := int(p.ly)
	if y >= ScreenHeight {
		return
	}
	for x := range p.bgPriority {
		p.bgPriority[x] = false
	}

	if p.lcdc&lcdcBGWindowEnable != 0 {
		p.renderBackground(y)
	} else {
		row := y * ScreenWidth
		for x := 0; x < ScreenWidth; x++ {
			p.fb[row+x] = 0
		}
	}
	if p.lcdc&lcdcWindowEnable != 0 && int(p.ly) >= int(p.wy) {
		p.renderWindow(y)
	}
	if p.lcdc&lcdcOBJEnable != 0 {
		p.renderSprites(y)
	}
}

func (p *PPU) renderBackground(y int) {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcBGTileMap != 0 {
		mapBase = 0x9C00
	}
	row := y * ScreenWidth
	for x := 0; x < ScreenWidth; x++ {
		bgX := (int(p.scx) + x) & 0xFF
		bgY := (int(p.scy) + y) & 0xFF
		tileCol := bgX / 8
		tileRow := bgY / 8
		tileIdx := p.vram[mapBase-0x8000+uint16(tileRow*32+tileCol)]
		color := p.tileColor(tileIdx, bgX%8, bgY%8)
		if color != 0 {
			p.bgPriority[x] = true
		}
		p.fb[row+x] = applyPalette(p.bgp, color)
	}
}

func (p *PPU) renderWindow(y int) {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowTileMap != 0 {
		mapBase = 0x9C00
	}
	start := int(p.wx) - 7
	if start < 0 {
		start = 0
	}
	if start >= ScreenWidth {
		return
	}
	winLine := y - int(p.wy)
	row := y * ScreenWidth
	for x := start; x < ScreenWidth; x++ {
		winX := x - start
		tileCol := winX / 8
		tileRow := winLine / 8
		tileIdx := p.vram[mapBase-0x8000+uint16(tileRow*32+tileCol)]
		color := p.tileColor(tileIdx, winX%8, winLine%8)
		if color != 0 {
			p.bgPriority[x] = true
		}
		p.fb[row+x] = applyPalette(p.bgp, color)
	}
}

// tileColor returns the 2-bit color code at (px, py) within a tile
// selected by the LCDC tile-data addressing mode.
func (p *PPU) tileColor(tileIdx byte, px, py int) byte {
	var base uint16
	if p.lcdc&lcdcTileData != 0 {
		base = 0x8000 + uint16(tileIdx)*16
	} else {
		base = uint16(0x9000 + int(int8(tileIdx))*16)
	}
	lo := p.vram[base-0x8000+uint16(py*2)]
	hi := p.vram[base-0x8000+uint16(py*2+1)]
	shift := uint(7 - px)
	b0 := (lo >> shift) & 1
	b1 := (hi >> shift) & 1
	return b0 | (b1 << 1)
}

func applyPalette(palette, color byte) byte {
	return (palette >> (color * 2)) & 0x03
}

type oamEntry struct {
	index int
	y, x  byte
	tile  byte
	attr  byte
}

func (p *PPU) renderSprites(y int) {
	tall := p.lcdc&lcdcOBJSize != 0
	height := 8
	if tall {
		height = 16
	}

	var visible []oamEntry
	for i := 0; i < 40; i++ {
		base := i * 4
		sy := int(p.oam[base]) - 16
		if y < sy || y >= sy+height {
			continue
		}
		visible = append(visible, oamEntry{
			index: i,
			y:     p.oam[base],
			x:     p.oam[base+1],
			tile:  p.oam[base+2],
			attr:  p.oam[base+3],
		})
		if len(visible) == 10 {
			break
		}
	}

	// Sort by x ascending, ties broken by OAM index ascending (so that
	// iterating back-to-front below makes lower-x and lower-index win).
	for i := 1; i < len(visible); i++ {
		for j := i; j > 0; j-- {
			a, b := visible[j-1], visible[j]
			if a.x > b.x || (a.x == b.x && a.index > b.index) {
				visible[j-1], visible[j] = visible[j], visible[j-1]
			} else {
				break
			}
		}
	}

	row := y * ScreenWidth
	for i := len(visible) - 1; i >= 0; i-- {
		s := visible[i]
		sy := int(s.y) - 16
		lineInSprite := y - sy
		if s.attr&attrYFlip != 0 {
			lineInSprite = height - 1 - lineInSprite
		}
		tile := s.tile
		if tall {
			if lineInSprite < 8 {
				tile &^= 1
			} else {
				tile |= 1
				lineInSprite -= 8
			}
		}
		base := 0x8000 + uint16(tile)*16
		lo := p.vram[base-0x8000+uint16(lineInSprite*2)]
		hi := p.vram[base-0x8000+uint16(lineInSprite*2+1)]

		sx := int(s.x) - 8
		for px := 0; px < 8; px++ {
			screenX := sx + px
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			col := px
			if s.attr&attrXFlip != 0 {
				col = 7 - px
			}
			shift := uint(7 - col)
			b0 := (lo >> shift) & 1
			b1 := (hi >> shift) & 1
			color := b0 | (b1 << 1)
			if color == 0 {
				continue
			}
			if s.attr&attrPriority != 0 && p.bgPriority[screenX] {
				continue
			}
			palette := p.obp0
			if s.attr&attrPalette != 0 {
				palette = p.obp1
			}
			p.fb[row+screenX] = applyPalette(palette, color)
		}
	}
}
