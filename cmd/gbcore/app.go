package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/adrastea-emu/gbcore/internal/core"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	screenWidth  = 160
	screenHeight = 144
	scale        = 3
)

// app is the ebiten.Game implementation: it drives core.Simulate once
// per frame tick and blits the resulting framebuffer, scanning a fixed
// keyboard layout into PressKey/ReleaseKey each frame.
type app struct {
	m        *core.Machine
	romPath  string
	savPath  string
	tex      *ebiten.Image
	pixels   []byte // RGBA scratch buffer reused every frame
	cyclesPerFrame uint64
	target   uint64
	steps    int
	maxSteps int
	trace    bool
}

var keyMap = map[ebiten.Key]core.Key{
	ebiten.KeyRight:      core.Right,
	ebiten.KeyLeft:       core.Left,
	ebiten.KeyUp:         core.Up,
	ebiten.KeyDown:       core.Down,
	ebiten.KeyZ:          core.A,
	ebiten.KeyX:          core.B,
	ebiten.KeyShiftRight: core.Select,
	ebiten.KeyEnter:      core.Start,
}

func runPresentation(m *core.Machine, romPath, savPath string, maxSteps int, trace bool) error {
	a := &app{
		m:              m,
		romPath:        romPath,
		savPath:        savPath,
		tex:            ebiten.NewImage(screenWidth, screenHeight),
		pixels:         make([]byte, screenWidth*screenHeight*4),
		cyclesPerFrame: 17556, // one frame's worth of M-cycles: 154 lines x 114
		maxSteps:       maxSteps,
		trace:          trace,
	}
	ebiten.SetWindowSize(screenWidth*scale, screenHeight*scale)
	ebiten.SetWindowTitle(romPath)
	err := ebiten.RunGame(a)
	if sav, ok := m.SaveCartridgeRAM(); ok && len(sav) > 0 {
		_ = os.WriteFile(savPath, sav, 0o644)
	}
	if err == errExitClean {
		return nil
	}
	return err
}

func (a *app) Update() error {
	for ek, gk := range keyMap {
		if ebiten.IsKeyPressed(ek) {
			a.m.PressKey(gk)
		} else {
			a.m.ReleaseKey(gk)
		}
	}

	a.target += a.cyclesPerFrame
	total, events := a.m.Simulate(a.target)
	if a.trace {
		fmt.Printf("pc=0x%04x cycles=%d\n", a.m.PC(), total)
	}
	if events.DecodeError != nil {
		return events.DecodeError
	}
	a.steps++
	if a.maxSteps > 0 && a.steps >= a.maxSteps {
		return errExitClean
	}
	return nil
}

var errExitClean = fmt.Errorf("gbcore: reached --steps limit")

func (a *app) Draw(screen *ebiten.Image) {
	fb := a.m.Framebuffer()
	for i, shade := range fb {
		c := shadeColor(shade)
		a.pixels[i*4+0] = c.R
		a.pixels[i*4+1] = c.G
		a.pixels[i*4+2] = c.B
		a.pixels[i*4+3] = 0xFF
	}
	a.tex.WritePixels(a.pixels)
	screen.DrawImage(a.tex, scaleOp())
}

func scaleOp() *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	return op
}

func shadeColor(shade byte) color.RGBA {
	switch shade & 0x03 {
	case 0:
		return color.RGBA{0xE0, 0xF8, 0xD0, 0xFF}
	case 1:
		return color.RGBA{0x88, 0xC0, 0x70, 0xFF}
	case 2:
		return color.RGBA{0x34, 0x68, 0x56, 0xFF}
	default:
		return color.RGBA{0x08, 0x18, 0x20, 0xFF}
	}
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
