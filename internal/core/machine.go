// Package core exposes the external interface surface described for the
// emulation core: construction from BIOS+ROM bytes, a cycle-budget-driven
// simulate loop, the framebuffer accessor, and key input. Everything
// else (CPU, PPU, bus, cartridge) is wired together here but never
// exposed directly.
package core

import (
	"fmt"

	"github.com/adrastea-emu/gbcore/internal/bus"
	"github.com/adrastea-emu/gbcore/internal/cart"
	"github.com/adrastea-emu/gbcore/internal/cpu"
	"github.com/adrastea-emu/gbcore/internal/joypad"
)

// Key re-exports the joypad key enum so driver code never imports
// internal/joypad directly.
type Key = joypad.Key

const (
	Right  = joypad.Right
	Left   = joypad.Left
	Up     = joypad.Up
	Down   = joypad.Down
	A      = joypad.A
	B      = joypad.B
	Select = joypad.Select
	Start  = joypad.Start
)

// Events are the flags simulate() can raise while running toward a
// target cycle budget.
type Events struct {
	Render      bool
	DecodeError error
}

// Machine is the core handle: BIOS+ROM bytes in, frames and cycle counts
// out.
type Machine struct {
	cpu *cpu.CPU
	bus *bus.Bus

	totalCycles uint64
	dead        bool // true once a decode error has been hit; simulate becomes a no-op
}

const romBankSize = 16384

// New constructs a core from BIOS bytes (must be exactly 256) and ROM
// bytes (a multiple of 16384, at most 8 MiB), failing if the cartridge
// header names an unsupported controller type (spec §6, §7.1).
func New(biosData, romData []byte) (*Machine, error) {
	if len(biosData) != 256 {
		return nil, fmt.Errorf("core: BIOS must be exactly 256 bytes, got %d", len(biosData))
	}
	if len(romData) == 0 || len(romData)%romBankSize != 0 {
		return nil, fmt.Errorf("core: ROM size %d is not a positive multiple of %d", len(romData), romBankSize)
	}
	if len(romData) > 8*1024*1024 {
		return nil, fmt.Errorf("core: ROM size %d exceeds 8 MiB", len(romData))
	}

	c, err := cart.New(romData)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	b := bus.New(biosData, c)
	m := &Machine{
		cpu: cpu.New(b),
		bus: b,
	}
	return m, nil
}

// Simulate runs the CPU until total_cycles consumed since construction
// reaches targetCycles or an event is raised, per spec §6. A decode
// error is fatal and sticky: the call that hits it returns the error in
// Events, and every subsequent Simulate call is a no-op that returns the
// unchanged cycle count with empty Events.
func (m *Machine) Simulate(targetCycles uint64) (uint64, Events) {
	var events Events
	if m.dead {
		return m.totalCycles, events
	}
	for m.totalCycles < targetCycles {
		cycles, err := m.cpu.Step()
		if err != nil {
			m.dead = true
			events.DecodeError = err
			return m.totalCycles, events
		}
		m.totalCycles += uint64(cycles)
		if m.bus.FrameReady() {
			events.Render = true
			return m.totalCycles, events
		}
	}
	return m.totalCycles, events
}

// Framebuffer returns the read-only 160x144 pixel grid; the driver must
// copy it out during a Render event if it needs a stable snapshot (spec
// §5 "Shared-resource policy").
func (m *Machine) Framebuffer() *[23040]byte { return m.bus.PPU().Framebuffer() }

// PressKey and ReleaseKey are the only entry points allowed to mutate
// state outside Simulate (spec §5 "Host boundary").
func (m *Machine) PressKey(k Key)   { m.bus.PressKey(k) }
func (m *Machine) ReleaseKey(k Key) { m.bus.ReleaseKey(k) }

// SaveCartridgeRAM and LoadCartridgeRAM expose the optional
// battery-backed persistence described in spec §6; the core itself never
// touches the filesystem.
func (m *Machine) SaveCartridgeRAM() ([]byte, bool) {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		return bb.SaveRAM(), true
	}
	return nil, false
}

func (m *Machine) LoadCartridgeRAM(data []byte) bool {
	if bb, ok := m.bus.Cart().(cart.BatteryBacked); ok {
		bb.LoadRAM(data)
		return true
	}
	return false
}
