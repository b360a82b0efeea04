package main

import (
	"fmt"
	"os"

	"github.com/adrastea-emu/gbcore/internal/core"
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	var biosPath string
	var debugShell bool
	var maxSteps int
	var trace bool

	cmd := &cobra.Command{
		Use:   "gbcore <rom>",
		Short: "run a cartridge ROM against the emulation core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			romPath := args[0]
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("read rom: %w", err)
			}
			bios, err := os.ReadFile(biosPath)
			if err != nil {
				return fmt.Errorf("read bios: %w", err)
			}

			m, err := core.New(bios, rom)
			if err != nil {
				return err
			}

			savPath := savePathFor(romPath)
			if sav, err := os.ReadFile(savPath); err == nil {
				m.LoadCartridgeRAM(sav)
			}

			if debugShell {
				runDebugShell(m)
				return nil
			}
			return runPresentation(m, romPath, savPath, maxSteps, trace)
		},
	}

	cmd.Flags().StringVar(&biosPath, "bios", "rom.bin", "path to the 256-byte BIOS image")
	cmd.Flags().BoolVarP(&debugShell, "debug", "d", false, "drop into the interactive debugger shell instead of presenting frames")
	cmd.Flags().IntVar(&maxSteps, "steps", 0, "stop after this many simulate() calls (0 = run until window close)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the PC and total cycle count after each simulate() call")

	return cmd
}

func savePathFor(romPath string) string {
	ext := len(romPath)
	for i := len(romPath) - 1; i >= 0; i-- {
		if romPath[i] == '.' {
			ext = i
			break
		}
		if romPath[i] == '/' {
			break
		}
	}
	return romPath[:ext] + ".sav"
}
