package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/adrastea-emu/gbcore/internal/core"
)

// runDebugShell implements the debug-shell collaborator from spec §6: a
// line-oriented REPL over get_pc/read_mem/single_step/continue_exec.
// Unparseable input is reported and leaves state untouched (spec §7.3).
func runDebugShell(m *core.Machine) {
	info := core.NewDebugInfo()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("gbcore debugger: step, continue, break <addr>, pc, read <addr>, quit")
	for {
		fmt.Print("(gbcore) ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "step", "s":
			events, err := m.SingleStep(info)
			if err != nil {
				fmt.Println("decode error:", err)
				continue
			}
			if events.Render {
				fmt.Println("frame complete")
			}
			fmt.Printf("pc=0x%04X\n", m.PC())
		case "continue", "c":
			events, err := m.ContinueExec(info)
			if err != nil {
				fmt.Println("decode error:", err)
				continue
			}
			_ = events
			fmt.Printf("stopped at pc=0x%04X\n", m.PC())
		case "break", "b":
			if len(fields) != 2 {
				fmt.Println("usage: break <addr>")
				continue
			}
			addr, err := parseAddr(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			info.Breakpoints[addr] = true
			fmt.Printf("breakpoint set at 0x%04X\n", addr)
		case "pc":
			fmt.Printf("0x%04X\n", m.PC())
		case "read", "r":
			if len(fields) != 2 {
				fmt.Println("usage: read <addr>")
				continue
			}
			addr, err := parseAddr(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("0x%04X = 0x%02X\n", addr, m.ReadMem(addr))
		case "quit", "q":
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func parseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint16(v), nil
}
