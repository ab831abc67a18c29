// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/lassandro/godasm/pkg/assembler"
	"github.com/lassandro/godasm/pkg/codegen"
	"github.com/lassandro/godasm/pkg/disasm"
	"github.com/lassandro/godasm/pkg/machine"
)

var stepsvar uint
var imagevar bool
var tracevar bool

var runCmd = &cobra.Command{
	Use:   "run [flags] file",
	Short: "Assembles a file and runs it until it halts",
	Long: `Run assembles a file and executes it on a DCPU-16 with no hardware
attached. The machine halts on an instruction that jumps to itself, and its
registers are printed once it stops.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		atexit.Exit(runFile(args[0]))
	},
}

func init() {
	flags := runCmd.Flags()

	flags.UintVarP(
		&stepsvar, "steps", "n", 1<<20,
		"Stops the machine after this many instructions",
	)
	flags.BoolVar(
		&imagevar, "image", false,
		"The file is an assembled binary image instead of source",
	)
	flags.BoolVar(
		&tracevar, "trace", false,
		"Prints every instruction as it executes",
	)

	rootCmd.AddCommand(runCmd)
}

// tracer prints the disassembly of each executed instruction.
type tracer struct {
	lines map[uint16]string
}

func newTracer(image []uint16, labels []codegen.Symbol, layout codegen.Layout) *tracer {
	t := &tracer{lines: make(map[uint16]string)}

	for _, line := range disasm.Disassemble(image, labels, layout) {
		t.lines[line.Address] = line.Text
	}

	return t
}

func (t *tracer) Step(addr uint16, mc *machine.Machine) {
	text, exists := t.lines[addr]

	if !exists {
		text = fmt.Sprintf("dat 0x%04x", mc.State.Memory[addr])
	}

	fmt.Fprintf(os.Stderr, "%04x    %s\n", addr, text)
}

func renderState(title string, mc *machine.Machine, steps uint) string {
	state := table.NewWriter()
	state.SetTitle(title)
	state.AppendHeader(table.Row{"Register", "Value"})

	for i, value := range mc.State.Registers {
		state.AppendRow(table.Row{
			strings.ToUpper(codegen.GeneralRegisterName(uint16(i))),
			fmt.Sprintf("%04x", value),
		})
	}

	state.AppendSeparator()
	state.AppendRow(table.Row{"PC", fmt.Sprintf("%04x", mc.State.Program)})
	state.AppendRow(table.Row{"SP", fmt.Sprintf("%04x", mc.State.Stack)})
	state.AppendRow(table.Row{"EX", fmt.Sprintf("%04x", mc.State.Extra)})
	state.AppendRow(table.Row{"IA", fmt.Sprintf("%04x", mc.State.Interrupt)})
	state.AppendFooter(table.Row{"", fmt.Sprintf("%d steps", steps)})

	return state.Render()
}

func runFile(path string) int {
	j := &job{path: path}
	logger := log.New(os.Stderr, fmt.Sprintf("\033[1m%s:\033[0m", j.name()), 0)

	opts, err := loadOptions()

	if err != nil {
		logger.Println(err)
		return 1
	}

	layout, err := opts.InstructionLayout()

	if err != nil {
		logger.Println(err)
		return 1
	}

	source, err := j.read()

	if err != nil {
		logger.Println(err)
		return 1
	}

	mc := &machine.Machine{Layout: layout}

	var image []uint16
	var labels []codegen.Symbol

	if imagevar {
		var order binary.ByteOrder = binary.LittleEndian

		if bigendianvar {
			order = binary.BigEndian
		}

		if err := mc.LoadBin(bytes.NewReader(source), order); err != nil {
			logger.Println(err)
			return 1
		}

		image = make([]uint16, len(source)/2)
		copy(image, mc.State.Memory[:])
	} else {
		result, errs := assembler.AssembleSource(bytes.NewReader(source), opts)

		if len(errs) > 0 {
			report(logger, source, errs)
			return 1
		}

		image, labels = result.Image, result.Labels
		mc.Load(image)
	}

	if tracevar {
		mc.Debugger = newTracer(image, labels, layout)
	}

	steps, err := mc.Run(stepsvar)

	fmt.Println(renderState(j.name(), mc, steps))

	if err != nil {
		logger.Println(err)
		return 1
	}

	if !mc.Halted {
		logger.Printf("Stopped after %d steps without halting", steps)
		return 1
	}

	return 0
}
