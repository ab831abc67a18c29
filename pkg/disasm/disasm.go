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

// Package disasm turns an assembled image back into readable assembly.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/godasm/pkg/codegen"
)

// Line is one decoded instruction or data word.
type Line struct {
	Address uint16
	Labels  []string
	Words   []uint16
	Text    string
}

type disassembler struct {
	image  []uint16
	layout codegen.Layout

	labels map[uint16][]string
	kinds  map[uint16]codegen.LabelType
	code   map[uint16]string
	data   map[uint16]string
}

func newDisassembler(image []uint16, symbols []codegen.Symbol, layout codegen.Layout) *disassembler {
	d := &disassembler{
		image:  image,
		layout: layout,
		labels: make(map[uint16][]string),
		kinds:  make(map[uint16]codegen.LabelType),
		code:   make(map[uint16]string),
		data:   make(map[uint16]string),
	}

	for _, symbol := range symbols {
		// Bookkeeping labels only add noise.
		if symbol.Name == codegen.CodeStartLabel || symbol.Name == codegen.CodeEndLabel {
			continue
		}

		d.labels[symbol.Value] = append(d.labels[symbol.Value], symbol.Name)

		if _, exists := d.kinds[symbol.Value]; !exists || symbol.Type != codegen.LABEL_UNKNOWN {
			d.kinds[symbol.Value] = symbol.Type
		}

		switch symbol.Type {
		case codegen.LABEL_CODE:
			if _, exists := d.code[symbol.Value]; !exists {
				d.code[symbol.Value] = symbol.Name
			}
		case codegen.LABEL_DATA:
			if _, exists := d.data[symbol.Value]; !exists {
				d.data[symbol.Value] = symbol.Name
			}
		}
	}

	return d
}

func literal(value uint16) string {
	if value < 0x20 {
		return fmt.Sprint(value)
	}

	return fmt.Sprintf("0x%04x", value)
}

func (d *disassembler) named(names map[uint16]string, value uint16) string {
	if name, exists := names[value]; exists {
		return name
	}

	return literal(value)
}

// tail reads the word at addr, if there is one.
func (d *disassembler) tail(addr int) (uint16, bool) {
	if addr >= len(d.image) {
		return 0, false
	}

	return d.image[addr], true
}

// argument renders code and returns how many tail words it used, or false if
// it needs a word past the end of the image.
func (d *disassembler) argument(code uint16, inA bool, addr int) (string, int, bool) {
	arg := d.layout.DecodeArgument(code, inA)
	value := arg.Value

	if arg.Tail {
		var ok bool

		if value, ok = d.tail(addr); !ok {
			return "", 0, false
		}
	}

	used := 0

	if arg.Tail {
		used = 1
	}

	reg := codegen.GeneralRegisterName(arg.Register)

	switch arg.Type {
	case codegen.ARG_REGISTER:
		return reg, used, true
	case codegen.ARG_REGISTER_LOOKUP:
		return "[" + reg + "]", used, true
	case codegen.ARG_REGISTER_OFFSET:
		return "[" + d.named(d.data, value) + "+" + reg + "]", used, true
	case codegen.ARG_PUSH:
		return "push", used, true
	case codegen.ARG_POP:
		return "pop", used, true
	case codegen.ARG_PEEK:
		return "peek", used, true
	case codegen.ARG_PICK:
		return "pick " + literal(value), used, true
	case codegen.ARG_SP, codegen.ARG_PC, codegen.ARG_EX:
		return d.layout.SpecialRegisterName(code), used, true
	case codegen.ARG_LITERAL_LOOKUP:
		return "[" + d.named(d.data, value) + "]", used, true
	case codegen.ARG_LITERAL:
		if _, exists := d.code[value]; exists {
			return d.code[value], used, true
		}

		return d.named(d.data, value), used, true
	case codegen.ARG_SHORT_LITERAL:
		return literal(value), used, true
	}

	return "", 0, false
}

func (d *disassembler) dat(addr int) Line {
	return Line{
		Address: uint16(addr),
		Words:   d.image[addr : addr+1],
		Text:    fmt.Sprintf("dat 0x%04x", d.image[addr]),
	}
}

// instruction decodes the instruction at addr, falling back to a single dat
// word when it does not decode.
func (d *disassembler) instruction(addr int) Line {
	instr := d.layout.Unpack(d.image[addr])
	next := addr + 1

	if instr.Opcode == codegen.OPCODE_EXT {
		mnemonic, ok := d.layout.ExtMnemonic(instr.A)

		if !ok {
			return d.dat(addr)
		}

		arg, used, ok := d.argument(instr.B, false, next)

		if !ok {
			return d.dat(addr)
		}

		return Line{
			Address: uint16(addr),
			Words:   d.image[addr : next+used],
			Text:    mnemonic + " " + arg,
		}
	}

	mnemonic, ok := d.layout.BasicMnemonic(instr.Opcode)

	if !ok {
		return d.dat(addr)
	}

	var a, b string
	var usedA, usedB int

	if d.layout.TailBFirst() {
		if b, usedB, ok = d.argument(instr.B, false, next); !ok {
			return d.dat(addr)
		}

		if a, usedA, ok = d.argument(instr.A, true, next+usedB); !ok {
			return d.dat(addr)
		}
	} else {
		if a, usedA, ok = d.argument(instr.A, true, next); !ok {
			return d.dat(addr)
		}

		if b, usedB, ok = d.argument(instr.B, false, next+usedA); !ok {
			return d.dat(addr)
		}
	}

	return Line{
		Address: uint16(addr),
		Words:   d.image[addr : next+usedA+usedB],
		Text:    mnemonic + " " + a + ", " + b,
	}
}

// Disassemble decodes image for layout. Words under a data label are shown
// as dat until the next code label.
func Disassemble(image []uint16, symbols []codegen.Symbol, layout codegen.Layout) []Line {
	d := newDisassembler(image, symbols, layout)
	lines := make([]Line, 0, len(image))
	inData := false

	for addr := 0; addr < len(image); {
		var line Line

		switch d.kinds[uint16(addr)] {
		case codegen.LABEL_CODE:
			inData = false
		case codegen.LABEL_DATA:
			inData = true
		}

		if inData {
			line = d.dat(addr)
		} else {
			line = d.instruction(addr)
		}

		line.Labels = d.labels[uint16(addr)]
		lines = append(lines, line)

		addr += len(line.Words)
	}

	return lines
}

// Write prints lines as an assembly listing.
func Write(w io.Writer, lines []Line) error {
	var builder strings.Builder

	for _, line := range lines {
		for _, label := range line.Labels {
			fmt.Fprintf(&builder, ":%s\n", label)
		}

		words := make([]string, 0, len(line.Words))

		for _, word := range line.Words {
			words = append(words, fmt.Sprintf("%04x", word))
		}

		fmt.Fprintf(
			&builder,
			"%04x    %-28s ; %s\n",
			line.Address,
			line.Text,
			strings.Join(words, " "),
		)

		if _, err := io.WriteString(w, builder.String()); err != nil {
			return err
		}

		builder.Reset()
	}

	return nil
}
