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

package codegen

type CodeKind uint8
type CodeFlags uint8
type LabelType uint8
type Layout uint8
type ArgumentType uint

const (
	CODE_INSTRUCTION CodeKind = iota
	CODE_LITERAL
	CODE_LABEL
	CODE_DIFFERENCE
)

const (
	FLAG_NONE    CodeFlags = 0
	FLAG_NEGATE  CodeFlags = 1 << 0
	FLAG_LITERAL CodeFlags = 1 << 1
)

const (
	LABEL_UNKNOWN LabelType = iota
	LABEL_CODE
	LABEL_DATA
)

const (
	// DCPU-16 1.1: 4 bit opcode, two 6 bit arguments.
	LAYOUT_V1 Layout = iota + 1
	// DCPU-16 1.7: 5 bit opcode, 5 bit b, 6 bit a.
	LAYOUT_V2

	LAYOUT_DEFAULT = LAYOUT_V2
)

// Decoded argument categories.
const (
	ARG_INVALID ArgumentType = iota
	ARG_REGISTER
	ARG_REGISTER_LOOKUP
	ARG_REGISTER_OFFSET
	ARG_PUSH
	ARG_POP
	ARG_PUSH_POP
	ARG_PEEK
	ARG_PICK
	ARG_SP
	ARG_PC
	ARG_EX
	ARG_LITERAL_LOOKUP
	ARG_LITERAL
	ARG_SHORT_LITERAL
)

// Argument codes shared by both layouts.
const (
	ARG_CODE_REGISTER        uint16 = 0x00
	ARG_CODE_REGISTER_LOOKUP uint16 = 0x08
	ARG_CODE_REGISTER_OFFSET uint16 = 0x10
	ARG_CODE_SP              uint16 = 0x1b
	ARG_CODE_PC              uint16 = 0x1c
	ARG_CODE_EX              uint16 = 0x1d
	ARG_CODE_LITERAL_LOOKUP  uint16 = 0x1e
	ARG_CODE_LITERAL         uint16 = 0x1f
	ARG_CODE_SHORT_LITERAL   uint16 = 0x20
)

const (
	OPCODE_EXT uint16 = 0

	// Local labels are qualified with this until the first global label.
	InitialLabel     = "__GLOBAL__"
	LocalLabelPrefix = "."

	CodeStartLabel = "__CODE_START"
	CodeEndLabel   = "__CODE_END"

	MaxImageSize = 1 << 16
)

var generalRegisters = []string{"a", "b", "c", "x", "y", "z", "i", "j"}
