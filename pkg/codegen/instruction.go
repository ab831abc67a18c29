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

import (
	"fmt"
	"strings"
)

// Instruction is an unpacked instruction word. A is the first operand as
// written and B the second. Extended instructions have Opcode OPCODE_EXT,
// the extended opcode in A and their single argument in B.
type Instruction struct {
	Opcode uint16
	A      uint16
	B      uint16
}

// DecodedArgument describes an argument code as read back from an
// instruction word.
type DecodedArgument struct {
	Type     ArgumentType
	Register uint16
	Value    uint16
	Tail     bool
}

type layoutTable struct {
	name string

	opcodeBits uint
	aShift     uint
	aBits      uint
	bShift     uint
	bBits      uint

	basic    map[string]uint16
	ext      map[string]uint16
	specials map[string]uint16

	push    uint16
	pop     uint16
	peek    uint16
	pick    uint16
	hasPick bool

	// Whether a short literal may be folded into the A or B field.
	foldA bool
	foldB bool

	shortLiteral func(value uint16) (uint16, bool)
	shortValue   func(code uint16) uint16

	// Whether B's trailing word precedes A's.
	tailBFirst bool
}

//             |bbbbbb|aaaaaa|oooo|
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
var layoutV1 = layoutTable{
	name: "v1",

	opcodeBits: 4,
	aShift:     4,
	aBits:      6,
	bShift:     10,
	bBits:      6,

	basic: map[string]uint16{
		"set": 0x1,
		"add": 0x2,
		"sub": 0x3,
		"mul": 0x4,
		"div": 0x5,
		"mod": 0x6,
		"shl": 0x7,
		"shr": 0x8,
		"and": 0x9,
		"bor": 0xa,
		"xor": 0xb,
		"ife": 0xc,
		"ifn": 0xd,
		"ifg": 0xe,
		"ifb": 0xf,
	},
	ext: map[string]uint16{
		"jsr": 0x01,
	},
	specials: map[string]uint16{
		"sp": ARG_CODE_SP,
		"pc": ARG_CODE_PC,
		"o":  ARG_CODE_EX,
	},

	pop:  0x18,
	peek: 0x19,
	push: 0x1a,

	foldA: true,
	foldB: true,

	shortLiteral: func(value uint16) (uint16, bool) {
		if value <= 0x1f {
			return ARG_CODE_SHORT_LITERAL + value, true
		}
		return 0, false
	},
	shortValue: func(code uint16) uint16 {
		return code - ARG_CODE_SHORT_LITERAL
	},
}

//             |aaaaaa|bbbbb|ooooo|
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
var layoutV2 = layoutTable{
	name: "v2",

	opcodeBits: 5,
	aShift:     5,
	aBits:      5,
	bShift:     10,
	bBits:      6,

	basic: map[string]uint16{
		"set": 0x01,
		"add": 0x02,
		"sub": 0x03,
		"mul": 0x04,
		"mli": 0x05,
		"div": 0x06,
		"dvi": 0x07,
		"mod": 0x08,
		"mdi": 0x09,
		"and": 0x0a,
		"bor": 0x0b,
		"xor": 0x0c,
		"shr": 0x0d,
		"asr": 0x0e,
		"shl": 0x0f,
		"ifb": 0x10,
		"ifc": 0x11,
		"ife": 0x12,
		"ifn": 0x13,
		"ifg": 0x14,
		"ifa": 0x15,
		"ifl": 0x16,
		"ifu": 0x17,
		"adx": 0x1a,
		"sbx": 0x1b,
		"sti": 0x1e,
		"std": 0x1f,
	},
	ext: map[string]uint16{
		"jsr": 0x01,
		"int": 0x08,
		"iag": 0x09,
		"ias": 0x0a,
		"rfi": 0x0b,
		"iaq": 0x0c,
		"hwn": 0x10,
		"hwq": 0x11,
		"hwi": 0x12,
	},
	specials: map[string]uint16{
		"sp": ARG_CODE_SP,
		"pc": ARG_CODE_PC,
		"ex": ARG_CODE_EX,
	},

	// push and pop share a code; the slot decides which one it is.
	push:    0x18,
	pop:     0x18,
	peek:    0x19,
	pick:    0x1a,
	hasPick: true,

	foldA: false,
	foldB: true,

	shortLiteral: func(value uint16) (uint16, bool) {
		if value == 0xffff {
			return ARG_CODE_SHORT_LITERAL, true
		} else if value <= 30 {
			return ARG_CODE_SHORT_LITERAL + 1 + value, true
		}
		return 0, false
	},
	shortValue: func(code uint16) uint16 {
		return code - ARG_CODE_SHORT_LITERAL - 1
	},

	tailBFirst: true,
}

var layouts = map[Layout]*layoutTable{
	LAYOUT_V1: &layoutV1,
	LAYOUT_V2: &layoutV2,
}

// ParseLayout accepts the names reported by Layout.String.
func ParseLayout(name string) (Layout, error) {
	for layout, table := range layouts {
		if strings.EqualFold(name, table.name) {
			return layout, nil
		}
	}

	return 0, fmt.Errorf("unknown instruction layout '%s'", name)
}

func (l Layout) Valid() bool {
	_, exists := layouts[l]
	return exists
}

func (l Layout) table() *layoutTable {
	if table, exists := layouts[l]; exists {
		return table
	}

	panic(fmt.Sprintf("invalid instruction layout %d", l))
}

func (l Layout) String() string {
	if table, exists := layouts[l]; exists {
		return table.name
	}

	return "<invalid>"
}

func fieldMask(bits uint) uint16 {
	return uint16(1)<<bits - 1
}

// Pack builds the instruction word. It fails if a field does not fit.
func (l Layout) Pack(instr Instruction) (uint16, bool) {
	t := l.table()

	if instr.Opcode > fieldMask(t.opcodeBits) ||
		instr.A > fieldMask(t.aBits) ||
		instr.B > fieldMask(t.bBits) {
		return 0, false
	}

	return instr.Opcode | instr.A<<t.aShift | instr.B<<t.bShift, true
}

func (l Layout) Unpack(word uint16) Instruction {
	t := l.table()

	return Instruction{
		Opcode: word & fieldMask(t.opcodeBits),
		A:      (word >> t.aShift) & fieldMask(t.aBits),
		B:      (word >> t.bShift) & fieldMask(t.bBits),
	}
}

func (l Layout) BasicOpcode(mnemonic string) (uint16, bool) {
	op, exists := l.table().basic[strings.ToLower(mnemonic)]
	return op, exists
}

func (l Layout) ExtOpcode(mnemonic string) (uint16, bool) {
	op, exists := l.table().ext[strings.ToLower(mnemonic)]
	return op, exists
}

func reverseLookup(table map[string]uint16, value uint16) (string, bool) {
	for name, v := range table {
		if v == value {
			return name, true
		}
	}

	return "", false
}

func (l Layout) BasicMnemonic(opcode uint16) (string, bool) {
	return reverseLookup(l.table().basic, opcode)
}

func (l Layout) ExtMnemonic(opcode uint16) (string, bool) {
	return reverseLookup(l.table().ext, opcode)
}

// SpecialRegister returns the argument code for sp, pc and ex (o on 1.1).
func (l Layout) SpecialRegister(name string) (uint16, bool) {
	code, exists := l.table().specials[strings.ToLower(name)]
	return code, exists
}

func (l Layout) SpecialRegisterName(code uint16) string {
	name, _ := reverseLookup(l.table().specials, code)
	return name
}

func GeneralRegister(name string) (uint16, bool) {
	lower := strings.ToLower(name)

	for i, reg := range generalRegisters {
		if reg == lower {
			return uint16(i), true
		}
	}

	return 0, false
}

func GeneralRegisterName(reg uint16) string {
	return generalRegisters[reg&0x7]
}

// ShortLiteral returns the inline argument code for value, if the layout
// has one.
func (l Layout) ShortLiteral(value uint16) (uint16, bool) {
	return l.table().shortLiteral(value)
}

// CanFold reports whether the given slot is wide enough to hold a short
// literal.
func (l Layout) CanFold(inA bool) bool {
	t := l.table()

	if inA {
		return t.foldA
	}

	return t.foldB
}

func (l Layout) HasPick() bool {
	return l.table().hasPick
}

// TailBFirst reports whether the trailing word of argument B is emitted
// before the one of argument A.
func (l Layout) TailBFirst() bool {
	return l.table().tailBFirst
}

// DecodeArgument reads back an argument code. inA tells which slot the code
// came from, which matters for the 1.7 push/pop code.
func (l Layout) DecodeArgument(code uint16, inA bool) DecodedArgument {
	t := l.table()

	switch {
	case code < ARG_CODE_REGISTER_LOOKUP:
		return DecodedArgument{Type: ARG_REGISTER, Register: code}
	case code < ARG_CODE_REGISTER_OFFSET:
		return DecodedArgument{
			Type:     ARG_REGISTER_LOOKUP,
			Register: code - ARG_CODE_REGISTER_LOOKUP,
		}
	case code < 0x18:
		return DecodedArgument{
			Type:     ARG_REGISTER_OFFSET,
			Register: code - ARG_CODE_REGISTER_OFFSET,
			Tail:     true,
		}
	case t.push == t.pop && code == t.push:
		if inA {
			return DecodedArgument{Type: ARG_PUSH}
		}
		return DecodedArgument{Type: ARG_POP}
	case code == t.push:
		return DecodedArgument{Type: ARG_PUSH}
	case code == t.pop:
		return DecodedArgument{Type: ARG_POP}
	case code == t.peek:
		return DecodedArgument{Type: ARG_PEEK}
	case t.hasPick && code == t.pick:
		return DecodedArgument{Type: ARG_PICK, Tail: true}
	case code == ARG_CODE_SP:
		return DecodedArgument{Type: ARG_SP}
	case code == ARG_CODE_PC:
		return DecodedArgument{Type: ARG_PC}
	case code == ARG_CODE_EX:
		return DecodedArgument{Type: ARG_EX}
	case code == ARG_CODE_LITERAL_LOOKUP:
		return DecodedArgument{Type: ARG_LITERAL_LOOKUP, Tail: true}
	case code == ARG_CODE_LITERAL:
		return DecodedArgument{Type: ARG_LITERAL, Tail: true}
	case code >= ARG_CODE_SHORT_LITERAL && code <= 0x3f:
		return DecodedArgument{Type: ARG_SHORT_LITERAL, Value: t.shortValue(code)}
	}

	return DecodedArgument{Type: ARG_INVALID}
}
