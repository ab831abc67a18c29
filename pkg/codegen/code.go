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

// Code is one word of generated output before labels are resolved.
//
// Instructions and literals are kept apart so that a later pass could
// shorten instructions (jumps to nearby labels, for instance). Label uses
// are kept symbolic so that moving code never needs a fixup list.
type Code struct {
	Kind  CodeKind
	Flags CodeFlags
	Value uint16
}

func InstructionCode(word uint16) Code {
	return Code{Kind: CODE_INSTRUCTION, Value: word}
}

func LiteralCode(value uint16) Code {
	return Code{Kind: CODE_LITERAL, Value: value}
}

func LabelCode(label LabelIndex) Code {
	return Code{Kind: CODE_LABEL, Value: uint16(label)}
}

func DifferenceCode(index uint16) Code {
	return Code{Kind: CODE_DIFFERENCE, Value: index}
}

// Negate toggles negation of the resolved value.
func (c *Code) Negate() {
	c.Flags ^= FLAG_NEGATE
}

func (c Code) IsNegated() bool {
	return c.Flags&FLAG_NEGATE != 0
}

func (c Code) IsLiteral() bool {
	return c.Flags&FLAG_LITERAL != 0
}

// Difference resolves to Target - Base. It lives in its own table because
// it needs two operands and won't fit in a Code.
type Difference struct {
	Base   Code
	Target Code
}
