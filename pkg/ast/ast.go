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

// Package ast holds the parsed statement stream handed from the parser to
// the code generator.
package ast

type StackOpType uint
type OffsetOperator uint

const (
	STACK_PUSH StackOpType = iota
	STACK_POP
	STACK_PEEK
	STACK_PICK
)

const (
	OFFSET_PLUS OffsetOperator = iota
	OFFSET_MINUS
)

// Cursor locates a node in the source. Byte and LineByte are absolute file
// offsets so the CLI can seek back and underline the offending text.
type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// Statement is a single source line. Label and Body are both optional.
type Statement struct {
	Label    *LabelDef
	Body     Body
	Position Cursor
}

type LabelDef struct {
	Name     string
	Position Cursor
}

// Body is one of *AddressFix, *BasicInstruction, *ExtInstruction or *Data.
type Body interface {
	body()
}

// AddressFix is `:label @ value`; it fixes the label without emitting code.
type AddressFix struct {
	Value    *LiteralWord
	Position Cursor
}

type BasicInstruction struct {
	Opcode   string
	A        Argument
	B        Argument
	Position Cursor
}

type ExtInstruction struct {
	Opcode   string
	Arg      Argument
	Position Cursor
}

type Data struct {
	Values   []DataValue
	Position Cursor
}

func (*AddressFix) body()       {}
func (*BasicInstruction) body() {}
func (*ExtInstruction) body()   {}
func (*Data) body()             {}

// Argument is one of the instruction operand forms below.
type Argument interface {
	argument()
	GetPosition() Cursor
}

// GeneralRegister is one of a, b, c, x, y, z, i, j.
type GeneralRegister struct {
	Name     string
	Position Cursor
}

// SpecialRegister is sp, pc, ex (o on 1.1 hardware).
type SpecialRegister struct {
	Name     string
	Position Cursor
}

// RegisterLookup is [reg].
type RegisterLookup struct {
	Register *GeneralRegister
	Position Cursor
}

// RegisterOffsetLookup is [reg+N], [reg-N] or [N+reg].
type RegisterOffsetLookup struct {
	Register *GeneralRegister
	Operator OffsetOperator
	Offset   *LiteralWord
	Position Cursor
}

// StackOp is push, pop, peek or pick N. Offset is only set for pick.
type StackOp struct {
	Type     StackOpType
	Offset   *LiteralWord
	Position Cursor
}

type LiteralArg struct {
	Value    *LiteralWord
	Position Cursor
}

// LiteralLookup is [N].
type LiteralLookup struct {
	Value    *LiteralWord
	Position Cursor
}

func (*GeneralRegister) argument()      {}
func (*SpecialRegister) argument()      {}
func (*RegisterLookup) argument()       {}
func (*RegisterOffsetLookup) argument() {}
func (*StackOp) argument()              {}
func (*LiteralArg) argument()           {}
func (*LiteralLookup) argument()        {}

func (a *GeneralRegister) GetPosition() Cursor      { return a.Position }
func (a *SpecialRegister) GetPosition() Cursor      { return a.Position }
func (a *RegisterLookup) GetPosition() Cursor       { return a.Position }
func (a *RegisterOffsetLookup) GetPosition() Cursor { return a.Position }
func (a *StackOp) GetPosition() Cursor              { return a.Position }
func (a *LiteralArg) GetPosition() Cursor           { return a.Position }
func (a *LiteralLookup) GetPosition() Cursor        { return a.Position }

// LiteralWord is `head` or `head ~ tail`, the latter meaning the distance
// from head to tail.
type LiteralWord struct {
	Head     Atom
	Tail     Atom
	Position Cursor
}

// Atom is one of *Number, *Character, *Identifier or *DifferenceLiteral.
type Atom interface {
	atom()
	GetPosition() Cursor
}

// Number keeps the value as written; range checking happens at codegen.
type Number struct {
	Value    int64
	Position Cursor
}

type Character struct {
	Value    rune
	Position Cursor
}

type Identifier struct {
	Name     string
	Position Cursor
}

// DifferenceLiteral is `~target`, the distance from the address current at
// evaluation time to target.
type DifferenceLiteral struct {
	Target   Atom
	Position Cursor
}

func (*Number) atom()            {}
func (*Character) atom()         {}
func (*Identifier) atom()        {}
func (*DifferenceLiteral) atom() {}

func (a *Number) GetPosition() Cursor            { return a.Position }
func (a *Character) GetPosition() Cursor         { return a.Position }
func (a *Identifier) GetPosition() Cursor        { return a.Position }
func (a *DifferenceLiteral) GetPosition() Cursor { return a.Position }

// DataValue is one of *StringValue, *LengthMarker or *LiteralWord.
type DataValue interface {
	dataValue()
}

type StringValue struct {
	Text     string
	Position Cursor
}

// LengthMarker is a bare `~` in a dat directive. It expands to the number of
// words the remaining values of the directive produce.
type LengthMarker struct {
	Position Cursor
}

func (*StringValue) dataValue()  {}
func (*LengthMarker) dataValue() {}
func (*LiteralWord) dataValue()  {}
