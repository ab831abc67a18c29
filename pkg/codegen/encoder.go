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
	"math"
	"unicode/utf16"

	"github.com/golang/glog"

	"github.com/lassandro/godasm/pkg/ast"
)

// Emitter is the output side of code generation, as seen by the Encoder.
type Emitter interface {
	// Lookup returns the label for name, creating it if needed.
	Lookup(name string, pos ast.Cursor) (LabelIndex, error)
	// Write appends a word to the output.
	Write(code Code)
	// CurrentAddress is the address the next written word will occupy.
	CurrentAddress() uint16
	// EncodeDifference stores a difference and returns a word referring to
	// it.
	EncodeDifference(diff Difference) Code
}

// Encoder turns instructions and data into code words. It holds no state
// besides its configuration.
type Encoder struct {
	Layout             Layout
	DifferenceLiterals bool
	DatLengthCounting  bool
	SignedNumbers      bool
}

func NewEncoder(opts Options) *Encoder {
	return &Encoder{
		Layout:             opts.Layout,
		DifferenceLiterals: opts.DifferenceLiterals,
		DatLengthCounting:  opts.DatLengthCounting,
		SignedNumbers:      opts.SignedNumbers,
	}
}

func unexpected(pos ast.Cursor, format string, args ...interface{}) error {
	return &UnexpectedConstructError{pos, fmt.Sprintf(format, args...)}
}

// Statement emits the code for a statement body. Address fixes are handled
// by the driver and are not accepted here.
func (enc *Encoder) Statement(e Emitter, body ast.Body) error {
	switch body := body.(type) {
	case *ast.BasicInstruction:
		return enc.BasicInstruction(e, body)
	case *ast.ExtInstruction:
		return enc.ExtInstruction(e, body)
	case *ast.Data:
		return enc.Data(e, body)
	case *ast.AddressFix:
		return unexpected(body.Position, "address fix without a label")
	default:
		return unexpected(ast.Cursor{}, "statement %T", body)
	}
}

func (enc *Encoder) BasicInstruction(e Emitter, instr *ast.BasicInstruction) error {
	op, ok := enc.Layout.BasicOpcode(instr.Opcode)

	if !ok {
		return unexpected(instr.Position, "opcode '%s'", instr.Opcode)
	}

	a, tailA, err := enc.Argument(e, instr.A, true)

	if err != nil {
		return err
	}

	b, tailB, err := enc.Argument(e, instr.B, false)

	if err != nil {
		return err
	}

	word, ok := enc.Layout.Pack(Instruction{Opcode: op, A: a, B: b})

	if !ok {
		return unexpected(instr.A.GetPosition(), "argument for '%s'", instr.Opcode)
	}

	if glog.V(2) {
		glog.Infof(
			"%#04x: %s %#02x, %#02x = %#04x",
			e.CurrentAddress(), instr.Opcode, a, b, word,
		)
	}

	e.Write(InstructionCode(word))

	if enc.Layout.TailBFirst() {
		tailA, tailB = tailB, tailA
	}

	if tailA != nil {
		e.Write(*tailA)
	}

	if tailB != nil {
		e.Write(*tailB)
	}

	return nil
}

func (enc *Encoder) ExtInstruction(e Emitter, instr *ast.ExtInstruction) error {
	op, ok := enc.Layout.ExtOpcode(instr.Opcode)

	if !ok {
		return unexpected(instr.Position, "opcode '%s'", instr.Opcode)
	}

	b, tail, err := enc.Argument(e, instr.Arg, false)

	if err != nil {
		return err
	}

	word, ok := enc.Layout.Pack(Instruction{Opcode: OPCODE_EXT, A: op, B: b})

	if !ok {
		return unexpected(instr.Position, "opcode '%s'", instr.Opcode)
	}

	if glog.V(2) {
		glog.Infof(
			"%#04x: %s %#02x = %#04x", e.CurrentAddress(), instr.Opcode, b, word,
		)
	}

	e.Write(InstructionCode(word))

	if tail != nil {
		e.Write(*tail)
	}

	return nil
}

// Argument returns the argument code for arg and, if it needs one, the word
// that must follow the instruction. inA selects the first operand slot.
func (enc *Encoder) Argument(e Emitter, arg ast.Argument, inA bool) (uint16, *Code, error) {
	if arg == nil {
		return 0, nil, unexpected(ast.Cursor{}, "missing argument")
	}

	switch arg := arg.(type) {
	case *ast.GeneralRegister:
		reg, ok := GeneralRegister(arg.Name)

		if !ok {
			return 0, nil, unexpected(arg.Position, "register '%s'", arg.Name)
		}

		return ARG_CODE_REGISTER + reg, nil, nil

	case *ast.SpecialRegister:
		code, ok := enc.Layout.SpecialRegister(arg.Name)

		if !ok {
			return 0, nil, unexpected(arg.Position, "register '%s'", arg.Name)
		}

		return code, nil, nil

	case *ast.RegisterLookup:
		if arg.Register == nil {
			return 0, nil, unexpected(arg.Position, "register lookup")
		}

		reg, ok := GeneralRegister(arg.Register.Name)

		if !ok {
			return 0, nil, unexpected(arg.Position, "register '%s'", arg.Register.Name)
		}

		return ARG_CODE_REGISTER_LOOKUP + reg, nil, nil

	case *ast.RegisterOffsetLookup:
		if arg.Register == nil || arg.Offset == nil {
			return 0, nil, unexpected(arg.Position, "register offset lookup")
		}

		reg, ok := GeneralRegister(arg.Register.Name)

		if !ok {
			return 0, nil, unexpected(arg.Position, "register '%s'", arg.Register.Name)
		}

		offset, err := enc.LiteralWord(e, arg.Offset)

		if err != nil {
			return 0, nil, err
		}

		if arg.Operator == ast.OFFSET_MINUS {
			offset.Negate()
		}

		return ARG_CODE_REGISTER_OFFSET + reg, &offset, nil

	case *ast.StackOp:
		return enc.stackOp(e, arg)

	case *ast.LiteralArg:
		return enc.literalArg(e, arg, inA)

	case *ast.LiteralLookup:
		value, err := enc.LiteralWord(e, arg.Value)

		if err != nil {
			return 0, nil, err
		}

		return ARG_CODE_LITERAL_LOOKUP, &value, nil
	}

	return 0, nil, unexpected(arg.GetPosition(), "argument %T", arg)
}

func (enc *Encoder) stackOp(e Emitter, arg *ast.StackOp) (uint16, *Code, error) {
	t := enc.Layout.table()

	switch arg.Type {
	case ast.STACK_PUSH:
		return t.push, nil, nil
	case ast.STACK_POP:
		return t.pop, nil, nil
	case ast.STACK_PEEK:
		return t.peek, nil, nil
	case ast.STACK_PICK:
		if !enc.Layout.HasPick() {
			return 0, nil, unexpected(arg.Position, "pick on layout %s", enc.Layout)
		}

		if arg.Offset == nil {
			return 0, nil, unexpected(arg.Position, "pick without offset")
		}

		offset, err := enc.LiteralWord(e, arg.Offset)

		if err != nil {
			return 0, nil, err
		}

		return t.pick, &offset, nil
	}

	return 0, nil, unexpected(arg.Position, "stack operation")
}

// Plain literals that fit are folded into the argument code; anything
// involving a label always takes a trailing word.
func (enc *Encoder) literalArg(e Emitter, arg *ast.LiteralArg, inA bool) (uint16, *Code, error) {
	value, err := enc.LiteralWord(e, arg.Value)

	if err != nil {
		return 0, nil, err
	}

	if value.Kind == CODE_LITERAL && !value.IsNegated() && enc.Layout.CanFold(inA) {
		if code, ok := enc.Layout.ShortLiteral(value.Value); ok {
			return code, nil, nil
		}
	}

	return ARG_CODE_LITERAL, &value, nil
}

// LiteralWord evaluates `head` or `head ~ tail`.
func (enc *Encoder) LiteralWord(e Emitter, word *ast.LiteralWord) (Code, error) {
	if word == nil || word.Head == nil {
		return Code{}, unexpected(ast.Cursor{}, "missing literal")
	}

	head, err := enc.atom(e, word.Head)

	if err != nil {
		return Code{}, err
	}

	if word.Tail == nil {
		return head, nil
	}

	if !enc.DifferenceLiterals {
		return Code{}, unexpected(word.Position, "difference literal")
	}

	tail, err := enc.atom(e, word.Tail)

	if err != nil {
		return Code{}, err
	}

	return e.EncodeDifference(Difference{Base: head, Target: tail}), nil
}

func (enc *Encoder) number(n *ast.Number) (uint16, error) {
	min := int64(0)

	if enc.SignedNumbers {
		min = math.MinInt16
	}

	if n.Value < min || n.Value > math.MaxUint16 {
		return 0, &NumericOverflowError{n.Position, n.Value}
	}

	return uint16(n.Value), nil
}

func (enc *Encoder) atom(e Emitter, atom ast.Atom) (Code, error) {
	switch atom := atom.(type) {
	case *ast.Number:
		value, err := enc.number(atom)

		if err != nil {
			return Code{}, err
		}

		return LiteralCode(value), nil

	case *ast.Character:
		if atom.Value < 0 || atom.Value > math.MaxUint16 {
			return Code{}, &NumericOverflowError{atom.Position, int64(atom.Value)}
		}

		return LiteralCode(uint16(atom.Value)), nil

	case *ast.Identifier:
		label, err := e.Lookup(atom.Name, atom.Position)

		if err != nil {
			return Code{}, err
		}

		return LabelCode(label), nil

	case *ast.DifferenceLiteral:
		if !enc.DifferenceLiterals {
			return Code{}, unexpected(atom.Position, "difference literal")
		}

		// Anchored where evaluation happens, not where the word lands.
		base := LiteralCode(e.CurrentAddress())
		target, err := enc.atom(e, atom.Target)

		if err != nil {
			return Code{}, err
		}

		return e.EncodeDifference(Difference{Base: base, Target: target}), nil
	}

	return Code{}, unexpected(ast.Cursor{}, "literal %T", atom)
}

func stringWords(text string) []uint16 {
	return utf16.Encode([]rune(text))
}

// countData is the number of words values will produce.
func countData(values []ast.DataValue) int {
	count := 0

	for _, value := range values {
		if s, ok := value.(*ast.StringValue); ok {
			count += len(stringWords(s.Text))
		} else {
			count++
		}
	}

	return count
}

func (enc *Encoder) Data(e Emitter, data *ast.Data) error {
	for i, value := range data.Values {
		switch value := value.(type) {
		case *ast.LengthMarker:
			if !enc.DatLengthCounting {
				return unexpected(value.Position, "length marker")
			}

			count := countData(data.Values[i+1:])

			if count > math.MaxUint16 {
				return &NumericOverflowError{value.Position, int64(count)}
			}

			e.Write(LiteralCode(uint16(count)))

		case *ast.StringValue:
			for _, unit := range stringWords(value.Text) {
				e.Write(LiteralCode(unit))
			}

		case *ast.LiteralWord:
			code, err := enc.LiteralWord(e, value)

			if err != nil {
				return err
			}

			if code.Kind == CODE_LABEL || code.Kind == CODE_DIFFERENCE {
				code.Flags |= FLAG_LITERAL
			}

			e.Write(code)

		default:
			return unexpected(data.Position, "data value %T", value)
		}
	}

	return nil
}
