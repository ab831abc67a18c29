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

import "github.com/lassandro/godasm/pkg/ast"

// Shorthands for building statements by hand.

func num(v int64) *ast.Number {
	return &ast.Number{Value: v}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func here(target ast.Atom) *ast.DifferenceLiteral {
	return &ast.DifferenceLiteral{Target: target}
}

func word(head ast.Atom) *ast.LiteralWord {
	return &ast.LiteralWord{Head: head}
}

func diff(head, tail ast.Atom) *ast.LiteralWord {
	return &ast.LiteralWord{Head: head, Tail: tail}
}

func reg(name string) *ast.GeneralRegister {
	return &ast.GeneralRegister{Name: name}
}

func special(name string) *ast.SpecialRegister {
	return &ast.SpecialRegister{Name: name}
}

func lit(head ast.Atom) *ast.LiteralArg {
	return &ast.LiteralArg{Value: word(head)}
}

func lookup(head ast.Atom) *ast.LiteralLookup {
	return &ast.LiteralLookup{Value: word(head)}
}

func offset(name string, op ast.OffsetOperator, head ast.Atom) *ast.RegisterOffsetLookup {
	return &ast.RegisterOffsetLookup{
		Register: reg(name),
		Operator: op,
		Offset:   word(head),
	}
}

func basic(opcode string, a, b ast.Argument) *ast.BasicInstruction {
	return &ast.BasicInstruction{Opcode: opcode, A: a, B: b}
}

func ext(opcode string, arg ast.Argument) *ast.ExtInstruction {
	return &ast.ExtInstruction{Opcode: opcode, Arg: arg}
}

func dat(values ...ast.DataValue) *ast.Data {
	return &ast.Data{Values: values}
}

func fix(value *ast.LiteralWord) *ast.AddressFix {
	return &ast.AddressFix{Value: value}
}

func stmt(body ast.Body) ast.Statement {
	return ast.Statement{Body: body}
}

func labeled(name string, body ast.Body) ast.Statement {
	return ast.Statement{Label: &ast.LabelDef{Name: name}, Body: body}
}
