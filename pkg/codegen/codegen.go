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

// Package codegen turns parsed DCPU-16 statements into a memory image.
//
// Generation is done in two passes. The first walks the statements in order,
// defining labels and writing symbolic code words. Once every label has a
// value the second pass resolves those words into the final image.
package codegen

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"

	"github.com/lassandro/godasm/pkg/ast"
)

// Options selects the language features accepted by Generate.
type Options struct {
	LocalLabels        bool
	DatLengthCounting  bool
	DifferenceLiterals bool
	SignedNumbers      bool
	Layout             Layout
}

type Result struct {
	Image  []uint16
	Labels []Symbol
}

// program is the state of a single assembly. It is the Emitter the Encoder
// writes to.
type program struct {
	symbols     *SymTable
	code        []Code
	differences []Difference

	localLabels bool
	lastGlobal  string
}

func newProgram(opts Options) *program {
	return &program{
		symbols:     NewSymTable(),
		localLabels: opts.LocalLabels,
		lastGlobal:  InitialLabel,
	}
}

func (p *program) isLocal(name string) bool {
	return p.localLabels && strings.HasPrefix(name, LocalLabelPrefix)
}

func (p *program) qualify(name string) string {
	if p.isLocal(name) {
		return p.lastGlobal + name
	}

	return name
}

func (p *program) Lookup(name string, pos ast.Cursor) (LabelIndex, error) {
	return p.symbols.Lookup(p.qualify(name), pos)
}

func (p *program) Write(code Code) {
	p.code = append(p.code, code)
}

func (p *program) CurrentAddress() uint16 {
	return uint16(len(p.code))
}

func (p *program) EncodeDifference(diff Difference) Code {
	index := len(p.differences)

	for _, operand := range []Code{diff.Base, diff.Target} {
		if operand.Kind == CODE_DIFFERENCE && int(operand.Value) >= index {
			panic(fmt.Sprintf(
				"difference %d refers to difference %d", index, operand.Value,
			))
		}
	}

	p.differences = append(p.differences, diff)

	return DifferenceCode(uint16(index))
}

func (p *program) define(def *ast.LabelDef) (LabelIndex, error) {
	name := def.Name

	if p.isLocal(name) {
		name = p.lastGlobal + name
	} else {
		p.lastGlobal = name
	}

	return p.symbols.Lookup(name, def.Position)
}

func (p *program) addressFix(enc *Encoder, label LabelIndex, fix *ast.AddressFix, pos ast.Cursor) error {
	value, err := enc.LiteralWord(p, fix.Value)

	if err != nil {
		return err
	}

	switch value.Kind {
	case CODE_LITERAL:
		return p.symbols.FixValue(label, value.Value, pos)

	case CODE_LABEL:
		return p.symbols.FixForward(label, LabelIndex(value.Value), pos)

	case CODE_DIFFERENCE:
		return &InvalidDifferenceFixError{fix.Position}
	}

	return unexpected(fix.Position, "address fix")
}

func (p *program) statement(enc *Encoder, stmt *ast.Statement) error {
	var label LabelIndex
	var err error

	if stmt.Label != nil {
		if label, err = p.define(stmt.Label); err != nil {
			return err
		}
	}

	if fix, ok := stmt.Body.(*ast.AddressFix); ok {
		if stmt.Label == nil {
			return unexpected(fix.Position, "address fix without a label")
		}

		return p.addressFix(enc, label, fix, stmt.Label.Position)
	}

	if stmt.Label != nil {
		err = p.symbols.FixValue(label, p.CurrentAddress(), stmt.Label.Position)

		if err != nil {
			return err
		}
	}

	if stmt.Body == nil {
		return nil
	}

	if err := enc.Statement(p, stmt.Body); err != nil {
		return err
	}

	if len(p.code) > MaxImageSize || len(p.differences) > MaxImageSize {
		return &OversizedImageError{stmt.Position}
	}

	return nil
}

// Generate assembles stmts into an image. It stops at the first error and
// returns no partial output.
func Generate(stmts []ast.Statement, opts Options) (*Result, error) {
	if opts.Layout == 0 {
		opts.Layout = LAYOUT_DEFAULT
	}

	if !opts.Layout.Valid() {
		return nil, fmt.Errorf("invalid instruction layout %d", opts.Layout)
	}

	if glog.V(3) {
		printer := pp.New()
		printer.SetColoringEnabled(false)
		glog.Infof("statements:\n%s", printer.Sprint(stmts))
	}

	p := newProgram(opts)
	enc := NewEncoder(opts)

	for i := range stmts {
		if err := p.statement(enc, &stmts[i]); err != nil {
			return nil, err
		}
	}

	bounds := []struct {
		name  string
		value uint16
	}{
		{CodeStartLabel, 0},
		{CodeEndLabel, p.CurrentAddress()},
	}

	for _, bound := range bounds {
		index, err := p.symbols.Lookup(bound.name, ast.Cursor{})

		if err != nil {
			return nil, err
		}

		if err := p.symbols.FixValue(index, bound.value, ast.Cursor{}); err != nil {
			return nil, err
		}
	}

	if err := p.symbols.Validate(); err != nil {
		return nil, err
	}

	p.symbols.Classify(p.code)

	image := Evaluate(p.code, p.symbols, p.differences)

	glog.V(1).Infof(
		"generated %d words from %d statements, %d labels, %d differences",
		len(image), len(stmts), p.symbols.Len(), len(p.differences),
	)

	return &Result{Image: image, Labels: p.symbols.Symbols()}, nil
}
