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

import "fmt"

type evaluator struct {
	symbols     *SymTable
	differences []Difference
}

// Differences only ever refer to earlier entries, so this terminates.
func (ev *evaluator) resolve(code Code) uint16 {
	var value uint16

	switch code.Kind {
	case CODE_INSTRUCTION, CODE_LITERAL:
		value = code.Value
	case CODE_LABEL:
		value = ev.symbols.Value(LabelIndex(code.Value))
	case CODE_DIFFERENCE:
		diff := ev.differences[code.Value]
		value = ev.resolve(diff.Target) - ev.resolve(diff.Base)
	default:
		panic(fmt.Sprintf("invalid code kind %d", code.Kind))
	}

	if code.IsNegated() {
		value = -value
	}

	return value
}

// Evaluate resolves every code word into its final value. All labels the
// code refers to must be fixed.
func Evaluate(code []Code, symbols *SymTable, differences []Difference) []uint16 {
	ev := evaluator{symbols, differences}
	image := make([]uint16, len(code))

	for i, word := range code {
		image[i] = ev.resolve(word)
	}

	return image
}
