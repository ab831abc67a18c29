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
	"sort"

	"github.com/golang/glog"

	"github.com/lassandro/godasm/pkg/ast"
)

// LabelIndex is the position of a label in its SymTable. It is what a
// CODE_LABEL word carries.
type LabelIndex uint16

const noForward = -1

// Label names a position in memory. A label is either unfixed, fixed to a
// value, or forwarded to another label, as in
//
//	:A @ B
//	:B dat 0
//
// Reads of a forwarded label's value, fixed state and type go through the
// forwarding chain, so they are only available from the SymTable.
type Label struct {
	Index    LabelIndex
	Name     string
	Position ast.Cursor
	Used     ast.Cursor

	fixed   bool
	value   uint16
	kind    LabelType
	forward int
}

func (l *Label) IsForwarded() bool {
	return l.forward != noForward
}

// Symbol is a label as reported after assembly.
type Symbol struct {
	Name  string
	Value uint16
	Type  LabelType
}

func (t LabelType) Shorthand() string {
	switch t {
	case LABEL_CODE:
		return "c"
	case LABEL_DATA:
		return "d"
	default:
		return "?"
	}
}

func (t LabelType) String() string {
	switch t {
	case LABEL_CODE:
		return "code"
	case LABEL_DATA:
		return "data"
	default:
		return "unknown"
	}
}

// SymTable owns every label of one assembly. Labels are kept in a flat
// slice in first-reference order and are never removed.
type SymTable struct {
	labels []Label
	names  map[string]LabelIndex
}

func NewSymTable() *SymTable {
	return &SymTable{names: make(map[string]LabelIndex)}
}

func (t *SymTable) Len() int {
	return len(t.labels)
}

// Label returns the label at index. The pointer is only valid until the
// next Lookup.
func (t *SymTable) Label(index LabelIndex) *Label {
	return &t.labels[index]
}

// Lookup returns the label called name, allocating an unfixed one on first
// use. pos is remembered as the first use for error reporting.
func (t *SymTable) Lookup(name string, pos ast.Cursor) (LabelIndex, error) {
	if index, exists := t.names[name]; exists {
		return index, nil
	}

	if len(t.labels) >= MaxImageSize {
		return 0, &OversizedImageError{pos}
	}

	index := LabelIndex(len(t.labels))
	t.labels = append(t.labels, Label{
		Index:   index,
		Name:    name,
		Used:    pos,
		forward: noForward,
	})
	t.names[name] = index

	return index, nil
}

func (t *SymTable) resolve(index LabelIndex) *Label {
	label := &t.labels[index]

	for label.forward != noForward {
		label = &t.labels[label.forward]
	}

	return label
}

func (t *SymTable) Value(index LabelIndex) uint16 {
	return t.resolve(index).value
}

func (t *SymTable) Fixed(index LabelIndex) bool {
	return t.resolve(index).fixed
}

func (t *SymTable) Type(index LabelIndex) LabelType {
	return t.resolve(index).kind
}

// Defined reports whether the label has been given a definition, either a
// value or a forward, regardless of whether that definition is resolvable
// yet.
func (t *SymTable) Defined(index LabelIndex) bool {
	label := &t.labels[index]
	return label.fixed || label.IsForwarded()
}

func (t *SymTable) redeclared(label *Label, pos ast.Cursor) error {
	return &DuplicateLabelError{
		Position: pos,
		Name:     label.Name,
		First:    label.Position,
	}
}

func (t *SymTable) FixValue(index LabelIndex, value uint16, pos ast.Cursor) error {
	label := &t.labels[index]

	if t.Defined(index) {
		return t.redeclared(label, pos)
	}

	glog.V(2).Infof("label %s = %#04x", label.Name, value)

	label.value = value
	label.fixed = true
	label.Position = pos

	return nil
}

// FixForward makes index an alias of target. A forward that would close a
// cycle is rejected here, so chains are always acyclic.
func (t *SymTable) FixForward(index, target LabelIndex, pos ast.Cursor) error {
	label := &t.labels[index]

	if t.Defined(index) {
		return t.redeclared(label, pos)
	}

	if t.resolve(target).Index == index {
		return &CircularLabelError{
			Position: pos,
			Name:     label.Name,
			Target:   t.labels[target].Name,
		}
	}

	glog.V(2).Infof("label %s -> %s", label.Name, t.labels[target].Name)

	label.forward = int(target)
	label.Position = pos

	return nil
}

func (t *SymTable) setType(label *Label, kind LabelType) {
	if label.IsForwarded() {
		panic("cannot set the type of forwarded label " + label.Name)
	}

	label.kind = kind
}

// Validate fails on the first label, in index order, that was used but
// never resolved to a value.
func (t *SymTable) Validate() error {
	for i := range t.labels {
		if !t.Fixed(LabelIndex(i)) {
			return &UndefinedLabelError{t.labels[i].Used, t.labels[i].Name}
		}
	}

	return nil
}

// Classify guesses what each label points at from the code at its address.
// Forwarded labels report the type of their target.
func (t *SymTable) Classify(code []Code) {
	for i := range t.labels {
		label := &t.labels[i]

		if label.IsForwarded() {
			continue
		}

		if int(label.value) >= len(code) {
			continue
		}

		word := code[label.value]

		switch word.Kind {
		case CODE_INSTRUCTION:
			t.setType(label, LABEL_CODE)
		case CODE_LITERAL:
			t.setType(label, LABEL_DATA)
		case CODE_LABEL:
			if word.IsLiteral() {
				t.setType(label, LABEL_DATA)
			} else {
				t.setType(label, LABEL_UNKNOWN)
			}
		default:
			t.setType(label, LABEL_UNKNOWN)
		}
	}
}

// Symbols lists every label sorted by value. Labels with equal values keep
// their index order.
func (t *SymTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(t.labels))

	for i := range t.labels {
		index := LabelIndex(i)
		symbols = append(symbols, Symbol{
			Name:  t.labels[i].Name,
			Value: t.Value(index),
			Type:  t.Type(index),
		})
	}

	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].Value < symbols[j].Value
	})

	return symbols
}
