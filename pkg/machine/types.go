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

package machine

import (
	"fmt"

	"github.com/lassandro/godasm/pkg/codegen"
)

type OperandKind uint

type MachineState struct {
	Registers [8]uint16
	Program   uint16
	Stack     uint16
	// EX on 1.7, O on 1.1.
	Extra     uint16
	Interrupt uint16
	Memory    [MemorySize]uint16
}

// Operand is a resolved instruction argument: where a value is read from
// and written to.
type Operand struct {
	Kind  OperandKind
	Value uint16
}

// MachineDebugger is told about every instruction before it executes.
type MachineDebugger interface {
	Step(addr uint16, mc *Machine)
}

// Machine runs images on a DCPU-16 with no hardware attached.
type Machine struct {
	Layout   codegen.Layout
	State    MachineState
	Debugger MachineDebugger
	Halted   bool

	queue    []uint16
	queueing bool
}

type IllegalInstructionError struct {
	Address uint16
	Word    uint16
}

func (err *IllegalInstructionError) Error() string {
	return fmt.Sprintf(
		"%#04x: Illegal instruction %#04x", err.Address, err.Word,
	)
}

type InterruptOverflowError struct {
	Address uint16
}

func (err *InterruptOverflowError) Error() string {
	return fmt.Sprintf(
		"%#04x: Interrupt queue exceeds %d entries",
		err.Address,
		INTERRUPT_QUEUE_SIZE,
	)
}
