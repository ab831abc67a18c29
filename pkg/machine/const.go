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

const (
	OPERAND_REGISTER OperandKind = iota
	OPERAND_MEMORY
	OPERAND_SP
	OPERAND_PC
	OPERAND_EX
	// Writes to literals fail silently.
	OPERAND_LITERAL
)

const (
	REGISTER_A uint16 = iota
	REGISTER_B
	REGISTER_C
	REGISTER_X
	REGISTER_Y
	REGISTER_Z
	REGISTER_I
	REGISTER_J
)

const (
	INTERRUPT_QUEUE_SIZE = 256

	MemorySize = 1 << 16
)
