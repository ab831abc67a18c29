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
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"

	"github.com/golang/glog"

	"github.com/lassandro/godasm/pkg/codegen"
)

func (mc *MachineState) Reset() {
	for i, _ := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i, _ := range mc.Memory {
		mc.Memory[i] = 0x0000
	}

	// Stack grows down from the top of memory, the first push lands on 0xffff
	mc.Program = 0x0000
	mc.Stack = 0x0000
	mc.Extra = 0x0000
	mc.Interrupt = 0x0000
}

// Load resets the machine and copies image to the start of memory.
func (mc *Machine) Load(image []uint16) {
	mc.State.Reset()
	mc.Halted = false
	mc.queue = nil
	mc.queueing = false

	copy(mc.State.Memory[:], image)
}

// LoadBin loads a binary image stored with the given byte order.
func (mc *Machine) LoadBin(reader io.Reader, order binary.ByteOrder) error {
	data, err := io.ReadAll(reader)

	if err != nil {
		return err
	}

	if len(data)%2 != 0 {
		return errors.New("Error reading binary: odd number of bytes")
	}

	if len(data) > 2*MemorySize {
		return errors.New("Error reading binary: image exceeds memory")
	}

	image := make([]uint16, len(data)/2)

	if err := binary.Read(bytes.NewReader(data), order, image); err != nil {
		return err
	}

	mc.Load(image)
	return nil
}

func (mc *Machine) next() uint16 {
	word := mc.State.Memory[mc.State.Program]
	mc.State.Program++
	return word
}

func (mc *Machine) push(value uint16) {
	mc.State.Stack--
	mc.State.Memory[mc.State.Stack] = value
}

func (mc *Machine) pop() uint16 {
	result := mc.State.Memory[mc.State.Stack]
	mc.State.Stack++
	return result
}

// operand resolves an argument code, consuming its trailing word and applying
// its stack effect.
func (mc *Machine) operand(code uint16, inA bool) (Operand, bool) {
	arg := mc.Layout.DecodeArgument(code, inA)
	state := &mc.State

	switch arg.Type {
	case codegen.ARG_REGISTER:
		return Operand{OPERAND_REGISTER, arg.Register}, true
	case codegen.ARG_REGISTER_LOOKUP:
		return Operand{OPERAND_MEMORY, state.Registers[arg.Register]}, true
	case codegen.ARG_REGISTER_OFFSET:
		return Operand{OPERAND_MEMORY, state.Registers[arg.Register] + mc.next()}, true
	case codegen.ARG_PUSH:
		state.Stack--
		return Operand{OPERAND_MEMORY, state.Stack}, true
	case codegen.ARG_POP:
		addr := state.Stack
		state.Stack++
		return Operand{OPERAND_MEMORY, addr}, true
	case codegen.ARG_PEEK:
		return Operand{OPERAND_MEMORY, state.Stack}, true
	case codegen.ARG_PICK:
		return Operand{OPERAND_MEMORY, state.Stack + mc.next()}, true
	case codegen.ARG_SP:
		return Operand{Kind: OPERAND_SP}, true
	case codegen.ARG_PC:
		return Operand{Kind: OPERAND_PC}, true
	case codegen.ARG_EX:
		return Operand{Kind: OPERAND_EX}, true
	case codegen.ARG_LITERAL_LOOKUP:
		return Operand{OPERAND_MEMORY, mc.next()}, true
	case codegen.ARG_LITERAL:
		return Operand{OPERAND_LITERAL, mc.next()}, true
	case codegen.ARG_SHORT_LITERAL:
		return Operand{OPERAND_LITERAL, arg.Value}, true
	}

	return Operand{}, false
}

func (mc *Machine) get(op Operand) uint16 {
	switch op.Kind {
	case OPERAND_REGISTER:
		return mc.State.Registers[op.Value]
	case OPERAND_MEMORY:
		return mc.State.Memory[op.Value]
	case OPERAND_SP:
		return mc.State.Stack
	case OPERAND_PC:
		return mc.State.Program
	case OPERAND_EX:
		return mc.State.Extra
	default:
		return op.Value
	}
}

func (mc *Machine) set(op Operand, value uint16) {
	switch op.Kind {
	case OPERAND_REGISTER:
		mc.State.Registers[op.Value] = value
	case OPERAND_MEMORY:
		mc.State.Memory[op.Value] = value
	case OPERAND_SP:
		mc.State.Stack = value
	case OPERAND_PC:
		mc.State.Program = value
	case OPERAND_EX:
		mc.State.Extra = value
	}
}

func (mc *Machine) isConditional(instr codegen.Instruction) bool {
	if instr.Opcode == codegen.OPCODE_EXT {
		return false
	}

	mnemonic, _ := mc.Layout.BasicMnemonic(instr.Opcode)
	return strings.HasPrefix(mnemonic, "if")
}

// skip steps over the next instruction without executing it. On 1.7 a chain
// of conditionals is skipped along with the instruction that ends it.
func (mc *Machine) skip() {
	for {
		instr := mc.Layout.Unpack(mc.next())

		if instr.Opcode == codegen.OPCODE_EXT {
			if mc.Layout.DecodeArgument(instr.B, false).Tail {
				mc.State.Program++
			}

			return
		}

		if mc.Layout.DecodeArgument(instr.A, true).Tail {
			mc.State.Program++
		}

		if mc.Layout.DecodeArgument(instr.B, false).Tail {
			mc.State.Program++
		}

		if mc.Layout == codegen.LAYOUT_V1 || !mc.isConditional(instr) {
			return
		}
	}
}

func (mc *Machine) test(condition bool) {
	if !condition {
		mc.skip()
	}
}

func (mc *Machine) basic(mnemonic string, a, b Operand) {
	state := &mc.State

	x := uint32(mc.get(a))
	y := uint32(mc.get(b))
	sx := int32(int16(x))
	sy := int32(int16(y))

	switch mnemonic {
	case "set":
		mc.set(a, uint16(y))

	case "add":
		result := x + y
		mc.set(a, uint16(result))
		state.Extra = uint16(result >> 16)

	case "sub":
		mc.set(a, uint16(x-y))

		if x < y {
			state.Extra = 0xffff
		} else {
			state.Extra = 0x0000
		}

	case "mul":
		result := x * y
		mc.set(a, uint16(result))
		state.Extra = uint16(result >> 16)

	case "mli":
		result := sx * sy
		mc.set(a, uint16(result))
		state.Extra = uint16(uint32(result) >> 16)

	case "div":
		if y == 0 {
			mc.set(a, 0)
			state.Extra = 0
		} else {
			mc.set(a, uint16(x/y))
			state.Extra = uint16((x << 16) / y)
		}

	case "dvi":
		if sy == 0 {
			mc.set(a, 0)
			state.Extra = 0
		} else {
			mc.set(a, uint16(sx/sy))
			state.Extra = uint16((int64(sx) << 16) / int64(sy))
		}

	case "mod":
		if y == 0 {
			mc.set(a, 0)
		} else {
			mc.set(a, uint16(x%y))
		}

	case "mdi":
		if sy == 0 {
			mc.set(a, 0)
		} else {
			mc.set(a, uint16(sx%sy))
		}

	case "and":
		mc.set(a, uint16(x&y))
	case "bor":
		mc.set(a, uint16(x|y))
	case "xor":
		mc.set(a, uint16(x^y))

	case "shr":
		mc.set(a, uint16(x>>y))
		state.Extra = uint16((x << 16) >> y)

	case "asr":
		mc.set(a, uint16(sx>>y))
		state.Extra = uint16((int64(sx) << 16) >> y)

	case "shl":
		result := uint64(x) << y
		mc.set(a, uint16(result))
		state.Extra = uint16(result >> 16)

	case "ifb":
		mc.test(x&y != 0)
	case "ifc":
		mc.test(x&y == 0)
	case "ife":
		mc.test(x == y)
	case "ifn":
		mc.test(x != y)
	case "ifg":
		mc.test(x > y)
	case "ifa":
		mc.test(sx > sy)
	case "ifl":
		mc.test(x < y)
	case "ifu":
		mc.test(sx < sy)

	case "adx":
		result := x + y + uint32(state.Extra)
		mc.set(a, uint16(result))

		if result > 0xffff {
			state.Extra = 0x0001
		} else {
			state.Extra = 0x0000
		}

	case "sbx":
		result := int32(x) - int32(y) + int32(state.Extra)
		mc.set(a, uint16(result))

		switch {
		case result < 0:
			state.Extra = 0xffff
		case result > 0xffff:
			state.Extra = 0x0001
		default:
			state.Extra = 0x0000
		}

	case "sti":
		mc.set(a, uint16(y))
		state.Registers[REGISTER_I]++
		state.Registers[REGISTER_J]++

	case "std":
		mc.set(a, uint16(y))
		state.Registers[REGISTER_I]--
		state.Registers[REGISTER_J]--
	}
}

func (mc *Machine) ext(mnemonic string, a Operand, addr uint16) error {
	state := &mc.State

	switch mnemonic {
	case "jsr":
		target := mc.get(a)
		mc.push(state.Program)
		state.Program = target

	case "int":
		return mc.interrupt(mc.get(a), addr)

	case "iag":
		mc.set(a, state.Interrupt)

	case "ias":
		state.Interrupt = mc.get(a)

	case "rfi":
		mc.queueing = false
		state.Registers[REGISTER_A] = mc.pop()
		state.Program = mc.pop()

	case "iaq":
		mc.queueing = mc.get(a) != 0

	case "hwn":
		mc.set(a, 0)

	case "hwq":
		// No hardware is attached, so every query comes back empty
		for _, reg := range []uint16{REGISTER_A, REGISTER_B, REGISTER_C, REGISTER_X, REGISTER_Y} {
			state.Registers[reg] = 0
		}

	case "hwi":
	}

	return nil
}

func (mc *Machine) interrupt(message uint16, addr uint16) error {
	if mc.State.Interrupt == 0 {
		return nil
	}

	if mc.queueing {
		if len(mc.queue) >= INTERRUPT_QUEUE_SIZE {
			return &InterruptOverflowError{Address: addr}
		}

		mc.queue = append(mc.queue, message)
		return nil
	}

	mc.trigger(message)
	return nil
}

func (mc *Machine) trigger(message uint16) {
	state := &mc.State

	mc.queueing = true
	mc.push(state.Program)
	mc.push(state.Registers[REGISTER_A])
	state.Program = state.Interrupt
	state.Registers[REGISTER_A] = message
}

// Step executes one instruction, then at most one queued interrupt. An
// instruction that jumps to itself halts the machine.
func (mc *Machine) Step() error {
	addr := mc.State.Program

	if mc.Debugger != nil {
		mc.Debugger.Step(addr, mc)
	}

	word := mc.next()
	instr := mc.Layout.Unpack(word)
	illegal := &IllegalInstructionError{Address: addr, Word: word}

	if instr.Opcode == codegen.OPCODE_EXT {
		mnemonic, ok := mc.Layout.ExtMnemonic(instr.A)

		if !ok {
			return illegal
		}

		a, ok := mc.operand(instr.B, false)

		if !ok {
			return illegal
		}

		if err := mc.ext(mnemonic, a, addr); err != nil {
			return err
		}
	} else {
		mnemonic, ok := mc.Layout.BasicMnemonic(instr.Opcode)

		if !ok {
			return illegal
		}

		var a, b Operand
		var okA, okB bool

		if mc.Layout.TailBFirst() {
			b, okB = mc.operand(instr.B, false)
			a, okA = mc.operand(instr.A, true)
		} else {
			a, okA = mc.operand(instr.A, true)
			b, okB = mc.operand(instr.B, false)
		}

		if !okA || !okB {
			return illegal
		}

		mc.basic(mnemonic, a, b)
	}

	if mc.State.Program == addr {
		mc.Halted = true

		if glog.V(1) {
			glog.Infof("%#04x: Halted", addr)
		}
	}

	if !mc.queueing && len(mc.queue) > 0 {
		message := mc.queue[0]
		mc.queue = mc.queue[1:]

		if mc.State.Interrupt != 0 {
			mc.trigger(message)
		}
	}

	return nil
}

// Run steps the machine until it halts or limit instructions have run, and
// returns how many ran.
func (mc *Machine) Run(limit uint) (uint, error) {
	var count uint

	for count < limit && !mc.Halted {
		if err := mc.Step(); err != nil {
			return count, err
		}

		count++
	}

	return count, nil
}
