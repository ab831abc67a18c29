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
	gomock "github.com/golang/mock/gomock"
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/godasm/pkg/ast"
)

var _ = g.Describe("Encoder", func() {
	var (
		mockCtrl    *gomock.Controller
		mockEmitter *MockEmitter
		enc         *Encoder
	)

	g.BeforeEach(func() {
		mockCtrl = gomock.NewController(g.GinkgoT())
		mockEmitter = NewMockEmitter(mockCtrl)
		enc = &Encoder{
			Layout:             LAYOUT_V2,
			DifferenceLiterals: true,
			DatLengthCounting:  true,
		}
	})

	g.AfterEach(func() {
		mockCtrl.Finish()
	})

	expectWrites := func(codes ...Code) {
		calls := make([]*gomock.Call, 0, len(codes))

		for _, code := range codes {
			calls = append(calls, mockEmitter.EXPECT().Write(code))
		}

		gomock.InOrder(calls...)
	}

	g.Context("on DCPU-16 1.7", func() {
		g.It("should fold short literals into the second operand", func() {
			expectWrites(InstructionCode(0x8801))

			err := enc.BasicInstruction(
				mockEmitter, basic("set", reg("a"), lit(num(1))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should fold 0xffff to the sentinel code", func() {
			expectWrites(InstructionCode(0x8001))

			err := enc.BasicInstruction(
				mockEmitter, basic("set", reg("a"), lit(num(0xffff))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should keep literals in the first operand long", func() {
			expectWrites(InstructionCode(0x03e1), LiteralCode(1))

			err := enc.BasicInstruction(
				mockEmitter, basic("set", lit(num(1)), reg("a")),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should write the second operand's tail first", func() {
			expectWrites(
				InstructionCode(0x7fc1),
				LiteralCode(0x20),
				LiteralCode(0x1000),
			)

			err := enc.BasicInstruction(
				mockEmitter, basic("set", lookup(num(0x1000)), lit(num(0x20))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should never fold labels", func() {
			mockEmitter.EXPECT().
				Lookup("loop", gomock.Any()).
				Return(LabelIndex(3), nil)
			expectWrites(InstructionCode(0x7f81), LabelCode(3))

			err := enc.BasicInstruction(
				mockEmitter, basic("set", special("pc"), lit(ident("loop"))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should negate subtracted register offsets", func() {
			expectWrites(
				InstructionCode(0x4401),
				Code{Kind: CODE_LITERAL, Flags: FLAG_NEGATE, Value: 2},
			)

			err := enc.BasicInstruction(
				mockEmitter,
				basic("set", reg("a"), offset("b", ast.OFFSET_MINUS, num(2))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should encode pick with its offset", func() {
			expectWrites(InstructionCode(0x6801), LiteralCode(4))

			err := enc.BasicInstruction(
				mockEmitter,
				basic("set", reg("a"), &ast.StackOp{
					Type:   ast.STACK_PICK,
					Offset: word(num(4)),
				}),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should put the extended opcode in the first field", func() {
			mockEmitter.EXPECT().
				Lookup("sub", gomock.Any()).
				Return(LabelIndex(0), nil)
			expectWrites(InstructionCode(0x7c20), LabelCode(0))

			err := enc.ExtInstruction(mockEmitter, ext("jsr", lit(ident("sub"))))

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should reject unknown opcodes", func() {
			err := enc.BasicInstruction(
				mockEmitter, basic("nop", reg("a"), reg("b")),
			)

			Expect(err).To(BeAssignableToTypeOf(&UnexpectedConstructError{}))
		})

		g.It("should reject 1.1 registers", func() {
			err := enc.BasicInstruction(
				mockEmitter, basic("set", reg("a"), special("o")),
			)

			Expect(err).To(BeAssignableToTypeOf(&UnexpectedConstructError{}))
		})
	})

	g.Context("on DCPU-16 1.1", func() {
		g.BeforeEach(func() {
			enc.Layout = LAYOUT_V1
		})

		g.It("should fold short literals into either operand", func() {
			expectWrites(InstructionCode(0x0251))

			err := enc.BasicInstruction(
				mockEmitter, basic("set", lit(num(5)), reg("a")),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should write the first operand's tail first", func() {
			expectWrites(
				InstructionCode(0x7de1),
				LiteralCode(0x1000),
				LiteralCode(0x20),
			)

			err := enc.BasicInstruction(
				mockEmitter, basic("set", lookup(num(0x1000)), lit(num(0x20))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should encode jsr", func() {
			mockEmitter.EXPECT().
				Lookup("testsub", gomock.Any()).
				Return(LabelIndex(1), nil)
			expectWrites(InstructionCode(0x7c10), LabelCode(1))

			err := enc.ExtInstruction(
				mockEmitter, ext("jsr", lit(ident("testsub"))),
			)

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should reject pick", func() {
			err := enc.BasicInstruction(
				mockEmitter,
				basic("set", reg("a"), &ast.StackOp{
					Type:   ast.STACK_PICK,
					Offset: word(num(1)),
				}),
			)

			Expect(err).To(BeAssignableToTypeOf(&UnexpectedConstructError{}))
		})
	})

	g.Context("when evaluating literal words", func() {
		g.It("should anchor ~ at the current address", func() {
			mockEmitter.EXPECT().CurrentAddress().Return(uint16(5))
			mockEmitter.EXPECT().
				Lookup("end", gomock.Any()).
				Return(LabelIndex(2), nil)
			mockEmitter.EXPECT().
				EncodeDifference(Difference{
					Base:   LiteralCode(5),
					Target: LabelCode(2),
				}).
				Return(DifferenceCode(0))

			code, err := enc.LiteralWord(mockEmitter, word(here(ident("end"))))

			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(DifferenceCode(0)))
		})

		g.It("should measure from head to tail", func() {
			mockEmitter.EXPECT().
				Lookup("start", gomock.Any()).
				Return(LabelIndex(0), nil)
			mockEmitter.EXPECT().
				Lookup("end", gomock.Any()).
				Return(LabelIndex(1), nil)
			mockEmitter.EXPECT().
				EncodeDifference(Difference{
					Base:   LabelCode(0),
					Target: LabelCode(1),
				}).
				Return(DifferenceCode(7))

			code, err := enc.LiteralWord(
				mockEmitter, diff(ident("start"), ident("end")),
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(DifferenceCode(7)))
		})

		g.It("should reject differences when disabled", func() {
			enc.DifferenceLiterals = false

			_, err := enc.LiteralWord(mockEmitter, word(here(num(1))))

			Expect(err).To(BeAssignableToTypeOf(&UnexpectedConstructError{}))
		})

		g.It("should reject numbers outside 16 bits", func() {
			_, err := enc.LiteralWord(mockEmitter, word(num(0x10000)))

			Expect(err).To(BeAssignableToTypeOf(&NumericOverflowError{}))
		})

		g.It("should accept negative numbers only when signed", func() {
			_, err := enc.LiteralWord(mockEmitter, word(num(-1)))
			Expect(err).To(BeAssignableToTypeOf(&NumericOverflowError{}))

			enc.SignedNumbers = true

			code, err := enc.LiteralWord(mockEmitter, word(num(-1)))
			Expect(err).NotTo(HaveOccurred())
			Expect(code).To(Equal(LiteralCode(0xffff)))
		})
	})

	g.Context("when encoding data", func() {
		g.It("should count the words after a length marker", func() {
			expectWrites(
				LiteralCode(3),
				LiteralCode('a'),
				LiteralCode('b'),
				LiteralCode(1),
			)

			err := enc.Data(mockEmitter, dat(
				&ast.LengthMarker{},
				&ast.StringValue{Text: "ab"},
				word(num(1)),
			))

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should write strings as UTF-16", func() {
			expectWrites(LiteralCode(0xd83d), LiteralCode(0xde00))

			err := enc.Data(mockEmitter, dat(&ast.StringValue{Text: "😀"}))

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should mark label words as data", func() {
			mockEmitter.EXPECT().
				Lookup("table", gomock.Any()).
				Return(LabelIndex(4), nil)
			expectWrites(Code{Kind: CODE_LABEL, Flags: FLAG_LITERAL, Value: 4})

			err := enc.Data(mockEmitter, dat(word(ident("table"))))

			Expect(err).NotTo(HaveOccurred())
		})

		g.It("should reject length markers when disabled", func() {
			enc.DatLengthCounting = false

			err := enc.Data(mockEmitter, dat(&ast.LengthMarker{}))

			Expect(err).To(BeAssignableToTypeOf(&UnexpectedConstructError{}))
		})
	})
})
