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
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allLayouts = []Layout{LAYOUT_V1, LAYOUT_V2}

func TestPackRoundTrip(t *testing.T) {
	for _, layout := range allLayouts {
		t.Run(layout.String(), func(t *testing.T) {
			for mnemonic, op := range layout.table().basic {
				for a := uint16(0); a <= fieldMask(layout.table().aBits); a++ {
					for b := uint16(0); b < 0x40; b++ {
						want := Instruction{Opcode: op, A: a, B: b}
						word, ok := layout.Pack(want)

						if !ok {
							t.Fatalf("%s %#02x, %#02x did not pack", mnemonic, a, b)
						}

						if have := layout.Unpack(word); have != want {
							t.Fatalf(
								"Unpack mismatch\nwant:%+v\nhave:%+v (%#04x)",
								want,
								have,
								word,
							)
						}
					}
				}

				name, ok := layout.BasicMnemonic(op)

				if !ok || name != mnemonic {
					t.Fatalf("Mnemonic mismatch\nwant:%s\nhave:%s", mnemonic, name)
				}
			}

			for mnemonic, op := range layout.table().ext {
				if name, _ := layout.ExtMnemonic(op); name != mnemonic {
					t.Fatalf("Mnemonic mismatch\nwant:%s\nhave:%s", mnemonic, name)
				}
			}
		})
	}
}

func TestPackOverflow(t *testing.T) {
	if _, ok := LAYOUT_V2.Pack(Instruction{Opcode: 1, A: 0x20}); ok {
		t.Fatal("6 bit value packed into the 5 bit field")
	}

	if _, ok := LAYOUT_V1.Pack(Instruction{Opcode: 0x10}); ok {
		t.Fatal("5 bit opcode packed into the 4 bit field")
	}
}

func TestShortLiterals(t *testing.T) {
	type shortCase struct {
		Layout Layout
		Value  uint16
		Code   uint16
		Fold   bool
	}

	tests := []shortCase{
		{LAYOUT_V1, 0, 0x20, true},
		{LAYOUT_V1, 31, 0x3f, true},
		{LAYOUT_V1, 32, 0, false},
		{LAYOUT_V1, 0xffff, 0, false},
		{LAYOUT_V2, 0xffff, 0x20, true},
		{LAYOUT_V2, 0, 0x21, true},
		{LAYOUT_V2, 30, 0x3f, true},
		{LAYOUT_V2, 31, 0, false},
	}

	for _, test := range tests {
		code, ok := test.Layout.ShortLiteral(test.Value)

		if ok != test.Fold || code != test.Code {
			t.Fatalf(
				"%s short literal %#04x\nwant:%#02x %t\nhave:%#02x %t",
				test.Layout,
				test.Value,
				test.Code,
				test.Fold,
				code,
				ok,
			)
		}

		if !ok {
			continue
		}

		arg := test.Layout.DecodeArgument(code, false)

		if arg.Type != ARG_SHORT_LITERAL || arg.Value != test.Value {
			t.Fatalf(
				"%s decode %#02x\nwant:%#04x\nhave:%+v",
				test.Layout,
				code,
				test.Value,
				arg,
			)
		}
	}

	if LAYOUT_V2.CanFold(true) || !LAYOUT_V2.CanFold(false) {
		t.Fatal("1.7 folds short literals into the second operand only")
	}

	if !LAYOUT_V1.CanFold(true) || !LAYOUT_V1.CanFold(false) {
		t.Fatal("1.1 folds short literals into both operands")
	}
}

func TestDecodeArgument(t *testing.T) {
	type decodeCase struct {
		Code uint16
		InA  bool
		Want DecodedArgument
	}

	shared := []decodeCase{
		{0x03, false, DecodedArgument{Type: ARG_REGISTER, Register: 3}},
		{0x0f, false, DecodedArgument{Type: ARG_REGISTER_LOOKUP, Register: 7}},
		{0x12, false, DecodedArgument{Type: ARG_REGISTER_OFFSET, Register: 2, Tail: true}},
		{0x19, false, DecodedArgument{Type: ARG_PEEK}},
		{0x1b, false, DecodedArgument{Type: ARG_SP}},
		{0x1c, false, DecodedArgument{Type: ARG_PC}},
		{0x1d, false, DecodedArgument{Type: ARG_EX}},
		{0x1e, false, DecodedArgument{Type: ARG_LITERAL_LOOKUP, Tail: true}},
		{0x1f, false, DecodedArgument{Type: ARG_LITERAL, Tail: true}},
	}

	tests := map[Layout][]decodeCase{
		LAYOUT_V1: append([]decodeCase{
			{0x18, true, DecodedArgument{Type: ARG_POP}},
			{0x1a, false, DecodedArgument{Type: ARG_PUSH}},
		}, shared...),
		LAYOUT_V2: append([]decodeCase{
			{0x18, true, DecodedArgument{Type: ARG_PUSH}},
			{0x18, false, DecodedArgument{Type: ARG_POP}},
			{0x1a, false, DecodedArgument{Type: ARG_PICK, Tail: true}},
		}, shared...),
	}

	for layout, cases := range tests {
		for _, test := range cases {
			have := layout.DecodeArgument(test.Code, test.InA)

			if diff := cmp.Diff(test.Want, have); diff != "" {
				t.Fatalf(
					"%s decode %#02x mismatch (-want +have):\n%s",
					layout,
					test.Code,
					diff,
				)
			}
		}
	}
}

func TestParseLayout(t *testing.T) {
	for _, layout := range allLayouts {
		parsed, err := ParseLayout(layout.String())

		if err != nil {
			t.Fatal(err)
		}

		if parsed != layout {
			t.Fatalf("Layout mismatch\nwant:%s\nhave:%s", layout, parsed)
		}
	}

	if _, err := ParseLayout("v3"); err == nil {
		t.Fatal("Unknown layout accepted")
	}

	if LAYOUT_V1.HasPick() || !LAYOUT_V2.HasPick() {
		t.Fatal("Pick support mismatch\nwant:v2 only")
	}
}

func TestRegisters(t *testing.T) {
	for i, name := range []string{"A", "b", "C", "x", "Y", "z", "i", "J"} {
		reg, ok := GeneralRegister(name)

		if !ok || reg != uint16(i) {
			t.Fatalf("Register %s\nwant:%d\nhave:%d", name, i, reg)
		}
	}

	if _, ok := GeneralRegister("k"); ok {
		t.Fatal("Unknown register accepted")
	}

	if code, ok := LAYOUT_V1.SpecialRegister("O"); !ok || code != ARG_CODE_EX {
		t.Fatal("1.1 overflow register missing")
	}

	if name := LAYOUT_V2.SpecialRegisterName(ARG_CODE_EX); name != "ex" {
		t.Fatalf("Special register name\nwant:ex\nhave:%s", name)
	}
}
