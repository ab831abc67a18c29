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

package encoding_test

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lassandro/godasm/pkg/codegen"
	"github.com/lassandro/godasm/pkg/encoding"
)

func TestDecodeNumber(t *testing.T) {
	flags := encoding.NUMBER_BINARY | encoding.NUMBER_UNDERSCORE

	tests := map[string]int64{
		"0":         0,
		"42":        42,
		"0x7B":      0x7b,
		"0Xffff":    0xffff,
		"0b1010":    10,
		"1_000":     1000,
		"0xdead_01": 0xdead01,
		"007":       7,
	}

	for input, want := range tests {
		have, err := encoding.DecodeNumber(input, flags)

		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}

		if have != want {
			t.Fatalf(
				"Decoded value mismatch for %q\n"+
					"want:%d\n"+
					"have:%d",
				input,
				want,
				have,
			)
		}
	}
}

func TestDecodeNumberFail(t *testing.T) {
	tests := []struct {
		Input string
		Flags encoding.NumberFlags
	}{
		{"0b101", encoding.NUMBER_DEFAULT},
		{"1_000", encoding.NUMBER_DEFAULT},
		{"_1", encoding.NUMBER_UNDERSCORE},
		{"1_", encoding.NUMBER_UNDERSCORE},
		{"0x", encoding.NUMBER_DEFAULT},
		{"0xg", encoding.NUMBER_DEFAULT},
		{"-1", encoding.NUMBER_DEFAULT},
		{"0b2", encoding.NUMBER_BINARY},
		{"", encoding.NUMBER_DEFAULT},
	}

	for _, test := range tests {
		if value, err := encoding.DecodeNumber(test.Input, test.Flags); err == nil {
			t.Fatalf("%q accepted as %d", test.Input, value)
		}
	}

	if _, err := encoding.DecodeNumber("99999999999999999999", encoding.NUMBER_DEFAULT); !errors.Is(err, strconv.ErrRange) {
		t.Fatalf("Range error mismatch\nwant:%v\nhave:%v", strconv.ErrRange, err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range strings.Split(encoding.FormatNames, ", ") {
		format, err := encoding.ParseFormat(name)

		if err != nil {
			t.Fatal(err)
		}

		// Every long name is its format's String().
		if len(name) > 1 && format.String() != name {
			t.Fatalf("Format name mismatch\nwant:%s\nhave:%s", name, format)
		}
	}

	if _, err := encoding.ParseFormat("ihex"); err == nil {
		t.Fatal("Unknown format accepted")
	}
}

var sample = &codegen.Result{
	Image: []uint16{
		0x7c01, 0x0030, 0x7fc1, 0x0020, 0x1000, 0x7803, 0x1000, 0xc413,
		0x7f81, 0x001a,
	},
	Labels: []codegen.Symbol{
		{Name: codegen.CodeStartLabel, Value: 0, Type: codegen.LABEL_CODE},
		{Name: "end", Value: 0x0a, Type: codegen.LABEL_UNKNOWN},
		{Name: "crash", Value: 0x1a, Type: codegen.LABEL_CODE},
		{Name: "msg", Value: 0x1000, Type: codegen.LABEL_DATA},
	},
}

func TestWriteImage(t *testing.T) {
	tests := []struct {
		Name    string
		Options encoding.ImageOptions
		Output  string
	}{
		{
			"Hex",
			encoding.ImageOptions{Format: encoding.FORMAT_HEX},
			"7c01 0030 7fc1 0020 1000 7803 1000 c413\n" +
				"7f81 001a\n",
		},
		{
			"HexWithAddress",
			encoding.ImageOptions{Format: encoding.FORMAT_HEX_WITH_ADDRESS},
			"0000 7c01 0030 7fc1 0020 1000 7803 1000 c413\n" +
				"0008 7f81 001a\n",
		},
		{
			"AssemblyHex",
			encoding.ImageOptions{Format: encoding.FORMAT_ASSEMBLY_HEX},
			"dat 0x7c01, 0x0030, 0x7fc1, 0x0020, 0x1000, 0x7803, 0x1000, 0xc413\n" +
				"dat 0x7f81, 0x001a\n",
		},
		{
			"Binary",
			encoding.ImageOptions{Format: encoding.FORMAT_BINARY},
			"\x01\x7c\x30\x00\xc1\x7f\x20\x00\x00\x10\x03\x78\x00\x10\x13\xc4" +
				"\x81\x7f\x1a\x00",
		},
		{
			"BinaryBigEndian",
			encoding.ImageOptions{Format: encoding.FORMAT_BINARY, BigEndian: true},
			"\x7c\x01\x00\x30\x7f\xc1\x00\x20\x10\x00\x78\x03\x10\x00\xc4\x13" +
				"\x7f\x81\x00\x1a",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer

			if err := encoding.WriteImage(&out, sample, test.Options); err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(test.Output, out.String()); diff != "" {
				t.Fatalf("Output mismatch (-want +have):\n%s", diff)
			}
		})
	}
}

func TestWriteImageEmpty(t *testing.T) {
	var out bytes.Buffer

	empty := &codegen.Result{Image: []uint16{}}

	if err := encoding.WriteImage(&out, empty, encoding.ImageOptions{Format: encoding.FORMAT_HEX}); err != nil {
		t.Fatal(err)
	}

	if out.Len() != 0 {
		t.Fatalf("Empty image wrote %q", out.String())
	}
}

func TestWriteImageListing(t *testing.T) {
	var out bytes.Buffer

	opts := encoding.ImageOptions{Format: encoding.FORMAT_LISTING}

	if err := encoding.WriteImage(&out, sample, opts); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")

	want := []string{
		"0000    set a, 0x0030                ; 7c01 0030",
		"0002    set [msg], 0x0020            ; 7fc1 0020 1000",
		"0005    sub a, [msg]                 ; 7803 1000",
		"0007    ifn a, 16                    ; c413",
		"0008    set pc, crash                ; 7f81 001a",
	}

	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("Listing mismatch (-want +have):\n%s", diff)
	}
}

func TestWriteSymbols(t *testing.T) {
	var out bytes.Buffer

	if err := encoding.WriteSymbols(&out, sample.Labels); err != nil {
		t.Fatal(err)
	}

	want := "0000 c __CODE_START\n" +
		"000A ? end\n" +
		"001A c crash\n" +
		"1000 d msg\n"

	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("Symbol file mismatch (-want +have):\n%s", diff)
	}
}

func TestRenderSymbols(t *testing.T) {
	rendered := encoding.RenderSymbols("sample.dasm", sample.Labels)

	for _, want := range []string{"sample.dasm", "001a", "crash", "unknown", "code", "data"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("Rendered table is missing %q:\n%s", want, rendered)
		}
	}
}
