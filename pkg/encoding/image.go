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

package encoding

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lassandro/godasm/pkg/codegen"
	"github.com/lassandro/godasm/pkg/disasm"
)

type Format uint

const (
	FORMAT_BINARY Format = iota
	FORMAT_HEX
	FORMAT_HEX_WITH_ADDRESS
	FORMAT_ASSEMBLY_HEX
	FORMAT_LISTING
)

const FormatNames = "b, binary, h, hex, H, hexwithaddr, A, assemblyhex, L, listing"

// Words per line in the text formats.
const hexWidth = 8

func ParseFormat(name string) (Format, error) {
	switch name {
	case "b", "binary":
		return FORMAT_BINARY, nil
	case "h", "hex":
		return FORMAT_HEX, nil
	case "H", "hexwithaddr":
		return FORMAT_HEX_WITH_ADDRESS, nil
	case "A", "assemblyhex":
		return FORMAT_ASSEMBLY_HEX, nil
	case "L", "listing":
		return FORMAT_LISTING, nil
	}

	return 0, fmt.Errorf("Unknown target format '%s'", name)
}

func (f Format) String() string {
	switch f {
	case FORMAT_BINARY:
		return "binary"
	case FORMAT_HEX:
		return "hex"
	case FORMAT_HEX_WITH_ADDRESS:
		return "hexwithaddr"
	case FORMAT_ASSEMBLY_HEX:
		return "assemblyhex"
	case FORMAT_LISTING:
		return "listing"
	default:
		return "<invalid>"
	}
}

// IsText reports whether the format is safe to print to a terminal.
func (f Format) IsText() bool {
	return f != FORMAT_BINARY
}

type ImageOptions struct {
	Format    Format
	BigEndian bool
	// Only used by the listing.
	Layout codegen.Layout
}

// WriteImage writes an assembled program to w.
func WriteImage(w io.Writer, result *codegen.Result, opts ImageOptions) error {
	out := bufio.NewWriter(w)

	var err error

	switch opts.Format {
	case FORMAT_BINARY:
		var order binary.ByteOrder = binary.LittleEndian

		if opts.BigEndian {
			order = binary.BigEndian
		}

		err = binary.Write(out, order, result.Image)

	case FORMAT_HEX:
		err = writeRows(out, result.Image, func(row int) string {
			return ""
		}, "%04x", " ")

	case FORMAT_HEX_WITH_ADDRESS:
		err = writeRows(out, result.Image, func(row int) string {
			return fmt.Sprintf("%04x ", row*hexWidth)
		}, "%04x", " ")

	case FORMAT_ASSEMBLY_HEX:
		err = writeRows(out, result.Image, func(row int) string {
			return "dat "
		}, "0x%04x", ", ")

	case FORMAT_LISTING:
		layout := opts.Layout

		if layout == 0 {
			layout = codegen.LAYOUT_DEFAULT
		}

		err = disasm.Write(
			out, disasm.Disassemble(result.Image, result.Labels, layout),
		)

	default:
		err = fmt.Errorf("Unknown target format %d", opts.Format)
	}

	if err != nil {
		return err
	}

	return out.Flush()
}

func writeRows(w io.Writer, image []uint16, prefix func(row int) string, word, sep string) error {
	for start := 0; start < len(image); start += hexWidth {
		end := start + hexWidth

		if end > len(image) {
			end = len(image)
		}

		if _, err := io.WriteString(w, prefix(start/hexWidth)); err != nil {
			return err
		}

		for i, value := range image[start:end] {
			if i > 0 {
				if _, err := io.WriteString(w, sep); err != nil {
					return err
				}
			}

			if _, err := fmt.Fprintf(w, word, value); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}
