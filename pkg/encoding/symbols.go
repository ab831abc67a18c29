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
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lassandro/godasm/pkg/codegen"
)

// WriteSymbols writes one `VALUE TYPE NAME` line per label, the format read
// back by debuggers.
func WriteSymbols(w io.Writer, labels []codegen.Symbol) error {
	out := bufio.NewWriter(w)

	for _, label := range labels {
		_, err := fmt.Fprintf(
			out, "%04X %s %s\n", label.Value, label.Type.Shorthand(), label.Name,
		)

		if err != nil {
			return err
		}
	}

	return out.Flush()
}

func RenderSymbols(title string, labels []codegen.Symbol) string {
	symbols := table.NewWriter()
	symbols.SetTitle(title)
	symbols.AppendHeader(table.Row{"Address", "Type", "Label"})

	for _, label := range labels {
		symbols.AppendRow(table.Row{
			fmt.Sprintf("%04x", label.Value), label.Type.String(), label.Name,
		})
	}

	symbols.AppendFooter(table.Row{"", "", fmt.Sprintf("%d labels", len(labels))})

	return symbols.Render()
}
