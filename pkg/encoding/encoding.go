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
	"errors"
	"strconv"
	"strings"
)

type NumberFlags uint

const (
	NUMBER_DEFAULT    NumberFlags = 0
	NUMBER_BINARY     NumberFlags = 1 << 0
	NUMBER_UNDERSCORE NumberFlags = 1 << 1
)

// Decodes an unsigned number in the formats: 123, 0x7B, and with the right
// flags 0b1111011 and 1_234.
func DecodeNumber(s string, flags NumberFlags) (int64, error) {
	base := 10
	digits := s

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
			digits = s[2:]
		case 'b', 'B':
			if flags&NUMBER_BINARY == 0 {
				return 0, errors.New("Binary literals not enabled")
			}

			base = 2
			digits = s[2:]
		}
	}

	if strings.Contains(digits, "_") {
		if flags&NUMBER_UNDERSCORE == 0 {
			return 0, errors.New("Underscores in numbers not enabled")
		}

		if strings.HasPrefix(digits, "_") || strings.HasSuffix(digits, "_") {
			return 0, errors.New("Invalid digit separator")
		}

		digits = strings.ReplaceAll(digits, "_", "")
	}

	// Sign is handled by the caller.
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, errors.New("Invalid number")
	}

	return strconv.ParseInt(digits, base, 64)
}
