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

package assembler

import (
	"fmt"
	"strings"

	"github.com/lassandro/godasm/pkg/ast"
)

type TokenType uint

type Token struct {
	Type     TokenType
	Position ast.Cursor
	Value    string
}

type TokenError interface {
	GetPosition() ast.Cursor
}

func (t TokenType) String() string {
	switch t {
	case TOKEN_NONE:
		return "End of line"
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_LITERAL:
		return "Literal"
	case TOKEN_CHARACTER:
		return "Character"
	case TOKEN_STRING:
		return "String"
	case TOKEN_COLON:
		return "':'"
	case TOKEN_COMMA:
		return "','"
	case TOKEN_AT:
		return "'@'"
	case TOKEN_PLUS:
		return "'+'"
	case TOKEN_MINUS:
		return "'-'"
	case TOKEN_LBRACKET:
		return "'['"
	case TOKEN_RBRACKET:
		return "']'"
	case TOKEN_TILDE:
		return "'~'"
	default:
		return "<invalid>"
	}
}

type InvalidOperandError struct {
	Position ast.Cursor
	Required []TokenType
	Received TokenType
}

func (err *InvalidOperandError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidOperandError) Error() string {
	var requiredString string

	requiredStrings := make([]string, 0, len(err.Required))

	for _, tokenType := range err.Required {
		requiredStrings = append(requiredStrings, tokenType.String())
	}

	if count := len(requiredStrings); count == 1 {
		requiredString = requiredStrings[0]
	} else if count == 2 {
		requiredString = requiredStrings[0] + " or " + requiredStrings[1]
	} else if count > 2 {
		requiredString = strings.Join(
			requiredStrings[:len(requiredStrings)-1], ", ",
		) + ", or " + requiredStrings[len(requiredStrings)-1]
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid operands\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		requiredString,
		err.Received,
	)
}

type InvalidNumArgumentsError struct {
	Position ast.Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of arguments\n\twant:%d\n\thave:%v",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidLiteralError struct {
	Position ast.Cursor
}

func (err *InvalidLiteralError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type InvalidStringError struct {
	Position ast.Cursor
}

func (err *InvalidStringError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidStringError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid string literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type InvalidCharacterError struct {
	Position ast.Cursor
}

func (err *InvalidCharacterError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid character literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnexpectedCharacterError struct {
	Position ast.Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %c",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnexpectedTokenError struct {
	Position ast.Cursor
	Received Token
}

func (err *UnexpectedTokenError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnexpectedTokenError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received.Value,
	)
}

type UnknownIdentifierError struct {
	Position ast.Cursor
	Received string
}

func (err *UnknownIdentifierError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnknownIdentifierError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}
