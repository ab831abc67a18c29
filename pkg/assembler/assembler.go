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

// Package assembler reads DCPU-16 assembly source into statements and hands
// them to the code generator.
package assembler

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/lassandro/godasm/pkg/ast"
	"github.com/lassandro/godasm/pkg/codegen"
	"github.com/lassandro/godasm/pkg/config"
)

var punctuation = map[rune]TokenType{
	':': TOKEN_COLON,
	',': TOKEN_COMMA,
	'@': TOKEN_AT,
	'+': TOKEN_PLUS,
	'-': TOKEN_MINUS,
	'[': TOKEN_LBRACKET,
	']': TOKEN_RBRACKET,
	'~': TOKEN_TILDE,
}

type tokenizer struct {
	localLabels    bool
	extendedLabels bool
}

func isDigit(char rune) bool {
	return char >= '0' && char <= '9'
}

func isLetter(char rune) bool {
	return char < utf8.RuneSelf && unicode.IsLetter(char)
}

func (t *tokenizer) isIdentStart(char rune) bool {
	switch {
	case isLetter(char), char == '_':
		return true
	case char == '.':
		return t.localLabels
	case char == '$':
		return t.extendedLabels
	}

	return false
}

func (t *tokenizer) isIdentChar(char rune) bool {
	return isDigit(char) || t.isIdentStart(char)
}

// closingQuote finds the quote ending the literal opened at start, skipping
// escaped characters.
func closingQuote(line string, start int) int {
	quote := line[start]

	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}

	return -1
}

// tokenize splits one line of source. cursor locates the start of the line.
func (t *tokenizer) tokenize(line string, cursor ast.Cursor) ([]Token, []error) {
	var tokens = make([]Token, 0, 8)
	var errs []error

	at := func(start, end int) ast.Cursor {
		return ast.Cursor{
			Line:     cursor.Line,
			Column:   start + 1,
			Byte:     cursor.LineByte + int64(start),
			Size:     int64(end - start),
			LineByte: cursor.LineByte,
		}
	}

	emit := func(tokenType TokenType, start, end int, value string) {
		tokens = append(tokens, Token{tokenType, at(start, end), value})
	}

	scan := func(start int, accept func(rune) bool) int {
		end := start

		for end < len(line) {
			char, width := utf8.DecodeRuneInString(line[end:])

			if !accept(char) {
				break
			}

			end += width
		}

		return end
	}

	for column := 0; column < len(line); {
		char, width := utf8.DecodeRuneInString(line[column:])

		switch {
		// Whitespace
		case unicode.IsSpace(char):
			column += width

		// Comments
		case char == ';':
			return tokens, errs

		// Strings and characters
		case char == '"' || char == '\'':
			end := closingQuote(line, column)

			if end < 0 {
				if char == '"' {
					errs = append(errs, &InvalidStringError{at(column, len(line))})
				} else {
					errs = append(errs, &InvalidCharacterError{at(column, len(line))})
				}

				return tokens, errs
			}

			value, err := strconv.Unquote(line[column : end+1])

			switch {
			case char == '"' && err != nil:
				errs = append(errs, &InvalidStringError{at(column, end+1)})
			case char == '"':
				emit(TOKEN_STRING, column, end+1, value)
			case err != nil || utf8.RuneCountInString(value) != 1:
				errs = append(errs, &InvalidCharacterError{at(column, end+1)})
			default:
				emit(TOKEN_CHARACTER, column, end+1, value)
			}

			column = end + 1

		// Numeric literals, decoded by the parser
		case isDigit(char):
			end := scan(column, func(char rune) bool {
				return isDigit(char) || isLetter(char) || char == '_'
			})

			emit(TOKEN_LITERAL, column, end, line[column:end])
			column = end

		// Identifiers
		case t.isIdentStart(char):
			end := scan(column, t.isIdentChar)

			emit(TOKEN_IDENT, column, end, line[column:end])
			column = end

		default:
			if tokenType, exists := punctuation[char]; exists {
				emit(tokenType, column, column+width, line[column:column+width])
			} else {
				errs = append(
					errs, &UnexpectedCharacterError{at(column, column+width), char},
				)
			}

			column += width
		}
	}

	return tokens, errs
}

// scanRawLines is bufio.ScanLines without dropping the terminator, so that
// byte offsets stay exact on CRLF input.
func scanRawLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// Parse reads assembly source into statements. Errors are collected line by
// line so that every bad line is reported; the statements are only usable
// when no error was returned.
func Parse(input io.Reader, opts config.Options) (stmts []ast.Statement, errs []error) {
	layout, err := opts.InstructionLayout()

	if err != nil {
		return nil, []error{err}
	}

	var lexer = tokenizer{
		localLabels:    opts.LocalLabels,
		extendedLabels: opts.ExtendedLabelNames,
	}

	var p = newParser(&opts, layout)
	var scanner = bufio.NewScanner(input)
	var cursor = ast.Cursor{Line: 1}

	scanner.Split(scanRawLines)

	stmts = make([]ast.Statement, 0)
	errs = make([]error, 0)

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		tokens, lineErrs := lexer.tokenize(line, cursor)

		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
		} else if len(tokens) > 0 {
			p.reset(tokens, ast.Cursor{
				Line:     cursor.Line,
				Column:   len(line) + 1,
				Byte:     cursor.LineByte + int64(len(line)),
				Size:     1,
				LineByte: cursor.LineByte,
			})

			if stmt, err := p.statement(); err != nil {
				errs = append(errs, err)
			} else {
				stmts = append(stmts, stmt)
			}
		}

		cursor.Line++
		cursor.LineByte += int64(len(raw))
		cursor.Byte = cursor.LineByte
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	glog.V(1).Infof(
		"parsed %d statements from %d lines, %d errors",
		len(stmts), cursor.Line-1, len(errs),
	)

	return stmts, errs
}

// AssembleSource parses and generates a program.
func AssembleSource(input io.Reader, opts config.Options) (*codegen.Result, []error) {
	stmts, errs := Parse(input, opts)

	if len(errs) > 0 {
		return nil, errs
	}

	codegenOpts, err := opts.Codegen()

	if err != nil {
		return nil, []error{err}
	}

	result, err := codegen.Generate(stmts, codegenOpts)

	if err != nil {
		return nil, []error{err}
	}

	return result, nil
}
