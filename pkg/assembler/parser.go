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
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lassandro/godasm/pkg/ast"
	"github.com/lassandro/godasm/pkg/codegen"
	"github.com/lassandro/godasm/pkg/config"
	"github.com/lassandro/godasm/pkg/encoding"
)

// parser reads a single statement out of the tokens of one line.
type parser struct {
	tokens []Token
	index  int
	eol    Token

	opts   *config.Options
	layout codegen.Layout
	flags  encoding.NumberFlags
}

func newParser(opts *config.Options, layout codegen.Layout) *parser {
	p := &parser{opts: opts, layout: layout}

	if opts.BinaryLiterals {
		p.flags |= encoding.NUMBER_BINARY
	}

	if opts.UnderscoreInNumbers {
		p.flags |= encoding.NUMBER_UNDERSCORE
	}

	return p
}

func (p *parser) reset(tokens []Token, eol ast.Cursor) {
	p.tokens = tokens
	p.index = 0
	p.eol = Token{Type: TOKEN_NONE, Position: eol}
}

// span covers from the start of first to the end of last.
func span(first, last ast.Cursor) ast.Cursor {
	first.Size = last.Byte + last.Size - first.Byte
	return first
}

func (p *parser) peekAt(n int) *Token {
	if p.index+n < len(p.tokens) {
		return &p.tokens[p.index+n]
	}

	return &p.eol
}

func (p *parser) peek() *Token {
	return p.peekAt(0)
}

func (p *parser) next() *Token {
	token := p.peek()

	if p.index < len(p.tokens) {
		p.index++
	}

	return token
}

func (p *parser) done() bool {
	return p.index >= len(p.tokens)
}

func (p *parser) expect(required ...TokenType) (*Token, error) {
	token := p.next()

	for _, tokenType := range required {
		if token.Type == tokenType {
			return token, nil
		}
	}

	return nil, &InvalidOperandError{token.Position, required, token.Type}
}

func isKeyword(token *Token, keyword string) bool {
	return token.Type == TOKEN_IDENT && strings.EqualFold(token.Value, keyword)
}

func register(token *Token) *ast.GeneralRegister {
	if token.Type != TOKEN_IDENT {
		return nil
	}

	name := strings.ToLower(token.Value)

	if _, ok := codegen.GeneralRegister(name); !ok {
		return nil
	}

	return &ast.GeneralRegister{Name: name, Position: token.Position}
}

func (p *parser) statement() (ast.Statement, error) {
	stmt := ast.Statement{Position: p.peek().Position}

	if p.peek().Type == TOKEN_COLON {
		colon := p.next()
		name, err := p.expect(TOKEN_IDENT)

		if err != nil {
			return stmt, err
		}

		stmt.Label = &ast.LabelDef{
			Name:     name.Value,
			Position: span(colon.Position, name.Position),
		}
	}

	if p.done() {
		return stmt, nil
	}

	body, err := p.body()

	if err != nil {
		return stmt, err
	}

	if !p.done() {
		token := p.peek()
		return stmt, &UnexpectedTokenError{token.Position, *token}
	}

	stmt.Body = body

	return stmt, nil
}

func (p *parser) body() (ast.Body, error) {
	keyword := p.next()

	switch keyword.Type {
	case TOKEN_AT:
		value, err := p.literalWord()

		if err != nil {
			return nil, err
		}

		return &ast.AddressFix{
			Value:    value,
			Position: span(keyword.Position, value.Position),
		}, nil

	case TOKEN_IDENT:
		if isKeyword(keyword, KEYWORD_DAT) {
			return p.data(keyword)
		}

		opcode := strings.ToLower(keyword.Value)

		if _, ok := p.layout.BasicOpcode(opcode); ok {
			args, err := p.arguments(keyword, ARGS_BASIC)

			if err != nil {
				return nil, err
			}

			return &ast.BasicInstruction{
				Opcode:   opcode,
				A:        args[0],
				B:        args[1],
				Position: keyword.Position,
			}, nil
		}

		if _, ok := p.layout.ExtOpcode(opcode); ok {
			args, err := p.arguments(keyword, ARGS_EXT)

			if err != nil {
				return nil, err
			}

			return &ast.ExtInstruction{
				Opcode:   opcode,
				Arg:      args[0],
				Position: keyword.Position,
			}, nil
		}

		return nil, &UnknownIdentifierError{keyword.Position, keyword.Value}
	}

	return nil, &InvalidOperandError{
		keyword.Position,
		[]TokenType{TOKEN_COLON, TOKEN_AT, TOKEN_IDENT},
		keyword.Type,
	}
}

func (p *parser) arguments(keyword *Token, count int) ([]ast.Argument, error) {
	args := make([]ast.Argument, 0, count)

	for !p.done() {
		arg, err := p.argument()

		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if p.done() {
			break
		}

		if token := p.next(); token.Type != TOKEN_COMMA {
			return nil, &UnexpectedTokenError{token.Position, *token}
		}
	}

	if len(args) != count {
		return nil, &InvalidNumArgumentsError{keyword.Position, count, len(args)}
	}

	return args, nil
}

func (p *parser) argument() (ast.Argument, error) {
	token := p.peek()

	switch token.Type {
	case TOKEN_IDENT:
		if reg := register(token); reg != nil {
			p.next()
			return reg, nil
		}

		name := strings.ToLower(token.Value)

		if _, ok := p.layout.SpecialRegister(name); ok {
			p.next()
			return &ast.SpecialRegister{Name: name, Position: token.Position}, nil
		}

		switch name {
		case KEYWORD_PUSH:
			p.next()
			return &ast.StackOp{Type: ast.STACK_PUSH, Position: token.Position}, nil
		case KEYWORD_POP:
			p.next()
			return &ast.StackOp{Type: ast.STACK_POP, Position: token.Position}, nil
		case KEYWORD_PEEK:
			p.next()
			return &ast.StackOp{Type: ast.STACK_PEEK, Position: token.Position}, nil
		case KEYWORD_PICK:
			p.next()
			offset, err := p.literalWord()

			if err != nil {
				return nil, err
			}

			return &ast.StackOp{
				Type:     ast.STACK_PICK,
				Offset:   offset,
				Position: span(token.Position, offset.Position),
			}, nil
		}

	case TOKEN_LBRACKET:
		return p.lookup()
	}

	value, err := p.literalWord()

	if err != nil {
		return nil, err
	}

	return &ast.LiteralArg{Value: value, Position: value.Position}, nil
}

func (p *parser) stackLookup(open *Token, op ast.StackOpType, offset *ast.LiteralWord) (ast.Argument, error) {
	end, err := p.expect(TOKEN_RBRACKET)

	if err != nil {
		return nil, err
	}

	return &ast.StackOp{
		Type:     op,
		Offset:   offset,
		Position: span(open.Position, end.Position),
	}, nil
}

// lookup parses the bracketed forms:
//
//	[reg] [reg+N] [reg-N] [N+reg] [N]
//	[sp] [--sp] [sp++] [sp+N]
func (p *parser) lookup() (ast.Argument, error) {
	open := p.next()
	token := p.peek()

	if token.Type == TOKEN_MINUS &&
		p.peekAt(1).Type == TOKEN_MINUS &&
		isKeyword(p.peekAt(2), KEYWORD_SP) {
		p.index += 3
		return p.stackLookup(open, ast.STACK_PUSH, nil)
	}

	if isKeyword(token, KEYWORD_SP) {
		p.next()

		switch {
		case p.peek().Type == TOKEN_RBRACKET:
			return p.stackLookup(open, ast.STACK_PEEK, nil)

		case p.peek().Type == TOKEN_PLUS && p.peekAt(1).Type == TOKEN_PLUS:
			p.index += 2
			return p.stackLookup(open, ast.STACK_POP, nil)

		case p.peek().Type == TOKEN_PLUS:
			p.next()
			offset, err := p.literalWord()

			if err != nil {
				return nil, err
			}

			return p.stackLookup(open, ast.STACK_PICK, offset)
		}

		next := p.peek()

		return nil, &InvalidOperandError{
			next.Position,
			[]TokenType{TOKEN_PLUS, TOKEN_RBRACKET},
			next.Type,
		}
	}

	if reg := register(token); reg != nil {
		p.next()

		switch op := p.next(); op.Type {
		case TOKEN_RBRACKET:
			return &ast.RegisterLookup{
				Register: reg,
				Position: span(open.Position, op.Position),
			}, nil

		case TOKEN_PLUS, TOKEN_MINUS:
			offset, err := p.literalWord()

			if err != nil {
				return nil, err
			}

			end, err := p.expect(TOKEN_RBRACKET)

			if err != nil {
				return nil, err
			}

			operator := ast.OFFSET_PLUS

			if op.Type == TOKEN_MINUS {
				operator = ast.OFFSET_MINUS
			}

			return &ast.RegisterOffsetLookup{
				Register: reg,
				Operator: operator,
				Offset:   offset,
				Position: span(open.Position, end.Position),
			}, nil

		default:
			return nil, &InvalidOperandError{
				op.Position,
				[]TokenType{TOKEN_PLUS, TOKEN_MINUS, TOKEN_RBRACKET},
				op.Type,
			}
		}
	}

	value, err := p.literalWord()

	if err != nil {
		return nil, err
	}

	end, err := p.expect(TOKEN_PLUS, TOKEN_RBRACKET)

	if err != nil {
		return nil, err
	}

	if end.Type == TOKEN_RBRACKET {
		return &ast.LiteralLookup{
			Value:    value,
			Position: span(open.Position, end.Position),
		}, nil
	}

	name, err := p.expect(TOKEN_IDENT)

	if err != nil {
		return nil, err
	}

	reg := register(name)

	if reg == nil {
		return nil, &UnknownIdentifierError{name.Position, name.Value}
	}

	if end, err = p.expect(TOKEN_RBRACKET); err != nil {
		return nil, err
	}

	return &ast.RegisterOffsetLookup{
		Register: reg,
		Operator: ast.OFFSET_PLUS,
		Offset:   value,
		Position: span(open.Position, end.Position),
	}, nil
}

func (p *parser) data(keyword *Token) (ast.Body, error) {
	data := &ast.Data{Position: keyword.Position}

	if p.done() {
		return nil, &InvalidNumArgumentsError{keyword.Position, 1, 0}
	}

	for {
		token := p.peek()

		switch {
		case token.Type == TOKEN_STRING:
			p.next()
			data.Values = append(
				data.Values,
				&ast.StringValue{Text: token.Value, Position: token.Position},
			)

		// A lone ~ rather than ~label.
		case token.Type == TOKEN_TILDE &&
			(p.peekAt(1).Type == TOKEN_COMMA || p.peekAt(1).Type == TOKEN_NONE):
			p.next()
			data.Values = append(
				data.Values, &ast.LengthMarker{Position: token.Position},
			)

		default:
			value, err := p.literalWord()

			if err != nil {
				return nil, err
			}

			data.Values = append(data.Values, value)
		}

		data.Position = span(keyword.Position, p.tokens[p.index-1].Position)

		if p.peek().Type != TOKEN_COMMA {
			return data, nil
		}

		p.next()
	}
}

// literalWord parses `atom` or `atom ~ atom`.
func (p *parser) literalWord() (*ast.LiteralWord, error) {
	head, err := p.atom()

	if err != nil {
		return nil, err
	}

	word := &ast.LiteralWord{Head: head, Position: head.GetPosition()}

	if p.peek().Type == TOKEN_TILDE {
		p.next()

		tail, err := p.atom()

		if err != nil {
			return nil, err
		}

		word.Tail = tail
		word.Position = span(word.Position, tail.GetPosition())
	}

	return word, nil
}

func (p *parser) number(token *Token) (int64, error) {
	value, err := encoding.DecodeNumber(token.Value, p.flags)

	if errors.Is(err, strconv.ErrRange) {
		return 0, &codegen.NumericOverflowError{Position: token.Position, Value: value}
	} else if err != nil {
		return 0, &InvalidLiteralError{token.Position}
	}

	return value, nil
}

func (p *parser) atom() (ast.Atom, error) {
	token := p.next()

	switch token.Type {
	case TOKEN_TILDE:
		target, err := p.atom()

		if err != nil {
			return nil, err
		}

		return &ast.DifferenceLiteral{
			Target:   target,
			Position: span(token.Position, target.GetPosition()),
		}, nil

	case TOKEN_PLUS, TOKEN_MINUS:
		if !p.opts.SignedNumbers {
			return nil, &UnexpectedTokenError{token.Position, *token}
		}

		literal, err := p.expect(TOKEN_LITERAL)

		if err != nil {
			return nil, err
		}

		value, err := p.number(literal)

		if err != nil {
			return nil, err
		}

		if token.Type == TOKEN_MINUS {
			value = -value
		}

		return &ast.Number{
			Value:    value,
			Position: span(token.Position, literal.Position),
		}, nil

	case TOKEN_LITERAL:
		value, err := p.number(token)

		if err != nil {
			return nil, err
		}

		return &ast.Number{Value: value, Position: token.Position}, nil

	case TOKEN_CHARACTER:
		char, _ := utf8.DecodeRuneInString(token.Value)
		return &ast.Character{Value: char, Position: token.Position}, nil

	case TOKEN_IDENT:
		return &ast.Identifier{Name: token.Value, Position: token.Position}, nil
	}

	return nil, &InvalidOperandError{
		token.Position,
		[]TokenType{TOKEN_LITERAL, TOKEN_CHARACTER, TOKEN_IDENT},
		token.Type,
	}
}
