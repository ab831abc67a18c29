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
	"fmt"

	"github.com/lassandro/godasm/pkg/ast"
)

type DuplicateLabelError struct {
	Position ast.Cursor
	Name     string
	First    ast.Cursor
}

func (err *DuplicateLabelError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'\n\tfirst:%02d:%02d",
		err.Position.Line,
		err.Position.Column,
		err.Name,
		err.First.Line,
		err.First.Column,
	)
}

type UndefinedLabelError struct {
	Position ast.Cursor
	Name     string
}

func (err *UndefinedLabelError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UndefinedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Label '%s' never defined",
		err.Position.Line,
		err.Position.Column,
		err.Name,
	)
}

type CircularLabelError struct {
	Position ast.Cursor
	Name     string
	Target   string
}

func (err *CircularLabelError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *CircularLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Label '%s' cannot be fixed to '%s', which refers back to it",
		err.Position.Line,
		err.Position.Column,
		err.Name,
		err.Target,
	)
}

type InvalidDifferenceFixError struct {
	Position ast.Cursor
}

func (err *InvalidDifferenceFixError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidDifferenceFixError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Labels cannot be fixed to difference literals",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnexpectedConstructError struct {
	Position  ast.Cursor
	Construct string
}

func (err *UnexpectedConstructError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnexpectedConstructError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected %s",
		err.Position.Line,
		err.Position.Column,
		err.Construct,
	)
}

type NumericOverflowError struct {
	Position ast.Cursor
	Value    int64
}

func (err *NumericOverflowError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *NumericOverflowError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Literal exceeds allowed size\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Value,
	)
}

type OversizedImageError struct {
	Position ast.Cursor
}

func (err *OversizedImageError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *OversizedImageError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Image exceeds allowed size",
		err.Position.Line,
		err.Position.Column,
	)
}
