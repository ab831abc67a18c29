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

// Package config holds the assembly language options and reads them from
// YAML files.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lassandro/godasm/pkg/codegen"
)

// Options selects the dialect of assembly accepted. The zero value is the
// standard language on the default layout.
type Options struct {
	SignedNumbers       bool   `yaml:"signed_numbers"`
	UnderscoreInNumbers bool   `yaml:"underscore_in_numbers"`
	BinaryLiterals      bool   `yaml:"binary_literals"`
	LocalLabels         bool   `yaml:"local_labels"`
	ExtendedLabelNames  bool   `yaml:"extended_label_names"`
	DatLengthCounting   bool   `yaml:"dat_length_counting"`
	DifferenceLiterals  bool   `yaml:"difference_literals"`
	Layout              string `yaml:"layout"`
}

// Standard only accepts plain DASM.
func Standard() Options {
	return Options{Layout: codegen.LAYOUT_DEFAULT.String()}
}

// Extended turns on every language extension.
func Extended() Options {
	return Options{
		SignedNumbers:       true,
		UnderscoreInNumbers: true,
		BinaryLiterals:      true,
		LocalLabels:         true,
		ExtendedLabelNames:  true,
		DatLengthCounting:   true,
		DifferenceLiterals:  true,
		Layout:              codegen.LAYOUT_DEFAULT.String(),
	}
}

// InstructionLayout returns the layout named by the options, or the default
// one if none is named.
func (opts *Options) InstructionLayout() (codegen.Layout, error) {
	if opts.Layout == "" {
		return codegen.LAYOUT_DEFAULT, nil
	}

	return codegen.ParseLayout(opts.Layout)
}

func (opts *Options) Validate() error {
	_, err := opts.InstructionLayout()
	return err
}

// Codegen projects the options onto the code generator.
func (opts *Options) Codegen() (codegen.Options, error) {
	layout, err := opts.InstructionLayout()

	if err != nil {
		return codegen.Options{}, err
	}

	return codegen.Options{
		LocalLabels:        opts.LocalLabels,
		DatLengthCounting:  opts.DatLengthCounting,
		DifferenceLiterals: opts.DifferenceLiterals,
		SignedNumbers:      opts.SignedNumbers,
		Layout:             layout,
	}, nil
}

// Decode reads YAML from input over base. Keys that are not options are an
// error.
func Decode(input io.Reader, base Options) (Options, error) {
	opts := base

	decoder := yaml.NewDecoder(input)
	decoder.KnownFields(true)

	if err := decoder.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, err
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}

// Load reads the options file at path. Options it leaves out keep their
// values from base.
func Load(path string, base Options) (Options, error) {
	file, err := os.Open(path)

	if err != nil {
		return Options{}, err
	}

	defer file.Close()

	opts, err := Decode(file, base)

	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}

	return opts, nil
}
