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

package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/lassandro/godasm/pkg/assembler"
	"github.com/lassandro/godasm/pkg/codegen"
	"github.com/lassandro/godasm/pkg/config"
	"github.com/lassandro/godasm/pkg/encoding"
)

var targetvar string
var formatvar string
var stdvar bool
var symbolsvar bool
var configvar string
var layoutvar string
var bigendianvar bool
var listsymbolsvar bool

const usage = "godasm [-t target] [-f format] [-s] [--std] file..."

const (
	stdinName     = "<stdin>"
	stdoutTarget  = "-"
	defaultTarget = "out.dcpu"
	targetExt     = ".dcpu"
	symbolsExt    = ".sym"
)

// Reported where it happened; only the exit code is left to decide.
var errReported = errors.New("assembly failed")

var rootCmd = &cobra.Command{
	Use:   "godasm [flags] [file...]",
	Short: "DCPU-16 assembler",
	Long: `Godasm assembles DCPU-16 source files into memory images.

Each file is assembled on its own into a target next to it with the
extension '.dcpu'. Without files the source is read from standard input.
Both the 1.1 (v1) and 1.7 (v2) instruction layouts are supported.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog reads its settings from the go flag set, already filled by
		// cobra.
		flag.CommandLine.Parse(nil)
	},
	Run: func(cmd *cobra.Command, args []string) {
		atexit.Exit(godasm(args))
	},
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(
		&targetvar, "target", "t", "",
		"Specifies the output file, '-' for standard output. Only valid "+
			"with a single input",
	)
	flags.StringVarP(
		&formatvar, "format", "f", "binary",
		"Output format, one of: "+encoding.FormatNames,
	)
	flags.BoolVarP(
		&symbolsvar, "symbols", "s", false,
		"Writes the symbol table next to the target, with extension '.sym'",
	)
	flags.BoolVar(
		&listsymbolsvar, "list-symbols", false,
		"Prints the symbol table after assembly",
	)

	// Shared with run
	persistent := rootCmd.PersistentFlags()

	persistent.BoolVar(
		&stdvar, "std", false,
		"Only accept standard DASM, disabling every language extension",
	)
	persistent.StringVar(
		&configvar, "config", "",
		"YAML file with language options, applied over the defaults",
	)
	persistent.StringVar(
		&layoutvar, "layout", "",
		"Instruction layout, v1 (DCPU-16 1.1) or v2 (DCPU-16 1.7)",
	)
	persistent.BoolVar(
		&bigendianvar, "big-endian", false,
		"Byte order of binary images is most significant byte first",
	)

	persistent.AddGoFlagSet(flag.CommandLine)
}

func loadOptions() (config.Options, error) {
	opts := config.Extended()

	if stdvar {
		opts = config.Standard()
	}

	if configvar != "" {
		var err error

		if opts, err = config.Load(configvar, opts); err != nil {
			return config.Options{}, err
		}
	}

	if layoutvar != "" {
		opts.Layout = layoutvar

		if err := opts.Validate(); err != nil {
			return config.Options{}, err
		}
	}

	return opts, nil
}

type job struct {
	path   string
	target string
}

func (j *job) name() string {
	if j.path == "" {
		return stdinName
	}

	return filepath.Base(j.path)
}

func (j *job) read() ([]byte, error) {
	if j.path == "" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(j.path)
}

func collectJobs(args []string) ([]job, error) {
	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New(usage)
		}

		target := targetvar

		if target == "" {
			target = defaultTarget
		}

		return []job{{target: target}}, nil
	}

	if len(args) > 1 && targetvar != "" {
		return nil, errors.New("--target needs a single input file")
	}

	jobs := make([]job, 0, len(args))

	for _, path := range args {
		stat, err := os.Stat(path)

		if err != nil {
			return nil, err
		}

		if stat.IsDir() {
			return nil, fmt.Errorf(
				"%s is not a valid DCPU-16 assembly file", filepath.Base(path),
			)
		}

		target := targetvar

		if target == "" {
			target = strings.TrimSuffix(path, filepath.Ext(path)) + targetExt
		}

		jobs = append(jobs, job{path: path, target: target})
	}

	return jobs, nil
}

// report prints errs, underlining the source they point at.
func report(logger *log.Logger, source []byte, errs []error) {
	input := bytes.NewReader(source)

	for _, err := range errs {
		tokenErr, ok := err.(assembler.TokenError)

		if !ok || tokenErr.GetPosition().Line == 0 {
			logger.Println(err)
			continue
		}

		cursor := tokenErr.GetPosition()

		if _, err := input.Seek(cursor.LineByte, io.SeekStart); err != nil {
			panic(err)
		}

		line, _ := bufio.NewReader(input).ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		size := cursor.Size

		if size < 1 {
			size = 1
		}

		underlinefmt := fmt.Sprintf(
			"%% %ds%s",
			int(cursor.Byte-cursor.LineByte)+1,
			strings.Repeat("~", int(size)-1),
		)

		logger.Printf(
			"%s\n%s\n\033[31m%s\033[0m",
			err,
			line,
			fmt.Sprintf(underlinefmt, "^"),
		)
	}
}

func writeImage(target string, result *codegen.Result, opts encoding.ImageOptions) error {
	if target == stdoutTarget {
		if !opts.Format.IsText() && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("Refusing to write a binary image to a terminal")
		}

		return encoding.WriteImage(os.Stdout, result, opts)
	}

	file, err := os.Create(target)

	if err != nil {
		return err
	}

	if err := encoding.WriteImage(file, result, opts); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// symbolsPath replaces the extension of target, so out.dcpu gets out.sym.
func symbolsPath(target string) string {
	return strings.TrimSuffix(target, filepath.Ext(target)) + symbolsExt
}

func writeSymbols(target string, labels []codegen.Symbol) error {
	if target == stdoutTarget {
		return errors.New("Symbol file needs a target file")
	}

	file, err := os.Create(symbolsPath(target))

	if err != nil {
		return err
	}

	if err := encoding.WriteSymbols(file, labels); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func assemble(j *job, opts config.Options, imageOpts encoding.ImageOptions) error {
	logger := log.New(os.Stderr, fmt.Sprintf("\033[1m%s:\033[0m", j.name()), 0)

	source, err := j.read()

	if err != nil {
		logger.Println(err)
		return errReported
	}

	result, errs := assembler.AssembleSource(bytes.NewReader(source), opts)

	if len(errs) > 0 {
		report(logger, source, errs)
		return errReported
	}

	glog.V(1).Infof(
		"%s: %d words, %d labels -> %s",
		j.name(), len(result.Image), len(result.Labels), j.target,
	)

	if err := writeImage(j.target, result, imageOpts); err != nil {
		logger.Println("Error writing output file")
		logger.Println(err)
		return errReported
	}

	if symbolsvar {
		if err := writeSymbols(j.target, result.Labels); err != nil {
			logger.Println("Error writing symbol table")
			logger.Println(err)
			return errReported
		}
	}

	if listsymbolsvar {
		out := os.Stdout

		if j.target == stdoutTarget {
			out = os.Stderr
		}

		fmt.Fprintln(out, encoding.RenderSymbols(j.name(), result.Labels))
	}

	return nil
}

func godasm(args []string) int {
	opts, err := loadOptions()

	if err != nil {
		log.Println(err)
		return 1
	}

	format, err := encoding.ParseFormat(formatvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	layout, err := opts.InstructionLayout()

	if err != nil {
		log.Println(err)
		return 1
	}

	imageOpts := encoding.ImageOptions{
		Format:    format,
		BigEndian: bigendianvar,
		Layout:    layout,
	}

	jobs, err := collectJobs(args)

	if err != nil {
		log.Println(err)
		return 1
	}

	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())

	for i := range jobs {
		j := &jobs[i]

		group.Go(func() error {
			return assemble(j, opts, imageOpts)
		})
	}

	if err := group.Wait(); err != nil {
		return 1
	}

	return 0
}

func main() {
	atexit.Register(glog.Flush)

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
