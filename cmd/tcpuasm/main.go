// Command tcpuasm is the tcpu16 assembler CLI: asm turns assembly
// source into a bytecode image, dis turns a bytecode image back into
// text.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/tcpu16/assembler"
	"github.com/intuitionamiga/tcpu16/core"
)

func main() {
	root := &cobra.Command{
		Use:           "tcpuasm",
		Short:         "tcpu16 assembler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var listing bool
	asmCmd := &cobra.Command{
		Use:   "asm <input> <output>",
		Short: "Assemble a source file into a bytecode image",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(args[0], args[1], listing)
		},
	}
	asmCmd.Flags().BoolVar(&listing, "listing", false, "print a disassembly of the emitted bytecode to stdout")

	disCmd := &cobra.Command{
		Use:   "dis <input>",
		Short: "Disassemble a bytecode image to text",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisassemble(args[0])
		},
	}

	root.AddCommand(asmCmd, disCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(usageExitCode(err))
	}
}

// usageExitCode maps cobra's arg-count failures to exit code 2 (per
// spec.md §6's usage-error convention) and everything else to 1.
func usageExitCode(err error) int {
	if _, ok := err.(*argCountError); ok {
		return 2
	}
	return 1
}

type argCountError struct{ error }

// exactArgs mirrors cobra.ExactArgs but tags the failure as a usage
// error, so it can be told apart from an assembly/IO error at exit.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &argCountError{fmt.Errorf("%s", cmd.UseLine())}
		}
		return nil
	}
}

func runAssemble(inputPath, outputPath string, listing bool) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s:\n  %w", inputPath, err)
	}

	out, errs := assembler.Assemble(string(source))
	if errs != nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("%d assembly error(s)", len(errs))
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s:\n  %w", outputPath, err)
	}

	if listing {
		printListing(out)
	}
	return nil
}

func runDisassemble(inputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s:\n  %w", inputPath, err)
	}
	printListing(data)
	return nil
}

func printListing(program []byte) {
	e := core.New()
	e.LoadProgram(program)
	addr := uint16(0)
	for int(addr) < len(program) {
		di := e.Disassemble(addr)
		fmt.Printf("%04X  %s\n", di.Address, di.Instr)
		if di.Length == 0 {
			break
		}
		addr += di.Length
	}
}
