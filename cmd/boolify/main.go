// Command boolify compiles an arithmetic circuit into a boolean one,
// evaluates a compiled boolean circuit against named inputs, or compiles
// and exhaustively checks the result against a reference implementation.
// Thin wrapper around pkg/boolify, pkg/bristol, and pkg/evaluator, built
// with cobra in the same one-root-many-subcommands shape as
// cmd/z80opt/main.go.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/boolify/pkg/arithcircuit"
	"github.com/oisee/boolify/pkg/boolify"
	"github.com/oisee/boolify/pkg/bristol"
	"github.com/oisee/boolify/pkg/evaluator"
	"github.com/oisee/boolify/pkg/propcheck"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "boolify",
		Short: "Compile arithmetic circuits into boolean (AND/XOR/INV) circuits",
	}

	rootCmd.AddCommand(newCompileCmd(), newEvalCmd(), newCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCompileCmd() *cobra.Command {
	var inputDir, outputDir string
	var bitWidth int

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile an arithmetic circuit into a boolean circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			circuit, err := loadArithCircuit(inputDir)
			if err != nil {
				return err
			}

			bc, counts, err := boolify.Compile(circuit, bitWidth)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}
			if err := writeBoolCircuit(outputDir, bc); err != nil {
				return err
			}

			fmt.Printf("compiled %d gates, %d wires\n", len(bc.Gates), bc.WireCount)
			for _, e := range counts.Sorted() {
				fmt.Printf("  %-4s %d\n", e.Op, e.Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inputDir, "input-dir", "input", "directory containing circuit_info.json and circuit.txt")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory to write circuit.txt and circuit_info.json into")
	cmd.Flags().IntVar(&bitWidth, "bit-width", 16, "bit width every arithmetic value is widened to")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var circuitDir string
	var inputsFlag string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a compiled boolean circuit against named inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := loadBoolCircuit(circuitDir)
			if err != nil {
				return err
			}

			inputs, err := parseInputs(inputsFlag)
			if err != nil {
				return err
			}

			outputs, err := evaluator.Eval(bc, inputs)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}

			for _, o := range bc.Info.Outputs {
				fmt.Printf("%s = %d\n", o.Name, outputs[o.Name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&circuitDir, "circuit-dir", "output", "directory containing circuit.txt and circuit_info.json")
	cmd.Flags().StringVar(&inputsFlag, "inputs", "", "comma-separated name=value pairs")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var inputDir string
	var bitWidth int
	var workers int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile then exhaustively verify against a reference implementation",
		RunE: func(cmd *cobra.Command, args []string) error {
			circuit, err := loadArithCircuit(inputDir)
			if err != nil {
				return err
			}

			bc, _, err := boolify.Compile(circuit, bitWidth)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}
			if len(bc.Info.Inputs) != 2 || len(bc.Info.Outputs) != 1 || len(circuit.Gates) != 1 {
				fmt.Println("check only supports a single-gate circuit with exactly two inputs and one output")
				return nil
			}

			op := circuit.Gates[0].Op
			aName := bc.Info.Inputs[0].Name
			bName := bc.Info.Inputs[1].Name
			outName := bc.Info.Outputs[0].Name
			sweepWidth := bitWidth
			if sweepWidth > 6 {
				sweepWidth = 6 // exhaustive 2^w * 2^w sweep; keep it fast for a CLI invocation
			}

			mismatches := 0
			err = propcheck.SweepWorkerPool(sweepWidth, workers, func(a, b uint64) error {
				got, err := evaluator.Eval(bc, map[string]uint64{aName: a, bName: b})
				if err != nil {
					return err
				}
				want := propcheck.Reference(op, a, b, bitWidth)
				if got[outName] != want {
					mismatches++
					fmt.Printf("mismatch: %s(%d,%d) = %d, want %d\n", arithcircuit.Catalog[op].Name, a, b, got[outName], want)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if mismatches > 0 {
				return fmt.Errorf("check: %d mismatches over width %d", mismatches, sweepWidth)
			}
			fmt.Printf("check: ok, swept width %d\n", sweepWidth)
			return nil
		},
	}
	cmd.Flags().StringVar(&inputDir, "input-dir", "input", "directory containing circuit_info.json and circuit.txt")
	cmd.Flags().IntVar(&bitWidth, "bit-width", 16, "bit width every arithmetic value is widened to")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers (0 = NumCPU)")
	return cmd
}

func loadArithCircuit(dir string) (*arithcircuit.Circuit, error) {
	infoFile, err := os.Open(filepath.Join(dir, "circuit_info.json"))
	if err != nil {
		return nil, err
	}
	defer infoFile.Close()
	info, err := arithcircuit.ReadInfo(infoFile)
	if err != nil {
		return nil, fmt.Errorf("reading circuit_info.json: %w", err)
	}

	circuitFile, err := os.Open(filepath.Join(dir, "circuit.txt"))
	if err != nil {
		return nil, err
	}
	defer circuitFile.Close()
	circuit, err := arithcircuit.ReadText(circuitFile, info)
	if err != nil {
		return nil, fmt.Errorf("reading circuit.txt: %w", err)
	}
	return circuit, nil
}

func loadBoolCircuit(dir string) (*bristol.Circuit, error) {
	circuitFile, err := os.Open(filepath.Join(dir, "circuit.txt"))
	if err != nil {
		return nil, err
	}
	defer circuitFile.Close()
	bc, err := bristol.ReadText(circuitFile)
	if err != nil {
		return nil, fmt.Errorf("reading circuit.txt: %w", err)
	}

	infoFile, err := os.Open(filepath.Join(dir, "circuit_info.json"))
	if err != nil {
		return nil, err
	}
	defer infoFile.Close()
	info, err := bristol.ReadInfo(infoFile)
	if err != nil {
		return nil, fmt.Errorf("reading circuit_info.json: %w", err)
	}
	bc.Info = info
	return bc, nil
}

func writeBoolCircuit(dir string, bc *bristol.Circuit) error {
	circuitFile, err := os.Create(filepath.Join(dir, "circuit.txt"))
	if err != nil {
		return err
	}
	defer circuitFile.Close()
	if err := bristol.WriteText(circuitFile, bc); err != nil {
		return err
	}

	infoFile, err := os.Create(filepath.Join(dir, "circuit_info.json"))
	if err != nil {
		return err
	}
	defer infoFile.Close()
	return bristol.WriteInfo(infoFile, bc.Info)
}

func parseInputs(s string) (map[string]uint64, error) {
	inputs := make(map[string]uint64)
	if s == "" {
		return inputs, nil
	}
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed input pair %q, want name=value", pair)
		}
		value, err := strconv.ParseUint(strings.TrimSpace(kv[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed value in %q: %w", pair, err)
		}
		inputs[strings.TrimSpace(kv[0])] = value
	}
	return inputs, nil
}
