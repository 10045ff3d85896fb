// Package evaluator implements the reference evaluator (component E): it
// runs a serialized Circuit directly against a map of named input values,
// without synthesizing any object code, the same way
// original_source/src/eval.rs drives a Bristol Fashion circuit from a
// wire vector.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/oisee/boolify/pkg/bristol"
)

// ErrMissingInputValue is returned when circuit.Info declares an input
// Eval was not given a value for.
var ErrMissingInputValue = errors.New("evaluator: missing value for input")

// ErrInputValueOutOfRange is returned when a supplied input value does not
// fit in its declared width.
var ErrInputValueOutOfRange = errors.New("evaluator: input value out of range for its declared width")

// ErrUnknownGateOp is returned when a Gate's Op is not one of AND, XOR, INV,
// COPY.
var ErrUnknownGateOp = errors.New("evaluator: unknown gate operator")

// Eval allocates a wire vector sized to circuit.WireCount, writes each
// input's bits (LSB first) at its declared address, runs every gate in
// order, and reassembles each declared output's bits back into a uint64.
func Eval(circuit *bristol.Circuit, inputs map[string]uint64) (map[string]uint64, error) {
	wires := make([]bool, circuit.WireCount)

	for _, in := range circuit.Info.Inputs {
		value, ok := inputs[in.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingInputValue, in.Name)
		}
		if in.Width < 64 && value>>uint(in.Width) != 0 {
			return nil, fmt.Errorf("%w: %q does not fit in %d bits", ErrInputValueOutOfRange, in.Name, in.Width)
		}
		for j := 0; j < in.Width; j++ {
			wires[in.Address+j] = (value>>uint(j))&1 == 1
		}
	}

	for _, g := range circuit.Gates {
		var result bool
		switch g.Op {
		case "AND":
			result = wires[g.Inputs[0]] && wires[g.Inputs[1]]
		case "XOR":
			result = wires[g.Inputs[0]] != wires[g.Inputs[1]]
		case "INV":
			result = !wires[g.Inputs[0]]
		case "COPY":
			result = wires[g.Inputs[0]]
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownGateOp, g.Op)
		}
		wires[g.Outputs[0]] = result
	}

	out := make(map[string]uint64, len(circuit.Info.Outputs))
	for _, o := range circuit.Info.Outputs {
		var value uint64
		for j := 0; j < o.Width; j++ {
			if wires[o.Address+j] {
				value |= uint64(1) << uint(j)
			}
		}
		out[o.Name] = value
	}
	return out, nil
}
