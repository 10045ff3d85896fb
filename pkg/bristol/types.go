// Package bristol implements the serializer (component D): it walks a set
// of boolean-wire output roots, renumbers every reachable wire so inputs
// occupy the low range and outputs the high range, emits gates in
// topological order, and reads/writes the resulting circuit in Bristol
// Fashion text plus its accompanying JSON metadata.
package bristol

import (
	"errors"

	"github.com/oisee/boolify/pkg/boolwire"
)

// ErrConstInInteriorOfCircuit is returned if the serializer encounters a
// Const node as an interior child — it should have been folded by a smart
// constructor or reified by the special_true/special_false substitution in
// Serialize before gate emission ever sees it.
var ErrConstInInteriorOfCircuit = errors.New("bristol: const wire in interior of circuit")

// ErrAliasingInputMismatch is returned when two distinct CircuitInputs claim
// the same id_start.
var ErrAliasingInputMismatch = errors.New("bristol: two distinct inputs share an id_start")

// ErrEmptyCircuit is returned when there are no outputs, or no input bits
// are reachable from any output.
var ErrEmptyCircuit = errors.New("bristol: circuit has no outputs or no inputs")

// Gate is one Bristol Fashion gate line: n_in inputs, n_out (always 1)
// outputs, an operator in {AND, XOR, INV}. Serialize never emits COPY, but
// pkg/evaluator accepts it for circuits produced elsewhere.
type Gate struct {
	Inputs  []int
	Outputs []int
	Op      string
}

// IO describes one named, addressed, widthed input or output.
type IO struct {
	Name    string `json:"name"`
	Address int    `json:"address"`
	Width   int    `json:"width"`
	Type    string `json:"type"`
}

// TypeForWidth derives the {"bool","number"} type tag the distilled spec's
// CircuitInfo carries: width 1 is "bool", anything else is "number".
func TypeForWidth(width int) string {
	if width == 1 {
		return "bool"
	}
	return "number"
}

// CircuitInfo is the accompanying JSON metadata: for each input and output,
// name/address/width/type, in declared order.
type CircuitInfo struct {
	Inputs  []IO `json:"inputs"`
	Outputs []IO `json:"outputs"`
}

// Circuit is a fully serialized boolean circuit: wire count, gate list, and
// the input/output metadata needed to reconstruct Bristol Fashion text.
type Circuit struct {
	WireCount int
	Gates     []Gate
	Info      CircuitInfo
}

// Output is one named arithmetic-circuit output: a name plus the ordered
// little-endian bits (LSB first) of its value, as produced by
// pkg/valuewire. Serialize treats the concatenation of every Output's Bits,
// in slice order, as the set of output roots.
type Output struct {
	Name string
	Bits []boolwire.Wire
}
