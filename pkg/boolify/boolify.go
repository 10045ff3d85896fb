// Package boolify is the driver (component boolify in the distilled
// spec's terms): it walks an arithmetic circuit wire by wire, building one
// pkg/valuewire.Value per arithmetic wire, and hands the named outputs to
// pkg/bristol.Serialize. Grounded on original_source/src/boolify.rs, whose
// wires-indexed-by-int / ordered-inputs / unary-binary-op-table shape it
// follows directly.
package boolify

import (
	"errors"
	"fmt"
	"sort"

	"github.com/oisee/boolify/pkg/arithcircuit"
	"github.com/oisee/boolify/pkg/boolwire"
	"github.com/oisee/boolify/pkg/bristol"
	"github.com/oisee/boolify/pkg/gatestats"
	"github.com/oisee/boolify/pkg/valuewire"
)

// ErrIOWidthNotOne is returned when the arithmetic circuit declares an
// input or output wider than one bit — the arithmetic front end encodes
// every value as a single wire; widening to bitWidth happens inside this
// driver, never in the input format.
var ErrIOWidthNotOne = errors.New("boolify: arithmetic circuit io width must be 1")

// ErrEmptyCircuit is returned when the arithmetic circuit has no declared
// outputs.
var ErrEmptyCircuit = errors.New("boolify: arithmetic circuit has no outputs")

// ErrUnhandledOp is a defensive fallback for an arithcircuit.Op that
// decoded successfully but has no dispatch entry below — should be
// unreachable, since arithcircuit.ParseOp already rejects unknown names,
// but returned rather than panicked since this is driver-level, reachable
// code.
var ErrUnhandledOp = errors.New("boolify: unhandled arithmetic operator")

// Compile translates an arithmetic circuit into a boolean one: every
// arithmetic value is widened to bitWidth bits. It returns the serialized
// boolean circuit and a tally of how many AND/XOR/INV gates the
// compilation produced.
func Compile(circuit *arithcircuit.Circuit, bitWidth int) (*bristol.Circuit, *gatestats.Counts, error) {
	if len(circuit.Info.OutputNameToWireIndex) == 0 {
		return nil, nil, ErrEmptyCircuit
	}
	if err := checkIOWidthsAllOne(circuit); err != nil {
		return nil, nil, err
	}

	b := valuewire.NewBuilder()
	wires := make([]*valuewire.Value, circuit.WireCount)

	type namedIndex struct {
		name  string
		index int
	}
	ordered := make([]namedIndex, 0, len(circuit.Info.InputNameToWireIndex))
	for name, idx := range circuit.Info.InputNameToWireIndex {
		ordered = append(ordered, namedIndex{name, idx})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	for _, in := range ordered {
		typ := circuit.Info.InputTypes[in.name]
		width, err := arithcircuit.InputTypeWidth(typ, bitWidth)
		if err != nil {
			return nil, nil, err
		}
		v := b.NewInput(in.name, width)
		wires[in.index] = &v
	}

	for name, c := range circuit.Info.Constants {
		width, err := arithcircuit.ConstTypeWidth(c.Type, bitWidth)
		if err != nil {
			return nil, nil, err
		}
		var raw uint64
		if _, err := fmt.Sscanf(c.Value, "%d", &raw); err != nil {
			return nil, nil, fmt.Errorf("boolify: constant %q: bad value %q: %w", name, c.Value, err)
		}
		v := b.Resize(b.NewConst(raw), width)
		wires[c.WireIndex] = &v
	}

	for _, gate := range circuit.Gates {
		out, err := apply(b, gate, wires, bitWidth)
		if err != nil {
			return nil, nil, err
		}
		wires[gate.Outputs[0]] = out
	}

	outputNames := make([]string, 0, len(circuit.Info.OutputNameToWireIndex))
	for name := range circuit.Info.OutputNameToWireIndex {
		outputNames = append(outputNames, name)
	}
	sort.Strings(outputNames)

	outs := make([]bristol.Output, 0, len(outputNames))
	for _, name := range outputNames {
		idx := circuit.Info.OutputNameToWireIndex[name]
		v := wires[idx]
		if v == nil {
			return nil, nil, fmt.Errorf("boolify: output %q: wire %d never assigned", name, idx)
		}
		outs = append(outs, bristol.Output{Name: name, Bits: v.Bits})
	}

	bc, err := bristol.Serialize(b.Graph, outs)
	if err != nil {
		return nil, nil, err
	}

	counts := gatestats.New()
	for _, g := range bc.Gates {
		counts.Add(g.Op)
	}

	return bc, counts, nil
}

func checkIOWidthsAllOne(circuit *arithcircuit.Circuit) error {
	// The arithmetic-circuit text format declares one width-1 wire per
	// input/output name; this driver is the one place that widens to
	// bitWidth, so any declared width other than 1 signals a circuit
	// that was never meant to be fed to boolify.
	for _, w := range circuit.InputWidths {
		if w != 1 {
			return fmt.Errorf("%w: input width %d", ErrIOWidthNotOne, w)
		}
	}
	for _, w := range circuit.OutputWidths {
		if w != 1 {
			return fmt.Errorf("%w: output width %d", ErrIOWidthNotOne, w)
		}
	}
	return nil
}

func toValue(b *valuewire.Builder, w boolwire.Wire, bitWidth int) *valuewire.Value {
	v := b.Resize(valuewire.Value{Bits: []boolwire.Wire{w}}, bitWidth)
	return &v
}

func apply(b *valuewire.Builder, gate arithcircuit.Gate, wires []*valuewire.Value, bitWidth int) (*valuewire.Value, error) {
	info := arithcircuit.Catalog[gate.Op]

	if info.Arity == 1 {
		in := wires[gate.Inputs[0]]
		if in == nil {
			return nil, fmt.Errorf("boolify: %s: input wire %d never assigned", info.Name, gate.Inputs[0])
		}
		switch gate.Op {
		case arithcircuit.AUnaryAdd:
			v := *in
			return &v, nil
		case arithcircuit.AUnarySub:
			v := b.Negate(*in)
			return &v, nil
		case arithcircuit.ANot:
			return toValue(b, b.BoolNot(*in), bitWidth), nil
		case arithcircuit.ABitNot:
			v := b.BitNot(*in)
			return &v, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnhandledOp, info.Name)
		}
	}

	if info.Arity == 2 {
		a := wires[gate.Inputs[0]]
		y := wires[gate.Inputs[1]]
		if a == nil || y == nil {
			return nil, fmt.Errorf("boolify: %s: input wire not assigned", info.Name)
		}
		switch gate.Op {
		case arithcircuit.AAdd:
			v := b.Add(*a, *y)
			return &v, nil
		case arithcircuit.ASub:
			v := b.Sub(*a, *y)
			return &v, nil
		case arithcircuit.AMul:
			v := b.Mul(*a, *y)
			return &v, nil
		case arithcircuit.ADiv:
			v := b.Div(*a, *y)
			return &v, nil
		case arithcircuit.AMod:
			v := b.Mod(*a, *y)
			return &v, nil
		case arithcircuit.AExp:
			v, err := b.Exp(*a, *y)
			if err != nil {
				return nil, err
			}
			return &v, nil
		case arithcircuit.AEq:
			return toValue(b, b.Equal(*a, *y), bitWidth), nil
		case arithcircuit.ANeq:
			return toValue(b, b.NotEqual(*a, *y), bitWidth), nil
		case arithcircuit.ABoolAnd:
			return toValue(b, b.BoolAnd(*a, *y), bitWidth), nil
		case arithcircuit.ABoolOr:
			return toValue(b, b.BoolOr(*a, *y), bitWidth), nil
		case arithcircuit.ALt:
			return toValue(b, b.LessThan(*a, *y), bitWidth), nil
		case arithcircuit.ALEq:
			return toValue(b, b.LessThanOrEqual(*a, *y), bitWidth), nil
		case arithcircuit.AGt:
			return toValue(b, b.GreaterThan(*a, *y), bitWidth), nil
		case arithcircuit.AGEq:
			return toValue(b, b.GreaterThanOrEqual(*a, *y), bitWidth), nil
		case arithcircuit.ABitAnd:
			v := b.BitAnd(*a, *y)
			return &v, nil
		case arithcircuit.ABitOr:
			v := b.BitOr(*a, *y)
			return &v, nil
		case arithcircuit.AXor:
			v := b.BitXor(*a, *y)
			return &v, nil
		case arithcircuit.AShiftL:
			v, err := b.BitShl(*a, *y)
			if err != nil {
				return nil, err
			}
			return &v, nil
		case arithcircuit.AShiftR:
			v, err := b.BitShr(*a, *y)
			if err != nil {
				return nil, err
			}
			return &v, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnhandledOp, info.Name)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnhandledOp, info.Name)
}
