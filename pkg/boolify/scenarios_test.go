package boolify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/boolify/pkg/arithcircuit"
	"github.com/oisee/boolify/pkg/evaluator"
)

func compileAndEval(t *testing.T, circuit *arithcircuit.Circuit, bitWidth int, inputs map[string]uint64) map[string]uint64 {
	t.Helper()
	bc, _, err := Compile(circuit, bitWidth)
	require.NoError(t, err)
	out, err := evaluator.Eval(bc, inputs)
	require.NoError(t, err)
	return out
}

// TestTwoBitAdd is scenario S1: a, b width 2, c = a + b, expect c = (a+b) mod 4.
func TestTwoBitAdd(t *testing.T) {
	circuit := &arithcircuit.Circuit{
		WireCount:    3,
		InputWidths:  []int{1, 1},
		OutputWidths: []int{1},
		Gates: []arithcircuit.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{2}, Op: arithcircuit.AAdd},
		},
		Info: arithcircuit.CircuitInfo{
			InputNameToWireIndex:  map[string]int{"a": 0, "b": 1},
			OutputNameToWireIndex: map[string]int{"c": 2},
		},
	}
	for a := uint64(0); a < 4; a++ {
		for b := uint64(0); b < 4; b++ {
			out := compileAndEval(t, circuit, 2, map[string]uint64{"a": a, "b": b})
			assert.Equalf(t, (a+b)%4, out["c"], "a=%d b=%d", a, b)
		}
	}
}

// TestTwoBitMul is scenario S2: a, b width 2, c = a * b, expect c = (a*b) mod 4.
func TestTwoBitMul(t *testing.T) {
	circuit := &arithcircuit.Circuit{
		WireCount:    3,
		InputWidths:  []int{1, 1},
		OutputWidths: []int{1},
		Gates: []arithcircuit.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{2}, Op: arithcircuit.AMul},
		},
		Info: arithcircuit.CircuitInfo{
			InputNameToWireIndex:  map[string]int{"a": 0, "b": 1},
			OutputNameToWireIndex: map[string]int{"c": 2},
		},
	}
	for a := uint64(0); a < 4; a++ {
		for b := uint64(0); b < 4; b++ {
			out := compileAndEval(t, circuit, 2, map[string]uint64{"a": a, "b": b})
			assert.Equalf(t, (a*b)%4, out["c"], "a=%d b=%d", a, b)
		}
	}
}

// TestEightBitXorAndOne is scenario S3: a, b width 8, c = (a + b) & 1 — the
// seven high sum bits are folded away through special_false reification
// before this assertion ever runs, but that is a property of pkg/bristol,
// not something this test observes directly.
func TestEightBitXorAndOne(t *testing.T) {
	circuit := &arithcircuit.Circuit{
		WireCount:    5,
		InputWidths:  []int{1, 1},
		OutputWidths: []int{1},
		Gates: []arithcircuit.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{3}, Op: arithcircuit.AAdd},
			{Inputs: []int{3, 2}, Outputs: []int{4}, Op: arithcircuit.ABitAnd},
		},
		Info: arithcircuit.CircuitInfo{
			InputNameToWireIndex:  map[string]int{"a": 0, "b": 1},
			OutputNameToWireIndex: map[string]int{"c": 4},
			Constants: map[string]arithcircuit.Const{
				"one": {WireIndex: 2, Value: "1", Type: "number"},
			},
		},
	}
	for a := uint64(0); a < 16; a++ {
		for b := uint64(0); b < 16; b++ {
			out := compileAndEval(t, circuit, 8, map[string]uint64{"a": a, "b": b})
			assert.Equalf(t, (a+b)&1, out["c"], "a=%d b=%d", a, b)
		}
	}
}

// TestFourBitWhichIsLarger is scenario S4: a, b width 4,
// c = (a==b) ? 0 : (a>b) ? 1 : 2, expressed arithmetically as
// (1 - eq) * (2 - gt) since there is no select/mux operator.
func TestFourBitWhichIsLarger(t *testing.T) {
	circuit := &arithcircuit.Circuit{
		WireCount:    9,
		InputWidths:  []int{1, 1},
		OutputWidths: []int{1},
		Gates: []arithcircuit.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{4}, Op: arithcircuit.AEq},
			{Inputs: []int{0, 1}, Outputs: []int{5}, Op: arithcircuit.AGt},
			{Inputs: []int{2, 4}, Outputs: []int{6}, Op: arithcircuit.ASub},
			{Inputs: []int{3, 5}, Outputs: []int{7}, Op: arithcircuit.ASub},
			{Inputs: []int{6, 7}, Outputs: []int{8}, Op: arithcircuit.AMul},
		},
		Info: arithcircuit.CircuitInfo{
			InputNameToWireIndex:  map[string]int{"a": 0, "b": 1},
			OutputNameToWireIndex: map[string]int{"c": 8},
			Constants: map[string]arithcircuit.Const{
				"one": {WireIndex: 2, Value: "1", Type: "number"},
				"two": {WireIndex: 3, Value: "2", Type: "number"},
			},
		},
	}
	for a := uint64(0); a < 16; a++ {
		for b := uint64(0); b < 16; b++ {
			out := compileAndEval(t, circuit, 4, map[string]uint64{"a": a, "b": b})
			var want uint64
			switch {
			case a == b:
				want = 0
			case a > b:
				want = 1
			default:
				want = 2
			}
			assert.Equalf(t, want, out["c"], "a=%d b=%d", a, b)
		}
	}
}

// TestFourBitDiv is scenario S5: a, b width 4, c = a/b for b != 0.
func TestFourBitDiv(t *testing.T) {
	circuit := &arithcircuit.Circuit{
		WireCount:    3,
		InputWidths:  []int{1, 1},
		OutputWidths: []int{1},
		Gates: []arithcircuit.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{2}, Op: arithcircuit.ADiv},
		},
		Info: arithcircuit.CircuitInfo{
			InputNameToWireIndex:  map[string]int{"a": 0, "b": 1},
			OutputNameToWireIndex: map[string]int{"c": 2},
		},
	}
	for a := uint64(0); a < 16; a++ {
		for b := uint64(1); b < 16; b++ {
			out := compileAndEval(t, circuit, 4, map[string]uint64{"a": a, "b": b})
			assert.Equalf(t, a/b, out["c"], "a=%d b=%d", a, b)
		}
	}
}

// TestTwoBitShiftLeftOne is scenario S6: a width 2, shifted left by the
// constant 1, c = (a << 1) & 3.
func TestTwoBitShiftLeftOne(t *testing.T) {
	circuit := &arithcircuit.Circuit{
		WireCount:    3,
		InputWidths:  []int{1},
		OutputWidths: []int{1},
		Gates: []arithcircuit.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{2}, Op: arithcircuit.AShiftL},
		},
		Info: arithcircuit.CircuitInfo{
			InputNameToWireIndex:  map[string]int{"a": 0},
			OutputNameToWireIndex: map[string]int{"c": 2},
			Constants: map[string]arithcircuit.Const{
				"one": {WireIndex: 1, Value: "1", Type: "number"},
			},
		},
	}
	for a := uint64(0); a < 4; a++ {
		out := compileAndEval(t, circuit, 2, map[string]uint64{"a": a})
		assert.Equalf(t, (a<<1)&3, out["c"], "a=%d", a)
	}
}
