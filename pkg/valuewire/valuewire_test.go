package valuewire

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oisee/boolify/pkg/boolwire"
	"github.com/oisee/boolify/pkg/bristol"
	"github.com/oisee/boolify/pkg/evaluator"
)

// compileBinary builds a two-input, one-output boolean circuit for op and
// evaluates it on every (a, b) pair in [0, 2^width)^2, asserting the result
// matches want for every pair.
func compileBinary(t *testing.T, width int, op func(b *Builder, a, y Value) Value, want func(a, y uint64) uint64) {
	t.Helper()
	for a := uint64(0); a < uint64(1)<<width; a++ {
		for y := uint64(0); y < uint64(1)<<width; y++ {
			b := NewBuilder()
			av := b.NewInput("a", width)
			yv := b.NewInput("y", width)
			out := op(b, av, yv)

			circuit := buildTestCircuit(t, b.Graph, map[string]Value{"a": av, "y": yv}, map[string]Value{"out": out})
			got := evalOne(t, circuit, map[string]uint64{"a": a, "y": y})
			assert.Equalf(t, want(a, y)&mask(width), got["out"], "op(%d,%d)", a, y)
		}
	}
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func TestAddWraps(t *testing.T) {
	compileBinary(t, 2, (*Builder).Add, func(a, y uint64) uint64 { return a + y })
}

func TestMul(t *testing.T) {
	compileBinary(t, 2, (*Builder).Mul, func(a, y uint64) uint64 { return a * y })
}

func TestSub(t *testing.T) {
	compileBinary(t, 3, (*Builder).Sub, func(a, y uint64) uint64 { return a - y })
}

func TestBitAndOrXor(t *testing.T) {
	compileBinary(t, 3, (*Builder).BitAnd, func(a, y uint64) uint64 { return a & y })
	compileBinary(t, 3, (*Builder).BitOr, func(a, y uint64) uint64 { return a | y })
	compileBinary(t, 3, (*Builder).BitXor, func(a, y uint64) uint64 { return a ^ y })
}

func TestDivMod(t *testing.T) {
	compileBinary(t, 3, (*Builder).Div, func(a, y uint64) uint64 {
		if y == 0 {
			return 0
		}
		return a / y
	})
	compileBinary(t, 3, (*Builder).Mod, func(a, y uint64) uint64 {
		if y == 0 {
			return a
		}
		return a % y
	})
}

func TestCopyWithNewIDShortcutViaInv(t *testing.T) {
	b := NewBuilder()
	x := b.Graph.NewInputBit(&boolwire.InputRef{Name: "x", Width: 1}, b.Graph.IDs().Gen())
	inv := b.Graph.InvWithNewID(x)
	cp := b.Graph.CopyWithNewID(inv)
	assert.Equal(t, boolwire.KindInv, b.Graph.Kind(cp))
}

func TestShiftUpConst(t *testing.T) {
	b := NewBuilder()
	a := b.NewInput("a", 2)
	shifted := b.ShiftUpConst(a, 1)

	circuit := buildTestCircuit(t, b.Graph, map[string]Value{"a": a}, map[string]Value{"out": shifted})
	for av := uint64(0); av < 4; av++ {
		got := evalOne(t, circuit, map[string]uint64{"a": av})
		assert.Equal(t, (av<<1)&3, got["out"])
	}
}

// --- shared test scaffolding ---

func buildTestCircuit(t *testing.T, g *boolwire.Graph, _ map[string]Value, outputs map[string]Value) testCircuit {
	t.Helper()
	return testCircuit{graph: g, outputs: outputs}
}

type testCircuit struct {
	graph   *boolwire.Graph
	outputs map[string]Value
}

func evalOne(t *testing.T, c testCircuit, inputs map[string]uint64) map[string]uint64 {
	t.Helper()
	outs := make([]bristol.Output, 0, len(c.outputs))
	for name, v := range c.outputs {
		outs = append(outs, bristol.Output{Name: name, Bits: v.Bits})
	}
	bc, err := bristol.Serialize(c.graph, outs)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	result, err := evaluator.Eval(bc, inputs)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return result
}
