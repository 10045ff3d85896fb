package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/boolify/pkg/bristol"
)

func halfAdder() *bristol.Circuit {
	return &bristol.Circuit{
		WireCount: 4,
		Gates: []bristol.Gate{
			{Inputs: []int{0, 1}, Outputs: []int{2}, Op: "XOR"},
			{Inputs: []int{0, 1}, Outputs: []int{3}, Op: "AND"},
		},
		Info: bristol.CircuitInfo{
			Inputs: []bristol.IO{
				{Name: "a", Address: 0, Width: 1, Type: "bool"},
				{Name: "b", Address: 1, Width: 1, Type: "bool"},
			},
			Outputs: []bristol.IO{
				{Name: "sum", Address: 2, Width: 1, Type: "bool"},
				{Name: "carry", Address: 3, Width: 1, Type: "bool"},
			},
		},
	}
}

func TestEvalHalfAdder(t *testing.T) {
	c := halfAdder()
	cases := []struct {
		a, b       uint64
		sum, carry uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 1, 0},
		{1, 1, 0, 1},
	}
	for _, tc := range cases {
		out, err := Eval(c, map[string]uint64{"a": tc.a, "b": tc.b})
		require.NoError(t, err)
		assert.Equalf(t, tc.sum, out["sum"], "a=%d b=%d", tc.a, tc.b)
		assert.Equalf(t, tc.carry, out["carry"], "a=%d b=%d", tc.a, tc.b)
	}
}

func TestEvalMissingInput(t *testing.T) {
	c := halfAdder()
	_, err := Eval(c, map[string]uint64{"a": 1})
	assert.ErrorIs(t, err, ErrMissingInputValue)
}

func TestEvalInputOutOfRange(t *testing.T) {
	c := halfAdder()
	_, err := Eval(c, map[string]uint64{"a": 2, "b": 0})
	assert.ErrorIs(t, err, ErrInputValueOutOfRange)
}

func TestEvalCopy(t *testing.T) {
	c := &bristol.Circuit{
		WireCount: 2,
		Gates: []bristol.Gate{
			{Inputs: []int{0}, Outputs: []int{1}, Op: "COPY"},
		},
		Info: bristol.CircuitInfo{
			Inputs:  []bristol.IO{{Name: "a", Address: 0, Width: 1, Type: "bool"}},
			Outputs: []bristol.IO{{Name: "b", Address: 1, Width: 1, Type: "bool"}},
		},
	}
	out, err := Eval(c, map[string]uint64{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), out["b"])
}

func TestEvalUnknownOp(t *testing.T) {
	c := halfAdder()
	c.Gates[0].Op = "NAND"
	_, err := Eval(c, map[string]uint64{"a": 0, "b": 0})
	assert.ErrorIs(t, err, ErrUnknownGateOp)
}
