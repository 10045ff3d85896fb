// Package valuewire implements the value wire layer: multi-bit
// little-endian bundles of boolean wires, and every arithmetic/comparison
// operator that compiles an arithmetic gate down into pkg/boolwire gates.
package valuewire

import (
	"errors"

	"github.com/oisee/boolify/pkg/boolwire"
	"github.com/oisee/boolify/pkg/idgen"
)

// ErrNonConstShiftAmount is returned when BitShl/BitShr is asked to shift by
// an amount whose bits are not all compile-time constants.
var ErrNonConstShiftAmount = errors.New("valuewire: shift amount is not a compile-time constant")

// ErrNonConstExponent is returned when Exp is asked to raise to a power
// whose bits are not all compile-time constants.
var ErrNonConstExponent = errors.New("valuewire: exponent is not a compile-time constant")

// Value is an ordered sequence of boolean wires interpreted as an unsigned
// little-endian integer; bit index 0 is the least-significant bit. Width is
// per-value: operations adopt max(len(a), len(b)) and pad missing high bits
// with Const(false) through At.
type Value struct {
	Bits []boolwire.Wire
}

// Width returns the number of bits in v.
func (v Value) Width() int { return len(v.Bits) }

// At returns bit i, or Const(false) if i is out of range. Pure: never
// allocates a gate, only (at most) reuses the graph's cached zero constant.
func (v Value) At(g *boolwire.Graph, i int) boolwire.Wire {
	if i >= 0 && i < len(v.Bits) {
		return v.Bits[i]
	}
	return g.Zero()
}

func reverseWires(w []boolwire.Wire) {
	for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
		w[i], w[j] = w[j], w[i]
	}
}

// Builder owns the boolean graph a compilation emits into. It is the
// context every Value-level operation needs, since building a wire can
// require minting fresh ids or materializing constants.
type Builder struct {
	Graph *boolwire.Graph
}

// NewBuilder creates a Builder with a fresh id generator and graph.
func NewBuilder() *Builder {
	return &Builder{Graph: boolwire.New(idgen.New())}
}

// NewInput allocates id_start = ids.Peek(), then creates width Input bits
// with consecutive ids, least-significant bit first: bit i carries id
// id_start+i. The serializer lays input ids out in that order starting at
// the input's address, and the evaluator places bit j of a value at
// address+j, so the bit order agrees end to end.
func (b *Builder) NewInput(name string, width int) Value {
	ids := b.Graph.IDs()
	ref := &boolwire.InputRef{Name: name, IDStart: ids.Peek(), Width: width}
	bits := make([]boolwire.Wire, width)
	for i := 0; i < width; i++ {
		bits[i] = b.Graph.NewInputBit(ref, ids.Gen())
	}
	return Value{Bits: bits}
}

// NewConst produces a minimum-width Value of Const bits; trailing zero high
// bits are omitted (value 0 yields a zero-width Value, which At still reads
// back as 0 at any index).
func (b *Builder) NewConst(value uint64) Value {
	var bits []boolwire.Wire
	for value != 0 {
		bits = append(bits, b.Graph.Const(value&1 == 1))
		value >>= 1
	}
	return Value{Bits: bits}
}

// Resize pads v with Const(false) or truncates it to exactly n bits.
func (b *Builder) Resize(v Value, n int) Value {
	bits := make([]boolwire.Wire, n)
	for i := 0; i < n; i++ {
		bits[i] = v.At(b.Graph, i)
	}
	return Value{Bits: bits}
}

// AsConstUint reports whether every bit of v is a compile-time Const, and
// if so returns the integer it denotes (bits beyond 63 are rejected as
// non-constant for this purpose — no realistic shift/exponent amount needs
// that much width).
func (b *Builder) AsConstUint(v Value) (uint64, bool) {
	var result uint64
	for i, w := range v.Bits {
		val, ok := b.Graph.ConstValue(w)
		if !ok {
			return 0, false
		}
		if val {
			if i >= 64 {
				return 0, false
			}
			result |= 1 << uint(i)
		}
	}
	return result, true
}

// Add is a ripple-carry adder. Width is max(|a|,|b|); the final carry-out
// is discarded (wrap-around mod 2^W).
func (b *Builder) Add(a, y Value) Value {
	g := b.Graph
	size := max(len(a.Bits), len(y.Bits))
	if size == 0 {
		return Value{}
	}
	bits := make([]boolwire.Wire, size)

	a0 := a.At(g, 0)
	b0 := y.At(g, 0)
	bits[0] = g.Xor(a0, b0)
	carry := g.And(a0, b0)

	for i := 1; i < size; i++ {
		ai := a.At(g, i)
		bi := y.At(g, i)
		s := g.Xor(ai, bi)
		newCarry := g.Xor(g.And(ai, bi), g.And(carry, s))
		bits[i] = g.Xor(s, carry)
		carry = newCarry
	}
	return Value{Bits: bits}
}

// BitNot is the elementwise logical NOT of every bit.
func (b *Builder) BitNot(a Value) Value {
	bits := make([]boolwire.Wire, len(a.Bits))
	for i, w := range a.Bits {
		bits[i] = b.Graph.Inv(w)
	}
	return Value{Bits: bits}
}

// Negate computes the two's-complement negation: add(bit_not(a), 1).
func (b *Builder) Negate(a Value) Value {
	return b.Add(b.BitNot(a), b.NewConst(1))
}

// Sub computes a - b via two's-complement addition. If b is narrower than
// a, b is widened to |a| before negation (matching the distilled spec's
// rule), so the narrower width's sign does not leak into the high bits.
func (b *Builder) Sub(a, y Value) Value {
	if len(y.Bits) < len(a.Bits) {
		y = b.Resize(y, len(a.Bits))
	}
	return b.Add(a, b.Negate(y))
}

// ShiftUpConst prepends k Const(false) bits and keeps the first |v|-k
// original bits; width is preserved, high bits are lost. k >= |v| yields
// all-zero.
func (b *Builder) ShiftUpConst(v Value, k int) Value {
	width := len(v.Bits)
	bits := make([]boolwire.Wire, width)
	zero := b.Graph.Zero()
	for i := 0; i < width; i++ {
		if i < k {
			bits[i] = zero
		} else {
			bits[i] = v.Bits[i-k]
		}
	}
	return Value{Bits: bits}
}

// ShiftDownConst drops k low bits and appends k Const(false) high bits.
// k >= |v| yields all-zero.
func (b *Builder) ShiftDownConst(v Value, k int) Value {
	width := len(v.Bits)
	bits := make([]boolwire.Wire, width)
	zero := b.Graph.Zero()
	for i := 0; i < width; i++ {
		if i+k < width {
			bits[i] = v.Bits[i+k]
		} else {
			bits[i] = zero
		}
	}
	return Value{Bits: bits}
}

// BitShl shifts a left by the constant amount denoted by k. Returns
// ErrNonConstShiftAmount if k is not fully constant.
func (b *Builder) BitShl(a, k Value) (Value, error) {
	n, ok := b.AsConstUint(k)
	if !ok {
		return Value{}, ErrNonConstShiftAmount
	}
	return b.ShiftUpConst(a, int(n)), nil
}

// BitShr shifts a right by the constant amount denoted by k. Returns
// ErrNonConstShiftAmount if k is not fully constant.
func (b *Builder) BitShr(a, k Value) (Value, error) {
	n, ok := b.AsConstUint(k)
	if !ok {
		return Value{}, ErrNonConstShiftAmount
	}
	return b.ShiftDownConst(a, int(n)), nil
}

// MulBool produces the v-wide vector (bit & v_0, ..., bit & v_{n-1}).
func (b *Builder) MulBool(bit boolwire.Wire, v Value) Value {
	bits := make([]boolwire.Wire, len(v.Bits))
	for i, w := range v.Bits {
		bits[i] = b.Graph.And(bit, w)
	}
	return Value{Bits: bits}
}

// Mul multiplies a and y. It identifies the smaller operand, forms a
// shifted-and-masked partial product per set bit of the smaller operand
// (skipping bits folded to Const(false)), then tree-sums the partial
// products — a balanced binary tree of adders, shallower critical path than
// linear accumulation and smaller circuits via the constant folding already
// happening inside each partial product.
func (b *Builder) Mul(a, y Value) Value {
	sm, lg := a, y
	if len(lg.Bits) < len(sm.Bits) {
		sm, lg = lg, sm
	}

	var partials []Value
	for i, smBit := range sm.Bits {
		if v, ok := b.Graph.ConstValue(smBit); ok && !v {
			continue
		}
		partials = append(partials, b.MulBool(smBit, b.ShiftUpConst(lg, i)))
	}
	if len(partials) == 0 {
		return Value{}
	}
	return b.treeSum(partials)
}

func (b *Builder) treeSum(vals []Value) Value {
	for len(vals) > 1 {
		next := make([]Value, 0, (len(vals)+1)/2)
		i := 0
		for ; i+1 < len(vals); i += 2 {
			next = append(next, b.Add(vals[i], vals[i+1]))
		}
		if i < len(vals) {
			next = append(next, vals[i])
		}
		vals = next
	}
	return vals[0]
}

// Equal is the divide-and-conquer bitwise equality test.
func (b *Builder) Equal(a, y Value) boolwire.Wire {
	w := max(len(a.Bits), len(y.Bits))
	return b.equalRange(a, y, 0, w)
}

func (b *Builder) equalRange(a, y Value, lo, w int) boolwire.Wire {
	g := b.Graph
	switch w {
	case 0:
		return g.One()
	case 1:
		return g.Inv(g.Xor(a.At(g, lo), y.At(g, lo)))
	default:
		half := w / 2
		eqLo := b.equalRange(a, y, lo, half)
		eqHi := b.equalRange(a, y, lo+half, w-half)
		return g.And(eqLo, eqHi)
	}
}

// NotEqual is Inv(Equal(a,b)).
func (b *Builder) NotEqual(a, y Value) boolwire.Wire {
	return b.Graph.Inv(b.Equal(a, y))
}

// Cmp returns (eq, lt) via the same divide-and-conquer recursion as Equal,
// combining the more-significant half's result with the less-significant
// half's only when the more-significant halves are equal:
//
//	eq = eq_hi & eq_lo
//	lt = lt_hi ^ (eq_hi & lt_lo)   (valid since eq_hi, lt_hi are mutually exclusive)
func (b *Builder) Cmp(a, y Value) (eq, lt boolwire.Wire) {
	w := max(len(a.Bits), len(y.Bits))
	return b.cmpRange(a, y, 0, w)
}

func (b *Builder) cmpRange(a, y Value, lo, w int) (eq, lt boolwire.Wire) {
	g := b.Graph
	switch w {
	case 0:
		return g.One(), g.Zero()
	case 1:
		a0 := a.At(g, lo)
		b0 := y.At(g, lo)
		return g.Inv(g.Xor(a0, b0)), g.And(g.Inv(a0), b0)
	default:
		half := w / 2
		eqLo, ltLo := b.cmpRange(a, y, lo, half)
		eqHi, ltHi := b.cmpRange(a, y, lo+half, w-half)
		return g.And(eqHi, eqLo), g.Xor(ltHi, g.And(eqHi, ltLo))
	}
}

// LessThan returns a < b.
func (b *Builder) LessThan(a, y Value) boolwire.Wire {
	_, lt := b.Cmp(a, y)
	return lt
}

// GreaterThan returns a > b, as LessThan(b, a).
func (b *Builder) GreaterThan(a, y Value) boolwire.Wire {
	return b.LessThan(y, a)
}

// LessThanOrEqual returns a <= b, as Inv(GreaterThan(a, b)).
func (b *Builder) LessThanOrEqual(a, y Value) boolwire.Wire {
	return b.Graph.Inv(b.GreaterThan(a, y))
}

// GreaterThanOrEqual returns a >= b, as Inv(LessThan(a, b)).
func (b *Builder) GreaterThanOrEqual(a, y Value) boolwire.Wire {
	return b.Graph.Inv(b.LessThan(a, y))
}

// ToBool is logical OR-reduction across all bits of v.
func (b *Builder) ToBool(v Value) boolwire.Wire {
	return b.toBoolRange(v, 0, len(v.Bits))
}

func (b *Builder) toBoolRange(v Value, lo, w int) boolwire.Wire {
	g := b.Graph
	switch w {
	case 0:
		return g.Zero()
	case 1:
		return v.Bits[lo]
	default:
		half := w / 2
		left := b.toBoolRange(v, lo, half)
		right := b.toBoolRange(v, lo+half, w-half)
		return g.Or(left, right)
	}
}

// BoolAnd reduces both operands via ToBool, then ANDs the results.
func (b *Builder) BoolAnd(a, y Value) boolwire.Wire { return b.Graph.And(b.ToBool(a), b.ToBool(y)) }

// BoolOr reduces both operands via ToBool, then ORs the results.
func (b *Builder) BoolOr(a, y Value) boolwire.Wire { return b.Graph.Or(b.ToBool(a), b.ToBool(y)) }

// BoolXor reduces both operands via ToBool, then XORs the results.
func (b *Builder) BoolXor(a, y Value) boolwire.Wire { return b.Graph.Xor(b.ToBool(a), b.ToBool(y)) }

// BoolNot reduces its operand via ToBool, then inverts it.
func (b *Builder) BoolNot(a Value) boolwire.Wire { return b.Graph.Inv(b.ToBool(a)) }

func (b *Builder) elementwise(a, y Value, op func(x, z boolwire.Wire) boolwire.Wire) Value {
	g := b.Graph
	w := max(len(a.Bits), len(y.Bits))
	bits := make([]boolwire.Wire, w)
	for i := 0; i < w; i++ {
		bits[i] = op(a.At(g, i), y.At(g, i))
	}
	return Value{Bits: bits}
}

// BitAnd is the elementwise AND over W = max(|a|,|b|) bits.
func (b *Builder) BitAnd(a, y Value) Value { return b.elementwise(a, y, b.Graph.And) }

// BitOr is the elementwise OR over W = max(|a|,|b|) bits.
func (b *Builder) BitOr(a, y Value) Value { return b.elementwise(a, y, b.Graph.Or) }

// BitXor is the elementwise XOR over W = max(|a|,|b|) bits.
func (b *Builder) BitXor(a, y Value) Value { return b.elementwise(a, y, b.Graph.Xor) }

// Exp computes a raised to the constant power denoted by expVal via binary
// exponentiation: n=0 -> 1; n=1 -> a; even -> exp(a*a, n/2);
// odd -> a * exp(a*a, (n-1)/2). Returns ErrNonConstExponent if expVal is not
// fully constant.
func (b *Builder) Exp(a, expVal Value) (Value, error) {
	n, ok := b.AsConstUint(expVal)
	if !ok {
		return Value{}, ErrNonConstExponent
	}
	return b.expPow(a, n), nil
}

func (b *Builder) expPow(a Value, n uint64) Value {
	switch {
	case n == 0:
		return b.NewConst(1)
	case n == 1:
		return a
	case n%2 == 0:
		return b.expPow(b.Mul(a, a), n/2)
	default:
		return b.Mul(a, b.expPow(b.Mul(a, a), (n-1)/2))
	}
}

// QuotientRemainder performs restoring long division over equal width
// W = max(|a|,|b|).
//
// Division-by-zero: when b = 0 every shifted divisor is 0, so the test
// 0 <= rem holds at every step; the loop then sets every quotient bit and
// leaves rem = a. The quotient is masked by (b != 0), so the result is
// div(a,0) = 0 and mod(a,0) = a. This differs from a convention seen
// elsewhere of div(a,0) = 2^W-1 (see DESIGN.md's Open-question decisions).
func (b *Builder) QuotientRemainder(a, y Value) (quotient, remainder Value) {
	g := b.Graph
	w := max(len(a.Bits), len(y.Bits))
	aw := b.Resize(a, w)
	bw := b.Resize(y, w)

	shiftsValid := make([]boolwire.Wire, w)
	if w > 0 {
		shiftsValid[0] = g.One()
	}
	for i := 1; i < w; i++ {
		shiftsValid[i] = g.And(shiftsValid[i-1], g.Inv(bw.At(g, w-i)))
	}

	quotientBits := make([]boolwire.Wire, w)
	rem := aw
	for i := w - 1; i >= 0; i-- {
		shifted := b.ShiftUpConst(bw, i)
		apply := g.And(shiftsValid[i], b.LessThanOrEqual(shifted, rem))
		diff := b.Sub(rem, shifted)
		rem = b.BitXor(b.MulBool(apply, diff), b.MulBool(g.Inv(apply), rem))
		quotientBits[i] = apply
	}
	return b.MulBool(b.ToBool(bw), Value{Bits: quotientBits}), rem
}

// Div is QuotientRemainder(a,b).quotient.
func (b *Builder) Div(a, y Value) Value {
	q, _ := b.QuotientRemainder(a, y)
	return q
}

// Mod is QuotientRemainder(a,b).remainder.
func (b *Builder) Mod(a, y Value) Value {
	_, r := b.QuotientRemainder(a, y)
	return r
}
