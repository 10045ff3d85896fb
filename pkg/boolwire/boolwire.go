// Package boolwire implements the immutable boolean wire DAG: the shared,
// reference-counted-in-spirit graph of {Const, Input, And, Xor, Inv} nodes
// that every arithmetic operator in pkg/valuewire compiles down to.
//
// Go has no Rc<T>-style shared ownership, so the graph is realized as an
// arena: a single growable slice of Node values owned by one *Graph, and a
// Wire is a plain int index into that slice. Children outlive their parents
// for as long as the Graph itself is alive; the garbage collector reclaims
// the whole arena at once when the Graph is dropped, which sidesteps the
// descending-id manual teardown a reference-counted implementation would
// need to avoid recursive destructor chains.
package boolwire

import "github.com/oisee/boolify/pkg/idgen"

// Kind tags the five closed variants a Node can be.
type Kind uint8

const (
	KindConst Kind = iota
	KindInput
	KindAnd
	KindXor
	KindInv
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "Const"
	case KindInput:
		return "Input"
	case KindAnd:
		return "And"
	case KindXor:
		return "Xor"
	case KindInv:
		return "Inv"
	default:
		return "Unknown"
	}
}

// InputRef is the shared identity of a named multi-bit input. Every bit of
// a given input carries a pointer to the same InputRef, so the serializer
// can recover input name/width/order from any reachable bit.
type InputRef struct {
	Name    string
	IDStart int
	Width   int
}

// Node is one DAG vertex. Only the fields relevant to Kind are meaningful;
// And/Xor use A and B, Inv uses A only, Const uses ConstVal, Input uses
// Input and ID.
type Node struct {
	Kind     Kind
	ID       int // -1 for Const: constants carry no identity
	ConstVal bool
	Input    *InputRef
	A, B     Wire
}

// Wire is an index into a Graph's node arena. The zero Wire is not a
// sentinel for "no wire" — every valid index (including 0) denotes a real
// node; callers that need "absent" use a separate bool or a pointer.
type Wire int

// Graph owns the arena. A Graph is single-writer: one compilation builds
// exactly one Graph and threads it through every constructor call.
type Graph struct {
	ids   *idgen.Generator
	nodes []Node

	zero, one Wire
	haveZero  bool
}

// New creates an empty Graph driven by the given id generator. Passing the
// generator in (rather than owning one internally) lets valuewire.Builder
// share a single counter across both the input id_start bookkeeping and
// ordinary gate ids, exactly as the distilled spec requires.
func New(ids *idgen.Generator) *Graph {
	return &Graph{ids: ids}
}

// IDs returns the generator backing this graph.
func (g *Graph) IDs() *idgen.Generator { return g.ids }

func (g *Graph) push(n Node) Wire {
	g.nodes = append(g.nodes, n)
	return Wire(len(g.nodes) - 1)
}

func (g *Graph) node(w Wire) *Node { return &g.nodes[w] }

// Kind returns the variant tag of w.
func (g *Graph) Kind(w Wire) Kind { return g.node(w).Kind }

// ID returns w's monotonic identity, or -1 if w is a Const.
func (g *Graph) ID(w Wire) int { return g.node(w).ID }

// ConstValue reports whether w is a Const node and, if so, its value.
func (g *Graph) ConstValue(w Wire) (value bool, ok bool) {
	n := g.node(w)
	if n.Kind != KindConst {
		return false, false
	}
	return n.ConstVal, true
}

// InputRef returns the shared input identity of an Input node, or nil.
func (g *Graph) InputRef(w Wire) *InputRef {
	n := g.node(w)
	if n.Kind != KindInput {
		return nil
	}
	return n.Input
}

// Children returns w's direct child wires. And/Xor report two children;
// Inv reports one (the second return is ignored, value unspecified);
// Const/Input report none.
func (g *Graph) Children(w Wire) (a, b Wire, n int) {
	node := g.node(w)
	switch node.Kind {
	case KindAnd, KindXor:
		return node.A, node.B, 2
	case KindInv:
		return node.A, 0, 1
	default:
		return 0, 0, 0
	}
}

// Const materializes a constant boolean node. Constants carry no id; every
// call allocates a fresh arena slot (cheap: a few bytes, no gate is ever
// emitted for it), matching the spec's "Constants have no identifier" rule.
func (g *Graph) Const(v bool) Wire {
	return g.push(Node{Kind: KindConst, ID: -1, ConstVal: v})
}

// Zero returns a cached Const(false) wire, reused across calls. Caching is
// a pure memory optimization (grounded on markkurossi/mpc's ZeroWire/OneWire
// lazy-cache idiom) — correctness does not depend on it, since every Const
// node is equivalent regardless of arena slot.
func (g *Graph) Zero() Wire {
	g.ensureConstCache()
	return g.zero
}

// One returns a cached Const(true) wire, reused across calls.
func (g *Graph) One() Wire {
	g.ensureConstCache()
	return g.one
}

func (g *Graph) ensureConstCache() {
	if g.haveZero {
		return
	}
	g.zero = g.Const(false)
	g.one = g.Const(true)
	g.haveZero = true
}

// NewInputBit appends a fresh Input node bound to ref, stamped with the
// given pre-generated id. Callers (pkg/valuewire.NewInput) are responsible
// for allocating id via g.IDs().Gen() in the order the spec requires — this
// method only records the result.
func (g *Graph) NewInputBit(ref *InputRef, id int) Wire {
	return g.push(Node{Kind: KindInput, ID: id, Input: ref})
}

// And is the smart constructor from the distilled spec's §4.2:
//
//	a = Const(false) -> a
//	a = Const(true)  -> b
//	b = Const(false) -> b
//	b = Const(true)  -> a
//	otherwise: fresh And node
func (g *Graph) And(a, b Wire) Wire {
	if v, ok := g.ConstValue(a); ok {
		if !v {
			return a
		}
		return b
	}
	if v, ok := g.ConstValue(b); ok {
		if !v {
			return b
		}
		return a
	}
	id := g.ids.Gen()
	return g.push(Node{Kind: KindAnd, ID: id, A: a, B: b})
}

// Xor is the smart constructor from §4.2:
//
//	a = Const(false) -> b;  a = Const(true) -> inv(b)
//	b = Const(false) -> a;  b = Const(true) -> inv(a)
//	otherwise: fresh Xor node
func (g *Graph) Xor(a, b Wire) Wire {
	if v, ok := g.ConstValue(a); ok {
		if !v {
			return b
		}
		return g.Inv(b)
	}
	if v, ok := g.ConstValue(b); ok {
		if !v {
			return a
		}
		return g.Inv(a)
	}
	id := g.ids.Gen()
	return g.push(Node{Kind: KindXor, ID: id, A: a, B: b})
}

// Inv is the smart constructor from §4.2:
//
//	a = Const(v)   -> Const(!v), no id
//	a = Inv(_, x)  -> x (double-negation elimination)
//	otherwise: fresh Inv node
func (g *Graph) Inv(a Wire) Wire {
	if v, ok := g.ConstValue(a); ok {
		return g.Const(!v)
	}
	if g.node(a).Kind == KindInv {
		return g.node(a).A
	}
	id := g.ids.Gen()
	return g.push(Node{Kind: KindInv, ID: id, A: a})
}

// Or synthesizes a ∨ b as inv(and(inv(a), inv(b))) — OR is never a
// first-class node; the gate set is {AND, XOR, INV}.
func (g *Graph) Or(a, b Wire) Wire {
	return g.Inv(g.And(g.Inv(a), g.Inv(b)))
}

// InvWithNewID forces a fresh Inv node even when a is already an Inv,
// bypassing the double-negation elimination in Inv. Used to manufacture
// controlled copies with distinct identity.
func (g *Graph) InvWithNewID(a Wire) Wire {
	id := g.ids.Gen()
	return g.push(Node{Kind: KindInv, ID: id, A: a})
}

// CopyWithNewID produces a wire with the same logical value as a but a
// fresh id, for cases (serializer output aliasing an input, or a duplicate
// constant output) where two different output slots must not share an id.
// The boolean graph has no COPY gate, so a copy is a double inversion; if a
// is already an Inv, one layer suffices.
func (g *Graph) CopyWithNewID(a Wire) Wire {
	if g.node(a).Kind == KindInv {
		return g.InvWithNewID(g.node(a).A)
	}
	return g.InvWithNewID(g.InvWithNewID(a))
}
