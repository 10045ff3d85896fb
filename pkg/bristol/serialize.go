package bristol

import (
	"fmt"
	"math"
	"sort"

	"github.com/oisee/boolify/pkg/boolwire"
)

// wireIDMapper assigns final, contiguous wire ids: ordinary wires (inputs
// and internal gates) get ascending ids starting at 0; output wires are
// first given a temporary id descending from math.MaxInt so they sort to
// the far end of the space, then rewritten into the contiguous range right
// after the last internal wire once every gate has been emitted. This is
// the same two-range trick original_source/src/generate_bristol.rs uses to
// avoid a two-pass count-then-renumber walk of the whole graph.
type wireIDMapper struct {
	final   map[int]int
	next    int
	temp    map[int]int
	tempSeq []int
	nextTmp int
}

func newWireIDMapper() *wireIDMapper {
	return &wireIDMapper{
		final:   make(map[int]int),
		temp:    make(map[int]int),
		nextTmp: math.MaxInt,
	}
}

func (wm *wireIDMapper) lookup(old int) (int, bool) {
	if v, ok := wm.final[old]; ok {
		return v, true
	}
	if v, ok := wm.temp[old]; ok {
		return v, true
	}
	return 0, false
}

// get returns old's final ordinary id, allocating the next ascending id on
// first use.
func (wm *wireIDMapper) get(old int) int {
	if v, ok := wm.lookup(old); ok {
		return v
	}
	id := wm.next
	wm.next++
	wm.final[old] = id
	return id
}

// getTempOutput returns old's temporary descending id, allocating one on
// first use and recording the registration order in tempSeq.
func (wm *wireIDMapper) getTempOutput(old int) int {
	if v, ok := wm.lookup(old); ok {
		return v
	}
	id := wm.nextTmp
	wm.nextTmp--
	wm.temp[old] = id
	wm.tempSeq = append(wm.tempSeq, old)
	return id
}

// finalizeOutputs promotes every temp-output id to a proper ascending id,
// in registration order, and rewrites gates in place. The distilled spec
// only requires that outputs occupy a contiguous block at the top of the
// id space; it does not mandate the order of bits within that block, so
// this walks tempSeq forwards (first output bit registered gets the lowest
// id in the block) rather than replicating generate_bristol.rs's reversed
// walk, which is an artifact of how it assigns temp ids, not a contract.
func (wm *wireIDMapper) finalizeOutputs(gates []Gate) {
	rewrite := make(map[int]int, len(wm.tempSeq))
	for _, old := range wm.tempSeq {
		tmp := wm.temp[old]
		delete(wm.temp, old)
		proper := wm.get(old)
		rewrite[tmp] = proper
	}
	for i := range gates {
		for j, in := range gates[i].Inputs {
			if nid, ok := rewrite[in]; ok {
				gates[i].Inputs[j] = nid
			}
		}
		for j, out := range gates[i].Outputs {
			if nid, ok := rewrite[out]; ok {
				gates[i].Outputs[j] = nid
			}
		}
	}
}

// collectInputs walks every reachable wire from roots (iteratively, via an
// explicit stack) and returns the distinct InputRefs found, keyed by
// IDStart, plus one arbitrary reachable input bit to seed the
// special_true/special_false construction.
func collectInputs(g *boolwire.Graph, roots []boolwire.Wire) (map[int]*boolwire.InputRef, boolwire.Wire, bool, error) {
	seen := make(map[boolwire.Wire]bool)
	refs := make(map[int]*boolwire.InputRef)
	var anyInput boolwire.Wire
	haveAny := false

	stack := append([]boolwire.Wire(nil), roots...)
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[w] {
			continue
		}
		seen[w] = true

		switch g.Kind(w) {
		case boolwire.KindInput:
			ref := g.InputRef(w)
			if prev, ok := refs[ref.IDStart]; ok {
				if prev != ref {
					return nil, 0, false, fmt.Errorf("%w: id_start %d", ErrAliasingInputMismatch, ref.IDStart)
				}
			} else {
				refs[ref.IDStart] = ref
			}
			if !haveAny {
				anyInput = w
				haveAny = true
			}
		case boolwire.KindAnd, boolwire.KindXor:
			a, b, _ := g.Children(w)
			stack = append(stack, a, b)
		case boolwire.KindInv:
			a, _, _ := g.Children(w)
			stack = append(stack, a)
		case boolwire.KindConst:
			// no children, no identity
		}
	}
	return refs, anyInput, haveAny, nil
}

type emitFrame struct {
	w        boolwire.Wire
	expanded bool
}

// emitGates walks root in iterative post-order, appending one Gate per
// internal (And/Xor/Inv) node not already emitted, and renumbering wires
// through wm as they're first seen.
func emitGates(g *boolwire.Graph, wm *wireIDMapper, root boolwire.Wire, emitted map[int]bool, gates *[]Gate) error {
	stack := []emitFrame{{w: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if g.Kind(top.w) == boolwire.KindConst {
			return ErrConstInInteriorOfCircuit
		}
		if g.Kind(top.w) == boolwire.KindInput {
			stack = stack[:len(stack)-1]
			continue
		}

		id := g.ID(top.w)
		if emitted[id] {
			stack = stack[:len(stack)-1]
			continue
		}

		if !top.expanded {
			top.expanded = true
			a, b, n := g.Children(top.w)
			if n >= 1 {
				stack = append(stack, emitFrame{w: a})
			}
			if n >= 2 {
				stack = append(stack, emitFrame{w: b})
			}
			continue
		}

		w := top.w
		stack = stack[:len(stack)-1]

		switch g.Kind(w) {
		case boolwire.KindAnd:
			a, b, _ := g.Children(w)
			*gates = append(*gates, Gate{Inputs: []int{wm.get(g.ID(a)), wm.get(g.ID(b))}, Outputs: []int{wm.get(id)}, Op: "AND"})
		case boolwire.KindXor:
			a, b, _ := g.Children(w)
			*gates = append(*gates, Gate{Inputs: []int{wm.get(g.ID(a)), wm.get(g.ID(b))}, Outputs: []int{wm.get(id)}, Op: "XOR"})
		case boolwire.KindInv:
			a, _, _ := g.Children(w)
			*gates = append(*gates, Gate{Inputs: []int{wm.get(g.ID(a))}, Outputs: []int{wm.get(id)}, Op: "INV"})
		}
		emitted[id] = true
	}
	return nil
}

// Serialize renumbers and flattens the wires reachable from outputs into a
// Circuit: inputs occupy the lowest ids, internal gate wires follow, and
// outputs occupy a contiguous block at the top. It runs in six phases:
//
//  1. Collect every reachable input, checking for id_start aliasing.
//  2. Reify constant output bits through special_true/special_false, and
//     give any output bit that aliases an input bit (forwards it
//     unchanged) a fresh id via CopyWithNewID, so no wire is ever both an
//     input id and an output id.
//  3. Pre-register input ids into the ordinary (ascending) range, then
//     register every (possibly rewritten) output bit into the temporary
//     (descending) range.
//  4. Emit gates for every output root, iteratively and in post-order,
//     skipping wires already emitted.
//  5. Finalize the temporary output ids into the ordinary range.
//  6. Assemble CircuitInfo from the input and output metadata.
func Serialize(g *boolwire.Graph, outputs []Output) (*Circuit, error) {
	if len(outputs) == 0 {
		return nil, ErrEmptyCircuit
	}

	roots := make([]boolwire.Wire, 0, 64)
	for _, out := range outputs {
		roots = append(roots, out.Bits...)
	}

	refs, anyInput, haveAny, err := collectInputs(g, roots)
	if err != nil {
		return nil, err
	}
	if !haveAny || len(refs) == 0 {
		return nil, ErrEmptyCircuit
	}

	inputIDs := make(map[int]bool)
	idStarts := make([]int, 0, len(refs))
	for start, ref := range refs {
		idStarts = append(idStarts, start)
		for i := 0; i < ref.Width; i++ {
			inputIDs[start+i] = true
		}
	}
	sort.Ints(idStarts)

	// Phase 2: reify constants, de-alias output bits that are bare inputs.
	//
	// specialFalseBase never itself becomes an output wire, so it is safe to
	// share; but every constant output *bit* must get its own id (two const
	// bits with the same value are still two distinct output wires in
	// Bristol Fashion), so each occurrence mints a fresh Inv node via
	// InvWithNewID rather than reusing a single cached true/false wire.
	specialFalseBase := g.Xor(anyInput, anyInput)

	// claimed tracks every id already assigned to an output slot (seeded
	// with every input id, since an output bit forwarding an input
	// unchanged must also be de-aliased). A wire whose id is already
	// claimed — because it's a bare input, or because an earlier output
	// bit already claimed it (two outputs sharing one computed wire) —
	// gets a fresh id via CopyWithNewID so no two output slots ever share
	// a wire.
	claimed := make(map[int]bool, len(inputIDs))
	for id := range inputIDs {
		claimed[id] = true
	}

	prepared := make([][]boolwire.Wire, len(outputs))
	for oi, out := range outputs {
		bits := make([]boolwire.Wire, len(out.Bits))
		for i, w := range out.Bits {
			if v, ok := g.ConstValue(w); ok {
				freshTrue := g.InvWithNewID(specialFalseBase)
				if v {
					bits[i] = freshTrue
				} else {
					bits[i] = g.InvWithNewID(freshTrue)
				}
				claimed[g.ID(bits[i])] = true
				continue
			}
			if claimed[g.ID(w)] {
				w = g.CopyWithNewID(w)
			}
			claimed[g.ID(w)] = true
			bits[i] = w
		}
		prepared[oi] = bits
	}

	// Phase 3: pre-register inputs, then register outputs as temp ids.
	wm := newWireIDMapper()
	for _, start := range idStarts {
		ref := refs[start]
		for i := 0; i < ref.Width; i++ {
			wm.get(start + i)
		}
	}
	for _, bits := range prepared {
		for _, w := range bits {
			wm.getTempOutput(g.ID(w))
		}
	}

	// Phase 4: emit gates for every output root.
	gates := make([]Gate, 0, 256)
	emitted := make(map[int]bool)
	for _, bits := range prepared {
		for _, w := range bits {
			if err := emitGates(g, wm, w, emitted, &gates); err != nil {
				return nil, err
			}
		}
	}

	// Phase 5: finalize the output id range.
	wm.finalizeOutputs(gates)

	// Phase 6: assemble CircuitInfo.
	info := CircuitInfo{
		Inputs:  make([]IO, 0, len(idStarts)),
		Outputs: make([]IO, 0, len(outputs)),
	}
	for _, start := range idStarts {
		ref := refs[start]
		info.Inputs = append(info.Inputs, IO{
			Name:    ref.Name,
			Address: wm.get(start),
			Width:   ref.Width,
			Type:    TypeForWidth(ref.Width),
		})
	}
	for oi, out := range outputs {
		bits := prepared[oi]
		address := 0
		if len(bits) > 0 {
			address = wm.get(g.ID(bits[0]))
		}
		info.Outputs = append(info.Outputs, IO{
			Name:    out.Name,
			Address: address,
			Width:   len(bits),
			Type:    TypeForWidth(len(bits)),
		})
	}

	return &Circuit{
		WireCount: wm.next,
		Gates:     gates,
		Info:      info,
	}, nil
}
