// Package idgen hands out the monotonically increasing wire identities that
// pkg/boolwire stamps onto every non-constant node.
package idgen

// Generator is a single-writer counter. It is not safe for concurrent use;
// a compilation owns exactly one Generator and passes it by reference into
// every constructor that needs a fresh id.
type Generator struct {
	next int
}

// New returns a Generator starting at zero.
func New() *Generator {
	return &Generator{}
}

// Gen returns the current counter value and increments it.
func (g *Generator) Gen() int {
	id := g.next
	g.next++
	return id
}

// Peek returns the current counter value without incrementing it.
//
// Used by valuewire.NewInput to record id_start before the bits of a named
// input are generated, so the bits occupy a contiguous range starting at
// id_start.
func (g *Generator) Peek() int {
	return g.next
}
