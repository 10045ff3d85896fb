// Package propcheck is the independent "known good" oracle plus sweep
// harness used to round-trip-test a compiled boolean circuit: Reference
// gives the textbook definition of each arithmetic operator, and
// SweepWorkerPool drives check over every (a, b) pair in [0, 2^width)^2.
// Adapted from the teacher's search-verification stack
// (pkg/search/verifier.go's fixed-vector fast-reject idea, generalized to
// full enumeration for small widths, and pkg/search/worker.go's
// channel-fed WorkerPool shape) — this package has no notion of candidate
// instruction sequences or pruning, since there is no search space here,
// only a brute-force equivalence check.
package propcheck

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/oisee/boolify/pkg/arithcircuit"
)

// Reference computes op(a, b) the same way pkg/valuewire's builder methods
// do, masked to width bits, as the independent oracle a compiled circuit
// is checked against. b is ignored for unary ops.
func Reference(op arithcircuit.Op, a, b uint64, width int) uint64 {
	mask := maskFor(width)
	a &= mask
	b &= mask

	switch op {
	case arithcircuit.AUnaryAdd:
		return a & mask
	case arithcircuit.AUnarySub:
		return (-a) & mask
	case arithcircuit.ANot:
		return boolToUint(a == 0)
	case arithcircuit.ABitNot:
		return (^a) & mask

	case arithcircuit.AAdd:
		return (a + b) & mask
	case arithcircuit.ASub:
		return (a - b) & mask
	case arithcircuit.AMul:
		return (a * b) & mask
	case arithcircuit.ADiv:
		if b == 0 {
			return 0 // matches the compiled circuit's div(a,0)=0, not the 2^W-1 convention
		}
		return (a / b) & mask
	case arithcircuit.AMod:
		if b == 0 {
			return a // matches the compiled circuit's mod(a,0)=a
		}
		return (a % b) & mask
	case arithcircuit.AExp:
		return expMod(a, b, mask)
	case arithcircuit.AEq:
		return boolToUint(a == b)
	case arithcircuit.ANeq:
		return boolToUint(a != b)
	case arithcircuit.ABoolAnd:
		return boolToUint(a != 0 && b != 0)
	case arithcircuit.ABoolOr:
		return boolToUint(a != 0 || b != 0)
	case arithcircuit.ALt:
		return boolToUint(a < b)
	case arithcircuit.ALEq:
		return boolToUint(a <= b)
	case arithcircuit.AGt:
		return boolToUint(a > b)
	case arithcircuit.AGEq:
		return boolToUint(a >= b)
	case arithcircuit.ABitAnd:
		return a & b
	case arithcircuit.ABitOr:
		return a | b
	case arithcircuit.AXor:
		return a ^ b
	case arithcircuit.AShiftL:
		if b >= uint64(width) {
			return 0
		}
		return (a << b) & mask
	case arithcircuit.AShiftR:
		if b >= uint64(width) {
			return 0
		}
		return a >> b
	default:
		panic(fmt.Sprintf("propcheck: no reference for op %v", op))
	}
}

func boolToUint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func maskFor(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

func expMod(base, exp, mask uint64) uint64 {
	result := uint64(1) & mask
	base &= mask
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) & mask
		}
		base = (base * base) & mask
		exp >>= 1
	}
	return result
}

type task struct {
	a, b uint64
}

// SweepWorkerPool runs check(a, b) for every (a, b) in [0, 2^width)^2,
// distributed across workers goroutines (runtime.NumCPU() if workers <=
// 0). It returns the first error any check call returns, after every
// already-dispatched task has drained — the same "first-error-wins, drain
// before returning" discipline as pkg/search's WorkerPool.RunTasks.
func SweepWorkerPool(width int, workers int, check func(a, b uint64) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	n := uint64(1) << uint(width)
	tasks := make(chan task, workers*4)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if err := check(t.a, t.b); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}

	for a := uint64(0); a < n; a++ {
		for b := uint64(0); b < n; b++ {
			tasks <- task{a: a, b: b}
		}
	}
	close(tasks)
	wg.Wait()

	return firstErr
}
