package propcheck

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oisee/boolify/pkg/arithcircuit"
)

func TestReferenceAddWraps(t *testing.T) {
	for a := uint64(0); a < 4; a++ {
		for b := uint64(0); b < 4; b++ {
			assert.Equal(t, (a+b)%4, Reference(arithcircuit.AAdd, a, b, 2))
		}
	}
}

func TestReferenceDivByZero(t *testing.T) {
	assert.Equal(t, uint64(0), Reference(arithcircuit.ADiv, 5, 0, 4))
	assert.Equal(t, uint64(5), Reference(arithcircuit.AMod, 5, 0, 4))
}

func TestReferenceComparisons(t *testing.T) {
	assert.Equal(t, uint64(1), Reference(arithcircuit.ALt, 1, 2, 4))
	assert.Equal(t, uint64(0), Reference(arithcircuit.ALt, 2, 1, 4))
	assert.Equal(t, uint64(1), Reference(arithcircuit.AEq, 3, 3, 4))
}

func TestSweepWorkerPoolVisitsEveryPair(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[[2]uint64]bool)
	err := SweepWorkerPool(2, 2, func(a, b uint64) error {
		mu.Lock()
		seen[[2]uint64{a, b}] = true
		mu.Unlock()
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, seen, 16)
}

func TestSweepWorkerPoolPropagatesFirstError(t *testing.T) {
	wantErr := errors.New("boom")
	err := SweepWorkerPool(2, 2, func(a, b uint64) error {
		if a == 1 && b == 1 {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
}
