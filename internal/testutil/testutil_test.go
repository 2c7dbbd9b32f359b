package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

func TestSequentialIDGenerator(t *testing.T) {
	gen := NewSequentialIDGenerator("g")
	assert.Equal(t, "g-1", gen.Generate())
	assert.Equal(t, "g-2", gen.Generate())

	gen.Reset()
	assert.Equal(t, "g-1", gen.Generate())

	assert.Equal(t, "gesture-1", NewSequentialIDGenerator("").Generate())
}

func TestSequentialIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialIDGenerator("t")
	const goroutines = 20
	const calls = 50

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, goroutines*calls)
}

func TestRandomTreeDeterministic(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		a := RandomTree(seed, 3)
		b := RandomTree(seed, 3)
		assert.True(t, tree.Equal(a, b))
		assert.LessOrEqual(t, tree.Height(a), 3)
	}
}

func TestChain(t *testing.T) {
	for h := 0; h < 5; h++ {
		c := Chain(h)
		assert.Equal(t, h, tree.Height(c))
		assert.Equal(t, h, tree.Depth(c))
	}
}

func TestSampleConfigIsValid(t *testing.T) {
	cfg := SampleConfig()
	require.NoError(t, config.Validate(cfg))
	for _, col := range Columns {
		_, ok := cfg.Rule(col)
		assert.True(t, ok, col)
	}
}
