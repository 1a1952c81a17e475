package reactify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextKey(t *testing.T) {
	counts := map[string]int{}
	assert.Equal(t, "p_1", nextKey(counts, "p"))
	assert.Equal(t, "span_1", nextKey(counts, "span"))
	assert.Equal(t, "p_2", nextKey(counts, "p"))
	assert.Equal(t, "p_3", nextKey(counts, "p"))

	fresh := map[string]int{}
	assert.Equal(t, "p_1", nextKey(fresh, "p"))
}

func TestCompileGlob_Cached(t *testing.T) {
	const pattern = "cache-test-*"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, compileGlob(pattern).Match("cache-test-1"))
		}()
	}
	wg.Wait()

	globMu.RLock()
	cached, ok := globCache[pattern]
	globMu.RUnlock()
	assert.True(t, ok)
	assert.Equal(t, cached, compileGlob(pattern))
}

func TestPolicy_CompileOnce(t *testing.T) {
	p := DefaultPolicy()
	first := p.compile()
	p.Tags["u"] = &TagPolicy{}
	assert.Same(t, first, p.compile())
	_, ok := first.tags["u"]
	assert.False(t, ok)
}
