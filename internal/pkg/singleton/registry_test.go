package singleton

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireIsExclusive(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.TryAcquire("marker-a"))
	assert.True(t, r.Active())
	assert.False(t, r.TryAcquire("marker-a"))
	// 激活标志独占，换个标记也抢不到
	assert.False(t, r.TryAcquire("marker-b"))

	r.Release("marker-a")
	assert.False(t, r.Active())
	assert.True(t, r.TryAcquire("marker-b"))
}

func TestReleaseByNonOwnerIsIgnored(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.TryAcquire("m"))

	// 非持有者的 Release 不得解除占用
	r.Release("other")
	assert.True(t, r.Active())
	assert.False(t, r.TryAcquire("fresh"))

	r.Release("m")
	assert.False(t, r.Active())
	assert.True(t, r.TryAcquire("fresh"))
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	wins := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAcquire("m") {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
}
