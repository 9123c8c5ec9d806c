package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllJobs(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		pool := Start(workers)
		var n atomic.Int64
		for range 100 {
			pool.Do(func() { n.Add(1) })
		}
		pool.Close()

		if got := n.Load(); got != 100 {
			t.Errorf("Start(%d): ran %d jobs, want 100", workers, got)
		}
	}
}

func TestPoolInlineWithOneWorker(t *testing.T) {
	pool := Start(1)
	ran := false
	pool.Do(func() { ran = true })
	if !ran {
		t.Error("Do() with one worker did not run inline")
	}
	pool.Close()
	pool.Close()
}

func TestPoolCloseTwice(t *testing.T) {
	pool := Start(3)
	pool.Do(func() {})
	pool.Close()
	pool.Close()
}
