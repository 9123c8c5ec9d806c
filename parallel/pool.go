// Package parallel fans independent jobs out over a fixed set of workers.
package parallel

import (
	"runtime"
	"sync"
)

// Pool runs submitted jobs on its workers. With a single worker jobs run
// inline in Do.
type Pool struct {
	wg     sync.WaitGroup
	work   chan func()
	cancel func()
}

// Start launches numWorkers workers, or GOMAXPROCS workers when numWorkers is
// below one.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{cancel: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.work {
				f()
			}
		})
	}
	pool.cancel = sync.OnceFunc(func() { close(pool.work) })
	return pool
}

// Do schedules f. It must not be called after Close.
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Close stops accepting work and waits for queued jobs to finish.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
}
