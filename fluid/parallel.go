package fluid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count worth splitting across
// workers. Smaller grids run inline; goroutine handoff costs more than the
// pass itself.
const parallelThreshold = 64

// rowBand is a half-open range of rows for one worker.
type rowBand struct {
	j0, j1 int
	fn     func(j0, j1 int)
}

// rowPool runs kernel passes over disjoint row bands. dispatch blocks until
// every band has finished, so callers observe a sequential pass.
type rowPool struct {
	numWorkers int

	workChan chan rowBand
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// newRowPool creates a pool with the given worker count. Zero or one
// worker means every pass runs on the calling goroutine; a negative count
// selects GOMAXPROCS.
func newRowPool(workers int) *rowPool {
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &rowPool{numWorkers: workers}
}

// start launches persistent worker goroutines.
func (p *rowPool) start() {
	if p.running || p.numWorkers <= 1 {
		return
	}

	p.workChan = make(chan rowBand, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	Logger().Debug("row pool started", "workers", p.numWorkers)
}

// stop signals all workers to exit and waits for them.
func (p *rowPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
	Logger().Debug("row pool stopped")
}

func (p *rowPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case band, ok := <-p.workChan:
			if !ok {
				return
			}
			band.fn(band.j0, band.j1)
			p.doneChan <- struct{}{}
		}
	}
}

// dispatch runs fn over rows [0, rows) and returns when all of it is done.
func (p *rowPool) dispatch(rows int, fn func(j0, j1 int)) {
	if !p.running || rows < parallelThreshold {
		fn(0, rows)
		return
	}

	bands := p.numWorkers
	per := (rows + bands - 1) / bands
	sent := 0
	for j0 := 0; j0 < rows; j0 += per {
		p.workChan <- rowBand{j0: j0, j1: min(j0+per, rows), fn: fn}
		sent++
	}
	for i := 0; i < sent; i++ {
		<-p.doneChan
	}
}
