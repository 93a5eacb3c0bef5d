package thermal

import (
	"context"
	"runtime"
	"sync"
)

// Ensemble runs independent propagators concurrently. Each run owns its
// field and history exclusively, so no coordination is needed between
// them. The build function receives the run index and returns the
// propagator for that run.
type Ensemble struct {
	numRuns int
	build   func(idx int) (*Propagator, error)
}

func NewEnsemble(numRuns int, build func(idx int) (*Propagator, error)) *Ensemble {
	return &Ensemble{numRuns: numRuns, build: build}
}

// Run executes all propagations and returns their results in run order.
// The first build or propagation error aborts the collection.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			p, err := e.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = p.Propagate(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ParallelFor executes a function in parallel over a range [0, n).
// Chunks below minChunk run inline on the calling goroutine.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.NumCPU()
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
