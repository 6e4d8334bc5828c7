package systems

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum ball count to integrate concurrently.
const parallelThreshold = 64

// StepConcurrent advances every ball one frame, splitting the balls across
// workers (0 = GOMAXPROCS). Ball.Step touches no other ball, so the result
// is identical to Step. It returns only after every worker is done, so
// collision detection afterwards sees settled positions.
func (w *World) StepConcurrent(workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := len(w.balls)
	if workers == 1 || n < parallelThreshold {
		w.Step()
		return
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(balls []*Ball) {
			defer wg.Done()
			for _, b := range balls {
				b.Step()
			}
		}(w.balls[start:end])
	}
	wg.Wait()
}
