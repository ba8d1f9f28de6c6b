package geometry

import (
	"context"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-egress/pkg/model"
)

// Warm derives geometry for the given elements ahead of an analysis run,
// fanning the tessellation cost across a bounded set of workers. Cache
// writes are idempotent, so warming never changes what a run computes,
// only when the tessellation cost is paid. Cancelling the context stops
// feeding new elements; workers finish the element in hand.
// Returns how many elements resolved to usable geometry.
func Warm(ctx context.Context, acc *Accessor, elements []*model.Element, workers int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(elements) {
		workers = len(elements)
	}
	if workers == 0 {
		return 0
	}

	tasks := make(chan *model.Element)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		resolved int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for el := range tasks {
				if _, ok := acc.BoundingBox(el); ok {
					mu.Lock()
					resolved++
					mu.Unlock()
				}
			}
		}()
	}

	for _, el := range elements {
		if ctx.Err() != nil {
			break
		}
		tasks <- el
	}
	close(tasks)
	wg.Wait()

	return resolved
}
