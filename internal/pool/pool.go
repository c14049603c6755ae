// Package pool provides the bounded fan-out window used for every
// remote-call batch: a fixed number of in-flight tasks, unordered
// completion, results re-attached by index.
package pool

import "sync"

// DefaultWindow is the number of concurrently in-flight requests.
const DefaultWindow = 20

// Each runs fn(i) for i in [0,count) with at most window invocations in
// flight and returns when all have completed. Tasks are independent;
// each writes only to its own index, so callers collect results into a
// pre-sized slice without locking.
func Each(window, count int, fn func(i int)) {
	if window <= 0 {
		window = DefaultWindow
	}
	sem := make(chan struct{}, window)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
