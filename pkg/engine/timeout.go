package engine

import (
	"fmt"
	"time"
)

// DefaultParseTimeout is the limit for reading a single sub-model.
const DefaultParseTimeout = 5 * time.Second

// parseResult passes a parse outcome back from the evaluating goroutine.
type parseResult struct {
	instances []*Instance
	err       error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if parsing exceeds d.
//
// On timeout the goroutine may still be running; its result is dropped into
// the buffered channel and never read.
func waitWithTimeout(ch <-chan parseResult, d time.Duration) ([]*Instance, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.instances, res.err
	case <-timer.C:
		return nil, fmt.Errorf("engine: parse timed out after %s", d)
	}
}
