package valves

import "fmt"

// NoFlanksDetectedError reports that a valve's circular series never
// changes state, so the segment-detection primitive found no downflank to
// rotate against. The adjuster treats this as a no-op for that valve, not
// a failure.
type NoFlanksDetectedError struct {
	Valve int
}

func (e *NoFlanksDetectedError) Error() string {
	return fmt.Sprintf("valves: valve %d has no flanks (constant series)", e.Valve)
}

// AdjusterInvariantViolationError indicates the dwell-time rewrite left a
// run shorter than the configured minimum, or the up/down flank counts or
// durations failed to reconcile against the frame count. Either means a bug
// in the rewriter, not a data condition, so it is fatal to the whole run.
type AdjusterInvariantViolationError struct {
	Valve  int
	Reason string
}

func (e *AdjusterInvariantViolationError) Error() string {
	return fmt.Sprintf("valves: invariant violated for valve %d: %s", e.Valve, e.Reason)
}
