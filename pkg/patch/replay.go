package patch

import "fmt"

// Step is a single replay step: a unified patch and its apply direction.
type Step struct {
	PatchText string
	Reverse   bool
}

// ReplayStatus is the outcome of a Replay call.
type ReplayStatus string

const (
	StatusCompleted ReplayStatus = "completed"
	StatusConflict  ReplayStatus = "conflict"
)

// ReplayResult reports replay progress. Steps applied before a conflict
// remain written to disk — this is the deliberate "make progress"
// semantics documented in spec.md §9: replay never rolls back partial
// progress on failure.
type ReplayResult struct {
	Status       ReplayStatus
	AppliedPaths []string
	FailedStep   *int
}

// Replay applies steps in order against worktreeRoot. On the first
// failure it stops and reports status "conflict" with the failing step's
// index; on full success it reports "completed" with failedStep nil
// (spec.md §4.9).
func Replay(worktreeRoot string, steps []Step) (*ReplayResult, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("replay: step list must be non-empty")
	}

	result := &ReplayResult{Status: StatusCompleted}
	for i, step := range steps {
		path, err := ApplyUnifiedPatch(worktreeRoot, step.PatchText, step.Reverse)
		if err != nil {
			idx := i
			result.Status = StatusConflict
			result.FailedStep = &idx
			return result, nil
		}
		result.AppliedPaths = append(result.AppliedPaths, path)
	}
	return result, nil
}
