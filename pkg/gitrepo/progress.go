package gitrepo

// ProgressCallback reports long-running operation progress (spec.md §9).
// Modeled as a plain function parameter rather than global state, per the
// design note's explicit guidance; callers wanting backpressure can wrap
// it around a bounded channel themselves.
type ProgressCallback func(phase string, transferredBytes, totalBytes int64, message string)

func reportProgress(cb ProgressCallback, phase string, transferred, total int64, message string) {
	if cb != nil {
		cb(phase, transferred, total, message)
	}
}
