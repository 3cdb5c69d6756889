package uploader

import "fmt"

// AssetState tracks one file's progress through the upload lifecycle.
type AssetState int

const (
	// StateSubmitting: the task exists but no network call has started.
	StateSubmitting AssetState = iota
	// StateUploading: the upload call is in flight (including retries).
	StateUploading
	// StateProcessing: bytes are remote; polling until the store is done.
	StateProcessing
	// StateReady: terminal success; the asset may appear in prompts.
	StateReady
	// StateFailed: terminal; the remote store rejected the asset.
	StateFailed
	// StateTimedOut: terminal; readiness never arrived within budget.
	StateTimedOut
)

// String returns the state name.
func (s AssetState) String() string {
	switch s {
	case StateSubmitting:
		return "SUBMITTING"
	case StateUploading:
		return "UPLOADING"
	case StateProcessing:
		return "PROCESSING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	case StateTimedOut:
		return "TIMED_OUT"
	default:
		return fmt.Sprintf("AssetState(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s AssetState) Terminal() bool {
	return s == StateReady || s == StateFailed || s == StateTimedOut
}

// validTransitions is the full transition relation. No transition skips
// PROCESSING: even if the store reports readiness on the upload response,
// at least one status check runs to confirm it.
var validTransitions = map[AssetState][]AssetState{
	StateSubmitting: {StateUploading},
	StateUploading:  {StateProcessing, StateFailed, StateTimedOut},
	StateProcessing: {StateReady, StateFailed, StateTimedOut},
}

// advance moves the task to next, panicking on an illegal transition.
// Transitions are all internal to this package, so a panic here is a bug in
// the orchestrator, not a runtime condition.
func (t *task) advance(next AssetState) {
	for _, allowed := range validTransitions[t.state] {
		if allowed == next {
			t.state = next
			return
		}
	}
	panic(fmt.Sprintf("invalid asset state transition %s -> %s for %s", t.state, next, t.file.Name))
}
