package uploader

import (
	"fmt"
	"time"
)

// FileTooLargeError is a local precondition failure: the file exceeds the
// ceiling for its type and no network call was attempted for the batch.
type FileTooLargeError struct {
	File  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, exceeding the %d byte limit", e.File, e.Size, e.Limit)
}

// UploadError means the upload call kept failing until the retry budget
// was exhausted.
type UploadError struct {
	File     string
	Attempts int
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed after %d attempts: %v", e.File, e.Attempts, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ProcessingError means the remote store accepted the bytes but rejected the
// asset during processing.
type ProcessingError struct {
	File       string
	RemoteName string
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("remote processing of %s (%s) failed", e.File, e.RemoteName)
}

// TimeoutError means the asset never reached readiness within the budget.
// It is distinct from ProcessingError so callers can suggest re-running.
type TimeoutError struct {
	File       string
	RemoteName string
	Budget     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s (%s) did not become ready within %v; re-running may succeed", e.File, e.RemoteName, e.Budget)
}
