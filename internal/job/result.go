package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/batch-transcript/internal/discover"
)

// ErrorKind tells at which step a file job failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindExtraction
	KindLoad
	KindTranscription
	KindFilesystem
	KindCanceled
	KindUnexpected
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindExtraction:
		return "extraction"
	case KindLoad:
		return "load"
	case KindTranscription:
		return "transcription"
	case KindFilesystem:
		return "filesystem"
	case KindCanceled:
		return "canceled"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Result is the outcome of one file job.
type Result struct {
	Input      discover.InputFile
	OutputPath string // set on success
	Chunks     int    // chunks transcribed
	Err        error

	kind ErrorKind
}

// OK reports whether the job produced its output artifact.
func (r Result) OK() bool {
	return r.Err == nil
}

// Kind returns the failing step, or KindNone on success.
// Cancellation wins over the step that observed it.
func (r Result) Kind() ErrorKind {
	if r.Err == nil {
		return KindNone
	}
	if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
		return KindCanceled
	}
	if r.kind == KindNone {
		return KindUnexpected
	}
	return r.kind
}

func failed(in discover.InputFile, kind ErrorKind, err error) Result {
	return Result{Input: in, Err: err, kind: kind}
}

// Summary collects the results of a batch, in input order.
type Summary struct {
	Results []Result
}

// Succeeded counts successful jobs.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed jobs, canceled ones included.
func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Canceled counts jobs stopped or skipped by cancellation.
func (s Summary) Canceled() int {
	n := 0
	for _, r := range s.Results {
		if r.Kind() == KindCanceled {
			n++
		}
	}
	return n
}

// AllFailed reports whether at least one file was attempted and none succeeded.
func (s Summary) AllFailed() bool {
	return len(s.Results) > 0 && s.Succeeded() == 0
}
