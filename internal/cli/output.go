package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/alnah/batch-transcript/internal/discover"
	"github.com/alnah/batch-transcript/internal/format"
	"github.com/alnah/batch-transcript/internal/job"
)

// Console messages go to stderr; diagnostics go through the logger.

func printModelBanner(w io.Writer, model, backend string) {
	_, _ = fmt.Fprintf(w, "Loading model %s (%s)...\n", model, backend)
}

func printNoFiles(w io.Writer, dir string, exts discover.ExtSet) {
	_, _ = fmt.Fprintf(w, "No files found (%s) in: %s\n", exts, dir)
}

// progressPrinter returns a job.ProgressFunc writing one line per chunk.
func progressPrinter(w io.Writer) job.ProgressFunc {
	return func(in discover.InputFile, current, total int) {
		_, _ = fmt.Fprintf(w, "Transcribing %s: chunk %s\n", filepath.Base(in.Path), format.Count(current, total))
	}
}

// resultPrinter returns a job.ResultFunc writing the outcome of each file.
func resultPrinter(w io.Writer) job.ResultFunc {
	return func(r job.Result) {
		switch {
		case r.OK():
			_, _ = fmt.Fprintf(w, "Done: %s\n", r.OutputPath)
		case r.Kind() == job.KindCanceled:
			_, _ = fmt.Fprintf(w, "Interrupted: %s\n", r.Input.Path)
		default:
			_, _ = fmt.Fprintf(w, "Error: %s: %v\n", r.Input.Path, r.Err)
		}
	}
}

// printSummary writes the completion line. Interrupted files count as
// failed and are also broken out when there are any.
func printSummary(w io.Writer, s job.Summary) {
	_, _ = fmt.Fprintf(w, "All transcriptions finished: %d succeeded, %d failed", s.Succeeded(), s.Failed())
	if n := s.Canceled(); n > 0 {
		_, _ = fmt.Fprintf(w, " (%d interrupted)", n)
	}
	_, _ = fmt.Fprintln(w)
}
