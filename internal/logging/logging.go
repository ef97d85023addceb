// Package logging builds the zerolog logger used for diagnostics.
// Console messages meant for the operator are written separately by the CLI;
// this logger carries structured fields (run id, file, chunk) for debugging.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Standard field keys.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldFile      = "file"
	FieldChunk     = "chunk"
	FieldChunks    = "chunks"
	FieldOutput    = "output"
)

var (
	// ErrInvalidLevel indicates an unknown log level name.
	ErrInvalidLevel = errors.New("invalid log level")
	// ErrInvalidFormat indicates an unknown log format name.
	ErrInvalidFormat = errors.New("invalid log format")
)

// Options configures New.
type Options struct {
	Level   string // trace, debug, info, warn, error, disabled
	Format  string // console, json
	NoColor bool
	RunID   string // generated when empty
}

// New returns a logger writing to w with a timestamp and a run id field.
// The level applies to the returned logger only; the global level is untouched.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var zl zerolog.Logger
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatConsole:
		zl = newConsoleLogger(w, opts.NoColor)
	case FormatJSON:
		zl = zerolog.New(w)
	default:
		return zerolog.Nop(), fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidFormat, opts.Format, FormatConsole, FormatJSON)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return zl.Level(level).With().Timestamp().Str(FieldRunID, runID).Logger(), nil
}

// WithComponent returns l tagged with a component name.
func WithComponent(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

func newConsoleLogger(w io.Writer, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := strings.ToUpper(fmt.Sprintf("%s", i))
			tag, color := levelTag(lvl)
			if noColor || color == "" {
				return tag
			}
			return color + tag + "\033[0m"
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%s", i)
		},
	})
}

func levelTag(lvl string) (tag, color string) {
	switch lvl {
	case "TRACE":
		return "[TRC]", "\033[90m"
	case "DEBUG":
		return "[DBG]", "\033[36m"
	case "INFO":
		return "[INF]", "\033[32m"
	case "WARN":
		return "[WRN]", "\033[33m"
	case "ERROR":
		return "[ERR]", "\033[31m"
	default:
		return fmt.Sprintf("[%s]", lvl), ""
	}
}
