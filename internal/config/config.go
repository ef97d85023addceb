// Package config loads the batch configuration from flags, environment,
// an optional YAML file and defaults, then validates it once.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alnah/batch-transcript/internal/discover"
	"github.com/alnah/batch-transcript/internal/lang"
)

// ErrInvalid indicates a configuration value failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config keys (viper keys and YAML field names).
const (
	KeyInputDir        = "input_dir"
	KeyOutputDir       = "output_dir"
	KeyModelName       = "model_name"
	KeyBackend         = "backend"
	KeyForcedLanguage  = "forced_language"
	KeyVideoExtensions = "video_extensions"
	KeyAudioExtensions = "audio_extensions"
	KeyChunkMs         = "chunk_ms"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyTempDir         = "temp_dir"
)

// Environment variables, one per key.
var envNames = map[string]string{
	KeyInputDir:        "INPUT_DIR",
	KeyOutputDir:       "OUTPUT_DIR",
	KeyModelName:       "MODEL_NAME",
	KeyBackend:         "TRANSCRIBE_BACKEND",
	KeyForcedLanguage:  "FORCED_LANGUAGE",
	KeyVideoExtensions: "VIDEO_EXTENSIONS",
	KeyAudioExtensions: "AUDIO_EXTENSIONS",
	KeyChunkMs:         "CHUNK_MS",
	KeyLogLevel:        "LOG_LEVEL",
	KeyLogFormat:       "LOG_FORMAT",
	KeyTempDir:         "TEMP_DIR",
}

// Flag names, one per key.
var flagNames = map[string]string{
	KeyInputDir:        "input-dir",
	KeyOutputDir:       "output-dir",
	KeyModelName:       "model",
	KeyBackend:         "backend",
	KeyForcedLanguage:  "language",
	KeyVideoExtensions: "video-ext",
	KeyAudioExtensions: "audio-ext",
	KeyChunkMs:         "chunk-ms",
	KeyLogLevel:        "log-level",
	KeyLogFormat:       "log-format",
	KeyTempDir:         "temp-dir",
}

// FlagConfigFile names the flag that points at a YAML config file.
const FlagConfigFile = "config"

// Defaults.
const (
	DefaultInputDir       = "."
	DefaultOutputDir      = "audio_transcription"
	DefaultModelName      = "whisper-1"
	DefaultBackend        = "openai"
	DefaultForcedLanguage = "fr"
	DefaultChunkMs        = 10000
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
)

// Default extension lists.
var (
	DefaultVideoExtensions = []string{".m4v", ".mp4", ".mov", ".avi", ".mkv"}
	DefaultAudioExtensions = []string{".wav", ".mp3", ".m4a", ".flac", ".ogg"}
)

// Config is the validated configuration for one batch run.
// It is a value type; nothing mutates it after Load.
type Config struct {
	InputDir        string   `mapstructure:"input_dir" validate:"required"`
	OutputDir       string   `mapstructure:"output_dir" validate:"required"`
	ModelName       string   `mapstructure:"model_name" validate:"required"`
	Backend         string   `mapstructure:"backend" validate:"oneof=openai whispercpp"`
	ForcedLanguage  string   `mapstructure:"forced_language"`
	VideoExtensions []string `mapstructure:"video_extensions" validate:"dive,required"`
	AudioExtensions []string `mapstructure:"audio_extensions" validate:"dive,required"`
	ChunkMs         int      `mapstructure:"chunk_ms" validate:"gt=0"`
	LogLevel        string   `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat       string   `mapstructure:"log_format" validate:"oneof=console json"`
	TempDir         string   `mapstructure:"temp_dir"`
}

// ChunkDuration returns ChunkMs as a duration.
func (c Config) ChunkDuration() time.Duration {
	return time.Duration(c.ChunkMs) * time.Millisecond
}

// VideoSet returns the extensions that need audio extraction.
func (c Config) VideoSet() discover.ExtSet {
	return discover.NewExtSet(c.VideoExtensions...)
}

// AudioSet returns the extensions decoded directly.
func (c Config) AudioSet() discover.ExtSet {
	return discover.NewExtSet(c.AudioExtensions...)
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (c Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str(KeyInputDir, c.InputDir).
		Str(KeyOutputDir, c.OutputDir).
		Str(KeyModelName, c.ModelName).
		Str(KeyBackend, c.Backend).
		Str(KeyForcedLanguage, c.ForcedLanguage).
		Strs(KeyVideoExtensions, c.VideoExtensions).
		Strs(KeyAudioExtensions, c.AudioExtensions).
		Int(KeyChunkMs, c.ChunkMs).
		Str(KeyTempDir, c.TempDir)
}

// Validate checks struct tags, the language code and that at least one
// extension list is non-empty.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, e.Field()+": "+formatValidationError(e))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	if len(c.VideoExtensions) == 0 && len(c.AudioExtensions) == 0 {
		return fmt.Errorf("%w: %s and %s are both empty", ErrInvalid, KeyVideoExtensions, KeyAudioExtensions)
	}
	if err := lang.Validate(c.ForcedLanguage); err != nil {
		return fmt.Errorf("%s: %w", KeyForcedLanguage, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Flags and loading
// ---------------------------------------------------------------------------

// RegisterFlags defines one flag per key on fs, plus --config.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(flagNames[KeyInputDir], "i", DefaultInputDir, "directory to scan for media files (env INPUT_DIR)")
	fs.StringP(flagNames[KeyOutputDir], "o", DefaultOutputDir, "directory for .txt transcripts (env OUTPUT_DIR)")
	fs.StringP(flagNames[KeyModelName], "m", DefaultModelName, "model name, or ggml model path for whispercpp (env MODEL_NAME)")
	fs.String(flagNames[KeyBackend], DefaultBackend, "transcription backend: openai, whispercpp (env TRANSCRIBE_BACKEND)")
	fs.StringP(flagNames[KeyForcedLanguage], "l", DefaultForcedLanguage, "forced language code, auto to detect (env FORCED_LANGUAGE)")
	fs.StringSlice(flagNames[KeyVideoExtensions], DefaultVideoExtensions, "extensions that need audio extraction (env VIDEO_EXTENSIONS)")
	fs.StringSlice(flagNames[KeyAudioExtensions], DefaultAudioExtensions, "extensions decoded directly (env AUDIO_EXTENSIONS)")
	fs.Int(flagNames[KeyChunkMs], DefaultChunkMs, "chunk length in milliseconds (env CHUNK_MS)")
	fs.String(flagNames[KeyLogLevel], DefaultLogLevel, "log level: trace, debug, info, warn, error, disabled (env LOG_LEVEL)")
	fs.String(flagNames[KeyLogFormat], DefaultLogFormat, "log format: console, json (env LOG_FORMAT)")
	fs.String(flagNames[KeyTempDir], "", "directory for temporary audio files (env TEMP_DIR)")
	fs.String(FlagConfigFile, "", "YAML config file")
}

// Load resolves every key with precedence flag > env > config file > default
// and validates the result. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if fs != nil {
		for key, name := range flagNames {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
		if f := fs.Lookup(FlagConfigFile); f != nil && f.Value.String() != "" {
			v.SetConfigFile(ExpandPath(f.Value.String()))
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("%w: read config file: %v", ErrInvalid, err)
			}
		}
	}

	chunkMs, err := toInt(v.Get(KeyChunkMs))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, KeyChunkMs, err)
	}

	cfg := Config{
		InputDir:        ExpandPath(strings.TrimSpace(v.GetString(KeyInputDir))),
		OutputDir:       ExpandPath(strings.TrimSpace(v.GetString(KeyOutputDir))),
		ModelName:       strings.TrimSpace(v.GetString(KeyModelName)),
		Backend:         strings.ToLower(strings.TrimSpace(v.GetString(KeyBackend))),
		ForcedLanguage:  lang.Normalize(v.GetString(KeyForcedLanguage)),
		VideoExtensions: ParseExtensions(v.Get(KeyVideoExtensions)),
		AudioExtensions: ParseExtensions(v.Get(KeyAudioExtensions)),
		ChunkMs:         chunkMs,
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:       strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		TempDir:         ExpandPath(strings.TrimSpace(v.GetString(KeyTempDir))),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with every key at its default.
func Default() Config {
	return Config{
		InputDir:        DefaultInputDir,
		OutputDir:       DefaultOutputDir,
		ModelName:       DefaultModelName,
		Backend:         DefaultBackend,
		ForcedLanguage:  DefaultForcedLanguage,
		VideoExtensions: append([]string(nil), DefaultVideoExtensions...),
		AudioExtensions: append([]string(nil), DefaultAudioExtensions...),
		ChunkMs:         DefaultChunkMs,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyInputDir, d.InputDir)
	v.SetDefault(KeyOutputDir, d.OutputDir)
	v.SetDefault(KeyModelName, d.ModelName)
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyForcedLanguage, d.ForcedLanguage)
	v.SetDefault(KeyVideoExtensions, d.VideoExtensions)
	v.SetDefault(KeyAudioExtensions, d.AudioExtensions)
	v.SetDefault(KeyChunkMs, d.ChunkMs)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyTempDir, d.TempDir)
}

// ParseExtensions normalizes an extension list from any source: a
// comma-separated string (env), a string slice (flag, YAML list) or a YAML
// sequence of mixed values. Duplicates and blanks are dropped.
func ParseExtensions(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	case []string:
		for _, s := range val {
			parts = append(parts, strings.Split(s, ",")...)
		}
	case []any:
		for _, item := range val {
			parts = append(parts, strings.Split(cast.ToString(item), ",")...)
		}
	default:
		parts = strings.Split(cast.ToString(val), ",")
	}

	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		ext := discover.NormalizeExt(p)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

// toInt accepts decimal strings strictly; other types go through cast.
func toInt(raw any) (int, error) {
	if s, ok := raw.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", s)
		}
		return n, nil
	}
	return cast.ToIntE(raw)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param() + " (got: " + fmt.Sprint(e.Value()) + ")"
	default:
		return "is invalid"
	}
}
