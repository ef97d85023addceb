package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/batch-transcript/internal/config"
	"github.com/alnah/batch-transcript/internal/lang"
)

// ConfigCmd creates the config command.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration a batch would run with, after applying flags,
environment variables, the optional YAML file (--config) and defaults.

Prints one key=value line per setting to stdout. Exits with a validation
error if the resolved configuration is invalid.`,
		Example: `  batch-transcript config
  batch-transcript config -l en --chunk-ms 30000
  batch-transcript config --config batch.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, env)
		},
	}
}

// runConfigShow handles the "config" command.
func runConfigShow(cmd *cobra.Command, env *Env) error {
	cfg, err := env.ConfigLoader.Load(cmd.Flags())
	if err != nil {
		return err
	}
	writeConfig(env.Stdout, cfg)
	return nil
}

// writeConfig prints cfg in a stable key order.
func writeConfig(w io.Writer, cfg config.Config) {
	language := cfg.ForcedLanguage
	if lang.IsAuto(language) {
		language = "auto"
	}
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = "(system default)"
	}

	lines := [][2]string{
		{config.KeyInputDir, cfg.InputDir},
		{config.KeyOutputDir, cfg.OutputDir},
		{config.KeyBackend, cfg.Backend},
		{config.KeyModelName, cfg.ModelName},
		{config.KeyForcedLanguage, language},
		{config.KeyVideoExtensions, strings.Join(cfg.VideoExtensions, ",")},
		{config.KeyAudioExtensions, strings.Join(cfg.AudioExtensions, ",")},
		{config.KeyChunkMs, strconv.Itoa(cfg.ChunkMs)},
		{config.KeyLogLevel, cfg.LogLevel},
		{config.KeyLogFormat, cfg.LogFormat},
		{config.KeyTempDir, tempDir},
	}
	for _, kv := range lines {
		_, _ = fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1])
	}
}
