package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/alnah/batch-transcript/internal/config"
)

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.InputDir = "/media/in"
	cfg.OutputDir = "/media/out"

	var buf strings.Builder
	writeConfig(&buf, cfg)

	want := strings.Join([]string{
		"input_dir=/media/in",
		"output_dir=/media/out",
		"backend=openai",
		"model_name=whisper-1",
		"forced_language=fr",
		"video_extensions=.m4v,.mp4,.mov,.avi,.mkv",
		"audio_extensions=.wav,.mp3,.m4a,.flac,.ogg",
		"chunk_ms=10000",
		"log_level=warn",
		"log_format=console",
		"temp_dir=(system default)",
	}, "\n") + "\n"

	if got := buf.String(); got != want {
		t.Errorf("writeConfig() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteConfig_AutoLanguage(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "auto"} {
		cfg := config.Default()
		cfg.ForcedLanguage = code
		cfg.TempDir = "/scratch"

		var buf strings.Builder
		writeConfig(&buf, cfg)
		out := buf.String()

		if !strings.Contains(out, "forced_language=auto\n") {
			t.Errorf("language %q: output missing forced_language=auto\n%s", code, out)
		}
		if !strings.Contains(out, "temp_dir=/scratch\n") {
			t.Errorf("output missing temp_dir\n%s", out)
		}
	}
}

func TestConfigCmd(t *testing.T) {
	t.Parallel()

	stdout := &syncBuffer{}
	env, m := testEnv(withTestStdout(stdout))
	m.configLoader.LoadFunc = func(*pflag.FlagSet) (config.Config, error) {
		cfg := config.Default()
		cfg.ChunkMs = 30000
		return cfg, nil
	}

	cmd := BatchCmd(env)
	cmd.SetArgs([]string{"config"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config command unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "chunk_ms=30000\n") {
		t.Errorf("stdout = %q, want chunk_ms=30000", stdout.String())
	}
	// Showing the configuration never touches ffmpeg or the model.
	if len(m.transcriber.Specs()) != 0 || m.ffmpegResolver.CheckVersionCalls() != 0 {
		t.Error("config command reached the batch setup")
	}
}

func TestConfigCmd_InvalidConfig(t *testing.T) {
	t.Parallel()

	stdout := &syncBuffer{}
	env, m := testEnv(withTestStdout(stdout))
	m.configLoader.LoadFunc = func(*pflag.FlagSet) (config.Config, error) {
		return config.Config{}, config.ErrInvalid
	}

	cmd := BatchCmd(env)
	cmd.SetArgs([]string{"config"})
	cmd.SetErr(&syncBuffer{})
	err := cmd.ExecuteContext(context.Background())
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("config command error = %v, want ErrInvalid", err)
	}
	if stdout.String() != "" {
		t.Errorf("stdout = %q, want nothing on error", stdout.String())
	}
}

func TestConfigCmd_RealLoaderFlags(t *testing.T) {
	t.Parallel()

	stdout := &syncBuffer{}
	env, _ := testEnv(withTestStdout(stdout))
	env.ConfigLoader = defaultConfigLoader{}

	cmd := BatchCmd(env)
	cmd.SetArgs([]string{"config", "-i", "/data/videos", "-l", "EN", "--chunk-ms", "5000", "--video-ext", "MP4,.webm"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config command unexpected error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"input_dir=/data/videos\n",
		"forced_language=en\n",
		"chunk_ms=5000\n",
		"video_extensions=.mp4,.webm\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q\n%s", want, out)
		}
	}
}
