package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/batch-transcript/internal/apierr"
	"github.com/alnah/batch-transcript/internal/lang"
)

// Backend names accepted by configuration.
const (
	BackendOpenAI     = "openai"
	BackendWhisperCPP = "whispercpp"
)

// DefaultOpenAIModel is the hosted model used when none is configured.
const DefaultOpenAIModel = openai.Whisper1

// Options configures one transcription call.
type Options struct {
	// Language is an ISO 639-1 code (optionally with region).
	// Empty or "auto" lets the model detect the language.
	Language string
}

// Transcriber transcribes audio files to text.
type Transcriber interface {
	// Transcribe converts one audio file to text. The text may be empty.
	// Errors are not retried; the caller decides what a failure means.
	Transcribe(ctx context.Context, audioPath string, opts Options) (string, error)
}

// audioTranscriber is an internal interface for OpenAI audio transcription.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes audio using OpenAI's transcription API.
type OpenAITranscriber struct {
	client audioTranscriber
	model  string
}

// TranscriberOption configures an OpenAITranscriber.
type TranscriberOption func(*OpenAITranscriber)

// WithModel sets the model name sent with each request.
func WithModel(model string) TranscriberOption {
	return func(t *OpenAITranscriber) {
		if model != "" {
			t.model = model
		}
	}
}

// NewOpenAITranscriber creates a transcriber backed by the given client.
func NewOpenAITranscriber(client *openai.Client, opts ...TranscriberOption) *OpenAITranscriber {
	return newOpenAITranscriber(client, opts...)
}

func newOpenAITranscriber(client audioTranscriber, opts ...TranscriberOption) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client: client,
		model:  DefaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Model returns the configured model name.
func (t *OpenAITranscriber) Model() string {
	return t.model
}

// Transcribe sends audioPath to the API in a single request.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (string, error) {
	req := openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
		Language: lang.BaseCode(opts.Language), // OpenAI only accepts ISO 639-1 base codes
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	return resp.Text, nil
}

// classifyError maps go-openai errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apierr.FromStatus(apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := http.StatusText(reqErr.HTTPStatusCode)
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return apierr.FromStatus(reqErr.HTTPStatusCode, msg)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
