package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// OpenAIAdapter talks to any OpenAI-compatible transcription endpoint
// (OpenAI itself, Groq) and asks for word-level timestamps.
type OpenAIAdapter struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAIAdapter creates an adapter for an OpenAI-compatible endpoint
func NewOpenAIAdapter(endpoint *provider.EndpointConfig, apiKey, model, lang string) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(apiKey)
	if endpoint != nil && endpoint.BaseURL != "" {
		clientConfig.BaseURL = endpoint.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: 5 * time.Minute}

	return &OpenAIAdapter{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: lang,
	}
}

func (a *OpenAIAdapter) Transcribe(ctx context.Context, in Input) ([]transcript.Word, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("openai transcription needs a wav file")
	}
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	req := openai.AudioRequest{
		Model:                  a.model,
		Reader:                 f,
		FilePath:               filepath.Base(in.Path),
		Language:               a.language,
		Format:                 openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{openai.TranscriptionTimestampGranularityWord},
	}

	start := time.Now()
	resp, err := a.client.CreateTranscription(ctx, req)
	duration := time.Since(start)
	if err != nil {
		log.Error().Str("component", "openai-adapter").Dur("took", duration).Err(err).Msg("API call failed")
		return nil, classifyOpenAIError(err)
	}

	words := make([]transcript.Word, 0, len(resp.Words))
	for _, w := range resp.Words {
		words = append(words, transcript.Word{Text: strings.TrimSpace(w.Word), Start: w.Start, End: w.End})
	}
	log.Debug().Str("component", "openai-adapter").Dur("took", duration).Int("words", len(words)).Msg("transcribed")
	return words, nil
}

func (a *OpenAIAdapter) Close() error { return nil }

// classifyOpenAIError marks auth and request-shape failures as setup errors.
func classifyOpenAIError(err error) error {
	err = fmt.Errorf("openai transcription: %w", err)
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return newSetupError(err, hintCheckKey)
		case http.StatusBadRequest, http.StatusNotFound:
			return newSetupError(err, hintModelsList)
		}
	}
	return err
}
