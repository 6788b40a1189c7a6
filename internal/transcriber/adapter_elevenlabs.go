package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
	"github.com/rs/zerolog/log"
)

// ElevenLabsAdapter implements Transcriber for the ElevenLabs Scribe API
type ElevenLabsAdapter struct {
	client   *http.Client
	endpoint *provider.EndpointConfig
	apiKey   string
	model    string
	language string
	keywords []string
}

// elevenLabsResponse is the part of the Scribe response carrying timings.
// Words include "spacing" and "audio_event" entries next to real words.
type elevenLabsResponse struct {
	Text  string `json:"text"`
	Words []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Type  string  `json:"type"`
	} `json:"words"`
}

// NewElevenLabsAdapter creates an adapter for ElevenLabs Scribe API
// endpoint: the endpoint config (BaseURL + Path)
// apiKey: ElevenLabs API key
// model: model ID (e.g., "scribe_v1")
// lang: provider language code
// keywords: terms to bias recognition towards
func NewElevenLabsAdapter(endpoint *provider.EndpointConfig, apiKey, model, lang string, keywords []string) *ElevenLabsAdapter {
	return &ElevenLabsAdapter{
		client:   &http.Client{Timeout: 5 * time.Minute},
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		language: lang,
		keywords: keywords,
	}
}

// Transcribe uploads the wav to Scribe and keeps the word entries
func (a *ElevenLabsAdapter) Transcribe(ctx context.Context, in Input) ([]transcript.Word, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("elevenlabs transcription needs a wav file")
	}
	body, contentType, err := a.buildForm(in.Path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("xi-api-key", a.apiKey)

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Error().Str("component", "elevenlabs-adapter").Dur("took", duration).Err(err).Msg("API call failed")
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpStatusError("elevenlabs", resp)
	}

	var result elevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	words := make([]transcript.Word, 0, len(result.Words))
	for _, w := range result.Words {
		if w.Type != "word" {
			continue
		}
		words = append(words, transcript.Word{Text: w.Text, Start: w.Start, End: w.End})
	}
	log.Debug().Str("component", "elevenlabs-adapter").Dur("took", duration).Int("words", len(words)).Msg("transcribed")
	return words, nil
}

func (a *ElevenLabsAdapter) Close() error { return nil }

func (a *ElevenLabsAdapter) buildForm(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}

	fields := [][2]string{
		{"model_id", a.model},
		{"timestamps_granularity", "word"},
		{"tag_audio_events", "false"},
	}
	if a.language != "" {
		fields = append(fields, [2]string{"language_code", a.language})
	}
	if len(a.keywords) > 0 {
		keyterms, err := json.Marshal(a.keywords)
		if err != nil {
			return nil, "", fmt.Errorf("marshal keyterms: %w", err)
		}
		fields = append(fields, [2]string{"keyterms", string(keyterms)})
	}
	for _, kv := range fields {
		if err := writer.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("write %s: %w", kv[0], err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}

// httpStatusError reads a failed response body into an error. Client
// errors other than rate limiting point at the setup, not the audio.
func httpStatusError(name string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	err := fmt.Errorf("%s API status %d: %s", name, resp.StatusCode, bytes.TrimSpace(bodyBytes))
	log.Error().Str("component", name+"-adapter").Int("status", resp.StatusCode).Msg("API returned error status")
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return newSetupError(err, hintCheckKey)
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return newSetupError(err, hintModelsList)
	}
	return err
}
