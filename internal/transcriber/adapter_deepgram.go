package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
	"github.com/rs/zerolog/log"
)

// DeepgramAdapter implements Transcriber for Deepgram pre-recorded transcription
type DeepgramAdapter struct {
	client   *http.Client
	endpoint *provider.EndpointConfig
	apiKey   string
	model    string
	language string
	keywords []string
}

type deepgramResponse struct {
	Results *struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
				Words      []struct {
					Word           string  `json:"word"`
					PunctuatedWord string  `json:"punctuated_word"`
					Start          float64 `json:"start"`
					End            float64 `json:"end"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results,omitempty"`
	ErrMsg string `json:"err_msg,omitempty"`
}

// NewDeepgramAdapter creates an adapter for Deepgram's /v1/listen endpoint
func NewDeepgramAdapter(endpoint *provider.EndpointConfig, apiKey, model, lang string, keywords []string) *DeepgramAdapter {
	return &DeepgramAdapter{
		client:   &http.Client{Timeout: 5 * time.Minute},
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		language: lang,
		keywords: keywords,
	}
}

// Transcribe streams the wav file as the request body
func (a *DeepgramAdapter) Transcribe(ctx context.Context, in Input) ([]transcript.Word, error) {
	if in.Path == "" {
		return nil, fmt.Errorf("deepgram transcription needs a wav file")
	}
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	apiURL, err := a.buildURL()
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, f)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+a.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	start := time.Now()
	resp, err := a.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Error().Str("component", "deepgram-adapter").Dur("took", duration).Err(err).Msg("API call failed")
		return nil, fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpStatusError("deepgram", resp)
	}

	var result deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if result.ErrMsg != "" {
		return nil, fmt.Errorf("deepgram error: %s", result.ErrMsg)
	}
	if result.Results == nil || len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return nil, nil
	}

	alt := result.Results.Channels[0].Alternatives[0]
	words := make([]transcript.Word, 0, len(alt.Words))
	for _, w := range alt.Words {
		text := w.PunctuatedWord
		if text == "" {
			text = w.Word
		}
		words = append(words, transcript.Word{Text: text, Start: w.Start, End: w.End})
	}
	log.Debug().Str("component", "deepgram-adapter").Dur("took", duration).Int("words", len(words)).Msg("transcribed")
	return words, nil
}

func (a *DeepgramAdapter) Close() error { return nil }

// buildURL constructs the API URL with query parameters
func (a *DeepgramAdapter) buildURL() (string, error) {
	u, err := url.Parse(a.endpoint.URL())
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set("model", a.model)
	q.Set("punctuate", "true")
	// profanity_filter would mask the very words we look for
	q.Set("profanity_filter", "false")
	if a.language != "" {
		q.Set("language", a.language)
	} else {
		q.Set("detect_language", "true")
	}

	// nova-3 uses "keyterm" (repeated), older models use "keywords"
	if len(a.keywords) > 0 {
		if strings.HasPrefix(a.model, "nova-3") {
			for _, k := range a.keywords {
				q.Add("keyterm", k)
			}
		} else {
			q.Set("keywords", strings.Join(a.keywords, ","))
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
