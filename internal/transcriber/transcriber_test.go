package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/provider"
	"github.com/leonardotrapani/profanity-silencer/internal/testutil"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
)

func testInput(t *testing.T) Input {
	t.Helper()
	buf := testutil.Constant(16000, 16000, 1, 0)
	path := filepath.Join(t.TempDir(), "in.wav")
	testutil.WriteWAV(t, path, buf)
	return Input{Path: path, Audio: buf}
}

func wordsEqual(a, b []transcript.Word) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "nope"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNew_MissingAPIKeyIsSetupError(t *testing.T) {
	t.Setenv(provider.EnvOpenAIKey, "")
	_, err := New(Config{Provider: provider.ProviderOpenAI})
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !IsSetupError(err) {
		t.Errorf("missing key should be a setup error, got %v", err)
	}
	if !strings.Contains(err.Error(), provider.EnvOpenAIKey) {
		t.Errorf("error should name the env var, got %v", err)
	}
}

func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(provider.EnvDeepgramKey, "dg-key")
	tr, err := New(Config{Provider: provider.ProviderDeepgram})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dg, ok := tr.(*DeepgramAdapter)
	if !ok {
		t.Fatalf("expected *DeepgramAdapter, got %T", tr)
	}
	if dg.apiKey != "dg-key" || dg.model != "nova-3" {
		t.Errorf("unexpected adapter %+v", dg)
	}
}

func TestNew_AdapterSelection(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		want     string
	}{
		{provider.ProviderOpenAI, "whisper-1", "*transcriber.OpenAIAdapter"},
		{provider.ProviderGroq, "whisper-large-v3", "*transcriber.OpenAIAdapter"},
		{provider.ProviderElevenLabs, "", "*transcriber.ElevenLabsAdapter"},
		{provider.ProviderDeepgram, "nova-2", "*transcriber.DeepgramAdapter"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			tr, err := New(Config{Provider: tt.provider, Model: tt.model, APIKey: "key"})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer tr.Close()
			if got := fmt.Sprintf("%T", tr); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNew_UnknownModelIsSetupError(t *testing.T) {
	_, err := New(Config{Provider: provider.ProviderOpenAI, Model: "gpt-4o-transcribe", APIKey: "sk-x"})
	if !IsSetupError(err) {
		t.Errorf("expected setup error, got %v", err)
	}
}

func TestNew_LocalModelNotInstalled(t *testing.T) {
	_, err := New(Config{Provider: provider.ProviderWhisperCpp, Model: "base.en", ModelDir: t.TempDir()})
	if err == nil || !IsSetupError(err) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if !strings.Contains(err.Error(), "not installed") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNew_NativeFailsOnBadModel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ggml-base.en.bin"), []byte("not a model"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(Config{Provider: provider.ProviderWhisperNative, Model: "base.en", ModelDir: dir})
	if err == nil || !IsSetupError(err) {
		t.Fatalf("expected setup error, got %v", err)
	}
}

func TestSetupError(t *testing.T) {
	base := errors.New("boom")
	err := newSetupError(base, "do the thing")
	if !errors.Is(err, base) {
		t.Error("setup error should unwrap to its cause")
	}
	if newSetupError(nil, "x") != nil {
		t.Error("wrapping nil should return nil")
	}
	if IsSetupError(base) || SetupHint(base) != "" {
		t.Error("plain error is not a setup error")
	}
	wrapped := fmt.Errorf("stage: %w", err)
	if got := SetupHint(wrapped); got != "do the thing" {
		t.Errorf("SetupHint through wrapping = %q", got)
	}
}

func TestNew_SetupHints(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PATH", t.TempDir())

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing key", Config{Provider: provider.ProviderOpenAI}, "configure"},
		{"unknown cloud model", Config{Provider: provider.ProviderGroq, Model: "huge", APIKey: "gsk_x"}, "models list"},
		{"model not downloaded", Config{Provider: provider.ProviderWhisperCpp, Model: "small", ModelDir: t.TempDir()}, "models download small"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if hint := SetupHint(err); !strings.Contains(hint, tt.want) {
				t.Errorf("hint = %q, want it to mention %q", hint, tt.want)
			}
		})
	}
}

func TestNew_WhisperCliMissingHint(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "ggml-base.en.bin"), []byte("model"))
	t.Setenv("PATH", t.TempDir())

	_, err := New(Config{Provider: provider.ProviderWhisperCpp, Model: "base.en", ModelDir: dir})
	if hint := SetupHint(err); !strings.Contains(hint, "whisper-cli") {
		t.Errorf("err = %v, hint = %q", err, hint)
	}
}

func TestParseWhisperCliJSON(t *testing.T) {
	raw := []byte(`{
		"transcription": [
			{"offsets": {"from": 0, "to": 0}, "text": "[BLANK_AUDIO]"},
			{"offsets": {"from": 1000, "to": 1400}, "text": " shit"},
			{"offsets": {"from": 1400, "to": 1600}, "text": " you"},
			{"offsets": {"from": 1600, "to": 1600}, "text": " "},
			{"offsets": {"from": 2000, "to": 2300}, "text": " (music)"}
		]
	}`)
	words, err := parseWhisperCliJSON(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []transcript.Word{{Text: "shit", Start: 1.0, End: 1.4}, {Text: "you", Start: 1.4, End: 1.6}}
	if !wordsEqual(words, want) {
		t.Errorf("got %+v, want %+v", words, want)
	}

	if _, err := parseWhisperCliJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid json")
	}
}

// writeFakeWhisperCli writes a shell script that mimics whisper-cli -oj.
func writeFakeWhisperCli(t *testing.T, exitCode string) string {
	t.Helper()
	script := `#!/bin/sh
of=""
wav=""
while [ $# -gt 0 ]; do
  case "$1" in
    -of) of="$2"; shift ;;
    -f) wav="$2"; shift ;;
  esac
  shift
done
[ -f "$wav" ] || { echo "missing wav" >&2; exit 3; }
cat > "$of.json" <<'JSON'
{"transcription":[{"offsets":{"from":250,"to":500},"text":" damn"}]}
JSON
exit ` + exitCode + "\n"
	return testutil.WriteScript(t, "", "whisper-cli", script)
}

func fakeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggml-test.bin")
	testutil.WriteFile(t, path, []byte("model"))
	return path
}

func TestWhisperCliAdapter_Transcribe(t *testing.T) {
	a := NewWhisperCliAdapter(writeFakeWhisperCli(t, "0"), fakeModel(t), "en", 2)
	words, err := a.Transcribe(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	want := []transcript.Word{{Text: "damn", Start: 0.25, End: 0.5}}
	if !wordsEqual(words, want) {
		t.Errorf("got %+v, want %+v", words, want)
	}
}

func TestWhisperCliAdapter_CommandFails(t *testing.T) {
	a := NewWhisperCliAdapter(writeFakeWhisperCli(t, "1"), fakeModel(t), "", 0)
	if _, err := a.Transcribe(context.Background(), testInput(t)); err == nil {
		t.Fatal("expected error when whisper-cli exits non-zero")
	}
}

func TestWhisperCliAdapter_MissingModel(t *testing.T) {
	a := NewWhisperCliAdapter("whisper-cli", "/nonexistent/model.bin", "en", 0)
	_, err := a.Transcribe(context.Background(), testInput(t))
	if err == nil || !IsSetupError(err) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if !strings.Contains(err.Error(), "model file not found") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestWhisperCliAdapter_EmptyAudio(t *testing.T) {
	a := NewWhisperCliAdapter("whisper-cli", "/nonexistent/model.bin", "en", 0)
	words, err := a.Transcribe(context.Background(), Input{Audio: &audio.Buffer{SampleRate: 16000, Channels: 1, BitDepth: 16}})
	if err != nil || words != nil {
		t.Errorf("expected no words and no error, got %v, %v", words, err)
	}
}

func TestOpenAIAdapter_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q", got)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task":"transcribe","language":"english","duration":1.0,"text":"oh shit",
			"words":[{"word":"oh","start":0.1,"end":0.3},{"word":" shit","start":0.3,"end":0.7}]}`))
	}))
	defer srv.Close()

	a := NewOpenAIAdapter(&provider.EndpointConfig{BaseURL: srv.URL + "/v1"}, "sk-test", "whisper-1", "en")
	words, err := a.Transcribe(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	want := []transcript.Word{{Text: "oh", Start: 0.1, End: 0.3}, {Text: "shit", Start: 0.3, End: 0.7}}
	if !wordsEqual(words, want) {
		t.Errorf("got %+v, want %+v", words, want)
	}
}

func TestOpenAIAdapter_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	a := NewOpenAIAdapter(&provider.EndpointConfig{BaseURL: srv.URL + "/v1"}, "sk-bad", "whisper-1", "")
	_, err := a.Transcribe(context.Background(), testInput(t))
	if err == nil || !IsSetupError(err) {
		t.Fatalf("expected setup error, got %v", err)
	}
}

func TestElevenLabsAdapter_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "el-key" {
			t.Errorf("missing api key header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("model_id"); got != "scribe_v1" {
			t.Errorf("model_id = %q", got)
		}
		if got := r.FormValue("timestamps_granularity"); got != "word" {
			t.Errorf("timestamps_granularity = %q", got)
		}
		var keyterms []string
		if err := json.Unmarshal([]byte(r.FormValue("keyterms")), &keyterms); err != nil || len(keyterms) != 2 {
			t.Errorf("keyterms = %q", r.FormValue("keyterms"))
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"text": "well damn",
			"words": []map[string]any{
				{"text": "well", "start": 0.0, "end": 0.2, "type": "word"},
				{"text": " ", "start": 0.2, "end": 0.25, "type": "spacing"},
				{"text": "damn", "start": 0.25, "end": 0.6, "type": "word"},
				{"text": "(laughter)", "start": 0.6, "end": 1.0, "type": "audio_event"},
			},
		})
	}))
	defer srv.Close()

	a := NewElevenLabsAdapter(&provider.EndpointConfig{BaseURL: srv.URL, Path: "/v1/speech-to-text"}, "el-key", "scribe_v1", "", []string{"damn", "shit"})
	words, err := a.Transcribe(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	want := []transcript.Word{{Text: "well", Start: 0, End: 0.2}, {Text: "damn", Start: 0.25, End: 0.6}}
	if !wordsEqual(words, want) {
		t.Errorf("got %+v, want %+v", words, want)
	}
}

func TestHTTPAdapters_StatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		wantSetup bool
	}{
		{http.StatusUnauthorized, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()
			endpoint := &provider.EndpointConfig{BaseURL: srv.URL, Path: "/x"}

			adapters := []Transcriber{
				NewElevenLabsAdapter(endpoint, "k", "scribe_v1", "", nil),
				NewDeepgramAdapter(endpoint, "k", "nova-3", "", nil),
			}
			for _, a := range adapters {
				_, err := a.Transcribe(context.Background(), testInput(t))
				if err == nil {
					t.Fatalf("%T: expected error", a)
				}
				if IsSetupError(err) != tt.wantSetup {
					t.Errorf("%T: setup = %v, want %v (%v)", a, IsSetupError(err), tt.wantSetup, err)
				}
			}
		})
	}
}

func TestDeepgramAdapter_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Token dg" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "audio/wav" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		q := r.URL.Query()
		if q.Get("model") != "nova-3" || q.Get("profanity_filter") != "false" {
			t.Errorf("unexpected query %v", q)
		}
		if got := q["keyterm"]; len(got) != 2 {
			t.Errorf("keyterm = %v", got)
		}
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"what the hell",
			"words":[{"word":"what","punctuated_word":"What","start":0.0,"end":0.2},
			{"word":"the","start":0.2,"end":0.3},
			{"word":"hell","punctuated_word":"hell.","start":0.3,"end":0.6}]}]}]}}`))
	}))
	defer srv.Close()

	a := NewDeepgramAdapter(&provider.EndpointConfig{BaseURL: srv.URL, Path: "/v1/listen"}, "dg", "nova-3", "", []string{"hell", "damn"})
	words, err := a.Transcribe(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	want := []transcript.Word{
		{Text: "What", Start: 0, End: 0.2},
		{Text: "the", Start: 0.2, End: 0.3},
		{Text: "hell.", Start: 0.3, End: 0.6},
	}
	if !wordsEqual(words, want) {
		t.Errorf("got %+v, want %+v", words, want)
	}
}

func TestDeepgramAdapter_BuildURL(t *testing.T) {
	endpoint := &provider.EndpointConfig{BaseURL: "https://api.deepgram.com", Path: "/v1/listen"}

	a := NewDeepgramAdapter(endpoint, "k", "nova-2", "en", []string{"damn", "shit"})
	u, err := a.buildURL()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(u, "keywords=damn%2Cshit") || !strings.Contains(u, "language=en") {
		t.Errorf("unexpected url %s", u)
	}

	a = NewDeepgramAdapter(endpoint, "k", "nova-3", "", nil)
	u, _ = a.buildURL()
	if !strings.Contains(u, "detect_language=true") || strings.Contains(u, "keyterm") {
		t.Errorf("unexpected url %s", u)
	}
}

func TestDeepgramAdapter_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"channels":[]}}`))
	}))
	defer srv.Close()

	a := NewDeepgramAdapter(&provider.EndpointConfig{BaseURL: srv.URL}, "k", "nova-3", "", nil)
	words, err := a.Transcribe(context.Background(), testInput(t))
	if err != nil || len(words) != 0 {
		t.Errorf("expected no words, got %v, %v", words, err)
	}
}
