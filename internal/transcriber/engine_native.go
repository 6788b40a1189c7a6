//go:build whisper_cpp

package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/leonardotrapani/profanity-silencer/internal/audio"
	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
	"github.com/rs/zerolog/log"
)

// NativeEngine runs whisper.cpp in-process through its Go bindings.
type NativeEngine struct {
	model    whisperpkg.Model
	threads  uint
	language string
	mu       sync.Mutex // whisper contexts must not process concurrently
}

// NewNativeEngine loads the ggml model at modelPath.
func NewNativeEngine(modelPath, lang string, threads int) (*NativeEngine, error) {
	n := uint(runtime.NumCPU())
	if threads > 0 {
		n = uint(threads)
	}
	if lang == "" {
		lang = "auto"
	}

	m, err := whisperpkg.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	log.Info().Str("component", "whisper-native").Str("model", modelPath).Uint("threads", n).Msg("model loaded")
	return &NativeEngine{model: m, threads: n, language: lang}, nil
}

func (e *NativeEngine) Transcribe(ctx context.Context, in Input) ([]transcript.Word, error) {
	samples := audio.Mono16k(in.Audio)
	if len(samples) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	wctx, err := e.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	wctx.SetThreads(e.threads)
	if err := wctx.SetLanguage(e.language); err != nil {
		return nil, newSetupError(fmt.Errorf("set language %q: %w", e.language, err), hintLanguage)
	}
	wctx.SetSplitOnWord(true)
	wctx.SetTokenTimestamps(true)
	wctx.SetMaxSegmentLength(1)

	start := time.Now()
	// the encoder callback is the only hook that can stop a running process
	abort := func() bool { return ctx.Err() == nil }
	if err := wctx.Process(samples, abort, nil, nil); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("process audio: %w", err)
	}

	var words []transcript.Word
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" || isAnnotation(text) {
			continue
		}
		words = append(words, transcript.Word{
			Text:  text,
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
		})
	}

	log.Debug().Str("component", "whisper-native").Dur("took", time.Since(start)).Int("words", len(words)).Msg("transcribed")
	return words, nil
}

func (e *NativeEngine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}
