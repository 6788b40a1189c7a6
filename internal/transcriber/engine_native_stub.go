//go:build !whisper_cpp

package transcriber

import (
	"context"
	"errors"

	"github.com/leonardotrapani/profanity-silencer/internal/transcript"
)

// ErrNativeUnavailable is returned when the binary was built without whisper.cpp.
var ErrNativeUnavailable = errors.New("whisper-native requires building with -tags whisper_cpp")

// NativeEngine is unavailable in this build.
type NativeEngine struct{}

func NewNativeEngine(modelPath, lang string, threads int) (*NativeEngine, error) {
	return nil, ErrNativeUnavailable
}

func (e *NativeEngine) Transcribe(ctx context.Context, in Input) ([]transcript.Word, error) {
	return nil, ErrNativeUnavailable
}

func (e *NativeEngine) Close() error { return nil }
