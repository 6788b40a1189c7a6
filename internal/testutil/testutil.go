// Package testutil holds fixtures shared by the package tests: stand-in
// executables on PATH and small WAV signals.
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/leonardotrapani/profanity-silencer/internal/audio"
)

// RequirePOSIX skips tests that rely on /bin/sh scripts.
func RequirePOSIX(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools need a POSIX shell")
	}
}

// WriteScript writes an executable shell script named name into dir and
// returns its path. A fresh temp dir is used when dir is empty.
func WriteScript(t *testing.T, dir, name, script string) string {
	t.Helper()
	RequirePOSIX(t)
	if dir == "" {
		dir = t.TempDir()
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake %s: %v", name, err)
	}
	return path
}

// PrependPath puts dir first on PATH for the duration of the test.
func PrependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// WriteFile creates path with data, failing the test on error.
func WriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Constant returns a 16-bit buffer of frames frames where every sample is v.
func Constant(frames, rate, channels, v int) *audio.Buffer {
	data := make([]int, frames*channels)
	for i := range data {
		data[i] = v
	}
	return &audio.Buffer{Data: data, SampleRate: rate, Channels: channels, BitDepth: 16}
}

// WriteWAV encodes buf to path.
func WriteWAV(t *testing.T, path string, buf *audio.Buffer) {
	t.Helper()
	if err := audio.EncodeFile(path, buf); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
}

// ExtensibleWAV builds a 16-bit WAVE_FORMAT_EXTENSIBLE file with the PCM
// subformat, as written by many recorders for multichannel audio.
func ExtensibleWAV(rate, channels int, samples []int16) []byte {
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, samples)

	var b bytes.Buffer
	le := func(v any) { binary.Write(&b, binary.LittleEndian, v) }
	blockAlign := channels * 2

	b.WriteString("RIFF")
	le(uint32(4 + 8 + 40 + 8 + data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	le(uint32(40))
	le(uint16(0xFFFE))
	le(uint16(channels))
	le(uint32(rate))
	le(uint32(rate * blockAlign))
	le(uint16(blockAlign))
	le(uint16(16))
	le(uint16(22))
	le(uint16(16))
	le(uint32(0x4))
	// KSDATAFORMAT_SUBTYPE_PCM
	b.Write([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})
	b.WriteString("data")
	le(uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}
