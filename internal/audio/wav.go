package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

var ErrInvalidWAV = errors.New("invalid wav file")

// DecodeFile reads a PCM WAV file into a Buffer.
func DecodeFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Probe reads only the header of path and reports whether Decode can read
// it. Extensible and IEEE-float WAVs fail with ErrInvalidWAV.
func Probe(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return checkHeader(wav.NewDecoder(f))
}

func checkHeader(dec *wav.Decoder) error {
	if !dec.IsValidFile() {
		return ErrInvalidWAV
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return fmt.Errorf("%w: unsupported audio format %d (only PCM)", ErrInvalidWAV, dec.WavAudioFormat)
	}
	return nil
}

// Decode reads PCM WAV data from r.
func Decode(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if err := checkHeader(dec); err != nil {
		return nil, err
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	if ib == nil {
		return nil, fmt.Errorf("%w: empty pcm buffer", ErrInvalidWAV)
	}

	buf := &Buffer{
		Data:       ib.Data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if buf.SampleRate == 0 && ib.Format != nil {
		buf.SampleRate = ib.Format.SampleRate
	}
	if buf.Channels == 0 && ib.Format != nil {
		buf.Channels = ib.Format.NumChannels
	}
	if buf.BitDepth == 0 {
		buf.BitDepth = ib.SourceBitDepth
	}
	if buf.SampleRate <= 0 || buf.Channels <= 0 || buf.BitDepth <= 0 {
		return nil, fmt.Errorf("%w: rate=%d channels=%d depth=%d", ErrInvalidWAV, buf.SampleRate, buf.Channels, buf.BitDepth)
	}
	return buf, nil
}

// EncodeFile writes buf as a PCM WAV file at path.
func EncodeFile(path string, buf *Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return Encode(f, buf)
}

// Encode writes buf as PCM WAV to w.
func Encode(w io.WriteSeeker, buf *Buffer) error {
	if buf == nil || buf.SampleRate <= 0 || buf.Channels <= 0 || buf.BitDepth <= 0 {
		return errors.New("encode wav: incomplete buffer format")
	}

	enc := wav.NewEncoder(w, buf.SampleRate, buf.BitDepth, buf.Channels, wavFormatPCM)
	ib := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: buf.Channels,
			SampleRate:  buf.SampleRate,
		},
		Data:           buf.Data,
		SourceBitDepth: buf.BitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
