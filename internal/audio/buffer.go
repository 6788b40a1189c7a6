package audio

// Buffer is interleaved PCM audio as decoded from a WAV container.
// Data holds one int per sample per channel, in the same representation
// go-audio uses for its IntBuffer.
type Buffer struct {
	Data       []int
	SampleRate int
	Channels   int
	BitDepth   int
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b == nil || b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// DurationMs returns the buffer length in whole milliseconds.
func (b *Buffer) DurationMs() int {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return int(int64(b.Frames()) * 1000 / int64(b.SampleRate))
}

// FrameAt converts a millisecond offset to a frame index clamped to [0, Frames()].
func (b *Buffer) FrameAt(ms int) int {
	if ms <= 0 || b.SampleRate <= 0 {
		return 0
	}
	frame := int(int64(ms) * int64(b.SampleRate) / 1000)
	if n := b.Frames(); frame > n {
		return n
	}
	return frame
}

// SilenceValue is the sample value that represents zero amplitude.
// 8-bit WAV is unsigned, every other depth is signed.
func (b *Buffer) SilenceValue() int {
	if b.BitDepth == 8 {
		return 128
	}
	return 0
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	c := *b
	c.Data = make([]int, len(b.Data))
	copy(c.Data, b.Data)
	return &c
}
