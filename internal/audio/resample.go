package audio

// WhisperSampleRate is the input rate whisper models are trained on.
const WhisperSampleRate = 16000

// Mono16k downmixes buf to one channel, normalizes to [-1, 1] and resamples
// to 16 kHz. Local whisper engines only accept this layout.
func Mono16k(buf *Buffer) []float32 {
	if buf == nil || buf.Frames() == 0 {
		return nil
	}
	return resampleLinear(downmix(buf), buf.SampleRate, WhisperSampleRate)
}

func downmix(buf *Buffer) []float32 {
	frames := buf.Frames()
	out := make([]float32, frames)

	depth := buf.BitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := float32(int64(1) << (depth - 1))
	offset := 0
	if depth == 8 {
		offset = 128
	}

	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < buf.Channels; c++ {
			sum += float32(buf.Data[i*buf.Channels+c]-offset) / scale
		}
		out[i] = sum / float32(buf.Channels)
	}
	return out
}

// resampleLinear resamples from inRate to outRate using linear interpolation.
func resampleLinear(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := int(int64(len(samples)) * int64(outRate) / int64(inRate))
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float32, outLen)
	for i := range out {
		srcPos := float64(i) / ratio
		i0 := int(srcPos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcPos - float64(i0))
		out[i] = samples[i0] + (samples[i0+1]-samples[i0])*frac
	}
	return out
}

// Mono16kPCM is Mono16k re-quantized to 16-bit PCM, ready for EncodeFile.
func Mono16kPCM(buf *Buffer) *Buffer {
	samples := Mono16k(buf)
	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}
	return &Buffer{
		Data:       data,
		SampleRate: WhisperSampleRate,
		Channels:   1,
		BitDepth:   16,
	}
}
