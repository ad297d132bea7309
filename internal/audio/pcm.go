package audio

import (
	"encoding/binary"
	"math"
)

// Buffer holds decoded PCM audio addressable by millisecond offsets.
// Samples are interleaved little-endian signed integers.
type Buffer struct {
	Data          []byte
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// BlockAlign returns the byte size of one sample frame.
func (b Buffer) BlockAlign() int {
	return b.Channels * b.BitsPerSample / 8
}

// Frames returns the number of sample frames.
func (b Buffer) Frames() int {
	if b.BlockAlign() == 0 {
		return 0
	}
	return len(b.Data) / b.BlockAlign()
}

// DurationMS returns the buffer length in whole milliseconds.
func (b Buffer) DurationMS() int {
	if b.SampleRate == 0 {
		return 0
	}
	return b.Frames() * 1000 / b.SampleRate
}

func (b Buffer) frameAtMS(ms int) int {
	frame := ms * b.SampleRate / 1000
	if frame < 0 {
		frame = 0
	}
	if frame > b.Frames() {
		frame = b.Frames()
	}
	return frame
}

// SliceMS returns the sub-range [startMS, endMS), clamped to the buffer.
// The slice shares the underlying data.
func (b Buffer) SliceMS(startMS, endMS int) Buffer {
	start := b.frameAtMS(startMS) * b.BlockAlign()
	end := b.frameAtMS(endMS) * b.BlockAlign()
	if end < start {
		end = start
	}
	return Buffer{
		Data:          b.Data[start:end],
		SampleRate:    b.SampleRate,
		Channels:      b.Channels,
		BitsPerSample: b.BitsPerSample,
	}
}

// Reverse returns a copy with the sample frames in reverse order.
func (b Buffer) Reverse() Buffer {
	align := b.BlockAlign()
	out := make([]byte, len(b.Data))
	frames := b.Frames()
	for i := 0; i < frames; i++ {
		copy(out[i*align:(i+1)*align], b.Data[(frames-1-i)*align:])
	}
	return Buffer{
		Data:          out,
		SampleRate:    b.SampleRate,
		Channels:      b.Channels,
		BitsPerSample: b.BitsPerSample,
	}
}

// DBFS returns the level of the buffer in decibels relative to full scale,
// computed from the RMS of all samples. Empty or all-zero buffers return
// negative infinity.
func (b Buffer) DBFS() float64 {
	if b.BitsPerSample != 16 || len(b.Data) < 2 {
		return math.Inf(-1)
	}
	var sum float64
	n := len(b.Data) / 2
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(b.Data[i*2:]))
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(n))
	if rms == 0 {
		return math.Inf(-1)
	}
	// Full scale for 16-bit signed audio.
	return 20 * math.Log10(rms/32768)
}
