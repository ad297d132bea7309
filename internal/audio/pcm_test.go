package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

// pcmBuffer builds a mono 16-bit buffer from sample values.
func pcmBuffer(rate int, samples []int16) Buffer {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return Buffer{Data: data, SampleRate: rate, Channels: 1, BitsPerSample: 16}
}

// tone generates ms milliseconds of constant-amplitude samples.
func tone(rate, ms int, amplitude int16) []int16 {
	n := ms * rate / 1000
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = amplitude
	}
	return samples
}

func TestDurationMS(t *testing.T) {
	buf := pcmBuffer(22050, tone(22050, 100, 0))
	if got := buf.DurationMS(); got != 100 {
		t.Errorf("DurationMS = %d, want 100", got)
	}
}

func TestDBFSSilenceIsNegativeInfinity(t *testing.T) {
	buf := pcmBuffer(22050, tone(22050, 10, 0))
	if got := buf.DBFS(); !math.IsInf(got, -1) {
		t.Errorf("DBFS of silence = %v, want -Inf", got)
	}
	if got := (Buffer{SampleRate: 22050, Channels: 1, BitsPerSample: 16}).DBFS(); !math.IsInf(got, -1) {
		t.Errorf("DBFS of empty buffer = %v, want -Inf", got)
	}
}

func TestDBFSFullScale(t *testing.T) {
	// A constant signal at half of full scale sits at about -6 dBFS.
	buf := pcmBuffer(22050, tone(22050, 10, 16384))
	got := buf.DBFS()
	if math.Abs(got-(-6.02)) > 0.1 {
		t.Errorf("DBFS of half-scale tone = %.2f, want about -6.02", got)
	}
}

func TestSliceMS(t *testing.T) {
	samples := make([]int16, 1000) // 1000 frames at 1 kHz = 1000 ms
	for i := range samples {
		samples[i] = int16(i)
	}
	buf := pcmBuffer(1000, samples)

	slice := buf.SliceMS(100, 200)
	if slice.Frames() != 100 {
		t.Fatalf("slice frames = %d, want 100", slice.Frames())
	}
	first := int16(binary.LittleEndian.Uint16(slice.Data))
	if first != 100 {
		t.Errorf("first sample of slice = %d, want 100", first)
	}
}

func TestSliceMSClampsToBuffer(t *testing.T) {
	buf := pcmBuffer(1000, make([]int16, 50))
	slice := buf.SliceMS(40, 200)
	if slice.Frames() != 10 {
		t.Errorf("clamped slice frames = %d, want 10", slice.Frames())
	}
	empty := buf.SliceMS(100, 200)
	if empty.Frames() != 0 {
		t.Errorf("out-of-range slice frames = %d, want 0", empty.Frames())
	}
}

func TestReverse(t *testing.T) {
	buf := pcmBuffer(1000, []int16{1, 2, 3})
	rev := buf.Reverse()

	want := []int16{3, 2, 1}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(rev.Data[i*2:]))
		if got != w {
			t.Errorf("reversed sample %d = %d, want %d", i, got, w)
		}
	}
	// Original untouched.
	if first := int16(binary.LittleEndian.Uint16(buf.Data)); first != 1 {
		t.Errorf("Reverse mutated its receiver")
	}
}
