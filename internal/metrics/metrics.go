package metrics

import (
	"fmt"
	"sync"
	"time"
)

// RecordingMetrics accumulates capture statistics for one recording
// session.
type RecordingMetrics struct {
	Dataset    string
	SessionID  string
	SampleRate int
	StartTime  time.Time
	EndTime    time.Time
	AudioBytes int
	ChunkCount int
	mu         sync.Mutex
}

func NewRecordingMetrics(dataset, sessionID string, sampleRate int) *RecordingMetrics {
	return &RecordingMetrics{
		Dataset:    dataset,
		SessionID:  sessionID,
		SampleRate: sampleRate,
		StartTime:  time.Now(),
	}
}

func (m *RecordingMetrics) AddChunk(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChunkCount++
	m.AudioBytes += bytes
}

func (m *RecordingMetrics) Finalize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
}

// AudioSeconds returns the captured audio length for 16-bit mono PCM.
func (m *RecordingMetrics) AudioSeconds() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.AudioBytes) / (float64(m.SampleRate) * 2)
}

func (m *RecordingMetrics) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.EndTime.Sub(m.StartTime)
	audioSeconds := float64(m.AudioBytes) / (float64(m.SampleRate) * 2)

	return fmt.Sprintf(
		"Dataset: %s\n"+
			"Session: %s\n"+
			"Wall Duration: %v\n"+
			"Audio Duration: %.2f seconds\n"+
			"Audio Bytes: %d\n"+
			"Chunks: %d\n",
		m.Dataset,
		m.SessionID,
		duration,
		audioSeconds,
		m.AudioBytes,
		m.ChunkCount,
	)
}
