package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
)

const MockName = "mock"

// MockTTS is a TTSProvider for testing. It returns deterministic audio bytes
// derived from the request text and can be told to fail on a given request.
type MockTTS struct {
	// FailOnText makes Synthesize fail when the request text contains this
	// substring. Empty never fails.
	FailOnText string

	// AudioPrefix is prepended to the fake audio bytes.
	AudioPrefix string

	requestCount atomic.Int64
}

// NewMockTTS creates a mock provider with defaults.
func NewMockTTS() *MockTTS {
	return &MockTTS{AudioPrefix: "RIFF"}
}

// Name returns the provider identifier.
func (m *MockTTS) Name() string {
	return MockName
}

// Voices returns a small fixed catalog.
func (m *MockTTS) Voices(ctx context.Context) ([]Voice, error) {
	return []Voice{
		{ID: "test-a", Name: "Test A", Locale: "en-US", Gender: "female"},
		{ID: "test-b", Name: "Test B", Locale: "en-GB", Gender: "male"},
	}, nil
}

// Synthesize returns fake audio bytes: the configured prefix followed by the
// request text. Honors context cancellation and FailOnText.
func (m *MockTTS) Synthesize(ctx context.Context, req SpeechRequest) (io.ReadCloser, error) {
	m.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.FailOnText != "" && bytes.Contains([]byte(req.Text), []byte(m.FailOnText)) {
		return nil, fmt.Errorf("mock synthesis failure for %q", m.FailOnText)
	}
	return io.NopCloser(bytes.NewReader([]byte(m.AudioPrefix + req.Text))), nil
}

// RequestCount returns how many Synthesize calls were made.
func (m *MockTTS) RequestCount() int64 {
	return m.requestCount.Load()
}
