package providers

import (
	"context"
	"io"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	mock := NewMockTTS()
	r.Register(mock)

	got, err := r.Get(MockName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name() != MockName {
		t.Errorf("Name() = %q, want %q", got.Name(), MockName)
	}

	if _, err := r.Get("nope"); err == nil {
		t.Error("Get() on unknown name should fail")
	}

	r.Unregister(MockName)
	if _, err := r.Get(MockName); err == nil {
		t.Error("Get() after Unregister should fail")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(NewMockTTS())
	r.Register(NewOpenAIClient(OpenAIConfig{APIKey: "test"}))

	names := r.Names()
	if len(names) != 2 || names[0] != MockName || names[1] != OpenAIName {
		t.Errorf("Names() = %v, want [mock openai]", names)
	}
}

func TestMockSynthesize(t *testing.T) {
	m := NewMockTTS()
	rc, err := m.Synthesize(context.Background(), SpeechRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(data) != "RIFFhello" {
		t.Errorf("audio = %q, want RIFFhello", string(data))
	}
	if m.RequestCount() != 1 {
		t.Errorf("RequestCount() = %d, want 1", m.RequestCount())
	}
}

func TestMockSynthesizeFailure(t *testing.T) {
	m := NewMockTTS()
	m.FailOnText = "boom"
	if _, err := m.Synthesize(context.Background(), SpeechRequest{Text: "kaboom"}); err == nil {
		t.Error("expected failure for matching text")
	}
}
