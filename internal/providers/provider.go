// Package providers contains speech-synthesis provider clients and the
// registry the rest of the system resolves them from.
package providers

import (
	"context"
	"io"
)

// Voice describes one narration voice offered by a provider.
type Voice struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Gender string `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// SpeechRequest asks a provider to narrate one chapter's text.
type SpeechRequest struct {
	Text   string
	Voice  string  // provider voice ID; empty uses the client default
	Speed  float64 // 0 uses the client default
	Format string  // audio container, e.g. "wav"; empty uses "wav"
}

// TTSProvider synthesizes speech audio from text.
type TTSProvider interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() string

	// Voices lists the narration voices the provider offers, in a stable order.
	Voices(ctx context.Context) ([]Voice, error)

	// Synthesize streams narrated audio for one request. The caller owns the
	// returned stream and must close it.
	Synthesize(ctx context.Context, req SpeechRequest) (io.ReadCloser, error)
}
