// Package voices aggregates narration voices across configured TTS providers
// for presentation to the user.
package voices

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bookvoice/bookvoice/internal/providers"
)

// Entry is one selectable voice together with its provider.
type Entry struct {
	Provider string `json:"provider" yaml:"provider"`
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Locale   string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Gender   string `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// List fetches voices from every registered provider, in registry name
// order. A provider that fails to list is skipped with a warning so one
// misconfigured backend does not hide the others.
func List(ctx context.Context, reg *providers.Registry, logger *slog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var entries []Entry
	for _, name := range reg.Names() {
		p, err := reg.Get(name)
		if err != nil {
			continue
		}
		vs, err := p.Voices(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("failed to list voices", "provider", name, "error", err)
			continue
		}
		for _, v := range vs {
			entries = append(entries, Entry{
				Provider: name,
				ID:       v.ID,
				Name:     v.Name,
				Locale:   v.Locale,
				Gender:   v.Gender,
			})
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no voices available from %d provider(s)", len(reg.Names()))
	}
	return entries, nil
}
