package cliout

import (
	"bytes"
	"strings"
	"testing"
)

func TestFprint(t *testing.T) {
	data := map[string]any{"title": "My Book", "chapters": 3}

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Fprint(&buf, FormatYAML, data); err != nil {
			t.Fatalf("Fprint() error = %v", err)
		}
		if !strings.Contains(buf.String(), "title: My Book") {
			t.Errorf("unexpected yaml output: %s", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Fprint(&buf, FormatJSON, data); err != nil {
			t.Fatalf("Fprint() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"chapters": 3`) {
			t.Errorf("unexpected json output: %s", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := Fprint(&bytes.Buffer{}, Format("xml"), data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSetFormat(t *testing.T) {
	defer SetFormat("yaml")

	SetFormat("json")
	if current != FormatJSON {
		t.Errorf("current = %s, want json", current)
	}
	SetFormat("nonsense")
	if current != FormatYAML {
		t.Errorf("current = %s, want yaml fallback", current)
	}
}
