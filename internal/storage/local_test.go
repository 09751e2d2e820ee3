package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bookvoice/bookvoice/internal/config"
)

func TestLocal(t *testing.T) {
	adapter, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer adapter.Close()

	ctx := context.Background()
	key := "author/book.m4b"
	data := []byte("m4b bytes")

	t.Run("Put", func(t *testing.T) {
		if err := adapter.Put(ctx, key, bytes.NewReader(data)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := adapter.Exists(ctx, key)
		if err != nil {
			t.Fatalf("Exists() error = %v", err)
		}
		if !ok {
			t.Error("file should exist after Put")
		}
	})

	t.Run("Get", func(t *testing.T) {
		r, err := adapter.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		defer r.Close()
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Get() = %q, want %q", got, data)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := adapter.Put(ctx, "author/other.m4b", bytes.NewReader([]byte("x"))); err != nil {
			t.Fatal(err)
		}
		keys, err := adapter.List(ctx, "author/")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(keys) != 2 {
			t.Errorf("List() = %v, want 2 keys", keys)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := adapter.Delete(ctx, key); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		ok, err := adapter.Exists(ctx, key)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("file should not exist after Delete")
		}
		// Deleting again is not an error.
		if err := adapter.Delete(ctx, key); err != nil {
			t.Errorf("repeat Delete() error = %v", err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := adapter.Get(ctx, "nope.m4b"); err == nil {
			t.Error("expected error for missing key")
		}
	})
}

// flakyAdapter fails its first Put attempts, then delegates to Local.
type flakyAdapter struct {
	*Local
	failures int
}

func (f *flakyAdapter) Put(ctx context.Context, key string, data io.Reader) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("transient upload failure")
	}
	return f.Local.Put(ctx, key, data)
}

func TestPublishRetries(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	adapter := &flakyAdapter{Local: local, failures: 2}

	src := filepath.Join(t.TempDir(), "book.m4b")
	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := Publish(ctx, adapter, src, "library/book.m4b"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	ok, err := adapter.Exists(ctx, "library/book.m4b")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("published file missing after retries")
	}
}

func TestPublishMissingSource(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	err = Publish(context.Background(), local, "/does/not/exist.m4b", "k")
	if err == nil {
		t.Error("expected error for missing source file")
	}
}

func TestNewAdapter(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		a, err := NewAdapter(context.Background(), config.StorageCfg{
			Type:  "local",
			Local: config.LocalStorageCfg{Dir: t.TempDir()},
		})
		if err != nil {
			t.Fatalf("NewAdapter() error = %v", err)
		}
		if _, ok := a.(*Local); !ok {
			t.Errorf("NewAdapter() = %T, want *Local", a)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewAdapter(context.Background(), config.StorageCfg{Type: "ftp"}); err == nil {
			t.Error("expected error for unknown storage type")
		}
	})
}
