package whisper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetModel(t *testing.T) {
	tests := []struct {
		id       string
		wantNil  bool
		filename string
	}{
		{"base.en", false, "ggml-base.en.bin"},
		{"large-v3-turbo", false, "ggml-large-v3-turbo.bin"},
		{"huge", true, ""},
		{"", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m := GetModel(tt.id)
			if tt.wantNil {
				if m != nil {
					t.Fatalf("expected nil, got %+v", m)
				}
				return
			}
			if m == nil || m.Filename != tt.filename {
				t.Fatalf("GetModel(%q) = %+v, want filename %s", tt.id, m, tt.filename)
			}
		})
	}
}

func TestGetDownloadURL(t *testing.T) {
	if got := GetDownloadURL("tiny.en"); got != baseDownloadURL+"/ggml-tiny.en.bin" {
		t.Errorf("unexpected url %s", got)
	}
	if got := GetDownloadURL("nope"); got != "" {
		t.Errorf("unknown model should have no url, got %s", got)
	}
}

func TestListModels_ReturnsCopy(t *testing.T) {
	list := ListModels()
	list[0].ID = "mutated"
	if ListModels()[0].ID == "mutated" {
		t.Error("ListModels should return a copy")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/data", "profanity-silencer", "models", "whisper") {
		t.Errorf("unexpected dir %s", dir)
	}
}

func TestStore_InstalledAndResolve(t *testing.T) {
	s := &Store{Dir: t.TempDir()}

	if s.IsInstalled("base.en") {
		t.Fatal("nothing should be installed yet")
	}
	if _, err := s.Resolve("base.en"); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected not installed error, got %v", err)
	}

	if err := os.WriteFile(s.Path("base.en"), []byte("ggml"), 0o644); err != nil {
		t.Fatal(err)
	}
	// empty files do not count
	if err := os.WriteFile(s.Path("tiny.en"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if got := s.Installed(); len(got) != 1 || got[0] != "base.en" {
		t.Errorf("Installed() = %v", got)
	}
	path, err := s.Resolve("base.en")
	if err != nil || path != s.Path("base.en") {
		t.Errorf("Resolve = %q, %v", path, err)
	}
	if _, err := s.Resolve("huge"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestStore_ResolveExplicitPath(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.bin")
	if err := os.WriteFile(custom, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := &Store{Dir: t.TempDir()}
	if got, err := s.Resolve(custom); err != nil || got != custom {
		t.Errorf("Resolve(path) = %q, %v", got, err)
	}
	if _, err := s.Resolve(custom + ".missing.bin"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStore_Download(t *testing.T) {
	body := strings.Repeat("w", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-tiny.en.bin" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	s := &Store{Dir: filepath.Join(t.TempDir(), "models"), BaseURL: srv.URL, Client: srv.Client()}

	var last int64
	if err := s.Download(context.Background(), "tiny.en", func(done, total int64) { last = done }); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if last != int64(len(body)) {
		t.Errorf("progress reported %d bytes, want %d", last, len(body))
	}
	data, err := os.ReadFile(s.Path("tiny.en"))
	if err != nil || string(data) != body {
		t.Fatalf("downloaded file mismatch: %v", err)
	}
	if _, err := os.Stat(s.Path("tiny.en") + ".downloading"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temp file should be gone")
	}
}

func TestStore_DownloadFailureLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	s := &Store{Dir: t.TempDir(), BaseURL: srv.URL, Client: srv.Client()}
	if err := s.Download(context.Background(), "base.en", nil); err == nil {
		t.Fatal("expected error on 404")
	}
	entries, _ := os.ReadDir(s.Dir)
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
	if err := s.Download(context.Background(), "huge", nil); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestStore_DownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Store{Dir: t.TempDir(), BaseURL: srv.URL, Client: srv.Client()}
	if err := s.Download(ctx, "base.en", nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if s.IsInstalled("base.en") {
		t.Error("cancelled download must not be installed")
	}
}

func TestStore_Remove(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	if err := s.Remove("base.en"); err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("expected not installed error, got %v", err)
	}
	os.WriteFile(s.Path("base.en"), []byte("x"), 0o644)
	if err := s.Remove("base.en"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.IsInstalled("base.en") {
		t.Error("model still installed after Remove")
	}
	if err := s.Remove("huge"); err == nil {
		t.Error("expected error for unknown model")
	}
}
