package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNotInstalled is returned by Resolve for a catalogue model that has not
// been downloaded.
var ErrNotInstalled = errors.New("not installed")

// ProgressFunc is called during download with bytes downloaded and total
type ProgressFunc func(downloaded, total int64)

// Store is a directory of downloaded model files.
type Store struct {
	Dir     string
	BaseURL string
	Client  *http.Client
}

// NewStore returns a store rooted at dir. An empty dir means DefaultDir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve models directory: %w", err)
		}
		dir = d
	}
	return &Store{Dir: dir, BaseURL: baseDownloadURL, Client: http.DefaultClient}, nil
}

// Path returns where a model's file lives, or "" for unknown IDs.
func (s *Store) Path(modelID string) string {
	info := GetModel(modelID)
	if info == nil {
		return ""
	}
	return filepath.Join(s.Dir, info.Filename)
}

// IsInstalled reports whether a non-empty model file is present.
func (s *Store) IsInstalled(modelID string) bool {
	path := s.Path(modelID)
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}

// Installed returns the IDs of installed models in catalogue order.
func (s *Store) Installed() []string {
	var ids []string
	for _, m := range models {
		if s.IsInstalled(m.ID) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Resolve turns a model reference into a file path. A reference that
// looks like a path (contains a separator or ends in .bin) is used as-is.
func (s *Store) Resolve(ref string) (string, error) {
	if strings.ContainsRune(ref, os.PathSeparator) || strings.HasSuffix(ref, ".bin") {
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("model file %s: %w", ref, err)
		}
		return ref, nil
	}
	if GetModel(ref) == nil {
		return "", fmt.Errorf("unknown whisper model: %s", ref)
	}
	if !s.IsInstalled(ref) {
		return "", fmt.Errorf("whisper model %s: %w", ref, ErrNotInstalled)
	}
	return s.Path(ref), nil
}

// Download fetches a model into the store. The file is written next to
// its destination with a .downloading suffix and renamed once complete,
// so an interrupted download never looks installed.
func (s *Store) Download(ctx context.Context, modelID string, onProgress ProgressFunc) error {
	info := GetModel(modelID)
	if info == nil {
		return fmt.Errorf("unknown model: %s", modelID)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	dest := filepath.Join(s.Dir, info.Filename)
	tmp := dest + ".downloading"

	url := strings.TrimRight(s.BaseURL, "/") + "/" + info.Filename
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s", resp.Status)
	}

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			out.Close()
			os.Remove(tmp)
		}
	}()

	total := resp.ContentLength
	if total < 0 {
		total = info.SizeBytes
	}
	pw := &progressWriter{total: total, fn: onProgress}
	if _, err := io.Copy(io.MultiWriter(out, pw), contextReader{ctx: ctx, r: resp.Body}); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize download: %w", err)
	}
	committed = true

	log.Info().Str("component", "models").Str("model", modelID).Int64("bytes", pw.done).Str("path", dest).Msg("model downloaded")
	return nil
}

// Remove deletes an installed model. Removing a missing model is an error.
func (s *Store) Remove(modelID string) error {
	path := s.Path(modelID)
	if path == "" {
		return fmt.Errorf("unknown model: %s", modelID)
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("model not installed: %s", modelID)
		}
		return fmt.Errorf("failed to remove model: %w", err)
	}
	return nil
}

type progressWriter struct {
	done  int64
	total int64
	fn    ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if p.fn != nil {
		p.fn(p.done, p.total)
	}
	return len(b), nil
}

// contextReader stops a copy as soon as ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
