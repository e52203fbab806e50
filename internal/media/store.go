// Package media stores uploaded assets on disk and streams them back to the
// preview player with HTTP range support.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/framewright/framewright-editor/internal/editor"
)

// Store writes uploads into the media directory and records them in the
// repository. File names on disk are id-prefixed so uploads never collide.
type Store struct {
	dir    string
	repo   editor.Repository
	logger *slog.Logger
}

func NewStore(dir string, repo editor.Repository, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &Store{dir: dir, repo: repo, logger: logger}, nil
}

// SaveUpload persists one uploaded file and its metadata record.
func (s *Store) SaveUpload(ctx context.Context, filename string, src io.Reader) (*editor.MediaFile, error) {
	base := sanitizeFilename(filename)
	if base == "" {
		return nil, fmt.Errorf("upload has no usable filename")
	}

	id := editor.NewID()
	path := filepath.Join(s.dir, id+"_"+base)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create media file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write media file: %w", err)
	}

	m := &editor.MediaFile{
		ID:        id,
		Filename:  base,
		Path:      path,
		Size:      size,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		os.Remove(path)
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("media stored", "media_id", id, "filename", base, "size", size)
	}
	return m, nil
}

// Lookup resolves a media id to its record, or nil when unknown.
func (s *Store) Lookup(ctx context.Context, id string) (*editor.MediaFile, error) {
	return s.repo.GetMedia(ctx, id)
}

// sanitizeFilename strips directories and anything that could escape the
// media dir, keeping only the base name.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}
