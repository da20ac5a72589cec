// internal/adapters/storage/local.go
package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ammerola/stockroom-console/internal/core/ports"
)

// LocalArchive implements ports.ReportArchive on the local filesystem.
// It is used in development when no bucket is configured.
type LocalArchive struct {
	basePath string
	logger   *slog.Logger
}

var _ ports.ReportArchive = (*LocalArchive)(nil)

// NewLocalArchive creates a new local report archive rooted at basePath
func NewLocalArchive(basePath string, logger *slog.Logger) *LocalArchive {
	return &LocalArchive{
		basePath: basePath,
		logger:   logger.With(slog.String("storage", "local")),
	}
}

func (l *LocalArchive) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}

// Upload writes the report under basePath/key
func (l *LocalArchive) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	target, err := l.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, data)
	if err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	l.logger.InfoContext(ctx, "report stored",
		slog.String("key", key),
		slog.Int64("size", n))

	return target, nil
}

// List returns keys under prefix, newest key first
func (l *LocalArchive) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(l.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// GetPresignedURL returns a file URL; local files do not expire
func (l *LocalArchive) GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error) {
	target, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(target); err != nil {
		return "", fmt.Errorf("archive file not found: %w", err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
