// internal/core/ports/report_archive.go
package ports

import (
	"context"
	"io"
	"time"
)

// ReportArchive stores generated report files
type ReportArchive interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
}
