package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom-console/internal/adapters/storage"
	"github.com/ammerola/stockroom-console/test/helpers"
)

func TestArchiveKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		at       time.Time
		expected string
	}{
		{
			name:     "month_is_zero_padded",
			filename: "report-all-2025-03-09.csv",
			at:       time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
			expected: "reports/2025/03/report-all-2025-03-09.csv",
		},
		{
			name:     "converts_to_utc",
			filename: "report-value-2024-12-31.csv",
			at:       time.Date(2025, 1, 1, 2, 0, 0, 0, time.FixedZone("PKT", 5*3600)),
			expected: "reports/2024/12/report-value-2024-12-31.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, storage.ArchiveKey(tt.filename, tt.at))
		})
	}
}

func TestLocalArchive_UploadListPresign(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	archive := storage.NewLocalArchive(dir, helpers.TestLogger())

	keys := []string{
		"reports/2025/01/report-all-2025-01-05.csv",
		"reports/2025/02/report-low-stock-2025-02-01.csv",
		"other/notes.txt",
	}
	for _, key := range keys {
		location, err := archive.Upload(ctx, key, strings.NewReader("Item Name\n"), "text/csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, filepath.FromSlash(key)), location)
	}

	data, err := os.ReadFile(filepath.Join(dir, "reports", "2025", "01", "report-all-2025-01-05.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Item Name\n", string(data))

	listed, err := archive.List(ctx, storage.ReportPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"reports/2025/02/report-low-stock-2025-02-01.csv",
		"reports/2025/01/report-all-2025-01-05.csv",
	}, listed)

	link, err := archive.GetPresignedURL(ctx, keys[0], time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "file://"))
	assert.True(t, strings.HasSuffix(link, "report-all-2025-01-05.csv"))
}

func TestLocalArchive_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	archive := storage.NewLocalArchive(t.TempDir(), helpers.TestLogger())

	for _, key := range []string{"../escape.csv", "/etc/passwd", "."} {
		t.Run(key, func(t *testing.T) {
			_, err := archive.Upload(ctx, key, strings.NewReader("x"), "")
			assert.Error(t, err)
		})
	}
}

func TestLocalArchive_ListMissingDirectory(t *testing.T) {
	archive := storage.NewLocalArchive(filepath.Join(t.TempDir(), "missing"), helpers.TestLogger())

	keys, err := archive.List(context.Background(), storage.ReportPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
