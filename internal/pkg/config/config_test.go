package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom-console/internal/pkg/config"
	"github.com/ammerola/stockroom-console/test/helpers"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.BaseURL)
	assert.Zero(t, cfg.Backend.RequestTimeout)
	assert.Equal(t, 10, cfg.Session.PageSize)
	assert.Equal(t, "stockroom_session", cfg.Session.CookieName)
	assert.Equal(t, 10000, cfg.Reports.FetchCap)
	assert.Equal(t, "PKR", cfg.Reports.Currency)
	assert.Equal(t, config.ArchiveLocal, cfg.Reports.ArchiveDriver)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CategoryTTL)
	assert.Equal(t, 3, cfg.Asynq.Queues["default"])
	assert.Equal(t, "0.0.0.0:3000", cfg.GetServerAddress())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("BACKEND_BASE_URL", "https://inventory.internal/api")
	t.Setenv("BACKEND_REQUEST_TIMEOUT", "5s")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("REPORT_ARCHIVE_DRIVER", "S3")
	t.Setenv("AWS_S3_BUCKET", "reports-bucket")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://inventory.internal/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, 25, cfg.Session.PageSize)
	assert.Equal(t, config.ArchiveS3, cfg.Reports.ArchiveDriver)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Security.TrustedProxies)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "console.yaml")
	require.NoError(t, os.WriteFile(file, []byte("report_currency: USD\npage_size: 20\n"), 0o600))

	t.Setenv("APP_ENV", "test")
	t.Setenv("CONFIG_FILE", file)

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Reports.Currency)
	assert.Equal(t, 20, cfg.Session.PageSize)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		errorContains string
	}{
		{
			name:          "relative_backend_url",
			env:           map[string]string{"BACKEND_BASE_URL": "/api"},
			errorContains: "absolute http(s) URL",
		},
		{
			name:          "non_positive_page_size",
			env:           map[string]string{"PAGE_SIZE": "0"},
			errorContains: "page size must be positive",
		},
		{
			name:          "unknown_archive_driver",
			env:           map[string]string{"REPORT_ARCHIVE_DRIVER": "ftp"},
			errorContains: "unknown report archive driver",
		},
		{
			name:          "production_requires_https_backend",
			env:           map[string]string{"APP_ENV": "production", "REPORT_ARCHIVE_DRIVER": "none"},
			errorContains: "must use https in production",
		},
		{
			name: "production_rejects_local_archive",
			env: map[string]string{
				"APP_ENV":          "production",
				"BACKEND_BASE_URL": "https://inventory.internal/api",
			},
			errorContains: "local report archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(helpers.TestLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCheckRequired(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	require.NoError(t, config.CheckRequired(cfg))

	cfg.Session.CookieName = "MISSING_COOKIE"
	cfg.Redis.Host = ""

	err := config.CheckRequired(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingRequiredConfig))
	assert.Contains(t, err.Error(), "Session.CookieName")
	assert.Contains(t, err.Error(), "Redis.Host")
}

func TestCheckRules_JoinsFailures(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Redis.PoolSize = 0
	cfg.Asynq.Concurrency = -1

	err := cfg.CheckRules()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis pool_size must be positive")
	assert.Contains(t, err.Error(), "asynq concurrency must be positive")
}

func TestApplySecrets(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "from-secrets")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA-TEST")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	cfg := helpers.LoadTestConfig()
	cfg.AWS.SecretAccessKey = "unchanged"

	require.NoError(t, config.ApplySecrets(context.Background(), cfg, config.EnvSecretSource{}))

	assert.Equal(t, "from-secrets", cfg.Redis.Password)
	assert.Equal(t, "from-secrets", cfg.Asynq.RedisPassword)
	assert.Equal(t, "AKIA-TEST", cfg.AWS.AccessKeyID)
	assert.Equal(t, "unchanged", cfg.AWS.SecretAccessKey)
}

type fakeSecretReader struct {
	secret *string
	err    error
	calls  int
}

func (f *fakeSecretReader) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput,
	_ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: f.secret}, nil
}

func TestAWSSecretSource(t *testing.T) {
	tests := []struct {
		name          string
		reader        *fakeSecretReader
		expected      map[string]string
		errorContains string
	}{
		{
			name:     "json_secret",
			reader:   &fakeSecretReader{secret: aws.String(`{"REDIS_PASSWORD":"s3cret","UNUSED":"x"}`)},
			expected: map[string]string{"REDIS_PASSWORD": "s3cret"},
		},
		{
			name:          "read_error",
			reader:        &fakeSecretReader{err: errors.New("access denied")},
			errorContains: "access denied",
		},
		{
			name:          "binary_secret",
			reader:        &fakeSecretReader{},
			errorContains: "no string value",
		},
		{
			name:          "not_json",
			reader:        &fakeSecretReader{secret: aws.String("plain")},
			errorContains: "not a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := config.NewAWSSecretSourceWithClient(tt.reader, "stockroom-console", helpers.TestLogger())

			got, err := src.Lookup(context.Background(), []string{"REDIS_PASSWORD", "AWS_ACCESS_KEY_ID"})
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAWSSecretSource_CachesUntilInvalidated(t *testing.T) {
	reader := &fakeSecretReader{secret: aws.String(`{"AWS_ACCESS_KEY_ID":"AKIA-CACHED"}`)}
	src := config.NewAWSSecretSourceWithClient(reader, "stockroom-console", helpers.TestLogger())
	ctx := context.Background()

	cfg := helpers.LoadTestConfig()
	require.NoError(t, config.ApplySecrets(ctx, cfg, src))
	require.NoError(t, config.ApplySecrets(ctx, cfg, src))
	assert.Equal(t, "AKIA-CACHED", cfg.AWS.AccessKeyID)
	assert.Equal(t, 1, reader.calls)

	src.Invalidate()
	_, err := src.Lookup(ctx, []string{"AWS_ACCESS_KEY_ID"})
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}
