// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretSource supplies secret configuration values by name. Names the
// source does not know are left out of the result.
type SecretSource interface {
	Lookup(ctx context.Context, names []string) (map[string]string, error)
}

var (
	_ SecretSource = (*AWSSecretSource)(nil)
	_ SecretSource = EnvSecretSource{}
)

// secretBindings maps each secret name to the configuration it fills in
var secretBindings = map[string]func(cfg *Config, value string){
	"REDIS_PASSWORD": func(cfg *Config, v string) {
		cfg.Redis.Password = v
		cfg.Asynq.RedisPassword = v
	},
	"AWS_ACCESS_KEY_ID":     func(cfg *Config, v string) { cfg.AWS.AccessKeyID = v },
	"AWS_SECRET_ACCESS_KEY": func(cfg *Config, v string) { cfg.AWS.SecretAccessKey = v },
}

// ApplySecrets overwrites cfg with every bound secret src knows about
func ApplySecrets(ctx context.Context, cfg *Config, src SecretSource) error {
	values, err := src.Lookup(ctx, slices.Sorted(maps.Keys(secretBindings)))
	if err != nil {
		return err
	}
	for name, value := range values {
		if bind, ok := secretBindings[name]; ok {
			bind(cfg, value)
		}
	}
	return nil
}

// SecretValueReader is the part of the Secrets Manager client used here
type SecretValueReader interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretSource reads one JSON object secret from AWS Secrets Manager and
// reuses it until the cache window passes
type AWSSecretSource struct {
	client   SecretValueReader
	secretID string
	window   time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	values  map[string]string
	fetched time.Time
}

// NewAWSSecretSource loads the default AWS credential chain for region
func NewAWSSecretSource(ctx context.Context, region, secretID string, logger *slog.Logger) (*AWSSecretSource, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAWSSecretSourceWithClient(secretsmanager.NewFromConfig(awsCfg), secretID, logger), nil
}

func NewAWSSecretSourceWithClient(client SecretValueReader, secretID string, logger *slog.Logger) *AWSSecretSource {
	return &AWSSecretSource{
		client:   client,
		secretID: secretID,
		window:   5 * time.Minute,
		logger:   logger.With(slog.String("component", "secrets")),
	}
}

func (s *AWSSecretSource) Lookup(ctx context.Context, names []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil || time.Since(s.fetched) >= s.window {
		values, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.values, s.fetched = values, time.Now()
	}

	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := s.values[name]; ok {
			out[name] = v
		}
	}
	return out, nil
}

// Invalidate forces the next Lookup to read the secret again
func (s *AWSSecretSource) Invalidate() {
	s.mu.Lock()
	s.values = nil
	s.mu.Unlock()
}

func (s *AWSSecretSource) fetch(ctx context.Context) (map[string]string, error) {
	s.logger.InfoContext(ctx, "reading secret", slog.String("secret_id", s.secretID))

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(s.secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", s.secretID, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", s.secretID)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object of strings: %w", s.secretID, err)
	}
	return values, nil
}

// EnvSecretSource reads secrets from non-empty environment variables
type EnvSecretSource struct{}

func (EnvSecretSource) Lookup(_ context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			out[name] = v
		}
	}
	return out, nil
}
