// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// ErrMissingRequiredConfig is returned when a required value is absent or
// still holds a MISSING_ placeholder
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// rule is one named configuration check. Production rules only run when
// APP_ENV is production.
type rule struct {
	name       string
	production bool
	check      func(cfg *Config) error
}

var rules = []rule{
	{name: "required_fields", check: func(cfg *Config) error { return CheckRequired(cfg) }},
	{name: "redis_pool", check: func(cfg *Config) error {
		return positive("redis pool_size", cfg.Redis.PoolSize)
	}},
	{name: "asynq_concurrency", check: func(cfg *Config) error {
		return positive("asynq concurrency", cfg.Asynq.Concurrency)
	}},
	{name: "rate_limit", check: func(cfg *Config) error {
		return positive("rate_limit_duration", int(cfg.Security.RateLimitDuration))
	}},
	{name: "redis_password", production: true, check: func(cfg *Config) error {
		if strings.HasPrefix(cfg.Redis.Password, "MISSING_") {
			return fmt.Errorf("%w: redis password", ErrMissingRequiredConfig)
		}
		return nil
	}},
	{name: "https_backend", production: true, check: func(cfg *Config) error {
		if u, err := url.Parse(cfg.Backend.BaseURL); err != nil || u.Scheme != "https" {
			return errors.New("backend base URL must use https in production")
		}
		return nil
	}},
	{name: "secure_cookies", production: true, check: func(cfg *Config) error {
		switch {
		case !cfg.Security.SecureHeaders:
			return errors.New("secure headers must be enabled in production")
		case !cfg.Session.CookieSecure:
			return errors.New("session cookie must be secure in production")
		}
		return nil
	}},
	{name: "durable_archive", production: true, check: func(cfg *Config) error {
		if cfg.Reports.ArchiveDriver == ArchiveLocal {
			return errors.New("local report archive cannot be used in production")
		}
		return nil
	}},
	{name: "tls_files", production: true, check: func(cfg *Config) error {
		if cfg.Server.TLSEnabled && (cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "") {
			return errors.New("TLS cert and key files must be provided when TLS is enabled")
		}
		return nil
	}},
}

// CheckRules runs every rule that applies to the configured environment and
// joins their failures
func (c *Config) CheckRules() error {
	var errs []error
	for _, r := range rules {
		if r.production && !c.IsProduction() {
			continue
		}
		if err := r.check(c); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
		}
	}
	return errors.Join(errs...)
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// CheckRequired reports every field tagged required:"true" that is empty or
// a MISSING_ placeholder, named by its path from cfg
func CheckRequired(cfg any) error {
	v := reflect.Indirect(reflect.ValueOf(cfg))
	missing := collectMissing(v, "", nil)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, strings.Join(missing, ", "))
}

func collectMissing(v reflect.Value, path string, missing []string) []string {
	t := v.Type()
	for i := range v.NumField() {
		field, sf := v.Field(i), t.Field(i)
		name := sf.Name
		if path != "" {
			name = path + "." + name
		}

		if sf.Tag.Get("required") == "true" && isUnset(field) {
			missing = append(missing, name)
		}
		if field.Kind() == reflect.Struct {
			missing = collectMissing(field, name, missing)
		}
	}
	return missing
}

func isUnset(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
