package provider

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sanix-darker/grok-search/internal/config"
)

// ---------------------------------------------------------------------------
// Configuration helpers
// ---------------------------------------------------------------------------

// Store keys. Each key is also read from the environment with the GROK_
// prefix, e.g. retry.max_attempts from GROK_RETRY_MAX_ATTEMPTS.
const (
	ConfigKeyProvider          = "provider"
	ConfigKeyAPIURL            = "api_url"
	ConfigKeyAPIKey            = "api_key"
	ConfigKeyModel             = "model"
	ConfigKeyTimeout           = "timeout"
	ConfigKeyRequestsPerSecond = "requests_per_second"

	ConfigKeyRetryEmptyResults     = "retry.empty_results"
	ConfigKeyRetryMaxAttempts      = "retry.max_attempts"
	ConfigKeyRetryMultiplier       = "retry.multiplier"
	ConfigKeyRetryMaxWait          = "retry.max_wait"
	ConfigKeyRetryExtraStatusCodes = "retry.extra_status_codes"
)

// DefaultProvider is used when no provider is configured.
const DefaultProvider = "grok"

// ProviderConfig holds the resolved configuration for instantiating a
// provider.
type ProviderConfig struct {
	// Name is the provider name as it appears in the registry (e.g. "grok").
	Name string

	// Store resolves the provider settings.
	Store *config.Store
}

// ResolveProvider reads the active provider name. The lookup order is:
//
//  1. --provider or an explicit Set on the store
//  2. GROK_PROVIDER environment variable
//  3. "provider" key in the config file (~/.config/grok-search/config.yml)
//  4. Fallback to "grok"
func ResolveProvider(s *config.Store) ProviderConfig {
	name := strings.ToLower(strings.TrimSpace(s.GetString(ConfigKeyProvider)))
	if name == "" {
		name = DefaultProvider
	}
	return ProviderConfig{Name: name, Store: s}
}

// ResolveRetryConfig reads the retry settings from s. Values that cannot be
// parsed fall back to their defaults; every such fallback is reported in the
// returned error while the returned config stays usable.
func ResolveRetryConfig(s *config.Store) (RetryConfig, error) {
	cfg := DefaultRetryConfig()
	var errs []error

	if raw := strings.TrimSpace(s.GetString(ConfigKeyRetryEmptyResults)); raw != "" {
		b, err := parseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ConfigKeyRetryEmptyResults, err))
		} else {
			cfg.RetryOnEmpty = b
		}
	}

	if raw := strings.TrimSpace(s.GetString(ConfigKeyRetryMaxAttempts)); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", ConfigKeyRetryMaxAttempts, raw))
		case n < 0:
			errs = append(errs, fmt.Errorf("%s: %d is negative, retries disabled", ConfigKeyRetryMaxAttempts, n))
			cfg.MaxAttempts = 0
		default:
			cfg.MaxAttempts = n
		}
	}

	if raw := strings.TrimSpace(s.GetString(ConfigKeyRetryMultiplier)); raw != "" {
		d, err := parseSeconds(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ConfigKeyRetryMultiplier, err))
		} else {
			cfg.Multiplier = d.Seconds()
		}
	}

	if raw := strings.TrimSpace(s.GetString(ConfigKeyRetryMaxWait)); raw != "" {
		d, err := parseSeconds(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ConfigKeyRetryMaxWait, err))
		} else {
			cfg.MaxWait = d
		}
	}

	codes, err := ParseStatusCodes(statusCodesValue(s))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ConfigKeyRetryExtraStatusCodes, err))
	}
	cfg.ExtraStatusCodes = codes

	return cfg, errors.Join(errs...)
}

// statusCodesValue accepts both the comma-separated form used in the
// environment and a YAML list in the config file.
func statusCodesValue(s *config.Store) string {
	raw, ok := s.Get(ConfigKeyRetryExtraStatusCodes)
	if !ok {
		return ""
	}
	switch val := raw.(type) {
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	case []int:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = strconv.Itoa(item)
		}
		return strings.Join(parts, ",")
	default:
		return s.GetString(ConfigKeyRetryExtraStatusCodes)
	}
}

// ResolveTimeout returns the transport timeout, 120s by default. Bare
// numbers are seconds.
func ResolveTimeout(s *config.Store) (time.Duration, error) {
	raw := strings.TrimSpace(s.GetString(ConfigKeyTimeout))
	if raw == "" {
		return 120 * time.Second, nil
	}
	d, err := parseSeconds(raw)
	if err != nil {
		return 120 * time.Second, fmt.Errorf("%s: %w", ConfigKeyTimeout, err)
	}
	return d, nil
}

// ResolveRequestsPerSecond returns the configured attempt rate, 0 meaning
// unlimited.
func ResolveRequestsPerSecond(s *config.Store) (float64, error) {
	raw := strings.TrimSpace(s.GetString(ConfigKeyRequestsPerSecond))
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: invalid rate %q", ConfigKeyRequestsPerSecond, raw)
	}
	return f, nil
}

// parseSeconds parses either a Go duration ("1.5s", "500ms") or a bare
// number of seconds ("2", "0.5").
func parseSeconds(raw string) (time.Duration, error) {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		if f < 0 {
			return 0, fmt.Errorf("negative value %q", raw)
		}
		if f*float64(time.Second) >= math.MaxInt64 {
			return 0, fmt.Errorf("duration %q out of range", raw)
		}
		return time.Duration(f * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative value %q", raw)
	}
	return d, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on", "y":
		return true, nil
	case "0", "false", "no", "off", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}

// SampleConfigYAML returns an example config.yml that documents every
// setting. It is used by "grok-search config init".
func SampleConfigYAML() string {
	return `# grok-search configuration
# Every key can be overridden with a GROK_ environment variable:
# retry.max_attempts -> GROK_RETRY_MAX_ATTEMPTS, api_key -> GROK_API_KEY.

# Active provider (grok | openai-compat).
provider: grok

# api_key can also be set via GROK_API_KEY env var.
api_key: ""
api_url: "https://api.x.ai/v1"
model: "grok-4-fast"
# Transport timeout for one attempt (bare numbers are seconds).
timeout: 120s
# Cap on attempts per second, retries included (0 = unlimited).
requests_per_second: 0

# Retry configuration. One budget is shared by blank answers, network
# errors and the status codes listed below.
retry:
  # Retry when the stream completes without any text.
  empty_results: true
  # Attempts made after the first one (0 = never retry).
  max_attempts: 3
  # Backoff base in seconds: delay = min(max_wait, multiplier * 2^(attempt-1)).
  multiplier: 1
  max_wait: 10s
  # Comma separated HTTP status codes worth retrying, e.g. "403, 409".
  extra_status_codes: ""

log:
  # Defaults to ~/.config/grok-search/logs.
  # dir: ""
  level: info

debug: false
`
}
