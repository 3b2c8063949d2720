// Package grok implements provider.SearchProvider for the xAI Grok API and
// any endpoint speaking the OpenAI chat-completions streaming protocol.
//
// It uses go-resty/v2 for HTTP transport. Every Search and Fetch call is a
// single logical request driven by a provider.Retrier: the stream is opened,
// aggregated and closed once per attempt until the retry policy stops.
package grok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sanix-darker/grok-search/internal/config"
	"github.com/sanix-darker/grok-search/internal/metrics"
	"github.com/sanix-darker/grok-search/internal/provider"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the xAI API root.
	DefaultBaseURL = "https://api.x.ai/v1"
	// DefaultModel is requested when no model is configured.
	DefaultModel = "grok-4-fast"

	providerName = "grok"

	// maxErrorBody bounds how much of a non-200 body is read for the message.
	maxErrorBody = 64 << 10
)

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func init() {
	provider.Register("grok", NewProvider)
	provider.Register("openai-compat", NewProvider)
}

// ---------------------------------------------------------------------------
// API types
// ---------------------------------------------------------------------------

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model    string       `json:"model"`
	Messages []apiMessage `json:"messages"`
	Stream   bool         `json:"stream"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

const searchPrompt = "You are a web search assistant. Answer the user's query " +
	"using current information from the web. Be concise, cite the sources you " +
	"rely on as markdown links and say so when nothing relevant was found."

const fetchPrompt = "You are a web page reader. Retrieve the page at the URL " +
	"the user gives you and return its main content as clean markdown. Keep " +
	"headings, lists, code blocks and links; drop navigation and boilerplate."

// ---------------------------------------------------------------------------
// Provider implementation
// ---------------------------------------------------------------------------

// Provider implements provider.SearchProvider over a streaming
// chat-completions endpoint.
type Provider struct {
	name     string
	client   *resty.Client
	apiKey   string
	baseURL  string
	model    string
	timeout  time.Duration
	rps      float64
	retryCfg provider.RetryConfig
	logger   *slog.Logger
	recorder *metrics.Recorder
	retrier  *provider.Retrier
}

// Option customises a Provider built with New.
type Option func(*Provider)

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg provider.RetryConfig) Option {
	return func(p *Provider) { p.retryCfg = cfg }
}

// WithLogger sets the logger for attempt and retry records.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(p *Provider) { p.recorder = r }
}

// WithTimeout sets the transport timeout of one attempt.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRateLimit caps attempts per second, retries included. 0 disables it.
func WithRateLimit(rps float64) Option {
	return func(p *Provider) { p.rps = rps }
}

// WithName overrides the provider name reported in errors and logs.
func WithName(name string) Option {
	return func(p *Provider) {
		if name != "" {
			p.name = name
		}
	}
}

// New builds a Provider talking to baseURL.
func New(baseURL, apiKey, model string, opts ...Option) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	p := &Provider{
		name:     providerName,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    model,
		timeout:  120 * time.Second,
		retryCfg: provider.DefaultRetryConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = resty.New()
	}
	p.client.
		SetTimeout(p.timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "grok-search")

	retrierOpts := []provider.RetrierOption{
		provider.WithRetrierProvider(p.name),
		provider.WithRetrierLogger(p.logger),
		provider.WithRetrierRecorder(p.recorder),
	}
	if p.rps > 0 {
		burst := int(math.Ceil(p.rps))
		retrierOpts = append(retrierOpts, provider.WithRetrierLimiter(rate.NewLimiter(rate.Limit(p.rps), burst)))
	}
	p.retrier = provider.NewRetrier(p.retryCfg, retrierOpts...)
	return p
}

// NewProvider is the factory function registered with the provider registry.
// It reads configuration from the supplied store. Invalid retry settings
// fall back to their defaults and are logged as warnings.
func NewProvider(s *config.Store, deps provider.Deps) (provider.SearchProvider, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	name := provider.ResolveProvider(s).Name

	retryCfg, err := provider.ResolveRetryConfig(s)
	if err != nil {
		logger.Warn("invalid retry configuration, using defaults for the affected keys",
			slog.String("error", err.Error()))
	}
	timeout, err := provider.ResolveTimeout(s)
	if err != nil {
		logger.Warn("invalid timeout, using default", slog.String("error", err.Error()))
	}
	rps, err := provider.ResolveRequestsPerSecond(s)
	if err != nil {
		logger.Warn("invalid request rate, rate limiting disabled", slog.String("error", err.Error()))
	}

	return New(
		s.GetString(provider.ConfigKeyAPIURL),
		s.GetString(provider.ConfigKeyAPIKey),
		s.GetString(provider.ConfigKeyModel),
		WithName(name),
		WithRetryConfig(retryCfg),
		WithLogger(logger),
		WithRecorder(deps.Recorder),
		WithTimeout(timeout),
		WithRateLimit(rps),
	), nil
}

// Info returns provider metadata.
func (p *Provider) Info() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        p.name,
		DisplayName: "xAI Grok",
		Description: "Web search and page fetch over the Grok streaming chat-completions API",
		Model:       p.model,
	}
}

// RetryConfig returns the retry policy in use.
func (p *Provider) RetryConfig() provider.RetryConfig {
	return p.retrier.Config()
}

// Validate checks that the API key is set and the endpoint is reachable.
func (p *Provider) Validate(ctx context.Context) error {
	if p.apiKey == "" {
		return &provider.ProviderError{
			Code:     provider.ErrCodeAuthentication,
			Message:  "GROK_API_KEY is not set",
			Provider: p.name,
		}
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		Get(p.baseURL + "/models")
	if err != nil {
		return &provider.NetworkError{Provider: p.name, Op: "validate", Cause: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &provider.ProviderError{
			Code:       provider.ErrCodeAuthentication,
			Message:    "API returned non-200 on validation",
			Provider:   p.name,
			StatusCode: resp.StatusCode(),
		}
	}
	return nil
}

// Search answers query and returns the aggregated text.
func (p *Provider) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", &provider.ProviderError{
			Code:     provider.ErrCodeInvalidRequest,
			Message:  "search query is empty",
			Provider: p.name,
		}
	}
	return p.run(ctx, provider.OpSearch, p.payload(searchPrompt, query))
}

// Fetch returns the content behind rawURL, which must be an absolute http(s)
// URL.
func (p *Provider) Fetch(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		return "", &provider.ProviderError{
			Code:     provider.ErrCodeInvalidRequest,
			Message:  err.Error(),
			Provider: p.name,
		}
	}
	return p.run(ctx, provider.OpFetch, p.payload(fetchPrompt, "Fetch this URL: "+rawURL))
}

// ValidateURL reports whether raw is an absolute http or https URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

func (p *Provider) payload(system, user string) apiRequest {
	return apiRequest{
		Model: p.model,
		Messages: []apiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: true,
	}
}

// run tags the logical request with a fresh id and hands it to the Retrier.
func (p *Provider) run(ctx context.Context, op provider.Operation, body apiRequest) (string, error) {
	ctx = provider.WithRequestID(ctx, uuid.NewString())
	return p.retrier.Do(ctx, op, func(ctx context.Context) (io.ReadCloser, error) {
		return p.open(ctx, body)
	})
}

// open issues one streaming request and returns its body on 200.
func (p *Provider) open(ctx context.Context, body apiRequest) (io.ReadCloser, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetHeader("Accept", "text/event-stream").
		SetHeader("X-Request-ID", provider.RequestIDFromContext(ctx)).
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(p.baseURL + "/chat/completions")
	if err != nil {
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &provider.NetworkError{Provider: p.name, Op: "open stream", Cause: err}
	}

	raw := resp.RawBody()
	if raw == nil {
		return nil, &provider.NetworkError{Provider: p.name, Op: "open stream", Cause: errors.New("response has no body")}
	}
	if resp.StatusCode() != http.StatusOK {
		defer raw.Close()
		data, _ := io.ReadAll(io.LimitReader(raw, maxErrorBody))
		return nil, classifyHTTPError(p.name, resp.StatusCode(), data)
	}
	return raw, nil
}

// classifyHTTPError turns a non-200 answer into a StatusError carrying the
// message of an OpenAI-style error body when there is one.
func classifyHTTPError(providerName string, statusCode int, body []byte) *provider.StatusError {
	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	msg := apiErr.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &provider.StatusError{
		Provider:   providerName,
		StatusCode: statusCode,
		Message:    msg,
	}
}
