package provider

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Retry configuration
// ---------------------------------------------------------------------------

// DefaultMaxAttempts is the number of attempts made after the first one.
// MaxAttempts counts extra retries: a value of N allows N+1 attempts in total.
const DefaultMaxAttempts = 3

// StatusCodes is a set of HTTP status codes.
type StatusCodes map[int]struct{}

// NewStatusCodes builds a set from the given codes.
func NewStatusCodes(codes ...int) StatusCodes {
	s := make(StatusCodes, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether code is in the set. A nil set contains nothing.
func (s StatusCodes) Has(code int) bool {
	_, ok := s[code]
	return ok
}

// Sorted returns the codes in ascending order.
func (s StatusCodes) Sorted() []int {
	out := make([]int, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// String renders the set in the same comma-separated form it is parsed from.
func (s StatusCodes) String() string {
	codes := s.Sorted()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// ParseStatusCodes parses a comma-separated list such as "403, 409". Blank
// entries are ignored. Entries that are not valid HTTP status codes are
// skipped and reported in the returned error; the valid ones are still
// returned.
func ParseStatusCodes(raw string) (StatusCodes, error) {
	codes := StatusCodes{}
	var errs []error
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil || code < 100 || code > 599 {
			errs = append(errs, fmt.Errorf("invalid status code %q", part))
			continue
		}
		codes[code] = struct{}{}
	}
	return codes, errors.Join(errs...)
}

// RetryConfig controls which outcomes are retried and how long to wait
// between attempts. It is read once when a provider is built.
type RetryConfig struct {
	// RetryOnEmpty retries attempts whose aggregated text is blank.
	RetryOnEmpty bool

	// MaxAttempts is the retry budget shared by empty results, network
	// failures and listed status codes (0 = no retries).
	MaxAttempts int

	// Multiplier is the backoff base in seconds (0 = no delay).
	Multiplier float64

	// MaxWait caps the delay between attempts.
	MaxWait time.Duration

	// ExtraStatusCodes lists the HTTP status codes worth retrying. No code
	// is retried unless it is listed here.
	ExtraStatusCodes StatusCodes
}

// DefaultRetryConfig returns the configuration used when nothing is set:
// retry empty results, 3 extra attempts, 1s base, capped at 10s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		RetryOnEmpty:     true,
		MaxAttempts:      DefaultMaxAttempts,
		Multiplier:       1,
		MaxWait:          10 * time.Second,
		ExtraStatusCodes: StatusCodes{},
	}
}

// Backoff returns the delay before the attempt that follows attempt number
// attempts: min(MaxWait, Multiplier * 2^(attempts-1) seconds).
func (c RetryConfig) Backoff(attempts int) time.Duration {
	if c.Multiplier <= 0 || c.MaxWait <= 0 {
		return 0
	}
	if attempts < 1 {
		attempts = 1
	}
	d := c.Multiplier * math.Pow(2, float64(attempts-1)) * float64(time.Second)
	if d >= float64(c.MaxWait) {
		return c.MaxWait
	}
	return time.Duration(d)
}

// ---------------------------------------------------------------------------
// Decision table
// ---------------------------------------------------------------------------

// AttemptState is the attempt counter of one logical request. It is shared
// by every failure class and only ever grows.
type AttemptState struct {
	// Attempts is the number of attempts issued so far, starting at 1.
	Attempts int
}

func (s AttemptState) hasBudget(c RetryConfig) bool {
	return s.Attempts <= c.MaxAttempts
}

// Action is what the orchestrator does after an attempt.
type Action int

const (
	// ActionRetry sleeps for Decision.Delay and issues another attempt.
	ActionRetry Action = iota
	// ActionReturn returns Decision.Value to the caller.
	ActionReturn
	// ActionFail returns Decision.Err, unchanged, to the caller.
	ActionFail
)

func (a Action) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionReturn:
		return "return"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Decision is the policy verdict for one attempt.
type Decision struct {
	Action Action
	Delay  time.Duration
	Value  string
	Err    error
	Reason string
}

func retry(state AttemptState, cfg RetryConfig, reason string) Decision {
	return Decision{Action: ActionRetry, Delay: cfg.Backoff(state.Attempts), Reason: reason}
}

// Decide applies the retry policy to one outcome. Content always wins, blank
// results degrade to "" once the budget is spent, network failures and listed
// status codes are retried under the same budget, everything else fails
// immediately with the original error.
func Decide(o Outcome, state AttemptState, cfg RetryConfig) Decision {
	switch o.Kind {
	case OutcomeContent:
		return Decision{Action: ActionReturn, Value: o.Text, Reason: "content"}

	case OutcomeEmpty:
		if cfg.RetryOnEmpty && state.hasBudget(cfg) {
			return retry(state, cfg, "empty result")
		}
		return Decision{Action: ActionReturn, Value: "", Reason: "empty result"}

	case OutcomeNetworkFailure:
		if state.hasBudget(cfg) {
			return retry(state, cfg, "network error")
		}
		return Decision{Action: ActionFail, Err: o.Err, Reason: "network error, retries exhausted"}

	case OutcomeStatusFailure:
		if !cfg.ExtraStatusCodes.Has(o.StatusCode) {
			return Decision{Action: ActionFail, Err: o.Err, Reason: fmt.Sprintf("status %d not retryable", o.StatusCode)}
		}
		if state.hasBudget(cfg) {
			return retry(state, cfg, fmt.Sprintf("status %d", o.StatusCode))
		}
		return Decision{Action: ActionFail, Err: o.Err, Reason: fmt.Sprintf("status %d, retries exhausted", o.StatusCode)}

	default:
		return Decision{Action: ActionFail, Err: o.Err, Reason: "unhandled error"}
	}
}
