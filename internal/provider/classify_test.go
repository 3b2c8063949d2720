package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	netErr := &NetworkError{Provider: "grok", Op: "open stream", Cause: errors.New("connection reset")}
	statusErr := &StatusError{Provider: "grok", StatusCode: 403}
	dnsErr := &url.Error{Op: "Post", URL: "http://x", Err: &net.DNSError{Err: "no such host", Name: "x"}}
	boom := errors.New("boom")

	tests := []struct {
		name       string
		text       string
		err        error
		wantKind   OutcomeKind
		wantText   string
		wantStatus int
	}{
		{"content", "answer", nil, OutcomeContent, "answer", 0},
		{"content keeps surrounding whitespace", " answer\n", nil, OutcomeContent, " answer\n", 0},
		{"empty", "", nil, OutcomeEmpty, "", 0},
		{"whitespace only", " \n\t ", nil, OutcomeEmpty, "", 0},
		{"network error", "", netErr, OutcomeNetworkFailure, "", 0},
		{"wrapped network error", "", fmt.Errorf("attempt: %w", netErr), OutcomeNetworkFailure, "", 0},
		{"status error", "", statusErr, OutcomeStatusFailure, "", 403},
		{"raw dns error", "", dnsErr, OutcomeNetworkFailure, "", 0},
		{"unexpected eof", "", io.ErrUnexpectedEOF, OutcomeNetworkFailure, "", 0},
		{"connection reset", "", fmt.Errorf("read: %w", syscall.ECONNRESET), OutcomeNetworkFailure, "", 0},
		{"canceled", "", context.Canceled, OutcomeUnhandledFailure, "", 0},
		{"deadline", "", context.DeadlineExceeded, OutcomeUnhandledFailure, "", 0},
		{"invalid request", "", &ProviderError{Code: ErrCodeInvalidRequest}, OutcomeUnhandledFailure, "", 0},
		{"anything else", "", boom, OutcomeUnhandledFailure, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, tt.err)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.err, got.Err)
		})
	}
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "content", OutcomeContent.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "network_error", OutcomeNetworkFailure.String())
	assert.Equal(t, "status_error", OutcomeStatusFailure.String())
	assert.Equal(t, "unhandled_error", OutcomeUnhandledFailure.String())
	assert.Equal(t, "unknown", OutcomeKind(42).String())
}

func TestStatusErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &StatusError{Provider: "grok", StatusCode: 409, Message: "conflict"})

	assert.ErrorIs(t, err, &StatusError{StatusCode: 409})
	assert.NotErrorIs(t, err, &StatusError{StatusCode: 403})
	assert.Contains(t, err.Error(), "HTTP 409: conflict")
}

func TestNetworkErrorTimeout(t *testing.T) {
	timeout := &NetworkError{Cause: &net.OpError{Op: "dial", Err: timeoutErr{}}}
	assert.True(t, timeout.Timeout())

	plain := &NetworkError{Cause: errors.New("reset")}
	assert.False(t, plain.Timeout())
	assert.ErrorContains(t, plain, "reset")
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
