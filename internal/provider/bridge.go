package provider

import (
	"context"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Bridge: routes a named operation to a provider
// ---------------------------------------------------------------------------

// ParseOperation maps a user supplied name to an Operation.
func ParseOperation(name string) (Operation, error) {
	switch Operation(strings.ToLower(strings.TrimSpace(name))) {
	case OpSearch:
		return OpSearch, nil
	case OpFetch:
		return OpFetch, nil
	default:
		return "", &ProviderError{
			Code:    ErrCodeInvalidRequest,
			Message: fmt.Sprintf("unknown operation %q (expected search or fetch)", name),
		}
	}
}

// Dispatch runs op against p with the given input: a query for OpSearch, a
// URL for OpFetch. Errors from the provider are returned unchanged.
func Dispatch(ctx context.Context, p SearchProvider, op Operation, input string) (string, error) {
	switch op {
	case OpSearch:
		return p.Search(ctx, input)
	case OpFetch:
		return p.Fetch(ctx, input)
	default:
		return "", &ProviderError{
			Code:     ErrCodeInvalidRequest,
			Message:  fmt.Sprintf("unknown operation %q", op),
			Provider: p.Info().Name,
		}
	}
}
