package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// HTTPStatusError is a non-2xx node response with its body preserved,
// since the body usually carries the structured rejection reason.
type HTTPStatusError struct {
	Status int
	URL    string
	Body   []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("rpc %s: http %d: %s", e.URL, e.Status, truncate(e.Body, 200))
}

// OperationError is a node response that succeeded at the HTTP level
// but embeds protocol-level operation errors in its body. Run and
// preapply calls return these with status 200.
type OperationError struct {
	IDs []string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation rejected: %s", strings.Join(e.IDs, ", "))
}

// nonRetryableIDs are rejection reasons that are properties of the
// operation itself, not of the node that reported them. Retrying a
// stale counter on another node cannot fix the counter and risks
// double submission.
var nonRetryableIDs = []string{
	"counter_in_the_past",
	"counter_in_the_future",
	"balance_too_low",
	"gas_exhausted",
	"storage_exhausted",
	"empty_implicit_contract",
	"subtraction_underflow",
}

// IsRetryable reports whether trying the next endpoint can plausibly
// succeed. Transport failures and node-specific HTTP statuses are
// retryable; operation rejections and client-side errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		return !containsNonRetryable(opErr.IDs)
	}

	var httpErr *HTTPStatusError
	if errors.As(err, &httpErr) {
		// The body wins over the status: nodes report operation
		// rejections under several status codes.
		if containsNonRetryable(ExtractErrorIDs(httpErr.Body)) {
			return false
		}
		switch {
		case httpErr.Status == 404, httpErr.Status == 408, httpErr.Status == 429:
			return true
		case httpErr.Status >= 500:
			return true
		default:
			return false
		}
	}

	// Anything else is assumed to be a transport problem local to the
	// endpoint that produced it.
	return true
}

func containsNonRetryable(ids []string) bool {
	for _, id := range ids {
		for _, marker := range nonRetryableIDs {
			if strings.Contains(id, marker) {
				return true
			}
		}
	}
	return false
}

// ExtractErrorIDs walks an arbitrary JSON body and collects the values
// of every "id" field. Node error payloads are arrays of objects with
// namespaced id strings, sometimes nested under result metadata.
func ExtractErrorIDs(body []byte) []string {
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	var ids []string
	collectErrorIDs(parsed, &ids)
	return ids
}

func collectErrorIDs(node interface{}, ids *[]string) {
	switch typed := node.(type) {
	case map[string]interface{}:
		if id, ok := typed["id"].(string); ok {
			*ids = append(*ids, id)
		}
		for _, value := range typed {
			collectErrorIDs(value, ids)
		}
	case []interface{}:
		for _, item := range typed {
			collectErrorIDs(item, ids)
		}
	}
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
