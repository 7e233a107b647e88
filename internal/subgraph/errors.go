package subgraph

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message string `json:"message"`
}

// QueryError is returned when the subgraph answers with GraphQL errors.
type QueryError struct {
	Errors []GraphQLError
}

func (e *QueryError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		messages = append(messages, item.Message)
	}
	return "subgraph query: " + strings.Join(messages, "; ")
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("subgraph status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether another attempt may succeed. Query errors and client errors
// other than rate limiting are final.
func retryable(err error) bool {
	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
