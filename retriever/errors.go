package retriever

import (
	"errors"
	"fmt"
)

// ErrMissingSession marks a caller error: session scoping is enabled but no
// session id accompanied the query.
var ErrMissingSession = errors.New("session id is required when session scoping is enabled")

// RetrievalError wraps a store or embedding failure during one query. There
// are no retries inside the retriever; the caller may retry the whole query.
type RetrievalError struct {
	OwnerId string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval for owner %s failed: %v", e.OwnerId, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
