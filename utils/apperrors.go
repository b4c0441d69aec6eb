// utils/apperrors.go
package utils

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the query layer, the reconciliation worker and the
// HTTP handlers. Handlers map these to {code, message} bodies; the worker's
// probe loop treats ErrNotFound as "indexer not caught up yet" and anything
// else as a hard failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUpstream         = errors.New("upstream failure")
	ErrIndexingTimeout  = errors.New("indexing timed out")
)

// IndexingTimeoutError carries the chain and target of an exhausted
// reconciliation attempt budget for diagnostics. Matches ErrIndexingTimeout
// under errors.Is.
type IndexingTimeoutError struct {
	ChainID  uint64
	TargetID uint64
}

func (e *IndexingTimeoutError) Error() string {
	return fmt.Sprintf("indexing timed out (chainId=%d targetId=%d)", e.ChainID, e.TargetID)
}

func (e *IndexingTimeoutError) Is(target error) bool {
	return target == ErrIndexingTimeout
}

// ErrorCode returns the wire code for an error from the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrIndexingTimeout):
		return "indexing_timeout"
	case errors.Is(err, ErrUpstream):
		return "upstream_failure"
	default:
		return "internal"
	}
}
