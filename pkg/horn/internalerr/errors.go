package internalerr

import "errors"

// Sentinel errors. Everything except ErrInvalidInput and ErrInvalidConfig
// reports a structural mistake in a knowledge base or query and aborts the
// current tell or ask.
var (
	ErrArityMismatch       = errors.New("arity mismatch")
	ErrUnevaluatedFunc     = errors.New("cannot unify an unevaluated function term")
	ErrOccursCheck         = errors.New("occurs check failed")
	ErrUnstandardized      = errors.New("variable kind not allowed here")
	ErrUnsupportedSentence = errors.New("unsupported sentence")
	ErrUnknownPredicate    = errors.New("unknown predicate")
	ErrEvaluation          = errors.New("function evaluation failed")
	ErrDepthExceeded       = errors.New("resolution depth exceeded")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
)
