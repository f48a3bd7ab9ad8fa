package search

import "errors"

// ErrInvalidRequest marks caller contract violations (bad scope, missing
// identifiers). Surfaced to the caller, never retried.
var ErrInvalidRequest = errors.New("invalid search request")

// ErrUpstream marks failures of retrieval the rest of the pipeline
// structurally depends on: call listing and the transcript batch fetch.
// Everything else degrades instead of failing the request.
var ErrUpstream = errors.New("upstream call data unavailable")
