package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFatalAPI marks provider errors that will not resolve on retry:
// exhausted credits, revoked keys, hard quota limits. Callers can stop
// retrying when errors.Is reports this sentinel.
var ErrFatalAPI = errors.New("fatal LLM API error")

// fatalPatterns are substrings of provider error messages that indicate a
// permanent failure.
var fatalPatterns = []string{
	"credit balance",
	"rate limit",
	"quota exceeded",
	"billing",
	"invalid api key",
	"authentication failed",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError classifies an error by message substring. Crude, but
// providers do not expose structured codes through the abstraction layer.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range fatalPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// wrapFatalError attaches ErrFatalAPI to permanent provider failures and
// passes everything else through untouched.
func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return fmt.Errorf("%w: %w", ErrFatalAPI, err)
	}
	return err
}
