package llm

import "fmt"

// GenerationError reports a failed language-model call: auth, timeout, rate
// limit, or a malformed response. It wraps the original cause and is
// propagated to the caller unmodified — the engine performs no retries.
type GenerationError struct {
	Op         string // "request", "status", "stream", "decode"
	StatusCode int    // HTTP status when the backend answered, 0 otherwise
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
