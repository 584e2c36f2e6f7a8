package parsing

import "fmt"

// FormatError reports input whose shape cannot be turned into messages:
// invalid JSON, a missing messages array, or a conversation with no content
// left after filtering. It is not retryable; the input itself is at fault.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid format: " + e.Reason
}

// DecodeError reports a file that could not be read or decoded with any
// supported encoding.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
