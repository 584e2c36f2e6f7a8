package mem0

import "fmt"

// ValidationError reports query or upload input the caller must fix before
// the backend is consulted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// BackendError reports a non-2xx response from the memory backend.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("mem0 API error (status %d): %s", e.StatusCode, e.Message)
}
