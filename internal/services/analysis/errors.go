package analysis

import "fmt"

// ValidationError reports bad caller input. No backend call was attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AttachmentError reports unreadable attachment evidence. No backend call
// was attempted.
type AttachmentError struct {
	Path string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment '%s' unreadable: %v", e.Path, e.Err)
}

func (e *AttachmentError) Unwrap() error { return e.Err }

// BackendError reports a non-success backend response. Payload carries the
// backend's response verbatim. Status is 0 when the failure happened below
// the HTTP layer (connection, SDK).
type BackendError struct {
	Status  int
	Payload string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("analysis backend failed (status %d): %s", e.Status, e.Payload)
	}
	return fmt.Sprintf("analysis backend failed: %v", e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// SchemaViolationError reports a backend response that is not parseable
// JSON. RawText carries the offending response for diagnostics; no partial
// report is ever produced from it.
type SchemaViolationError struct {
	RawText string
	Err     error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("backend response is not valid JSON: %v", e.Err)
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }
