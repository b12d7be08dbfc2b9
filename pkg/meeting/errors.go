package meeting

import "fmt"

// PreconditionError reports an operation attempted from an invalid session
// state, e.g. stopping a recording that never started
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// CaptureError reports a failure acquiring or driving the audio capture
// device or the speech source
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("%s: capture failed: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// PersistenceError reports a failed remote read or write
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AIResponseError reports that the AI backend call failed or its response
// could not be parsed into the expected shape
type AIResponseError struct {
	Op  string
	Err error
}

func (e *AIResponseError) Error() string {
	return fmt.Sprintf("%s: ai backend: %v", e.Op, e.Err)
}

func (e *AIResponseError) Unwrap() error { return e.Err }

// NotFoundError reports a local or remote lookup miss
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
