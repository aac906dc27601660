package progress

import "fmt"

// ParseError indicates an import snapshot is not well-formed. Nothing has
// been applied when it is returned.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid progress snapshot: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageUnavailableError indicates the durable backend could not be read or
// written. Callers keep the in-memory value and surface it as a warning.
type StorageUnavailableError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("progress storage unavailable (%s %s): %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("progress storage unavailable (%s): %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }
