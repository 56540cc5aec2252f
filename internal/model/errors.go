package model

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPool marks a contract whose ABI matches neither supported
// swap layout.
var ErrUnsupportedPool = errors.New("unsupported pool kind")

// ScanError reports a failed log query for one block chunk. The scan is
// aborted when it occurs; a skipped chunk would under-count trader volume.
type ScanError struct {
	From uint64
	To   uint64
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan blocks [%d, %d]: %v", e.From, e.To, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
