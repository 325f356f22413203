package payimport

import "errors"

// ErrNoRowsParsed means an upload yielded nothing usable; the batch is not
// created in that case.
var ErrNoRowsParsed = errors.New("no rows could be parsed from the uploaded file")

// ValidationError rejects a request whose payload cannot be acted on (bad
// split sum, missing student or category on approval). The reason carries
// enough detail to correct and resubmit.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// StateError rejects an operation against a row or batch whose lifecycle
// state forbids it (terminal row edits, cancelling a batch with approved
// rows). These are never retried automatically.
type StateError struct {
	Reason string
}

func (e StateError) Error() string {
	return e.Reason
}
