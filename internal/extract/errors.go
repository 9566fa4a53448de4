package extract

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal extraction failure.
type Kind int

const (
	// KindStructuralMismatch: an expected element is absent or present in
	// the wrong multiplicity.
	KindStructuralMismatch Kind = iota
	// KindPatternNotFound: a required text pattern did not match at all.
	KindPatternNotFound
	// KindUnknownEnum: an unrecognized literal for status, month name,
	// travel direction or travel shape.
	KindUnknownEnum
	// KindCorrelationFailure: no travel record matches a leg's
	// departure/destination/day/month key.
	KindCorrelationFailure
	// KindConsistencyFailure: passenger groups across legs differ.
	KindConsistencyFailure
)

func (k Kind) String() string {
	switch k {
	case KindStructuralMismatch:
		return "structural mismatch"
	case KindPatternNotFound:
		return "pattern not found"
	case KindUnknownEnum:
		return "unknown enum"
	case KindCorrelationFailure:
		return "correlation failure"
	case KindConsistencyFailure:
		return "consistency failure"
	}
	return "unknown"
}

// Error is a fatal extraction failure. Every failure aborts the whole parse;
// no partial ticket is ever returned.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newErr(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, args...)}
}

// KindOf unwraps the extraction failure kind carried by err.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
