package dataset

import (
	"errors"
	"fmt"
)

// Reason classifies a DataError.
type Reason int

const (
	ReasonMissingFile Reason = iota + 1
	ReasonMalformed
	ReasonMissingColumn
	ReasonEmptyTable
	ReasonRoleMismatch
	ReasonTypeMismatch
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingFile:
		return "missing file"
	case ReasonMalformed:
		return "malformed input"
	case ReasonMissingColumn:
		return "missing column"
	case ReasonEmptyTable:
		return "empty table"
	case ReasonRoleMismatch:
		return "role mismatch"
	case ReasonTypeMismatch:
		return "type mismatch"
	default:
		return "data error"
	}
}

// DataError is the single error kind returned by loading and profiling.
type DataError struct {
	Reason Reason
	Path   string
	Column string
	Detail string
	Err    error
}

func (e *DataError) Error() string {
	if e == nil {
		return "data error"
	}
	msg := e.Reason.String()
	if e.Path != "" {
		msg += fmt.Sprintf(" in %s", e.Path)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error { return e.Err }

// IsReason reports whether err is a DataError with the given reason.
func IsReason(err error, r Reason) bool {
	var de *DataError
	if errors.As(err, &de) {
		return de.Reason == r
	}
	return false
}

// Errorf builds a DataError for a column of path with a formatted detail message.
func Errorf(r Reason, path, column, format string, args ...any) *DataError {
	return &DataError{Reason: r, Path: path, Column: column, Detail: fmt.Sprintf(format, args...)}
}
