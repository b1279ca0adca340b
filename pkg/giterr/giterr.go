// Package giterr defines the error-kind taxonomy surfaced to callers at
// the wire, receive-pack, and repo-façade boundaries (spec.md §7).
//
// Grounded on the teacher's pkg/repo/reflog.go RefUpdateReflogError (an
// operation-tagged wrapped error), generalized from the teacher's single
// ad hoc error type into a fixed enumeration of kinds shared across every
// boundary-facing package.
package giterr

import "fmt"

// Code is one of the fixed error kinds spec.md §7 enumerates.
type Code string

const (
	InvalidArgument  Code = "INVALID_ARGUMENT"
	NotFound         Code = "NOT_FOUND"
	AlreadyExists    Code = "ALREADY_EXISTS"
	PermissionDenied Code = "PERMISSION_DENIED"
	IOError          Code = "IO_ERROR"
	LockConflict     Code = "LOCK_CONFLICT"
	ObjectFormat     Code = "OBJECT_FORMAT_ERROR"
	PackFormat       Code = "PACK_FORMAT_ERROR"
	ProtoError       Code = "PROTO_ERROR"
	Unsupported      Code = "UNSUPPORTED"
	IntegrityError   Code = "INTEGRITY_ERROR"
	NetworkError     Code = "NETWORK_ERROR"
	Timeout          Code = "TIMEOUT"
	Cancelled        Code = "CANCELLED"
	AuthRequired     Code = "AUTH_REQUIRED"
	AuthRejected     Code = "AUTH_REJECTED"
	MergeConflict    Code = "MERGE_CONFLICT"
	RebaseConflict   Code = "REBASE_CONFLICT"
	SignatureInvalid Code = "SIGNATURE_INVALID"
)

// Error wraps an underlying error with the operation name and error kind
// that should be visible to callers.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error for op with the given kind, wrapping err (which may
// be nil).
func New(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Is reports whether err (or anything it wraps) carries code.
func Is(err error, code Code) bool {
	var e *Error
	for err != nil {
		if ge, ok := err.(*Error); ok {
			e = ge
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Code == code
}
