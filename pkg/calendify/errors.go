package calendify

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error. Every error crossing the service boundary
// carries exactly one Kind, and the HTTP layer maps Kinds to status codes
// without inspecting messages.
type Kind string

const (
	// KindNotFound: the addressed user, calendar, or event does not exist.
	KindNotFound Kind = "not_found"
	// KindForbidden: the actor exists but lacks the right to perform the
	// operation (not the owner, not the creator).
	KindForbidden Kind = "forbidden"
	// KindNotAMember: the actor is not in the calendar's member list.
	KindNotAMember Kind = "not_a_member"
	// KindValidation: the request payload violates a validation rule.
	KindValidation Kind = "validation"
	// KindCapacityExceeded: adding the member would exceed the group cap.
	KindCapacityExceeded Kind = "capacity_exceeded"
	// KindMemberNotFound: a username named in the request resolves to no user.
	KindMemberNotFound Kind = "member_not_found"
	// KindDefaultProtected: the operation would delete or degrade a default
	// calendar.
	KindDefaultProtected Kind = "default_protected"
	// KindSoleMember: the owner is the only member and therefore cannot leave.
	KindSoleMember Kind = "sole_member"
	// KindSchedulingConflict: the proposed interval overlaps existing events of
	// group members. The error carries the full conflict list.
	KindSchedulingConflict Kind = "scheduling_conflict"
	// KindUnauthorized: missing or bad credentials.
	KindUnauthorized Kind = "unauthorized"
	// KindStore: the persistence layer failed; the wrapped error has detail.
	KindStore Kind = "store"
)

// Error is the domain error type of the service layer. Kind drives the HTTP
// status; Conflicts is populated only for KindSchedulingConflict.
type Error struct {
	Kind      Kind
	Message   string
	Conflicts []Conflict
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the status code the HTTP layer writes for this error.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound, KindMemberNotFound:
		return http.StatusNotFound
	case KindForbidden, KindNotAMember:
		return http.StatusForbidden
	case KindValidation, KindCapacityExceeded, KindDefaultProtected, KindSoleMember:
		return http.StatusBadRequest
	case KindSchedulingConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindStore:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// KindOf extracts the Kind of err, or "" when err is not a domain *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func notAMember(format string, args ...any) *Error {
	return &Error{Kind: KindNotAMember, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func capacityExceeded(format string, args ...any) *Error {
	return &Error{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

func memberNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindMemberNotFound, Message: fmt.Sprintf(format, args...)}
}

func defaultProtected(format string, args ...any) *Error {
	return &Error{Kind: KindDefaultProtected, Message: fmt.Sprintf(format, args...)}
}

func soleMember(format string, args ...any) *Error {
	return &Error{Kind: KindSoleMember, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func storeErr(err error, format string, args ...any) *Error {
	return &Error{Kind: KindStore, Message: fmt.Sprintf(format, args...), Err: err}
}
