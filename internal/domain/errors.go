package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so the transport layer can pick a status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindAuthorization
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrPersistence  = errors.New("persistence error")
	ErrUnauthorized = errors.New("unauthenticated")
)

// Error codes carried by *Error.
const (
	CodeInvalidInput      = "invalid_input"
	CodeInvalidRange      = "invalid_range"
	CodePastCheckIn       = "past_check_in"
	CodeCapacityExceeded  = "capacity_exceeded"
	CodeRoomInactive      = "room_inactive"
	CodeBookingConflict   = "booking_conflict"
	CodeIllegalTransition = "illegal_transition"
	CodeBookingClosed     = "booking_closed"
	CodeDuplicate         = "duplicate"
	CodeInUse             = "in_use"
	CodeOverpayment       = "overpayment"
	CodeNotRefundable     = "not_refundable"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeStore             = "store_failure"
	CodeBusy              = "busy"
)

type Error struct {
	Kind Kind
	Code string
	Msg  string
	// Refs names the entities involved, e.g. conflicting booking references.
	Refs []string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if len(e.Refs) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Refs, ", "))
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrForbidden:
		return e.Kind == KindAuthorization
	case ErrPersistence:
		return e.Kind == KindPersistence
	}
	return false
}

func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Msg: fmt.Sprintf("%s %v not found", entity, id)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeForbidden, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store failure. Already-classified errors pass through.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindPersistence, Code: CodeStore, Msg: op, Err: err}
}

// BookingConflict lists the references of the overlapping bookings.
func BookingConflict(roomNumber string, refs []string) *Error {
	return &Error{
		Kind: KindConflict,
		Code: CodeBookingConflict,
		Msg:  fmt.Sprintf("room %s is not available for the selected dates", roomNumber),
		Refs: refs,
	}
}

func IllegalTransition(current, requested BookingStatus) *Error {
	return &Error{
		Kind: KindConflict,
		Code: CodeIllegalTransition,
		Msg:  fmt.Sprintf("cannot move booking from %s to %s", current, requested),
	}
}

// KindOf reports the kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// CodeOf reports the code of err, or "" when err is not a domain error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
