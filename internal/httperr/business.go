package httperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindValidation
	KindAlreadyReviewed
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindAlreadyReviewed:
		return "already_reviewed"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// BusinessError is a rule violation that is safe to show to the caller.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

var ErrAlreadyReviewed = BusinessError{
	Kind:    KindAlreadyReviewed,
	Code:    "already_reviewed",
	Message: "booking already has a review",
}

// ErrBusiness builds a validation error; most rule checks that are not
// about existence, ownership or state land here.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ConflictErr(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ForbiddenErr(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func ValidationErr(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func InvalidStateErr(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
