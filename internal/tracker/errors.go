package tracker

import "fmt"

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeForbidden  = "forbidden"
	CodeInternal   = "internal"
)

type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return 400
	case CodeForbidden:
		return 403
	case CodeNotFound:
		return 404
	default:
		return 500
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

func NewValidationError(message string) error {
	return newError(CodeValidation, message)
}

func NewNotFoundError(id string) error {
	return newError(CodeNotFound, "record not found: "+id)
}

func NewForbiddenError(id string) error {
	return newError(CodeForbidden, "record belongs to another holder: "+id)
}

func NewInternalError(message string) error {
	return newError(CodeInternal, message)
}
