package apierr

import "fmt"

type Error struct {
	Status  int
	Code    string
	Err     error
	Details []string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithDetails attaches the offending identifiers (missing dependencies,
// conflicting module codes, dependent names) for UI display.
func WithDetails(status int, code string, err error, details []string) *Error {
	return &Error{Status: status, Code: code, Err: err, Details: details}
}
