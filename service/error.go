package service

import (
	"errors"
	"fmt"
)

// ErrDepositNotFound is returned when no accepted deposit exists at the
// requested index.
var ErrDepositNotFound = errors.New("deposit not found")

// Verify Interface Compliance
var _ error = (*Err)(nil)

// Err defines service errors.
type Err struct {
	Code    int64  `json:"code"`
	Message string `json:"error"`
}

func (e Err) Enrich(message string) Err {
	return Err{
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, message),
	}
}

func (e Err) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func InternalErrorWithError(err error) *Err {
	return &Err{
		Code:    500,
		Message: err.Error(),
	}
}

func NotFoundWithError(err error) *Err {
	return &Err{
		Code:    404,
		Message: err.Error(),
	}
}

func BadRequestWithError(err error) *Err {
	return &Err{
		Code:    400,
		Message: err.Error(),
	}
}
