package perrors

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeInvalidRequest   ErrCode = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeValidationFailed         = ErrCode{"validation_failed", http.StatusBadRequest}
	ErrCodeUnauthorized             = ErrCode{"unauthorized", http.StatusUnauthorized}
	ErrCodeNotFound                 = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeConflict                 = ErrCode{"conflict", http.StatusConflict}
	ErrCodeInternalServer           = ErrCode{"internal_server_error", http.StatusInternalServerError}
)

// FieldError ties a validation message to the offending input key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Err struct {
	Message    string                   `json:"-"`
	Err        string                   `json:"error"`
	Code       ErrCode                  `json:"-"`
	Fields     []FieldError             `json:"fields,omitempty"`
	Stacktrace []string                 `json:"-"`
	Args       []map[string]interface{} `json:"args,omitempty"`
}

func (e Err) Error() string {
	return e.Err
}

func (e Err) HttpStatus() int {
	return e.Code.Status
}

func (e Err) Print(ctx context.Context) {
	args := append([]any{}, slog.Any("error", e.Error()))
	if len(e.Args) > 0 {
		for k, v := range e.Args[0] {
			args = append(args, slog.Any(k, v))
		}
	}
	args = append(args, slog.Any("stacktrace", e.Stacktrace))
	slog.ErrorContext(ctx, e.Message, args...)
}

func New(code ErrCode, msg string, err error, args ...map[string]interface{}) error {
	pc := make([]uintptr, 20)
	count := runtime.Callers(1, pc)
	frames := runtime.CallersFrames(pc[:count])

	var stacktrace []string
	for frame, hasMore := frames.Next(); hasMore; frame, hasMore = frames.Next() {
		stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
	}

	errString := "error missing"
	if err != nil {
		errString = err.Error()
	}

	return Err{
		Code:       code,
		Message:    msg,
		Err:        errString,
		Stacktrace: stacktrace,
		Args:       args,
	}
}

// NewErrValidation carries one entry per offending field. Validation runs
// before any mutation is attempted, so a validation error implies no write.
func NewErrValidation(msg string, fields []FieldError) error {
	e := New(ErrCodeValidationFailed, msg, fmt.Errorf("%s", msg)).(Err)
	e.Fields = fields
	return e
}

func NewErrInvalidRequest(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInvalidRequest, msg, err, args...)
}

func NewErrUnauthorized(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeUnauthorized, msg, err, args...)
}

// NewErrNotFound is used both for genuinely missing records and for
// ownership/visibility violations, so a caller cannot probe for the
// existence of another user's resources.
func NewErrNotFound(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeNotFound, msg, err, args...)
}

func NewErrConflict(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeConflict, msg, err, args...)
}

func NewErrInternalServerError(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInternalServer, msg, err, args...)
}
