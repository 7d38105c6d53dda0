package custerror

import "fmt"

// Error codes follow the gRPC numbering so they survive
// being forwarded through other services unchanged.
const (
	CodeInvalidArgument  uint32 = 3
	CodeNotFound         uint32 = 5
	CodeAlreadyExists    uint32 = 6
	CodePermissionDenied uint32 = 7
	CodeInternal         uint32 = 13
	CodeUnavailable      uint32 = 14
	CodeTimeout          uint32 = 4
)

type CustomError struct {
	Code    uint32
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

func newError(code uint32, format string, args ...interface{}) *CustomError {
	return &CustomError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

var (
	ErrorInvalidArgument  = newError(CodeInvalidArgument, "invalid argument")
	ErrorNotFound         = newError(CodeNotFound, "not found")
	ErrorAlreadyExists    = newError(CodeAlreadyExists, "already exists")
	ErrorPermissionDenied = newError(CodePermissionDenied, "permission denied")
	ErrorInternal         = newError(CodeInternal, "internal error")
	ErrorUnavailable      = newError(CodeUnavailable, "unavailable")
	ErrorTimeout          = newError(CodeTimeout, "timeout")
)

func FormatInvalidArgument(format string, args ...interface{}) *CustomError {
	return newError(CodeInvalidArgument, format, args...)
}

func FormatNotFound(format string, args ...interface{}) *CustomError {
	return newError(CodeNotFound, format, args...)
}

func FormatAlreadyExists(format string, args ...interface{}) *CustomError {
	return newError(CodeAlreadyExists, format, args...)
}

func FormatPermissionDenied(format string, args ...interface{}) *CustomError {
	return newError(CodePermissionDenied, format, args...)
}

func FormatInternalError(format string, args ...interface{}) *CustomError {
	return newError(CodeInternal, format, args...)
}

func FormatUnavailable(format string, args ...interface{}) *CustomError {
	return newError(CodeUnavailable, format, args...)
}

func FormatTimeout(format string, args ...interface{}) *CustomError {
	return newError(CodeTimeout, format, args...)
}
