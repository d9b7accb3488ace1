package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes surfaced to callers. The dispatcher and the UI both branch on these.
const (
	CodeInvalidArgument = "ERR_INVALID_ARGUMENT"
	CodePathEscape      = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeNotFound        = "ERR_NOT_FOUND"
	CodeNoMatch         = "ERR_NO_MATCH"
	CodePermission      = "ERR_PERMISSION"
	CodeInvalidContent  = "ERR_INVALID_CONTENT"
	CodeUnknownTool     = "ERR_UNKNOWN_TOOL"
	CodeDeniedRead      = "ERR_DENIED_READ"
	CodeDeniedWrite     = "ERR_DENIED_WRITE"
)

// OpError is a machine-readable error body for surfacing back to the agent as JSON.
type OpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool_result payloads small.
func (e OpError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Errf builds an OpError with a formatted message.
func Errf(code, format string, args ...any) OpError {
	return OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is (or wraps) an OpError with the given code.
func IsCode(err error, code string) bool {
	var oe OpError
	return errors.As(err, &oe) && oe.Code == code
}
