package errcodes

import (
	"fmt"
	"net/http"
)

// Error is an error that maps directly onto an HTTP response.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	*te = *err
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return *te == *err
}

func newError(httpCode int, code, message string) error {
	return &Error{HTTPCode: httpCode, Message: message, Code: code}
}

// NotFound returns a 404 error naming the missing resource.
func NotFound(resource string) error {
	return newError(http.StatusNotFound, "not_found", resource+" not found.")
}

// Forbidden returns a 403 error saying the action isn't allowed.
func Forbidden(action string) error {
	return newError(http.StatusForbidden, "forbidden", action+" is not allowed.")
}

func Unauthorized() error {
	return newError(http.StatusUnauthorized, "unauthorized", "A valid API key is required.")
}

// Conflict returns a 409 error for a resource that already exists.
func Conflict(resource string) error {
	return newError(http.StatusConflict, "conflict", resource+" already exists.")
}

// CommentsClosed is returned when annotating an object that doesn't accept
// annotations.
func CommentsClosed() error {
	return newError(http.StatusForbidden, "comments_closed", "Annotations are closed for this item.")
}

func UnsupportedMediaType() error {
	return newError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type")
}

func UnknownParameter(param string) error {
	return newError(http.StatusUnprocessableEntity, "unknown_parameter", fmt.Sprintf("Unknown Parameter %q", param))
}

func ValidationTypeError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_type_error", msg)
}

func ValidationError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_error", msg)
}

func MalformedPayload() error {
	return newError(http.StatusBadRequest, "malformed_payload", "Malformed Payload")
}

func EmptyRequestBody() error {
	return newError(http.StatusBadRequest, "empty_request_body", "Request body can't be empty.")
}
