package response

import "net/http"

// HTTPError is an error with an HTTP status, a machine-readable code and a message.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError creates a 500 error with a custom message.
func NewHTTPError(message string) HTTPError {
	return ErrInternalServerError.WithMessage(message)
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error with the cause recorded in Details.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

var (
	ErrBadRequest            = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrForbidden             = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound              = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrConflict              = newHTTPError(http.StatusConflict, "conflict")
	ErrRequestEntityTooLarge = newHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnprocessableEntity   = newHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests       = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError   = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrServiceUnavailable    = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusConflict:              ErrConflict,
	http.StatusRequestEntityTooLarge: ErrRequestEntityTooLarge,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
}
