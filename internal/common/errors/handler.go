// internal/common/errors/handler.go
package errors

import "net/http"

// HTTPStatus maps a standardized error code onto an HTTP status for the API
// surface. Unknown codes map to 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeEmployeeNotFound, ErrCodeDepartmentNotFound:
		return http.StatusNotFound
	case ErrCodeDataUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeDatabaseConnectionFailed, ErrCodeSnapshotLoadFail:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPError is the JSON error body returned by the API.
type HTTPError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ToHTTPError converts any error into the API error body plus status code.
func ToHTTPError(err error) (int, HTTPError) {
	stdErr := AsStandardError(err)
	return HTTPStatus(stdErr.Code), HTTPError{
		Code:    stdErr.Code,
		Message: stdErr.Message,
		Details: stdErr.Details,
	}
}
