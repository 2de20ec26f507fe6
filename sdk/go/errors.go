package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = &TransportError{StatusCode: http.StatusNotFound}

	// ErrBadRequest is returned when the request is invalid.
	ErrBadRequest = &TransportError{StatusCode: http.StatusBadRequest}

	// ErrInternal is returned when an internal server error occurs.
	ErrInternal = &TransportError{StatusCode: http.StatusInternalServerError}

	// ErrReportIDRequired is returned when an operation needs a report id and got none.
	ErrReportIDRequired = &ValidationError{Field: "reportId", Message: "reportId is required"}

	// ErrDownloadUnavailable is returned when a report has no download url yet.
	ErrDownloadUnavailable = &ValidationError{Field: "url", Message: "download url not available"}
)

// TransportError is a failed exchange with the report service: either the
// request never got a response (StatusCode is 0) or the response status was
// not 2xx.
type TransportError struct {
	Op         string
	StatusCode int
	Status     string
	// Detail is the server supplied error message, when the body carried one.
	Detail string
	Err    error
}

// Error returns the error message.
func (e *TransportError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "Error: %d - %s", e.StatusCode, e.Status)
		if e.Detail != "" {
			fmt.Fprintf(&b, " (%s)", e.Detail)
		}
		if e.Err != nil {
			fmt.Fprintf(&b, ": %v", e.Err)
		}
		return b.String()
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("transport failure")
	}
	return b.String()
}

// Is matches transport errors by status code.
func (e *TransportError) Is(target error) bool {
	t, ok := target.(*TransportError)
	if !ok {
		return false
	}
	return t.StatusCode != 0 && e.StatusCode == t.StatusCode
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is a client-side rejection. It is never sent to the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is matches validation errors on the same field and message.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Field == t.Field && e.Message == t.Message
}

// errorResponse is the error body shape some servers send.
type errorResponse struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// handleErrorResponse turns a non-2xx response into a *TransportError.
func handleErrorResponse(op string, resp *http.Response) error {
	te := &TransportError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return te
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		te.Detail = errResp.Message
		if len(errResp.Error) > 0 {
			var s string
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(errResp.Error, &s) == nil && s != "" {
				te.Detail = s
			} else if json.Unmarshal(errResp.Error, &nested) == nil && nested.Message != "" {
				te.Detail = nested.Message
			}
		}
	}
	return te
}

// statusText returns the reason phrase of a response, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest checks if an error is a bad request error.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err came from the exchange with the service.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
