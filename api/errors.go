package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// Fallback messages when a failed response carries no usable detail.
const (
	RequestFailed = "Request failed"
	UploadFailed  = "Upload failed"
)

var (
	// ErrUnauthorized matches a RequestError for a 401 response, typically an expired or invalid token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches a RequestError for a 404 response.
	ErrNotFound = errors.New("not found")
)

// RequestError is a non-2xx response. Its message is exactly the server's detail.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string { return e.Detail }

// Is makes errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrNotFound) work on status codes.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// DecodeError is a successful response whose body is not the expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode response of %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NetworkError is a failure before any response was received.
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot http %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// detailPaths are probed in order. Validation failures report a list of
// {loc, msg, type} objects instead of a plain string.
var detailPaths = []string{"$.detail", "$.detail[0].msg"}

// newRequestError builds the error for a failed response body.
func newRequestError(status int, body []byte, fallback string) *RequestError {
	return &RequestError{StatusCode: status, Detail: parseDetail(body, fallback)}
}

// parseDetail extracts the detail message of an error body, or returns fallback.
func parseDetail(body []byte, fallback string) string {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return fallback
	}
	for _, path := range detailPaths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if s, ok := jval.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
