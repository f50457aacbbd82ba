package billing

import "fmt"

// NetworkError is returned when the transport fails before a response arrives.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ResponseFormatError is returned when the response body is not a JSON object.
// Status holds the HTTP status text, e.g. "500 Internal Server Error".
type ResponseFormatError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("%s: invalid response format (%s)", e.Op, e.Status)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// RequestFailedError is returned when the backend answers with a non-2xx status.
// Message is the backend's error message, or the operation default when the
// body carries none.
type RequestFailedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

// ConfigurationError is returned when required configuration is missing at
// initialization time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "billing configuration error: " + e.Reason
}
