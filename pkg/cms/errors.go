package cms

import "fmt"

// RequestError reports a non-2xx response. The body is never parsed.
type RequestError struct {
	Path       string
	StatusCode int
	Status     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("strapi error %d: %s (%s)", e.StatusCode, e.Status, e.Path)
}

// ParseError reports a successful response whose body is not a valid envelope.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
