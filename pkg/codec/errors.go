package codec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrNotObject            = errors.New("payload is not an object")
	ErrUnsupportedVersion   = errors.New("unsupported payload version")
	ErrMissingRequiredField = errors.New("missing required field")
)

// DecodeError reports transport text that could not be turned into a
// compact payload.
type DecodeError struct {
	reason error
}

func (e DecodeError) Error() string {
	return "decode payload: " + e.reason.Error()
}

func (e DecodeError) Unwrap() error {
	return e.reason
}

func IsDecodeError(err error) bool {
	var de DecodeError
	return errors.As(err, &de)
}

func decodeErrorf(format string, args ...interface{}) error {
	return DecodeError{reason: fmt.Errorf(format, args...)}
}

// MissingFieldError names the required fields that were empty after
// expansion.
type MissingFieldError struct {
	Fields []string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, strings.Join(e.Fields, ", "))
}

func (e MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}
