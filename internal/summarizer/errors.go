package summarizer

import "strings"

const defaultRequestErrorMessage = "Request failed"

//nolint:gochecknoglobals // Lookup table meant to be immutable.
var transientMarkers = []string{
	"overloaded",
	"service is currently unavailable",
	"503",
}

// RequestError reports a failed remote call. Message is safe to show to users.
type RequestError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return defaultRequestErrorMessage
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err looks like a temporary overload of the remote API.
// Classification is a case-insensitive substring match on the error message.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
