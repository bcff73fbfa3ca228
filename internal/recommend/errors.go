package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnavailable signals that the engine cannot serve recommendations at all:
// no artifact is loaded or the embedding backend is unreachable. The HTTP
// layer maps it to 503.
var ErrUnavailable = errors.New("recommendation engine unavailable")

// ValidationError reports an invalid candidate profile with per-field detail.
// The HTTP layer maps it to 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid candidate profile"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}

	return "invalid candidate profile: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
