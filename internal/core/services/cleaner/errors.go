package cleaner

import (
	"errors"
	"fmt"
)

// ErrUnknownTransformation is matched by every UnknownTransformationError.
var ErrUnknownTransformation = errors.New("unknown transformation")

// UnknownTransformationError names the identifier that failed to resolve
// against the catalog.
type UnknownTransformationError struct {
	Name string
}

func (e *UnknownTransformationError) Error() string {
	return fmt.Sprintf("unknown transformation %q", e.Name)
}

func (e *UnknownTransformationError) Is(target error) bool {
	return target == ErrUnknownTransformation
}

// UnknownName extracts the offending identifier from err, if any.
func UnknownName(err error) (string, bool) {
	var unknown *UnknownTransformationError
	if errors.As(err, &unknown) {
		return unknown.Name, true
	}
	return "", false
}
