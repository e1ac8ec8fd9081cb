package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are provided or all errors are nil, this function returns
// nil. When only one non-nil error is provided, it is returned as it is.
func Append(errs ...error) error {
	var collected multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten so that the tree depth stays at one level.
		if m, ok := e.(multiErr); ok {
			collected = append(collected, m...)
		} else {
			collected = append(collected, e)
		}
	}
	switch len(collected) {
	case 0:
		return nil
	case 1:
		return collected[0]
	default:
		return collected
	}
}

type multiErr []error

func (errs multiErr) Error() string {
	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(points, "\n\t"))
}

// Unpack implements unpacker interface.
func (errs multiErr) Unpack() []error {
	return errs
}

// ABCICode returns the code of the first error, following the fail-fast
// convention.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

// unpacker is implemented by errors that group several error instances.
type unpacker interface {
	Unpack() []error
}
