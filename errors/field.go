package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a field name to err, for example "Owners" or "Owners.2"
// for an element of a list. The description is optional and is formatted
// with args when given. A nil err gives nil.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{name: name, desc: description, cause: err}
}

// AppendField adds err, labelled with the field name, to errs. It is the
// usual way of collecting validation failures of a model:
//
//	err = errors.AppendField(err, "Recipient", m.Recipient.Validate())
//	err = errors.AppendField(err, "Amount", m.Amount.Validate())
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	name  string
	desc  string
	cause error
}

func (e *fieldError) Error() string {
	msg := fmt.Sprintf("field %q", e.name)
	if e.desc != "" {
		msg += ": " + e.desc
	}
	return msg + ": " + e.cause.Error()
}

func (e *fieldError) Cause() error {
	return e.cause
}

func (e *fieldError) Field() string {
	return e.name
}

// FieldErrors collects every error labelled with the given field name,
// searching through wrapped and grouped errors.
func FieldErrors(err error, name string) []error {
	var found []error
	walkFields(err, func(f *fieldError) {
		if f.name == name {
			found = append(found, f)
		}
	})
	return found
}

// walkFields calls fn for the outermost field error of every branch of
// err. Field errors nested inside another field error are not visited.
func walkFields(err error, fn func(*fieldError)) {
	for !isNilErr(err) {
		switch e := err.(type) {
		case *fieldError:
			fn(e)
			return
		case unpacker:
			for _, inner := range e.Unpack() {
				walkFields(inner, fn)
			}
			return
		case causer:
			err = e.Cause()
		default:
			return
		}
	}
}
