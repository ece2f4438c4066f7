package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the data layer reports. An ErrorKind is
// itself an error so it can be used as a sentinel with errors.Is; the richer
// *DataError unwraps to its kind.
type ErrorKind uint8

// Data errors. None of them are retried inside this module.
const (
	ErrMissingDataKey ErrorKind = iota + 1
	ErrMissingLocale
	ErrNeedsLocale
	ErrExtraneousLocale
	ErrFilteredResource
	ErrMismatchedType
	ErrMissingPayload
	ErrInvalidState
	ErrCustom
	ErrIo
	ErrUnavailableBufferFormat
	ErrMalformedPath
	ErrHashCollision
)

var errorKindNames = map[ErrorKind]string{
	ErrMissingDataKey:          "missing data key",
	ErrMissingLocale:           "missing locale",
	ErrNeedsLocale:             "request needs a locale",
	ErrExtraneousLocale:        "request has an extraneous locale",
	ErrFilteredResource:        "resource blocked by filter",
	ErrMismatchedType:          "mismatched type",
	ErrMissingPayload:          "missing payload",
	ErrInvalidState:            "invalid state",
	ErrCustom:                  "custom",
	ErrIo:                      "io error",
	ErrUnavailableBufferFormat: "unavailable buffer format",
	ErrMalformedPath:           "malformed key path",
	ErrHashCollision:           "key hash collision",
}

// Error returns the human-readable name of the kind.
func (k ErrorKind) Error() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown error kind(%d)", uint8(k))
}

// WithKey attaches the data key that was being loaded.
func (k ErrorKind) WithKey(key DataKey) *DataError {
	return &DataError{Kind: k, Key: key}
}

// WithRequest attaches both the key and the requested locale.
func (k ErrorKind) WithRequest(key DataKey, req DataRequest) *DataError {
	loc := req.Locale
	return &DataError{Kind: k, Key: key, Locale: &loc}
}

// WithContext attaches a free-form diagnostic string.
func (k ErrorKind) WithContext(context string) *DataError {
	return &DataError{Kind: k, Context: context}
}

// Wrap attaches an underlying cause.
func (k ErrorKind) Wrap(err error) *DataError {
	return &DataError{Kind: k, Err: err}
}

// DataError is the error returned by loads, downcasts and constructors.
type DataError struct {
	Kind    ErrorKind
	Key     DataKey // zero when the error is not tied to a key
	Locale  *Locale
	Context string
	Err     error
}

// Error formats the kind followed by whatever context is present.
func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString("almanac data error: ")
	b.WriteString(e.Kind.Error())
	if e.Context != "" {
		b.WriteString(": ")
		b.WriteString(e.Context)
	}
	if !e.Key.IsZero() {
		b.WriteString(" (key: ")
		b.WriteString(e.Key.Path())
		if e.Locale != nil {
			b.WriteString(", locale: ")
			b.WriteString(e.Locale.String())
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *DataError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WithKey returns a copy of e carrying key.
func (e *DataError) WithKey(key DataKey) *DataError {
	c := *e
	c.Key = key
	return &c
}

// WithRequest returns a copy of e carrying key and the request locale.
func (e *DataError) WithRequest(key DataKey, req DataRequest) *DataError {
	c := *e
	c.Key = key
	loc := req.Locale
	c.Locale = &loc
	return &c
}

// WithContext returns a copy of e with its context replaced.
func (e *DataError) WithContext(context string) *DataError {
	c := *e
	c.Context = context
	return &c
}

// CustomError wraps a collaborator-supplied message.
func CustomError(msg string) *DataError {
	return &DataError{Kind: ErrCustom, Context: msg}
}

// IoError wraps an error raised by an external byte source.
func IoError(err error) *DataError {
	return &DataError{Kind: ErrIo, Err: err}
}

// KindOf returns the ErrorKind carried by err, or zero when err does not
// come from this package.
func KindOf(err error) ErrorKind {
	var de *DataError
	if errors.As(err, &de) {
		return de.Kind
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
