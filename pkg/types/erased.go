package types

import (
	"fmt"
	"reflect"
)

// erasedKind records how the erased value is held.
type erasedKind uint8

const (
	erasedNone erasedKind = iota
	// erasedStatic holds a payload without a backing buffer.
	erasedStatic
	// erasedShared holds a payload that co-owns a buffer.
	erasedShared
)

// ErasedPayload is a payload whose view type has been hidden. It moves
// through code that handles many data shapes and is recovered with
// Downcast.
type ErasedPayload struct {
	inner    any
	kind     erasedKind
	typeName string
}

// typeName returns the Go name of T, including type arguments.
func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Upcast erases the view type of p. It always succeeds.
func Upcast[T any](p Payload[T]) ErasedPayload {
	kind := erasedShared
	if p.IsStatic() {
		kind = erasedStatic
	}
	return ErasedPayload{inner: p, kind: kind, typeName: typeName[T]()}
}

// Downcast recovers a Payload[T]. The check happens on the dynamic type
// before anything is read as T. On mismatch the error is a *MismatchError
// matching ErrMismatchedType, and e itself remains usable: values are not
// consumed, so the caller may retry with another type.
func Downcast[T any](e ErasedPayload) (Payload[T], error) {
	if p, ok := e.inner.(Payload[T]); ok {
		return p, nil
	}
	return Payload[T]{}, &MismatchError{Requested: typeName[T](), Erased: e}
}

// TypeName returns the name of the type the payload was erased from. It is
// for diagnostics only.
func (e ErasedPayload) TypeName() string {
	return e.typeName
}

// IsZero reports whether e holds nothing.
func (e ErasedPayload) IsZero() bool {
	return e.kind == erasedNone
}

// IsStatic reports whether the erased payload has no backing buffer.
func (e ErasedPayload) IsStatic() bool {
	return e.kind == erasedStatic
}

// MismatchError reports a failed Downcast. It carries the erased value back
// so the caller does not lose it.
type MismatchError struct {
	Requested string
	Erased    ErasedPayload
}

// Error names both the requested and the erased type.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("almanac data error: %s: requested %s, payload holds %s",
		ErrMismatchedType.Error(), e.Requested, e.Erased.TypeName())
}

// Unwrap makes errors.Is(err, ErrMismatchedType) hold.
func (e *MismatchError) Unwrap() error {
	return ErrMismatchedType
}
