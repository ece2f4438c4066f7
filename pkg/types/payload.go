package types

import "unsafe"

// Buffer is a backing allocation shared by every payload derived from it.
// Its bytes are never mutated after construction. The garbage collector
// keeps a Buffer alive for as long as any payload refers to it, which is
// what ties a borrowing view to the bytes it points into.
type Buffer struct {
	bytes []byte
}

// Bytes returns the backing bytes. Callers must not modify them.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.bytes
}

// Len returns the size of the allocation in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.bytes)
}

// Payload pairs a typed view with the buffer the view borrows from. A
// payload built from static data has no buffer. The view is built exactly
// once and never re-pointed, and there is no accessor that returns the view
// without the payload that keeps its buffer reachable.
//
// Payloads are immutable values; copying one (or calling Clone) shares the
// buffer rather than the bytes.
type Payload[T any] struct {
	buffer *Buffer
	view   T
}

// Detacher is implemented by views that can produce a copy of themselves
// that no longer borrows from any buffer.
type Detacher[T any] interface {
	Detach() T
}

// FromStatic wraps a view that only references static or independently
// owned memory.
func FromStatic[T any](view T) Payload[T] {
	return Payload[T]{view: view}
}

// FromOwnedBuffer takes ownership of buf and builds a view that may borrow
// from it. The only failure is an error from build, returned unchanged.
// The caller must not modify buf afterwards.
func FromOwnedBuffer[T any](buf []byte, build func([]byte) (T, error)) (Payload[T], error) {
	backing := &Buffer{bytes: buf}
	view, err := build(backing.bytes)
	if err != nil {
		return Payload[T]{}, err
	}
	return Payload[T]{buffer: backing, view: view}, nil
}

// Get returns the view. Values reachable from it may alias the backing
// buffer, which stays alive as long as they do.
func (p Payload[T]) Get() T {
	return p.view
}

// Clone returns a payload sharing the same buffer. It never copies bytes.
func (p Payload[T]) Clone() Payload[T] {
	return Payload[T]{buffer: p.buffer, view: p.view}
}

// Backing returns the shared allocation, or nil for static payloads.
func (p Payload[T]) Backing() *Buffer {
	return p.buffer
}

// IsStatic reports whether the payload has no backing buffer.
func (p Payload[T]) IsStatic() bool {
	return p.buffer == nil
}

// IntoOwned returns a value that is independent of the backing buffer.
// Static payloads return their view directly. Buffer-backed payloads need a
// view implementing Detacher; otherwise ErrMissingPayload is returned
// because the shape cannot exist without its buffer.
func (p Payload[T]) IntoOwned() (T, error) {
	if p.buffer == nil {
		return p.view, nil
	}
	if d, ok := any(p.view).(Detacher[T]); ok {
		return d.Detach(), nil
	}
	var zero T
	return zero, ErrMissingPayload.WithContext("view of type " + typeName[T]() + " cannot be detached from its buffer")
}

// MapPayload derives a new view over the same backing buffer. The bytes are
// not copied and the new payload keeps the buffer alive just like p does.
func MapPayload[T, U any](p Payload[T], transform func(T) (U, error)) (Payload[U], error) {
	view, err := transform(p.view)
	if err != nil {
		return Payload[U]{}, err
	}
	return Payload[U]{buffer: p.buffer, view: view}, nil
}

// SharesBacking reports whether two payloads are backed by the same
// allocation. Static payloads share nothing.
func SharesBacking[T, U any](a Payload[T], b Payload[U]) bool {
	return a.buffer != nil && a.buffer == b.buffer
}

// BorrowString returns a string that aliases b without copying. The caller
// must only use it for bytes owned by a Buffer, which are never mutated.
func BorrowString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
