// Package types defines the addressing, ownership and erasure primitives of
// the almanac data layer: data keys, locales, buffer-owning payloads, erased
// payloads, request/response values, provider interfaces and the error
// taxonomy.
//
// A typical load goes Key + Locale -> provider -> Payload[T]. Code that
// handles many shapes works with ErasedPayload and recovers the typed
// payload with Downcast.
package types
