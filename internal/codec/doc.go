// Package codec turns raw buffers into typed views and back. It covers the
// structured formats (JSON and deterministic CBOR), the zero-copy blob
// format whose builders live next to the shapes they read, and the
// compression applied to stored buffers.
package codec
