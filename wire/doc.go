// Package wire implements the protobuf binary wire format as a set of pure
// functions over a byte buffer and an integer cursor.
//
// Every decoder has the shape
//
//	func(pos int, buf []byte) (next int, value T, err error)
//
// It reads exactly one value starting at pos and returns the position just
// past it. Decoders never modify buf, keep no state between calls and check
// bounds before every read, so they are safe to call concurrently on shared,
// untrusted input. On failure the returned position and value are zero and
// err is a *DecodeError whose Kind says what went wrong.
//
// The package does not know about schemas. Callers drive decoding by reading
// a key with DecodeKey and dispatching on the field number and wire type.
// Embedded messages and packed repeated fields come back as raw sub-slices;
// recursing into them is up to the caller.
//
// The encode side is limited to EncodeVarint and EncodeKey.
package wire
