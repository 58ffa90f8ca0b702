// Package benc decodes and encodes bencode, the self-delimiting byte
// encoding used by peer-to-peer file-sharing protocols: integers
// (i42e), length-prefixed byte strings (4:spam), lists (l...e), and
// dictionaries with byte-string keys (d...e).
//
// Ownership boundary:
// - grammar decode into the Value tree (Decode, Decoder)
// - canonical encode back to bytes (Encode, AppendValue)
// - reflection mapping onto Go types (Marshal, Unmarshal)
//
// Decode is a pure prefix operation: it consumes one value and hands
// back the rest of the buffer, holds no state between calls, and is
// safe to run concurrently on independent inputs. Failures wrap the
// package sentinel errors in *SyntaxError with the byte offset where
// the grammar broke.
package benc
