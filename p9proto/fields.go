package p9proto

import (
	"encoding/binary"
	"io"
	"unicode/utf8"
)

// Shorthand for parsing and encoding the fixed-width integers that
// appear throughout the wire format.
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64

	buint16 = binary.LittleEndian.PutUint16
	buint32 = binary.LittleEndian.PutUint32
	buint64 = binary.LittleEndian.PutUint64
)

// parseU8 consumes a single byte.
func parseU8(b []byte) (rest []byte, v uint8, err error) {
	if len(b) < 1 {
		return nil, 0, ErrMessageLength
	}
	return b[1:], b[0], nil
}

// parseU16 consumes a little-endian uint16.
func parseU16(b []byte) (rest []byte, v uint16, err error) {
	if len(b) < 2 {
		return nil, 0, ErrMessageLength
	}
	return b[2:], guint16(b), nil
}

// parseU32 consumes a little-endian uint32.
func parseU32(b []byte) (rest []byte, v uint32, err error) {
	if len(b) < 4 {
		return nil, 0, ErrMessageLength
	}
	return b[4:], guint32(b), nil
}

// parseU64 consumes a little-endian uint64.
func parseU64(b []byte) (rest []byte, v uint64, err error) {
	if len(b) < 8 {
		return nil, 0, ErrMessageLength
	}
	return b[8:], guint64(b), nil
}

// parseString consumes a u16 length prefix followed by that many
// bytes of UTF-8 text. The returned string is a copy of those bytes;
// it does not alias b.
func parseString(b []byte) (rest []byte, s string, err error) {
	b, n, err := parseU16(b)
	if err != nil {
		return nil, "", err
	}
	if len(b) < int(n) {
		return nil, "", ErrMessageLength
	}
	data := b[:n]
	if !utf8.Valid(data) {
		return nil, "", ErrInvalidUTF8
	}
	return b[n:], string(data), nil
}

// parseBytes consumes a u32 length prefix followed by that many raw
// bytes, used only for Rread/Twrite payloads. The returned slice
// aliases b.
func parseBytes(b []byte) (rest []byte, data []byte, err error) {
	b, n, err := parseU32(b)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(b)) < uint64(n) {
		return nil, nil, ErrMessageLength
	}
	return b[n:], b[:n], nil
}

// endOfMessage fails with ErrMessageLength if b is non-empty; it is
// called after a message's parser has consumed every declared field,
// enforcing that no trailing bytes remain.
func endOfMessage(b []byte) error {
	if len(b) != 0 {
		return ErrMessageLength
	}
	return nil
}

// sizeString returns the wire size, in bytes, of a length-prefixed
// string field.
func sizeString(s string) int { return 2 + len(s) }

// sizeBytes returns the wire size, in bytes, of a length-prefixed
// byte blob field.
func sizeBytes(b []byte) int { return 4 + len(b) }

// A fieldWriter wraps an io.Writer and defers error checking to its
// final Err field: once a write fails, every subsequent Put* call is
// a no-op. It lets a message's Write method read as a flat sequence
// of field writes with a single error check at the end, while still
// propagating the underlying transport's I/O errors to the caller.
type fieldWriter struct {
	w   io.Writer
	Err error
}

func newFieldWriter(w io.Writer) *fieldWriter {
	return &fieldWriter{w: w}
}

func (w *fieldWriter) write(p []byte) {
	if w.Err != nil || len(p) == 0 {
		return
	}
	_, w.Err = w.w.Write(p)
}

func (w *fieldWriter) PutU8(v uint8) { w.write([]byte{v}) }

func (w *fieldWriter) PutU16(v uint16) {
	var tmp [2]byte
	buint16(tmp[:], v)
	w.write(tmp[:])
}

func (w *fieldWriter) PutU32(v uint32) {
	var tmp [4]byte
	buint32(tmp[:], v)
	w.write(tmp[:])
}

func (w *fieldWriter) PutU64(v uint64) {
	var tmp [8]byte
	buint64(tmp[:], v)
	w.write(tmp[:])
}

func (w *fieldWriter) PutString(s string) {
	w.PutU16(uint16(len(s)))
	w.write([]byte(s))
}

func (w *fieldWriter) PutBytes(b []byte) {
	w.PutU32(uint32(len(b)))
	w.write(b)
}

// PutRaw writes pre-encoded bytes verbatim, used by RRead and TWrite
// for their data payload after its length prefix.
func (w *fieldWriter) PutRaw(b []byte) { w.write(b) }
