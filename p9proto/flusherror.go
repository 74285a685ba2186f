package p9proto

import "io"

// A TFlush message asks the server to abandon the pending request
// tagged Oldtag, replying to it (eventually) with either the
// request's ordinary reply or an Rerror{"interrupted"}, and replying
// to the TFlush itself with Rflush once that settling has happened.
// The synchronous engine never issues this message on its own
// (it has at most one request outstanding at a time, and simply waits
// for its reply); it is defined here for protocol completeness and
// for callers building their own cancellation on top of a transport.
type TFlush struct {
	Oldtag uint16
}

func (TFlush) MessageType() uint8 { return MsgTflush }
func (m TFlush) Size() int        { return 2 }
func (m TFlush) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { fw.PutU16(m.Oldtag) })
}

// ParseTFlush decodes a Tflush body.
func ParseTFlush(body []byte) (TFlush, error) {
	body, oldtag, err := parseU16(body)
	if err != nil {
		return TFlush{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TFlush{}, err
	}
	return TFlush{Oldtag: oldtag}, nil
}

// An RFlush reply has no body.
type RFlush struct{}

func (RFlush) MessageType() uint8        { return MsgRflush }
func (m RFlush) Size() int               { return 0 }
func (m RFlush) Write(w io.Writer) error { return writeFields(w, func(fw *fieldWriter) {}) }
func ParseRFlush(body []byte) (RFlush, error) {
	if err := endOfMessage(body); err != nil {
		return RFlush{}, err
	}
	return RFlush{}, nil
}

// An RError reply replaces the expected reply to any request that the
// server could not satisfy. Ename is a human-readable message; under
// 9P2000.u, Errno additionally carries a numeric errno the client can
// match against its own platform's error codes instead of parsing
// Ename.
type RError struct {
	Ename string

	Dotu  bool
	Errno uint32
}

func (RError) MessageType() uint8 { return MsgRerror }
func (m RError) Size() int {
	n := sizeString(m.Ename)
	if m.Dotu {
		n += 4
	}
	return n
}
func (m RError) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutString(m.Ename)
		if m.Dotu {
			fw.PutU32(m.Errno)
		}
	})
}

func (m RError) Error() string { return m.Ename }

// ParseRError decodes an Rerror body. dotu controls whether the
// trailing errno field is expected, but a body with exactly 4
// trailing bytes past Ename is accepted as carrying an errno even
// when dotu is false, since some servers include it unconditionally.
func ParseRError(body []byte, dotu bool) (RError, error) {
	body, ename, err := parseString(body)
	if err != nil {
		return RError{}, err
	}
	m := RError{Ename: ename}
	if dotu || len(body) == 4 {
		var errno uint32
		body, errno, err = parseU32(body)
		if err != nil {
			return RError{}, err
		}
		m.Dotu = true
		m.Errno = errno
	}
	if err := endOfMessage(body); err != nil {
		return RError{}, err
	}
	return m, nil
}
