package p9proto

import "io"

// A TVersion message negotiates the protocol version and maximum
// message size for a connection, and must be the first message sent.
// It always uses the reserved tag NOTAG. On success, all fids
// previously established on the connection are implicitly clunked.
type TVersion struct {
	Msize   uint32
	Version string
}

func (TVersion) MessageType() uint8 { return MsgTversion }
func (m TVersion) Size() int        { return 4 + sizeString(m.Version) }
func (m TVersion) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(m.Msize)
		fw.PutString(m.Version)
	})
}

// ParseTVersion decodes a Tversion body. The core client never needs
// to parse T-messages in normal operation (it only ever writes them);
// this exists for completeness and symmetry with the rest of the
// catalog, and for tests that round-trip a message against itself.
func ParseTVersion(body []byte) (TVersion, error) {
	body, msize, err := parseU32(body)
	if err != nil {
		return TVersion{}, err
	}
	body, version, err := parseString(body)
	if err != nil {
		return TVersion{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TVersion{}, err
	}
	return TVersion{Msize: msize, Version: version}, nil
}

// An RVersion reply carries the version and msize the server has
// agreed to use for the remainder of the connection. A server that
// does not recognize the client's requested version replies with
// Version == "unknown".
type RVersion struct {
	Msize   uint32
	Version string
}

func (RVersion) MessageType() uint8 { return MsgRversion }
func (m RVersion) Size() int        { return 4 + sizeString(m.Version) }
func (m RVersion) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(m.Msize)
		fw.PutString(m.Version)
	})
}

// ParseRVersion decodes an Rversion body.
func ParseRVersion(body []byte) (RVersion, error) {
	body, msize, err := parseU32(body)
	if err != nil {
		return RVersion{}, err
	}
	body, version, err := parseString(body)
	if err != nil {
		return RVersion{}, err
	}
	if err := endOfMessage(body); err != nil {
		return RVersion{}, err
	}
	return RVersion{Msize: msize, Version: version}, nil
}
