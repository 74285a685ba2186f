package p9proto

import "io"

// A TClunk message retires Fid. The client must not use Fid again
// after sending this, regardless of the reply; the fid is considered
// gone even if the server replies with an error.
type TClunk struct {
	Fid Fid
}

func (TClunk) MessageType() uint8 { return MsgTclunk }
func (m TClunk) Size() int        { return 4 }
func (m TClunk) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { fw.PutU32(uint32(m.Fid)) })
}

// ParseTClunk decodes a Tclunk body.
func ParseTClunk(body []byte) (TClunk, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TClunk{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TClunk{}, err
	}
	return TClunk{Fid: Fid(fid)}, nil
}

// An RClunk reply has no body; its arrival is the only thing that
// matters.
type RClunk struct{}

func (RClunk) MessageType() uint8           { return MsgRclunk }
func (m RClunk) Size() int                  { return 0 }
func (m RClunk) Write(w io.Writer) error    { return writeFields(w, func(fw *fieldWriter) {}) }
func ParseRClunk(body []byte) (RClunk, error) {
	if err := endOfMessage(body); err != nil {
		return RClunk{}, err
	}
	return RClunk{}, nil
}

// A TRemove message removes the file Fid refers to, then clunks Fid
// exactly as Tclunk would, whether or not the removal succeeded.
type TRemove struct {
	Fid Fid
}

func (TRemove) MessageType() uint8 { return MsgTremove }
func (m TRemove) Size() int        { return 4 }
func (m TRemove) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { fw.PutU32(uint32(m.Fid)) })
}

// ParseTRemove decodes a Tremove body.
func ParseTRemove(body []byte) (TRemove, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TRemove{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TRemove{}, err
	}
	return TRemove{Fid: Fid(fid)}, nil
}

// An RRemove reply has no body.
type RRemove struct{}

func (RRemove) MessageType() uint8        { return MsgRremove }
func (m RRemove) Size() int               { return 0 }
func (m RRemove) Write(w io.Writer) error { return writeFields(w, func(fw *fieldWriter) {}) }
func ParseRRemove(body []byte) (RRemove, error) {
	if err := endOfMessage(body); err != nil {
		return RRemove{}, err
	}
	return RRemove{}, nil
}
