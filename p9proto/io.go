package p9proto

import "io"

// A TRead message reads Count bytes starting at Offset from the file
// Fid refers to. For a directory, reads must start at the beginning
// of a Stat record boundary previously returned by this same fid;
// see ReadDir for the concatenated-Stat convention directories use.
type TRead struct {
	Fid    Fid
	Offset uint64
	Count  uint32
}

func (TRead) MessageType() uint8 { return MsgTread }
func (m TRead) Size() int        { return 4 + 8 + 4 }
func (m TRead) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutU64(m.Offset)
		fw.PutU32(m.Count)
	})
}

// ParseTRead decodes a Tread body.
func ParseTRead(body []byte) (TRead, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TRead{}, err
	}
	body, offset, err := parseU64(body)
	if err != nil {
		return TRead{}, err
	}
	body, count, err := parseU32(body)
	if err != nil {
		return TRead{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TRead{}, err
	}
	return TRead{Fid: Fid(fid), Offset: offset, Count: count}, nil
}

// An RRead reply carries up to the requested Count bytes; it may carry
// fewer, and an empty Data means end of file. Data aliases the buffer it was parsed
// from; callers that need to retain it past the next request on the
// same connection must copy it.
type RRead struct {
	Data []byte
}

func (RRead) MessageType() uint8 { return MsgRread }
func (m RRead) Size() int        { return 4 + len(m.Data) }
func (m RRead) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(len(m.Data)))
		fw.PutRaw(m.Data)
	})
}

// ParseRRead decodes an Rread body. The returned Data aliases body.
func ParseRRead(body []byte) (RRead, error) {
	rest, data, err := parseBytes(body)
	if err != nil {
		return RRead{}, err
	}
	if err := endOfMessage(rest); err != nil {
		return RRead{}, err
	}
	return RRead{Data: data}, nil
}

// A TWrite message writes Data to the file Fid refers to, starting at
// Offset. len(Data) must not exceed msize - 23, the largest write
// body that fits within the negotiated message size once the header
// and fixed Twrite fields are accounted for.
type TWrite struct {
	Fid    Fid
	Offset uint64
	Data   []byte
}

func (TWrite) MessageType() uint8 { return MsgTwrite }
func (m TWrite) Size() int        { return 4 + 8 + 4 + len(m.Data) }
func (m TWrite) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutU64(m.Offset)
		fw.PutU32(uint32(len(m.Data)))
		fw.PutRaw(m.Data)
	})
}

// ParseTWrite decodes a Twrite body. The returned Data aliases body.
func ParseTWrite(body []byte) (TWrite, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TWrite{}, err
	}
	body, offset, err := parseU64(body)
	if err != nil {
		return TWrite{}, err
	}
	rest, data, err := parseBytes(body)
	if err != nil {
		return TWrite{}, err
	}
	if err := endOfMessage(rest); err != nil {
		return TWrite{}, err
	}
	return TWrite{Fid: Fid(fid), Offset: offset, Data: data}, nil
}

// An RWrite reply reports how many bytes were actually written;
// Count < len(request.Data) is possible and is not itself an error.
type RWrite struct {
	Count uint32
}

func (RWrite) MessageType() uint8 { return MsgRwrite }
func (m RWrite) Size() int        { return 4 }
func (m RWrite) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { fw.PutU32(m.Count) })
}

// ParseRWrite decodes an Rwrite body.
func ParseRWrite(body []byte) (RWrite, error) {
	body, count, err := parseU32(body)
	if err != nil {
		return RWrite{}, err
	}
	if err := endOfMessage(body); err != nil {
		return RWrite{}, err
	}
	return RWrite{Count: count}, nil
}
