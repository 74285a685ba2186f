package p9proto

import "io"

// A TStat message requests the Stat of the file Fid refers to.
type TStat struct {
	Fid Fid
}

func (TStat) MessageType() uint8 { return MsgTstat }
func (m TStat) Size() int        { return 4 }
func (m TStat) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { fw.PutU32(uint32(m.Fid)) })
}

// ParseTStat decodes a Tstat body.
func ParseTStat(body []byte) (TStat, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TStat{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TStat{}, err
	}
	return TStat{Fid: Fid(fid)}, nil
}

// An RStat reply carries the requested Stat, wrapped in its own
// outer u16 length field distinct from Stat's inner one.
type RStat struct {
	Stat Stat
}

func (RStat) MessageType() uint8 { return MsgRstat }
func (m RStat) Size() int        { return 2 + m.Stat.Size() }
func (m RStat) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU16(uint16(m.Stat.Size()))
		m.Stat.Write(fw)
	})
}

// ParseRStat decodes an Rstat body.
func ParseRStat(body []byte) (RStat, error) {
	body, outerSize, err := parseU16(body)
	if err != nil {
		return RStat{}, err
	}
	if len(body) < int(outerSize) {
		return RStat{}, ErrMessageLength
	}
	statBody, rest := body[:outerSize], body[outerSize:]
	leftover, st, err := ParseStat(statBody)
	if err != nil {
		return RStat{}, err
	}
	if err := endOfMessage(leftover); err != nil {
		return RStat{}, err
	}
	if err := endOfMessage(rest); err != nil {
		return RStat{}, err
	}
	return RStat{Stat: st}, nil
}

// A TWStat message requests changes to the metadata of the file Fid
// refers to. Fields that should be left unchanged are set to their
// "don't touch" sentinel: an empty string for Name/Uid/Gid/Muid, ^0
// for Mode/Atime/Mtime/Dev, and ~0 for Length — the server applies
// only the fields that differ from these values, and typically
// rejects a request that tries to change more than one kind of
// attribute at a time. Stat is wrapped in its own outer u16 length
// field, same as RStat.
type TWStat struct {
	Fid  Fid
	Stat Stat
}

func (TWStat) MessageType() uint8 { return MsgTwstat }
func (m TWStat) Size() int        { return 4 + 2 + m.Stat.Size() }
func (m TWStat) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutU16(uint16(m.Stat.Size()))
		m.Stat.Write(fw)
	})
}

// ParseTWStat decodes a Twstat body.
func ParseTWStat(body []byte) (TWStat, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TWStat{}, err
	}
	body, outerSize, err := parseU16(body)
	if err != nil {
		return TWStat{}, err
	}
	if len(body) < int(outerSize) {
		return TWStat{}, ErrMessageLength
	}
	statBody, rest := body[:outerSize], body[outerSize:]
	leftover, st, err := ParseStat(statBody)
	if err != nil {
		return TWStat{}, err
	}
	if err := endOfMessage(leftover); err != nil {
		return TWStat{}, err
	}
	if err := endOfMessage(rest); err != nil {
		return TWStat{}, err
	}
	return TWStat{Fid: Fid(fid), Stat: st}, nil
}

// An RWStat reply has no body.
type RWStat struct{}

func (RWStat) MessageType() uint8        { return MsgRwstat }
func (m RWStat) Size() int               { return 0 }
func (m RWStat) Write(w io.Writer) error { return writeFields(w, func(fw *fieldWriter) {}) }
func ParseRWStat(body []byte) (RWStat, error) {
	if err := endOfMessage(body); err != nil {
		return RWStat{}, err
	}
	return RWStat{}, nil
}
