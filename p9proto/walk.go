package p9proto

import "io"

// A TWalk message walks Newfid from Fid through each successive name
// in Wname. It is the only way to duplicate a fid (an empty Wname
// walks Newfid onto the same file Fid refers to, without consuming
// any of the server's per-fid state). At most MaxWElem names may be
// walked in a single message; a caller that needs to go further must
// issue a chain of TWalks, taking care to arrange cleanup of any
// fid left bound partway through a failed walk.
type TWalk struct {
	Fid    Fid
	Newfid Fid
	Wname  []string
}

func (TWalk) MessageType() uint8 { return MsgTwalk }
func (m TWalk) Size() int {
	n := 4 + 4 + 2
	for _, name := range m.Wname {
		n += sizeString(name)
	}
	return n
}
func (m TWalk) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutU32(uint32(m.Newfid))
		fw.PutU16(uint16(len(m.Wname)))
		for _, name := range m.Wname {
			fw.PutString(name)
		}
	})
}

// ParseTWalk decodes a Twalk body.
func ParseTWalk(body []byte) (TWalk, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TWalk{}, err
	}
	body, newfid, err := parseU32(body)
	if err != nil {
		return TWalk{}, err
	}
	body, nwname, err := parseU16(body)
	if err != nil {
		return TWalk{}, err
	}
	if nwname > MaxWElem {
		return TWalk{}, ErrTooManyWalk
	}
	wname := make([]string, 0, nwname)
	for i := uint16(0); i < nwname; i++ {
		var name string
		body, name, err = parseString(body)
		if err != nil {
			return TWalk{}, err
		}
		wname = append(wname, name)
	}
	if err := endOfMessage(body); err != nil {
		return TWalk{}, err
	}
	return TWalk{Fid: Fid(fid), Newfid: Fid(newfid), Wname: wname}, nil
}

// An RWalk reply carries one Qid per successfully walked element of
// the request's Wname. len(Wqid) < len(Wname) means the walk stopped
// partway (the element at len(Wqid) did not exist, or was not a
// directory); Newfid is left unbound by the server in that case, and
// the walk as a whole is not an error. len(Wqid) == 0 and len(Wname)
// == 0 together mean a successful fid-clone walk.
type RWalk struct {
	Wqid []Qid
}

func (RWalk) MessageType() uint8 { return MsgRwalk }
func (m RWalk) Size() int        { return 2 + len(m.Wqid)*QidLen }
func (m RWalk) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU16(uint16(len(m.Wqid)))
		for _, q := range m.Wqid {
			q.Write(fw)
		}
	})
}

// ParseRWalk decodes an Rwalk body.
func ParseRWalk(body []byte) (RWalk, error) {
	body, nwqid, err := parseU16(body)
	if err != nil {
		return RWalk{}, err
	}
	if nwqid > MaxWElem {
		return RWalk{}, ErrTooManyWalk
	}
	wqid := make([]Qid, 0, nwqid)
	for i := uint16(0); i < nwqid; i++ {
		var q Qid
		body, q, err = ParseQid(body)
		if err != nil {
			return RWalk{}, err
		}
		wqid = append(wqid, q)
	}
	if err := endOfMessage(body); err != nil {
		return RWalk{}, err
	}
	return RWalk{Wqid: wqid}, nil
}
