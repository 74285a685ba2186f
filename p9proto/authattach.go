package p9proto

import "io"

// A TAuth message requests an authentication fid. The client carries
// out whatever authentication protocol the server expects by doing
// I/O on Afid; 9P itself does not define that protocol. Afid == NoFid
// means the client is not attempting authentication.
type TAuth struct {
	Afid  Fid
	Uname string
	Aname string

	// Dotu and NUname are the 9P2000.u u_uname extension: a numeric
	// uid alongside Uname. Written only when Dotu is true.
	Dotu   bool
	NUname uint32
}

func (TAuth) MessageType() uint8 { return MsgTauth }
func (m TAuth) Size() int {
	n := 4 + sizeString(m.Uname) + sizeString(m.Aname)
	if m.Dotu {
		n += 4
	}
	return n
}
func (m TAuth) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Afid))
		fw.PutString(m.Uname)
		fw.PutString(m.Aname)
		if m.Dotu {
			fw.PutU32(m.NUname)
		}
	})
}

// ParseTAuth decodes a Tauth body. dotu controls whether the trailing
// u_uname field is expected.
func ParseTAuth(body []byte, dotu bool) (TAuth, error) {
	body, afid, err := parseU32(body)
	if err != nil {
		return TAuth{}, err
	}
	body, uname, err := parseString(body)
	if err != nil {
		return TAuth{}, err
	}
	body, aname, err := parseString(body)
	if err != nil {
		return TAuth{}, err
	}
	m := TAuth{Afid: Fid(afid), Uname: uname, Aname: aname}
	if dotu {
		var nuname uint32
		body, nuname, err = parseU32(body)
		if err != nil {
			return TAuth{}, err
		}
		m.Dotu = true
		m.NUname = nuname
	}
	if err := endOfMessage(body); err != nil {
		return TAuth{}, err
	}
	return m, nil
}

// An RAuth reply carries the Qid of the authentication file the
// client should perform I/O on to complete authentication.
type RAuth struct {
	Aqid Qid
}

func (RAuth) MessageType() uint8 { return MsgRauth }
func (m RAuth) Size() int        { return QidLen }
func (m RAuth) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { m.Aqid.Write(fw) })
}

// ParseRAuth decodes an Rauth body.
func ParseRAuth(body []byte) (RAuth, error) {
	body, qid, err := ParseQid(body)
	if err != nil {
		return RAuth{}, err
	}
	if err := endOfMessage(body); err != nil {
		return RAuth{}, err
	}
	return RAuth{Aqid: qid}, nil
}

// A TAttach message establishes a connection's root: if authorized,
// Fid will be bound to the root of the tree named by Aname, as user
// Uname. Afid must reference a completed authentication exchange, or
// be NoFid if the server requires none.
type TAttach struct {
	Fid   Fid
	Afid  Fid
	Uname string
	Aname string

	Dotu   bool
	NUname uint32
}

func (TAttach) MessageType() uint8 { return MsgTattach }
func (m TAttach) Size() int {
	n := 4 + 4 + sizeString(m.Uname) + sizeString(m.Aname)
	if m.Dotu {
		n += 4
	}
	return n
}
func (m TAttach) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutU32(uint32(m.Afid))
		fw.PutString(m.Uname)
		fw.PutString(m.Aname)
		if m.Dotu {
			fw.PutU32(m.NUname)
		}
	})
}

// ParseTAttach decodes a Tattach body.
func ParseTAttach(body []byte, dotu bool) (TAttach, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TAttach{}, err
	}
	body, afid, err := parseU32(body)
	if err != nil {
		return TAttach{}, err
	}
	body, uname, err := parseString(body)
	if err != nil {
		return TAttach{}, err
	}
	body, aname, err := parseString(body)
	if err != nil {
		return TAttach{}, err
	}
	m := TAttach{Fid: Fid(fid), Afid: Fid(afid), Uname: uname, Aname: aname}
	if dotu {
		var nuname uint32
		body, nuname, err = parseU32(body)
		if err != nil {
			return TAttach{}, err
		}
		m.Dotu = true
		m.NUname = nuname
	}
	if err := endOfMessage(body); err != nil {
		return TAttach{}, err
	}
	return m, nil
}

// An RAttach reply carries the Qid of the newly attached root.
type RAttach struct {
	Qid Qid
}

func (RAttach) MessageType() uint8 { return MsgRattach }
func (m RAttach) Size() int        { return QidLen }
func (m RAttach) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) { m.Qid.Write(fw) })
}

// ParseRAttach decodes an Rattach body.
func ParseRAttach(body []byte) (RAttach, error) {
	body, qid, err := ParseQid(body)
	if err != nil {
		return RAttach{}, err
	}
	if err := endOfMessage(body); err != nil {
		return RAttach{}, err
	}
	return RAttach{Qid: qid}, nil
}
