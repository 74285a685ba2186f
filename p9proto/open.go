package p9proto

import "io"

// Mode bits for Topen and Tcreate. The low two bits select an access
// mode; OTRUNC and ORCLOSE are independent flags that may be or'd in.
const (
	OREAD   = 0x0 // open for read
	OWRITE  = 0x1 // open for write
	ORDWR   = 0x2 // open for read and write
	OEXEC   = 0x3 // execute (== read but check execute permission)
	OTRUNC  = 0x10
	ORCLOSE = 0x40 // or'd in, remove on clunk
)

// A TOpen message prepares Fid for I/O, checking that the requesting
// user has the permissions implied by Mode.
type TOpen struct {
	Fid  Fid
	Mode uint8
}

func (TOpen) MessageType() uint8 { return MsgTopen }
func (m TOpen) Size() int        { return 4 + 1 }
func (m TOpen) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutU8(m.Mode)
	})
}

// ParseTOpen decodes a Topen body.
func ParseTOpen(body []byte) (TOpen, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TOpen{}, err
	}
	body, mode, err := parseU8(body)
	if err != nil {
		return TOpen{}, err
	}
	if err := endOfMessage(body); err != nil {
		return TOpen{}, err
	}
	return TOpen{Fid: Fid(fid), Mode: mode}, nil
}

// An ROpen reply carries the Qid of the now-open file and Iounit, the
// server's suggested maximum size for a single Tread/Twrite on this
// fid (0 means "use msize - headroom").
type ROpen struct {
	Qid    Qid
	Iounit uint32
}

func (ROpen) MessageType() uint8 { return MsgRopen }
func (m ROpen) Size() int        { return QidLen + 4 }
func (m ROpen) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		m.Qid.Write(fw)
		fw.PutU32(m.Iounit)
	})
}

// ParseROpen decodes an Ropen body.
func ParseROpen(body []byte) (ROpen, error) {
	body, qid, err := ParseQid(body)
	if err != nil {
		return ROpen{}, err
	}
	body, iounit, err := parseU32(body)
	if err != nil {
		return ROpen{}, err
	}
	if err := endOfMessage(body); err != nil {
		return ROpen{}, err
	}
	return ROpen{Qid: qid, Iounit: iounit}, nil
}

// A TCreate message creates a new file named Name as a child of the
// directory Fid refers to, and on success leaves Fid walked onto it,
// opened with Mode. Perm sets the new file's permission bits and,
// for a directory, must have DMDIR set.
type TCreate struct {
	Fid  Fid
	Name string
	Perm uint32
	Mode uint8

	// Dotu and Extension are the 9P2000.u extension: for a symlink,
	// Extension carries the link target; for a device file, the
	// major/minor numbers; for a hard link, the target fid's path.
	// Written only when Dotu is true.
	Dotu      bool
	Extension string
}

func (TCreate) MessageType() uint8 { return MsgTcreate }
func (m TCreate) Size() int {
	n := 4 + sizeString(m.Name) + 4 + 1
	if m.Dotu {
		n += sizeString(m.Extension)
	}
	return n
}
func (m TCreate) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		fw.PutU32(uint32(m.Fid))
		fw.PutString(m.Name)
		fw.PutU32(m.Perm)
		fw.PutU8(m.Mode)
		if m.Dotu {
			fw.PutString(m.Extension)
		}
	})
}

// ParseTCreate decodes a Tcreate body.
func ParseTCreate(body []byte, dotu bool) (TCreate, error) {
	body, fid, err := parseU32(body)
	if err != nil {
		return TCreate{}, err
	}
	body, name, err := parseString(body)
	if err != nil {
		return TCreate{}, err
	}
	body, perm, err := parseU32(body)
	if err != nil {
		return TCreate{}, err
	}
	body, mode, err := parseU8(body)
	if err != nil {
		return TCreate{}, err
	}
	m := TCreate{Fid: Fid(fid), Name: name, Perm: perm, Mode: mode}
	if dotu {
		var ext string
		body, ext, err = parseString(body)
		if err != nil {
			return TCreate{}, err
		}
		m.Dotu = true
		m.Extension = ext
	}
	if err := endOfMessage(body); err != nil {
		return TCreate{}, err
	}
	return m, nil
}

// An RCreate reply carries the Qid of the newly created file and, as
// with Ropen, a suggested I/O unit size.
type RCreate struct {
	Qid    Qid
	Iounit uint32
}

func (RCreate) MessageType() uint8 { return MsgRcreate }
func (m RCreate) Size() int        { return QidLen + 4 }
func (m RCreate) Write(w io.Writer) error {
	return writeFields(w, func(fw *fieldWriter) {
		m.Qid.Write(fw)
		fw.PutU32(m.Iounit)
	})
}

// ParseRCreate decodes an Rcreate body.
func ParseRCreate(body []byte) (RCreate, error) {
	body, qid, err := ParseQid(body)
	if err != nil {
		return RCreate{}, err
	}
	body, iounit, err := parseU32(body)
	if err != nil {
		return RCreate{}, err
	}
	if err := endOfMessage(body); err != nil {
		return RCreate{}, err
	}
	return RCreate{Qid: qid, Iounit: iounit}, nil
}
