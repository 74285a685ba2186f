package p9proto

import (
	"fmt"
	"io"
	"time"
)

// Permission bits in Stat.Mode. The low 9 bits follow the standard
// Unix rwx convention for owner/group/other.
const (
	DMDIR    = 0x80000000 // mode bit for directories
	DMAPPEND = 0x40000000 // mode bit for append-only files
	DMEXCL   = 0x20000000 // mode bit for exclusive-use files
	DMTMP    = 0x04000000 // mode bit for non-backed-up files
	DMAUTH   = 0x02000000 // mode bit for authentication files
	DMREAD   = 0x4        // mode bit for read permission
	DMWRITE  = 0x2        // mode bit for write permission
	DMEXEC   = 0x1        // mode bit for execute permission
)

// A Stat describes one directory entry: the metadata returned by
// Rstat and carried in Twstat, and the unit that a directory's Tread
// payload is a concatenation of.
//
// Name, Uid, Gid, Muid and Extension are copied out of the buffer
// they were parsed from, so a parsed Stat stays valid after that
// buffer is reused.
type Stat struct {
	Typ    uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  uint32
	Mtime  uint32
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string

	// 9P2000.u extension fields. Extension is the target of a
	// symbolic link (or major/minor device info); NUid/NGid/NMuid
	// are numeric ids, used in place of the string fields when an
	// implementation does not maintain a name/id mapping. These are
	// zero-valued, and omitted from the wire encoding, when Dotu is
	// false.
	Dotu      bool
	Extension string
	NUid      uint32
	NGid      uint32
	NMuid     uint32
}

// IsDir reports whether s describes a directory.
func (s Stat) IsDir() bool { return s.Mode&DMDIR != 0 }

// AccessTime returns Atime as a time.Time.
func (s Stat) AccessTime() time.Time { return time.Unix(int64(s.Atime), 0) }

// ModTime returns Mtime as a time.Time.
func (s Stat) ModTime() time.Time { return time.Unix(int64(s.Mtime), 0) }

// ParseStat decodes a single Stat structure from the front of b.
// Per the protocol's own forward-compatibility rule, the structure's
// declared inner size (not the caller's knowledge of which fields
// 9P2000 vs. 9P2000.u define) determines how many bytes are consumed.
// Any bytes left after Muid are decoded as the four 9P2000.u fields,
// and an error is returned if they do not hold all four; bytes beyond
// those four fields are skipped over rather than rejected.
func ParseStat(b []byte) (rest []byte, s Stat, err error) {
	b, innerSize, err := parseU16(b)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	if len(b) < int(innerSize) {
		return nil, Stat{}, ErrMessageLength
	}
	body := b[:innerSize]
	rest = b[innerSize:]

	body, typ, err := parseU16(body)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	body, dev, err := parseU32(body)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	body, qid, err := ParseQid(body)
	if err != nil {
		return nil, Stat{}, err
	}
	body, mode, err := parseU32(body)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	body, atime, err := parseU32(body)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	body, mtime, err := parseU32(body)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	body, length, err := parseU64(body)
	if err != nil {
		return nil, Stat{}, ErrMessageLength
	}
	body, name, err := parseString(body)
	if err != nil {
		return nil, Stat{}, err
	}
	body, uid, err := parseString(body)
	if err != nil {
		return nil, Stat{}, err
	}
	body, gid, err := parseString(body)
	if err != nil {
		return nil, Stat{}, err
	}
	body, muid, err := parseString(body)
	if err != nil {
		return nil, Stat{}, err
	}

	st := Stat{
		Typ: typ, Dev: dev, Qid: qid, Mode: mode,
		Atime: atime, Mtime: mtime, Length: length,
		Name: name, Uid: uid, Gid: gid, Muid: muid,
	}

	if len(body) > 0 {
		body, ext, err := parseString(body)
		if err != nil {
			return nil, Stat{}, err
		}
		body, nuid, err := parseU32(body)
		if err != nil {
			return nil, Stat{}, err
		}
		body, ngid, err := parseU32(body)
		if err != nil {
			return nil, Stat{}, err
		}
		_, nmuid, err := parseU32(body)
		if err != nil {
			return nil, Stat{}, err
		}
		st.Dotu = true
		st.Extension = ext
		st.NUid = nuid
		st.NGid = ngid
		st.NMuid = nmuid
	}

	return rest, st, nil
}

// size returns the length, in bytes, of s's inner body (everything
// after the inner u16 size field itself).
func (s Stat) size() int {
	n := 2 + 4 + QidLen + 4 + 4 + 4 + 8 +
		sizeString(s.Name) + sizeString(s.Uid) + sizeString(s.Gid) + sizeString(s.Muid)
	if s.Dotu {
		n += sizeString(s.Extension) + 4 + 4 + 4
	}
	return n
}

// Size returns the total wire length of s, including its own leading
// inner u16 size field. Rstat and Twstat wrap this in a second, outer
// u16 length field of their own; Stat itself carries only the one.
func (s Stat) Size() int { return 2 + s.size() }

// Write serializes s, including its own leading inner-size field, to w.
func (s Stat) Write(w *fieldWriter) {
	w.PutU16(uint16(s.size()))
	w.PutU16(s.Typ)
	w.PutU32(s.Dev)
	s.Qid.Write(w)
	w.PutU32(s.Mode)
	w.PutU32(s.Atime)
	w.PutU32(s.Mtime)
	w.PutU64(s.Length)
	w.PutString(s.Name)
	w.PutString(s.Uid)
	w.PutString(s.Gid)
	w.PutString(s.Muid)
	if s.Dotu {
		w.PutString(s.Extension)
		w.PutU32(s.NUid)
		w.PutU32(s.NGid)
		w.PutU32(s.NMuid)
	}
}

// WriteStat writes s to w in the bare form used by a directory's Tread
// payload (C7): just the Stat bytes, with no outer length wrap such as
// Rstat and Twstat add around their own embedded Stat.
func WriteStat(w io.Writer, s Stat) error {
	return writeFields(w, func(fw *fieldWriter) { s.Write(fw) })
}

func (s Stat) String() string {
	return fmt.Sprintf("type=%#x dev=%#x qid=%v mode=%o atime=%d mtime=%d length=%d name=%q uid=%q gid=%q muid=%q",
		s.Typ, s.Dev, s.Qid, s.Mode, s.Atime, s.Mtime, s.Length, s.Name, s.Uid, s.Gid, s.Muid)
}
