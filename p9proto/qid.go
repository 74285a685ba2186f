package p9proto

import "fmt"

// QidLen is the wire size, in bytes, of a Qid.
const QidLen = 13

// A Qid is the server's unique identification for a file: two files
// on the same server hierarchy are the same file if and only if
// their Qids are equal.
type Qid struct {
	Type    QidType
	Version uint32
	Path    uint64
}

// ParseQid consumes a 13-byte Qid from the front of b.
func ParseQid(b []byte) (rest []byte, q Qid, err error) {
	b, t, err := parseU8(b)
	if err != nil {
		return nil, Qid{}, ErrMessageLength
	}
	b, vers, err := parseU32(b)
	if err != nil {
		return nil, Qid{}, ErrMessageLength
	}
	b, path, err := parseU64(b)
	if err != nil {
		return nil, Qid{}, ErrMessageLength
	}
	return b, Qid{Type: QidType(t), Version: vers, Path: path}, nil
}

// Write serializes q to w.
func (q Qid) Write(w *fieldWriter) {
	w.PutU8(uint8(q.Type))
	w.PutU32(q.Version)
	w.PutU64(q.Path)
}

// IsDir reports whether the file identified by q is a directory.
func (q Qid) IsDir() bool { return q.Type&QTDIR != 0 }

func (q Qid) String() string {
	return fmt.Sprintf("type=%02x vers=%d path=%x", uint8(q.Type), q.Version, q.Path)
}

// A QidType is a bit vector corresponding to the high 8 bits of a
// file's Stat.Mode, describing the kind of file a Qid refers to.
type QidType uint8

const (
	QTDIR    QidType = 0x80 // directories
	QTAPPEND QidType = 0x40 // append-only files
	QTEXCL   QidType = 0x20 // exclusive-use files
	QTTMP    QidType = 0x04 // non-backed-up file (mount-point in some servers)
	QTAUTH   QidType = 0x02 // authentication file (afid)
	QTFILE   QidType = 0x00
)
