package p9proto

import "io"

// Message type codes. Even codes are requests (T-messages); each
// pairs with the next odd code, its reply (R-message). 106 (Terror)
// is reserved and never sent; only Rerror (107) exists.
const (
	MsgTversion uint8 = 100
	MsgRversion uint8 = 101
	MsgTauth    uint8 = 102
	MsgRauth    uint8 = 103
	MsgTattach  uint8 = 104
	MsgRattach  uint8 = 105
	MsgRerror   uint8 = 107
	MsgTflush   uint8 = 108
	MsgRflush   uint8 = 109
	MsgTwalk    uint8 = 110
	MsgRwalk    uint8 = 111
	MsgTopen    uint8 = 112
	MsgRopen    uint8 = 113
	MsgTcreate  uint8 = 114
	MsgRcreate  uint8 = 115
	MsgTread    uint8 = 116
	MsgRread    uint8 = 117
	MsgTwrite   uint8 = 118
	MsgRwrite   uint8 = 119
	MsgTclunk   uint8 = 120
	MsgRclunk   uint8 = 121
	MsgTremove  uint8 = 122
	MsgRremove  uint8 = 123
	MsgTstat    uint8 = 124
	MsgRstat    uint8 = 125
	MsgTwstat   uint8 = 126
	MsgRwstat   uint8 = 127
)

// A Message is a single 9P request or reply body: any of the 27
// T-/R-message structs (14 request/reply pairs, counting Rerror)
// defined in this package. Size and Write
// describe the body only, not the 7-byte header that precedes it on
// the wire.
type Message interface {
	// MessageType returns the wire type code for this message.
	MessageType() uint8

	// Size returns the serialized length, in bytes, of the message
	// body.
	Size() int

	// Write serializes the message body to w, propagating any
	// underlying write error.
	Write(w io.Writer) error
}

// writeFields is a helper used by every message's Write method: it
// builds a fieldWriter over w, lets fn populate it, and returns the
// writer's recorded error.
func writeFields(w io.Writer, fn func(fw *fieldWriter)) error {
	fw := newFieldWriter(w)
	fn(fw)
	return fw.Err
}

// A Fid is a 32-bit handle, chosen by the client, identifying an open
// point in the server's file tree.
type Fid uint32

// NoFid is the reserved value meaning "no fid", used as Afid when no
// authentication is performed.
const NoFid Fid = Fid(NOFID)
