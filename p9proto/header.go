package p9proto

// A Header is the 7-byte size/type/tag prefix that begins every 9P
// message on the wire.
type Header struct {
	Size uint32
	Type uint8
	Tag  uint16
}

// HeaderForMessage builds the header that should precede m on the
// wire, given the tag the caller has chosen for this request.
func HeaderForMessage(m Message, tag uint16) Header {
	return Header{
		Size: headerLen + uint32(m.Size()),
		Type: m.MessageType(),
		Tag:  tag,
	}
}

// ParseHeader decodes a 7-byte header. It does not itself validate
// Size; callers are expected to check Size against headerLen and any
// negotiated msize.
func ParseHeader(b [headerLen]byte) Header {
	return Header{
		Size: guint32(b[0:4]),
		Type: b[4],
		Tag:  guint16(b[5:7]),
	}
}

// Bytes encodes h as the 7-byte array that is written to the wire.
func (h Header) Bytes() [headerLen]byte {
	var b [headerLen]byte
	buint32(b[0:4], h.Size)
	b[4] = h.Type
	buint16(b[5:7], h.Tag)
	return b
}

// Valid reports whether h.Size is at least the size of the header
// itself.
func (h Header) Valid() bool { return h.Size >= headerLen }
