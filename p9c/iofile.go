package p9c

import (
	"io"

	"aqwari.net/net/p9c/p9proto"
)

// A FileReader satisfies io.Reader over a fid. Each Read issues a
// single Tread, with Count capped at the engine's MaxReadCount, and
// advances Offset by the number of bytes returned; a longer read
// takes several Read calls. A zero-length Rread reply is treated as
// io.EOF.
type FileReader struct {
	Engine *Engine
	Fid    p9proto.Fid
	Tag    uint16
	Offset uint64
}

func (r *FileReader) Read(p []byte) (int, error) {
	count := uint32(len(p))
	if max := r.Engine.MaxReadCount(); count > max {
		count = max
	}
	reply, err := r.Engine.Read(r.Tag, r.Fid, r.Offset, count)
	if err != nil {
		return 0, err
	}
	if len(reply.Data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, reply.Data)
	r.Offset += uint64(n)
	return n, nil
}

// A FileWriter chunks a long write into as many Twrite calls as the
// engine's negotiated msize requires, advancing Offset after each
// one, and satisfies io.Writer.
type FileWriter struct {
	Engine *Engine
	Fid    p9proto.Fid
	Tag    uint16
	Offset uint64
}

func (w *FileWriter) Write(p []byte) (int, error) {
	max := int(w.Engine.MaxWriteCount())
	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > max {
			chunk = chunk[:max]
		}
		reply, err := w.Engine.Write(w.Tag, w.Fid, w.Offset, chunk)
		if err != nil {
			return written, err
		}
		n := int(reply.Count)
		written += n
		w.Offset += uint64(n)
		p = p[n:]
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// ReadDir reads the full directory listing of fid, a fid previously
// opened on a directory, by issuing successive Tread calls at
// increasing offsets until a reply comes back empty, then decoding
// the concatenated payload with p9proto.ReadDir.
func (e *Engine) ReadDir(tag uint16, fid p9proto.Fid) ([]p9proto.Stat, error) {
	var payload []byte
	var offset uint64
	count := e.MaxReadCount()
	for {
		reply, err := e.Read(tag, fid, offset, count)
		if err != nil {
			return nil, err
		}
		if len(reply.Data) == 0 {
			break
		}
		payload = append(payload, reply.Data...)
		offset += uint64(len(reply.Data))
	}
	return p9proto.ReadDir(payload)
}
