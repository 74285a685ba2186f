package p9c

import (
	"io"
	"time"

	"aqwari.net/net/p9c/p9proto"
)

// Logger receives diagnostic information about an Engine's traffic.
// It is implemented by *log.Logger; passing nil disables logging.
type Logger interface {
	Printf(format string, v ...interface{})
}

// DefaultMsize is the message size an Engine proposes in Version
// before a handshake has negotiated a smaller one.
const DefaultMsize = 8192

// An Engine drives one synchronous, single-threaded 9P2000 (or
// 9P2000.u) connection over a Transport. It holds exactly one
// in-flight request at a time: Send blocks until the matching reply
// has been read, and the byte-slice fields of the value it returns
// (RRead.Data) alias the engine's own reply buffer until the next
// call. String fields are copied out of that buffer.
//
// An Engine is not safe for concurrent use. Open an Engine per
// goroutine that needs independent traffic on the same server.
type Engine struct {
	t       Transport
	logger  Logger
	metrics *Metrics

	msize   uint32
	version string
	dotu    bool

	buf  []byte
	hdr  [7]byte
	fail *Error
}

// An Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger arranges for e to report each request/reply pair to l.
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics registers m to observe e's traffic. See NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine wraps t in an Engine. The engine speaks no protocol until
// Negotiate has been called; Msize and Dotu report DefaultMsize and
// false until it has.
func NewEngine(t Transport, opts ...Option) *Engine {
	e := &Engine{
		t:     t,
		msize: DefaultMsize,
		buf:   make([]byte, DefaultMsize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Msize returns the negotiated maximum message size. Before Negotiate
// has been called successfully, it returns DefaultMsize.
func (e *Engine) Msize() uint32 { return e.msize }

// Version returns the protocol version string the server agreed to.
// Before Negotiate has been called successfully, it returns "".
func (e *Engine) Version() string { return e.version }

// Dotu reports whether the negotiated version is "9P2000.u", and so
// whether 9P2000.u extension fields are written and expected on the
// messages that carry them.
func (e *Engine) Dotu() bool { return e.dotu }

// Close releases the underlying transport, if it supports that.
func (e *Engine) Close() error {
	if c, ok := e.t.(Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Engine) logf(format string, v ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, v...)
	}
}

// fatal records a fatal error and returns it. Every subsequent call to
// a send-based method on e short-circuits to this same error: a fatal
// fault means the stream's framing is lost and there is no way to
// resynchronize.
func (e *Engine) fatal(err *Error) *Error {
	e.fail = err
	return err
}

// classify maps a p9proto parse error to the taxonomy's MessageLength
// or Utf8 kind; any error not recognized as one of those is treated
// as MessageLength, the more general framing fault.
func classify(err error) ErrorKind {
	if err == p9proto.ErrInvalidUTF8 {
		return Utf8
	}
	return MessageLength
}

// send implements the engine's one operation: write request under
// tag, read the matching reply, and return its body. wantType is the
// message type code of the reply the caller is prepared to parse;
// any other type besides Rerror is UnexpectedType.
//
// The returned slice aliases e.buf and is only valid until the next
// call to send.
func (e *Engine) send(tag uint16, request p9proto.Message, wantType uint8) (body []byte, err error) {
	if e.fail != nil {
		return nil, e.fail
	}

	start := time.Now()
	reqType := request.MessageType()
	var replySize uint32
	defer func() {
		if e.metrics != nil {
			e.metrics.observe(reqType, replySize, err, time.Since(start))
		}
	}()

	h := p9proto.HeaderForMessage(request, tag)
	hb := h.Bytes()
	if _, werr := e.t.Write(hb[:]); werr != nil {
		return nil, e.fatal(ioErr(werr))
	}
	if werr := request.Write(e.t); werr != nil {
		return nil, e.fatal(ioErr(werr))
	}
	e.logf("9p: tx tag=%d type=%d size=%d", tag, request.MessageType(), h.Size)

	if _, rerr := io.ReadFull(e.t, e.hdr[:]); rerr != nil {
		return nil, e.fatal(ioErr(rerr))
	}
	reply := p9proto.ParseHeader(e.hdr)
	if !reply.Valid() || (e.version != "" && reply.Size > e.msize) {
		return nil, e.fatal(parseErr(MessageLength, p9proto.ErrMessageLength))
	}
	if reply.Tag != tag {
		return nil, e.fatal(unrecognizedTagErr(reply.Tag))
	}
	replySize = reply.Size

	bodyLen := int(reply.Size) - 7
	if cap(e.buf) < bodyLen {
		e.buf = make([]byte, bodyLen)
	}
	b := e.buf[:bodyLen]
	if _, rerr := io.ReadFull(e.t, b); rerr != nil {
		return nil, e.fatal(ioErr(rerr))
	}
	e.logf("9p: rx tag=%d type=%d size=%d", reply.Tag, reply.Type, reply.Size)

	switch reply.Type {
	case wantType:
		return b, nil
	case p9proto.MsgRerror:
		rerr, perr := p9proto.ParseRError(b, e.dotu)
		if perr != nil {
			return nil, e.fatal(parseErr(classify(perr), perr))
		}
		return nil, protocolErr(rerr.Ename)
	default:
		return nil, e.fatal(unexpectedTypeErr(reply.Type))
	}
}

// Negotiate performs the Tversion/Rversion handshake that must open
// every connection. It always uses tag NOTAG, as the protocol
// requires. version should be the highest version this client
// implements ("9P2000.u" to request the Unix extensions, "9P2000"
// otherwise); the server may reply with a lesser version, or
// "unknown" if it recognizes none of what the client offered.
//
// On success, Negotiate updates e.Msize, e.Version, and e.Dotu to the
// agreed values, and resizes the reply buffer accordingly. All fids
// previously established over this connection are implicitly
// invalidated by the server; Negotiate itself does not track that.
func (e *Engine) Negotiate(msize uint32, version string) (p9proto.RVersion, error) {
	req := p9proto.TVersion{Msize: msize, Version: version}
	body, err := e.send(p9proto.NOTAG, req, p9proto.MsgRversion)
	if err != nil {
		return p9proto.RVersion{}, err
	}
	rv, perr := p9proto.ParseRVersion(body)
	if perr != nil {
		return p9proto.RVersion{}, e.fatal(parseErr(classify(perr), perr))
	}
	if rv.Version == "unknown" {
		return rv, protocolErr("server rejected all offered versions")
	}
	e.msize = rv.Msize
	e.version = rv.Version
	e.dotu = rv.Version == "9P2000.u"
	if uint32(cap(e.buf)) < e.msize {
		e.buf = make([]byte, e.msize)
	}
	return rv, nil
}

// Auth requests an authentication fid. See TAuth for the meaning of
// afid and the 9P2000.u uid extension.
func (e *Engine) Auth(tag uint16, afid p9proto.Fid, uname, aname string, nuname uint32) (p9proto.RAuth, error) {
	req := p9proto.TAuth{Afid: afid, Uname: uname, Aname: aname, Dotu: e.dotu, NUname: nuname}
	body, err := e.send(tag, req, p9proto.MsgRauth)
	if err != nil {
		return p9proto.RAuth{}, err
	}
	ra, perr := p9proto.ParseRAuth(body)
	if perr != nil {
		return p9proto.RAuth{}, e.fatal(parseErr(classify(perr), perr))
	}
	return ra, nil
}

// Attach binds fid to the root of aname, as user uname, using a
// completed authentication exchange on afid (or NoFid if the server
// requires none).
func (e *Engine) Attach(tag uint16, fid, afid p9proto.Fid, uname, aname string, nuname uint32) (p9proto.RAttach, error) {
	req := p9proto.TAttach{Fid: fid, Afid: afid, Uname: uname, Aname: aname, Dotu: e.dotu, NUname: nuname}
	body, err := e.send(tag, req, p9proto.MsgRattach)
	if err != nil {
		return p9proto.RAttach{}, err
	}
	ra, perr := p9proto.ParseRAttach(body)
	if perr != nil {
		return p9proto.RAttach{}, e.fatal(parseErr(classify(perr), perr))
	}
	return ra, nil
}

// Walk clones fid to newfid, descending through each element of
// wname in turn. A short reply (len(result.Wqid) < len(wname)) is not
// an error: it means the walk stopped partway and newfid was not
// bound. See WalkPath for a helper that turns a short walk into an
// explicit error and cleans up after it.
func (e *Engine) Walk(tag uint16, fid, newfid p9proto.Fid, wname []string) (p9proto.RWalk, error) {
	if len(wname) > p9proto.MaxWElem {
		return p9proto.RWalk{}, e.fatal(parseErr(MessageLength, p9proto.ErrTooManyWalk))
	}
	req := p9proto.TWalk{Fid: fid, Newfid: newfid, Wname: wname}
	body, err := e.send(tag, req, p9proto.MsgRwalk)
	if err != nil {
		return p9proto.RWalk{}, err
	}
	rw, perr := p9proto.ParseRWalk(body)
	if perr != nil {
		return p9proto.RWalk{}, e.fatal(parseErr(classify(perr), perr))
	}
	return rw, nil
}

// Open prepares fid for I/O under mode (see the O* constants).
func (e *Engine) Open(tag uint16, fid p9proto.Fid, mode uint8) (p9proto.ROpen, error) {
	req := p9proto.TOpen{Fid: fid, Mode: mode}
	body, err := e.send(tag, req, p9proto.MsgRopen)
	if err != nil {
		return p9proto.ROpen{}, err
	}
	ro, perr := p9proto.ParseROpen(body)
	if perr != nil {
		return p9proto.ROpen{}, e.fatal(parseErr(classify(perr), perr))
	}
	return ro, nil
}

// Create creates name as a child of fid with the given permissions
// and, on success, leaves fid walked onto and opened on the new file.
func (e *Engine) Create(tag uint16, fid p9proto.Fid, name string, perm uint32, mode uint8, extension string) (p9proto.RCreate, error) {
	req := p9proto.TCreate{Fid: fid, Name: name, Perm: perm, Mode: mode, Dotu: e.dotu, Extension: extension}
	body, err := e.send(tag, req, p9proto.MsgRcreate)
	if err != nil {
		return p9proto.RCreate{}, err
	}
	rc, perr := p9proto.ParseRCreate(body)
	if perr != nil {
		return p9proto.RCreate{}, e.fatal(parseErr(classify(perr), perr))
	}
	return rc, nil
}

// maxReadCount and maxWriteCount return the largest Count/len(Data)
// this engine's negotiated msize allows for Read and Write,
// respectively (11 bytes of fixed Rread overhead: header plus count;
// 23 bytes of fixed Twrite overhead: header, fid, offset and count).
func (e *Engine) maxReadCount() uint32  { return e.msize - 11 }
func (e *Engine) maxWriteCount() uint32 { return e.msize - 23 }

// Read reads up to count bytes from fid at offset. count must not
// exceed MaxReadCount(). The reply may carry fewer bytes than
// requested; zero bytes means end of file. The returned Data aliases the engine's reply
// buffer until the next call on e.
func (e *Engine) Read(tag uint16, fid p9proto.Fid, offset uint64, count uint32) (p9proto.RRead, error) {
	req := p9proto.TRead{Fid: fid, Offset: offset, Count: count}
	body, err := e.send(tag, req, p9proto.MsgRread)
	if err != nil {
		return p9proto.RRead{}, err
	}
	rr, perr := p9proto.ParseRRead(body)
	if perr != nil {
		return p9proto.RRead{}, e.fatal(parseErr(classify(perr), perr))
	}
	return rr, nil
}

// MaxReadCount returns the largest Count this engine's negotiated
// msize allows for a single Read.
func (e *Engine) MaxReadCount() uint32 { return e.maxReadCount() }

// MaxWriteCount returns the largest len(data) this engine's
// negotiated msize allows for a single Write.
func (e *Engine) MaxWriteCount() uint32 { return e.maxWriteCount() }

// Write writes data to fid at offset. len(data) must not exceed
// MaxWriteCount(). The reply's Count may be less than len(data).
func (e *Engine) Write(tag uint16, fid p9proto.Fid, offset uint64, data []byte) (p9proto.RWrite, error) {
	req := p9proto.TWrite{Fid: fid, Offset: offset, Data: data}
	body, err := e.send(tag, req, p9proto.MsgRwrite)
	if err != nil {
		return p9proto.RWrite{}, err
	}
	rw, perr := p9proto.ParseRWrite(body)
	if perr != nil {
		return p9proto.RWrite{}, e.fatal(parseErr(classify(perr), perr))
	}
	return rw, nil
}

// Clunk releases fid. The caller must not use fid again after this
// call returns, regardless of whether it returns an error: the
// protocol retires the fid unconditionally.
func (e *Engine) Clunk(tag uint16, fid p9proto.Fid) error {
	req := p9proto.TClunk{Fid: fid}
	_, err := e.send(tag, req, p9proto.MsgRclunk)
	return err
}

// Remove removes fid's file, then clunks fid exactly as Clunk would,
// whether or not the removal itself succeeded.
func (e *Engine) Remove(tag uint16, fid p9proto.Fid) error {
	req := p9proto.TRemove{Fid: fid}
	_, err := e.send(tag, req, p9proto.MsgRremove)
	return err
}

// Stat returns the metadata of the file fid refers to.
func (e *Engine) Stat(tag uint16, fid p9proto.Fid) (p9proto.Stat, error) {
	req := p9proto.TStat{Fid: fid}
	body, err := e.send(tag, req, p9proto.MsgRstat)
	if err != nil {
		return p9proto.Stat{}, err
	}
	rs, perr := p9proto.ParseRStat(body)
	if perr != nil {
		return p9proto.Stat{}, e.fatal(parseErr(classify(perr), perr))
	}
	return rs.Stat, nil
}

// WStat requests changes to the metadata of the file fid refers to.
// Fields of st left at their "don't touch" sentinel values are left
// unchanged by the server; see TWStat.
func (e *Engine) WStat(tag uint16, fid p9proto.Fid, st p9proto.Stat) error {
	req := p9proto.TWStat{Fid: fid, Stat: st}
	_, err := e.send(tag, req, p9proto.MsgRwstat)
	return err
}
