package p9c

import (
	"bytes"
	"io"
	"net"
	"testing"

	"aqwari.net/net/p9c/p9proto"
)

// readFrame reads one 9P frame off conn and returns its header and body.
func readFrame(t *testing.T, r io.Reader) (p9proto.Header, []byte) {
	t.Helper()
	var hb [7]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		t.Fatalf("read header: %v", err)
	}
	h := p9proto.ParseHeader(hb)
	body := make([]byte, h.Size-7)
	if _, err := io.ReadFull(r, body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return h, body
}

// writeFrame writes m as a full frame under tag to w.
func writeFrame(t *testing.T, w io.Writer, tag uint16, m p9proto.Message) {
	t.Helper()
	h := p9proto.HeaderForMessage(m, tag)
	hb := h.Bytes()
	if _, err := w.Write(hb[:]); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(w); err != nil {
		t.Fatal(err)
	}
}

// newPipe returns a client-side Engine and the server-side net.Conn end
// of an in-memory pipe, with no handshake performed yet.
func newPipe() (*Engine, net.Conn) {
	client, server := net.Pipe()
	return NewEngine(NewConn(client)), server
}

func TestEngineNegotiate(t *testing.T) {
	e, server := newPipe()
	defer server.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h, body := readFrame(t, server)
		if h.Type != p9proto.MsgTversion || h.Tag != p9proto.NOTAG {
			t.Errorf("unexpected request header: %+v", h)
		}
		tv, err := p9proto.ParseTVersion(body)
		if err != nil || tv.Msize != 8192 || tv.Version != "9P2000" {
			t.Errorf("unexpected Tversion body: %+v %v", tv, err)
		}
		writeFrame(t, server, p9proto.NOTAG, p9proto.RVersion{Msize: 8192, Version: "9P2000"})
	}()

	rv, err := e.Negotiate(8192, "9P2000")
	if err != nil {
		t.Fatal(err)
	}
	if rv.Msize != 8192 || rv.Version != "9P2000" {
		t.Fatalf("got %+v", rv)
	}
	if e.Msize() != 8192 || e.Version() != "9P2000" || e.Dotu() {
		t.Fatalf("engine state after negotiate: msize=%d version=%q dotu=%v", e.Msize(), e.Version(), e.Dotu())
	}
	<-done
}

func TestEngineAttachAfterVersion(t *testing.T) {
	e, server := newPipe()
	defer server.Close()

	go func() {
		readFrame(t, server)
		writeFrame(t, server, p9proto.NOTAG, p9proto.RVersion{Msize: 8192, Version: "9P2000"})
		h, body := readFrame(t, server)
		if h.Type != p9proto.MsgTattach || h.Tag != 1 {
			t.Errorf("unexpected header: %+v", h)
		}
		ta, err := p9proto.ParseTAttach(body, false)
		if err != nil || ta.Uname != "glenda" {
			t.Errorf("unexpected Tattach: %+v %v", ta, err)
		}
		writeFrame(t, server, 1, p9proto.RAttach{Qid: p9proto.Qid{Type: p9proto.QTDIR, Path: 1}})
	}()

	if _, err := e.Negotiate(8192, "9P2000"); err != nil {
		t.Fatal(err)
	}
	ra, err := e.Attach(1, 0, p9proto.NoFid, "glenda", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if ra.Qid.Path != 1 || !ra.Qid.IsDir() {
		t.Fatalf("got %+v", ra)
	}
}

func TestEngineTagMismatchIsFatal(t *testing.T) {
	e, server := newPipe()
	defer server.Close()

	go func() {
		readFrame(t, server)
		// Reply with the wrong tag. The engine stops reading after the
		// header, so the body is never consumed and this write fails
		// once the pipe is closed; that error is expected.
		var frame bytes.Buffer
		writeFrame(t, &frame, 99, p9proto.RVersion{Msize: 8192, Version: "9P2000"})
		server.Write(frame.Bytes())
	}()

	_, err := e.Negotiate(8192, "9P2000")
	perr, ok := err.(*Error)
	if !ok || perr.Kind != UnrecognizedTag || perr.Tag != 99 {
		t.Fatalf("got %v, want UnrecognizedTag(99)", err)
	}
	if !perr.Fatal() {
		t.Fatal("UnrecognizedTag must be fatal")
	}

	// The engine is now invalid; a further call must return the same
	// sticky error without touching the transport.
	if _, err := e.Stat(2, 0); err != perr {
		t.Fatalf("got %v after fatal error, want the same sticky error", err)
	}
}

func TestEngineErrorDispatchIsNotFatal(t *testing.T) {
	e, server := newPipe()
	defer server.Close()

	go func() {
		readFrame(t, server)
		writeFrame(t, server, p9proto.NOTAG, p9proto.RVersion{Msize: 8192, Version: "9P2000"})

		h, _ := readFrame(t, server)
		if h.Type != p9proto.MsgTopen {
			t.Errorf("unexpected header: %+v", h)
		}
		writeFrame(t, server, h.Tag, p9proto.RError{Ename: "unknown fid"})

		h, body := readFrame(t, server)
		if h.Type != p9proto.MsgTclunk {
			t.Errorf("unexpected header: %+v", h)
		}
		tc, err := p9proto.ParseTClunk(body)
		if err != nil || tc.Fid != 0 {
			t.Errorf("unexpected Tclunk: %+v %v", tc, err)
		}
		writeFrame(t, server, h.Tag, p9proto.RClunk{})
	}()

	if _, err := e.Negotiate(8192, "9P2000"); err != nil {
		t.Fatal(err)
	}
	_, err := e.Open(3, 5, p9proto.OREAD)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != Protocol || perr.Message != "unknown fid" {
		t.Fatalf("got %v, want Protocol(\"unknown fid\")", err)
	}
	if perr.Fatal() {
		t.Fatal("Protocol must not be fatal")
	}

	// The engine is still usable: a follow-up request must succeed.
	if err := e.Clunk(4, 0); err != nil {
		t.Fatalf("Clunk after Protocol error failed: %v", err)
	}
}

func TestEngineUnexpectedType(t *testing.T) {
	e, server := newPipe()
	defer server.Close()

	go func() {
		readFrame(t, server)
		writeFrame(t, server, p9proto.NOTAG, p9proto.RVersion{Msize: 8192, Version: "9P2000"})
		h, _ := readFrame(t, server)
		// Reply with the right tag but a type the caller isn't
		// expecting (and that isn't Rerror either).
		writeFrame(t, server, h.Tag, p9proto.RClunk{})
	}()

	if _, err := e.Negotiate(8192, "9P2000"); err != nil {
		t.Fatal(err)
	}
	_, err := e.Stat(1, 0)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != UnexpectedType || perr.Type != p9proto.MsgRclunk {
		t.Fatalf("got %v, want UnexpectedType(%d)", err, p9proto.MsgRclunk)
	}
}

func TestEngineDirectoryRead(t *testing.T) {
	e, server := newPipe()
	defer server.Close()

	s1 := p9proto.Stat{Qid: p9proto.Qid{Path: 1}, Name: "usr"}
	s2 := p9proto.Stat{Qid: p9proto.Qid{Path: 2}, Name: "lib"}
	var payload []byte
	for _, s := range []p9proto.Stat{s1, s2} {
		var buf bytes.Buffer
		if err := p9proto.WriteStat(&buf, s); err != nil {
			t.Fatal(err)
		}
		payload = append(payload, buf.Bytes()...)
	}

	go func() {
		readFrame(t, server)
		writeFrame(t, server, p9proto.NOTAG, p9proto.RVersion{Msize: 8192, Version: "9P2000"})

		h, body := readFrame(t, server)
		tr, _ := p9proto.ParseTRead(body)
		if tr.Offset != 0 {
			t.Errorf("unexpected offset: %d", tr.Offset)
		}
		writeFrame(t, server, h.Tag, p9proto.RRead{Data: payload})

		h, body = readFrame(t, server)
		tr, _ = p9proto.ParseTRead(body)
		if tr.Offset != uint64(len(payload)) {
			t.Errorf("unexpected offset: %d", tr.Offset)
		}
		writeFrame(t, server, h.Tag, p9proto.RRead{Data: nil})
	}()

	if _, err := e.Negotiate(8192, "9P2000"); err != nil {
		t.Fatal(err)
	}
	stats, err := e.ReadDir(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 || stats[0].Name != "usr" || stats[1].Name != "lib" {
		t.Fatalf("got %+v", stats)
	}
}
