package p9proto

import (
	"bytes"
	"reflect"
	"testing"
)

// write serializes m and returns its body bytes (no header).
func write(t *testing.T, m Message) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != m.Size() {
		t.Fatalf("Size() = %d, wrote %d bytes", m.Size(), buf.Len())
	}
	return buf.Bytes()
}

func TestRoundTripVersion(t *testing.T) {
	tv := TVersion{Msize: 8192, Version: "9P2000"}
	got, err := ParseTVersion(write(t, tv))
	if err != nil || got != tv {
		t.Fatalf("got %+v, %v; want %+v", got, err, tv)
	}

	rv := RVersion{Msize: 8192, Version: "9P2000"}
	gotR, err := ParseRVersion(write(t, rv))
	if err != nil || gotR != rv {
		t.Fatalf("got %+v, %v; want %+v", gotR, err, rv)
	}
}

func TestRoundTripAuthAttach(t *testing.T) {
	ta := TAuth{Afid: NoFid, Uname: "glenda", Aname: ""}
	got, err := ParseTAuth(write(t, ta), false)
	if err != nil || got != ta {
		t.Fatalf("got %+v, %v; want %+v", got, err, ta)
	}

	taU := TAuth{Afid: NoFid, Uname: "glenda", Aname: "", Dotu: true, NUname: 42}
	gotU, err := ParseTAuth(write(t, taU), true)
	if err != nil || gotU != taU {
		t.Fatalf("got %+v, %v; want %+v", gotU, err, taU)
	}

	tat := TAttach{Fid: 0, Afid: NoFid, Uname: "glenda", Aname: ""}
	gotAt, err := ParseTAttach(write(t, tat), false)
	if err != nil || gotAt != tat {
		t.Fatalf("got %+v, %v; want %+v", gotAt, err, tat)
	}

	ra := RAttach{Qid: Qid{Type: QTDIR, Version: 0, Path: 1}}
	gotRa, err := ParseRAttach(write(t, ra))
	if err != nil || gotRa != ra {
		t.Fatalf("got %+v, %v; want %+v", gotRa, err, ra)
	}
}

func TestRoundTripWalk(t *testing.T) {
	tw := TWalk{Fid: 0, Newfid: 1, Wname: []string{"usr", "lib"}}
	got, err := ParseTWalk(write(t, tw))
	if err != nil || !reflect.DeepEqual(got, tw) {
		t.Fatalf("got %+v, %v; want %+v", got, err, tw)
	}

	rw := RWalk{Wqid: []Qid{{Type: QTDIR, Path: 1}, {Type: 0, Path: 2}}}
	gotR, err := ParseRWalk(write(t, rw))
	if err != nil || !reflect.DeepEqual(gotR, rw) {
		t.Fatalf("got %+v, %v; want %+v", gotR, err, rw)
	}
}

func TestRoundTripOpenCreate(t *testing.T) {
	to := TOpen{Fid: 1, Mode: OREAD}
	got, err := ParseTOpen(write(t, to))
	if err != nil || got != to {
		t.Fatalf("got %+v, %v; want %+v", got, err, to)
	}

	ro := ROpen{Qid: Qid{Path: 9}, Iounit: 4096}
	gotR, err := ParseROpen(write(t, ro))
	if err != nil || gotR != ro {
		t.Fatalf("got %+v, %v; want %+v", gotR, err, ro)
	}

	tc := TCreate{Fid: 1, Name: "frogs.txt", Perm: 0755, Mode: ORDWR, Dotu: true, Extension: "target"}
	gotC, err := ParseTCreate(write(t, tc), true)
	if err != nil || gotC != tc {
		t.Fatalf("got %+v, %v; want %+v", gotC, err, tc)
	}
}

func TestRoundTripIO(t *testing.T) {
	tr := TRead{Fid: 0, Offset: 803280, Count: 5308}
	got, err := ParseTRead(write(t, tr))
	if err != nil || got != tr {
		t.Fatalf("got %+v, %v; want %+v", got, err, tr)
	}

	rr := RRead{Data: []byte("hello, world!")}
	gotR, err := ParseRRead(write(t, rr))
	if err != nil || !bytes.Equal(gotR.Data, rr.Data) {
		t.Fatalf("got %+v, %v; want %+v", gotR, err, rr)
	}

	tw := TWrite{Fid: 1, Offset: 10, Data: []byte("goodbye, world!")}
	gotW, err := ParseTWrite(write(t, tw))
	if err != nil || gotW.Fid != tw.Fid || gotW.Offset != tw.Offset || !bytes.Equal(gotW.Data, tw.Data) {
		t.Fatalf("got %+v, %v; want %+v", gotW, err, tw)
	}

	rw := RWrite{Count: 15}
	gotRW, err := ParseRWrite(write(t, rw))
	if err != nil || gotRW != rw {
		t.Fatalf("got %+v, %v; want %+v", gotRW, err, rw)
	}
}

func TestRoundTripClunkRemoveStat(t *testing.T) {
	if _, err := ParseTClunk(write(t, TClunk{Fid: 4})); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseRClunk(write(t, RClunk{})); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseTRemove(write(t, TRemove{Fid: 9})); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseRRemove(write(t, RRemove{})); err != nil {
		t.Fatal(err)
	}

	st := Stat{
		Typ: 0, Dev: 0, Qid: Qid{Type: QTDIR, Path: 13}, Mode: DMDIR | 0755,
		Name: "lib", Uid: "gopher", Gid: "gopher", Muid: "",
	}
	ts := TStat{Fid: 6}
	if _, err := ParseTStat(write(t, ts)); err != nil {
		t.Fatal(err)
	}
	rs := RStat{Stat: st}
	gotRS, err := ParseRStat(write(t, rs))
	if err != nil || !reflect.DeepEqual(gotRS.Stat, st) {
		t.Fatalf("got %+v, %v; want %+v", gotRS, err, st)
	}

	tws := TWStat{Fid: 3, Stat: st}
	gotTWS, err := ParseTWStat(write(t, tws))
	if err != nil || gotTWS.Fid != tws.Fid || !reflect.DeepEqual(gotTWS.Stat, st) {
		t.Fatalf("got %+v, %v; want %+v", gotTWS, err, tws)
	}
	if _, err := ParseRWStat(write(t, RWStat{})); err != nil {
		t.Fatal(err)
	}
}

func TestRoundTripFlushError(t *testing.T) {
	tf := TFlush{Oldtag: 2}
	got, err := ParseTFlush(write(t, tf))
	if err != nil || got != tf {
		t.Fatalf("got %+v, %v; want %+v", got, err, tf)
	}
	if _, err := ParseRFlush(write(t, RFlush{})); err != nil {
		t.Fatal(err)
	}

	re := RError{Ename: "some error"}
	gotE, err := ParseRError(write(t, re), false)
	if err != nil || gotE.Ename != re.Ename {
		t.Fatalf("got %+v, %v; want %+v", gotE, err, re)
	}

	reU := RError{Ename: "some error", Dotu: true, Errno: 2}
	gotEU, err := ParseRError(write(t, reU), true)
	if err != nil || gotEU != reU {
		t.Fatalf("got %+v, %v; want %+v", gotEU, err, reU)
	}
}

func TestRoundTripQid(t *testing.T) {
	q := Qid{Type: QTDIR, Version: 203, Path: 0x83208}
	var buf bytes.Buffer
	fw := newFieldWriter(&buf)
	q.Write(fw)
	if fw.Err != nil {
		t.Fatal(fw.Err)
	}
	if buf.Len() != QidLen {
		t.Fatalf("Qid wire length = %d, want %d", buf.Len(), QidLen)
	}
	rest, got, err := ParseQid(buf.Bytes())
	if err != nil || got != q || len(rest) != 0 {
		t.Fatalf("got %+v rest=%d, %v; want %+v", got, len(rest), err, q)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Size: 19, Type: MsgRversion, Tag: NOTAG}
	b := h.Bytes()
	got := ParseHeader(b)
	if got != h {
		t.Fatalf("got %+v, want %+v", got, h)
	}
}

func TestHeaderForMessage(t *testing.T) {
	m := TVersion{Msize: 8192, Version: "9P2000"}
	h := HeaderForMessage(m, NOTAG)
	if h.Size != uint32(headerLen+m.Size()) {
		t.Fatalf("Size = %d, want %d", h.Size, headerLen+m.Size())
	}
	if h.Type != MsgTversion || h.Tag != NOTAG {
		t.Fatalf("got %+v", h)
	}
}
