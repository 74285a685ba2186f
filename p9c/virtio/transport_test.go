package virtio

import (
	"bytes"
	"testing"
)

type fakeQueue struct {
	gotReq []byte
	reply  []byte
}

func (q *fakeQueue) RoundTrip(req []byte) ([]byte, error) {
	q.gotReq = append([]byte(nil), req...)
	return q.reply, nil
}

func TestTransportRoundTrip(t *testing.T) {
	q := &fakeQueue{reply: []byte("reply-bytes")}
	tr := New(q, 64)

	if _, err := tr.Write([]byte("req")); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Write([]byte("uest")); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 6)
	n, err := tr.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(q.gotReq, []byte("request")) {
		t.Fatalf("queue saw %q, want %q", q.gotReq, "request")
	}
	if string(buf[:n]) != "reply-" {
		t.Fatalf("got %q, want %q", buf[:n], "reply-")
	}

	n, err = tr.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "bytes" {
		t.Fatalf("got %q, want %q", buf[:n], "bytes")
	}
}

func TestTransportFrameTooLarge(t *testing.T) {
	tr := New(&fakeQueue{}, 4)
	if _, err := tr.Write([]byte("toolong")); err != ErrFrameTooLarge {
		t.Fatalf("got %v, want ErrFrameTooLarge", err)
	}
}
