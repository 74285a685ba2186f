// Package virtio adapts an Engine to run over a virtio-9p-style
// transport: a whole-frame request/reply round trip over a pair of
// DMA regions, instead of a byte stream. This is the guest side of
// the device; driving the actual virtqueue (descriptor rings,
// avail/used indices, the kick that notifies the device and the
// interrupt or poll that learns a reply descriptor chain has been
// used) is hypervisor- and platform-specific and is supplied by the
// caller through the Queue interface below.
package virtio

import (
	"errors"
	"io"
)

// ErrFrameTooLarge is returned by Transport.Write when the caller
// attempts to write more than one msize-sized frame's worth of bytes
// without an intervening round trip.
var ErrFrameTooLarge = errors.New("virtio: frame exceeds msize")

// A Queue is the narrow capability this package needs from a
// concrete virtqueue driver: hand it one outgoing frame and get back
// one incoming frame, as a single blocking operation. A real
// implementation places req in a write-only descriptor, a read-only
// descriptor for the reply in the same chain, kicks the queue, and
// waits for the device to mark the chain used.
type Queue interface {
	// RoundTrip sends req as a single descriptor chain and blocks
	// until the device's reply is available, returning it. The
	// returned slice is only valid until the next call to RoundTrip.
	RoundTrip(req []byte) (reply []byte, err error)
}

// A Transport implements p9c.Transport over a Queue: each engine
// request is buffered locally as it is written, and the first Read
// that finds no reply bytes buffered sends it with a fresh RoundTrip
// and then serves the reply from that round trip. This mirrors the byte-stream engine's write-then-
// read pattern without requiring a real stream in between.
type Transport struct {
	q     Queue
	msize int

	send []byte // accumulates one frame's worth of writes
	recv []byte // unconsumed bytes of the last reply
}

// New wraps q in a Transport. msize bounds the size of a single
// frame in either direction; it should match the msize negotiated
// (or about to be negotiated) on the Engine built from this
// Transport.
func New(q Queue, msize int) *Transport {
	return &Transport{q: q, msize: msize}
}

// Write appends p to the current outgoing frame. The engine always
// writes a complete frame (header then body) before reading anything,
// so accumulation here is safe: the round trip itself is triggered
// by the first subsequent Read.
func (t *Transport) Write(p []byte) (int, error) {
	if len(t.send)+len(p) > t.msize {
		return 0, ErrFrameTooLarge
	}
	t.send = append(t.send, p...)
	return len(p), nil
}

// Read fills p from the current reply, performing a RoundTrip first
// if no reply bytes are buffered yet.
func (t *Transport) Read(p []byte) (int, error) {
	if len(t.recv) == 0 {
		if len(t.send) == 0 {
			return 0, io.EOF
		}
		reply, err := t.q.RoundTrip(t.send)
		t.send = t.send[:0]
		if err != nil {
			return 0, err
		}
		t.recv = reply
	}
	n := copy(p, t.recv)
	t.recv = t.recv[n:]
	return n, nil
}
