// Package p9c implements a synchronous 9P2000 client: the request/reply
// engine that turns a byte-oriented or virtio transport into typed,
// tag-matched calls, built on the wire codec in p9proto.
package p9c

import "io"

// A Transport is the minimal contract Engine needs from whatever
// carries 9P messages between this client and a server: reliable,
// ordered, framed by the 9P messages written to it. Both a TCP/Unix
// byte stream (see DialTCP, DialUnix) and a virtio DMA channel
// (see the virtio subpackage) satisfy it.
//
// Write must write all of p or return an error describing why it
// could not (as io.Writer's contract already requires); Read must
// behave like io.Reader, including returning io.EOF only once no more
// bytes will ever arrive. The engine never issues concurrent calls to
// a Transport's Read and Write from goroutines that could race each
// other; at most one of each is in flight at a time.
type Transport interface {
	io.Reader
	io.Writer
}

// Closer is implemented by transports that hold an underlying
// resource (a socket, a virtqueue) the caller should release once
// done with the connection. Engine.Close calls it if the Transport
// it was built with implements it.
type Closer interface {
	Close() error
}
