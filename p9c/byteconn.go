package p9c

import "net"

// netConn adapts a net.Conn to the Transport interface. net.Conn
// already satisfies io.Reader and io.Writer with the blocking,
// fill-or-fail semantics the engine requires, so this exists only to
// document the binding and to give byte-stream connections a
// constructor alongside the virtio one.
type netConn struct {
	net.Conn
}

// NewConn adapts an already-established net.Conn (TCP, Unix domain
// socket, or anything else satisfying the interface) into a
// Transport suitable for NewEngine.
func NewConn(c net.Conn) Transport {
	return netConn{c}
}
