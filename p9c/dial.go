package p9c

import (
	"context"
	"net"
	"time"

	"aqwari.net/retry"
)

// DialOptions configures Dial's connect-and-negotiate sequence.
type DialOptions struct {
	// Msize is the maximum message size to propose during Version
	// negotiation. Zero means DefaultMsize.
	Msize uint32

	// Version is the protocol version to propose. Zero value means
	// "9P2000"; pass "9P2000.u" to request the Unix extensions.
	Version string

	// MaxRetries bounds how many times Dial retries a temporary
	// net.Dial failure before giving up. Zero means no retrying: a
	// single attempt.
	MaxRetries int

	Logger  Logger
	Metrics *Metrics
}

// temporary is satisfied by net.Error and used the same way the
// teacher's server accept loop uses it: only errors that self-report
// as transient are worth retrying.
type temporary interface {
	Temporary() bool
}

// dialRetrying calls net.Dial(network, addr), retrying with
// exponential backoff (1ms up to 1s) on temporary errors until
// maxRetries retries (maxRetries+1 attempts in all) have been made or
// ctx is done.
func dialRetrying(ctx context.Context, network, addr string, maxRetries int, logger func(string, ...interface{})) (net.Conn, error) {
	backoff := retry.Exponential(time.Millisecond).Max(time.Second)
	var dialer net.Dialer
	try := 0
	for {
		c, err := dialer.DialContext(ctx, network, addr)
		if err == nil {
			return c, nil
		}
		tmp, ok := err.(temporary)
		if !ok || !tmp.Temporary() || try >= maxRetries {
			return nil, err
		}
		try++
		wait := backoff(try)
		if logger != nil {
			logger("9p: dial %s %s: %v; retrying in %v", network, addr, err, wait)
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Dial connects to addr over network ("tcp" or "unix"), retrying
// temporary failures per opts, then performs the Version handshake
// and returns a ready-to-use Engine.
func Dial(ctx context.Context, network, addr string, opts DialOptions) (*Engine, error) {
	logf := opts.Logger
	var logfn func(string, ...interface{})
	if logf != nil {
		logfn = logf.Printf
	}
	conn, err := dialRetrying(ctx, network, addr, opts.MaxRetries, logfn)
	if err != nil {
		return nil, err
	}

	msize := opts.Msize
	if msize == 0 {
		msize = DefaultMsize
	}
	version := opts.Version
	if version == "" {
		version = "9P2000"
	}

	var engOpts []Option
	if opts.Logger != nil {
		engOpts = append(engOpts, WithLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		engOpts = append(engOpts, WithMetrics(opts.Metrics))
	}

	e := NewEngine(NewConn(conn), engOpts...)
	if _, err := e.Negotiate(msize, version); err != nil {
		conn.Close()
		return nil, err
	}
	return e, nil
}

// DialTCP is a convenience wrapper around Dial for "tcp" addresses.
func DialTCP(ctx context.Context, addr string, opts DialOptions) (*Engine, error) {
	return Dial(ctx, "tcp", addr, opts)
}

// DialUnix is a convenience wrapper around Dial for Unix domain
// socket paths.
func DialUnix(ctx context.Context, path string, opts DialOptions) (*Engine, error) {
	return Dial(ctx, "unix", path, opts)
}
