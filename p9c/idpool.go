package p9c

import (
	"sort"
	"sync"
	"sync/atomic"

	"aqwari.net/net/p9c/p9proto"
)

// Ceilings for the two pools below, set by the wire format: fids are
// 32-bit and tags are 16-bit, with one value reserved out of each
// range (NoFid, NOTAG).
const (
	fidPoolCeiling = 1<<32 - 1
	tagPoolCeiling = 1<<16 - 1
)

var (
	add = atomic.AddUint32
	cas = atomic.CompareAndSwapUint32
)

type uint32slice []uint32

func (s uint32slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint32slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s uint32slice) Len() int           { return len(s) }

// pool allocates identifiers in a contiguous sequence from [0, ceil)
// and recycles freed ones. It is a convenience for callers that don't
// want to invent their own fids and tags; the engine itself accepts
// caller-chosen values for both and never consults a pool.
//
// Freeing an id that isn't the most recently allocated one doesn't
// immediately shrink the high-water mark; it's parked in clunked
// until every id above it has also been freed. This keeps Get
// lock-free at the cost of a pool that can fill up prematurely under
// pathological free patterns.
type pool struct {
	next uint32

	mu      sync.Mutex
	clunked []uint32
}

func (p *pool) get(ceil uint32) (id uint32, ok bool) {
	if atomic.LoadUint32(&p.next) == ceil {
		return 0, false
	}
	return add(&p.next, 1) - 1, true
}

func (p *pool) free(old uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !cas(&p.next, old+1, old) {
		p.clunked = append(p.clunked, old)
		sort.Sort(uint32slice(p.clunked))
	}
	for i := len(p.clunked); i > 0; i-- {
		if cas(&p.next, p.clunked[i-1]+1, p.clunked[i-1]) {
			p.clunked = p.clunked[:len(p.clunked)-1]
		} else {
			break
		}
	}
}

// A FidPool hands out fids for a caller to bind with Walk, Attach, or
// Create, and takes them back once Clunk or Remove has retired them.
// The zero value is an empty pool ready to use. It is safe for
// concurrent use.
type FidPool struct{ pool }

// Get returns an unused fid. ok is false if the pool is exhausted.
func (p *FidPool) Get() (fid p9proto.Fid, ok bool) {
	id, ok := p.get(fidPoolCeiling)
	return p9proto.Fid(id), ok
}

// Free returns fid to the pool. Free must be called at most once per
// value returned by Get, after the fid has been clunked or removed.
func (p *FidPool) Free(fid p9proto.Fid) { p.free(uint32(fid)) }

// A TagPool hands out tags for a caller driving multiple requests
// over one connection with something other than Engine's built-in
// synchronous send. The zero value is an empty pool ready to use.
type TagPool struct{ pool }

// Get returns an unused tag. ok is false if the pool is exhausted.
func (p *TagPool) Get() (tag uint16, ok bool) {
	id, ok := p.get(tagPoolCeiling)
	return uint16(id), ok
}

// Free returns tag to the pool.
func (p *TagPool) Free(tag uint16) { p.free(uint32(tag)) }
