package p9c

import (
	"aqwari.net/net/p9c/p9proto"
)

// ErrShortWalk is returned by WalkPath when the server's walk stopped
// before reaching the end of names: the path does not exist, or a
// non-terminal component is not a directory. Walked is how many
// components were actually traversed; Wanted is the total requested.
type ErrShortWalk struct {
	Names  []string
	Walked int
	Wanted int
}

func (e *ErrShortWalk) Error() string {
	return "9p: no such file: " + pathOf(e.Names)
}

func pathOf(names []string) string {
	s := "/"
	for i, n := range names {
		if i > 0 {
			s += "/"
		}
		s += n
	}
	return s
}

// WalkPath walks fid to newfid through each element of names in
// turn, the way a filesystem adapter resolving a caller-supplied path
// would. An empty names walks newfid onto the same file as fid, per
// the protocol's fid-clone convention.
//
// names longer than p9proto.MaxWElem is walked in several TWalk
// calls, each hop starting from newfid (already bound by the
// previous hop) instead of fid.
//
// If the walk stops short, WalkPath clunks newfid before returning
// *ErrShortWalk, but only if an earlier hop had already bound it; a
// failure on the very first hop leaves the server having bound
// nothing, so there is nothing to clean up.
func WalkPath(e *Engine, tag uint16, fid, newfid p9proto.Fid, names []string) ([]p9proto.Qid, error) {
	var qids []p9proto.Qid
	from := fid
	bound := false
	remaining := names

	// At least one TWalk always goes out, even for an empty names: that
	// is how a fid gets cloned onto newfid in the first place.
	for {
		hop := remaining
		if len(hop) > p9proto.MaxWElem {
			hop = hop[:p9proto.MaxWElem]
		}
		reply, err := e.Walk(tag, from, newfid, hop)
		if err != nil {
			return qids, err
		}
		qids = append(qids, reply.Wqid...)
		if len(reply.Wqid) < len(hop) {
			if bound {
				e.Clunk(tag, newfid)
			}
			return qids, &ErrShortWalk{Names: names, Walked: len(qids), Wanted: len(names)}
		}
		bound = true
		from = newfid
		remaining = remaining[len(hop):]
		if len(remaining) == 0 {
			return qids, nil
		}
	}
}
