package p9proto

import "os"

// ModeOS converts a Stat.Mode permission mask to an os.FileMode, for
// callers that want to present a remote file through an interface
// that expects Go's own convention.
func ModeOS(perm uint32) os.FileMode {
	var mode os.FileMode
	if perm&DMDIR != 0 {
		mode = os.ModeDir
	}
	if perm&DMAPPEND != 0 {
		mode |= os.ModeAppend
	}
	if perm&DMEXCL != 0 {
		mode |= os.ModeExclusive
	}
	if perm&DMTMP != 0 {
		mode |= os.ModeTemporary
	}
	mode |= os.FileMode(perm) & os.ModePerm
	return mode
}

// Mode9P converts an os.FileMode to a Stat.Mode permission mask.
func Mode9P(mode os.FileMode) uint32 {
	var perm uint32
	if mode&os.ModeDir != 0 {
		perm |= DMDIR
	}
	if mode&os.ModeAppend != 0 {
		perm |= DMAPPEND
	}
	if mode&os.ModeExclusive != 0 {
		perm |= DMEXCL
	}
	if mode&os.ModeTemporary != 0 {
		perm |= DMTMP
	}
	return perm | uint32(mode&os.ModePerm)
}

// QidTypeFromMode derives the Qid type byte a server would assign a
// file with the given Stat.Mode. Each QidType constant equals the top
// byte of its DM* counterpart (DMDIR>>24 == QTDIR, and so on); only
// DMDIR, DMAPPEND, DMEXCL, DMTMP and DMAUTH are carried over, and any
// other bits of the top byte are dropped.
func QidTypeFromMode(perm uint32) QidType {
	var t QidType
	if perm&DMDIR != 0 {
		t |= QTDIR
	}
	if perm&DMAPPEND != 0 {
		t |= QTAPPEND
	}
	if perm&DMEXCL != 0 {
		t |= QTEXCL
	}
	if perm&DMTMP != 0 {
		t |= QTTMP
	}
	if perm&DMAUTH != 0 {
		t |= QTAUTH
	}
	return t
}
