package p9proto

// Limits on the size of variable-length fields. 9P puts no hard
// ceiling on most of these, but an implementation that trusts
// length-prefixed fields without limits is an implementation that
// can be made to allocate without bound by a hostile server.

// MaxWElem is the maximum number of path elements in a single Twalk
// request.
const MaxWElem = 16

// MaxFilenameLen is the maximum length, in bytes, of a single path
// element or Stat.Name.
const MaxFilenameLen = 512

// MaxUidLen is the maximum length, in bytes, of a Stat Uid, Gid, or
// Muid field.
const MaxUidLen = 45

// MaxErrorLen is the maximum length, in bytes, of an Rerror Ename.
const MaxErrorLen = 512

// MaxAttachLen is the maximum length, in bytes, of the Aname field
// of Tattach and Tauth.
const MaxAttachLen = 255

// MaxVersionLen is the maximum length, in bytes, of the protocol
// version string.
const MaxVersionLen = 20

// MaxOffset is the largest legal value of the Offset field in Tread
// and Twrite.
const MaxOffset = 1<<63 - 1

// minStatLen is the size, in bytes, of a Stat structure with every
// string field empty (see stat(5)).
const minStatLen = 49

// maxStatLen bounds the size of a single Stat entry using the above
// per-field limits.
const maxStatLen = minStatLen + MaxFilenameLen + (MaxUidLen * 3)

// headerLen is the size, in bytes, of the fixed size/type/tag prefix
// that begins every 9P message.
const headerLen = 7

// NOTAG is the reserved tag value used for Tversion, the one message
// that precedes tag negotiation.
const NOTAG uint16 = 0xFFFF

// NOFID is the reserved fid value meaning "no fid", used as Afid when
// no authentication is performed.
const NOFID uint32 = 0xFFFFFFFF

// NOUID is the reserved 9P2000.u numeric uid meaning "no numeric uid
// given".
const NOUID uint32 = 0xFFFFFFFF
