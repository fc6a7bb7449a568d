package tinyfs

import "errors"

// errOpenTableFull is wrapped under ErrOpen when every slot of the mounted
// open-file table is occupied. There is no dedicated code for this case;
// ErrOpen is the closest fit since it is still OpenFile that fails.
var errOpenTableFull = errors.New("tinyfs: open-file table is full")

// Code is the closed set of TinyFS failure kinds, each a distinct negative
// integer, matching original_source/tinyFS_errno.h where that header
// defines a code and extending the same sequence (EFWRITE, EBREAD, ERENAME)
// for the few failure kinds that header doesn't name.
type Code int

const (
	CodeBadFD     Code = -1  // EBADFD
	CodeNoSpace   Code = -2  // ENOSPC
	CodeFileTooBig Code = -3 // EFBIG (reserved)
	CodeCreateFS  Code = -4  // ECREATFS
	CodeMountFS   Code = -5  // EMOUNTFS
	CodeUnmountFS Code = -6  // EUNMOUNTFS
	CodeOpen      Code = -7  // EOPEN
	CodeClose     Code = -8  // ECLOSE
	CodeDelete    Code = -9  // EDELETE
	CodeDealloc   Code = -10 // EDEALLOC
	CodeRead      Code = -11 // EFREAD
	CodeWrite     Code = -12 // EFWRITE
	CodeByteRead  Code = -13 // EBREAD
	CodeRename    Code = -14 // ERENAME
)

// Error is a TinyFS error carrying one of the closed Code values, so
// callers that want the original C ABI's integer convention can still
// retrieve it via Code(), while idiomatic Go callers use errors.Is against
// the Err* sentinels below.
type Error struct {
	code Code
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the negative integer return code, matching the original C
// ABI's error-code convention.
func (e *Error) Code() int { return int(e.code) }

var (
	ErrBadFD      = &Error{CodeBadFD, "tinyfs: bad file descriptor"}
	ErrNoSpace    = &Error{CodeNoSpace, "tinyfs: free chain exhausted"}
	ErrFileTooBig = &Error{CodeFileTooBig, "tinyfs: file exceeds implementation limit"}
	ErrCreateFS   = &Error{CodeCreateFS, "tinyfs: mkfs failed"}
	ErrMountFS    = &Error{CodeMountFS, "tinyfs: mount failed"}
	ErrUnmountFS  = &Error{CodeUnmountFS, "tinyfs: unmount failed"}
	ErrOpen       = &Error{CodeOpen, "tinyfs: open failed"}
	ErrClose      = &Error{CodeClose, "tinyfs: close failed"}
	ErrDelete     = &Error{CodeDelete, "tinyfs: delete failed"}
	ErrDealloc    = &Error{CodeDealloc, "tinyfs: deallocation failed"}
	ErrRead       = &Error{CodeRead, "tinyfs: underlying block read failed"}
	ErrWrite      = &Error{CodeWrite, "tinyfs: free list exhausted mid-write"}
	ErrByteRead   = &Error{CodeByteRead, "tinyfs: read past end of file"}
	ErrRename     = &Error{CodeRename, "tinyfs: name does not fit in the name field"}
)
