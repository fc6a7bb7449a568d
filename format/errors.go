package format

import "errors"

var (
	// ErrBadMagic is returned when a block's magic byte does not match
	// Magic; the volume is corrupt or was never formatted.
	ErrBadMagic = errors.New("format: bad magic byte")
	// ErrWrongKind is returned when a block's kind tag does not match the
	// kind the chain being walked expects to find there.
	ErrWrongKind = errors.New("format: unexpected block kind")
	// ErrNoSpace is returned by Allocate when the free chain is empty.
	ErrNoSpace = errors.New("format: no free blocks")
	// ErrNameTooLong is returned when a name does not fit, NUL-inclusive,
	// in NameFieldLen bytes.
	ErrNameTooLong = errors.New("format: name too long for the inode name field")
)
