// Package format defines TinyFS's on-disk layout — the superblock, the
// free-block chain, the inode chain, and data-extent chains — and the
// allocator that threads them together.
//
// Every block is BlockSize bytes. Byte 0 is a block-kind tag, byte 1 is the
// fixed magic byte; a valid mounted volume has the magic byte set on every
// allocated block. All multi-byte integers are little-endian.
package format

import (
	"encoding/binary"
	"fmt"
)

const (
	// BlockSize is the fixed size, in bytes, of every block.
	BlockSize = 256
	// UsableData is the payload capacity of one data-extent block after
	// its 6-byte header.
	UsableData = BlockSize - 6
	// Magic is the fixed byte every allocated block carries at offset 1.
	Magic = 0x44
	// NameFieldLen is the size, in bytes, of an inode's file-name field,
	// NUL-inclusive.
	NameFieldLen = 9
	// TimestampFieldLen is the size, in bytes, of one on-disk timestamp
	// field.
	TimestampFieldLen = 25
	// SuperBlockIndex is the reserved block index of the superblock.
	SuperBlockIndex = 0
)

// Kind is the block-kind tag stored in byte 0 of every block.
type Kind byte

const (
	// KindSuper marks the one superblock, always at block 0.
	KindSuper Kind = 1
	// KindInode marks a block describing one file.
	KindInode Kind = 2
	// KindData marks a data-extent block belonging to some file's chain.
	KindData Kind = 3
	// KindFree marks a block on the free chain.
	KindFree Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindSuper:
		return "super"
	case KindInode:
		return "inode"
	case KindData:
		return "data"
	case KindFree:
		return "free"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

const (
	offKind  = 0
	offMagic = 1
)

// header is embedded, by convention, at the start of every typed block
// view below. It is never exposed on its own — callers work with the
// typed Superblock/Inode/FreeBlock/DataExtent views, never raw offsets.
func putHeader(b []byte, kind Kind) {
	b[offKind] = byte(kind)
	b[offMagic] = Magic
}

// checkHeader validates that b carries the magic byte and the expected
// kind tag, returning a descriptive error otherwise. A block that fails
// this check cannot be trusted to be part of any chain.
func checkHeader(b []byte, want Kind) error {
	if len(b) < BlockSize {
		return fmt.Errorf("format: block is %d bytes, want %d", len(b), BlockSize)
	}
	if b[offMagic] != Magic {
		return fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrBadMagic, b[offMagic], Magic)
	}
	got := Kind(b[offKind])
	if got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrWrongKind, got, want)
	}
	return nil
}

// PeekHeader reads just the kind tag and magic-validity of a raw block,
// without decoding the rest of it. Mount uses this to validate every
// block's header without caring which typed chain it belongs to.
func PeekHeader(b []byte) (kind Kind, magicOK bool) {
	return Kind(b[offKind]), b[offMagic] == Magic
}

func putUint32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func getUint32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
