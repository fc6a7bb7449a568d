// Package tinyfs implements the file-operation-engine layer: mkfs, mount,
// unmount, and the open-file-table-mediated operations (open, close, write,
// read, seek, delete, rename, and directory/info listing) on top of the
// format package's on-disk layout and the blockdevice package's block I/O.
//
// FS is ported from original_source/libTinyFS.c's tfs_* functions, but is
// an instantiable type rather than the original's process-wide globals
// (mountedDisk, openFileTable): the mounted state lives on one FS value, so
// nothing here prevents a program from using more than one.
package tinyfs

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nickambrose7/tinyfs/blockdevice"
	"github.com/nickambrose7/tinyfs/format"
)

// DefaultDiskSize and DefaultDiskName mirror original_source/libTinyFS.h's
// DEFAULT_DISK_SIZE/DEFAULT_DISK_NAME, offered as convenience constants for
// callers that don't care about sizing their own disk.
const (
	DefaultDiskSize = 10240
	DefaultDiskName = "tinyFSDisk"
)

// MaxBytes mirrors original_source/libTinyFS.h's MAX_BYTES: the largest
// backing-file size mkfs will accept.
const MaxBytes = math.MaxInt32

// openFileEntry is one slot of the mounted open-file table. A nil entry in
// mountedState.openFiles marks an empty slot.
type openFileEntry struct {
	inode  uint32
	cursor uint32
}

// mountedState is everything that exists only while a disk is mounted.
type mountedState struct {
	disk      int
	store     *format.Store
	openFiles []*openFileEntry
}

// FS is a TinyFS engine bound to one block device registry. At most one
// disk may be mounted on an FS at a time.
type FS struct {
	dev     *blockdevice.Device
	mounted *mountedState
	out     io.Writer
}

// New returns an FS with its own block device registry and no disk
// mounted. Diagnostic output (ReadFileInfo, ReadDir) goes to os.Stdout
// unless SetOutput is called.
func New() *FS {
	return &FS{dev: blockdevice.NewDevice(), out: os.Stdout}
}

// SetOutput redirects ReadFileInfo/ReadDir output.
func (fs *FS) SetOutput(w io.Writer) {
	fs.out = w
}

// wrap attaches a sentinel Code to a lower-level cause, preserving
// errors.Is(result, sentinel) while keeping the cause's detail in the
// message.
func wrap(sentinel *Error, cause error) error {
	return fmt.Errorf("%w: %v", sentinel, cause)
}

// MkFS creates and formats a new TinyFS volume backed by a host file named
// name, sized nBytes. It leaves the volume unmounted; callers Mount it
// afterward. Grounded on original_source/libTinyFS.c's tfs_mkfs.
func (fs *FS) MkFS(name string, nBytes int) error {
	if nBytes <= 0 || nBytes > MaxBytes {
		return wrap(ErrCreateFS, fmt.Errorf("disk size %d out of range (0, %d]", nBytes, MaxBytes))
	}
	numBlocks := nBytes/format.BlockSize - 1
	if numBlocks < 3 {
		return wrap(ErrCreateFS, fmt.Errorf("disk size %d yields %d usable blocks, need at least 3", nBytes, numBlocks))
	}
	disk, err := fs.dev.OpenDisk(name, int64(nBytes))
	if err != nil {
		return wrap(ErrCreateFS, err)
	}
	defer fs.dev.CloseDisk(disk)

	maxOpenFiles := uint32(numBlocks / 2)
	if err := format.FormatVolume(fs.dev, disk, uint32(numBlocks), maxOpenFiles); err != nil {
		return wrap(ErrCreateFS, err)
	}
	logrus.WithFields(logrus.Fields{"name": name, "blocks": numBlocks, "maxOpenFiles": maxOpenFiles}).Info("tinyfs: formatted volume")
	return nil
}

// Mount opens name as the current disk, validates every block's header,
// and initializes an empty open-file table sized to the volume's
// MaxOpenFiles. Fails if a disk is already mounted on fs.
func (fs *FS) Mount(name string) (int, error) {
	if fs.mounted != nil {
		return -1, wrap(ErrMountFS, fmt.Errorf("a disk is already mounted"))
	}
	disk, err := fs.dev.OpenDisk(name, 0)
	if err != nil {
		return -1, wrap(ErrMountFS, err)
	}

	store := format.NewStore(fs.dev, disk)
	sb, err := store.ReadSuper()
	if err != nil {
		fs.dev.CloseDisk(disk)
		return -1, wrap(ErrMountFS, err)
	}

	info, err := fs.dev.Stat(disk)
	if err != nil {
		fs.dev.CloseDisk(disk)
		return -1, wrap(ErrMountFS, err)
	}
	buf := make([]byte, format.BlockSize)
	for b := int64(1); b < info.NumBlocks; b++ {
		if err := fs.dev.ReadBlock(disk, b, buf); err != nil {
			fs.dev.CloseDisk(disk)
			return -1, wrap(ErrMountFS, err)
		}
		kind, magicOK := format.PeekHeader(buf)
		if !magicOK {
			fs.dev.CloseDisk(disk)
			return -1, wrap(ErrMountFS, fmt.Errorf("block %d has a bad magic byte", b))
		}
		switch kind {
		case format.KindInode, format.KindData, format.KindFree:
		default:
			fs.dev.CloseDisk(disk)
			return -1, wrap(ErrMountFS, fmt.Errorf("block %d has unexpected kind %s", b, kind))
		}
	}

	fs.mounted = &mountedState{
		disk:      disk,
		store:     store,
		openFiles: make([]*openFileEntry, sb.MaxOpenFiles),
	}
	logrus.WithFields(logrus.Fields{"disk": disk, "name": name}).Info("tinyfs: mounted volume")
	return disk, nil
}

// Unmount closes the current disk and discards the open-file table. Fails
// if nothing is mounted.
func (fs *FS) Unmount() error {
	if fs.mounted == nil {
		return ErrUnmountFS
	}
	disk := fs.mounted.disk
	fs.mounted = nil
	if err := fs.dev.CloseDisk(disk); err != nil {
		return wrap(ErrUnmountFS, err)
	}
	logrus.WithField("disk", disk).Info("tinyfs: unmounted volume")
	return nil
}

// freeSlot returns the lowest-indexed empty slot in the open-file table,
// or -1 if it is full.
func (m *mountedState) freeSlot() int {
	for i, e := range m.openFiles {
		if e == nil {
			return i
		}
	}
	return -1
}

// slotForInode returns the open-file-table slot currently referencing
// inode b, or -1 if it is not open.
func (m *mountedState) slotForInode(b uint32) int {
	for i, e := range m.openFiles {
		if e != nil && e.inode == b {
			return i
		}
	}
	return -1
}

// getOpenEntry validates fd against the current mount's open-file table.
// With nothing mounted there is no table to check against, so every fd is
// uniformly ErrBadFD — this is also what lets CloseFile validate only the
// fd, without a separate check that a disk is still mounted.
func (fs *FS) getOpenEntry(fd int) (*openFileEntry, error) {
	if fs.mounted == nil || fd < 0 || fd >= len(fs.mounted.openFiles) || fs.mounted.openFiles[fd] == nil {
		return nil, ErrBadFD
	}
	return fs.mounted.openFiles[fd], nil
}

// DebugReadBlock returns the raw bytes of block b of the mounted disk, for
// diagnostic tools (the demo program's hex dump) only; no file operation
// in this package uses it.
func (fs *FS) DebugReadBlock(b int64) ([]byte, error) {
	if fs.mounted == nil {
		return nil, ErrBadFD
	}
	buf := make([]byte, format.BlockSize)
	if err := fs.dev.ReadBlock(fs.mounted.disk, b, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
