// Package blockdevice implements TinyFS's block device abstraction: it
// translates (disk-id, block-index) pairs into byte-offset I/O against a
// backing host file, enforcing block alignment, and multiplexes any number
// of concurrently open emulated disks.
//
// Every higher TinyFS layer reaches storage only through this package.
package blockdevice

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nickambrose7/tinyfs/backend"
	"github.com/nickambrose7/tinyfs/backend/file"
)

// BlockSize is the fixed size, in bytes, of every block on every TinyFS
// volume.
const BlockSize = 256

var (
	// ErrUnknownDisk is returned when a disk number does not refer to a
	// currently open disk.
	ErrUnknownDisk = errors.New("blockdevice: unknown disk")
	// ErrBadBlock is returned when a block index is negative or would read
	// or write past the end of the disk.
	ErrBadBlock = errors.New("blockdevice: block index out of range")
	// ErrShortIO is returned when fewer than BlockSize bytes were
	// transferred to or from the backing file.
	ErrShortIO = errors.New("blockdevice: short block transfer")
	// ErrBadSize is returned by OpenDisk when the requested size cannot
	// yield at least one block.
	ErrBadSize = errors.New("blockdevice: invalid disk size")
)

// handle is the in-memory record of one open emulated disk.
type handle struct {
	number   int
	name     string
	storage  backend.Storage
	byteSize int64
	id       uuid.UUID
}

// Device is a registry of open emulated disks. The zero value is ready to
// use; callers typically keep a single package-level or process-wide
// Device, mirroring TinyFS's single mounted-disk model.
type Device struct {
	mu      sync.Mutex
	nextNum int
	disks   map[int]*handle
}

// NewDevice returns an empty disk registry.
func NewDevice() *Device {
	return &Device{disks: make(map[int]*handle)}
}

// OpenDisk opens an emulated disk backed by name.
//
// If nBytes == 0, an existing backing file is opened read/write; it is an
// error for the file to be absent, or for its length not to be a positive
// multiple of BlockSize.
//
// Otherwise the backing file is created (truncating any existing content),
// nBytes is rounded down to a multiple of BlockSize (it is an error for the
// rounded value to be below BlockSize), and the file is zero-filled to that
// length.
//
// On success it returns a positive disk number that never repeats for the
// lifetime of the Device.
func (d *Device) OpenDisk(name string, nBytes int64) (int, error) {
	var (
		storage backend.Storage
		size    int64
		err     error
	)

	switch {
	case nBytes == 0:
		storage, err = file.OpenExisting(name)
		if err != nil {
			return -1, fmt.Errorf("blockdevice: open %s: %w", name, err)
		}
		info, statErr := storage.Stat()
		if statErr != nil {
			_ = storage.Close()
			return -1, fmt.Errorf("blockdevice: stat %s: %w", name, statErr)
		}
		size = info.Size()
		if size <= 0 || size%BlockSize != 0 {
			_ = storage.Close()
			return -1, fmt.Errorf("%w: %s is %d bytes, not a positive multiple of %d", ErrBadSize, name, size, BlockSize)
		}
	default:
		size = nBytes - (nBytes % BlockSize)
		if size < BlockSize {
			return -1, fmt.Errorf("%w: %d bytes rounds below one block", ErrBadSize, nBytes)
		}
		storage, err = file.CreateTruncated(name, size)
		if err != nil {
			return -1, fmt.Errorf("blockdevice: create %s: %w", name, err)
		}
	}

	logBackingKind(name, storage)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextNum++
	h := &handle{
		number:   d.nextNum,
		name:     name,
		storage:  storage,
		byteSize: size,
		id:       uuid.New(),
	}
	d.disks[h.number] = h
	logrus.WithFields(logrus.Fields{
		"disk": h.number,
		"name": name,
		"size": size,
		"id":   h.id,
	}).Debug("blockdevice: opened disk")
	return h.number, nil
}

// CloseDisk closes the backing file for disk and forgets its handle. A
// second close of the same disk number fails.
func (d *Device) CloseDisk(disk int) error {
	d.mu.Lock()
	h, ok := d.disks[disk]
	if ok {
		delete(d.disks, disk)
	}
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("blockdevice: close disk %d: %w", disk, ErrUnknownDisk)
	}
	if err := h.storage.Close(); err != nil {
		return fmt.Errorf("blockdevice: close disk %d: %w", disk, err)
	}
	logrus.WithField("disk", disk).Debug("blockdevice: closed disk")
	return nil
}

func (d *Device) lookup(disk int) (*handle, error) {
	d.mu.Lock()
	h, ok := d.disks[disk]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("blockdevice: disk %d: %w", disk, ErrUnknownDisk)
	}
	return h, nil
}

func (d *Device) boundsCheck(h *handle, b int64) error {
	if b < 0 {
		return fmt.Errorf("%w: block %d is negative", ErrBadBlock, b)
	}
	offset := b * BlockSize
	if offset+BlockSize > h.byteSize {
		return fmt.Errorf("%w: block %d exceeds disk %d's %d bytes", ErrBadBlock, b, h.number, h.byteSize)
	}
	return nil
}

// ReadBlock reads exactly BlockSize bytes from block b of disk into buf.
func (d *Device) ReadBlock(disk int, b int64, buf []byte) error {
	h, err := d.lookup(disk)
	if err != nil {
		return err
	}
	if err := d.boundsCheck(h, b); err != nil {
		return err
	}
	if len(buf) < BlockSize {
		return fmt.Errorf("blockdevice: read block %d: buffer shorter than %d bytes", b, BlockSize)
	}
	n, err := h.storage.ReadAt(buf[:BlockSize], b*BlockSize)
	if err != nil {
		return fmt.Errorf("blockdevice: read disk %d block %d: %w", disk, b, err)
	}
	if n != BlockSize {
		return fmt.Errorf("%w: disk %d block %d read %d of %d bytes", ErrShortIO, disk, b, n, BlockSize)
	}
	logrus.WithFields(logrus.Fields{"disk": disk, "block": b}).Trace("blockdevice: read block")
	return nil
}

// WriteBlock writes exactly BlockSize bytes from buf to block b of disk.
func (d *Device) WriteBlock(disk int, b int64, buf []byte) error {
	h, err := d.lookup(disk)
	if err != nil {
		return err
	}
	if err := d.boundsCheck(h, b); err != nil {
		return err
	}
	if len(buf) < BlockSize {
		return fmt.Errorf("blockdevice: write block %d: buffer shorter than %d bytes", b, BlockSize)
	}
	n, err := h.storage.WriteAt(buf[:BlockSize], b*BlockSize)
	if err != nil {
		return fmt.Errorf("blockdevice: write disk %d block %d: %w", disk, b, err)
	}
	if n != BlockSize {
		return fmt.Errorf("%w: disk %d block %d wrote %d of %d bytes", ErrShortIO, disk, b, n, BlockSize)
	}
	logrus.WithFields(logrus.Fields{"disk": disk, "block": b}).Trace("blockdevice: wrote block")
	return nil
}

// Info is a diagnostic snapshot of one open disk, for demo/debug output.
type Info struct {
	Number    int
	Name      string
	ByteSize  int64
	NumBlocks int64
	ID        uuid.UUID
	BirthTime string // RFC3339, empty if unavailable on this host file system
}

// Stat returns a diagnostic snapshot of disk. It is never consulted by the
// file system engine; it exists for the demo program and for logging.
func (d *Device) Stat(disk int) (Info, error) {
	h, err := d.lookup(disk)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Number:    h.number,
		Name:      h.name,
		ByteSize:  h.byteSize,
		NumBlocks: h.byteSize / BlockSize,
		ID:        h.id,
		BirthTime: birthTime(h),
	}, nil
}
