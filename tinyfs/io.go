package tinyfs

import (
	"github.com/nickambrose7/tinyfs/format"
	"github.com/nickambrose7/tinyfs/internal/tstamp"
)

// WriteFile replaces fd's entire content with data. Any previously
// allocated data extents are deallocated first. On a partial failure (the
// free chain runs out mid-write) the file is left with as many bytes as
// could be written and ErrWrite is returned. Ported from
// original_source/libTinyFS.c's tfs_writeFile.
func (fs *FS) WriteFile(fd int, data []byte) error {
	entry, err := fs.getOpenEntry(fd)
	if err != nil {
		return err
	}
	store := fs.mounted.store

	in, err := store.ReadInode(entry.inode)
	if err != nil {
		return wrap(ErrWrite, err)
	}

	cur := in.DataHead
	for cur != 0 {
		d, err := store.ReadData(cur)
		if err != nil {
			return wrap(ErrDealloc, err)
		}
		if err := store.Deallocate(cur); err != nil {
			return wrap(ErrDealloc, err)
		}
		cur = d.Next
	}

	blocksNeeded := (len(data) + format.UsableData - 1) / format.UsableData
	chain := make([]uint32, 0, blocksNeeded)
	for len(chain) < blocksNeeded {
		b, err := store.Allocate()
		if err != nil {
			break
		}
		chain = append(chain, b)
	}
	partial := len(chain) < blocksNeeded

	for i, b := range chain {
		start := i * format.UsableData
		end := start + format.UsableData
		if end > len(data) {
			end = len(data)
		}
		var next uint32
		if i+1 < len(chain) {
			next = chain[i+1]
		}
		d := format.DataExtent{Next: next, Payload: data[start:end]}
		if err := store.WriteData(b, d); err != nil {
			return wrap(ErrWrite, err)
		}
	}

	writtenBytes := len(data)
	if partial {
		writtenBytes = len(chain) * format.UsableData
	}
	in.FileSize = uint32(writtenBytes)
	in.DataHead = 0
	if len(chain) > 0 {
		in.DataHead = chain[0]
	}
	in.Modified = tstamp.Now()
	if err := store.WriteInode(entry.inode, in); err != nil {
		return wrap(ErrWrite, err)
	}
	entry.cursor = 0

	if partial {
		return ErrWrite
	}
	return nil
}

// ReadByte returns the byte at fd's current cursor and advances the
// cursor by one. Fails with ErrByteRead at or past end of file; Seek may
// move the cursor past EOF without itself failing.
func (fs *FS) ReadByte(fd int) (byte, error) {
	entry, err := fs.getOpenEntry(fd)
	if err != nil {
		return 0, err
	}
	store := fs.mounted.store

	in, err := store.ReadInode(entry.inode)
	if err != nil {
		return 0, wrap(ErrRead, err)
	}
	if entry.cursor >= in.FileSize {
		return 0, ErrByteRead
	}

	blockIdx := entry.cursor / uint32(format.UsableData)
	offsetInBlock := entry.cursor % uint32(format.UsableData)
	cur := in.DataHead
	for i := uint32(0); i < blockIdx; i++ {
		d, err := store.ReadData(cur)
		if err != nil {
			return 0, wrap(ErrRead, err)
		}
		cur = d.Next
	}
	d, err := store.ReadData(cur)
	if err != nil {
		return 0, wrap(ErrRead, err)
	}

	b := d.Payload[offsetInBlock]
	entry.cursor++
	in.Accessed = tstamp.Now()
	if err := store.WriteInode(entry.inode, in); err != nil {
		return 0, wrap(ErrRead, err)
	}
	return b, nil
}

// Seek moves fd's cursor to offset, an absolute byte position. A negative
// offset fails with ErrBadFD; any non-negative offset is accepted even
// past end of file, with EOF enforced only at ReadByte.
func (fs *FS) Seek(fd int, offset int64) (int64, error) {
	entry, err := fs.getOpenEntry(fd)
	if err != nil {
		return -1, err
	}
	if offset < 0 {
		return -1, ErrBadFD
	}
	entry.cursor = uint32(offset)
	return offset, nil
}
