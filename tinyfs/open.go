package tinyfs

import (
	"github.com/nickambrose7/tinyfs/format"
	"github.com/nickambrose7/tinyfs/internal/tstamp"
)

// OpenFile opens name, creating it if it does not already exist, and
// returns a file descriptor for use with the other file operations.
// Re-opening a name that is already open fails with ErrOpen.
//
// name is truncated to fit the on-disk name field if it is too long,
// unlike Rename, which rejects an over-long name outright. Ported from
// original_source/libTinyFS.c's tfs_openFile.
func (fs *FS) OpenFile(name string) (int, error) {
	if fs.mounted == nil {
		return -1, ErrBadFD
	}
	name = format.TruncateName(name)
	store := fs.mounted.store

	sb, err := store.ReadSuper()
	if err != nil {
		return -1, wrap(ErrOpen, err)
	}

	cur := sb.InodeHead
	for cur != 0 {
		in, err := store.ReadInode(cur)
		if err != nil {
			return -1, wrap(ErrOpen, err)
		}
		if in.Name == name {
			if fs.mounted.slotForInode(cur) != -1 {
				return -1, ErrOpen
			}
			slot := fs.mounted.freeSlot()
			if slot == -1 {
				return -1, wrap(ErrOpen, errOpenTableFull)
			}
			in.Accessed = tstamp.Now()
			if err := store.WriteInode(cur, in); err != nil {
				return -1, wrap(ErrOpen, err)
			}
			fs.mounted.openFiles[slot] = &openFileEntry{inode: cur, cursor: 0}
			return slot, nil
		}
		cur = in.Next
	}

	slot := fs.mounted.freeSlot()
	if slot == -1 {
		return -1, wrap(ErrOpen, errOpenTableFull)
	}
	block, err := store.Allocate()
	if err != nil {
		return -1, wrap(ErrOpen, err)
	}
	now := tstamp.Now()
	in := format.Inode{
		Next:     sb.InodeHead,
		FileSize: 0,
		DataHead: 0,
		Name:     name,
		Created:  now,
		Modified: now,
		Accessed: now,
	}
	if err := store.WriteInode(block, in); err != nil {
		return -1, wrap(ErrOpen, err)
	}
	sb.InodeHead = block
	if err := store.WriteSuper(sb); err != nil {
		return -1, wrap(ErrOpen, err)
	}
	fs.mounted.openFiles[slot] = &openFileEntry{inode: block, cursor: 0}
	return slot, nil
}

// CloseFile closes fd. It validates only that fd refers to an open slot —
// it does not separately check that a disk is mounted, since an unmounted
// FS has no table for any fd to be valid against anyway.
func (fs *FS) CloseFile(fd int) error {
	if _, err := fs.getOpenEntry(fd); err != nil {
		return err
	}
	fs.mounted.openFiles[fd] = nil
	return nil
}
