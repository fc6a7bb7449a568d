package tinyfs

import (
	"github.com/nickambrose7/tinyfs/format"
	"github.com/nickambrose7/tinyfs/internal/tstamp"
)

// DeleteFile unlinks fd's inode from the inode chain, deallocates its
// entire data chain and its inode block, and frees fd's open-file-table
// slot. Ported from original_source/libTinyFS.c's tfs_deleteFile.
func (fs *FS) DeleteFile(fd int) error {
	entry, err := fs.getOpenEntry(fd)
	if err != nil {
		return err
	}
	store := fs.mounted.store
	target := entry.inode

	sb, err := store.ReadSuper()
	if err != nil {
		return wrap(ErrDelete, err)
	}
	in, err := store.ReadInode(target)
	if err != nil {
		return wrap(ErrDelete, err)
	}

	if sb.InodeHead == target {
		sb.InodeHead = in.Next
		if err := store.WriteSuper(sb); err != nil {
			return wrap(ErrDelete, err)
		}
	} else {
		cur := sb.InodeHead
		for cur != 0 {
			prev, err := store.ReadInode(cur)
			if err != nil {
				return wrap(ErrDelete, err)
			}
			if prev.Next == target {
				prev.Next = in.Next
				if err := store.WriteInode(cur, prev); err != nil {
					return wrap(ErrDelete, err)
				}
				break
			}
			cur = prev.Next
		}
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
	if err := store.Deallocate(target); err != nil {
		return wrap(ErrDealloc, err)
	}

	fs.mounted.openFiles[fd] = nil
	return nil
}

// Rename changes fd's on-disk name. Unlike OpenFile, an over-long name is
// rejected rather than truncated.
func (fs *FS) Rename(fd int, newName string) error {
	entry, err := fs.getOpenEntry(fd)
	if err != nil {
		return err
	}
	if _, err := format.EncodeName(newName); err != nil {
		return ErrRename
	}
	store := fs.mounted.store

	in, err := store.ReadInode(entry.inode)
	if err != nil {
		return wrap(ErrRename, err)
	}
	in.Name = newName
	in.Modified = tstamp.Now()
	if err := store.WriteInode(entry.inode, in); err != nil {
		return wrap(ErrRename, err)
	}
	return nil
}
