package tinyfs

import "fmt"

// ReadFileInfo writes a human-readable line describing fd's file — name,
// size, and its three timestamps — to the FS's configured output stream
// (os.Stdout by default). Grounded on original_source/libTinyFS.c's
// tfs_readFileInfo and SPEC_FULL.md's pinned field order/format.
func (fs *FS) ReadFileInfo(fd int) error {
	entry, err := fs.getOpenEntry(fd)
	if err != nil {
		return err
	}
	in, err := fs.mounted.store.ReadInode(entry.inode)
	if err != nil {
		return wrap(ErrRead, err)
	}
	_, err = fmt.Fprintf(fs.out, "%s size=%d created=%s modified=%s accessed=%s\n",
		in.Name, in.FileSize, in.Created, in.Modified, in.Accessed)
	return err
}

// ReadDir writes the name of every file currently in the inode chain to
// the FS's configured output stream, one per line, newest-first (the
// order the inode chain is walked in, since new inodes are always linked
// at the head). Grounded on original_source/libTinyFS.c's tfs_readdir.
func (fs *FS) ReadDir() error {
	if fs.mounted == nil {
		return ErrBadFD
	}
	store := fs.mounted.store
	sb, err := store.ReadSuper()
	if err != nil {
		return wrap(ErrRead, err)
	}
	cur := sb.InodeHead
	for cur != 0 {
		in, err := store.ReadInode(cur)
		if err != nil {
			return wrap(ErrRead, err)
		}
		if _, err := fmt.Fprintln(fs.out, in.Name); err != nil {
			return err
		}
		cur = in.Next
	}
	return nil
}
