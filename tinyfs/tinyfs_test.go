package tinyfs_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/nickambrose7/tinyfs/format"
	"github.com/nickambrose7/tinyfs/tinyfs"
)

func newVolume(t *testing.T, nBytes int) (*tinyfs.FS, string) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "d.img")
	fs := tinyfs.New()
	if err := fs.MkFS(name, nBytes); err != nil {
		t.Fatalf("MkFS: %v", err)
	}
	if _, err := fs.Mount(name); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return fs, name
}

func readN(t *testing.T, fs *tinyfs.FS, fd, n int) []byte {
	t.Helper()
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := fs.ReadByte(fd)
		if err != nil {
			t.Fatalf("ReadByte at %d: %v", i, err)
		}
		out[i] = b
	}
	return out
}

// superblockOf decodes the superblock of the currently mounted disk via
// fs's diagnostic raw-block accessor.
func superblockOf(t *testing.T, fs *tinyfs.FS) format.Superblock {
	t.Helper()
	buf, err := fs.DebugReadBlock(0)
	if err != nil {
		t.Fatalf("DebugReadBlock(0): %v", err)
	}
	sb, err := format.DecodeSuperblock(buf)
	if err != nil {
		t.Fatalf("DecodeSuperblock: %v", err)
	}
	return sb
}

// freeChainBlocks walks the free chain starting at head and returns every
// block index on it.
func freeChainBlocks(t *testing.T, fs *tinyfs.FS, head uint32) []uint32 {
	t.Helper()
	var out []uint32
	for cur := head; cur != 0; {
		out = append(out, cur)
		buf, err := fs.DebugReadBlock(int64(cur))
		if err != nil {
			t.Fatalf("DebugReadBlock(%d): %v", cur, err)
		}
		fb, err := format.DecodeFreeBlock(buf)
		if err != nil {
			t.Fatalf("DecodeFreeBlock(%d): %v", cur, err)
		}
		cur = fb.Next
	}
	return out
}

// inodeChainBlocks walks the inode chain starting at head, returning every
// inode block plus every data-extent block reachable from each inode's
// data chain.
func inodeChainBlocks(t *testing.T, fs *tinyfs.FS, head uint32) []uint32 {
	t.Helper()
	var out []uint32
	for cur := head; cur != 0; {
		out = append(out, cur)
		buf, err := fs.DebugReadBlock(int64(cur))
		if err != nil {
			t.Fatalf("DebugReadBlock(%d): %v", cur, err)
		}
		in, err := format.DecodeInode(buf)
		if err != nil {
			t.Fatalf("DecodeInode(%d): %v", cur, err)
		}
		for d := in.DataHead; d != 0; {
			out = append(out, d)
			dbuf, err := fs.DebugReadBlock(int64(d))
			if err != nil {
				t.Fatalf("DebugReadBlock(%d): %v", d, err)
			}
			de, err := format.DecodeDataExtent(dbuf)
			if err != nil {
				t.Fatalf("DecodeDataExtent(%d): %v", d, err)
			}
			d = de.Next
		}
		cur = in.Next
	}
	return out
}

// Creating, writing, and reading a short file immediately reproduces its
// bytes, and reading one byte past the end of the file fails.
func TestCreateWriteReadSmall(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("f1")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := fs.WriteFile(fd, []byte("Hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got := readN(t, fs, fd, 5)
	if string(got) != "Hello" {
		t.Fatalf("read = %q, want %q", got, "Hello")
	}
	if _, err := fs.ReadByte(fd); !errors.Is(err, tinyfs.ErrByteRead) {
		t.Fatalf("6th ReadByte = %v, want ErrByteRead", err)
	}
}

// Overwriting a file's content resets the read cursor to the start.
func TestOverwriteResetsCursor(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("f1")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := fs.WriteFile(fd, []byte("Hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := fs.WriteFile(fd, []byte("abc")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}
	got := readN(t, fs, fd, 3)
	if string(got) != "abc" {
		t.Fatalf("read = %q, want %q", got, "abc")
	}
	if _, err := fs.ReadByte(fd); !errors.Is(err, tinyfs.ErrByteRead) {
		t.Fatalf("4th ReadByte = %v, want ErrByteRead", err)
	}
}

// A write spanning more than one data-extent block is readable at any
// offset, and overwriting it with a shorter payload shrinks the file so
// reads past its new end fail.
func TestMultiBlockWrite(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("big")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	payload := make([]byte, 327)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := fs.WriteFile(fd, payload); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := fs.Seek(fd, 250); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	b, err := fs.ReadByte(fd)
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if b != payload[250] {
		t.Fatalf("byte at 250 = %d, want %d", b, payload[250])
	}

	if err := fs.WriteFile(fd, []byte("abc")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}
	if _, err := fs.Seek(fd, 5); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := fs.ReadByte(fd); !errors.Is(err, tinyfs.ErrByteRead) {
		t.Fatalf("ReadByte past EOF = %v, want ErrByteRead", err)
	}
}

// Opening a name that is already open fails, but opening it again succeeds
// once the first descriptor is closed.
func TestOpenTwiceFails(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd1, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := fs.OpenFile("x"); !errors.Is(err, tinyfs.ErrOpen) {
		t.Fatalf("second OpenFile = %v, want ErrOpen", err)
	}
	if err := fs.CloseFile(fd1); err != nil {
		t.Fatalf("CloseFile: %v", err)
	}
	if _, err := fs.OpenFile("x"); err != nil {
		t.Fatalf("OpenFile after close: %v", err)
	}
}

// Deleting a file and then opening the same name again creates a fresh,
// empty file rather than exposing leftover content.
func TestDeleteThenReCreate(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := fs.WriteFile(fd, []byte("data")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := fs.DeleteFile(fd); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	fd2, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile after delete: %v", err)
	}
	if _, err := fs.ReadByte(fd2); !errors.Is(err, tinyfs.ErrByteRead) {
		t.Fatalf("ReadByte on fresh file = %v, want ErrByteRead (size 0)", err)
	}
}

// Unmounting and remounting a volume preserves its inode list and every
// file's content.
func TestRemountPreservesState(t *testing.T) {
	fs, name := newVolume(t, 10240)
	fd, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := fs.WriteFile(fd, []byte("persisted")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := fs.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if _, err := fs.Mount(name); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	fd2, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile after remount: %v", err)
	}
	got := readN(t, fs, fd2, len("persisted"))
	if string(got) != "persisted" {
		t.Fatalf("content after remount = %q", got)
	}
}

// Closing a file descriptor frees its open-file-table slot for reuse by a
// different file.
func TestCloseFileFreesSlotForReuse(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("a")
	if err != nil {
		t.Fatalf("OpenFile a: %v", err)
	}
	if err := fs.CloseFile(fd); err != nil {
		t.Fatalf("CloseFile: %v", err)
	}
	fd2, err := fs.OpenFile("b")
	if err != nil {
		t.Fatalf("OpenFile b: %v", err)
	}
	if fd2 != fd {
		t.Fatalf("OpenFile b = fd %d, want the freed slot %d", fd2, fd)
	}
}

func TestCloseFileBadFD(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	if err := fs.CloseFile(0); !errors.Is(err, tinyfs.ErrBadFD) {
		t.Fatalf("CloseFile unopened fd = %v, want ErrBadFD", err)
	}
}

func TestSeekNegativeFails(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := fs.Seek(fd, -1); !errors.Is(err, tinyfs.ErrBadFD) {
		t.Fatalf("Seek(-1) = %v, want ErrBadFD", err)
	}
}

func TestRenameRoundTrip(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("n1")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := fs.Rename(fd, "n2"); err != nil {
		t.Fatalf("Rename to n2: %v", err)
	}
	if err := fs.Rename(fd, "n1"); err != nil {
		t.Fatalf("Rename back to n1: %v", err)
	}
	if _, err := fs.OpenFile("n1"); !errors.Is(err, tinyfs.ErrOpen) {
		t.Fatalf("OpenFile(n1) while fd still open on it = %v, want ErrOpen", err)
	}
}

func TestRenameRejectsOverLongName(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	fd, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := fs.Rename(fd, "waytoolongname"); !errors.Is(err, tinyfs.ErrRename) {
		t.Fatalf("Rename with over-long name = %v, want ErrRename", err)
	}
}

func TestOpenFileTruncatesOverLongName(t *testing.T) {
	fs, _ := newVolume(t, 10240)
	if _, err := fs.OpenFile("waytoolongname"); err != nil {
		t.Fatalf("OpenFile with over-long name: %v", err)
	}
	truncated := format.TruncateName("waytoolongname")
	if _, err := fs.OpenFile(truncated); !errors.Is(err, tinyfs.ErrOpen) {
		t.Fatalf("OpenFile(%q) while the over-long name is open = %v, want ErrOpen", truncated, err)
	}
}

// A volume mounted right after mkfs, and never otherwise modified, exposes
// zero inodes and exactly n/BlockSize-1 free blocks.
func TestMountFreshVolumeHasNoInodes(t *testing.T) {
	const nBytes = 10240
	fs, _ := newVolume(t, nBytes)

	sb := superblockOf(t, fs)
	if sb.InodeHead != 0 {
		t.Fatalf("InodeHead = %d, want 0 on a freshly formatted volume", sb.InodeHead)
	}

	free := freeChainBlocks(t, fs, sb.FreeHead)
	wantFree := nBytes/format.BlockSize - 1
	if len(free) != wantFree {
		t.Fatalf("free chain has %d blocks, want %d", len(free), wantFree)
	}
}

// The blocks reachable from the inode-head chain (inodes plus their data
// extents) and the blocks reachable from the free-head chain never
// overlap, and together they cover every block but the superblock.
func TestReachableBlockSetsPartitionDisk(t *testing.T) {
	const nBytes = 10240
	fs, _ := newVolume(t, nBytes)

	fd1, err := fs.OpenFile("a")
	if err != nil {
		t.Fatalf("OpenFile a: %v", err)
	}
	if err := fs.WriteFile(fd1, make([]byte, 327)); err != nil {
		t.Fatalf("WriteFile a: %v", err)
	}
	fd2, err := fs.OpenFile("b")
	if err != nil {
		t.Fatalf("OpenFile b: %v", err)
	}
	if err := fs.WriteFile(fd2, []byte("short")); err != nil {
		t.Fatalf("WriteFile b: %v", err)
	}
	if err := fs.DeleteFile(fd2); err != nil {
		t.Fatalf("DeleteFile b: %v", err)
	}

	sb := superblockOf(t, fs)
	inodeReachable := inodeChainBlocks(t, fs, sb.InodeHead)
	freeReachable := freeChainBlocks(t, fs, sb.FreeHead)

	seen := make(map[uint32]string)
	for _, b := range inodeReachable {
		seen[b] = "inode"
	}
	for _, b := range freeReachable {
		if owner, ok := seen[b]; ok {
			t.Fatalf("block %d reachable from both the inode chain and the free chain (already %s)", b, owner)
		}
		seen[b] = "free"
	}

	numBlocks := nBytes/format.BlockSize - 1
	for b := uint32(1); b <= uint32(numBlocks); b++ {
		if _, ok := seen[b]; !ok {
			t.Fatalf("block %d reachable from neither chain", b)
		}
	}
	if len(seen) != numBlocks {
		t.Fatalf("union of both chains has %d blocks, want %d", len(seen), numBlocks)
	}
}

// Deleting a file of size S reclaims exactly ceil(S/UsableData)+1 blocks
// (its data extents plus its inode block) back onto the free chain.
func TestDeleteFileReclaimsExactBlockCount(t *testing.T) {
	fs, _ := newVolume(t, 10240)

	fd, err := fs.OpenFile("x")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	payload := make([]byte, 327) // spans 2 data-extent blocks
	if err := fs.WriteFile(fd, payload); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	before := superblockOf(t, fs)
	freeBefore := len(freeChainBlocks(t, fs, before.FreeHead))

	if err := fs.DeleteFile(fd); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	after := superblockOf(t, fs)
	freeAfter := len(freeChainBlocks(t, fs, after.FreeHead))

	wantReclaimed := (len(payload)+format.UsableData-1)/format.UsableData + 1
	if got := freeAfter - freeBefore; got != wantReclaimed {
		t.Fatalf("DeleteFile reclaimed %d blocks, want %d", got, wantReclaimed)
	}
}

func TestUnmountWithoutMountFails(t *testing.T) {
	fs := tinyfs.New()
	if err := fs.Unmount(); !errors.Is(err, tinyfs.ErrUnmountFS) {
		t.Fatalf("Unmount with nothing mounted = %v, want ErrUnmountFS", err)
	}
}

func TestMountTwiceFails(t *testing.T) {
	fs, name := newVolume(t, 10240)
	if _, err := fs.Mount(name); !errors.Is(err, tinyfs.ErrMountFS) {
		t.Fatalf("second Mount = %v, want ErrMountFS", err)
	}
}

func TestMkFSRejectsUndersizedDisk(t *testing.T) {
	fs := tinyfs.New()
	name := filepath.Join(t.TempDir(), "d.img")
	if err := fs.MkFS(name, 256); !errors.Is(err, tinyfs.ErrCreateFS) {
		t.Fatalf("MkFS(256) = %v, want ErrCreateFS", err)
	}
}
