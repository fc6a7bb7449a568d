package format

const (
	offSuperFreeHead     = 2
	offSuperInodeHead    = 6
	offSuperMaxOpenFiles = 10
)

// Superblock is the typed view of block 0: the free-chain head pointer,
// the inode-chain head pointer, and the open-file table capacity.
type Superblock struct {
	// FreeHead is the block index of the first free block, or 0 if the
	// volume is full.
	FreeHead uint32
	// InodeHead is the block index of the first inode, or 0 if no files
	// exist. The inode chain rooted here is TinyFS's (flat) root
	// directory.
	InodeHead uint32
	// MaxOpenFiles is the open-file table capacity, fixed at mkfs time.
	MaxOpenFiles uint32
}

// Encode renders s as a BlockSize-byte block, header included.
func (s Superblock) Encode() []byte {
	b := make([]byte, BlockSize)
	putHeader(b, KindSuper)
	putUint32(b, offSuperFreeHead, s.FreeHead)
	putUint32(b, offSuperInodeHead, s.InodeHead)
	putUint32(b, offSuperMaxOpenFiles, s.MaxOpenFiles)
	return b
}

// DecodeSuperblock parses a raw block as a Superblock, validating its
// header first.
func DecodeSuperblock(b []byte) (Superblock, error) {
	if err := checkHeader(b, KindSuper); err != nil {
		return Superblock{}, err
	}
	return Superblock{
		FreeHead:     getUint32(b, offSuperFreeHead),
		InodeHead:    getUint32(b, offSuperInodeHead),
		MaxOpenFiles: getUint32(b, offSuperMaxOpenFiles),
	}, nil
}
