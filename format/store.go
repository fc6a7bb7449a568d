package format

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nickambrose7/tinyfs/blockdevice"
)

// Store binds a block device and a disk number together and gives the
// rest of TinyFS typed access to that disk's superblock, inode chain, free
// chain and data chain — never raw byte offsets.
type Store struct {
	dev  *blockdevice.Device
	disk int
}

// NewStore returns a Store for the given already-open disk.
func NewStore(dev *blockdevice.Device, disk int) *Store {
	return &Store{dev: dev, disk: disk}
}

// ReadSuper reads and decodes the superblock.
func (s *Store) ReadSuper() (Superblock, error) {
	buf := make([]byte, BlockSize)
	if err := s.dev.ReadBlock(s.disk, SuperBlockIndex, buf); err != nil {
		return Superblock{}, fmt.Errorf("format: read superblock: %w", err)
	}
	return DecodeSuperblock(buf)
}

// WriteSuper encodes and writes the superblock.
func (s *Store) WriteSuper(sb Superblock) error {
	if err := s.dev.WriteBlock(s.disk, SuperBlockIndex, sb.Encode()); err != nil {
		return fmt.Errorf("format: write superblock: %w", err)
	}
	return nil
}

// ReadInode reads and decodes the inode at block b.
func (s *Store) ReadInode(b uint32) (Inode, error) {
	buf := make([]byte, BlockSize)
	if err := s.dev.ReadBlock(s.disk, int64(b), buf); err != nil {
		return Inode{}, fmt.Errorf("format: read inode %d: %w", b, err)
	}
	return DecodeInode(buf)
}

// WriteInode encodes and writes an inode at block b.
func (s *Store) WriteInode(b uint32, in Inode) error {
	if err := s.dev.WriteBlock(s.disk, int64(b), in.Encode()); err != nil {
		return fmt.Errorf("format: write inode %d: %w", b, err)
	}
	return nil
}

// ReadFree reads and decodes the free block at block b.
func (s *Store) ReadFree(b uint32) (FreeBlock, error) {
	buf := make([]byte, BlockSize)
	if err := s.dev.ReadBlock(s.disk, int64(b), buf); err != nil {
		return FreeBlock{}, fmt.Errorf("format: read free block %d: %w", b, err)
	}
	return DecodeFreeBlock(buf)
}

// ReadData reads and decodes the data extent at block b.
func (s *Store) ReadData(b uint32) (DataExtent, error) {
	buf := make([]byte, BlockSize)
	if err := s.dev.ReadBlock(s.disk, int64(b), buf); err != nil {
		return DataExtent{}, fmt.Errorf("format: read data block %d: %w", b, err)
	}
	return DecodeDataExtent(buf)
}

// WriteData encodes and writes a data extent at block b.
func (s *Store) WriteData(b uint32, d DataExtent) error {
	if err := s.dev.WriteBlock(s.disk, int64(b), d.Encode()); err != nil {
		return fmt.Errorf("format: write data block %d: %w", b, err)
	}
	return nil
}

// Allocate unlinks and returns the head of the free chain. The caller owns
// rewriting the returned block with its new kind and contents; Allocate
// only updates the superblock's free-chain head.
func (s *Store) Allocate() (uint32, error) {
	sb, err := s.ReadSuper()
	if err != nil {
		return 0, err
	}
	if sb.FreeHead == 0 {
		return 0, ErrNoSpace
	}
	head := sb.FreeHead
	fb, err := s.ReadFree(head)
	if err != nil {
		return 0, fmt.Errorf("format: allocate: %w", err)
	}
	sb.FreeHead = fb.Next
	if err := s.WriteSuper(sb); err != nil {
		return 0, fmt.Errorf("format: allocate: %w", err)
	}
	logrus.WithField("block", head).Debug("format: allocated block")
	return head, nil
}

// Deallocate zeroes block b, marks it free, and pushes it onto the front
// of the free chain. The target block is written before the superblock so
// a crash never leaves the free-head pointing at a block whose header has
// not yet been rewritten.
func (s *Store) Deallocate(b uint32) error {
	sb, err := s.ReadSuper()
	if err != nil {
		return err
	}
	fb := FreeBlock{Next: sb.FreeHead}
	if err := s.dev.WriteBlock(s.disk, int64(b), fb.Encode()); err != nil {
		return fmt.Errorf("format: deallocate %d: %w", b, err)
	}
	sb.FreeHead = b
	if err := s.WriteSuper(sb); err != nil {
		return fmt.Errorf("format: deallocate %d: %w", b, err)
	}
	logrus.WithField("block", b).Debug("format: deallocated block")
	return nil
}

// FormatVolume writes a fresh superblock and free chain spanning blocks
// 1..numBlocks.
func FormatVolume(dev *blockdevice.Device, disk int, numBlocks uint32, maxOpenFiles uint32) error {
	s := NewStore(dev, disk)
	sb := Superblock{FreeHead: 1, InodeHead: 0, MaxOpenFiles: maxOpenFiles}
	if err := s.WriteSuper(sb); err != nil {
		return err
	}
	for i := uint32(1); i <= numBlocks; i++ {
		next := uint32(0)
		if i < numBlocks {
			next = i + 1
		}
		fb := FreeBlock{Next: next}
		if err := dev.WriteBlock(disk, int64(i), fb.Encode()); err != nil {
			return fmt.Errorf("format: mkfs: write free block %d: %w", i, err)
		}
	}
	return nil
}
