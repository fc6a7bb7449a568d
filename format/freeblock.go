package format

const offFreeNext = 2

// FreeBlock is the typed view of a block on the free chain: just a
// next-pointer. The remainder of the block is unused.
type FreeBlock struct {
	// Next is the block index of the next free block, or 0 at the tail.
	Next uint32
}

// Encode renders f as a BlockSize-byte block, header included.
func (f FreeBlock) Encode() []byte {
	b := make([]byte, BlockSize)
	putHeader(b, KindFree)
	putUint32(b, offFreeNext, f.Next)
	return b
}

// DecodeFreeBlock parses a raw block as a FreeBlock, validating its header
// first.
func DecodeFreeBlock(b []byte) (FreeBlock, error) {
	if err := checkHeader(b, KindFree); err != nil {
		return FreeBlock{}, err
	}
	return FreeBlock{Next: getUint32(b, offFreeNext)}, nil
}
