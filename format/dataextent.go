package format

const offDataNext = 2
const offDataPayload = 6

// DataExtent is the typed view of one data block belonging to a file's
// content chain: a next-pointer followed by up to UsableData payload
// bytes.
type DataExtent struct {
	// Next is the block index of the next extent, or 0 at the tail.
	Next uint32
	// Payload is up to UsableData bytes of file content. Callers own the
	// slice; Encode copies at most UsableData bytes of it into the block.
	Payload []byte
}

// Encode renders d as a BlockSize-byte block, header included.
func (d DataExtent) Encode() []byte {
	b := make([]byte, BlockSize)
	putHeader(b, KindData)
	putUint32(b, offDataNext, d.Next)
	copy(b[offDataPayload:], d.Payload)
	return b
}

// DecodeDataExtent parses a raw block as a DataExtent, validating its
// header first. Payload always has length UsableData; callers that know
// how many of those bytes are meaningful (from the inode's file size) must
// trim it themselves.
func DecodeDataExtent(b []byte) (DataExtent, error) {
	if err := checkHeader(b, KindData); err != nil {
		return DataExtent{}, err
	}
	payload := make([]byte, UsableData)
	copy(payload, b[offDataPayload:])
	return DataExtent{
		Next:    getUint32(b, offDataNext),
		Payload: payload,
	}, nil
}
