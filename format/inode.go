package format

import "bytes"

const (
	offInodeNext      = 2
	offInodeFileSize  = 6
	offInodeDataHead  = 10
	offInodeName      = 14
	offInodeCreated   = offInodeName + NameFieldLen                   // 23
	offInodeModified  = offInodeCreated + TimestampFieldLen           // 48
	offInodeAccessed  = offInodeModified + TimestampFieldLen          // 73
	inodeEncodedBytes = offInodeAccessed + TimestampFieldLen          // 98
)

// Inode is the typed view of a block describing one file: its position in
// the inode chain, its size, the head of its data chain, its name, and its
// three timestamps. The inode chain is TinyFS's flat root directory.
type Inode struct {
	// Next is the block index of the next inode, or 0 at the tail.
	Next uint32
	// FileSize is the file's size in bytes.
	FileSize uint32
	// DataHead is the block index of the first data extent, or 0 for an
	// empty file.
	DataHead uint32
	// Name is the NUL-terminated file name. It must be strictly shorter
	// than NameFieldLen.
	Name string
	// Created, Modified and Accessed are the three on-disk timestamp
	// fields, each exactly TimestampFieldLen bytes, NUL-padded ASCII.
	Created, Modified, Accessed string
}

func putTimestampField(b []byte, off int, s string) {
	field := b[off : off+TimestampFieldLen]
	for i := range field {
		field[i] = 0
	}
	copy(field, s)
}

func getTimestampField(b []byte, off int) string {
	field := b[off : off+TimestampFieldLen]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

// EncodeName validates and NUL-pads name into a NameFieldLen-byte field,
// failing if name does not fit including its terminating NUL.
func EncodeName(name string) ([NameFieldLen]byte, error) {
	var out [NameFieldLen]byte
	if len(name) >= NameFieldLen {
		return out, ErrNameTooLong
	}
	copy(out[:], name)
	return out, nil
}

// TruncateName truncates name, if necessary, to fit NUL-inclusive in
// NameFieldLen bytes. Unlike EncodeName, used by rename, open_file silently
// truncates an over-long name rather than failing.
func TruncateName(name string) string {
	if len(name) >= NameFieldLen {
		return name[:NameFieldLen-1]
	}
	return name
}

// Encode renders i as a BlockSize-byte block, header included.
func (i Inode) Encode() []byte {
	b := make([]byte, BlockSize)
	putHeader(b, KindInode)
	putUint32(b, offInodeNext, i.Next)
	putUint32(b, offInodeFileSize, i.FileSize)
	putUint32(b, offInodeDataHead, i.DataHead)
	nameField := b[offInodeName : offInodeName+NameFieldLen]
	copy(nameField, i.Name)
	putTimestampField(b, offInodeCreated, i.Created)
	putTimestampField(b, offInodeModified, i.Modified)
	putTimestampField(b, offInodeAccessed, i.Accessed)
	return b
}

// DecodeInode parses a raw block as an Inode, validating its header first.
func DecodeInode(b []byte) (Inode, error) {
	if err := checkHeader(b, KindInode); err != nil {
		return Inode{}, err
	}
	nameField := b[offInodeName : offInodeName+NameFieldLen]
	name := nameField
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return Inode{
		Next:     getUint32(b, offInodeNext),
		FileSize: getUint32(b, offInodeFileSize),
		DataHead: getUint32(b, offInodeDataHead),
		Name:     string(name),
		Created:  getTimestampField(b, offInodeCreated),
		Modified: getTimestampField(b, offInodeModified),
		Accessed: getTimestampField(b, offInodeAccessed),
	}, nil
}
