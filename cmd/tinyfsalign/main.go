// Command tinyfsalign demonstrates why the on-disk block format never
// casts a byte slice to a pointer of a wider type: encoding/binary reads
// and writes the four bytes of a block-pointer field one at a time
// regardless of the slice's starting offset, so format fields that don't
// happen to fall on a 4-byte boundary are still read correctly.
//
// Adapted from original_source/testAllignment.c, which demonstrates the
// opposite: casting a misaligned char* to int* and reading through it is
// undefined behavior in C. A runnable illustration only, not something any
// correctness guarantee depends on.
package main

import (
	"encoding/binary"
	"fmt"
)

func main() {
	buf := make([]byte, 10)
	binary.LittleEndian.PutUint32(buf[1:5], 123)
	value := binary.LittleEndian.Uint32(buf[1:5])
	fmt.Printf("value written at a 1-byte offset, read back correctly: %d\n", value)
}
