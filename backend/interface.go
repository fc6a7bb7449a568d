// Package backend abstracts the host file that an emulated TinyFS disk is
// backed by, so that the block device layer never talks to *os.File
// directly.
package backend

import (
	"io"
	"io/fs"
	"os"
)

// Storage is the host-file side of an emulated disk. The block device layer
// reads and writes it at byte offsets derived from block indices and never
// needs anything else from the host file system.
type Storage interface {
	fs.File
	io.ReaderAt
	io.WriterAt
	io.Seeker
	io.Closer

	// Sys returns the underlying *os.File, when there is one, so the block
	// device layer can do OS-specific diagnostics (e.g. ioctl block-size
	// queries) without the rest of the package needing to know that.
	Sys() (*os.File, error)
}
