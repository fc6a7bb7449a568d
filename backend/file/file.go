// Package file implements backend.Storage on top of a plain host file,
// the only kind of backing storage TinyFS ever emulates a disk on top of.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nickambrose7/tinyfs/backend"
)

type hostFile struct {
	f *os.File
}

var _ backend.Storage = (*hostFile)(nil)

// OpenExisting opens an already-formatted backing file read/write. It fails
// if the file does not exist; callers are responsible for validating its
// length is a positive multiple of the block size.
func OpenExisting(pathName string) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass a backing file name")
	}
	if _, err := os.Stat(pathName); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("backing file %s does not exist", pathName)
	}
	f, err := os.OpenFile(pathName, os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not open backing file %s: %w", pathName, err)
	}
	return &hostFile{f: f}, nil
}

// CreateTruncated creates (or truncates) pathName and zero-fills it to
// exactly size bytes.
func CreateTruncated(pathName string, size int64) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass a backing file name")
	}
	if size <= 0 {
		return nil, errors.New("must pass a positive backing file size")
	}
	f, err := os.OpenFile(pathName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, fmt.Errorf("could not create backing file %s: %w", pathName, err)
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not size backing file %s to %d bytes: %w", pathName, size, err)
	}
	return &hostFile{f: f}, nil
}

func (h *hostFile) Stat() (fs.FileInfo, error)               { return h.f.Stat() }
func (h *hostFile) Read(b []byte) (int, error)                { return h.f.Read(b) }
func (h *hostFile) Close() error                              { return h.f.Close() }
func (h *hostFile) ReadAt(p []byte, off int64) (int, error)   { return h.f.ReadAt(p, off) }
func (h *hostFile) WriteAt(p []byte, off int64) (int, error)  { return h.f.WriteAt(p, off) }
func (h *hostFile) Seek(offset int64, whence int) (int64, error) {
	return h.f.Seek(offset, whence)
}

// Sys returns the underlying *os.File so the block device layer can run
// OS-specific diagnostics against its descriptor.
func (h *hostFile) Sys() (*os.File, error) { return h.f, nil }
