//go:build !linux

package blockdevice

import "github.com/nickambrose7/tinyfs/backend"

// logBackingKind is a no-op off Linux: the BLKSSZGET ioctl used to detect a
// real block special file is Linux-specific, and TinyFS's behavior never
// depends on the distinction — the backing name is always treated purely
// as a host file.
func logBackingKind(name string, storage backend.Storage) {}
