//go:build linux

package blockdevice

import (
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/nickambrose7/tinyfs/backend"
)

// blksszGet is BLKSSZGET, the ioctl request that reads a block device's
// logical sector size. TinyFS never needs the sector size for anything
// (its own block size is fixed at BlockSize regardless of the host's), but
// a successful ioctl is a reliable, OS-native way to confirm that a
// backing name is a real block special file rather than a regular image
// file, which is worth a log line when it happens.
const blksszGet = 0x1268

// logBackingKind logs whether storage is a real block device or a regular
// file, purely for operator diagnostics. Any failure to determine this is
// silently ignored; the block device layer itself never distinguishes the
// two cases.
func logBackingKind(name string, storage backend.Storage) {
	info, err := storage.Stat()
	if err != nil {
		return
	}
	if info.Mode()&os.ModeDevice == 0 {
		return
	}
	osFile, err := storage.Sys()
	if err != nil {
		return
	}
	sz, err := unix.IoctlGetInt(int(osFile.Fd()), blksszGet)
	if err != nil {
		logrus.WithField("name", name).Debug("blockdevice: backing block device, sector size unavailable")
		return
	}
	logrus.WithFields(logrus.Fields{"name": name, "sector_size": sz}).Debug("blockdevice: backing block device")
}
