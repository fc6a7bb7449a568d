package blockdevice

import (
	"time"

	times "gopkg.in/djherbis/times.v1"
)

// birthTime best-effort reports the backing file's OS birth time, when the
// host file system exposes one. It is a diagnostic enrichment only: no
// on-disk TinyFS invariant depends on it — the three in-volume timestamps
// are a separate, file-content-level concept from host file metadata.
func birthTime(h *handle) string {
	t, err := times.Stat(h.name)
	if err != nil || !t.HasBirthTime() {
		return ""
	}
	return t.BirthTime().UTC().Format(time.RFC3339)
}
