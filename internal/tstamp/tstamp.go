// Package tstamp formats and parses TinyFS's on-disk timestamp fields.
//
// Unlike a build-reproducibility timestamp helper, which would return the
// current instant in UTC honoring SOURCE_DATE_EPOCH, TinyFS's on-disk
// contract (ported from original_source/libTinyFS.c's getTimestamp) wants
// local time formatted "YYYY-MM-DD HH:MM:SS" with no override — timestamps
// here are visible file metadata, not a build artifact.
package tstamp

import "time"

// Layout is the on-disk timestamp format: a 19-character string that, once
// NUL-padded, fits in format.TimestampFieldLen bytes.
const Layout = "2006-01-02 15:04:05"

// Now renders the current local time in the on-disk layout.
func Now() string {
	return time.Now().Local().Format(Layout)
}

// Format renders t in the on-disk layout.
func Format(t time.Time) string {
	return t.Local().Format(Layout)
}

// Parse parses an on-disk timestamp string back into a time.Time in the
// local zone. It is used only by the demo/info path; the engine treats
// timestamps as opaque strings once written.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.Local)
}
