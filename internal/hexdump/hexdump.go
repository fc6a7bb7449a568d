// Package hexdump is a thin debugging helper for inspecting raw TinyFS
// blocks, used only by the demo program — an external collaborator, not
// part of the core engine.
//
// Trimmed to the one mode the demo needs: fixed-width hex rows with an
// ASCII gutter.
package hexdump

import "fmt"

// Dump renders b as hex rows of bytesPerRow bytes each, with a trailing
// ASCII rendering of each row and an 8-hex-digit offset prefix.
func Dump(b []byte, bytesPerRow int) string {
	if bytesPerRow <= 0 {
		bytesPerRow = 16
	}
	var out string
	for row := 0; row*bytesPerRow < len(b); row++ {
		first := row * bytesPerRow
		last := first + bytesPerRow
		if last > len(b) {
			last = len(b)
		}
		line := fmt.Sprintf("%08x ", first)
		var ascii []byte
		for j := first; j < first+bytesPerRow; j++ {
			if j < last {
				line += fmt.Sprintf(" %02x", b[j])
				if b[j] < 32 || b[j] > 126 {
					ascii = append(ascii, '.')
				} else {
					ascii = append(ascii, b[j])
				}
			} else {
				line += "   "
			}
		}
		out += line + "  " + string(ascii) + "\n"
	}
	return out
}
