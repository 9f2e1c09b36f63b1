package rw

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

// decodeString trims b at the first NUL and decodes it as Windows-1252.
func decodeString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	for _, c := range b {
		if c >= 0x80 {
			out, err := charmap.Windows1252.NewDecoder().Bytes(b)
			if err != nil {
				return string(b)
			}
			return string(out)
		}
	}
	return string(b)
}
