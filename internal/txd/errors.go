package txd

import "errors"

// ErrUnsupportedCompression is returned for compression codes other than 0, 1 and 3.
var ErrUnsupportedCompression = errors.New("txd: unsupported compression")
