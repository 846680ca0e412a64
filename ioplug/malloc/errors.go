package malloc

import "io"

var errUnexpectedEOF = io.ErrUnexpectedEOF
