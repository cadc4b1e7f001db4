package disk

import "github.com/pkg/errors"

// Sentinel errors returned by package disk. The disk driver (package
// diskdriver) maps these onto the MSX-DOS CF/A error-code convention.
var (
	ErrInvalidSize    = errors.New("disk: image size must be 368640 or 737280 bytes")
	ErrInvalidSector  = errors.New("disk: sector out of range")
	ErrNoDisk         = errors.New("disk: no disk in drive")
	ErrWriteProtected = errors.New("disk: disk is write protected")
)
