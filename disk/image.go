// Package disk implements the FAT12 floppy disk image format an MSX-DOS
// BIOS expects: raw 360 KiB/720 KiB sector images, a boot-sector BPB, and
// the directory entries the BIOS's FILES-style calls walk.
package disk

import "github.com/pkg/errors"

// SectorSize is the fixed physical sector size MSX-DOS floppies use.
const SectorSize = 512

// Recognised image sizes: 360 KB single-sided, 720 KB double-sided.
const (
	Size360KB = 368640
	Size720KB = 737280
)

// Image is a whole-disk image addressed by flat logical sector number —
// no interleave, no head/cylinder translation.
type Image struct {
	data     []uint8
	readOnly bool
}

// FromBytes validates data's length and wraps it as an Image. The slice is
// retained, not copied: writes through WriteSectors mutate the caller's
// backing array, which lets a host map a file directly.
func FromBytes(data []byte) (*Image, error) {
	switch len(data) {
	case Size360KB, Size720KB:
	default:
		return nil, errors.Wrapf(ErrInvalidSize, "got %d bytes", len(data))
	}
	return &Image{data: data}, nil
}

// SectorCount returns the number of 512-byte sectors in the image.
func (img *Image) SectorCount() int { return len(img.data) / SectorSize }

// SetReadOnly marks the image write-protected; WriteSectors will then fail
// with ErrWriteProtected.
func (img *Image) SetReadOnly(ro bool) { img.readOnly = ro }

// ReadOnly reports the image's write-protect state.
func (img *Image) ReadOnly() bool { return img.readOnly }

func (img *Image) bounds(start, count int) (int, int, error) {
	if start < 0 || count < 0 || start+count > img.SectorCount() {
		return 0, 0, ErrInvalidSector
	}
	from := start * SectorSize
	to := from + count*SectorSize
	return from, to, nil
}

// ReadSectors returns a copy of count sectors starting at logical sector
// start.
func (img *Image) ReadSectors(start, count int) ([]byte, error) {
	from, to, err := img.bounds(start, count)
	if err != nil {
		return nil, err
	}
	out := make([]byte, to-from)
	copy(out, img.data[from:to])
	return out, nil
}

// WriteSectors overwrites count sectors starting at logical sector start
// with data, which must be exactly count*SectorSize bytes.
func (img *Image) WriteSectors(start, count int, data []byte) error {
	if img.readOnly {
		return ErrWriteProtected
	}
	from, to, err := img.bounds(start, count)
	if err != nil {
		return err
	}
	if len(data) != to-from {
		return errors.Errorf("disk: write of %d bytes does not match %d requested sectors", len(data), count)
	}
	copy(img.data[from:to], data)
	return nil
}

// BootSector returns the 512-byte boot sector (logical sector 0), which
// carries the BIOS Parameter Block GETDPB derives a DPB from.
func (img *Image) BootSector() []byte {
	return img.data[0:SectorSize]
}
