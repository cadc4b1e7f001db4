// Package diskdrive implements the two-drive floppy set a DSKIO/DSKCHG
// trap handler talks to: one optional inserted image per drive, a
// disk-change flipflop, and motor state.
package diskdrive

import (
	"sync"
	"time"

	"github.com/fcoury/wasmsx/disk"
)

// DriveCount is the number of floppy drives this design models (A: and B:).
const DriveCount = 2

var errDriveRange = errDriveOutOfRange{}

type errDriveOutOfRange struct{}

func (errDriveOutOfRange) Error() string { return "diskdrive: drive index out of range" }

type drive struct {
	image        *disk.Image
	changed      bool
	motorOn      bool
	motorOffTime time.Time
	hasTimer     bool
}

// Set holds every drive's state behind a single mutex: contention between
// the CPU thread's disk traps and the host's insert/eject calls is
// trivially low, so one exclusive lock around drive operations is enough.
type Set struct {
	mu     sync.Mutex
	drives [DriveCount]drive
}

// New returns a drive set with no disks inserted.
func New() *Set {
	return &Set{}
}

func (s *Set) checkRange(index int) error {
	if index < 0 || index >= DriveCount {
		return errDriveRange
	}
	return nil
}

// Insert places img in drive index, setting its disk-change flipflop.
func (s *Set) Insert(index int, img *disk.Image) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drives[index].image = img
	s.drives[index].changed = true
	return nil
}

// Eject removes whatever image is in drive index, if any.
func (s *Set) Eject(index int) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drives[index].image = nil
	s.drives[index].changed = false
	s.drives[index].motorOn = false
	return nil
}

// HasDisk reports whether drive index currently has an image inserted.
func (s *Set) HasDisk(index int) bool {
	if err := s.checkRange(index); err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drives[index].image != nil
}

// Image returns the image currently in drive index, or nil.
func (s *Set) Image(index int) *disk.Image {
	if err := s.checkRange(index); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drives[index].image
}

// Changed reports and clears the disk-change flipflop: the first call
// after an insert returns true, every subsequent call returns false until
// the next insert, matching DSKCHG's BIOS contract.
func (s *Set) Changed(index int) (bool, error) {
	if err := s.checkRange(index); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.drives[index].changed
	s.drives[index].changed = false
	return changed, nil
}

// MotorOn turns a drive's motor on and cancels any pending motor-off timer.
func (s *Set) MotorOn(index int) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drives[index].motorOn = true
	s.drives[index].hasTimer = false
	return nil
}

// MotorOff schedules drive index's motor to switch off, recording the time
// it was requested; the BIOS's MTOFF call polls this on next disk access
// rather than the emulator running a real background timer.
func (s *Set) MotorOff(index int) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drives[index].motorOn = false
	s.drives[index].motorOffTime = time.Now()
	s.drives[index].hasTimer = true
	return nil
}

// IsMotorOn reports a drive's current motor state.
func (s *Set) IsMotorOn(index int) bool {
	if err := s.checkRange(index); err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drives[index].motorOn
}

// ReadSectors reads through drive index's inserted image, turning its
// motor on first.
func (s *Set) ReadSectors(index, start, count int) ([]byte, error) {
	if err := s.checkRange(index); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &s.drives[index]
	d.motorOn = true
	d.hasTimer = false
	if d.image == nil {
		return nil, disk.ErrNoDisk
	}
	return d.image.ReadSectors(start, count)
}

// WriteSectors writes through drive index's inserted image, turning its
// motor on first.
func (s *Set) WriteSectors(index, start, count int, data []byte) error {
	if err := s.checkRange(index); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &s.drives[index]
	d.motorOn = true
	d.hasTimer = false
	if d.image == nil {
		return disk.ErrNoDisk
	}
	return d.image.WriteSectors(start, count, data)
}
