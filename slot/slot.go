// Package slot implements the storage backing a single MSX primary slot.
//
// A primary slot is addressed with the full 16-bit Z80 address; the Bus
// decides, per 16 KiB page, which of the four primary slots answers a given
// address (see package bus). Each slot here is therefore sized as a full
// 64 KiB address space, mirroring the way ROM and RAM images are shipped for
// real hardware: a 32 KiB BIOS ROM occupies the low half of its slot and the
// high half reads as open bus (0xFF), a 64 KiB RAM slot is fully writable.
package slot

// Slot is implemented by anything that can sit behind a primary-slot
// selector and answer reads/writes for the full 16-bit address space.
type Slot interface {
	// Read returns the byte at addr.
	Read(addr uint16) uint8

	// Write stores value at addr, if the slot is writable.
	Write(addr uint16, value uint8)
}

// Empty is a slot with nothing plugged in: reads return 0xFF, writes
// are discarded.
type Empty struct{}

// Read always returns 0xFF for an empty slot.
func (Empty) Read(addr uint16) uint8 { return 0xFF }

// Write is a no-op for an empty slot.
func (Empty) Write(addr uint16, value uint8) {}

// ROM is a read-only slot backed by up to 64 KiB of data. Bytes beyond the
// supplied image read as 0xFF, matching an unpopulated ROM chip.
type ROM struct {
	data [65536]uint8
}

// NewROM builds a ROM slot from the given image, padding the remainder of
// the 64 KiB address space with 0xFF.
func NewROM(image []uint8) *ROM {
	r := &ROM{}
	for i := range r.data {
		r.data[i] = 0xFF
	}
	copy(r.data[:], image)
	return r
}

// Read returns the ROM byte at addr.
func (r *ROM) Read(addr uint16) uint8 { return r.data[addr] }

// Write is a no-op: ROM is not writable by the CPU.
func (r *ROM) Write(addr uint16, value uint8) {}

// Bytes exposes the raw backing array so that the disk ROM patcher
// (package diskpatch) can rewrite jump-table entries in place at
// construction time, before the ROM is wired into the Bus.
func (r *ROM) Bytes() []uint8 { return r.data[:] }

// RAM is a fully read/write slot backed by 64 KiB, zero-initialized.
type RAM struct {
	data [65536]uint8
}

// NewRAM allocates a zero-filled RAM slot.
func NewRAM() *RAM {
	return &RAM{}
}

// Read returns the RAM byte at addr.
func (m *RAM) Read(addr uint16) uint8 { return m.data[addr] }

// Write stores value at addr.
func (m *RAM) Write(addr uint16, value uint8) { m.data[addr] = value }

// GetU16 returns the little-endian word at addr.
func (m *RAM) GetU16(addr uint16) uint16 {
	return uint16(m.Read(addr)) | uint16(m.Read(addr+1))<<8
}

// SetRange copies data into RAM starting at addr.
func (m *RAM) SetRange(addr uint16, data ...uint8) {
	for _, b := range data {
		m.data[addr] = b
		addr++
	}
}

// FillRange fills size bytes starting at addr with value.
func (m *RAM) FillRange(addr uint16, size int, value uint8) {
	for size > 0 {
		m.data[addr] = value
		addr++
		size--
	}
}

// GetRange returns a copy of size bytes starting at addr.
func (m *RAM) GetRange(addr uint16, size int) []uint8 {
	out := make([]uint8, 0, size)
	for size > 0 {
		out = append(out, m.data[addr])
		addr++
		size--
	}
	return out
}
