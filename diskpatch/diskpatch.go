// Package diskpatch locates a disk ROM's MSX-DOS BIOS jump table and
// rewrites its entries into CPU-extension traps, so the corresponding
// BIOS calls are serviced by package diskdriver instead of the ROM's own
// native floppy-controller code.
package diskpatch

// TrapIndex is the 0xEn byte diskdriver registers a handler under.
type TrapIndex uint8

// Jump-table entry -> trap index, in the order the table's first eight
// JP instructions appear.
var trapIndices = [8]TrapIndex{
	0xE0, // INIHRD/INIENV
	0xE2, // DRIVES
	0xE4, // DSKIO
	0xE5, // DSKCHG
	0xE6, // GETDPB
	0xE7, // CHOICE
	0xE8, // DSKFMT
	0xEA, // MTOFF
}

const (
	jpOpcode  = 0xC3
	retOpcode = 0xC9
	minRunLen = 8
	pageSize  = 0x4000
	entrySize = 3
)

// findJumpTable scans page (the first 16 KiB of the ROM image) byte by
// byte for the earliest offset starting a run of at least minRunLen
// consecutive "JP nn" (0xC3 lo hi) instructions, each entrySize bytes
// apart, and returns that offset. ok is false if no such run exists.
//
// The run must be checked starting from every byte offset, not just
// multiples of entrySize: a table's first entry can land at any
// alignment within the page, and striding by entrySize from byte 0 would
// only ever sample one of the three possible alignments.
func findJumpTable(page []byte) (offset int, ok bool) {
	for off := 0; off+entrySize <= len(page); off++ {
		if page[off] != jpOpcode {
			continue
		}
		run := 0
		for off+run*entrySize < len(page) && page[off+run*entrySize] == jpOpcode {
			run++
			if run >= minRunLen {
				return off, true
			}
		}
	}
	return 0, false
}

// page1Start is where a disk ROM's own code lives within the 64 KiB slot
// backing array the Machine constructs it in: slot 1 is detected as a
// disk ROM by the 'A','B' signature at absolute address 0x4000, and the
// whole driver jump table sits in that same page.
const page1Start = 0x4000

// Patch scans rom's page-1 region (0x4000..0x7FFF) for the BIOS jump table
// and rewrites its first eight entries to ED 0xEn C9 trap stubs. rom must
// be the full 64 KiB slot backing array (slot.ROM.Bytes()). It reports
// whether a table was found and patched.
func Patch(rom []byte) bool {
	if len(rom) < page1Start+pageSize {
		return false
	}
	page := rom[page1Start : page1Start+pageSize]

	offset, ok := findJumpTable(page)
	if !ok {
		return false
	}

	for i, trap := range trapIndices {
		entry := offset + i*entrySize
		if entry+2 >= len(page) {
			break
		}
		page[entry+0] = 0xED
		page[entry+1] = byte(trap)
		page[entry+2] = retOpcode
	}
	return true
}
