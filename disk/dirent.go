package disk

import (
	"encoding/binary"
	"strings"
)

// DirEntrySize is the fixed size of one FAT12 root-directory entry.
const DirEntrySize = 32

// Attribute bits, FAT12 directory entry byte 11.
const (
	AttrReadOnly = 1 << 0
	AttrHidden   = 1 << 1
	AttrSystem   = 1 << 2
	AttrVolume   = 1 << 3
	AttrSubdir   = 1 << 4
	AttrArchive  = 1 << 5
)

// DirEntry is one 32-byte FAT12 directory entry: 8.3 name, attributes,
// first cluster, and file size.
type DirEntry struct {
	Name         [8]uint8
	Ext          [3]uint8
	Attr         uint8
	FirstCluster uint16
	Size         uint32
}

// Free reports whether this slot is unused (first byte 0x00) or deleted
// (first byte 0xE5) — both terminate/skip a directory scan.
func (e DirEntry) Free() bool {
	return e.Name[0] == 0x00 || e.Name[0] == 0xE5
}

// End reports whether this slot (and every slot after it) is unused,
// which is how MSX-DOS knows it has reached the end of the directory.
func (e DirEntry) End() bool {
	return e.Name[0] == 0x00
}

// FileName returns the 8.3 name joined as "NAME.EXT" (no extension ->
// just "NAME"), trimmed of the space padding FAT12 stores.
func (e DirEntry) FileName() string {
	name := strings.TrimRight(string(e.Name[:]), " ")
	ext := strings.TrimRight(string(e.Ext[:]), " ")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// ParseDirEntry decodes one 32-byte slot read from a directory sector.
func ParseDirEntry(b []byte) DirEntry {
	var e DirEntry
	copy(e.Name[:], b[0:8])
	copy(e.Ext[:], b[8:11])
	e.Attr = b[11]
	e.FirstCluster = binary.LittleEndian.Uint16(b[26:28])
	e.Size = binary.LittleEndian.Uint32(b[28:32])
	return e
}

// ParseDirSector decodes every 32-byte slot in a directory sector (or
// concatenation of sectors), stopping at the first End() entry.
func ParseDirSector(data []byte) []DirEntry {
	var entries []DirEntry
	for off := 0; off+DirEntrySize <= len(data); off += DirEntrySize {
		e := ParseDirEntry(data[off : off+DirEntrySize])
		if e.End() {
			break
		}
		if e.Free() {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// FindFile scans a disk's root directory for name (an "8.3" string such as
// "HELLO.TXT") and returns its directory entry, used by the DSKIO-adjacent
// "locate file" host tooling (not a BIOS trap itself — MSX-DOS's FILES
// logic walks the FAT from BASIC/DOS code, not through a VDP-era trap).
func FindFile(img *Image, dpb DPB, name string) (DirEntry, bool) {
	rootDirSectors := int(dpb.FirstDataSector - dpb.FirstRootDirSector)
	data, err := img.ReadSectors(int(dpb.FirstRootDirSector), rootDirSectors)
	if err != nil {
		return DirEntry{}, false
	}
	want := strings.ToUpper(name)
	for _, e := range ParseDirSector(data) {
		if e.Attr&AttrVolume != 0 {
			continue
		}
		if strings.ToUpper(e.FileName()) == want {
			return e, true
		}
	}
	return DirEntry{}, false
}
