package disk

import "encoding/binary"

// DPB is the 18-byte Disk Parameter Block MSX-DOS's GETDPB call fills in.
// All multi-byte fields are little-endian.
type DPB struct {
	MediaDescriptor    uint8
	BytesPerSector     uint16
	SectorsPerCluster  uint8
	DirMask            uint8
	DirShift           uint8
	ClusterShift       uint8
	FirstFATSector     uint16
	NumFATs            uint8
	MaxRootDirEntries  uint8
	FirstDataSector    uint16
	MaxClusters        uint16
	SectorsPerFAT      uint8
	FirstRootDirSector uint16
}

// log2Floor returns floor(log2(n)) for n>0, used to derive the shift-count
// fields MSX-DOS's DPB stores instead of the raw counts.
func log2Floor(n int) uint8 {
	var shift uint8
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift
}

// DeriveDPB reads the BIOS Parameter Block embedded in a FAT12 boot sector
// and computes the corresponding DPB. bootSector must be at least 512
// bytes (Image.BootSector's return value).
func DeriveDPB(bootSector []byte) DPB {
	bytesPerSector := binary.LittleEndian.Uint16(bootSector[11:13])
	sectorsPerCluster := bootSector[13]
	reservedSectors := binary.LittleEndian.Uint16(bootSector[14:16])
	numFATs := bootSector[16]
	rootEntries := binary.LittleEndian.Uint16(bootSector[17:19])
	totalSectors := binary.LittleEndian.Uint16(bootSector[19:21])
	media := bootSector[21]
	sectorsPerFAT := binary.LittleEndian.Uint16(bootSector[22:24])

	if media < 0xF8 {
		media = 0xF9
	}
	if bytesPerSector == 0 {
		bytesPerSector = SectorSize
	}
	if sectorsPerCluster == 0 {
		sectorsPerCluster = 2
	}

	firstFATSector := reservedSectors
	firstRootDirSector := firstFATSector + uint16(numFATs)*sectorsPerFAT

	entriesPerSector := uint16(bytesPerSector) / 32
	rootDirSectors := (rootEntries + entriesPerSector - 1) / entriesPerSector
	firstDataSector := firstRootDirSector + rootDirSectors

	var maxClusters uint16
	if totalSectors > firstDataSector {
		dataSectors := totalSectors - firstDataSector
		maxClusters = dataSectors / uint16(sectorsPerCluster)
	}

	return DPB{
		MediaDescriptor:    media,
		BytesPerSector:     bytesPerSector,
		SectorsPerCluster:  sectorsPerCluster,
		DirMask:            uint8(entriesPerSector - 1),
		DirShift:           log2Floor(int(entriesPerSector)),
		ClusterShift:       log2Floor(int(sectorsPerCluster)),
		FirstFATSector:     firstFATSector,
		NumFATs:            numFATs,
		MaxRootDirEntries:  uint8(rootEntries),
		FirstDataSector:    firstDataSector,
		MaxClusters:        maxClusters,
		SectorsPerFAT:      uint8(sectorsPerFAT),
		FirstRootDirSector: firstRootDirSector,
	}
}

// Bytes marshals the DPB into the exact 18-byte on-wire layout GETDPB
// writes to the caller's buffer.
func (d DPB) Bytes() []byte {
	b := make([]byte, 18)
	b[0] = d.MediaDescriptor
	binary.LittleEndian.PutUint16(b[1:3], d.BytesPerSector)
	b[3] = d.SectorsPerCluster
	b[4] = d.DirMask
	b[5] = d.DirShift
	b[6] = d.ClusterShift
	binary.LittleEndian.PutUint16(b[7:9], d.FirstFATSector)
	b[9] = d.NumFATs
	b[10] = d.MaxRootDirEntries
	binary.LittleEndian.PutUint16(b[11:13], d.FirstDataSector)
	binary.LittleEndian.PutUint16(b[13:15], d.MaxClusters)
	b[15] = d.SectorsPerFAT
	binary.LittleEndian.PutUint16(b[16:18], d.FirstRootDirSector)
	return b
}
