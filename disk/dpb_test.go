package disk

import (
	"encoding/binary"
	"testing"
)

func build360BootSector(media uint8) []byte {
	b := make([]byte, SectorSize)
	binary.LittleEndian.PutUint16(b[11:13], 512) // bytes/sector
	b[13] = 2                                    // sectors/cluster
	binary.LittleEndian.PutUint16(b[14:16], 1)   // reserved sectors
	b[16] = 2                                    // number of FATs
	binary.LittleEndian.PutUint16(b[17:19], 112) // root entries
	binary.LittleEndian.PutUint16(b[19:21], 720) // total sectors
	b[21] = media
	binary.LittleEndian.PutUint16(b[22:24], 2) // sectors/FAT
	return b
}

func TestDeriveDPBComputesFirstDataSector(t *testing.T) {
	dpb := DeriveDPB(build360BootSector(0xF9))

	// first FAT sector = 1 (reserved), first root dir = 1 + 2*2 = 5,
	// root dir sectors = ceil(112*32/512) = 7, first data sector = 12.
	if dpb.FirstFATSector != 1 {
		t.Fatalf("expected first FAT sector 1, got %d", dpb.FirstFATSector)
	}
	if dpb.FirstRootDirSector != 5 {
		t.Fatalf("expected first root dir sector 5, got %d", dpb.FirstRootDirSector)
	}
	if dpb.FirstDataSector != 12 {
		t.Fatalf("expected first data sector 12, got %d", dpb.FirstDataSector)
	}
}

func TestDeriveDPBMediaDescriptorFallback(t *testing.T) {
	dpb := DeriveDPB(build360BootSector(0x00))
	if dpb.MediaDescriptor != 0xF9 {
		t.Fatalf("expected fallback media descriptor 0xF9, got %#02x", dpb.MediaDescriptor)
	}
}

func TestDPBBytesLayoutIs18Bytes(t *testing.T) {
	dpb := DeriveDPB(build360BootSector(0xF9))
	b := dpb.Bytes()
	if len(b) != 18 {
		t.Fatalf("expected 18-byte DPB encoding, got %d", len(b))
	}
	if b[0] != 0xF9 {
		t.Fatalf("expected byte 0 to be the media descriptor")
	}
}
