package slot

import "testing"

func TestEmptySlot(t *testing.T) {
	var e Empty

	if e.Read(0x1234) != 0xFF {
		t.Fatalf("expected 0xFF from an empty slot")
	}

	e.Write(0x1234, 0x42)
	if e.Read(0x1234) != 0xFF {
		t.Fatalf("write to an empty slot should be discarded")
	}
}

func TestROMSlot(t *testing.T) {
	rom := NewROM([]uint8{0xAA, 0xBB, 0xCC})

	if rom.Read(0) != 0xAA || rom.Read(1) != 0xBB || rom.Read(2) != 0xCC {
		t.Fatalf("ROM did not preserve the supplied image")
	}

	// Unpopulated area reads as 0xFF.
	if rom.Read(3) != 0xFF {
		t.Fatalf("unpopulated ROM byte should read as 0xFF, got %#02x", rom.Read(3))
	}

	// Writes are discarded.
	rom.Write(0, 0x99)
	if rom.Read(0) != 0xAA {
		t.Fatalf("write to ROM should be discarded")
	}
}

func TestROMBytesIsMutableForPatcher(t *testing.T) {
	rom := NewROM([]uint8{0x00, 0x00, 0x00})

	b := rom.Bytes()
	b[1] = 0xED

	if rom.Read(1) != 0xED {
		t.Fatalf("Bytes() should expose the underlying storage for in-place patching")
	}
}

func TestRAMSlot(t *testing.T) {
	ram := NewRAM()

	// RAM.md: initial contents are zero, never 0xFF.
	if ram.Read(0x1234) != 0x00 {
		t.Fatalf("expected RAM to be zero-initialized, got %#02x", ram.Read(0x1234))
	}

	ram.Write(0x00, 0x01)
	ram.Write(0x01, 0x02)

	if ram.Read(0x00) != 0x01 || ram.Read(0x01) != 0x02 {
		t.Fatalf("read-after-write mismatch")
	}

	if ram.GetU16(0x00) != 0x0201 {
		t.Fatalf("GetU16 should be little-endian, got %#04x", ram.GetU16(0x00))
	}

	ram.FillRange(0x300, 0x00FF, 0xCD)
	for _, b := range ram.GetRange(0x300, 0x00FF) {
		if b != 0xCD {
			t.Fatalf("FillRange/GetRange mismatch")
		}
	}

	ram.SetRange(0x00, 0x11, 0x22, 0x33)
	if ram.Read(0x00) != 0x11 || ram.Read(0x01) != 0x22 || ram.Read(0x02) != 0x33 {
		t.Fatalf("SetRange mismatch")
	}
}
