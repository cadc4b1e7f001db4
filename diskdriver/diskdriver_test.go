package diskdriver

import (
	"encoding/binary"
	"testing"

	"github.com/fcoury/wasmsx/disk"
	"github.com/fcoury/wasmsx/diskdrive"
)

type fakeMemory struct {
	data [65536]uint8
}

func (m *fakeMemory) Get(addr uint16) uint8        { return m.data[addr] }
func (m *fakeMemory) Set(addr uint16, value uint8) { m.data[addr] = value }

func bootSector360(media uint8) []byte {
	b := make([]byte, disk.SectorSize)
	binary.LittleEndian.PutUint16(b[11:13], 512)
	b[13] = 2
	binary.LittleEndian.PutUint16(b[14:16], 1)
	b[16] = 2
	binary.LittleEndian.PutUint16(b[17:19], 112)
	binary.LittleEndian.PutUint16(b[19:21], 720)
	b[21] = media
	binary.LittleEndian.PutUint16(b[22:24], 2)
	return b
}

func insertedDrives(t *testing.T) *diskdrive.Set {
	t.Helper()
	raw := make([]byte, disk.Size360KB)
	copy(raw, bootSector360(0xF9))
	img, err := disk.FromBytes(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := diskdrive.New()
	_ = s.Insert(0, img)
	return s
}

func TestDrivesReportsDriveCount(t *testing.T) {
	d := New(diskdrive.New())
	regs := &Registers{}
	_, handled := d.Handle(TrapDRIVES, regs, &fakeMemory{})
	if !handled || regs.L != diskdrive.DriveCount {
		t.Fatalf("expected L=%d, got %d (handled=%v)", diskdrive.DriveCount, regs.L, handled)
	}
}

func TestDskioReadTransfersThroughMemory(t *testing.T) {
	drives := insertedDrives(t)
	drives.Image(0)

	mem := &fakeMemory{}
	d := New(drives)

	regs := &Registers{A: 0, B: 1, C: 0xF9, D: 0, E: 10, H: 0x80, L: 0x00}
	// CF clear means read.
	d.Handle(TrapDSKIO, regs, mem)

	if regs.CF() {
		t.Fatalf("expected success (CF clear), got A=%d", regs.A)
	}
	if regs.B != 0 {
		t.Fatalf("expected B=0 on success")
	}
}

func TestDskioWriteThenReadRoundTrips(t *testing.T) {
	drives := insertedDrives(t)
	mem := &fakeMemory{}
	for i := 0; i < disk.SectorSize; i++ {
		mem.data[0x8000+i] = byte(i)
	}

	d := New(drives)
	writeRegs := &Registers{A: 0, B: 1, C: 0xF9, D: 0, E: 20, H: 0x80, L: 0x00, F: 0x01}
	d.Handle(TrapDSKIO, writeRegs, mem)
	if writeRegs.CF() {
		t.Fatalf("unexpected write failure, A=%d", writeRegs.A)
	}

	readMem := &fakeMemory{}
	readRegs := &Registers{A: 0, B: 1, C: 0xF9, D: 0, E: 20, H: 0x90, L: 0x00}
	d.Handle(TrapDSKIO, readRegs, readMem)
	if readMem.data[0x9000] != 0 || readMem.data[0x9001] != 1 {
		t.Fatalf("expected round-tripped sector bytes, got %d %d", readMem.data[0x9000], readMem.data[0x9001])
	}
}

func TestDskioNoDiskReturnsNotReady(t *testing.T) {
	d := New(diskdrive.New())
	regs := &Registers{A: 0, B: 1}
	d.Handle(TrapDSKIO, regs, &fakeMemory{})
	if !regs.CF() || regs.A != ErrNotReady {
		t.Fatalf("expected CF set and A=ErrNotReady, got CF=%v A=%d", regs.CF(), regs.A)
	}
}

func TestDskchgReportsChangedOnce(t *testing.T) {
	drives := insertedDrives(t)
	d := New(drives)

	regs := &Registers{A: 0}
	d.Handle(TrapDSKCHG, regs, &fakeMemory{})
	if regs.CF() || regs.B != 0xFF {
		t.Fatalf("expected changed (B=0xFF) on first check")
	}

	regs2 := &Registers{A: 0}
	d.Handle(TrapDSKCHG, regs2, &fakeMemory{})
	if regs2.CF() || regs2.B != 0x01 {
		t.Fatalf("expected unchanged (B=0x01) on second check")
	}
}

func TestGetdpbFillsBufferAndBC(t *testing.T) {
	drives := insertedDrives(t)
	d := New(drives)
	mem := &fakeMemory{}

	regs := &Registers{A: 0, H: 0xC0, L: 0x00}
	d.Handle(TrapGETDPB, regs, mem)

	if regs.CF() {
		t.Fatalf("unexpected GETDPB failure")
	}
	if mem.data[0xC000] != 0xF9 {
		t.Fatalf("expected media descriptor byte at start of DPB, got %#02x", mem.data[0xC000])
	}
	bc := uint16(regs.B)<<8 | uint16(regs.C)
	if bc != 5 {
		t.Fatalf("expected BC to carry the first root dir sector (5), got %d", bc)
	}
}

func TestMtoffTurnsOffBothMotors(t *testing.T) {
	drives := insertedDrives(t)
	_, _ = drives.ReadSectors(0, 0, 1)
	d := New(drives)

	d.Handle(TrapMTOFF, &Registers{}, &fakeMemory{})
	if drives.IsMotorOn(0) {
		t.Fatalf("expected MTOFF to turn off drive 0's motor")
	}
}

func TestUnknownTrapIsNotHandled(t *testing.T) {
	d := New(diskdrive.New())
	_, handled := d.Handle(0xFF, &Registers{}, &fakeMemory{})
	if handled {
		t.Fatalf("expected an unrecognised trap index to be reported unhandled")
	}
}
