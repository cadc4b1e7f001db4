package bus

import (
	"testing"

	"github.com/fcoury/wasmsx/cpu"
	"github.com/fcoury/wasmsx/diskdrive"
	"github.com/fcoury/wasmsx/diskdriver"
	"github.com/fcoury/wasmsx/slot"
)

func TestPrimarySelectRoutesPagesToDistinctSlots(t *testing.T) {
	b := New()
	rom := slot.NewROM([]byte{0xAA})
	ram := slot.NewRAM()
	b.SetSlot(0, rom)
	b.SetSlot(1, ram)

	// Page 0 (0x0000-0x3FFF) -> slot 0, page 1 (0x4000-0x7FFF) -> slot 1.
	b.Out(portPPIA, 0x04)

	if got := b.Get(0x0000); got != 0xAA {
		t.Fatalf("expected page 0 to read from slot 0, got %#02x", got)
	}
	b.Set(0x4000, 0x55)
	if got := b.Get(0x4000); got != 0x55 {
		t.Fatalf("expected page 1 writes to land in slot 1's RAM, got %#02x", got)
	}
}

func TestVDPPortsRoundTripThroughBus(t *testing.T) {
	b := New()
	b.Out(0x99, 0x00) // address low
	b.Out(0x99, 0x40) // address high, write mode
	b.Out(0x98, 0x42)

	b.Out(0x99, 0x00)
	b.Out(0x99, 0x00) // read mode, same address
	if got := b.In(0x98); got != 0x42 {
		t.Fatalf("expected VRAM byte written through the bus to read back, got %#02x", got)
	}
}

func TestPSGAddressLatchRoutesDataPort(t *testing.T) {
	b := New()
	b.Out(0xA0, 0x07) // select mixer register
	b.Out(0xA1, 0x3F) // all channels disabled

	b.Out(0xA0, 0x07)
	if got := b.In(0xA2); got != 0x3F {
		t.Fatalf("expected mixer register readback, got %#02x", got)
	}
}

func TestPPIPortARoundTrips(t *testing.T) {
	b := New()
	b.Out(portPPIA, 0xA5)
	if got := b.In(portPPIA); got != 0xA5 {
		t.Fatalf("expected port A readback, got %#02x", got)
	}
}

func TestRegisterDiskDriverHandlesDrivesTrap(t *testing.T) {
	d := diskdriver.New(diskdrive.New())

	mem := &fakeBusMemory{}
	mem.data[0x8000] = 0xED
	mem.data[0x8001] = diskdriver.TrapDRIVES
	mem.data[0x8002] = 0xC9
	mem.Set(0xFFFE, 0x00)
	mem.Set(0xFFFF, 0x90)

	c := cpu.New(mem, &fakeBusIO{})
	RegisterDiskDriver(c, d)
	c.SetPC(0x8000)
	c.SetSP(0xFFFE)

	if _, err := c.Step(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Registers().L != diskdrive.DriveCount {
		t.Fatalf("expected DRIVES trap to set L=%d, got %d", diskdrive.DriveCount, c.Registers().L)
	}
	if c.PC() != 0x9000 {
		t.Fatalf("expected the emulated RET to land at 0x9000, got %#04x", c.PC())
	}
}

type fakeBusMemory struct {
	data [65536]uint8
}

func (m *fakeBusMemory) Get(addr uint16) uint8        { return m.data[addr] }
func (m *fakeBusMemory) Set(addr uint16, value uint8) { m.data[addr] = value }

type fakeBusIO struct{}

func (*fakeBusIO) In(port uint8) uint8         { return 0xFF }
func (*fakeBusIO) Out(port uint8, value uint8) {}
