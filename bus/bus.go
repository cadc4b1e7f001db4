// Package bus wires together the four MSX1 primary slots and the I/O-port
// mapped peripherals — VDP, PSG, PPI — into the single address space and
// port space a Z80 core reads and writes through.
//
// Slot paging works in 16 KiB pages: each of the four pages of the 16-bit
// address space independently names one of the four primary slots, as
// selected by the byte last written to PPI port A (0xA8). This design
// implements only primary slot selection — none of the four primary slots
// is itself further divided into secondary slots.
package bus

import (
	"github.com/fcoury/wasmsx/cpu"
	"github.com/fcoury/wasmsx/diskdriver"
	"github.com/fcoury/wasmsx/ppi"
	"github.com/fcoury/wasmsx/psg"
	"github.com/fcoury/wasmsx/slot"
	"github.com/fcoury/wasmsx/vdp"
)

// PageCount is the number of 16 KiB pages the 64 KiB address space is
// divided into for primary slot selection purposes.
const PageCount = 4

// PageSize is the size in bytes of one primary-slot page.
const PageSize = 0x4000

// VDP I/O ports.
const (
	portVDPData    = 0x98
	portVDPControl = 0x99
)

// PSG I/O ports: 0xA0 latches the register index, 0xA1 writes the latched
// register, 0xA2 reads it back.
const (
	portPSGAddress = 0xA0
	portPSGData    = 0xA1
	portPSGRead    = 0xA2
)

// PPI I/O ports.
const (
	portPPIA = 0xA8
	portPPIB = 0xA9
	portPPIC = 0xAA
	portPPID = 0xAB
)

// Bus owns the four primary slots, the slot-select register, and the
// three port-mapped peripherals.
type Bus struct {
	slots [PageCount]slot.Slot

	primarySelect uint8 // last byte PPI port A was told to select

	VDP *vdp.VDP
	PSG *psg.PSG
	PPI *ppi.PPI

	psgAddr uint8

	driver *diskdriver.Driver
}

// New returns a Bus with every page empty (an unpopulated slot reads
// 0xFF) and fresh VDP/PSG/PPI peripherals.
func New() *Bus {
	b := &Bus{
		VDP: vdp.New(),
		PSG: psg.New(),
		PPI: ppi.New(),
	}
	for i := range b.slots {
		b.slots[i] = slot.Empty{}
	}
	return b
}

// SetSlot plugs s into primary slot index (0..3).
func (b *Bus) SetSlot(index int, s slot.Slot) {
	b.slots[index] = s
}

// pageSlot returns the primary slot currently selected for addr's page.
func (b *Bus) pageSlot(addr uint16) slot.Slot {
	page := addr / PageSize
	index := (b.primarySelect >> (2 * page)) & 0x03
	return b.slots[index]
}

// Get implements the z80.Memory / cpu.Memory / diskdriver.Memory reads.
func (b *Bus) Get(addr uint16) uint8 {
	return b.pageSlot(addr).Read(addr)
}

// Set implements the z80.Memory / cpu.Memory / diskdriver.Memory writes.
func (b *Bus) Set(addr uint16, value uint8) {
	b.pageSlot(addr).Write(addr, value)
}

// In implements the z80.IO / cpu.IO port reads.
func (b *Bus) In(port uint8) uint8 {
	switch port {
	case portVDPData:
		return b.VDP.ReadData()
	case portVDPControl:
		return b.VDP.ReadStatus()
	case portPSGRead:
		return b.PSG.ReadRegister(int(b.psgAddr))
	case portPPIA:
		return b.PPI.ReadA()
	case portPPIB:
		return b.PPI.ReadB()
	case portPPIC:
		return b.PPI.ReadC()
	default:
		return 0xFF
	}
}

// Out implements the z80.IO / cpu.IO port writes.
func (b *Bus) Out(port uint8, value uint8) {
	switch port {
	case portVDPData:
		b.VDP.WriteData(value)
	case portVDPControl:
		b.VDP.WriteControl(value)
	case portPSGAddress:
		b.psgAddr = value & 0x0F
	case portPSGData:
		b.PSG.WriteRegister(int(b.psgAddr), value)
	case portPPIA:
		b.primarySelect = value
		b.PPI.WriteA(value)
	case portPPIB:
		// Port B is read-only on real hardware; writes are ignored.
	case portPPIC:
		b.PPI.WriteC(value)
	case portPPID:
		b.PPI.SetResetBit(value)
	}
}

// RegisterDiskDriver wires d's trap handlers into c as CPU extensions, one
// per trap index the driver handles: every index diskpatch.Patch writes
// into a disk ROM's jump table, plus DSKSTP, which Patch does not write.
func RegisterDiskDriver(c *cpu.CPU, d *diskdriver.Driver) {
	traps := []uint8{
		diskdriver.TrapINIHRD,
		diskdriver.TrapDRIVES,
		diskdriver.TrapDSKIO,
		diskdriver.TrapDSKCHG,
		diskdriver.TrapGETDPB,
		diskdriver.TrapCHOICE,
		diskdriver.TrapDSKFMT,
		diskdriver.TrapDSKSTP,
		diskdriver.TrapMTOFF,
	}
	for _, trap := range traps {
		t := trap
		c.RegisterExtension(t, func(regs *cpu.Registers, mem cpu.Memory) (int, bool) {
			dregs := &diskdriver.Registers{
				A: regs.A, B: regs.B, C: regs.C, D: regs.D,
				E: regs.E, H: regs.H, L: regs.L, F: regs.F,
			}
			cycles, handled := d.Handle(t, dregs, mem)
			if handled {
				regs.A, regs.B, regs.C, regs.D = dregs.A, dregs.B, dregs.C, dregs.D
				regs.E, regs.H, regs.L, regs.F = dregs.E, dregs.H, dregs.L, dregs.F
			}
			return cycles, handled
		})
	}
}
