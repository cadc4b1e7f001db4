// Package diskdriver implements the MSX-DOS BIOS disk call handlers a
// patched disk ROM's trap opcodes (package diskpatch) dispatch into:
// DSKIO, DSKCHG, GETDPB, DRIVES, and the assorted stubs.
package diskdriver

import (
	"github.com/fcoury/wasmsx/disk"
	"github.com/fcoury/wasmsx/diskdrive"
)

// Trap indices, matching package diskpatch's jump-table rewrite;
// TrapDSKSTP has no entry in that table.
const (
	TrapINIHRD = 0xE0
	TrapDRIVES = 0xE2
	TrapDSKIO  = 0xE4
	TrapDSKCHG = 0xE5
	TrapGETDPB = 0xE6
	TrapCHOICE = 0xE7
	TrapDSKFMT = 0xE8
	TrapDSKSTP = 0xE9
	TrapMTOFF  = 0xEA
)

// Error codes, per the MSX-DOS CF/A disk-error convention.
const (
	ErrWriteProtect   = 0x01
	ErrNotReady       = 0x02
	ErrDataError      = 0x04
	ErrRecordNotFound = 0x08
	ErrWriteFault     = 0x10
	ErrOther          = 0x12
)

// Registers is the CPU-state snapshot a trap handler reads its call
// arguments from and writes its results back to, named after the Z80
// register pair a real BIOS call would use.
type Registers struct {
	A, B, C, D, E, H, L, F uint8
}

// DE and HL read, and SetBC/SetHL write, the corresponding 16-bit pairs,
// high byte first as the Z80 stores them.
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetBC(v uint16) { r.B = uint8(v >> 8); r.C = uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H = uint8(v >> 8); r.L = uint8(v) }

// CF and SetCF read/write the Z80 carry flag (F bit 0), which this BIOS
// convention uses as the call's success/failure indicator.
func (r *Registers) CF() bool { return r.F&0x01 != 0 }
func (r *Registers) SetCF(v bool) {
	if v {
		r.F |= 0x01
	} else {
		r.F &^= 0x01
	}
}

// Memory is the bus-memory view a handler transfers sector data through,
// so DSKIO's transfers go through the same slot paging CPU instructions
// see.
type Memory interface {
	Get(addr uint16) uint8
	Set(addr uint16, value uint8)
}

// Driver owns the drive set every trap handler operates on.
type Driver struct {
	Drives *diskdrive.Set
}

// New returns a Driver wired to drives.
func New(drives *diskdrive.Set) *Driver {
	return &Driver{Drives: drives}
}

// Handle dispatches one CPU-extension trap. It returns the number of
// cycles to charge the caller (none of these calls have a timing-critical
// budget, so 0 throughout) and whether the trap index was recognised.
func (d *Driver) Handle(trap uint8, regs *Registers, mem Memory) (cycles int, handled bool) {
	switch trap {
	case TrapINIHRD:
		return 0, true
	case TrapDRIVES:
		regs.L = diskdrive.DriveCount
		return 0, true
	case TrapDSKIO:
		d.dskio(regs, mem)
		return 0, true
	case TrapDSKCHG:
		d.dskchg(regs)
		return 0, true
	case TrapGETDPB:
		d.getdpb(regs, mem)
		return 0, true
	case TrapCHOICE, TrapDSKFMT, TrapDSKSTP:
		return 0, true
	case TrapMTOFF:
		_ = d.Drives.MotorOff(0)
		_ = d.Drives.MotorOff(1)
		return 0, true
	default:
		return 0, false
	}
}

func (d *Driver) fail(regs *Registers, code uint8) {
	regs.SetCF(true)
	regs.A = code
}

func errorCode(err error) uint8 {
	switch err {
	case disk.ErrNoDisk:
		return ErrNotReady
	case disk.ErrInvalidSector:
		return ErrRecordNotFound
	case disk.ErrWriteProtected:
		return ErrWriteProtect
	default:
		return ErrOther
	}
}

// dskio implements the DSKIO trap: A=drive, B=sector count, C=media
// descriptor, DE=start logical sector, HL=buffer address, CF at entry
// distinguishes read (0) from write (1).
func (d *Driver) dskio(regs *Registers, mem Memory) {
	drive := int(regs.A)
	count := int(regs.B)
	start := int(regs.DE())
	addr := regs.HL()
	write := regs.CF()

	if write {
		data := make([]byte, count*disk.SectorSize)
		a := addr
		for i := range data {
			data[i] = mem.Get(a)
			a++
		}
		if err := d.Drives.WriteSectors(drive, start, count, data); err != nil {
			d.fail(regs, errorCode(err))
			return
		}
	} else {
		data, err := d.Drives.ReadSectors(drive, start, count)
		if err != nil {
			d.fail(regs, errorCode(err))
			return
		}
		a := addr
		for _, b := range data {
			mem.Set(a, b)
			a++
		}
	}

	regs.SetCF(false)
	regs.B = 0
}

// dskchg implements the DSKCHG trap: A=drive.
func (d *Driver) dskchg(regs *Registers) {
	drive := int(regs.A)
	if !d.Drives.HasDisk(drive) {
		d.fail(regs, ErrNotReady)
		return
	}

	changed, err := d.Drives.Changed(drive)
	if err != nil {
		d.fail(regs, ErrOther)
		return
	}

	regs.SetCF(false)
	if changed {
		regs.B = 0xFF
	} else {
		regs.B = 0x01
	}
}

// getdpb implements the GETDPB trap: A=drive, HL=buffer for the 18-byte
// DPB; BC is also set to the first directory sector on return.
func (d *Driver) getdpb(regs *Registers, mem Memory) {
	drive := int(regs.A)
	img := d.Drives.Image(drive)
	if img == nil {
		d.fail(regs, ErrNotReady)
		return
	}

	dpb := disk.DeriveDPB(img.BootSector())
	b := dpb.Bytes()

	addr := regs.HL()
	for _, v := range b {
		mem.Set(addr, v)
		addr++
	}

	regs.SetBC(dpb.FirstRootDirSector)
	regs.SetCF(false)
}
