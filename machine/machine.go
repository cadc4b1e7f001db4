// Package machine is the orchestrator: it wires a Bus, a CPU, and a disk
// drive set together into the host-facing surface a frontend drives an
// emulation session through — ROM layout, a cycle-scheduled tick loop,
// VBlank interrupt delivery, and key/disk/audio entry points.
package machine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fcoury/wasmsx/bus"
	"github.com/fcoury/wasmsx/cpu"
	"github.com/fcoury/wasmsx/disk"
	"github.com/fcoury/wasmsx/diskdrive"
	"github.com/fcoury/wasmsx/diskdriver"
	"github.com/fcoury/wasmsx/diskpatch"
	"github.com/fcoury/wasmsx/slot"
	"github.com/fcoury/wasmsx/vdp"
)

// Sentinel errors for host-facing failures.
var (
	ErrInvalidROMSize  = errors.New("machine: ROM image must be at most 64 KiB")
	ErrInvalidDiskSize = errors.New("machine: disk image must be 360 KiB or 720 KiB")
	ErrDriveOutOfRange = errors.New("machine: drive index out of range")
	ErrNoDisk          = errors.New("machine: no disk inserted in drive")
)

// Primary slot indices.
const (
	slotBIOS = 0
	slotDisk = 1
	slotExt  = 2
	slotRAM  = 3
)

// romMaxSize is the largest image any ROM slot accepts.
const romMaxSize = 65536

// cpuHz is the Z80 clock rate, used to derive the VDP's 2x dot clock and
// the PSG's CPU/32 sample tick.
const cpuHz = 3579545

// CyclesPerFrame is the number of CPU T-states in one video frame
// (342 dots/line x 262 lines/frame, at 2 dots per CPU cycle).
const CyclesPerFrame = 342 * 262 / 2

// psgTickDivider is how many CPU cycles elapse per PSG tick. The real
// AY-3-8910 divides the host clock by 16 or 32 depending on wiring; this
// design picks /32, matching the PSG package's own GenerateSamples(n)
// contract of one sample per tick.
const psgTickDivider = 32

// SampleRate is the PSG's native sample rate in Hz (CPU/32, ~111.86 kHz),
// the rate GenerateAudioSamples produces output at.
const SampleRate = cpuHz / psgTickDivider

// Machine is the top-level emulator instance.
type Machine struct {
	Bus *bus.Bus
	CPU *cpu.CPU

	drives *diskdrive.Set
	driver *diskdriver.Driver

	log *slog.Logger

	psgCycleAcc int
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// WithLogger returns an option that makes New/NewWithDisk report runtime
// events to log instead of discarding them.
type Option func(*Machine)

// WithLogger installs log as the Machine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Machine) {
		if log != nil {
			m.log = log
		}
	}
}

// New constructs a Machine from a BIOS ROM image with no disk ROM
// installed (slot 1 stays empty).
func New(biosROM []byte, opts ...Option) (*Machine, error) {
	return newMachine(biosROM, nil, opts...)
}

// NewWithDisk constructs a Machine with both a BIOS ROM and a disk ROM. If
// the disk ROM's first two bytes at address 0x4000 are 'A','B', it is
// patched (package diskpatch) and the disk driver is registered as a set
// of CPU-extension traps.
func NewWithDisk(biosROM, diskROM []byte, opts ...Option) (*Machine, error) {
	return newMachine(biosROM, diskROM, opts...)
}

func newMachine(biosROM, diskROM []byte, opts ...Option) (*Machine, error) {
	if len(biosROM) == 0 || len(biosROM) > romMaxSize {
		return nil, ErrInvalidROMSize
	}
	if diskROM != nil && len(diskROM) > romMaxSize {
		return nil, ErrInvalidROMSize
	}

	m := &Machine{
		drives: diskdrive.New(),
		log:    discardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	b := bus.New()
	b.SetSlot(slotBIOS, slot.NewROM(biosROM))
	b.SetSlot(slotExt, slot.Empty{})
	b.SetSlot(slotRAM, slot.NewRAM())

	m.driver = diskdriver.New(m.drives)

	c := cpu.New(b, b)
	bus.RegisterDiskDriver(c, m.driver)

	if diskROM != nil {
		romSlot := slot.NewROM(diskROM)
		if isDiskROM(romSlot) {
			if diskpatch.Patch(romSlot.Bytes()) {
				m.log.Debug("patched disk ROM jump table")
			} else {
				m.log.Warn("disk ROM signature found but no jump table located")
			}
		}
		b.SetSlot(slotDisk, romSlot)
	} else {
		b.SetSlot(slotDisk, slot.Empty{})
	}

	m.Bus = b
	m.CPU = c
	m.reset()
	return m, nil
}

// isDiskROM reports whether slot's first two bytes at 0x4000 are the
// 'A','B' disk-ROM signature.
func isDiskROM(s *slot.ROM) bool {
	return s.Read(0x4000) == 'A' && s.Read(0x4001) == 'B'
}

func (m *Machine) reset() {
	m.CPU.Reset(0x0000)
	m.CPU.SetIFF1(false)
	m.CPU.SetSP(0xF000)
}

// Step executes exactly one CPU instruction (or serviced extension trap),
// advances the VDP by the cycles consumed, and delivers a VBlank
// interrupt if the VDP's interrupt line is asserted and IFF1=1. It
// returns the number of cycles consumed.
func (m *Machine) Step() int {
	cycles, err := m.CPU.Step(context.Background())
	if err != nil {
		return 0
	}

	m.Bus.VDP.Tick(cycles)
	m.tickPSG(cycles)

	if m.Bus.VDP.InterruptLine() && m.CPU.IFF1() {
		m.CPU.Interrupt()
	}

	return cycles
}

// StepFor executes CPU instructions until at least target cycles have
// been consumed.
func (m *Machine) StepFor(target int) {
	consumed := 0
	for consumed < target {
		c := m.Step()
		if c == 0 {
			c = 1 // guard against a stalled core making no progress
		}
		consumed += c
	}
}

func (m *Machine) tickPSG(cycles int) {
	m.psgCycleAcc += cycles
	ticks := m.psgCycleAcc / psgTickDivider
	if ticks == 0 {
		return
	}
	m.psgCycleAcc -= ticks * psgTickDivider
	m.Bus.PSG.GenerateSamples(ticks)
}

// Screen returns the VDP's rendered 256x192 palette-index screen buffer.
func (m *Machine) Screen() []uint8 {
	return m.Bus.VDP.Screen()
}

// GenerateAudioSamples produces n signed PCM samples at the PSG's native
// sample rate (CPU/32), safe to call from a host audio thread concurrently
// with Step/StepFor — the PSG guards its own state with a mutex.
func (m *Machine) GenerateAudioSamples(n int) []int16 {
	return m.Bus.PSG.GenerateSamples(n)
}

// KeyDown and KeyUp forward a host key event to the keyboard matrix.
func (m *Machine) KeyDown(code string) { m.Bus.PPI.Keyboard.KeyDown(code) }
func (m *Machine) KeyUp(code string)   { m.Bus.PPI.Keyboard.KeyUp(code) }

// InsertDisk wraps raw as a FAT12 image and inserts it into drive (0 or
// 1). It is safe to call between StepFor invocations only — disk images
// are CPU-thread-only state.
func (m *Machine) InsertDisk(drive int, raw []byte) error {
	img, err := disk.FromBytes(raw)
	if err != nil {
		return ErrInvalidDiskSize
	}
	if err := m.drives.Insert(drive, img); err != nil {
		return ErrDriveOutOfRange
	}
	return nil
}

// EjectDisk removes whatever disk is in drive, if any.
func (m *Machine) EjectDisk(drive int) error {
	if err := m.drives.Eject(drive); err != nil {
		return ErrDriveOutOfRange
	}
	return nil
}

// PC exposes the CPU's program counter for debugging.
func (m *Machine) PC() uint16 { return m.CPU.PC() }

// VRAM exposes a copy of the VDP's video RAM for debugging.
func (m *Machine) VRAM() []uint8 {
	out := make([]uint8, 0, 16384)
	for i := 0; i < 16384; i++ {
		out = append(out, m.Bus.VDP.ReadVRAM(uint16(i)))
	}
	return out
}

// DisplayMode exposes the VDP's currently decoded display mode.
func (m *Machine) DisplayMode() string {
	switch m.Bus.VDP.DisplayMode() {
	case vdp.Graphic1:
		return "graphic1"
	case vdp.Graphic2:
		return "graphic2"
	case vdp.Multicolor:
		return "multicolor"
	case vdp.Text:
		return "text"
	default:
		return "unknown"
	}
}
