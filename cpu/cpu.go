// Package cpu wraps github.com/koron-go/z80's Z80 core with the one piece
// of behaviour this design needs that the bare core doesn't offer: a way
// for a patched disk ROM's "ED 0xEn C9" trap stubs (package diskpatch) to
// be serviced by Go code instead of executed as Z80 opcodes.
//
// A trap is recognised before it is ever fetched: Step peeks at the byte
// at PC, and if it is 0xED followed by a registered extension index, it
// runs the matching handler and then performs the trailing RET itself —
// popping the return address off the stack exactly as the "C9" byte the
// patcher left in place would have, without the core ever decoding it.
package cpu

import (
	"context"

	"github.com/koron-go/z80"
)

// Memory is the address-space view the Z80 core reads and writes through;
// package bus implements it (and also satisfies z80.Memory directly).
type Memory interface {
	Get(addr uint16) uint8
	Set(addr uint16, value uint8)
}

// IO is the port address space; package bus implements it.
type IO interface {
	In(port uint8) uint8
	Out(port uint8, value uint8)
}

// Registers is a snapshot of the general-purpose registers an extension
// handler reads its call arguments from and writes results to.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
}

// ExtensionHandler services one ED-prefixed trap. It returns the number
// of cycles to charge and whether the trap index was recognised. The
// trailing RET is emulated only for a handled trap; an unhandled one falls
// through to the core, which decodes the bytes at PC itself.
type ExtensionHandler func(regs *Registers, mem Memory) (cycles int, handled bool)

// CPU wraps the Z80 core plus the extension-trap registry.
type CPU struct {
	core       z80.CPU
	extensions map[uint8]ExtensionHandler
}

// New returns a CPU with PC at 0 and no extension handlers registered.
func New(mem Memory, io IO) *CPU {
	c := &CPU{extensions: map[uint8]ExtensionHandler{}}
	c.core.Memory = mem
	c.core.IO = io
	return c
}

// Reset reinitialises every register to power-on defaults (all zero) with
// PC set to pc and IFF1 cleared, matching the Machine's CPU reset
// contract.
func (c *CPU) Reset(pc uint16) {
	mem, io := c.core.Memory, c.core.IO
	c.core = z80.CPU{
		States: z80.States{
			SPR: z80.SPR{PC: pc},
		},
		Memory: mem,
		IO:     io,
	}
}

// RegisterExtension installs h as the handler for ED-prefixed trap index
// trap (0xE0..0xEF).
func (c *CPU) RegisterExtension(trap uint8, h ExtensionHandler) {
	c.extensions[trap] = h
}

// PC and SP read the program counter and stack pointer.
func (c *CPU) PC() uint16 { return c.core.PC }
func (c *CPU) SP() uint16 { return c.core.SP }

// SetPC and SetSP write the program counter and stack pointer directly,
// used by the Machine to set up the boot vector and initial stack.
func (c *CPU) SetPC(pc uint16) { c.core.PC = pc }
func (c *CPU) SetSP(sp uint16) { c.core.SP = sp }

// Registers snapshots the general-purpose register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A: c.core.States.AF.Hi, F: c.core.States.AF.Lo,
		B: c.core.States.BC.Hi, C: c.core.States.BC.Lo,
		D: c.core.States.DE.Hi, E: c.core.States.DE.Lo,
		H: c.core.States.HL.Hi, L: c.core.States.HL.Lo,
	}
}

// SetRegisters writes back a register snapshot, e.g. after an extension
// handler updates its call-result registers.
func (c *CPU) SetRegisters(r Registers) {
	c.core.States.AF.Hi, c.core.States.AF.Lo = r.A, r.F
	c.core.States.BC.Hi, c.core.States.BC.Lo = r.B, r.C
	c.core.States.DE.Hi, c.core.States.DE.Lo = r.D, r.E
	c.core.States.HL.Hi, c.core.States.HL.Lo = r.H, r.L
}

// IFF1 reports the CPU's maskable-interrupt enable flag.
func (c *CPU) IFF1() bool { return c.core.IFF1 }

// SetIFF1 sets the maskable-interrupt enable flag, used on reset.
func (c *CPU) SetIFF1(v bool) { c.core.IFF1 = v }

func (c *CPU) popReturnAddress() uint16 {
	lo := uint16(c.core.Memory.Get(c.core.SP))
	hi := uint16(c.core.Memory.Get(c.core.SP + 1))
	c.core.SP += 2
	return hi<<8 | lo
}

// Step executes a single instruction, or — if PC points at a registered
// extension trap — services the trap and emulates its trailing RET
// instead. It returns the number of T-states consumed.
//
// The core's Step only reports whether the instruction executed, not how
// long it took, so the cycle count charged to the VDP and PSG comes from
// peeking the opcode at PC and looking it up in the instruction-timing
// table instead of trusting the core to report it.
func (c *CPU) Step(ctx context.Context) (int, error) {
	if c.core.Memory.Get(c.core.PC) == 0xED {
		trap := c.core.Memory.Get(c.core.PC + 1)
		if h, ok := c.extensions[trap]; ok {
			regs := c.Registers()
			cycles, handled := h(&regs, c.core.Memory)
			if handled {
				c.SetRegisters(regs)
				c.core.PC = c.popReturnAddress()
				return cycles, nil
			}
		}
	}

	cycles := instructionCycles(c.core.Memory, c.core.PC)
	c.core.Step()
	return cycles, nil
}

// Interrupt delivers a maskable interrupt in IM1 mode: push PC, jump to
// the fixed vector 0x0038, clear IFF1. Called by the Machine's tick loop
// when the VDP's interrupt line is asserted and IFF1=1.
func (c *CPU) Interrupt() {
	if !c.core.IFF1 {
		return
	}
	c.core.SP -= 2
	c.core.Memory.Set(c.core.SP, uint8(c.core.PC))
	c.core.Memory.Set(c.core.SP+1, uint8(c.core.PC>>8))
	c.core.PC = 0x0038
	c.core.IFF1 = false
}
