// Package ppi implements the 8255 peripheral interface chip as wired up in
// an MSX1: port A selects the four primary slots, port B reads back the
// keyboard matrix (and, on row 8, the joystick), and port C selects the
// keyboard row and drives the CAPS LED and cassette lines.
package ppi

import "github.com/fcoury/wasmsx/keyboard"

// Ports, as routed by the Bus.
const (
	PortA = 0xA8 // primary slot select (write) / read-back (read)
	PortB = 0xA9 // keyboard/joystick column read
	PortC = 0xAA // keyboard row select, CAPS LED, cassette (write+read)
	PortD = 0xAB // bit set/reset on register C
)

// PPI holds the 8255's visible register state.
type PPI struct {
	Keyboard *keyboard.Matrix
	Joystick *keyboard.Joystick

	primaryConfig uint8 // last byte written to port A (read back verbatim)
	registerC     uint8 // bits 0..3 row select, bit4 CAPS LED, bits5..7 cassette
}

// New returns a PPI with CAPS LED off, keyboard row 0 selected, and its
// own keyboard matrix.
func New() *PPI {
	return &PPI{
		Keyboard: keyboard.NewMatrix(),
		Joystick: &keyboard.Joystick{},
	}
}

// WriteA stores the primary-slot-select byte. The Bus is responsible for
// decoding it into per-page slot indices; the PPI only remembers the raw
// byte for read-back.
func (p *PPI) WriteA(value uint8) {
	p.primaryConfig = value
}

// ReadA returns the last byte written to port A.
func (p *PPI) ReadA() uint8 {
	return p.primaryConfig
}

// row returns the currently selected keyboard row (register C bits 0..3).
func (p *PPI) row() uint8 {
	return p.registerC & 0x0F
}

// ReadB returns the bit-inverted column state of the selected row. Row 8
// (the space-bar row) is multiplexed with the joystick on real hardware;
// this design keeps that behaviour by ANDing in the joystick bits whenever
// row 8 is selected, so a joystick that nothing has touched is invisible.
func (p *PPI) ReadB() uint8 {
	row := p.row()
	bits := p.Keyboard.ReadRow(row)
	if row == 8 {
		bits &= p.Joystick.Bits()
	}
	return bits
}

// WriteC replaces the whole of register C (used by port 0xAA).
func (p *PPI) WriteC(value uint8) {
	p.registerC = value
}

// ReadC returns register C verbatim.
func (p *PPI) ReadC() uint8 {
	return p.registerC
}

// SetResetBit implements port 0xAB's bit set/reset protocol: bits 1..3 of
// value select a bit of register C, bit 0 says whether to set (1) or clear
// (0) it.
func (p *PPI) SetResetBit(value uint8) {
	bit := (value >> 1) & 0x07
	if value&0x01 != 0 {
		p.registerC |= 1 << bit
	} else {
		p.registerC &^= 1 << bit
	}
}

// CapsLEDOn reports whether the CAPS LED is lit (bit 4 of register C,
// active-high in this design).
func (p *PPI) CapsLEDOn() bool {
	return p.registerC&0x10 != 0
}
