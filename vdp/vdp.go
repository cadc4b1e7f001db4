// Package vdp implements the TMS9918 video display processor as wired into
// an MSX1: 16 KiB of VRAM reached only through the two I/O ports, eight
// mode/control registers, a status register, and a scanline-driven sprite
// and bitmap renderer.
//
// Rendering is performed once per frame, at the moment the scanline counter
// transitions into VBlank (line 192): by that point every register write
// and VRAM write for the frame has already landed, so the rendered buffer
// is byte-for-byte what a real TMS9918 would have produced scanning the
// same frame. Nothing later in the frame, before the next render, can
// change what Screen() returns.
package vdp

const (
	// VRAMSize is the size of VDP-owned video RAM, unreachable from the
	// CPU's own address space except through ports 0x98/0x99.
	VRAMSize = 16 * 1024

	// ScreenWidth and ScreenHeight are the visible pixel dimensions.
	ScreenWidth  = 256
	ScreenHeight = 192

	// DotsPerScanline and LinesPerFrame follow the fixed CPU/VDP clock
	// relationship: the VDP dot clock is CPU x2, one scanline is 342
	// dots, 262 lines per frame.
	DotsPerScanline = 342
	LinesPerFrame   = 262

	// VBlankLine is the scanline on which the frame flag (status bit F)
	// is raised and the frame is rendered.
	VBlankLine = 192
)

// Mode identifies one of the four canonical display modes. Register
// combinations outside the four recognised patterns alias to Graphic1,
// matching the real chip's undocumented-mode behaviour.
type Mode int

const (
	Graphic1 Mode = iota
	Graphic2
	Multicolor
	Text
)

// Status register bits (byte returned by ReadStatus, before it is cleared).
const (
	statusF  = 1 << 7 // frame/VBlank interrupt flag
	status5S = 1 << 6 // fifth sprite detected on some line this frame
	statusC  = 1 << 5 // sprite collision detected this frame
	// bits 4..0 carry the index of the fifth sprite found, when status5S is set.
)

// VDP holds the full visible state of the chip.
type VDP struct {
	vram [VRAMSize]uint8
	reg  [8]uint8

	status uint8
	addr   uint16 // 14-bit latched VRAM address, auto-incrementing
	latch  uint8
	haveLo bool // true once the first (low) byte of a control-port write has landed

	dot  int // 0..DotsPerScanline-1
	line int // 0..LinesPerFrame-1

	screen [ScreenWidth * ScreenHeight]uint8
}

// New returns a VDP with blanked VRAM, registers at power-on defaults (all
// zero), and the scan position at the top-left of the frame.
func New() *VDP {
	return &VDP{}
}

// ReadData implements port 0x98 reads: return the VRAM byte at the latched
// address, then advance the address (wrapping at 16 KiB).
func (v *VDP) ReadData() uint8 {
	b := v.vram[v.addr]
	v.addr = (v.addr + 1) & (VRAMSize - 1)
	return b
}

// WriteData implements port 0x98 writes: store to VRAM at the latched
// address, then advance it.
func (v *VDP) WriteData(value uint8) {
	v.vram[v.addr] = value
	v.addr = (v.addr + 1) & (VRAMSize - 1)
}

// WriteControl implements the two-step port 0x99 write protocol (spec
// §4.3). The first write of a pair only latches a byte; the second
// combines it with the new byte to either select a register or set the
// VRAM read/write address.
func (v *VDP) WriteControl(value uint8) {
	if !v.haveLo {
		v.latch = value
		v.haveLo = true
		return
	}
	v.haveLo = false

	switch {
	case value&0xC0 == 0x80:
		// Register write: low six bits of this byte select R0..R7; the
		// previously latched byte becomes the register's new value.
		reg := value & 0x3F
		if int(reg) < len(v.reg) {
			v.reg[reg] = v.latch
		}
	default:
		// VRAM address set, for either a subsequent read (top bit 0) or
		// write (top bit 1 but not "10") sequence.
		v.addr = (uint16(value)<<8 | uint16(v.latch)) & (VRAMSize - 1)
	}
}

// ReadStatus implements port 0x99 reads: return the status byte, then clear
// F/5S/C and the control-port latch.
func (v *VDP) ReadStatus() uint8 {
	s := v.status
	v.status &^= statusF | status5S | statusC
	v.haveLo = false
	return s
}

// WriteRegister sets register r (0..7) directly, bypassing the two-step
// port protocol. Used by the Machine/tests to set up a scene without
// round-tripping through port 0x99.
func (v *VDP) WriteRegister(r int, value uint8) {
	if r >= 0 && r < len(v.reg) {
		v.reg[r] = value
	}
}

// Register returns the current value of register r.
func (v *VDP) Register(r int) uint8 {
	if r < 0 || r >= len(v.reg) {
		return 0
	}
	return v.reg[r]
}

// WriteVRAM and ReadVRAM give direct VRAM access for tests and for the
// Machine's introspection surface.
func (v *VDP) WriteVRAM(addr uint16, value uint8) { v.vram[addr&(VRAMSize-1)] = value }
func (v *VDP) ReadVRAM(addr uint16) uint8         { return v.vram[addr&(VRAMSize-1)] }

// interruptEnabled reports R1.IE (bit 5).
func (v *VDP) interruptEnabled() bool { return v.reg[1]&0x20 != 0 }

// InterruptLine reports whether the VDP is currently asserting its
// interrupt line: R1.IE=1 and the frame flag is set.
func (v *VDP) InterruptLine() bool {
	return v.interruptEnabled() && v.status&statusF != 0
}

// DisplayMode decodes (R0.M3, R1.M1, R1.M2) into one of the four
// canonical modes.
func (v *VDP) DisplayMode() Mode {
	m3 := v.reg[0]&0x02 != 0
	m1 := v.reg[1]&0x10 != 0
	m2 := v.reg[1]&0x08 != 0

	switch {
	case m3 && !m1 && !m2:
		return Graphic2
	case m1 && !m3 && !m2:
		return Multicolor
	case m2 && !m3 && !m1:
		return Text
	default:
		return Graphic1
	}
}

// Tick advances the VDP's scan position by cpuCycles CPU cycles (the VDP
// dot clock runs at CPU x2) and renders the frame buffer the instant the
// scanline counter transitions into VBlank.
func (v *VDP) Tick(cpuCycles int) {
	dots := cpuCycles * 2
	for dots > 0 {
		step := DotsPerScanline - v.dot
		if step > dots {
			step = dots
		}
		v.dot += step
		dots -= step

		if v.dot >= DotsPerScanline {
			v.dot -= DotsPerScanline
			v.line++
			if v.line >= LinesPerFrame {
				v.line = 0
			}
			if v.line == VBlankLine {
				v.status |= statusF
				v.render()
			}
		}
	}
}

// Line returns the current scanline (0..261), for tests and introspection.
func (v *VDP) Line() int { return v.line }

// Screen returns the rendered 256x192 buffer of palette indices (0..15)
// from the most recently completed frame.
func (v *VDP) Screen() []uint8 {
	return v.screen[:]
}

// Palette is the TMS9918's fixed 16-entry RGB palette, indexed by the
// color values Screen's buffer and the sprite/pattern color nibbles carry
// throughout this package. Index 0 is "transparent" for patterns and
// sprites but has a real border/backdrop color like any other entry.
var Palette = [16][3]uint8{
	{0, 0, 0},       // 0  transparent/black
	{0, 0, 0},       // 1  black
	{33, 200, 66},   // 2  medium green
	{94, 220, 120},  // 3  light green
	{84, 85, 237},   // 4  dark blue
	{125, 118, 252}, // 5  light blue
	{212, 82, 77},   // 6  dark red
	{66, 235, 245},  // 7  cyan
	{252, 85, 84},   // 8  medium red
	{255, 121, 120}, // 9  light red
	{212, 193, 84},  // 10 dark yellow
	{230, 206, 128}, // 11 light yellow
	{33, 176, 59},   // 12 dark green
	{201, 91, 186},  // 13 magenta
	{204, 204, 204}, // 14 gray
	{255, 255, 255}, // 15 white
}

// borderColor is R7's low nibble, used for Text mode background and any
// area outside the active bitmap grid.
func (v *VDP) borderColor() uint8 { return v.reg[7] & 0x0F }

func (v *VDP) setPixel(x, y int, color uint8) {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return
	}
	v.screen[y*ScreenWidth+x] = color
}

func (v *VDP) pixel(x, y int) uint8 {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return 0
	}
	return v.screen[y*ScreenWidth+x]
}

// render computes the full frame buffer from the current register and
// VRAM state: background layer per the active mode, then the sprite
// engine on top (for every mode but Text).
func (v *VDP) render() {
	border := v.borderColor()
	for i := range v.screen {
		v.screen[i] = border
	}

	mode := v.DisplayMode()
	switch mode {
	case Text:
		v.renderText()
		return // Text mode has no sprite layer.
	case Graphic2:
		v.renderGraphic2()
	case Multicolor:
		v.renderMulticolor()
	default:
		v.renderGraphic1()
	}

	v.renderSprites()
}

func (v *VDP) nameTableBase() uint16    { return uint16(v.reg[2]&0x0F) << 10 }
func (v *VDP) patternTableBase() uint16 { return uint16(v.reg[4]&0x07) << 11 }
func (v *VDP) colorTableBase() uint16   { return uint16(v.reg[3]) << 6 }

// renderGraphic1 draws the 32x24 name table, 8x8 pixel cells, one color
// byte per cell shared by the whole 8x8 pattern.
func (v *VDP) renderGraphic1() {
	nameBase := v.nameTableBase()
	patternBase := v.patternTableBase()
	colorBase := v.colorTableBase()

	for row := 0; row < 24; row++ {
		for col := 0; col < 32; col++ {
			name := v.vram[nameBase+uint16(row*32+col)]
			colorByte := v.vram[(colorBase+uint16(name/8))&(VRAMSize-1)]
			fg := colorByte >> 4
			bg := colorByte & 0x0F

			for py := 0; py < 8; py++ {
				patternByte := v.vram[(patternBase+uint16(name)*8+uint16(py))&(VRAMSize-1)]
				for px := 0; px < 8; px++ {
					bit := patternByte&(0x80>>px) != 0
					color := bg
					if bit {
						color = fg
					}
					v.setPixel(col*8+px, row*8+py, color)
				}
			}
		}
	}
}

// renderGraphic2 draws the 32x24 name table split into three 256-tile
// banks: the pattern/color bank for a tile is chosen by which third of
// the screen (row group) it falls in, masked against the top bits of
// R4/R3.
func (v *VDP) renderGraphic2() {
	nameBase := v.nameTableBase()
	patternHalf := uint16(v.reg[4]&0x04) << 11 // 0 or 0x2000
	colorHalf := uint16(v.reg[3]&0x80) << 6    // 0 or 0x2000

	for row := 0; row < 24; row++ {
		bank := uint16(row / 8)
		patternBase := patternHalf + bank*2048
		colorBase := colorHalf + bank*2048

		for col := 0; col < 32; col++ {
			name := v.vram[nameBase+uint16(row*32+col)]

			for py := 0; py < 8; py++ {
				patternByte := v.vram[(patternBase+uint16(name)*8+uint16(py))&(VRAMSize-1)]
				colorByte := v.vram[(colorBase+uint16(name)*8+uint16(py))&(VRAMSize-1)]
				fg := colorByte >> 4
				bg := colorByte & 0x0F
				for px := 0; px < 8; px++ {
					bit := patternByte&(0x80>>px) != 0
					color := bg
					if bit {
						color = fg
					}
					v.setPixel(col*8+px, row*8+py, color)
				}
			}
		}
	}
}

// renderMulticolor draws the 64x48 grid of 4x4 blocks, two nibbles packed
// per pattern byte.
func (v *VDP) renderMulticolor() {
	nameBase := v.nameTableBase()
	patternBase := v.patternTableBase()

	for row := 0; row < 24; row++ {
		for col := 0; col < 32; col++ {
			name := v.vram[nameBase+uint16(row*32+col)]

			for quarter := 0; quarter < 2; quarter++ {
				patternByte := v.vram[(patternBase+uint16(name)*8+uint16(row%4)*2+uint16(quarter))&(VRAMSize-1)]
				left := patternByte >> 4
				right := patternByte & 0x0F

				baseY := row*8 + quarter*4
				baseX := col * 8
				for dy := 0; dy < 4; dy++ {
					for dx := 0; dx < 4; dx++ {
						v.setPixel(baseX+dx, baseY+dy, left)
						v.setPixel(baseX+4+dx, baseY+dy, right)
					}
				}
			}
		}
	}
}

// renderText draws the 40x24 name table in R7's foreground/background
// colors; Text mode cells only use the leftmost 6 columns of each pattern row.
func (v *VDP) renderText() {
	nameBase := v.nameTableBase()
	patternBase := v.patternTableBase()
	fg := v.reg[7] >> 4
	bg := v.reg[7] & 0x0F

	const cols, rows = 40, 24
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			name := v.vram[nameBase+uint16(row*cols+col)]
			for py := 0; py < 8; py++ {
				patternByte := v.vram[(patternBase+uint16(name)*8+uint16(py))&(VRAMSize-1)]
				for px := 0; px < 6; px++ {
					bit := patternByte&(0x80>>px) != 0
					color := bg
					if bit {
						color = fg
					}
					v.setPixel(col*6+px, row*8+py, color)
				}
			}
		}
	}
}

// sprite size/magnification bits, real TMS9918 R1 layout.
func (v *VDP) spriteSizeIs16() bool  { return v.reg[1]&0x02 != 0 }
func (v *VDP) spriteMagnified() bool { return v.reg[1]&0x01 != 0 }

type spriteAttr struct {
	index   int
	y, x    int
	pattern uint8
	ec      bool
	color   uint8
}

// renderSprites evaluates the 32-entry sprite attribute table scanline by
// scanline, drawing the first four sprites with coverage on each line,
// flagging a fifth (status 5S) and any drawn-pixel collision (status C).
func (v *VDP) renderSprites() {
	attrBase := uint16(v.reg[5]&0x7F) << 7
	patBase := uint16(v.reg[6]&0x07) << 11

	size16 := v.spriteSizeIs16()
	mag := v.spriteMagnified()

	cell := 8
	if size16 {
		cell = 16
	}
	extent := cell
	if mag {
		extent *= 2
	}

	var all []spriteAttr
	for i := 0; i < 32; i++ {
		base := attrBase + uint16(i*4)
		yByte := v.vram[base&(VRAMSize-1)]
		if yByte == 0xD0 {
			break
		}
		xByte := v.vram[(base+1)&(VRAMSize-1)]
		patByte := v.vram[(base+2)&(VRAMSize-1)]
		flags := v.vram[(base+3)&(VRAMSize-1)]

		disp := int(yByte+1) % 256
		all = append(all, spriteAttr{
			index:   i,
			y:       disp,
			x:       int(xByte),
			pattern: patByte,
			ec:      flags&0x80 != 0,
			color:   flags & 0x0F,
		})
	}

	var covered [ScreenWidth]uint8 // count of drawn sprite pixels this line, for collision detection

	for line := 0; line < ScreenHeight; line++ {
		for i := range covered {
			covered[i] = 0
		}

		var onLine []spriteAttr
		for _, s := range all {
			if line >= s.y && line < s.y+extent {
				onLine = append(onLine, s)
			}
		}

		if len(onLine) >= 5 {
			v.status |= status5S
			v.status = (v.status &^ 0x1F) | (uint8(onLine[4].index) & 0x1F)
		}

		drawn := onLine
		if len(drawn) > 4 {
			drawn = drawn[:4]
		}

		for _, s := range drawn {
			x0 := s.x
			if s.ec {
				x0 -= 32
			}

			srcY := (line - s.y)
			if mag {
				srcY /= 2
			}

			patternAddr := patBase + uint16(s.pattern)*8
			if size16 {
				patternAddr = patBase + uint16(s.pattern&0xFC)*8
			}

			for dx := 0; dx < extent; dx++ {
				srcX := dx
				if mag {
					srcX /= 2
				}

				var bit bool
				if size16 {
					quadCol := 0
					if srcX >= 8 {
						quadCol = 2
						srcX -= 8
					}
					quadRow := 0
					if srcY >= 8 {
						quadRow = 1
					}
					rowInQuad := srcY % 8
					addr := (patternAddr + uint16(quadCol+quadRow)*8 + uint16(rowInQuad)) & (VRAMSize - 1)
					b := v.vram[addr]
					bit = b&(0x80>>uint(srcX)) != 0
				} else {
					addr := (patternAddr + uint16(srcY)) & (VRAMSize - 1)
					b := v.vram[addr]
					bit = b&(0x80>>uint(srcX)) != 0
				}

				if !bit || s.color == 0 {
					continue
				}

				px := x0 + dx
				if px < 0 || px >= ScreenWidth {
					continue
				}

				if covered[px] > 0 {
					v.status |= statusC
				}
				covered[px]++

				v.setPixel(px, line, s.color)
			}
		}
	}
}
