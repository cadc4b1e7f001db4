package vdp

import "testing"

func writeReg(v *VDP, reg int, value uint8) {
	v.WriteControl(value)
	v.WriteControl(0x80 | uint8(reg))
}

func setAddress(v *VDP, addr uint16, write bool) {
	hi := uint8(addr >> 8 & 0x3F)
	if write {
		hi |= 0x40
	}
	v.WriteControl(uint8(addr & 0xFF))
	v.WriteControl(hi)
}

func TestDataPortAutoIncrements(t *testing.T) {
	v := New()
	setAddress(v, 0x1800, true)
	v.WriteData(0x41)
	v.WriteData(0x42)

	if v.ReadVRAM(0x1800) != 0x41 || v.ReadVRAM(0x1801) != 0x42 {
		t.Fatalf("expected sequential writes to land at successive addresses")
	}
}

func TestControlPortTwoStepLatch(t *testing.T) {
	v := New()
	v.WriteControl(0x34)
	if v.reg[0] != 0 {
		t.Fatalf("a single control write must not yet take effect")
	}
	v.WriteControl(0x80) // select R0, value = latched 0x34
	if v.reg[0] != 0x34 {
		t.Fatalf("expected R0 = 0x34, got %#02x", v.reg[0])
	}
}

func TestStatusReadClearsFlagsAndLatch(t *testing.T) {
	v := New()
	v.status = statusF | status5S | statusC
	s := v.ReadStatus()
	if s&statusF == 0 {
		t.Fatalf("expected F bit in returned status")
	}
	if v.status != 0 {
		t.Fatalf("expected status cleared after read, got %#02x", v.status)
	}
}

func TestDisplayModeDecode(t *testing.T) {
	v := New()
	if v.DisplayMode() != Graphic1 {
		t.Fatalf("power-on default should decode as Graphic1")
	}

	writeReg(v, 1, 0x08) // M2
	if v.DisplayMode() != Text {
		t.Fatalf("expected Text mode")
	}

	v = New()
	writeReg(v, 1, 0x10) // M1
	if v.DisplayMode() != Multicolor {
		t.Fatalf("expected Multicolor mode")
	}

	v = New()
	writeReg(v, 0, 0x02) // M3
	if v.DisplayMode() != Graphic2 {
		t.Fatalf("expected Graphic2 mode")
	}

	v = New()
	writeReg(v, 0, 0x02)
	writeReg(v, 1, 0x18) // also sets M1+M2: illegal combo aliases to Graphic1
	if v.DisplayMode() != Graphic1 {
		t.Fatalf("illegal mode combination should alias deterministically, got mode %v", v.DisplayMode())
	}
}

func TestInterruptLineFollowsIEAndFrameFlag(t *testing.T) {
	v := New()
	if v.InterruptLine() {
		t.Fatalf("no interrupt expected before IE is set or frame flag raised")
	}

	writeReg(v, 1, 0x20) // IE
	if v.InterruptLine() {
		t.Fatalf("IE alone without the frame flag must not assert the interrupt line")
	}

	v.status |= statusF
	if !v.InterruptLine() {
		t.Fatalf("expected interrupt line asserted once IE=1 and F=1")
	}
}

func TestTickRaisesFrameFlagAtVBlank(t *testing.T) {
	v := New()
	cyclesPerLine := DotsPerScanline / 2
	for i := 0; i < VBlankLine; i++ {
		v.Tick(cyclesPerLine)
	}
	if v.status&statusF == 0 {
		t.Fatalf("expected frame flag set once the scan position reaches line 192")
	}
}

func TestRenderTextModeProducesForegroundPixels(t *testing.T) {
	v := New()
	writeReg(v, 1, 0x08) // Text mode
	writeReg(v, 2, 0x06) // name table base 0x1800
	writeReg(v, 4, 0x00) // pattern table base 0x0000
	writeReg(v, 7, 0xF1) // fg=white(15) bg=blue(1)

	v.WriteVRAM(0x1800, 'A')
	// Pattern for 'A': a single full row, enough to exercise a lit pixel.
	v.WriteVRAM(uint16('A')*8, 0xFC) // top 6 bits set

	v.render()

	if v.pixel(0, 0) != 0x0F {
		t.Fatalf("expected lit pixel to use foreground color, got %d", v.pixel(0, 0))
	}
	if v.pixel(240, 0) == 0x0F {
		t.Fatalf("border area past the 40x6 text grid should not be foreground colored")
	}
}

func TestSpriteFifthFlag(t *testing.T) {
	v := New()
	writeReg(v, 5, 0) // attribute table at 0
	writeReg(v, 6, 1) // pattern table at 0x0800

	for i := 0; i < 5; i++ {
		base := uint16(i * 4)
		v.WriteVRAM(base+0, 10)         // y
		v.WriteVRAM(base+1, uint8(i*8)) // x, spread out
		v.WriteVRAM(base+2, 0)          // pattern 0
		v.WriteVRAM(base+3, 1)          // color 1 (non-transparent)
	}
	v.WriteVRAM(20, 0xD0)     // terminator after the fifth sprite
	v.WriteVRAM(0x0800, 0xFF) // pattern 0, row 0 fully lit

	v.renderSprites()

	if v.status&status5S == 0 {
		t.Fatalf("expected fifth-sprite flag set with 5 overlapping sprites")
	}
}

func TestSpriteCollisionFlag(t *testing.T) {
	v := New()
	writeReg(v, 5, 0)
	writeReg(v, 6, 1) // pattern table at 0x0800

	// Two sprites at the same position, both opaque: must collide.
	v.WriteVRAM(0, 20)
	v.WriteVRAM(1, 20)
	v.WriteVRAM(2, 0)
	v.WriteVRAM(3, 1)

	v.WriteVRAM(4, 20)
	v.WriteVRAM(5, 20)
	v.WriteVRAM(6, 0)
	v.WriteVRAM(7, 1)

	v.WriteVRAM(8, 0xD0) // terminator

	v.WriteVRAM(0x0800, 0xFF)

	v.renderSprites()

	if v.status&statusC == 0 {
		t.Fatalf("expected collision flag set when two opaque sprites overlap")
	}
}

func TestSpriteTransparentColorDoesNotCollide(t *testing.T) {
	v := New()
	writeReg(v, 5, 0)
	writeReg(v, 6, 1) // pattern table at 0x0800

	v.WriteVRAM(0, 20)
	v.WriteVRAM(1, 20)
	v.WriteVRAM(2, 0)
	v.WriteVRAM(3, 0) // color 0: transparent

	v.WriteVRAM(4, 20)
	v.WriteVRAM(5, 20)
	v.WriteVRAM(6, 0)
	v.WriteVRAM(7, 1)

	v.WriteVRAM(8, 0xD0)

	v.WriteVRAM(0x0800, 0xFF)

	v.renderSprites()

	if v.status&statusC != 0 {
		t.Fatalf("a transparent sprite pixel should never contribute to a collision")
	}
}
