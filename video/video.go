// Package video is an abstraction over how the VDP's rendered screen
// buffer gets shown to a host: a small name-based driver factory
// (Register/Constructor keyed on a single output interface), mirroring
// the factory pattern input's keyboard drivers use.
package video

import (
	"fmt"
	"strings"

	"github.com/fcoury/wasmsx/vdp"
)

// Renderer is the interface a video driver implements to turn one
// completed VDP frame into host-visible output.
type Renderer interface {
	// RenderFrame is given the 256x192 palette-index buffer Machine.Screen
	// returns, plus the VDP's own fixed 16-color palette.
	RenderFrame(screen []uint8, palette [16][3]uint8)

	// GetName returns the name of the driver.
	GetName() string
}

// handlers is a map of known drivers.
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function used to
// instantiate an instance of a driver.
type Constructor func() Renderer

// Register makes a video driver available, by name.
func Register(name string, obj Constructor) {
	name = strings.ToLower(name)
	handlers.m[name] = obj
}

// Video holds our state: a pointer to the object rendering frames.
type Video struct {
	driver Renderer
}

// New creates a video output using the named driver.
func New(name string) (*Video, error) {
	name = strings.ToLower(name)

	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup video driver by name '%s'", name)
	}

	return &Video{driver: ctor()}, nil
}

// GetDriver allows getting our driver at runtime.
func (v *Video) GetDriver() Renderer {
	return v.driver
}

// RenderFrame renders screen (a Machine.Screen() buffer) using the VDP's
// fixed palette.
func (v *Video) RenderFrame(screen []uint8) {
	v.driver.RenderFrame(screen, vdp.Palette)
}

// GetName returns the name of our selected driver.
func (v *Video) GetName() string {
	return v.driver.GetName()
}

// GetDrivers returns all available driver names, hiding the internal
// "null" driver.
func (v *Video) GetDrivers() []string {
	valid := []string{}
	for x := range handlers.m {
		if x != "null" {
			valid = append(valid, x)
		}
	}
	return valid
}
