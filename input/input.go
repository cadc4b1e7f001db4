// Package input is an abstraction over host keyboard input: a small
// factory that can instantiate and swap a driver given just its name.
//
// Unlike a teletype console, an MSX wants discrete key-down/key-up
// transitions fed to Machine.KeyDown/KeyUp, so the driver contract here is
// shaped around that instead of byte-at-a-time reads.
package input

import (
	"fmt"
	"strings"
)

// KeyEvent is one key transition, using the same host key-code strings as
// package keyboard's mapping table (e.g. "KeyA", "Digit0", "ArrowLeft").
type KeyEvent struct {
	Code string
	Down bool
}

// Driver is the interface that must be implemented by anything that wishes
// to be used as a keyboard-input driver. Providing this interface lets an
// object register itself, by name, via Register.
type Driver interface {
	// Setup prepares the driver (e.g. entering raw terminal mode, opening
	// a script file).
	Setup() error

	// TearDown releases anything Setup acquired.
	TearDown() error

	// Poll returns any key events that have occurred since the last call.
	// It must not block.
	Poll() []KeyEvent

	// GetName returns the name of the driver.
	GetName() string
}

// handlers is a map of known drivers.
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function used to
// instantiate an instance of a driver.
type Constructor func() Driver

// Register makes an input driver available, by name.
func Register(name string, obj Constructor) {
	name = strings.ToLower(name)
	handlers.m[name] = obj
}

// Input holds our state: a pointer to the object handling keyboard input.
type Input struct {
	driver Driver
}

// New creates an input device using the named driver.
func New(name string) (*Input, error) {
	name = strings.ToLower(name)

	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup input driver by name '%s'", name)
	}

	return &Input{driver: ctor()}, nil
}

// GetDriver allows getting our driver at runtime.
func (in *Input) GetDriver() Driver {
	return in.driver
}

// Setup prepares the underlying driver.
func (in *Input) Setup() error {
	return in.driver.Setup()
}

// TearDown releases the underlying driver's resources.
func (in *Input) TearDown() error {
	return in.driver.TearDown()
}

// Poll returns any pending key events from the underlying driver.
func (in *Input) Poll() []KeyEvent {
	return in.driver.Poll()
}

// GetName returns the name of our selected driver.
func (in *Input) GetName() string {
	return in.driver.GetName()
}

// GetDrivers returns all available driver names.
func (in *Input) GetDrivers() []string {
	valid := []string{}
	for x := range handlers.m {
		valid = append(valid, x)
	}
	return valid
}
