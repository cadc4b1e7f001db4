// drv_script.go is a keyboard-input driver that reads and plays back a
// fixed script of key presses from a file ("input.txt" by default),
// emitting the key-down/key-up pairs a scripted demo needs instead of a
// raw byte stream.
//
// Script format: one key code per line (package keyboard's host code
// strings, e.g. "KeyA", "Digit1", "Enter"); blank lines and lines starting
// with "#" are ignored. Each line is played as a down event immediately
// followed by an up event on the next Poll, spaced by holdDelay so a BASIC
// keyboard-read loop has a chance to see it.
package input

import (
	"bufio"
	"os"
	"strings"
	"time"
)

// holdDelay is how long a scripted key is held down before its release.
const holdDelay = 4 * holdDelayUnit

const holdDelayUnit = 20 * time.Millisecond

// ScriptDriver plays back a fixed sequence of key codes from a file named
// by $INPUT_SCRIPT (default "input.txt").
type ScriptDriver struct {
	codes      []string
	offset     int
	down       bool
	nextAction time.Time
}

// Setup reads the script file into memory.
func (sd *ScriptDriver) Setup() error {
	fileName := os.Getenv("INPUT_SCRIPT")
	if fileName == "" {
		fileName = "input.txt"
	}

	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sd.codes = append(sd.codes, line)
	}

	sd.nextAction = time.Now()
	return scanner.Err()
}

// TearDown is a no-op: the script file was read fully into memory.
func (sd *ScriptDriver) TearDown() error {
	return nil
}

// Poll advances through the script, emitting at most one event per call.
func (sd *ScriptDriver) Poll() []KeyEvent {
	if time.Now().Before(sd.nextAction) {
		return nil
	}
	if sd.offset >= len(sd.codes) {
		return nil
	}

	code := sd.codes[sd.offset]
	sd.nextAction = time.Now().Add(holdDelay)

	if !sd.down {
		sd.down = true
		return []KeyEvent{{Code: code, Down: true}}
	}

	sd.down = false
	sd.offset++
	return []KeyEvent{{Code: code, Down: false}}
}

// GetName is part of the driver API, and returns the name of this driver.
func (sd *ScriptDriver) GetName() string {
	return "script"
}

// init registers our driver, by name.
func init() {
	Register("script", func() Driver {
		return new(ScriptDriver)
	})
}
