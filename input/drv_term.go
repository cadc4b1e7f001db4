// drv_term.go uses the Termbox library to poll the keyboard in the
// background, emitting discrete key-down/key-up transitions instead of a
// byte stream.
//
// Termbox (like most terminal input layers) reports key-down events only —
// there is no native key-up signal once a keystroke reaches a terminal.
// This driver works around that by pairing every reported key with a
// synthetic release a short time later, which is enough for a BASIC
// keyboard-read loop to see the keystroke without the MSX believing a key
// is being held down forever.

package input

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/nsf/termbox-go"
	"golang.org/x/term"
)

// releaseDelay is how long a synthetic key-down is held before its
// matching key-up is emitted.
const releaseDelay = 60 * time.Millisecond

// TermboxDriver is our keyboard-input driver, using termbox.
type TermboxDriver struct {
	oldState *term.State
	cancel   context.CancelFunc

	mu      sync.Mutex
	pending []KeyEvent
}

// Setup switches the terminal into raw mode, initializes termbox, and
// starts the background polling goroutine.
func (td *TermboxDriver) Setup() error {
	var err error

	td.oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	if err = termbox.Init(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	td.cancel = cancel

	go td.pollKeyboard(ctx)
	return nil
}

// pollKeyboard runs in a goroutine, translating termbox events into
// key-down events (plus a timer-driven key-up) appended to td.pending.
func (td *TermboxDriver) pollKeyboard(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}

		code, ok := translateTermboxEvent(ev)
		if !ok {
			continue
		}

		td.mu.Lock()
		td.pending = append(td.pending, KeyEvent{Code: code, Down: true})
		td.mu.Unlock()

		go func(code string) {
			time.Sleep(releaseDelay)
			td.mu.Lock()
			td.pending = append(td.pending, KeyEvent{Code: code, Down: false})
			td.mu.Unlock()
		}(code)
	}
}

// Poll drains and returns whatever events have accumulated since the last
// call.
func (td *TermboxDriver) Poll() []KeyEvent {
	td.mu.Lock()
	defer td.mu.Unlock()

	out := td.pending
	td.pending = nil
	return out
}

// TearDown cancels the background poller, closes termbox, and restores
// the terminal.
func (td *TermboxDriver) TearDown() error {
	if td.cancel != nil {
		td.cancel()
	}
	termbox.Close()
	if td.oldState != nil {
		return term.Restore(int(os.Stdin.Fd()), td.oldState)
	}
	return nil
}

// GetName is part of the driver API, and returns the name of this driver.
func (td *TermboxDriver) GetName() string {
	return "term"
}

// init registers our driver, by name.
func init() {
	Register("term", func() Driver {
		return new(TermboxDriver)
	})
}
