package input

import (
	"log/slog"

	"github.com/SludgePhD/clickd/internal/trigger"
)

// Listener reads key events from one device and forwards qualifying
// presses into the trigger latch. Each listener blocks only on its own
// device; a failure terminates this listener alone.
type Listener struct {
	logger  *slog.Logger
	dev     Device
	buttons ButtonSet
	gate    *trigger.Gate
	latch   *trigger.Latch

	// onClose is invoked exactly once when the listener terminates.
	onClose func(*Listener)
	done    chan struct{}
}

// NewListener creates a listener for dev. It does not start reading
// until Start is called.
func NewListener(dev Device, buttons ButtonSet, gate *trigger.Gate, latch *trigger.Latch, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		logger:  logger,
		dev:     dev,
		buttons: buttons,
		gate:    gate,
		latch:   latch,
		done:    make(chan struct{}),
	}
}

// SetCloseCallback sets the callback invoked when the listener
// terminates. Must be called before Start.
func (l *Listener) SetCloseCallback(callback func(*Listener)) {
	l.onClose = callback
}

// Start launches the read loop on its own goroutine.
func (l *Listener) Start() {
	go l.run()
}

// Done is closed when the listener has terminated.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Path returns the path of the underlying device.
func (l *Listener) Path() string {
	return l.dev.Path()
}

func (l *Listener) run() {
	defer close(l.done)
	defer func() {
		if l.onClose != nil {
			l.onClose(l)
		}
	}()
	defer func() { _ = l.dev.Close() }()

	for {
		ev, err := l.dev.ReadKeyEvent()
		if err != nil {
			l.logger.Warn("input device read failed, closing",
				"path", l.dev.Path(), "error", err)
			return
		}

		// Only key-down events trigger playback.
		if ev.State != KeyPressed {
			continue
		}
		if !l.buttons.Contains(ev.Code) {
			continue
		}
		if !l.gate.Enabled() {
			// Suppressed by the tray toggle.
			continue
		}

		// A full slot means a trigger is already pending; the press
		// collapses into it.
		l.latch.TryEmit()
	}
}
