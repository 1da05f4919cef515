// Package input connects evdev devices to the trigger latch: one
// listener per accepted device, and a monitor that discovers devices at
// startup and via hotplug.
package input

import (
	"slices"
	"sync"

	"github.com/holoplot/go-evdev"
)

// KeyState is the transition carried by a key event.
type KeyState int32

const (
	KeyReleased KeyState = 0
	KeyPressed  KeyState = 1
	KeyRepeated KeyState = 2
)

// KeyEvent is a single key transition read from a device.
type KeyEvent struct {
	Code  evdev.EvCode
	State KeyState
}

// Device is an open input device. The evdev adapter below is the real
// implementation; tests substitute fakes.
type Device interface {
	// Name is the device's display name, matched against the allow-list.
	Name() string
	// Path identifies the device node.
	Path() string
	// HasKeys reports whether the device delivers key events at all.
	HasKeys() bool
	// Keys lists the key codes the device can deliver.
	Keys() []evdev.EvCode
	// ReadKeyEvent blocks until the next key event. Non-key events are
	// skipped. Returns an error when the device goes away or the handle
	// is closed.
	ReadKeyEvent() (KeyEvent, error)
	Close() error
}

type evdevDevice struct {
	dev  *evdev.InputDevice
	path string
	name string

	closeOnce sync.Once
	closeErr  error
}

// OpenDevice opens the evdev node at path.
func OpenDevice(path string) (Device, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	name, err := dev.Name()
	if err != nil {
		name = ""
	}
	return &evdevDevice{dev: dev, path: path, name: name}, nil
}

func (d *evdevDevice) Name() string { return d.name }
func (d *evdevDevice) Path() string { return d.path }

func (d *evdevDevice) HasKeys() bool {
	return slices.Contains(d.dev.CapableTypes(), evdev.EV_KEY)
}

func (d *evdevDevice) Keys() []evdev.EvCode {
	return d.dev.CapableEvents(evdev.EV_KEY)
}

func (d *evdevDevice) ReadKeyEvent() (KeyEvent, error) {
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			return KeyEvent{}, err
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		return KeyEvent{Code: ev.Code, State: KeyState(ev.Value)}, nil
	}
}

// Close may be called both by the listener on read failure and by the
// monitor during shutdown.
func (d *evdevDevice) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.dev.Close()
	})
	return d.closeErr
}

// Eligible applies the full device filter: the device must deliver key
// events, must support at least one trigger button, and must appear in
// the allow-list when one is configured.
func Eligible(dev Device, buttons ButtonSet, allowed []string) bool {
	if !dev.HasKeys() {
		return false
	}
	if !buttons.IntersectsAny(dev.Keys()) {
		return false
	}
	if len(allowed) > 0 && !slices.Contains(allowed, dev.Name()) {
		return false
	}
	return true
}
