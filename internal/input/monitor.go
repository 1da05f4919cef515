package input

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/holoplot/go-evdev"

	"github.com/SludgePhD/clickd/internal/trigger"
)

const defaultInputDir = "/dev/input"

// Monitor discovers input devices, filters them against the trigger
// buttons and the allow-list, and runs one Listener per accepted device.
// Discovery is startup enumeration plus an fsnotify watch on /dev/input
// for hotplugged device nodes. Removal is reactive: a vanished device
// surfaces as a read error on its listener.
type Monitor struct {
	logger  *slog.Logger
	buttons ButtonSet
	allowed []string
	gate    *trigger.Gate
	latch   *trigger.Latch

	// enumerate and open default to evdev; tests inject fakes.
	enumerate func() ([]string, error)
	open      func(path string) (Device, error)
	inputDir  string

	// settleDelay gives udev time to fix up permissions on a fresh node
	// before the first open attempt.
	settleDelay time.Duration

	watcher *fsnotify.Watcher

	mu        sync.Mutex
	listeners map[string]*Listener
	watching  bool
	stopping  bool

	// onDrained is invoked when the last listener terminates outside of
	// shutdown.
	onDrained func()

	doneCh chan struct{}
}

// NewMonitor creates a monitor feeding latch from devices that match
// buttons (and allowed, when non-empty).
func NewMonitor(buttons ButtonSet, allowed []string, gate *trigger.Gate, latch *trigger.Latch, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger:      logger,
		buttons:     buttons,
		allowed:     allowed,
		gate:        gate,
		latch:       latch,
		enumerate:   enumerateEvdev,
		open:        OpenDevice,
		inputDir:    defaultInputDir,
		settleDelay: 100 * time.Millisecond,
		listeners:   make(map[string]*Listener),
		doneCh:      make(chan struct{}),
	}
}

// SetDeviceSource overrides device discovery. For tests.
func (m *Monitor) SetDeviceSource(enumerate func() ([]string, error), open func(string) (Device, error)) {
	m.enumerate = enumerate
	m.open = open
	m.settleDelay = 0
}

// SetInputDir overrides the directory watched for hotplugged device
// nodes. For tests.
func (m *Monitor) SetInputDir(dir string) {
	m.inputDir = dir
}

// SetDrainedCallback sets the callback invoked when the last listener
// has terminated and the monitor is not shutting down.
func (m *Monitor) SetDrainedCallback(callback func()) {
	m.onDrained = callback
}

// Start enumerates devices, spawns listeners for the accepted ones, and
// begins watching for hotplugged devices. It returns the number of
// devices accepted during initial enumeration; the zero-at-startup
// policy is the caller's call.
func (m *Monitor) Start() (int, error) {
	paths, err := m.enumerate()
	if err != nil {
		return 0, err
	}

	accepted := 0
	for _, path := range paths {
		if m.probe(path) {
			accepted++
		}
	}

	if watcher, err := fsnotify.NewWatcher(); err != nil {
		m.logger.Warn("hotplug watch unavailable", "error", err)
	} else if err := watcher.Add(m.inputDir); err != nil {
		m.logger.Warn("hotplug watch unavailable", "dir", m.inputDir, "error", err)
		_ = watcher.Close()
	} else {
		m.watcher = watcher
		m.mu.Lock()
		m.watching = true
		m.mu.Unlock()
		go m.watchLoop()
		m.logger.Debug("watching for hotplugged devices", "dir", m.inputDir)
	}

	return accepted, nil
}

// HotplugActive reports whether new devices can still appear.
func (m *Monitor) HotplugActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watching
}

// ListenerCount returns the number of live listeners.
func (m *Monitor) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// Stop closes the hotplug watcher and every device, then waits for the
// listeners to terminate.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return
	}
	m.stopping = true
	watching := m.watching
	m.watching = false
	active := make([]*Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		active = append(active, l)
	}
	m.mu.Unlock()

	if watching {
		_ = m.watcher.Close()
		<-m.doneCh
	}

	// Closing the devices unblocks the listeners' reads.
	for _, l := range active {
		_ = l.dev.Close()
	}
	for _, l := range active {
		<-l.Done()
	}

	m.logger.Debug("device monitor stopped")
}

// probe opens and filters one device node, spawning a listener when it
// qualifies. Open failures are logged and skipped, never fatal.
func (m *Monitor) probe(path string) bool {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return false
	}
	if _, exists := m.listeners[path]; exists {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	dev, err := m.open(path)
	if err != nil {
		m.logger.Warn("failed to open input device, skipping", "path", path, "error", err)
		return false
	}

	if !Eligible(dev, m.buttons, m.allowed) {
		_ = dev.Close()
		return false
	}

	m.logger.Info("opening input device", "path", path, "name", dev.Name())

	l := NewListener(dev, m.buttons, m.gate, m.latch, m.logger)
	l.SetCloseCallback(m.listenerClosed)

	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		_ = dev.Close()
		return false
	}
	m.listeners[path] = l
	m.mu.Unlock()

	l.Start()
	return true
}

func (m *Monitor) listenerClosed(l *Listener) {
	m.mu.Lock()
	delete(m.listeners, l.Path())
	drained := len(m.listeners) == 0 && !m.stopping
	callback := m.onDrained
	m.mu.Unlock()

	if drained && callback != nil {
		callback()
	}
}

// watchLoop reacts to created /dev/input/event* nodes.
func (m *Monitor) watchLoop() {
	defer close(m.doneCh)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasPrefix(filepath.Base(event.Name), "event") {
				continue
			}
			// Let udev settle permissions on the fresh node.
			time.Sleep(m.settleDelay)
			m.probe(event.Name)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("hotplug watcher error", "error", err)
		}
	}
}

// enumerateEvdev lists the evdev device nodes present at startup.
func enumerateEvdev() ([]string, error) {
	devicePaths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(devicePaths))
	for _, d := range devicePaths {
		paths = append(paths, d.Path)
	}
	return paths, nil
}
