// Package tray exposes the enable/disable toggle as a
// StatusNotifierItem on the session bus. Activating the item flips the
// gate and swaps the icon; there is no menu.
package tray

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/SludgePhD/clickd/internal/trigger"
)

const (
	watcherBusName   = "org.kde.StatusNotifierWatcher"
	watcherPath      = "/StatusNotifierWatcher"
	watcherInterface = "org.kde.StatusNotifierWatcher"

	itemInterface = "org.kde.StatusNotifierItem"
	itemPath      = "/StatusNotifierItem"

	titleEnabled  = "clickd - enabled (click to disable)"
	titleDisabled = "clickd - disabled (click to enable)"
)

// Tray registers the StatusNotifierItem and routes Activate calls to the
// gate.
type Tray struct {
	logger *slog.Logger
	gate   *trigger.Gate

	conn    *dbus.Conn
	props   *prop.Properties
	busName string

	iconEnabled  pixmap
	iconDisabled pixmap

	running bool
}

// New creates a tray toggling gate.
func New(gate *trigger.Gate, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tray{logger: logger, gate: gate}
}

// Start connects to the session bus, exports the item, and registers it
// with the StatusNotifierWatcher. Without a watcher on the bus there is
// nothing to host the icon, which is reported as an error.
func (t *Tray) Start() error {
	var err error
	if t.iconEnabled, err = decodeIcon(iconEnabledPNG); err != nil {
		return err
	}
	if t.iconDisabled, err = decodeIcon(iconDisabledPNG); err != nil {
		return err
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	t.conn = conn

	t.busName = fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid())
	reply, err := conn.RequestName(t.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", t.busName)
	}

	if err := conn.Export(&sniItem{tray: t}, itemPath, itemInterface); err != nil {
		return fmt.Errorf("failed to export item: %w", err)
	}

	t.props, err = prop.Export(conn, itemPath, t.propSpec())
	if err != nil {
		return fmt.Errorf("failed to export item properties: %w", err)
	}

	node := &introspect.Node{
		Name: itemPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name: itemInterface,
				Methods: []introspect.Method{
					{Name: "Activate", Args: []introspect.Arg{
						{Name: "x", Type: "i", Direction: "in"},
						{Name: "y", Type: "i", Direction: "in"},
					}},
					{Name: "SecondaryActivate", Args: []introspect.Arg{
						{Name: "x", Type: "i", Direction: "in"},
						{Name: "y", Type: "i", Direction: "in"},
					}},
					{Name: "Scroll", Args: []introspect.Arg{
						{Name: "delta", Type: "i", Direction: "in"},
						{Name: "orientation", Type: "s", Direction: "in"},
					}},
				},
				Signals: []introspect.Signal{
					{Name: "NewTitle"},
					{Name: "NewIcon"},
					{Name: "NewStatus", Args: []introspect.Arg{{Name: "status", Type: "s"}}},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), itemPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	watcher := conn.Object(watcherBusName, watcherPath)
	call := watcher.Call(watcherInterface+".RegisterStatusNotifierItem", 0, t.busName)
	if call.Err != nil {
		return fmt.Errorf("failed to register with status notifier watcher: %w", call.Err)
	}

	t.running = true
	t.logger.Info("tray item registered", "bus_name", t.busName)
	return nil
}

// Stop releases the item's bus name.
func (t *Tray) Stop() {
	if !t.running {
		return
	}
	t.running = false
	if _, err := t.conn.ReleaseName(t.busName); err != nil {
		t.logger.Warn("failed to release bus name", "error", err)
	}
	// The session bus connection is shared, leave it open.
	t.logger.Debug("tray item stopped")
}

func (t *Tray) propSpec() prop.Map {
	return prop.Map{
		itemInterface: {
			"Category":   {Value: "ApplicationStatus", Emit: prop.EmitTrue},
			"Id":         {Value: "clickd", Emit: prop.EmitTrue},
			"Title":      {Value: titleEnabled, Emit: prop.EmitTrue},
			"Status":     {Value: "Active", Emit: prop.EmitTrue},
			"WindowId":   {Value: int32(0), Emit: prop.EmitTrue},
			"IconName":   {Value: "", Emit: prop.EmitTrue},
			"IconPixmap": {Value: []pixmap{t.iconEnabled}, Emit: prop.EmitTrue},
			"ItemIsMenu": {Value: false, Emit: prop.EmitTrue},
			"Menu":       {Value: dbus.ObjectPath("/"), Emit: prop.EmitTrue},
		},
	}
}

// toggled refreshes the item after the gate flipped.
func (t *Tray) toggled(enabled bool) {
	title := titleDisabled
	icon := t.iconDisabled
	if enabled {
		title = titleEnabled
		icon = t.iconEnabled
	}

	t.props.SetMust(itemInterface, "Title", title)
	t.props.SetMust(itemInterface, "IconPixmap", []pixmap{icon})

	// Hosts re-fetch the properties on these signals.
	if err := t.conn.Emit(itemPath, itemInterface+".NewTitle"); err != nil {
		t.logger.Warn("failed to emit NewTitle", "error", err)
	}
	if err := t.conn.Emit(itemPath, itemInterface+".NewIcon"); err != nil {
		t.logger.Warn("failed to emit NewIcon", "error", err)
	}

	t.logger.Info("playback toggled", "enabled", enabled)
}

// sniItem is the D-Bus-facing object; only the StatusNotifierItem
// methods are exported on it.
type sniItem struct {
	tray *Tray
}

// Activate toggles playback on a primary click of the icon.
func (i *sniItem) Activate(x, y int32) *dbus.Error {
	i.tray.toggled(i.tray.gate.Toggle())
	return nil
}

// SecondaryActivate behaves like Activate, matching how most hosts
// surface middle clicks.
func (i *sniItem) SecondaryActivate(x, y int32) *dbus.Error {
	return i.Activate(x, y)
}

// Scroll is accepted and ignored.
func (i *sniItem) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}
