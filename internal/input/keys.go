package input

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
)

// buttonNames maps the button/key names accepted in the configuration to
// evdev codes. The table covers the pointer buttons and the common
// keyboard keys; anything else can be given as a raw numeric code.
var buttonNames = map[string]evdev.EvCode{
	"BTN_LEFT":    evdev.BTN_LEFT,
	"BTN_RIGHT":   evdev.BTN_RIGHT,
	"BTN_MIDDLE":  evdev.BTN_MIDDLE,
	"BTN_SIDE":    evdev.BTN_SIDE,
	"BTN_EXTRA":   evdev.BTN_EXTRA,
	"BTN_FORWARD": evdev.BTN_FORWARD,
	"BTN_BACK":    evdev.BTN_BACK,
	"BTN_TASK":    evdev.BTN_TASK,
	"BTN_TOUCH":   evdev.BTN_TOUCH,

	"KEY_ESC":       evdev.KEY_ESC,
	"KEY_TAB":       evdev.KEY_TAB,
	"KEY_ENTER":     evdev.KEY_ENTER,
	"KEY_SPACE":     evdev.KEY_SPACE,
	"KEY_BACKSPACE": evdev.KEY_BACKSPACE,
	"KEY_CAPSLOCK":  evdev.KEY_CAPSLOCK,

	"KEY_LEFTCTRL":   evdev.KEY_LEFTCTRL,
	"KEY_RIGHTCTRL":  evdev.KEY_RIGHTCTRL,
	"KEY_LEFTSHIFT":  evdev.KEY_LEFTSHIFT,
	"KEY_RIGHTSHIFT": evdev.KEY_RIGHTSHIFT,
	"KEY_LEFTALT":    evdev.KEY_LEFTALT,
	"KEY_RIGHTALT":   evdev.KEY_RIGHTALT,
	"KEY_LEFTMETA":   evdev.KEY_LEFTMETA,
	"KEY_RIGHTMETA":  evdev.KEY_RIGHTMETA,

	"KEY_UP":       evdev.KEY_UP,
	"KEY_DOWN":     evdev.KEY_DOWN,
	"KEY_LEFT":     evdev.KEY_LEFT,
	"KEY_RIGHT":    evdev.KEY_RIGHT,
	"KEY_HOME":     evdev.KEY_HOME,
	"KEY_END":      evdev.KEY_END,
	"KEY_PAGEUP":   evdev.KEY_PAGEUP,
	"KEY_PAGEDOWN": evdev.KEY_PAGEDOWN,
	"KEY_INSERT":   evdev.KEY_INSERT,
	"KEY_DELETE":   evdev.KEY_DELETE,

	"KEY_MINUS":      evdev.KEY_MINUS,
	"KEY_EQUAL":      evdev.KEY_EQUAL,
	"KEY_SEMICOLON":  evdev.KEY_SEMICOLON,
	"KEY_APOSTROPHE": evdev.KEY_APOSTROPHE,
	"KEY_GRAVE":      evdev.KEY_GRAVE,
	"KEY_COMMA":      evdev.KEY_COMMA,
	"KEY_DOT":        evdev.KEY_DOT,
	"KEY_SLASH":      evdev.KEY_SLASH,
	"KEY_BACKSLASH":  evdev.KEY_BACKSLASH,

	"KEY_A": evdev.KEY_A, "KEY_B": evdev.KEY_B, "KEY_C": evdev.KEY_C,
	"KEY_D": evdev.KEY_D, "KEY_E": evdev.KEY_E, "KEY_F": evdev.KEY_F,
	"KEY_G": evdev.KEY_G, "KEY_H": evdev.KEY_H, "KEY_I": evdev.KEY_I,
	"KEY_J": evdev.KEY_J, "KEY_K": evdev.KEY_K, "KEY_L": evdev.KEY_L,
	"KEY_M": evdev.KEY_M, "KEY_N": evdev.KEY_N, "KEY_O": evdev.KEY_O,
	"KEY_P": evdev.KEY_P, "KEY_Q": evdev.KEY_Q, "KEY_R": evdev.KEY_R,
	"KEY_S": evdev.KEY_S, "KEY_T": evdev.KEY_T, "KEY_U": evdev.KEY_U,
	"KEY_V": evdev.KEY_V, "KEY_W": evdev.KEY_W, "KEY_X": evdev.KEY_X,
	"KEY_Y": evdev.KEY_Y, "KEY_Z": evdev.KEY_Z,

	"KEY_0": evdev.KEY_0, "KEY_1": evdev.KEY_1, "KEY_2": evdev.KEY_2,
	"KEY_3": evdev.KEY_3, "KEY_4": evdev.KEY_4, "KEY_5": evdev.KEY_5,
	"KEY_6": evdev.KEY_6, "KEY_7": evdev.KEY_7, "KEY_8": evdev.KEY_8,
	"KEY_9": evdev.KEY_9,

	"KEY_F1": evdev.KEY_F1, "KEY_F2": evdev.KEY_F2, "KEY_F3": evdev.KEY_F3,
	"KEY_F4": evdev.KEY_F4, "KEY_F5": evdev.KEY_F5, "KEY_F6": evdev.KEY_F6,
	"KEY_F7": evdev.KEY_F7, "KEY_F8": evdev.KEY_F8, "KEY_F9": evdev.KEY_F9,
	"KEY_F10": evdev.KEY_F10, "KEY_F11": evdev.KEY_F11, "KEY_F12": evdev.KEY_F12,
}

// ParseButton resolves a configured button name to its evdev code.
// Accepts the BTN_*/KEY_* names from the table above (case-insensitive)
// or a raw numeric code.
func ParseButton(name string) (evdev.EvCode, error) {
	if code, ok := buttonNames[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return code, nil
	}
	if n, err := strconv.ParseUint(strings.TrimSpace(name), 0, 16); err == nil {
		return evdev.EvCode(n), nil
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

// ButtonSet is the set of key codes that trigger playback.
type ButtonSet map[evdev.EvCode]struct{}

// DefaultButtonSet returns the default trigger set: the primary pointer
// button.
func DefaultButtonSet() ButtonSet {
	return ButtonSet{evdev.BTN_LEFT: {}}
}

// ParseButtonSet resolves the configured button names. An empty list
// yields the default set.
func ParseButtonSet(names []string) (ButtonSet, error) {
	if len(names) == 0 {
		return DefaultButtonSet(), nil
	}
	set := make(ButtonSet, len(names))
	for _, name := range names {
		code, err := ParseButton(name)
		if err != nil {
			return nil, err
		}
		set[code] = struct{}{}
	}
	return set, nil
}

// Contains reports whether code is in the set.
func (s ButtonSet) Contains(code evdev.EvCode) bool {
	_, ok := s[code]
	return ok
}

// IntersectsAny reports whether any of codes is in the set.
func (s ButtonSet) IntersectsAny(codes []evdev.EvCode) bool {
	for _, code := range codes {
		if s.Contains(code) {
			return true
		}
	}
	return false
}

// String renders the set for log lines, names resolved where known.
func (s ButtonSet) String() string {
	names := make([]string, 0, len(s))
	for code := range s {
		names = append(names, buttonName(code))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func buttonName(code evdev.EvCode) string {
	for name, c := range buttonNames {
		if c == code {
			return name
		}
	}
	return strconv.Itoa(int(code))
}
