package main

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

// KeySink is the synthesized-input collaborator: it accepts key events and
// an explicit sync that flushes the batch to the kernel.
type KeySink interface {
	EmitKey(code evdev.EvCode, value int32) error
	Sync() error
	Close() error
}

// uinputSink emits key events through a virtual uinput keyboard.
type uinputSink struct {
	dev *evdev.InputDevice
}

func newUinputSink() (*uinputSink, error) {
	// Advertise every known key code so any mappable key can be emitted.
	keys := make([]evdev.EvCode, 0, len(evdev.KEYFromString))
	for _, code := range evdev.KEYFromString {
		keys = append(keys, code)
	}

	dev, err := evdev.CreateDevice(
		"nanokontroller",
		evdev.InputID{BusType: 0x03, Vendor: 0x1d6b, Product: 0x0104, Version: 1},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: keys,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return &uinputSink{dev: dev}, nil
}

func (u *uinputSink) EmitKey(code evdev.EvCode, value int32) error {
	return u.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value})
}

func (u *uinputSink) Sync() error {
	return u.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0})
}

func (u *uinputSink) Close() error {
	return u.dev.Close()
}

// resolveKeyCode maps an evdev key name from the config (e.g. KEY_PLAYPAUSE)
// to its code.
func resolveKeyCode(name string) (evdev.EvCode, bool) {
	code, ok := evdev.KEYFromString[name]
	return code, ok
}
