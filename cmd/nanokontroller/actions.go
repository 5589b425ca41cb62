package main

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
)

// fullPress is the value a surface button reports when fully pressed.
const fullPress uint8 = 127

// Action handles one control's events. Invoke either succeeds or returns an
// *ActionError; it must never panic or kill the loop.
type Action interface {
	Invoke(control Control, value uint8) error
}

// ActionError marks a runtime invocation failure, typically an external
// resource that disappeared. It is the only error class that triggers a
// control-table rebuild.
type ActionError struct {
	Control Control
	Cause   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action for %s failed: %v", e.Control, e.Cause)
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}

func actionFailed(control Control, err error) error {
	return &ActionError{Control: control, Cause: err}
}

// ----------------------------------------------------------------------------
// Key emit
// ----------------------------------------------------------------------------

// keyAction injects a synthesized key event. The raw MIDI value maps to key
// state by integer division: value/126, so 126 and 127 press and everything
// below releases.
type keyAction struct {
	code   evdev.EvCode
	keys   KeySink
	leds   *LedController
	logger *slog.Logger
}

func (a *keyAction) Invoke(control Control, value uint8) error {
	state := int32(value / 126)
	a.logger.Debug("emitting key", "control", control, "value", value, "code", a.code, "state", state)

	if err := a.keys.EmitKey(a.code, state); err != nil {
		return actionFailed(control, err)
	}
	a.leds.SetLed(control, value)
	if err := a.keys.Sync(); err != nil {
		return actionFailed(control, err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Mute toggle
// ----------------------------------------------------------------------------

// muteAction toggles a device's mute state on full presses. It tracks the
// last-known state itself, seeded from the device at construction time.
// Partial presses are ignored: this is a button, not a continuous control.
type muteAction struct {
	device AudioDevice
	mixer  Mixer
	leds   *LedController
	logger *slog.Logger
	muted  bool
}

func (a *muteAction) Invoke(control Control, value uint8) error {
	if value != fullPress {
		return nil
	}

	a.muted = !a.muted
	a.logger.Debug("toggling mute", "control", control, "device", a.device.Name, "muted", a.muted)
	if err := a.mixer.SetDeviceMute(a.device, a.muted); err != nil {
		a.muted = !a.muted
		return actionFailed(control, err)
	}

	if a.muted {
		a.leds.SetLed(control, 1)
	} else {
		a.leds.SetLed(control, 0)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Device volume
// ----------------------------------------------------------------------------

// volumeAction writes the device volume on every event, no debouncing.
// maxLevel is in percent; values above 100 allow boost.
type volumeAction struct {
	device   AudioDevice
	mixer    Mixer
	logger   *slog.Logger
	maxLevel float64
}

func (a *volumeAction) Invoke(control Control, value uint8) error {
	vol := scaleVolume(value, a.maxLevel)
	a.logger.Debug("setting device volume", "control", control, "device", a.device.Name, "volume", vol)
	if err := a.mixer.SetDeviceVolume(a.device, vol); err != nil {
		return actionFailed(control, err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Stream volume
// ----------------------------------------------------------------------------

// streamVolumeAction is volumeAction against one application stream. The
// stream handle goes stale when the application closes it; the resulting
// ActionError is what drives the table rebuild.
type streamVolumeAction struct {
	stream   AudioStream
	mixer    Mixer
	logger   *slog.Logger
	maxLevel float64
}

func (a *streamVolumeAction) Invoke(control Control, value uint8) error {
	vol := scaleVolume(value, a.maxLevel)
	a.logger.Debug("setting stream volume", "control", control, "stream", a.stream.Name, "volume", vol)
	if err := a.mixer.SetStreamVolume(a.stream, vol); err != nil {
		return actionFailed(control, err)
	}
	return nil
}

func scaleVolume(value uint8, maxLevel float64) float64 {
	return (float64(value) / 127.0) * (maxLevel / 100.0)
}

// ----------------------------------------------------------------------------
// Shell exec
// ----------------------------------------------------------------------------

// shellRunner starts a shell command without waiting for it to finish.
type shellRunner func(command string) error

// newShellRunner returns the real fire-and-forget runner. The child is
// reaped in the background; its exit status is only logged.
func newShellRunner(logger *slog.Logger) shellRunner {
	return func(command string) error {
		cmd := exec.Command("/bin/sh", "-c", command)
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				logger.Debug("command exited", "command", command, "error", err)
			}
		}()
		return nil
	}
}

// execAction runs a shell command template with the control id and value
// substituted in.
type execAction struct {
	template string
	run      shellRunner
	logger   *slog.Logger
}

func (a *execAction) Invoke(control Control, value uint8) error {
	command := formatCommand(a.template, control, value)
	a.logger.Debug("executing command", "control", control, "command", command)
	if err := a.run(command); err != nil {
		return actionFailed(control, err)
	}
	return nil
}

func formatCommand(template string, control Control, value uint8) string {
	return strings.NewReplacer(
		"{NK_KEY_ID}", strconv.Itoa(int(control)),
		"{NK_KEY_VALUE}", strconv.Itoa(int(value)),
	).Replace(template)
}
