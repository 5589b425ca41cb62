package main

import "log/slog"

// ledOn is the brightness code the surface expects for a lit LED.
const ledOn uint8 = 127

// ccSendFunc sends one control-change message to the surface.
type ccSendFunc func(control, value uint8) error

// LedController pushes feedback lighting state to the control surface.
// Controls without an LED are silently ignored; that is expected behavior,
// not an error.
type LedController struct {
	send   ccSendFunc
	logger *slog.Logger
}

func NewLedController(send ccSendFunc, logger *slog.Logger) *LedController {
	return &LedController{send: send, logger: logger}
}

// SetLed lights or clears the LED behind a control. Any value above zero
// maps to full brightness, zero turns the LED off.
func (l *LedController) SetLed(control Control, value uint8) {
	if !ledCapable(control) {
		l.logger.Debug("control has no led", "control", control)
		return
	}

	out := uint8(0)
	if value > 0 {
		out = ledOn
	}

	l.logger.Debug("setting led", "control", control, "value", out)
	if err := l.send(uint8(control), out); err != nil {
		l.logger.Warn("led update failed", "control", control, "error", err)
	}
}
