package main

import (
	"fmt"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
)

// midiPorts bundles the opened input and output ports of the surface.
type midiPorts struct {
	send func(msg midi.Message) error
	stop func()
}

// openMidi opens both directions of the named surface and starts the
// listener. Control-change messages become ControlEvents on the channel;
// everything else is logged and discarded. The listener callback is the only
// producer, the dispatch loop the only consumer.
func openMidi(portName string, events chan<- ControlEvent, logger *slog.Logger) (*midiPorts, error) {
	in, err := midi.FindInPort(portName)
	if err != nil {
		return nil, fmt.Errorf("midi input %q: %w", portName, err)
	}
	out, err := midi.FindOutPort(portName)
	if err != nil {
		return nil, fmt.Errorf("midi output %q: %w", portName, err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open midi output %q: %w", portName, err)
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		var ch, cc, val uint8
		if msg.GetControlChange(&ch, &cc, &val) {
			events <- ControlEvent{Control: Control(cc), Value: val}
		} else {
			logger.Debug("ignoring midi message", "type", msg.Type().String())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listen on %q: %w", portName, err)
	}

	logger.Info("midi ports open", "port", in.String())
	return &midiPorts{send: send, stop: stop}, nil
}

// sendCC sends one control-change message back to the surface (LED feedback).
func (m *midiPorts) sendCC(control, value uint8) error {
	return m.send(midi.ControlChange(0, control, value))
}

func (m *midiPorts) Close() {
	m.stop()
}
