package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/holoplot/go-evdev"
)

var errSendFailed = errors.New("send failed")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMixer is a test double for the Mixer collaborator. It records every
// write and can be loaded with an inventory and injected failures.
type fakeMixer struct {
	sinks   []AudioDevice
	sources []AudioDevice
	streams []AudioStream

	sinksErr   error
	sourcesErr error
	streamsErr error

	deviceVolumes map[string]float64
	deviceMutes   map[string]bool
	streamVolumes map[uint32]float64

	deviceVolumeErr error
	deviceMuteErr   error
	streamVolumeErr error
}

func newFakeMixer() *fakeMixer {
	return &fakeMixer{
		deviceVolumes: make(map[string]float64),
		deviceMutes:   make(map[string]bool),
		streamVolumes: make(map[uint32]float64),
	}
}

func (m *fakeMixer) Sinks() ([]AudioDevice, error)   { return m.sinks, m.sinksErr }
func (m *fakeMixer) Sources() ([]AudioDevice, error) { return m.sources, m.sourcesErr }
func (m *fakeMixer) Streams() ([]AudioStream, error) { return m.streams, m.streamsErr }

func (m *fakeMixer) SetDeviceVolume(dev AudioDevice, volume float64) error {
	if m.deviceVolumeErr != nil {
		return m.deviceVolumeErr
	}
	m.deviceVolumes[dev.Name] = volume
	return nil
}

func (m *fakeMixer) SetDeviceMute(dev AudioDevice, mute bool) error {
	if m.deviceMuteErr != nil {
		return m.deviceMuteErr
	}
	m.deviceMutes[dev.Name] = mute
	return nil
}

func (m *fakeMixer) SetStreamVolume(st AudioStream, volume float64) error {
	if m.streamVolumeErr != nil {
		return m.streamVolumeErr
	}
	m.streamVolumes[st.Index] = volume
	return nil
}

func (m *fakeMixer) Close() error { return nil }

// fakeKeySink records synthesized key events.
type fakeKeySink struct {
	events []keyEvent
	syncs  int

	emitErr error
	syncErr error
}

type keyEvent struct {
	code  evdev.EvCode
	value int32
}

func (k *fakeKeySink) EmitKey(code evdev.EvCode, value int32) error {
	if k.emitErr != nil {
		return k.emitErr
	}
	k.events = append(k.events, keyEvent{code: code, value: value})
	return nil
}

func (k *fakeKeySink) Sync() error {
	if k.syncErr != nil {
		return k.syncErr
	}
	k.syncs++
	return nil
}

func (k *fakeKeySink) Close() error { return nil }

// fakeLedPort records control-change messages sent as LED feedback.
type fakeLedPort struct {
	sent []ccMessage
	err  error
}

type ccMessage struct {
	control uint8
	value   uint8
}

func (p *fakeLedPort) send(control, value uint8) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, ccMessage{control: control, value: value})
	return nil
}

func testLeds() (*LedController, *fakeLedPort) {
	port := &fakeLedPort{}
	return NewLedController(port.send, testLogger()), port
}

func testBuildEnv(mixer Mixer) (buildEnv, *fakeKeySink, *fakeLedPort, *[]string) {
	keys := &fakeKeySink{}
	leds, port := testLeds()
	var commands []string
	run := func(command string) error {
		commands = append(commands, command)
		return nil
	}
	env := buildEnv{
		mixer:  mixer,
		keys:   keys,
		leds:   leds,
		run:    run,
		logger: testLogger(),
	}
	return env, keys, port, &commands
}
