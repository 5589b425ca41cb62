package main

import (
	"errors"
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestKeyActionPressThreshold(t *testing.T) {
	play, _ := controlByName("PLAY")

	// value/126 truncated: 126 and 127 press, everything below releases.
	cases := []struct {
		value uint8
		state int32
	}{
		{127, 1},
		{126, 1},
		{125, 0},
		{64, 0},
		{0, 0},
	}

	for _, tc := range cases {
		keys := &fakeKeySink{}
		leds, port := testLeds()
		action := &keyAction{code: evdev.KEY_PLAYPAUSE, keys: keys, leds: leds, logger: testLogger()}

		if err := action.Invoke(play, tc.value); err != nil {
			t.Fatalf("value %d: unexpected error: %v", tc.value, err)
		}

		if len(keys.events) != 1 {
			t.Fatalf("value %d: expected 1 key event, got %d", tc.value, len(keys.events))
		}
		ev := keys.events[0]
		if ev.code != evdev.KEY_PLAYPAUSE || ev.value != tc.state {
			t.Errorf("value %d: emitted (%v, %d), want (%v, %d)", tc.value, ev.code, ev.value, evdev.KEY_PLAYPAUSE, tc.state)
		}
		if keys.syncs != 1 {
			t.Errorf("value %d: expected 1 sync, got %d", tc.value, keys.syncs)
		}
		if len(port.sent) != 1 {
			t.Errorf("value %d: expected led update, got %d messages", tc.value, len(port.sent))
		}
	}
}

func TestKeyActionEmitFailure(t *testing.T) {
	play, _ := controlByName("PLAY")
	keys := &fakeKeySink{emitErr: errors.New("uinput gone")}
	leds, _ := testLeds()
	action := &keyAction{code: evdev.KEY_PLAYPAUSE, keys: keys, leds: leds, logger: testLogger()}

	err := action.Invoke(play, 127)
	var actionErr *ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
	if actionErr.Control != play {
		t.Errorf("error control = %v, want %v", actionErr.Control, play)
	}
}

func TestMuteActionToggleParity(t *testing.T) {
	mute, _ := controlByName("PARAM1_MUTE")
	mixer := newFakeMixer()
	leds, _ := testLeds()
	dev := AudioDevice{Kind: DeviceSink, Index: 3, Name: "out", Channels: 2}

	action := &muteAction{device: dev, mixer: mixer, leds: leds, logger: testLogger(), muted: false}

	// 127 toggles, anything lower leaves state unchanged.
	steps := []struct {
		value uint8
		muted bool
	}{
		{127, true},
		{64, true},
		{127, false},
		{126, false},
		{0, false},
		{127, true},
		{127, false},
	}

	for i, step := range steps {
		if err := action.Invoke(mute, step.value); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if action.muted != step.muted {
			t.Fatalf("step %d (value %d): muted = %v, want %v", i, step.value, action.muted, step.muted)
		}
	}

	// An even number of full presses restored the original state.
	if mixer.deviceMutes["out"] {
		t.Error("device should be unmuted after an even number of full presses")
	}
}

func TestMuteActionPartialPressWritesNothing(t *testing.T) {
	mute, _ := controlByName("PARAM1_MUTE")
	mixer := newFakeMixer()
	leds, port := testLeds()
	dev := AudioDevice{Kind: DeviceSink, Index: 3, Name: "out", Channels: 2}
	action := &muteAction{device: dev, mixer: mixer, leds: leds, logger: testLogger()}

	if err := action.Invoke(mute, 126); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mixer.deviceMutes) != 0 {
		t.Error("partial press must not touch the mixer")
	}
	if len(port.sent) != 0 {
		t.Error("partial press must not touch the leds")
	}
}

func TestMuteActionMixerFailureRevertsState(t *testing.T) {
	mute, _ := controlByName("PARAM1_MUTE")
	mixer := newFakeMixer()
	mixer.deviceMuteErr = errors.New("device gone")
	leds, _ := testLeds()
	action := &muteAction{device: AudioDevice{Name: "out"}, mixer: mixer, leds: leds, logger: testLogger(), muted: false}

	err := action.Invoke(mute, 127)
	var actionErr *ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
	if action.muted {
		t.Error("failed toggle must not keep the flipped state")
	}
}

func TestVolumeActionFormula(t *testing.T) {
	slider, _ := controlByName("PARAM1_SLIDER")

	cases := []struct {
		value    uint8
		maxLevel float64
		want     float64
	}{
		{127, 100, 1.0},
		{0, 100, 0.0},
		{127, 50, 0.5},
		{127, 150, 1.5},
	}

	for _, tc := range cases {
		mixer := newFakeMixer()
		action := &volumeAction{
			device:   AudioDevice{Kind: DeviceSink, Index: 1, Name: "out", Channels: 2},
			mixer:    mixer,
			logger:   testLogger(),
			maxLevel: tc.maxLevel,
		}

		if err := action.Invoke(slider, tc.value); err != nil {
			t.Fatalf("value %d: unexpected error: %v", tc.value, err)
		}
		if got := mixer.deviceVolumes["out"]; got != tc.want {
			t.Errorf("value %d, max %v: volume = %v, want %v", tc.value, tc.maxLevel, got, tc.want)
		}
	}
}

func TestStreamVolumeActionStaleHandle(t *testing.T) {
	slider, _ := controlByName("PARAM2_SLIDER")
	mixer := newFakeMixer()
	mixer.streamVolumeErr = errors.New("no such entity")

	action := &streamVolumeAction{
		stream:   AudioStream{Index: 77, Name: "some tab - YouTube", Channels: 2},
		mixer:    mixer,
		logger:   testLogger(),
		maxLevel: defaultMaxLevel,
	}

	err := action.Invoke(slider, 64)
	var actionErr *ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("stale stream must surface as *ActionError, got %v", err)
	}
}

func TestExecActionFormatsTemplate(t *testing.T) {
	var commands []string
	run := func(command string) error {
		commands = append(commands, command)
		return nil
	}
	action := &execAction{template: "echo {NK_KEY_ID}-{NK_KEY_VALUE}", run: run, logger: testLogger()}

	if err := action.Invoke(Control(44), 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(commands) != 1 || commands[0] != "echo 44-100" {
		t.Fatalf("commands = %q, want [\"echo 44-100\"]", commands)
	}
}

func TestExecActionStartFailure(t *testing.T) {
	run := func(string) error { return errors.New("fork failed") }
	action := &execAction{template: "true", run: run, logger: testLogger()}

	err := action.Invoke(Control(44), 0)
	var actionErr *ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected *ActionError, got %v", err)
	}
}
