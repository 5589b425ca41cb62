package main

import (
	"bytes"
	"testing"
)

func TestPrintDevices(t *testing.T) {
	mixer := testInventoryMixer()

	var out bytes.Buffer
	if err := printDevices(&out, mixer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "output: alsa_output.usb-dac.analog-stereo\n" +
		"input: alsa_input.usb-mic.analog-stereo\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestPrintYouTubeStreams(t *testing.T) {
	mixer := newFakeMixer()
	mixer.streams = []AudioStream{
		{Index: 5, Name: "Spotify"},
		{Index: 7, Name: "cat videos - YouTube"},
		{Index: 9, Name: "focus mix - YouTube Music"},
	}

	var out bytes.Buffer
	if err := printYouTubeStreams(&out, mixer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "YouTube streams: [7]\nYouTube Music streams: [9]\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
}
