package main

import (
	"strconv"
	"strings"
)

// Control identifies a physical control on the nanoKONTROL2 surface by its
// MIDI controller number (0-127).
type Control uint8

// controlsByName is the static enumeration of every control the surface
// exposes. Config files refer to controls by these names.
var controlsByName = map[string]Control{
	"TRACK_PREV":  58,
	"TRACK_NEXT":  59,
	"CYCLE":       46,
	"MARKER_SET":  60,
	"MARKER_PREV": 61,
	"MARKER_NEXT": 62,
	"PREV":        43,
	"NEXT":        44,
	"STOP":        42,
	"PLAY":        41,
	"RECORD":      45,

	"PARAM1_SOLO": 32,
	"PARAM2_SOLO": 33,
	"PARAM3_SOLO": 34,
	"PARAM4_SOLO": 35,
	"PARAM5_SOLO": 36,
	"PARAM6_SOLO": 37,
	"PARAM7_SOLO": 38,
	"PARAM8_SOLO": 39,

	"PARAM1_MUTE": 48,
	"PARAM2_MUTE": 49,
	"PARAM3_MUTE": 50,
	"PARAM4_MUTE": 51,
	"PARAM5_MUTE": 52,
	"PARAM6_MUTE": 53,
	"PARAM7_MUTE": 54,
	"PARAM8_MUTE": 55,

	"PARAM1_RECORD": 64,
	"PARAM2_RECORD": 65,
	"PARAM3_RECORD": 66,
	"PARAM4_RECORD": 67,
	"PARAM5_RECORD": 68,
	"PARAM6_RECORD": 69,
	"PARAM7_RECORD": 70,
	"PARAM8_RECORD": 71,

	"PARAM1_SLIDER": 0,
	"PARAM2_SLIDER": 1,
	"PARAM3_SLIDER": 2,
	"PARAM4_SLIDER": 3,
	"PARAM5_SLIDER": 4,
	"PARAM6_SLIDER": 5,
	"PARAM7_SLIDER": 6,
	"PARAM8_SLIDER": 7,

	"PARAM1_KNOB": 16,
	"PARAM2_KNOB": 17,
	"PARAM3_KNOB": 18,
	"PARAM4_KNOB": 19,
	"PARAM5_KNOB": 20,
	"PARAM6_KNOB": 21,
	"PARAM7_KNOB": 22,
	"PARAM8_KNOB": 23,
}

var namesByControl = func() map[Control]string {
	m := make(map[Control]string, len(controlsByName))
	for name, c := range controlsByName {
		m[c] = name
	}
	return m
}()

// ledControls is the fixed set of controls that carry an LED. Sliders and
// knobs have none.
var ledControls = func() map[Control]bool {
	m := make(map[Control]bool, len(controlsByName))
	for name, c := range controlsByName {
		if strings.HasSuffix(name, "_SLIDER") || strings.HasSuffix(name, "_KNOB") {
			continue
		}
		m[c] = true
	}
	return m
}()

func controlByName(name string) (Control, bool) {
	c, ok := controlsByName[name]
	return c, ok
}

func ledCapable(c Control) bool {
	return ledControls[c]
}

// String returns the enumeration name, or the raw controller number for
// controls the surface does not define.
func (c Control) String() string {
	if name, ok := namesByControl[c]; ok {
		return name
	}
	return "CC" + strconv.Itoa(int(c))
}
