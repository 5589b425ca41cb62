package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

const defaultMaxLevel = 100.0

// ConfigError marks a failure that aborts a whole table build: an unreadable
// config source or a missing keymap section. Everything less severe is
// logged per entry and skipped.
type ConfigError struct {
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %v", e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ActionTable maps controls to their actions. It is immutable after build;
// reloads replace the whole table, never patch it.
type ActionTable struct {
	actions map[Control]Action
}

func (t *ActionTable) Lookup(c Control) (Action, bool) {
	a, ok := t.actions[c]
	return a, ok
}

func (t *ActionTable) Len() int {
	return len(t.actions)
}

// buildEnv carries the live collaborators a table build binds actions to.
type buildEnv struct {
	mixer  Mixer
	keys   KeySink
	leds   *LedController
	run    shellRunner
	logger *slog.Logger
}

// buildTable parses the config source (a path or raw bytes, per ini.Load)
// and compiles the control table. Devices and streams are re-resolved from
// the mixer's current inventory on every call; handles are never reused
// across builds.
//
// Per-entry problems (unknown control, unknown key code, unknown verb,
// unresolved alias) are logged and skipped so one bad entry cannot take the
// valid ones down with it.
func buildTable(source any, env buildEnv) (*ActionTable, error) {
	f, err := ini.Load(source)
	if err != nil {
		return nil, &ConfigError{Cause: fmt.Errorf("load config: %w", err)}
	}

	keymap, err := f.GetSection("keymap")
	if err != nil {
		return nil, &ConfigError{Cause: fmt.Errorf("config has no keymap section")}
	}

	aliases := loadAliasMaps(f)
	devices, streams := resolveInventory(aliases, env)

	actions := make(map[Control]Action, len(keymap.Keys()))
	for _, key := range keymap.Keys() {
		control, ok := controlByName(key.Name())
		if !ok {
			env.logger.Warn("no such control", "control", key.Name())
			continue
		}

		action, err := parseAction(key.Value(), devices, streams, env)
		if err != nil {
			env.logger.Warn("skipping keymap entry", "control", key.Name(), "error", err)
			continue
		}
		actions[control] = action
	}

	return &ActionTable{actions: actions}, nil
}

// loadAliasMaps reads the three optional alias sections. A missing section
// is an empty map.
func loadAliasMaps(f *ini.File) aliasMaps {
	aliases := aliasMaps{
		sinks:   make(map[string]string),
		sources: make(map[string]string),
	}

	if sec, err := f.GetSection("audioinputs"); err == nil {
		for _, key := range sec.Keys() {
			aliases.sources[key.Value()] = key.Name()
		}
	}
	if sec, err := f.GetSection("audiooutputs"); err == nil {
		for _, key := range sec.Keys() {
			aliases.sinks[key.Value()] = key.Name()
		}
	}
	if sec, err := f.GetSection("streams"); err == nil {
		for _, key := range sec.Keys() {
			aliases.streams = append(aliases.streams, streamAlias{suffix: key.Value(), alias: key.Name()})
		}
	}
	return aliases
}

// resolveInventory queries the mixer and resolves the alias maps against it.
// Enumeration failures degrade to an empty inventory: the affected entries
// are skipped during the build, they do not abort it.
func resolveInventory(aliases aliasMaps, env buildEnv) (map[string]AudioDevice, map[string]AudioStream) {
	var sinks, sources []AudioDevice
	var live []AudioStream
	var err error

	if len(aliases.sinks) > 0 {
		if sinks, err = env.mixer.Sinks(); err != nil {
			env.logger.Warn("sink enumeration failed", "error", err)
		}
	}
	if len(aliases.sources) > 0 {
		if sources, err = env.mixer.Sources(); err != nil {
			env.logger.Warn("source enumeration failed", "error", err)
		}
	}
	if len(aliases.streams) > 0 {
		if live, err = env.mixer.Streams(); err != nil {
			env.logger.Warn("stream enumeration failed", "error", err)
		}
	}

	return resolveDevices(sinks, sources, aliases, env.logger),
		resolveStreams(live, aliases, env.logger)
}

// parseAction compiles one action descriptor. Grammar: a bare token names an
// evdev key; otherwise the first token before "/" selects the variant and
// the rest are its parameters.
func parseAction(spec string, devices map[string]AudioDevice, streams map[string]AudioStream, env buildEnv) (Action, error) {
	verb, rest, found := strings.Cut(spec, "/")
	if !found {
		code, ok := resolveKeyCode(verb)
		if !ok {
			return nil, fmt.Errorf("unknown evdev key %q", verb)
		}
		return &keyAction{code: code, keys: env.keys, leds: env.leds, logger: env.logger}, nil
	}

	switch verb {
	case "mute":
		dev, ok := devices[rest]
		if !ok {
			return nil, fmt.Errorf("unresolved device alias %q", rest)
		}
		return &muteAction{device: dev, mixer: env.mixer, leds: env.leds, logger: env.logger, muted: dev.Muted}, nil

	case "volume":
		alias, maxLevel, err := parseVolumeParams(rest)
		if err != nil {
			return nil, err
		}
		dev, ok := devices[alias]
		if !ok {
			return nil, fmt.Errorf("unresolved device alias %q", alias)
		}
		return &volumeAction{device: dev, mixer: env.mixer, logger: env.logger, maxLevel: maxLevel}, nil

	case "volumestr":
		alias, maxLevel, err := parseVolumeParams(rest)
		if err != nil {
			return nil, err
		}
		st, ok := streams[alias]
		if !ok {
			return nil, fmt.Errorf("unresolved stream alias %q", alias)
		}
		return &streamVolumeAction{stream: st, mixer: env.mixer, logger: env.logger, maxLevel: maxLevel}, nil

	case "exec":
		return &execAction{template: rest, run: env.run, logger: env.logger}, nil

	default:
		return nil, fmt.Errorf("unknown action %q", spec)
	}
}

// parseVolumeParams splits "ALIAS" or "ALIAS/MAXLEVEL". The max level is in
// percent and may exceed 100.
func parseVolumeParams(rest string) (string, float64, error) {
	alias, level, found := strings.Cut(rest, "/")
	if !found {
		return alias, defaultMaxLevel, nil
	}
	maxLevel, err := strconv.ParseFloat(level, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad max level %q: %w", level, err)
	}
	return alias, maxLevel, nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
