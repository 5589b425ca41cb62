package main

import (
	"log/slog"
	"strings"
)

// streamAlias binds one configured name suffix to an alias. Order matters:
// suffixes are tried in config-file order.
type streamAlias struct {
	suffix string
	alias  string
}

// aliasMaps holds the name bindings parsed from the config file. They are
// only used while building a control table and are not retained afterwards.
type aliasMaps struct {
	sinks   map[string]string // sink name -> alias
	sources map[string]string // source name -> alias
	streams []streamAlias
}

// resolveDevices matches the mixer's current sinks and sources against the
// configured names. Exact name equality; unmatched devices are ignored.
func resolveDevices(sinks, sources []AudioDevice, aliases aliasMaps, logger *slog.Logger) map[string]AudioDevice {
	devices := make(map[string]AudioDevice)

	for _, dev := range sinks {
		if alias, ok := aliases.sinks[dev.Name]; ok {
			logger.Debug("found sink", "alias", alias, "name", dev.Name)
			devices[alias] = dev
		}
	}
	for _, dev := range sources {
		if alias, ok := aliases.sources[dev.Name]; ok {
			logger.Debug("found source", "alias", alias, "name", dev.Name)
			devices[alias] = dev
		}
	}
	return devices
}

// resolveStreams matches live application streams against the configured
// name suffixes. For each stream the first configured suffix that matches
// wins, and an alias binds to the first matching stream in inventory order.
// This keeps resolution deterministic when several suffixes or streams
// could match.
func resolveStreams(live []AudioStream, aliases aliasMaps, logger *slog.Logger) map[string]AudioStream {
	streams := make(map[string]AudioStream)

	for _, st := range live {
		for _, sa := range aliases.streams {
			if !strings.HasSuffix(st.Name, sa.suffix) {
				continue
			}
			if _, bound := streams[sa.alias]; !bound {
				logger.Debug("found stream", "alias", sa.alias, "name", st.Name, "index", st.Index)
				streams[sa.alias] = st
			}
			break
		}
	}

	if len(aliases.streams) > 0 && len(streams) == 0 {
		logger.Warn("no configured streams found")
	}
	return streams
}
