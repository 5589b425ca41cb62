package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

const version = "1.0.0"

const defaultConfigPath = "~/.config/nanoKontroller.ini"

func main() {
	var (
		debug       = flag.BoolP("debug", "d", false, "enable debug output")
		configPath  = flag.StringP("config", "c", defaultConfigPath, "path to config file")
		listDevices = flag.BoolP("list-devices", "l", false, "list all mixer devices and exit")
		listStreams = flag.BoolP("list-streams", "s", false, "list YouTube / YouTube Music stream indices and exit")
		midiPort    = flag.StringP("midi-port", "m", "nanoKONTROL2", "name of the MIDI port to bind")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("nanokontroller v%s\n", version)
		return
	}

	logger := setupLogger(*debug)
	logger.Debug("starting up", "version", version)

	// Utility modes and the daemon proper all need the mixer first; if it is
	// unreachable there is nothing useful to do.
	mixer, err := newPulseMixer()
	if err != nil {
		logger.Error("failed to connect to mixer", "error", err)
		os.Exit(1)
	}
	defer mixer.Close()

	if *listDevices {
		if err := printDevices(os.Stdout, mixer); err != nil {
			logger.Error("device listing failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if *listStreams {
		if err := printYouTubeStreams(os.Stdout, mixer); err != nil {
			logger.Error("stream listing failed", "error", err)
			os.Exit(1)
		}
		return
	}

	keys, err := newUinputSink()
	if err != nil {
		logger.Error("failed to open uinput device", "error", err, "tip", "run as root or add user to the 'input' group")
		os.Exit(1)
	}
	defer keys.Close()

	events := make(chan ControlEvent, 64)
	ports, err := openMidi(*midiPort, events, logger)
	if err != nil {
		logger.Error("failed to open midi ports", "error", err)
		os.Exit(1)
	}
	defer ports.Close()
	defer midi.CloseDriver()

	leds := NewLedController(ports.sendCC, logger)
	cfgPath := ExpandPath(*configPath)
	env := buildEnv{
		mixer:  mixer,
		keys:   keys,
		leds:   leds,
		run:    newShellRunner(logger),
		logger: logger,
	}
	rebuild := func() (*ActionTable, error) {
		return buildTable(cfgPath, env)
	}

	table, err := rebuild()
	if err != nil {
		logger.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	logger.Info("control table ready", "entries", table.Len(), "config", cfgPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	runLoop(ctx, events, reload, table, rebuild, logger)
}

// printDevices dumps the mixer inventory in config-ready form.
func printDevices(w io.Writer, mixer Mixer) error {
	sinks, err := mixer.Sinks()
	if err != nil {
		return err
	}
	for _, dev := range sinks {
		fmt.Fprintf(w, "output: %s\n", dev.Name)
	}

	sources, err := mixer.Sources()
	if err != nil {
		return err
	}
	for _, dev := range sources {
		fmt.Fprintf(w, "input: %s\n", dev.Name)
	}
	return nil
}

// printYouTubeStreams prints the indices of application streams that look
// like YouTube or YouTube Music tabs.
func printYouTubeStreams(w io.Writer, mixer Mixer) error {
	streams, err := mixer.Streams()
	if err != nil {
		return err
	}

	var youtube, youtubeMusic []uint32
	for _, st := range streams {
		switch {
		case strings.HasSuffix(st.Name, "YouTube Music"):
			youtubeMusic = append(youtubeMusic, st.Index)
		case strings.HasSuffix(st.Name, "- YouTube"):
			youtube = append(youtube, st.Index)
		}
	}

	fmt.Fprintf(w, "YouTube streams: %v\n", youtube)
	fmt.Fprintf(w, "YouTube Music streams: %v\n", youtubeMusic)
	return nil
}
