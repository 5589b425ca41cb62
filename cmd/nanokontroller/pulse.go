package main

import (
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
)

// DeviceKind distinguishes playback devices from capture devices.
type DeviceKind int

const (
	DeviceSink DeviceKind = iota
	DeviceSource
)

// AudioDevice is a live handle to a mixer sink or source. The index is only
// valid for the snapshot it came from; devices may vanish between snapshots.
type AudioDevice struct {
	Kind     DeviceKind
	Index    uint32
	Name     string
	Channels int
	Muted    bool
}

// AudioStream is a live handle to one application playback stream.
type AudioStream struct {
	Index    uint32
	Name     string
	Channels int
}

// Mixer is the audio-mixer collaborator: enumerate devices and application
// streams, write volume and mute state. Volumes are linear, 1.0 = 100%.
type Mixer interface {
	Sinks() ([]AudioDevice, error)
	Sources() ([]AudioDevice, error)
	Streams() ([]AudioStream, error)
	SetDeviceVolume(dev AudioDevice, volume float64) error
	SetDeviceMute(dev AudioDevice, mute bool) error
	SetStreamVolume(st AudioStream, volume float64) error
	Close() error
}

// pulseMixer talks to PulseAudio over its native protocol.
type pulseMixer struct {
	client *proto.Client
	conn   net.Conn
}

func newPulseMixer() (*pulseMixer, error) {
	client, conn, err := proto.Connect("")
	if err != nil {
		return nil, fmt.Errorf("connect to pulseaudio: %w", err)
	}

	props := proto.PropList{
		"application.name": proto.PropListString("nanokontroller"),
	}
	if err := client.Request(&proto.SetClientName{Props: props}, &proto.SetClientNameReply{}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set client name: %w", err)
	}

	return &pulseMixer{client: client, conn: conn}, nil
}

func (p *pulseMixer) Sinks() ([]AudioDevice, error) {
	var reply proto.GetSinkInfoListReply
	if err := p.client.Request(&proto.GetSinkInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}

	devs := make([]AudioDevice, 0, len(reply))
	for _, s := range reply {
		devs = append(devs, AudioDevice{
			Kind:     DeviceSink,
			Index:    s.SinkIndex,
			Name:     s.SinkName,
			Channels: len(s.ChannelVolumes),
			Muted:    s.Mute,
		})
	}
	return devs, nil
}

func (p *pulseMixer) Sources() ([]AudioDevice, error) {
	var reply proto.GetSourceInfoListReply
	if err := p.client.Request(&proto.GetSourceInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	devs := make([]AudioDevice, 0, len(reply))
	for _, s := range reply {
		devs = append(devs, AudioDevice{
			Kind:     DeviceSource,
			Index:    s.SourceIndex,
			Name:     s.SourceName,
			Channels: len(s.ChannelVolumes),
			Muted:    s.Mute,
		})
	}
	return devs, nil
}

func (p *pulseMixer) Streams() ([]AudioStream, error) {
	var reply proto.GetSinkInputInfoListReply
	if err := p.client.Request(&proto.GetSinkInputInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}

	streams := make([]AudioStream, 0, len(reply))
	for _, s := range reply {
		streams = append(streams, AudioStream{
			Index:    s.SinkInputIndex,
			Name:     s.MediaName,
			Channels: len(s.ChannelVolumes),
		})
	}
	return streams, nil
}

func (p *pulseMixer) SetDeviceVolume(dev AudioDevice, volume float64) error {
	vols := channelVolumes(dev.Channels, volume)
	switch dev.Kind {
	case DeviceSource:
		if err := p.client.Request(&proto.SetSourceVolume{SourceIndex: dev.Index, ChannelVolumes: vols}, nil); err != nil {
			return fmt.Errorf("set volume of source %q: %w", dev.Name, err)
		}
	default:
		if err := p.client.Request(&proto.SetSinkVolume{SinkIndex: dev.Index, ChannelVolumes: vols}, nil); err != nil {
			return fmt.Errorf("set volume of sink %q: %w", dev.Name, err)
		}
	}
	return nil
}

func (p *pulseMixer) SetDeviceMute(dev AudioDevice, mute bool) error {
	switch dev.Kind {
	case DeviceSource:
		if err := p.client.Request(&proto.SetSourceMute{SourceIndex: dev.Index, Mute: mute}, nil); err != nil {
			return fmt.Errorf("set mute of source %q: %w", dev.Name, err)
		}
	default:
		if err := p.client.Request(&proto.SetSinkMute{SinkIndex: dev.Index, Mute: mute}, nil); err != nil {
			return fmt.Errorf("set mute of sink %q: %w", dev.Name, err)
		}
	}
	return nil
}

func (p *pulseMixer) SetStreamVolume(st AudioStream, volume float64) error {
	vols := channelVolumes(st.Channels, volume)
	if err := p.client.Request(&proto.SetSinkInputVolume{SinkInputIndex: st.Index, ChannelVolumes: vols}, nil); err != nil {
		return fmt.Errorf("set volume of stream %q: %w", st.Name, err)
	}
	return nil
}

func (p *pulseMixer) Close() error {
	return p.conn.Close()
}

// channelVolumes spreads one linear volume uniformly over all channels.
// Values above 1.0 are allowed (boost beyond 100%).
func channelVolumes(channels int, volume float64) proto.ChannelVolumes {
	if channels <= 0 {
		channels = 2
	}
	if volume < 0 {
		volume = 0
	}
	v := uint32(volume * float64(proto.VolumeNorm))

	vols := make(proto.ChannelVolumes, channels)
	for i := range vols {
		vols[i] = v
	}
	return vols
}
