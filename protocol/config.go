/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// NetworkTransport selects the wire transport a Config section names;
// this package only reads the value, it never opens a socket.
type NetworkTransport uint8

const (
	NetworkTransportUDPv4 NetworkTransport = iota
	NetworkTransportUDPv6
	NetworkTransportL2
)

func (t NetworkTransport) String() string {
	switch t {
	case NetworkTransportUDPv4:
		return "UDPv4"
	case NetworkTransportUDPv6:
		return "UDPv6"
	case NetworkTransportL2:
		return "L2"
	default:
		return "UDPv4"
	}
}

// Config is the subset of a ptp4l-style config file this package
// consumes (it never owns the file: a caller reads it with LoadConfig
// and copies whatever fields it needs into a MsgParams/AuthConfig).
// Field names and defaults are grounded on linuxptp's ConfigSection.
type Config struct {
	TransportSpecific uint8
	DomainNumber      uint8
	UDP6Scope         uint8
	UDPTTL            uint8
	SocketPriority    uint8
	NetworkTransport  NetworkTransport
	UDSAddress        string
	PTPDstMAC         string
	P2PDstMAC         string
	ActiveKeyID       uint32
	SPP               uint8
	HasSPP            bool
	AllowUnauth       uint8
	SAFile            string
}

// defaultConfig mirrors ConfigSection's built-in defaults.
func defaultConfig() Config {
	return Config{
		UDP6Scope:        0xe,
		UDPTTL:           1,
		SocketPriority:   0,
		NetworkTransport: NetworkTransportUDPv4,
		UDSAddress:       "/var/run/ptp4l",
		PTPDstMAC:        "1:1b:19:0:0:0",
		P2PDstMAC:        "1:80:c2:0:0:e",
	}
}

// LoadConfig reads section (or "global" if section is empty) from an
// ini-formatted config file, applying linuxptp's defaults for any key
// the file omits.
func LoadConfig(path string, section string) (Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("ptpmgmt: loading config %s: %w", path, err)
	}
	return configFromFile(f, section)
}

func configFromFile(f *ini.File, section string) (Config, error) {
	if section == "" {
		section = "global"
	}
	cfg := defaultConfig()

	sec := f.Section(section)
	global := f.Section("global")

	get := func(key string) (string, bool) {
		if sec != global && sec.HasKey(key) {
			return sec.Key(key).String(), true
		}
		if global.HasKey(key) {
			return global.Key(key).String(), true
		}
		return "", false
	}

	if v, ok := get("transportSpecific"); ok {
		n, err := parseUintKey(v, 0xf)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: transportSpecific: %w", err)
		}
		cfg.TransportSpecific = uint8(n)
	}
	if v, ok := get("domainNumber"); ok {
		n, err := parseUintKey(v, 239)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: domainNumber: %w", err)
		}
		cfg.DomainNumber = uint8(n)
	}
	if v, ok := get("udp6_scope"); ok {
		n, err := parseUintKey(v, 0xf)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: udp6_scope: %w", err)
		}
		cfg.UDP6Scope = uint8(n)
	}
	if v, ok := get("udp_ttl"); ok {
		n, err := parseUintKey(v, 255)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("ptpmgmt: udp_ttl %q out of range", v)
		}
		cfg.UDPTTL = uint8(n)
	}
	if v, ok := get("socket_priority"); ok {
		n, err := parseUintKey(v, 15)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: socket_priority: %w", err)
		}
		cfg.SocketPriority = uint8(n)
	}
	if v, ok := get("network_transport"); ok {
		switch strings.ToUpper(v) {
		case "UDPV4":
			cfg.NetworkTransport = NetworkTransportUDPv4
		case "UDPV6":
			cfg.NetworkTransport = NetworkTransportUDPv6
		case "L2":
			cfg.NetworkTransport = NetworkTransportL2
		default:
			return cfg, fmt.Errorf("ptpmgmt: unknown network_transport %q", v)
		}
	}
	if v, ok := get("uds_address"); ok {
		if !strings.HasPrefix(v, "/") || len(v) < 2 {
			return cfg, fmt.Errorf("ptpmgmt: uds_address must be an absolute path, got %q", v)
		}
		cfg.UDSAddress = v
	}
	if v, ok := get("ptp_dst_mac"); ok {
		cfg.PTPDstMAC = v
	}
	if v, ok := get("p2p_dst_mac"); ok {
		cfg.P2PDstMAC = v
	}
	if v, ok := get("active_key_id"); ok {
		n, err := parseUintKey(v, 1<<32-1)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: active_key_id: %w", err)
		}
		cfg.ActiveKeyID = uint32(n)
	}
	if v, ok := get("spp"); ok {
		n, err := parseUintKey(v, 255)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: spp: %w", err)
		}
		cfg.SPP = uint8(n)
		cfg.HasSPP = true
	}
	if v, ok := get("allow_unauth"); ok {
		n, err := parseUintKey(v, 2)
		if err != nil {
			return cfg, fmt.Errorf("ptpmgmt: allow_unauth: %w", err)
		}
		cfg.AllowUnauth = uint8(n)
	}
	if v, ok := get("sa_file"); ok {
		cfg.SAFile = v
	}
	return cfg, nil
}

func parseUintKey(v string, max uint64) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	if n > max {
		return 0, fmt.Errorf("%q exceeds maximum %d", v, max)
	}
	return n, nil
}
