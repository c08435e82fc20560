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
	"testing"

	"github.com/go-ini/ini"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	f, err := ini.Load([]byte("[global]\n"))
	require.NoError(t, err)

	cfg, err := configFromFile(f, "")
	require.NoError(t, err)

	require.Equal(t, Config{
		UDP6Scope:        0xe,
		UDPTTL:           1,
		NetworkTransport: NetworkTransportUDPv4,
		UDSAddress:       "/var/run/ptp4l",
		PTPDstMAC:        "1:1b:19:0:0:0",
		P2PDstMAC:        "1:80:c2:0:0:e",
	}, cfg)
}

func TestConfigOverridesFromGlobalSection(t *testing.T) {
	testConfig := "" +
		"[global]\n" +
		"domainNumber=24\n" +
		"network_transport=L2\n" +
		"uds_address=/var/run/ptp4l.custom\n" +
		"active_key_id=7\n" +
		"spp=3\n" +
		"allow_unauth=2\n" +
		"sa_file=/etc/ptp/sa\n"

	f, err := ini.Load([]byte(testConfig))
	require.NoError(t, err)

	cfg, err := configFromFile(f, "")
	require.NoError(t, err)

	require.Equal(t, uint8(24), cfg.DomainNumber)
	require.Equal(t, NetworkTransportL2, cfg.NetworkTransport)
	require.Equal(t, "/var/run/ptp4l.custom", cfg.UDSAddress)
	require.Equal(t, uint32(7), cfg.ActiveKeyID)
	require.True(t, cfg.HasSPP)
	require.Equal(t, uint8(3), cfg.SPP)
	require.Equal(t, uint8(2), cfg.AllowUnauth)
	require.Equal(t, "/etc/ptp/sa", cfg.SAFile)
}

func TestConfigNamedSectionOverridesGlobal(t *testing.T) {
	testConfig := "" +
		"[global]\n" +
		"domainNumber=0\n" +
		"[eth0]\n" +
		"domainNumber=5\n"

	f, err := ini.Load([]byte(testConfig))
	require.NoError(t, err)

	cfg, err := configFromFile(f, "eth0")
	require.NoError(t, err)
	require.Equal(t, uint8(5), cfg.DomainNumber)

	global, err := configFromFile(f, "global")
	require.NoError(t, err)
	require.Equal(t, uint8(0), global.DomainNumber)
}

func TestConfigRejectsOutOfRangeDomainNumber(t *testing.T) {
	f, err := ini.Load([]byte("[global]\ndomainNumber=240\n"))
	require.NoError(t, err)

	_, err = configFromFile(f, "")
	require.Error(t, err)
}

func TestConfigRejectsZeroUDPTTL(t *testing.T) {
	f, err := ini.Load([]byte("[global]\nudp_ttl=0\n"))
	require.NoError(t, err)

	_, err = configFromFile(f, "")
	require.Error(t, err)
}

func TestConfigRejectsUnknownNetworkTransport(t *testing.T) {
	f, err := ini.Load([]byte("[global]\nnetwork_transport=carrier-pigeon\n"))
	require.NoError(t, err)

	_, err = configFromFile(f, "")
	require.Error(t, err)
}

func TestConfigRejectsRelativeUDSAddress(t *testing.T) {
	f, err := ini.Load([]byte("[global]\nuds_address=var/run/ptp4l\n"))
	require.NoError(t, err)

	_, err = configFromFile(f, "")
	require.Error(t, err)
}

func TestNetworkTransportString(t *testing.T) {
	require.Equal(t, "UDPv4", NetworkTransportUDPv4.String())
	require.Equal(t, "UDPv6", NetworkTransportUDPv6.String())
	require.Equal(t, "L2", NetworkTransportL2.String())
}
