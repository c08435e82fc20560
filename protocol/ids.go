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

import "fmt"

// ManagementID is the 16-bit managementId carried by a management TLV.
type ManagementID uint16

// Standard IEEE 1588-2019 Table 52 management ids.
const (
	IDNullPTPManagement ManagementID = 0x0000
	IDClockDescription  ManagementID = 0x0001
	IDUserDescription   ManagementID = 0x0002

	IDSaveInNonVolatileStorage ManagementID = 0x0003
	IDResetNonVolatileStorage  ManagementID = 0x0004
	IDInitialize               ManagementID = 0x0005
	IDFaultLog                 ManagementID = 0x0006
	IDFaultLogReset            ManagementID = 0x0007

	IDDefaultDataSet           ManagementID = 0x2000
	IDCurrentDataSet           ManagementID = 0x2001
	IDParentDataSet            ManagementID = 0x2002
	IDTimePropertiesDataSet    ManagementID = 0x2003
	IDPortDataSet              ManagementID = 0x2004
	IDPriority1                ManagementID = 0x2005
	IDPriority2                ManagementID = 0x2006
	IDDomain                   ManagementID = 0x2007
	IDSlaveOnly                ManagementID = 0x2008
	IDLogAnnounceInterval      ManagementID = 0x2009
	IDAnnounceReceiptTimeout   ManagementID = 0x200A
	IDLogSyncInterval          ManagementID = 0x200B
	IDVersionNumber            ManagementID = 0x200C
	IDEnablePort               ManagementID = 0x200D
	IDDisablePort              ManagementID = 0x200E
	IDTime                     ManagementID = 0x200F
	IDClockAccuracy            ManagementID = 0x2010
	IDUtcProperties            ManagementID = 0x2011
	IDTraceabilityProperties   ManagementID = 0x2012
	IDTimescaleProperties      ManagementID = 0x2013
	IDUnicastNegotiationEnable ManagementID = 0x2014
	IDPathTraceList            ManagementID = 0x2015
	IDPathTraceEnable          ManagementID = 0x2016
	IDGrandmasterClusterTable  ManagementID = 0x2017

	IDUnicastMasterTable            ManagementID = 0x2018
	IDUnicastMasterMaxTableSize     ManagementID = 0x2019
	IDAcceptableMasterTable         ManagementID = 0x201A
	IDAcceptableMasterTableEnabled  ManagementID = 0x201B
	IDAcceptableMasterMaxTableSize  ManagementID = 0x201C
	IDAlternateMaster               ManagementID = 0x201D
	IDAlternateTimeOffsetEnable     ManagementID = 0x201E
	IDAlternateTimeOffsetName       ManagementID = 0x201F
	IDAlternateTimeOffsetMaxKey     ManagementID = 0x2020
	IDAlternateTimeOffsetProperties ManagementID = 0x2021

	IDTransparentClockDefaultDataSet ManagementID = 0x4000
	IDTransparentClockPortDataSet    ManagementID = 0x4001
	IDPrimaryDomain                  ManagementID = 0x4002

	IDDelayMechanism             ManagementID = 0x6000
	IDLogMinPdelayReqInterval    ManagementID = 0x6001

	IDMasterOnly                         ManagementID = 0x8000
	IDExternalPortConfigurationEnabled   ManagementID = 0x8001
	IDHoldoverUpgradeEnable              ManagementID = 0x8002
	IDExtPortConfigPortDataSet           ManagementID = 0x8003
)

// linuxptp implementation-specific (C000-DFFF) management ids.
const (
	IDTimeStatusNP             ManagementID = 0xC000
	IDGrandmasterSettingsNP    ManagementID = 0xC001
	IDPortDataSetNP            ManagementID = 0xC002
	IDSubscribeEventsNP        ManagementID = 0xC003
	IDPortPropertiesNP         ManagementID = 0xC004
	IDPortStatsNP              ManagementID = 0xC005
	IDSynchronizationUncertainNP ManagementID = 0xC006
	IDPortServiceStatsNP       ManagementID = 0xC007
	IDUnicastMasterTableNP     ManagementID = 0xC008
	IDPortHwclockNP            ManagementID = 0xC009
	IDPowerProfileSettingsNP   ManagementID = 0xC00A
	IDCmldsInfoNP              ManagementID = 0xC00B
)

func (id ManagementID) String() string {
	if d, ok := managementRegistry[id]; ok {
		return d.name
	}
	return fmt.Sprintf("ManagementID(0x%04x)", uint16(id))
}

// Action is the managementAction field of a management message.
type Action uint8

const (
	GET         Action = 0
	SET         Action = 1
	RESPONSE    Action = 2
	COMMAND     Action = 3
	ACKNOWLEDGE Action = 4
)

func (a Action) String() string {
	switch a {
	case GET:
		return "GET"
	case SET:
		return "SET"
	case RESPONSE:
		return "RESPONSE"
	case COMMAND:
		return "COMMAND"
	case ACKNOWLEDGE:
		return "ACKNOWLEDGE"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// ManagementErrorID is the errorId carried by a MANAGEMENT_ERROR_STATUS TLV.
type ManagementErrorID uint16

const (
	ErrorResponseTooBig      ManagementErrorID = 0x0001
	ErrorNoSuchID            ManagementErrorID = 0x0002
	ErrorWrongLength         ManagementErrorID = 0x0003
	ErrorWrongValue          ManagementErrorID = 0x0004
	ErrorNotSetable          ManagementErrorID = 0x0005
	ErrorNotSupported        ManagementErrorID = 0x0006
	ErrorGeneralError        ManagementErrorID = 0xFFFE
)

func (e ManagementErrorID) String() string {
	switch e {
	case ErrorResponseTooBig:
		return "RESPONSE_TOO_BIG"
	case ErrorNoSuchID:
		return "NO_SUCH_ID"
	case ErrorWrongLength:
		return "WRONG_LENGTH"
	case ErrorWrongValue:
		return "WRONG_VALUE"
	case ErrorNotSetable:
		return "NOT_SETABLE"
	case ErrorNotSupported:
		return "NOT_SUPPORTED"
	case ErrorGeneralError:
		return "GENERAL_ERROR"
	default:
		return fmt.Sprintf("ManagementErrorID(0x%04x)", uint16(e))
	}
}
