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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// wireBody is implemented by every concrete management body in
// management_bodies.go; it is the intersection of ManagementBody with
// the codec methods management_codec*.go attaches to each struct.
type wireBody interface {
	ManagementBody
	wireLen() int
	marshalTo(*writer) error
}

type unmarshalFunc func(r *reader, length int) (ManagementBody, error)

// managementDescriptor is one row of the registry: everything Build and
// Parse need to know about a single managementId, replacing the C++
// reference implementation's per-id virtual-base subclass with a single
// lookup table entry, as called for by the re-architecture notes.
type managementDescriptor struct {
	id ManagementID
	// name is the st_ids.h-style identifier used by FindByName and by
	// dump/build dispatch (protocol/dispatch.go).
	name string
	// empty is true for ids whose body is zero-length regardless of
	// action (NULL_PTP_MANAGEMENT and the "action" ids).
	empty bool
	// np is true for linuxptp's implementation-specific ids; Build and
	// Parse reject them unless MsgParams.Implementation is Linuxptp.
	np bool
	// unsupported is true for ids this package recognizes by number and
	// name but does not know the field layout of.
	unsupported bool
	// getOnly lists ids that legally only ever appear in a RESPONSE to
	// GET, never in a SET or COMMAND request body.
	getOnly bool
	unmarshal unmarshalFunc
}

var managementRegistry = buildManagementRegistry()

func buildManagementRegistry() map[ManagementID]managementDescriptor {
	rows := []managementDescriptor{
		{id: IDNullPTPManagement, name: "NULL_PTP_MANAGEMENT", empty: true, unmarshal: unmarshalEmptyBody},
		{id: IDClockDescription, name: "CLOCK_DESCRIPTION", getOnly: true, unmarshal: unmarshalClockDescriptionBody},
		{id: IDUserDescription, name: "USER_DESCRIPTION", unmarshal: unmarshalUserDescriptionBody},
		{id: IDSaveInNonVolatileStorage, name: "SAVE_IN_NON_VOLATILE_STORAGE", empty: true, unmarshal: unmarshalEmptyBody},
		{id: IDResetNonVolatileStorage, name: "RESET_NON_VOLATILE_STORAGE", empty: true, unmarshal: unmarshalEmptyBody},
		{id: IDInitialize, name: "INITIALIZE", unmarshal: unmarshalInitializeBody},
		{id: IDFaultLog, name: "FAULT_LOG", getOnly: true, unmarshal: unmarshalFaultLogBody},
		{id: IDFaultLogReset, name: "FAULT_LOG_RESET", empty: true, unmarshal: unmarshalEmptyBody},

		{id: IDDefaultDataSet, name: "DEFAULT_DATA_SET", unmarshal: unmarshalDefaultDataSetBody},
		{id: IDCurrentDataSet, name: "CURRENT_DATA_SET", getOnly: true, unmarshal: unmarshalCurrentDataSetBody},
		{id: IDParentDataSet, name: "PARENT_DATA_SET", getOnly: true, unmarshal: unmarshalParentDataSetBody},
		{id: IDTimePropertiesDataSet, name: "TIME_PROPERTIES_DATA_SET", unmarshal: unmarshalTimePropertiesDataSetBody},
		{id: IDPortDataSet, name: "PORT_DATA_SET", unmarshal: unmarshalPortDataSetBody},
		{id: IDPriority1, name: "PRIORITY1", unmarshal: unmarshalPriority1Body},
		{id: IDPriority2, name: "PRIORITY2", unmarshal: unmarshalPriority2Body},
		{id: IDDomain, name: "DOMAIN", unmarshal: unmarshalDomainBody},
		{id: IDSlaveOnly, name: "SLAVE_ONLY", unmarshal: unmarshalSlaveOnlyBody},
		{id: IDLogAnnounceInterval, name: "LOG_ANNOUNCE_INTERVAL", unmarshal: unmarshalLogAnnounceIntervalBody},
		{id: IDAnnounceReceiptTimeout, name: "ANNOUNCE_RECEIPT_TIMEOUT", unmarshal: unmarshalAnnounceReceiptTimeoutBody},
		{id: IDLogSyncInterval, name: "LOG_SYNC_INTERVAL", unmarshal: unmarshalLogSyncIntervalBody},
		{id: IDVersionNumber, name: "VERSION_NUMBER", unmarshal: unmarshalVersionNumberBody},
		{id: IDEnablePort, name: "ENABLE_PORT", empty: true, unmarshal: unmarshalEmptyBody},
		{id: IDDisablePort, name: "DISABLE_PORT", empty: true, unmarshal: unmarshalEmptyBody},
		{id: IDTime, name: "TIME", unmarshal: unmarshalTimeBody},
		{id: IDClockAccuracy, name: "CLOCK_ACCURACY", unmarshal: unmarshalClockAccuracyBody},
		{id: IDUtcProperties, name: "UTC_PROPERTIES", unmarshal: unmarshalUtcPropertiesBody},
		{id: IDTraceabilityProperties, name: "TRACEABILITY_PROPERTIES", unmarshal: unmarshalTraceabilityPropertiesBody},
		{id: IDTimescaleProperties, name: "TIMESCALE_PROPERTIES", unmarshal: unmarshalTimescalePropertiesBody},
		{id: IDUnicastNegotiationEnable, name: "UNICAST_NEGOTIATION_ENABLE", unmarshal: unmarshalUnicastNegotiationEnableBody},
		{id: IDPathTraceList, name: "PATH_TRACE_LIST", getOnly: true, unmarshal: unmarshalPathTraceListBody},
		{id: IDPathTraceEnable, name: "PATH_TRACE_ENABLE", unmarshal: unmarshalPathTraceEnableBody},
		{id: IDGrandmasterClusterTable, name: "GRANDMASTER_CLUSTER_TABLE", unmarshal: unmarshalGrandmasterClusterTableBody},

		{id: IDUnicastMasterTable, name: "UNICAST_MASTER_TABLE", getOnly: true, unmarshal: unmarshalUnicastMasterTableBody},
		{id: IDUnicastMasterMaxTableSize, name: "UNICAST_MASTER_MAX_TABLE_SIZE", getOnly: true, unmarshal: unmarshalUnicastMasterMaxTableSizeBody},
		{id: IDAcceptableMasterTable, name: "ACCEPTABLE_MASTER_TABLE", unmarshal: unmarshalAcceptableMasterTableBody},
		{id: IDAcceptableMasterTableEnabled, name: "ACCEPTABLE_MASTER_TABLE_ENABLED", unmarshal: unmarshalAcceptableMasterTableEnabledBody},
		{id: IDAcceptableMasterMaxTableSize, name: "ACCEPTABLE_MASTER_MAX_TABLE_SIZE", getOnly: true, unmarshal: unmarshalAcceptableMasterMaxTableSizeBody},
		{id: IDAlternateMaster, name: "ALTERNATE_MASTER", unmarshal: unmarshalAlternateMasterBody},
		{id: IDAlternateTimeOffsetEnable, name: "ALTERNATE_TIME_OFFSET_ENABLE", unmarshal: unmarshalAlternateTimeOffsetEnableBody},
		{id: IDAlternateTimeOffsetName, name: "ALTERNATE_TIME_OFFSET_NAME", unmarshal: unmarshalAlternateTimeOffsetNameBody},
		{id: IDAlternateTimeOffsetMaxKey, name: "ALTERNATE_TIME_OFFSET_MAX_KEY", unmarshal: unmarshalAlternateTimeOffsetMaxKeyBody},
		{id: IDAlternateTimeOffsetProperties, name: "ALTERNATE_TIME_OFFSET_PROPERTIES", unmarshal: unmarshalAlternateTimeOffsetPropertiesBody},

		{id: IDTransparentClockDefaultDataSet, name: "TRANSPARENT_CLOCK_DEFAULT_DATA_SET", unmarshal: unmarshalTransparentClockDefaultDataSetBody},
		{id: IDTransparentClockPortDataSet, name: "TRANSPARENT_CLOCK_PORT_DATA_SET", unmarshal: unmarshalTransparentClockPortDataSetBody},
		{id: IDPrimaryDomain, name: "PRIMARY_DOMAIN", unmarshal: unmarshalPrimaryDomainBody},

		{id: IDDelayMechanism, name: "DELAY_MECHANISM", unmarshal: unmarshalDelayMechanismBody},
		{id: IDLogMinPdelayReqInterval, name: "LOG_MIN_PDELAY_REQ_INTERVAL", unmarshal: unmarshalLogMinPdelayReqIntervalBody},

		{id: IDMasterOnly, name: "MASTER_ONLY", unmarshal: unmarshalMasterOnlyBody},
		{id: IDExternalPortConfigurationEnabled, name: "EXTERNAL_PORT_CONFIGURATION_ENABLED", unmarshal: unmarshalExternalPortConfigurationEnabledBody},
		{id: IDHoldoverUpgradeEnable, name: "HOLDOVER_UPGRADE_ENABLE", unmarshal: unmarshalHoldoverUpgradeEnableBody},
		{id: IDExtPortConfigPortDataSet, name: "EXT_PORT_CONFIG_PORT_DATA_SET", unmarshal: unmarshalExtPortConfigPortDataSetBody},

		{id: IDTimeStatusNP, name: "TIME_STATUS_NP", np: true, getOnly: true, unmarshal: unmarshalTimeStatusNPBody},
		{id: IDGrandmasterSettingsNP, name: "GRANDMASTER_SETTINGS_NP", np: true, unmarshal: unmarshalGrandmasterSettingsNPBody},
		{id: IDPortDataSetNP, name: "PORT_DATA_SET_NP", np: true, unmarshal: unmarshalPortDataSetNPBody},
		{id: IDSubscribeEventsNP, name: "SUBSCRIBE_EVENTS_NP", np: true, unmarshal: unmarshalSubscribeEventsNPBody},
		{id: IDPortPropertiesNP, name: "PORT_PROPERTIES_NP", np: true, getOnly: true, unmarshal: unmarshalPortPropertiesNPBody},
		{id: IDPortStatsNP, name: "PORT_STATS_NP", np: true, getOnly: true, unmarshal: unmarshalPortStatsNPBody},
		{id: IDSynchronizationUncertainNP, name: "SYNCHRONIZATION_UNCERTAIN_NP", np: true, unmarshal: unmarshalSynchronizationUncertainNPBody},
		{id: IDPortServiceStatsNP, name: "PORT_SERVICE_STATS_NP", np: true, getOnly: true, unmarshal: unmarshalPortServiceStatsNPBody},
		{id: IDUnicastMasterTableNP, name: "UNICAST_MASTER_TABLE_NP", np: true, getOnly: true, unmarshal: unmarshalUnicastMasterTableNPBody},

		// Registered but unimplemented: known ids whose field layout
		// is not expressed anywhere in the corpus this package was
		// built from.
		{id: IDPortHwclockNP, name: "PORT_HWCLOCK_NP", np: true, unsupported: true},
		{id: IDPowerProfileSettingsNP, name: "POWER_PROFILE_SETTINGS_NP", np: true, unsupported: true},
		{id: IDCmldsInfoNP, name: "CMLDS_INFO_NP", np: true, unsupported: true},
	}

	reg := make(map[ManagementID]managementDescriptor, len(rows))
	for _, row := range rows {
		reg[row.id] = row
	}
	return reg
}

// descriptorFor looks up the registry row for id, honoring the NP gate
// in params (nil params behaves like ImplementationStandard).
func descriptorFor(params *MsgParams, id ManagementID) (managementDescriptor, error) {
	d, ok := managementRegistry[id]
	if !ok {
		return managementDescriptor{}, wrapf(ErrUnknownManagementID, "0x%04x", uint16(id))
	}
	if d.np && !params.allowNP() {
		return managementDescriptor{}, wrapf(ErrUnsupported, "%s requires linuxptp implementation profile", d.name)
	}
	if d.unsupported {
		return managementDescriptor{}, wrapf(ErrUnsupported, "%s has no known field layout", d.name)
	}
	return d, nil
}

// FindByName resolves a management id from its st_ids.h-style name
// (e.g. "PARENT_DATA_SET", "TIME_STATUS_NP"), the way a pmc-style CLI
// resolves a user-typed management id.
func FindByName(name string) (ManagementID, bool) {
	for id, d := range managementRegistry {
		if d.name == name {
			return id, true
		}
	}
	return 0, false
}

// IsEmpty reports whether id always carries a zero-length body.
func IsEmpty(id ManagementID) bool {
	d, ok := managementRegistry[id]
	return ok && d.empty
}

// IsValid reports whether id is known and legal for the given
// implementation profile.
func IsValid(impl Implementation, id ManagementID) bool {
	d, ok := managementRegistry[id]
	if !ok || d.unsupported {
		return false
	}
	if d.np && impl != ImplementationLinuxptp {
		return false
	}
	return true
}

// KnownIDs returns every registered management id in ascending numeric
// order, regardless of support or implementation gating.
func KnownIDs() []ManagementID {
	ids := maps.Keys(managementRegistry)
	slices.Sort(ids)
	return ids
}
