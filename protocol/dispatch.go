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

	"github.com/Knetic/govaluate"
)

// fieldSpec is one named key/value input a BuildDispatcher entry
// accepts, generalizing linuxptp pmc's per-field "keys" table (def,
// min, max, req, can_str) into a single record.
type fieldSpec struct {
	// Min and Max bound a numeric field; both zero means unbounded.
	Min, Max int64
	// Default is used when the caller omits this field entirely.
	Default int64
	// Required rejects an omitted field even when Default is zero.
	Required bool
	// Base is passed to strconv.ParseInt; 0 lets the token carry its
	// own base prefix (0x, 0, decimal), matching strtol(tkn, &end, 0).
	Base int
	// RangeExpr, when non-empty, is a govaluate expression over the
	// variable "value" that must evaluate true; used for legal sets
	// that are not a single contiguous interval (e.g. delayMechanism
	// in {1, 2, 0xfe}).
	RangeExpr string
	// CanStr accepts an arbitrary string instead of a number (e.g.
	// userDescription); Min/Max/Base are ignored when set.
	CanStr bool
	// Custom, when set, parses the token into an integer itself (e.g.
	// a named delay-mechanism token falling back to a bare integer),
	// bypassing Base/strconv entirely.
	Custom func(token string) (int64, error)
}

func (f fieldSpec) parse(token string) (int64, error) {
	if f.Custom != nil {
		return f.Custom(token)
	}
	v, err := strconv.ParseInt(token, f.Base, 64)
	if err != nil {
		return 0, fmt.Errorf("ptpmgmt: %w", err)
	}
	return v, nil
}

func (f fieldSpec) validate(name string, v int64) error {
	if f.RangeExpr != "" {
		expr, err := govaluate.NewEvaluableExpression(f.RangeExpr)
		if err != nil {
			return wrapf(ErrValueOutOfRange, "%s: bad range expression: %v", name, err)
		}
		result, err := expr.Evaluate(map[string]any{"value": float64(v)})
		if err != nil {
			return wrapf(ErrValueOutOfRange, "%s: %v", name, err)
		}
		ok, _ := result.(bool)
		if !ok {
			return wrapf(ErrValueOutOfRange, "%s: %d fails %q", name, v, f.RangeExpr)
		}
		return nil
	}
	if f.Min != 0 || f.Max != 0 {
		if v < f.Min || v > f.Max {
			return wrapf(ErrValueOutOfRange, "%s: %d outside [%d,%d]", name, v, f.Min, f.Max)
		}
	}
	return nil
}

// buildValues is what a BuildDispatcher entry's assemble function reads
// back: the validated integers and free-form strings, keyed by field
// name.
type buildValues struct {
	ints map[string]int64
	strs map[string]string
}

func (v buildValues) int(name string) int64    { return v.ints[name] }
func (v buildValues) str(name string) string   { return v.strs[name] }
func (v buildValues) bool(name string) bool    { return v.ints[name] != 0 }

type buildEntry struct {
	fields   map[string]fieldSpec
	assemble func(buildValues) ManagementBody
}

// BuildDispatcher turns textual key=value input (the shape a pmc-style
// CLI collects from its command line) into a typed ManagementBody,
// generalizing the per-id "build" setters of linuxptp's pmc_dump.cpp
// (defKeys/parseKeys/build_end) into one Go table instead of one C++
// macro expansion per management id.
type BuildDispatcher struct {
	entries map[ManagementID]buildEntry
}

// NewBuildDispatcher returns a dispatcher pre-populated with the
// standard management ids pmc's CLI exposes as dedicated SET commands
// (most take one field; VERSION_NUMBER and TIME take two).
func NewBuildDispatcher() *BuildDispatcher {
	d := &BuildDispatcher{entries: make(map[ManagementID]buildEntry)}
	registerStandardBuildEntries(d)
	return d
}

// Register adds or replaces the entry for id.
func (d *BuildDispatcher) Register(id ManagementID, fields map[string]fieldSpec, assemble func(buildValues) ManagementBody) {
	d.entries[id] = buildEntry{fields: fields, assemble: assemble}
}

// Apply parses tokens against id's registered fields and returns the
// assembled ManagementBody. An omitted, non-required field with no
// Default set falls back to the zero value.
func (d *BuildDispatcher) Apply(id ManagementID, tokens map[string]string) (ManagementBody, error) {
	entry, ok := d.entries[id]
	if !ok {
		return nil, wrapf(ErrUnknownManagementID, "no build entry registered for %s", id)
	}

	values := buildValues{ints: map[string]int64{}, strs: map[string]string{}}
	for name, spec := range entry.fields {
		token, present := tokens[name]
		switch {
		case spec.CanStr:
			if present {
				values.strs[name] = token
			}
			continue
		case present:
			v, err := spec.parse(token)
			if err != nil {
				return nil, wrapf(ErrValueOutOfRange, "%s: %v", name, err)
			}
			if err := spec.validate(name, v); err != nil {
				return nil, err
			}
			values.ints[name] = v
		case spec.Required:
			return nil, wrapf(ErrValueOutOfRange, "%s is required", name)
		default:
			values.ints[name] = spec.Default
		}
	}
	return entry.assemble(values), nil
}

// registerStandardBuildEntries grounds each entry directly on
// pmc_dump.cpp's build(...) blocks: same field names, same
// min/max/default constraints, translated from the defKeys/parseKeys
// macro pair into an explicit fieldSpec/assemble pair.
func registerStandardBuildEntries(d *BuildDispatcher) {
	d.Register(IDUserDescription,
		map[string]fieldSpec{"userDescription": {CanStr: true}},
		func(v buildValues) ManagementBody {
			return &UserDescriptionBody{UserDescription: PTPText(v.str("userDescription"))}
		})

	d.Register(IDPriority1,
		map[string]fieldSpec{"priority1": {Default: 128, Max: 255}},
		func(v buildValues) ManagementBody {
			return &Priority1Body{Priority1: uint8(v.int("priority1"))}
		})

	d.Register(IDPriority2,
		map[string]fieldSpec{"priority2": {Default: 128, Max: 255}},
		func(v buildValues) ManagementBody {
			return &Priority2Body{Priority2: uint8(v.int("priority2"))}
		})

	d.Register(IDDomain,
		map[string]fieldSpec{"domainNumber": {Max: 255}},
		func(v buildValues) ManagementBody {
			return &DomainBody{DomainNumber: uint8(v.int("domainNumber"))}
		})

	d.Register(IDSlaveOnly,
		map[string]fieldSpec{"slaveOnly": {Max: 1}},
		func(v buildValues) ManagementBody {
			return &SlaveOnlyBody{SlaveOnly: v.bool("slaveOnly")}
		})

	d.Register(IDLogAnnounceInterval,
		map[string]fieldSpec{"logAnnounceInterval": {Default: 1, Min: -128, Max: 127}},
		func(v buildValues) ManagementBody {
			return &LogAnnounceIntervalBody{LogAnnounceInterval: int8(v.int("logAnnounceInterval"))}
		})

	d.Register(IDAnnounceReceiptTimeout,
		map[string]fieldSpec{"announceReceiptTimeout": {Default: 3, Max: 255}},
		func(v buildValues) ManagementBody {
			return &AnnounceReceiptTimeoutBody{AnnounceReceiptTimeout: uint8(v.int("announceReceiptTimeout"))}
		})

	d.Register(IDLogSyncInterval,
		map[string]fieldSpec{"logSyncInterval": {Min: -128, Max: 127}},
		func(v buildValues) ManagementBody {
			return &LogSyncIntervalBody{LogSyncInterval: int8(v.int("logSyncInterval"))}
		})

	d.Register(IDVersionNumber,
		map[string]fieldSpec{
			"versionNumber": {Default: 2, Min: 1, Max: 0xf},
			"minor":         {Default: 0, Max: 0xf},
		},
		func(v buildValues) ManagementBody {
			return &VersionNumberBody{VersionNumber: uint8(v.int("minor")<<4 | v.int("versionNumber"))}
		})

	d.Register(IDTime,
		map[string]fieldSpec{
			"secondsField":    {Required: true, Max: (1 << 48) - 1},
			"nanosecondsField": {Max: (1 << 32) - 1},
		},
		func(v buildValues) ManagementBody {
			var ts Timestamp
			ts.Seconds = NewPTPSeconds(uint64(v.int("secondsField")))
			ts.Nanoseconds = uint32(v.int("nanosecondsField"))
			return &TimeBody{CurrentTime: ts}
		})

	d.Register(IDDelayMechanism,
		map[string]fieldSpec{
			"delayMechanism": {
				Custom: parseDelayMechanismToken,
			},
		},
		func(v buildValues) ManagementBody {
			return &DelayMechanismBody{DelayMechanism: DelayMechanism(v.int("delayMechanism"))}
		})
}

// parseDelayMechanismToken accepts a delay-mechanism name ("E2E",
// "P2P", "NONE") or falls back to a bare integer, matching
// pmc_dump.cpp's getDelayMech: a named token first, strtol second.
func parseDelayMechanismToken(token string) (int64, error) {
	switch token {
	case "E2E":
		return int64(DelayMechanismE2E), nil
	case "P2P":
		return int64(DelayMechanismP2P), nil
	case "NONE":
		return int64(DelayMechanismNone), nil
	}
	v, err := strconv.ParseInt(token, 0, 64)
	if err != nil || v < 0 || v > int64(DelayMechanismNone) {
		return 0, fmt.Errorf("ptpmgmt: unrecognized delayMechanism %q", token)
	}
	return v, nil
}

// DumpDispatcher invokes one callback per managementId (for a decoded
// ManagementMessage) or per TLV (for a decoded SignalingMessage),
// generalizing pmc_dump.cpp's per-id dump(...) callback table into a
// single Go map instead of one switch arm per id.
type DumpDispatcher struct {
	management map[ManagementID]func(ManagementBody)
	signaling  map[TLVType]func(TLV)
}

// NewDumpDispatcher returns an empty dispatcher; callers register the
// ids/types they care about.
func NewDumpDispatcher() *DumpDispatcher {
	return &DumpDispatcher{
		management: make(map[ManagementID]func(ManagementBody)),
		signaling:  make(map[TLVType]func(TLV)),
	}
}

// OnManagement registers fn to run when DispatchManagement sees id.
func (d *DumpDispatcher) OnManagement(id ManagementID, fn func(ManagementBody)) {
	d.management[id] = fn
}

// OnTLV registers fn to run when DispatchSignaling sees a TLV of type t.
func (d *DumpDispatcher) OnTLV(t TLVType, fn func(TLV)) {
	d.signaling[t] = fn
}

// DispatchManagement invokes the single callback registered for msg's
// managementId, if any. It is a no-op for an error-status reply
// (msg.Body is nil in that case).
func (d *DumpDispatcher) DispatchManagement(msg *ManagementMessage) {
	if msg.Body == nil {
		return
	}
	if fn, ok := d.management[msg.ManagementID]; ok {
		fn(msg.Body)
	}
}

// DispatchSignaling invokes one callback per TLV msg carries, via
// SignalingMessage.Traverse.
func (d *DumpDispatcher) DispatchSignaling(msg *SignalingMessage) error {
	return msg.Traverse(func(t TLV) error {
		if fn, ok := d.signaling[t.Type()]; ok {
			fn(t)
		}
		return nil
	})
}
