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

// TLVType is the tlvType field common to every TLV, management or
// signaling.
type TLVType uint16

const (
	TLVManagement                             TLVType = 0x0001
	TLVManagementErrorStatus                  TLVType = 0x0002
	TLVOrganizationExtension                  TLVType = 0x0003
	TLVRequestUnicastTransmission             TLVType = 0x0004
	TLVGrantUnicastTransmission               TLVType = 0x0005
	TLVCancelUnicastTransmission              TLVType = 0x0006
	TLVAcknowledgeCancelUnicastTransmission   TLVType = 0x0007
	TLVPathTrace                              TLVType = 0x0008
	TLVAlternateTimeOffsetIndicator           TLVType = 0x0009
	TLVOrganizationExtensionPropagate         TLVType = 0x4000
	TLVL1Sync                                 TLVType = 0x8001
	TLVPortCommunicationAvailability         TLVType = 0x8002
	TLVProtocolAddress                        TLVType = 0x8003
	TLVSlaveRxSyncTimingData                  TLVType = 0x8004
	TLVSlaveRxSyncComputedData                TLVType = 0x8005
	TLVSlaveTxEventTimestamps                 TLVType = 0x8006
	TLVAuthentication                         TLVType = 0x8008
	TLVOrganizationExtensionDoNotPropagate    TLVType = 0x8000
)

func (t TLVType) String() string {
	switch t {
	case TLVManagement:
		return "MANAGEMENT"
	case TLVManagementErrorStatus:
		return "MANAGEMENT_ERROR_STATUS"
	case TLVOrganizationExtension:
		return "ORGANIZATION_EXTENSION"
	case TLVRequestUnicastTransmission:
		return "REQUEST_UNICAST_TRANSMISSION"
	case TLVGrantUnicastTransmission:
		return "GRANT_UNICAST_TRANSMISSION"
	case TLVCancelUnicastTransmission:
		return "CANCEL_UNICAST_TRANSMISSION"
	case TLVAcknowledgeCancelUnicastTransmission:
		return "ACKNOWLEDGE_CANCEL_UNICAST_TRANSMISSION"
	case TLVPathTrace:
		return "PATH_TRACE"
	case TLVAlternateTimeOffsetIndicator:
		return "ALTERNATE_TIME_OFFSET_INDICATOR"
	case TLVOrganizationExtensionPropagate:
		return "ORGANIZATION_EXTENSION_PROPAGATE"
	case TLVOrganizationExtensionDoNotPropagate:
		return "ORGANIZATION_EXTENSION_DO_NOT_PROPAGATE"
	case TLVL1Sync:
		return "L1_SYNC"
	case TLVPortCommunicationAvailability:
		return "PORT_COMMUNICATION_AVAILABILITY"
	case TLVProtocolAddress:
		return "PROTOCOL_ADDRESS"
	case TLVAuthentication:
		return "AUTHENTICATION"
	default:
		return fmt.Sprintf("TLVType(0x%04x)", uint16(t))
	}
}

// TLV is implemented by every signaling-carried payload this package
// knows how to build or parse.
type TLV interface {
	Type() TLVType
	wireLen() int
	marshalTo(*writer) error
}

const tlvHeadSize = 4

func writeTLVHead(w *writer, t TLVType, length int) error {
	if err := w.putU16(uint16(t)); err != nil {
		return err
	}
	return w.putU16(uint16(length))
}

// readTLVHead reads tlvType+lengthField and validates the declared
// length against what remains in r, the way unmarshalTLVHeader does in
// the teacher's tlvs.go/unicast.go.
func readTLVHead(r *reader) (TLVType, int, error) {
	t, err := r.u16()
	if err != nil {
		return 0, 0, err
	}
	length, err := r.u16()
	if err != nil {
		return 0, 0, err
	}
	if int(length) > r.remaining() {
		return 0, 0, wrapf(ErrFramingError, "tlv %s declares length %d, only %d bytes remain", TLVType(t), length, r.remaining())
	}
	return TLVType(t), int(length), nil
}

// RawTLV carries a TLV type this package does not decode further: an
// unrecognized organization extension, or a type registered as
// framing-only. The caller sees the verbatim value bytes.
type RawTLV struct {
	TLVType TLVType
	Value   []byte
}

func (t RawTLV) Type() TLVType { return t.TLVType }
func (t RawTLV) wireLen() int {
	n := len(t.Value)
	if n%2 != 0 {
		n++
	}
	return n
}
func (t RawTLV) marshalTo(w *writer) error {
	if err := w.putBytes(t.Value); err != nil {
		return err
	}
	if len(t.Value)%2 != 0 {
		return w.pad(1)
	}
	return nil
}

func unmarshalRawTLV(typ TLVType, r *reader, length int) (TLV, error) {
	raw, err := r.bytes(length)
	if err != nil {
		return nil, err
	}
	value := append([]byte(nil), raw...)
	if length%2 != 0 {
		if err := r.skip(1); err != nil {
			return nil, err
		}
	}
	return RawTLV{TLVType: typ, Value: value}, nil
}

// OrganizationExtensionTLV carries a vendor-defined payload identified
// by its IEEE OUI and a vendor-chosen sub-type; this package does not
// know how to interpret the body, and surfaces it as raw bytes, the way
// an unrecognized organization extension is handled by a pmc-style dump.
type OrganizationExtensionTLV struct {
	tlvType             TLVType
	OrganizationID      [3]byte
	OrganizationSubType [3]byte
	DataField           []byte
}

func (t *OrganizationExtensionTLV) Type() TLVType { return t.tlvType }

func (t *OrganizationExtensionTLV) wireLen() int {
	n := 3 + 3 + len(t.DataField)
	if n%2 != 0 {
		n++
	}
	return n
}

func (t *OrganizationExtensionTLV) marshalTo(w *writer) error {
	if err := w.putBytes(t.OrganizationID[:]); err != nil {
		return err
	}
	if err := w.putBytes(t.OrganizationSubType[:]); err != nil {
		return err
	}
	if err := w.putBytes(t.DataField); err != nil {
		return err
	}
	if (6+len(t.DataField))%2 != 0 {
		return w.pad(1)
	}
	return nil
}

func unmarshalOrganizationExtensionTLV(typ TLVType, r *reader, length int) (TLV, error) {
	if length < 6 {
		return nil, wrapf(ErrLengthMismatch, "organization extension TLV too short: %d", length)
	}
	t := &OrganizationExtensionTLV{tlvType: typ}
	oid, err := r.bytes(3)
	if err != nil {
		return nil, err
	}
	copy(t.OrganizationID[:], oid)
	sub, err := r.bytes(3)
	if err != nil {
		return nil, err
	}
	copy(t.OrganizationSubType[:], sub)
	data, err := r.bytes(length - 6)
	if err != nil {
		return nil, err
	}
	t.DataField = append([]byte(nil), data...)
	if length%2 != 0 {
		if err := r.skip(1); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// PathTraceTLV carries the accumulated list of ClockIdentity hops an
// Announce has traversed; this package exposes it in the signaling
// pipeline the way ptp/protocol/tlvs.go's PathTraceTLV does.
type PathTraceTLV struct {
	PathSequence []ClockIdentity
}

func (t *PathTraceTLV) Type() TLVType { return TLVPathTrace }
func (t *PathTraceTLV) wireLen() int  { return clockIdentitySize * len(t.PathSequence) }
func (t *PathTraceTLV) marshalTo(w *writer) error {
	for _, ci := range t.PathSequence {
		if err := marshalClockIdentity(w, ci); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalPathTraceTLV(r *reader, length int) (TLV, error) {
	if length%clockIdentitySize != 0 {
		return nil, wrapf(ErrLengthMismatch, "PATH_TRACE length %d not a multiple of %d", length, clockIdentitySize)
	}
	t := &PathTraceTLV{}
	for i := 0; i < length/clockIdentitySize; i++ {
		ci, err := unmarshalClockIdentity(r)
		if err != nil {
			return nil, err
		}
		t.PathSequence = append(t.PathSequence, ci)
	}
	return t, nil
}

// AlternateTimeOffsetIndicatorTLV announces one entry of an alternate
// timescale (e.g. a local civil-time offset distinct from PTP/TAI).
type AlternateTimeOffsetIndicatorTLV struct {
	KeyField      uint8
	CurrentOffset int32
	JumpSeconds   int32
	TimeOfNextJump PTPSeconds
	DisplayName   PTPText
}

func (t *AlternateTimeOffsetIndicatorTLV) Type() TLVType { return TLVAlternateTimeOffsetIndicator }
func (t *AlternateTimeOffsetIndicatorTLV) wireLen() int {
	return 1 + 4 + 4 + 6 + t.DisplayName.wireLen()
}
func (t *AlternateTimeOffsetIndicatorTLV) marshalTo(w *writer) error {
	if err := w.putU8(t.KeyField); err != nil {
		return err
	}
	if err := w.putI32(t.CurrentOffset); err != nil {
		return err
	}
	if err := w.putI32(t.JumpSeconds); err != nil {
		return err
	}
	if err := t.TimeOfNextJump.marshalTo(w); err != nil {
		return err
	}
	return t.DisplayName.marshalTo(w)
}

func unmarshalAlternateTimeOffsetIndicatorTLV(r *reader, _ int) (TLV, error) {
	t := &AlternateTimeOffsetIndicatorTLV{}
	var err error
	if t.KeyField, err = r.u8(); err != nil {
		return nil, err
	}
	if t.CurrentOffset, err = r.i32(); err != nil {
		return nil, err
	}
	if t.JumpSeconds, err = r.i32(); err != nil {
		return nil, err
	}
	if t.TimeOfNextJump, err = unmarshalPTPSeconds(r); err != nil {
		return nil, err
	}
	if t.DisplayName, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	return t, nil
}

// --- Unicast negotiation TLVs (IEEE 1588-2019 Annex A) ---

// RequestUnicastTransmissionTLV asks a master to begin sending one
// message type via unicast for the given duration.
type RequestUnicastTransmissionTLV struct {
	MsgTypeAndReserved uint8
	LogInterMessagePeriod int8
	DurationField      uint32
}

func (t *RequestUnicastTransmissionTLV) Type() TLVType { return TLVRequestUnicastTransmission }
func (t *RequestUnicastTransmissionTLV) wireLen() int  { return 1 + 1 + 4 }
func (t *RequestUnicastTransmissionTLV) marshalTo(w *writer) error {
	if err := w.putU8(t.MsgTypeAndReserved); err != nil {
		return err
	}
	if err := w.putI8(t.LogInterMessagePeriod); err != nil {
		return err
	}
	return w.putU32(t.DurationField)
}

func unmarshalRequestUnicastTransmissionTLV(r *reader, _ int) (TLV, error) {
	t := &RequestUnicastTransmissionTLV{}
	var err error
	if t.MsgTypeAndReserved, err = r.u8(); err != nil {
		return nil, err
	}
	if t.LogInterMessagePeriod, err = r.i8(); err != nil {
		return nil, err
	}
	if t.DurationField, err = r.u32(); err != nil {
		return nil, err
	}
	return t, nil
}

// GrantUnicastTransmissionTLV is a master's reply to a request.
type GrantUnicastTransmissionTLV struct {
	MsgTypeAndReserved    uint8
	LogInterMessagePeriod int8
	DurationField         uint32
	Renewal               bool
}

func (t *GrantUnicastTransmissionTLV) Type() TLVType { return TLVGrantUnicastTransmission }
func (t *GrantUnicastTransmissionTLV) wireLen() int  { return 1 + 1 + 4 + 1 + 1 }
func (t *GrantUnicastTransmissionTLV) marshalTo(w *writer) error {
	if err := w.putU8(t.MsgTypeAndReserved); err != nil {
		return err
	}
	if err := w.putI8(t.LogInterMessagePeriod); err != nil {
		return err
	}
	if err := w.putU32(t.DurationField); err != nil {
		return err
	}
	if err := w.putU8(0); err != nil { // reserved
		return err
	}
	var flags uint8
	setBit(&flags, 0, t.Renewal)
	return w.putU8(flags)
}

func unmarshalGrantUnicastTransmissionTLV(r *reader, _ int) (TLV, error) {
	t := &GrantUnicastTransmissionTLV{}
	var err error
	if t.MsgTypeAndReserved, err = r.u8(); err != nil {
		return nil, err
	}
	if t.LogInterMessagePeriod, err = r.i8(); err != nil {
		return nil, err
	}
	if t.DurationField, err = r.u32(); err != nil {
		return nil, err
	}
	if err := r.skip(1); err != nil {
		return nil, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	t.Renewal = bit(flags, 0)
	return t, nil
}

// CancelUnicastTransmissionTLV withdraws a previously granted unicast
// subscription. The second octet is reserved, keeping the TLV even-length.
type CancelUnicastTransmissionTLV struct {
	MsgTypeAndReserved uint8
}

func (t *CancelUnicastTransmissionTLV) Type() TLVType { return TLVCancelUnicastTransmission }
func (t *CancelUnicastTransmissionTLV) wireLen() int  { return 2 }
func (t *CancelUnicastTransmissionTLV) marshalTo(w *writer) error {
	if err := w.putU8(t.MsgTypeAndReserved); err != nil {
		return err
	}
	return w.putU8(0)
}

func unmarshalCancelUnicastTransmissionTLV(r *reader, _ int) (TLV, error) {
	v, err := r.u8()
	if err != nil {
		return nil, err
	}
	if err := r.skip(1); err != nil {
		return nil, err
	}
	return &CancelUnicastTransmissionTLV{MsgTypeAndReserved: v}, nil
}

// AcknowledgeCancelUnicastTransmissionTLV confirms a cancellation. The
// second octet is reserved, keeping the TLV even-length.
type AcknowledgeCancelUnicastTransmissionTLV struct {
	MsgTypeAndReserved uint8
}

func (t *AcknowledgeCancelUnicastTransmissionTLV) Type() TLVType {
	return TLVAcknowledgeCancelUnicastTransmission
}
func (t *AcknowledgeCancelUnicastTransmissionTLV) wireLen() int { return 2 }
func (t *AcknowledgeCancelUnicastTransmissionTLV) marshalTo(w *writer) error {
	if err := w.putU8(t.MsgTypeAndReserved); err != nil {
		return err
	}
	return w.putU8(0)
}

func unmarshalAcknowledgeCancelUnicastTransmissionTLV(r *reader, _ int) (TLV, error) {
	v, err := r.u8()
	if err != nil {
		return nil, err
	}
	if err := r.skip(1); err != nil {
		return nil, err
	}
	return &AcknowledgeCancelUnicastTransmissionTLV{MsgTypeAndReserved: v}, nil
}

type tlvUnmarshalFunc func(r *reader, length int) (TLV, error)

var signalingTLVRegistry = map[TLVType]tlvUnmarshalFunc{
	TLVRequestUnicastTransmission:           unmarshalRequestUnicastTransmissionTLV,
	TLVGrantUnicastTransmission:             unmarshalGrantUnicastTransmissionTLV,
	TLVCancelUnicastTransmission:            unmarshalCancelUnicastTransmissionTLV,
	TLVAcknowledgeCancelUnicastTransmission: unmarshalAcknowledgeCancelUnicastTransmissionTLV,
	TLVPathTrace:                            unmarshalPathTraceTLV,
	TLVAlternateTimeOffsetIndicator:         unmarshalAlternateTimeOffsetIndicatorTLV,
}

// decodeTLV dispatches on tlvType, falling back to a raw/organization
// passthrough for types this package does not interpret, per I1's
// receive-only carve-out for framing-only TLV families.
func decodeTLV(r *reader) (TLV, error) {
	typ, length, err := readTLVHead(r)
	if err != nil {
		return nil, err
	}
	if typ == TLVAuthentication {
		return decodeAuthenticationTLV(r, length)
	}
	switch typ {
	case TLVOrganizationExtension, TLVOrganizationExtensionPropagate, TLVOrganizationExtensionDoNotPropagate:
		return unmarshalOrganizationExtensionTLV(typ, r, length)
	}
	if fn, ok := signalingTLVRegistry[typ]; ok {
		tlv, err := fn(r, length)
		if err != nil {
			return nil, err
		}
		if length%2 != 0 {
			if err := r.skip(1); err != nil {
				return nil, err
			}
		}
		return tlv, nil
	}
	return unmarshalRawTLV(typ, r, length)
}

func encodeTLV(w *writer, t TLV) error {
	if err := writeTLVHead(w, t.Type(), tlvBodyLen(t)); err != nil {
		return err
	}
	return t.marshalTo(w)
}

// tlvBodyLen returns the declared lengthField value: the unpadded body
// length, even though marshalTo may itself write one extra pad byte.
func tlvBodyLen(t TLV) int {
	switch v := t.(type) {
	case RawTLV:
		return len(v.Value)
	case *OrganizationExtensionTLV:
		return 6 + len(v.DataField)
	case *PathTraceTLV:
		return v.wireLen()
	case *AlternateTimeOffsetIndicatorTLV:
		return v.wireLen()
	case *authenticationTLV:
		return v.wireLen()
	default:
		return t.wireLen()
	}
}
