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

// MessageType is the low nibble of the first header octet.
type MessageType uint8

const (
	MessageSync               MessageType = 0x0
	MessageDelayReq            MessageType = 0x1
	MessagePDelayReq           MessageType = 0x2
	MessagePDelayResp          MessageType = 0x3
	MessageFollowUp            MessageType = 0x8
	MessageDelayResp           MessageType = 0x9
	MessagePDelayRespFollowUp  MessageType = 0xA
	MessageAnnounce            MessageType = 0xB
	MessageSignaling           MessageType = 0xC
	MessageManagement          MessageType = 0xD
)

func (m MessageType) String() string {
	switch m {
	case MessageSync:
		return "SYNC"
	case MessageDelayReq:
		return "DELAY_REQ"
	case MessagePDelayReq:
		return "PDELAY_REQ"
	case MessagePDelayResp:
		return "PDELAY_RESP"
	case MessageFollowUp:
		return "FOLLOW_UP"
	case MessageDelayResp:
		return "DELAY_RESP"
	case MessagePDelayRespFollowUp:
		return "PDELAY_RESP_FOLLOW_UP"
	case MessageAnnounce:
		return "ANNOUNCE"
	case MessageSignaling:
		return "SIGNALING"
	case MessageManagement:
		return "MANAGEMENT"
	default:
		return fmt.Sprintf("MessageType(0x%x)", uint8(m))
	}
}

// Header flag bits, big-endian bit numbering within the two-octet
// flagField (see IEEE 1588-2019 Table 37).
const (
	FlagAlternateMaster       uint16 = 1 << 8
	FlagTwoStep               uint16 = 1 << 9
	FlagUnicast               uint16 = 1 << 10
	FlagProfileSpecific1      uint16 = 1 << 13
	FlagProfileSpecific2      uint16 = 1 << 14
	FlagLeap61                uint16 = 1 << 0
	FlagLeap59                uint16 = 1 << 1
	FlagCurrentUtcOffsetValid uint16 = 1 << 2
	FlagPTPTimescale          uint16 = 1 << 3
	FlagTimeTraceable         uint16 = 1 << 4
	FlagFrequencyTraceable    uint16 = 1 << 5
	FlagSynchronizationUncertain uint16 = 1 << 6
)

// FlagField is the header's bit-packed flags octet pair, exposed both
// as named boolean predicates and as the raw value for round-trip
// fidelity with bits this package does not interpret.
type FlagField uint16

func (f FlagField) AlternateMaster() bool    { return uint16(f)&FlagAlternateMaster != 0 }
func (f FlagField) TwoStep() bool            { return uint16(f)&FlagTwoStep != 0 }
func (f FlagField) Unicast() bool            { return uint16(f)&FlagUnicast != 0 }
func (f FlagField) ProfileSpecific1() bool    { return uint16(f)&FlagProfileSpecific1 != 0 }
func (f FlagField) ProfileSpecific2() bool    { return uint16(f)&FlagProfileSpecific2 != 0 }
func (f FlagField) Leap61() bool              { return uint16(f)&FlagLeap61 != 0 }
func (f FlagField) Leap59() bool              { return uint16(f)&FlagLeap59 != 0 }
func (f FlagField) CurrentUtcOffsetValid() bool { return uint16(f)&FlagCurrentUtcOffsetValid != 0 }
func (f FlagField) PTPTimescale() bool        { return uint16(f)&FlagPTPTimescale != 0 }
func (f FlagField) TimeTraceable() bool       { return uint16(f)&FlagTimeTraceable != 0 }
func (f FlagField) FrequencyTraceable() bool  { return uint16(f)&FlagFrequencyTraceable != 0 }
func (f FlagField) SynchronizationUncertain() bool {
	return uint16(f)&FlagSynchronizationUncertain != 0
}

// Raw returns the flag field exactly as carried on the wire, for callers
// that need bits this package does not name.
func (f FlagField) Raw() uint16 { return uint16(f) }

// NewFlagField ORs together zero or more Flag* constants.
func NewFlagField(bits ...uint16) FlagField {
	var v uint16
	for _, b := range bits {
		v |= b
	}
	return FlagField(v)
}

const headerSize = 34
const ptpVersion = 2

// Header is the 34-byte common header shared by every PTP message type.
type Header struct {
	// SdoID is the 4-bit value carried in the high nibble of the first
	// octet (the transportSpecific/majorSdoId position), next to
	// MessageType; the separate minorSdoId octet is not modelled.
	SdoID             uint8
	MessageType       MessageType
	Version           uint8
	MessageLength     uint16
	DomainNumber      uint8
	FlagField         FlagField
	CorrectionField   Correction
	SourcePortIdentity PortIdentity
	SequenceID        uint16
	ControlField      uint8
	LogMessageInterval LogInterval
}

func (h Header) marshalTo(w *writer) error {
	sdoAndType := (h.SdoID&0xf)<<4 | uint8(h.MessageType)&0xf
	if err := w.putU8(sdoAndType); err != nil {
		return err
	}
	version := h.Version
	if version == 0 {
		version = ptpVersion
	}
	if err := w.putU8(version & 0xf); err != nil {
		return err
	}
	if err := w.putU16(h.MessageLength); err != nil {
		return err
	}
	if err := w.putU8(h.DomainNumber); err != nil {
		return err
	}
	if err := w.putU8(0); err != nil { // reserved
		return err
	}
	if err := w.putU16(uint16(h.FlagField)); err != nil {
		return err
	}
	if err := h.CorrectionField.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU32(0); err != nil { // messageTypeSpecific, unused by management
		return err
	}
	if err := h.SourcePortIdentity.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU16(h.SequenceID); err != nil {
		return err
	}
	if err := w.putU8(h.ControlField); err != nil {
		return err
	}
	return w.putI8(int8(h.LogMessageInterval))
}

func unmarshalHeader(r *reader) (Header, error) {
	var h Header
	b0, err := r.u8()
	if err != nil {
		return h, err
	}
	h.SdoID = b0 >> 4
	h.MessageType = MessageType(b0 & 0xf)

	b1, err := r.u8()
	if err != nil {
		return h, err
	}
	h.Version = b1 & 0xf
	if h.Version != ptpVersion {
		return h, wrapf(ErrInvalidHeader, "unsupported version %d", h.Version)
	}

	if h.MessageLength, err = r.u16(); err != nil {
		return h, err
	}
	if h.DomainNumber, err = r.u8(); err != nil {
		return h, err
	}
	if err = r.skip(1); err != nil { // reserved
		return h, err
	}
	flags, err := r.u16()
	if err != nil {
		return h, err
	}
	h.FlagField = FlagField(flags)
	if h.CorrectionField, err = unmarshalTimeInterval(r); err != nil {
		return h, err
	}
	if err = r.skip(4); err != nil { // messageTypeSpecific
		return h, err
	}
	if h.SourcePortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return h, err
	}
	if h.SequenceID, err = r.u16(); err != nil {
		return h, err
	}
	if h.ControlField, err = r.u8(); err != nil {
		return h, err
	}
	li, err := r.i8()
	if err != nil {
		return h, err
	}
	h.LogMessageInterval = LogInterval(li)
	return h, nil
}
