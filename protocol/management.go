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

// ManagementMessage is a fully decoded management request or response:
// the common header, the management prefix (target, boundary hops,
// action) and exactly one payload TLV — either a typed management body
// or a MANAGEMENT_ERROR_STATUS report.
type ManagementMessage struct {
	Header               Header
	TargetPortIdentity   PortIdentity
	StartingBoundaryHops uint8
	BoundaryHops         uint8
	Action               Action

	ManagementID ManagementID
	Body         ManagementBody // nil when Error != nil

	Error *ManagementErrorStatusError // non-nil for a MANAGEMENT_ERROR_STATUS reply
}

const managementPrefixSize = portIdentitySize + 1 + 1 + 1 + 1 // + reserved octet

// Build encodes a management message carrying action, id and body into
// buf per IEEE 1588-2019 clause 15, returning the number of bytes
// written. The header's MessageLength is computed, its MessageType is
// MANAGEMENT, and its DomainNumber and SourcePortIdentity are stamped
// from params. SequenceID is always written as 0; Build has no input
// that sets it.
func Build(params *MsgParams, action Action, id ManagementID, body ManagementBody, buf []byte) (int, error) {
	d, err := descriptorFor(params, id)
	if err != nil {
		return 0, err
	}
	// A GET carries no dataField regardless of the id, same as a real
	// pmc building "get PRIORITY1" without ever touching a body value;
	// every other action needs the id's own body shape unless the id is
	// registry-flagged empty.
	if action == GET {
		body = EmptyBody{}
	} else if d.empty {
		body = EmptyBody{}
	} else if body == nil {
		return 0, wrapf(ErrActionMismatch, "%s requires a body", d.name)
	}
	wb, ok := body.(wireBody)
	if !ok {
		return 0, wrapf(ErrActionMismatch, "%s: body does not implement the wire codec", d.name)
	}

	total := headerSize + managementPrefixSize + tlvHeadSize + 2 + wb.wireLen()
	if total%2 != 0 {
		total++
	}
	if len(buf) < total {
		return 0, wrapf(ErrShortBuffer, "need %d bytes, have %d", total, len(buf))
	}

	h := Header{
		SdoID:              params.SelfID.ClockIdentity.sdoIDHint(),
		MessageType:        MessageManagement,
		Version:            ptpVersion,
		MessageLength:      uint16(total),
		DomainNumber:       params.DomainNumber,
		SourcePortIdentity: params.SelfID,
		ControlField:       0,
		LogMessageInterval: 0x7f, // per clause 13.3.2.12, non-event messages use 0x7F
	}

	w := newWriter(buf)
	if err := h.marshalTo(w); err != nil {
		return 0, err
	}
	if err := params.TargetID.marshalTo(w); err != nil {
		return 0, err
	}
	if err := w.putU8(params.BoundaryHops); err != nil {
		return 0, err
	}
	if err := w.putU8(params.BoundaryHops); err != nil {
		return 0, err
	}
	if err := w.putU8(uint8(action)); err != nil {
		return 0, err
	}
	if err := w.putU8(0); err != nil { // reserved
		return 0, err
	}
	bodyLen := 2 + wb.wireLen()
	if err := writeTLVHead(w, TLVManagement, bodyLen); err != nil {
		return 0, err
	}
	if err := w.putU16(uint16(id)); err != nil {
		return 0, err
	}
	if err := wb.marshalTo(w); err != nil {
		return 0, err
	}
	if bodyLen%2 != 0 {
		if err := w.pad(1); err != nil {
			return 0, err
		}
	}
	return w.off, nil
}

// sdoIDHint centralizes the (currently trivial) mapping from a clock's
// identity to the sdoId nibble Build stamps into the header; linuxptp's
// default profile always uses 0.
func (ClockIdentity) sdoIDHint() uint8 { return 0 }

// Parse decodes a management message from buf. On a well-formed
// MANAGEMENT_ERROR_STATUS reply, Parse returns a non-nil error
// satisfying errors.Is(err, ErrManagementErrorStatus); callers that only
// care about the value should check (*ManagementMessage).Error instead
// of treating every non-nil error as fatal.
func Parse(params *MsgParams, buf []byte) (*ManagementMessage, error) {
	r := newReader(buf)
	h, err := unmarshalHeader(r)
	if err != nil {
		return nil, err
	}
	if h.MessageType != MessageManagement {
		return nil, wrapf(ErrInvalidHeader, "messageType %s is not MANAGEMENT", h.MessageType)
	}
	if !params.UseUDSLengthQuirk && int(h.MessageLength) > len(buf) {
		return nil, wrapf(ErrInvalidHeader, "messageLength %d exceeds buffer of %d", h.MessageLength, len(buf))
	}

	msg := &ManagementMessage{Header: h}
	if msg.TargetPortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	if msg.StartingBoundaryHops, err = r.u8(); err != nil {
		return nil, err
	}
	if msg.BoundaryHops, err = r.u8(); err != nil {
		return nil, err
	}
	actionByte, err := r.u8()
	if err != nil {
		return nil, err
	}
	msg.Action = Action(actionByte & 0x0f)
	if err := r.skip(1); err != nil { // reserved
		return nil, err
	}

	typ, length, err := readTLVHead(r)
	if err != nil {
		return nil, err
	}
	switch typ {
	case TLVManagementErrorStatus:
		return parseManagementErrorStatus(msg, r, length)
	case TLVManagement:
		return parseManagementBody(params, msg, r, length)
	default:
		return nil, wrapf(ErrActionMismatch, "expected MANAGEMENT or MANAGEMENT_ERROR_STATUS TLV, got %s", typ)
	}
}

func parseManagementErrorStatus(msg *ManagementMessage, r *reader, length int) (*ManagementMessage, error) {
	if length < 4 {
		return nil, wrapf(ErrLengthMismatch, "MANAGEMENT_ERROR_STATUS body too short: %d", length)
	}
	errorID, err := r.u16()
	if err != nil {
		return nil, err
	}
	id, err := r.u16()
	if err != nil {
		return nil, err
	}
	if err := r.skip(4); err != nil { // reserved
		return nil, err
	}
	var display PTPText
	remaining := length - 4 - 4
	if remaining > 0 {
		if display, err = unmarshalPTPText(r); err != nil {
			return nil, err
		}
	} else if length%2 != 0 {
		if err := r.skip(1); err != nil {
			return nil, err
		}
	}
	msg.ManagementID = ManagementID(id)
	msg.Error = &ManagementErrorStatusError{
		ErrorID:      ManagementErrorID(errorID),
		ManagementID: ManagementID(id),
		DisplayData:  display,
	}
	return msg, msg.Error
}

func parseManagementBody(params *MsgParams, msg *ManagementMessage, r *reader, length int) (*ManagementMessage, error) {
	if length < 2 {
		return nil, wrapf(ErrLengthMismatch, "MANAGEMENT body too short: %d", length)
	}
	rawID, err := r.u16()
	if err != nil {
		return nil, err
	}
	id := ManagementID(rawID)
	msg.ManagementID = id

	d, err := descriptorFor(params, id)
	if err != nil {
		return nil, err
	}
	bodyLen := length - 2
	if msg.Action != GET && msg.Action != RESPONSE && msg.Action != ACKNOWLEDGE && d.getOnly {
		return nil, wrapf(ErrActionMismatch, "%s is get-only", d.name)
	}
	// A GET request carries no dataField on the wire regardless of the
	// id, mirroring Build's handling of the same action.
	if msg.Action == GET {
		if bodyLen != 0 {
			return nil, wrapf(ErrLengthMismatch, "GET %s must have an empty body, got %d bytes", d.name, bodyLen)
		}
		msg.Body = EmptyBody{}
	} else if d.empty {
		if bodyLen != 0 {
			return nil, wrapf(ErrLengthMismatch, "%s must have an empty body, got %d bytes", d.name, bodyLen)
		}
		msg.Body = EmptyBody{}
	} else {
		body, err := d.unmarshal(r, bodyLen)
		if err != nil {
			return nil, err
		}
		msg.Body = body
	}
	if length%2 != 0 {
		if err := r.skip(1); err != nil {
			return nil, err
		}
	}
	return msg, nil
}
