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

// SignalingMessage is a decoded Signaling message: the common header, a
// target port identity, and the ordered sequence of TLVs it carries.
// Unlike a ManagementMessage, a Signaling message may carry more than
// one TLV (IEEE 1588-2019 clause 13.11).
type SignalingMessage struct {
	Header             Header
	TargetPortIdentity PortIdentity
	TLVs               []TLV
}

// BuildSignaling encodes a Signaling message carrying tlvs in order,
// generalizing the teacher's per-message MarshalBinaryTo into the
// registry-driven encodeTLV loop of tlvs.go.
func BuildSignaling(params *MsgParams, tlvs []TLV, buf []byte) (int, error) {
	total := headerSize + portIdentitySize
	for _, t := range tlvs {
		total += tlvHeadSize + t.wireLen()
	}
	if len(buf) < total {
		return 0, wrapf(ErrShortBuffer, "need %d bytes, have %d", total, len(buf))
	}

	h := Header{
		SdoID:              0,
		MessageType:        MessageSignaling,
		Version:            ptpVersion,
		MessageLength:      uint16(total),
		DomainNumber:       params.DomainNumber,
		SourcePortIdentity: params.SelfID,
		ControlField:       0,
		LogMessageInterval: 0x7f,
	}
	w := newWriter(buf)
	if err := h.marshalTo(w); err != nil {
		return 0, err
	}
	if err := params.TargetID.marshalTo(w); err != nil {
		return 0, err
	}
	for _, t := range tlvs {
		if err := encodeTLV(w, t); err != nil {
			return 0, err
		}
	}
	return w.off, nil
}

// ParseSignaling decodes a Signaling message, reading TLVs until the
// buffer is exhausted.
func ParseSignaling(params *MsgParams, buf []byte) (*SignalingMessage, error) {
	r := newReader(buf)
	h, err := unmarshalHeader(r)
	if err != nil {
		return nil, err
	}
	if h.MessageType != MessageSignaling {
		return nil, wrapf(ErrInvalidHeader, "messageType %s is not SIGNALING", h.MessageType)
	}
	if !params.UseUDSLengthQuirk && int(h.MessageLength) > len(buf) {
		return nil, wrapf(ErrInvalidHeader, "messageLength %d exceeds buffer of %d", h.MessageLength, len(buf))
	}

	msg := &SignalingMessage{Header: h}
	if msg.TargetPortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	for r.remaining() > 0 {
		tlv, err := decodeTLV(r)
		if err != nil {
			return nil, err
		}
		msg.TLVs = append(msg.TLVs, tlv)
	}
	return msg, nil
}

// Traverse invokes fn once per TLV in msg, in wire order, stopping and
// returning the first error fn reports. It is the dump-dispatcher's
// entry point (protocol/dispatch.go) for reacting to a received
// Signaling message without a type switch at every call site.
func (msg *SignalingMessage) Traverse(fn func(TLV) error) error {
	for _, t := range msg.TLVs {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}
