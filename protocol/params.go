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

// Implementation selects which vendor-specific management ids and TLVs
// a MsgParams session is willing to build or accept.
type Implementation uint8

const (
	// ImplementationStandard restricts Build/Parse to the plain IEEE
	// 1588 management ids.
	ImplementationStandard Implementation = iota
	// ImplementationLinuxptp additionally allows the *_NP ids that
	// originate from the linuxptp project.
	ImplementationLinuxptp
)

// MsgParams bundles everything a caller needs to Build or Parse
// messages, replacing the teacher's package-level identity/
// mgmtLogMessageInterval/defaultTargetPortIdentity globals with an
// explicit value the caller owns and may vary per session.
type MsgParams struct {
	// SelfID is this instance's own source port identity, stamped into
	// built headers' SourcePortIdentity.
	SelfID PortIdentity
	// TargetID is the targetPortIdentity Build and BuildSignaling write
	// into every message they encode; the IEEE 1588 wildcard
	// (all-ones clock identity, port number 0xffff) addresses every
	// port.
	TargetID PortIdentity
	// BoundaryHops seeds the management prefix's startingBoundaryHops
	// and boundaryHops fields for a freshly built request.
	BoundaryHops uint8
	// DomainNumber is stamped into built headers.
	DomainNumber uint8
	// Implementation gates which *_NP management ids Build/Parse accept.
	Implementation Implementation
	// UseUDSLengthQuirk, matching linuxptp's UDS-local pmc client,
	// makes Parse and ParseSignaling skip the check that the header's
	// messageLength does not exceed the buffer length, a check that
	// otherwise fails with ErrInvalidHeader. Bytes past messageLength
	// are not rejected in either mode.
	UseUDSLengthQuirk bool
	// Auth configures Annex P authentication for this session. Nil
	// means this session neither builds nor requires an AUTHENTICATION
	// TLV.
	Auth *AuthConfig
}

// WildcardClockIdentity is the IEEE 1588 "all clocks" ClockIdentity.
const WildcardClockIdentity ClockIdentity = 0xffffffffffffffff

// WildcardPortNumber addresses every port of the target clock.
const WildcardPortNumber uint16 = 0xffff

// DefaultTargetID is the PortIdentity meaning "all ports of all clocks",
// the default target of a freshly built GET.
var DefaultTargetID = PortIdentity{ClockIdentity: WildcardClockIdentity, PortNumber: WildcardPortNumber}

// NewMsgParams returns a MsgParams with TargetID defaulted to the
// broadcast wildcard and BoundaryHops set to 1, as linuxptp's pmc does
// for a freshly opened session.
func NewMsgParams(self PortIdentity) *MsgParams {
	return &MsgParams{
		SelfID:       self,
		TargetID:     DefaultTargetID,
		BoundaryHops: 1,
		DomainNumber: 0,
	}
}

func (p *MsgParams) allowNP() bool {
	return p != nil && p.Implementation == ImplementationLinuxptp
}
