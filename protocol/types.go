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
	"encoding/hex"
	"fmt"
	"net"
	"time"
)

// ClockIdentity is the EUI-64 that uniquely identifies a PTP clock.
type ClockIdentity uint64

// NewClockIdentity builds a ClockIdentity from a 6 or 8 byte hardware
// address, following the EUI-48-to-EUI-64 expansion (insert 0xFFFE at
// the midpoint) for 6-byte MACs.
func NewClockIdentity(mac []byte) (ClockIdentity, error) {
	switch len(mac) {
	case 8:
		var v uint64
		for _, b := range mac {
			v = v<<8 | uint64(b)
		}
		return ClockIdentity(v), nil
	case 6:
		full := make([]byte, 0, 8)
		full = append(full, mac[0:3]...)
		full = append(full, 0xff, 0xfe)
		full = append(full, mac[3:6]...)
		return NewClockIdentity(full)
	default:
		return 0, fmt.Errorf("ptpmgmt: clock identity needs 6 or 8 bytes, got %d", len(mac))
	}
}

func (c ClockIdentity) String() string {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(c)
		c >>= 8
	}
	return hex.EncodeToString(b[:3]) + "." + hex.EncodeToString(b[3:5]) + "." + hex.EncodeToString(b[5:])
}

// PortIdentity identifies a PTP port: its clock plus a 1-based port number.
type PortIdentity struct {
	ClockIdentity ClockIdentity
	PortNumber    uint16
}

func (p PortIdentity) String() string {
	return fmt.Sprintf("%s-%d", p.ClockIdentity, p.PortNumber)
}

// Compare orders two PortIdentity values, ClockIdentity first.
func (p PortIdentity) Compare(o PortIdentity) int {
	if p.ClockIdentity != o.ClockIdentity {
		if p.ClockIdentity < o.ClockIdentity {
			return -1
		}
		return 1
	}
	if p.PortNumber != o.PortNumber {
		if p.PortNumber < o.PortNumber {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether p sorts before o.
func (p PortIdentity) Less(o PortIdentity) bool { return p.Compare(o) < 0 }

const (
	clockIdentitySize = 8
	portIdentitySize  = clockIdentitySize + 2
)

func (p PortIdentity) marshalTo(w *writer) error {
	var b [8]byte
	ci := uint64(p.ClockIdentity)
	for i := 7; i >= 0; i-- {
		b[i] = byte(ci)
		ci >>= 8
	}
	if err := w.putBytes(b[:]); err != nil {
		return err
	}
	return w.putU16(p.PortNumber)
}

func unmarshalPortIdentity(r *reader) (PortIdentity, error) {
	raw, err := r.bytes(clockIdentitySize)
	if err != nil {
		return PortIdentity{}, err
	}
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	port, err := r.u16()
	if err != nil {
		return PortIdentity{}, err
	}
	return PortIdentity{ClockIdentity: ClockIdentity(v), PortNumber: port}, nil
}

// PTPSeconds is the 48-bit (6 byte) seconds field used by Timestamp and
// by the alternate-time-offset TLVs.
type PTPSeconds [6]uint8

// Seconds returns the value as a plain uint64.
func (s PTPSeconds) Seconds() uint64 {
	var v uint64
	for _, b := range s {
		v = v<<8 | uint64(b)
	}
	return v
}

// NewPTPSeconds truncates v to 48 bits.
func NewPTPSeconds(v uint64) PTPSeconds {
	var s PTPSeconds
	for i := 5; i >= 0; i-- {
		s[i] = byte(v)
		v >>= 8
	}
	return s
}

func (s PTPSeconds) Time() time.Time {
	return time.Unix(int64(s.Seconds()), 0).UTC()
}

func (s PTPSeconds) String() string { return s.Time().Format(time.RFC3339) }

func (s PTPSeconds) marshalTo(w *writer) error { return w.putBytes(s[:]) }

func unmarshalPTPSeconds(r *reader) (PTPSeconds, error) {
	raw, err := r.bytes(6)
	if err != nil {
		return PTPSeconds{}, err
	}
	var s PTPSeconds
	copy(s[:], raw)
	return s, nil
}

// Timestamp is seconds (48 bit) + nanoseconds (32 bit).
type Timestamp struct {
	Seconds     PTPSeconds
	Nanoseconds uint32
}

// NewTimestamp builds a Timestamp from a time.Time, truncating sub-second
// precision to nanoseconds.
func NewTimestamp(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Seconds: NewPTPSeconds(uint64(t.Unix())), Nanoseconds: uint32(t.Nanosecond())}
}

func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t.Seconds.Seconds()), int64(t.Nanoseconds)).UTC()
}

func (t Timestamp) Empty() bool { return t.Seconds.Seconds() == 0 && t.Nanoseconds == 0 }

func (t Timestamp) String() string { return t.Time().Format(time.RFC3339Nano) }

const timestampSize = 6 + 4

func (t Timestamp) marshalTo(w *writer) error {
	if err := t.Seconds.marshalTo(w); err != nil {
		return err
	}
	return w.putU32(t.Nanoseconds)
}

func unmarshalTimestamp(r *reader) (Timestamp, error) {
	secs, err := unmarshalPTPSeconds(r)
	if err != nil {
		return Timestamp{}, err
	}
	ns, err := r.u32()
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Seconds: secs, Nanoseconds: ns}, nil
}

// TimeInterval is a scaled nanosecond value: the wire representation is
// nanoseconds * 2^16 as a signed 64-bit two's-complement integer.
type TimeInterval int64

// Correction is the alias IEEE 1588 uses for TimeInterval inside the
// common header's correctionField.
type Correction = TimeInterval

const correctionTooBig = TimeInterval(0x7fffffffffff0000)

// NewCorrection builds a TimeInterval from a time.Duration.
func NewCorrection(d time.Duration) Correction {
	return Correction(d.Nanoseconds() << 16)
}

// Nanoseconds returns the interval truncated to whole nanoseconds.
func (t TimeInterval) Nanoseconds() int64 { return int64(t) >> 16 }

// Duration converts the interval to a time.Duration.
func (t TimeInterval) Duration() time.Duration { return time.Duration(t.Nanoseconds()) }

// TooBig reports whether the interval is the IEEE 1588 sentinel meaning
// "correction overflowed and must be carried out-of-band".
func (t TimeInterval) TooBig() bool { return t >= correctionTooBig }

func (t TimeInterval) String() string { return t.Duration().String() }

func (t TimeInterval) marshalTo(w *writer) error { return w.putI64(int64(t)) }

func unmarshalTimeInterval(r *reader) (TimeInterval, error) {
	v, err := r.i64()
	return TimeInterval(v), err
}

// LogInterval is the IEEE 1588 log2-seconds message-interval encoding.
type LogInterval int8

// NewLogInterval rounds d to whole seconds and returns the smallest
// non-negative log2-seconds value whose interval is at least that; it
// never returns a negative (sub-second) interval.
func NewLogInterval(d time.Duration) LogInterval {
	if d <= 0 {
		return 0
	}
	seconds := d.Seconds()
	exp := 0
	for (1 << uint(exp)) < int(seconds+0.5) {
		exp++
	}
	return LogInterval(exp)
}

func (l LogInterval) Duration() time.Duration {
	if l >= 0 {
		return time.Duration(1) << uint(l) * time.Second
	}
	return time.Second >> uint(-l)
}

func (l LogInterval) String() string { return l.Duration().String() }

// PTPText is a UTF-8 string carried on the wire as a one-byte length
// prefix followed by the raw (non-null-terminated) bytes, even-padded.
type PTPText string

func (t PTPText) wireLen() int {
	n := 1 + len(t)
	if n%2 != 0 {
		n++
	}
	return n
}

func (t PTPText) marshalTo(w *writer) error {
	if len(t) > 255 {
		return wrapf(ErrValueOutOfRange, "PTPText length %d exceeds 255", len(t))
	}
	if err := w.putU8(uint8(len(t))); err != nil {
		return err
	}
	if err := w.putBytes([]byte(t)); err != nil {
		return err
	}
	if (1+len(t))%2 != 0 {
		return w.pad(1)
	}
	return nil
}

func unmarshalPTPText(r *reader) (PTPText, error) {
	n, err := r.u8()
	if err != nil {
		return "", err
	}
	raw, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	if (1+int(n))%2 != 0 {
		if err := r.skip(1); err != nil {
			return "", err
		}
	}
	return PTPText(raw), nil
}

// NetworkProtocol identifies the transport carried inside a PortAddress.
type NetworkProtocol uint16

const (
	NetworkProtocolUDPIPv4    NetworkProtocol = 1
	NetworkProtocolUDPIPv6    NetworkProtocol = 2
	NetworkProtocolIEEE802_3  NetworkProtocol = 3
	NetworkProtocolDeviceNet  NetworkProtocol = 4
	NetworkProtocolControlNet NetworkProtocol = 5
	NetworkProtocolProfinet   NetworkProtocol = 6
)

func (n NetworkProtocol) String() string {
	switch n {
	case NetworkProtocolUDPIPv4:
		return "UDP_IPV4"
	case NetworkProtocolUDPIPv6:
		return "UDP_IPV6"
	case NetworkProtocolIEEE802_3:
		return "IEEE_802_3"
	case NetworkProtocolDeviceNet:
		return "DeviceNet"
	case NetworkProtocolControlNet:
		return "ControlNet"
	case NetworkProtocolProfinet:
		return "PROFINET"
	default:
		return fmt.Sprintf("NetworkProtocol(%d)", uint16(n))
	}
}

// PortAddress carries a transport-specific address: a protocol tag, a
// length, and raw address bytes.
type PortAddress struct {
	NetworkProtocol NetworkProtocol
	AddressField    []byte
}

// IP returns the AddressField interpreted as an IPv4 or IPv6 address, if
// NetworkProtocol says so.
func (p PortAddress) IP() net.IP {
	switch p.NetworkProtocol {
	case NetworkProtocolUDPIPv4, NetworkProtocolUDPIPv6:
		return net.IP(p.AddressField)
	default:
		return nil
	}
}

func (p PortAddress) wireLen() int {
	n := 2 + 2 + len(p.AddressField)
	if n%2 != 0 {
		n++
	}
	return n
}

func (p PortAddress) marshalTo(w *writer) error {
	if err := w.putU16(uint16(p.NetworkProtocol)); err != nil {
		return err
	}
	if err := w.putU16(uint16(len(p.AddressField))); err != nil {
		return err
	}
	if err := w.putBytes(p.AddressField); err != nil {
		return err
	}
	if (4+len(p.AddressField))%2 != 0 {
		return w.pad(1)
	}
	return nil
}

func unmarshalPortAddress(r *reader) (PortAddress, error) {
	proto, err := r.u16()
	if err != nil {
		return PortAddress{}, err
	}
	n, err := r.u16()
	if err != nil {
		return PortAddress{}, err
	}
	raw, err := r.bytes(int(n))
	if err != nil {
		return PortAddress{}, err
	}
	field := append([]byte(nil), raw...)
	if (4+int(n))%2 != 0 {
		if err := r.skip(1); err != nil {
			return PortAddress{}, err
		}
	}
	return PortAddress{NetworkProtocol: NetworkProtocol(proto), AddressField: field}, nil
}

// ClockClass per IEEE 1588 Table 5.
type ClockClass uint8

const (
	ClockClassPrimaryReference    ClockClass = 6
	ClockClassPrimaryHoldover     ClockClass = 7
	ClockClassApplicationSpecific ClockClass = 13
	ClockClassDegradedA           ClockClass = 52
	ClockClassDegradedB           ClockClass = 58
	ClockClassDefault             ClockClass = 248
	ClockClassSlaveOnly           ClockClass = 255
)

// ClockAccuracy per IEEE 1588 Table 6, expressed in nanoseconds (or the
// Unknown sentinel 0xFE).
type ClockAccuracy uint8

const (
	ClockAccuracyNanosecond25   ClockAccuracy = 0x20
	ClockAccuracyMicrosecond1   ClockAccuracy = 0x21
	ClockAccuracyMicrosecond2_5 ClockAccuracy = 0x22
	ClockAccuracyMicrosecond10  ClockAccuracy = 0x23
	ClockAccuracyMicrosecond25  ClockAccuracy = 0x24
	ClockAccuracyMicrosecond100 ClockAccuracy = 0x25
	ClockAccuracyMicrosecond250 ClockAccuracy = 0x26
	ClockAccuracyMillisecond1   ClockAccuracy = 0x27
	ClockAccuracyMillisecond2_5 ClockAccuracy = 0x28
	ClockAccuracyMillisecond10  ClockAccuracy = 0x29
	ClockAccuracyMillisecond25  ClockAccuracy = 0x2a
	ClockAccuracyMillisecond100 ClockAccuracy = 0x2b
	ClockAccuracyMillisecond250 ClockAccuracy = 0x2c
	ClockAccuracySecond1        ClockAccuracy = 0x2d
	ClockAccuracySecond10       ClockAccuracy = 0x2e
	ClockAccuracySecondGT10     ClockAccuracy = 0x2f
	ClockAccuracyUnknown        ClockAccuracy = 0xfe
)

// Duration returns the upper bound the accuracy code represents, or 0
// for the Unknown sentinel.
func (a ClockAccuracy) Duration() time.Duration {
	switch a {
	case ClockAccuracyNanosecond25:
		return 25 * time.Nanosecond
	case ClockAccuracyMicrosecond1:
		return time.Microsecond
	case ClockAccuracyMicrosecond2_5:
		return 2500 * time.Nanosecond
	case ClockAccuracyMicrosecond10:
		return 10 * time.Microsecond
	case ClockAccuracyMicrosecond25:
		return 25 * time.Microsecond
	case ClockAccuracyMicrosecond100:
		return 100 * time.Microsecond
	case ClockAccuracyMicrosecond250:
		return 250 * time.Microsecond
	case ClockAccuracyMillisecond1:
		return time.Millisecond
	case ClockAccuracyMillisecond2_5:
		return 2500 * time.Microsecond
	case ClockAccuracyMillisecond10:
		return 10 * time.Millisecond
	case ClockAccuracyMillisecond25:
		return 25 * time.Millisecond
	case ClockAccuracyMillisecond100:
		return 100 * time.Millisecond
	case ClockAccuracyMillisecond250:
		return 250 * time.Millisecond
	case ClockAccuracySecond1:
		return time.Second
	case ClockAccuracySecond10:
		return 10 * time.Second
	case ClockAccuracySecondGT10:
		return time.Hour
	default:
		return 0
	}
}

// ClockAccuracyFromOffset picks the smallest ClockAccuracy bucket that
// bounds the given offset.
func ClockAccuracyFromOffset(d time.Duration) ClockAccuracy {
	switch {
	case d <= 25*time.Nanosecond:
		return ClockAccuracyNanosecond25
	case d <= time.Microsecond:
		return ClockAccuracyMicrosecond1
	case d <= 2500*time.Nanosecond:
		return ClockAccuracyMicrosecond2_5
	case d <= 10*time.Microsecond:
		return ClockAccuracyMicrosecond10
	case d <= 25*time.Microsecond:
		return ClockAccuracyMicrosecond25
	case d <= 100*time.Microsecond:
		return ClockAccuracyMicrosecond100
	case d <= 250*time.Microsecond:
		return ClockAccuracyMicrosecond250
	case d <= time.Millisecond:
		return ClockAccuracyMillisecond1
	case d <= 2500*time.Microsecond:
		return ClockAccuracyMillisecond2_5
	case d <= 10*time.Millisecond:
		return ClockAccuracyMillisecond10
	case d <= 25*time.Millisecond:
		return ClockAccuracyMillisecond25
	case d <= 100*time.Millisecond:
		return ClockAccuracyMillisecond100
	case d <= 250*time.Millisecond:
		return ClockAccuracyMillisecond250
	case d <= time.Second:
		return ClockAccuracySecond1
	case d <= 10*time.Second:
		return ClockAccuracySecond10
	default:
		return ClockAccuracySecondGT10
	}
}

// ClockQuality bundles the three fields IEEE 1588 always carries together.
type ClockQuality struct {
	ClockClass              ClockClass
	ClockAccuracy           ClockAccuracy
	OffsetScaledLogVariance uint16
}

const clockQualitySize = 1 + 1 + 2

func (q ClockQuality) marshalTo(w *writer) error {
	if err := w.putU8(uint8(q.ClockClass)); err != nil {
		return err
	}
	if err := w.putU8(uint8(q.ClockAccuracy)); err != nil {
		return err
	}
	return w.putU16(q.OffsetScaledLogVariance)
}

func unmarshalClockQuality(r *reader) (ClockQuality, error) {
	class, err := r.u8()
	if err != nil {
		return ClockQuality{}, err
	}
	acc, err := r.u8()
	if err != nil {
		return ClockQuality{}, err
	}
	variance, err := r.u16()
	if err != nil {
		return ClockQuality{}, err
	}
	return ClockQuality{ClockClass(class), ClockAccuracy(acc), variance}, nil
}

// TimeSource per IEEE 1588 Table 7.
type TimeSource uint8

const (
	TimeSourceAtomicClock        TimeSource = 0x10
	TimeSourceGPS                TimeSource = 0x20
	TimeSourceTerrestrialRadio   TimeSource = 0x30
	TimeSourcePTP                TimeSource = 0x40
	TimeSourceNTP                TimeSource = 0x50
	TimeSourceHandSet            TimeSource = 0x60
	TimeSourceOther              TimeSource = 0x90
	TimeSourceInternalOscillator TimeSource = 0xa0
)

func (t TimeSource) String() string {
	switch t {
	case TimeSourceAtomicClock:
		return "ATOMIC_CLOCK"
	case TimeSourceGPS:
		return "GPS"
	case TimeSourceTerrestrialRadio:
		return "TERRESTRIAL_RADIO"
	case TimeSourcePTP:
		return "PTP"
	case TimeSourceNTP:
		return "NTP"
	case TimeSourceHandSet:
		return "HAND_SET"
	case TimeSourceOther:
		return "OTHER"
	case TimeSourceInternalOscillator:
		return "INTERNAL_OSCILLATOR"
	default:
		return fmt.Sprintf("TimeSource(0x%02x)", uint8(t))
	}
}

// PortState per IEEE 1588 Table 10.
type PortState uint8

const (
	PortStateInitializing PortState = 1
	PortStateFaulty       PortState = 2
	PortStateDisabled     PortState = 3
	PortStateListening    PortState = 4
	PortStatePreMaster    PortState = 5
	PortStateMaster       PortState = 6
	PortStatePassive      PortState = 7
	PortStateUncalibrated PortState = 8
	PortStateSlave        PortState = 9
)

func (s PortState) String() string {
	switch s {
	case PortStateInitializing:
		return "INITIALIZING"
	case PortStateFaulty:
		return "FAULTY"
	case PortStateDisabled:
		return "DISABLED"
	case PortStateListening:
		return "LISTENING"
	case PortStatePreMaster:
		return "PRE_MASTER"
	case PortStateMaster:
		return "MASTER"
	case PortStatePassive:
		return "PASSIVE"
	case PortStateUncalibrated:
		return "UNCALIBRATED"
	case PortStateSlave:
		return "SLAVE"
	default:
		return fmt.Sprintf("PortState(%d)", uint8(s))
	}
}

// TransportType per IEEE 1588 Annex C, used by PORT_DATA_SET_NP-style
// linuxptp extensions.
type TransportType uint8

const (
	TransportUDPIPv4   TransportType = 1
	TransportUDPIPv6   TransportType = 2
	TransportIEEE802_3 TransportType = 3
	TransportDeviceNet TransportType = 4
)

func (t TransportType) String() string {
	switch t {
	case TransportUDPIPv4:
		return "UDPv4"
	case TransportUDPIPv6:
		return "UDPv6"
	case TransportIEEE802_3:
		return "L2"
	case TransportDeviceNet:
		return "DeviceNet"
	default:
		return fmt.Sprintf("TransportType(%d)", uint8(t))
	}
}

// DelayMechanism per IEEE 1588 Table 24.
type DelayMechanism uint8

const (
	DelayMechanismE2E  DelayMechanism = 1
	DelayMechanismP2P  DelayMechanism = 2
	DelayMechanismNone DelayMechanism = 0xfe
)

func (d DelayMechanism) String() string {
	switch d {
	case DelayMechanismE2E:
		return "E2E"
	case DelayMechanismP2P:
		return "P2P"
	case DelayMechanismNone:
		return "NO_MECHANISM"
	default:
		return fmt.Sprintf("DelayMechanism(0x%02x)", uint8(d))
	}
}
