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

import "github.com/erezgeva/libptpmgmt-sub003/protocol/hostendian"

// --- TimeStatusNPBody ---

func (s ScaledNS) wireLen() int { return 2 + 8 + 2 }

func (s ScaledNS) marshalTo(w *writer) error {
	if err := w.putU16(s.NanosecondsMSB); err != nil {
		return err
	}
	if err := w.putU64(s.NanosecondsLSB); err != nil {
		return err
	}
	return w.putU16(s.FractionalNanoseconds)
}

func unmarshalScaledNS(r *reader) (ScaledNS, error) {
	var s ScaledNS
	var err error
	if s.NanosecondsMSB, err = r.u16(); err != nil {
		return s, err
	}
	if s.NanosecondsLSB, err = r.u64(); err != nil {
		return s, err
	}
	if s.FractionalNanoseconds, err = r.u16(); err != nil {
		return s, err
	}
	return s, nil
}

func (b *TimeStatusNPBody) wireLen() int {
	return 8 + 8 + 4 + 4 + 2 + b.LastGmPhaseChange.wireLen() + 4 + clockIdentitySize
}

func (b *TimeStatusNPBody) marshalTo(w *writer) error {
	if err := w.putI64(b.MasterOffset); err != nil {
		return err
	}
	if err := w.putI64(b.IngressTime); err != nil {
		return err
	}
	if err := w.putI32(b.CumulativeScaledRateOffset); err != nil {
		return err
	}
	if err := w.putI32(b.ScaledLastGmPhaseChange); err != nil {
		return err
	}
	if err := w.putU16(b.GmTimeBaseIndicator); err != nil {
		return err
	}
	if err := b.LastGmPhaseChange.marshalTo(w); err != nil {
		return err
	}
	if err := w.putI32(b.GmPresent); err != nil {
		return err
	}
	return marshalClockIdentity(w, b.GmIdentity)
}

func unmarshalTimeStatusNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &TimeStatusNPBody{}
	var err error
	if b.MasterOffset, err = r.i64(); err != nil {
		return nil, err
	}
	if b.IngressTime, err = r.i64(); err != nil {
		return nil, err
	}
	if b.CumulativeScaledRateOffset, err = r.i32(); err != nil {
		return nil, err
	}
	if b.ScaledLastGmPhaseChange, err = r.i32(); err != nil {
		return nil, err
	}
	if b.GmTimeBaseIndicator, err = r.u16(); err != nil {
		return nil, err
	}
	if b.LastGmPhaseChange, err = unmarshalScaledNS(r); err != nil {
		return nil, err
	}
	if b.GmPresent, err = r.i32(); err != nil {
		return nil, err
	}
	if b.GmIdentity, err = unmarshalClockIdentity(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- GrandmasterSettingsNPBody ---

func (b *GrandmasterSettingsNPBody) wireLen() int { return clockQualitySize + 2 + 1 + 1 }

func (b *GrandmasterSettingsNPBody) marshalTo(w *writer) error {
	if err := b.ClockQuality.marshalTo(w); err != nil {
		return err
	}
	if err := w.putI16(b.CurrentUtcOffset); err != nil {
		return err
	}
	flags := timePropertiesFlags(b.Leap61, b.Leap59, b.CurrentUtcOffsetValid, b.PTPTimescale, b.TimeTraceable, b.FrequencyTraceable)
	if err := w.putU8(flags); err != nil {
		return err
	}
	return w.putU8(uint8(b.TimeSource))
}

func unmarshalGrandmasterSettingsNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &GrandmasterSettingsNPBody{}
	var err error
	if b.ClockQuality, err = unmarshalClockQuality(r); err != nil {
		return nil, err
	}
	if b.CurrentUtcOffset, err = r.i16(); err != nil {
		return nil, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.Leap61 = bit(flags, 0)
	b.Leap59 = bit(flags, 1)
	b.CurrentUtcOffsetValid = bit(flags, 2)
	b.PTPTimescale = bit(flags, 3)
	b.TimeTraceable = bit(flags, 4)
	b.FrequencyTraceable = bit(flags, 5)
	ts, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.TimeSource = TimeSource(ts)
	return b, nil
}

// --- PortDataSetNPBody ---

func (b *PortDataSetNPBody) wireLen() int { return 4 + 4 }

func (b *PortDataSetNPBody) marshalTo(w *writer) error {
	if err := w.putU32(b.NeighborPropDelayThresh); err != nil {
		return err
	}
	return w.putI32(b.AsCapable)
}

func unmarshalPortDataSetNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &PortDataSetNPBody{}
	var err error
	if b.NeighborPropDelayThresh, err = r.u32(); err != nil {
		return nil, err
	}
	if b.AsCapable, err = r.i32(); err != nil {
		return nil, err
	}
	return b, nil
}

// --- SubscribeEventsNPBody ---

func (b *SubscribeEventsNPBody) wireLen() int { return 2 + len(b.Bitmask) }

func (b *SubscribeEventsNPBody) marshalTo(w *writer) error {
	if err := w.putU16(b.Duration); err != nil {
		return err
	}
	return w.putBytes(b.Bitmask[:])
}

func unmarshalSubscribeEventsNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &SubscribeEventsNPBody{}
	var err error
	if b.Duration, err = r.u16(); err != nil {
		return nil, err
	}
	raw, err := r.bytes(len(b.Bitmask))
	if err != nil {
		return nil, err
	}
	copy(b.Bitmask[:], raw)
	return b, nil
}

// --- PortPropertiesNPBody ---
// portState and timestamping are sent in host byte order by linuxptp's
// local UDS socket, matching ptp4l.go's PortPropertiesNPTLV.MarshalBinary.

func (b *PortPropertiesNPBody) wireLen() int {
	return portIdentitySize + 1 + 1 + b.Interface.wireLen()
}

func (b *PortPropertiesNPBody) marshalTo(w *writer) error {
	if err := b.PortIdentity.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU8(uint8(b.PortState)); err != nil {
		return err
	}
	if err := w.putU8(uint8(b.Timestamping)); err != nil {
		return err
	}
	return b.Interface.marshalTo(w)
}

func unmarshalPortPropertiesNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &PortPropertiesNPBody{}
	var err error
	if b.PortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	ps, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.PortState = PortState(ps)
	ts, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.Timestamping = Timestamping(ts)
	if b.Interface, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- PortStatsNPBody ---
// RxMsgType/TxMsgType are written using hostendian.Order rather than
// big-endian: linuxptp's pmc reads this TLV over its local UDS socket
// where the daemon writes its internal, host-endian PortStats struct
// directly rather than re-encoding it for the wire.

func (ps PortStats) marshalTo(w *writer) error {
	for _, v := range ps.RxMsgType {
		if err := putHostU64(w, v); err != nil {
			return err
		}
	}
	for _, v := range ps.TxMsgType {
		if err := putHostU64(w, v); err != nil {
			return err
		}
	}
	return nil
}

func putHostU64(w *writer, v uint64) error {
	var b [8]byte
	hostendian.Order.PutUint64(b[:], v)
	return w.putBytes(b[:])
}

func hostU64(r *reader) (uint64, error) {
	raw, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return hostendian.Order.Uint64(raw), nil
}

func unmarshalPortStats(r *reader) (PortStats, error) {
	var ps PortStats
	for i := range ps.RxMsgType {
		v, err := hostU64(r)
		if err != nil {
			return ps, err
		}
		ps.RxMsgType[i] = v
	}
	for i := range ps.TxMsgType {
		v, err := hostU64(r)
		if err != nil {
			return ps, err
		}
		ps.TxMsgType[i] = v
	}
	return ps, nil
}

func (b *PortStatsNPBody) wireLen() int { return portIdentitySize + messageTypesCount*8*2 }

func (b *PortStatsNPBody) marshalTo(w *writer) error {
	if err := b.PortIdentity.marshalTo(w); err != nil {
		return err
	}
	return b.PortStats.marshalTo(w)
}

func unmarshalPortStatsNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &PortStatsNPBody{}
	var err error
	if b.PortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	if b.PortStats, err = unmarshalPortStats(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- SynchronizationUncertainNPBody ---

func (b *SynchronizationUncertainNPBody) wireLen() int              { return 1 }
func (b *SynchronizationUncertainNPBody) marshalTo(w *writer) error { return w.putU8(b.Val) }
func unmarshalSynchronizationUncertainNPBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &SynchronizationUncertainNPBody{Val: v}, err
}

// --- PortServiceStatsNPBody ---

const portServiceStatsFields = 10

func (s PortServiceStats) marshalTo(w *writer) error {
	for _, v := range []uint64{
		s.AnnounceTimeout, s.SyncTimeout, s.DelayTimeout, s.UnicastServiceTimeout,
		s.UnicastRequestTimeout, s.MasterAnnounceTimeout, s.MasterSyncTimeout,
		s.QualificationTimeout, s.SyncMismatch, s.FollowupMismatch,
	} {
		if err := w.putU64(v); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalPortServiceStats(r *reader) (PortServiceStats, error) {
	vals := make([]uint64, portServiceStatsFields)
	for i := range vals {
		v, err := r.u64()
		if err != nil {
			return PortServiceStats{}, err
		}
		vals[i] = v
	}
	return PortServiceStats{
		AnnounceTimeout:       vals[0],
		SyncTimeout:           vals[1],
		DelayTimeout:          vals[2],
		UnicastServiceTimeout: vals[3],
		UnicastRequestTimeout: vals[4],
		MasterAnnounceTimeout: vals[5],
		MasterSyncTimeout:     vals[6],
		QualificationTimeout:  vals[7],
		SyncMismatch:          vals[8],
		FollowupMismatch:      vals[9],
	}, nil
}

func (b *PortServiceStatsNPBody) wireLen() int { return portIdentitySize + portServiceStatsFields*8 }

func (b *PortServiceStatsNPBody) marshalTo(w *writer) error {
	if err := b.PortIdentity.marshalTo(w); err != nil {
		return err
	}
	return b.PortServiceStats.marshalTo(w)
}

func unmarshalPortServiceStatsNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &PortServiceStatsNPBody{}
	var err error
	if b.PortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	if b.PortServiceStats, err = unmarshalPortServiceStats(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- UnicastMasterTableNPBody ---

func (e UnicastMasterEntry) wireLen() int {
	return portIdentitySize + clockQualitySize + 1 + 1 + 1 + 1 + e.PortAddress.wireLen()
}

func (e UnicastMasterEntry) marshalTo(w *writer) error {
	if err := e.PortIdentity.marshalTo(w); err != nil {
		return err
	}
	if err := e.ClockQuality.marshalTo(w); err != nil {
		return err
	}
	var selected uint8
	if e.Selected {
		selected = 1
	}
	if err := w.putU8(selected); err != nil {
		return err
	}
	if err := w.putU8(uint8(e.PortState)); err != nil {
		return err
	}
	if err := w.putU8(e.Priority1); err != nil {
		return err
	}
	if err := w.putU8(e.Priority2); err != nil {
		return err
	}
	return e.PortAddress.marshalTo(w)
}

func unmarshalUnicastMasterEntry(r *reader) (UnicastMasterEntry, error) {
	var e UnicastMasterEntry
	var err error
	if e.PortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return e, err
	}
	if e.ClockQuality, err = unmarshalClockQuality(r); err != nil {
		return e, err
	}
	selected, err := r.u8()
	if err != nil {
		return e, err
	}
	e.Selected = selected != 0
	ps, err := r.u8()
	if err != nil {
		return e, err
	}
	e.PortState = UnicastMasterState(ps)
	if e.Priority1, err = r.u8(); err != nil {
		return e, err
	}
	if e.Priority2, err = r.u8(); err != nil {
		return e, err
	}
	if e.PortAddress, err = unmarshalPortAddress(r); err != nil {
		return e, err
	}
	return e, nil
}

func (b *UnicastMasterTableNPBody) wireLen() int {
	n := 2
	for _, e := range b.UnicastMasters {
		n += e.wireLen()
	}
	return n
}

func (b *UnicastMasterTableNPBody) marshalTo(w *writer) error {
	if err := w.putU16(b.ActualTableSize); err != nil {
		return err
	}
	for _, e := range b.UnicastMasters {
		if err := e.marshalTo(w); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalUnicastMasterTableNPBody(r *reader, _ int) (ManagementBody, error) {
	b := &UnicastMasterTableNPBody{}
	var err error
	if b.ActualTableSize, err = r.u16(); err != nil {
		return nil, err
	}
	for i := 0; i < int(b.ActualTableSize); i++ {
		e, err := unmarshalUnicastMasterEntry(r)
		if err != nil {
			return nil, err
		}
		b.UnicastMasters = append(b.UnicastMasters, e)
	}
	return b, nil
}
