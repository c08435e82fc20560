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

// This file holds the per-id MarshalBinaryTo/Unmarshal pairs that the
// registry in registry.go wires up. Grouping them by id, rather than
// spreading each across its own file, mirrors how ptp4l.go keeps every
// linuxptp NP TLV's marshal/unmarshal pair next to its struct.

func bit(flags uint8, n uint) bool { return flags&(1<<n) != 0 }

func setBit(flags *uint8, n uint, v bool) {
	if v {
		*flags |= 1 << n
	} else {
		*flags &^= 1 << n
	}
}

// --- EmptyBody ---

func (EmptyBody) wireLen() int                   { return 0 }
func (EmptyBody) marshalTo(*writer) error        { return nil }
func unmarshalEmptyBody(*reader, int) (ManagementBody, error) { return EmptyBody{}, nil }

// --- ClockDescriptionBody ---

func (b *ClockDescriptionBody) wireLen() int {
	n := 2 + b.PhysicalLayerProtocol.wireLen()
	n += 2 + len(b.PhysicalAddress)
	if len(b.PhysicalAddress)%2 != 0 {
		n++
	}
	n += b.ProtocolAddress.wireLen()
	n += 3
	n += b.ProductDescription.wireLen()
	n += b.RevisionData.wireLen()
	n += b.UserDescription.wireLen()
	n += 6
	return n
}

func (b *ClockDescriptionBody) marshalTo(w *writer) error {
	if err := w.putU16(b.ClockType); err != nil {
		return err
	}
	if err := b.PhysicalLayerProtocol.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU16(uint16(len(b.PhysicalAddress))); err != nil {
		return err
	}
	if err := w.putBytes(b.PhysicalAddress); err != nil {
		return err
	}
	if len(b.PhysicalAddress)%2 != 0 {
		if err := w.pad(1); err != nil {
			return err
		}
	}
	if err := b.ProtocolAddress.marshalTo(w); err != nil {
		return err
	}
	if err := w.putBytes(b.ManufacturerIdentity[:]); err != nil {
		return err
	}
	if err := b.ProductDescription.marshalTo(w); err != nil {
		return err
	}
	if err := b.RevisionData.marshalTo(w); err != nil {
		return err
	}
	if err := b.UserDescription.marshalTo(w); err != nil {
		return err
	}
	return w.putBytes(b.ProfileIdentity[:])
}

func unmarshalClockDescriptionBody(r *reader, _ int) (ManagementBody, error) {
	b := &ClockDescriptionBody{}
	var err error
	if b.ClockType, err = r.u16(); err != nil {
		return nil, err
	}
	if b.PhysicalLayerProtocol, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	raw, err := r.bytes(int(n))
	if err != nil {
		return nil, err
	}
	b.PhysicalAddress = append([]byte(nil), raw...)
	if n%2 != 0 {
		if err := r.skip(1); err != nil {
			return nil, err
		}
	}
	if b.ProtocolAddress, err = unmarshalPortAddress(r); err != nil {
		return nil, err
	}
	manu, err := r.bytes(3)
	if err != nil {
		return nil, err
	}
	copy(b.ManufacturerIdentity[:], manu)
	if b.ProductDescription, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	if b.RevisionData, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	if b.UserDescription, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	profile, err := r.bytes(6)
	if err != nil {
		return nil, err
	}
	copy(b.ProfileIdentity[:], profile)
	return b, nil
}

// --- UserDescriptionBody ---

func (b *UserDescriptionBody) wireLen() int { return b.UserDescription.wireLen() }

func (b *UserDescriptionBody) marshalTo(w *writer) error { return b.UserDescription.marshalTo(w) }

func unmarshalUserDescriptionBody(r *reader, _ int) (ManagementBody, error) {
	t, err := unmarshalPTPText(r)
	if err != nil {
		return nil, err
	}
	return &UserDescriptionBody{UserDescription: t}, nil
}

// --- InitializeBody ---

func (b *InitializeBody) wireLen() int            { return 2 }
func (b *InitializeBody) marshalTo(w *writer) error { return w.putU16(b.InitializationKey) }

func unmarshalInitializeBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u16()
	if err != nil {
		return nil, err
	}
	return &InitializeBody{InitializationKey: v}, nil
}

// --- FaultLogBody ---

func (fr FaultRecord) wireLen() int {
	return 2 + timestampSize + 1 + fr.FaultName.wireLen() + fr.FaultValue.wireLen() + fr.FaultDescription.wireLen()
}

func (fr FaultRecord) marshalTo(w *writer) error {
	if err := w.putU16(fr.FaultRecordLength); err != nil {
		return err
	}
	if err := fr.FaultTime.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU8(fr.SeverityCode); err != nil {
		return err
	}
	if err := fr.FaultName.marshalTo(w); err != nil {
		return err
	}
	if err := fr.FaultValue.marshalTo(w); err != nil {
		return err
	}
	return fr.FaultDescription.marshalTo(w)
}

func unmarshalFaultRecord(r *reader) (FaultRecord, error) {
	var fr FaultRecord
	var err error
	if fr.FaultRecordLength, err = r.u16(); err != nil {
		return fr, err
	}
	if fr.FaultTime, err = unmarshalTimestamp(r); err != nil {
		return fr, err
	}
	if fr.SeverityCode, err = r.u8(); err != nil {
		return fr, err
	}
	if fr.FaultName, err = unmarshalPTPText(r); err != nil {
		return fr, err
	}
	if fr.FaultValue, err = unmarshalPTPText(r); err != nil {
		return fr, err
	}
	if fr.FaultDescription, err = unmarshalPTPText(r); err != nil {
		return fr, err
	}
	return fr, nil
}

func (b *FaultLogBody) wireLen() int {
	n := 2
	for _, fr := range b.FaultRecords {
		n += fr.wireLen()
	}
	return n
}

func (b *FaultLogBody) marshalTo(w *writer) error {
	if err := w.putU16(uint16(len(b.FaultRecords))); err != nil {
		return err
	}
	for _, fr := range b.FaultRecords {
		if err := fr.marshalTo(w); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalFaultLogBody(r *reader, _ int) (ManagementBody, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	b := &FaultLogBody{NumberOfFaultRecords: n}
	for i := 0; i < int(n); i++ {
		fr, err := unmarshalFaultRecord(r)
		if err != nil {
			return nil, err
		}
		b.FaultRecords = append(b.FaultRecords, fr)
	}
	return b, nil
}

// --- DefaultDataSetBody ---

func (b *DefaultDataSetBody) wireLen() int { return 1 + 2 + 1 + clockQualitySize + 1 + clockIdentitySize + 1 }

func (b *DefaultDataSetBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.TwoStepFlag)
	setBit(&flags, 1, b.SlaveOnly)
	if err := w.putU8(flags); err != nil {
		return err
	}
	if err := w.putU16(b.NumberPorts); err != nil {
		return err
	}
	if err := w.putU8(b.Priority1); err != nil {
		return err
	}
	if err := b.ClockQuality.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU8(b.Priority2); err != nil {
		return err
	}
	ciBody := PortIdentity{ClockIdentity: b.ClockIdentity}
	var ciBuf [8]byte
	cw := newWriter(ciBuf[:])
	ci := uint64(ciBody.ClockIdentity)
	for i := 7; i >= 0; i-- {
		ciBuf[i] = byte(ci)
		ci >>= 8
	}
	_ = cw
	if err := w.putBytes(ciBuf[:]); err != nil {
		return err
	}
	return w.putU8(b.DomainNumber)
}

func unmarshalDefaultDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &DefaultDataSetBody{}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.TwoStepFlag = bit(flags, 0)
	b.SlaveOnly = bit(flags, 1)
	if b.NumberPorts, err = r.u16(); err != nil {
		return nil, err
	}
	if b.Priority1, err = r.u8(); err != nil {
		return nil, err
	}
	if b.ClockQuality, err = unmarshalClockQuality(r); err != nil {
		return nil, err
	}
	if b.Priority2, err = r.u8(); err != nil {
		return nil, err
	}
	raw, err := r.bytes(clockIdentitySize)
	if err != nil {
		return nil, err
	}
	var ci uint64
	for _, x := range raw {
		ci = ci<<8 | uint64(x)
	}
	b.ClockIdentity = ClockIdentity(ci)
	if b.DomainNumber, err = r.u8(); err != nil {
		return nil, err
	}
	return b, nil
}

// --- CurrentDataSetBody ---

func (b *CurrentDataSetBody) wireLen() int { return 2 + 8 + 8 }

func (b *CurrentDataSetBody) marshalTo(w *writer) error {
	if err := w.putU16(b.StepsRemoved); err != nil {
		return err
	}
	if err := b.OffsetFromMaster.marshalTo(w); err != nil {
		return err
	}
	return b.MeanPathDelay.marshalTo(w)
}

func unmarshalCurrentDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &CurrentDataSetBody{}
	var err error
	if b.StepsRemoved, err = r.u16(); err != nil {
		return nil, err
	}
	if b.OffsetFromMaster, err = unmarshalTimeInterval(r); err != nil {
		return nil, err
	}
	if b.MeanPathDelay, err = unmarshalTimeInterval(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- ParentDataSetBody ---

func (b *ParentDataSetBody) wireLen() int {
	return portIdentitySize + 1 + 2 + 4 + 1 + clockQualitySize + 1 + clockIdentitySize
}

func (b *ParentDataSetBody) marshalTo(w *writer) error {
	if err := b.ParentPortIdentity.marshalTo(w); err != nil {
		return err
	}
	var flags uint8
	setBit(&flags, 0, b.ParentStats)
	if err := w.putU8(flags); err != nil {
		return err
	}
	if err := w.putU16(b.ObservedParentOffsetScaledLogVariance); err != nil {
		return err
	}
	if err := w.putI32(b.ObservedParentClockPhaseChangeRate); err != nil {
		return err
	}
	if err := w.putU8(b.GrandmasterPriority1); err != nil {
		return err
	}
	if err := b.GrandmasterClockQuality.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU8(b.GrandmasterPriority2); err != nil {
		return err
	}
	return marshalClockIdentity(w, b.GrandmasterIdentity)
}

func marshalClockIdentity(w *writer, c ClockIdentity) error {
	var b [8]byte
	v := uint64(c)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return w.putBytes(b[:])
}

func unmarshalClockIdentity(r *reader) (ClockIdentity, error) {
	raw, err := r.bytes(clockIdentitySize)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	return ClockIdentity(v), nil
}

func unmarshalParentDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &ParentDataSetBody{}
	var err error
	if b.ParentPortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.ParentStats = bit(flags, 0)
	if b.ObservedParentOffsetScaledLogVariance, err = r.u16(); err != nil {
		return nil, err
	}
	if b.ObservedParentClockPhaseChangeRate, err = r.i32(); err != nil {
		return nil, err
	}
	if b.GrandmasterPriority1, err = r.u8(); err != nil {
		return nil, err
	}
	if b.GrandmasterClockQuality, err = unmarshalClockQuality(r); err != nil {
		return nil, err
	}
	if b.GrandmasterPriority2, err = r.u8(); err != nil {
		return nil, err
	}
	if b.GrandmasterIdentity, err = unmarshalClockIdentity(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- TimePropertiesDataSetBody / UtcPropertiesBody / TimescalePropertiesBody / TraceabilityPropertiesBody ---

func (b *TimePropertiesDataSetBody) wireLen() int { return 2 + 1 + 1 }

func timePropertiesFlags(leap61, leap59, utcv, ptp, ttra, ftra bool) uint8 {
	var flags uint8
	setBit(&flags, 0, leap61)
	setBit(&flags, 1, leap59)
	setBit(&flags, 2, utcv)
	setBit(&flags, 3, ptp)
	setBit(&flags, 4, ttra)
	setBit(&flags, 5, ftra)
	return flags
}

func (b *TimePropertiesDataSetBody) marshalTo(w *writer) error {
	if err := w.putI16(b.CurrentUtcOffset); err != nil {
		return err
	}
	flags := timePropertiesFlags(b.Leap61, b.Leap59, b.CurrentUtcOffsetValid, b.PTPTimescale, b.TimeTraceable, b.FrequencyTraceable)
	if err := w.putU8(flags); err != nil {
		return err
	}
	return w.putU8(uint8(b.TimeSource))
}

func unmarshalTimePropertiesDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &TimePropertiesDataSetBody{}
	var err error
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

func (b *UtcPropertiesBody) wireLen() int { return 2 + 1 }

func (b *UtcPropertiesBody) marshalTo(w *writer) error {
	if err := w.putI16(b.CurrentUtcOffset); err != nil {
		return err
	}
	return w.putU8(timePropertiesFlags(b.Leap61, b.Leap59, b.CurrentUtcOffsetValid, false, false, false))
}

func unmarshalUtcPropertiesBody(r *reader, _ int) (ManagementBody, error) {
	b := &UtcPropertiesBody{}
	var err error
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
	return b, nil
}

func (b *TimescalePropertiesBody) wireLen() int { return 1 + 1 }

func (b *TimescalePropertiesBody) marshalTo(w *writer) error {
	if err := w.putU8(timePropertiesFlags(false, false, false, b.PTPTimescale, false, false)); err != nil {
		return err
	}
	return w.putU8(uint8(b.TimeSource))
}

func unmarshalTimescalePropertiesBody(r *reader, _ int) (ManagementBody, error) {
	b := &TimescalePropertiesBody{}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.PTPTimescale = bit(flags, 3)
	ts, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.TimeSource = TimeSource(ts)
	return b, nil
}

func (b *TraceabilityPropertiesBody) wireLen() int { return 1 }

func (b *TraceabilityPropertiesBody) marshalTo(w *writer) error {
	return w.putU8(timePropertiesFlags(false, false, false, false, b.TimeTraceable, b.FrequencyTraceable))
}

func unmarshalTraceabilityPropertiesBody(r *reader, _ int) (ManagementBody, error) {
	b := &TraceabilityPropertiesBody{}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.TimeTraceable = bit(flags, 4)
	b.FrequencyTraceable = bit(flags, 5)
	return b, nil
}

// --- PortDataSetBody ---

func (b *PortDataSetBody) wireLen() int { return portIdentitySize + 1 + 1 + 8 + 1 + 1 + 1 + 1 + 1 + 1 }

func (b *PortDataSetBody) marshalTo(w *writer) error {
	if err := b.PortIdentity.marshalTo(w); err != nil {
		return err
	}
	if err := w.putU8(uint8(b.PortState)); err != nil {
		return err
	}
	if err := w.putI8(b.LogMinDelayReqInterval); err != nil {
		return err
	}
	if err := b.PeerMeanPathDelay.marshalTo(w); err != nil {
		return err
	}
	if err := w.putI8(b.LogAnnounceInterval); err != nil {
		return err
	}
	if err := w.putU8(b.AnnounceReceiptTimeout); err != nil {
		return err
	}
	if err := w.putI8(b.LogSyncInterval); err != nil {
		return err
	}
	if err := w.putU8(uint8(b.DelayMechanism)); err != nil {
		return err
	}
	if err := w.putI8(b.LogMinPdelayReqInterval); err != nil {
		return err
	}
	return w.putU8(b.VersionNumber)
}

func unmarshalPortDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &PortDataSetBody{}
	var err error
	if b.PortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	ps, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.PortState = PortState(ps)
	if b.LogMinDelayReqInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.PeerMeanPathDelay, err = unmarshalTimeInterval(r); err != nil {
		return nil, err
	}
	if b.LogAnnounceInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.AnnounceReceiptTimeout, err = r.u8(); err != nil {
		return nil, err
	}
	if b.LogSyncInterval, err = r.i8(); err != nil {
		return nil, err
	}
	dm, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.DelayMechanism = DelayMechanism(dm)
	if b.LogMinPdelayReqInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.VersionNumber, err = r.u8(); err != nil {
		return nil, err
	}
	return b, nil
}

// --- single-scalar bodies ---

func (b *Priority1Body) wireLen() int              { return 1 }
func (b *Priority1Body) marshalTo(w *writer) error { return w.putU8(b.Priority1) }
func unmarshalPriority1Body(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &Priority1Body{Priority1: v}, err
}

func (b *Priority2Body) wireLen() int              { return 1 }
func (b *Priority2Body) marshalTo(w *writer) error { return w.putU8(b.Priority2) }
func unmarshalPriority2Body(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &Priority2Body{Priority2: v}, err
}

func (b *DomainBody) wireLen() int              { return 1 }
func (b *DomainBody) marshalTo(w *writer) error { return w.putU8(b.DomainNumber) }
func unmarshalDomainBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &DomainBody{DomainNumber: v}, err
}

func (b *SlaveOnlyBody) wireLen() int { return 1 }
func (b *SlaveOnlyBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.SlaveOnly)
	return w.putU8(flags)
}
func unmarshalSlaveOnlyBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &SlaveOnlyBody{SlaveOnly: bit(flags, 0)}, err
}

func (b *LogAnnounceIntervalBody) wireLen() int              { return 1 }
func (b *LogAnnounceIntervalBody) marshalTo(w *writer) error { return w.putI8(b.LogAnnounceInterval) }
func unmarshalLogAnnounceIntervalBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.i8()
	return &LogAnnounceIntervalBody{LogAnnounceInterval: v}, err
}

func (b *AnnounceReceiptTimeoutBody) wireLen() int { return 1 }
func (b *AnnounceReceiptTimeoutBody) marshalTo(w *writer) error {
	return w.putU8(b.AnnounceReceiptTimeout)
}
func unmarshalAnnounceReceiptTimeoutBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &AnnounceReceiptTimeoutBody{AnnounceReceiptTimeout: v}, err
}

func (b *LogSyncIntervalBody) wireLen() int              { return 1 }
func (b *LogSyncIntervalBody) marshalTo(w *writer) error { return w.putI8(b.LogSyncInterval) }
func unmarshalLogSyncIntervalBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.i8()
	return &LogSyncIntervalBody{LogSyncInterval: v}, err
}

func (b *VersionNumberBody) wireLen() int              { return 1 }
func (b *VersionNumberBody) marshalTo(w *writer) error { return w.putU8(b.VersionNumber) }
func unmarshalVersionNumberBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &VersionNumberBody{VersionNumber: v}, err
}

func (b *TimeBody) wireLen() int              { return timestampSize }
func (b *TimeBody) marshalTo(w *writer) error { return b.CurrentTime.marshalTo(w) }
func unmarshalTimeBody(r *reader, _ int) (ManagementBody, error) {
	t, err := unmarshalTimestamp(r)
	return &TimeBody{CurrentTime: t}, err
}

func (b *ClockAccuracyBody) wireLen() int              { return 1 }
func (b *ClockAccuracyBody) marshalTo(w *writer) error { return w.putU8(uint8(b.ClockAccuracy)) }
func unmarshalClockAccuracyBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &ClockAccuracyBody{ClockAccuracy: ClockAccuracy(v)}, err
}

func (b *UnicastNegotiationEnableBody) wireLen() int { return 1 }
func (b *UnicastNegotiationEnableBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.Enable)
	return w.putU8(flags)
}
func unmarshalUnicastNegotiationEnableBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &UnicastNegotiationEnableBody{Enable: bit(flags, 0)}, err
}

// --- PathTraceListBody ---

func (b *PathTraceListBody) wireLen() int { return clockIdentitySize * len(b.PathSequence) }

func (b *PathTraceListBody) marshalTo(w *writer) error {
	for _, ci := range b.PathSequence {
		if err := marshalClockIdentity(w, ci); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalPathTraceListBody(r *reader, length int) (ManagementBody, error) {
	if length%clockIdentitySize != 0 {
		return nil, wrapf(ErrLengthMismatch, "PATH_TRACE_LIST length %d not a multiple of %d", length, clockIdentitySize)
	}
	n := length / clockIdentitySize
	b := &PathTraceListBody{}
	for i := 0; i < n; i++ {
		ci, err := unmarshalClockIdentity(r)
		if err != nil {
			return nil, err
		}
		b.PathSequence = append(b.PathSequence, ci)
	}
	return b, nil
}

func (b *PathTraceEnableBody) wireLen() int { return 1 }
func (b *PathTraceEnableBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.Enable)
	return w.putU8(flags)
}
func unmarshalPathTraceEnableBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &PathTraceEnableBody{Enable: bit(flags, 0)}, err
}

// --- GrandmasterClusterTableBody / UnicastMasterTableBody (PortAddress vectors) ---

func (b *GrandmasterClusterTableBody) wireLen() int {
	n := 1 + 1
	for _, pa := range b.PortAddress {
		n += pa.wireLen()
	}
	return n
}

func (b *GrandmasterClusterTableBody) marshalTo(w *writer) error {
	if err := w.putI8(b.LogQueryInterval); err != nil {
		return err
	}
	if err := w.putU8(b.ActualTableSize); err != nil {
		return err
	}
	for _, pa := range b.PortAddress {
		if err := pa.marshalTo(w); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalGrandmasterClusterTableBody(r *reader, _ int) (ManagementBody, error) {
	b := &GrandmasterClusterTableBody{}
	var err error
	if b.LogQueryInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.ActualTableSize, err = r.u8(); err != nil {
		return nil, err
	}
	for i := 0; i < int(b.ActualTableSize); i++ {
		pa, err := unmarshalPortAddress(r)
		if err != nil {
			return nil, err
		}
		b.PortAddress = append(b.PortAddress, pa)
	}
	return b, nil
}

func (b *UnicastMasterTableBody) wireLen() int {
	n := 1 + 2
	for _, pa := range b.PortAddress {
		n += pa.wireLen()
	}
	return n
}

func (b *UnicastMasterTableBody) marshalTo(w *writer) error {
	if err := w.putI8(b.LogQueryInterval); err != nil {
		return err
	}
	if err := w.putU16(b.ActualTableSize); err != nil {
		return err
	}
	for _, pa := range b.PortAddress {
		if err := pa.marshalTo(w); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalUnicastMasterTableBody(r *reader, _ int) (ManagementBody, error) {
	b := &UnicastMasterTableBody{}
	var err error
	if b.LogQueryInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.ActualTableSize, err = r.u16(); err != nil {
		return nil, err
	}
	for i := 0; i < int(b.ActualTableSize); i++ {
		pa, err := unmarshalPortAddress(r)
		if err != nil {
			return nil, err
		}
		b.PortAddress = append(b.PortAddress, pa)
	}
	return b, nil
}

func (b *UnicastMasterMaxTableSizeBody) wireLen() int              { return 2 }
func (b *UnicastMasterMaxTableSizeBody) marshalTo(w *writer) error { return w.putU16(b.MaxTableSize) }
func unmarshalUnicastMasterMaxTableSizeBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u16()
	return &UnicastMasterMaxTableSizeBody{MaxTableSize: v}, err
}

// --- AcceptableMasterTableBody ---

func (am AcceptableMaster) wireLen() int { return portIdentitySize + 1 }

func (am AcceptableMaster) marshalTo(w *writer) error {
	if err := am.AcceptablePortIdentity.marshalTo(w); err != nil {
		return err
	}
	return w.putU8(am.AlternatePriority1)
}

func unmarshalAcceptableMaster(r *reader) (AcceptableMaster, error) {
	var am AcceptableMaster
	var err error
	if am.AcceptablePortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return am, err
	}
	if am.AlternatePriority1, err = r.u8(); err != nil {
		return am, err
	}
	return am, nil
}

func (b *AcceptableMasterTableBody) wireLen() int {
	n := 2
	for _, am := range b.List {
		n += am.wireLen()
	}
	return n
}

func (b *AcceptableMasterTableBody) marshalTo(w *writer) error {
	if err := w.putI16(b.ActualTableSize); err != nil {
		return err
	}
	for _, am := range b.List {
		if err := am.marshalTo(w); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalAcceptableMasterTableBody(r *reader, _ int) (ManagementBody, error) {
	b := &AcceptableMasterTableBody{}
	var err error
	if b.ActualTableSize, err = r.i16(); err != nil {
		return nil, err
	}
	for i := 0; i < int(b.ActualTableSize); i++ {
		am, err := unmarshalAcceptableMaster(r)
		if err != nil {
			return nil, err
		}
		b.List = append(b.List, am)
	}
	return b, nil
}

func (b *AcceptableMasterTableEnabledBody) wireLen() int { return 1 }
func (b *AcceptableMasterTableEnabledBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.Enable)
	return w.putU8(flags)
}
func unmarshalAcceptableMasterTableEnabledBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &AcceptableMasterTableEnabledBody{Enable: bit(flags, 0)}, err
}

func (b *AcceptableMasterMaxTableSizeBody) wireLen() int { return 2 }
func (b *AcceptableMasterMaxTableSizeBody) marshalTo(w *writer) error {
	return w.putU16(b.MaxTableSize)
}
func unmarshalAcceptableMasterMaxTableSizeBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u16()
	return &AcceptableMasterMaxTableSizeBody{MaxTableSize: v}, err
}

// --- AlternateMasterBody ---

func (b *AlternateMasterBody) wireLen() int { return 1 + 1 + 1 }

func (b *AlternateMasterBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.TransmitAlternateMulticastSync)
	if err := w.putU8(flags); err != nil {
		return err
	}
	if err := w.putI8(b.LogAlternateMulticastSyncInterval); err != nil {
		return err
	}
	return w.putU8(b.NumberOfAlternateMasters)
}

func unmarshalAlternateMasterBody(r *reader, _ int) (ManagementBody, error) {
	b := &AlternateMasterBody{}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.TransmitAlternateMulticastSync = bit(flags, 0)
	if b.LogAlternateMulticastSyncInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.NumberOfAlternateMasters, err = r.u8(); err != nil {
		return nil, err
	}
	return b, nil
}

// --- alternate time offset family ---

func (b *AlternateTimeOffsetEnableBody) wireLen() int { return 1 + 1 }
func (b *AlternateTimeOffsetEnableBody) marshalTo(w *writer) error {
	if err := w.putU8(b.KeyField); err != nil {
		return err
	}
	var flags uint8
	setBit(&flags, 0, b.Enable)
	return w.putU8(flags)
}
func unmarshalAlternateTimeOffsetEnableBody(r *reader, _ int) (ManagementBody, error) {
	b := &AlternateTimeOffsetEnableBody{}
	var err error
	if b.KeyField, err = r.u8(); err != nil {
		return nil, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.Enable = bit(flags, 0)
	return b, nil
}

func (b *AlternateTimeOffsetNameBody) wireLen() int { return 1 + b.DisplayName.wireLen() }
func (b *AlternateTimeOffsetNameBody) marshalTo(w *writer) error {
	if err := w.putU8(b.KeyField); err != nil {
		return err
	}
	return b.DisplayName.marshalTo(w)
}
func unmarshalAlternateTimeOffsetNameBody(r *reader, _ int) (ManagementBody, error) {
	b := &AlternateTimeOffsetNameBody{}
	var err error
	if b.KeyField, err = r.u8(); err != nil {
		return nil, err
	}
	if b.DisplayName, err = unmarshalPTPText(r); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *AlternateTimeOffsetMaxKeyBody) wireLen() int              { return 1 }
func (b *AlternateTimeOffsetMaxKeyBody) marshalTo(w *writer) error { return w.putU8(b.MaxKey) }
func unmarshalAlternateTimeOffsetMaxKeyBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &AlternateTimeOffsetMaxKeyBody{MaxKey: v}, err
}

func (b *AlternateTimeOffsetPropertiesBody) wireLen() int { return 1 + 4 + 4 + 6 }
func (b *AlternateTimeOffsetPropertiesBody) marshalTo(w *writer) error {
	if err := w.putU8(b.KeyField); err != nil {
		return err
	}
	if err := w.putI32(b.CurrentOffset); err != nil {
		return err
	}
	if err := w.putI32(b.JumpSeconds); err != nil {
		return err
	}
	return b.TimeOfNextJump.marshalTo(w)
}
func unmarshalAlternateTimeOffsetPropertiesBody(r *reader, _ int) (ManagementBody, error) {
	b := &AlternateTimeOffsetPropertiesBody{}
	var err error
	if b.KeyField, err = r.u8(); err != nil {
		return nil, err
	}
	if b.CurrentOffset, err = r.i32(); err != nil {
		return nil, err
	}
	if b.JumpSeconds, err = r.i32(); err != nil {
		return nil, err
	}
	if b.TimeOfNextJump, err = unmarshalPTPSeconds(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- transparent clock family ---

func (b *TransparentClockDefaultDataSetBody) wireLen() int { return clockIdentitySize + 2 + 1 + 1 }
func (b *TransparentClockDefaultDataSetBody) marshalTo(w *writer) error {
	if err := marshalClockIdentity(w, b.ClockIdentity); err != nil {
		return err
	}
	if err := w.putU16(b.NumberPorts); err != nil {
		return err
	}
	if err := w.putU8(uint8(b.DelayMechanism)); err != nil {
		return err
	}
	return w.putU8(b.PrimaryDomain)
}
func unmarshalTransparentClockDefaultDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &TransparentClockDefaultDataSetBody{}
	var err error
	if b.ClockIdentity, err = unmarshalClockIdentity(r); err != nil {
		return nil, err
	}
	if b.NumberPorts, err = r.u16(); err != nil {
		return nil, err
	}
	dm, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.DelayMechanism = DelayMechanism(dm)
	if b.PrimaryDomain, err = r.u8(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *PrimaryDomainBody) wireLen() int              { return 1 }
func (b *PrimaryDomainBody) marshalTo(w *writer) error { return w.putU8(b.PrimaryDomain) }
func unmarshalPrimaryDomainBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &PrimaryDomainBody{PrimaryDomain: v}, err
}

func (b *TransparentClockPortDataSetBody) wireLen() int { return portIdentitySize + 1 + 1 + 8 }
func (b *TransparentClockPortDataSetBody) marshalTo(w *writer) error {
	if err := b.PortIdentity.marshalTo(w); err != nil {
		return err
	}
	var flags uint8
	setBit(&flags, 0, b.FaultyFlag)
	if err := w.putU8(flags); err != nil {
		return err
	}
	if err := w.putI8(b.LogMinPdelayReqInterval); err != nil {
		return err
	}
	return b.PeerMeanPathDelay.marshalTo(w)
}
func unmarshalTransparentClockPortDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &TransparentClockPortDataSetBody{}
	var err error
	if b.PortIdentity, err = unmarshalPortIdentity(r); err != nil {
		return nil, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.FaultyFlag = bit(flags, 0)
	if b.LogMinPdelayReqInterval, err = r.i8(); err != nil {
		return nil, err
	}
	if b.PeerMeanPathDelay, err = unmarshalTimeInterval(r); err != nil {
		return nil, err
	}
	return b, nil
}

// --- delay mechanism family ---

func (b *DelayMechanismBody) wireLen() int              { return 1 }
func (b *DelayMechanismBody) marshalTo(w *writer) error { return w.putU8(uint8(b.DelayMechanism)) }
func unmarshalDelayMechanismBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.u8()
	return &DelayMechanismBody{DelayMechanism: DelayMechanism(v)}, err
}

func (b *LogMinPdelayReqIntervalBody) wireLen() int { return 1 }
func (b *LogMinPdelayReqIntervalBody) marshalTo(w *writer) error {
	return w.putI8(b.LogMinPdelayReqInterval)
}
func unmarshalLogMinPdelayReqIntervalBody(r *reader, _ int) (ManagementBody, error) {
	v, err := r.i8()
	return &LogMinPdelayReqIntervalBody{LogMinPdelayReqInterval: v}, err
}

// --- single-flag bodies ---

func (b *MasterOnlyBody) wireLen() int { return 1 }
func (b *MasterOnlyBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.MasterOnly)
	return w.putU8(flags)
}
func unmarshalMasterOnlyBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &MasterOnlyBody{MasterOnly: bit(flags, 0)}, err
}

func (b *ExternalPortConfigurationEnabledBody) wireLen() int { return 1 }
func (b *ExternalPortConfigurationEnabledBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.Enable)
	return w.putU8(flags)
}
func unmarshalExternalPortConfigurationEnabledBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &ExternalPortConfigurationEnabledBody{Enable: bit(flags, 0)}, err
}

func (b *HoldoverUpgradeEnableBody) wireLen() int { return 1 }
func (b *HoldoverUpgradeEnableBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.Enable)
	return w.putU8(flags)
}
func unmarshalHoldoverUpgradeEnableBody(r *reader, _ int) (ManagementBody, error) {
	flags, err := r.u8()
	return &HoldoverUpgradeEnableBody{Enable: bit(flags, 0)}, err
}

func (b *ExtPortConfigPortDataSetBody) wireLen() int { return 1 + 1 }
func (b *ExtPortConfigPortDataSetBody) marshalTo(w *writer) error {
	var flags uint8
	setBit(&flags, 0, b.Enable)
	if err := w.putU8(flags); err != nil {
		return err
	}
	return w.putU8(uint8(b.DesiredState))
}
func unmarshalExtPortConfigPortDataSetBody(r *reader, _ int) (ManagementBody, error) {
	b := &ExtPortConfigPortDataSetBody{}
	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.Enable = bit(flags, 0)
	ds, err := r.u8()
	if err != nil {
		return nil, err
	}
	b.DesiredState = PortState(ds)
	return b, nil
}
