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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDispatcherPriority1DefaultAndOverride(t *testing.T) {
	d := NewBuildDispatcher()

	body, err := d.Apply(IDPriority1, nil)
	require.NoError(t, err)
	require.Equal(t, &Priority1Body{Priority1: 128}, body)

	body, err = d.Apply(IDPriority1, map[string]string{"priority1": "200"})
	require.NoError(t, err)
	require.Equal(t, &Priority1Body{Priority1: 200}, body)

	_, err = d.Apply(IDPriority1, map[string]string{"priority1": "300"})
	require.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestBuildDispatcherUserDescriptionString(t *testing.T) {
	d := NewBuildDispatcher()
	body, err := d.Apply(IDUserDescription, map[string]string{"userDescription": "rack3-switch7"})
	require.NoError(t, err)
	require.Equal(t, &UserDescriptionBody{UserDescription: PTPText("rack3-switch7")}, body)
}

func TestBuildDispatcherDelayMechanismNamedToken(t *testing.T) {
	d := NewBuildDispatcher()

	body, err := d.Apply(IDDelayMechanism, map[string]string{"delayMechanism": "P2P"})
	require.NoError(t, err)
	require.Equal(t, &DelayMechanismBody{DelayMechanism: DelayMechanismP2P}, body)

	body, err = d.Apply(IDDelayMechanism, map[string]string{"delayMechanism": "2"})
	require.NoError(t, err)
	require.Equal(t, &DelayMechanismBody{DelayMechanism: DelayMechanismP2P}, body)

	_, err = d.Apply(IDDelayMechanism, map[string]string{"delayMechanism": "bogus"})
	require.Error(t, err)
}

func TestBuildDispatcherUnknownID(t *testing.T) {
	d := NewBuildDispatcher()
	_, err := d.Apply(IDCurrentDataSet, nil)
	require.ErrorIs(t, err, ErrUnknownManagementID)
}

func TestDumpDispatcherManagement(t *testing.T) {
	d := NewDumpDispatcher()
	var seen *Priority1Body
	d.OnManagement(IDPriority1, func(b ManagementBody) {
		seen = b.(*Priority1Body)
	})

	msg := &ManagementMessage{ManagementID: IDPriority1, Body: &Priority1Body{Priority1: 200}}
	d.DispatchManagement(msg)
	require.NotNil(t, seen)
	require.Equal(t, uint8(200), seen.Priority1)

	errMsg := &ManagementMessage{ManagementID: IDPriority1, Error: &ManagementErrorStatusError{}}
	d.DispatchManagement(errMsg) // must not panic on a nil Body
}

func TestDumpDispatcherSignaling(t *testing.T) {
	d := NewDumpDispatcher()
	var seen int
	d.OnTLV(TLVPathTrace, func(TLV) { seen++ })

	c, err := NewClockIdentity([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	msg := &SignalingMessage{TLVs: []TLV{
		&PathTraceTLV{PathSequence: []ClockIdentity{c}},
		&AlternateTimeOffsetIndicatorTLV{},
	}}
	require.NoError(t, d.DispatchSignaling(msg))
	require.Equal(t, 1, seen)
}
