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
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGETCarriesNoBodyForAnyID(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 256)

	// PRIORITY1 is not registry-flagged empty, yet a GET still builds
	// with no caller-supplied body, matching a real client issuing
	// "get PRIORITY1" without ever touching a Priority1Body value.
	n, err := Build(params, GET, IDPriority1, nil, buf)
	require.NoError(t, err)

	msg, err := Parse(params, buf[:n])
	require.NoError(t, err)
	require.Equal(t, GET, msg.Action)
	require.Equal(t, IDPriority1, msg.ManagementID)
	require.Equal(t, EmptyBody{}, msg.Body)
}

func TestBuildSETStillRequiresABody(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 256)

	_, err := Build(params, SET, IDPriority1, nil, buf)
	require.ErrorIs(t, err, ErrActionMismatch)

	n, err := Build(params, SET, IDPriority1, &Priority1Body{Priority1: 200}, buf)
	require.NoError(t, err)

	msg, err := Parse(params, buf[:n])
	require.NoError(t, err)
	require.Equal(t, SET, msg.Action)
	got, ok := msg.Body.(*Priority1Body)
	require.True(t, ok)
	require.Equal(t, uint8(200), got.Priority1)
}

func TestBuildRESPONSERoundTripsFullBody(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 256)

	clock, err := NewClockIdentity([]byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	body := &DefaultDataSetBody{
		NumberPorts:   2,
		Priority1:     10,
		Priority2:     20,
		ClockIdentity: clock,
	}

	n, err := Build(params, RESPONSE, IDDefaultDataSet, body, buf)
	require.NoError(t, err)

	msg, err := Parse(params, buf[:n])
	require.NoError(t, err)
	require.Equal(t, RESPONSE, msg.Action)
	got, ok := msg.Body.(*DefaultDataSetBody)
	require.True(t, ok)
	require.Equal(t, uint16(2), got.NumberPorts)
	require.Equal(t, uint8(10), got.Priority1)
}

func TestParseGETRejectsNonEmptyBody(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 256)

	n, err := Build(params, SET, IDPriority1, &Priority1Body{Priority1: 1}, buf)
	require.NoError(t, err)

	// actionField sits right after targetPortIdentity + two boundary
	// hops octets in the management prefix.
	buf[headerSize+portIdentitySize+2] = uint8(GET)

	_, err = Parse(params, buf[:n])
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestBuildEmptyIDIgnoresActionEntirely(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 256)

	n, err := Build(params, COMMAND, IDEnablePort, nil, buf)
	require.NoError(t, err)

	msg, err := Parse(params, buf[:n])
	require.NoError(t, err)
	require.Equal(t, EmptyBody{}, msg.Body)
}

func TestParseManagementErrorStatus(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 256)

	n, err := Build(params, RESPONSE, IDPriority1, &Priority1Body{Priority1: 1}, buf)
	require.NoError(t, err)

	// Rebuild the TLV region as a MANAGEMENT_ERROR_STATUS body in
	// place: errorId(2) + managementId(2) + reserved(4), no display
	// text.
	tlvOff := headerSize + managementPrefixSize
	w := newWriter(buf[tlvOff:])
	require.NoError(t, writeTLVHead(w, TLVManagementErrorStatus, 8))
	require.NoError(t, w.putU16(uint16(ErrorNotSupported)))
	require.NoError(t, w.putU16(uint16(IDPriority1)))
	require.NoError(t, w.pad(4))
	total := tlvOff + w.off

	binary.BigEndian.PutUint16(buf[2:4], uint16(total))

	msg, err := Parse(params, buf[:total])
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrManagementErrorStatus))
	require.NotNil(t, msg)
	require.NotNil(t, msg.Error)
	require.Equal(t, ErrorNotSupported, msg.Error.ErrorID)
	require.Equal(t, IDPriority1, msg.Error.ManagementID)
}
