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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/erezgeva/libptpmgmt-sub003/protocol/hmacprovider"
	"github.com/erezgeva/libptpmgmt-sub003/protocol/sa"
)

func testSelfID(t *testing.T) PortIdentity {
	t.Helper()
	clock, err := NewClockIdentity([]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	require.NoError(t, err)
	return PortIdentity{ClockIdentity: clock, PortNumber: 1}
}

func testAuthProvider(t *testing.T, key []byte) hmacprovider.Provider {
	t.Helper()
	p := hmacprovider.NewSHA256()
	require.NoError(t, p.Init(key))
	return p
}

func TestBuildAuthenticatedRoundTrips(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	params.Auth = &AuthConfig{
		SPP:      0,
		KeyID:    1,
		Provider: testAuthProvider(t, []byte("a 256 bit shared secret, padded")),
		ICVSize:  12,
	}

	body := &DefaultDataSetBody{
		NumberPorts: 1,
		Priority1:   128,
		Priority2:   128,
		ClockIdentity: func() ClockIdentity {
			c, _ := NewClockIdentity([]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})
			return c
		}(),
	}

	buf := make([]byte, 1024)
	n, err := BuildAuthenticated(params, RESPONSE, IDDefaultDataSet, body, buf)
	require.NoError(t, err)
	require.NoError(t, VerifyAuthentication(params, buf[:n]))

	msg, err := Parse(params, buf[:n])
	require.NoError(t, err)
	require.Equal(t, IDDefaultDataSet, msg.ManagementID)
	got, ok := msg.Body.(*DefaultDataSetBody)
	require.True(t, ok)
	require.Equal(t, uint16(1), got.NumberPorts)
}

func TestVerifyAuthenticationDetectsTamper(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	params.Auth = &AuthConfig{
		SPP:      3,
		KeyID:    7,
		Provider: testAuthProvider(t, []byte("another shared secret")),
	}

	buf := make([]byte, 1024)
	n, err := BuildAuthenticated(params, RESPONSE, IDDefaultDataSet, &DefaultDataSetBody{}, buf)
	require.NoError(t, err)
	require.NoError(t, VerifyAuthentication(params, buf[:n]))

	buf[n-1] ^= 0xff
	err = VerifyAuthentication(params, buf[:n])
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestVerifyAuthenticationRequireAuthRejectsMissingTLV(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 1024)
	n, err := Build(params, RESPONSE, IDDefaultDataSet, &DefaultDataSetBody{}, buf)
	require.NoError(t, err)

	params.Auth = &AuthConfig{RequireAuth: true}
	err = VerifyAuthentication(params, buf[:n])
	require.ErrorIs(t, err, ErrAuthFailed)

	params.Auth.AllowUnauth = true
	require.NoError(t, VerifyAuthentication(params, buf[:n]))
}

func TestVerifyAuthenticationNoConfigIsNoopWithoutTLV(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	buf := make([]byte, 1024)
	n, err := Build(params, RESPONSE, IDDefaultDataSet, &DefaultDataSetBody{}, buf)
	require.NoError(t, err)
	require.NoError(t, VerifyAuthentication(params, buf[:n]))
}

func TestBuildSignalingAuthenticatedRoundTrips(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	params.Auth = &AuthConfig{
		SPP:      0,
		KeyID:    9,
		Provider: testAuthProvider(t, []byte("signaling channel secret")),
	}

	c, err := NewClockIdentity([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	tlv := &PathTraceTLV{PathSequence: []ClockIdentity{c}}

	buf := make([]byte, 1024)
	n, err := BuildSignalingAuthenticated(params, []TLV{tlv}, buf)
	require.NoError(t, err)
	require.NoError(t, VerifyAuthentication(params, buf[:n]))

	msg, err := ParseSignaling(params, buf[:n])
	require.NoError(t, err)
	require.Len(t, msg.TLVs, 2)
	require.Equal(t, TLVAuthentication, msg.TLVs[1].Type())
}

func TestAuthConfigFromSARoundTrips(t *testing.T) {
	saData := "[0]\nownID=1\n5 0x000102030405060708090a0b0c0d0e0f alg=AES128\n"
	f, err := sa.Parse([]byte(saData))
	require.NoError(t, err)

	auth, err := AuthConfigFromSA(f, 0, 5)
	require.NoError(t, err)
	require.Equal(t, uint8(0), auth.SPP)
	require.Equal(t, uint32(5), auth.KeyID)
	require.Equal(t, 16, auth.ICVSize)

	params := NewMsgParams(testSelfID(t))
	params.Auth = auth

	buf := make([]byte, 1024)
	n, err := BuildAuthenticated(params, RESPONSE, IDDefaultDataSet, &DefaultDataSetBody{}, buf)
	require.NoError(t, err)
	require.NoError(t, VerifyAuthentication(params, buf[:n]))
}

func TestAuthConfigFromSAUnknownSPP(t *testing.T) {
	f, err := sa.Parse([]byte("[0]\nownID=1\n5 0x00 alg=SHA256\n"))
	require.NoError(t, err)

	_, err = AuthConfigFromSA(f, 9, 5)
	require.Error(t, err)
}

func TestAuthConfigFromSAUnknownKey(t *testing.T) {
	f, err := sa.Parse([]byte("[0]\nownID=1\n5 0x00 alg=SHA256\n"))
	require.NoError(t, err)

	_, err = AuthConfigFromSA(f, 0, 99)
	require.Error(t, err)
}

func TestAppendAuthenticationPropagatesProviderDigestError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockProvider := hmacprovider.NewMockProvider(ctrl)
	mockProvider.EXPECT().Algorithm().Return(hmacprovider.SHA256).AnyTimes()
	mockProvider.EXPECT().Digest(gomock.Any()).Return(nil, errors.New("hsm unavailable"))

	params := NewMsgParams(testSelfID(t))
	params.Auth = &AuthConfig{SPP: 0, KeyID: 1, Provider: mockProvider}

	buf := make([]byte, 1024)
	_, err := BuildAuthenticated(params, RESPONSE, IDDefaultDataSet, &DefaultDataSetBody{}, buf)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestVerifyAuthenticationPropagatesProviderVerifyError(t *testing.T) {
	params := NewMsgParams(testSelfID(t))
	params.Auth = &AuthConfig{
		SPP:      0,
		KeyID:    1,
		Provider: testAuthProvider(t, []byte("a shared secret")),
	}
	buf := make([]byte, 1024)
	n, err := BuildAuthenticated(params, RESPONSE, IDDefaultDataSet, &DefaultDataSetBody{}, buf)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	mockProvider := hmacprovider.NewMockProvider(ctrl)
	mockProvider.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false, errors.New("backend error"))
	params.Auth.Provider = mockProvider

	err = VerifyAuthentication(params, buf[:n])
	require.ErrorIs(t, err, ErrAuthFailed)
}
