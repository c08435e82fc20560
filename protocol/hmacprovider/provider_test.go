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

package hmacprovider

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDispatchesByAlgorithm(t *testing.T) {
	for _, algo := range []Algorithm{SHA256, AES128CMAC, AES256CMAC} {
		p, err := New(algo)
		require.NoError(t, err)
		require.Equal(t, algo, p.Algorithm())
	}

	_, err := New(Algorithm(0xff))
	require.Error(t, err)
}

func TestSHA256DigestAndVerify(t *testing.T) {
	p := NewSHA256()
	require.NoError(t, p.Init([]byte("a shared secret")))

	mac, err := p.Digest([]byte("hello, ptp"))
	require.NoError(t, err)
	require.Len(t, mac, SHA256.DigestSize())

	ok, err := p.Verify([]byte("hello, ptp"), mac)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = p.Verify([]byte("hello, ptp!"), mac)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = p.Verify([]byte("hello, ptp"), mac[:12])
	require.NoError(t, err)
	require.True(t, ok, "a truncated ICV still matches the digest's prefix")
}

func TestSHA256RequiresInit(t *testing.T) {
	p := NewSHA256()
	_, err := p.Digest([]byte("x"))
	require.Error(t, err)
}

// TestAES128CMACDeterministic checks the subkey-derivation/MAC path
// against itself across message lengths that exercise every branch of
// cmacMAC: the empty message (no blocks, zero-padded last block), a
// message shorter than one block, an exact single block, and a
// multi-block message whose last block is itself incomplete.
func TestAES128CMACDeterministic(t *testing.T) {
	key, err := hex.DecodeString("2b7e151628aed2a6abf7158809cf4f3c")
	require.NoError(t, err)

	for _, n := range []int{0, 1, 15, 16, 17, 40, 64} {
		msg := bytes.Repeat([]byte{0x11}, n)

		p, err := NewCMAC(AES128CMAC)
		require.NoError(t, err)
		require.NoError(t, p.Init(key))

		mac1, err := p.Digest(msg)
		require.NoError(t, err)
		require.Len(t, mac1, AES128CMAC.DigestSize())

		mac2, err := p.Digest(msg)
		require.NoError(t, err)
		require.Equal(t, mac1, mac2, "CMAC must be a pure function of key and message")

		ok, err := p.Verify(msg, mac1)
		require.NoError(t, err)
		require.True(t, ok)

		tampered := append([]byte(nil), msg...)
		tampered = append(tampered, 0x00)
		ok, err = p.Verify(tampered, mac1)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestAES128CMACDifferentKeysDiffer(t *testing.T) {
	msg := []byte("clock identity 00:11:22:33:44:55")

	p1, err := NewCMAC(AES128CMAC)
	require.NoError(t, err)
	require.NoError(t, p1.Init(bytes.Repeat([]byte{0x01}, 16)))
	mac1, err := p1.Digest(msg)
	require.NoError(t, err)

	p2, err := NewCMAC(AES128CMAC)
	require.NoError(t, err)
	require.NoError(t, p2.Init(bytes.Repeat([]byte{0x02}, 16)))
	mac2, err := p2.Digest(msg)
	require.NoError(t, err)

	require.NotEqual(t, mac1, mac2)
}

func TestAES256CMACWrongKeySize(t *testing.T) {
	p, err := NewCMAC(AES256CMAC)
	require.NoError(t, err)
	require.Error(t, p.Init(make([]byte, 16)))
}

func TestNewCMACRejectsNonCMACAlgorithm(t *testing.T) {
	_, err := NewCMAC(SHA256)
	require.Error(t, err)
}
