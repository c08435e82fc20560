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

package sa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erezgeva/libptpmgmt-sub003/protocol/hmacprovider"
)

const testFile = `
# comment lines and blanks are ignored

[0]
ownID=1
1 0x000102030405060708090a0b0c0d0e0f alg=AES128
2 supersecretasciikey alg=SHA256 mac=20

[3]
ownID=7
9 0x00112233445566778899aabbccddeeff0011223344556677 alg=AES256
`

func TestParseFile(t *testing.T) {
	f, err := Parse([]byte(testFile))
	require.NoError(t, err)

	require.True(t, f.Have(0))
	require.True(t, f.Have(3))
	require.False(t, f.Have(5))

	spp0, ok := f.Spp(0)
	require.True(t, ok)
	require.Equal(t, uint8(1), spp0.OwnID())
	require.Equal(t, 2, spp0.Keys())

	key1, ok := spp0.Key(1)
	require.True(t, ok)
	require.Len(t, key1, 16)

	alg1, ok := spp0.Algorithm(1)
	require.True(t, ok)
	require.Equal(t, hmacprovider.AES128CMAC, alg1)

	size1, ok := spp0.MacSize(1)
	require.True(t, ok)
	require.Equal(t, 16, size1)

	key2, ok := spp0.Key(2)
	require.True(t, ok)
	require.Equal(t, []byte("supersecretasciikey"), key2)

	size2, ok := spp0.MacSize(2)
	require.True(t, ok)
	require.Equal(t, 20, size2)

	require.True(t, f.HaveKey(0, 1))
	require.False(t, f.HaveKey(0, 99))

	spp3, ok := f.Spp(3)
	require.True(t, ok)
	require.Equal(t, uint8(7), spp3.OwnID())
}

func TestParseRejectsEntryOutsideSection(t *testing.T) {
	_, err := Parse([]byte("ownID=1\n"))
	require.Error(t, err)
}

func TestParseRejectsMalformedKeyLine(t *testing.T) {
	_, err := Parse([]byte("[0]\nownID=1\nnotakeyline\n"))
	require.Error(t, err)
}

func TestParseRejectsBadHex(t *testing.T) {
	_, err := Parse([]byte("[0]\nownID=1\n1 0xzz alg=AES128\n"))
	require.Error(t, err)
}

func TestParseRejectsUnknownAlgorithm(t *testing.T) {
	_, err := Parse([]byte("[0]\nownID=1\n1 0x00 alg=ROT13\n"))
	require.Error(t, err)
}

func TestParseRejectsOversizedMacForAlgorithm(t *testing.T) {
	_, err := Parse([]byte("[0]\nownID=1\n1 0x00 alg=AES128 mac=17\n"))
	require.Error(t, err)
}

func TestSppAddKeyReplaceSemantics(t *testing.T) {
	s := newSpp()
	require.True(t, s.AddKey(1, hmacprovider.SHA256, []byte("k"), 32, false))
	require.False(t, s.AddKey(1, hmacprovider.SHA256, []byte("k2"), 32, false))
	require.True(t, s.AddKey(1, hmacprovider.SHA256, []byte("k2"), 32, true))
	got, _ := s.Key(1)
	require.Equal(t, []byte("k2"), got)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a, err := Parse([]byte("[0]\nownID=1\n1 0x00 alg=SHA256\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("[0]\nownID=2\n1 0x00 alg=SHA256\n"))
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c, err := Parse([]byte("[0]\nownID=1\n1 0x00 alg=SHA256\n"))
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), c.Fingerprint())
}

func TestStoreReloadAndCoalesce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sa.conf")
	require.NoError(t, os.WriteFile(path, []byte(testFile), 0o600))

	store := NewStore(path)
	require.Nil(t, store.Current())

	f1, err := store.Reload()
	require.NoError(t, err)
	require.NotNil(t, store.Current())
	require.True(t, store.Current().Have(0))

	f2, err := store.Reload()
	require.NoError(t, err)
	require.Equal(t, f1.Fingerprint(), f2.Fingerprint())
}

func TestStoreReloadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.conf"))
	_, err := store.Reload()
	require.Error(t, err)
}
