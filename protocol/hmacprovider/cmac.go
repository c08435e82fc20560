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
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

const blockSize = 16

// rb is the constant used to generate RFC 4493's subkeys for a 128-bit
// block cipher (section 2.3).
const rb = 0x87

// cmacProvider implements Provider using RFC 4493 AES-CMAC. No
// third-party CMAC package appears anywhere in this corpus (only an
// unimplemented structural stub in dittofs' signing package), so the
// block cipher itself comes from crypto/aes — see DESIGN.md.
type cmacProvider struct {
	algo  Algorithm
	block cipher.Block
	k1    [blockSize]byte
	k2    [blockSize]byte
}

// NewCMAC returns a Provider computing AES-CMAC with a 128 or 256 bit
// key, per algo.
func NewCMAC(algo Algorithm) (Provider, error) {
	if algo != AES128CMAC && algo != AES256CMAC {
		return nil, errors.New("hmacprovider: NewCMAC requires AES128CMAC or AES256CMAC")
	}
	return &cmacProvider{algo: algo}, nil
}

func (p *cmacProvider) Algorithm() Algorithm { return p.algo }

func (p *cmacProvider) Init(key []byte) error {
	want := 16
	if p.algo == AES256CMAC {
		want = 32
	}
	if len(key) != want {
		return errors.New("hmacprovider: wrong key size for algorithm")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	p.block = block
	p.k1, p.k2 = deriveSubkeys(block)
	return nil
}

// deriveSubkeys implements RFC 4493 section 2.3's subkey generation.
func deriveSubkeys(block cipher.Block) (k1, k2 [blockSize]byte) {
	var zero, l [blockSize]byte
	block.Encrypt(l[:], zero[:])

	k1 = shiftLeftXorRB(l)
	k2 = shiftLeftXorRB(k1)
	return k1, k2
}

func shiftLeftXorRB(in [blockSize]byte) [blockSize]byte {
	out := shiftLeft(in)
	if in[0]&0x80 != 0 {
		out[blockSize-1] ^= rb
	}
	return out
}

func shiftLeft(in [blockSize]byte) [blockSize]byte {
	var out [blockSize]byte
	var carry byte
	for i := blockSize - 1; i >= 0; i-- {
		out[i] = in[i]<<1 | carry
		carry = in[i] >> 7
	}
	return out
}

func xorBlock(a, b [blockSize]byte) [blockSize]byte {
	var out [blockSize]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// cmacMAC computes the raw AES-CMAC over data per RFC 4493 section 2.4.
func (p *cmacProvider) cmacMAC(data []byte) [blockSize]byte {
	n := (len(data) + blockSize - 1) / blockSize
	var lastBlockComplete bool
	if n == 0 {
		n = 1
		lastBlockComplete = false
	} else {
		lastBlockComplete = len(data)%blockSize == 0
	}

	var mLast [blockSize]byte
	start := (n - 1) * blockSize
	if lastBlockComplete {
		copy(mLast[:], data[start:])
		mLast = xorBlock(mLast, p.k1)
	} else {
		tail := data[start:]
		copy(mLast[:], tail)
		mLast[len(tail)] = 0x80
		mLast = xorBlock(mLast, p.k2)
	}

	var x [blockSize]byte
	for i := 0; i < n-1; i++ {
		var block [blockSize]byte
		copy(block[:], data[i*blockSize:(i+1)*blockSize])
		y := xorBlock(x, block)
		p.block.Encrypt(x[:], y[:])
	}
	y := xorBlock(x, mLast)
	var out [blockSize]byte
	p.block.Encrypt(out[:], y[:])
	return out
}

func (p *cmacProvider) Digest(data []byte) ([]byte, error) {
	if p.block == nil {
		return nil, errors.New("hmacprovider: Init not called")
	}
	mac := p.cmacMAC(data)
	return mac[:], nil
}

func (p *cmacProvider) Verify(data []byte, mac []byte) (bool, error) {
	sum, err := p.Digest(data)
	if err != nil {
		return false, err
	}
	if len(mac) > len(sum) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(sum[:len(mac)], mac) == 1, nil
}
