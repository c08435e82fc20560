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

// Package sa parses the security-association file naming the SPPs and
// keys an Annex P session authenticates with, and keeps them available
// to protocol.AuthConfig without that package owning file I/O.
package sa

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-ini/ini"

	"github.com/erezgeva/libptpmgmt-sub003/protocol/hmacprovider"
)

var (
	sectionHeaderRe = regexp.MustCompile(`^\[(\d+)\]$`)
	keyLineRe       = regexp.MustCompile(`^(\d+)\s+(\S+)\s+alg=(\S+)(?:\s+mac=(\d+))?$`)
)

// Key is one (keyID, algorithm, key material) entry within an Spp.
type Key struct {
	ID        uint32
	Algorithm hmacprovider.Algorithm
	Bytes     []byte
	MacSize   int
}

// Spp holds one security parameters pointer's own id and key table.
type Spp struct {
	ownID uint8
	keys  map[uint32]*Key
}

func newSpp() *Spp {
	return &Spp{keys: map[uint32]*Key{}}
}

// OwnID returns the spp's configured ownID field.
func (s *Spp) OwnID() uint8 { return s.ownID }

// Keys returns the number of keys registered under this spp.
func (s *Spp) Keys() int { return len(s.keys) }

// Key returns the key material for id.
func (s *Spp) Key(id uint32) ([]byte, bool) {
	k, ok := s.keys[id]
	if !ok {
		return nil, false
	}
	return k.Bytes, true
}

// MacSize returns the configured ICV size for id.
func (s *Spp) MacSize(id uint32) (int, bool) {
	k, ok := s.keys[id]
	if !ok {
		return 0, false
	}
	return k.MacSize, true
}

// Algorithm returns the MAC algorithm configured for id.
func (s *Spp) Algorithm(id uint32) (hmacprovider.Algorithm, bool) {
	k, ok := s.keys[id]
	if !ok {
		return 0, false
	}
	return k.Algorithm, true
}

// maxDigestSize is the per-algorithm ceiling a configured digestSize
// must not exceed: 32 bytes for SHA-256, 16 for either CMAC variant.
func maxDigestSize(alg hmacprovider.Algorithm) int {
	if alg == hmacprovider.SHA256 {
		return 32
	}
	return 16
}

// AddKey registers id under this spp. It fails (returns false) when
// replace is false and id already exists, or when digestSize is out of
// bounds for alg.
func (s *Spp) AddKey(id uint32, alg hmacprovider.Algorithm, keyBytes []byte, digestSize int, replace bool) bool {
	if _, exists := s.keys[id]; exists && !replace {
		return false
	}
	if digestSize <= 0 || digestSize > maxDigestSize(alg) {
		return false
	}
	s.keys[id] = &Key{
		ID:        id,
		Algorithm: alg,
		Bytes:     append([]byte(nil), keyBytes...),
		MacSize:   digestSize,
	}
	return true
}

// File is a parsed SA file: a set of Spp entries keyed by spp number,
// plus an xxhash fingerprint of the raw bytes it was parsed from.
type File struct {
	spps        map[uint8]*Spp
	fingerprint uint64
}

// Have reports whether spp has an entry in the file.
func (f *File) Have(spp uint8) bool {
	_, ok := f.spps[spp]
	return ok
}

// HaveKey reports whether spp exists and has a key entry for keyID.
func (f *File) HaveKey(spp uint8, keyID uint32) bool {
	s, ok := f.spps[spp]
	if !ok {
		return false
	}
	_, ok = s.keys[keyID]
	return ok
}

// Spp returns the entry for spp.
func (f *File) Spp(spp uint8) (*Spp, bool) {
	s, ok := f.spps[spp]
	return s, ok
}

// Fingerprint is the xxhash of the raw bytes this File was parsed from,
// letting a caller cheaply detect an unchanged file across reloads.
func (f *File) Fingerprint() uint64 { return f.fingerprint }

func parseAlgorithm(tok string) (hmacprovider.Algorithm, error) {
	switch strings.ToUpper(tok) {
	case "SHA256":
		return hmacprovider.SHA256, nil
	case "AES128":
		return hmacprovider.AES128CMAC, nil
	case "AES256":
		return hmacprovider.AES256CMAC, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", tok)
	}
}

// decodeKeyBytes accepts either a "0x"-prefixed hex token or a literal
// ascii token, per the file grammar's "<hex|ascii>" key field.
func decodeKeyBytes(tok string) ([]byte, error) {
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		b, err := hex.DecodeString(tok[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid hex key %q: %w", tok, err)
		}
		return b, nil
	}
	return []byte(tok), nil
}

// parseOwnID reads the "ownID=<u8>" line via go-ini's key/value parser,
// since it is a plain key=value assignment unlike the per-key lines
// that follow it.
func parseOwnID(line string) (uint8, error) {
	f, err := ini.Load([]byte(line))
	if err != nil {
		return 0, err
	}
	n, err := f.Section("").Key("ownID").Uint()
	if err != nil {
		return 0, err
	}
	if n > 0xff {
		return 0, fmt.Errorf("ownID %d out of range", n)
	}
	return uint8(n), nil
}

// Parse reads an SA file's bytes into a File. The grammar is:
//
//	[<spp>]
//	ownID=<u8>
//	<keyID> <hex|ascii> alg=<SHA256|AES128|AES256> [mac=<digest_bytes>]
//
// Blank lines and lines starting with "#" are ignored.
func Parse(data []byte) (*File, error) {
	spps := map[uint8]*Spp{}
	var cur *Spp
	var curID uint8
	haveCur := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := sectionHeaderRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.ParseUint(m[1], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("sa: line %d: bad spp %q: %w", lineNo, m[1], err)
			}
			curID = uint8(n)
			cur = newSpp()
			spps[curID] = cur
			haveCur = true
			continue
		}
		if !haveCur {
			return nil, fmt.Errorf("sa: line %d: entry outside any [spp] section", lineNo)
		}
		if strings.HasPrefix(strings.ToLower(line), "ownid") {
			ownID, err := parseOwnID(line)
			if err != nil {
				return nil, fmt.Errorf("sa: line %d: %w", lineNo, err)
			}
			cur.ownID = ownID
			continue
		}
		m := keyLineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("sa: line %d: malformed key entry %q", lineNo, line)
		}
		id, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("sa: line %d: bad keyID %q: %w", lineNo, m[1], err)
		}
		keyBytes, err := decodeKeyBytes(m[2])
		if err != nil {
			return nil, fmt.Errorf("sa: line %d: %w", lineNo, err)
		}
		alg, err := parseAlgorithm(m[3])
		if err != nil {
			return nil, fmt.Errorf("sa: line %d: %w", lineNo, err)
		}
		digestSize := alg.DigestSize()
		if m[4] != "" {
			n, err := strconv.Atoi(m[4])
			if err != nil {
				return nil, fmt.Errorf("sa: line %d: bad mac size %q: %w", lineNo, m[4], err)
			}
			digestSize = n
		}
		if !cur.AddKey(uint32(id), alg, keyBytes, digestSize, true) {
			return nil, fmt.Errorf("sa: line %d: add_key rejected for key %d (digest size %d invalid for %s)", lineNo, id, digestSize, alg)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &File{spps: spps, fingerprint: fingerprintOf(data)}, nil
}

// ParseReader is Parse for a caller that has an io.Reader rather than a
// byte slice in hand.
func ParseReader(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
