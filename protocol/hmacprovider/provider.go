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

// Package hmacprovider is the small collaborator interface the
// Annex P authentication stage (protocol/auth.go) calls through to
// compute and verify an AUTHENTICATION TLV's ICV. It intentionally does
// not own key storage or SA-file parsing (see protocol/sa), only the
// init/digest/verify primitive itself.
package hmacprovider

import "fmt"

// Algorithm identifies one of the MAC algorithms Annex P names.
type Algorithm uint8

const (
	SHA256   Algorithm = iota // HMAC-SHA-256, 32 byte digest
	AES128CMAC                // AES-128-CMAC, 16 byte digest
	AES256CMAC                // AES-256-CMAC, 16 byte digest
)

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA256"
	case AES128CMAC:
		return "AES128"
	case AES256CMAC:
		return "AES256"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// DigestSize returns the full-length digest size for the algorithm,
// before any per-key ICV truncation.
func (a Algorithm) DigestSize() int {
	switch a {
	case SHA256:
		return 32
	case AES128CMAC, AES256CMAC:
		return 16
	default:
		return 0
	}
}

// Provider computes and verifies a message authentication code over a
// byte slice. Implementations are not required to be safe for
// concurrent use; protocol.MsgParams callers should hold one Provider
// per key, not share across goroutines.
type Provider interface {
	// Algorithm reports which MAC this provider implements.
	Algorithm() Algorithm
	// Init binds key as the MAC key. It may be called more than once to
	// rekey the same Provider instance.
	Init(key []byte) error
	// Digest computes the MAC over data, returning a slice of exactly
	// Algorithm().DigestSize() bytes. The ICV carried on the wire may be
	// a caller-chosen truncation of this value.
	Digest(data []byte) ([]byte, error)
	// Verify recomputes the MAC over data and compares it against mac
	// (which may be shorter than DigestSize(), per the ICV's own
	// length) in constant time.
	Verify(data []byte, mac []byte) (bool, error)
}

// New constructs the default Provider for algo.
func New(algo Algorithm) (Provider, error) {
	switch algo {
	case SHA256:
		return NewSHA256(), nil
	case AES128CMAC:
		return NewCMAC(AES128CMAC)
	case AES256CMAC:
		return NewCMAC(AES256CMAC)
	default:
		return nil, fmt.Errorf("hmacprovider: unknown algorithm %v", algo)
	}
}
