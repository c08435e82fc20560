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
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/erezgeva/libptpmgmt-sub003/protocol/hmacprovider"
	"github.com/erezgeva/libptpmgmt-sub003/protocol/sa"
)

// authPrefixSize is the AUTHENTICATION TLV's fixed prefix ahead of the
// variable-length ICV: spp(1) + secParamIndicator(1) + keyID(4).
const authPrefixSize = 1 + 1 + 4

// authenticationTLV is the decoded AUTHENTICATION TLV (IEEE 1588-2019
// Annex P). BuildAuthenticated/VerifyAuthentication work at the raw byte level instead
// of through this type, since Annex P's ICV computation needs the
// exact wire bytes with the ICV region zeroed; authenticationTLV exists
// so a caller walking a parsed message's TLVs (Traverse, decodeTLV)
// still sees it as an ordinary typed value.
type authenticationTLV struct {
	SPP               uint8
	SecParamIndicator uint8
	KeyID             uint32
	ICV               []byte
}

func (t *authenticationTLV) Type() TLVType { return TLVAuthentication }

func (t *authenticationTLV) wireLen() int { return authPrefixSize + len(t.ICV) }

func (t *authenticationTLV) marshalTo(w *writer) error {
	if err := w.putU8(t.SPP); err != nil {
		return err
	}
	if err := w.putU8(t.SecParamIndicator); err != nil {
		return err
	}
	if err := w.putU32(t.KeyID); err != nil {
		return err
	}
	return w.putBytes(t.ICV)
}

// decodeAuthenticationTLV is dispatched directly from decodeTLV (rather
// than through signalingTLVRegistry) because it, like the TLV head
// itself, must still see and skip the odd-length pad byte on its own.
func decodeAuthenticationTLV(r *reader, length int) (TLV, error) {
	if length < authPrefixSize {
		return nil, wrapf(ErrLengthMismatch, "AUTHENTICATION body too short: %d", length)
	}
	spp, err := r.u8()
	if err != nil {
		return nil, err
	}
	secParamIndicator, err := r.u8()
	if err != nil {
		return nil, err
	}
	keyID, err := r.u32()
	if err != nil {
		return nil, err
	}
	icv, err := r.bytes(length - authPrefixSize)
	if err != nil {
		return nil, err
	}
	if length%2 != 0 {
		if err := r.skip(1); err != nil {
			return nil, err
		}
	}
	return &authenticationTLV{
		SPP:               spp,
		SecParamIndicator: secParamIndicator,
		KeyID:             keyID,
		ICV:               append([]byte(nil), icv...),
	}, nil
}

// AuthConfig binds a MsgParams session to the SPP/key used to
// authenticate messages it builds and to verify on ones it parses. A
// nil Auth on MsgParams means the session neither builds nor requires
// authentication.
type AuthConfig struct {
	// SPP selects the security parameters pointer an outgoing
	// AUTHENTICATION TLV carries.
	SPP uint8
	// KeyID selects the key, within SPP, an outgoing TLV carries.
	KeyID uint32
	// SecParamIndicator is carried verbatim; this package does not
	// interpret its bits.
	SecParamIndicator uint8
	// Provider computes and verifies the ICV. Callers normally obtain
	// one via hmacprovider.New, bound to the key bytes looked up from
	// an SA file by (SPP, KeyID).
	Provider hmacprovider.Provider
	// ICVSize truncates the ICV to fewer bytes than
	// Provider.Algorithm().DigestSize(), per the SA file's configured
	// digest size for the key. Zero means "use the full digest".
	ICVSize int
	// RequireAuth, when true and AllowUnauth is false, rejects an
	// incoming message that carries no AUTHENTICATION TLV at all.
	RequireAuth bool
	// AllowUnauth overrides RequireAuth, accepting an unauthenticated
	// message even when RequireAuth is set.
	AllowUnauth bool
}

// AuthConfigFromSA builds an AuthConfig for (spp, keyID) by looking the
// key up in an already-loaded sa.File and constructing the matching
// default hmacprovider.Provider, so a caller need not duplicate the
// (spp, keyID) -> (algorithm, key bytes) lookup spec.md's SA file
// describes.
func AuthConfigFromSA(f *sa.File, spp uint8, keyID uint32) (*AuthConfig, error) {
	s, ok := f.Spp(spp)
	if !ok {
		return nil, fmt.Errorf("ptpmgmt: no spp %d in SA file", spp)
	}
	keyBytes, ok := s.Key(keyID)
	if !ok {
		return nil, fmt.Errorf("ptpmgmt: no key %d under spp %d", keyID, spp)
	}
	alg, _ := s.Algorithm(keyID)
	macSize, _ := s.MacSize(keyID)

	provider, err := hmacprovider.New(alg)
	if err != nil {
		return nil, err
	}
	if err := provider.Init(keyBytes); err != nil {
		return nil, err
	}

	return &AuthConfig{
		SPP:      spp,
		KeyID:    keyID,
		Provider: provider,
		ICVSize:  macSize,
	}, nil
}

func (a *AuthConfig) icvSize() int {
	if a.ICVSize > 0 {
		return a.ICVSize
	}
	return a.Provider.Algorithm().DigestSize()
}

// BuildAuthenticated encodes a management message exactly as Build
// does, then appends an AUTHENTICATION TLV per I6: the ICV octets are
// zero while the header's messageLength is finalized and the MAC is
// computed over the whole message, then the placeholder is overwritten
// with the computed MAC.
func BuildAuthenticated(params *MsgParams, action Action, id ManagementID, body ManagementBody, buf []byte) (int, error) {
	n, err := Build(params, action, id, body, buf)
	if err != nil {
		return 0, err
	}
	return appendAuthentication(params, buf, n)
}

// BuildSignalingAuthenticated is BuildSignaling's authenticated
// counterpart.
func BuildSignalingAuthenticated(params *MsgParams, tlvs []TLV, buf []byte) (int, error) {
	n, err := BuildSignaling(params, tlvs, buf)
	if err != nil {
		return 0, err
	}
	return appendAuthentication(params, buf, n)
}

func appendAuthentication(params *MsgParams, buf []byte, n int) (int, error) {
	auth := params.Auth
	if auth == nil || auth.Provider == nil {
		return 0, wrapf(ErrAuthFailed, "no authentication provider configured on MsgParams")
	}

	icvSize := auth.icvSize()
	bodyLen := authPrefixSize + icvSize
	tlvLen := tlvHeadSize + bodyLen
	if bodyLen%2 != 0 {
		tlvLen++
	}
	if len(buf)-n < tlvLen {
		return 0, wrapf(ErrShortBuffer, "need %d bytes for AUTHENTICATION TLV, have %d", tlvLen, len(buf)-n)
	}

	w := newWriter(buf[n:])
	if err := writeTLVHead(w, TLVAuthentication, bodyLen); err != nil {
		return 0, err
	}
	if err := w.putU8(auth.SPP); err != nil {
		return 0, err
	}
	if err := w.putU8(auth.SecParamIndicator); err != nil {
		return 0, err
	}
	if err := w.putU32(auth.KeyID); err != nil {
		return 0, err
	}
	icvOffset := n + w.off
	if err := w.putBytes(make([]byte, icvSize)); err != nil {
		return 0, err
	}
	if bodyLen%2 != 0 {
		if err := w.pad(1); err != nil {
			return 0, err
		}
	}
	total := n + w.off

	binary.BigEndian.PutUint16(buf[2:4], uint16(total))

	mac, err := auth.Provider.Digest(buf[:total])
	if err != nil {
		return 0, wrapf(ErrAuthFailed, "%v", err)
	}
	if len(mac) < icvSize {
		return 0, wrapf(ErrAuthFailed, "provider digest shorter than configured ICV size")
	}
	copy(buf[icvOffset:icvOffset+icvSize], mac[:icvSize])
	return total, nil
}

// VerifyAuthentication checks buf's trailing AUTHENTICATION TLV, if
// any, against params.Auth: the ICV is saved, the bytes at the ICV
// location are zeroed in a scratch copy, the MAC is recomputed and
// compared to the saved ICV in constant time.
//
// Callers run this before or after Parse/ParseSignaling; it re-scans
// buf independently of the decoded message so it works whether or not
// the caller's Parse call already consumed the AUTHENTICATION TLV.
func VerifyAuthentication(params *MsgParams, buf []byte) error {
	icvOffset, icv, found := findAuthenticationTLV(buf)
	auth := params.Auth
	if !found {
		if auth != nil && auth.RequireAuth && !auth.AllowUnauth {
			return wrapf(ErrAuthFailed, "message carries no AUTHENTICATION TLV")
		}
		return nil
	}
	if auth == nil || auth.Provider == nil {
		return wrapf(ErrAuthFailed, "no authentication provider configured on MsgParams")
	}

	scratch := append([]byte(nil), buf...)
	for i := range icv {
		scratch[icvOffset+i] = 0
	}
	ok, err := auth.Provider.Verify(scratch, icv)
	if err != nil {
		return wrapf(ErrAuthFailed, "%v", err)
	}
	if !ok {
		logger.WithFields(logrus.Fields{
			"spp":       auth.SPP,
			"keyID":     auth.KeyID,
			"algorithm": auth.Provider.Algorithm().String(),
		}).Warn("ptpmgmt: ICV mismatch")
		return ErrAuthFailed
	}
	return nil
}

// findAuthenticationTLV walks buf's header and TLV chain looking for a
// trailing AUTHENTICATION TLV, returning the absolute offset of its ICV
// bytes and a copy of them. It tolerates either a Management or a
// Signaling message, since Annex P lets either family carry one.
func findAuthenticationTLV(buf []byte) (icvOffset int, icv []byte, found bool) {
	r := newReader(buf)
	h, err := unmarshalHeader(r)
	if err != nil {
		return 0, nil, false
	}
	switch h.MessageType {
	case MessageManagement:
		if err := r.skip(managementPrefixSize); err != nil {
			return 0, nil, false
		}
	case MessageSignaling:
		if err := r.skip(portIdentitySize); err != nil {
			return 0, nil, false
		}
	default:
		return 0, nil, false
	}

	for r.remaining() > 0 {
		start := r.off
		typ, length, err := readTLVHead(r)
		if err != nil {
			return 0, nil, false
		}
		if typ == TLVAuthentication {
			if length < authPrefixSize {
				return 0, nil, false
			}
			icvLen := length - authPrefixSize
			off := start + tlvHeadSize + authPrefixSize
			if off+icvLen > len(buf) {
				return 0, nil, false
			}
			return off, append([]byte(nil), buf[off:off+icvLen]...), true
		}
		if err := r.skip(length); err != nil {
			return 0, nil, false
		}
		if length%2 != 0 {
			if err := r.skip(1); err != nil {
				return 0, nil, false
			}
		}
	}
	return 0, nil, false
}
