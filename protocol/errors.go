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
	"fmt"
)

// Taxonomy of errors the codec can report. Callers should use errors.Is
// against these sentinels rather than string-matching messages.
var (
	// ErrShortBuffer is returned when a read or write would exceed the
	// remaining bytes of the buffer being decoded or encoded.
	ErrShortBuffer = errors.New("ptpmgmt: short buffer")
	// ErrInvalidHeader is returned for a version mismatch, an impossible
	// messageType, or a messageLength inconsistent with the buffer.
	ErrInvalidHeader = errors.New("ptpmgmt: invalid header")
	// ErrUnknownManagementID is returned for an id absent from the
	// registry, or not legal for the active implementSpecific profile.
	ErrUnknownManagementID = errors.New("ptpmgmt: unknown management id")
	// ErrActionMismatch is returned for e.g. COMMAND on a GET-only id,
	// or SET with no body.
	ErrActionMismatch = errors.New("ptpmgmt: action mismatch")
	// ErrLengthMismatch is returned when a TLV's lengthField contradicts
	// its declared body layout.
	ErrLengthMismatch = errors.New("ptpmgmt: length mismatch")
	// ErrValueOutOfRange is returned for a field-specific bound violation.
	ErrValueOutOfRange = errors.New("ptpmgmt: value out of range")
	// ErrUnsupported is returned when a profile or feature is not
	// enabled for the current MsgParams (e.g. a linuxptp-specific TLV
	// with MsgParams.Implementation != ImplementationLinuxptp, or AUTHENTICATION without key
	// material).
	ErrUnsupported = errors.New("ptpmgmt: unsupported")
	// ErrAuthFailed is returned when ICV verification fails.
	ErrAuthFailed = errors.New("ptpmgmt: authentication failed")
	// ErrFramingError is returned when a signaling TLV's declared length
	// exceeds the remaining bytes of the message.
	ErrFramingError = errors.New("ptpmgmt: framing error")
)

// ManagementErrorStatusError wraps a parsed MANAGEMENT_ERROR_STATUS TLV,
// reported when a parse is well-formed but carries a peer-reported error
// rather than a value.
type ManagementErrorStatusError struct {
	ErrorID      ManagementErrorID
	ManagementID ManagementID
	DisplayData  PTPText
}

func (e *ManagementErrorStatusError) Error() string {
	if e.DisplayData != "" {
		return fmt.Sprintf("ptpmgmt: management error %s for id %s: %s", e.ErrorID, e.ManagementID, e.DisplayData)
	}
	return fmt.Sprintf("ptpmgmt: management error %s for id %s", e.ErrorID, e.ManagementID)
}

// Is lets errors.Is(err, ErrManagementErrorStatus) match.
func (e *ManagementErrorStatusError) Is(target error) bool {
	return target == errManagementErrorStatusSentinel
}

// errManagementErrorStatusSentinel lets callers test the class of error
// without knowing the specific ErrorID/ManagementID via
// errors.Is(err, protocol.ErrManagementErrorStatus).
var errManagementErrorStatusSentinel = errors.New("ptpmgmt: management error status")

// ErrManagementErrorStatus is the sentinel to match any *ManagementErrorStatusError.
var ErrManagementErrorStatus = errManagementErrorStatusSentinel

func wrapf(base error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{base}, args...)...)
}
