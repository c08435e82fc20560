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

// Package protocol implements the IEEE 1588-2019 PTP management and
// signaling wire format: header framing, the typed value model, the
// management TLV registry and (de)serializer, the signaling TLV
// pipeline, the build/dump dispatchers, and the Annex P authentication
// (ICV) stage.
//
// The package is transport-agnostic: it only ever reads and writes
// []byte. Sending those bytes over UDP, raw Ethernet or a local socket,
// discovering interfaces, and reading PHC devices are all left to the
// caller. LoadConfig (config.go) reads only the handful of ptp4l-style
// configuration keys this package consumes.
package protocol

// all references are given for IEEE 1588-2019 Standard, unless noted otherwise
