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

/*
Package hostendian provides way to check the endianness of the
machine this code is running on.

The management codec needs this because linuxptp's NP extensions put a
handful of fields (RxMsgType/TxMsgType counters) on the wire in host
byte order rather than network byte order, matching the layout
linuxptp's own unix-domain-socket clients read directly from.
*/
package hostendian

import (
	"encoding/binary"
	"unsafe"
)

// Order of the bytes
var Order binary.ByteOrder = binary.LittleEndian

// IsBigEndian is a flag determining if value is in Big Endian
var IsBigEndian bool

func init() {
	var i uint16 = 0x0100
	ptr := unsafe.Pointer(&i)
	if *(*byte)(ptr) == 0x01 {
		// we are on the big endian machine
		IsBigEndian = true
		Order = binary.BigEndian
	}
}
