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
)

// reader is a cursor over a []byte being decoded. All multi-byte fields
// on the wire are big-endian unless noted otherwise (see the hostendian
// use in management_codec_np.go's PortStats codec).
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// remaining returns the number of unread bytes.
func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) need(n int) error {
	if n < 0 || r.remaining() < n {
		return wrapf(ErrShortBuffer, "need %d bytes, have %d", n, r.remaining())
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *reader) i8() (int8, error) {
	v, err := r.u8()
	return int8(v), err
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) i64() (int64, error) {
	v, err := r.u64()
	return int64(v), err
}

// bytes returns the next n raw bytes without copying.
func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.buf[r.off : r.off+n]
	r.off += n
	return v, nil
}

// skip advances the cursor by n bytes, used to consume padding.
func (r *reader) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// writer is an append-only cursor over a caller-supplied buffer,
// mirroring the teacher's BinaryMarshalerTo convention of writing
// directly into pre-sized buffers instead of allocating per field.
type writer struct {
	buf []byte
	off int
}

func newWriter(buf []byte) *writer {
	return &writer{buf: buf}
}

func (w *writer) need(n int) error {
	if n < 0 || len(w.buf)-w.off < n {
		return wrapf(ErrShortBuffer, "need %d bytes, have %d", n, len(w.buf)-w.off)
	}
	return nil
}

func (w *writer) putU8(v uint8) error {
	if err := w.need(1); err != nil {
		return err
	}
	w.buf[w.off] = v
	w.off++
	return nil
}

func (w *writer) putI8(v int8) error { return w.putU8(uint8(v)) }

func (w *writer) putU16(v uint16) error {
	if err := w.need(2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
	return nil
}

func (w *writer) putI16(v int16) error { return w.putU16(uint16(v)) }

func (w *writer) putU32(v uint32) error {
	if err := w.need(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
	return nil
}

func (w *writer) putI32(v int32) error { return w.putU32(uint32(v)) }

func (w *writer) putU64(v uint64) error {
	if err := w.need(8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
	return nil
}

func (w *writer) putI64(v int64) error { return w.putU64(uint64(v)) }

func (w *writer) putBytes(b []byte) error {
	if err := w.need(len(b)); err != nil {
		return err
	}
	n := copy(w.buf[w.off:], b)
	w.off += n
	return nil
}

// pad writes n zero bytes, used for even-length TLV padding.
func (w *writer) pad(n int) error {
	if err := w.need(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		w.buf[w.off+i] = 0
	}
	w.off += n
	return nil
}

func (w *writer) String() string {
	return fmt.Sprintf("writer{off:%d, cap:%d}", w.off, len(w.buf))
}
