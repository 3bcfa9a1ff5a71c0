// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package varint implements the unsigned and zig-zag signed LEB128 variable
// length integer encoding used by the o5m binary format.
package varint

import (
	"errors"
	"io"

	"golang.org/x/exp/constraints"
)

// maxBytes is the most bytes a 64-bit varint can occupy: ceil(64/7) = 10.
const maxBytes = 10

// ErrTruncatedInput is returned when the stream ends before a varint's
// terminal byte is read.
var ErrTruncatedInput = errors.New("varint: truncated input")

// ErrOverflow is returned when more than maxBytes are consumed without a
// terminal byte.
var ErrOverflow = errors.New("varint: overflow, read more than 10 bytes")

// WriteUnsigned appends the unsigned LEB128 encoding of x to dst and
// returns the extended slice.
func WriteUnsigned(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}

	return append(dst, byte(x))
}

// WriteSigned appends the zig-zag signed LEB128 encoding of x to dst.
func WriteSigned(dst []byte, x int64) []byte {
	return WriteUnsigned(dst, zigzagEncode(x))
}

// ReadUnsigned reads an unsigned LEB128 varint from r.
func ReadUnsigned(r io.ByteReader) (uint64, error) {
	var result uint64

	for i := 0; i < maxBytes; i++ {
		b, err := r.ReadByte()
		if err == io.EOF {
			return 0, ErrTruncatedInput
		} else if err != nil {
			return 0, err
		}

		result |= uint64(b&0x7f) << (7 * uint(i))

		if b&0x80 == 0 {
			return result, nil
		}
	}

	return 0, ErrOverflow
}

// ReadSigned reads a zig-zag signed LEB128 varint from r.
func ReadSigned(r io.ByteReader) (int64, error) {
	u, err := ReadUnsigned(r)
	if err != nil {
		return 0, err
	}

	return zigzagDecode(u), nil
}

func zigzagEncode(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// ApplyDelta updates the accumulator pointed to by state by adding value,
// mirroring the o5m convention of delta-coding successive ids, timestamps,
// and coordinates against a running per-field total, and returns the new
// total. Shared by every o5m delta-coded field kind regardless of its
// underlying signed integer type.
func ApplyDelta[T constraints.Signed](state *T, delta T) T {
	*state += delta

	return *state
}

// DeltaOf returns the delta between value and the accumulator pointed to by
// state, then updates the accumulator to value. Used by writers, the
// inverse of ApplyDelta used by readers.
func DeltaOf[T constraints.Signed](state *T, value T) T {
	delta := value - *state
	*state = value

	return delta
}
