/*
 * mcedecode - BitSlice primitive.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package bitslice is the shared fixed-width bit-range extraction
// primitive. The register fields read by mcgcap, cpuid and mca go
// through Read64/Read32/Bit64/Bit32 (or their Must variants); the mca
// error-code classifier, which masks the 16-bit status[15:0] value
// directly, is the exception.
package bitslice

import "fmt"

// InvalidSliceError reports a malformed [hi:lo] bit range. Spec treats
// this as an internal bug, never a data error: callers inside this
// module always pass constant, reviewed ranges, so seeing this error
// at runtime means the decoder itself has a defect.
type InvalidSliceError struct {
	Hi, Lo, Width int
}

func (e *InvalidSliceError) Error() string {
	return fmt.Sprintf("bitslice: invalid range [%d:%d] for %d-bit word", e.Hi, e.Lo, e.Width)
}

func validate(hi, lo, width int) error {
	if lo < 0 || hi >= width || hi < lo {
		return &InvalidSliceError{Hi: hi, Lo: lo, Width: width}
	}
	return nil
}

// Read64 returns bits [hi:lo] of a 64-bit word, right-justified.
func Read64(word uint64, hi, lo int) (uint64, error) {
	if err := validate(hi, lo, 64); err != nil {
		return 0, err
	}
	span := hi - lo + 1
	var mask uint64 = ^uint64(0)
	if span < 64 {
		mask = (uint64(1) << uint(span)) - 1
	}
	return (word >> uint(lo)) & mask, nil
}

// Read32 returns bits [hi:lo] of a 32-bit word, right-justified.
func Read32(word uint32, hi, lo int) (uint32, error) {
	if err := validate(hi, lo, 32); err != nil {
		return 0, err
	}
	span := hi - lo + 1
	var mask uint32 = ^uint32(0)
	if span < 32 {
		mask = (uint32(1) << uint(span)) - 1
	}
	return (word >> uint(lo)) & mask, nil
}

// Bit64 returns a single bit of a 64-bit word as 0 or 1.
func Bit64(word uint64, bit int) (uint64, error) {
	return Read64(word, bit, bit)
}

// Bit32 returns a single bit of a 32-bit word as 0 or 1.
func Bit32(word uint32, bit int) (uint32, error) {
	return Read32(word, bit, bit)
}

// MustRead64 is Read64 without the error return, for constant, reviewed
// bit ranges inside this module where an InvalidSliceError would be a
// compile-time-catchable bug, not a runtime condition. Panics rather
// than propagating a "data" error up through the decoders, consistent
// with spec §4.1: "consumers treat such failures as internal bugs".
func MustRead64(word uint64, hi, lo int) uint64 {
	v, err := Read64(word, hi, lo)
	if err != nil {
		panic(err)
	}
	return v
}

// MustBit64 is Bit64 without the error return. See MustRead64.
func MustBit64(word uint64, bit int) uint64 {
	return MustRead64(word, bit, bit)
}
