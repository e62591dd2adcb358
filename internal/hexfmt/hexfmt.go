/*
 * mcedecode - Hex and binary text rendering helpers.
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

// Package hexfmt renders fixed-width unsigned integers as hex or binary
// text, table-lookup style rather than via fmt verbs, matching the rest
// of the decoder's avoidance of reflection-based formatting on hot paths.
package hexfmt

import "strings"

var hexMap = "0123456789abcdef"

// Word64 renders a 64-bit value as 16 hex digits, no "0x" prefix.
func Word64(word uint64) string {
	var b strings.Builder
	b.Grow(16)
	for shift := 60; shift >= 0; shift -= 4 {
		b.WriteByte(hexMap[(word>>uint(shift))&0xf])
	}
	return b.String()
}

// Word32 renders a 32-bit value as 8 hex digits, no "0x" prefix.
func Word32(word uint32) string {
	var b strings.Builder
	b.Grow(8)
	for shift := 28; shift >= 0; shift -= 4 {
		b.WriteByte(hexMap[(word>>uint(shift))&0xf])
	}
	return b.String()
}

// Prefixed0x renders word as "0x" followed by Word64, with leading
// zero digits trimmed (but at least one digit kept).
func Prefixed0x(word uint64) string {
	s := Word64(word)
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return "0x" + s[i:]
}

// Binary renders the low `width` bits of word as a string of '0'/'1'
// characters, most significant bit first. This is BitSlice's "textual
// binary representation" (spec §4.1).
func Binary(word uint64, width int) string {
	var b strings.Builder
	b.Grow(width)
	for i := width - 1; i >= 0; i-- {
		if (word>>uint(i))&1 != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
