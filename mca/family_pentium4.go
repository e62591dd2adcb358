/*
 * mcedecode - Pentium 4 family (0F_xxH) bank decode.
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

package mca

import "github.com/rcornwell/mcedecode/bitslice"

// pentium4Bank4Errors is 0F_06H bank 4's own internal-error code table
// (spec §4.4.8). The bus/cache hierarchy handler is registered against
// the whole 0F family; this table is registered only for 0F_06H bank 4,
// where the exact-signature entry takes precedence over the family one.
var pentium4Bank4Errors = []string{
	0x00: "No Error",
	0x01: "FSB Address Parity Error",
	0x02: "Response Hard Failure",
	0x03: "Response Parity Error",
	0x04: "Internal Timeout",
	0x05: "Internal Unclassified Error",
}

func pentium4BusCacheHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	switch event.MCAErr.Type {
	case ErrBusAndInterconnectErrors:
		busQueueHandler(event, cap, errCtl1)
	case ErrCacheHierarchyErrors:
		// Pentium 4 reports L2/L3 cache errors with a simplified
		// two-state correctable/uncorrectable split rather than the
		// full RRRR/TT/LL triple.
		state := "Correctable"
		if event.Valid.UC == 1 {
			state = "Uncorrectable"
		}
		event.MCAErr.Meaning = "Cache Hierarchy / " + state
		event.ModelSpecificErrors = []KV{{"Cache Error State", state}}
	}
}

func pentium4Bank4Handler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	code := int(bitslice.MustRead64(event.Status, 4, 0))
	name, ok := codeName(event, pentium4Bank4Errors, code, "internal")
	if !ok {
		return
	}
	event.MCAErr.Type = ErrInternalUnclassified
	event.MCAErr.Meaning = "Internal / " + name
	event.ModelSpecificErrors = []KV{{"Internal Error", name}}
}

func init() {
	for bank := 0; bank <= 4; bank++ {
		registerFamily("0F", bank, pentium4BusCacheHandler)
	}
	register("0F_06H", 4, pentium4Bank4Handler)
}
