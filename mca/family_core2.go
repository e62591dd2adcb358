/*
 * mcedecode - Core 2 family (06_0FH, 06_17H, 06_1DH) bank decode.
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

// bank6InternalBusErrors is 06_1DH bank 6's 21-entry model-specific
// error-code table (spec §4.4.8): Inclusion, Write Exclusive, Timeout,
// and ECC events observed on outgoing core data.
var bank6InternalBusErrors = []string{
	0x00: "No Error",
	0x01: "Inclusion Error, Core 0",
	0x02: "Inclusion Error, Core 1",
	0x03: "Write Exclusive Error, Core 0",
	0x04: "Write Exclusive Error, Core 1",
	0x05: "Bus Timeout, Core 0 Request",
	0x06: "Bus Timeout, Core 1 Request",
	0x07: "Bus Timeout, Snoop Response",
	0x08: "ECC Error, Outgoing Core 0 Data",
	0x09: "ECC Error, Outgoing Core 1 Data",
	0x0A: "ECC Error, L3 Victim Data",
	0x0B: "ECC Error, L3 Fill Data",
	0x0C: "Parity Error, Core 0 Address",
	0x0D: "Parity Error, Core 1 Address",
	0x0E: "Parity Error, Snoop Address",
	0x0F: "Parity Error, L3 Tag",
	0x10: "Multi-bit ECC Error, Outgoing Core 0 Data",
	0x11: "Multi-bit ECC Error, Outgoing Core 1 Data",
	0x12: "Multi-bit ECC Error, L3 Victim Data",
	0x13: "Multi-bit ECC Error, L3 Fill Data",
	0x14: "Unclassified Internal Bus Error",
}

func core2BankHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	switch {
	case event.Bank == 6:
		code := int(bitslice.MustRead64(event.Status, 4, 0))
		name, ok := codeName(event, bank6InternalBusErrors, code, "internal/bus")
		if !ok {
			return
		}
		event.MCAErr.Type = ErrInternalParity
		event.MCAErr.Meaning = "Internal/Bus Error / " + name
		event.ModelSpecificErrors = []KV{
			{"Internal/Bus Error Code", name},
		}

	default:
		if event.MCAErr.Type != ErrBusAndInterconnectErrors {
			return
		}
		busQueueHandler(event, cap, errCtl1)
	}
}

func init() {
	for _, sig := range []string{"06_0FH", "06_17H", "06_1DH"} {
		register(sig, 0, core2BankHandler)
	}
	register("06_1DH", 6, core2BankHandler)
}
