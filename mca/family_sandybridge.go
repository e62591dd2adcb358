/*
 * mcedecode - Sandy Bridge (06_2DH) bank decode: internal, QPI, iMC.
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

import (
	"fmt"

	"github.com/rcornwell/mcedecode/bitslice"
)

// sandyBridgeInternalDim1/2 are the two independent axes of the
// two-dimensional internal error code on bank 4 (spec §4.4.8).
var sandyBridgeInternalDim1 = []string{
	0x00: "No Error",
	0x01: "PCU Internal Error",
	0x02: "Power-Management Internal Error",
	0x03: "Internal Timeout",
}

var sandyBridgeInternalDim2 = []string{
	0x00: "Generic",
	0x01: "VID Mismatch",
	0x02: "Thermal Sensor Error",
	0x03: "DMI Link Error",
}

var sandyBridgeIMCErrors = []string{
	0x00: "No Error",
	0x01: "Address Parity Error",
	0x02: "HA Write Data Parity Error",
	0x03: "HA Write Byte Enable Parity Error",
	0x04: "Corrected Patrol Scrub Error",
	0x05: "Uncorrected Patrol Scrub Error",
	0x06: "Corrected Spare Error",
}

func sandyBridgeInternalHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	d1 := int(bitslice.MustRead64(event.Status, 17, 16))
	d2 := int(bitslice.MustRead64(event.Status, 21, 20))
	n1, ok1 := codeName(event, sandyBridgeInternalDim1, d1, "internal dimension 1")
	n2, ok2 := codeName(event, sandyBridgeInternalDim2, d2, "internal dimension 2")
	if !ok1 || !ok2 {
		return
	}
	event.MCAErr.Type = ErrInternalUnclassified
	event.MCAErr.Meaning = fmt.Sprintf("Internal (PCU) / %s / %s", n1, n2)
	event.ModelSpecificErrors = []KV{
		{"Internal Error Dimension 1", n1},
		{"Internal Error Dimension 2", n2},
	}
}

func sandyBridgeIMCHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	code := int(bitslice.MustRead64(event.Status, 6, 0))
	name, ok := codeName(event, sandyBridgeIMCErrors, code, "iMC")
	if !ok {
		return
	}
	event.MCAErr.Meaning = "Memory Controller (iMC) / " + name
	kvs := []KV{{"iMC Error", name}}

	if errCtl1 {
		dev1 := bitslice.MustRead64(event.Misc, 39, 32)
		dev2 := bitslice.MustRead64(event.Misc, 47, 40)
		failRank := bitslice.MustRead64(event.Misc, 51, 48)
		kvs = append(kvs,
			KV{"1stErrDev", int(dev1)},
			KV{"2ndErrDev", int(dev2)},
			KV{"FailRank", int(failRank)},
		)
	}
	event.ModelSpecificErrors = kvs
}

func init() {
	register("06_2DH", 4, sandyBridgeInternalHandler)
	register("06_2DH", 6, nehalemQPIHandler)
	register("06_2DH", 7, nehalemQPIHandler)
	register("06_2DH", 8, sandyBridgeIMCHandler)
	register("06_2DH", 11, sandyBridgeIMCHandler)
}
