/*
 * mcedecode - Nehalem (06_1AH) bank decode: QPI, internal, memory controller.
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

var nehalemQPIErrors = []string{
	0x00: "QPI Physical Layer CRC Error",
	0x01: "QPI Link Retry Error",
	0x02: "QPI Link Failover",
	0x03: "QPI Routing Error",
	0x04: "QPI Protocol Error",
	0x05: "QPI Poison Received",
}

var nehalemInternalErrors = []string{
	0x00: "No Error",
	0x01: "Internal Timer Error",
	0x02: "Internal Uncorrectable Error",
	0x03: "Internal PLL Unlock",
	0x04: "Internal Cache Parity Error",
	0x05: "Internal Unclassified Error",
	0x06: "Internal RTID Error",
}

func nehalemQPIHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	code := int(bitslice.MustRead64(event.Status, 20, 16))
	name, ok := codeName(event, nehalemQPIErrors, code, "QPI")
	if !ok {
		return
	}
	event.MCAErr.Meaning = "QPI / " + name
	event.ModelSpecificErrors = []KV{{"QPI Error", name}}
}

func nehalemInternalHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	code := int(bitslice.MustRead64(event.Status, 6, 0))
	name, ok := codeName(event, nehalemInternalErrors, code, "internal")
	if !ok {
		return
	}
	event.MCAErr.Type = ErrInternalUnclassified
	event.MCAErr.Meaning = "Internal / " + name
	event.ModelSpecificErrors = []KV{{"Internal Error", name}}
}

func nehalemIMCHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	status := event.Status
	rtid := bitslice.MustRead64(status, 19, 16)
	dimm := bitslice.MustRead64(status, 21, 20)
	channel := bitslice.MustRead64(status, 23, 22)
	syndrome := bitslice.MustRead64(event.Misc, 31, 16)
	coreErrCnt := bitslice.MustRead64(status, 52, 38)

	event.ModelSpecificErrors = []KV{
		{"RTId", int(rtid)},
		{"DIMM", int(dimm)},
		{"Channel", int(channel)},
		{"Syndrome", syndrome},
	}
	event.ReservedOtherInformation = append(event.ReservedOtherInformation,
		KV{"CORE_ERR_CNT", int(coreErrCnt)})
	event.MCAErr.Meaning = "Memory Controller (iMC) / " + channelName(int(channel))
}

func init() {
	register("06_1AH", 0, nehalemQPIHandler)
	register("06_1AH", 1, nehalemQPIHandler)
	register("06_1AH", 7, nehalemInternalHandler)
	register("06_1AH", 8, nehalemIMCHandler)
}
