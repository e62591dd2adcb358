/*
 * mcedecode - Xeon server family bank decode: Ivy Bridge-EP, Haswell-E,
 * Broadwell D/E5, Skylake-SP, Goldmont (spec §4.4.8).
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

var ivyBridgeIMCErrors = []string{
	0x00: "No Error",
	0x01: "Address Parity Error",
	0x02: "HA Write Data Parity Error",
	0x03: "HA Write Byte Enable Parity Error",
	0x04: "Corrected Patrol Scrub Error",
	0x05: "Uncorrected Patrol Scrub Error",
	0x06: "Corrected Spare Error",
	0x07: "Uncorrected Spare Error",
	0x08: "Corrected Memory Read Error",
}

var haswellInternalErrors = []string{
	0x00: "No Error",
	0x01: "PCU Internal Error",
	0x02: "Power-Management Internal Error",
	0x03: "VR Hot Alert",
}

var haswellQPIErrors = []string{
	0x00: "QPI Physical Layer CRC Error",
	0x01: "QPI Link Retry Error",
	0x02: "QPI Link Failover",
	0x03: "QPI Routing Error",
	0x04: "QPI Protocol Error",
	0x05: "QPI Poison Received",
	0x06: "QPI Livelock",
	0x07: "QPI Link Init Error",
	0x08: "QPI Physical Layer Detected Error",
	0x09: "QPI Clock Jitter",
	0x0A: "QPI Unsupported Message",
	0x0B: "QPI Unexpected Response",
}

var haswellDDRIMCErrors = []string{
	0x00: "No Error",
	0x01: "Address Parity Error",
	0x02: "HA Write Data Parity Error",
	0x03: "HA Write Byte Enable Parity Error",
	0x04: "Corrected Patrol Scrub Error",
	0x05: "Uncorrected Patrol Scrub Error",
	0x06: "Corrected Spare Error",
	0x07: "Uncorrected Spare Error",
	0x08: "DDR4 Command/Address Parity Error",
	0x09: "DDR4 Write Data CRC Error",
}

var broadwellDIMCErrors = []string{
	0x00: "No Error",
	0x01: "Address Parity Error",
	0x02: "HA Write Data Parity Error",
	0x03: "HA Write Byte Enable Parity Error",
	0x04: "Corrected Patrol Scrub Error",
	0x05: "Uncorrected Patrol Scrub Error",
	0x06: "Corrected Spare Error",
}

var homeAgentErrors = []string{
	0x00: "No Error",
	0x01: "Failover",
	0x02: "Mirrorcorr",
}

var skylakeInternalErrors = []string{
	0x00: "No Error",
	0x01: "PCU Internal Error",
	0x02: "Power-Management Internal Error",
	0x03: "VR Hot Alert",
}

var skylakeIMCErrors = []string{
	0x00: "No Error",
	0x01: "Address Parity Error",
	0x02: "HA Write Data Parity Error",
	0x03: "HA Write Byte Enable Parity Error",
	0x04: "Corrected Patrol Scrub Error",
	0x05: "Uncorrected Patrol Scrub Error",
	0x06: "Corrected Spare Error",
	0x07: "Uncorrected Spare Error",
	0x08: "DDR4 Command/Address Parity Error",
	0x09: "DDR4 Write Data CRC Error",
	0x0A: "Corrected Memory Read Error",
	0x0B: "Uncorrected Memory Read Error",
	0x0C: "RPQ/WPQ Parity Error",
	0x0D: "DIMM ECC Error",
}

var goldmontIMCErrors = []string{
	0x00: "No Error",
	0x01: "Address Parity Error",
	0x02: "HA Write Data Parity Error",
	0x03: "Corrected Patrol Scrub Error",
	0x04: "Uncorrected Patrol Scrub Error",
}

func makeIMCHandler(table []string) handler {
	return func(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
		code := int(bitslice.MustRead64(event.Status, 6, 0))
		name, ok := codeName(event, table, code, "iMC")
		if !ok {
			return
		}
		event.MCAErr.Meaning = "Memory Controller (iMC) / " + name
		event.ModelSpecificErrors = []KV{{"iMC Error", name}}
	}
}

func makeInternalHandler(table []string) handler {
	return func(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
		code := int(bitslice.MustRead64(event.Status, 6, 0))
		name, ok := codeName(event, table, code, "internal")
		if !ok {
			return
		}
		event.MCAErr.Type = ErrInternalUnclassified
		event.MCAErr.Meaning = "Internal (PCU) / " + name
		event.ModelSpecificErrors = []KV{{"Internal Error", name}}
	}
}

func makeQPIHandler(table []string) handler {
	return func(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
		code := int(bitslice.MustRead64(event.Status, 20, 16))
		name, ok := codeName(event, table, code, "QPI")
		if !ok {
			return
		}
		event.MCAErr.Meaning = "QPI / " + name
		event.ModelSpecificErrors = []KV{{"QPI Error", name}}
	}
}

func homeAgentHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	code := int(bitslice.MustRead64(event.Status, 4, 0))
	name, ok := codeName(event, homeAgentErrors, code, "Home Agent")
	if !ok {
		return
	}
	event.MCAErr.Meaning = "Home Agent / " + name
	event.ModelSpecificErrors = []KV{{"Home Agent Error", name}}
}

// skylakeInterconnectHandler requires an exact compound-code match of
// 0x0C0F or 0x0E0F, per spec §4.4.8's note on banks 5/12/19.
func skylakeInterconnectHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	if event.MCAErr.Code != 0x0C0F && event.MCAErr.Code != 0x0E0F {
		return
	}
	event.MCAErr.Meaning = "Interconnect (UPI) Error"
	event.ModelSpecificErrors = []KV{{"UPI Error Code", int(event.MCAErr.Code)}}
}

func init() {
	register("06_3EH", 4, makeInternalHandler(haswellInternalErrors))
	registerRange("06_3EH", 9, 16, makeIMCHandler(ivyBridgeIMCErrors))

	register("06_3FH", 4, makeInternalHandler(haswellInternalErrors))
	register("06_3FH", 5, makeQPIHandler(haswellQPIErrors))
	register("06_3FH", 20, makeQPIHandler(haswellQPIErrors))
	register("06_3FH", 21, makeQPIHandler(haswellQPIErrors))
	registerRange("06_3FH", 9, 16, makeIMCHandler(haswellDDRIMCErrors))

	register("06_56H", 4, makeInternalHandler(haswellInternalErrors))
	register("06_56H", 9, makeIMCHandler(broadwellDIMCErrors))
	register("06_56H", 10, makeIMCHandler(broadwellDIMCErrors))

	registerRange("06_4FH", 9, 16, makeIMCHandler(ivyBridgeIMCErrors))
	register("06_4FH", 7, homeAgentHandler)
	register("06_4FH", 8, homeAgentHandler)

	register("06_55H", 4, makeInternalHandler(skylakeInternalErrors))
	register("06_55H", 5, skylakeInterconnectHandler)
	register("06_55H", 12, skylakeInterconnectHandler)
	register("06_55H", 19, skylakeInterconnectHandler)
	registerRange("06_55H", 13, 16, makeIMCHandler(skylakeIMCErrors))
	register("06_55H", 7, homeAgentHandler)
	register("06_55H", 8, homeAgentHandler)

	register("06_5FH", 6, makeIMCHandler(goldmontIMCErrors))
	register("06_5FH", 7, makeIMCHandler(goldmontIMCErrors))
}
