/*
 * mcedecode - P6-family (06_01H..06_0EH) bus/interconnect bank decode.
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

// busQueueRequestTypes is the 6-bit bus-queue request-type table shared
// by the single-bank P6-family signatures (06_01H through 06_0EH).
var busQueueRequestTypes = []string{
	0x00: "BQ_DCU_READ_TYPE",
	0x01: "BQ_IFU_DEMAND_TYPE",
	0x02: "BQ_IFU_DEMAND_NOEXEC_TYPE",
	0x03: "BQ_DCU_RFO_TYPE",
	0x04: "BQ_DCU_RFO_LOCK_TYPE",
	0x05: "BQ_DCU_ITOM_TYPE",
	0x06: "BQ_WB_TYPE",
	0x07: "BQ_DCU_WCEVICT_TYPE",
	0x08: "BQ_DCU_WCLINE_TYPE",
	0x09: "BQ_DCU_BTM_TYPE",
	0x0A: "BQ_DCU_INTACK_TYPE",
	0x0B: "BQ_DCU_INVALL2_TYPE",
	0x0C: "BQ_DCU_FLUSHL2_TYPE",
	0x0D: "BQ_DCU_PART_RDS_TYPE",
	0x0E: "BQ_DCU_PART_WRS_TYPE",
	0x0F: "BQ_DCU_SPEC_CYC_TYPE",
	0x10: "BQ_DCU_IO_RD_TYPE",
	0x11: "BQ_DCU_IO_WR_TYPE",
	0x12: "BQ_DCU_LOCK_RD_TYPE",
	0x13: "BQ_DCU_SPLOCK_RD_TYPE",
	0x14: "BQ_DCU_LOCK_WR_TYPE",
}

// busQueueErrorTypes is the 3-bit bus-queue error-type table.
var busQueueErrorTypes = []string{
	0x00: "BQ Parity Error",
	0x01: "Response Hard Fail Error",
	0x02: "Response Parity Error",
	0x03: "Bus BINIT",
	0x04: "Timeout BINIT",
	0x05: "Hard Error",
	0x06: "IERR",
	0x07: "AERR",
}

func busQueueHandler(event *DecodedMcaEvent, cap Capability, errCtl1 bool) {
	status := event.Status

	if event.MCAErr.Type != ErrBusAndInterconnectErrors {
		return
	}

	reqType := int(bitslice.MustRead64(status, 21, 16))
	errType := int(bitslice.MustRead64(status, 24, 22))
	reqName, ok := codeName(event, busQueueRequestTypes, reqType, "bus-queue request type")
	if !ok {
		reqName = "Reserved"
	}
	errName, ok := codeName(event, busQueueErrorTypes, errType, "bus-queue error type")
	if !ok {
		errName = "Reserved"
	}

	event.MCAErr.Meaning = "Bus/Interconnect / " + reqName + " / " + errName

	event.ModelSpecificErrors = []KV{
		{"Bus Queue Request Type", reqName},
		{"Bus Queue Error Type", errName},
		{"External BINIT", bitslice.MustBit64(status, 26) != 0},
		{"Response Parity Error", bitslice.MustBit64(status, 27) != 0},
		{"Bus BINIT", bitslice.MustBit64(status, 28) != 0},
		{"Timeout BINIT", bitslice.MustBit64(status, 29) != 0},
		{"Hard Error", bitslice.MustBit64(status, 30) != 0},
		{"IERR", bitslice.MustBit64(status, 31) != 0},
		{"AERR", bitslice.MustBit64(status, 32) != 0},
		// Spec design note §9: the source reuses this field name twice;
		// both keys are preserved here rather than silently merged.
		{"UECC", bitslice.MustBit64(status, 45) != 0},
		{"CECC", bitslice.MustBit64(status, 46) != 0},
		{"UECC", bitslice.MustBit64(status, 47) != 0},
	}
}

func init() {
	for _, sig := range []string{
		"06_01H", "06_03H", "06_05H", "06_07H", "06_08H",
		"06_09H", "06_0AH", "06_0BH", "06_0DH", "06_0EH",
	} {
		register(sig, 0, busQueueHandler)
	}
}
