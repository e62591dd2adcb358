/*
 * mcedecode - MCA error code grammar (status[15:0]), spec §4.4.5.
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

// CompoundFields holds the sub-field values extracted from a compound
// MCA error code, per spec §4.4.5's table. Only the fields relevant to
// the matched Code are meaningful; the rest are zero.
type CompoundFields struct {
	LL   int // memory hierarchy level
	TT   int // transaction type
	MMM  int // memory transaction
	CCCC int // channel (Memory Controller Errors)
	RRRR int // request (Cache Hierarchy / Bus-Interconnect)
	PP   int // participating processor (Bus-Interconnect)
	T    int // timeout flag (Bus-Interconnect)
	II   int // memory/IO (Bus-Interconnect)
	FBit int // status[12], Correction Report Filtering raw bit
}

var (
	ttNames   = []string{"I", "D", "G", "Reserved"}
	llNames   = []string{"L0", "L1", "L2", "LG"}
	mmmNames  = []string{"GEN", "RD", "WR", "AC", "MS", "RSVD", "RSVD", "RSVD"}
	rrrrNames = []string{"ERR", "RD", "WR", "DRD", "DWR", "IRD", "PREFETCH", "EVICT", "SNOOP"}
	ppNames   = []string{"SRC", "RES", "OBS", "GEN"}
	tNames    = []string{"NOTIMEOUT", "TIMEOUT"}
	iiNames   = []string{"M", "RSVD", "IO", "OTR"}
)

func ttName(v int) string {
	if v >= 0 && v < len(ttNames) {
		return ttNames[v]
	}
	return "Reserved"
}

func llName(v int) string {
	if v >= 0 && v < len(llNames) {
		return llNames[v]
	}
	return "Reserved"
}

func mmmName(v int) string {
	if v >= 0 && v < len(mmmNames) {
		return mmmNames[v]
	}
	return "Reserved"
}

func rrrrName(v int) (string, bool) {
	if v >= 0 && v < len(rrrrNames) {
		return rrrrNames[v], true
	}
	return "Reserved", false
}

func ppName(v int) string {
	if v >= 0 && v < len(ppNames) {
		return ppNames[v]
	}
	return "Reserved"
}

func tName(v int) string {
	if v >= 0 && v < len(tNames) {
		return tNames[v]
	}
	return "Reserved"
}

func iiName(v int) string {
	if v >= 0 && v < len(iiNames) {
		return iiNames[v]
	}
	return "Reserved"
}

// classifySimple recognizes the exact-match and Internal Unclassified
// codes of spec §4.4.5. Returns ok=false if code is not a simple code.
func classifySimple(code uint16) (ErrorCode, bool) {
	switch code {
	case 0x0000:
		return ErrNoError, true
	case 0x0001:
		return ErrUnclassified, true
	case 0x0002:
		return ErrMicrocodeROMParity, true
	case 0x0003:
		return ErrExternal, true
	case 0x0004:
		return ErrFRC, true
	case 0x0005:
		return ErrInternalParity, true
	case 0x0006:
		return ErrSMMHandlerViolation, true
	case 0x0400:
		return ErrInternalTimer, true
	case 0x0E0B:
		return ErrIO, true
	}
	// 000001xxxxxxxxxx with at least one 1 in [9:0].
	if code&0xFC00 == 0x0400 && code&0x03FF != 0 {
		return ErrInternalUnclassified, true
	}
	return "", false
}

// classifyCompound recognizes the five bitmask-pattern codes of spec
// §4.4.5. Returns ok=false if code matches none of them.
func classifyCompound(code uint16) (ErrorCode, CompoundFields, bool) {
	f := CompoundFields{FBit: int((code >> 12) & 0x1)}

	switch {
	case code&0xEFFC == 0x000C:
		// 000F 0000 0000 11LL
		f.LL = int(code & 0x3)
		return ErrGenericCacheHierarchy, f, true

	case code&0xEFF0 == 0x0010:
		// 000F 0000 0001 TTLL
		f.TT = int((code >> 2) & 0x3)
		f.LL = int(code & 0x3)
		return ErrTLBErrors, f, true

	case code&0xEF80 == 0x0080:
		// 000F 0000 1MMM CCCC
		f.MMM = int((code >> 4) & 0x7)
		f.CCCC = int(code & 0xF)
		return ErrMemoryControllerErrors, f, true

	case code&0xEF00 == 0x0100:
		// 000F 0001 RRRR TTLL
		f.RRRR = int((code >> 4) & 0xF)
		f.TT = int((code >> 2) & 0x3)
		f.LL = int(code & 0x3)
		return ErrCacheHierarchyErrors, f, true

	case code&0xE800 == 0x0800:
		// 000F 1PPT RRRR IILL
		f.PP = int((code >> 9) & 0x3)
		f.T = int((code >> 8) & 0x1)
		f.RRRR = int((code >> 4) & 0xF)
		f.II = int((code >> 2) & 0x3)
		f.LL = int(code & 0x3)
		return ErrBusAndInterconnectErrors, f, true
	}

	return "", CompoundFields{}, false
}

// ClassifyErrorCode matches status[15:0] against the full grammar of
// spec §4.4.5: the simple exact-match/Internal-Unclassified codes take
// priority, falling back to the five compound bitmask patterns. Some
// compound bit patterns overlap simple codes (e.g. 0x0E0B, the I/O
// Error code, also satisfies the Bus and Interconnect Errors mask), so
// callers must always go through this function rather than calling
// classifySimple/classifyCompound directly.
func ClassifyErrorCode(code uint16) (ErrorCode, CompoundFields, bool) {
	if ec, ok := classifySimple(code); ok {
		return ec, CompoundFields{}, true
	}
	return classifyCompound(code)
}

// channelName renders CCCC the way spec §4.4.5 describes: "value 15
// means channel not specified".
func channelName(cccc int) string {
	if cccc == 15 {
		return "channel not specified"
	}
	return "channel " + itoa(cccc)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
