/*
 * mcedecode - MCA error code grammar tests.
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

import "testing"

func TestClassifySimple(t *testing.T) {
	cases := []struct {
		code uint16
		want ErrorCode
		ok   bool
	}{
		{0x0000, ErrNoError, true},
		{0x0001, ErrUnclassified, true},
		{0x0002, ErrMicrocodeROMParity, true},
		{0x0003, ErrExternal, true},
		{0x0004, ErrFRC, true},
		{0x0005, ErrInternalParity, true},
		{0x0006, ErrSMMHandlerViolation, true},
		{0x0400, ErrInternalTimer, true},
		{0x0E0B, ErrIO, true},
		{0x0401, ErrInternalUnclassified, true},
		{0x07FF, ErrInternalUnclassified, true},
		// bits[9:0] all zero -> not Internal Unclassified.
		{0x0400 | 0x0000, ErrInternalTimer, true},
		{0x0007, "", false},
		{0x1234, "", false},
	}
	for _, c := range cases {
		got, ok := classifySimple(c.code)
		if ok != c.ok || got != c.want {
			t.Errorf("classifySimple(%#04x) = (%q, %v), want (%q, %v)", c.code, got, ok, c.want, c.ok)
		}
	}
}

func TestClassifyCompoundGenericCacheHierarchy(t *testing.T) {
	// 0000 0000 0000 1101 -> Generic Cache Hierarchy, LL=1.
	got, f, ok := classifyCompound(0x000D)
	if !ok || got != ErrGenericCacheHierarchy {
		t.Fatalf("classifyCompound(0x000D) = (%v, %v), want ErrGenericCacheHierarchy", got, ok)
	}
	if f.LL != 1 {
		t.Errorf("LL = %d, want 1", f.LL)
	}
}

func TestClassifyCompoundTLBErrors(t *testing.T) {
	// TT=1 (bits 3:2), LL=2 (bits 1:0) -> 0000 0000 0001 0110.
	got, f, ok := classifyCompound(0x0016)
	if !ok || got != ErrTLBErrors {
		t.Fatalf("classifyCompound(0x0016) = (%v, %v), want ErrTLBErrors", got, ok)
	}
	if f.TT != 1 || f.LL != 2 {
		t.Errorf("TT=%d LL=%d, want TT=1 LL=2", f.TT, f.LL)
	}
}

func TestClassifyCompoundMemoryControllerErrors(t *testing.T) {
	// MMM=4 (Scrubbing, bits 6:4), CCCC=15 (not specified) -> 0000 0000 1100 1111.
	got, f, ok := classifyCompound(0x00CF)
	if !ok || got != ErrMemoryControllerErrors {
		t.Fatalf("classifyCompound(0x00CF) = (%v, %v), want ErrMemoryControllerErrors", got, ok)
	}
	if f.MMM != 4 || f.CCCC != 15 {
		t.Errorf("MMM=%d CCCC=%d, want MMM=4 CCCC=15", f.MMM, f.CCCC)
	}
	if channelName(f.CCCC) != "channel not specified" {
		t.Errorf("channelName(15) = %q", channelName(f.CCCC))
	}
}

func TestClassifyCompoundCacheHierarchyErrors(t *testing.T) {
	// bank 6 scenario: status[15:0] = 0x0134 -> RRRR=3 (DRD), TT=1 (D), LL=0.
	got, f, ok := classifyCompound(0x0134)
	if !ok || got != ErrCacheHierarchyErrors {
		t.Fatalf("classifyCompound(0x0134) = (%v, %v), want ErrCacheHierarchyErrors", got, ok)
	}
	if f.RRRR != 3 {
		t.Errorf("RRRR = %d, want 3", f.RRRR)
	}
}

func TestClassifyCompoundBusAndInterconnect(t *testing.T) {
	// PP=1(RES), T=0, RRRR=1(RD), II=0(M), LL=1 -> 0000 1010 0001 0001.
	got, f, ok := classifyCompound(0x0A11)
	if !ok || got != ErrBusAndInterconnectErrors {
		t.Fatalf("classifyCompound(0x0A11) = (%v, %v), want ErrBusAndInterconnectErrors", got, ok)
	}
	if f.PP != 1 || f.T != 0 || f.RRRR != 1 || f.II != 0 || f.LL != 1 {
		t.Errorf("fields = %+v, want PP=1 T=0 RRRR=1 II=0 LL=1", f)
	}
}

func TestClassifyErrorCodeSimpleTakesPriority(t *testing.T) {
	// scenario 5 of spec worked examples: status[15:0]=0x0E0B is the
	// simple I/O Error code, even though it also happens to satisfy the
	// Bus and Interconnect Errors bitmask.
	got, _, ok := ClassifyErrorCode(0x0E0B)
	if !ok || got != ErrIO {
		t.Errorf("ClassifyErrorCode(0x0E0B) = (%v, %v), want ErrIO", got, ok)
	}
}

func TestCompoundFieldNames(t *testing.T) {
	if ttName(0) != "I" || ttName(1) != "D" || ttName(2) != "G" || ttName(3) != "Reserved" {
		t.Errorf("ttName table mismatch")
	}
	if llName(3) != "LG" {
		t.Errorf("llName(3) = %q, want LG", llName(3))
	}
	if mmmName(4) != "MS" {
		t.Errorf("mmmName(4) = %q, want MS", mmmName(4))
	}
	if name, ok := rrrrName(8); !ok || name != "SNOOP" {
		t.Errorf("rrrrName(8) = (%q, %v), want (SNOOP, true)", name, ok)
	}
	if _, ok := rrrrName(15); ok {
		t.Errorf("rrrrName(15) should not be identified")
	}
	if ppName(3) != "GEN" {
		t.Errorf("ppName(3) = %q, want GEN", ppName(3))
	}
	if tName(1) != "TIMEOUT" {
		t.Errorf("tName(1) = %q, want TIMEOUT", tName(1))
	}
	if iiName(1) != "RSVD" || iiName(3) != "OTR" {
		t.Errorf("iiName table mismatch")
	}
}
