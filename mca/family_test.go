/*
 * mcedecode - Family-specific dispatch tests.
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

func TestDispatchUnrecognizedLeavesGenericDecode(t *testing.T) {
	event := Decode(Input{
		Bank:               2,
		ProcessorSignature: "0A_00H",
		Status:             (uint64(1) << 63) | 0x0001,
	})
	if event.IncrementalDecoded {
		t.Errorf("unrecognized (signature, bank) must not set IncrementalDecoded")
	}
}

func TestDispatchCore2Bank6(t *testing.T) {
	event := Decode(Input{
		Bank:               6,
		ProcessorSignature: "06_1DH",
		Status:             (uint64(1) << 63) | 0x02,
	})
	if !event.IncrementalDecoded {
		t.Fatalf("expected IncrementalDecoded=true for 06_1DH bank 6")
	}
	if len(event.ModelSpecificErrors) == 0 {
		t.Errorf("expected ModelSpecificErrors to be populated")
	}
}

func TestDispatchNehalemIMC(t *testing.T) {
	status := (uint64(1) << 63) | (uint64(3) << 20) | (uint64(1) << 22)
	event := Decode(Input{
		Bank:               8,
		ProcessorSignature: "06_1AH",
		Status:             status,
	})
	if !event.IncrementalDecoded {
		t.Fatalf("expected IncrementalDecoded=true for 06_1AH bank 8")
	}
	found := false
	for _, kv := range event.ModelSpecificErrors {
		if kv.Name == "Channel" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Channel entry in ModelSpecificErrors, got %+v", event.ModelSpecificErrors)
	}
}

func TestDispatchSkylakeInterconnectRequiresExactCode(t *testing.T) {
	// Code 0x000D is neither 0x0C0F nor 0x0E0F -> handler declines, IncrementalDecoded still true
	// (Dispatch sets it once the handler runs) but ModelSpecificErrors stays empty.
	event := Decode(Input{
		Bank:               5,
		ProcessorSignature: "06_55H",
		Status:             (uint64(1) << 63) | 0x000D, // Generic Cache Hierarchy, not 0x0C0F/0x0E0F
	})
	if len(event.ModelSpecificErrors) != 0 {
		t.Errorf("handler should decline when code isn't 0x0C0F/0x0E0F, got %+v", event.ModelSpecificErrors)
	}
}

func TestDispatchPentium4FamilyWildcard(t *testing.T) {
	// 0F_13H has no exact registration, but falls back to the 0F family
	// bus/cache-hierarchy wildcard.
	event := Decode(Input{
		Bank:               0,
		ProcessorSignature: "0F_13H",
		Status:             (uint64(1) << 63) | 0x000D, // Generic Cache Hierarchy: the handler leaves it unchanged
	})
	_ = event // dispatch runs regardless of whether a specific field matched
	if !event.IncrementalDecoded {
		t.Fatalf("expected 0F family wildcard to apply for bank 0")
	}
}

func TestDispatchPentium4Bank4ExactOverridesWildcard(t *testing.T) {
	event := Decode(Input{
		Bank:               4,
		ProcessorSignature: "0F_06H",
		Status:             (uint64(1) << 63) | 0x01,
	})
	if !event.IncrementalDecoded {
		t.Fatalf("expected IncrementalDecoded=true for 0F_06H bank 4")
	}
	if event.MCAErr.Type != ErrInternalUnclassified {
		t.Errorf("MCAErr.Type = %q, want Internal Unclassified (0F_06H bank4 override)", event.MCAErr.Type)
	}
}
