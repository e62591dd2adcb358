/*
 * mcedecode - Main MCA decoder tests.
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
	"strings"
	"testing"

	"github.com/rcornwell/mcedecode/mcgcap"
)

func TestDecodeValidityGating(t *testing.T) {
	event := Decode(Input{Status: 0x0})
	if event.Valid.VAL != 0 {
		t.Fatalf("VAL = %d, want 0", event.Valid.VAL)
	}
	if len(event.Warnings) != 1 || event.Warnings[0].Category != WarnStatusNotValid {
		t.Fatalf("Warnings = %+v, want single WarnStatusNotValid", event.Warnings)
	}
	if event.Decoded {
		t.Errorf("Decoded should remain false when VAL=0")
	}
	if event.MCAErr.Type != "" {
		t.Errorf("MCAErr should remain zero-value when VAL=0, got %+v", event.MCAErr)
	}
}

// TestDecodeScenario3 is spec §8 scenario 3's full worked example.
func TestDecodeScenario3(t *testing.T) {
	cap, err := mcgcap.Decode(0x1c09)
	if err != nil {
		t.Fatalf("mcgcap.Decode: %v", err)
	}
	event := Decode(Input{
		Bank:               3,
		Capability:         cap,
		ProcessorSignature: "06_0FH",
		Status:             0x9020000f0120100e,
		ErrorControlBit1:   true,
	})

	if event.Valid.VAL != 1 || event.Valid.OVER != 0 || event.Valid.UC != 0 ||
		event.Valid.EN != 1 || event.Valid.MISCV != 0 || event.Valid.ADDRV != 0 || event.Valid.PCC != 0 {
		t.Fatalf("Valid = %+v, want {VAL:1 OVER:0 UC:0 EN:1 MISCV:0 ADDRV:0 PCC:0}", event.Valid)
	}
	if event.MCAErr.Type != ErrGenericCacheHierarchy {
		t.Errorf("MCAErr.Type = %q, want Generic Cache Hierarchy", event.MCAErr.Type)
	}
	if event.MCAErr.Meaning != "Generic Cache Hierarchy / Level 2" {
		t.Errorf("MCAErr.Meaning = %q, want %q", event.MCAErr.Meaning, "Generic Cache Hierarchy / Level 2")
	}
	if event.MCAErr.CorrectionReportFiltering != "corrected" {
		t.Errorf("CorrectionReportFiltering = %q, want corrected", event.MCAErr.CorrectionReportFiltering)
	}
	foundThresh, foundCount := false, false
	for _, kv := range event.ReservedOtherInformation {
		if kv.Name == "Threshold-Based Error Status" {
			foundThresh = true
		}
		if kv.Name == "Corrected Error Count" {
			foundCount = true
		}
	}
	if !foundThresh || !foundCount {
		t.Errorf("ReservedOtherInformation = %+v, want both Threshold-Based Error Status and Corrected Error Count", event.ReservedOtherInformation)
	}
	if event.IncrementalDecoded {
		t.Errorf("IncrementalDecoded should be false: bank 3 has no 06_0FH handler")
	}
}

func TestDecodeScenario4StatusZero(t *testing.T) {
	event := Decode(Input{Status: 0x0})
	if len(event.Warnings) != 1 || event.Warnings[0].Category != WarnStatusNotValid {
		t.Fatalf("want single status-not-valid warning, got %+v", event.Warnings)
	}
}

// TestDecodeScenario5IOError is spec §8 scenario 5.
func TestDecodeScenario5IOError(t *testing.T) {
	event := Decode(Input{Status: (uint64(1) << 63) | 0x0E0B})
	if event.MCAErr.Type != ErrIO {
		t.Errorf("MCAErr.Type = %q, want I/O Error", event.MCAErr.Type)
	}
}

// TestDecodeScenario6MemoryControllerMisc is spec §8 scenario 6.
func TestDecodeScenario6MemoryControllerMisc(t *testing.T) {
	cap, _ := mcgcap.Decode(0x1c09 | (1 << 24)) // ser_p=1
	// status[15:0] = 0x0093 -> Memory Controller Errors, MMM=1(RD), CCCC=3.
	status := (uint64(1) << 63) | (uint64(1) << 59) /* MISCV */ | (uint64(1) << 58) /* ADDRV */ | 0x0093
	misc := (uint64(2) << 6) | 6 // address mode = Physical(010), LSB=6
	addr := uint64(0x123456789)

	event := Decode(Input{
		Capability:         cap,
		ProcessorSignature: "06_0FH",
		Status:             status,
		Misc:               misc,
		Addr:               addr,
	})

	if !event.HasRecoverableAddrLSB || event.RecoverableAddressLSB != 6 {
		t.Fatalf("RecoverableAddressLSB = %d (has=%v), want 6", event.RecoverableAddressLSB, event.HasRecoverableAddrLSB)
	}
	wantValid := addr &^ uint64(0x3F)
	if !event.HasAddressValid || event.AddressValid != wantValid {
		t.Fatalf("AddressValid = %#x (has=%v), want %#x", event.AddressValid, event.HasAddressValid, wantValid)
	}
	if !event.HasAddressGiB {
		t.Fatalf("AddressGiB should be present for Memory Controller Errors with ADDRV=1")
	}
	if !strings.Contains(event.AddressGiB, ".") {
		t.Errorf("AddressGiB = %q, want a 2-decimal formatted value", event.AddressGiB)
	}
}

func TestSRAOSRARGating(t *testing.T) {
	// Construct the Memory Scrubbing SRAO override pattern and confirm
	// address_mode=Physical avoids the warning.
	cap, _ := mcgcap.Decode((1 << 24) | (1 << 11)) // ser_p=1, tes_p=1
	status := (uint64(1) << 63) | (uint64(1) << 61) /* UC */ | (uint64(1) << 59) /* MISCV */ |
		(uint64(1) << 58) /* ADDRV */ | 0x00CF // Memory Controller Errors, MMM=MS(4), CCCC=15
	misc := uint64(2) << 6 // Physical

	event := Decode(Input{
		Capability:         cap,
		ProcessorSignature: "06_2DH",
		Status:             status,
		Misc:               misc,
	})

	if event.UCRClass != UCRSRAO {
		t.Fatalf("UCRClass = %q, want SRAO", event.UCRClass)
	}
	for _, w := range event.Warnings {
		if w.Category == WarnPhysicalAddressExpected {
			t.Errorf("unexpected physical-address warning: %+v", w)
		}
	}
	if event.MCAErr.HasCorrectionReportFilter {
		t.Errorf("architectural SRAO override must not carry a correction_report_filtering value")
	}
}

func TestAddressGiBPresenceProperty(t *testing.T) {
	// ADDRV=0 -> Address_GiB absent even for Memory Controller Errors.
	event := Decode(Input{Status: (uint64(1) << 63) | 0x0093})
	if event.HasAddressGiB {
		t.Errorf("Address_GiB must be absent when ADDRV=0")
	}

	// Non-Memory-Controller code with ADDRV=1 -> still absent.
	event = Decode(Input{Status: (uint64(1) << 63) | (uint64(1) << 58) | 0x000D})
	if event.HasAddressGiB {
		t.Errorf("Address_GiB must be absent for non-Memory-Controller codes")
	}
}
