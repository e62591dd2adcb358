/*
 * mcedecode - CPUID decoder tests.
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

package cpuid

import "testing"

// TestProcessorSignatureScenario2 is spec §8 scenario 2.
func TestProcessorSignatureScenario2(t *testing.T) {
	info, err := Decode(Leaves{
		Leaf01:     Leaf{EAX: 0x000006F6},
		HaveLeaf01: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ProcessorSignature != "06_0FH" {
		t.Errorf("ProcessorSignature = %q, want %q", info.ProcessorSignature, "06_0FH")
	}
}

func TestProcessorSignatureDependsOnlyOnEAX(t *testing.T) {
	// spec §8: "processor-signature determinism" -- same EAX, varying
	// EBX/ECX/EDX must not change the signature.
	base := Leaf{EAX: 0x000306F2}
	variants := []Leaf{
		{EAX: base.EAX, EBX: 0, ECX: 0, EDX: 0},
		{EAX: base.EAX, EBX: 0xFFFFFFFF, ECX: 0xFFFFFFFF, EDX: 0xFFFFFFFF},
		{EAX: base.EAX, EBX: 0x12345678, ECX: 0x1, EDX: 0x20000000},
	}
	var first string
	for i, v := range variants {
		info, err := Decode(Leaves{Leaf01: v, HaveLeaf01: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if i == 0 {
			first = info.ProcessorSignature
		} else if info.ProcessorSignature != first {
			t.Errorf("signature changed with EBX/ECX/EDX: %q != %q", info.ProcessorSignature, first)
		}
	}
}

func TestMissingLeavesLeaveSubrecordsUnset(t *testing.T) {
	info, err := Decode(Leaves{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.HaveVersion || info.HaveFeatures || info.HaveMaxExtended || info.HaveExtended || info.HaveAddresses {
		t.Errorf("expected all sub-records unset, got %+v", info)
	}
}

func TestHTTValidity(t *testing.T) {
	// EDX bit 28 (HTT) clear -> MaxAddressableValid false.
	info, err := Decode(Leaves{
		Leaf01:     Leaf{EAX: 0x000306F2, EBX: 0x00040800, EDX: 0x0},
		HaveLeaf01: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Features.MaxAddressableValid {
		t.Errorf("expected MaxAddressableValid=false when HTT=0")
	}

	info, err = Decode(Leaves{
		Leaf01:     Leaf{EAX: 0x000306F2, EBX: 0x00040800, EDX: 0x10000000},
		HaveLeaf01: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.Features.MaxAddressableValid {
		t.Errorf("expected MaxAddressableValid=true when HTT=1")
	}
}

func TestBrandIndexEAXOverride(t *testing.T) {
	info, err := Decode(Leaves{
		Leaf01:     Leaf{EAX: 0x000006B1, EBX: 0x0000000B},
		HaveLeaf01: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Features.BrandIndexName != "Intel(R) Xeon(R) processor MP" {
		t.Errorf("brand override not applied, got %q", info.Features.BrandIndexName)
	}

	// Same brand index, different EAX: must fall back to the generic table.
	info, err = Decode(Leaves{
		Leaf01:     Leaf{EAX: 0x00010676, EBX: 0x0000000B},
		HaveLeaf01: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Features.BrandIndexName != "Intel(R) Xeon(R) processor" {
		t.Errorf("expected generic table entry, got %q", info.Features.BrandIndexName)
	}
}

func TestAddressSizes(t *testing.T) {
	info, err := Decode(Leaves{
		Leaf80000008: Leaf{EAX: 0x00003028},
		Have80000008: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Addresses.PhysicalAddressBits != 0x28 {
		t.Errorf("PhysicalAddressBits = %d, want 40", info.Addresses.PhysicalAddressBits)
	}
	if info.Addresses.LinearAddressBits != 0x30 {
		t.Errorf("LinearAddressBits = %d, want 48", info.Addresses.LinearAddressBits)
	}
}
