/*
 * mcedecode - CPUID leaf 01H EBX/ECX/EDX and extended-leaf feature tables.
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

import "github.com/rcornwell/mcedecode/bitslice"

// brandIndexTable is the static 00h-17h Brand Index table (spec §4.3).
var brandIndexTable = map[int]string{
	0x00: "Brand index not supported",
	0x01: "Intel(R) Celeron(R) processor",
	0x02: "Intel(R) Pentium(R) III processor",
	0x03: "Intel(R) Pentium(R) III Xeon(R) processor",
	0x04: "Intel(R) Pentium(R) III processor",
	0x06: "Mobile Intel(R) Pentium(R) III processor-M",
	0x07: "Mobile Intel(R) Celeron(R) processor",
	0x08: "Intel(R) Pentium(R) 4 processor",
	0x09: "Intel(R) Pentium(R) 4 processor",
	0x0A: "Intel(R) Celeron(R) processor",
	0x0B: "Intel(R) Xeon(R) processor",
	0x0C: "Intel(R) Xeon(R) processor MP",
	0x0E: "Mobile Intel(R) Pentium(R) 4 processor-M",
	0x0F: "Mobile Intel(R) Celeron(R) processor",
	0x11: "Mobile Genuine Intel(R) processor",
	0x12: "Intel(R) Celeron(R) M processor",
	0x13: "Mobile Intel(R) Celeron(R) processor",
	0x14: "Intel(R) Celeron(R) processor",
	0x15: "Mobile Genuine Intel(R) processor",
	0x16: "Intel(R) Pentium(R) M processor",
	0x17: "Mobile Intel(R) Celeron(R) processor",
}

// brandIndexEAXOverride holds the three exceptions where the brand name
// depends on the exact 32-bit EAX signature rather than just
// Family/Model (spec §4.3: "override only when EAX matches exactly").
var brandIndexEAXOverride = map[uint32]map[int]string{
	0x000006B1: {
		0x0B: "Intel(R) Xeon(R) processor MP",
	},
	0x00000F13: {
		0x0B: "Intel(R) Xeon(R) processor MP",
		0x0E: "Mobile Intel(R) Celeron(R) processor",
	},
}

func brandIndexName(eax uint32, index int) string {
	if overrides, ok := brandIndexEAXOverride[eax]; ok {
		if name, ok := overrides[index]; ok {
			return name
		}
	}
	if name, ok := brandIndexTable[index]; ok {
		return name
	}
	return "Reserved"
}

// ecxFeatureBits names leaf 01H ECX feature bits (spec §4.3).
var ecxFeatureBits = []struct {
	bit  int
	name string
}{
	{0, "SSE3"},
	{1, "PCLMULQDQ"},
	{2, "DTES64"},
	{3, "MONITOR"},
	{4, "DS-CPL"},
	{5, "VMX"},
	{6, "SMX"},
	{7, "EIST"},
	{8, "TM2"},
	{9, "SSSE3"},
	{10, "CNXT-ID"},
	{11, "SDBG"},
	{12, "FMA"},
	{13, "CMPXCHG16B"},
	{14, "xTPR Update Control"},
	{15, "PDCM"},
	{17, "PCID"},
	{18, "DCA"},
	{19, "SSE4.1"},
	{20, "SSE4.2"},
	{21, "x2APIC"},
	{22, "MOVBE"},
	{23, "POPCNT"},
	{24, "TSC-Deadline"},
	{25, "AESNI"},
	{26, "XSAVE"},
	{27, "OSXSAVE"},
	{28, "AVX"},
	{29, "F16C"},
	{30, "RDRAND"},
}

// edxFeatureBits names leaf 01H EDX feature bits (spec §4.3).
var edxFeatureBits = []struct {
	bit  int
	name string
}{
	{0, "FPU"},
	{1, "VME"},
	{2, "DE"},
	{3, "PSE"},
	{4, "TSC"},
	{5, "MSR"},
	{6, "PAE"},
	{7, "MCE"},
	{8, "CX8"},
	{9, "APIC"},
	{11, "SEP"},
	{12, "MTRR"},
	{13, "PGE"},
	{14, "MCA"},
	{15, "CMOV"},
	{16, "PAT"},
	{17, "PSE-36"},
	{18, "PSN"},
	{19, "CLFSH"},
	{21, "DS"},
	{22, "ACPI"},
	{23, "MMX"},
	{24, "FXSR"},
	{25, "SSE"},
	{26, "SSE2"},
	{27, "SS"},
	{28, "HTT"},
	{29, "TM"},
	{31, "PBE"},
}

func decodeFeatures(leaf01 Leaf) (FeatureInfo, error) {
	eax, ebx, ecx, edx := leaf01.EAX, leaf01.EBX, leaf01.ECX, leaf01.EDX

	brandIndex, err := bitslice.Read32(ebx, 7, 0)
	if err != nil {
		return FeatureInfo{}, err
	}
	lineSize, err := bitslice.Read32(ebx, 15, 8)
	if err != nil {
		return FeatureInfo{}, err
	}
	maxIDs, err := bitslice.Read32(ebx, 23, 16)
	if err != nil {
		return FeatureInfo{}, err
	}
	apicID, err := bitslice.Read32(ebx, 31, 24)
	if err != nil {
		return FeatureInfo{}, err
	}
	htt, err := bitslice.Bit32(edx, 28)
	if err != nil {
		return FeatureInfo{}, err
	}

	info := FeatureInfo{
		BrandIndex:          int(brandIndex),
		BrandIndexName:      brandIndexName(eax, int(brandIndex)),
		CflushLineSize:      int(lineSize),
		MaxAddressableIDs:   int(maxIDs),
		MaxAddressableValid: htt != 0,
		InitialAPICID:       int(apicID),
		ECXFeatures:         map[string]bool{},
		EDXFeatures:         map[string]bool{},
	}

	for _, f := range ecxFeatureBits {
		v, err := bitslice.Bit32(ecx, f.bit)
		if err != nil {
			return FeatureInfo{}, err
		}
		info.ECXFeatures[f.name] = v != 0
	}
	for _, f := range edxFeatureBits {
		v, err := bitslice.Bit32(edx, f.bit)
		if err != nil {
			return FeatureInfo{}, err
		}
		info.EDXFeatures[f.name] = v != 0
	}

	return info, nil
}

// YesNo renders a feature boolean the way spec §4.3 calls for: "Yes"/"No".
func YesNo(present bool) string {
	if present {
		return "Yes"
	}
	return "No"
}

// decodeExtendedFeatures decodes leaf 80000001H ECX/EDX (spec §4.3).
func decodeExtendedFeatures(leaf Leaf) (ExtendedFeatureInfo, error) {
	bits := []struct {
		word uint32
		n    int
	}{
		{leaf.ECX, 0},  // LahfSahf
		{leaf.ECX, 5},  // Lzcnt
		{leaf.ECX, 8},  // PrefetchW
		{leaf.EDX, 11}, // SyscallSysret
		{leaf.EDX, 20}, // ExecuteDisable
		{leaf.EDX, 26}, // GbPage
		{leaf.EDX, 27}, // RdtscpTscAux
		{leaf.EDX, 29}, // Intel64
	}
	vals := make([]bool, len(bits))
	for i, b := range bits {
		v, err := bitslice.Bit32(b.word, b.n)
		if err != nil {
			return ExtendedFeatureInfo{}, err
		}
		vals[i] = v != 0
	}
	return ExtendedFeatureInfo{
		LahfSahf:       vals[0],
		Lzcnt:          vals[1],
		PrefetchW:      vals[2],
		SyscallSysret:  vals[3],
		ExecuteDisable: vals[4],
		GbPage:         vals[5],
		RdtscpTscAux:   vals[6],
		Intel64:        vals[7],
	}, nil
}

func decodeAddressSizes(eax uint32) (AddressSizes, error) {
	physBits, err := bitslice.Read32(eax, 7, 0)
	if err != nil {
		return AddressSizes{}, err
	}
	linBits, err := bitslice.Read32(eax, 15, 8)
	if err != nil {
		return AddressSizes{}, err
	}
	return AddressSizes{
		PhysicalAddressBits: int(physBits),
		LinearAddressBits:   int(linBits),
	}, nil
}
