/*
 * mcedecode - CPUID decoder.
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

// Package cpuid decodes raw CPUID leaves (01H, 80000000H, 80000001H,
// 80000008H) into the feature record spec §4.3 describes, including
// the Processor Signature string the mca decoder dispatches family
// overrides on.
package cpuid

import (
	"fmt"
	"strings"

	"github.com/rcornwell/mcedecode/bitslice"
)

// Leaf is the four 32-bit output registers of one CPUID leaf.
type Leaf struct {
	EAX, EBX, ECX, EDX uint32
}

// Leaves is the set of CPUID leaves the decoder consumes. A zero-value
// Leaf (all fields zero) is indistinguishable from "absent" at the
// value level; callers that did not query a leaf should leave the
// corresponding Have flag false.
type Leaves struct {
	Leaf01        Leaf
	HaveLeaf01    bool
	Leaf80000000  Leaf
	Have80000000  bool
	Leaf80000001  Leaf
	Have80000001  bool
	Leaf80000008  Leaf
	Have80000008  bool
}

// ProcessorType is leaf 01H EAX [13:12].
type ProcessorType int

const (
	ProcessorOriginalOEM ProcessorType = iota
	ProcessorIntelOverDrive
	ProcessorDualProcessor
	ProcessorIntelReserved
)

func (p ProcessorType) String() string {
	switch p {
	case ProcessorOriginalOEM:
		return "Original OEM"
	case ProcessorIntelOverDrive:
		return "Intel OverDrive"
	case ProcessorDualProcessor:
		return "Dual processor"
	default:
		return "Intel reserved"
	}
}

// VersionInfo is leaf 01H EAX decoded into its component fields.
type VersionInfo struct {
	SteppingID       int
	ModelID          int
	FamilyID         int
	ProcessorType    ProcessorType
	ExtendedModelID  int
	ExtendedFamilyID int
}

// FeatureInfo is leaf 01H EBX/ECX/EDX decoded.
type FeatureInfo struct {
	BrandIndex          int
	BrandIndexName      string
	CflushLineSize      int // count of 8-byte units
	MaxAddressableIDs   int
	MaxAddressableValid bool // depends on EDX.HTT
	InitialAPICID       int

	ECXFeatures map[string]bool
	EDXFeatures map[string]bool
}

// ExtendedFeatureInfo is leaf 80000001H ECX/EDX decoded.
type ExtendedFeatureInfo struct {
	LahfSahf    bool // ECX[0]
	Lzcnt       bool // ECX[5]
	PrefetchW   bool // ECX[8]
	SyscallSysret bool // EDX[11]
	ExecuteDisable bool // EDX[20], "XD"
	GbPage      bool // EDX[26]
	RdtscpTscAux bool // EDX[27]
	Intel64     bool // EDX[29]
}

// AddressSizes is leaf 80000008H EAX decoded.
type AddressSizes struct {
	PhysicalAddressBits int // [7:0]
	LinearAddressBits   int // [15:8]
}

// Info is the full decoded CPUID record.
type Info struct {
	Version VersionInfo
	HaveVersion bool

	Features FeatureInfo
	HaveFeatures bool

	MaxExtendedFunction uint32 // leaf 80000000H EAX, 8-digit hex value
	HaveMaxExtended     bool

	Extended     ExtendedFeatureInfo
	HaveExtended bool

	Addresses     AddressSizes
	HaveAddresses bool

	ProcessorSignature string
}

// Decode builds an Info from the supplied leaves. Any leaf the caller
// did not supply (Have* false) leaves the corresponding sub-record
// unset; Decode never returns an error for missing leaves (spec §4.3:
// "no exception is raised").
func Decode(l Leaves) (Info, error) {
	var info Info

	if l.HaveLeaf01 {
		version, err := decodeVersion(l.Leaf01.EAX)
		if err != nil {
			return Info{}, err
		}
		info.Version = version
		info.HaveVersion = true

		features, err := decodeFeatures(l.Leaf01)
		if err != nil {
			return Info{}, err
		}
		info.Features = features
		info.HaveFeatures = true

		info.ProcessorSignature = processorSignature(version)
	}

	if l.Have80000000 {
		info.MaxExtendedFunction = l.Leaf80000000.EAX
		info.HaveMaxExtended = true
	}

	if l.Have80000001 {
		ext, err := decodeExtendedFeatures(l.Leaf80000001)
		if err != nil {
			return Info{}, err
		}
		info.Extended = ext
		info.HaveExtended = true
	}

	if l.Have80000008 {
		addr, err := decodeAddressSizes(l.Leaf80000008.EAX)
		if err != nil {
			return Info{}, err
		}
		info.Addresses = addr
		info.HaveAddresses = true
	}

	return info, nil
}

func decodeVersion(eax uint32) (VersionInfo, error) {
	stepping, err := bitslice.Read32(eax, 3, 0)
	if err != nil {
		return VersionInfo{}, err
	}
	model, err := bitslice.Read32(eax, 7, 4)
	if err != nil {
		return VersionInfo{}, err
	}
	family, err := bitslice.Read32(eax, 11, 8)
	if err != nil {
		return VersionInfo{}, err
	}
	ptype, err := bitslice.Read32(eax, 13, 12)
	if err != nil {
		return VersionInfo{}, err
	}
	extModel, err := bitslice.Read32(eax, 19, 16)
	if err != nil {
		return VersionInfo{}, err
	}
	extFamily, err := bitslice.Read32(eax, 27, 20)
	if err != nil {
		return VersionInfo{}, err
	}

	return VersionInfo{
		SteppingID:       int(stepping),
		ModelID:          int(model),
		FamilyID:         int(family),
		ProcessorType:    ProcessorType(ptype),
		ExtendedModelID:  int(extModel),
		ExtendedFamilyID: int(extFamily),
	}, nil
}

// DisplayFamily implements spec §4.3's DisplayFamily rule.
func (v VersionInfo) DisplayFamily() int {
	if v.FamilyID != 0x0F {
		return v.FamilyID
	}
	return (v.ExtendedFamilyID << 4) + v.FamilyID
}

// DisplayModel implements spec §4.3's DisplayModel rule.
func (v VersionInfo) DisplayModel() int {
	if v.FamilyID == 0x06 || v.FamilyID == 0x0F {
		return (v.ExtendedModelID << 4) | v.ModelID
	}
	return v.ModelID
}

// processorSignature renders "FF_MMH". Both DisplayFamily and
// DisplayModel are rendered as hex, minimum width two digits (natural
// width is never forced wider than the value needs, but is never
// narrower than two) — this is the convention every worked signature
// in spec §4.4.8's family table follows (06_01H, 06_1AH, 0F_06H, ...),
// and matches concrete scenario 2 (EAX=0x000006F6 -> "06_0FH") even
// though §3's prose about "without leading zero" reads more loosely;
// the table and the worked scenario are taken as ground truth. See
// DESIGN.md.
func processorSignature(v VersionInfo) string {
	family := strings.ToUpper(fmt.Sprintf("%02x", v.DisplayFamily()))
	model := strings.ToUpper(fmt.Sprintf("%02x", v.DisplayModel()))
	return fmt.Sprintf("%s_%sH", family, model)
}
