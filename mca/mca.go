/*
 * mcedecode - Main MCA decoder: status/addr/misc -> DecodedMcaEvent.
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
	"fmt"

	"github.com/rcornwell/mcedecode/bitslice"
	"github.com/rcornwell/mcedecode/internal/trace"
)

// Input bundles everything Decode needs for one bank event.
type Input struct {
	ID        uint64
	Timestamp string
	CPU       int
	Bank      int

	Capability          Capability
	ProcessorSignature  string
	Status              uint64
	Addr                uint64
	Misc                uint64

	// ErrorControlBit1 models the synthetic MSR_ERROR_CONTROL[1] bit the
	// platform cannot expose directly (spec design note): true keeps
	// the iMC 1stErrDev/2ndErrDev/FailRank fields enabled on Sandy
	// Bridge-family banks. Callers default this to true.
	ErrorControlBit1 bool
}

// Decode turns one input tuple into a DecodedMcaEvent. It never panics
// on malformed input; unrecognized sub-codes and mismatches are
// recorded as warnings and decoding continues wherever possible.
func Decode(in Input) *DecodedMcaEvent {
	event := &DecodedMcaEvent{
		ID:        in.ID,
		Timestamp: in.Timestamp,
		CPU:       in.CPU,
		Bank:      in.Bank,
		Status:    in.Status,
		Misc:      in.Misc,
		Addr:      in.Addr,
	}

	val := bitslice.MustBit64(in.Status, 63)
	if val == 0 {
		event.warn(WarnStatusNotValid, "status[63]=0, decoding stopped")
		return event
	}
	event.Valid.VAL = 1
	event.Valid.OVER = int(bitslice.MustBit64(in.Status, 62))
	event.Valid.UC = int(bitslice.MustBit64(in.Status, 61))
	event.Valid.EN = int(bitslice.MustBit64(in.Status, 60))
	event.Valid.MISCV = int(bitslice.MustBit64(in.Status, 59))
	event.Valid.ADDRV = int(bitslice.MustBit64(in.Status, 58))
	event.Valid.PCC = int(bitslice.MustBit64(in.Status, 57))
	event.Decoded = true

	cap := in.Capability

	var s, ar int
	if cap.TesPresent {
		if cap.SerPresent {
			s = int(bitslice.MustBit64(in.Status, 56))
			ar = int(bitslice.MustBit64(in.Status, 55))
		}
		if event.Valid.UC == 0 {
			thresh := bitslice.MustRead64(in.Status, 54, 53)
			event.ReservedOtherInformation = append(event.ReservedOtherInformation,
				KV{"Threshold-Based Error Status", threshName(thresh)})
		}
	}
	if cap.CmciPresent && event.Valid.UC == 0 {
		if bitslice.MustBit64(in.Status, 52) == 0 {
			count := bitslice.MustRead64(in.Status, 51, 38)
			event.ReservedOtherInformation = append(event.ReservedOtherInformation,
				KV{"Corrected Error Count", int(count)})
		} else {
			event.ReservedOtherInformation = append(event.ReservedOtherInformation,
				KV{"Corrected Error Count", "Overflow"})
		}
	}
	if cap.EmcPresent {
		fw := bitslice.MustBit64(in.Status, 37)
		event.ReservedOtherInformation = append(event.ReservedOtherInformation,
			KV{"Firmware Updated Error Status Indicator", fw != 0})
	}

	// MCA error code grammar.
	code16 := uint16(in.Status & 0xFFFF)
	ec, fields, ok := ClassifyErrorCode(code16)
	if !ok {
		event.MCAErr = MCAError{Type: ErrUnknown, Code: code16}
		event.warn(WarnMCACodeNotIdentified, fmt.Sprintf("status[15:0]=%#04x", code16))
	} else {
		event.MCAErr = MCAError{Type: ec, Code: code16}
		decodeErrorMeaning(event, ec, fields)
	}
	trace.Tracef(trace.Grammar, "bank=%d code=%#04x matched=%v type=%q", event.Bank, code16, ok, ec)

	// UCR classification, generic 5-bit pattern (§4.4.4).
	if cap.SerPresent {
		classifyUCR(event, s, ar)
	}

	// Architectural SRAO/SRAR overrides (§4.4.6) run before F-bit
	// interpretation, per design note.
	if cap.SerPresent && ok {
		applyArchitecturalOverride(event, ec, fields, s, ar)
	}

	// Correction Report Filtering: only meaningful for compound codes
	// with UC=0, and only when not already classified SRAR/SRAO.
	if ok && isCompoundCode(ec) && event.Valid.UC == 0 &&
		event.UCRClass != UCRSRAR && event.UCRClass != UCRSRAO {
		event.MCAErr.HasCorrectionReportFilter = true
		if fields.FBit == 1 {
			event.MCAErr.CorrectionReportFiltering = "corrected"
		} else {
			event.MCAErr.CorrectionReportFiltering = "uncorrected"
		}
	}

	// IA32_MCi_MISC (§4.4.7).
	if event.Valid.MISCV == 1 && cap.SerPresent {
		mode := bitslice.MustRead64(in.Misc, 8, 6)
		event.AddressMode = addressModeName(mode)
		event.HasAddressMode = true

		lsb := int(bitslice.MustRead64(in.Misc, 5, 0))
		event.RecoverableAddressLSB = lsb
		event.HasRecoverableAddrLSB = true

		if event.Valid.ADDRV == 1 && lsb > 0 {
			mask := ^uint64(0)
			if lsb < 64 {
				mask = ^((uint64(1) << uint(lsb)) - 1)
			} else {
				mask = 0
			}
			event.AddressValid = in.Addr & mask
			event.HasAddressValid = true
		}
	}
	if event.Valid.ADDRV == 1 && ok && ec == ErrMemoryControllerErrors {
		base := in.Addr
		if event.HasAddressValid {
			base = event.AddressValid
		}
		gib := float64(base) / float64(uint64(1)<<30)
		event.AddressGiB = fmt.Sprintf("%.2f", gib)
		event.HasAddressGiB = true
	}

	// Family-specific incremental decoding (§4.4.8).
	errCtl1 := in.ErrorControlBit1
	Dispatch(event, in.ProcessorSignature, cap, errCtl1)

	return event
}

func isCompoundCode(ec ErrorCode) bool {
	switch ec {
	case ErrGenericCacheHierarchy, ErrTLBErrors, ErrMemoryControllerErrors,
		ErrCacheHierarchyErrors, ErrBusAndInterconnectErrors:
		return true
	}
	return false
}

func threshName(v uint64) string {
	switch v {
	case 0:
		return "No tracking"
	case 1:
		return "Green"
	case 2:
		return "Yellow"
	default:
		return "Reserved"
	}
}

func addressModeName(v uint64) string {
	switch v {
	case 0:
		return "Segment Offset"
	case 1:
		return "Linear"
	case 2:
		return "Physical"
	case 3:
		return "Memory"
	case 7:
		return "Generic"
	default:
		return "Reserved"
	}
}

func llMeaning(v int) string {
	switch v {
	case 0:
		return "Level 0"
	case 1:
		return "Level 1"
	case 2:
		return "Level 2"
	case 3:
		return "Generic"
	}
	return "Reserved"
}

func ttMeaning(v int) (string, bool) {
	switch v {
	case 0:
		return "Instruction", true
	case 1:
		return "Data", true
	case 2:
		return "Generic", true
	}
	return "Reserved", false
}

// decodeErrorMeaning fills in the Interpretation/Meaning text for the
// matched error code, warning on unrecognized sub-fields along the way.
func decodeErrorMeaning(event *DecodedMcaEvent, ec ErrorCode, f CompoundFields) {
	event.MCAErr.Interpretation = string(ec)

	switch ec {
	case ErrGenericCacheHierarchy:
		event.MCAErr.Meaning = "Generic Cache Hierarchy / " + llMeaning(f.LL)

	case ErrTLBErrors:
		tt, ttOK := ttMeaning(f.TT)
		if !ttOK {
			event.warn(WarnTransactionTypeNotFound, fmt.Sprintf("TT=%d", f.TT))
		}
		event.MCAErr.Meaning = "TLB Errors / " + tt + " / " + llMeaning(f.LL)

	case ErrMemoryControllerErrors:
		event.MCAErr.Meaning = "Memory Controller Errors / " + mmmName(f.MMM) + " / " + channelName(f.CCCC)

	case ErrCacheHierarchyErrors:
		req, reqOK := rrrrName(f.RRRR)
		if !reqOK {
			event.warn(WarnRequestNotIdentified, fmt.Sprintf("RRRR=%d", f.RRRR))
		}
		tt, ttOK := ttMeaning(f.TT)
		if !ttOK {
			event.warn(WarnTransactionTypeNotFound, fmt.Sprintf("TT=%d", f.TT))
		}
		event.MCAErr.Meaning = "Cache Hierarchy Errors / " + req + " / " + tt + " / " + llMeaning(f.LL)

	case ErrBusAndInterconnectErrors:
		req, reqOK := rrrrName(f.RRRR)
		if !reqOK {
			event.warn(WarnRequestNotIdentified, fmt.Sprintf("RRRR=%d", f.RRRR))
		}
		event.MCAErr.Meaning = "Bus and Interconnect Errors / " + ppName(f.PP) + " / " + tName(f.T) +
			" / " + req + " / " + iiName(f.II) + " / " + llMeaning(f.LL)

	default:
		event.MCAErr.Meaning = string(ec)
	}
}

// classifyUCR applies the generic 5-bit UC|EN|PCC|S|AR pattern table of
// spec §4.4.4.
func classifyUCR(event *DecodedMcaEvent, s, ar int) {
	uc, en, pcc := event.Valid.UC, event.Valid.EN, event.Valid.PCC

	switch {
	case uc == 1 && en == 1 && pcc == 1:
		event.UCRClass = UCRUC
	case uc == 1 && en == 1 && pcc == 0 && s == 1 && ar == 1:
		event.UCRClass = UCRSRAR
	case uc == 1 && en == 1 && pcc == 0 && s == 1 && ar == 0:
		event.UCRClass = UCRSRAO
	case uc == 1 && pcc == 0 && s == 0 && ar == 0:
		event.UCRClass = UCRSRAOUCNA
	case uc == 0:
		event.UCRClass = UCRCE
	default:
		event.UCRClass = UCRNone
		event.warn(WarnUCRNotIdentified, fmt.Sprintf("UC=%d EN=%d PCC=%d S=%d AR=%d", uc, en, pcc, s, ar))
	}
}

// applyArchitecturalOverride implements the three fixed SRAO/SRAR
// overrides of spec §4.4.6, which replace the generic classification
// and meaning text under specific validity+subfield patterns.
func applyArchitecturalOverride(event *DecodedMcaEvent, ec ErrorCode, f CompoundFields, s, ar int) {
	v := event.Valid

	scrubPattern := v.OVER == 0 && v.UC == 1 && v.MISCV == 1 && v.ADDRV == 1 && v.PCC == 0 && ar == 0

	if scrubPattern && ec == ErrMemoryControllerErrors && f.MMM == 4 {
		event.MCAErr.Meaning = "Architecturally Defined SRAO Errors / Memory Scrubbing / " + channelName(f.CCCC)
		event.UCRClass = UCRSRAO
		trace.Tracef(trace.Override, "bank=%d override=memory-scrubbing -> SRAO", event.Bank)
		checkPhysicalAddressMode(event)
		return
	}

	if scrubPattern && ec == ErrCacheHierarchyErrors && f.RRRR == 7 && f.TT == 2 && f.LL == 2 {
		event.MCAErr.Meaning = "Architecturally Defined SRAO Errors / L3 Explicit Writeback"
		event.UCRClass = UCRSRAO
		trace.Tracef(trace.Override, "bank=%d override=l3-explicit-writeback -> SRAO", event.Bank)
		checkPhysicalAddressMode(event)
		return
	}

	srarPattern := v.OVER == 0 && v.UC == 1 && v.EN == 1 && v.MISCV == 1 && v.ADDRV == 1 &&
		v.PCC == 0 && s == 1 && ar == 1
	if srarPattern && ec == ErrCacheHierarchyErrors {
		switch {
		case f.RRRR == 3 && f.TT == 1 && f.LL == 0:
			event.MCAErr.Meaning = "Architecturally Defined SRAR Errors / Data Load"
			event.UCRClass = UCRSRAR
			trace.Tracef(trace.Override, "bank=%d override=data-load -> SRAR", event.Bank)
			checkPhysicalAddressMode(event)
		case f.RRRR == 5 && f.TT == 0 && f.LL == 0:
			event.MCAErr.Meaning = "Architecturally Defined SRAR Errors / Instruction Fetch"
			event.UCRClass = UCRSRAR
			trace.Tracef(trace.Override, "bank=%d override=instruction-fetch -> SRAR", event.Bank)
			checkPhysicalAddressMode(event)
		}
	}
}

// checkPhysicalAddressMode reads the address mode straight from
// misc[8:6]: the overrides run before Decode's IA32_MCi_MISC step sets
// event.AddressMode, and every override pattern requires MISCV=1.
func checkPhysicalAddressMode(event *DecodedMcaEvent) {
	if addressModeName(bitslice.MustRead64(event.Misc, 8, 6)) != "Physical" {
		event.warn(WarnPhysicalAddressExpected, "address_mode is not Physical Address for SRAO/SRAR override")
	}
}
