/*
 * mcedecode - Decoded MCA event record types.
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

// Package mca is the main subsystem (spec §4.4): it turns one
// (capability, processor signature, bank, status, addr, misc) tuple
// into a DecodedMcaEvent. It is the only package that knows about the
// MCA error-code grammar and the family-specific override tables.
package mca

import "github.com/rcornwell/mcedecode/mcgcap"

// UCRClass is the Uncorrected Recoverable classification (spec §4.4.4).
type UCRClass string

const (
	UCRNone      UCRClass = ""
	UCRCE        UCRClass = "CE"
	UCRUC        UCRClass = "UC"
	UCRSRAR      UCRClass = "SRAR"
	UCRSRAO      UCRClass = "SRAO"
	UCRSRAOUCNA  UCRClass = "SRAO/UCNA"
)

// ErrorCode identifies which branch of the MCA error code grammar
// (spec §4.4.5) a status word matched.
type ErrorCode string

const (
	ErrNoError                       ErrorCode = "No Error"
	ErrUnclassified                  ErrorCode = "Unclassified"
	ErrMicrocodeROMParity            ErrorCode = "Microcode ROM Parity Error"
	ErrExternal                      ErrorCode = "External Error"
	ErrFRC                           ErrorCode = "FRC Error"
	ErrInternalParity                ErrorCode = "Internal Parity Error"
	ErrSMMHandlerViolation           ErrorCode = "SMM Handler Code Access Violation"
	ErrInternalTimer                 ErrorCode = "Internal Timer Error"
	ErrIO                            ErrorCode = "I/O Error"
	ErrInternalUnclassified          ErrorCode = "Internal Unclassified"
	ErrGenericCacheHierarchy         ErrorCode = "Generic Cache Hierarchy"
	ErrTLBErrors                     ErrorCode = "TLB Errors"
	ErrMemoryControllerErrors        ErrorCode = "Memory Controller Errors"
	ErrCacheHierarchyErrors          ErrorCode = "Cache Hierarchy Errors"
	ErrBusAndInterconnectErrors      ErrorCode = "Bus and Interconnect Errors"
	ErrUnknown                       ErrorCode = "Unknown"
)

// KV is one entry of an ordered name->value mapping. DecodedMcaEvent
// uses slices of KV rather than maps for ModelSpecificErrors and
// ReservedOtherInformation so that iteration order (and therefore
// textual rendering) is deterministic and matches decode order, per
// spec §9's note to model these two sections as ordered maps.
type KV struct {
	Name  string
	Value interface{}
}

// Validity is the VAL/OVER/UC/EN/MISCV/ADDRV/PCC block (spec §4.4.2).
type Validity struct {
	VAL   int
	OVER  int
	UC    int
	EN    int
	MISCV int
	ADDRV int
	PCC   int
}

// MCAError is the {type, code, interpretation, meaning,
// correction_report_filtering} block (spec data model).
type MCAError struct {
	Type                       ErrorCode
	Code                       uint16
	Interpretation             string
	Meaning                    string
	CorrectionReportFiltering  string // "corrected", "uncorrected", or "" if not applicable
	HasCorrectionReportFilter  bool
}

// DecodedMcaEvent is the full decoded record (spec §3 Data Model).
type DecodedMcaEvent struct {
	ID        uint64
	Timestamp string
	CPU       int
	Bank      int

	Status uint64
	Misc   uint64
	Addr   uint64

	Valid Validity

	// Populated only when Valid.VAL == 1.
	Decoded bool

	MCAErr MCAError

	ModelSpecificErrors       []KV
	ReservedOtherInformation  []KV

	UCRClass UCRClass

	HasAddressMode         bool
	AddressMode            string
	HasRecoverableAddrLSB  bool
	RecoverableAddressLSB  int
	HasAddressValid        bool
	AddressValid           uint64
	HasAddressGiB          bool
	AddressGiB             string

	IncrementalDecoded bool

	Warnings []Warning
}

// Capability is re-exported so callers only need to import mcgcap for
// construction, not for the field names mca itself cares about.
type Capability = mcgcap.Capability
