/*
 * mcedecode - IA32_MCG_CAP decoder.
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

// Package mcgcap decodes the IA32_MCG_CAP MSR (spec §4.2) into the
// capability flags the mca decoder needs to know which architectural
// status fields are present in IA32_MCi_STATUS.
package mcgcap

import "github.com/rcornwell/mcedecode/bitslice"

// Capability is the decoded IA32_MCG_CAP record.
type Capability struct {
	BankCount int // [7:0]

	CtlPresent  bool // [8]  MCG_CTL_P
	ExtPresent  bool // [9]  MCG_EXT_P
	CmciPresent bool // [10] MCG_CMCI_P
	TesPresent  bool // [11] MCG_TES_P
	SerPresent  bool // [24] MCG_SER_P
	EmcPresent  bool // [25] MCG_EMC_P (EMC, extended machine check)
	ElogPresent bool // [26] MCG_ELOG_P
	LmcePresent bool // [27] MCG_LMCE_P

	ExtCnt    int  // [23:16], meaningful only when ExtPresent
	HasExtCnt bool
}

// Decode extracts a Capability from a raw IA32_MCG_CAP value. Reserved
// bits are ignored; decoding a value with unknown reserved bits set
// never fails (spec §4.2).
func Decode(word uint64) (Capability, error) {
	bankCount, err := bitslice.Read64(word, 7, 0)
	if err != nil {
		return Capability{}, err
	}

	mcg := Capability{BankCount: int(bankCount)}

	if mcg.CtlPresent, err = bit(word, 8); err != nil {
		return Capability{}, err
	}
	if mcg.ExtPresent, err = bit(word, 9); err != nil {
		return Capability{}, err
	}
	if mcg.CmciPresent, err = bit(word, 10); err != nil {
		return Capability{}, err
	}
	if mcg.TesPresent, err = bit(word, 11); err != nil {
		return Capability{}, err
	}
	if mcg.SerPresent, err = bit(word, 24); err != nil {
		return Capability{}, err
	}
	if mcg.EmcPresent, err = bit(word, 25); err != nil {
		return Capability{}, err
	}
	if mcg.ElogPresent, err = bit(word, 26); err != nil {
		return Capability{}, err
	}
	if mcg.LmcePresent, err = bit(word, 27); err != nil {
		return Capability{}, err
	}

	if mcg.ExtPresent {
		extCnt, err := bitslice.Read64(word, 23, 16)
		if err != nil {
			return Capability{}, err
		}
		mcg.ExtCnt = int(extCnt)
		mcg.HasExtCnt = true
	}

	return mcg, nil
}

func bit(word uint64, n int) (bool, error) {
	v, err := bitslice.Bit64(word, n)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Encode rebuilds an MCG_CAP value from the fields Decode understands:
// bits [11:0], [27:24], and [23:16] when HasExtCnt is set. The reserved
// bits [15:12] are not recorded in Capability and come back as zero, as
// do [23:16] when ExtPresent is clear and bits 28-63, so a value with
// any of those bits set does not round-trip exactly.
func (c Capability) Encode() uint64 {
	var word uint64
	word |= uint64(c.BankCount) & 0xFF
	if c.CtlPresent {
		word |= 1 << 8
	}
	if c.ExtPresent {
		word |= 1 << 9
	}
	if c.CmciPresent {
		word |= 1 << 10
	}
	if c.TesPresent {
		word |= 1 << 11
	}
	if c.HasExtCnt {
		word |= (uint64(c.ExtCnt) & 0xFF) << 16
	}
	if c.SerPresent {
		word |= 1 << 24
	}
	if c.EmcPresent {
		word |= 1 << 25
	}
	if c.ElogPresent {
		word |= 1 << 26
	}
	if c.LmcePresent {
		word |= 1 << 27
	}
	return word
}
