/*
 * mcedecode - Decoder warning side channel (spec §4.4.9, §7).
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

import "log/slog"

// WarningCategory is one of the stable category names spec §4.4.9 enumerates.
type WarningCategory string

const (
	WarnStatusNotValid           WarningCategory = "status not valid"
	WarnTransactionTypeNotFound  WarningCategory = "transaction type not found"
	WarnRequestNotIdentified     WarningCategory = "request could not be identified"
	WarnMCACodeNotIdentified     WarningCategory = "MCA error code could not be identified"
	WarnUCRNotIdentified         WarningCategory = "UCR error classification could not be identified"
	WarnModelSubcodeNotFound     WarningCategory = "model-specific sub-code not found"
	WarnPhysicalAddressExpected  WarningCategory = "physical-address-mode expected for SRAO/SRAR"
)

// Warning is one diagnostic attached to a DecodedMcaEvent.
type Warning struct {
	Category WarningCategory
	Detail   string
}

func (e *DecodedMcaEvent) warn(category WarningCategory, detail string) {
	e.Warnings = append(e.Warnings, Warning{Category: category, Detail: detail})
	slog.Warn(string(category),
		"detail", detail,
		"bank", e.Bank,
		"id", e.ID,
	)
}
