/*
 * mcedecode - Family-specific incremental decoding dispatch (spec §4.4.8).
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

	"github.com/rcornwell/mcedecode/internal/trace"
)

// handler mutates event in place to apply a family/bank-specific
// reinterpretation of the generic decode. errCtl1 carries the
// synthetic MSR_ERROR_CONTROL[1] override (spec §9 design note).
type handler func(event *DecodedMcaEvent, cap Capability, errCtl1 bool)

type familyKey struct {
	signature string
	bank      int
}

var registry = map[familyKey]handler{}

// familyRegistry holds handlers registered against an entire base
// family (e.g. "0F", spanning every 0F_xxH model) rather than one
// exact processor signature, for families whose spec entry (e.g.
// "0F_xxH") covers a whole model range uniformly.
var familyRegistry = map[familyKey]handler{}

// register is called from each family_*.go file's init to populate the
// (processor_signature, bank) dispatch table.
func register(signature string, bank int, h handler) {
	registry[familyKey{signature, bank}] = h
}

// registerFamily registers a handler against every model of a base
// family id (e.g. "0F"), consulted when no exact-signature entry
// matches.
func registerFamily(familyID string, bank int, h handler) {
	familyRegistry[familyKey{familyID, bank}] = h
}

// registerRange is a convenience for contiguous bank ranges (e.g. the
// iMC banks 9-16 many server families use).
func registerRange(signature string, lo, hi int, h handler) {
	for b := lo; b <= hi; b++ {
		register(signature, b, h)
	}
}

// familyPrefix extracts the family id portion of a "FF_MMH" processor
// signature (everything before the underscore).
func familyPrefix(signature string) string {
	for i := 0; i < len(signature); i++ {
		if signature[i] == '_' {
			return signature[:i]
		}
	}
	return signature
}

// Dispatch looks up a (processor_signature, bank) handler and, if
// found, lets it reinterpret the event. Falls back to a base-family
// handler (registerFamily) when no exact signature match exists.
// Unrecognized signatures/banks are left at their generic decode:
// incremental_decoded stays false.
func Dispatch(event *DecodedMcaEvent, signature string, cap Capability, errCtl1 bool) {
	if h, ok := registry[familyKey{signature, event.Bank}]; ok {
		trace.Tracef(trace.Dispatch, "signature=%s bank=%d -> exact handler", signature, event.Bank)
		h(event, cap, errCtl1)
		event.IncrementalDecoded = true
		return
	}
	if h, ok := familyRegistry[familyKey{familyPrefix(signature), event.Bank}]; ok {
		trace.Tracef(trace.Dispatch, "signature=%s bank=%d -> family %q wildcard handler",
			signature, event.Bank, familyPrefix(signature))
		h(event, cap, errCtl1)
		event.IncrementalDecoded = true
		return
	}
	trace.Tracef(trace.Dispatch, "signature=%s bank=%d -> no handler registered", signature, event.Bank)
}

// codeName looks up code in a dense, index-addressed model-specific
// code table, warning and returning false when code is out of range or
// the slot is unnamed (reserved).
func codeName(event *DecodedMcaEvent, table []string, code int, what string) (string, bool) {
	if code >= 0 && code < len(table) && table[code] != "" {
		return table[code], true
	}
	event.warn(WarnModelSubcodeNotFound, fmt.Sprintf("%s code %#x not found", what, code))
	return "", false
}
