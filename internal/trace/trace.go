/*
 * mcedecode - Verbose decode tracing.
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

// Package trace gives mca a mask-gated verbose trace, the same shape as
// the teacher's per-subsystem Debugf helpers: a category name, a bit
// mask of enabled categories, and a printf-style sink. Disabled by
// default so decoding stays silent unless the caller opts in.
package trace

import (
	"fmt"
	"io"
	"os"
)

// Categories of trace output a caller may enable.
const (
	Dispatch = 1 << iota // family-specific table dispatch decisions
	Grammar              // MCA error-code grammar matching
	Override             // SRAO/SRAR architectural override checks
)

var (
	mask int
	out  io.Writer = os.Stderr
)

// Enable turns on the given trace categories (OR of the category
// constants above).
func Enable(categories int) {
	mask |= categories
}

// Disable turns off the given trace categories.
func Disable(categories int) {
	mask &^= categories
}

// SetOutput redirects trace text; nil restores stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// Tracef writes a trace line if category is enabled.
func Tracef(category int, format string, a ...interface{}) {
	if mask&category == 0 {
		return
	}
	fmt.Fprintf(out, format+"\n", a...)
}
