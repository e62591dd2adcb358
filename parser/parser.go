/*
 * mcedecode - MCE kernel-log line parser.
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

// Package parser extracts timestamp/cpu/bank/status/addr/misc from one
// raw MCE kernel-log line (spec §6's log-line parser collaborator).
// Scanning is done the way the teacher's configparser walks a config
// line: whitespace-delimited tokens inspected with a cursor, not a
// regular expression.
package parser

import (
	"errors"
	"strconv"
	"strings"
)

// Fields is one parsed MCE log line.
type Fields struct {
	Timestamp string
	CPU       int
	Bank      int
	Status    uint64
	HasAddr   bool
	Addr      uint64
	HasMisc   bool
	Misc      uint64
}

// LineError reports why a line was rejected; the raw line is kept so a
// caller can log or count malformed input without re-scanning it.
type LineError struct {
	Line   string
	Reason string
}

func (e *LineError) Error() string {
	return "parser: " + e.Reason
}

var errNoMarker = "line does not contain an \"MCE:\" marker"
var errIncomplete = "line is missing cpu, bank, status, or an Addr/Misc field"

// ParseLine extracts the six fields from one MCE log line. Only lines
// matching the pattern MCE:*cpu*bank*status*[Addr|Misc]:* are accepted;
// anything else is rejected with a *LineError rather than silently
// producing a zero-value record.
func ParseLine(line string) (Fields, error) {
	if !strings.Contains(line, "MCE:") {
		return Fields{}, &LineError{Line: line, Reason: errNoMarker}
	}

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Fields{}, &LineError{Line: line, Reason: errIncomplete}
	}

	f := Fields{Timestamp: tokens[0]}
	var haveCPU, haveBank, haveStatus bool

	for _, tok := range tokens {
		if !haveCPU {
			if n, ok := matchIntToken(tok, "cpu"); ok {
				f.CPU = n
				haveCPU = true
				continue
			}
		}
		if !haveBank {
			if n, ok := matchIntToken(tok, "bank"); ok {
				f.Bank = n
				haveBank = true
				continue
			}
		}
		if !haveStatus {
			if v, ok := matchHexToken(tok, "status="); ok {
				f.Status = v
				haveStatus = true
				continue
			}
		}
		if !f.HasAddr {
			if v, ok := matchHexToken(tok, "Addr:"); ok {
				f.Addr = v
				f.HasAddr = true
				continue
			}
		}
		if !f.HasMisc {
			if v, ok := matchHexToken(tok, "Misc:"); ok {
				f.Misc = v
				f.HasMisc = true
				continue
			}
		}
	}

	if !haveCPU || !haveBank || !haveStatus || !(f.HasAddr || f.HasMisc) {
		return Fields{}, &LineError{Line: line, Reason: errIncomplete}
	}
	return f, nil
}

// matchIntToken matches a token of the exact shape "<prefix><digits>:",
// e.g. "cpu1:" or "bank3:". A token that merely starts with prefix but
// carries trailing text after the colon (the host-log "cpu2:36681)MCE:"
// style prefix in spec §8 scenario 3's sample line) is deliberately
// rejected: only the closed-form token identifies the reporting
// cpu/bank, not the log transport's own per-line prefix.
func matchIntToken(tok, prefix string) (int, bool) {
	if !strings.HasPrefix(tok, prefix) {
		return 0, false
	}
	rest := tok[len(prefix):]
	rest, ok := strings.CutSuffix(rest, ":")
	if !ok || rest == "" {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// matchHexToken matches a token starting with prefix followed by a hex
// literal ("0x..." or bare hex digits), stripping trailing punctuation
// the surrounding log text may attach (":", ",", ")").
func matchHexToken(tok, prefix string) (uint64, bool) {
	if !strings.HasPrefix(tok, prefix) {
		return 0, false
	}
	rest := tok[len(prefix):]
	rest = strings.TrimRight(rest, ":,)")
	if rest == "" {
		return 0, false
	}
	rest = strings.TrimPrefix(rest, "0x")
	rest = strings.TrimPrefix(rest, "0X")
	if rest == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(rest, 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MCGCapLine extracts the hex MCG_CAP value from a boot line of the
// form "Detected <N> MCE banks. MCG_CAP MSR:<hex>" (spec §6). Returns
// an error if no "MCG_CAP" marker or trailing hex value is found.
func MCGCapLine(line string) (uint64, error) {
	idx := strings.Index(line, "MCG_CAP")
	if idx < 0 {
		return 0, errors.New("parser: no MCG_CAP marker in line")
	}
	rest := line[idx:]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return 0, errors.New("parser: MCG_CAP marker has no trailing value")
	}
	fields := strings.Fields(rest[colon+1:])
	if len(fields) == 0 {
		return 0, errors.New("parser: MCG_CAP marker has no trailing value")
	}
	hexPart := strings.TrimPrefix(fields[0], "0x")
	v, err := strconv.ParseUint(hexPart, 16, 64)
	if err != nil {
		return 0, errors.New("parser: MCG_CAP value is not valid hex: " + err.Error())
	}
	return v, nil
}
