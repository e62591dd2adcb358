/*
 * mcedecode - Console command dispatch tests.
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

package console

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcornwell/mcedecode/config"
)

func TestProcessCommandSetSignatureAndShow(t *testing.T) {
	s := NewSession(config.Default())

	if quit, err := ProcessCommand("set signature 06_0FH", s); err != nil || quit {
		t.Fatalf("set signature: quit=%v err=%v", quit, err)
	}
	if s.ProcessorSignature != "06_0FH" {
		t.Errorf("ProcessorSignature = %q, want 06_0FH", s.ProcessorSignature)
	}
	if quit, err := ProcessCommand("show signature", s); err != nil || quit {
		t.Errorf("show signature: quit=%v err=%v", quit, err)
	}
}

func TestProcessCommandSetCap(t *testing.T) {
	s := NewSession(config.Default())
	if quit, err := ProcessCommand("set cap 0x1c09", s); err != nil || quit {
		t.Fatalf("set cap: quit=%v err=%v", quit, err)
	}
	if s.Capability.BankCount != 9 {
		t.Errorf("Capability.BankCount = %d, want 9", s.Capability.BankCount)
	}
}

func TestProcessCommandDecode(t *testing.T) {
	s := NewSession(config.Default())
	if quit, err := ProcessCommand("decode 0x800000000000000b", s); err != nil || quit {
		t.Fatalf("decode: quit=%v err=%v", quit, err)
	}
}

func TestProcessCommandQuit(t *testing.T) {
	s := NewSession(config.Default())
	quit, err := ProcessCommand("quit", s)
	if err != nil || !quit {
		t.Fatalf("quit: quit=%v err=%v, want quit=true err=nil", quit, err)
	}
}

func TestProcessCommandPrefixMatch(t *testing.T) {
	s := NewSession(config.Default())
	// "sh" is a unique 2-char prefix of "show" (min=2).
	if _, err := ProcessCommand("sh signature", s); err != nil {
		t.Fatalf("sh signature: %v", err)
	}
	// "s" alone is shorter than both "set" (min 3) and "show" (min 2),
	// so it matches no command -> error.
	if _, err := ProcessCommand("s signature", s); err == nil {
		t.Errorf("expected an error for a too-short command prefix")
	}
}

func TestProcessCommandUnknown(t *testing.T) {
	s := NewSession(config.Default())
	if _, err := ProcessCommand("frobnicate", s); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestSessionLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mce.log")
	contents := strings.Join([]string{
		"Detected 9 MCE banks. MCG_CAP MSR:0x1c09",
		`2017-07-07T18:25:27.441Z cpu2:36681)MCE: 190: cpu1: bank3: status=0x9020000f0120100e: ..., Addr:0x0 (invalid), Misc:0x0 (invalid)`,
		"this line is not an MCE line at all",
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := NewSession(config.Default())
	s.ProcessorSignature = "06_0FH"
	events, skipped, err := s.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0 (the non-MCE line is silently ignored, not counted)", skipped)
	}
	if s.Capability.BankCount != 9 {
		t.Errorf("Capability.BankCount = %d, want 9 (picked up from the MCG_CAP line)", s.Capability.BankCount)
	}
	if events[0].Bank != 3 {
		t.Errorf("events[0].Bank = %d, want 3", events[0].Bank)
	}
}

func TestFormatEventStatusNotValid(t *testing.T) {
	s := NewSession(config.Default())
	event := s.Decode(0, 0, 0)
	out := FormatEvent(event)
	if !strings.Contains(out, "status not valid") {
		t.Errorf("FormatEvent output = %q, want it to mention the status-not-valid warning", out)
	}
}
