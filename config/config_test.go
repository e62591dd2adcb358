/*
 * mcedecode - Decoder configuration file tests.
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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mcedecode.cfg")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.ErrorControlBit1 {
		t.Errorf("ErrorControlBit1 default should be true")
	}
	if cfg.HasMCGCap {
		t.Errorf("HasMCGCap default should be false")
	}
}

func TestLoadOverridesBoth(t *testing.T) {
	path := writeTemp(t, "# sample config\nerror_control_bit1 = false\nmcg_cap = 0x1c09\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorControlBit1 {
		t.Errorf("ErrorControlBit1 = true, want false")
	}
	if !cfg.HasMCGCap || cfg.MCGCap != 0x1c09 {
		t.Errorf("MCGCap = %#x (has=%v), want 0x1c09", cfg.MCGCap, cfg.HasMCGCap)
	}
}

func TestLoadBlankFileKeepsDefaults(t *testing.T) {
	path := writeTemp(t, "\n\n# just a comment\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load of a blank file = %+v, want %+v", cfg, Default())
	}
}

func TestLoadUnknownKeyFails(t *testing.T) {
	path := writeTemp(t, "bogus_key = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown config key")
	}
}

func TestLoadMissingEqualsFails(t *testing.T) {
	path := writeTemp(t, "error_control_bit1 false\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when '=' is missing")
	}
}
