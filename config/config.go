/*
 * mcedecode - Decoder configuration file.
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

// Package config loads the decoder's small configuration file: the
// synthetic MSR_ERROR_CONTROL[1] override and an optional MCG_CAP hex
// value for replaying logs captured without their own boot-time
// "MCG_CAP MSR:" line (spec §9 design notes). Same recursive-descent-
// over-lines shape as the teacher's config/configparser, cut down to
// the one "key = value" grammar this decoder needs.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Config is the decoder's caller-supplied, session-wide state.
type Config struct {
	// ErrorControlBit1 models MSR_ERROR_CONTROL[1]; defaults to true
	// (spec §9's design note: "a real implementation should allow
	// callers to override it, default true").
	ErrorControlBit1 bool

	// MCGCap, when HasMCGCap is set, overrides the IA32_MCG_CAP value
	// a loaded log would otherwise need its own boot-time line for.
	MCGCap    uint64
	HasMCGCap bool
}

// Default returns the configuration a decoder run starts with absent
// any config file.
func Default() Config {
	return Config{ErrorControlBit1: true}
}

var lineNumber int

// Load reads a configuration file, applying each "key = value" line
// over Default(). Unknown keys are rejected; a blank file is valid
// and returns Default() unchanged.
func Load(name string) (Config, error) {
	cfg := Default()

	file, err := os.Open(name)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	lineNumber = 0
	reader := bufio.NewReader(file)
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Config{}, err
		}
		if perr := applyLine(&cfg, raw); perr != nil {
			return Config{}, perr
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Config{}, err
		}
	}
	return cfg, nil
}

// applyLine parses one "key = value" line, '#' starts a comment that
// runs to end of line, and blank lines are ignored.
func applyLine(cfg *Config, raw string) error {
	line := configLine{line: raw}
	line.skipSpace()
	if line.isEOL() {
		return nil
	}

	key := line.scanKey()
	if key == "" {
		return fmt.Errorf("config: invalid line %d: %q", lineNumber, strings.TrimRight(raw, "\n"))
	}
	line.skipSpace()
	if line.isEOL() || line.line[line.pos] != '=' {
		return fmt.Errorf("config: line %d: %q must be followed by '= value'", lineNumber, key)
	}
	line.pos++
	line.skipSpace()
	value := line.scanValue()

	switch strings.ToLower(key) {
	case "error_control_bit1":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: line %d: error_control_bit1 must be true/false, got %q", lineNumber, value)
		}
		cfg.ErrorControlBit1 = b
	case "mcg_cap":
		v, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("config: line %d: mcg_cap must be hex, got %q", lineNumber, value)
		}
		cfg.MCGCap = v
		cfg.HasMCGCap = true
	default:
		return fmt.Errorf("config: line %d: unknown key %q", lineNumber, key)
	}
	return nil
}

// configLine is a cursor over one line of the config file, in the
// teacher's optionLine style.
type configLine struct {
	line string
	pos  int
}

func (l *configLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *configLine) isEOL() bool {
	if l.pos >= len(l.line) {
		return true
	}
	return l.line[l.pos] == '#'
}

func (l *configLine) scanKey() string {
	value := ""
	for l.pos < len(l.line) {
		by := l.line[l.pos]
		if !unicode.IsLetter(rune(by)) && !unicode.IsDigit(rune(by)) && by != '_' {
			break
		}
		value += string(by)
		l.pos++
	}
	return value
}

func (l *configLine) scanValue() string {
	value := ""
	for !l.isEOL() {
		by := l.line[l.pos]
		if unicode.IsSpace(rune(by)) {
			break
		}
		value += string(by)
		l.pos++
	}
	return value
}
