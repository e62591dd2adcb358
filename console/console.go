/*
 * mcedecode - Interactive decode console.
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

// Package console is the interactive REPL around the decoder, in the
// shape of the teacher's command/reader.ConsoleReader plus
// command/parser's prefix-matched command table: a liner.Liner for
// history and tab completion, dispatching to a small set of verbs.
//
// Unlike the core decoder, a Session does hold state across calls
// (the current capability and processor-signature context) — that is
// the ambient CLI's job, not a violation of the decoder's own
// stateless-per-event contract: every decode still builds and decodes
// one event independently.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/peterh/liner"

	"github.com/rcornwell/mcedecode/config"
	"github.com/rcornwell/mcedecode/internal/hexfmt"
	"github.com/rcornwell/mcedecode/mca"
	"github.com/rcornwell/mcedecode/mcgcap"
	"github.com/rcornwell/mcedecode/parser"
)

// Session is the console's working context: the capability and
// processor-signature a bare "decode" or "load" call decodes against,
// plus a monotonically increasing event id (spec §5's ascending id
// ordering invariant).
type Session struct {
	Capability         mca.Capability
	ProcessorSignature string
	ErrorControlBit1   bool

	nextID uint64
}

// NewSession builds a Session from a loaded (or default) Config.
func NewSession(cfg config.Config) *Session {
	s := &Session{ErrorControlBit1: cfg.ErrorControlBit1}
	if cfg.HasMCGCap {
		if cap, err := mcgcap.Decode(cfg.MCGCap); err == nil {
			s.Capability = cap
		}
	}
	return s
}

// DecodeFields decodes one already-parsed line's fields against the
// session's current capability/signature context.
func (s *Session) DecodeFields(f parser.Fields) *mca.DecodedMcaEvent {
	s.nextID++
	return mca.Decode(mca.Input{
		ID:                 s.nextID,
		Timestamp:          f.Timestamp,
		CPU:                f.CPU,
		Bank:               f.Bank,
		Capability:         s.Capability,
		ProcessorSignature: s.ProcessorSignature,
		Status:             f.Status,
		Addr:               f.Addr,
		Misc:               f.Misc,
		ErrorControlBit1:   s.ErrorControlBit1,
	})
}

// Decode decodes one manually supplied (status, addr, misc) triple
// against the session's context, bank/cpu left at their zero value
// (the "decode" console verb does not ask for them; "load" recovers
// the real bank/cpu from each log line instead).
func (s *Session) Decode(status, addr, misc uint64) *mca.DecodedMcaEvent {
	return s.DecodeFields(parser.Fields{Status: status, Addr: addr, Misc: misc})
}

// LoadFile decodes every MCE line in path, in file order, updating the
// session's capability whenever an intervening "MCG_CAP MSR:" boot
// line is seen. Lines without an "MCE:" marker are skipped silently;
// lines that carry the marker but fail to parse are skipped and
// counted, and that count is returned.
func (s *Session) LoadFile(path string) (events []*mca.DecodedMcaEvent, skipped int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if v, cerr := parser.MCGCapLine(line); cerr == nil {
			if cap, derr := mcgcap.Decode(v); derr == nil {
				s.Capability = cap
			}
			continue
		}

		if !strings.Contains(line, "MCE:") {
			continue
		}
		f, perr := parser.ParseLine(line)
		if perr != nil {
			slog.Warn("skipping unparseable MCE line", "error", perr)
			skipped++
			continue
		}
		events = append(events, s.DecodeFields(f))
	}
	if serr := scanner.Err(); serr != nil {
		return events, skipped, serr
	}
	return events, skipped, nil
}

// cmdLine is a cursor over one command, in the teacher's parser.cmdLine
// style: position-tracked, whitespace-delimited word scanning.
type cmdLine struct {
	line string
	pos  int
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

// getWord returns the next whitespace-delimited word, advancing past
// it, or "" at end of line.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// rest returns everything remaining on the line, with leading space
// skipped.
func (l *cmdLine) rest() string {
	l.skipSpace()
	return l.line[l.pos:]
}

type command struct {
	name string
	min  int
	run  func(line *cmdLine, s *Session) (quit bool, err error)
}

var commands = []command{
	{name: "decode", min: 1, run: cmdDecode},
	{name: "load", min: 1, run: cmdLoad},
	{name: "show", min: 2, run: cmdShow},
	{name: "set", min: 3, run: cmdSet},
	{name: "quit", min: 1, run: cmdQuit},
	{name: "help", min: 1, run: cmdHelp},
}

// matchCommand reports whether typed matches name's first len(typed)
// characters and typed is at least name.min long, the same truncated-
// prefix matching the teacher's command parser uses.
func matchCommand(c command, typed string) bool {
	if typed == "" || len(typed) < c.min || len(typed) > len(c.name) {
		return false
	}
	return c.name[:len(typed)] == typed
}

func matchCommands(typed string) []command {
	var out []command
	for _, c := range commands {
		if matchCommand(c, typed) {
			out = append(out, c)
		}
	}
	return out
}

// ProcessCommand parses and runs one command line against s.
func ProcessCommand(raw string, s *Session) (quit bool, err error) {
	line := &cmdLine{line: raw}
	name := strings.ToLower(line.getWord())
	if name == "" {
		return false, nil
	}

	matches := matchCommands(name)
	switch len(matches) {
	case 0:
		return false, errors.New("unknown command: " + name)
	case 1:
		return matches[0].run(line, s)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

func cmdDecode(line *cmdLine, s *Session) (bool, error) {
	statusStr := line.getWord()
	addrStr := line.getWord()
	miscStr := line.getWord()
	if statusStr == "" {
		return false, errors.New("usage: decode <status> [addr] [misc]")
	}
	status, err := parseHexArg(statusStr)
	if err != nil {
		return false, fmt.Errorf("status: %w", err)
	}
	addr, err := parseHexArg(addrStr)
	if err != nil {
		return false, fmt.Errorf("addr: %w", err)
	}
	misc, err := parseHexArg(miscStr)
	if err != nil {
		return false, fmt.Errorf("misc: %w", err)
	}

	event := s.Decode(status, addr, misc)
	fmt.Println(FormatEvent(event))
	return false, nil
}

// parseHexArg parses a hex literal ("0x..." or bare hex), treating an
// empty argument as zero so "decode <status>" alone is valid.
func parseHexArg(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}

func cmdLoad(line *cmdLine, s *Session) (bool, error) {
	path := line.rest()
	if path == "" {
		return false, errors.New("usage: load <file>")
	}
	events, skipped, err := s.LoadFile(path)
	if err != nil {
		return false, err
	}
	for _, event := range events {
		fmt.Println(FormatEvent(event))
	}
	fmt.Printf("decoded %d event(s), skipped %d unparseable line(s)\n", len(events), skipped)
	return false, nil
}

func cmdShow(line *cmdLine, s *Session) (bool, error) {
	switch strings.ToLower(line.getWord()) {
	case "caps", "capability", "capabilities":
		fmt.Printf("%+v\n", s.Capability)
	case "signature":
		if s.ProcessorSignature == "" {
			fmt.Println("(no processor signature set)")
		} else {
			fmt.Println(s.ProcessorSignature)
		}
	default:
		return false, errors.New("usage: show caps|signature")
	}
	return false, nil
}

func cmdSet(line *cmdLine, s *Session) (bool, error) {
	switch strings.ToLower(line.getWord()) {
	case "signature":
		sig := line.getWord()
		if sig == "" {
			return false, errors.New("usage: set signature <FF_MMH>")
		}
		s.ProcessorSignature = strings.ToUpper(sig)
	case "cap":
		hexStr := line.getWord()
		v, err := parseHexArg(hexStr)
		if err != nil {
			return false, fmt.Errorf("cap: %w", err)
		}
		cap, err := mcgcap.Decode(v)
		if err != nil {
			return false, err
		}
		s.Capability = cap
	default:
		return false, errors.New("usage: set signature <FF_MMH>|set cap <hex>")
	}
	return false, nil
}

func cmdQuit(_ *cmdLine, _ *Session) (bool, error) {
	return true, nil
}

func cmdHelp(_ *cmdLine, _ *Session) (bool, error) {
	fmt.Println("commands: decode <status> [addr] [misc] | load <file> | show caps|signature | set signature <FF_MMH> | set cap <hex> | quit")
	return false, nil
}

// Run drives the interactive REPL until the user quits or aborts,
// mirroring the teacher's command/reader.ConsoleReader: a liner.Liner
// for history and completion, one ProcessCommand call per line.
func Run(s *Session) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var out []string
		for _, c := range matchCommands(strings.ToLower(partial)) {
			out = append(out, c.name)
		}
		return out
	})

	for {
		text, err := line.Prompt("mcedecode> ")
		if err == nil {
			line.AppendHistory(text)
			quit, cerr := ProcessCommand(text, s)
			if cerr != nil {
				fmt.Println("Error: " + cerr.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
		return
	}
}

// FormatEvent renders a decoded event for the console, hex fields via
// hexfmt rather than fmt's %x so width/case stay consistent with the
// rest of the decoder's text output.
func FormatEvent(event *mca.DecodedMcaEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id=%d cpu=%d bank=%d status=%s\n", event.ID, event.CPU, event.Bank, hexfmt.Prefixed0x(event.Status))
	if !event.Decoded {
		for _, w := range event.Warnings {
			fmt.Fprintf(&b, "  warning: %s: %s\n", w.Category, w.Detail)
		}
		return strings.TrimRight(b.String(), "\n")
	}
	fmt.Fprintf(&b, "  valid: VAL=%d OVER=%d UC=%d EN=%d MISCV=%d ADDRV=%d PCC=%d\n",
		event.Valid.VAL, event.Valid.OVER, event.Valid.UC, event.Valid.EN,
		event.Valid.MISCV, event.Valid.ADDRV, event.Valid.PCC)
	fmt.Fprintf(&b, "  error: %s (%s)\n", event.MCAErr.Type, event.MCAErr.Meaning)
	if event.MCAErr.HasCorrectionReportFilter {
		fmt.Fprintf(&b, "  correction_report_filtering: %s\n", event.MCAErr.CorrectionReportFiltering)
	}
	if event.UCRClass != mca.UCRNone {
		fmt.Fprintf(&b, "  ucr_class: %s\n", event.UCRClass)
	}
	if event.HasAddressValid {
		fmt.Fprintf(&b, "  address_valid: %s\n", hexfmt.Prefixed0x(event.AddressValid))
	}
	if event.HasAddressGiB {
		fmt.Fprintf(&b, "  address_gib: %s\n", event.AddressGiB)
	}
	if event.IncrementalDecoded {
		for _, kv := range event.ModelSpecificErrors {
			fmt.Fprintf(&b, "  model: %s = %v\n", kv.Name, kv.Value)
		}
	}
	for _, w := range event.Warnings {
		fmt.Fprintf(&b, "  warning: %s: %s\n", w.Category, w.Detail)
	}
	return strings.TrimRight(b.String(), "\n")
}
