/*
 * mcedecode - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mcedecode/config"
	"github.com/rcornwell/mcedecode/console"
	"github.com/rcornwell/mcedecode/internal/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optInput := getopt.StringLong("input", 'i', "", "MCE log file to decode and exit (non-interactive); omit for the interactive console")
	optDebug := getopt.BoolLong("debug", 'd', "Echo debug-level log records to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("could not create log file", "file", *optLogFile, "error", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	slog.SetDefault(slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug)))

	cfg := config.Default()
	if *optConfig != "" {
		var err error
		cfg, err = config.Load(*optConfig)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}

	session := console.NewSession(cfg)

	if *optInput != "" {
		events, skipped, err := session.LoadFile(*optInput)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		for _, event := range events {
			fmt.Println(console.FormatEvent(event))
		}
		slog.Info("load complete", "decoded", len(events), "skipped", skipped)
		return
	}

	console.Run(session)
}
