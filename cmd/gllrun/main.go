/*
Command gllrun is a line-oriented front end for package engine: each line
of stdin is one candidate input, parsed against a built-in grammar and
reported as Succ or Fail. It never exits with a non-zero status — a
rejected or malformed line is an outcome to report, not a process
failure.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"

	"github.com/corwin-dev/gll/engine"
	"github.com/corwin-dev/gll/grammar"
)

func tracer() tracing.Trace {
	return gtrace.SyntaxTracer
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  Succ",
		Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Fail",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.LevelInfo)

	g, err := grammar.Reference()
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	tracer().Infof("gllrun: built-in grammar S → A S d | B S | ε; A → a|c; B → a|b")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		run(g, line)
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("gllrun: error reading stdin: %v", err)
	}
}

func run(g *grammar.Grammar, line string) {
	result, err := engine.Parse(g, []byte(line))
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", line, err))
		return
	}
	if result.Accepted {
		pterm.Info.Println(fmt.Sprintf("%s", line))
	} else {
		pterm.Error.Println(fmt.Sprintf("%s", line))
	}
}
