// Copyright 2025 The Owlmorph Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/cayleygraph/quad/nquads"

	"github.com/owlmorph/owlmorph/clog"
	"github.com/owlmorph/owlmorph/query"
	"github.com/owlmorph/owlmorph/query/sparql"
	"github.com/owlmorph/owlmorph/rdf"
)

func trace(s string) (string, time.Time) {
	return s, time.Now()
}

func un(s string, startTime time.Time) {
	endTime := time.Now()
	fmt.Printf(s, float64(endTime.UnixNano()-startTime.UnixNano())/float64(1e6))
}

// Run executes one query and prints its result.
func Run(ctx context.Context, qu string, ses *query.Session) error {
	startTrace, startTime := trace("Elapsed time: %g ms\n\n")
	fmt.Printf("\n")
	res, err := sparql.Execute(ctx, ses, qu)
	if err != nil {
		return err
	}
	un(startTrace, startTime)
	printResult(res)
	return nil
}

func printResult(res query.Result) {
	switch res := res.(type) {
	case *query.Triples:
		for _, t := range res.Triples {
			fmt.Println(t)
		}
		fmt.Printf("-----------\n%d triples\n", len(res.Triples))
	case *query.Mutation:
		fmt.Printf("%d triples added\n", res.Added)
	case *query.Rows:
		fmt.Println(strings.Join(res.Columns, "\t"))
		for _, row := range res.Rows {
			cells := make([]string, len(res.Columns))
			for i, c := range res.Columns {
				if t := row[c]; t != nil {
					cells[i] = t.String()
				}
			}
			fmt.Println(strings.Join(cells, "\t"))
		}
		results := "result"
		if len(res.Rows) != 1 {
			results += "s"
		}
		fmt.Printf("-----------\n%d %s\n", len(res.Rows), results)
	}
}

const (
	ps1 = "owlmorph> "
	ps2 = "...       "

	history = ".owlmorph_history"
)

// Repl runs the interactive shell. A query is collected across lines until
// it parses; shell commands start with ':'.
func Repl(ctx context.Context, ses *query.Session, timeout time.Duration) error {
	term, err := terminal(history)
	if os.IsNotExist(err) {
		fmt.Printf("creating new history file: %q\n", history)
	}
	defer persist(term, history)

	var (
		prompt = ps1

		code string
	)

	newCtx := func() (context.Context, func()) { return ctx, func() {} }
	if timeout > 0 {
		newCtx = func() (context.Context, func()) { return context.WithTimeout(ctx, timeout) }
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if len(code) == 0 {
			prompt = ps1
		} else {
			prompt = ps2
		}
		line, err := term.Prompt(prompt)
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		term.AppendHistory(line)

		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		if code == "" {
			cmd, args := splitLine(line)

			switch cmd {
			case ":debug":
				args = strings.TrimSpace(args)
				var debug bool
				switch args {
				case "t":
					debug = true
				case "f":
					// Do nothing.
				default:
					debug, err = strconv.ParseBool(args)
					if err != nil {
						fmt.Printf("Error: cannot parse %q as a valid boolean - acceptable values: 't'|'true' or 'f'|'false'\n", args)
						continue
					}
				}
				if debug {
					clog.SetV(2)
				} else {
					clog.SetV(0)
				}
				fmt.Printf("Debug set to %t\n", debug)
				continue

			case ":a":
				q, err := nquads.Parse(args)
				if err != nil {
					fmt.Printf("Error: not a valid quad: %v\n", err)
					continue
				}
				ses.Store().AddQuad(q)
				continue

			case ":d":
				q, err := nquads.Parse(args)
				if err != nil {
					fmt.Printf("Error: not a valid quad: %v\n", err)
					continue
				}
				t, label := rdf.FromQuad(q)
				if !ses.Store().Remove(label, t) {
					fmt.Println("quad was not present")
				}
				continue

			case ":prefixes":
				for _, p := range ses.Namespaces().List() {
					fmt.Printf("%s: <%s>\n", p[0], p[1])
				}
				continue

			case "help":
				fmt.Printf("Help\n\texit // Exit\n\thelp // this help\n\t:a <quad> // add quad\n\t:d <quad> // delete quad\n\t:prefixes // list namespace prefixes\n\t:debug [t|f]\n")
				continue

			case "exit":
				term.Close()
				os.Exit(0)

			default:
				if cmd[0] == ':' {
					fmt.Printf("Unknown command: %q\n", cmd)
					continue
				}
			}
		}

		code += line + "\n"

		nctx, cancel := newCtx()
		err = Run(nctx, code, ses)
		cancel()
		if isIncomplete(err) {
			// collect more input
			continue
		}
		if err != nil {
			fmt.Println("Error: ", err)
		}
		code = ""
	}
}

// isIncomplete reports whether a syntax error means the query simply
// continues on the next line.
func isIncomplete(err error) bool {
	se, ok := err.(*sparql.SyntaxError)
	return ok && strings.Contains(se.Msg, "unterminated")
}

// Splits a line into a command and its arguments
// e.g. ":a <s> <p> <o> ." will be split into ":a" and " <s> <p> <o> ."
func splitLine(line string) (string, string) {
	var command, arguments string

	line = strings.TrimSpace(line)

	if len(line) > 0 {
		command = strings.Fields(line)[0]

		if len(line) > len(command) {
			arguments = line[len(command):]
		}
	}

	return command, arguments
}

func terminal(path string) (*liner.State, error) {
	term := liner.NewLiner()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c

		err := persist(term, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to properly clean up terminal: %v\n", err)
			os.Exit(1)
		}

		os.Exit(0)
	}()

	f, err := os.Open(path)
	if err != nil {
		return term, err
	}
	defer f.Close()
	_, err = term.ReadHistory(f)
	return term, err
}

func persist(term *liner.State, path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("could not open %q to append history: %v", path, err)
	}
	defer f.Close()
	_, err = term.WriteHistory(f)
	if err != nil {
		return fmt.Errorf("could not write history to %q: %v", path, err)
	}
	return term.Close()
}
