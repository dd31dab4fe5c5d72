package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dekarrin/rush"
	"github.com/dekarrin/rush/internal/rsherr"
)

// runREPL starts an interactive, readline-backed session against one root
// context: every line the user enters is parsed and evaluated against the
// same context, so assignments persist across lines the way `.rushrc`
// start-up expressions persist into the first user expression.
func runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rush> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "^D",
	})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	root := rush.NewRootContext()
	if err := loadStartupFile(root); err != nil {
		fmt.Fprintf(rl.Stderr(), "ERROR: %s\n", rsherr.CauseChain(err))
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ast, err := rush.Parse(line)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "ERROR: %s\n", rsherr.CauseChain(err))
			continue
		}
		v, err := rush.Eval(ast, root)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "ERROR: %s\n", rsherr.CauseChain(err))
			continue
		}
		if v.IsEmpty() {
			continue
		}
		rendered, err := rush.Render(v)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "ERROR: %s\n", rsherr.CauseChain(err))
			continue
		}
		fmt.Fprintln(rl.Stdout(), rendered)
	}
}
