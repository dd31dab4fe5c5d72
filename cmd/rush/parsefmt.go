package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/rush"
	"github.com/google/uuid"
)

// printParsed parses exprText and writes its AST dump to w, wrapped to a
// terminal-friendly width and indented one level, the way the teacher's
// grammar/parser table dumps are rendered with rosed. When trace is set,
// each dump is tagged with a fresh correlation id -- useful for matching a
// --parse dump against the corresponding cause-chain log line when several
// expressions are chained.
func printParsed(w io.Writer, exprText string, trace bool) error {
	ast, err := rush.Parse(exprText)
	if err != nil {
		return err
	}

	header := exprText
	if trace {
		header = fmt.Sprintf("[%s] %s", uuid.New().String(), exprText)
	}

	wrapped := rosed.Edit(ast.String()).Wrap(100).String()
	fmt.Fprintf(w, "%s\n%s\n", header, indentBlock(wrapped, "    "))
	return nil
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
