/*
Rush applies a small expression language to standard input, record by
record, and writes the result of each evaluation to standard output.

Usage:

	rush [flags] expression [expression...]

The flags are:

	-v, --version
		Print the current version and exit.

	--string | --lines | --words | --chars | --bytes | --files
	--input MODE
		Select the input mode. Defaults to --lines.

	--before EXPR
	--after EXPR
		Evaluate EXPR once against the shared root context before the first
		record (--before) or after the last (--after).

	--parse
		Print the parsed form of each expression instead of evaluating it.

	--trace
		With --parse, tag each parsed expression with a correlation id.

	--wrap N
		Wrap each output record to N columns.

	--config FILE
		Load driver defaults (input mode, whether a record-level error is
		fatal) from a TOML file.

	--cache-ast FILE
		Cache the regex literal patterns of each expression text across
		runs. Expressions are still parsed on every run.

	-i, --interactive
		Start an interactive, readline-backed REPL against one root context
		instead of reading from standard input.

Multiple positional expressions are chained: the rendered output of one
becomes the `_` input of the next. Start-up expressions are loaded from
.rushrc or .rhrc (current directory wins over home directory) and run once
against the root context before anything else.

Exit codes:

	0  success
	1  usage error
	2  parse error
	3  evaluation error
	4  I/O error
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/rush/internal/version"
)

const (
	// ExitSuccess indicates a successful run.
	ExitSuccess = iota

	// ExitUsageError indicates bad flags or arguments.
	ExitUsageError

	// ExitParseError indicates an expression failed to parse.
	ExitParseError

	// ExitEvalError indicates an expression failed during evaluation.
	ExitEvalError

	// ExitIOError indicates a problem reading input or writing output.
	ExitIOError
)

var (
	returnCode int = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Print the current version and exit")
	flagString      = pflag.Bool("string", false, "Read the entirety of stdin as a single record")
	flagLines       = pflag.Bool("lines", false, "Read stdin one line per record (default)")
	flagWords       = pflag.Bool("words", false, "Read stdin one whitespace-delimited word per record")
	flagChars       = pflag.Bool("chars", false, "Read stdin one character per record")
	flagBytes       = pflag.Bool("bytes", false, "Read stdin one byte per record")
	flagFiles       = pflag.Bool("files", false, "Treat the positional arguments after the first expression as file paths, one record per file")
	flagInput       = pflag.String("input", "", "Select the input mode by name instead of a dedicated flag")
	flagBefore      = pflag.String("before", "", "Expression to evaluate once before the first record")
	flagAfter       = pflag.String("after", "", "Expression to evaluate once after the last record")
	flagParse       = pflag.Bool("parse", false, "Print the parsed form of each expression instead of evaluating it")
	flagTrace       = pflag.Bool("trace", false, "Tag each --parse expression with a correlation id")
	flagWrap        = pflag.Int("wrap", 0, "Wrap each output record to the given column width (0 disables wrapping)")
	flagConfig      = pflag.String("config", "", "Load driver defaults from a TOML file")
	flagCacheAST    = pflag.String("cache-ast", "", "Cache the regex literal patterns of repeated expression text across runs")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start an interactive REPL instead of reading from stdin")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}

	mode, err := resolveInputMode(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitUsageError
		return
	}

	if *flagInteractive {
		if err := runREPL(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitIOError
		}
		return
	}

	exprs := pflag.Args()
	if len(exprs) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: at least one expression is required")
		returnCode = ExitUsageError
		return
	}

	d := &driver{
		mode:         mode,
		exprs:        exprs,
		before:       *flagBefore,
		after:        *flagAfter,
		wrapWidth:    *flagWrap,
		parseOnly:    *flagParse,
		trace:        *flagTrace,
		cacheASTPath: *flagCacheAST,
		fatalOnError: cfg.FatalOnError,
	}

	returnCode = d.run(os.Stdin, os.Stdout, os.Stderr)
}

func resolveInputMode(cfg *driverConfig) (inputMode, error) {
	explicit := 0
	mode := modeLines
	check := func(set bool, m inputMode) {
		if set {
			explicit++
			mode = m
		}
	}
	check(*flagString, modeString)
	check(*flagLines, modeLines)
	check(*flagWords, modeWords)
	check(*flagChars, modeChars)
	check(*flagBytes, modeBytes)
	check(*flagFiles, modeFiles)

	if *flagInput != "" {
		m, ok := parseInputModeName(*flagInput)
		if !ok {
			return modeLines, fmt.Errorf("unknown input mode: %q", *flagInput)
		}
		explicit++
		mode = m
	}

	if explicit > 1 {
		return modeLines, fmt.Errorf("only one input mode flag may be given")
	}
	if explicit == 0 && cfg.DefaultMode != "" {
		m, ok := parseInputModeName(cfg.DefaultMode)
		if !ok {
			return modeLines, fmt.Errorf("unknown input mode in config: %q", cfg.DefaultMode)
		}
		return m, nil
	}
	return mode, nil
}

func parseInputModeName(name string) (inputMode, bool) {
	switch strings.ToLower(name) {
	case "string":
		return modeString, true
	case "lines":
		return modeLines, true
	case "words":
		return modeWords, true
	case "chars":
		return modeChars, true
	case "bytes":
		return modeBytes, true
	case "files":
		return modeFiles, true
	default:
		return modeLines, false
	}
}
