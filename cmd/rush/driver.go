package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/rush"
	"github.com/dekarrin/rush/internal/rsherr"
)

// driver is the per-invocation configuration of the out-of-core parts of
// rush: it owns the input mode, the chain of expressions, the optional
// setup/finish expressions, and the handful of presentation flags that
// have nothing to do with the expression engine itself.
type driver struct {
	mode         inputMode
	exprs        []string
	before       string
	after        string
	wrapWidth    int
	parseOnly    bool
	trace        bool
	cacheASTPath string
	fatalOnError bool
}

// parsedExpr pairs an expression's source text (for error messages and
// cache keys) with its parsed form.
type parsedExpr struct {
	text string
	ast  rush.Node
}

// exitForErr maps a core error to the driver's exit code taxonomy (§6),
// falling back to ExitIOError for errors the core didn't tag with a
// rsherr.Kind (e.g. a readline or file-system failure surfaced as a plain
// error).
func exitForErr(err error) int {
	kind, ok := rsherr.KindOf(err)
	if !ok {
		return ExitIOError
	}
	switch kind {
	case rsherr.Parse:
		return ExitParseError
	case rsherr.IO:
		return ExitIOError
	default:
		return ExitEvalError
	}
}

func (d *driver) run(stdin io.Reader, stdout, stderr io.Writer) int {
	if d.parseOnly {
		return d.runParseOnly(stdout, stderr)
	}

	root := rush.NewRootContext()
	if err := loadStartupFile(root); err != nil {
		fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
		return exitForErr(err)
	}

	var cache *astCache
	if d.cacheASTPath != "" {
		var err error
		cache, err = loadASTCache(d.cacheASTPath)
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", err.Error())
			return ExitIOError
		}
	}

	exprTexts := d.exprs
	filePaths := []string(nil)
	if d.mode == modeFiles {
		if len(exprTexts) < 2 {
			fmt.Fprintln(stderr, "ERROR: --files requires an expression followed by one or more file paths")
			return ExitUsageError
		}
		filePaths = exprTexts[1:]
		exprTexts = exprTexts[:1]
	}

	parsed := make([]parsedExpr, len(exprTexts))
	for i, text := range exprTexts {
		if cache != nil {
			if _, err := warmRegexPool(cache, text); err != nil {
				fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
				return exitForErr(err)
			}
		}
		ast, err := rush.Parse(text)
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
			return exitForErr(err)
		}
		parsed[i] = parsedExpr{text: text, ast: ast}
	}

	if cache != nil {
		if err := saveASTCache(d.cacheASTPath, cache); err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", err.Error())
			return ExitIOError
		}
	}

	if d.before != "" {
		if err := d.runSideEffect(d.before, root); err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
			return exitForErr(err)
		}
	}

	var procErr error
	switch d.mode {
	case modeBytes:
		procErr = d.runBytes(stdin, stdout, root, parsed)
	case modeFiles:
		procErr = d.runFiles(filePaths, stdout, stderr, root, parsed)
	default:
		procErr = d.runRecords(stdin, stdout, stderr, root, parsed)
	}
	if procErr != nil {
		fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(procErr))
		return exitForErr(procErr)
	}

	if d.after != "" {
		if err := d.runSideEffect(d.after, root); err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
			return exitForErr(err)
		}
	}

	return ExitSuccess
}

func (d *driver) runParseOnly(stdout, stderr io.Writer) int {
	for _, text := range d.exprs {
		if err := printParsed(stdout, text, d.trace); err != nil {
			fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
			return exitForErr(err)
		}
	}
	return ExitSuccess
}

// runSideEffect evaluates exprText once against root for its effects
// (assignments into root), discarding any produced value. --before and
// --after are both this: they exist to populate or drain shared state, not
// to print a per-run result.
func (d *driver) runSideEffect(exprText string, root *rush.Context) error {
	ast, err := rush.Parse(exprText)
	if err != nil {
		return err
	}
	_, err = rush.Eval(ast, root)
	return err
}

// evalChain threads record through every parsed expression in turn: the
// rendered output of one becomes the bound input of the next. Each stage
// evaluates in a fresh child of root, so a lambda or bare assignment inside
// one record's evaluation never leaks into the next record.
func evalChain(root *rush.Context, parsed []parsedExpr, record string) (string, error) {
	current := record
	for _, p := range parsed {
		callCtx := root.Child()
		rush.BindInput(callCtx, current)

		v, err := rush.Eval(p.ast, callCtx)
		if err != nil {
			return "", err
		}
		if v.IsFunction() && v.Fn().Arity().Accepts(1) {
			arg, _ := callCtx.Get("_")
			v, err = v.Fn().Invoke1(arg, callCtx)
			if err != nil {
				return "", err
			}
		}
		rendered, err := rush.Render(v)
		if err != nil {
			return "", err
		}
		current = rendered
	}
	return current, nil
}

func (d *driver) writeRecordResult(w io.Writer, result string) error {
	if d.wrapWidth > 0 {
		result = rosed.Edit(result).Wrap(d.wrapWidth).String()
	}
	_, err := fmt.Fprintln(w, result)
	return err
}

func (d *driver) runRecords(stdin io.Reader, stdout, stderr io.Writer, root *rush.Context, parsed []parsedExpr) error {
	records, err := readRecords(stdin, d.mode)
	if err != nil {
		return rsherr.Wrap(err, rsherr.IO, "reading input")
	}
	for _, record := range records {
		result, err := evalChain(root, parsed, record)
		if err != nil {
			if d.fatalOnError {
				return err
			}
			fmt.Fprintf(stderr, "ERROR: %s\n", rsherr.CauseChain(err))
			continue
		}
		if err := d.writeRecordResult(stdout, result); err != nil {
			return rsherr.Wrap(err, rsherr.IO, "writing output")
		}
	}
	return nil
}

func (d *driver) runFiles(paths []string, stdout, stderr io.Writer, root *rush.Context, parsed []parsedExpr) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return rsherr.Wrapf(err, rsherr.IO, "reading %q", path)
		}
		result, err := evalChain(root, parsed, string(data))
		if err != nil {
			if d.fatalOnError {
				return err
			}
			fmt.Fprintf(stderr, "ERROR: %q: %s\n", path, rsherr.CauseChain(err))
			continue
		}
		if err := d.writeRecordResult(stdout, result); err != nil {
			return rsherr.Wrap(err, rsherr.IO, "writing output")
		}
	}
	return nil
}

// runBytes implements the byte-mode contract: `_` is bound to each input
// byte's integer value, and the (possibly chained) expression must yield
// an integer in [0, 255] for every byte -- any other result is an error.
func (d *driver) runBytes(stdin io.Reader, stdout io.Writer, root *rush.Context, parsed []parsedExpr) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return rsherr.Wrap(err, rsherr.IO, "reading input")
	}

	out := make([]byte, len(data))
	for i, b := range data {
		current := int64(b)
		for _, p := range parsed {
			callCtx := root.Child()
			callCtx.Set("_", rush.IntValue(current))

			v, err := rush.Eval(p.ast, callCtx)
			if err != nil {
				return err
			}
			if v.IsFunction() && v.Fn().Arity().Accepts(1) {
				arg, _ := callCtx.Get("_")
				v, err = v.Fn().Invoke1(arg, callCtx)
				if err != nil {
					return err
				}
			}
			if v.Type() != rush.Integer || v.Int() < 0 || v.Int() > 255 {
				return rsherr.Newf(rsherr.ValueError,
					"byte mode: expression must yield an int in [0, 255], got %s", v.Type())
			}
			current = v.Int()
		}
		out[i] = byte(current)
	}
	_, err = stdout.Write(out)
	if err != nil {
		return rsherr.Wrap(err, rsherr.IO, "writing output")
	}
	return nil
}

// readRecords splits data from r into records per mode. modeBytes and
// modeFiles are handled by their own dedicated driver methods and never
// reach here.
func readRecords(r io.Reader, mode inputMode) ([]string, error) {
	switch mode {
	case modeString:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return []string{string(data)}, nil
	case modeLines:
		var records []string
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			records = append(records, scanner.Text())
		}
		return records, scanner.Err()
	case modeWords:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return strings.Fields(string(data)), nil
	case modeChars:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		var records []string
		for _, ch := range string(data) {
			records = append(records, string(ch))
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unsupported input mode for record reading: %s", mode)
	}
}
