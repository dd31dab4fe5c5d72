package rush

import "math"

// registerStdlib populates root with every built-in function and constant
// named in §4.4, plus the original_source-only aliases and functions this
// implementation also carries (char, re/regexp, foldl, gsub, deburr,
// latin1, array).
func registerStdlib(root *Context) {
	root.Set("pi", FloatValue(math.Pi))

	// conversion
	root.defineNative("str", Exact(1), stdlibStr)
	root.defineNative("int", Exact(1), stdlibInt)
	root.defineNative("float", Exact(1), stdlibFloat)
	root.defineNative("bool", Exact(1), stdlibBool)
	root.defineNative("regex", Exact(1), stdlibRegex)
	root.defineNative("re", Exact(1), stdlibRegex)
	root.defineNative("regexp", Exact(1), stdlibRegex)
	root.defineNative("csv", Exact(1), stdlibCSV)
	root.defineNative("json", Exact(1), stdlibJSON)
	root.defineNative("array", Exact(1), stdlibArray)

	// string
	root.defineNative("split", Exact(2), splitBuiltin)
	root.defineNative("join", Exact(2), joinBuiltin)
	root.defineNative("words", Exact(1), wordsBuiltin)
	root.defineNative("lines", Exact(1), linesBuiltin)
	root.defineNative("chars", Exact(1), charsBuiltin)
	root.defineNative("chr", Exact(1), stdlibChr)
	root.defineNative("char", Exact(1), stdlibChr)
	root.defineNative("ord", Exact(1), stdlibOrd)
	root.defineNative("format", Exact(2), formatBuiltin)
	root.defineNative("before", Exact(2), beforeBuiltin)
	root.defineNative("after", Exact(2), afterBuiltin)
	root.defineNativeCtx("sub", Exact(3), subBuiltin)
	root.defineNativeCtx("gsub", Exact(3), subBuiltin)
	root.defineNativeCtx("sub1", Exact(3), sub1Builtin)
	root.defineNativeCtx("rsub1", Exact(3), rsub1Builtin)
	root.defineNative("trim", Exact(1), trimBuiltin)
	root.defineNative("rot13", Exact(1), rot13Builtin)
	root.defineNative("deburr", Exact(1), deburrBuiltin)
	root.defineNative("latin1", Exact(1), latin1Builtin)

	// iteration
	root.defineNativeCtx("map", Exact(2), mapBuiltin)
	root.defineNativeCtx("filter", Exact(2), filterBuiltin)
	root.defineNativeCtx("reject", Exact(2), rejectBuiltin)
	root.defineNativeCtx("fold", Exact(3), foldBuiltin)
	root.defineNativeCtx("foldl", Exact(3), foldBuiltin)
	root.defineNativeCtx("reduce", Exact(3), foldBuiltin)
	root.defineNativeCtx("all", Exact(2), allBuiltin)
	root.defineNativeCtx("any", Exact(2), anyBuiltin)
	root.defineNative("min", Exact(1), minBuiltin)
	root.defineNative("max", Exact(1), maxBuiltin)
	root.defineNative("sum", Exact(1), sumBuiltin)
	root.defineNative("compact", Exact(1), compactBuiltin)
	root.defineNative("keys", Exact(1), keysBuiltin)
	root.defineNative("values", Exact(1), valuesBuiltin)
	root.defineNative("pick", Exact(2), pickBuiltin)
	root.defineNative("omit", Exact(2), omitBuiltin)
	root.defineNative("len", Exact(1), lenBuiltin)
	root.defineNative("rev", Exact(1), revBuiltin)
	root.defineNative("sort", Exact(1), sortBuiltin)
	root.defineNativeCtx("sortby", Exact(2), sortbyBuiltin)
	root.defineNative("index", Exact(2), indexBuiltin)

	// math
	root.defineNative("abs", Exact(1), absBuiltin)
	root.defineNative("sgn", Exact(1), sgnBuiltin)
	root.defineNative("sqrt", Exact(1), floatFn("sqrt", math.Sqrt))
	root.defineNative("exp", Exact(1), floatFn("exp", math.Exp))
	root.defineNative("ln", Exact(1), floatFn("ln", math.Log))
	root.defineNative("floor", Exact(1), floorBuiltin)
	root.defineNative("ceil", Exact(1), ceilBuiltin)
	root.defineNative("round", Exact(1), roundBuiltin)
	root.defineNative("trunc", Exact(1), truncBuiltin)
	root.defineNative("bin", Exact(1), binBuiltin)
	root.defineNative("oct", Exact(1), octBuiltin)
	root.defineNative("hex", Exact(1), hexBuiltin)

	// randomization
	root.defineNative("rand", Exact(0), randBuiltin)
	root.defineNative("sample", Exact(2), sampleBuiltin)
	root.defineNative("shuffle", Exact(1), shuffleBuiltin)

	// functional combinators
	root.defineNative("id", Exact(1), idBuiltin)
	root.defineNative("flip", Exact(1), flipBuiltin)
}
