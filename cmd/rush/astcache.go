package main

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/rush"
)

// astCache persists the regex literal pool discovered in each expression
// text across process invocations, keyed by a hash of the text. A tight
// pipeline loop that re-invokes rush with the same expression text on
// every call (e.g. one process per input file) re-lexes and re-validates
// the same regex literals every single time; priming this cache lets a run
// skip that redundant validation pass once a given expression text's pool
// is already known good.
type astCache struct {
	Patterns map[string][]string
}

func newASTCache() *astCache {
	return &astCache{Patterns: make(map[string][]string)}
}

// MarshalBinary encodes the pattern pool as a count-prefixed, sorted-key
// sequence of (string, []string) pairs, matching the length-prefixed
// encoding idiom used for binary-marshaled AST nodes elsewhere in the
// teacher's codebase (rezi.EncBinary requires the target implement
// encoding.BinaryMarshaler; it does not reflect into arbitrary structs).
func (c *astCache) MarshalBinary() ([]byte, error) {
	keys := make([]string, 0, len(c.Patterns))
	for k := range c.Patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := encBinaryInt(len(keys))
	for _, k := range keys {
		data = append(data, encBinaryString(k)...)
		pats := c.Patterns[k]
		data = append(data, encBinaryInt(len(pats))...)
		for _, p := range pats {
			data = append(data, encBinaryString(p)...)
		}
	}
	return data, nil
}

func (c *astCache) UnmarshalBinary(data []byte) error {
	entryCount, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding pattern cache entry count: %w", err)
	}
	data = data[n:]

	patterns := make(map[string][]string, entryCount)
	for i := 0; i < entryCount; i++ {
		key, n, err := decBinaryString(data)
		if err != nil {
			return fmt.Errorf("decoding pattern cache key %d: %w", i, err)
		}
		data = data[n:]

		patCount, n, err := decBinaryInt(data)
		if err != nil {
			return fmt.Errorf("decoding pattern count for key %q: %w", key, err)
		}
		data = data[n:]

		pats := make([]string, patCount)
		for j := range pats {
			pats[j], n, err = decBinaryString(data)
			if err != nil {
				return fmt.Errorf("decoding pattern %d for key %q: %w", j, key, err)
			}
			data = data[n:]
		}
		patterns[key] = pats
	}

	c.Patterns = patterns
	return nil
}

// encBinaryInt/decBinaryInt and encBinaryString/decBinaryString are the same
// varint-length-prefixed primitive encoding tunascript's own binary.go uses
// for its hand-rolled AST MarshalBinary/UnmarshalBinary implementations.

func encBinaryInt(i int) []byte {
	enc := make([]byte, 8)
	binary.PutVarint(enc, int64(i))
	return enc
}

func decBinaryInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("data does not contain 8 bytes")
	}
	val, read := binary.Varint(data[:8])
	if read == 0 {
		return 0, 0, fmt.Errorf("input buffer too small, should never happen")
	} else if read < 0 {
		return 0, 0, fmt.Errorf("input buffer contains value larger than 64 bits, should never happen")
	}
	return int(val), 8, nil
}

func encBinaryString(s string) []byte {
	enc := make([]byte, 0, len(s))
	chCount := 0
	for _, ch := range s {
		chBuf := make([]byte, utf8.UTFMax)
		byteLen := utf8.EncodeRune(chBuf, ch)
		enc = append(enc, chBuf[:byteLen]...)
		chCount++
	}
	return append(encBinaryInt(chCount), enc...)
}

func decBinaryString(data []byte) (string, int, error) {
	runeCount, _, err := decBinaryInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("decoding string rune count: %w", err)
	}
	data = data[8:]
	if runeCount < 0 {
		return "", 0, fmt.Errorf("string rune count < 0")
	}

	readBytes := 8
	buf := make([]byte, 0, runeCount)
	for i := 0; i < runeCount; i++ {
		ch, bytesRead := utf8.DecodeRune(data)
		if ch == utf8.RuneError {
			if bytesRead == 0 {
				return "", 0, fmt.Errorf("unexpected end of data in string")
			} else if bytesRead == 1 {
				return "", 0, fmt.Errorf("invalid UTF-8 encoding in string")
			}
			return "", 0, fmt.Errorf("invalid unicode replacement character in rune")
		}
		buf = utf8.AppendRune(buf, ch)
		readBytes += bytesRead
		data = data[bytesRead:]
	}

	return string(buf), readBytes, nil
}

func exprCacheKey(exprText string) string {
	sum := sha256.Sum256([]byte(exprText))
	return hex.EncodeToString(sum[:])
}

// loadASTCache reads a previously saved cache from path. A missing file is
// not an error; it yields a fresh, empty cache.
func loadASTCache(path string) (*astCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newASTCache(), nil
		}
		return nil, err
	}

	cache := newASTCache()
	if len(data) == 0 {
		return cache, nil
	}
	if _, err := rezi.DecBinary(data, cache); err != nil {
		return nil, err
	}
	if cache.Patterns == nil {
		cache.Patterns = make(map[string][]string)
	}
	return cache, nil
}

// saveASTCache writes cache to path.
func saveASTCache(path string, cache *astCache) error {
	data := rezi.EncBinary(cache)
	return os.WriteFile(path, data, 0o644)
}

// warmRegexPool ensures exprText's regex literal pool is recorded in
// cache, validating it via a lex-only pass (rush.RegexLiteralPool) only
// when the cache doesn't already have an entry for this exact text.
// Reports whether the entry was already cached (a "warm" hit).
func warmRegexPool(cache *astCache, exprText string) (warm bool, err error) {
	key := exprCacheKey(exprText)
	if _, ok := cache.Patterns[key]; ok {
		return true, nil
	}
	pool, err := rush.RegexLiteralPool(exprText)
	if err != nil {
		return false, err
	}
	if pool == nil {
		pool = []string{}
	}
	cache.Patterns[key] = pool
	return false, nil
}
