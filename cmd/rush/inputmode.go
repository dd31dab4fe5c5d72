package main

// inputMode selects how the driver splits standard input (or file
// arguments, in modeFiles) into records, one evaluation per record.
type inputMode int

const (
	modeLines inputMode = iota
	modeString
	modeWords
	modeChars
	modeBytes
	modeFiles
)

func (m inputMode) String() string {
	switch m {
	case modeString:
		return "string"
	case modeLines:
		return "lines"
	case modeWords:
		return "words"
	case modeChars:
		return "chars"
	case modeBytes:
		return "bytes"
	case modeFiles:
		return "files"
	default:
		return "unknown"
	}
}
