package pattern

import "fmt"

// ParseError reports malformed query syntax, with the byte offset into
// the query where it was detected. The caller must abort before opening
// any target file.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query parse error at byte %d: %s", e.Offset, e.Msg)
}

func errAt(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
