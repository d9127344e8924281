package printer

import (
	"github.com/synstool/syns/internal/token"
)

// Locate resolves span within src into a Match for path, computing the
// 1-based start/end lines and slicing out the covering lines' text: from
// the start of the line the span begins on to the end of the line it ends
// on (exclusive of the trailing newline).
func Locate(path string, src []byte, span token.Span) Match {
	startLine, lineStart := lineOf(src, span.Start)

	end := span.End
	if end > len(src) {
		end = len(src)
	}
	// a span ending exactly on a newline belongs to the line before it
	endPos := end
	if endPos > span.Start {
		endPos--
	}
	endLine, _ := lineOf(src, endPos)

	lineEnd := end
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}

	return Match{
		Path:      path,
		Span:      span,
		StartLine: startLine,
		EndLine:   endLine,
		Prefix:    string(src[lineStart:span.Start]),
		Matched:   string(src[span.Start:end]),
		Suffix:    string(src[end:lineEnd]),
	}
}

// lineOf returns the 1-based line number containing offset, and the byte
// offset where that line begins.
func lineOf(src []byte, offset int) (line, lineStart int) {
	line = 1
	lineStart = 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, lineStart
}
