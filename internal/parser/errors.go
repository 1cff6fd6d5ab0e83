package parser

import (
	"fmt"
	"strings"

	asmast "github.com/msto63/asmfmt/internal/ast"
)

// UnexpectedCharError is returned by the lexer for a character it cannot
// classify or a literal that is not terminated. Char is -1 at end of input.
type UnexpectedCharError struct {
	Char     rune
	Expected string
	Pos      asmast.Position
}

func (e *UnexpectedCharError) Error() string {
	msg := fmt.Sprintf("unexpected %s at line %d, col %d", describeRune(e.Char), e.Pos.Line, e.Pos.Column)
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	return msg
}

func describeRune(ch rune) string {
	switch ch {
	case eof:
		return "end of input"
	case '\n':
		return "newline"
	case '\t':
		return "tab"
	default:
		return fmt.Sprintf("character %q", ch)
	}
}

// SyntaxError is returned by the parser for a token that does not fit the
// grammar at its position
type SyntaxError struct {
	Got      Token
	Expected []TokenType
	Message  string
	Pos      asmast.Position
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax error at line %d, col %d: ", e.Pos.Line, e.Pos.Column)

	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		fmt.Fprintf(&b, "unexpected %s", e.Got)
	}

	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, tt := range e.Expected {
			names[i] = tt.String()
		}
		fmt.Fprintf(&b, ", expected %s", strings.Join(names, " or "))
	}
	return b.String()
}
