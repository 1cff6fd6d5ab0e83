// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     parser
// Description: Lexical analysis of assembler source. Reads runes from a
//              buffered reader and classifies words against a keyword table.
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package parser

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	asmast "github.com/msto63/asmfmt/internal/ast"
	"github.com/msto63/asmfmt/internal/keywords"
)

const eof rune = -1

// radix markers accepted after a leading 0 and as a trailing suffix
const (
	radixPrefixes = "dxhoqby"
	radixSuffixes = "dhqoby"
)

// Lexer performs lexical analysis of assembler input. It keeps a window of
// two runes (current and peek) and reports the first error on every call
// after it occurred.
type Lexer struct {
	reader *bufio.Reader
	table  *keywords.Table

	cur  rune
	peek rune
	pos  asmast.Position // position of cur

	readErr error
	err     error
	errTok  Token
}

// NewLexer creates a lexer reading from r. A nil table selects
// keywords.Default().
func NewLexer(r io.Reader, table *keywords.Table) *Lexer {
	if table == nil {
		table = keywords.Default()
	}
	l := &Lexer{
		reader: bufio.NewReader(r),
		table:  table,
		pos:    asmast.Position{Line: 1, Column: 0},
	}
	l.cur = l.readRune()
	l.peek = l.readRune()
	return l
}

func (l *Lexer) readRune() rune {
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		if err != io.EOF && l.readErr == nil {
			l.readErr = err
		}
		return eof
	}
	return ch
}

// advance moves the window one rune forward and updates the position
func (l *Lexer) advance() {
	switch l.cur {
	case eof:
		return
	case '\n':
		l.pos.Line++
		l.pos.Column = 0
	default:
		l.pos.Column++
	}
	l.cur = l.peek
	l.peek = l.readRune()
}

// Next returns the next token. At end of input it keeps returning EOF
// tokens. Once an error occurred, Next returns an ILLEGAL token and the
// same error on every call.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return l.errTok, l.err
	}

	tok, err := l.scan()
	if err != nil {
		l.err = err
		l.errTok = tok
	}
	return tok, err
}

// Tokenize returns every token up to and including EOF. On error the tokens
// read so far are returned, ending with the ILLEGAL token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		tokens = append(tokens, tok)
		if err != nil {
			return tokens, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) scan() (Token, error) {
	l.skipWhitespace()
	start := l.pos

	switch ch := l.cur; {
	case ch == eof:
		if l.readErr != nil {
			return Token{Type: TokenIllegal, Pos: start}, l.readErr
		}
		return Token{Type: TokenEOF, Pos: start}, nil

	case ch == '\n':
		l.advance()
		return Token{Type: TokenNewline, Pos: start}, nil

	case ch == ';':
		return l.scanComment(start), nil

	case isIdentStart(ch):
		return l.scanWord(start), nil

	case isDigit(ch), ch == '$' && l.peek == '0':
		return l.scanNumber(start), nil

	case ch == '\'':
		return l.scanChar(start)

	case ch == '"':
		return l.scanString(start)
	}

	if tt, text, ok := l.punctuation(); ok {
		for range text {
			l.advance()
		}
		return Token{Type: tt, Value: text, Pos: start}, nil
	}

	return l.illegal(l.cur, "")
}

func (l *Lexer) illegal(ch rune, expected string) (Token, error) {
	value := ""
	if ch != eof {
		value = string(ch)
	}
	return Token{Type: TokenIllegal, Value: value, Pos: l.pos},
		&UnexpectedCharError{Char: ch, Expected: expected, Pos: l.pos}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.cur {
		case ' ', '\t', '\r', '\v', '\f':
			l.advance()
		default:
			return
		}
	}
}

// punctuation dispatches on the current rune, using peek for the two
// character operators
func (l *Lexer) punctuation() (TokenType, string, bool) {
	switch l.cur {
	case ':':
		return TokenColon, ":", true
	case ',':
		return TokenComma, ",", true
	case '[':
		return TokenLeftBracket, "[", true
	case ']':
		return TokenRightBracket, "]", true
	case '(':
		return TokenLeftParen, "(", true
	case ')':
		return TokenRightParen, ")", true
	case '%':
		return TokenPercent, "%", true
	case '+':
		return TokenPlus, "+", true
	case '-':
		return TokenMinus, "-", true
	case '/':
		return TokenSlash, "/", true
	case '*':
		return TokenStar, "*", true
	case '|':
		return TokenPipe, "|", true
	case '&':
		return TokenAmpersand, "&", true
	case '^':
		return TokenCaret, "^", true
	case '~':
		return TokenTilde, "~", true
	case '$':
		if l.peek == '$' {
			return TokenDoubleDollar, "$$", true
		}
		return TokenDollar, "$", true
	case '<':
		if l.peek == '<' {
			return TokenShiftLeft, "<<", true
		}
	case '>':
		if l.peek == '>' {
			return TokenShiftRight, ">>", true
		}
	}
	return TokenIllegal, "", false
}

func (l *Lexer) scanComment(start asmast.Position) Token {
	l.advance() // ;
	for l.cur == ' ' {
		l.advance()
	}

	var b strings.Builder
	for l.cur != '\n' && l.cur != eof {
		b.WriteRune(l.cur)
		l.advance()
	}

	return Token{Type: TokenComment, Value: strings.TrimSuffix(b.String(), "\r"), Pos: start}
}

func (l *Lexer) scanWord(start asmast.Position) Token {
	var b strings.Builder
	for isIdentChar(l.cur) {
		b.WriteRune(l.cur)
		l.advance()
	}

	word := b.String()
	tt := TokenIdentifier
	switch l.table.Classify(word) {
	case keywords.Instruction:
		tt = TokenInstruction
	case keywords.Prefix:
		tt = TokenPrefix
	case keywords.Directive:
		tt = TokenDirective
	}

	return Token{Type: tt, Value: word, Pos: start}
}

// scanNumber keeps the literal text exactly as written: an optional $0 or
// 0<radix> prefix, digits, hex letters and '_' separators, an optional
// fraction and an optional radix suffix
func (l *Lexer) scanNumber(start asmast.Position) Token {
	var b strings.Builder
	take := func() {
		b.WriteRune(l.cur)
		l.advance()
	}

	if l.cur == '$' && l.peek == '0' {
		take()
		take()
	}
	if l.cur == '0' && strings.ContainsRune(radixPrefixes, l.peek) {
		take()
		take()
	}

	for isDigit(l.cur) || isHexLetter(l.cur) || l.cur == '_' {
		take()
	}

	if l.cur == '.' && isDigit(l.peek) {
		take()
		for isDigit(l.cur) || l.cur == '_' {
			take()
		}
	}

	if strings.ContainsRune(radixSuffixes, l.cur) {
		take()
	}

	return Token{Type: TokenNumber, Value: b.String(), Pos: start}
}

func (l *Lexer) scanChar(start asmast.Position) (Token, error) {
	l.advance() // '

	var lit string
	switch l.cur {
	case '\n', eof:
		return l.illegal(l.cur, "character")
	case '\\':
		if l.peek == '\n' || l.peek == eof {
			l.advance()
			return l.illegal(l.cur, "escaped character")
		}
		lit = string([]rune{l.cur, l.peek})
		l.advance()
		l.advance()
	default:
		lit = string(l.cur)
		l.advance()
	}

	if l.cur != '\'' {
		return l.illegal(l.cur, "'")
	}
	l.advance()

	return Token{Type: TokenChar, Value: lit, Pos: start}, nil
}

func (l *Lexer) scanString(start asmast.Position) (Token, error) {
	l.advance() // "

	var b strings.Builder
	for l.cur != '"' {
		if l.cur == '\n' || l.cur == eof {
			return l.illegal(l.cur, `"`)
		}
		b.WriteRune(l.cur)
		l.advance()
	}
	l.advance()

	return Token{Type: TokenString, Value: b.String(), Pos: start}, nil
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '.' || unicode.IsLetter(ch)
}

func isIdentChar(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
