// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     parser
// Description: Token types produced by the lexer
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package parser

import (
	"fmt"

	asmast "github.com/msto63/asmfmt/internal/ast"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal
	TokenNewline
	TokenComment

	// Words and literals
	TokenIdentifier  // eax, _start, .loop
	TokenInstruction // mov, jmp, db
	TokenPrefix      // lock, rep, times
	TokenDirective   // bits, section, global
	TokenNumber      // 10, 0x1f, 0FFh, 1010b, 1_000
	TokenChar        // 'a', '\n'
	TokenString      // "text"

	// Punctuation
	TokenColon        // :
	TokenComma        // ,
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenPercent      // %
	TokenPlus         // +
	TokenMinus        // -
	TokenSlash        // /
	TokenStar         // *
	TokenPipe         // |
	TokenAmpersand    // &
	TokenCaret        // ^
	TokenTilde        // ~
	TokenShiftLeft    // <<
	TokenShiftRight   // >>
	TokenDollar       // $
	TokenDoubleDollar // $$
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenIllegal:      "ILLEGAL",
	TokenNewline:      "NEWLINE",
	TokenComment:      "COMMENT",
	TokenIdentifier:   "IDENT",
	TokenInstruction:  "INSTRUCTION",
	TokenPrefix:       "INSTRUCTION_PREFIX",
	TokenDirective:    "DIRECTIVE",
	TokenNumber:       "NUMBER",
	TokenChar:         "CHAR_LITERAL",
	TokenString:       "STRING_LITERAL",
	TokenColon:        "COLON",
	TokenComma:        "COMMA",
	TokenLeftBracket:  "LEFT_BRACKET",
	TokenRightBracket: "RIGHT_BRACKET",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenPercent:      "PERCENT",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenSlash:        "SLASH",
	TokenStar:         "STAR",
	TokenPipe:         "PIPE",
	TokenAmpersand:    "AMPERSAND",
	TokenCaret:        "CARET",
	TokenTilde:        "TILDE",
	TokenShiftLeft:    "SHIFT_LEFT",
	TokenShiftRight:   "SHIFT_RIGHT",
	TokenDollar:       "DOLLAR",
	TokenDoubleDollar: "DOUBLE_DOLLAR",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the type is one of the keyword classes
func (tt TokenType) IsKeyword() bool {
	return tt == TokenInstruction || tt == TokenPrefix || tt == TokenDirective
}

// IsWord reports whether the token carries an identifier-shaped spelling
func (tt TokenType) IsWord() bool {
	return tt == TokenIdentifier || tt.IsKeyword()
}

// Token represents a lexical token. Value holds the spelling for words and
// numbers, the body for comments, chars and strings, and the operator text
// for punctuation.
type Token struct {
	Type  TokenType
	Value string
	Pos   asmast.Position
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF, TokenNewline:
		return t.Type.String()
	case TokenIdentifier, TokenInstruction, TokenPrefix, TokenDirective,
		TokenNumber, TokenChar, TokenString, TokenComment, TokenIllegal:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}
