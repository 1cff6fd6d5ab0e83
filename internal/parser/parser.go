// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     parser
// Description: Recursive descent parser turning the token stream into one
//              AST line per logical source line. Parsing stops at the first
//              error; the lines parsed so far are returned followed by an
//              ErrorLine marker.
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package parser

import (
	"errors"
	"strings"

	asmast "github.com/msto63/asmfmt/internal/ast"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

// Options configures parser behavior
type Options struct {
	Logger *asmlog.Logger
}

// Parser implements recursive descent parsing with one token of lookahead
// (cur) and one token of peek
type Parser struct {
	lexer  *Lexer
	logger *asmlog.Logger

	cur     Token
	curErr  error
	peek    Token
	peekErr error

	rules []string // active grammar rules, outermost first
	trace []string // rules captured at the failure point
}

var binaryOperators = map[TokenType]string{
	TokenMinus:      "-",
	TokenPlus:       "+",
	TokenSlash:      "/",
	TokenStar:       "*",
	TokenPipe:       "|",
	TokenAmpersand:  "&",
	TokenCaret:      "^",
	TokenShiftLeft:  "<<",
	TokenShiftRight: ">>",
}

var sizeQualifiers = map[string]bool{
	"byte":  true,
	"word":  true,
	"dword": true,
	"qword": true,
	"tword": true,
	"oword": true,
	"yword": true,
	"zword": true,
}

// New creates a parser reading tokens from lexer
func New(lexer *Lexer, opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = asmlog.GetDefault()
	}

	p := &Parser{
		lexer:  lexer,
		logger: opts.Logger.WithField("component", "parser"),
	}
	p.peek, p.peekErr = lexer.Next()
	p.advance()
	return p
}

// Parse parses the whole input. On failure the returned lines end with an
// *ast.ErrorLine describing err.
func (p *Parser) Parse() ([]asmast.Line, error) {
	p.logger.Debug("Starting parse")

	var lines []asmast.Line
	for p.cur.Type != TokenEOF {
		p.rules = p.rules[:0]

		line, err := p.parseLine()
		if err != nil {
			marker := &asmast.ErrorLine{
				Message: err.Error(),
				Trace:   p.trace,
				Start:   errorPosition(err, p.cur.Pos),
			}
			lines = append(lines, marker)

			p.logger.Warn("Parsing stopped", asmlog.Fields{
				"line":   marker.Start.Line,
				"column": marker.Start.Column,
				"parsed": len(lines) - 1,
				"error":  err.Error(),
			})
			return lines, err
		}
		lines = append(lines, line)
	}

	p.logger.Debug("Parse completed", asmlog.Fields{"lines": len(lines)})
	return lines, nil
}

func errorPosition(err error, fallback asmast.Position) asmast.Position {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Pos
	}
	var charErr *UnexpectedCharError
	if errors.As(err, &charErr) {
		return charErr.Pos
	}
	return fallback
}

// ----------------------------------------------------------------------------
// Token handling
// ----------------------------------------------------------------------------

func (p *Parser) advance() {
	p.cur, p.curErr = p.peek, p.peekErr
	p.peek, p.peekErr = p.lexer.Next()
}

// enter pushes a grammar rule; the returned func pops it
func (p *Parser) enter(rule string) func() {
	p.rules = append(p.rules, rule)
	if p.logger.IsLevelEnabled(asmlog.LevelTrace) {
		p.logger.Trace("enter", asmlog.Fields{"rule": rule, "token": p.cur.String(), "pos": p.cur.Pos.String()})
	}
	return func() { p.rules = p.rules[:len(p.rules)-1] }
}

// captureTrace records the active rules, folding directly repeated entries
// from recursive expressions
func (p *Parser) captureTrace() {
	p.trace = p.trace[:0]
	for _, r := range p.rules {
		if n := len(p.trace); n > 0 && p.trace[n-1] == r {
			continue
		}
		p.trace = append(p.trace, r)
	}
}

// unexpected reports the current token. When it is ILLEGAL the lexer
// error is returned instead.
func (p *Parser) unexpected(expected ...TokenType) error {
	p.captureTrace()
	if p.cur.Type == TokenIllegal && p.curErr != nil {
		return p.curErr
	}
	return &SyntaxError{Got: p.cur, Expected: expected, Pos: p.cur.Pos}
}

// syntaxError reports a grammar violation at pos with a custom message
func (p *Parser) syntaxError(pos asmast.Position, message string) error {
	p.captureTrace()
	if p.cur.Type == TokenIllegal && p.curErr != nil {
		return p.curErr
	}
	return &SyntaxError{Got: p.cur, Message: message, Pos: pos}
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if p.cur.Type != tt {
		return p.cur, p.unexpected(tt)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// expectWord accepts an identifier or any keyword spelling
func (p *Parser) expectWord() (Token, error) {
	if !p.cur.Type.IsWord() {
		return p.cur, p.unexpected(TokenIdentifier)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// isWord reports whether cur is a word spelled like name, ignoring case
func (p *Parser) isWord(name string) bool {
	return p.cur.Type.IsWord() && strings.EqualFold(p.cur.Value, name)
}

// trailingComment consumes the comment that may end a line
func (p *Parser) trailingComment() *asmast.Comment {
	if p.cur.Type != TokenComment {
		return nil
	}
	c := &asmast.Comment{Text: p.cur.Value, Start: p.cur.Pos}
	p.advance()
	return c
}

// endLine consumes the NEWLINE that ends a line. At EOF nothing is consumed.
func (p *Parser) endLine(expected ...TokenType) error {
	switch p.cur.Type {
	case TokenNewline:
		p.advance()
		return nil
	case TokenEOF:
		return nil
	default:
		return p.unexpected(append(expected, TokenNewline)...)
	}
}

// ----------------------------------------------------------------------------
// Lines
// ----------------------------------------------------------------------------

func (p *Parser) parseLine() (asmast.Line, error) {
	defer p.enter("line")()

	switch {
	case p.cur.Type == TokenNewline:
		line := &asmast.CodeLine{Start: p.cur.Pos}
		p.advance()
		return line, nil

	case p.cur.Type == TokenPercent:
		return p.parseMacro()

	case p.cur.Type == TokenDirective && p.peek.Type != TokenColon:
		return p.parseDirective(false)

	case p.cur.Type == TokenLeftBracket && p.peek.Type == TokenDirective:
		return p.parseDirective(true)

	case p.isWord("struc") && p.peek.Type != TokenColon:
		return p.parseStructDefinition()

	case p.isWord("istruc") && p.peek.Type != TokenColon:
		return p.parseStructInstantiation()

	default:
		return p.parseCodeLine()
	}
}

func (p *Parser) parseCodeLine() (*asmast.CodeLine, error) {
	line := &asmast.CodeLine{Start: p.cur.Pos}

	if p.cur.Type == TokenIdentifier || (p.cur.Type.IsKeyword() && p.peek.Type == TokenColon) {
		line.Label = p.cur.Value
		p.advance()
		if p.cur.Type == TokenColon {
			p.advance()
		}
	}

	if p.cur.Type == TokenInstruction || p.cur.Type == TokenPrefix {
		instr, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		line.Instruction = instr
	}

	line.Comment = p.trailingComment()

	if line.IsEmpty() {
		return nil, p.unexpected(TokenIdentifier, TokenInstruction, TokenComment, TokenNewline)
	}

	var expected []TokenType
	if line.Comment == nil && line.Instruction != nil && len(line.Instruction.Operands) > 0 {
		expected = append(expected, TokenComma)
	}
	if err := p.endLine(expected...); err != nil {
		return nil, err
	}
	return line, nil
}

// parseDirective parses "name arg" or, when bracketed, "[name arg]"
func (p *Parser) parseDirective(bracketed bool) (*asmast.DirectiveLine, error) {
	defer p.enter("directive")()

	line := &asmast.DirectiveLine{Bracketed: bracketed, Start: p.cur.Pos}
	if bracketed {
		p.advance() // [
	}

	line.Name = p.cur.Value
	p.advance()

	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	line.Arg = arg

	if bracketed {
		if _, err := p.expect(TokenRightBracket); err != nil {
			return nil, err
		}
	}

	line.Comment = p.trailingComment()

	if err := p.endLine(); err != nil {
		return nil, err
	}
	return line, nil
}

// parseMacro parses %define and %assign; other forms are rejected
func (p *Parser) parseMacro() (asmast.Line, error) {
	defer p.enter("macro")()

	start := p.cur.Pos
	p.advance() // %

	form, err := p.expectWord()
	if err != nil {
		return nil, err
	}

	var line asmast.Line
	switch strings.ToLower(form.Value) {
	case "define":
		name, err := p.expectWord()
		if err != nil {
			return nil, err
		}
		def := &asmast.MacroDefineLine{Name: name.Value, Start: start}
		if p.cur.Type != TokenNewline && p.cur.Type != TokenEOF && p.cur.Type != TokenComment {
			if def.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		def.Comment = p.trailingComment()
		line = def

	case "assign":
		name, err := p.expectWord()
		if err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		line = &asmast.MacroAssignLine{Name: name.Value, Value: value, Comment: p.trailingComment(), Start: start}

	default:
		return nil, p.syntaxError(form.Pos, "unsupported macro %"+form.Value)
	}

	if err := p.endLine(); err != nil {
		return nil, err
	}
	return line, nil
}

func (p *Parser) parseStructDefinition() (*asmast.StructDefinition, error) {
	defer p.enter("struc")()

	def := &asmast.StructDefinition{Start: p.cur.Pos}
	p.advance() // struc

	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	def.Name = name.Value

	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}

	for !p.isWord("endstruc") {
		if p.cur.Type == TokenEOF {
			return nil, p.syntaxError(p.cur.Pos, "unterminated struc "+def.Name+", expected endstruc")
		}

		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		field, ok := line.(*asmast.CodeLine)
		if !ok {
			return nil, p.syntaxError(line.Pos(), "only labels, data and comments are allowed inside struc")
		}
		def.Fields = append(def.Fields, field)
	}
	p.advance() // endstruc

	if err := p.endLine(); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseStructInstantiation() (*asmast.StructInstantiation, error) {
	defer p.enter("istruc")()

	inst := &asmast.StructInstantiation{Start: p.cur.Pos}
	p.advance() // istruc

	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	inst.Name = name.Value

	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}

	for !p.isWord("iend") {
		if p.cur.Type == TokenEOF {
			return nil, p.syntaxError(p.cur.Pos, "unterminated istruc "+inst.Name+", expected iend")
		}

		field, err := p.parseStructField()
		if err != nil {
			return nil, err
		}
		inst.Fields = append(inst.Fields, field)
	}
	p.advance() // iend

	if err := p.endLine(); err != nil {
		return nil, err
	}
	return inst, nil
}

// parseStructField parses "at name, instruction [comment] NEWLINE", or a
// comment-only or blank body line
func (p *Parser) parseStructField() (*asmast.StructField, error) {
	defer p.enter("at")()

	field := &asmast.StructField{Start: p.cur.Pos}
	switch {
	case p.cur.Type == TokenNewline:
		p.advance()
		return field, nil
	case p.cur.Type == TokenComment:
		field.Comment = p.trailingComment()
		if err := p.endLine(); err != nil {
			return nil, err
		}
		return field, nil
	case !p.isWord("at"):
		return nil, p.syntaxError(p.cur.Pos, "expected at or iend, found "+p.cur.String())
	}
	p.advance()

	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	field.Name = name.Value

	if _, err := p.expect(TokenComma); err != nil {
		return nil, err
	}

	if p.cur.Type != TokenInstruction && p.cur.Type != TokenPrefix {
		return nil, p.unexpected(TokenInstruction)
	}
	if field.Instruction, err = p.parseInstruction(); err != nil {
		return nil, err
	}

	var expected []TokenType
	if field.Comment = p.trailingComment(); field.Comment == nil && len(field.Instruction.Operands) > 0 {
		expected = append(expected, TokenComma)
	}
	if err := p.endLine(expected...); err != nil {
		return nil, err
	}
	return field, nil
}

// ----------------------------------------------------------------------------
// Instructions
// ----------------------------------------------------------------------------

func (p *Parser) parseInstruction() (*asmast.Instruction, error) {
	defer p.enter("instruction")()

	instr := &asmast.Instruction{Start: p.cur.Pos}

	if p.cur.Type == TokenPrefix {
		prefix, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		instr.Prefix = prefix
	}

	mnemonic, err := p.expect(TokenInstruction)
	if err != nil {
		return nil, err
	}
	instr.Mnemonic = mnemonic.Value

	switch p.cur.Type {
	case TokenNewline, TokenComment, TokenEOF:
		return instr, nil
	}

	for {
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		instr.Operands = append(instr.Operands, operand)

		if p.cur.Type != TokenComma {
			return instr, nil
		}
		p.advance()
	}
}

func (p *Parser) parseOperand() (asmast.Expr, error) {
	defer p.enter("operand")()
	return p.parseExpression()
}

func (p *Parser) parsePrefix() (asmast.Prefix, error) {
	defer p.enter("prefix")()

	tok := p.cur
	p.advance()

	if !strings.EqualFold(tok.Value, "times") {
		return &asmast.NamedPrefix{Name: tok.Value, Start: tok.Pos}, nil
	}

	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &asmast.TimesPrefix{Keyword: tok.Value, Count: count, Start: tok.Pos}, nil
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// parseExpression parses primary (binop expression)?. There is no operator
// precedence: the right operand takes the rest of the expression.
func (p *Parser) parseExpression() (asmast.Expr, error) {
	defer p.enter("expression")()

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	op, ok := binaryOperators[p.cur.Type]
	if !ok {
		return left, nil
	}
	p.advance()

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &asmast.Binary{Op: op, Left: left, Right: right, Start: left.Pos()}, nil
}

func (p *Parser) parsePrimary() (asmast.Expr, error) {
	tok := p.cur

	switch tok.Type {
	case TokenIdentifier, TokenInstruction, TokenPrefix, TokenDirective:
		if sizeQualifiers[strings.ToLower(tok.Value)] && p.peek.Type == TokenLeftBracket {
			p.advance()
			return p.parseEffectiveAddress(tok.Value, tok.Pos)
		}
		p.advance()
		return &asmast.Ident{Name: tok.Value, Start: tok.Pos}, nil

	case TokenLeftBracket:
		return p.parseEffectiveAddress("", tok.Pos)

	case TokenNumber:
		p.advance()
		return &asmast.Number{Text: tok.Value, Start: tok.Pos}, nil

	case TokenChar:
		p.advance()
		return &asmast.Char{Value: tok.Value, Start: tok.Pos}, nil

	case TokenString:
		p.advance()
		return &asmast.String{Value: tok.Value, Start: tok.Pos}, nil

	case TokenMinus, TokenTilde:
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		op := "-"
		if tok.Type == TokenTilde {
			op = "~"
		}
		return &asmast.Unary{Op: op, Operand: operand, Start: tok.Pos}, nil

	case TokenLeftParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return &asmast.Paren{Inner: inner, Start: tok.Pos}, nil

	case TokenDollar, TokenDoubleDollar:
		p.advance()
		return &asmast.Dollar{Double: tok.Type == TokenDoubleDollar, Start: tok.Pos}, nil

	default:
		return nil, p.unexpected(TokenIdentifier, TokenNumber, TokenLeftBracket, TokenLeftParen)
	}
}

// parseEffectiveAddress parses "[expression]"; size is the qualifier that
// preceded it, if any
func (p *Parser) parseEffectiveAddress(size string, start asmast.Position) (*asmast.EffectiveAddress, error) {
	defer p.enter("effective address")()

	if _, err := p.expect(TokenLeftBracket); err != nil {
		return nil, err
	}

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRightBracket); err != nil {
		return nil, err
	}
	return &asmast.EffectiveAddress{Size: size, Inner: inner, Start: start}, nil
}
