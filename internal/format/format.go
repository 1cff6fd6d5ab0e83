// ============================================================================
// asmfmt - Assembler Source Formatter
// ============================================================================
//
// Package:     format
// Description: Pipeline driver: lexer, parser and renderer applied to one
//              source at a time
// Author:      msto63
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package format

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	asmast "github.com/msto63/asmfmt/internal/ast"
	"github.com/msto63/asmfmt/internal/keywords"
	"github.com/msto63/asmfmt/internal/parser"
	"github.com/msto63/asmfmt/internal/render"
	asmerror "github.com/msto63/asmfmt/pkg/core/error"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

// Options configures a Formatter
type Options struct {
	Table  *keywords.Table
	Logger *asmlog.Logger
}

// Formatter formats assembler sources with a fixed keyword table
type Formatter struct {
	table    *keywords.Table
	logger   *asmlog.Logger
	renderer *render.Renderer
}

// Result is the outcome of formatting one source. When Err is set, Lines
// ends with an *ast.ErrorLine and Output is the partial rendering.
type Result struct {
	Name    string
	Lines   []asmast.Line
	Input   []byte
	Output  []byte
	Changed bool
	Err     error
}

// New creates a formatter. Nil options select the default table and logger.
func New(opts Options) *Formatter {
	if opts.Table == nil {
		opts.Table = keywords.Default()
	}
	if opts.Logger == nil {
		opts.Logger = asmlog.GetDefault()
	}
	return &Formatter{
		table:    opts.Table,
		logger:   opts.Logger.WithField("component", "format"),
		renderer: render.New(),
	}
}

// Source formats src with the default keyword table. On a parse error the
// partial output, ending in the error marker, is returned with the error.
func Source(src []byte) ([]byte, error) {
	res, err := New(Options{Logger: asmlog.Discard()}).Bytes("<input>", src)
	if res == nil {
		return nil, err
	}
	return res.Output, err
}

// FormatFile reads and formats the file at path
func (f *Formatter) FormatFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to open source").
			WithCode(asmerror.CodeIO).
			WithDetail("file", path).
			WithOperation("format.FormatFile")
	}
	defer file.Close()

	return f.Format(path, file)
}

// Format reads r to the end and formats it. name is used in errors and logs.
func (f *Formatter) Format(name string, r io.Reader) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, asmerror.Wrap(err, "failed to read source").
			WithCode(asmerror.CodeIO).
			WithDetail("file", name).
			WithOperation("format.Format")
	}
	return f.Bytes(name, src)
}

// Bytes formats an in-memory source
func (f *Formatter) Bytes(name string, src []byte) (*Result, error) {
	start := time.Now()

	lexer := parser.NewLexer(bytes.NewReader(src), f.table)
	p := parser.New(lexer, parser.Options{Logger: f.logger.WithField("file", name)})
	lines, parseErr := p.Parse()

	var out bytes.Buffer
	if err := f.renderer.Write(&out, lines); err != nil {
		return nil, asmerror.Wrap(err, "failed to render source").
			WithCode(asmerror.CodeInternal).
			WithOperation("format.Bytes")
	}

	res := &Result{
		Name:    name,
		Lines:   lines,
		Input:   src,
		Output:  out.Bytes(),
		Changed: !bytes.Equal(src, out.Bytes()),
	}

	if parseErr != nil {
		res.Err = wrapParseError(name, parseErr)
		f.logger.Debug("Formatting failed", asmlog.Fields{
			"file":     name,
			"duration": time.Since(start).String(),
		})
		return res, res.Err
	}

	f.logger.Debug("Formatted source", asmlog.Fields{
		"file":         name,
		"lines":        len(lines),
		"instructions": countInstructions(lines),
		"changed":      res.Changed,
		"duration":     time.Since(start).String(),
	})
	return res, nil
}

func countInstructions(lines []asmast.Line) int {
	n := 0
	asmast.InspectLines(lines, func(node asmast.Node) bool {
		if _, ok := node.(*asmast.Instruction); ok {
			n++
			return false
		}
		return true
	})
	return n
}

// wrapParseError turns lexer and parser errors into coded errors carrying
// file, line and column details
func wrapParseError(name string, err error) error {
	var (
		syntaxErr *parser.SyntaxError
		charErr   *parser.UnexpectedCharError
		coded     *asmerror.Error
	)

	switch {
	case errors.As(err, &syntaxErr):
		coded = asmerror.Wrap(err, name).
			WithCode(asmerror.CodeSyntax).
			WithDetail("line", syntaxErr.Pos.Line).
			WithDetail("column", syntaxErr.Pos.Column)
	case errors.As(err, &charErr):
		coded = asmerror.Wrap(err, name).
			WithCode(asmerror.CodeUnexpectedCharacter).
			WithDetail("line", charErr.Pos.Line).
			WithDetail("column", charErr.Pos.Column)
	default:
		coded = asmerror.Wrap(err, name).WithCode(asmerror.CodeIO)
	}

	return coded.WithDetail("file", name).WithOperation("format.Bytes")
}
