package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	asmast "github.com/msto63/asmfmt/internal/ast"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

func parse(input string) ([]asmast.Line, error) {
	lexer := NewLexer(strings.NewReader(input), nil)
	return New(lexer, Options{Logger: asmlog.Discard()}).Parse()
}

func mustParse(t *testing.T, input string) []asmast.Line {
	t.Helper()
	lines, err := parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	return lines
}

func codeLine(t *testing.T, line asmast.Line) *asmast.CodeLine {
	t.Helper()
	code, ok := line.(*asmast.CodeLine)
	if !ok {
		t.Fatalf("Expected *ast.CodeLine, got %T", line)
	}
	return code
}

// exprString renders an expression in a compact prefix form for assertions
func exprString(e asmast.Expr) string {
	switch n := e.(type) {
	case *asmast.Ident:
		return n.Name
	case *asmast.Number:
		return "#" + n.Text
	case *asmast.Char:
		return "'" + n.Value + "'"
	case *asmast.String:
		return `"` + n.Value + `"`
	case *asmast.EffectiveAddress:
		return n.Size + "[" + exprString(n.Inner) + "]"
	case *asmast.Unary:
		return "(" + n.Op + " " + exprString(n.Operand) + ")"
	case *asmast.Binary:
		return "(" + n.Op + " " + exprString(n.Left) + " " + exprString(n.Right) + ")"
	case *asmast.Paren:
		return "{" + exprString(n.Inner) + "}"
	case *asmast.Dollar:
		if n.Double {
			return "$$"
		}
		return "$"
	default:
		return "?"
	}
}

func TestParser_SimpleInstruction(t *testing.T) {
	lines := mustParse(t, "mov eax, 1\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	line := codeLine(t, lines[0])
	if line.Label != "" || line.Comment != nil {
		t.Errorf("Expected bare instruction line, got %+v", line)
	}
	instr := line.Instruction
	if instr == nil || instr.Mnemonic != "mov" {
		t.Fatalf("Expected mov instruction, got %+v", instr)
	}
	if len(instr.Operands) != 2 || exprString(instr.Operands[0]) != "eax" || exprString(instr.Operands[1]) != "#1" {
		t.Errorf("Operands = %v, want [eax 1]", instr.Operands)
	}
}

func TestParser_LabelAndComment(t *testing.T) {
	line := codeLine(t, mustParse(t, "loop:   jmp loop ; go back\n")[0])

	if line.Label != "loop" {
		t.Errorf("Label = %q, want loop", line.Label)
	}
	if line.Instruction == nil || line.Instruction.Mnemonic != "jmp" {
		t.Fatalf("Expected jmp, got %+v", line.Instruction)
	}
	if got := exprString(line.Instruction.Operands[0]); got != "loop" {
		t.Errorf("Operand = %s, want loop", got)
	}
	if line.Comment == nil || line.Comment.Text != "go back" {
		t.Errorf("Comment = %+v, want go back", line.Comment)
	}
}

func TestParser_CodeLineForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		label    string
		mnemonic string
		operands []string
		comment  string
	}{
		{"label only", "start:\n", "start", "", nil, ""},
		{"label without colon", "msg db \"hi\", 10\n", "msg", "db", []string{`"hi"`, "#10"}, ""},
		{"local label", ".next: inc ecx\n", ".next", "inc", []string{"ecx"}, ""},
		{"comment only", "; header\n", "", "", nil, "header"},
		{"no operands", "ret ; done\n", "", "ret", nil, "done"},
		{"no newline at eof", "nop", "", "nop", nil, ""},
		{"keyword label", "loop: nop\n", "loop", "nop", nil, ""},
		{"three operands", "imul eax, ebx, 4\n", "", "imul", []string{"eax", "ebx", "#4"}, ""},
		{"char operand", "cmp al, 'x'\n", "", "cmp", []string{"al", "'x'"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := codeLine(t, mustParse(t, tt.input)[0])

			if line.Label != tt.label {
				t.Errorf("Label = %q, want %q", line.Label, tt.label)
			}

			mnemonic := ""
			var operands []string
			if line.Instruction != nil {
				mnemonic = line.Instruction.Mnemonic
				for _, op := range line.Instruction.Operands {
					operands = append(operands, exprString(op))
				}
			}
			if mnemonic != tt.mnemonic {
				t.Errorf("Mnemonic = %q, want %q", mnemonic, tt.mnemonic)
			}
			if strings.Join(operands, ",") != strings.Join(tt.operands, ",") {
				t.Errorf("Operands = %v, want %v", operands, tt.operands)
			}

			comment := ""
			if line.Comment != nil {
				comment = line.Comment.Text
			}
			if comment != tt.comment {
				t.Errorf("Comment = %q, want %q", comment, tt.comment)
			}
		})
	}
}

func TestParser_Expressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b", "(+ a b)"},
		{"a - b + c", "(- a (+ b c))"},
		{"a * 2 + 1", "(* a (+ #2 #1))"},
		{"1 << 4 | 1", "(<< #1 (| #4 #1))"},
		{"x >> 2 & 0xFF ^ y", "(>> x (& #2 (^ #0xFF y)))"},
		{"-1", "(- #1)"},
		{"~mask", "(~ mask)"},
		{"(a + b) / 2", "(/ {(+ a b)} #2)"},
		{"[ebx]", "[ebx]"},
		{"[ebx + ecx*4 + 8]", "[(+ ebx (* ecx (+ #4 #8)))]"},
		{"dword [esp + 4]", "dword[(+ esp #4)]"},
		{"BYTE [si]", "BYTE[si]"},
		{"qword [rel]", "qword[rel]"},
		{"word", "word"},
		{"$ - $$", "(- $ $$)"},
		{"'\\n'", "'\\n'"},
		{"\"text\"", "\"text\""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			line := codeLine(t, mustParse(t, "push "+tt.input+"\n")[0])
			if got := exprString(line.Instruction.Operands[0]); got != tt.want {
				t.Errorf("expression = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParser_Prefixes(t *testing.T) {
	t.Run("named", func(t *testing.T) {
		instr := codeLine(t, mustParse(t, "lock xadd [ebx], eax\n")[0]).Instruction
		prefix, ok := instr.Prefix.(*asmast.NamedPrefix)
		if !ok || prefix.Name != "lock" {
			t.Fatalf("Expected lock prefix, got %#v", instr.Prefix)
		}
		if instr.Mnemonic != "xadd" || len(instr.Operands) != 2 {
			t.Errorf("Unexpected instruction %+v", instr)
		}
	})

	t.Run("times", func(t *testing.T) {
		instr := codeLine(t, mustParse(t, "times 510 - ($ - $$) db 0\n")[0]).Instruction
		prefix, ok := instr.Prefix.(*asmast.TimesPrefix)
		if !ok {
			t.Fatalf("Expected times prefix, got %#v", instr.Prefix)
		}
		if got := exprString(prefix.Count); got != "(- #510 {(- $ $$)})" {
			t.Errorf("Count = %s", got)
		}
		if instr.Mnemonic != "db" || exprString(instr.Operands[0]) != "#0" {
			t.Errorf("Unexpected instruction %+v", instr)
		}
	})

	t.Run("prefix without instruction", func(t *testing.T) {
		_, err := parse("rep eax\n")
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("Expected SyntaxError, got %v", err)
		}
	})
}

func TestParser_Directives(t *testing.T) {
	tests := []struct {
		input string
		name  string
		arg   string
	}{
		{"[bits 64]\n", "bits", "#64"},
		{"bits 32\n", "bits", "#32"},
		{"section .text\n", "section", ".text"},
		{"[SECTION .data]", "SECTION", ".data"},
		{"global _start\n", "global", "_start"},
		{"org 0x7C00\n", "org", "#0x7C00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lines := mustParse(t, tt.input)
			d, ok := lines[0].(*asmast.DirectiveLine)
			if !ok {
				t.Fatalf("Expected *ast.DirectiveLine, got %T", lines[0])
			}
			if d.Name != tt.name {
				t.Errorf("Name = %q, want %q", d.Name, tt.name)
			}
			if got := exprString(d.Arg); got != tt.arg {
				t.Errorf("Arg = %s, want %s", got, tt.arg)
			}
		})
	}
}

func TestParser_Macros(t *testing.T) {
	lines := mustParse(t, "%define SIZE 4 * 1024\n%define DEBUG\n%assign count count + 1\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	def, ok := lines[0].(*asmast.MacroDefineLine)
	if !ok || def.Name != "SIZE" || exprString(def.Value) != "(* #4 #1024)" {
		t.Errorf("Unexpected define %#v", lines[0])
	}
	empty, ok := lines[1].(*asmast.MacroDefineLine)
	if !ok || empty.Name != "DEBUG" || empty.Value != nil {
		t.Errorf("Unexpected empty define %#v", lines[1])
	}
	assign, ok := lines[2].(*asmast.MacroAssignLine)
	if !ok || assign.Name != "count" || exprString(assign.Value) != "(+ count #1)" {
		t.Errorf("Unexpected assign %#v", lines[2])
	}
}

func TestParser_Struc(t *testing.T) {
	src := "struc point\n.x: resd 1\n\n.y: resd 1 ; second\nendstruc\n"
	lines := mustParse(t, src)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}

	def, ok := lines[0].(*asmast.StructDefinition)
	if !ok {
		t.Fatalf("Expected *ast.StructDefinition, got %T", lines[0])
	}
	if def.Name != "point" || len(def.Fields) != 3 {
		t.Fatalf("Unexpected struc %q with %d fields", def.Name, len(def.Fields))
	}
	if def.Fields[0].Label != ".x" || !def.Fields[1].IsEmpty() || def.Fields[2].Comment.Text != "second" {
		t.Errorf("Unexpected fields %+v", def.Fields)
	}
}

func TestParser_Istruc(t *testing.T) {
	lines := mustParse(t, "istruc point\n  at .x, dd 1\n  at .y, times 2 dw 0\niend\n")
	inst, ok := lines[0].(*asmast.StructInstantiation)
	if !ok {
		t.Fatalf("Expected *ast.StructInstantiation, got %T", lines[0])
	}
	if inst.Name != "point" || len(inst.Fields) != 2 {
		t.Fatalf("Unexpected istruc %q with %d fields", inst.Name, len(inst.Fields))
	}
	if inst.Fields[0].Name != ".x" || inst.Fields[0].Instruction.Mnemonic != "dd" {
		t.Errorf("Unexpected first field %+v", inst.Fields[0])
	}
	if _, ok := inst.Fields[1].Instruction.Prefix.(*asmast.TimesPrefix); !ok {
		t.Errorf("Expected times prefix in second field")
	}
}

func TestParser_TrailingComments(t *testing.T) {
	lines := mustParse(t, "section .text ; code\n[bits 16] ;boot\n%define DEBUG ; on\n%define SIZE 4 ; bytes\n%assign i 0 ; reset\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d", len(lines))
	}

	comments := make([]string, len(lines))
	for i, l := range lines {
		var c *asmast.Comment
		switch n := l.(type) {
		case *asmast.DirectiveLine:
			c = n.Comment
		case *asmast.MacroDefineLine:
			c = n.Comment
		case *asmast.MacroAssignLine:
			c = n.Comment
		default:
			t.Fatalf("Line %d: unexpected %T", i, l)
		}
		if c == nil {
			t.Fatalf("Line %d: expected comment", i)
		}
		comments[i] = c.Text
	}

	want := []string{"code", "boot", "on", "bytes", "reset"}
	if strings.Join(comments, "|") != strings.Join(want, "|") {
		t.Errorf("Comments = %q, want %q", comments, want)
	}
	if empty := lines[2].(*asmast.MacroDefineLine); empty.Value != nil {
		t.Errorf("Define without value should not take the comment as value, got %#v", empty.Value)
	}
	if d := lines[0].(*asmast.DirectiveLine); d.Bracketed || exprString(d.Arg) != ".text" {
		t.Errorf("Unexpected directive %+v", d)
	}
	if d := lines[1].(*asmast.DirectiveLine); !d.Bracketed {
		t.Error("Expected bracketed directive")
	}
}

func TestParser_IstrucCommentsAndBlankLines(t *testing.T) {
	src := "istruc point\n; origin\n  at .x, dd 1 ; x axis\n\n  at .y, dd 2\niend\n"
	lines := mustParse(t, src)

	inst, ok := lines[0].(*asmast.StructInstantiation)
	if !ok {
		t.Fatalf("Expected *ast.StructInstantiation, got %T", lines[0])
	}
	if len(inst.Fields) != 4 {
		t.Fatalf("Expected 4 body lines, got %d", len(inst.Fields))
	}

	f := inst.Fields
	if f[0].IsEntry() || f[0].Comment == nil || f[0].Comment.Text != "origin" {
		t.Errorf("Body line 0 = %+v, want comment-only line", f[0])
	}
	if !f[1].IsEntry() || f[1].Comment == nil || f[1].Comment.Text != "x axis" {
		t.Errorf("Body line 1 = %+v, want entry with comment", f[1])
	}
	if f[2].IsEntry() || f[2].Comment != nil {
		t.Errorf("Body line 2 = %+v, want blank line", f[2])
	}
	if f[3].Name != ".y" || f[3].Comment != nil {
		t.Errorf("Body line 3 = %+v", f[3])
	}
}

func TestParser_BlankLinesPreserved(t *testing.T) {
	lines := mustParse(t, "nop\n\n\n\nnop\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d", len(lines))
	}
	for i := 1; i <= 3; i++ {
		if !codeLine(t, lines[i]).IsEmpty() {
			t.Errorf("Line %d should be blank", i)
		}
	}
}

func TestParser_MissingComma(t *testing.T) {
	lines, err := parse("nop\nmov eax eax\nret\n")

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected SyntaxError, got %v", err)
	}
	if syntaxErr.Pos != (asmast.Position{Line: 2, Column: 8}) {
		t.Errorf("Pos = %s, want 2:8", syntaxErr.Pos)
	}
	if len(syntaxErr.Expected) != 2 || syntaxErr.Expected[0] != TokenComma || syntaxErr.Expected[1] != TokenNewline {
		t.Errorf("Expected = %v, want [COMMA NEWLINE]", syntaxErr.Expected)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines (parsed + marker), got %d", len(lines))
	}
	marker, ok := lines[1].(*asmast.ErrorLine)
	if !ok {
		t.Fatalf("Expected trailing *ast.ErrorLine, got %T", lines[1])
	}
	if marker.Start != syntaxErr.Pos || marker.Message != err.Error() {
		t.Errorf("Unexpected marker %+v", marker)
	}
	if len(marker.Trace) == 0 || marker.Trace[0] != "line" {
		t.Errorf("Trace = %v, want to start with line", marker.Trace)
	}
}

func TestParser_LexerErrorStopsParse(t *testing.T) {
	lines, err := parse("nop\nmov al, 'a\nret\n")

	var charErr *UnexpectedCharError
	if !errors.As(err, &charErr) {
		t.Fatalf("Expected UnexpectedCharError, got %v", err)
	}
	if charErr.Pos != (asmast.Position{Line: 2, Column: 10}) {
		t.Errorf("Pos = %s, want 2:10", charErr.Pos)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	marker := lines[1].(*asmast.ErrorLine)
	want := []string{"line", "instruction", "operand", "expression"}
	if strings.Join(marker.Trace, ">") != strings.Join(want, ">") {
		t.Errorf("Trace = %v, want %v", marker.Trace, want)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown macro", "%macro foo 1\n"},
		{"assign without value", "%assign x\n"},
		{"comment inside directive", "[bits 64 ; mode]\n"},
		{"istruc entry after comment", "istruc point\n; x\nat .x, dd 1 2\niend\n"},
		{"unclosed directive", "[bits 64\n"},
		{"unclosed bracket", "mov eax, [ebx\n"},
		{"unclosed paren", "mov eax, (1 + 2\n"},
		{"dangling operator", "add eax, 1 +\n"},
		{"trailing comma", "mov eax,\n"},
		{"stray comma", ", eax\n"},
		{"unterminated struc", "struc point\n.x: resd 1\n"},
		{"directive in struc", "struc point\nbits 16\nendstruc\n"},
		{"struc without newline", "struc point .x\n"},
		{"bad istruc entry", "istruc point\n.x dd 1\niend\n"},
		{"istruc missing comma", "istruc point\nat .x dd 1\niend\n"},
		{"unterminated istruc", "istruc point\nat .x, dd 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := parse(tt.input)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Expected SyntaxError, got %v", err)
			}
			if _, ok := lines[len(lines)-1].(*asmast.ErrorLine); !ok {
				t.Errorf("Expected trailing ErrorLine, got %T", lines[len(lines)-1])
			}
		})
	}
}

func TestParser_LogsFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := asmlog.NewWithConfig(asmlog.Config{Level: asmlog.LevelWarn, Output: buf})

	lexer := NewLexer(strings.NewReader("mov eax eax\n"), nil)
	if _, err := New(lexer, Options{Logger: logger}).Parse(); err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(buf.String(), "Parsing stopped") || !strings.Contains(buf.String(), "component=parser") {
		t.Errorf("Expected warn log, got %q", buf.String())
	}
}
