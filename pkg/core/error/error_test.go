package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("something failed")

	if err.Error() != "something failed" {
		t.Errorf("Expected message 'something failed', got %s", err.Error())
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Expected code %s, got %s", CodeUnknown, err.Code())
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Expected severity medium, got %s", err.Severity())
	}
	if len(err.StackTrace()) == 0 {
		t.Error("Expected a captured stack trace")
	}
	if !strings.Contains(err.StackTrace()[0].Function, "TestNew") {
		t.Errorf("Expected first frame in TestNew, got %s", err.StackTrace()[0].Function)
	}
}

func TestNewf(t *testing.T) {
	err := Newf("line %d", 7)
	if err.Error() != "line 7" {
		t.Errorf("Newf() = %q, want %q", err.Error(), "line 7")
	}
}

func TestWithCode_DerivesSeverity(t *testing.T) {
	tests := []struct {
		code     Code
		severity Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeUnexpectedCharacter, SeverityLow},
		{CodeIO, SeverityHigh},
		{CodeConfigError, SeverityHigh},
		{CodeUnknown, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.severity {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.severity)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := errors.New("disk full")
	wrapped := Wrap(base, "write output")

	if wrapped.Error() != "write output: disk full" {
		t.Errorf("Expected chained message, got %s", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestWrap_PreservesCodeAndDetails(t *testing.T) {
	inner := New("bad token").WithCode(CodeSyntax).WithDetail("line", 3)
	outer := Wrap(fmt.Errorf("parse: %w", inner), "format main.asm")

	if outer.Code() != CodeSyntax {
		t.Errorf("Expected code %s, got %s", CodeSyntax, outer.Code())
	}
	if outer.Details()["line"] != 3 {
		t.Errorf("Expected detail line=3, got %v", outer.Details()["line"])
	}
}

func TestGetCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New("x").WithCode(CodeNotFound))

	if GetCode(err) != CodeNotFound {
		t.Errorf("GetCode() = %s, want %s", GetCode(err), CodeNotFound)
	}
	if !HasCode(err, CodeNotFound) {
		t.Error("HasCode() should find code through wrapping")
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() on a plain error should be UNKNOWN")
	}
}

func TestString(t *testing.T) {
	err := New("bad table").
		WithCode(CodeInvalidKeywordTable).
		WithOperation("keywords.Load").
		WithDetail("path", "x.yaml").
		WithDetail("count", 2)

	s := err.String()
	for _, want := range []string{"Error: bad table", "Code: INVALID_KEYWORD_TABLE", "Operation: keywords.Load", "Details: {count=2, path=x.yaml}"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in %q", want, s)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("oops").WithCode(CodeInternal).WithOperation("render")

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal failed: %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal failed: %v", jerr)
	}
	if decoded["code"] != "INTERNAL" {
		t.Errorf("Expected code INTERNAL, got %v", decoded["code"])
	}
	if decoded["operation"] != "render" {
		t.Errorf("Expected operation render, got %v", decoded["operation"])
	}
	if _, ok := decoded["stack_trace"]; !ok {
		t.Error("Expected stack_trace in JSON output")
	}
}

func TestCode_IsSourceError(t *testing.T) {
	if !CodeSyntax.IsSourceError() || !CodeUnexpectedCharacter.IsSourceError() {
		t.Error("Syntax and lexical codes should be source errors")
	}
	if CodeIO.IsSourceError() {
		t.Error("IO_ERROR should not be a source error")
	}
}
