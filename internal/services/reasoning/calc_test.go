package reasoning

import (
	"testing"
)

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "Addition", input: "2+2", want: 4},
		{name: "Precedence", input: "2 + 2 * 3", want: 8},
		{name: "Parentheses", input: "(2 + 2) * 3", want: 12},
		{name: "Division", input: "10 / 4", want: 2.5},
		{name: "Unary minus", input: "-5 + 3", want: -2},
		{name: "Nested parens", input: "((1 + 2) * (3 + 4))", want: 21},
		{name: "Decimal numbers", input: "0.1 + 0.2", want: 0.30000000000000004},
		{name: "Division by zero", input: "1 / 0", wantErr: true},
		{name: "Division by zero expression", input: "5 / (3 - 3)", wantErr: true},
		{name: "Code injection attempt", input: "import os", wantErr: true},
		{name: "Function call attempt", input: "exec(1)", wantErr: true},
		{name: "Trailing garbage", input: "1 + 2; rm -rf", wantErr: true},
		{name: "Empty input", input: "", wantErr: true},
		{name: "Unbalanced paren", input: "(1 + 2", wantErr: true},
		{name: "Letters only", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalArithmetic(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("evalArithmetic(%q) = %v, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("evalArithmetic(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("evalArithmetic(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractCalcExpr(t *testing.T) {
	tests := []struct {
		name      string
		draft     string
		wantExpr  string
		wantFound bool
	}{
		{
			name:      "Simple expression",
			draft:     "The total is calc(2+2) units.",
			wantExpr:  "2+2",
			wantFound: true,
		},
		{
			name:      "Nested parentheses",
			draft:     "Result: calc((1+2)*(3+4))",
			wantExpr:  "(1+2)*(3+4)",
			wantFound: true,
		},
		{
			name:      "First call only",
			draft:     "calc(1+1) and later calc(2+2)",
			wantExpr:  "1+1",
			wantFound: true,
		},
		{
			name:      "No call present",
			draft:     "There is no tool invocation here.",
			wantFound: false,
		},
		{
			name:      "Unbalanced parentheses",
			draft:     "broken calc(1 + (2",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, found := extractCalcExpr(tt.draft)
			if found != tt.wantFound {
				t.Fatalf("extractCalcExpr(%q) found = %v, want %v", tt.draft, found, tt.wantFound)
			}
			if found && expr != tt.wantExpr {
				t.Errorf("extractCalcExpr(%q) = %q, want %q", tt.draft, expr, tt.wantExpr)
			}
		})
	}
}

func TestFormatCalcResult(t *testing.T) {
	if got := formatCalcResult(8.0); got != "8" {
		t.Errorf("formatCalcResult(8.0) = %q, want %q", got, "8")
	}
	if got := formatCalcResult(2.5); got != "2.5" {
		t.Errorf("formatCalcResult(2.5) = %q, want %q", got, "2.5")
	}
	if got := formatCalcResult(-3); got != "-3" {
		t.Errorf("formatCalcResult(-3) = %q, want %q", got, "-3")
	}
}
