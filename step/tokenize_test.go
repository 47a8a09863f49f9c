package step_test

import (
	"errors"
	"testing"

	stperrors "github.com/meshgrid/stepmesh/errors"
	"github.com/meshgrid/stepmesh/step"
)

func TestTokenizeValues(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []step.Token
	}{
		{"null", "$", []step.Token{{Kind: step.TokenNull}}},
		{"derived", "*", []step.Token{{Kind: step.TokenDerived}}},
		{"reference", "#42", []step.Token{{Kind: step.TokenRef, Ref: 42}}},
		{"integer", "-17", []step.Token{{Kind: step.TokenInt, Int: -17}}},
		{"float trailing dot", "0.", []step.Token{{Kind: step.TokenFloat, Float: 0}}},
		{"float exponent", "1.5E-2", []step.Token{{Kind: step.TokenFloat, Float: 0.015}}},
		{"positive exponent no dot", "2E3", []step.Token{{Kind: step.TokenFloat, Float: 2000}}},
		{"string", "'hello'", []step.Token{{Kind: step.TokenString, Str: "hello"}}},
		{"string escape", "'it''s'", []step.Token{{Kind: step.TokenString, Str: "it's"}}},
		{"enum", ".STANDARD.", []step.Token{{Kind: step.TokenEnum, Str: "STANDARD"}}},
		{"enum bool", ".T.", []step.Token{{Kind: step.TokenEnum, Str: "T"}}},
		{
			"list", "(1,2)",
			[]step.Token{{Kind: step.TokenList, List: []step.Token{
				{Kind: step.TokenInt, Int: 1},
				{Kind: step.TokenInt, Int: 2},
			}}},
		},
		{"empty list", "()", []step.Token{{Kind: step.TokenList}}},
		{
			"typed value", "IFCLABEL('x')",
			[]step.Token{{Kind: step.TokenTyped, Str: "IFCLABEL", List: []step.Token{
				{Kind: step.TokenString, Str: "x"},
			}}},
		},
		{
			"nested",
			"((0.,0.),(1.,1.))",
			[]step.Token{{Kind: step.TokenList, List: []step.Token{
				{Kind: step.TokenList, List: []step.Token{
					{Kind: step.TokenFloat, Float: 0},
					{Kind: step.TokenFloat, Float: 0},
				}},
				{Kind: step.TokenList, List: []step.Token{
					{Kind: step.TokenFloat, Float: 1},
					{Kind: step.TokenFloat, Float: 1},
				}},
			}}},
		},
		{
			"mixed arguments",
			"'name',$,#3,.TRUE.,2.5",
			[]step.Token{
				{Kind: step.TokenString, Str: "name"},
				{Kind: step.TokenNull},
				{Kind: step.TokenRef, Ref: 3},
				{Kind: step.TokenEnum, Str: "TRUE"},
				{Kind: step.TokenFloat, Float: 2.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := step.Tokenize([]byte(tt.in), 0)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.in, err)
			}
			if !tokensEqual(got, tt.want) {
				t.Errorf("Tokenize(%q)\n got: %+v\nwant: %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeTypedNotEnum(t *testing.T) {
	// A bare identifier followed by '(' is a typed value; dots make an enum.
	got, err := step.Tokenize([]byte("IFCBOOLEAN(.T.)"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Kind != step.TokenTyped || got[0].Str != "IFCBOOLEAN" {
		t.Fatalf("outer: %+v", got[0])
	}
	if got[0].List[0].Kind != step.TokenEnum || got[0].List[0].Str != "T" {
		t.Fatalf("inner: %+v", got[0].List[0])
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bare identifier", "FOO"},
		{"unterminated string", "'abc"},
		{"unterminated list", "(1,2"},
		{"malformed enum", ".ABC"},
		{"stray byte", "@"},
		{"unbalanced close", "1)"},
		{"missing comma", "1 2"},
		{"empty exponent", "1E"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := step.Tokenize([]byte(tt.in), 100)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded", tt.in)
			}
			var serr *stperrors.Error
			if !errors.As(err, &serr) {
				t.Fatalf("error type %T", err)
			}
			if serr.Kind != stperrors.KindSyntax {
				t.Errorf("kind = %s", serr.Kind)
			}
			if serr.Offset < 100 {
				t.Errorf("offset %d not shifted by base", serr.Offset)
			}
		})
	}
}

func tokensEqual(a, b []step.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Kind != y.Kind || x.Str != y.Str || x.Int != y.Int ||
			x.Float != y.Float || x.Ref != y.Ref {
			return false
		}
		if !tokensEqual(x.List, y.List) {
			return false
		}
	}
	return true
}
