package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidAttribute,
				Entity: 42,
				Index:  3,
				Offset: 1024,
				Detail: "expected reference",
			},
			contains: []string{"[decode]", "invalid_attribute", "#42", "attr 3", "offset 1024", "expected reference"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseScan,
				Kind:   KindMalformedRecord,
				Offset: -1,
				Index:  -1,
			},
			contains: []string{"[scan]", "malformed_record"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseTessellate,
				Kind:   KindTriangulation,
				Offset: -1,
				Index:  -1,
				Detail: "degenerate polygon",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[tessellate]", "triangulation", "degenerate polygon", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseDecode, KindSyntax, cause, "bad token")
	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to match wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap did not return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := EntityNotFound(7)
	b := EntityNotFound(99)
	if !errors.Is(a, b) {
		t.Error("errors with same phase/kind should match")
	}
	c := Syntax(0, "x")
	if errors.Is(a, c) {
		t.Error("errors with different phase/kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseTokenize, KindSyntax).
		Offset(55).
		Entity(3).
		Detail("unexpected %q", "@").
		Build()

	if err.Offset != 55 || err.Entity != 3 {
		t.Errorf("builder fields not set: %+v", err)
	}
	if !strings.Contains(err.Error(), `unexpected "@"`) {
		t.Errorf("detail formatting: %s", err.Error())
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := MalformedRecord(10, "no equals"); e.Offset != 10 || e.Kind != KindMalformedRecord {
		t.Errorf("MalformedRecord: %+v", e)
	}
	if e := UnsupportedType(5, "IFCBSPLINESURFACE"); e.Entity != 5 || !strings.Contains(e.Error(), "IFCBSPLINESURFACE") {
		t.Errorf("UnsupportedType: %+v", e)
	}
	if e := InvalidAttribute(9, 2, "wrong arity"); e.Index != 2 {
		t.Errorf("InvalidAttribute: %+v", e)
	}
}
