package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pipeline the error occurred
type Phase string

const (
	PhaseScan       Phase = "scan"       // entity record scanning
	PhaseTokenize   Phase = "tokenize"   // argument span lexing
	PhaseDecode     Phase = "decode"     // token tree to attributes
	PhaseResolve    Phase = "resolve"    // entity reference resolution
	PhaseSpatial    Phase = "spatial"    // containment tree construction
	PhaseProperties Phase = "properties" // property set extraction
	PhaseTessellate Phase = "tessellate" // mesh construction
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax           Kind = "syntax"
	KindMalformedRecord  Kind = "malformed_record"
	KindEntityNotFound   Kind = "entity_not_found"
	KindInvalidAttribute Kind = "invalid_attribute"
	KindUnsupportedType  Kind = "unsupported_type"
	KindProfile          Kind = "profile"
	KindTriangulation    Kind = "triangulation"
	KindCsg              Kind = "csg"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is the structured error type used throughout the module.
// Offset is a byte offset into the source file (-1 when not applicable);
// Entity is the owning entity id (0 when not applicable); Index is the
// attribute index within that entity (-1 when not applicable).
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Offset int64
	Entity uint32
	Index  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Entity != 0 {
		fmt.Fprintf(&b, " #%d", e.Entity)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, " attr %d", e.Index)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by phase and kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
			Index:  -1,
		},
	}
}

// Offset sets the byte offset
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Entity sets the owning entity id
func (b *Builder) Entity(id uint32) *Builder {
	b.err.Entity = id
	return b
}

// Index sets the attribute index
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedRecord creates a structural scan error at a byte offset
func MalformedRecord(offset int64, detail string) *Error {
	return &Error{
		Phase:  PhaseScan,
		Kind:   KindMalformedRecord,
		Offset: offset,
		Index:  -1,
		Detail: detail,
	}
}

// Syntax creates a tokenizer error at a byte offset
func Syntax(offset int64, detail string) *Error {
	return &Error{
		Phase:  PhaseTokenize,
		Kind:   KindSyntax,
		Offset: offset,
		Index:  -1,
		Detail: detail,
	}
}

// EntityNotFound creates a dangling-reference error
func EntityNotFound(id uint32) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindEntityNotFound,
		Entity: id,
		Offset: -1,
		Index:  -1,
		Detail: "entity not found",
	}
}

// InvalidAttribute creates an attribute arity/type error
func InvalidAttribute(id uint32, index int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidAttribute,
		Entity: id,
		Index:  index,
		Offset: -1,
		Detail: detail,
	}
}

// UnsupportedType creates an error for geometry entities with no processor
func UnsupportedType(id uint32, typeName string) *Error {
	return &Error{
		Phase:  PhaseTessellate,
		Kind:   KindUnsupportedType,
		Entity: id,
		Offset: -1,
		Index:  -1,
		Detail: typeName,
	}
}

// Profile creates a profile extraction error
func Profile(id uint32, detail string) *Error {
	return &Error{
		Phase:  PhaseTessellate,
		Kind:   KindProfile,
		Entity: id,
		Offset: -1,
		Index:  -1,
		Detail: detail,
	}
}

// Triangulation creates a triangulation error
func Triangulation(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseTessellate,
		Kind:   KindTriangulation,
		Offset: -1,
		Index:  -1,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Csg creates a void subtraction error
func Csg(id uint32, detail string) *Error {
	return &Error{
		Phase:  PhaseTessellate,
		Kind:   KindCsg,
		Entity: id,
		Offset: -1,
		Index:  -1,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Index:  -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Index:  -1,
		Detail: detail,
		Cause:  cause,
	}
}
