package step

import (
	"bytes"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/meshgrid/stepmesh/errors"
)

// progressChunk is the byte cadence for progress reporting during a scan.
const progressChunk = 1 << 16

// Scanner locates entity record boundaries (`#id = TYPE(args);`) in a STEP
// DATA section body without parsing argument structure. It produces records
// in file order and is not restartable without re-scanning.
//
// Usage follows bufio.Scanner:
//
//	sc := step.NewScanner(body)
//	for sc.Scan() {
//	    ent := sc.Entity()
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
//
// Malformed records are reported through Err with their byte offset; the
// scanner recovers at the next record terminator so the remaining
// well-formed entities are still produced.
type Scanner struct {
	progress ProgressFunc
	data     []byte
	errs     []error
	ent      RawEntity
	pos      int
	nextMark int
	count    int
	done     bool
}

// NewScanner creates a scanner over the body of a STEP DATA section.
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data, nextMark: progressChunk}
}

// SetProgress installs a progress callback, invoked synchronously from the
// scanning thread of control. The callback is fire-and-forget; a panic in it
// propagates and aborts the scan.
func (s *Scanner) SetProgress(fn ProgressFunc) {
	s.progress = fn
}

// Scan advances to the next well-formed entity record, reporting true if one
// is available through Entity. Malformed records are recorded and skipped.
func (s *Scanner) Scan() bool {
	for !s.done {
		s.skipInsignificant()
		s.report()
		if s.pos >= len(s.data) {
			s.finish()
			return false
		}
		// Section terminators end the scan cleanly.
		if s.data[s.pos] != '#' {
			if s.atKeyword("ENDSEC") || s.atKeyword("END-ISO-10303-21") {
				s.finish()
				return false
			}
		}
		if s.scanRecord() {
			s.count++
			return true
		}
	}
	return false
}

// Entity returns the record produced by the last successful Scan. The
// argument span aliases the scanner's input and stays valid for its lifetime.
func (s *Scanner) Entity() RawEntity {
	return s.ent
}

// Err returns the structural errors encountered during the scan, joined, or
// nil if every record parsed cleanly.
func (s *Scanner) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	return stderrors.Join(s.errs...)
}

// Count returns the number of well-formed records produced so far.
func (s *Scanner) Count() int {
	return s.count
}

func (s *Scanner) finish() {
	if !s.done {
		s.done = true
		if s.progress != nil {
			s.progress("scan", 1.0)
		}
	}
}

func (s *Scanner) report() {
	if s.progress == nil || s.pos < s.nextMark || len(s.data) == 0 {
		return
	}
	f := float64(s.pos) / float64(len(s.data))
	if f > 1 {
		f = 1
	}
	s.progress("scan", f)
	for s.nextMark <= s.pos {
		s.nextMark += progressChunk
	}
}

// scanRecord parses one `#id = TYPE(args);` record starting at s.pos.
// On a structural error it records the error, recovers past the next
// terminator and reports false.
func (s *Scanner) scanRecord() bool {
	start := s.pos

	fail := func(detail string) bool {
		err := errors.MalformedRecord(int64(start), detail)
		s.errs = append(s.errs, err)
		Logger().Debug("malformed record",
			zap.Int64("offset", int64(start)),
			zap.String("detail", detail))
		s.recover()
		return false
	}

	if s.data[s.pos] != '#' {
		return fail("expected '#' at record start")
	}
	s.pos++

	idStart := s.pos
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == idStart {
		return fail("expected digits after '#'")
	}
	var id uint64
	for _, c := range s.data[idStart:s.pos] {
		id = id*10 + uint64(c-'0')
		if id > 0xFFFFFFFF {
			return fail("entity id overflows 32 bits")
		}
	}

	s.skipInsignificant()
	if s.pos >= len(s.data) || s.data[s.pos] != '=' {
		return fail("expected '=' after entity id")
	}
	s.pos++
	s.skipInsignificant()

	typeStart := s.pos
	for s.pos < len(s.data) && isTypeChar(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == typeStart {
		return fail("expected type name after '='")
	}
	typeName := string(s.data[typeStart:s.pos])

	s.skipInsignificant()
	if s.pos >= len(s.data) || s.data[s.pos] != '(' {
		return fail("expected '(' after type name")
	}
	s.pos++
	argsStart := s.pos

	// Find the matching close paren without parsing structure. Parens and
	// semicolons inside quoted strings do not count.
	depth := 1
	for s.pos < len(s.data) && depth > 0 {
		switch s.data[s.pos] {
		case '\'':
			s.skipString()
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		s.pos++
	}
	if depth != 0 {
		return fail("unterminated argument list")
	}
	argsEnd := s.pos - 1

	s.skipInsignificant()
	if s.pos >= len(s.data) || s.data[s.pos] != ';' {
		return fail("expected ';' after argument list")
	}
	s.pos++

	s.ent = RawEntity{
		ID:         EntityID(id),
		Type:       typeName,
		Args:       s.data[argsStart:argsEnd],
		Offset:     int64(start),
		ArgsOffset: int64(argsStart),
	}
	return true
}

// recover skips past the next record terminator, or stops at the next '#'
// when the malformed record has no terminator of its own, so scanning can
// continue. Semicolons inside quoted strings are ignored.
func (s *Scanner) recover() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\'':
			s.skipString()
		case ';':
			s.pos++
			return
		case '#':
			return
		default:
			s.pos++
		}
	}
}

// skipString advances past a quoted string starting at s.pos, honoring the
// '' escape for embedded quotes.
func (s *Scanner) skipString() {
	s.pos++ // opening quote
	for s.pos < len(s.data) {
		if s.data[s.pos] == '\'' {
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '\'' {
				s.pos += 2
				continue
			}
			s.pos++
			return
		}
		s.pos++
	}
}

// skipInsignificant advances past whitespace and /* */ comments.
func (s *Scanner) skipInsignificant() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			s.pos++
			continue
		}
		if c == '/' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '*' {
			end := bytes.Index(s.data[s.pos+2:], []byte("*/"))
			if end < 0 {
				s.pos = len(s.data)
				return
			}
			s.pos += 2 + end + 2
			continue
		}
		return
	}
}

func (s *Scanner) atKeyword(kw string) bool {
	return s.pos+len(kw) <= len(s.data) &&
		string(s.data[s.pos:s.pos+len(kw)]) == kw
}

// DataSection extracts the DATA section body from a complete STEP file,
// reporting the byte offset of the body within the input. When the input has
// no DATA/ENDSEC framing it is assumed to already be a bare body.
func DataSection(file []byte) (body []byte, offset int64) {
	start := bytes.Index(file, []byte("DATA;"))
	if start < 0 {
		return file, 0
	}
	start += len("DATA;")
	end := bytes.Index(file[start:], []byte("ENDSEC;"))
	if end < 0 {
		return file[start:], int64(start)
	}
	return file[start : start+end], int64(start)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isTypeChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
