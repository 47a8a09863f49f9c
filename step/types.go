package step

// EntityID identifies one entity record within a STEP file. Ids are unique
// per file and stable for the file's lifetime; they need not be contiguous
// or ordered. An id is the only permitted way one entity refers to another.
type EntityID uint32

// RawEntity is one scanned entity record: the id, the uppercase type name,
// and the raw argument span between the outer parentheses, kept opaque until
// decode time. Offset is the byte offset of the record's '#' in the source;
// ArgsOffset is the byte offset of the first argument byte.
type RawEntity struct {
	Type       string
	Args       []byte
	Offset     int64
	ArgsOffset int64
	ID         EntityID
}

// ProgressFunc receives progress reports during scanning. It is invoked
// synchronously from the scanning goroutine with a phase label and a
// fraction in [0, 1] that is monotonically non-decreasing within one phase.
type ProgressFunc func(phase string, fraction float64)
