// Package step implements the lexical layer of the STEP (ISO 10303-21)
// pipeline: a byte-level scanner that locates entity records in a DATA
// section body, and a tokenizer that lexes one entity's argument span into a
// structural token tree.
//
// Neither component knows anything about IFC semantics. The scanner defers
// all argument parsing to decode time by handing out opaque spans, which is
// what makes gigabyte-scale inputs tractable: the cost of a record is paid
// only when someone asks for it.
//
// # Scanning
//
//	body, _ := step.DataSection(fileBytes)
//	sc := step.NewScanner(body)
//	for sc.Scan() {
//	    ent := sc.Entity() // RawEntity{ID, Type, Args, Offset}
//	}
//	if err := sc.Err(); err != nil {
//	    // structural errors, tagged with byte offsets
//	}
//
// # Tokenizing
//
//	toks, err := step.Tokenize(ent.Args, ent.ArgsOffset)
//
// Tokenize is pure and safe to call concurrently across entities.
package step
