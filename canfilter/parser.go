package canfilter

import (
	"strconv"
	"unicode"
)

// Parse tokenizes input against the grammar
//
//	input := (ws | ',')* (token (ws* (',' | ws) ws*)*)? ws*
//	token  := number | number ws* '-' ws* number
//	number := C-style integer literal (decimal, 0-prefixed octal, 0x hex)
//
// and streams the resulting single-ID and range directives into b,
// dispatching each to the standard-side or extended-side Builder operation
// by magnitude: both endpoints <= MaxStdID go to the standard side, both
// <= MaxExtID go to the extended side, otherwise the parse fails. An empty
// input is a successful no-op.
func Parse(b Builder, input string) error {
	runes := []rune(input)
	pos, n := 0, len(runes)

	skipSpace := func() {
		for pos < n && unicode.IsSpace(runes[pos]) {
			pos++
		}
	}
	skipSpaceOrComma := func() {
		for pos < n && (unicode.IsSpace(runes[pos]) || runes[pos] == ',') {
			pos++
		}
	}
	readNumber := func() (uint64, bool) {
		start := pos
		if pos < n && runes[pos] == '0' && pos+1 < n && (runes[pos+1] == 'x' || runes[pos+1] == 'X') {
			pos += 2
			for pos < n && isHexDigit(runes[pos]) {
				pos++
			}
		} else {
			for pos < n && unicode.IsDigit(runes[pos]) {
				pos++
			}
		}
		if pos == start {
			return 0, false
		}
		v, err := strconv.ParseUint(string(runes[start:pos]), 0, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	skipSpace()
	skipSpaceOrComma()
	for pos < n {
		id1, ok := readNumber()
		if !ok {
			return Param
		}

		skipSpace()
		isRange := pos < n && runes[pos] == '-'
		if isRange {
			pos++
			skipSpace()
			id2, ok := readNumber()
			if !ok {
				return Param
			}
			if err := dispatchRange(b, id1, id2); err != nil {
				return err
			}
		} else {
			if err := dispatchSingle(b, id1); err != nil {
				return err
			}
		}

		skipSpaceOrComma()
	}

	return nil
}

// ParseAll parses each buffer in order, equivalent to concatenating them.
func ParseAll(b Builder, inputs []string) error {
	for _, in := range inputs {
		if err := Parse(b, in); err != nil {
			return err
		}
	}
	return nil
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func dispatchSingle(b Builder, id uint64) error {
	switch {
	case id <= MaxStdID:
		return b.AddStdID(uint32(id))
	case id <= MaxExtID:
		return b.AddExtID(uint32(id))
	default:
		return Param
	}
}

func dispatchRange(b Builder, a, c uint64) error {
	switch {
	case a <= MaxStdID && c <= MaxStdID:
		return b.AddStdRange(uint32(a), uint32(c))
	case a <= MaxExtID && c <= MaxExtID:
		return b.AddExtRange(uint32(a), uint32(c))
	default:
		return Param
	}
}

// Directive is the parsed, classified shape of a single token, useful for
// callers that want to inspect a filter definition without compiling it.
type Directive struct {
	Extended   bool
	IsRange    bool
	Begin, End uint32
}

// Directives parses input and returns its directives without building a
// hardware image, e.g. for the CLI's dump subcommand.
func Directives(input string) ([]Directive, error) {
	var out []Directive
	rec := &recorder{}
	if err := Parse(rec, input); err != nil {
		return nil, err
	}
	out = rec.directives
	return out, nil
}

type recorder struct {
	directives []Directive
}

func (r *recorder) Begin() error { return nil }
func (r *recorder) AddStdID(id uint32) error {
	r.directives = append(r.directives, Directive{Begin: id, End: id})
	return nil
}
func (r *recorder) AddExtID(id uint32) error {
	r.directives = append(r.directives, Directive{Extended: true, Begin: id, End: id})
	return nil
}
func (r *recorder) AddStdRange(begin, end uint32) error {
	r.directives = append(r.directives, Directive{IsRange: true, Begin: begin, End: end})
	return nil
}
func (r *recorder) AddExtRange(begin, end uint32) error {
	r.directives = append(r.directives, Directive{Extended: true, IsRange: true, Begin: begin, End: end})
	return nil
}
func (r *recorder) End() error     { return nil }
func (r *recorder) Image() []byte  { return nil }
func (r *recorder) Usage() []Usage { return nil }
func (r *recorder) String() string { return "" }

var _ Builder = (*recorder)(nil)
