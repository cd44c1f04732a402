package charset

import (
	"fmt"
	"strings"

	"github.com/oy3o/nio"
	"github.com/puzpuzpuz/xsync/v4"
)

type resultKind uint8

const (
	kindUnderflow resultKind = iota
	kindOverflow
	kindMalformed
	kindUnmappable
)

// CoderResult describes why a decode or encode step stopped. Results are
// immutable and compared by identity: Underflow and Overflow are singletons
// and error results are interned per length.
type CoderResult struct {
	kind   resultKind
	length int
}

var (
	// Underflow means more input is needed, or the input is exhausted.
	Underflow = &CoderResult{kind: kindUnderflow}

	// Overflow means the output buffer has no room for the next unit.
	Overflow = &CoderResult{kind: kindOverflow}
)

var (
	malformedCache  = xsync.NewMap[int, *CoderResult]()
	unmappableCache = xsync.NewMap[int, *CoderResult]()
)

func cachedResult(cache *xsync.Map[int, *CoderResult], k resultKind, length int) (*CoderResult, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: result length %d", nio.ErrIllegalArgument, length)
	}
	r, _ := cache.LoadOrCompute(length, func() (*CoderResult, bool) {
		return &CoderResult{kind: k, length: length}, false
	})
	return r, nil
}

// MalformedForLength returns the malformed-input result of the given length.
// Repeated calls with the same length return the same value.
func MalformedForLength(length int) (*CoderResult, error) {
	return cachedResult(malformedCache, kindMalformed, length)
}

// UnmappableForLength returns the unmappable-character result of the given length.
func UnmappableForLength(length int) (*CoderResult, error) {
	return cachedResult(unmappableCache, kindUnmappable, length)
}

// malformed and unmappable are used by codec loops, which never pass a length below one.
func malformed(length int) *CoderResult {
	r, _ := MalformedForLength(length)
	return r
}

func unmappable(length int) *CoderResult {
	r, _ := UnmappableForLength(length)
	return r
}

func (r *CoderResult) IsUnderflow() bool  { return r.kind == kindUnderflow }
func (r *CoderResult) IsOverflow() bool   { return r.kind == kindOverflow }
func (r *CoderResult) IsError() bool      { return r.kind >= kindMalformed }
func (r *CoderResult) IsMalformed() bool  { return r.kind == kindMalformed }
func (r *CoderResult) IsUnmappable() bool { return r.kind == kindUnmappable }

// Length returns the number of erroneous input units.
func (r *CoderResult) Length() (int, error) {
	if !r.IsError() {
		return 0, fmt.Errorf("%w: length of %s", ErrUnsupportedOperation, r)
	}
	return r.length, nil
}

// Err returns the error this result stands for: nio.ErrBufferUnderflow,
// nio.ErrBufferOverflow, *MalformedInputError or *UnmappableCharacterError.
func (r *CoderResult) Err() error {
	switch r.kind {
	case kindUnderflow:
		return nio.ErrBufferUnderflow
	case kindOverflow:
		return nio.ErrBufferOverflow
	case kindMalformed:
		return &MalformedInputError{Length: r.length}
	default:
		return &UnmappableCharacterError{Length: r.length}
	}
}

func (r *CoderResult) String() string {
	switch r.kind {
	case kindUnderflow:
		return "UNDERFLOW"
	case kindOverflow:
		return "OVERFLOW"
	case kindMalformed:
		return fmt.Sprintf("MALFORMED[%d]", r.length)
	default:
		return fmt.Sprintf("UNMAPPABLE[%d]", r.length)
	}
}

// CodingErrorAction selects how a coder treats malformed or unmappable input.
type CodingErrorAction uint8

const (
	// Report stops the coder and returns the error result. It is the default.
	Report CodingErrorAction = iota
	// Ignore drops the erroneous input and continues.
	Ignore
	// Replace drops the erroneous input, writes the replacement and continues.
	Replace
)

func (a CodingErrorAction) String() string {
	switch a {
	case Ignore:
		return "IGNORE"
	case Replace:
		return "REPLACE"
	default:
		return "REPORT"
	}
}

// ParseAction maps IGNORE, REPLACE or REPORT, in any case, to its action.
func ParseAction(s string) (CodingErrorAction, error) {
	switch {
	case strings.EqualFold(s, "report"):
		return Report, nil
	case strings.EqualFold(s, "ignore"):
		return Ignore, nil
	case strings.EqualFold(s, "replace"):
		return Replace, nil
	}
	return Report, fmt.Errorf("%w: coding error action %q", nio.ErrIllegalArgument, s)
}
