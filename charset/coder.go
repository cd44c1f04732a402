package charset

import "fmt"

// coderState tracks a Decoder or Encoder through reset, coding, end of
// input and flushed.
type coderState uint8

const (
	stateReset coderState = iota
	stateCoding
	stateEnd
	stateFlushed
)

func (s coderState) String() string {
	switch s {
	case stateReset:
		return "RESET"
	case stateCoding:
		return "CODING"
	case stateEnd:
		return "END"
	default:
		return "FLUSHED"
	}
}

// canCode reports whether a coding call may run from state s.
func (s coderState) canCode(endOfInput bool) bool {
	return s == stateReset || s == stateCoding || (endOfInput && s == stateEnd)
}

func illegalTransition(from, to coderState) error {
	return fmt.Errorf("%w: current state %s, new state %s", ErrIllegalState, from, to)
}

// skip advances b by n elements on behalf of a coding loop. A loop that
// reports more than b holds has malfunctioned.
func skip(b interface {
	Position() int
	SetPosition(int) error
}, n int) error {
	if n == 0 {
		return nil
	}
	if err := b.SetPosition(b.Position() + n); err != nil {
		return &CoderMalfunctionError{Err: err}
	}
	return nil
}

// normalize maps values outside the enumeration to Report.
func normalize(a CodingErrorAction) CodingErrorAction {
	if a > Replace {
		return Report
	}
	return a
}

