package nio

import "fmt"

const noMark = -1

// cursor is the position/limit/mark state shared by every buffer kind.
// It maintains 0 <= mark <= position <= limit <= capacity whenever mark is set.
type cursor struct {
	capacity int
	limit    int
	position int
	mark     int
}

func newCursor(capacity int) cursor {
	return cursor{capacity: capacity, limit: capacity, mark: noMark}
}

// Capacity returns the fixed number of elements the buffer can hold.
func (c *cursor) Capacity() int { return c.capacity }

// Limit returns the index of the first element that should not be read or written.
func (c *cursor) Limit() int { return c.limit }

// Position returns the index of the next element to be read or written.
func (c *cursor) Position() int { return c.position }

// Remaining returns the number of elements between the position and the limit.
func (c *cursor) Remaining() int { return c.limit - c.position }

// HasRemaining reports whether any element lies between the position and the limit.
func (c *cursor) HasRemaining() bool { return c.position < c.limit }

// SetLimit sets the buffer's limit. If the position is larger than the new
// limit it is set to the new limit; a mark beyond the new limit is discarded.
func (c *cursor) SetLimit(newLimit int) error {
	if newLimit < 0 || newLimit > c.capacity {
		return fmt.Errorf("%w: limit %d outside [0, %d]", ErrIllegalArgument, newLimit, c.capacity)
	}
	c.limit = newLimit
	if c.position > newLimit {
		c.position = newLimit
	}
	if c.mark > newLimit {
		c.mark = noMark
	}
	return nil
}

// SetPosition sets the buffer's position. A mark beyond the new position is discarded.
func (c *cursor) SetPosition(newPosition int) error {
	if newPosition < 0 || newPosition > c.limit {
		return fmt.Errorf("%w: position %d outside [0, %d]", ErrIllegalArgument, newPosition, c.limit)
	}
	c.position = newPosition
	if c.mark > newPosition {
		c.mark = noMark
	}
	return nil
}

// Mark records the current position so Reset can return to it.
func (c *cursor) Mark() { c.mark = c.position }

// Reset moves the position back to the previously marked index.
func (c *cursor) Reset() error {
	if c.mark == noMark {
		return ErrInvalidMark
	}
	c.position = c.mark
	return nil
}

// Clear prepares the buffer for filling: position 0, limit at capacity, no mark.
func (c *cursor) Clear() {
	c.position = 0
	c.limit = c.capacity
	c.mark = noMark
}

// Flip prepares a just-filled buffer for draining: the limit becomes the
// current position and the position goes back to zero.
func (c *cursor) Flip() {
	c.limit = c.position
	c.position = 0
	c.mark = noMark
}

// Rewind moves the position back to zero and discards the mark. The limit is unchanged.
func (c *cursor) Rewind() {
	c.position = 0
	c.mark = noMark
}

// nextGet advances the position by n for a relative get and returns the
// index the get starts at.
func (c *cursor) nextGet(n int) (int, error) {
	if c.limit-c.position < n {
		return 0, fmt.Errorf("%w: need %d, remaining %d", ErrBufferUnderflow, n, c.limit-c.position)
	}
	p := c.position
	c.position += n
	return p, nil
}

// nextPut is nextGet for relative puts.
func (c *cursor) nextPut(n int) (int, error) {
	if c.limit-c.position < n {
		return 0, fmt.Errorf("%w: need %d, remaining %d", ErrBufferOverflow, n, c.limit-c.position)
	}
	p := c.position
	c.position += n
	return p, nil
}

// checkIndex validates an absolute access of n elements starting at i.
func (c *cursor) checkIndex(i, n int) error {
	if i < 0 || n > c.limit-i {
		return fmt.Errorf("%w: index %d (width %d), limit %d", ErrIndexOutOfBounds, i, n, c.limit)
	}
	return nil
}

func (c *cursor) state() string {
	return fmt.Sprintf("[pos=%d lim=%d cap=%d]", c.position, c.limit, c.capacity)
}
